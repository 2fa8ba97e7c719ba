//go:build integration

package database

import (
	"context"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/modules/postgres"
	"github.com/testcontainers/testcontainers-go/wait"

	"github.com/javajoker/cardshop/internal/config"
	"github.com/javajoker/cardshop/internal/models"
)

func TestPostgresMigrations(t *testing.T) {
	ctx := context.Background()

	container, err := postgres.Run(ctx, "postgres:16-alpine",
		postgres.WithDatabase("cardshop"),
		postgres.WithUsername("cardshop"),
		postgres.WithPassword("cardshop"),
		testcontainers.WithWaitStrategy(
			wait.ForLog("database system is ready to accept connections").
				WithOccurrence(2).
				WithStartupTimeout(60*time.Second),
		),
	)
	require.NoError(t, err)
	t.Cleanup(func() { _ = container.Terminate(ctx) })

	host, err := container.Host(ctx)
	require.NoError(t, err)
	port, err := container.MappedPort(ctx, "5432")
	require.NoError(t, err)

	db, err := Initialize(config.DatabaseConfig{
		Driver:   "postgres",
		Host:     host,
		Port:     port.Port(),
		User:     "cardshop",
		Password: "cardshop",
		Database: "cardshop",
		SSLMode:  "disable",
		LogLevel: "silent",
	})
	require.NoError(t, err)
	defer Close(db)

	require.NoError(t, RunMigrations(db))

	card := &models.Card{
		ExternalID: "pg-1",
		Game:       "mtg",
		Name:       "Llanowar Elves",
		PriceUSD:   decimal.NewNullDecimal(decimal.RequireFromString("0.25")),
		Keywords:   models.StringArray{"Mana"},
		Legalities: models.JSONB{"modern": "legal"},
	}
	require.NoError(t, db.Create(card).Error)

	var loaded models.Card
	require.NoError(t, db.First(&loaded, "external_id = ?", "pg-1").Error)
	assert.Equal(t, "0.25", loaded.PriceUSD.Decimal.StringFixed(2))
	assert.Equal(t, []string{"Mana"}, []string(loaded.Keywords))
	assert.Equal(t, "legal", loaded.Legalities["modern"])
}
