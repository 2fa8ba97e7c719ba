package database

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"github.com/javajoker/cardshop/internal/config"
	"github.com/javajoker/cardshop/internal/models"
)

func TestInitializeRejectsUnknownDriver(t *testing.T) {
	_, err := Initialize(config.DatabaseConfig{Driver: "mysql"})
	assert.Error(t, err)
}

func TestMigrationsCreateTables(t *testing.T) {
	db := NewTestDB(t)

	for _, table := range []string{"users", "cards", "price_history", "cart_items", "wishlist", "orders", "order_items"} {
		assert.True(t, db.Migrator().HasTable(table), table)
	}
}

func TestWithTransactionRollsBack(t *testing.T) {
	db := NewTestDB(t)

	err := WithTransaction(db, func(tx *gorm.DB) error {
		require.NoError(t, tx.Create(&models.Card{ExternalID: "x-1", Game: "mtg", Name: "Opt"}).Error)
		return errors.New("abort")
	})
	assert.EqualError(t, err, "abort")

	var count int64
	db.Model(&models.Card{}).Count(&count)
	assert.Zero(t, count)

	err = WithTransaction(db, func(tx *gorm.DB) error {
		return tx.Create(&models.Card{ExternalID: "x-2", Game: "mtg", Name: "Opt"}).Error
	})
	require.NoError(t, err)
	db.Model(&models.Card{}).Count(&count)
	assert.Equal(t, int64(1), count)
}

func TestJSONAndArrayColumnsRoundTrip(t *testing.T) {
	db := NewTestDB(t)

	card := &models.Card{
		ExternalID: "x-3",
		Game:       "mtg",
		Name:       "Serra Angel",
		Keywords:   models.StringArray{"Flying", "Vigilance"},
		Legalities: models.JSONB{"commander": "legal"},
	}
	require.NoError(t, db.Create(card).Error)

	var loaded models.Card
	require.NoError(t, db.First(&loaded, "external_id = ?", "x-3").Error)
	assert.Equal(t, card.ID, loaded.ID)
	assert.Equal(t, []string{"Flying", "Vigilance"}, []string(loaded.Keywords))
	assert.Equal(t, "legal", loaded.Legalities["commander"])
}
