package services

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/javajoker/cardshop/internal/config"
	"github.com/javajoker/cardshop/internal/database"
	"github.com/javajoker/cardshop/internal/models"
	"github.com/javajoker/cardshop/internal/utils"
)

func testConfig() *config.Config {
	return &config.Config{
		JWT:   config.JWTConfig{SecretKey: "test-secret", AccessTokenTTL: 1},
		Admin: config.AdminConfig{Emails: []string{"owner@example.com"}},
	}
}

func TestRegisterAndLogin(t *testing.T) {
	db := database.NewTestDB(t)
	svc := NewAuthService(db, testConfig())
	ctx := context.Background()

	resp, err := svc.Register(ctx, &RegisterRequest{Email: "Player@Example.com", Name: "Player", Password: "TestPass123!"})
	require.NoError(t, err)
	assert.Equal(t, "player@example.com", resp.User.Email)
	assert.Equal(t, models.UserRoleUser, resp.User.Role)
	assert.Equal(t, "Bearer", resp.TokenType)
	assert.Equal(t, 3600, resp.ExpiresIn)

	claims, err := utils.ValidateJWT(resp.AccessToken)
	require.NoError(t, err)
	assert.Equal(t, resp.User.ID.String(), claims.UserID)
	assert.Equal(t, "user", claims.Role)

	_, err = svc.Register(ctx, &RegisterRequest{Email: "player@example.com", Password: "TestPass123!"})
	assert.ErrorIs(t, err, ErrUserExists)

	login, err := svc.Login(ctx, &LoginRequest{Email: "player@example.com", Password: "TestPass123!"})
	require.NoError(t, err)
	assert.NotNil(t, login.User.LastSignedIn)

	_, err = svc.Login(ctx, &LoginRequest{Email: "player@example.com", Password: "wrong"})
	assert.ErrorIs(t, err, ErrInvalidCredentials)

	_, err = svc.Login(ctx, &LoginRequest{Email: "nobody@example.com", Password: "TestPass123!"})
	assert.ErrorIs(t, err, ErrInvalidCredentials)
}

func TestRegisterGrantsAdminToListedEmails(t *testing.T) {
	svc := NewAuthService(database.NewTestDB(t), testConfig())

	resp, err := svc.Register(context.Background(), &RegisterRequest{Email: "owner@example.com", Password: "TestPass123!"})
	require.NoError(t, err)
	assert.True(t, resp.User.IsAdmin())
}

func TestRegisterRejectsWeakPassword(t *testing.T) {
	svc := NewAuthService(database.NewTestDB(t), testConfig())

	_, err := svc.Register(context.Background(), &RegisterRequest{Email: "weak@example.com", Password: "password"})
	assert.ErrorIs(t, err, ErrInvalidInput)
}

func TestListUsersPages(t *testing.T) {
	db := database.NewTestDB(t)
	for _, email := range []string{"a@example.com", "b@example.com", "c@example.com"} {
		seedUser(t, db, email)
	}
	svc := NewUserService(db)

	users, meta, err := svc.ListUsers(context.Background(), utils.PageParams{Limit: 2})
	require.NoError(t, err)
	assert.Len(t, users, 2)
	assert.True(t, meta.HasMore)

	user, err := svc.GetUserByID(context.Background(), users[0].ID)
	require.NoError(t, err)
	assert.Equal(t, users[0].Email, user.Email)
}
