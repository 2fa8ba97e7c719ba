package utils

import (
	"regexp"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGenerateOrderNumber(t *testing.T) {
	now := time.UnixMilli(1700000000123)

	n, err := GenerateOrderNumber(now)
	require.NoError(t, err)
	assert.Regexp(t, regexp.MustCompile(`^ORD-1700000000123-[a-z0-9]{9}$`), n)

	other, err := GenerateOrderNumber(now)
	require.NoError(t, err)
	assert.NotEqual(t, n, other)
}

func TestJWTRoundTrip(t *testing.T) {
	SetJWTSecret("test-secret")
	id := uuid.New()

	token, err := GenerateJWT(id, "buyer@example.com", "admin", 1)
	require.NoError(t, err)

	claims, err := ValidateJWT(token)
	require.NoError(t, err)
	assert.Equal(t, id.String(), claims.UserID)
	assert.Equal(t, "admin", claims.Role)

	SetJWTSecret("rotated")
	_, err = ValidateJWT(token)
	assert.Error(t, err)
}

type priceForm struct {
	Price    string `validate:"required,decimal_string"`
	Password string `validate:"strong_password"`
}

func TestCustomValidators(t *testing.T) {
	assert.NoError(t, ValidateStruct(priceForm{Price: "12.50", Password: "Str0ng!pass"}))

	err := ValidateStruct(priceForm{Price: "-1", Password: "weak"})
	require.Error(t, err)

	errs := GetValidationErrors(err)
	require.Len(t, errs, 2)
	assert.Equal(t, "price", errs[0].Field)
	assert.Equal(t, "decimal_string", errs[0].Tag)
	assert.Equal(t, "strong_password", errs[1].Tag)
}
