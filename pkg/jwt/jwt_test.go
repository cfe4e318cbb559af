package jwt

import (
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGenerateAndValidateAccessToken(t *testing.T) {
	service := NewService("test-secret-key-123456789", time.Hour)

	userID := uuid.New()
	token, err := service.GenerateAccessToken(userID, "+254712345678", "passenger")
	require.NoError(t, err)
	require.NotEmpty(t, token)

	claims, err := service.ValidateAccessToken(token)
	require.NoError(t, err)
	assert.Equal(t, userID, claims.UserID)
	assert.Equal(t, "+254712345678", claims.Phone)
	assert.Equal(t, "passenger", claims.UserType)
	assert.Equal(t, userID.String(), claims.Subject)
}

func TestValidateAccessToken_WrongSecret(t *testing.T) {
	service := NewService("correct-secret", time.Hour)
	other := NewService("wrong-secret", time.Hour)

	token, err := service.GenerateAccessToken(uuid.New(), "+254712345678", "driver")
	require.NoError(t, err)

	claims, err := other.ValidateAccessToken(token)
	assert.Error(t, err)
	assert.Nil(t, claims)
}

func TestValidateAccessToken_Garbage(t *testing.T) {
	service := NewService("test-secret", time.Hour)

	claims, err := service.ValidateAccessToken("not-a-token")
	assert.Error(t, err)
	assert.Nil(t, claims)
}

func TestIsTokenExpired(t *testing.T) {
	service := NewService("test-secret", -time.Minute) // already expired on issue

	token, err := service.GenerateAccessToken(uuid.New(), "+254712345678", "passenger")
	require.NoError(t, err)

	assert.True(t, service.IsTokenExpired(token))

	fresh := NewService("test-secret", time.Hour)
	token, err = fresh.GenerateAccessToken(uuid.New(), "+254712345678", "passenger")
	require.NoError(t, err)
	assert.False(t, fresh.IsTokenExpired(token))
}
