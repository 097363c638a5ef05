package auth_test

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/OldStager01/diapredict/internal/auth"
)

func TestService_GenerateToken(t *testing.T) {
	svc := auth.NewService("test-secret", time.Hour)

	token, err := svc.GenerateToken(1, "clinic")

	require.NoError(t, err)
	assert.NotEmpty(t, token)
}

func TestService_ValidateToken_Valid(t *testing.T) {
	svc := auth.NewService("test-secret", time.Hour, auth.WithIssuer("diapredict"))

	token, err := svc.GenerateToken(1, "clinic")
	require.NoError(t, err)
	claims, err := svc.ValidateToken(token)

	require.NoError(t, err)
	assert.Equal(t, 1, claims.UserID)
	assert.Equal(t, "clinic", claims.Username)
	assert.Equal(t, "diapredict", claims.Issuer)
}

func TestService_ValidateToken_Invalid(t *testing.T) {
	svc := auth.NewService("test-secret", time.Hour)

	_, err := svc.ValidateToken("invalid-token")

	assert.Equal(t, auth.ErrInvalidToken, err)
}

func TestService_ValidateToken_WrongSecret(t *testing.T) {
	token, err := auth.NewService("one", time.Hour).GenerateToken(1, "clinic")
	require.NoError(t, err)

	_, err = auth.NewService("two", time.Hour).ValidateToken(token)
	assert.Equal(t, auth.ErrInvalidToken, err)
}

func TestService_ValidateToken_WrongIssuer(t *testing.T) {
	token, err := auth.NewService("s", time.Hour, auth.WithIssuer("other")).GenerateToken(1, "clinic")
	require.NoError(t, err)

	_, err = auth.NewService("s", time.Hour, auth.WithIssuer("diapredict")).ValidateToken(token)
	assert.Equal(t, auth.ErrInvalidToken, err)
}

func TestService_ValidateToken_Expired(t *testing.T) {
	svc := auth.NewService("test-secret", -time.Hour)

	token, err := svc.GenerateToken(1, "clinic")
	require.NoError(t, err)
	_, err = svc.ValidateToken(token)

	assert.Equal(t, auth.ErrExpiredToken, err)
}

func TestCheckPassword(t *testing.T) {
	password := "mypassword123"
	hash, err := auth.HashPassword(password)
	require.NoError(t, err)

	assert.True(t, auth.CheckPassword(password, hash))
	assert.False(t, auth.CheckPassword("wrongpassword", hash))
}
