package services

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAuthLoginAndValidate(t *testing.T) {
	auth, err := NewAuthService("s3cret-admin", "test-jwt-secret")
	require.NoError(t, err)

	token, err := auth.Login("s3cret-admin")
	require.NoError(t, err)
	require.NotEmpty(t, token)

	claims, err := auth.ValidateToken(token)
	require.NoError(t, err)
	assert.Equal(t, "admin", claims["role"])
	assert.True(t, auth.IsAdmin(token))
}

func TestAuthLoginWrongPassword(t *testing.T) {
	auth, err := NewAuthService("s3cret-admin", "test-jwt-secret")
	require.NoError(t, err)

	_, err = auth.Login("guess")
	assert.ErrorIs(t, err, ErrInvalidCredentials)
}

func TestAuthValidateRejectsForeignToken(t *testing.T) {
	auth, err := NewAuthService("s3cret-admin", "test-jwt-secret")
	require.NoError(t, err)
	other, err := NewAuthService("s3cret-admin", "different-secret")
	require.NoError(t, err)

	token, err := other.Login("s3cret-admin")
	require.NoError(t, err)

	_, err = auth.ValidateToken(token)
	assert.ErrorIs(t, err, ErrInvalidToken)
	assert.False(t, auth.IsAdmin(token))
}
