package auth

import (
	"testing"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestInitJWTSecretRejectsEmpty(t *testing.T) {
	assert.Error(t, InitJWTSecret(""))
}

func TestGenerateAndVerify(t *testing.T) {
	require.NoError(t, InitJWTSecret("test-secret"))

	tokenString, err := GenerateJWT(42, "alice@example.com")
	require.NoError(t, err)

	token, err := VerifyJWT(tokenString)
	require.NoError(t, err)

	claims, ok := token.Claims.(jwt.MapClaims)
	require.True(t, ok)
	assert.Equal(t, float64(42), claims["user_id"])
	assert.Equal(t, "alice@example.com", claims["email"])
}

func TestVerifyRejectsTamperedToken(t *testing.T) {
	require.NoError(t, InitJWTSecret("test-secret"))

	tokenString, err := GenerateJWT(42, "alice@example.com")
	require.NoError(t, err)

	tampered := tokenString[:len(tokenString)-2] + "xx"

	_, err = VerifyJWT(tampered)
	assert.Error(t, err)
}

func TestVerifyRejectsTokenFromOtherSecret(t *testing.T) {
	require.NoError(t, InitJWTSecret("secret-one"))

	tokenString, err := GenerateJWT(7, "bob@example.com")
	require.NoError(t, err)

	require.NoError(t, InitJWTSecret("secret-two"))

	_, err = VerifyJWT(tokenString)
	assert.Error(t, err)
}
