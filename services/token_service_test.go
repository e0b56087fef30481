package services_test

import (
	"testing"
	"time"

	"github.com/Jaypatel0924/Sweet-Shop-Management-System/services"
	"github.com/golang-jwt/jwt/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTokenService_RoundTrip(t *testing.T) {
	ts := services.NewTokenService("secret", time.Hour)

	token, err := ts.GenerateAccessToken("u1", "u1@example.com", "admin")
	require.NoError(t, err)

	claims, err := ts.ValidateToken(token)
	require.NoError(t, err)
	assert.Equal(t, "u1", claims.UserID)
	assert.Equal(t, "u1@example.com", claims.Email)
	assert.Equal(t, "admin", claims.Role)
}

func TestTokenService_Rejects(t *testing.T) {
	ts := services.NewTokenService("secret", time.Hour)

	t.Run("wrong secret", func(t *testing.T) {
		token, _ := services.NewTokenService("other", time.Hour).GenerateAccessToken("u1", "e", "user")
		_, err := ts.ValidateToken(token)
		assert.Error(t, err)
	})

	t.Run("expired", func(t *testing.T) {
		token := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{
			"sub": "u1", "typ": "access", "exp": time.Now().Add(-time.Minute).Unix(),
		})
		signed, _ := token.SignedString([]byte("secret"))
		_, err := ts.ValidateToken(signed)
		assert.Error(t, err)
	})

	t.Run("wrong type", func(t *testing.T) {
		token := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{
			"sub": "u1", "typ": "refresh", "exp": time.Now().Add(time.Minute).Unix(),
		})
		signed, _ := token.SignedString([]byte("secret"))
		_, err := ts.ValidateToken(signed)
		assert.EqualError(t, err, "invalid token type")
	})

	t.Run("none algorithm", func(t *testing.T) {
		token := jwt.NewWithClaims(jwt.SigningMethodNone, jwt.MapClaims{"sub": "u1", "typ": "access"})
		signed, _ := token.SignedString(jwt.UnsafeAllowNoneSignatureType)
		_, err := ts.ValidateToken(signed)
		assert.Error(t, err)
	})

	t.Run("garbage", func(t *testing.T) {
		_, err := ts.ValidateToken("not.a.token")
		assert.Error(t, err)
	})
}
