package services

import (
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTokenService_GenerateAndValidate(t *testing.T) {
	secret := "super-secret-key-for-testing"
	issuer := "salah-test"
	deviceID := "device-123"

	t.Run("Success: Should generate and validate a token", func(t *testing.T) {
		service := NewTokenService(secret, issuer, time.Hour)

		tokenString, err := service.GenerateToken(deviceID)
		require.NoError(t, err)
		assert.NotEmpty(t, tokenString)

		extractedID, err := service.ValidateToken(tokenString)
		assert.NoError(t, err)
		assert.Equal(t, deviceID, extractedID)
	})

	t.Run("Fail: Empty device id", func(t *testing.T) {
		service := NewTokenService(secret, issuer, time.Hour)

		_, err := service.GenerateToken("   ")
		assert.ErrorIs(t, err, ErrInvalidDeviceID)
	})

	t.Run("Fail: Expired token", func(t *testing.T) {
		service := NewTokenService(secret, issuer, -1*time.Second)

		tokenString, err := service.GenerateToken(deviceID)
		require.NoError(t, err)

		_, err = service.ValidateToken(tokenString)
		assert.ErrorIs(t, err, jwt.ErrTokenExpired)
	})

	t.Run("Fail: Wrong secret", func(t *testing.T) {
		attacker := NewTokenService("wrong-secret", issuer, time.Hour)
		service := NewTokenService(secret, issuer, time.Hour)

		tokenString, err := attacker.GenerateToken(deviceID)
		require.NoError(t, err)

		_, err = service.ValidateToken(tokenString)
		assert.Error(t, err)
	})

	t.Run("Fail: Wrong issuer", func(t *testing.T) {
		other := NewTokenService(secret, "someone-else", time.Hour)
		service := NewTokenService(secret, issuer, time.Hour)

		tokenString, err := other.GenerateToken(deviceID)
		require.NoError(t, err)

		_, err = service.ValidateToken(tokenString)
		assert.ErrorIs(t, err, jwt.ErrTokenInvalidIssuer)
	})

	t.Run("Fail: Unexpected signing method", func(t *testing.T) {
		service := NewTokenService(secret, issuer, time.Hour)

		claims := jwt.RegisteredClaims{
			Subject:   deviceID,
			Issuer:    issuer,
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(time.Hour)),
		}
		unsigned, err := jwt.NewWithClaims(jwt.SigningMethodNone, claims).SignedString(jwt.UnsafeAllowNoneSignatureType)
		require.NoError(t, err)

		_, err = service.ValidateToken(unsigned)
		assert.Error(t, err)
	})

	t.Run("Fail: Garbage token", func(t *testing.T) {
		service := NewTokenService(secret, issuer, time.Hour)

		_, err := service.ValidateToken("not.a.token")
		assert.Error(t, err)
	})
}
