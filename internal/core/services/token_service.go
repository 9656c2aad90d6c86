package services

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

var ErrInvalidDeviceID = errors.New("device id cannot be empty")

// TokenService issues and validates HS256 tokens identifying a device.
type TokenService struct {
	secretKey     []byte
	issuer        string
	tokenDuration time.Duration
}

func NewTokenService(secretKey string, issuer string, tokenDuration time.Duration) *TokenService {
	return &TokenService{
		secretKey:     []byte(secretKey),
		issuer:        issuer,
		tokenDuration: tokenDuration,
	}
}

func (s *TokenService) GenerateToken(deviceID string) (string, error) {
	deviceID = strings.TrimSpace(deviceID)
	if deviceID == "" {
		return "", ErrInvalidDeviceID
	}

	now := time.Now()
	claims := jwt.RegisteredClaims{
		Subject:   deviceID,
		Issuer:    s.issuer,
		IssuedAt:  jwt.NewNumericDate(now),
		ExpiresAt: jwt.NewNumericDate(now.Add(s.tokenDuration)),
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)

	signedToken, err := token.SignedString(s.secretKey)
	if err != nil {
		return "", fmt.Errorf("token service: failed to sign token: %w", err)
	}

	return signedToken, nil
}

// ValidateToken returns the device id carried by a valid token.
func (s *TokenService) ValidateToken(tokenString string) (string, error) {
	claims := &jwt.RegisteredClaims{}

	token, err := jwt.ParseWithClaims(tokenString, claims, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", token.Header["alg"])
		}
		return s.secretKey, nil
	}, jwt.WithIssuer(s.issuer), jwt.WithExpirationRequired())
	if err != nil {
		return "", fmt.Errorf("invalid token: %w", err)
	}

	if !token.Valid || claims.Subject == "" {
		return "", fmt.Errorf("invalid token subject")
	}

	return claims.Subject, nil
}
