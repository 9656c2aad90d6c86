package middleware

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
)

const (
	authorizationHeader = "Authorization"
	authorizationType   = "Bearer"
	ContextDeviceIDKey  = "deviceID"
)

// TokenValidator resolves a bearer token to the device id it was issued for.
type TokenValidator interface {
	ValidateToken(tokenString string) (string, error)
}

func AuthMiddleware(tokens TokenValidator) gin.HandlerFunc {
	return func(c *gin.Context) {
		authHeader := c.GetHeader(authorizationHeader)
		if authHeader == "" {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "authorization header required"})
			return
		}

		fields := strings.Fields(authHeader)
		if len(fields) != 2 || fields[0] != authorizationType {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "invalid authorization header format"})
			return
		}

		deviceID, err := tokens.ValidateToken(fields[1])
		if err != nil {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "invalid or expired token"})
			return
		}

		c.Set(ContextDeviceIDKey, deviceID)

		c.Next()
	}
}

func GetDeviceID(c *gin.Context) (string, bool) {
	id, exists := c.Get(ContextDeviceIDKey)
	if !exists {
		return "", false
	}
	idStr, ok := id.(string)
	return idStr, ok
}
