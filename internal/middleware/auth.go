package middleware

import (
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"

	"rentwise/internal/config"
	apperrors "rentwise/internal/errors"
	"rentwise/internal/models"
	"rentwise/internal/uuid"
)

// RealtorIDKey is the gin context key holding the authenticated realtor's ID.
const RealtorIDKey = "realtorID"

const accessTokenExpiry = 12 * time.Hour

// getJWTKey returns the JWT key from configuration
func getJWTKey() []byte {
	return []byte(config.Get().JWTSecret)
}

// JWTClaims represents the claims in the JWT. Tokens are issued elsewhere;
// this service only verifies them.
type JWTClaims struct {
	RealtorID string `json:"realtor_id"`
	Email     string `json:"email"`
	jwt.RegisteredClaims
}

// GenerateAccessToken signs an access token for a realtor. The API never
// issues tokens itself; the CLI and tests use this to mint them.
func GenerateAccessToken(realtor *models.Realtor) (string, error) {
	now := time.Now()
	claims := &JWTClaims{
		RealtorID: realtor.ID,
		Email:     realtor.Email,
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(now.Add(accessTokenExpiry)),
			IssuedAt:  jwt.NewNumericDate(now),
			NotBefore: jwt.NewNumericDate(now),
			Issuer:    config.Get().JWTIssuer,
			Subject:   realtor.ID,
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString(getJWTKey())
}

func abortUnauthorized(c *gin.Context, message string) {
	c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{
		"error": gin.H{
			"code":    apperrors.ErrUnauthorized.Code,
			"message": message,
		},
	})
}

// AuthMiddleware verifies the bearer token and sets the realtor ID in the context
func AuthMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		authHeader := c.GetHeader("Authorization")
		if authHeader == "" {
			abortUnauthorized(c, "Authorization header is required")
			return
		}

		parts := strings.Split(authHeader, " ")
		if len(parts) != 2 || parts[0] != "Bearer" {
			abortUnauthorized(c, "Invalid authorization header format")
			return
		}

		claims := &JWTClaims{}
		token, err := jwt.ParseWithClaims(parts[1], claims, func(token *jwt.Token) (interface{}, error) {
			if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
				return nil, fmt.Errorf("unexpected signing method: %v", token.Header["alg"])
			}
			return getJWTKey(), nil
		}, jwt.WithIssuer(config.Get().JWTIssuer), jwt.WithExpirationRequired())

		if err != nil || !token.Valid {
			abortUnauthorized(c, "Invalid or expired token")
			return
		}

		if !uuid.IsValid(claims.RealtorID) {
			abortUnauthorized(c, "Invalid or expired token")
			return
		}

		c.Set(RealtorIDKey, claims.RealtorID)
		c.Set("email", claims.Email)
		c.Next()
	}
}
