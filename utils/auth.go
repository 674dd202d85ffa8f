// utils/auth.go
package utils

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"
	"golang.org/x/crypto/bcrypt"
)

var (
	jwtSecret   []byte
	tokenExpiry = 24 * time.Hour
	bcryptCost  = bcrypt.DefaultCost
)

// ConfigureAuth sets the signing secret, token lifetime and bcrypt cost.
func ConfigureAuth(secret string, expiryHours, cost int) {
	jwtSecret = []byte(secret)
	if expiryHours > 0 {
		tokenExpiry = time.Duration(expiryHours) * time.Hour
	}
	if cost >= bcrypt.MinCost && cost <= bcrypt.MaxCost {
		bcryptCost = cost
	}
}

// TokenExpiry is the lifetime of tokens issued by GenerateToken.
func TokenExpiry() time.Duration {
	return tokenExpiry
}

// Hash password
func HashPassword(password string) (string, error) {
	bytes, err := bcrypt.GenerateFromPassword([]byte(password), bcryptCost)
	return string(bytes), err
}

// Check password
func CheckPasswordHash(password, hash string) bool {
	err := bcrypt.CompareHashAndPassword([]byte(hash), []byte(password))
	return err == nil
}

// Generate JWT token
func GenerateToken(userID, email string) (string, error) {
	if len(jwtSecret) == 0 {
		return "", errors.New("JWT secret not configured")
	}
	now := time.Now()
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{
		"sub":   userID,
		"email": email,
		"exp":   now.Add(tokenExpiry).Unix(),
		"iat":   now.Unix(),
	})
	return token.SignedString(jwtSecret)
}

// ParseToken validates the signature and expiry and returns the subject.
func ParseToken(tokenString string) (string, error) {
	token, err := jwt.Parse(tokenString, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, errors.New("unexpected signing method")
		}
		return jwtSecret, nil
	})
	if err != nil || !token.Valid {
		return "", errors.New("invalid token")
	}
	sub, err := token.Claims.GetSubject()
	if err != nil || sub == "" {
		return "", errors.New("invalid token claims")
	}
	return sub, nil
}

// UserVerifier reports whether the token subject may still use the API.
type UserVerifier func(ctx context.Context, userID string) error

// Auth middleware
func AuthMiddleware(verify UserVerifier) gin.HandlerFunc {
	return func(c *gin.Context) {
		tokenString := c.GetHeader("Authorization")
		if tokenString == "" {
			c.AbortWithStatusJSON(401, gin.H{"error": "Authorization header required"})
			return
		}

		if len(tokenString) > 7 && strings.ToUpper(tokenString[0:6]) == "BEARER" {
			tokenString = tokenString[7:]
		}

		userID, err := ParseToken(tokenString)
		if err != nil {
			c.AbortWithStatusJSON(401, gin.H{"error": "Invalid token"})
			return
		}

		if verify != nil {
			if err := verify(c.Request.Context(), userID); err != nil {
				c.AbortWithStatusJSON(401, gin.H{"error": err.Error()})
				return
			}
		}

		c.Set("userId", userID)
		c.Next()
	}
}
