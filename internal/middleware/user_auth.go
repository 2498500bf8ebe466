package middleware

import (
	"errors"
	"log"
	"math"
	"net/http"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"

	"storefront/internal/session"
)

var errInvalidUserClaim = errors.New("invalid userId claim")

// Identity validates an optional bearer token. Requests without one continue
// as guests; a token that is present but invalid is rejected.
func Identity(secret string) gin.HandlerFunc {
	return func(c *gin.Context) {
		raw := strings.TrimSpace(c.GetHeader("Authorization"))
		if raw == "" {
			c.Next()
			return
		}

		parts := strings.Split(raw, " ")
		if len(parts) != 2 || !strings.EqualFold(parts[0], "Bearer") {
			log.Println("[AUTH] [ERROR] invalid token format")
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "invalid token"})
			return
		}

		identity, err := parseIdentity(parts[1], secret)
		if err != nil {
			log.Println("[AUTH] [ERROR] token validation failed:", err)
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "unauthorized"})
			return
		}

		c.Set(identityKey, identity)
		c.Next()
	}
}

func parseIdentity(tokenString, secret string) (*session.Identity, error) {
	token, err := jwt.Parse(tokenString, func(t *jwt.Token) (interface{}, error) {
		return []byte(secret), nil
	}, jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}))
	if err != nil {
		return nil, err
	}
	if !token.Valid {
		return nil, jwt.ErrTokenUnverifiable
	}

	claims, ok := token.Claims.(jwt.MapClaims)
	if !ok {
		return nil, jwt.ErrTokenInvalidClaims
	}

	userID, err := userIDClaim(claims["userId"])
	if err != nil {
		return nil, err
	}

	role, _ := claims["role"].(string)
	return &session.Identity{UserID: userID, Role: role}, nil
}

// userIDClaim accepts the id either as a JSON number or as a decimal string.
func userIDClaim(value interface{}) (int64, error) {
	switch v := value.(type) {
	case float64:
		if v <= 0 || v != math.Trunc(v) {
			return 0, errInvalidUserClaim
		}
		return int64(v), nil
	case string:
		id, err := strconv.ParseInt(strings.TrimSpace(v), 10, 64)
		if err != nil || id <= 0 {
			return 0, errInvalidUserClaim
		}
		return id, nil
	default:
		return 0, errInvalidUserClaim
	}
}
