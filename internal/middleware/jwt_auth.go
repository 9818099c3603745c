package middleware

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/anonto42/foodgram/backend/internal/models"
	"github.com/golang-jwt/jwt/v4"
	"github.com/labstack/echo/v4"
)

// JWTAuthMiddleware checks for a valid HS256 JWT and stores its user id.
func JWTAuthMiddleware(secret string) echo.MiddlewareFunc {
	return Authenticate(JWTResolver(secret))
}

// JWTResolver accepts tokens signed with secret
func JWTResolver(secret string) TokenResolver {
	return func(_ context.Context, token string) (uint, error) {
		claims, err := ParseToken(secret, token)
		if err != nil {
			return 0, err
		}
		return claims.UserID, nil
	}
}

// ParseToken verifies the signature and expiry of tokenString
func ParseToken(secret, tokenString string) (*models.JwtCustomClaims, error) {
	claims := &models.JwtCustomClaims{}
	token, err := jwt.ParseWithClaims(tokenString, claims, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method %v", token.Header["alg"])
		}
		return []byte(secret), nil
	})
	if err != nil {
		return nil, err
	}
	if !token.Valid {
		return nil, errors.New("invalid token")
	}
	return claims, nil
}

// GenerateToken signs a token for user that expires after ttl
func GenerateToken(secret string, user *models.User, ttl time.Duration) (string, error) {
	now := time.Now()
	claims := &models.JwtCustomClaims{
		UserID: user.ID,
		Email:  user.Email,
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(now.Add(ttl)),
			IssuedAt:  jwt.NewNumericDate(now),
		},
	}
	return jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte(secret))
}
