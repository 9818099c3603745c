package middleware

import (
	"context"
	"errors"
	"net/http"
	"strings"

	"github.com/labstack/echo/v4"
)

// UserIDKey is the echo context key holding the authenticated user's id
const UserIDKey = "userID"

var errNoBearer = errors.New("missing bearer token")

// TokenResolver maps a bearer token to a local user id
type TokenResolver func(ctx context.Context, token string) (uint, error)

// Authenticate requires a bearer token accepted by one of the resolvers, tried in order
func Authenticate(resolvers ...TokenResolver) echo.MiddlewareFunc {
	return authenticate(false, resolvers)
}

// OptionalAuthenticate identifies the caller when an Authorization header is
// present and lets anonymous requests through otherwise. A header carrying a
// bad token is still rejected.
func OptionalAuthenticate(resolvers ...TokenResolver) echo.MiddlewareFunc {
	return authenticate(true, resolvers)
}

func authenticate(optional bool, resolvers []TokenResolver) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			token, err := bearerToken(c.Request())
			if err != nil {
				if optional && errors.Is(err, errNoBearer) {
					return next(c)
				}
				return echo.NewHTTPError(http.StatusUnauthorized, err.Error())
			}

			for _, resolve := range resolvers {
				userID, err := resolve(c.Request().Context(), token)
				if err == nil && userID != 0 {
					c.Set(UserIDKey, userID)
					return next(c)
				}
			}
			return echo.NewHTTPError(http.StatusUnauthorized, "Invalid or expired token")
		}
	}
}

// bearerToken expects "Authorization: Bearer <token>"
func bearerToken(r *http.Request) (string, error) {
	authHeader := r.Header.Get("Authorization")
	if authHeader == "" {
		return "", errNoBearer
	}
	parts := strings.Split(authHeader, " ")
	if len(parts) != 2 || strings.ToLower(parts[0]) != "bearer" || parts[1] == "" {
		return "", errors.New("Authorization header must be in Bearer format")
	}
	return parts[1], nil
}
