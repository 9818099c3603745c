package handlers

import (
	"net/http"
	"strconv"
	"strings"

	"github.com/anonto42/foodgram/backend/internal/middleware"
	"github.com/labstack/echo/v4"
)

// getUserIDFromContext returns the authenticated user's id, or 0 for anonymous requests
func getUserIDFromContext(c echo.Context) uint {
	id, _ := c.Get(middleware.UserIDKey).(uint)
	return id
}

func requireUser(c echo.Context) (uint, error) {
	id := getUserIDFromContext(c)
	if id == 0 {
		return 0, echo.NewHTTPError(http.StatusUnauthorized, "User not authenticated")
	}
	return id, nil
}

func parseIDParam(c echo.Context, what string) (uint, error) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil || id == 0 {
		return 0, echo.NewHTTPError(http.StatusBadRequest, "Invalid "+what+" ID")
	}
	return uint(id), nil
}

// Linker turns blob keys and short-link tokens into absolute URLs
type Linker struct {
	BaseURL string
}

func (l Linker) Media(key string) string {
	if key == "" {
		return ""
	}
	return l.BaseURL + "/media/" + strings.TrimPrefix(key, "/")
}

func (l Linker) ShortLink(token string) string {
	return l.BaseURL + "/s/" + token
}
