package handlers

import (
	"net/http"
	"strconv"

	"github.com/anonto42/foodgram/backend/internal/models"
	"github.com/anonto42/foodgram/backend/internal/services"
	"github.com/labstack/echo/v4"
)

// ProfileHandler handles avatar and subscription listing requests
type ProfileHandler struct {
	profileService *services.ProfileService
	linker         Linker
}

// NewProfileHandler creates a new ProfileHandler
func NewProfileHandler(profileService *services.ProfileService, linker Linker) *ProfileHandler {
	return &ProfileHandler{profileService: profileService, linker: linker}
}

// RegisterProfileRoutes registers user profile-related routes
func (h *ProfileHandler) RegisterProfileRoutes(g *echo.Group) {
	g.PUT("/users/me/avatar", h.SetAvatar)
	g.DELETE("/users/me/avatar", h.RemoveAvatar)
	g.GET("/users/subscriptions", h.Subscriptions)
}

// SetAvatar stores an uploaded avatar and returns its URL
func (h *ProfileHandler) SetAvatar(c echo.Context) error {
	userID, err := requireUser(c)
	if err != nil {
		return err
	}
	var req models.AvatarUploadRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}
	if err := c.Validate(&req); err != nil {
		return err
	}

	key, err := h.profileService.SetAvatar(c.Request().Context(), userID, req.Avatar)
	if err != nil {
		return toHTTPError(c, err)
	}
	return c.JSON(http.StatusOK, echo.Map{"avatar": h.linker.Media(key)})
}

// RemoveAvatar clears the caller's avatar
func (h *ProfileHandler) RemoveAvatar(c echo.Context) error {
	userID, err := requireUser(c)
	if err != nil {
		return err
	}
	if err := h.profileService.RemoveAvatar(c.Request().Context(), userID); err != nil {
		return toHTTPError(c, err)
	}
	return c.NoContent(http.StatusNoContent)
}

// Subscriptions lists followed authors; recipes_limit caps the dishes shown per author
func (h *ProfileHandler) Subscriptions(c echo.Context) error {
	userID, err := requireUser(c)
	if err != nil {
		return err
	}
	limit := 0
	if raw := c.QueryParam("recipes_limit"); raw != "" {
		limit, err = strconv.Atoi(raw)
		if err != nil || limit < 0 {
			return echo.NewHTTPError(http.StatusBadRequest, "recipes_limit must be a non-negative integer")
		}
	}

	subs, err := h.profileService.Subscriptions(c.Request().Context(), userID, limit)
	if err != nil {
		return toHTTPError(c, err)
	}
	for i := range subs {
		subs[i].Avatar = h.linker.Media(subs[i].Avatar)
		for j := range subs[i].Dishes {
			h.linker.dishShort(&subs[i].Dishes[j])
		}
	}
	return c.JSON(http.StatusOK, subs)
}
