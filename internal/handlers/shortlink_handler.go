package handlers

import (
	"net/http"

	"github.com/anonto42/foodgram/backend/internal/services"
	"github.com/labstack/echo/v4"
)

// ShortLinkHandler redirects short-link tokens to dish pages
type ShortLinkHandler struct {
	links *services.ShortLinkService
}

// NewShortLinkHandler creates a new ShortLinkHandler
func NewShortLinkHandler(links *services.ShortLinkService) *ShortLinkHandler {
	return &ShortLinkHandler{links: links}
}

// RegisterShortLinkRoutes registers the redirect route at the root
func (h *ShortLinkHandler) RegisterShortLinkRoutes(e *echo.Echo) {
	e.GET("/s/:token", h.Redirect)
}

// Redirect always answers 302, to the dish page or to the not-found page
func (h *ShortLinkHandler) Redirect(c echo.Context) error {
	return c.Redirect(http.StatusFound, h.links.ResolveShortLink(c.Request().Context(), c.Param("token")))
}
