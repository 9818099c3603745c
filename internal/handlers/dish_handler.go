package handlers

import (
	"net/http"

	"github.com/anonto42/foodgram/backend/internal/models"
	"github.com/anonto42/foodgram/backend/internal/services"
	"github.com/labstack/echo/v4"
)

// DishHandler handles dish HTTP requests
type DishHandler struct {
	dishService *services.DishService
	links       *services.ShortLinkService
	linker      Linker
}

// NewDishHandler creates a new DishHandler
func NewDishHandler(dishService *services.DishService, links *services.ShortLinkService, linker Linker) *DishHandler {
	return &DishHandler{dishService: dishService, links: links, linker: linker}
}

// RegisterDishRoutes registers dish routes. Reads go on public (optionally
// authenticated); writes go on protected.
func (h *DishHandler) RegisterDishRoutes(public, protected *echo.Group) {
	public.GET("/dishes/:id", h.GetDish)
	public.GET("/dishes/:id/get-link", h.GetLink)
	protected.POST("/dishes", h.CreateDish)
	protected.DELETE("/dishes/:id", h.DeleteDish)
}

// CreateDish publishes a dish for the authenticated user
func (h *DishHandler) CreateDish(c echo.Context) error {
	userID, err := requireUser(c)
	if err != nil {
		return err
	}

	var req models.CreateDishRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}
	if err := c.Validate(&req); err != nil {
		return err
	}

	view, err := h.dishService.CreateDish(c.Request().Context(), userID, &req)
	if err != nil {
		return toHTTPError(c, err)
	}
	h.linker.dishView(view)
	return c.JSON(http.StatusCreated, echo.Map{"success": true, "data": view})
}

// GetDish returns a dish as seen by the caller
func (h *DishHandler) GetDish(c echo.Context) error {
	dishID, err := parseIDParam(c, "dish")
	if err != nil {
		return err
	}
	view, err := h.dishService.GetDishView(c.Request().Context(), dishID, getUserIDFromContext(c))
	if err != nil {
		return toHTTPError(c, err)
	}
	h.linker.dishView(view)
	return c.JSON(http.StatusOK, view)
}

// DeleteDish deletes a dish owned by the caller
func (h *DishHandler) DeleteDish(c echo.Context) error {
	userID, err := requireUser(c)
	if err != nil {
		return err
	}
	dishID, err := parseIDParam(c, "dish")
	if err != nil {
		return err
	}
	if err := h.dishService.DeleteDish(c.Request().Context(), dishID, userID); err != nil {
		return toHTTPError(c, err)
	}
	return c.NoContent(http.StatusNoContent)
}

// GetLink returns the short link of an existing dish
func (h *DishHandler) GetLink(c echo.Context) error {
	dishID, err := parseIDParam(c, "dish")
	if err != nil {
		return err
	}
	if _, err := h.dishService.GetDishShort(c.Request().Context(), dishID); err != nil {
		return toHTTPError(c, err)
	}
	return c.JSON(http.StatusOK, echo.Map{"short-link": h.linker.ShortLink(h.links.ShortenLink(dishID))})
}

func (l Linker) dishView(v *models.DishView) {
	v.Picture = l.Media(v.Picture)
	v.Creator.Avatar = l.Media(v.Creator.Avatar)
}

func (l Linker) dishShort(d *models.DishShort) {
	d.Picture = l.Media(d.Picture)
}
