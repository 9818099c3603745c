package handlers

import (
	"net/http"

	"github.com/anonto42/foodgram/backend/internal/models"
	"github.com/anonto42/foodgram/backend/internal/repositories"
	"github.com/anonto42/foodgram/backend/internal/services"
	"github.com/labstack/echo/v4"
)

// RelationHandler handles bookmark, shopping basket and subscription toggles
type RelationHandler struct {
	relationService *services.RelationService
	dishService     *services.DishService
	userRepository  repositories.UserRepository
	linker          Linker
}

// NewRelationHandler creates a new RelationHandler
func NewRelationHandler(relationService *services.RelationService, dishService *services.DishService, userRepo repositories.UserRepository, linker Linker) *RelationHandler {
	return &RelationHandler{
		relationService: relationService,
		dishService:     dishService,
		userRepository:  userRepo,
		linker:          linker,
	}
}

// RegisterRelationRoutes registers relation routes
func (h *RelationHandler) RegisterRelationRoutes(g *echo.Group) {
	g.POST("/dishes/:id/favorite", h.dishToggle(models.RelationBookmark, true))
	g.DELETE("/dishes/:id/favorite", h.dishToggle(models.RelationBookmark, false))
	g.POST("/dishes/:id/shopping_cart", h.dishToggle(models.RelationBasket, true))
	g.DELETE("/dishes/:id/shopping_cart", h.dishToggle(models.RelationBasket, false))
	g.POST("/users/:id/subscribe", h.Subscribe)
	g.DELETE("/users/:id/subscribe", h.Unsubscribe)
}

// dishToggle adds or removes a bookmark/basket entry; adding answers with the
// dish short form
func (h *RelationHandler) dishToggle(kind models.RelationKind, add bool) echo.HandlerFunc {
	return func(c echo.Context) error {
		userID, err := requireUser(c)
		if err != nil {
			return err
		}
		dishID, err := parseIDParam(c, "dish")
		if err != nil {
			return err
		}

		ctx := c.Request().Context()
		if _, err := h.relationService.ToggleRelation(ctx, kind, userID, dishID, add); err != nil {
			return toHTTPError(c, err)
		}
		if !add {
			return c.NoContent(http.StatusNoContent)
		}

		short, err := h.dishService.GetDishShort(ctx, dishID)
		if err != nil {
			return toHTTPError(c, err)
		}
		h.linker.dishShort(short)
		return c.JSON(http.StatusCreated, echo.Map{"success": true, "data": short})
	}
}

// Subscribe follows another user
func (h *RelationHandler) Subscribe(c echo.Context) error {
	userID, err := requireUser(c)
	if err != nil {
		return err
	}
	targetID, err := parseIDParam(c, "user")
	if err != nil {
		return err
	}

	ctx := c.Request().Context()
	if _, err := h.relationService.AddRelation(ctx, userID, targetID, models.RelationFollow); err != nil {
		return toHTTPError(c, err)
	}
	target, err := h.userRepository.GetUserByID(ctx, targetID)
	if err != nil {
		return toHTTPError(c, err)
	}
	compact := target.ToCompact(true)
	compact.Avatar = h.linker.Media(compact.Avatar)
	return c.JSON(http.StatusCreated, echo.Map{"success": true, "data": compact})
}

// Unsubscribe stops following another user
func (h *RelationHandler) Unsubscribe(c echo.Context) error {
	userID, err := requireUser(c)
	if err != nil {
		return err
	}
	targetID, err := parseIDParam(c, "user")
	if err != nil {
		return err
	}
	if err := h.relationService.RemoveRelation(c.Request().Context(), userID, targetID, models.RelationFollow); err != nil {
		return toHTTPError(c, err)
	}
	return c.NoContent(http.StatusNoContent)
}
