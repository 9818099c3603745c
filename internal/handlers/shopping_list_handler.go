package handlers

import (
	"net/http"

	"github.com/anonto42/foodgram/backend/internal/services"
	"github.com/labstack/echo/v4"
)

const shoppingListFilename = "shopping_cart.txt"

// ShoppingListHandler serves the aggregated basket as a text download
type ShoppingListHandler struct {
	shoppingList *services.ShoppingListService
}

// NewShoppingListHandler creates a new ShoppingListHandler
func NewShoppingListHandler(shoppingList *services.ShoppingListService) *ShoppingListHandler {
	return &ShoppingListHandler{shoppingList: shoppingList}
}

// RegisterShoppingListRoutes registers the export route
func (h *ShoppingListHandler) RegisterShoppingListRoutes(g *echo.Group) {
	g.GET("/dishes/download_shopping_cart", h.Download)
}

// Download returns the caller's shopping list as an attachment
func (h *ShoppingListHandler) Download(c echo.Context) error {
	userID, err := requireUser(c)
	if err != nil {
		return err
	}
	text, err := h.shoppingList.ExportShoppingList(c.Request().Context(), userID)
	if err != nil {
		return toHTTPError(c, err)
	}
	c.Response().Header().Set(echo.HeaderContentDisposition, `attachment; filename="`+shoppingListFilename+`"`)
	return c.Blob(http.StatusOK, echo.MIMETextPlainCharsetUTF8, []byte(text))
}
