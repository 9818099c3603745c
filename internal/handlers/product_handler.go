package handlers

import (
	"net/http"

	"github.com/anonto42/foodgram/backend/internal/repositories"
	"github.com/labstack/echo/v4"
)

// ProductHandler serves ingredient lookups
type ProductHandler struct {
	productRepository repositories.ProductRepository
}

// NewProductHandler creates a new ProductHandler
func NewProductHandler(productRepo repositories.ProductRepository) *ProductHandler {
	return &ProductHandler{productRepository: productRepo}
}

func (h *ProductHandler) RegisterProductRoutes(g *echo.Group) {
	g.GET("/products", h.SearchProducts)
}

// SearchProducts lists products whose title starts with ?name=, case-insensitively
func (h *ProductHandler) SearchProducts(c echo.Context) error {
	products, err := h.productRepository.SearchProducts(c.Request().Context(), c.QueryParam("name"))
	if err != nil {
		return toHTTPError(c, err)
	}
	return c.JSON(http.StatusOK, products)
}
