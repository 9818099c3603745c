package validators

import (
	"net/http"
	"testing"

	"github.com/anonto42/foodgram/backend/internal/models"
	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestValidateCreateDishRequest(t *testing.T) {
	v := NewValidator()
	valid := models.CreateDishRequest{
		Title:       "Soup",
		Picture:     "dishes/soup.png",
		Description: "Boil.",
		Duration:    15,
		Ingredients: []models.ComponentRequest{{ProductID: 1, Quantity: 2}},
	}
	require.NoError(t, v.Validate(&valid))

	noIngredients := valid
	noIngredients.Ingredients = nil
	zeroQuantity := valid
	zeroQuantity.Ingredients = []models.ComponentRequest{{ProductID: 1, Quantity: 0}}
	noDuration := valid
	noDuration.Duration = 0

	for name, req := range map[string]models.CreateDishRequest{
		"no ingredients": noIngredients,
		"zero quantity":  zeroQuantity,
		"no duration":    noDuration,
	} {
		err := v.Validate(&req)
		var he *echo.HTTPError
		require.ErrorAs(t, err, &he, name)
		assert.Equal(t, http.StatusBadRequest, he.Code, name)
	}
}
