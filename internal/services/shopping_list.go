package services

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"strings"

	"github.com/anonto42/foodgram/backend/internal/apperrors"
	"github.com/anonto42/foodgram/backend/internal/metrics"
	"github.com/anonto42/foodgram/backend/internal/models"
	"github.com/anonto42/foodgram/backend/pkg/logger"
)

type basketSource interface {
	GetObjectIDs(ctx context.Context, kind models.RelationKind, subjectID uint) ([]uint, error)
}

type componentSource interface {
	GetComponentLines(ctx context.Context, dishIDs []uint) ([]models.ComponentLine, error)
}

// ShoppingListService turns a user's basket into one summed ingredient list
type ShoppingListService struct {
	basket     basketSource
	components componentSource
}

// NewShoppingListService creates a new ShoppingListService
func NewShoppingListService(basket basketSource, components componentSource) *ShoppingListService {
	return &ShoppingListService{basket: basket, components: components}
}

// BuildShoppingList aggregates the components of every dish in the user's
// basket. It fails with ErrEmptyBasket when the basket has no dishes.
func (s *ShoppingListService) BuildShoppingList(ctx context.Context, userID uint) ([]models.ShoppingItem, error) {
	dishIDs, err := s.basket.GetObjectIDs(ctx, models.RelationBasket, userID)
	if err != nil {
		return nil, err
	}
	if len(dishIDs) == 0 {
		return nil, apperrors.ErrEmptyBasket
	}

	lines, err := s.components.GetComponentLines(ctx, dishIDs)
	if err != nil {
		return nil, err
	}
	return AggregateComponents(lines), nil
}

// ExportShoppingList renders the user's shopping list as plain text
func (s *ShoppingListService) ExportShoppingList(ctx context.Context, userID uint) (string, error) {
	items, err := s.BuildShoppingList(ctx, userID)
	switch {
	case errors.Is(err, apperrors.ErrEmptyBasket):
		metrics.ShoppingListExports.WithLabelValues("empty").Inc()
		return "", err
	case err != nil:
		metrics.ShoppingListExports.WithLabelValues("error").Inc()
		logger.Error().Err(err).Uint("user_id", userID).Msg("shopping list export failed")
		return "", err
	}
	metrics.ShoppingListExports.WithLabelValues("ok").Inc()
	metrics.ShoppingListItems.Observe(float64(len(items)))
	return RenderShoppingList(items), nil
}

type productKey struct {
	title string
	unit  string
}

// AggregateComponents groups lines by (title, unit), sums each group and sorts
// the result by title, then unit. Products sharing a title but not a unit stay
// separate. The result does not depend on the order of lines.
func AggregateComponents(lines []models.ComponentLine) []models.ShoppingItem {
	totals := make(map[productKey]int, len(lines))
	for _, l := range lines {
		totals[productKey{title: l.Title, unit: l.Unit}] += l.Quantity
	}

	items := make([]models.ShoppingItem, 0, len(totals))
	for k, total := range totals {
		items = append(items, models.ShoppingItem{Title: k.title, Unit: k.unit, TotalQuantity: total})
	}
	sort.Slice(items, func(i, j int) bool {
		if items[i].Title != items[j].Title {
			return items[i].Title < items[j].Title
		}
		return items[i].Unit < items[j].Unit
	})
	return items
}

// RenderShoppingList writes one "{n}. {Title} ({unit}) — {total}" line per item
func RenderShoppingList(items []models.ShoppingItem) string {
	var b strings.Builder
	for i, item := range items {
		fmt.Fprintf(&b, "%d. %s (%s) — %d\n", i+1, item.Title, item.Unit, item.TotalQuantity)
	}
	return b.String()
}
