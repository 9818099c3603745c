package services

import (
	"context"
	"fmt"

	"github.com/anonto42/foodgram/backend/internal/apperrors"
	"github.com/anonto42/foodgram/backend/internal/models"
	"github.com/anonto42/foodgram/backend/internal/repositories"
	"github.com/anonto42/foodgram/backend/pkg/logger"
)

const dishPictureFolder = "dishes"

// DishService publishes, reads and deletes dishes
type DishService struct {
	dishes    repositories.DishRepository
	products  repositories.ProductRepository
	users     repositories.UserRepository
	relations repositories.RelationRepository
	images    *ImageService
	links     *ShortLinkService
}

// NewDishService creates a new DishService
func NewDishService(
	dishes repositories.DishRepository,
	products repositories.ProductRepository,
	users repositories.UserRepository,
	relations repositories.RelationRepository,
	images *ImageService,
	links *ShortLinkService,
) *DishService {
	return &DishService{
		dishes:    dishes,
		products:  products,
		users:     users,
		relations: relations,
		images:    images,
		links:     links,
	}
}

// CreateDish validates the ingredient list, stores the picture and inserts the
// dish with its components. Request field constraints are checked by the
// caller's validator.
func (s *DishService) CreateDish(ctx context.Context, creatorID uint, req *models.CreateDishRequest) (*models.DishView, error) {
	if len(req.Ingredients) == 0 {
		return nil, apperrors.NewValidationError("at least one ingredient is required")
	}
	seen := make(map[uint]bool, len(req.Ingredients))
	ids := make([]uint, 0, len(req.Ingredients))
	for _, in := range req.Ingredients {
		if in.Quantity < 1 {
			return nil, apperrors.NewValidationError("ingredient quantity must be positive")
		}
		if seen[in.ProductID] {
			return nil, apperrors.NewValidationError("duplicate ingredients")
		}
		seen[in.ProductID] = true
		ids = append(ids, in.ProductID)
	}
	if req.Duration < 1 {
		return nil, apperrors.NewValidationError("duration must be positive")
	}

	count, err := s.products.CountProducts(ctx, ids)
	if err != nil {
		return nil, err
	}
	if count != int64(len(ids)) {
		return nil, apperrors.NewValidationError("unknown ingredient")
	}

	picture, err := s.images.Save(ctx, req.Picture, dishPictureFolder, "")
	if err != nil {
		return nil, err
	}

	dish := &models.Dish{
		CreatorID:   creatorID,
		Title:       req.Title,
		Picture:     picture,
		Description: req.Description,
		Duration:    req.Duration,
	}
	for _, in := range req.Ingredients {
		dish.Components = append(dish.Components, models.Component{ProductID: in.ProductID, Quantity: in.Quantity})
	}
	if err := s.dishes.CreateDish(ctx, dish); err != nil {
		if delErr := s.images.Delete(ctx, picture); delErr != nil {
			logger.Warn().Err(delErr).Str("key", picture).Msg("orphaned dish picture")
		}
		return nil, err
	}
	return s.GetDishView(ctx, dish.ID, creatorID)
}

// GetDishView loads a dish as seen by viewerID (0 for anonymous)
func (s *DishService) GetDishView(ctx context.Context, dishID, viewerID uint) (*models.DishView, error) {
	dish, err := s.dishes.GetDishByID(ctx, dishID)
	if err != nil {
		return nil, err
	}
	creator, err := s.users.GetUserByID(ctx, dish.CreatorID)
	if err != nil {
		return nil, fmt.Errorf("creator of dish %d: %w", dishID, err)
	}
	lines, err := s.dishes.GetComponentLines(ctx, []uint{dishID})
	if err != nil {
		return nil, err
	}

	bookmarked := map[uint]bool{}
	inBasket := map[uint]bool{}
	subscribed := false
	if viewerID != 0 {
		if bookmarked, err = s.relations.GetObjectIDSet(ctx, models.RelationBookmark, viewerID, []uint{dishID}); err != nil {
			return nil, err
		}
		if inBasket, err = s.relations.GetObjectIDSet(ctx, models.RelationBasket, viewerID, []uint{dishID}); err != nil {
			return nil, err
		}
		if subscribed, err = s.relations.HasRelation(ctx, models.RelationFollow, viewerID, creator.ID); err != nil {
			return nil, err
		}
	}

	view := BuildDishView(dish, creator.ToCompact(subscribed), lines, bookmarked, inBasket)
	return &view, nil
}

// BuildDishView assembles the viewer-specific representation of a dish from
// explicit bookmark and basket id sets
func BuildDishView(dish *models.Dish, creator models.UserCompact, lines []models.ComponentLine, bookmarked, inBasket map[uint]bool) models.DishView {
	if lines == nil {
		lines = []models.ComponentLine{}
	}
	return models.DishView{
		ID:          dish.ID,
		Creator:     creator,
		Title:       dish.Title,
		Picture:     dish.Picture,
		Description: dish.Description,
		Duration:    dish.Duration,
		Ingredients: lines,
		IsBookmark:  bookmarked[dish.ID],
		IsInBasket:  inBasket[dish.ID],
		CreatedAt:   dish.CreatedAt,
	}
}

// GetDishShort returns the compact form of a dish
func (s *DishService) GetDishShort(ctx context.Context, dishID uint) (*models.DishShort, error) {
	dish, err := s.dishes.GetDishByID(ctx, dishID)
	if err != nil {
		return nil, err
	}
	short := ToDishShort(dish)
	return &short, nil
}

// ToDishShort converts a dish to its compact form
func ToDishShort(d *models.Dish) models.DishShort {
	return models.DishShort{ID: d.ID, Title: d.Title, Picture: d.Picture, Duration: d.Duration}
}

// DeleteDish deletes a dish owned by requesterID together with its
// components, relations, picture and cached short link
func (s *DishService) DeleteDish(ctx context.Context, dishID, requesterID uint) error {
	dish, err := s.dishes.GetDishByID(ctx, dishID)
	if err != nil {
		return err
	}
	if dish.CreatorID != requesterID {
		return apperrors.ErrForbidden
	}
	if err := s.dishes.DeleteDish(ctx, dishID); err != nil {
		return err
	}
	s.links.Forget(dishID)
	if err := s.images.Delete(ctx, dish.Picture); err != nil {
		logger.Warn().Err(err).Uint("dish_id", dishID).Str("key", dish.Picture).Msg("failed to delete dish picture")
	}
	return nil
}
