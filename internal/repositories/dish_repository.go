package repositories

import (
	"context"
	"errors"

	"github.com/anonto42/foodgram/backend/internal/apperrors"
	"github.com/anonto42/foodgram/backend/internal/models"
	"gorm.io/gorm"
)

// DishRepository defines the interface for dish and component data operations
type DishRepository interface {
	CreateDish(ctx context.Context, dish *models.Dish) error
	GetDishByID(ctx context.Context, id uint) (*models.Dish, error)
	DishExists(ctx context.Context, id uint) (bool, error)
	DeleteDish(ctx context.Context, id uint) error
	GetDishesByCreator(ctx context.Context, creatorID uint, limit int) ([]models.Dish, error)
	CountDishesByCreator(ctx context.Context, creatorID uint) (int64, error)
	GetComponentLines(ctx context.Context, dishIDs []uint) ([]models.ComponentLine, error)
}

// PostgresDishRepository implements DishRepository for PostgreSQL
type PostgresDishRepository struct {
	db *gorm.DB
}

// NewPostgresDishRepository creates a new PostgresDishRepository
func NewPostgresDishRepository(db *gorm.DB) *PostgresDishRepository {
	return &PostgresDishRepository{db: db}
}

// CreateDish inserts the dish and its components in one transaction
func (r *PostgresDishRepository) CreateDish(ctx context.Context, dish *models.Dish) error {
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		components := dish.Components
		dish.Components = nil
		if err := tx.Create(dish).Error; err != nil {
			return err
		}
		for i := range components {
			components[i].DishID = dish.ID
		}
		if err := tx.Create(&components).Error; err != nil {
			return err
		}
		dish.Components = components
		return nil
	})
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		return apperrors.NewValidationError("duplicate ingredients")
	}
	return err
}

// GetDishByID retrieves a dish by ID
func (r *PostgresDishRepository) GetDishByID(ctx context.Context, id uint) (*models.Dish, error) {
	var dish models.Dish
	if err := r.db.WithContext(ctx).First(&dish, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.NotFound("dish")
		}
		return nil, err
	}
	return &dish, nil
}

func (r *PostgresDishRepository) DishExists(ctx context.Context, id uint) (bool, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&models.Dish{}).Where("id = ?", id).Count(&count).Error
	return count > 0, err
}

// DeleteDish removes the dish, its components and every bookmark/basket row
// pointing at it
func (r *PostgresDishRepository) DeleteDish(ctx context.Context, id uint) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("dish_id = ?", id).Delete(&models.Component{}).Error; err != nil {
			return err
		}
		if err := tx.Where("kind IN ? AND object_id = ?",
			[]models.RelationKind{models.RelationBookmark, models.RelationBasket}, id).
			Delete(&models.Relation{}).Error; err != nil {
			return err
		}
		res := tx.Delete(&models.Dish{}, id)
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			return apperrors.NotFound("dish")
		}
		return nil
	})
}

// GetDishesByCreator returns the creator's newest dishes; limit <= 0 means no limit
func (r *PostgresDishRepository) GetDishesByCreator(ctx context.Context, creatorID uint, limit int) ([]models.Dish, error) {
	var dishes []models.Dish
	q := r.db.WithContext(ctx).Where("creator_id = ?", creatorID).Order("created_at DESC")
	if limit > 0 {
		q = q.Limit(limit)
	}
	err := q.Find(&dishes).Error
	return dishes, err
}

func (r *PostgresDishRepository) CountDishesByCreator(ctx context.Context, creatorID uint) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&models.Dish{}).Where("creator_id = ?", creatorID).Count(&count).Error
	return count, err
}

// GetComponentLines resolves the components of the given dishes against their products
func (r *PostgresDishRepository) GetComponentLines(ctx context.Context, dishIDs []uint) ([]models.ComponentLine, error) {
	var lines []models.ComponentLine
	if len(dishIDs) == 0 {
		return lines, nil
	}
	err := r.db.WithContext(ctx).Model(&models.Component{}).
		Select("components.dish_id, components.product_id, products.title, products.unit, components.quantity").
		Joins("JOIN products ON products.id = components.product_id").
		Where("components.dish_id IN ?", dishIDs).
		Order("components.id").
		Scan(&lines).Error
	return lines, err
}
