package repositories

import (
	"context"
	"strings"

	"github.com/anonto42/foodgram/backend/internal/models"
	"gorm.io/gorm"
)

// ProductRepository defines the interface for ingredient reference data
type ProductRepository interface {
	SearchProducts(ctx context.Context, prefix string) ([]models.Product, error)
	CountProducts(ctx context.Context, ids []uint) (int64, error)
}

// PostgresProductRepository implements ProductRepository for PostgreSQL
type PostgresProductRepository struct {
	db *gorm.DB
}

// NewPostgresProductRepository creates a new PostgresProductRepository
func NewPostgresProductRepository(db *gorm.DB) *PostgresProductRepository {
	return &PostgresProductRepository{db: db}
}

// SearchProducts returns products whose title starts with prefix (case-insensitive),
// or all products when prefix is empty
func (r *PostgresProductRepository) SearchProducts(ctx context.Context, prefix string) ([]models.Product, error) {
	var products []models.Product
	q := r.db.WithContext(ctx).Order("title")
	if prefix != "" {
		q = q.Where("LOWER(title) LIKE ? ESCAPE '\\'", escapeLike(strings.ToLower(prefix))+"%")
	}
	if err := q.Find(&products).Error; err != nil {
		return nil, err
	}
	return products, nil
}

// CountProducts counts how many of ids name existing products
func (r *PostgresProductRepository) CountProducts(ctx context.Context, ids []uint) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&models.Product{}).Where("id IN ?", ids).Count(&count).Error
	return count, err
}

func escapeLike(s string) string {
	return strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`).Replace(s)
}
