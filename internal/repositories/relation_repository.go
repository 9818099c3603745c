package repositories

import (
	"context"
	"errors"
	"fmt"

	"github.com/anonto42/foodgram/backend/internal/apperrors"
	"github.com/anonto42/foodgram/backend/internal/models"
	"gorm.io/gorm"
)

// RelationRepository defines the interface for bookmark, basket and follow rows
type RelationRepository interface {
	AddRelation(ctx context.Context, relation *models.Relation) error
	RemoveRelation(ctx context.Context, kind models.RelationKind, subjectID, objectID uint) error
	HasRelation(ctx context.Context, kind models.RelationKind, subjectID, objectID uint) (bool, error)
	GetObjectIDs(ctx context.Context, kind models.RelationKind, subjectID uint) ([]uint, error)
	GetObjectIDSet(ctx context.Context, kind models.RelationKind, subjectID uint, objectIDs []uint) (map[uint]bool, error)
}

// PostgresRelationRepository implements RelationRepository over a single relations table
type PostgresRelationRepository struct {
	db *gorm.DB
}

// NewPostgresRelationRepository creates a new PostgresRelationRepository
func NewPostgresRelationRepository(db *gorm.DB) *PostgresRelationRepository {
	return &PostgresRelationRepository{db: db}
}

// AddRelation inserts the pair inside one transaction. The existence check and
// the insert share the transaction; the unique index catches concurrent inserts
// that both passed the check.
func (r *PostgresRelationRepository) AddRelation(ctx context.Context, relation *models.Relation) error {
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var count int64
		if err := tx.Model(&models.Relation{}).
			Where("kind = ? AND subject_id = ? AND object_id = ?", relation.Kind, relation.SubjectID, relation.ObjectID).
			Count(&count).Error; err != nil {
			return err
		}
		if count > 0 {
			return apperrors.ErrDuplicate
		}
		return tx.Create(relation).Error
	})
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		return apperrors.ErrDuplicate
	}
	return err
}

func (r *PostgresRelationRepository) RemoveRelation(ctx context.Context, kind models.RelationKind, subjectID, objectID uint) error {
	res := r.db.WithContext(ctx).
		Where("kind = ? AND subject_id = ? AND object_id = ?", kind, subjectID, objectID).
		Delete(&models.Relation{})
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return fmt.Errorf("%s relation %w", kind, apperrors.ErrNotFound)
	}
	return nil
}

func (r *PostgresRelationRepository) HasRelation(ctx context.Context, kind models.RelationKind, subjectID, objectID uint) (bool, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&models.Relation{}).
		Where("kind = ? AND subject_id = ? AND object_id = ?", kind, subjectID, objectID).
		Count(&count).Error
	return count > 0, err
}

// GetObjectIDs returns every object the subject is linked to, oldest first
func (r *PostgresRelationRepository) GetObjectIDs(ctx context.Context, kind models.RelationKind, subjectID uint) ([]uint, error) {
	var ids []uint
	err := r.db.WithContext(ctx).Model(&models.Relation{}).
		Where("kind = ? AND subject_id = ?", kind, subjectID).
		Order("id").
		Pluck("object_id", &ids).Error
	return ids, err
}

// GetObjectIDSet reports which of objectIDs the subject is linked to
func (r *PostgresRelationRepository) GetObjectIDSet(ctx context.Context, kind models.RelationKind, subjectID uint, objectIDs []uint) (map[uint]bool, error) {
	result := make(map[uint]bool)
	if len(objectIDs) == 0 {
		return result, nil
	}
	var ids []uint
	err := r.db.WithContext(ctx).Model(&models.Relation{}).
		Where("kind = ? AND subject_id = ? AND object_id IN ?", kind, subjectID, objectIDs).
		Pluck("object_id", &ids).Error
	if err != nil {
		return nil, err
	}
	for _, id := range ids {
		result[id] = true
	}
	return result, nil
}
