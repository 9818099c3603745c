package services

import (
	"context"
	"errors"
	"fmt"

	"github.com/anonto42/foodgram/backend/internal/apperrors"
	"github.com/anonto42/foodgram/backend/internal/metrics"
	"github.com/anonto42/foodgram/backend/internal/models"
	"github.com/anonto42/foodgram/backend/internal/repositories"
	"github.com/anonto42/foodgram/backend/pkg/logger"
)

type dishExistence interface {
	DishExists(ctx context.Context, id uint) (bool, error)
}

type userExistence interface {
	UserExists(ctx context.Context, id uint) (bool, error)
}

// RelationService adds and removes bookmark, basket and follow relations with
// uniform semantics: a second add is a duplicate, a remove of an absent pair is
// not found.
type RelationService struct {
	relations repositories.RelationRepository
	dishes    dishExistence
	users     userExistence
}

// NewRelationService creates a new RelationService
func NewRelationService(relations repositories.RelationRepository, dishes dishExistence, users userExistence) *RelationService {
	return &RelationService{relations: relations, dishes: dishes, users: users}
}

// AddRelation links subject to object. It fails with ErrDuplicate when the pair
// exists, ErrInvalidRelation on a self-follow, and ErrNotFound when the object
// does not exist.
func (s *RelationService) AddRelation(ctx context.Context, subjectID, objectID uint, kind models.RelationKind) (*models.Relation, error) {
	relation, err := s.addRelation(ctx, subjectID, objectID, kind)
	record(kind, "add", err)
	return relation, err
}

func (s *RelationService) addRelation(ctx context.Context, subjectID, objectID uint, kind models.RelationKind) (*models.Relation, error) {
	if err := s.validate(ctx, subjectID, objectID, kind); err != nil {
		return nil, err
	}

	relation := &models.Relation{Kind: kind, SubjectID: subjectID, ObjectID: objectID}
	if err := s.relations.AddRelation(ctx, relation); err != nil {
		if errors.Is(err, apperrors.ErrDuplicate) {
			return nil, fmt.Errorf("%s relation %w", kind, apperrors.ErrDuplicate)
		}
		return nil, err
	}
	return relation, nil
}

// RemoveRelation unlinks subject from object, failing with ErrNotFound when
// the pair does not exist.
func (s *RelationService) RemoveRelation(ctx context.Context, subjectID, objectID uint, kind models.RelationKind) error {
	err := s.removeRelation(ctx, subjectID, objectID, kind)
	record(kind, "remove", err)
	return err
}

func (s *RelationService) removeRelation(ctx context.Context, subjectID, objectID uint, kind models.RelationKind) error {
	if err := s.validate(ctx, subjectID, objectID, kind); err != nil {
		return err
	}
	return s.relations.RemoveRelation(ctx, kind, subjectID, objectID)
}

// ToggleRelation dispatches to AddRelation or RemoveRelation. The returned
// relation is nil on removal.
func (s *RelationService) ToggleRelation(ctx context.Context, kind models.RelationKind, subjectID, objectID uint, add bool) (*models.Relation, error) {
	if add {
		return s.AddRelation(ctx, subjectID, objectID, kind)
	}
	return nil, s.RemoveRelation(ctx, subjectID, objectID, kind)
}

func (s *RelationService) validate(ctx context.Context, subjectID, objectID uint, kind models.RelationKind) error {
	if !kind.Valid() {
		return fmt.Errorf("unknown kind %q: %w", kind, apperrors.ErrInvalidRelation)
	}
	if subjectID == 0 || objectID == 0 {
		return fmt.Errorf("missing identifier: %w", apperrors.ErrInvalidRelation)
	}
	if kind == models.RelationFollow && subjectID == objectID {
		return fmt.Errorf("cannot follow yourself: %w", apperrors.ErrInvalidRelation)
	}

	var (
		exists bool
		err    error
		what   = "user"
	)
	if kind.TargetsDish() {
		what = "dish"
		exists, err = s.dishes.DishExists(ctx, objectID)
	} else {
		exists, err = s.users.UserExists(ctx, objectID)
	}
	if err != nil {
		return err
	}
	if !exists {
		return apperrors.NotFound(what)
	}
	return nil
}

func record(kind models.RelationKind, action string, err error) {
	outcome := "ok"
	switch {
	case err == nil:
	case errors.Is(err, apperrors.ErrDuplicate):
		outcome = "duplicate"
	case errors.Is(err, apperrors.ErrNotFound):
		outcome = "not_found"
	case errors.Is(err, apperrors.ErrInvalidRelation):
		outcome = "invalid"
	default:
		outcome = "error"
		logger.Error().Err(err).Str("kind", string(kind)).Str("action", action).Msg("relation toggle failed")
	}
	metrics.RelationToggles.WithLabelValues(string(kind), action, outcome).Inc()
}
