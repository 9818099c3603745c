package services

import (
	"context"
	"fmt"
	"sort"
	"sync"

	"github.com/anonto42/foodgram/backend/internal/apperrors"
	"github.com/anonto42/foodgram/backend/internal/models"
)

type relationKey struct {
	kind    models.RelationKind
	subject uint
	object  uint
}

// fakeRelations is an in-memory RelationRepository
type fakeRelations struct {
	mu     sync.Mutex
	rows   map[relationKey]uint
	nextID uint
	err    error
}

func newFakeRelations() *fakeRelations {
	return &fakeRelations{rows: make(map[relationKey]uint)}
}

func (f *fakeRelations) AddRelation(_ context.Context, r *models.Relation) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.err != nil {
		return f.err
	}
	k := relationKey{r.Kind, r.SubjectID, r.ObjectID}
	if _, ok := f.rows[k]; ok {
		return apperrors.ErrDuplicate
	}
	f.nextID++
	f.rows[k] = f.nextID
	r.ID = f.nextID
	return nil
}

func (f *fakeRelations) RemoveRelation(_ context.Context, kind models.RelationKind, subjectID, objectID uint) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.err != nil {
		return f.err
	}
	k := relationKey{kind, subjectID, objectID}
	if _, ok := f.rows[k]; !ok {
		return fmt.Errorf("%s relation %w", kind, apperrors.ErrNotFound)
	}
	delete(f.rows, k)
	return nil
}

func (f *fakeRelations) HasRelation(_ context.Context, kind models.RelationKind, subjectID, objectID uint) (bool, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	_, ok := f.rows[relationKey{kind, subjectID, objectID}]
	return ok, f.err
}

func (f *fakeRelations) GetObjectIDs(_ context.Context, kind models.RelationKind, subjectID uint) ([]uint, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.err != nil {
		return nil, f.err
	}
	type row struct{ id, object uint }
	var rows []row
	for k, id := range f.rows {
		if k.kind == kind && k.subject == subjectID {
			rows = append(rows, row{id, k.object})
		}
	}
	sort.Slice(rows, func(i, j int) bool { return rows[i].id < rows[j].id })
	ids := make([]uint, len(rows))
	for i, r := range rows {
		ids[i] = r.object
	}
	return ids, nil
}

func (f *fakeRelations) GetObjectIDSet(ctx context.Context, kind models.RelationKind, subjectID uint, objectIDs []uint) (map[uint]bool, error) {
	result := make(map[uint]bool)
	for _, id := range objectIDs {
		ok, err := f.HasRelation(ctx, kind, subjectID, id)
		if err != nil {
			return nil, err
		}
		if ok {
			result[id] = true
		}
	}
	return result, nil
}

// idSet answers DishExists and UserExists from a fixed set of ids
type idSet struct {
	mu    sync.Mutex
	ids   map[uint]bool
	calls int
	err   error
}

func newIDSet(ids ...uint) *idSet {
	s := &idSet{ids: make(map[uint]bool)}
	for _, id := range ids {
		s.ids[id] = true
	}
	return s
}

func (s *idSet) exists(id uint) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.calls++
	if s.err != nil {
		return false, s.err
	}
	return s.ids[id], nil
}

func (s *idSet) DishExists(_ context.Context, id uint) (bool, error) { return s.exists(id) }
func (s *idSet) UserExists(_ context.Context, id uint) (bool, error) { return s.exists(id) }

// fakeComponents serves component lines per dish
type fakeComponents struct {
	byDish map[uint][]models.ComponentLine
}

func (f *fakeComponents) GetComponentLines(_ context.Context, dishIDs []uint) ([]models.ComponentLine, error) {
	var lines []models.ComponentLine
	for _, id := range dishIDs {
		lines = append(lines, f.byDish[id]...)
	}
	return lines, nil
}
