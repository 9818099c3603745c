package repositories

import (
	"context"
	"testing"

	"github.com/anonto42/foodgram/backend/internal/apperrors"
	"github.com/anonto42/foodgram/backend/internal/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

func TestRelationAddRemove(t *testing.T) {
	db := newTestDB(t)
	repo := NewPostgresRelationRepository(db)
	ctx := context.Background()

	rel := &models.Relation{Kind: models.RelationBookmark, SubjectID: 1, ObjectID: 5}
	require.NoError(t, repo.AddRelation(ctx, rel))
	assert.NotZero(t, rel.ID)

	err := repo.AddRelation(ctx, &models.Relation{Kind: models.RelationBookmark, SubjectID: 1, ObjectID: 5})
	assert.ErrorIs(t, err, apperrors.ErrDuplicate)

	// same pair under another kind is a different relation
	require.NoError(t, repo.AddRelation(ctx, &models.Relation{Kind: models.RelationBasket, SubjectID: 1, ObjectID: 5}))

	ok, err := repo.HasRelation(ctx, models.RelationBookmark, 1, 5)
	require.NoError(t, err)
	assert.True(t, ok)

	require.NoError(t, repo.RemoveRelation(ctx, models.RelationBookmark, 1, 5))
	assert.ErrorIs(t, repo.RemoveRelation(ctx, models.RelationBookmark, 1, 5), apperrors.ErrNotFound)

	var count int64
	require.NoError(t, db.Model(&models.Relation{}).Count(&count).Error)
	assert.EqualValues(t, 1, count)
}

func TestRelationUniqueIndexIsBackstop(t *testing.T) {
	db := newTestDB(t)
	require.NoError(t, db.Create(&models.Relation{Kind: models.RelationFollow, SubjectID: 1, ObjectID: 2}).Error)

	err := db.Create(&models.Relation{Kind: models.RelationFollow, SubjectID: 1, ObjectID: 2}).Error
	assert.ErrorIs(t, err, gorm.ErrDuplicatedKey)
}

func TestRelationObjectQueries(t *testing.T) {
	db := newTestDB(t)
	repo := NewPostgresRelationRepository(db)
	ctx := context.Background()

	for _, obj := range []uint{9, 3, 7} {
		require.NoError(t, repo.AddRelation(ctx, &models.Relation{Kind: models.RelationBasket, SubjectID: 4, ObjectID: obj}))
	}
	require.NoError(t, repo.AddRelation(ctx, &models.Relation{Kind: models.RelationBasket, SubjectID: 5, ObjectID: 1}))

	ids, err := repo.GetObjectIDs(ctx, models.RelationBasket, 4)
	require.NoError(t, err)
	assert.Equal(t, []uint{9, 3, 7}, ids)

	set, err := repo.GetObjectIDSet(ctx, models.RelationBasket, 4, []uint{1, 3, 8, 9})
	require.NoError(t, err)
	assert.Equal(t, map[uint]bool{3: true, 9: true}, set)

	empty, err := repo.GetObjectIDSet(ctx, models.RelationBasket, 4, nil)
	require.NoError(t, err)
	assert.Empty(t, empty)
}
