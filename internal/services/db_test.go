package services

import (
	"fmt"
	"testing"

	"github.com/anonto42/foodgram/backend/internal/models"
	"github.com/anonto42/foodgram/backend/internal/repositories"
	"github.com/anonto42/foodgram/backend/internal/storage"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// testEnv wires the real repositories over an in-memory SQLite database
type testEnv struct {
	db        *gorm.DB
	store     *storage.MemoryStore
	users     *repositories.PostgresUserRepository
	dishes    *repositories.PostgresDishRepository
	products  *repositories.PostgresProductRepository
	relations *repositories.PostgresRelationRepository
	images    *ImageService
	links     *ShortLinkService
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()
	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", t.Name())
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{
		TranslateError: true,
		Logger:         logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)
	require.NoError(t, db.AutoMigrate(&models.User{}, &models.Product{}, &models.Dish{}, &models.Component{}, &models.Relation{}))
	sqlDB, err := db.DB()
	require.NoError(t, err)
	t.Cleanup(func() { sqlDB.Close() })

	env := &testEnv{
		db:        db,
		store:     storage.NewMemoryStore(),
		users:     repositories.NewPostgresUserRepository(db),
		dishes:    repositories.NewPostgresDishRepository(db),
		products:  repositories.NewPostgresProductRepository(db),
		relations: repositories.NewPostgresRelationRepository(db),
	}
	env.images = NewImageService(env.store)
	env.links, err = NewShortLinkService(env.dishes, 16)
	require.NoError(t, err)
	return env
}

func (e *testEnv) dishService() *DishService {
	return NewDishService(e.dishes, e.products, e.users, e.relations, e.images, e.links)
}

func (e *testEnv) profileService() *ProfileService {
	return NewProfileService(e.users, e.dishes, e.relations, e.images)
}

func (e *testEnv) user(t *testing.T, username string) *models.User {
	t.Helper()
	u := &models.User{Username: username, Email: username + "@example.org", FirstName: username}
	require.NoError(t, e.db.Create(u).Error)
	return u
}

func (e *testEnv) product(t *testing.T, title, unit string) *models.Product {
	t.Helper()
	p := &models.Product{Title: title, Unit: unit}
	require.NoError(t, e.db.Create(p).Error)
	return p
}
