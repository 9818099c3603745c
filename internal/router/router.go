package router

import (
	"fmt"

	"github.com/anonto42/foodgram/backend/internal/handlers"
	"github.com/anonto42/foodgram/backend/internal/middleware"
	"github.com/anonto42/foodgram/backend/internal/models"
	"github.com/anonto42/foodgram/backend/internal/repositories"
	"github.com/anonto42/foodgram/backend/internal/services"
	"github.com/anonto42/foodgram/backend/internal/storage"
	"github.com/anonto42/foodgram/backend/pkg/logger"
	"github.com/labstack/echo/v4"
	"gorm.io/gorm"
)

// Deps carries everything SetupRoutes wires together
type Deps struct {
	DB                 *gorm.DB
	Blobs              storage.BlobStore
	JWTSecret          string
	FirebaseAuth       middleware.IDTokenVerifier // nil disables Firebase sign-in
	PublicBaseURL      string
	ShortLinkCacheSize int
}

// Migrate creates or updates the relational schema
func Migrate(db *gorm.DB) error {
	return db.AutoMigrate(
		&models.User{},
		&models.Product{},
		&models.Dish{},
		&models.Component{},
		&models.Relation{},
	)
}

// SetupRoutes configures all application routes and injects dependencies
func SetupRoutes(e *echo.Echo, deps Deps) error {
	// Health check - always accessible
	e.GET("/health", handlers.HealthCheck)

	// --- Initialize Repositories ---
	userRepo := repositories.NewPostgresUserRepository(deps.DB)
	productRepo := repositories.NewPostgresProductRepository(deps.DB)
	dishRepo := repositories.NewPostgresDishRepository(deps.DB)
	relationRepo := repositories.NewPostgresRelationRepository(deps.DB)

	// --- Initialize Services ---
	imageService := services.NewImageService(deps.Blobs)
	shortLinks, err := services.NewShortLinkService(dishRepo, deps.ShortLinkCacheSize)
	if err != nil {
		return fmt.Errorf("short link cache: %w", err)
	}
	dishService := services.NewDishService(dishRepo, productRepo, userRepo, relationRepo, imageService, shortLinks)
	relationService := services.NewRelationService(relationRepo, dishRepo, userRepo)
	shoppingList := services.NewShoppingListService(relationRepo, dishRepo)
	profileService := services.NewProfileService(userRepo, dishRepo, relationRepo, imageService)

	resolvers := []middleware.TokenResolver{middleware.JWTResolver(deps.JWTSecret)}
	if deps.FirebaseAuth != nil {
		resolvers = append(resolvers, middleware.FirebaseResolver(deps.FirebaseAuth, userRepo))
		logger.Info().Msg("Firebase ID tokens accepted")
	}

	linker := handlers.Linker{BaseURL: deps.PublicBaseURL}

	// --- Root routes: short links and media ---
	handlers.NewShortLinkHandler(shortLinks).RegisterShortLinkRoutes(e)
	handlers.NewMediaHandler(imageService).RegisterMediaRoutes(e)

	// --- Public routes (caller identified when a token is sent) ---
	public := e.Group("/api/v1", middleware.OptionalAuthenticate(resolvers...))

	// --- Protected routes (require authentication) ---
	protected := e.Group("/api/v1", middleware.Authenticate(resolvers...))

	handlers.NewProductHandler(productRepo).RegisterProductRoutes(public)
	handlers.NewDishHandler(dishService, shortLinks, linker).RegisterDishRoutes(public, protected)
	handlers.NewRelationHandler(relationService, dishService, userRepo, linker).RegisterRelationRoutes(protected)
	handlers.NewShoppingListHandler(shoppingList).RegisterShoppingListRoutes(protected)
	handlers.NewProfileHandler(profileService, linker).RegisterProfileRoutes(protected)

	logger.Info().Int("routes", len(e.Routes())).Msg("All routes configured")
	return nil
}
