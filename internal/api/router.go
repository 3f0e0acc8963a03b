package api

import (
	"github.com/gin-gonic/gin"
	"github.com/uozumi/gyodex/internal/api/handler"
	"github.com/uozumi/gyodex/internal/api/middleware"
	"github.com/uozumi/gyodex/internal/config"
	"github.com/uozumi/gyodex/internal/logger"
	"github.com/uozumi/gyodex/internal/repository"
	"github.com/uozumi/gyodex/internal/service"
	"github.com/uozumi/gyodex/internal/source"
)

// SetupRouter configures the Gin router with all routes
func SetupRouter(
	store repository.Store,
	queryService *service.QueryService,
	importService *service.ImportService,
	favorites handler.FavoriteStore,
	sources map[string]source.DatasetSource,
	cfg *config.Config,
	log *logger.Logger,
) *gin.Engine {
	// Set Gin mode
	switch cfg.Server.Mode {
	case "release":
		gin.SetMode(gin.ReleaseMode)
	case "test":
		gin.SetMode(gin.TestMode)
	default:
		gin.SetMode(gin.DebugMode)
	}

	r := gin.New()

	// Add middleware
	r.Use(gin.Recovery())
	r.Use(middleware.LoggerMiddleware(log))
	r.Use(middleware.CORS(middleware.CORSConfig{
		AllowedOrigins:  cfg.Server.CORS.AllowedOrigins,
		AllowAllOrigins: cfg.Server.CORS.AllowAllOrigins,
	}))

	// Create handlers
	healthHandler := handler.NewHealthHandler(store)
	fishHandler := handler.NewFishHandler(queryService)
	searchHandler := handler.NewSearchHandler(queryService)
	adminHandler := handler.NewAdminHandler(store, importService, sources, log)

	// Health check
	r.GET("/health", healthHandler.Health)

	// API v1 routes
	v1 := r.Group("/api/v1")
	{
		// Catalog browsing
		v1.GET("/fish", fishHandler.ListFish)
		v1.GET("/fish/random", fishHandler.RandomFish)
		v1.GET("/fish/popular", fishHandler.PopularFish)
		v1.GET("/fish/sushi", fishHandler.SushiCandidates)
		v1.GET("/fish/:id", fishHandler.GetFish)

		// Search
		v1.GET("/search", searchHandler.Search)
		v1.GET("/search/japanese", searchHandler.SearchJapanese)

		// Catalog metadata
		v1.GET("/habitats", searchHandler.Habitats)
		v1.GET("/preparations", searchHandler.Preparations)
		v1.GET("/stats", searchHandler.GetStats)

		// Favorites (only available with a relational backend)
		if favorites != nil {
			favoriteHandler := handler.NewFavoriteHandler(favorites, queryService)
			v1.GET("/favorites", favoriteHandler.ListFavorites)
			v1.GET("/favorites/:id", favoriteHandler.FavoriteStatus)
			v1.PUT("/favorites/:id", favoriteHandler.AddFavorite)
			v1.DELETE("/favorites/:id", favoriteHandler.RemoveFavorite)
		}

		// Admin
		admin := v1.Group("/admin")
		{
			admin.PUT("/fish/:id", adminHandler.UpsertFish)
			admin.DELETE("/fish/:id", adminHandler.DeleteFish)
			admin.POST("/import", adminHandler.Import)
			admin.POST("/reset", adminHandler.Reset)
		}
	}

	return r
}
