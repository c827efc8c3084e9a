package main

import (
	"context"
	"database/sql"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/golang-migrate/migrate/v4"
	"github.com/golang-migrate/migrate/v4/database/postgres"
	_ "github.com/golang-migrate/migrate/v4/source/file"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"github.com/shopspring/decimal"

	"github.com/covercraft/catalog_api/internal/cache"
	"github.com/covercraft/catalog_api/internal/config"
	"github.com/covercraft/catalog_api/internal/database"
	"github.com/covercraft/catalog_api/internal/handler"
	"github.com/covercraft/catalog_api/internal/middleware"
	"github.com/covercraft/catalog_api/internal/repository"
	"github.com/covercraft/catalog_api/internal/service"
)

// main is the application entrypoint for the cover catalog admin API.
func main() {
	// 1. Load config
	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to load configuration: %v\n", err)
		os.Exit(1)
	}

	// 2. Setup logger
	setupLogger(cfg.Env)
	log.Info().Str("env", cfg.Env).Msg("starting catalog api")

	// Prices serialize as JSON numbers, matching the dashboard contract.
	decimal.MarshalJSONWithoutQuotes = true

	// 3. Connect database
	db, err := database.Connect(&cfg.DB)
	if err != nil {
		log.Error().Err(err).Msg("database connection failed")
		fmt.Fprintf(os.Stderr, "database connection failed: %v\n", err)
		os.Exit(1)
	}
	defer db.Close()

	// 3a. Run migrations
	if err := runMigrations(db.DB); err != nil {
		log.Error().Err(err).Msg("migration failed")
		fmt.Fprintf(os.Stderr, "migration failed: %v\n", err)
		os.Exit(1)
	}
	log.Info().Msg("migrations completed successfully")

	// 3b. Connect to Redis
	redisClient, err := cache.NewRedisClient(&cfg.Redis)
	if err != nil {
		log.Error().Err(err).Msg("redis connection failed")
		fmt.Fprintf(os.Stderr, "redis connection failed: %v\n", err)
		os.Exit(1)
	}
	defer redisClient.Close()
	log.Info().Msg("redis connected successfully")

	catalogCache := cache.NewCatalogCache(redisClient, cfg.Cache.ListTTL)

	// 4. Initialize media storage
	mediaSvc, err := service.NewMediaService(context.Background(), &cfg.S3)
	if err != nil {
		log.Error().Err(err).Msg("media service initialization failed")
		fmt.Fprintf(os.Stderr, "media service initialization failed: %v\n", err)
		os.Exit(1)
	}

	// 5. Initialize repositories
	brandRepo := repository.NewBrandRepository(db)
	seriesRepo := repository.NewSeriesRepository(db)
	phoneModelRepo := repository.NewPhoneModelRepository(db)
	productRepo := repository.NewProductRepository(db)

	// 6. Initialize services
	catalogSvc := service.NewCatalogService(brandRepo, seriesRepo, phoneModelRepo)
	productSvc := service.NewProductService(productRepo, phoneModelRepo, catalogCache)

	// 7. Initialize handlers
	handlers := &Handlers{
		Health:  handler.NewHealthHandler(db),
		Brand:   handler.NewBrandHandler(catalogSvc),
		Series:  handler.NewSeriesHandler(catalogSvc),
		Model:   handler.NewModelHandler(catalogSvc),
		Product: handler.NewProductHandler(productSvc, mediaSvc),
		Upload:  handler.NewUploadHandler(mediaSvc),
	}

	// 8. Setup router
	if cfg.Env == "production" {
		gin.SetMode(gin.ReleaseMode)
	}
	router := gin.New()
	router.Use(gin.Recovery())
	router.Use(middleware.CORSMiddleware())
	router.Use(middleware.LoggingMiddleware())
	setupRoutes(router, handlers)

	// 9. Start HTTP server
	srv := &http.Server{
		Addr:    ":" + cfg.Port,
		Handler: router,
	}

	go func() {
		log.Info().Str("port", cfg.Port).Msg("Starting server")
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatal().Err(err).Msg("Server failed")
		}
	}()

	// 10. Wait for interrupt signal
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info().Msg("Shutting down server...")

	// 11. Shutdown HTTP server with timeout
	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer shutdownCancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("Server forced to shutdown")
	}
	log.Info().Msg("Server exited")
}

// Handlers groups all HTTP handlers used by the server.
type Handlers struct {
	Health  *handler.HealthHandler
	Brand   *handler.BrandHandler
	Series  *handler.SeriesHandler
	Model   *handler.ModelHandler
	Product *handler.ProductHandler
	Upload  *handler.UploadHandler
}

// setupRoutes registers all routes.
func setupRoutes(router *gin.Engine, handlers *Handlers) {
	router.GET("/v1/health", handlers.Health.GetHealth)

	v1 := router.Group("/v1")
	{
		v1.GET("/brands", handlers.Brand.ListBrands)
		v1.POST("/brands", handlers.Brand.CreateBrand)
		v1.DELETE("/brands", handlers.Brand.DeleteBrand)

		v1.GET("/series", handlers.Series.ListSeries)
		v1.GET("/series/:id", handlers.Series.ListSeriesByBrand)
		v1.POST("/series", handlers.Series.CreateSeries)
		v1.DELETE("/series", handlers.Series.DeleteSeries)

		v1.GET("/models", handlers.Model.ListModels)
		v1.GET("/models/:id", handlers.Model.ListModelsBySeries)
		v1.POST("/models", handlers.Model.CreateModel)
		v1.DELETE("/models", handlers.Model.DeleteModel)

		v1.GET("/products", handlers.Product.ListProducts)
		v1.POST("/products", handlers.Product.CreateProduct)
		v1.POST("/products/compose", handlers.Product.Compose)
		v1.GET("/variants", handlers.Product.ListVariants)

		v1.POST("/uploads", handlers.Upload.Upload)
	}
}

// runMigrations runs database migrations using golang-migrate.
func runMigrations(db *sql.DB) error {
	driver, err := postgres.WithInstance(db, &postgres.Config{})
	if err != nil {
		return fmt.Errorf("could not create migration driver: %w", err)
	}

	m, err := migrate.NewWithDatabaseInstance(
		"file://migrations",
		"postgres", driver)
	if err != nil {
		return fmt.Errorf("could not create migration instance: %w", err)
	}

	// Run migrations
	if err := m.Up(); err != nil && err != migrate.ErrNoChange {
		return fmt.Errorf("could not run migrations: %w", err)
	}

	return nil
}

func setupLogger(env string) {
	if env == "production" {
		zerolog.SetGlobalLevel(zerolog.InfoLevel)
	} else {
		zerolog.SetGlobalLevel(zerolog.DebugLevel)
	}
	log.Logger = zerolog.New(os.Stdout).With().Timestamp().Logger()
}
