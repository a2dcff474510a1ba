package main

import (
	"context"
	"errors"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"go-fooddelivery/controllers"
	"go-fooddelivery/middleware"
	"go-fooddelivery/models"
	"go-fooddelivery/routes"
	"go-fooddelivery/services"
	"go-fooddelivery/storage"
	"go-fooddelivery/utils"

	"github.com/gorilla/mux"
	"github.com/rs/cors"
	"go.uber.org/zap"
)

func main() {
	// Load configuration from .env file and environment
	cfg, envLoaded := utils.LoadConfig()

	logger, err := utils.NewLogger(cfg.Env)
	if err != nil {
		log.Fatalf("init logger: %v", err)
	}
	defer logger.Sync()

	if !envLoaded {
		logger.Info("No .env file found. Proceeding with environment variables.")
	}

	if err := run(cfg, logger); err != nil {
		logger.Fatal("server stopped", zap.Error(err))
	}
}

func run(cfg utils.Config, logger *zap.Logger) error {
	ctx := context.Background()

	// Connect to MongoDB
	client, err := utils.ConnectDB(ctx, cfg.MongoURI)
	if err != nil {
		return err
	}
	defer func() {
		if err := client.Disconnect(context.Background()); err != nil {
			logger.Error("disconnect mongodb", zap.Error(err))
		}
	}()

	db := client.Database(cfg.MongoDB)
	registry := models.NewRegistry()
	if err := utils.EnsureIndexes(ctx, db, registry, logger); err != nil {
		return err
	}
	store := storage.NewMongoStore(db)

	// Optional report cache
	var cache services.ReportCache
	if cfg.RedisAddr != "" {
		rdb, err := utils.NewRedisClient(ctx, cfg.RedisAddr)
		if err != nil {
			logger.Warn("report cache disabled", zap.String("addr", cfg.RedisAddr), zap.Error(err))
		} else {
			defer rdb.Close()
			cache = storage.NewRedisCache(rdb, cfg.ReportCacheTTL)
			logger.Info("report cache enabled", zap.String("addr", cfg.RedisAddr), zap.Duration("ttl", cfg.ReportCacheTTL))
		}
	}

	// Optional change events
	var publisher services.ChangePublisher
	if cfg.KafkaBroker != "" {
		writer := utils.NewKafkaWriter(cfg.KafkaBroker, cfg.KafkaTopic, logger)
		defer writer.Close()
		publisher = storage.NewKafkaPublisher(writer)
		logger.Info("change events enabled", zap.String("broker", cfg.KafkaBroker), zap.String("topic", cfg.KafkaTopic))
	}

	// Initialize services and controllers
	collectionService := services.NewCollectionService(registry, store, cache, publisher, logger)
	restaurantService := services.NewRestaurantService(store, cache, publisher, logger)
	reportService := services.NewReportService(store, cache, logger)

	router := mux.NewRouter()
	routes.RegisterRoutes(router, routes.Controllers{
		Health:     controllers.NewHealthController(store),
		Collection: controllers.NewCollectionController(collectionService, logger),
		Restaurant: controllers.NewRestaurantController(restaurantService),
		Report:     controllers.NewReportController(reportService),
	})
	router.Use(
		middleware.Recover(logger),
		middleware.RequestID,
		middleware.Logger(logger),
		middleware.Timeout(cfg.RequestTimeout),
	)

	handler := cors.New(cors.Options{
		AllowedOrigins: cfg.CORSOrigins,
		AllowedMethods: []string{http.MethodGet, http.MethodPost, http.MethodPatch, http.MethodDelete, http.MethodOptions},
		AllowedHeaders: []string{"Content-Type", "X-Request-ID"},
	}).Handler(router)

	srv := &http.Server{
		Addr:              ":" + cfg.Port,
		Handler:           handler,
		ReadHeaderTimeout: 5 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		logger.Info("Server is running", zap.String("port", cfg.Port))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	stop := make(chan os.Signal, 1)
	signal.Notify(stop, syscall.SIGINT, syscall.SIGTERM)

	select {
	case err := <-errCh:
		return err
	case sig := <-stop:
		logger.Info("shutting down", zap.String("signal", sig.String()))
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	return srv.Shutdown(shutdownCtx)
}
