package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/debeshghorui/Roomsy/internal/adapter/geocode"
	"github.com/debeshghorui/Roomsy/internal/adapter/httpapi"
	natsAdapter "github.com/debeshghorui/Roomsy/internal/adapter/messaging/nats"
	"github.com/debeshghorui/Roomsy/internal/adapter/repository/cache"
	mongoRepo "github.com/debeshghorui/Roomsy/internal/adapter/repository/mongodb"
	s3Storage "github.com/debeshghorui/Roomsy/internal/adapter/storage/s3"
	"github.com/debeshghorui/Roomsy/internal/config"
	"github.com/debeshghorui/Roomsy/internal/mailer"
	"github.com/debeshghorui/Roomsy/internal/platform/logger"
	"github.com/debeshghorui/Roomsy/internal/platform/metrics"
	"github.com/debeshghorui/Roomsy/internal/usecase"

	"github.com/joho/godotenv"
	"github.com/redis/go-redis/v9"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
	"go.uber.org/zap"
)

func main() {
	// .env is optional, for local development only.
	if err := godotenv.Load(); err != nil {
		fmt.Printf("INFO: .env file not found or error loading: %v. Relying on OS environment variables.\n", err)
	}

	appLogger := logger.New(logger.DefaultConfig())
	defer appLogger.Sync()

	cfg, err := config.Load(appLogger)
	if err != nil {
		appLogger.Fatal("Failed to load configuration", zap.Error(err))
	}
	appLogger.Info("Application starting...", zap.String("service_name", cfg.ServiceName))

	// MongoDB
	mongoClient, err := mongo.Connect(context.Background(), options.Client().ApplyURI(cfg.MongoURI))
	if err != nil {
		appLogger.Fatal("Failed to connect to MongoDB", zap.Error(err))
	}
	defer func() {
		if err := mongoClient.Disconnect(context.Background()); err != nil {
			appLogger.Error("Error disconnecting from MongoDB", zap.Error(err))
		}
	}()
	ctxPing, cancelPing := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancelPing()
	if err := mongoClient.Ping(ctxPing, nil); err != nil {
		appLogger.Fatal("Failed to ping MongoDB", zap.Error(err))
	}
	appLogger.Info("Successfully connected and pinged MongoDB.")
	db := mongoClient.Database(cfg.MongoDatabase)

	// Redis
	redisClient := redis.NewClient(&redis.Options{Addr: cfg.RedisAddr})
	defer redisClient.Close()
	if err := redisClient.Ping(context.Background()).Err(); err != nil {
		appLogger.Fatal("Failed to ping Redis", zap.Error(err))
	}
	appLogger.Info("Successfully connected to Redis.")

	// NATS
	natsPublisher, err := natsAdapter.NewPublisher(cfg.NATSURL, appLogger, cfg.ServiceName)
	if err != nil {
		appLogger.Fatal("Failed to initialize NATS publisher", zap.Error(err))
	}
	defer natsPublisher.Close()
	appLogger.Info("NATS Publisher initialized.")

	// Repositories
	listingRepo, err := mongoRepo.NewListingRepository(db, appLogger)
	if err != nil {
		appLogger.Fatal("Failed to initialize listing repository", zap.Error(err))
	}
	reviewRepo, err := mongoRepo.NewReviewRepository(db, appLogger)
	if err != nil {
		appLogger.Fatal("Failed to initialize review repository", zap.Error(err))
	}
	userRepo, err := mongoRepo.NewUserRepository(db, appLogger)
	if err != nil {
		appLogger.Fatal("Failed to initialize user repository", zap.Error(err))
	}

	// Object storage for listing images
	mediaStorage, err := s3Storage.NewStorage(cfg.S3Endpoint, cfg.S3AccessKey, cfg.S3SecretKey, cfg.S3Bucket, cfg.S3UseSSL, appLogger)
	if err != nil {
		appLogger.Fatal("Failed to initialize S3 storage", zap.Error(err))
	}

	geocoder := geocode.NewMapboxClient(cfg.MapboxToken, appLogger)

	var listingMailer usecase.Mailer
	if cfg.MailEnabled {
		listingMailer = mailer.NewSMTPMailer(cfg.SMTPHost, cfg.SMTPPort, cfg.SMTPUser, cfg.SMTPPass, cfg.MailFrom)
		appLogger.Info("SMTP mailer enabled.", zap.String("host", cfg.SMTPHost))
	}

	metricsManager := metrics.NewManager(cfg.ServiceName)

	// Usecases
	authorizer := usecase.NewAuthorizer(appLogger)
	listingCache := cache.NewListingCache(redisClient)
	tokenStore := cache.NewTokenStore(redisClient)

	identityUC := usecase.NewIdentityUsecase(userRepo, tokenStore, cfg.JWTSecret, time.Duration(cfg.JWTTTLHours)*time.Hour, appLogger)
	listingUC := usecase.NewListingUsecase(listingRepo, reviewRepo, userRepo, geocoder, mediaStorage, authorizer, listingCache, natsPublisher, listingMailer, appLogger)
	reviewUC := usecase.NewReviewUsecase(reviewRepo, listingRepo, authorizer, listingCache, natsPublisher, appLogger)

	// HTTP surface
	listingHandler := httpapi.NewListingHandler(listingUC, metricsManager, appLogger)
	reviewHandler := httpapi.NewReviewHandler(reviewUC, metricsManager, appLogger)
	userHandler := httpapi.NewUserHandler(identityUC, metricsManager, appLogger)

	router := httpapi.NewRouter(listingHandler, reviewHandler, userHandler, identityUC, metricsManager, appLogger)

	server := &http.Server{
		Addr:         ":" + cfg.HTTPPort,
		Handler:      router,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	go func() {
		if err := metrics.StartServer(cfg.PrometheusMetricsPort, appLogger, metricsManager.Registry); err != nil {
			appLogger.Error("Prometheus metrics server failed", zap.Error(err))
		}
	}()

	go func() {
		appLogger.Info("HTTP server listening", zap.String("port", cfg.HTTPPort))
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			appLogger.Fatal("HTTP server failed", zap.Error(err))
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	sig := <-quit
	appLogger.Info("Shutdown signal received", zap.String("signal", sig.String()))

	shutdownCtx, cancelShutdown := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancelShutdown()
	if err := server.Shutdown(shutdownCtx); err != nil {
		appLogger.Error("HTTP server shutdown error", zap.Error(err))
	}
	appLogger.Info("Application stopped.")
}
