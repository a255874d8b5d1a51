package main

import (
	"context"
	"errors"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"golang-fin-scryper/internal/fin/config"
	"golang-fin-scryper/internal/fin/delivery/consumer"
	delivery "golang-fin-scryper/internal/fin/delivery/http"
	_ "golang-fin-scryper/internal/fin/docs"
	"golang-fin-scryper/internal/fin/repository"
	"golang-fin-scryper/internal/fin/service"
	"golang-fin-scryper/pkg/common"
	"golang-fin-scryper/pkg/logger"
	"golang-fin-scryper/pkg/postgres"
	"golang-fin-scryper/pkg/redis"
	"golang-fin-scryper/pkg/telegram"

	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	"github.com/spf13/cobra"
	swagger "github.com/swaggo/echo-swagger"
)

var configPath string

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Starts the financial statement service",
	Run:   runServe,
}

func runServe(cmd *cobra.Command, args []string) {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	cfg, err := config.Load(configPath)
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	appLogger, err := logger.New(cfg.Logger.Level, cfg.Logger.Encoding)
	if err != nil {
		log.Fatalf("Failed to initialize logger: %v", err)
	}
	defer func() { _ = appLogger.Sync() }()

	appLogger.Info("Starting Financial Statement Service", logger.Field("name", cfg.App.Name))
	if cfg.Dart.APIKey == "" {
		appLogger.Fatal("DART API key is required (dart.api_key or DART_API_KEY)")
	}

	db, err := postgres.NewDB(postgres.Config{
		Host:            cfg.Database.Host,
		Port:            cfg.Database.Port,
		User:            cfg.Database.User,
		Password:        cfg.Database.Password,
		DBName:          cfg.Database.DBName,
		SSLMode:         cfg.Database.SSLMode,
		TimeZone:        cfg.Database.TimeZone,
		MaxIdleConns:    cfg.Database.MaxIdleConns,
		MaxOpenConns:    cfg.Database.MaxOpenConns,
		ConnMaxLifetime: cfg.Database.ConnMaxLifetime,
		LogLevel:        cfg.Database.LogLevel,
	})
	if err != nil {
		appLogger.Fatal("Failed to initialize database", logger.ErrorField(err))
	}
	if sqlDB, err := db.DB.DB(); err == nil {
		defer sqlDB.Close()
	}

	redisClient, err := redis.NewClient(redis.Config{
		Host:     cfg.Redis.Host,
		Port:     cfg.Redis.Port,
		Password: cfg.Redis.Password,
		DB:       cfg.Redis.DB,
		PoolSize: cfg.Redis.PoolSize,
	})
	if err != nil {
		appLogger.Fatal("Failed to initialize Redis", logger.ErrorField(err))
	}
	defer redisClient.Close()

	telegramNotifier, err := telegram.NewClient(cfg.Telegram.BotToken, cfg.Telegram.ChatID)
	if err != nil {
		appLogger.Fatal("Failed to initialize Telegram notifier", logger.ErrorField(err))
	}

	// Initialize repositories
	finRepo := repository.NewFinancialRepository(db.DB)
	dartRepo := repository.NewDartRepository(cfg, appLogger)
	companyCacheRepo := repository.NewCompanyCacheRepository(redisClient, cfg.Cache.CompanyInfoTTL)

	// Initialize services
	finSvc := service.NewFinService(cfg, finRepo, dartRepo, companyCacheRepo, appLogger)

	var (
		prefetchSvc   service.PrefetchService
		redisConsumer *consumer.RedisConsumer
	)
	if cfg.Prefetch.Enabled {
		if err := redisClient.XGroupCreateMkStream(ctx, common.RedisStreamStatementPrefetch, common.RedisStreamGroup, "0").Err(); err != nil && !redis.IsBusyGroup(err) {
			appLogger.Fatal("Failed to create consumer group", logger.ErrorField(err))
		}
		prefetchSvc = service.NewPrefetchService(cfg, redisClient, finSvc, telegramNotifier, appLogger)
		if err := prefetchSvc.Start(ctx); err != nil {
			appLogger.Fatal("Failed to start prefetch scheduler", logger.ErrorField(err))
		}
		redisConsumer = consumer.NewRedisConsumer(cfg, prefetchSvc, appLogger)
		redisConsumer.Start(ctx)
	}

	// Initialize Echo server
	e := echo.New()
	e.HideBanner = true
	e.Use(middleware.Recover())
	e.Use(middleware.RequestID())
	e.Use(delivery.RequestContext)

	apiV1 := e.Group("/api/v1")
	finHandler := delivery.NewFinHandler(finSvc, appLogger)
	finHandler.RegisterRoutes(apiV1)
	healthHandler := delivery.NewHealthHandler(db.DB, cfg.App.Version)
	apiV1.GET("/health", healthHandler.Health)

	e.GET("/swagger/*", swagger.WrapHandler)

	go func() {
		addr := fmt.Sprintf("%s:%d", cfg.API.Host, cfg.API.Port)
		appLogger.Info("HTTP server starting", logger.Field("address", addr))
		if err := e.Start(addr); err != nil && !errors.Is(err, http.ErrServerClosed) {
			appLogger.Error("HTTP server failed to start", logger.ErrorField(err))
			stop()
		}
	}()

	<-ctx.Done()

	appLogger.Info("Shutting down server...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := e.Shutdown(shutdownCtx); err != nil {
		appLogger.Error("Server forced to shutdown", logger.ErrorField(err))
	}
	if prefetchSvc != nil {
		prefetchSvc.Stop()
		redisConsumer.Stop()
	}

	appLogger.Info("Server exiting")
}

// @title Financial Statement API
// @version 1.0
// @description Fetches, stores and analyzes DART financial statements of Korean listed companies.
// @BasePath /api/v1
func main() {
	rootCmd := &cobra.Command{Use: "fin-service"}

	serveCmd.Flags().StringVarP(&configPath, "config", "c", "configs/config-fin.yaml", "Path to the configuration file")

	rootCmd.AddCommand(serveCmd)
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error executing fin-service CLI: %s\n", err)
		os.Exit(1)
	}
}
