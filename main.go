// File: pawpack/main.go
package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"pawpack/config"
	"pawpack/cron"
	"pawpack/database"
	candidateRepo "pawpack/database/repository/candidate"
	slotRepo "pawpack/database/repository/slot"
	"pawpack/handlers"
	"pawpack/routes"
	"pawpack/services/formation"
	"pawpack/services/grouping"
	"pawpack/services/slots"
	"pawpack/utils"
)

func main() {
	config.LoadConfig()
	cfg := config.AppConfig
	logger := utils.GetLogger()
	defer logger.Sync()

	database.InitDB()
	cache := utils.GetCacheClient()

	rootCtx, stop := context.WithCancel(context.Background())
	defer stop()
	utils.StartHealthMonitor(rootCtx, cache, database.MongoClient, time.Minute)

	engineCfg := cfg.GroupingConfig()
	engine, err := grouping.NewEngine(engineCfg, logger.Named("grouping"))
	if err != nil {
		logger.Fatal("main: invalid grouping configuration", zap.Error(err))
	}

	// repositories.
	slotsRepo := slotRepo.NewMongoSlotRepo()
	candidatesRepo := candidateRepo.NewMongoCandidateRepo()
	if err := slotsRepo.EnsureIndexes(); err != nil {
		logger.Fatal("main: slot indexes", zap.Error(err))
	}
	if err := candidatesRepo.EnsureIndexes(); err != nil {
		logger.Fatal("main: candidate indexes", zap.Error(err))
	}

	// services.
	slotService := slots.NewSlotService(slotsRepo, candidatesRepo, engineCfg, logger.Named("slots"), cfg.JoinMaxRetries, cfg.CancelEmptySlots)
	runner := &formation.Runner{
		Engine:       engine,
		Candidates:   candidatesRepo,
		Slots:        slotService,
		Cache:        formation.NewRedisSuggestionCache(cache, cfg.SuggestionCacheTTL()),
		Logger:       logger.Named("formation"),
		Horizon:      cfg.FormationHorizon(),
		PassTimeout:  cfg.FormationPassTimeout(),
		RegionPrefix: cfg.FormationRegionPrefix,
	}
	cron.InitFormationWorker(runner, logger.Named("cron"))

	if config.IsProduction() {
		gin.SetMode(gin.ReleaseMode)
	}
	router := gin.New()
	router.Use(gin.Recovery())
	router.Use(utils.ErrorHandler())
	router.Use(gin.Logger())

	handlerBundle := handlers.NewHandlerBundle(
		handlers.NewSlotHandler(slotService),
		handlers.NewFormationHandler(runner),
		cfg.JWTSecret,
		cfg.MaxRequestsPerMin,
	)
	routes.RegisterRoutes(router, handlerBundle)

	port := cfg.AppPort
	if port == "" {
		port = "8080"
	}
	srv := &http.Server{
		Addr:    "0.0.0.0:" + port,
		Handler: router,
	}

	logger.Sugar().Infof("Starting server on %s...", srv.Addr)
	go func() {
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Sugar().Fatalf("main: server failed to start: %v", err)
		}
	}()

	// Wait for an OS signal to gracefully shutdown.
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	logger.Info("main: server is shutting down...")
	stop()

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		logger.Sugar().Fatalf("main: server forced to shutdown: %v", err)
	}
	if err := database.Disconnect(ctx); err != nil {
		logger.Warn("main: mongo disconnect", zap.Error(err))
	}

	logger.Info("main: server stopped gracefully")
}
