// File: voicebook/main.go
package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"voicebook/config"
	"voicebook/cron"
	"voicebook/database"
	bookingsRepo "voicebook/database/repository/bookings"
	"voicebook/handlers"
	"voicebook/middleware"
	"voicebook/routes"
	"voicebook/services/booking"
	"voicebook/services/calendar"
	"voicebook/services/conversation"
	ai "voicebook/services/intelligence"
	"voicebook/services/interpret"
	"voicebook/services/slots"
	"voicebook/utils"

	"github.com/gin-gonic/gin"
)

func main() {
	config.LoadConfig()
	logger := utils.GetLogger()

	database.InitDB()
	utils.InitSessionCache()

	// Create the Gin router.
	router := gin.New()
	router.Use(gin.Recovery())
	router.Use(utils.ErrorHandler())
	router.Use(gin.Logger())
	router.Use(middleware.RateLimitMiddleware())

	// Repositories.
	bookingRepo := bookingsRepo.NewMongoBookingRepo()

	// Upstream clients. Missing credentials are fatal here, not retried.
	calendarProvider, err := calendar.NewGoogleProvider()
	if err != nil {
		logger.Sugar().Fatalf("main: failed to initialize calendar provider: %v", err)
	}
	aiSvc, err := ai.NewGeminiService(config.AppConfig.GeminiAPIKey)
	if err != nil {
		logger.Sugar().Fatalf("main: failed to initialize AI service: %v", err)
	}

	// Services.
	generator, err := slots.NewGenerator()
	if err != nil {
		logger.Sugar().Fatalf("main: failed to initialize slot generator: %v", err)
	}
	committer := &booking.DefaultCommitter{
		Calendar: calendarProvider,
		Repo:     bookingRepo,
		Roster:   booking.DefaultRoster,
		Recheck:  true,
		Logger:   logger,
	}
	sessionStore := conversation.NewRedisSessionStore(
		utils.GetSessionCacheClient(),
		time.Duration(config.AppConfig.SessionTTLMin)*time.Minute,
	)
	controller := &conversation.Controller{
		Calendar:    calendarProvider,
		Slots:       generator,
		Interpreter: interpret.NewInterpreter(config.AppConfig.SpeechLocale, config.AppConfig.BusinessOpenHour),
		Committer:   committer,
		AI:          aiSvc,
		Repo:        bookingRepo,
		Store:       sessionStore,
		Summaries:   cron.NewEnqueuer(),
		Logger:      logger,
	}

	// Background summary worker.
	cron.InitSummaryWorker(aiSvc, bookingRepo)

	// Handlers and routes.
	voiceHandler := handlers.NewVoiceSessionHandler(controller, logger)
	sttHandler := handlers.NewSTTHandler(logger)
	routes.RegisterRoutes(router, voiceHandler, sttHandler)

	// Start the HTTP server.
	port := config.AppConfig.AppPort
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
	logger.Sugar().Info("main: server is shutting down...")

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		logger.Sugar().Fatalf("main: server forced to shutdown: %v", err)
	}

	logger.Sugar().Info("main: server stopped gracefully")
}
