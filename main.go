package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/rs/zerolog/log"

	"github.com/remindly/remindly-be/internal/api"
	"github.com/remindly/remindly-be/internal/auth"
	"github.com/remindly/remindly-be/internal/config"
	"github.com/remindly/remindly-be/internal/database"
	"github.com/remindly/remindly-be/internal/email"
	"github.com/remindly/remindly-be/internal/logger"
	"github.com/remindly/remindly-be/internal/reminder"
	"github.com/remindly/remindly-be/internal/services"
	"github.com/remindly/remindly-be/internal/websocket"
)

func main() {
	logger.Init()

	// Load configuration. A missing signing secret is fatal.
	cfg, err := config.Load()
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to load configuration")
	}

	// Set up database
	db, err := database.New(cfg.DatabasePath)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to initialize database")
	}
	defer db.Close()

	if err := database.Migrate(db); err != nil {
		log.Fatal().Err(err).Msg("Failed to apply database migrations")
	}

	// Set up the mailer. Without an API key, email delivery is logged only.
	var mailer email.Mailer
	if cfg.ResendAPIKey != "" {
		mailer = email.NewResendMailer(cfg.ResendAPIKey, cfg.EmailFrom)
	} else {
		log.Warn().Msg("RESEND_API_KEY not set, email delivery disabled")
		mailer = email.LogMailer{}
	}

	// Set up WebSocket Hub
	hub := websocket.NewHub()
	go hub.Run()

	// Set up services
	tokens := auth.NewTokenService(cfg.JWTSecret, cfg.TokenTTL)
	userService := services.NewUserService(db, mailer, cfg.RequireVerification, cfg.AppBaseURL)
	eventService := services.NewEventService(db, cfg.DefaultReminderMinutes)

	// Set up and run the background reminder scheduler
	scheduler, err := reminder.NewScheduler(eventService, mailer, hub, cfg.ReminderCron)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to initialize reminder scheduler")
	}
	go scheduler.Run()

	// Set up router
	router := api.NewRouter(db, tokens, hub, userService, eventService)

	// Set up server
	srv := &http.Server{
		Addr:    fmt.Sprintf(":%d", cfg.ServerPort),
		Handler: router,
	}

	// Graceful shutdown
	go func() {
		log.Info().Int("port", cfg.ServerPort).Msg("Server starting")
		if err := srv.ListenAndServe(); err != http.ErrServerClosed {
			log.Fatal().Err(err).Msg("ListenAndServe()")
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	log.Info().Msg("Shutting down server...")

	scheduler.Stop() // Stop the reminder scheduler

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		log.Fatal().Err(err).Msg("Server forced to shutdown")
	}

	log.Info().Msg("Server exiting")
}
