package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/quillhq/quill-be/internal/api"
	"github.com/quillhq/quill-be/internal/auth"
	"github.com/quillhq/quill-be/internal/config"
	"github.com/quillhq/quill-be/internal/database"
	"github.com/quillhq/quill-be/internal/logger"
	"github.com/quillhq/quill-be/internal/maintenance"
	"github.com/quillhq/quill-be/internal/services"
	"github.com/quillhq/quill-be/internal/session"
	"github.com/quillhq/quill-be/internal/websocket"
	"github.com/rs/zerolog/log"
)

func main() {
	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to load configuration: %v\n", err)
		os.Exit(1)
	}

	logger.Init(cfg.LogLevel)

	// Set up database
	db, err := database.New(cfg.DatabasePath)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to initialize database")
	}
	defer db.Close()

	if err := database.Migrate(db); err != nil {
		log.Fatal().Err(err).Msg("Failed to apply database migrations")
	}

	// Set up WebSocket Hub
	hub := websocket.NewHub()
	go hub.Run()

	// Set up the auth core: hasher, session manager over the SQL store.
	hasher := auth.NewHasher(cfg.BcryptCost)
	sessions := session.NewManager(session.NewSQLStore(db), cfg.SessionTTL)

	// Set up services
	eventService := services.NewEventService(db, hub)
	userService := services.NewUserService(db, hasher)
	postService := services.NewPostService(db)
	commentService := services.NewCommentService(db, postService)

	// Set up and run the background maintenance sweeper
	sweeper := maintenance.NewSweeper(sessions, eventService, cfg.CleanupSchedule)
	go sweeper.Run()

	// Set up router
	router := api.NewRouter(hub, sessions, userService, postService, commentService, eventService, cfg.SecureCookies)

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

	sweeper.Stop()

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		log.Fatal().Err(err).Msg("Server forced to shutdown")
	}

	log.Info().Msg("Server exiting")
}
