package api

import (
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/quillhq/quill-be/internal/api/handlers"
	"github.com/quillhq/quill-be/internal/auth"
	"github.com/quillhq/quill-be/internal/services"
	"github.com/quillhq/quill-be/internal/session"
	"github.com/quillhq/quill-be/internal/websocket"
)

// NewRouter creates and configures a new Chi router.
func NewRouter(
	hub *websocket.Hub,
	sessions *session.Manager,
	userService services.UserServiceProvider,
	postService services.PostServiceProvider,
	commentService services.CommentServiceProvider,
	eventService services.EventServiceProvider,
	secureCookies bool,
) *chi.Mux {
	r := chi.NewRouter()

	// Basic middleware stack
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(middleware.Logger)
	r.Use(middleware.Recoverer)

	// CORS configuration for development
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   []string{"http://localhost:3000"}, // Adjust for your frontend URL
		AllowedMethods:   []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type", "X-CSRF-Token"},
		ExposedHeaders:   []string{"Link"},
		AllowCredentials: true,
		MaxAge:           300,
	}))

	// Initialize handlers
	authHandler := handlers.NewAuthHandler(userService, sessions, eventService, secureCookies)
	postHandler := handlers.NewPostHandler(postService, eventService)
	commentHandler := handlers.NewCommentHandler(commentService, eventService, hub)
	eventHandler := handlers.NewEventHandler(eventService)
	systemHandler := handlers.NewSystemHandler()
	wsHandler := handlers.NewWebSocketHandler(hub)

	requireAuth := auth.RequireAuth(sessions)

	// Auth flow: form posts and redirects, cookie-based sessions.
	r.Post("/register", authHandler.Register)
	r.Post("/login", authHandler.Login)
	r.Get("/logout", authHandler.Logout)

	// WebSocket event streams
	r.Get("/ws", wsHandler.Serve)
	r.Get("/ws/posts/{id}", wsHandler.Serve)

	// API versioning
	r.Route("/api/v1", func(r chi.Router) {
		r.With(requireAuth).Get("/me", authHandler.GetMe)

		r.Route("/posts", func(r chi.Router) {
			r.Get("/", postHandler.GetAll)
			r.With(requireAuth).Post("/", postHandler.Create)
			r.Route("/{id}", func(r chi.Router) {
				r.Get("/", postHandler.Get)
				r.With(requireAuth).Put("/", postHandler.Update)
				r.With(requireAuth).Delete("/", postHandler.Delete)

				r.Get("/comments", commentHandler.GetForPost)
				r.With(requireAuth).Post("/comments", commentHandler.Create)
			})
		})

		r.With(requireAuth).Delete("/comments/{id}", commentHandler.Delete)

		r.Get("/events", eventHandler.GetRecent)
		r.Get("/system/health", systemHandler.Health)
	})

	return r
}
