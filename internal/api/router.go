package api

import (
	"database/sql"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"

	"github.com/remindly/remindly-be/internal/api/handlers"
	"github.com/remindly/remindly-be/internal/auth"
	"github.com/remindly/remindly-be/internal/services"
	"github.com/remindly/remindly-be/internal/websocket"
)

// NewRouter creates and configures a new Chi router.
func NewRouter(db *sql.DB, tokens *auth.TokenService, hub *websocket.Hub, userService services.UserServiceProvider, eventService services.EventServiceProvider) *chi.Mux {
	r := chi.NewRouter()

	// Basic middleware stack
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(middleware.Logger)
	r.Use(middleware.Recoverer)

	// CORS configuration for development
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   []string{"http://localhost:3000"}, // Adjust for your frontend URL
		AllowedMethods:   []string{"GET", "POST", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type"},
		AllowCredentials: true,
		MaxAge:           300,
	}))

	// Initialize handlers
	userHandler := handlers.NewUserHandler(userService, tokens)
	eventHandler := handlers.NewEventHandler(eventService)
	wsHandler := handlers.NewWebSocketHandler(hub, tokens)
	healthHandler := handlers.NewHealthHandler(db)

	// API versioning
	r.Route("/api/v1", func(r chi.Router) {
		r.Get("/health", healthHandler.Get)

		// WebSocket endpoint for live reminder notifications
		r.Get("/ws", wsHandler.Serve)

		r.Route("/auth", func(r chi.Router) {
			r.Post("/register", userHandler.Register)
			r.Post("/login", userHandler.Login)
			r.Get("/verify", userHandler.VerifyEmail)

			r.Group(func(r chi.Router) {
				r.Use(tokens.Middleware())
				r.Get("/me", userHandler.GetMe)
			})
		})

		// REST API endpoints for events, all owner-scoped
		r.Group(func(r chi.Router) {
			r.Use(tokens.Middleware())
			r.Route("/events", func(r chi.Router) {
				r.Get("/", eventHandler.GetAll)
				r.Post("/", eventHandler.Create)
				r.Delete("/{id}", eventHandler.Delete)
			})
		})
	})

	return r
}
