package routes

import (
	"net/http"
	"time"

	"afaq/afaq/config"
	"afaq/afaq/controllers"
	"afaq/afaq/middlewares"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
)

// NewRouter assembles the /api surface.
func NewRouter(cfg config.Config, health *controllers.HealthController, chat *controllers.ChatController, sessions *middlewares.SessionManager) http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(middlewares.RequestLogger)
	r.Use(middleware.Recoverer)
	r.Use(middleware.Timeout(90 * time.Second))
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   cfg.AllowedOrigins,
		AllowedMethods:   []string{"GET", "POST", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Content-Type", "X-Requested-With"},
		AllowCredentials: true,
		MaxAge:           300,
	}))

	r.Route("/api", func(api chi.Router) {
		api.Mount("/health", HealthRoutes(health))
		api.Mount("/", ChatRoutes(chat, sessions))
	})
	return r
}
