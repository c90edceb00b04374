package api

import (
	"encoding/json"
	"net/http"

	_ "github.com/blaisecz/sleep-bot/docs"
	"github.com/blaisecz/sleep-bot/internal/api/handler"
	"github.com/blaisecz/sleep-bot/internal/api/middleware"
	"github.com/blaisecz/sleep-bot/internal/logging"
	"github.com/go-chi/chi/v5"
	httpSwagger "github.com/swaggo/http-swagger/v2"
)

type Router struct {
	log          *logging.Logger
	userHandler  *handler.UserHandler
	sleepHandler *handler.SleepHandler
	statsHandler *handler.StatsHandler
	chatHandler  *handler.ChatHandler
}

func NewRouter(
	log *logging.Logger,
	userHandler *handler.UserHandler,
	sleepHandler *handler.SleepHandler,
	statsHandler *handler.StatsHandler,
	chatHandler *handler.ChatHandler,
) *Router {
	return &Router{
		log:          log,
		userHandler:  userHandler,
		sleepHandler: sleepHandler,
		statsHandler: statsHandler,
		chatHandler:  chatHandler,
	}
}

func (rt *Router) Setup() http.Handler {
	r := chi.NewRouter()

	// Middleware
	r.Use(middleware.Recovery(rt.log))
	r.Use(middleware.RequestLogger(rt.log))
	r.Use(middleware.Tracing)

	// Health check
	r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		json.NewEncoder(w).Encode(map[string]string{"status": "ok"})
	})

	// Swagger documentation
	r.Get("/swagger/*", httpSwagger.Handler(
		httpSwagger.URL("/swagger/doc.json"),
		httpSwagger.DeepLinking(true),
		httpSwagger.DocExpansion("list"),
		httpSwagger.DomID("swagger-ui"),
	))

	// API v1 routes
	r.Route("/v1", func(r chi.Router) {
		r.Post("/chat", rt.chatHandler.Handle)

		r.Route("/users", func(r chi.Router) {
			r.Post("/", rt.userHandler.Register)

			r.Route("/{chatId}", func(r chi.Router) {
				r.Get("/", rt.userHandler.GetByChatID)
				r.Put("/preferences", rt.userHandler.UpdatePreferences)
				r.Put("/goals", rt.userHandler.UpdateGoals)

				r.Post("/sleep", rt.sleepHandler.Start)
				r.Post("/sleep/cancel", rt.sleepHandler.Cancel)
				r.Post("/sleep/resolve", rt.sleepHandler.Resolve)
				r.Post("/wake", rt.sleepHandler.Wake)

				r.Route("/sessions/last", func(r chi.Router) {
					r.Post("/quality", rt.sleepHandler.Quality)
					r.Post("/note", rt.sleepHandler.Note)
				})

				r.Get("/statistics", rt.statsHandler.Statistics)
				r.Get("/export", rt.statsHandler.Export)
			})
		})
	})

	return r
}
