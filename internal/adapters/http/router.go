package http

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/cors"
	httpSwagger "github.com/swaggo/http-swagger"

	"github.com/bsdmy2005/rental-agent-sub005/internal/adapters/http/middleware"
	"github.com/bsdmy2005/rental-agent-sub005/internal/core/messaging"
	"github.com/bsdmy2005/rental-agent-sub005/internal/core/session"
	"github.com/bsdmy2005/rental-agent-sub005/platform/config"
	"github.com/bsdmy2005/rental-agent-sub005/platform/database"
	"github.com/bsdmy2005/rental-agent-sub005/platform/logger"
)

// SetupRoutes monta o roteador HTTP com middlewares e rotas da API
func SetupRoutes(
	cfg *config.Config,
	log *logger.Logger,
	db *database.Database,
	manager *session.Manager,
	handler *messaging.Handler,
) http.Handler {
	r := chi.NewRouter()

	setupMiddlewares(r, cfg, log)

	r.Get("/swagger/*", httpSwagger.Handler(
		httpSwagger.URL("/swagger/doc.json"),
	))

	healthHandler := NewHealthHandler(log, db)
	r.Get("/health", healthHandler.Health)

	sessionHandler := NewSessionHandler(log, manager)
	messageHandler := NewMessageHandler(log, handler, manager)

	r.Route("/sessions", func(r chi.Router) {
		r.Post("/", sessionHandler.CreateSession)
		r.Get("/", sessionHandler.ListSessions)

		r.Route("/{sessionId}", func(r chi.Router) {
			r.Get("/", sessionHandler.GetSession)
			r.Delete("/", sessionHandler.DeleteSession)

			r.Post("/connect", sessionHandler.ConnectSession)
			r.Post("/disconnect", sessionHandler.DisconnectSession)
			r.Post("/logout", sessionHandler.LogoutSession)
			r.Get("/status", sessionHandler.GetStatus)

			r.Get("/autoreply", sessionHandler.GetAutoReply)
			r.Put("/autoreply", sessionHandler.SetAutoReply)

			r.Post("/messages/send", messageHandler.SendMessage)
			r.Get("/messages", messageHandler.ListMessages)
		})
	})

	return r
}

func setupMiddlewares(r *chi.Mux, cfg *config.Config, log *logger.Logger) {
	r.Use(func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, req *http.Request) {
			defer func() {
				if err := recover(); err != nil {
					log.ErrorWithFields("Panic recovered", map[string]interface{}{
						"error":  err,
						"path":   req.URL.Path,
						"method": req.Method,
					})
					w.WriteHeader(http.StatusInternalServerError)
				}
			}()
			next.ServeHTTP(w, req)
		})
	})

	r.Use(middleware.RequestID(log))

	r.Use(middleware.HTTPLogger(log))

	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   []string{"*"},
		AllowedMethods:   []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"*"},
		ExposedHeaders:   []string{"Link"},
		AllowCredentials: false,
		MaxAge:           300,
	}))

	r.Use(middleware.APIKeyAuth(cfg, log))
}
