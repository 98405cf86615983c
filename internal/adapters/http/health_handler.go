package http

import (
	"net/http"
	"time"

	"github.com/bsdmy2005/rental-agent-sub005/platform/database"
	"github.com/bsdmy2005/rental-agent-sub005/platform/logger"
)

// HealthHandler expõe o endpoint de saúde do serviço
type HealthHandler struct {
	logger    *logger.Logger
	db        *database.Database
	startedAt time.Time
}

// NewHealthHandler cria o handler de health check
func NewHealthHandler(log *logger.Logger, db *database.Database) *HealthHandler {
	return &HealthHandler{
		logger:    log,
		db:        db,
		startedAt: time.Now(),
	}
}

// Health verifica a saúde do serviço e do banco de dados
// @Summary Health check
// @Tags Health
// @Produce json
// @Success 200 {object} SuccessResponse "Service is healthy"
// @Failure 503 {object} ErrorResponse "Service is unhealthy"
// @Router /health [get]
func (h *HealthHandler) Health(w http.ResponseWriter, r *http.Request) {
	payload := map[string]interface{}{
		"status":    "ok",
		"uptime":    time.Since(h.startedAt).Round(time.Second).String(),
		"timestamp": time.Now().UTC().Format(time.RFC3339),
	}

	if err := h.db.Health(r.Context()); err != nil {
		h.logger.ErrorWithFields("Health check failed", map[string]interface{}{
			"error": err.Error(),
		})
		payload["status"] = "unhealthy"
		payload["database"] = err.Error()
		writeJSON(w, http.StatusServiceUnavailable, &ErrorResponse{
			Success: false,
			Error:   "database unavailable",
			Details: payload,
		})
		return
	}

	payload["database"] = "ok"
	writeSuccess(w, http.StatusOK, payload, "Service is healthy")
}
