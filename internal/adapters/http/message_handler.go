package http

import (
	"encoding/json"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"github.com/go-playground/validator/v10"

	"github.com/bsdmy2005/rental-agent-sub005/internal/core/messaging"
	"github.com/bsdmy2005/rental-agent-sub005/internal/core/session"
	"github.com/bsdmy2005/rental-agent-sub005/platform/logger"
)

// MessageHandler expõe envio e consulta de mensagens via HTTP
type MessageHandler struct {
	logger   *logger.Logger
	handler  *messaging.Handler
	manager  *session.Manager
	validate *validator.Validate
}

// NewMessageHandler cria o handler de mensagens
func NewMessageHandler(log *logger.Logger, handler *messaging.Handler, manager *session.Manager) *MessageHandler {
	return &MessageHandler{
		logger:   log,
		handler:  handler,
		manager:  manager,
		validate: validator.New(),
	}
}

// SendMessage envia uma mensagem de texto pela sessão
// @Summary Send text message
// @Description Sends a text message; transient failures are retried with bounded exponential backoff
// @Tags Messages
// @Accept json
// @Produce json
// @Param sessionId path string true "Session ID"
// @Param request body SendMessageRequest true "Message data"
// @Success 200 {object} SuccessResponse "Message sent successfully"
// @Failure 400 {object} ErrorResponse "Invalid request body or recipient"
// @Failure 404 {object} ErrorResponse "Session not found"
// @Failure 409 {object} ErrorResponse "Session not connected"
// @Failure 502 {object} ErrorResponse "Send failed after retries"
// @Security ApiKeyAuth
// @Router /sessions/{sessionId}/messages/send [post]
func (h *MessageHandler) SendMessage(w http.ResponseWriter, r *http.Request) {
	sessionID := chi.URLParam(r, "sessionId")

	var req SendMessageRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request body")
		return
	}
	if err := h.validate.Struct(&req); err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	if _, err := h.manager.GetSession(r.Context(), sessionID); err != nil {
		writeDomainError(w, err)
		return
	}

	result, err := h.handler.Send(r.Context(), sessionID, req.To, req.Content)
	if err != nil {
		h.logger.WarnWithFields("Message send failed", map[string]interface{}{
			"session_id": sessionID,
			"error":      err.Error(),
		})
		writeSendError(w, err)
		return
	}

	writeSuccess(w, http.StatusOK, result, "Message sent successfully")
}

// ListMessages retorna o histórico da sessão em ordem cronológica reversa
// @Summary List messages
// @Tags Messages
// @Produce json
// @Param sessionId path string true "Session ID"
// @Param limit query int false "Page size (default 50, max 200)"
// @Param offset query int false "Offset into the history"
// @Success 200 {object} SuccessResponse "Messages retrieved successfully"
// @Failure 404 {object} ErrorResponse "Session not found"
// @Security ApiKeyAuth
// @Router /sessions/{sessionId}/messages [get]
func (h *MessageHandler) ListMessages(w http.ResponseWriter, r *http.Request) {
	sessionID := chi.URLParam(r, "sessionId")

	if _, err := h.manager.GetSession(r.Context(), sessionID); err != nil {
		writeDomainError(w, err)
		return
	}

	limit := queryInt(r, "limit", 50)
	offset := queryInt(r, "offset", 0)

	messages, err := h.handler.Messages(r.Context(), sessionID, limit, offset)
	if err != nil {
		writeDomainError(w, err)
		return
	}

	writeSuccess(w, http.StatusOK, messages, "Messages retrieved successfully")
}

// writeSendError distingue violações de pré-condição de falhas de rede
// esgotadas, que saem como 502
func writeSendError(w http.ResponseWriter, err error) {
	if isDomainError(err) {
		writeDomainError(w, err)
		return
	}
	writeError(w, http.StatusBadGateway, err.Error())
}

func queryInt(r *http.Request, key string, fallback int) int {
	raw := r.URL.Query().Get(key)
	if raw == "" {
		return fallback
	}
	value, err := strconv.Atoi(raw)
	if err != nil {
		return fallback
	}
	return value
}
