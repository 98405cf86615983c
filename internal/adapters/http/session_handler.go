package http

import (
	"encoding/json"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-playground/validator/v10"

	"github.com/bsdmy2005/rental-agent-sub005/internal/core/session"
	"github.com/bsdmy2005/rental-agent-sub005/platform/logger"
)

// SessionHandler expõe o ciclo de vida das sessões via HTTP
type SessionHandler struct {
	logger   *logger.Logger
	manager  *session.Manager
	validate *validator.Validate
}

// NewSessionHandler cria o handler de sessões
func NewSessionHandler(log *logger.Logger, manager *session.Manager) *SessionHandler {
	return &SessionHandler{
		logger:   log,
		manager:  manager,
		validate: validator.New(),
	}
}

// CreateSession cria uma nova sessão
// @Summary Create session
// @Description Creates a new disconnected session with the given identifier
// @Tags Sessions
// @Accept json
// @Produce json
// @Param request body CreateSessionRequest true "Session data"
// @Success 201 {object} SuccessResponse "Session created successfully"
// @Failure 400 {object} ErrorResponse "Invalid request body"
// @Failure 409 {object} ErrorResponse "Session already exists"
// @Security ApiKeyAuth
// @Router /sessions [post]
func (h *SessionHandler) CreateSession(w http.ResponseWriter, r *http.Request) {
	var req CreateSessionRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request body")
		return
	}
	if err := h.validate.Struct(&req); err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	sess, err := h.manager.CreateSession(r.Context(), req.ID)
	if err != nil {
		writeDomainError(w, err)
		return
	}

	writeSuccess(w, http.StatusCreated, sess, "Session created successfully")
}

// ListSessions lista todas as sessões
// @Summary List sessions
// @Tags Sessions
// @Produce json
// @Success 200 {object} SuccessResponse "Sessions retrieved successfully"
// @Security ApiKeyAuth
// @Router /sessions [get]
func (h *SessionHandler) ListSessions(w http.ResponseWriter, r *http.Request) {
	sessions, err := h.manager.ListSessions(r.Context())
	if err != nil {
		writeDomainError(w, err)
		return
	}

	writeSuccess(w, http.StatusOK, sessions, "Sessions retrieved successfully")
}

// GetSession retorna os dados duráveis da sessão
// @Summary Get session
// @Tags Sessions
// @Produce json
// @Param sessionId path string true "Session ID"
// @Success 200 {object} SuccessResponse "Session retrieved successfully"
// @Failure 404 {object} ErrorResponse "Session not found"
// @Security ApiKeyAuth
// @Router /sessions/{sessionId} [get]
func (h *SessionHandler) GetSession(w http.ResponseWriter, r *http.Request) {
	sess, err := h.manager.GetSession(r.Context(), chi.URLParam(r, "sessionId"))
	if err != nil {
		writeDomainError(w, err)
		return
	}

	writeSuccess(w, http.StatusOK, sess, "Session retrieved successfully")
}

// DeleteSession encerra e remove a sessão
// @Summary Delete session
// @Tags Sessions
// @Produce json
// @Param sessionId path string true "Session ID"
// @Success 200 {object} SuccessResponse "Session deleted successfully"
// @Failure 404 {object} ErrorResponse "Session not found"
// @Security ApiKeyAuth
// @Router /sessions/{sessionId} [delete]
func (h *SessionHandler) DeleteSession(w http.ResponseWriter, r *http.Request) {
	if err := h.manager.DeleteSession(r.Context(), chi.URLParam(r, "sessionId")); err != nil {
		writeDomainError(w, err)
		return
	}

	writeSuccess(w, http.StatusOK, nil, "Session deleted successfully")
}

// ConnectSession abre a conexão da sessão
// @Summary Connect session
// @Description Opens the protocol connection; a never-paired session enters the QR pairing flow
// @Tags Sessions
// @Produce json
// @Param sessionId path string true "Session ID"
// @Success 200 {object} SuccessResponse "Session connecting"
// @Failure 404 {object} ErrorResponse "Session not found"
// @Security ApiKeyAuth
// @Router /sessions/{sessionId}/connect [post]
func (h *SessionHandler) ConnectSession(w http.ResponseWriter, r *http.Request) {
	sessionID := chi.URLParam(r, "sessionId")

	// a sessão precisa existir no espelho durável antes de conectar
	if _, err := h.manager.GetSession(r.Context(), sessionID); err != nil {
		writeDomainError(w, err)
		return
	}

	if err := h.manager.Connect(r.Context(), sessionID); err != nil {
		writeDomainError(w, err)
		return
	}

	status, err := h.manager.GetStatus(r.Context(), sessionID)
	if err != nil {
		writeDomainError(w, err)
		return
	}

	writeSuccess(w, http.StatusOK, status, "Session connecting")
}

// DisconnectSession encerra a conexão preservando o pareamento
// @Summary Disconnect session
// @Description Closes the connection; pairing credentials survive, a later connect resumes without a new QR
// @Tags Sessions
// @Produce json
// @Param sessionId path string true "Session ID"
// @Success 200 {object} SuccessResponse "Session disconnected"
// @Failure 404 {object} ErrorResponse "Session not found"
// @Security ApiKeyAuth
// @Router /sessions/{sessionId}/disconnect [post]
func (h *SessionHandler) DisconnectSession(w http.ResponseWriter, r *http.Request) {
	if err := h.manager.Disconnect(r.Context(), chi.URLParam(r, "sessionId")); err != nil {
		writeDomainError(w, err)
		return
	}

	writeSuccess(w, http.StatusOK, nil, "Session disconnected")
}

// LogoutSession encerra a sessão e invalida o pareamento
// @Summary Logout session
// @Description Closes the connection and clears pairing credentials; the next connect requires a new QR scan
// @Tags Sessions
// @Produce json
// @Param sessionId path string true "Session ID"
// @Success 200 {object} SuccessResponse "Session logged out"
// @Failure 404 {object} ErrorResponse "Session not found"
// @Security ApiKeyAuth
// @Router /sessions/{sessionId}/logout [post]
func (h *SessionHandler) LogoutSession(w http.ResponseWriter, r *http.Request) {
	if err := h.manager.Logout(r.Context(), chi.URLParam(r, "sessionId")); err != nil {
		writeDomainError(w, err)
		return
	}

	writeSuccess(w, http.StatusOK, nil, "Session logged out")
}

// GetStatus retorna o estado atual da sessão, incluindo o QR pendente
// @Summary Get session status
// @Tags Sessions
// @Produce json
// @Param sessionId path string true "Session ID"
// @Success 200 {object} SuccessResponse "Status retrieved successfully"
// @Failure 404 {object} ErrorResponse "Session not found"
// @Security ApiKeyAuth
// @Router /sessions/{sessionId}/status [get]
func (h *SessionHandler) GetStatus(w http.ResponseWriter, r *http.Request) {
	status, err := h.manager.GetStatus(r.Context(), chi.URLParam(r, "sessionId"))
	if err != nil {
		writeDomainError(w, err)
		return
	}

	writeSuccess(w, http.StatusOK, status, "Status retrieved successfully")
}

// GetAutoReply retorna a configuração de resposta automática
// @Summary Get auto-reply configuration
// @Tags Sessions
// @Produce json
// @Param sessionId path string true "Session ID"
// @Success 200 {object} SuccessResponse "Auto-reply configuration retrieved"
// @Failure 404 {object} ErrorResponse "Session not found"
// @Security ApiKeyAuth
// @Router /sessions/{sessionId}/autoreply [get]
func (h *SessionHandler) GetAutoReply(w http.ResponseWriter, r *http.Request) {
	cfg, err := h.manager.GetAutoReply(r.Context(), chi.URLParam(r, "sessionId"))
	if err != nil {
		writeDomainError(w, err)
		return
	}

	writeSuccess(w, http.StatusOK, cfg, "Auto-reply configuration retrieved")
}

// SetAutoReply grava a configuração de resposta automática
// @Summary Update auto-reply configuration
// @Tags Sessions
// @Accept json
// @Produce json
// @Param sessionId path string true "Session ID"
// @Param request body AutoReplyRequest true "Auto-reply configuration"
// @Success 200 {object} SuccessResponse "Auto-reply configuration updated"
// @Failure 400 {object} ErrorResponse "Invalid request body"
// @Failure 404 {object} ErrorResponse "Session not found"
// @Security ApiKeyAuth
// @Router /sessions/{sessionId}/autoreply [put]
func (h *SessionHandler) SetAutoReply(w http.ResponseWriter, r *http.Request) {
	var req AutoReplyRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request body")
		return
	}
	if err := h.validate.Struct(&req); err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	if err := h.manager.SetAutoReply(r.Context(), chi.URLParam(r, "sessionId"), req.toConfig()); err != nil {
		writeDomainError(w, err)
		return
	}

	writeSuccess(w, http.StatusOK, nil, "Auto-reply configuration updated")
}
