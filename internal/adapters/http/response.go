package http

import (
	"encoding/json"
	"net/http"

	sharederrors "github.com/bsdmy2005/rental-agent-sub005/internal/core/shared/errors"
)

// SuccessResponse envelope padrão de sucesso
type SuccessResponse struct {
	Success bool        `json:"success"`
	Message string      `json:"message,omitempty"`
	Data    interface{} `json:"data,omitempty"`
}

// ErrorResponse envelope padrão de erro
type ErrorResponse struct {
	Success bool        `json:"success"`
	Error   string      `json:"error"`
	Details interface{} `json:"details,omitempty"`
}

func writeJSON(w http.ResponseWriter, status int, body interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(body)
}

func writeSuccess(w http.ResponseWriter, status int, data interface{}, message string) {
	writeJSON(w, status, &SuccessResponse{
		Success: true,
		Message: message,
		Data:    data,
	})
}

func writeError(w http.ResponseWriter, status int, message string) {
	writeJSON(w, status, &ErrorResponse{
		Success: false,
		Error:   message,
	})
}

// isDomainError reporta se o erro corresponde a um sentinela de domínio conhecido
func isDomainError(err error) bool {
	for _, sentinel := range []error{
		sharederrors.ErrSessionNotFound,
		sharederrors.ErrMessageNotFound,
		sharederrors.ErrSessionAlreadyExists,
		sharederrors.ErrSessionNotConnected,
		sharederrors.ErrSessionNotAuthenticated,
		sharederrors.ErrSessionLoggedOut,
		sharederrors.ErrInvalidSessionID,
		sharederrors.ErrInvalidRecipient,
	} {
		if sharederrors.Is(err, sentinel) {
			return true
		}
	}
	return false
}

// writeDomainError mapeia erros de domínio para status HTTP
func writeDomainError(w http.ResponseWriter, err error) {
	switch {
	case sharederrors.Is(err, sharederrors.ErrSessionNotFound),
		sharederrors.Is(err, sharederrors.ErrMessageNotFound):
		writeError(w, http.StatusNotFound, err.Error())
	case sharederrors.Is(err, sharederrors.ErrSessionAlreadyExists):
		writeError(w, http.StatusConflict, err.Error())
	case sharederrors.Is(err, sharederrors.ErrSessionNotConnected),
		sharederrors.Is(err, sharederrors.ErrSessionNotAuthenticated),
		sharederrors.Is(err, sharederrors.ErrSessionLoggedOut):
		writeError(w, http.StatusConflict, err.Error())
	case sharederrors.Is(err, sharederrors.ErrInvalidSessionID),
		sharederrors.Is(err, sharederrors.ErrInvalidRecipient):
		writeError(w, http.StatusBadRequest, err.Error())
	default:
		writeError(w, http.StatusInternalServerError, err.Error())
	}
}
