package middleware

import (
	"context"
	"net/http"

	"github.com/google/uuid"

	"github.com/bsdmy2005/rental-agent-sub005/platform/logger"
)

type requestContextKey string

const (
	requestIDContextKey requestContextKey = "request_id"
	loggerContextKey    requestContextKey = "logger"
)

// RequestID atribui um identificador único a cada requisição e injeta um
// logger com esse identificador no contexto
func RequestID(log *logger.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			requestID := r.Header.Get("X-Request-ID")
			if requestID == "" {
				requestID = uuid.New().String()
			}
			w.Header().Set("X-Request-ID", requestID)

			ctx := context.WithValue(r.Context(), requestIDContextKey, requestID)
			ctx = context.WithValue(ctx, loggerContextKey, log.WithRequest(requestID))

			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// GetRequestIDFromContext extrai o identificador da requisição do contexto
func GetRequestIDFromContext(r *http.Request) string {
	if requestID, ok := r.Context().Value(requestIDContextKey).(string); ok {
		return requestID
	}
	return ""
}
