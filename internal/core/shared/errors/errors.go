package errors

import "errors"

// Erros de domínio compartilhados entre os módulos
var (
	ErrSessionNotFound      = errors.New("session not found")
	ErrSessionAlreadyExists = errors.New("session already exists")
	ErrInvalidSessionID     = errors.New("invalid session id")

	ErrSessionNotConnected     = errors.New("session is not connected")
	ErrSessionNotAuthenticated = errors.New("session socket is not authenticated")
	ErrSessionLoggedOut        = errors.New("session is logged out, fresh pairing required")

	ErrMessageNotFound      = errors.New("message not found")
	ErrMessageAlreadyExists = errors.New("message already exists")
	ErrInvalidRecipient     = errors.New("invalid recipient")

	ErrAuthStateNotFound = errors.New("auth state not found")
)

// Is repassa errors.Is para os chamadores do pacote
func Is(err, target error) bool {
	return errors.Is(err, target)
}
