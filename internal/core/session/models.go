package session

import (
	"regexp"
	"time"

	"github.com/bsdmy2005/rental-agent-sub005/internal/core/messaging"
	sharederrors "github.com/bsdmy2005/rental-agent-sub005/internal/core/shared/errors"
)

// Status estados do ciclo de vida de uma sessão
type Status string

const (
	StatusDisconnected Status = "disconnected"
	StatusConnecting   Status = "connecting"
	StatusQRPending    Status = "qr_pending"
	StatusConnected    Status = "connected"
	StatusLoggedOut    Status = "logged_out"
)

// State estado em memória de uma sessão. Valores são sempre lidos e
// escritos via Registry; chamadores recebem cópias, nunca referências.
type State struct {
	ID             string
	Status         Status
	QRImage        string
	PhoneNumber    string
	LastError      string
	ConnectedAt    *time.Time
	DisconnectedAt *time.Time
	UpdatedAt      time.Time
}

// Session registro durável de uma sessão, espelhado no banco para que um
// restart recupere o último estado conhecido
type Session struct {
	ID             string                  `json:"id"`
	Status         Status                  `json:"status"`
	DeviceJID      *string                 `json:"deviceJid,omitempty"`
	PhoneNumber    *string                 `json:"phoneNumber,omitempty"`
	LastError      *string                 `json:"lastError,omitempty"`
	AutoReply      messaging.ReplyConfig   `json:"autoReply"`
	CreatedAt      time.Time               `json:"createdAt"`
	UpdatedAt      time.Time               `json:"updatedAt"`
	ConnectedAt    *time.Time              `json:"connectedAt,omitempty"`
	DisconnectedAt *time.Time              `json:"disconnectedAt,omitempty"`
}

// NewSession cria uma nova sessão desconectada
func NewSession(id string) *Session {
	now := time.Now()
	return &Session{
		ID:        id,
		Status:    StatusDisconnected,
		CreatedAt: now,
		UpdatedAt: now,
	}
}

// StatusInfo visão do estado da sessão exposta aos chamadores
type StatusInfo struct {
	ID          string `json:"id"`
	Status      Status `json:"status"`
	QRImage     string `json:"qrImage,omitempty"`
	PhoneNumber string `json:"phoneNumber,omitempty"`
	LastError   string `json:"lastError,omitempty"`
}

var sessionIDPattern = regexp.MustCompile(`^[a-zA-Z0-9][a-zA-Z0-9_-]{0,99}$`)

// ValidateID valida o identificador de sessão atribuído pelo chamador
func ValidateID(id string) error {
	if !sessionIDPattern.MatchString(id) {
		return sharederrors.ErrInvalidSessionID
	}
	return nil
}
