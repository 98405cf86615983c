package waclient

import (
	"context"
	"fmt"

	"go.mau.fi/whatsmeow/store"
	"go.mau.fi/whatsmeow/store/sqlstore"
	waTypes "go.mau.fi/whatsmeow/types"

	"github.com/bsdmy2005/rental-agent-sub005/internal/core/session"
	sharederrors "github.com/bsdmy2005/rental-agent-sub005/internal/core/shared/errors"
	"github.com/bsdmy2005/rental-agent-sub005/platform/logger"
)

// AuthStore implementa session.AuthStore sobre o container de credenciais do
// whatsmeow. O vínculo sessão → dispositivo fica espelhado na linha da sessão
// via deviceJid; o material criptográfico vive no container.
type AuthStore struct {
	container *sqlstore.Container
	sessions  session.Repository
	logger    *logger.Logger
}

// NewAuthStore cria o armazenamento de credenciais por sessão
func NewAuthStore(container *sqlstore.Container, sessions session.Repository, log *logger.Logger) *AuthStore {
	return &AuthStore{
		container: container,
		sessions:  sessions,
		logger:    log,
	}
}

// Load retorna o device store da sessão, ou (nil, nil) quando a sessão nunca
// foi pareada
func (a *AuthStore) Load(ctx context.Context, sessionID string) (session.Credentials, error) {
	sess, err := a.sessions.GetByID(ctx, sessionID)
	if err != nil {
		if sharederrors.Is(err, sharederrors.ErrSessionNotFound) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to load session %s: %w", sessionID, err)
	}

	if sess.DeviceJID == nil || *sess.DeviceJID == "" {
		return nil, nil
	}

	jid, err := waTypes.ParseJID(*sess.DeviceJID)
	if err != nil {
		a.logger.WarnWithFields("Stored device JID is invalid, forcing new pairing", map[string]interface{}{
			"session_id": sessionID,
			"device_jid": *sess.DeviceJID,
			"error":      err.Error(),
		})
		return nil, nil
	}

	device, err := a.container.GetDevice(ctx, jid)
	if err != nil {
		return nil, fmt.Errorf("failed to load device store for session %s: %w", sessionID, err)
	}
	if device == nil {
		// o espelho aponta para um dispositivo que já não existe
		return nil, nil
	}

	return device, nil
}

// Save espelha o JID do dispositivo pareado na linha da sessão. O material
// criptográfico em si já foi gravado no container pelo whatsmeow.
func (a *AuthStore) Save(ctx context.Context, sessionID string, creds session.Credentials) error {
	device, ok := creds.(*store.Device)
	if !ok || device == nil {
		return fmt.Errorf("unexpected credential type %T for session %s", creds, sessionID)
	}

	if device.ID == nil {
		return fmt.Errorf("device for session %s has no JID yet", sessionID)
	}

	if err := a.sessions.SaveDeviceJID(ctx, sessionID, device.ID.String()); err != nil {
		return fmt.Errorf("failed to mirror device JID for session %s: %w", sessionID, err)
	}

	return nil
}

// Clear remove o device store da sessão e o espelho do JID
func (a *AuthStore) Clear(ctx context.Context, sessionID string) error {
	sess, err := a.sessions.GetByID(ctx, sessionID)
	if err != nil {
		if sharederrors.Is(err, sharederrors.ErrSessionNotFound) {
			return nil
		}
		return fmt.Errorf("failed to load session %s: %w", sessionID, err)
	}

	if sess.DeviceJID != nil && *sess.DeviceJID != "" {
		if jid, parseErr := waTypes.ParseJID(*sess.DeviceJID); parseErr == nil {
			device, getErr := a.container.GetDevice(ctx, jid)
			if getErr == nil && device != nil {
				if delErr := a.container.DeleteDevice(ctx, device); delErr != nil {
					a.logger.WarnWithFields("Failed to delete device store", map[string]interface{}{
						"session_id": sessionID,
						"device_jid": *sess.DeviceJID,
						"error":      delErr.Error(),
					})
				}
			}
		}
	}

	if err := a.sessions.SaveDeviceJID(ctx, sessionID, ""); err != nil {
		return fmt.Errorf("failed to clear device JID for session %s: %w", sessionID, err)
	}

	return nil
}
