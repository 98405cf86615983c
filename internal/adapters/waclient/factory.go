package waclient

import (
	"context"
	"fmt"

	"go.mau.fi/whatsmeow"
	"go.mau.fi/whatsmeow/store"
	"go.mau.fi/whatsmeow/store/sqlstore"
	waLog "go.mau.fi/whatsmeow/util/log"

	"github.com/bsdmy2005/rental-agent-sub005/internal/core/session"
	"github.com/bsdmy2005/rental-agent-sub005/platform/logger"
)

// Factory implementa session.SocketFactory criando clientes whatsmeow a
// partir do container de credenciais
type Factory struct {
	container *sqlstore.Container
	logger    *logger.Logger
}

// NewFactory cria a fábrica de sockets
func NewFactory(container *sqlstore.Container, log *logger.Logger) *Factory {
	return &Factory{
		container: container,
		logger:    log,
	}
}

// New abre um socket para a sessão. Sem credenciais, um device novo entra
// no fluxo de pareamento; com credenciais, o device pareado é reutilizado.
func (f *Factory) New(ctx context.Context, sessionID string, creds session.Credentials, sink session.EventSink) (session.ProtocolSocket, error) {
	var device *store.Device

	if creds != nil {
		paired, ok := creds.(*store.Device)
		if !ok {
			return nil, fmt.Errorf("unexpected credential type %T for session %s", creds, sessionID)
		}
		device = paired
	} else {
		device = f.container.NewDevice()
	}

	client := newProtocolClient(device, NewWALogger(f.logger).Sub(sessionID))

	sock := &Socket{
		sessionID: sessionID,
		client:    client,
		sink:      sink,
		logger:    f.logger,
	}
	client.AddEventHandler(sock.handleEvent)

	return sock, nil
}

// newProtocolClient constrói o cliente desligando o reconnect interno da
// biblioteca: a política de reconexão pertence exclusivamente ao gerenciador
// de sessões, que garante no máximo um socket vivo por sessão e o atraso
// configurado entre tentativas.
func newProtocolClient(device *store.Device, log waLog.Logger) *whatsmeow.Client {
	client := whatsmeow.NewClient(device, log)
	client.EnableAutoReconnect = false
	return client
}
