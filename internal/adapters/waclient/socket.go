package waclient

import (
	"context"
	"fmt"
	"sync"

	"go.mau.fi/whatsmeow"
	waE2E "go.mau.fi/whatsmeow/proto/waE2E"
	waTypes "go.mau.fi/whatsmeow/types"
	"go.mau.fi/whatsmeow/types/events"
	"google.golang.org/protobuf/proto"

	"github.com/bsdmy2005/rental-agent-sub005/internal/core/messaging"
	"github.com/bsdmy2005/rental-agent-sub005/internal/core/session"
	"github.com/bsdmy2005/rental-agent-sub005/platform/logger"
)

// Socket implementa session.ProtocolSocket sobre um cliente whatsmeow.
// Cada instância serve uma única sessão; o ciclo de vida pertence ao
// gerenciador de conexão.
type Socket struct {
	sessionID string
	client    *whatsmeow.Client
	sink      session.EventSink
	logger    *logger.Logger

	mu       sync.Mutex
	ended    bool
	qrCancel context.CancelFunc
}

// Connect abre a conexão. Um dispositivo ainda não registrado entra no fluxo
// de pareamento por QR; códigos chegam pelo canal próprio do whatsmeow e
// são repassados como eventos de pareamento.
func (s *Socket) Connect(ctx context.Context) error {
	if s.client.Store.ID == nil {
		qrCtx, cancel := context.WithCancel(context.Background())

		qrChan, err := s.client.GetQRChannel(qrCtx)
		if err != nil {
			cancel()
			return fmt.Errorf("failed to get QR channel: %w", err)
		}

		if err := s.client.Connect(); err != nil {
			cancel()
			return fmt.Errorf("failed to connect for pairing: %w", err)
		}

		s.mu.Lock()
		s.qrCancel = cancel
		s.mu.Unlock()

		go s.qrLoop(qrChan)
		return nil
	}

	if err := s.client.Connect(); err != nil {
		return fmt.Errorf("failed to connect: %w", err)
	}
	return nil
}

func (s *Socket) qrLoop(qrChan <-chan whatsmeow.QRChannelItem) {
	for evt := range qrChan {
		switch evt.Event {
		case "code":
			s.emit(session.EventPairingCode{Code: evt.Code})
		case "success":
			s.logger.InfoWithFields("Pairing code scanned", map[string]interface{}{
				"session_id": s.sessionID,
			})
		case "timeout":
			s.emit(session.EventClosed{Reason: "pairing code timed out"})
		default:
			s.logger.DebugWithFields("QR channel event", map[string]interface{}{
				"session_id": s.sessionID,
				"event":      evt.Event,
			})
		}
	}
}

// handleEvent traduz eventos do whatsmeow para eventos de sessão
func (s *Socket) handleEvent(raw interface{}) {
	switch evt := raw.(type) {
	case *events.Connected:
		s.emit(session.EventOpened{
			PhoneNumber: s.PhoneNumber(),
			Credentials: s.client.Store,
		})
	case *events.PairSuccess:
		s.emit(session.EventCredentialsRotated{Credentials: s.client.Store})
	case *events.LoggedOut:
		s.emit(session.EventClosed{LoggedOut: true, Reason: evt.Reason.String()})
	case *events.StreamReplaced:
		s.emit(session.EventClosed{Reason: "stream replaced by another client"})
	case *events.Disconnected:
		s.emit(session.EventClosed{Reason: "connection closed by server"})
	case *events.Message:
		s.emit(session.EventMessages{Messages: []messaging.Inbound{mapInbound(evt)}})
	case *events.KeepAliveTimeout:
		s.logger.DebugWithFields("Keepalive timeout", map[string]interface{}{
			"session_id": s.sessionID,
		})
	}
}

func (s *Socket) emit(evt session.Event) {
	s.mu.Lock()
	ended := s.ended
	s.mu.Unlock()
	if ended {
		return
	}
	s.sink(s.sessionID, evt)
}

// SendMessage envia uma mensagem de texto para o endereço já normalizado
func (s *Socket) SendMessage(ctx context.Context, address, content string) (messaging.SendReceipt, error) {
	jid, err := waTypes.ParseJID(address)
	if err != nil {
		return messaging.SendReceipt{}, fmt.Errorf("invalid address %q: %w", address, err)
	}

	msg := &waE2E.Message{
		Conversation: proto.String(content),
	}

	resp, err := s.client.SendMessage(ctx, jid, msg)
	if err != nil {
		return messaging.SendReceipt{}, fmt.Errorf("failed to send message: %w", err)
	}

	return messaging.SendReceipt{
		ID:        string(resp.ID),
		Timestamp: resp.Timestamp,
	}, nil
}

// PresenceProbe anuncia presença para estimular a sincronização do
// dispositivo remoto antes de um envio
func (s *Socket) PresenceProbe(ctx context.Context) error {
	if !s.client.IsLoggedIn() {
		return fmt.Errorf("client is not logged in")
	}
	return s.client.SendPresence(waTypes.PresenceAvailable)
}

// IsAuthenticated indica se o socket tem um dispositivo pareado e logado
func (s *Socket) IsAuthenticated() bool {
	return s.client.IsLoggedIn()
}

// PhoneNumber retorna o número do dispositivo pareado, se houver
func (s *Socket) PhoneNumber() string {
	if s.client.Store.ID == nil {
		return ""
	}
	return s.client.Store.ID.User
}

// End encerra o socket. Eventos emitidos depois do encerramento são
// descartados para que o gerenciador não veja closes do próprio End.
func (s *Socket) End() {
	s.mu.Lock()
	if s.ended {
		s.mu.Unlock()
		return
	}
	s.ended = true
	cancel := s.qrCancel
	s.mu.Unlock()

	if cancel != nil {
		cancel()
	}
	s.client.Disconnect()
}

// Logout invalida o registro do dispositivo no servidor
func (s *Socket) Logout(ctx context.Context) error {
	if err := s.client.Logout(ctx); err != nil {
		return fmt.Errorf("failed to logout: %w", err)
	}
	return nil
}
