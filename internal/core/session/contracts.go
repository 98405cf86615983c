package session

import (
	"context"

	"github.com/bsdmy2005/rental-agent-sub005/internal/core/messaging"
)

// Repository espelho durável do estado das sessões
type Repository interface {
	Create(ctx context.Context, s *Session) error
	GetByID(ctx context.Context, id string) (*Session, error)
	List(ctx context.Context) ([]*Session, error)
	Delete(ctx context.Context, id string) error

	SaveStatus(ctx context.Context, id string, status Status, lastError string) error
	SavePhoneNumber(ctx context.Context, id, phoneNumber string) error
	SaveDeviceJID(ctx context.Context, id, deviceJID string) error
	SaveAutoReply(ctx context.Context, id string, cfg messaging.ReplyConfig) error
}

// Credentials material de pareamento opaco. O gerenciador de conexão nunca
// inspeciona a estrutura interna; apenas o adapter do protocolo a conhece.
type Credentials interface{}

// AuthStore persistência do material de pareamento por sessão
type AuthStore interface {
	// Load retorna (nil, nil) quando a sessão nunca foi pareada
	Load(ctx context.Context, sessionID string) (Credentials, error)
	Save(ctx context.Context, sessionID string, creds Credentials) error
	Clear(ctx context.Context, sessionID string) error
}

// Event evento do ciclo de vida emitido pelo socket do protocolo
type Event interface {
	isEvent()
}

// EventPairingCode código de pareamento disponível para exibição
type EventPairingCode struct {
	Code string
}

// EventOpened conexão aberta e autenticada
type EventOpened struct {
	PhoneNumber string
	Credentials Credentials
}

// EventClosed conexão encerrada pelo protocolo
type EventClosed struct {
	LoggedOut bool
	Reason    string
}

// EventCredentialsRotated material de pareamento rotacionado pelo protocolo
type EventCredentialsRotated struct {
	Credentials Credentials
}

// EventMessages lote de mensagens recebidas
type EventMessages struct {
	Messages []messaging.Inbound
}

func (EventPairingCode) isEvent()        {}
func (EventOpened) isEvent()             {}
func (EventClosed) isEvent()             {}
func (EventCredentialsRotated) isEvent() {}
func (EventMessages) isEvent()           {}

// EventSink destino dos eventos de um socket
type EventSink func(sessionID string, evt Event)

// ProtocolSocket conexão opaca com a rede de mensagens. Uma instância serve
// uma única sessão e pertence exclusivamente ao gerenciador de conexão.
type ProtocolSocket interface {
	Connect(ctx context.Context) error
	SendMessage(ctx context.Context, address, content string) (messaging.SendReceipt, error)
	PresenceProbe(ctx context.Context) error
	IsAuthenticated() bool
	PhoneNumber() string
	End()
	Logout(ctx context.Context) error
}

// SocketFactory abre sockets do protocolo para uma sessão
type SocketFactory interface {
	New(ctx context.Context, sessionID string, creds Credentials, sink EventSink) (ProtocolSocket, error)
}

// QRRenderer converte um código de pareamento em imagem exibível
type QRRenderer interface {
	Render(code string) string
}

// InboundSink destino das mensagens recebidas (o handler de mensagens)
type InboundSink interface {
	Ingest(ctx context.Context, sessionID string, msg messaging.Inbound) error
}
