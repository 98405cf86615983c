package messaging

import "context"

// Repository persistência de mensagens
type Repository interface {
	Insert(ctx context.Context, msg *StoredMessage) error
	ListBySession(ctx context.Context, sessionID string, limit, offset int) ([]*StoredMessage, error)
}

// Socket operações do socket do protocolo usadas no envio
type Socket interface {
	SendMessage(ctx context.Context, address, content string) (SendReceipt, error)
	PresenceProbe(ctx context.Context) error
	IsAuthenticated() bool
}

// SessionGateway acesso ao estado e ao socket vivo de uma sessão
type SessionGateway interface {
	IsConnected(sessionID string) bool
	Socket(sessionID string) (Socket, bool)
}

// ReplyConfig configuração de resposta automática de uma sessão
type ReplyConfig struct {
	Enabled      bool   `json:"enabled"`
	SystemPrompt string `json:"systemPrompt"`
	Model        string `json:"model"`
}

// ReplyConfigSource fornece a configuração de resposta automática por sessão
type ReplyConfigSource interface {
	ReplyConfig(ctx context.Context, sessionID string) (ReplyConfig, error)
}

// ReplyGenerator capacidade externa de geração de texto
type ReplyGenerator interface {
	Generate(ctx context.Context, content, systemPrompt, model string) (string, error)
}
