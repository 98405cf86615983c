package http

import "github.com/bsdmy2005/rental-agent-sub005/internal/core/messaging"

// CreateSessionRequest corpo da criação de sessão
type CreateSessionRequest struct {
	ID string `json:"id" validate:"required,min=1,max=100"`
}

// SendMessageRequest corpo do envio de mensagem de texto
type SendMessageRequest struct {
	To      string `json:"to" validate:"required"`
	Content string `json:"content" validate:"required"`
}

// AutoReplyRequest corpo da configuração de resposta automática
type AutoReplyRequest struct {
	Enabled      bool   `json:"enabled"`
	SystemPrompt string `json:"systemPrompt" validate:"max=4000"`
	Model        string `json:"model" validate:"max=128"`
}

func (r *AutoReplyRequest) toConfig() messaging.ReplyConfig {
	return messaging.ReplyConfig{
		Enabled:      r.Enabled,
		SystemPrompt: r.SystemPrompt,
		Model:        r.Model,
	}
}
