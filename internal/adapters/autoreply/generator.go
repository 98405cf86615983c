package autoreply

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/cenkalti/backoff/v4"
	openai "github.com/sashabaranov/go-openai"

	"github.com/bsdmy2005/rental-agent-sub005/platform/config"
	"github.com/bsdmy2005/rental-agent-sub005/platform/logger"
)

const defaultSystemPrompt = "You are a helpful assistant replying to WhatsApp messages. Keep replies short and conversational."

// Generator implementa messaging.ReplyGenerator usando a API de chat da
// OpenAI, com backoff exponencial para falhas transientes
type Generator struct {
	client       *openai.Client
	logger       *logger.Logger
	defaultModel string
	timeout      time.Duration
}

// NewGenerator cria o gerador de respostas automáticas
func NewGenerator(cfg config.AutoReplyConfig, log *logger.Logger) *Generator {
	clientCfg := openai.DefaultConfig(cfg.APIKey)
	if cfg.BaseURL != "" {
		clientCfg.BaseURL = cfg.BaseURL
	}

	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = 30 * time.Second
	}

	return &Generator{
		client:       openai.NewClientWithConfig(clientCfg),
		logger:       log,
		defaultModel: cfg.DefaultModel,
		timeout:      timeout,
	}
}

// Generate produz uma resposta para a mensagem recebida
func (g *Generator) Generate(ctx context.Context, content, systemPrompt, model string) (string, error) {
	if strings.TrimSpace(content) == "" {
		return "", nil
	}

	if model == "" {
		model = g.defaultModel
	}
	if systemPrompt == "" {
		systemPrompt = defaultSystemPrompt
	}

	ctx, cancel := context.WithTimeout(ctx, g.timeout)
	defer cancel()

	req := openai.ChatCompletionRequest{
		Model: model,
		Messages: []openai.ChatCompletionMessage{
			{Role: openai.ChatMessageRoleSystem, Content: systemPrompt},
			{Role: openai.ChatMessageRoleUser, Content: content},
		},
	}

	var resp openai.ChatCompletionResponse

	b := backoff.NewExponentialBackOff()
	b.InitialInterval = 200 * time.Millisecond
	b.MaxInterval = 2 * time.Second
	b.MaxElapsedTime = g.timeout

	operation := func() error {
		result, err := g.client.CreateChatCompletion(ctx, req)
		if err != nil {
			return err
		}
		resp = result
		return nil
	}

	if err := backoff.Retry(operation, backoff.WithContext(b, ctx)); err != nil {
		return "", fmt.Errorf("chat completion failed: %w", err)
	}

	if len(resp.Choices) == 0 {
		return "", fmt.Errorf("chat completion returned no choices")
	}

	reply := strings.TrimSpace(resp.Choices[0].Message.Content)
	g.logger.DebugWithFields("Auto-reply generated", map[string]interface{}{
		"model":     model,
		"reply_len": len(reply),
	})

	return reply, nil
}
