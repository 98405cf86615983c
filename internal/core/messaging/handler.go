package messaging

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"

	sharederrors "github.com/bsdmy2005/rental-agent-sub005/internal/core/shared/errors"
	"github.com/bsdmy2005/rental-agent-sub005/platform/logger"
)

// HandlerConfig parâmetros de envio e normalização de destinatário
type HandlerConfig struct {
	MaxAttempts          int
	BaseDelay            time.Duration
	DeviceSyncMultiplier int
	DefaultCountryCode   string
	AddressSuffix        string
}

// DefaultHandlerConfig retorna a configuração padrão de envio
func DefaultHandlerConfig() HandlerConfig {
	return HandlerConfig{
		MaxAttempts:          3,
		BaseDelay:            2 * time.Second,
		DeviceSyncMultiplier: 2,
		DefaultCountryCode:   "27",
		AddressSuffix:        "s.whatsapp.net",
	}
}

// Handler envio com retry e ingestão de mensagens recebidas
type Handler struct {
	gateway   SessionGateway
	repo      Repository
	replies   ReplyConfigSource
	generator ReplyGenerator
	logger    *logger.Logger
	cfg       HandlerConfig
}

// NewHandler cria um novo handler de mensagens
func NewHandler(
	gateway SessionGateway,
	repo Repository,
	replies ReplyConfigSource,
	generator ReplyGenerator,
	log *logger.Logger,
	cfg HandlerConfig,
) *Handler {
	if cfg.MaxAttempts < 1 {
		cfg.MaxAttempts = 1
	}
	return &Handler{
		gateway:   gateway,
		repo:      repo,
		replies:   replies,
		generator: generator,
		logger:    log,
		cfg:       cfg,
	}
}

// Send envia uma mensagem de texto com retry limitado para erros transientes.
// Violações de pré-condição falham imediatamente, sem tentativa de rede.
func (h *Handler) Send(ctx context.Context, sessionID, recipient, content string) (*SendResult, error) {
	if !h.gateway.IsConnected(sessionID) {
		return nil, fmt.Errorf("session %s: %w", sessionID, sharederrors.ErrSessionNotConnected)
	}

	sock, ok := h.gateway.Socket(sessionID)
	if !ok || sock == nil {
		return nil, fmt.Errorf("session %s: %w", sessionID, sharederrors.ErrSessionNotConnected)
	}

	if !sock.IsAuthenticated() {
		return nil, fmt.Errorf("session %s: %w", sessionID, sharederrors.ErrSessionNotAuthenticated)
	}

	address, err := h.normalizeRecipient(recipient)
	if err != nil {
		return nil, err
	}

	// Probe de presença aquece o socket antes do envio; falha é apenas
	// informativa e não impede a tentativa
	if probeErr := sock.PresenceProbe(ctx); probeErr != nil {
		h.logger.WarnWithFields("Presence probe failed before send", map[string]interface{}{
			"session_id": sessionID,
			"to":         address,
			"error":      probeErr.Error(),
		})
	}

	var lastErr error
	for attempt := 1; attempt <= h.cfg.MaxAttempts; attempt++ {
		receipt, sendErr := sock.SendMessage(ctx, address, content)
		if sendErr == nil {
			h.persistOutbound(ctx, sessionID, address, content, receipt)
			return &SendResult{
				MessageID: receipt.ID,
				Timestamp: receipt.Timestamp,
			}, nil
		}

		lastErr = sendErr
		class := classifySendError(sendErr)
		if !class.transient || attempt == h.cfg.MaxAttempts {
			break
		}

		delay := h.backoffDelay(attempt, class.deviceSync)
		h.logger.WarnWithFields("Send attempt failed, retrying", map[string]interface{}{
			"session_id":  sessionID,
			"to":          address,
			"attempt":     attempt,
			"max":         h.cfg.MaxAttempts,
			"delay":       delay.String(),
			"device_sync": class.deviceSync,
			"error":       sendErr.Error(),
		})

		if waitErr := sleepContext(ctx, delay); waitErr != nil {
			return nil, waitErr
		}

		// Probe adicional entre tentativas para estimular a reconexão
		// do dispositivo remoto
		if probeErr := sock.PresenceProbe(ctx); probeErr != nil {
			h.logger.DebugWithFields("Presence probe failed between retries", map[string]interface{}{
				"session_id": sessionID,
				"error":      probeErr.Error(),
			})
		}
	}

	return nil, fmt.Errorf("failed to send message to %s: %w", address, lastErr)
}

// Ingest processa uma mensagem recebida: filtra, persiste e dispara a
// resposta automática quando configurada.
func (h *Handler) Ingest(ctx context.Context, sessionID string, msg Inbound) error {
	if msg.FromMe || !msg.Notification || msg.Sender == "" {
		return nil
	}

	kind := KindUnknown
	if msg.Content != nil {
		kind = msg.Content.Kind()
	}

	summary := Summary(msg.Content)

	ts := msg.Timestamp
	if ts.IsZero() {
		ts = time.Now()
	}

	stored := &StoredMessage{
		ID:        uuid.New(),
		SessionID: sessionID,
		RemoteJID: msg.Sender,
		FromMe:    false,
		Kind:      kind,
		Content:   summary,
		MessageID: msg.MessageID,
		Timestamp: ts,
		CreatedAt: time.Now(),
	}

	// Perder histórico de entrada é defeito de corretude; o erro sobe
	if err := h.repo.Insert(ctx, stored); err != nil {
		return fmt.Errorf("failed to persist inbound message for session %s: %w", sessionID, err)
	}

	h.maybeAutoReply(ctx, sessionID, msg.Sender, summary)

	return nil
}

// Messages retorna mensagens da sessão em ordem cronológica reversa
func (h *Handler) Messages(ctx context.Context, sessionID string, limit, offset int) ([]*StoredMessage, error) {
	if limit <= 0 {
		limit = 50
	}
	if limit > 200 {
		limit = 200
	}
	if offset < 0 {
		offset = 0
	}

	return h.repo.ListBySession(ctx, sessionID, limit, offset)
}

// maybeAutoReply gera e envia resposta automática; qualquer falha aqui é
// registrada e engolida, nunca afeta a ingestão
func (h *Handler) maybeAutoReply(ctx context.Context, sessionID, sender string, summary *string) {
	if h.replies == nil || h.generator == nil || summary == nil {
		return
	}

	cfg, err := h.replies.ReplyConfig(ctx, sessionID)
	if err != nil {
		h.logger.WarnWithFields("Failed to load auto-reply config", map[string]interface{}{
			"session_id": sessionID,
			"error":      err.Error(),
		})
		return
	}

	if !cfg.Enabled {
		return
	}

	reply, err := h.generator.Generate(ctx, *summary, cfg.SystemPrompt, cfg.Model)
	if err != nil {
		h.logger.WarnWithFields("Auto-reply generation failed", map[string]interface{}{
			"session_id": sessionID,
			"error":      err.Error(),
		})
		return
	}

	if strings.TrimSpace(reply) == "" {
		return
	}

	if _, err := h.Send(ctx, sessionID, sender, reply); err != nil {
		h.logger.WarnWithFields("Failed to send auto-reply", map[string]interface{}{
			"session_id": sessionID,
			"to":         sender,
			"error":      err.Error(),
		})
	}
}

// persistOutbound grava o registro de saída; a mensagem já chegou à rede,
// então falha de persistência aqui é apenas registrada
func (h *Handler) persistOutbound(ctx context.Context, sessionID, address, content string, receipt SendReceipt) {
	ts := receipt.Timestamp
	if ts.IsZero() {
		ts = time.Now()
	}

	stored := &StoredMessage{
		ID:        uuid.New(),
		SessionID: sessionID,
		RemoteJID: address,
		FromMe:    true,
		Kind:      KindText,
		Content:   strPtr(content),
		MessageID: receipt.ID,
		Timestamp: ts,
		CreatedAt: time.Now(),
	}

	if err := h.repo.Insert(ctx, stored); err != nil {
		h.logger.ErrorWithFields("Failed to persist outbound message", map[string]interface{}{
			"session_id": sessionID,
			"message_id": receipt.ID,
			"error":      err.Error(),
		})
	}
}

// normalizeRecipient converte o destinatário para o endereçamento do
// protocolo: JIDs completos passam direto, números recebem código de país
// padrão e o sufixo de domínio configurado
func (h *Handler) normalizeRecipient(recipient string) (string, error) {
	recipient = strings.TrimSpace(recipient)
	if recipient == "" {
		return "", sharederrors.ErrInvalidRecipient
	}

	if strings.Contains(recipient, "@") {
		return recipient, nil
	}

	digits := strings.Map(func(r rune) rune {
		if r >= '0' && r <= '9' {
			return r
		}
		return -1
	}, strings.TrimPrefix(recipient, "+"))

	if digits == "" {
		return "", fmt.Errorf("recipient %q: %w", recipient, sharederrors.ErrInvalidRecipient)
	}

	if strings.HasPrefix(digits, "0") {
		digits = h.cfg.DefaultCountryCode + digits[1:]
	}

	if len(digits) < 8 || len(digits) > 15 {
		return "", fmt.Errorf("recipient %q: %w", recipient, sharederrors.ErrInvalidRecipient)
	}

	return digits + "@" + h.cfg.AddressSuffix, nil
}

// backoffDelay calcula o atraso exponencial da tentativa; timeouts de
// sincronização de dispositivo recebem um multiplicador extra
func (h *Handler) backoffDelay(attempt int, deviceSync bool) time.Duration {
	delay := h.cfg.BaseDelay << (attempt - 1)
	if deviceSync && h.cfg.DeviceSyncMultiplier > 1 {
		delay *= time.Duration(h.cfg.DeviceSyncMultiplier)
	}
	return delay
}

type sendErrorClass struct {
	transient  bool
	deviceSync bool
}

// classifySendError separa erros transientes (timeout, sincronização de
// dispositivo) de falhas definitivas
func classifySendError(err error) sendErrorClass {
	if err == nil {
		return sendErrorClass{}
	}

	msg := strings.ToLower(err.Error())

	deviceSync := strings.Contains(msg, "device sync") ||
		strings.Contains(msg, "sync device") ||
		strings.Contains(msg, "app state")

	transient := deviceSync ||
		errors.Is(err, context.DeadlineExceeded) ||
		strings.Contains(msg, "timed out") ||
		strings.Contains(msg, "timeout") ||
		strings.Contains(msg, "temporarily unavailable") ||
		strings.Contains(msg, "connection reset")

	return sendErrorClass{
		transient:  transient,
		deviceSync: deviceSync,
	}
}

func sleepContext(ctx context.Context, d time.Duration) error {
	timer := time.NewTimer(d)
	defer timer.Stop()

	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return nil
	}
}
