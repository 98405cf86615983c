package messaging_test

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/bsdmy2005/rental-agent-sub005/internal/core/messaging"
	sharederrors "github.com/bsdmy2005/rental-agent-sub005/internal/core/shared/errors"
	"github.com/bsdmy2005/rental-agent-sub005/platform/logger"
)

type sendCall struct {
	address string
	content string
}

type fakeSocket struct {
	mu            sync.Mutex
	authenticated bool
	sendErrs      []error
	calls         []sendCall
	probes        int
	receipt       messaging.SendReceipt
}

func (s *fakeSocket) SendMessage(ctx context.Context, address, content string) (messaging.SendReceipt, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.calls = append(s.calls, sendCall{address: address, content: content})
	if len(s.sendErrs) > 0 {
		err := s.sendErrs[0]
		s.sendErrs = s.sendErrs[1:]
		if err != nil {
			return messaging.SendReceipt{}, err
		}
	}
	return s.receipt, nil
}

func (s *fakeSocket) PresenceProbe(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.probes++
	return nil
}

func (s *fakeSocket) IsAuthenticated() bool {
	return s.authenticated
}

func (s *fakeSocket) callCount() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.calls)
}

type fakeGateway struct {
	connected bool
	socket    *fakeSocket
}

func (g *fakeGateway) IsConnected(sessionID string) bool {
	return g.connected
}

func (g *fakeGateway) Socket(sessionID string) (messaging.Socket, bool) {
	if g.socket == nil {
		return nil, false
	}
	return g.socket, true
}

type fakeMessageRepo struct {
	mu         sync.Mutex
	messages   []*messaging.StoredMessage
	insertErr  error
	lastLimit  int
	lastOffset int
}

func (r *fakeMessageRepo) Insert(ctx context.Context, msg *messaging.StoredMessage) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.insertErr != nil {
		return r.insertErr
	}
	r.messages = append(r.messages, msg)
	return nil
}

// ListBySession espelha o contrato do repositório real: ordem cronológica
// reversa com limit e offset aplicados
func (r *fakeMessageRepo) ListBySession(ctx context.Context, sessionID string, limit, offset int) ([]*messaging.StoredMessage, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.lastLimit = limit
	r.lastOffset = offset

	out := make([]*messaging.StoredMessage, 0, len(r.messages))
	for _, m := range r.messages {
		if m.SessionID == sessionID {
			out = append(out, m)
		}
	}
	sort.SliceStable(out, func(i, j int) bool {
		return out[i].Timestamp.After(out[j].Timestamp)
	})

	if offset >= len(out) {
		return nil, nil
	}
	out = out[offset:]
	if limit < len(out) {
		out = out[:limit]
	}
	return out, nil
}

func (r *fakeMessageRepo) requestedPage() (limit, offset int) {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.lastLimit, r.lastOffset
}

func (r *fakeMessageRepo) stored() []*messaging.StoredMessage {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]*messaging.StoredMessage, len(r.messages))
	copy(out, r.messages)
	return out
}

type fakeReplySource struct {
	cfg messaging.ReplyConfig
	err error
}

func (s *fakeReplySource) ReplyConfig(ctx context.Context, sessionID string) (messaging.ReplyConfig, error) {
	return s.cfg, s.err
}

type fakeGenerator struct {
	reply string
	err   error
}

func (g *fakeGenerator) Generate(ctx context.Context, content, systemPrompt, model string) (string, error) {
	return g.reply, g.err
}

func testHandlerConfig() messaging.HandlerConfig {
	cfg := messaging.DefaultHandlerConfig()
	cfg.BaseDelay = time.Millisecond
	return cfg
}

func newTestHandler(gateway *fakeGateway, repo *fakeMessageRepo, replies messaging.ReplyConfigSource, gen messaging.ReplyGenerator) *messaging.Handler {
	log := logger.New(logger.TestConfig())
	return messaging.NewHandler(gateway, repo, replies, gen, log, testHandlerConfig())
}

func TestSendSucceedsFirstAttempt(t *testing.T) {
	sock := &fakeSocket{
		authenticated: true,
		receipt:       messaging.SendReceipt{ID: "abc", Timestamp: time.Now()},
	}
	gateway := &fakeGateway{connected: true, socket: sock}
	repo := &fakeMessageRepo{}
	h := newTestHandler(gateway, repo, nil, nil)

	result, err := h.Send(context.Background(), "main", "27821234567", "hello")
	if err != nil {
		t.Fatalf("Send failed: %v", err)
	}
	if result.MessageID != "abc" {
		t.Fatalf("expected message id abc, got %q", result.MessageID)
	}
	if got := sock.callCount(); got != 1 {
		t.Fatalf("expected 1 send attempt, got %d", got)
	}

	stored := repo.stored()
	if len(stored) != 1 {
		t.Fatalf("expected 1 stored message, got %d", len(stored))
	}
	out := stored[0]
	if !out.FromMe {
		t.Fatalf("expected outbound record with fromMe=true")
	}
	if out.Content == nil || *out.Content != "hello" {
		t.Fatalf("expected stored content %q, got %v", "hello", out.Content)
	}
	if out.MessageID != "abc" {
		t.Fatalf("expected stored message id abc, got %q", out.MessageID)
	}
}

func TestSendNormalizesLocalNumber(t *testing.T) {
	sock := &fakeSocket{authenticated: true, receipt: messaging.SendReceipt{ID: "m1"}}
	gateway := &fakeGateway{connected: true, socket: sock}
	h := newTestHandler(gateway, &fakeMessageRepo{}, nil, nil)

	if _, err := h.Send(context.Background(), "main", "0821234567", "hi"); err != nil {
		t.Fatalf("Send failed: %v", err)
	}

	sock.mu.Lock()
	addr := sock.calls[0].address
	sock.mu.Unlock()

	if addr != "27821234567@s.whatsapp.net" {
		t.Fatalf("expected normalized address 27821234567@s.whatsapp.net, got %q", addr)
	}
}

func TestSendRetriesTransientError(t *testing.T) {
	sock := &fakeSocket{
		authenticated: true,
		sendErrs:      []error{errors.New("request timed out"), nil},
		receipt:       messaging.SendReceipt{ID: "m2"},
	}
	gateway := &fakeGateway{connected: true, socket: sock}
	h := newTestHandler(gateway, &fakeMessageRepo{}, nil, nil)

	result, err := h.Send(context.Background(), "main", "27821234567", "hi")
	if err != nil {
		t.Fatalf("Send failed after retry: %v", err)
	}
	if result.MessageID != "m2" {
		t.Fatalf("expected message id m2, got %q", result.MessageID)
	}
	if got := sock.callCount(); got != 2 {
		t.Fatalf("expected 2 send attempts, got %d", got)
	}
}

func TestSendExhaustsAttempts(t *testing.T) {
	sock := &fakeSocket{
		authenticated: true,
		sendErrs: []error{
			errors.New("sending timed out"),
			errors.New("sending timed out"),
			errors.New("sending timed out"),
		},
	}
	gateway := &fakeGateway{connected: true, socket: sock}
	repo := &fakeMessageRepo{}
	h := newTestHandler(gateway, repo, nil, nil)

	_, err := h.Send(context.Background(), "main", "27821234567", "hi")
	if err == nil {
		t.Fatal("expected error after exhausting attempts")
	}
	if got := sock.callCount(); got != 3 {
		t.Fatalf("expected exactly 3 send attempts, got %d", got)
	}
	if len(repo.stored()) != 0 {
		t.Fatalf("expected no stored message after failed send")
	}
}

func TestSendPermanentErrorDoesNotRetry(t *testing.T) {
	sock := &fakeSocket{
		authenticated: true,
		sendErrs:      []error{errors.New("unsupported recipient")},
	}
	gateway := &fakeGateway{connected: true, socket: sock}
	h := newTestHandler(gateway, &fakeMessageRepo{}, nil, nil)

	_, err := h.Send(context.Background(), "main", "27821234567", "hi")
	if err == nil {
		t.Fatal("expected error for permanent failure")
	}
	if got := sock.callCount(); got != 1 {
		t.Fatalf("expected 1 send attempt for permanent error, got %d", got)
	}
}

func TestSendRequiresConnectedSession(t *testing.T) {
	sock := &fakeSocket{authenticated: true}
	gateway := &fakeGateway{connected: false, socket: sock}
	h := newTestHandler(gateway, &fakeMessageRepo{}, nil, nil)

	_, err := h.Send(context.Background(), "main", "27821234567", "hi")
	if !errors.Is(err, sharederrors.ErrSessionNotConnected) {
		t.Fatalf("expected ErrSessionNotConnected, got %v", err)
	}
	if got := sock.callCount(); got != 0 {
		t.Fatalf("expected no network attempt, got %d", got)
	}
}

func TestSendRequiresAuthenticatedSocket(t *testing.T) {
	sock := &fakeSocket{authenticated: false}
	gateway := &fakeGateway{connected: true, socket: sock}
	h := newTestHandler(gateway, &fakeMessageRepo{}, nil, nil)

	_, err := h.Send(context.Background(), "main", "27821234567", "hi")
	if !errors.Is(err, sharederrors.ErrSessionNotAuthenticated) {
		t.Fatalf("expected ErrSessionNotAuthenticated, got %v", err)
	}
	if got := sock.callCount(); got != 0 {
		t.Fatalf("expected no network attempt, got %d", got)
	}
}

func TestSendRejectsInvalidRecipient(t *testing.T) {
	sock := &fakeSocket{authenticated: true}
	gateway := &fakeGateway{connected: true, socket: sock}
	h := newTestHandler(gateway, &fakeMessageRepo{}, nil, nil)

	for _, recipient := range []string{"", "   ", "+--", "123"} {
		if _, err := h.Send(context.Background(), "main", recipient, "hi"); !errors.Is(err, sharederrors.ErrInvalidRecipient) {
			t.Fatalf("recipient %q: expected ErrInvalidRecipient, got %v", recipient, err)
		}
	}
	if got := sock.callCount(); got != 0 {
		t.Fatalf("expected no network attempt, got %d", got)
	}
}

func TestIngestStoresTextMessage(t *testing.T) {
	repo := &fakeMessageRepo{}
	h := newTestHandler(&fakeGateway{}, repo, nil, nil)

	msg := messaging.Inbound{
		MessageID:    "wa-1",
		Sender:       "27821234567@s.whatsapp.net",
		Chat:         "27821234567@s.whatsapp.net",
		Notification: true,
		Timestamp:    time.Now(),
		Content:      messaging.TextContent{Body: "good morning"},
	}
	if err := h.Ingest(context.Background(), "main", msg); err != nil {
		t.Fatalf("Ingest failed: %v", err)
	}

	stored := repo.stored()
	if len(stored) != 1 {
		t.Fatalf("expected 1 stored message, got %d", len(stored))
	}
	if stored[0].Kind != messaging.KindText {
		t.Fatalf("expected kind text, got %q", stored[0].Kind)
	}
	if stored[0].Content == nil || *stored[0].Content != "good morning" {
		t.Fatalf("unexpected stored content: %v", stored[0].Content)
	}
	if stored[0].FromMe {
		t.Fatalf("inbound message stored with fromMe=true")
	}
}

func TestIngestStoresMediaPlaceholder(t *testing.T) {
	repo := &fakeMessageRepo{}
	h := newTestHandler(&fakeGateway{}, repo, nil, nil)

	msg := messaging.Inbound{
		MessageID:    "wa-2",
		Sender:       "27821234567@s.whatsapp.net",
		Notification: true,
		Content:      messaging.ImageContent{},
	}
	if err := h.Ingest(context.Background(), "main", msg); err != nil {
		t.Fatalf("Ingest failed: %v", err)
	}

	stored := repo.stored()
	if len(stored) != 1 {
		t.Fatalf("expected 1 stored message, got %d", len(stored))
	}
	if stored[0].Content == nil || *stored[0].Content != "[Image]" {
		t.Fatalf("expected [Image] placeholder, got %v", stored[0].Content)
	}
}

func TestIngestDiscardsOwnAndNonNotification(t *testing.T) {
	repo := &fakeMessageRepo{}
	h := newTestHandler(&fakeGateway{}, repo, nil, nil)

	own := messaging.Inbound{
		MessageID:    "wa-3",
		Sender:       "27821234567@s.whatsapp.net",
		FromMe:       true,
		Notification: true,
		Content:      messaging.TextContent{Body: "me"},
	}
	stub := messaging.Inbound{
		MessageID:    "wa-4",
		Sender:       "27821234567@s.whatsapp.net",
		Notification: false,
		Content:      messaging.TextContent{Body: "history"},
	}
	noSender := messaging.Inbound{
		MessageID:    "wa-5",
		Notification: true,
		Content:      messaging.TextContent{Body: "ghost"},
	}

	for _, msg := range []messaging.Inbound{own, stub, noSender} {
		if err := h.Ingest(context.Background(), "main", msg); err != nil {
			t.Fatalf("Ingest returned error for discarded message: %v", err)
		}
	}
	if len(repo.stored()) != 0 {
		t.Fatalf("expected discarded messages not to be stored")
	}
}

func TestIngestPersistFailureEscalates(t *testing.T) {
	repo := &fakeMessageRepo{insertErr: errors.New("connection refused")}
	h := newTestHandler(&fakeGateway{}, repo, nil, nil)

	msg := messaging.Inbound{
		MessageID:    "wa-6",
		Sender:       "27821234567@s.whatsapp.net",
		Notification: true,
		Content:      messaging.TextContent{Body: "hello"},
	}
	err := h.Ingest(context.Background(), "main", msg)
	if err == nil {
		t.Fatal("expected error when inbound persistence fails")
	}
	if !strings.Contains(err.Error(), "connection refused") {
		t.Fatalf("expected wrapped cause, got %v", err)
	}
}

func TestIngestTriggersAutoReply(t *testing.T) {
	sock := &fakeSocket{authenticated: true, receipt: messaging.SendReceipt{ID: "reply-1"}}
	gateway := &fakeGateway{connected: true, socket: sock}
	repo := &fakeMessageRepo{}
	replies := &fakeReplySource{cfg: messaging.ReplyConfig{Enabled: true, Model: "gpt-4o-mini"}}
	gen := &fakeGenerator{reply: "thanks for reaching out"}
	h := newTestHandler(gateway, repo, replies, gen)

	msg := messaging.Inbound{
		MessageID:    "wa-7",
		Sender:       "27821234567@s.whatsapp.net",
		Notification: true,
		Content:      messaging.TextContent{Body: "is anyone there?"},
	}
	if err := h.Ingest(context.Background(), "main", msg); err != nil {
		t.Fatalf("Ingest failed: %v", err)
	}

	if got := sock.callCount(); got != 1 {
		t.Fatalf("expected auto-reply send, got %d calls", got)
	}
	sock.mu.Lock()
	call := sock.calls[0]
	sock.mu.Unlock()
	if call.address != msg.Sender {
		t.Fatalf("auto-reply sent to %q, expected %q", call.address, msg.Sender)
	}
	if call.content != "thanks for reaching out" {
		t.Fatalf("unexpected auto-reply content %q", call.content)
	}

	// ingestão grava a entrada e a resposta de saída
	if len(repo.stored()) != 2 {
		t.Fatalf("expected inbound + outbound records, got %d", len(repo.stored()))
	}
}

func TestIngestAutoReplyFailureIsSwallowed(t *testing.T) {
	gateway := &fakeGateway{connected: false}
	repo := &fakeMessageRepo{}
	replies := &fakeReplySource{cfg: messaging.ReplyConfig{Enabled: true}}
	gen := &fakeGenerator{err: errors.New("model unavailable")}
	h := newTestHandler(gateway, repo, replies, gen)

	msg := messaging.Inbound{
		MessageID:    "wa-8",
		Sender:       "27821234567@s.whatsapp.net",
		Notification: true,
		Content:      messaging.TextContent{Body: "hello"},
	}
	if err := h.Ingest(context.Background(), "main", msg); err != nil {
		t.Fatalf("auto-reply failure must not fail ingestion: %v", err)
	}
	if len(repo.stored()) != 1 {
		t.Fatalf("expected inbound message stored despite reply failure")
	}
}

func seedMessages(repo *fakeMessageRepo, sessionID string, count int) {
	base := time.Date(2026, 8, 1, 12, 0, 0, 0, time.UTC)
	for i := 0; i < count; i++ {
		repo.messages = append(repo.messages, &messaging.StoredMessage{
			SessionID: sessionID,
			MessageID: fmt.Sprintf("wa-hist-%d", i+1),
			Timestamp: base.Add(time.Duration(i) * time.Minute),
		})
	}
}

func TestMessagesReturnsReverseChronological(t *testing.T) {
	repo := &fakeMessageRepo{}
	seedMessages(repo, "main", 3)
	seedMessages(repo, "other", 2)
	h := newTestHandler(&fakeGateway{}, repo, nil, nil)

	got, err := h.Messages(context.Background(), "main", 10, 0)
	if err != nil {
		t.Fatalf("Messages failed: %v", err)
	}
	if len(got) != 3 {
		t.Fatalf("expected 3 messages for the session, got %d", len(got))
	}
	for i := 1; i < len(got); i++ {
		if got[i].Timestamp.After(got[i-1].Timestamp) {
			t.Fatalf("expected reverse-chronological order, got %v before %v",
				got[i-1].Timestamp, got[i].Timestamp)
		}
	}
	if got[0].MessageID != "wa-hist-3" {
		t.Fatalf("expected newest message first, got %q", got[0].MessageID)
	}
}

func TestMessagesRespectsLimitAndOffset(t *testing.T) {
	repo := &fakeMessageRepo{}
	seedMessages(repo, "main", 5)
	h := newTestHandler(&fakeGateway{}, repo, nil, nil)

	got, err := h.Messages(context.Background(), "main", 2, 1)
	if err != nil {
		t.Fatalf("Messages failed: %v", err)
	}
	if len(got) != 2 {
		t.Fatalf("expected page of 2, got %d", len(got))
	}
	// offset 1 pula a mais recente
	if got[0].MessageID != "wa-hist-4" || got[1].MessageID != "wa-hist-3" {
		t.Fatalf("unexpected page %q, %q", got[0].MessageID, got[1].MessageID)
	}
}

func TestMessagesClampsPaging(t *testing.T) {
	repo := &fakeMessageRepo{}
	h := newTestHandler(&fakeGateway{}, repo, nil, nil)
	ctx := context.Background()

	if _, err := h.Messages(ctx, "main", 0, -3); err != nil {
		t.Fatalf("Messages failed: %v", err)
	}
	limit, offset := repo.requestedPage()
	if limit != 50 || offset != 0 {
		t.Fatalf("expected defaults 50/0, got %d/%d", limit, offset)
	}

	if _, err := h.Messages(ctx, "main", 1000, 0); err != nil {
		t.Fatalf("Messages failed: %v", err)
	}
	limit, _ = repo.requestedPage()
	if limit != 200 {
		t.Fatalf("expected limit capped at 200, got %d", limit)
	}
}
