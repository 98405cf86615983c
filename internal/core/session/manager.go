package session

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/bsdmy2005/rental-agent-sub005/internal/core/messaging"
	sharederrors "github.com/bsdmy2005/rental-agent-sub005/internal/core/shared/errors"
	"github.com/bsdmy2005/rental-agent-sub005/platform/logger"
)

// ManagerConfig parâmetros do gerenciador de conexão
type ManagerConfig struct {
	ReconnectDelay time.Duration
	ConnectTimeout time.Duration
	MirrorTimeout  time.Duration
}

// DefaultManagerConfig retorna a configuração padrão do gerenciador
func DefaultManagerConfig() ManagerConfig {
	return ManagerConfig{
		ReconnectDelay: 3 * time.Second,
		ConnectTimeout: 30 * time.Second,
		MirrorTimeout:  5 * time.Second,
	}
}

// sessionLoop canal de eventos de uma sessão. Eventos do protocolo são
// aplicados em ordem de chegada por uma única goroutine por sessão.
type sessionLoop struct {
	events chan Event
	done   chan struct{}
	once   sync.Once
}

func (l *sessionLoop) stop() {
	l.once.Do(func() {
		close(l.done)
	})
}

// Manager orquestra registro, auth store e sockets do protocolo: abre
// sessões, traduz eventos em transições de estado, agenda reconexões e
// espelha o estado durável.
type Manager struct {
	registry *Registry
	repo     Repository
	auth     AuthStore
	factory  SocketFactory
	qr       QRRenderer
	logger   *logger.Logger
	cfg      ManagerConfig

	mu      sync.Mutex
	sockets map[string]ProtocolSocket
	loops   map[string]*sessionLoop
	closed  bool
	wg      sync.WaitGroup

	sink InboundSink
}

// NewManager cria um novo gerenciador de conexão
func NewManager(
	registry *Registry,
	repo Repository,
	auth AuthStore,
	factory SocketFactory,
	qr QRRenderer,
	log *logger.Logger,
	cfg ManagerConfig,
) *Manager {
	if cfg.ReconnectDelay <= 0 {
		cfg.ReconnectDelay = 3 * time.Second
	}
	if cfg.ConnectTimeout <= 0 {
		cfg.ConnectTimeout = 30 * time.Second
	}
	if cfg.MirrorTimeout <= 0 {
		cfg.MirrorTimeout = 5 * time.Second
	}

	return &Manager{
		registry: registry,
		repo:     repo,
		auth:     auth,
		factory:  factory,
		qr:       qr,
		logger:   log,
		cfg:      cfg,
		sockets:  make(map[string]ProtocolSocket),
		loops:    make(map[string]*sessionLoop),
	}
}

// SetInboundSink configura o destino das mensagens recebidas. Deve ser
// chamado na composição, antes de qualquer Connect.
func (m *Manager) SetInboundSink(sink InboundSink) {
	m.sink = sink
}

// CreateSession registra uma nova sessão desconectada
func (m *Manager) CreateSession(ctx context.Context, id string) (*Session, error) {
	if err := ValidateID(id); err != nil {
		return nil, err
	}

	sess := NewSession(id)
	if err := m.repo.Create(ctx, sess); err != nil {
		return nil, err
	}

	m.logger.InfoWithFields("Session created", map[string]interface{}{
		"session_id": id,
	})

	return sess, nil
}

// ListSessions retorna todas as sessões duráveis
func (m *Manager) ListSessions(ctx context.Context) ([]*Session, error) {
	return m.repo.List(ctx)
}

// GetSession retorna a sessão durável
func (m *Manager) GetSession(ctx context.Context, id string) (*Session, error) {
	return m.repo.GetByID(ctx, id)
}

// DeleteSession encerra a sessão se estiver viva e remove o registro durável
func (m *Manager) DeleteSession(ctx context.Context, id string) error {
	m.mu.Lock()
	sock := m.sockets[id]
	delete(m.sockets, id)
	m.mu.Unlock()

	m.registry.Remove(id)
	m.stopLoop(id)

	if sock != nil {
		sock.End()
	}

	if err := m.auth.Clear(ctx, id); err != nil {
		m.logger.WarnWithFields("Failed to clear auth state during delete", map[string]interface{}{
			"session_id": id,
			"error":      err.Error(),
		})
	}

	return m.repo.Delete(ctx, id)
}

// Connect abre o socket do protocolo para a sessão. Uma sessão já conectada
// é no-op; a falha da primeira abertura sobe para o chamador, reconexões
// subsequentes são agendadas internamente.
func (m *Manager) Connect(ctx context.Context, id string) error {
	return m.connect(ctx, id, false)
}

func (m *Manager) connect(ctx context.Context, id string, reconnect bool) error {
	if err := ValidateID(id); err != nil {
		return err
	}

	m.mu.Lock()
	if m.closed {
		m.mu.Unlock()
		return fmt.Errorf("connection manager is shut down")
	}
	m.mu.Unlock()

	if snap, ok := m.registry.Get(id); ok && snap.Status == StatusConnected {
		m.logger.DebugWithFields("Session already connected, connect is a no-op", map[string]interface{}{
			"session_id": id,
		})
		return nil
	}

	m.registry.Upsert(id, func(s *State) {
		s.Status = StatusConnecting
		s.LastError = ""
		s.QRImage = ""
	})
	m.mirrorStatus(id, StatusConnecting, "")

	creds, err := m.auth.Load(ctx, id)
	if err != nil {
		m.failConnect(id, err, reconnect)
		return fmt.Errorf("failed to load auth state for session %s: %w", id, err)
	}

	m.ensureLoop(id)

	sock, err := m.factory.New(ctx, id, creds, m.dispatch)
	if err != nil {
		m.failConnect(id, err, reconnect)
		return fmt.Errorf("failed to open protocol socket for session %s: %w", id, err)
	}

	if err := sock.Connect(ctx); err != nil {
		sock.End()
		m.failConnect(id, err, reconnect)
		return fmt.Errorf("failed to connect session %s: %w", id, err)
	}

	m.mu.Lock()
	prev := m.sockets[id]
	m.sockets[id] = sock
	m.mu.Unlock()

	// no máximo um socket vivo por sessão
	if prev != nil && prev != sock {
		prev.End()
	}

	m.logger.InfoWithFields("Session connecting", map[string]interface{}{
		"session_id": id,
	})

	return nil
}

// Disconnect encerra o socket sem limpar o material de pareamento, de forma
// que um Connect posterior retome sem novo pareamento
func (m *Manager) Disconnect(ctx context.Context, id string) error {
	m.mu.Lock()
	sock := m.sockets[id]
	delete(m.sockets, id)
	m.mu.Unlock()

	_, hasState := m.registry.Get(id)
	if sock == nil && !hasState {
		if _, err := m.repo.GetByID(ctx, id); err != nil {
			return err
		}
	}

	// remover do registro antes de encerrar o socket garante que o evento
	// de close resultante não agende reconexão
	m.registry.Remove(id)
	m.stopLoop(id)

	if sock != nil {
		sock.End()
	}

	if err := m.repo.SaveStatus(ctx, id, StatusDisconnected, ""); err != nil {
		m.logger.WarnWithFields("Failed to mirror disconnected status", map[string]interface{}{
			"session_id": id,
			"error":      err.Error(),
		})
	}

	m.logger.InfoWithFields("Session disconnected", map[string]interface{}{
		"session_id": id,
	})

	return nil
}

// Logout encerra a sessão e limpa o material de pareamento durável; um novo
// Connect exigirá pareamento do zero
func (m *Manager) Logout(ctx context.Context, id string) error {
	m.mu.Lock()
	sock := m.sockets[id]
	delete(m.sockets, id)
	m.mu.Unlock()

	_, hasState := m.registry.Get(id)
	if sock == nil && !hasState {
		if _, err := m.repo.GetByID(ctx, id); err != nil {
			return err
		}
	}

	m.registry.Remove(id)
	m.stopLoop(id)

	if sock != nil {
		if err := sock.Logout(ctx); err != nil {
			m.logger.WarnWithFields("Error during protocol logout", map[string]interface{}{
				"session_id": id,
				"error":      err.Error(),
			})
		}
		sock.End()
	}

	if err := m.auth.Clear(ctx, id); err != nil {
		m.logger.ErrorWithFields("Failed to clear auth state on logout", map[string]interface{}{
			"session_id": id,
			"error":      err.Error(),
		})
	}

	if err := m.repo.SaveStatus(ctx, id, StatusLoggedOut, ""); err != nil {
		m.logger.WarnWithFields("Failed to mirror logged out status", map[string]interface{}{
			"session_id": id,
			"error":      err.Error(),
		})
	}

	m.logger.InfoWithFields("Session logged out", map[string]interface{}{
		"session_id": id,
	})

	return nil
}

// GetStatus retorna o estado visível da sessão; sem estado em memória, cai
// para o último estado durável conhecido
func (m *Manager) GetStatus(ctx context.Context, id string) (*StatusInfo, error) {
	if snap, ok := m.registry.Get(id); ok {
		return &StatusInfo{
			ID:          id,
			Status:      snap.Status,
			QRImage:     snap.QRImage,
			PhoneNumber: snap.PhoneNumber,
			LastError:   snap.LastError,
		}, nil
	}

	sess, err := m.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	info := &StatusInfo{
		ID:     id,
		Status: sess.Status,
	}
	if sess.PhoneNumber != nil {
		info.PhoneNumber = *sess.PhoneNumber
	}
	if sess.LastError != nil {
		info.LastError = *sess.LastError
	}

	return info, nil
}

// IsConnected implementa messaging.SessionGateway
func (m *Manager) IsConnected(id string) bool {
	snap, ok := m.registry.Get(id)
	return ok && snap.Status == StatusConnected
}

// Socket implementa messaging.SessionGateway
func (m *Manager) Socket(id string) (messaging.Socket, bool) {
	m.mu.Lock()
	defer m.mu.Unlock()

	sock, ok := m.sockets[id]
	if !ok || sock == nil {
		return nil, false
	}
	return sock, true
}

// GetAutoReply retorna a configuração de resposta automática da sessão
func (m *Manager) GetAutoReply(ctx context.Context, id string) (messaging.ReplyConfig, error) {
	sess, err := m.repo.GetByID(ctx, id)
	if err != nil {
		return messaging.ReplyConfig{}, err
	}
	return sess.AutoReply, nil
}

// SetAutoReply grava a configuração de resposta automática da sessão
func (m *Manager) SetAutoReply(ctx context.Context, id string, cfg messaging.ReplyConfig) error {
	if err := m.repo.SaveAutoReply(ctx, id, cfg); err != nil {
		return err
	}

	m.logger.InfoWithFields("Auto reply configuration updated", map[string]interface{}{
		"session_id": id,
		"enabled":    cfg.Enabled,
	})
	return nil
}

// ReplyConfig implementa messaging.ReplyConfigSource
func (m *Manager) ReplyConfig(ctx context.Context, id string) (messaging.ReplyConfig, error) {
	return m.GetAutoReply(ctx, id)
}

// RestoreSessions reconecta no boot as sessões cujo último estado durável
// era conectado ou conectando
func (m *Manager) RestoreSessions(ctx context.Context) error {
	sessions, err := m.repo.List(ctx)
	if err != nil {
		return fmt.Errorf("failed to list sessions for restore: %w", err)
	}

	restored := 0
	for _, sess := range sessions {
		switch sess.Status {
		case StatusConnected, StatusConnecting, StatusQRPending:
			// a restauração entra direto no laço de reconexão: uma falha
			// aqui mantém a sessão connecting e agenda nova tentativa
			if err := m.connect(ctx, sess.ID, true); err != nil {
				m.logger.ErrorWithFields("Failed to restore session, retry scheduled", map[string]interface{}{
					"session_id": sess.ID,
					"error":      err.Error(),
				})
				m.scheduleReconnect(sess.ID)
				continue
			}
			restored++
		}
	}

	if restored > 0 {
		m.logger.InfoWithFields("Sessions restored", map[string]interface{}{
			"count": restored,
		})
	}

	return nil
}

// Shutdown encerra todos os sockets vivos e os loops de evento. O estado
// durável fica intacto para que o próximo boot restaure as sessões.
func (m *Manager) Shutdown(ctx context.Context) error {
	m.mu.Lock()
	m.closed = true
	sockets := m.sockets
	loops := m.loops
	m.sockets = make(map[string]ProtocolSocket)
	m.loops = make(map[string]*sessionLoop)
	m.mu.Unlock()

	for id, sock := range sockets {
		if sock != nil {
			sock.End()
		}
		m.logger.DebugWithFields("Socket closed on shutdown", map[string]interface{}{
			"session_id": id,
		})
	}

	for _, loop := range loops {
		loop.stop()
	}

	done := make(chan struct{})
	go func() {
		m.wg.Wait()
		close(done)
	}()

	select {
	case <-done:
	case <-ctx.Done():
		return ctx.Err()
	}

	m.logger.Info("Connection manager shut down")
	return nil
}

// dispatch entrega um evento ao loop da sessão; eventos de sessões sem loop
// ativo são descartados
func (m *Manager) dispatch(sessionID string, evt Event) {
	m.mu.Lock()
	loop := m.loops[sessionID]
	m.mu.Unlock()

	if loop == nil {
		return
	}

	select {
	case loop.events <- evt:
	case <-loop.done:
	}
}

func (m *Manager) ensureLoop(id string) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if _, ok := m.loops[id]; ok {
		return
	}

	loop := &sessionLoop{
		events: make(chan Event, 64),
		done:   make(chan struct{}),
	}
	m.loops[id] = loop

	m.wg.Add(1)
	go m.eventLoop(id, loop)
}

func (m *Manager) stopLoop(id string) {
	m.mu.Lock()
	loop := m.loops[id]
	delete(m.loops, id)
	m.mu.Unlock()

	if loop != nil {
		loop.stop()
	}
}

// eventLoop aplica os eventos de uma sessão na ordem em que o socket os
// emitiu, sem reordenação nem coalescência
func (m *Manager) eventLoop(id string, loop *sessionLoop) {
	defer m.wg.Done()

	for {
		select {
		case evt := <-loop.events:
			m.applyEvent(id, evt)
		case <-loop.done:
			return
		}
	}
}

func (m *Manager) applyEvent(id string, evt Event) {
	switch v := evt.(type) {
	case EventPairingCode:
		m.handlePairingCode(id, v)
	case EventOpened:
		m.handleOpened(id, v)
	case EventCredentialsRotated:
		m.handleCredentialsRotated(id, v)
	case EventClosed:
		m.handleClosed(id, v)
	case EventMessages:
		m.handleMessages(id, v)
	}
}

func (m *Manager) handlePairingCode(id string, evt EventPairingCode) {
	image := ""
	if m.qr != nil {
		image = m.qr.Render(evt.Code)
	}

	m.registry.Upsert(id, func(s *State) {
		s.Status = StatusQRPending
		s.QRImage = image
		s.PhoneNumber = ""
	})
	m.mirrorStatus(id, StatusQRPending, "")

	m.logger.InfoWithFields("Pairing code received", map[string]interface{}{
		"session_id": id,
	})
}

func (m *Manager) handleOpened(id string, evt EventOpened) {
	now := time.Now()
	m.registry.Upsert(id, func(s *State) {
		s.Status = StatusConnected
		s.PhoneNumber = evt.PhoneNumber
		s.QRImage = ""
		s.LastError = ""
		s.ConnectedAt = &now
	})
	m.mirrorStatus(id, StatusConnected, "")

	ctx, cancel := context.WithTimeout(context.Background(), m.cfg.MirrorTimeout)
	defer cancel()

	if evt.PhoneNumber != "" {
		if err := m.repo.SavePhoneNumber(ctx, id, evt.PhoneNumber); err != nil {
			m.logger.WarnWithFields("Failed to mirror phone number", map[string]interface{}{
				"session_id": id,
				"error":      err.Error(),
			})
		}
	}

	if evt.Credentials != nil {
		if err := m.auth.Save(ctx, id, evt.Credentials); err != nil {
			m.logger.ErrorWithFields("Failed to persist pairing credentials", map[string]interface{}{
				"session_id": id,
				"error":      err.Error(),
			})
		}
	}

	m.logger.InfoWithFields("Session connected", map[string]interface{}{
		"session_id":   id,
		"phone_number": evt.PhoneNumber,
	})
}

func (m *Manager) handleCredentialsRotated(id string, evt EventCredentialsRotated) {
	ctx, cancel := context.WithTimeout(context.Background(), m.cfg.MirrorTimeout)
	defer cancel()

	// rotação de credenciais é persistida sempre; a falha é registrada mas
	// não derruba a conexão viva
	if err := m.auth.Save(ctx, id, evt.Credentials); err != nil {
		m.logger.ErrorWithFields("Failed to persist rotated credentials", map[string]interface{}{
			"session_id": id,
			"error":      err.Error(),
		})
	}
}

func (m *Manager) handleClosed(id string, evt EventClosed) {
	if evt.LoggedOut {
		m.mu.Lock()
		sock := m.sockets[id]
		delete(m.sockets, id)
		m.mu.Unlock()

		if sock != nil {
			sock.End()
		}

		ctx, cancel := context.WithTimeout(context.Background(), m.cfg.MirrorTimeout)
		defer cancel()

		if err := m.auth.Clear(ctx, id); err != nil {
			m.logger.ErrorWithFields("Failed to clear auth state after remote logout", map[string]interface{}{
				"session_id": id,
				"error":      err.Error(),
			})
		}

		now := time.Now()
		m.registry.Upsert(id, func(s *State) {
			s.Status = StatusLoggedOut
			s.QRImage = ""
			s.LastError = evt.Reason
			s.DisconnectedAt = &now
		})
		m.mirrorStatus(id, StatusLoggedOut, evt.Reason)

		m.logger.WarnWithFields("Session logged out by protocol", map[string]interface{}{
			"session_id": id,
			"reason":     evt.Reason,
		})
		return
	}

	// sessão removida pelo chamador: nada a reconectar
	if _, ok := m.registry.Get(id); !ok {
		return
	}

	m.registry.Upsert(id, func(s *State) {
		s.Status = StatusConnecting
		s.LastError = evt.Reason
	})
	m.mirrorStatus(id, StatusConnecting, evt.Reason)

	m.logger.WarnWithFields("Connection closed, scheduling reconnect", map[string]interface{}{
		"session_id": id,
		"reason":     evt.Reason,
		"delay":      m.cfg.ReconnectDelay.String(),
	})

	m.scheduleReconnect(id)
}

// scheduleReconnect agenda uma nova tentativa de conexão com atraso fixo.
// O laço não desiste enquanto a sessão existir e não for desconectada ou
// deslogada explicitamente.
func (m *Manager) scheduleReconnect(id string) {
	time.AfterFunc(m.cfg.ReconnectDelay, func() {
		m.mu.Lock()
		closed := m.closed
		m.mu.Unlock()
		if closed {
			return
		}

		if _, ok := m.registry.Get(id); !ok {
			return
		}

		ctx, cancel := context.WithTimeout(context.Background(), m.cfg.ConnectTimeout)
		defer cancel()

		if err := m.connect(ctx, id, true); err != nil {
			m.logger.ErrorWithFields("Reconnect attempt failed", map[string]interface{}{
				"session_id": id,
				"error":      err.Error(),
			})
			m.scheduleReconnect(id)
		}
	})
}

func (m *Manager) handleMessages(id string, evt EventMessages) {
	if m.sink == nil {
		return
	}

	ctx, cancel := context.WithTimeout(context.Background(), m.cfg.ConnectTimeout)
	defer cancel()

	for _, msg := range evt.Messages {
		if err := m.sink.Ingest(ctx, id, msg); err != nil {
			m.logger.ErrorWithFields("Failed to ingest inbound message", map[string]interface{}{
				"session_id": id,
				"message_id": msg.MessageID,
				"error":      err.Error(),
			})
		}
	}
}

// failConnect registra a falha de abertura da conexão. Numa tentativa do
// laço de reconexão a sessão permanece connecting, para que um restart do
// processo durante a indisponibilidade ainda a recupere na varredura de boot;
// na chamada inicial o erro volta ao chamador e a sessão fica disconnected,
// sem entrada morta no registro.
func (m *Manager) failConnect(id string, cause error, reconnect bool) {
	if reconnect {
		m.registry.Upsert(id, func(s *State) {
			s.Status = StatusConnecting
			s.LastError = cause.Error()
		})
		m.mirrorStatus(id, StatusConnecting, cause.Error())
		return
	}

	m.registry.Remove(id)
	m.mirrorStatus(id, StatusDisconnected, cause.Error())
}

// mirrorStatus espelha o status no armazenamento durável; a falha é
// registrada e não interrompe a transição em memória
func (m *Manager) mirrorStatus(id string, status Status, lastError string) {
	ctx, cancel := context.WithTimeout(context.Background(), m.cfg.MirrorTimeout)
	defer cancel()

	if err := m.repo.SaveStatus(ctx, id, status, lastError); err != nil {
		if sharederrors.Is(err, sharederrors.ErrSessionNotFound) {
			m.logger.DebugWithFields("Session not found during status mirror", map[string]interface{}{
				"session_id": id,
			})
			return
		}
		m.logger.WarnWithFields("Failed to mirror session status", map[string]interface{}{
			"session_id": id,
			"status":     string(status),
			"error":      err.Error(),
		})
	}
}
