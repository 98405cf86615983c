package container

import (
	"context"
	"fmt"
	"net/http"

	_ "github.com/lib/pq" // driver PostgreSQL para o sqlstore
	"go.mau.fi/whatsmeow/store/sqlstore"

	"github.com/bsdmy2005/rental-agent-sub005/internal/adapters/autoreply"
	apihttp "github.com/bsdmy2005/rental-agent-sub005/internal/adapters/http"
	"github.com/bsdmy2005/rental-agent-sub005/internal/adapters/repository"
	"github.com/bsdmy2005/rental-agent-sub005/internal/adapters/waclient"
	"github.com/bsdmy2005/rental-agent-sub005/internal/core/messaging"
	"github.com/bsdmy2005/rental-agent-sub005/internal/core/session"
	"github.com/bsdmy2005/rental-agent-sub005/platform/config"
	"github.com/bsdmy2005/rental-agent-sub005/platform/database"
	"github.com/bsdmy2005/rental-agent-sub005/platform/logger"
)

// Container é o container principal de Dependency Injection
type Container struct {
	config   *config.Config
	logger   *logger.Logger
	database *database.Database

	sessionRepo session.Repository
	messageRepo messaging.Repository

	waContainer *sqlstore.Container

	manager *session.Manager
	handler *messaging.Handler
}

// Config estrutura de configuração para o container
type Config struct {
	AppConfig *config.Config
	Logger    *logger.Logger
	Database  *database.Database
}

// New cria uma nova instância do container
func New(cfg *Config) (*Container, error) {
	container := &Container{
		config:   cfg.AppConfig,
		logger:   cfg.Logger,
		database: cfg.Database,
	}

	if err := container.initialize(); err != nil {
		return nil, fmt.Errorf("failed to initialize container: %w", err)
	}

	cfg.Logger.Info("Dependency injection container initialized successfully")
	return container, nil
}

// initialize monta o grafo de dependências na ordem de construção
func (c *Container) initialize() error {
	c.logger.Debug("Initializing container...")

	// 1. Repositórios
	c.sessionRepo = repository.NewSessionRepository(c.database)
	c.messageRepo = repository.NewMessageRepository(c.database.DB)

	// 2. Container de credenciais do whatsmeow
	waContainer, err := waclient.NewStoreContainer(c.config, c.logger)
	if err != nil {
		return fmt.Errorf("failed to create WhatsApp store container: %w", err)
	}
	c.waContainer = waContainer

	// 3. Adaptadores do protocolo
	authStore := waclient.NewAuthStore(waContainer, c.sessionRepo, c.logger)
	factory := waclient.NewFactory(waContainer, c.logger)
	qrRenderer := waclient.NewQRRenderer(c.logger, c.config.WhatsApp.QRInTerminal)

	// 4. Gerenciador de sessões
	c.manager = session.NewManager(
		session.NewRegistry(),
		c.sessionRepo,
		authStore,
		factory,
		qrRenderer,
		c.logger,
		session.ManagerConfig{
			ReconnectDelay: c.config.WhatsApp.ReconnectDelay,
			ConnectTimeout: c.config.WhatsApp.CallTimeout,
		},
	)

	// 5. Gerador de respostas automáticas (opcional, exige API key)
	var generator messaging.ReplyGenerator
	if c.config.AutoReply.APIKey != "" {
		generator = autoreply.NewGenerator(c.config.AutoReply, c.logger)
		c.logger.Info("Auto-reply generator enabled")
	} else {
		c.logger.Info("Auto-reply generator disabled (no API key configured)")
	}

	// 6. Handler de mensagens, com o manager como gateway de sessões
	c.handler = messaging.NewHandler(
		c.manager,
		c.messageRepo,
		c.manager,
		generator,
		c.logger,
		messaging.HandlerConfig{
			MaxAttempts:          c.config.WhatsApp.SendMaxAttempts,
			BaseDelay:            c.config.WhatsApp.SendBaseDelay,
			DeviceSyncMultiplier: c.config.WhatsApp.DeviceSyncMultiplier,
			DefaultCountryCode:   c.config.WhatsApp.DefaultCountryCode,
			AddressSuffix:        c.config.WhatsApp.AddressSuffix,
		},
	)

	// 7. Mensagens recebidas fluem do manager para o handler
	c.manager.SetInboundSink(c.handler)

	c.logger.Debug("Container initialized successfully")
	return nil
}

// GetConfig retorna a configuração da aplicação
func (c *Container) GetConfig() *config.Config {
	return c.config
}

// GetLogger retorna o logger da aplicação
func (c *Container) GetLogger() *logger.Logger {
	return c.logger
}

// GetDatabase retorna a instância do banco de dados
func (c *Container) GetDatabase() *database.Database {
	return c.database
}

// GetManager retorna o gerenciador de sessões
func (c *Container) GetManager() *session.Manager {
	return c.manager
}

// GetMessageHandler retorna o handler de mensagens
func (c *Container) GetMessageHandler() *messaging.Handler {
	return c.handler
}

// Start reconecta as sessões que estavam ativas antes do último shutdown
func (c *Container) Start(ctx context.Context) error {
	c.logger.Info("Starting container components...")

	if err := c.manager.RestoreSessions(ctx); err != nil {
		return fmt.Errorf("failed to restore sessions: %w", err)
	}

	c.logger.Info("Container components started successfully")
	return nil
}

// Stop para todos os componentes gracefully
func (c *Container) Stop(ctx context.Context) error {
	c.logger.Info("Stopping container components...")

	if err := c.manager.Shutdown(ctx); err != nil {
		c.logger.ErrorWithFields("Failed to stop session manager", map[string]interface{}{
			"error": err.Error(),
		})
	}

	if err := c.database.Close(); err != nil {
		c.logger.ErrorWithFields("Failed to close database connection", map[string]interface{}{
			"error": err.Error(),
		})
	}

	c.logger.Info("Container components stopped successfully")
	return nil
}

// Handler retorna um handler HTTP completo com todas as rotas
func (c *Container) Handler() http.Handler {
	return apihttp.SetupRoutes(c.config, c.logger, c.database, c.manager, c.handler)
}
