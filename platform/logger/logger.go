package logger

import (
	"io"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/rs/zerolog"

	"github.com/bsdmy2005/rental-agent-sub005/platform/config"
)

// Logger wrapper para zerolog com as convenções do gateway
type Logger struct {
	logger zerolog.Logger
	config config.LogConfig
}

// New cria um novo logger baseado na configuração
func New(cfg config.LogConfig) *Logger {
	cfg = validateLogConfig(cfg)

	zerolog.SetGlobalLevel(parseLogLevel(cfg.Level))
	zerolog.TimeFieldFormat = time.RFC3339

	var writer io.Writer = os.Stdout
	if cfg.Output == "stderr" {
		writer = os.Stderr
	}

	if cfg.Format == "console" {
		consoleWriter := zerolog.ConsoleWriter{
			Out:        writer,
			TimeFormat: "15:04:05",
		}

		if cfg.Caller {
			consoleWriter.FormatCaller = func(i interface{}) string {
				if caller, ok := i.(string); ok {
					return formatCaller(caller)
				}
				return ""
			}
		}

		writer = consoleWriter
	}

	ctx := zerolog.New(writer).With().Timestamp()
	if cfg.Caller {
		ctx = ctx.CallerWithSkipFrameCount(3)
	}

	return &Logger{
		logger: ctx.Logger(),
		config: cfg,
	}
}

// NewFromAppConfig cria logger a partir da configuração da aplicação
func NewFromAppConfig(appConfig *config.Config) *Logger {
	return New(appConfig.Log)
}

// WithModule cria um novo logger com componente específico
func (l *Logger) WithModule(module string) *Logger {
	return &Logger{
		logger: l.logger.With().Str("component", module).Logger(),
		config: l.config,
	}
}

// WithSession adiciona ID da sessão ao contexto
func (l *Logger) WithSession(sessionID string) *Logger {
	return &Logger{
		logger: l.logger.With().Str("session_id", sessionID).Logger(),
		config: l.config,
	}
}

// WithRequest adiciona ID da requisição ao contexto
func (l *Logger) WithRequest(requestID string) *Logger {
	return &Logger{
		logger: l.logger.With().Str("request_id", requestID).Logger(),
		config: l.config,
	}
}

// WithError adiciona erro ao contexto
func (l *Logger) WithError(err error) *Logger {
	return &Logger{
		logger: l.logger.With().Err(err).Logger(),
		config: l.config,
	}
}

// Debug registra mensagem de debug
func (l *Logger) Debug(msg string) {
	l.logger.Debug().Msg(msg)
}

// Debugf registra mensagem de debug formatada
func (l *Logger) Debugf(format string, args ...interface{}) {
	l.logger.Debug().Msgf(format, args...)
}

// DebugWithFields registra mensagem de debug com campos
func (l *Logger) DebugWithFields(msg string, fields map[string]interface{}) {
	event := l.logger.Debug()
	for k, v := range fields {
		event = event.Interface(k, v)
	}
	event.Msg(msg)
}

// Info registra mensagem informativa
func (l *Logger) Info(msg string) {
	l.logger.Info().Msg(msg)
}

// Infof registra mensagem informativa formatada
func (l *Logger) Infof(format string, args ...interface{}) {
	l.logger.Info().Msgf(format, args...)
}

// InfoWithFields registra mensagem informativa com campos
func (l *Logger) InfoWithFields(msg string, fields map[string]interface{}) {
	event := l.logger.Info()
	for k, v := range fields {
		event = event.Interface(k, v)
	}
	event.Msg(msg)
}

// Warn registra mensagem de aviso
func (l *Logger) Warn(msg string) {
	l.logger.Warn().Msg(msg)
}

// Warnf registra mensagem de aviso formatada
func (l *Logger) Warnf(format string, args ...interface{}) {
	l.logger.Warn().Msgf(format, args...)
}

// WarnWithFields registra mensagem de aviso com campos
func (l *Logger) WarnWithFields(msg string, fields map[string]interface{}) {
	event := l.logger.Warn()
	for k, v := range fields {
		event = event.Interface(k, v)
	}
	event.Msg(msg)
}

// Error registra mensagem de erro
func (l *Logger) Error(msg string) {
	l.logger.Error().Msg(msg)
}

// Errorf registra mensagem de erro formatada
func (l *Logger) Errorf(format string, args ...interface{}) {
	l.logger.Error().Msgf(format, args...)
}

// ErrorWithFields registra mensagem de erro com campos
func (l *Logger) ErrorWithFields(msg string, fields map[string]interface{}) {
	event := l.logger.Error()
	for k, v := range fields {
		event = event.Interface(k, v)
	}
	event.Msg(msg)
}

// Fatal registra mensagem fatal e termina aplicação
func (l *Logger) Fatal(msg string) {
	l.logger.Fatal().Msg(msg)
}

// GetZerologLogger retorna logger zerolog subjacente
func (l *Logger) GetZerologLogger() zerolog.Logger {
	return l.logger
}

// IsDebugEnabled verifica se debug está habilitado
func (l *Logger) IsDebugEnabled() bool {
	return l.logger.GetLevel() <= zerolog.DebugLevel
}

// parseLogLevel converte string para zerolog.Level
func parseLogLevel(level string) zerolog.Level {
	switch strings.ToLower(level) {
	case "trace":
		return zerolog.TraceLevel
	case "debug":
		return zerolog.DebugLevel
	case "info", "":
		return zerolog.InfoLevel
	case "warn", "warning":
		return zerolog.WarnLevel
	case "error":
		return zerolog.ErrorLevel
	case "fatal":
		return zerolog.FatalLevel
	case "disabled":
		return zerolog.Disabled
	default:
		return zerolog.InfoLevel
	}
}

// validateLogConfig valida e corrige configuração de log
func validateLogConfig(cfg config.LogConfig) config.LogConfig {
	validLevels := map[string]bool{
		"trace": true, "debug": true, "info": true,
		"warn": true, "error": true, "fatal": true, "disabled": true,
	}
	if !validLevels[strings.ToLower(cfg.Level)] {
		cfg.Level = "info"
	}

	if cfg.Format != "console" && cfg.Format != "json" {
		cfg.Format = "json"
	}

	if cfg.Output != "stdout" && cfg.Output != "stderr" {
		cfg.Output = "stdout"
	}

	return cfg
}

// formatCaller formata informação do caller para caminho relativo ao módulo
func formatCaller(caller string) string {
	if idx := strings.Index(caller, "rental-agent-sub005/"); idx >= 0 {
		return caller[idx+len("rental-agent-sub005/"):]
	}
	return filepath.Base(caller)
}

// TestConfig retorna configuração para testes
func TestConfig() config.LogConfig {
	return config.LogConfig{
		Level:  "disabled",
		Format: "json",
		Output: "stdout",
	}
}
