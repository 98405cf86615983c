package waclient

import (
	"fmt"

	waLog "go.mau.fi/whatsmeow/util/log"

	"github.com/bsdmy2005/rental-agent-sub005/platform/logger"
)

// WALogger adapta o logger da aplicação para a interface de log do whatsmeow
type WALogger struct {
	logger *logger.Logger
	module string
}

// NewWALogger cria um logger compatível com whatsmeow
func NewWALogger(log *logger.Logger) waLog.Logger {
	return &WALogger{
		logger: log,
		module: "whatsmeow",
	}
}

func (w *WALogger) Errorf(msg string, args ...interface{}) {
	w.logger.ErrorWithFields(fmt.Sprintf(msg, args...), map[string]interface{}{
		"module": w.module,
	})
}

func (w *WALogger) Warnf(msg string, args ...interface{}) {
	w.logger.WarnWithFields(fmt.Sprintf(msg, args...), map[string]interface{}{
		"module": w.module,
	})
}

func (w *WALogger) Infof(msg string, args ...interface{}) {
	w.logger.DebugWithFields(fmt.Sprintf(msg, args...), map[string]interface{}{
		"module": w.module,
	})
}

func (w *WALogger) Debugf(msg string, args ...interface{}) {
	w.logger.DebugWithFields(fmt.Sprintf(msg, args...), map[string]interface{}{
		"module": w.module,
	})
}

func (w *WALogger) Sub(module string) waLog.Logger {
	return &WALogger{
		logger: w.logger,
		module: fmt.Sprintf("%s.%s", w.module, module),
	}
}
