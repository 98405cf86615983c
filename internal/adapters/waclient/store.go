package waclient

import (
	"context"
	"fmt"
	"time"

	_ "github.com/mattn/go-sqlite3" // driver sqlite3 do container de credenciais
	"go.mau.fi/whatsmeow/store/sqlstore"

	"github.com/bsdmy2005/rental-agent-sub005/platform/config"
	"github.com/bsdmy2005/rental-agent-sub005/platform/logger"
)

// NewStoreContainer abre o container de credenciais do whatsmeow e migra o
// schema dele. O driver sqlite3 existe para desenvolvimento local; em
// produção o container compartilha o PostgreSQL da aplicação.
func NewStoreContainer(cfg *config.Config, log *logger.Logger) (*sqlstore.Container, error) {
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	driver := cfg.WhatsApp.StoreDriver
	url := cfg.GetWAStoreURL()

	container, err := sqlstore.New(ctx, driver, url, NewWALogger(log))
	if err != nil {
		return nil, fmt.Errorf("failed to open whatsmeow store (%s): %w", driver, err)
	}

	log.InfoWithFields("WhatsApp credential store ready", map[string]interface{}{
		"driver": driver,
	})

	return container, nil
}
