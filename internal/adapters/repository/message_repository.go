package repository

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
	"github.com/lib/pq"

	"github.com/bsdmy2005/rental-agent-sub005/internal/core/messaging"
	sharederrors "github.com/bsdmy2005/rental-agent-sub005/internal/core/shared/errors"
)

// MessageRepository implementa a interface messaging.Repository para PostgreSQL
type MessageRepository struct {
	db *sqlx.DB
}

// NewMessageRepository cria uma nova instância do repositório de mensagens
func NewMessageRepository(db *sqlx.DB) messaging.Repository {
	return &MessageRepository{
		db: db,
	}
}

// messageModel representa o modelo de dados para PostgreSQL
type messageModel struct {
	ID          string         `db:"id"`
	SessionID   string         `db:"sessionId"`
	WAMessageID string         `db:"waMessageId"`
	RemoteJID   string         `db:"remoteJid"`
	FromMe      bool           `db:"fromMe"`
	Kind        string         `db:"kind"`
	Content     sql.NullString `db:"content"`
	WATimestamp time.Time      `db:"waTimestamp"`
	CreatedAt   time.Time      `db:"createdAt"`
}

// Insert grava uma mensagem enviada ou recebida
func (r *MessageRepository) Insert(ctx context.Context, msg *messaging.StoredMessage) error {
	model := &messageModel{
		ID:          msg.ID.String(),
		SessionID:   msg.SessionID,
		WAMessageID: msg.MessageID,
		RemoteJID:   msg.RemoteJID,
		FromMe:      msg.FromMe,
		Kind:        string(msg.Kind),
		WATimestamp: msg.Timestamp,
		CreatedAt:   msg.CreatedAt,
	}
	if msg.Content != nil {
		model.Content = sql.NullString{String: *msg.Content, Valid: true}
	}

	query := `
		INSERT INTO "waMessages" (
			id, "sessionId", "waMessageId", "remoteJid", "fromMe",
			kind, content, "waTimestamp", "createdAt"
		) VALUES (
			:id, :sessionId, :waMessageId, :remoteJid, :fromMe,
			:kind, :content, :waTimestamp, :createdAt
		)
	`

	_, err := r.db.NamedExecContext(ctx, query, model)
	if err != nil {
		if pqErr, ok := err.(*pq.Error); ok {
			if pqErr.Code == "23505" { // unique_violation
				return sharederrors.ErrMessageAlreadyExists
			}
		}
		return fmt.Errorf("failed to insert message: %w", err)
	}

	return nil
}

// ListBySession retorna mensagens da sessão em ordem cronológica reversa
func (r *MessageRepository) ListBySession(ctx context.Context, sessionID string, limit, offset int) ([]*messaging.StoredMessage, error) {
	var models []messageModel
	query := `
		SELECT * FROM "waMessages"
		WHERE "sessionId" = $1
		ORDER BY "waTimestamp" DESC
		LIMIT $2 OFFSET $3
	`

	if err := r.db.SelectContext(ctx, &models, query, sessionID, limit, offset); err != nil {
		return nil, fmt.Errorf("failed to list messages: %w", err)
	}

	messages := make([]*messaging.StoredMessage, 0, len(models))
	for i := range models {
		msg, err := r.fromModel(&models[i])
		if err != nil {
			return nil, err
		}
		messages = append(messages, msg)
	}

	return messages, nil
}

func (r *MessageRepository) fromModel(model *messageModel) (*messaging.StoredMessage, error) {
	id, err := uuid.Parse(model.ID)
	if err != nil {
		return nil, fmt.Errorf("failed to parse message id %q: %w", model.ID, err)
	}

	msg := &messaging.StoredMessage{
		ID:        id,
		SessionID: model.SessionID,
		RemoteJID: model.RemoteJID,
		FromMe:    model.FromMe,
		Kind:      messaging.Kind(model.Kind),
		MessageID: model.WAMessageID,
		Timestamp: model.WATimestamp,
		CreatedAt: model.CreatedAt,
	}
	if model.Content.Valid {
		msg.Content = &model.Content.String
	}

	return msg, nil
}
