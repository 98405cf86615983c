package repository

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/jmoiron/sqlx"
	"github.com/lib/pq"

	"github.com/bsdmy2005/rental-agent-sub005/internal/core/messaging"
	"github.com/bsdmy2005/rental-agent-sub005/internal/core/session"
	sharederrors "github.com/bsdmy2005/rental-agent-sub005/internal/core/shared/errors"
	"github.com/bsdmy2005/rental-agent-sub005/platform/database"
)

// SessionRepository implementa a interface session.Repository para PostgreSQL
type SessionRepository struct {
	db *database.Database
}

// NewSessionRepository cria uma nova instância do repositório de sessões
func NewSessionRepository(db *database.Database) session.Repository {
	return &SessionRepository{
		db: db,
	}
}

// sessionModel representa o modelo de dados para PostgreSQL
type sessionModel struct {
	ID               string         `db:"id"`
	Status           string         `db:"status"`
	DeviceJID        sql.NullString `db:"deviceJid"`
	PhoneNumber      sql.NullString `db:"phoneNumber"`
	LastError        sql.NullString `db:"lastError"`
	AutoReplyEnabled bool           `db:"autoReplyEnabled"`
	AutoReplyPrompt  sql.NullString `db:"autoReplyPrompt"`
	AutoReplyModel   sql.NullString `db:"autoReplyModel"`
	CreatedAt        time.Time      `db:"createdAt"`
	UpdatedAt        time.Time      `db:"updatedAt"`
	ConnectedAt      sql.NullTime   `db:"connectedAt"`
	DisconnectedAt   sql.NullTime   `db:"disconnectedAt"`
}

// Create cria uma nova sessão no banco de dados
func (r *SessionRepository) Create(ctx context.Context, sess *session.Session) error {
	model := r.toModel(sess)

	query := `
		INSERT INTO "waSessions" (
			id, status, "deviceJid", "phoneNumber", "lastError",
			"autoReplyEnabled", "autoReplyPrompt", "autoReplyModel",
			"createdAt", "updatedAt", "connectedAt", "disconnectedAt"
		) VALUES (
			:id, :status, :deviceJid, :phoneNumber, :lastError,
			:autoReplyEnabled, :autoReplyPrompt, :autoReplyModel,
			:createdAt, :updatedAt, :connectedAt, :disconnectedAt
		)
	`

	_, err := r.db.NamedExecContext(ctx, query, model)
	if err != nil {
		if pqErr, ok := err.(*pq.Error); ok {
			if pqErr.Code == "23505" { // unique_violation
				return sharederrors.ErrSessionAlreadyExists
			}
		}
		return fmt.Errorf("failed to create session: %w", err)
	}

	return nil
}

// GetByID busca uma sessão pelo ID
func (r *SessionRepository) GetByID(ctx context.Context, id string) (*session.Session, error) {
	var model sessionModel
	query := `SELECT * FROM "waSessions" WHERE id = $1`

	err := r.db.GetContext(ctx, &model, query, id)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, sharederrors.ErrSessionNotFound
		}
		return nil, fmt.Errorf("failed to get session by ID: %w", err)
	}

	return r.fromModel(&model), nil
}

// List retorna todas as sessões ordenadas pela criação
func (r *SessionRepository) List(ctx context.Context) ([]*session.Session, error) {
	var models []sessionModel
	query := `SELECT * FROM "waSessions" ORDER BY "createdAt" ASC`

	if err := r.db.SelectContext(ctx, &models, query); err != nil {
		return nil, fmt.Errorf("failed to list sessions: %w", err)
	}

	sessions := make([]*session.Session, 0, len(models))
	for i := range models {
		sessions = append(sessions, r.fromModel(&models[i]))
	}

	return sessions, nil
}

// Delete remove uma sessão e suas mensagens numa única transação
func (r *SessionRepository) Delete(ctx context.Context, id string) error {
	return r.db.Transaction(ctx, func(tx *sqlx.Tx) error {
		if _, err := tx.ExecContext(ctx, `DELETE FROM "waMessages" WHERE "sessionId" = $1`, id); err != nil {
			return fmt.Errorf("failed to delete session messages: %w", err)
		}

		result, err := tx.ExecContext(ctx, `DELETE FROM "waSessions" WHERE id = $1`, id)
		if err != nil {
			return fmt.Errorf("failed to delete session: %w", err)
		}

		rows, err := result.RowsAffected()
		if err != nil {
			return fmt.Errorf("failed to check deleted rows: %w", err)
		}
		if rows == 0 {
			return sharederrors.ErrSessionNotFound
		}

		return nil
	})
}

// SaveStatus espelha o status da sessão e o último erro
func (r *SessionRepository) SaveStatus(ctx context.Context, id string, status session.Status, lastError string) error {
	query := `
		UPDATE "waSessions"
		SET status = $2,
		    "lastError" = NULLIF($3, ''),
		    "connectedAt" = CASE WHEN $2 = 'connected' THEN NOW() ELSE "connectedAt" END,
		    "disconnectedAt" = CASE WHEN $2 IN ('disconnected', 'logged_out') THEN NOW() ELSE "disconnectedAt" END,
		    "updatedAt" = NOW()
		WHERE id = $1
	`

	result, err := r.db.ExecContext(ctx, query, id, string(status), lastError)
	if err != nil {
		return fmt.Errorf("failed to save session status: %w", err)
	}

	return r.requireRow(result)
}

// SavePhoneNumber espelha o número de telefone do dispositivo pareado
func (r *SessionRepository) SavePhoneNumber(ctx context.Context, id, phoneNumber string) error {
	query := `UPDATE "waSessions" SET "phoneNumber" = $2, "updatedAt" = NOW() WHERE id = $1`

	result, err := r.db.ExecContext(ctx, query, id, phoneNumber)
	if err != nil {
		return fmt.Errorf("failed to save phone number: %w", err)
	}

	return r.requireRow(result)
}

// SaveDeviceJID espelha o JID do dispositivo pareado
func (r *SessionRepository) SaveDeviceJID(ctx context.Context, id, deviceJID string) error {
	query := `UPDATE "waSessions" SET "deviceJid" = NULLIF($2, ''), "updatedAt" = NOW() WHERE id = $1`

	result, err := r.db.ExecContext(ctx, query, id, deviceJID)
	if err != nil {
		return fmt.Errorf("failed to save device JID: %w", err)
	}

	return r.requireRow(result)
}

// SaveAutoReply grava a configuração de resposta automática
func (r *SessionRepository) SaveAutoReply(ctx context.Context, id string, cfg messaging.ReplyConfig) error {
	query := `
		UPDATE "waSessions"
		SET "autoReplyEnabled" = $2,
		    "autoReplyPrompt" = NULLIF($3, ''),
		    "autoReplyModel" = NULLIF($4, ''),
		    "updatedAt" = NOW()
		WHERE id = $1
	`

	result, err := r.db.ExecContext(ctx, query, id, cfg.Enabled, cfg.SystemPrompt, cfg.Model)
	if err != nil {
		return fmt.Errorf("failed to save auto reply config: %w", err)
	}

	return r.requireRow(result)
}

func (r *SessionRepository) requireRow(result sql.Result) error {
	rows, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to check affected rows: %w", err)
	}
	if rows == 0 {
		return sharederrors.ErrSessionNotFound
	}
	return nil
}

// toModel converte a entidade de domínio para o modelo de banco
func (r *SessionRepository) toModel(sess *session.Session) *sessionModel {
	model := &sessionModel{
		ID:               sess.ID,
		Status:           string(sess.Status),
		AutoReplyEnabled: sess.AutoReply.Enabled,
		CreatedAt:        sess.CreatedAt,
		UpdatedAt:        sess.UpdatedAt,
	}

	if sess.DeviceJID != nil {
		model.DeviceJID = sql.NullString{String: *sess.DeviceJID, Valid: true}
	}
	if sess.PhoneNumber != nil {
		model.PhoneNumber = sql.NullString{String: *sess.PhoneNumber, Valid: true}
	}
	if sess.LastError != nil {
		model.LastError = sql.NullString{String: *sess.LastError, Valid: true}
	}
	if sess.AutoReply.SystemPrompt != "" {
		model.AutoReplyPrompt = sql.NullString{String: sess.AutoReply.SystemPrompt, Valid: true}
	}
	if sess.AutoReply.Model != "" {
		model.AutoReplyModel = sql.NullString{String: sess.AutoReply.Model, Valid: true}
	}
	if sess.ConnectedAt != nil {
		model.ConnectedAt = sql.NullTime{Time: *sess.ConnectedAt, Valid: true}
	}
	if sess.DisconnectedAt != nil {
		model.DisconnectedAt = sql.NullTime{Time: *sess.DisconnectedAt, Valid: true}
	}

	return model
}

// fromModel converte o modelo de banco para a entidade de domínio
func (r *SessionRepository) fromModel(model *sessionModel) *session.Session {
	sess := &session.Session{
		ID:     model.ID,
		Status: session.Status(model.Status),
		AutoReply: messaging.ReplyConfig{
			Enabled:      model.AutoReplyEnabled,
			SystemPrompt: model.AutoReplyPrompt.String,
			Model:        model.AutoReplyModel.String,
		},
		CreatedAt: model.CreatedAt,
		UpdatedAt: model.UpdatedAt,
	}

	if model.DeviceJID.Valid {
		sess.DeviceJID = &model.DeviceJID.String
	}
	if model.PhoneNumber.Valid {
		sess.PhoneNumber = &model.PhoneNumber.String
	}
	if model.LastError.Valid {
		sess.LastError = &model.LastError.String
	}
	if model.ConnectedAt.Valid {
		sess.ConnectedAt = &model.ConnectedAt.Time
	}
	if model.DisconnectedAt.Valid {
		sess.DisconnectedAt = &model.DisconnectedAt.Time
	}

	return sess
}
