package postgres

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"

	"tutoreval/domain/annotation"
	"tutoreval/domain/core"
	"tutoreval/ports"

	"github.com/jmoiron/sqlx"
)

// conversationRepository stores aggregated conversations as JSONB payloads
type conversationRepository struct {
	db *sqlx.DB
}

// NewConversationRepository creates a new conversation repository
func NewConversationRepository(db *sqlx.DB) ports.ConversationRepository {
	return &conversationRepository{db: db}
}

type conversationRow struct {
	ID      string `db:"conversation_id"`
	Payload []byte `db:"payload"`
}

// Upsert writes all conversations in one transaction; an existing id is
// replaced with the new payload
func (r *conversationRepository) Upsert(ctx context.Context, source string, convs []annotation.Conversation) error {
	if len(convs) == 0 {
		return nil
	}

	tx, err := r.db.BeginTxx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	stmt, err := tx.PreparexContext(ctx, `
		INSERT INTO conversations (conversation_id, payload, source, created_at, updated_at)
		VALUES ($1, $2, $3, NOW(), NOW())
		ON CONFLICT (conversation_id)
		DO UPDATE SET payload = EXCLUDED.payload, source = EXCLUDED.source, updated_at = NOW()
	`)
	if err != nil {
		return fmt.Errorf("failed to prepare upsert: %w", err)
	}
	defer stmt.Close()

	for i := range convs {
		payload, err := json.Marshal(&convs[i])
		if err != nil {
			return fmt.Errorf("failed to marshal conversation %s: %w", convs[i].Key(), err)
		}
		if _, err := stmt.ExecContext(ctx, convs[i].Key(), payload, source); err != nil {
			return fmt.Errorf("failed to upsert conversation %s: %w", convs[i].Key(), err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit conversations: %w", err)
	}
	return nil
}

// Get retrieves one conversation by the string form of its id
func (r *conversationRepository) Get(ctx context.Context, id string) (*annotation.Conversation, error) {
	var row conversationRow
	err := r.db.GetContext(ctx, &row, `
		SELECT conversation_id, payload FROM conversations WHERE conversation_id = $1
	`, id)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, fmt.Errorf("%w: %s", core.ErrConversationNotFound, id)
		}
		return nil, fmt.Errorf("failed to get conversation: %w", err)
	}
	return decodeConversation(row)
}

// List pages through conversations ordered by the byte order of their ids,
// matching the order Transform produces
func (r *conversationRepository) List(ctx context.Context, filters ports.ConversationFilters) ([]annotation.Conversation, error) {
	query := `SELECT conversation_id, payload FROM conversations`
	args := []interface{}{}
	if filters.Source != "" {
		args = append(args, filters.Source)
		query += fmt.Sprintf(" WHERE source = $%d", len(args))
	}
	query += ` ORDER BY conversation_id COLLATE "C"`
	if filters.Limit > 0 {
		args = append(args, filters.Limit)
		query += fmt.Sprintf(" LIMIT $%d", len(args))
	}
	if filters.Offset > 0 {
		args = append(args, filters.Offset)
		query += fmt.Sprintf(" OFFSET $%d", len(args))
	}

	var rows []conversationRow
	if err := r.db.SelectContext(ctx, &rows, query, args...); err != nil {
		return nil, fmt.Errorf("failed to list conversations: %w", err)
	}

	convs := make([]annotation.Conversation, 0, len(rows))
	for _, row := range rows {
		conv, err := decodeConversation(row)
		if err != nil {
			return nil, err
		}
		convs = append(convs, *conv)
	}
	return convs, nil
}

// Count returns the number of stored conversations
func (r *conversationRepository) Count(ctx context.Context) (int, error) {
	var count int
	if err := r.db.GetContext(ctx, &count, `SELECT COUNT(*) FROM conversations`); err != nil {
		return 0, fmt.Errorf("failed to count conversations: %w", err)
	}
	return count, nil
}

func decodeConversation(row conversationRow) (*annotation.Conversation, error) {
	var conv annotation.Conversation
	if err := json.Unmarshal(row.Payload, &conv); err != nil {
		return nil, fmt.Errorf("failed to unmarshal conversation %s: %w", row.ID, err)
	}
	return &conv, nil
}
