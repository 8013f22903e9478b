package postgres

import (
	"context"
	"fmt"
	"time"

	"tutoreval/domain/core"
	"tutoreval/domain/feedback"
	"tutoreval/ports"

	"github.com/jmoiron/sqlx"
)

type feedbackRepository struct {
	db *sqlx.DB
}

// NewFeedbackRepository creates a new PostgreSQL feedback repository
func NewFeedbackRepository(db *sqlx.DB) ports.FeedbackRepository {
	return &feedbackRepository{db: db}
}

// Create inserts a feedback entry, stamping it when no timestamp is set.
// The id column is a UUID, so other ids are rejected before the insert.
func (r *feedbackRepository) Create(ctx context.Context, entry *feedback.Entry) error {
	id, err := core.ParseFeedbackID(entry.ID.String())
	if err != nil {
		return fmt.Errorf("failed to create feedback: %w", err)
	}
	entry.ID = id
	if entry.Timestamp.IsZero() {
		entry.Timestamp = time.Now().UTC()
	}

	_, err = r.db.NamedExecContext(ctx, `
		INSERT INTO feedback (
			id, timestamp, problem_topic, conversation_id, evaluation_type,
			first_tutor, second_tutor, rating, preference, module
		) VALUES (
			:id, :timestamp, :problem_topic, :conversation_id, :evaluation_type,
			:first_tutor, :second_tutor, :rating, :preference, :module
		)
	`, entry)
	if err != nil {
		return fmt.Errorf("failed to create feedback: %w", err)
	}
	return nil
}

// List returns matching feedback, oldest first
func (r *feedbackRepository) List(ctx context.Context, filter feedback.Filter) ([]*feedback.Entry, error) {
	query := `SELECT id, timestamp, problem_topic, conversation_id, evaluation_type,
		first_tutor, second_tutor, rating, preference, module
	FROM feedback WHERE 1=1`
	args := []interface{}{}

	if filter.Module != "" {
		args = append(args, filter.Module)
		query += fmt.Sprintf(" AND module = $%d", len(args))
	}
	if filter.ProblemTopic != "" {
		args = append(args, filter.ProblemTopic)
		query += fmt.Sprintf(" AND problem_topic = $%d", len(args))
	}
	if filter.Tutor != "" {
		args = append(args, filter.Tutor)
		query += fmt.Sprintf(" AND (first_tutor = $%d OR second_tutor = $%d)", len(args), len(args))
	}
	query += " ORDER BY timestamp, id"

	var entries []*feedback.Entry
	if err := r.db.SelectContext(ctx, &entries, query, args...); err != nil {
		return nil, fmt.Errorf("failed to list feedback: %w", err)
	}
	return entries, nil
}
