package migration

import (
	"context"
	"fmt"
	"log"

	"tutoreval/internal/errors"

	"github.com/jmoiron/sqlx"
)

// Migrator defines the interface for database migration operations
type Migrator interface {
	Run(ctx context.Context, db *sqlx.DB) error
	Version() string
}

// MigrationRunner handles database schema migrations
type MigrationRunner struct {
	version string
}

// NewRunner creates a new migration runner
func NewRunner() *MigrationRunner {
	return &MigrationRunner{
		version: "1.0.0",
	}
}

// Version returns the migration version
func (r *MigrationRunner) Version() string {
	return r.version
}

// Tables lists the managed tables in creation order
func Tables() []string {
	return []string{"conversations", "feedback"}
}

// Run executes all database migrations in the correct order. Every
// statement is idempotent so Run can be applied on each start.
func (r *MigrationRunner) Run(ctx context.Context, db *sqlx.DB) error {
	if err := r.createConversationsTable(ctx, db); err != nil {
		return errors.Wrap(err, "failed to create conversations table")
	}

	if err := r.createFeedbackTable(ctx, db); err != nil {
		return errors.Wrap(err, "failed to create feedback table")
	}

	if err := r.createIndexes(ctx, db); err != nil {
		return errors.Wrap(err, "failed to create indexes")
	}

	log.Printf("[Migration] Schema version %s applied", r.version)
	return nil
}

// Reset drops every managed table, newest first
func (r *MigrationRunner) Reset(ctx context.Context, db *sqlx.DB) error {
	tables := Tables()
	for i := len(tables) - 1; i >= 0; i-- {
		if _, err := db.ExecContext(ctx, fmt.Sprintf("DROP TABLE IF EXISTS %s CASCADE", tables[i])); err != nil {
			return errors.Wrapf(err, "failed to drop table %s", tables[i])
		}
	}
	log.Printf("[Migration] Dropped %d tables", len(tables))
	return nil
}

func (r *MigrationRunner) createConversationsTable(ctx context.Context, db *sqlx.DB) error {
	_, err := db.ExecContext(ctx, `
		CREATE TABLE IF NOT EXISTS conversations (
			conversation_id TEXT PRIMARY KEY,
			payload JSONB NOT NULL,
			source TEXT NOT NULL DEFAULT '',
			created_at TIMESTAMP WITH TIME ZONE DEFAULT NOW(),
			updated_at TIMESTAMP WITH TIME ZONE DEFAULT NOW()
		)
	`)
	return err
}

func (r *MigrationRunner) createFeedbackTable(ctx context.Context, db *sqlx.DB) error {
	_, err := db.ExecContext(ctx, `
		CREATE TABLE IF NOT EXISTS feedback (
			id UUID PRIMARY KEY,
			timestamp TIMESTAMP WITH TIME ZONE NOT NULL DEFAULT NOW(),
			problem_topic TEXT NOT NULL DEFAULT '',
			conversation_id TEXT NOT NULL DEFAULT '',
			evaluation_type TEXT NOT NULL DEFAULT '',
			first_tutor TEXT NOT NULL DEFAULT '',
			second_tutor TEXT NOT NULL DEFAULT '',
			rating TEXT NOT NULL DEFAULT '',
			preference TEXT NOT NULL DEFAULT ''
				CHECK (preference IN ('', 'first', 'second', 'both', 'both-bad')),
			module TEXT NOT NULL DEFAULT ''
		)
	`)
	return err
}

func (r *MigrationRunner) createIndexes(ctx context.Context, db *sqlx.DB) error {
	indexes := []string{
		"CREATE INDEX IF NOT EXISTS idx_conversations_source ON conversations(source)",
		"CREATE INDEX IF NOT EXISTS idx_feedback_module ON feedback(module)",
		"CREATE INDEX IF NOT EXISTS idx_feedback_problem_topic ON feedback(problem_topic)",
		"CREATE INDEX IF NOT EXISTS idx_feedback_timestamp ON feedback(timestamp)",
	}
	for _, stmt := range indexes {
		if _, err := db.ExecContext(ctx, stmt); err != nil {
			return err
		}
	}
	return nil
}
