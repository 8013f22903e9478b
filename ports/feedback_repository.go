package ports

import (
	"context"

	"tutoreval/domain/feedback"
)

// FeedbackRepository stores reviewer feedback entries
type FeedbackRepository interface {
	Create(ctx context.Context, entry *feedback.Entry) error

	// List returns matching entries, oldest first
	List(ctx context.Context, filter feedback.Filter) ([]*feedback.Entry, error)
}
