package ports

import (
	"context"

	"tutoreval/domain/annotation"
)

// ConversationRepository persists aggregated conversation records keyed by
// the string form of their conversation id
type ConversationRepository interface {
	// Upsert inserts or replaces conversations; source tags where they came from
	Upsert(ctx context.Context, source string, convs []annotation.Conversation) error

	// Get returns core.ErrConversationNotFound when the id is unknown
	Get(ctx context.Context, id string) (*annotation.Conversation, error)

	// List returns conversations ordered by id
	List(ctx context.Context, filters ConversationFilters) ([]annotation.Conversation, error)

	Count(ctx context.Context) (int, error)
}
