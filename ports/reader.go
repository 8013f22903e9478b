package ports

import (
	"context"

	"tutoreval/domain/annotation"
	"tutoreval/domain/feedback"
)

// ReaderPort provides read-only access to stored data for the HTTP API.
// Handlers that only display data depend on this so they cannot write.
type ReaderPort interface {
	GetConversation(ctx context.Context, id string) (*annotation.Conversation, error)
	ListConversations(ctx context.Context, filters ConversationFilters) ([]annotation.Conversation, error)
	ListFeedback(ctx context.Context, filter feedback.Filter) ([]*feedback.Entry, error)
}

// ConversationFilters for paging through stored conversations
type ConversationFilters struct {
	Source string
	Limit  int
	Offset int
}
