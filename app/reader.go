package app

import (
	"context"

	"tutoreval/domain/annotation"
	"tutoreval/domain/feedback"
	"tutoreval/ports"
)

// Reader is the read-only view over both repositories used by the HTTP API
type Reader struct {
	conversations ports.ConversationRepository
	feedback      ports.FeedbackRepository
}

// NewReader creates a reader
func NewReader(conversations ports.ConversationRepository, feedback ports.FeedbackRepository) ports.ReaderPort {
	return &Reader{conversations: conversations, feedback: feedback}
}

func (r *Reader) GetConversation(ctx context.Context, id string) (*annotation.Conversation, error) {
	return r.conversations.Get(ctx, id)
}

func (r *Reader) ListConversations(ctx context.Context, filters ports.ConversationFilters) ([]annotation.Conversation, error) {
	return r.conversations.List(ctx, filters)
}

func (r *Reader) ListFeedback(ctx context.Context, filter feedback.Filter) ([]*feedback.Entry, error) {
	return r.feedback.List(ctx, filter)
}
