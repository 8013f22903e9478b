package app

import (
	"context"

	"tutoreval/domain/annotation"
	"tutoreval/domain/feedback"
	"tutoreval/ports"

	"github.com/stretchr/testify/mock"
)

type mockConversationRepository struct {
	mock.Mock
}

func (m *mockConversationRepository) Upsert(ctx context.Context, source string, convs []annotation.Conversation) error {
	args := m.Called(ctx, source, convs)
	return args.Error(0)
}

func (m *mockConversationRepository) Get(ctx context.Context, id string) (*annotation.Conversation, error) {
	args := m.Called(ctx, id)
	if conv := args.Get(0); conv != nil {
		return conv.(*annotation.Conversation), args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *mockConversationRepository) List(ctx context.Context, filters ports.ConversationFilters) ([]annotation.Conversation, error) {
	args := m.Called(ctx, filters)
	if convs := args.Get(0); convs != nil {
		return convs.([]annotation.Conversation), args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *mockConversationRepository) Count(ctx context.Context) (int, error) {
	args := m.Called(ctx)
	return args.Int(0), args.Error(1)
}

type mockFeedbackRepository struct {
	mock.Mock
}

func (m *mockFeedbackRepository) Create(ctx context.Context, entry *feedback.Entry) error {
	args := m.Called(ctx, entry)
	return args.Error(0)
}

func (m *mockFeedbackRepository) List(ctx context.Context, filter feedback.Filter) ([]*feedback.Entry, error) {
	args := m.Called(ctx, filter)
	if entries := args.Get(0); entries != nil {
		return entries.([]*feedback.Entry), args.Error(1)
	}
	return nil, args.Error(1)
}
