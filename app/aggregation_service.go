package app

import (
	"context"
	"log"
	"time"

	"tutoreval/domain/annotation"
	"tutoreval/internal/aggregate"
	"tutoreval/domain/dataset"
	"tutoreval/internal/errors"
	"tutoreval/internal/scoring"
	"tutoreval/ports"
)

// AggregationService turns flat annotation rows into conversation records
// and keeps them in the configured repository
type AggregationService struct {
	conversations ports.ConversationRepository
}

// ScoreSummary is the scoring view over every stored conversation
type ScoreSummary struct {
	Conversations int                          `json:"conversations"`
	Model         string                       `json:"model"`
	Stats         []scoring.Stat               `json:"stats"`
	Agreement     []scoring.DimensionAgreement `json:"agreement"`
}

// NewAggregationService creates an aggregation service. A nil repository
// makes the service stateless: Aggregate still returns results but nothing
// is persisted.
func NewAggregationService(conversations ports.ConversationRepository) *AggregationService {
	return &AggregationService{conversations: conversations}
}

// Aggregate parses a JSON array of rows, groups them and persists the result
func (s *AggregationService) Aggregate(ctx context.Context, raw []byte, source string) ([]annotation.Conversation, error) {
	rows, err := aggregate.ParseRows(raw)
	if err != nil {
		return nil, err
	}
	return s.aggregateRows(ctx, rows, source)
}

// AggregateDataset aggregates rows read from a tabular file
func (s *AggregationService) AggregateDataset(ctx context.Context, ds *dataset.Dataset, source string) ([]annotation.Conversation, error) {
	if ds == nil {
		return nil, errors.InvalidInput("dataset is nil")
	}
	return s.aggregateRows(ctx, aggregate.RowsFromDataset(ds), source)
}

func (s *AggregationService) aggregateRows(ctx context.Context, rows []annotation.Row, source string) ([]annotation.Conversation, error) {
	start := time.Now()
	convs := aggregate.Transform(rows)
	log.Printf("[AggregationService] %d rows -> %d conversations from %q in %v", len(rows), len(convs), source, time.Since(start))

	if s.conversations == nil {
		return convs, nil
	}
	if err := s.conversations.Upsert(ctx, source, convs); err != nil {
		return nil, errors.WithCode(errors.CodeDatabaseError, errors.Wrap(err, "failed to store conversations"))
	}
	return convs, nil
}

// Summary scores every stored conversation. Agreement compares auto
// annotations with the given judge model.
func (s *AggregationService) Summary(ctx context.Context, model string) (*ScoreSummary, error) {
	if s.conversations == nil {
		return nil, errors.ConfigInvalid("no conversation repository configured")
	}
	convs, err := s.conversations.List(ctx, ports.ConversationFilters{})
	if err != nil {
		return nil, errors.WithCode(errors.CodeDatabaseError, errors.Wrap(err, "failed to load conversations"))
	}
	return Score(convs, model), nil
}

// Score builds a summary for an in-memory set of conversations
func Score(convs []annotation.Conversation, model string) *ScoreSummary {
	if model == "" {
		model = annotation.ModelGPT5
	}
	return &ScoreSummary{
		Conversations: len(convs),
		Model:         model,
		Stats:         scoring.Summarize(convs),
		Agreement:     scoring.Agreement(convs, model),
	}
}
