package app

import (
	"context"
	"time"

	"tutoreval/domain/core"
	"tutoreval/domain/feedback"
	"tutoreval/internal/errors"
	"tutoreval/ports"
)

// FeedbackService records reviewer judgements
type FeedbackService struct {
	repo ports.FeedbackRepository
	now  func() time.Time
}

// NewFeedbackService creates a feedback service
func NewFeedbackService(repo ports.FeedbackRepository) *FeedbackService {
	return &FeedbackService{
		repo: repo,
		now:  func() time.Time { return time.Now().UTC() },
	}
}

// Save validates an entry, assigns its id and timestamp and stores it
func (s *FeedbackService) Save(ctx context.Context, entry *feedback.Entry) (*feedback.Entry, error) {
	if entry == nil {
		return nil, errors.InvalidInput("feedback entry is required")
	}
	if err := entry.Validate(); err != nil {
		return nil, errors.WithCode(errors.CodeValidationError, err)
	}

	stored := *entry
	stored.ID = core.NewFeedbackID()
	stored.Timestamp = s.now()

	if err := s.repo.Create(ctx, &stored); err != nil {
		return nil, errors.WithCode(errors.CodeDatabaseError, errors.Wrap(err, "failed to save feedback"))
	}
	return &stored, nil
}

// List returns matching entries together with listing metadata
func (s *FeedbackService) List(ctx context.Context, filter feedback.Filter) (*feedback.Listing, error) {
	entries, err := s.repo.List(ctx, filter)
	if err != nil {
		return nil, errors.WithCode(errors.CodeDatabaseError, errors.Wrap(err, "failed to list feedback"))
	}
	if entries == nil {
		entries = []*feedback.Entry{}
	}

	// LastUpdated is the newest entry's timestamp, or now for an empty listing
	lastUpdated := time.Time{}
	for _, e := range entries {
		if e.Timestamp.After(lastUpdated) {
			lastUpdated = e.Timestamp
		}
	}
	if lastUpdated.IsZero() {
		lastUpdated = s.now()
	}

	listing := &feedback.Listing{
		Feedbacks: entries,
		Metadata: feedback.Metadata{
			TotalFeedbacks: len(entries),
			LastUpdated:    lastUpdated,
		},
	}
	return listing, nil
}
