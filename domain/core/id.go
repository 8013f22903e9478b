package core

import (
	"fmt"
	"strings"

	"github.com/google/uuid"
)

// ID represents a domain identifier
type ID string

// NewID creates a new unique identifier using UUID v7 for time-ordered generation
func NewID() ID {
	id, err := uuid.NewV7()
	if err != nil {
		id = uuid.New()
	}
	return ID(id.String())
}

// String returns the string representation
func (id ID) String() string {
	return string(id)
}

// FeedbackID identifies one stored feedback entry
type FeedbackID ID

func (id FeedbackID) String() string { return ID(id).String() }

// NewFeedbackID creates a time-ordered feedback identifier
func NewFeedbackID() FeedbackID {
	return FeedbackID(NewID())
}

// ParseFeedbackID parses and validates a UUID string into FeedbackID
func ParseFeedbackID(s string) (FeedbackID, error) {
	if strings.TrimSpace(s) == "" {
		return "", fmt.Errorf("feedback ID cannot be empty")
	}
	parsed, err := uuid.Parse(s)
	if err != nil {
		return "", fmt.Errorf("invalid feedback ID %q: %w", s, err)
	}
	return FeedbackID(parsed.String()), nil
}
