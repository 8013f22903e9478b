package core

import (
	"fmt"
	"testing"
)

// TestNewIDUniqueness tests that NewID generates unique identifiers
func TestNewIDUniqueness(t *testing.T) {
	const numIDs = 10000

	ids := make(map[ID]bool, numIDs)
	for i := 0; i < numIDs; i++ {
		id := NewID()
		if id == "" {
			t.Errorf("Generated empty ID at iteration %d", i)
		}
		if ids[id] {
			t.Errorf("Generated duplicate ID: %s", id)
		}
		ids[id] = true
	}

	if len(ids) != numIDs {
		t.Errorf("Expected %d unique IDs, got %d", numIDs, len(ids))
	}
}

func TestParseFeedbackID(t *testing.T) {
	generated := NewFeedbackID()

	parsed, err := ParseFeedbackID(generated.String())
	if err != nil {
		t.Fatalf("Unexpected error parsing generated ID: %v", err)
	}
	if parsed != generated {
		t.Errorf("Expected %s, got %s", generated, parsed)
	}

	if _, err := ParseFeedbackID("feedback-123"); err == nil {
		t.Error("Expected error for non-UUID feedback ID")
	}
	if _, err := ParseFeedbackID(""); err == nil {
		t.Error("Expected error for empty feedback ID")
	}
}

func TestIsNotFoundError(t *testing.T) {
	if !IsNotFoundError(ErrConversationNotFound) {
		t.Error("Expected conversation not-found to be a not-found error")
	}
	if !IsNotFoundError(fmt.Errorf("%w: c1", ErrConversationNotFound)) {
		t.Error("Expected wrapped not-found to be a not-found error")
	}
	if IsNotFoundError(ErrInvalidPreference) {
		t.Error("Expected validation error to not be a not-found error")
	}
}
