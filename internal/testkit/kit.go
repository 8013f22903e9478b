package testkit

import (
	"context"
	"fmt"
	"math/rand"
	"sort"
	"sync"
	"time"

	"tutoreval/domain/annotation"
	"tutoreval/domain/core"
	"tutoreval/domain/feedback"
	"tutoreval/ports"
)

// TestKit provides in-memory adapters for tests and database-less runs
type TestKit struct {
	conversations *InMemoryConversationRepository
	feedback      *InMemoryFeedbackRepository
}

// NewTestKit creates a kit with empty in-memory stores
func NewTestKit() (*TestKit, error) {
	return &TestKit{
		conversations: NewInMemoryConversationRepository(),
		feedback:      NewInMemoryFeedbackRepository(),
	}, nil
}

// RNGAdapter returns an RNG adapter
func (t *TestKit) RNGAdapter() ports.RNGPort {
	return &RNGAdapter{}
}

// ConversationRepository returns the shared in-memory conversation store
func (t *TestKit) ConversationRepository() ports.ConversationRepository {
	return t.conversations
}

// FeedbackRepository returns the shared in-memory feedback store
func (t *TestKit) FeedbackRepository() ports.FeedbackRepository {
	return t.feedback
}

// RNGAdapter implements the RNGPort interface with math/rand sources
type RNGAdapter struct{}

// SeededStream creates a deterministic random number generator for a named operation
func (r *RNGAdapter) SeededStream(ctx context.Context, name string, seed int64) (*rand.Rand, error) {
	return rand.New(rand.NewSource(seed)), nil
}

// Stream mixes the operation and pass names into the base seed
func (r *RNGAdapter) Stream(ctx context.Context, operation, pass string, baseSeed int64) (*rand.Rand, error) {
	seed := baseSeed
	if operation != "" {
		seed = int64(hashString(operation)) + seed
	}
	if pass != "" {
		seed = int64(hashString(pass)) + seed
	}
	return rand.New(rand.NewSource(seed)), nil
}

// hashString creates a simple hash for deterministic seeding
func hashString(s string) uint32 {
	var hash uint32 = 5381
	for _, c := range s {
		hash = ((hash << 5) + hash) + uint32(c) // djb2
	}
	return hash
}

type storedConversation struct {
	source string
	conv   annotation.Conversation
}

// InMemoryConversationRepository implements ConversationRepository with a map
type InMemoryConversationRepository struct {
	conversations map[string]storedConversation
	mu            sync.RWMutex
}

func NewInMemoryConversationRepository() *InMemoryConversationRepository {
	return &InMemoryConversationRepository{
		conversations: make(map[string]storedConversation),
	}
}

func (s *InMemoryConversationRepository) Upsert(ctx context.Context, source string, convs []annotation.Conversation) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	for _, conv := range convs {
		s.conversations[conv.Key()] = storedConversation{source: source, conv: conv}
	}
	return nil
}

func (s *InMemoryConversationRepository) Get(ctx context.Context, id string) (*annotation.Conversation, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	stored, exists := s.conversations[id]
	if !exists {
		return nil, fmt.Errorf("%w: %s", core.ErrConversationNotFound, id)
	}
	conv := stored.conv
	return &conv, nil
}

func (s *InMemoryConversationRepository) List(ctx context.Context, filters ports.ConversationFilters) ([]annotation.Conversation, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	keys := make([]string, 0, len(s.conversations))
	for key, stored := range s.conversations {
		if filters.Source != "" && stored.source != filters.Source {
			continue
		}
		keys = append(keys, key)
	}
	sort.Strings(keys)

	if filters.Offset > 0 {
		if filters.Offset >= len(keys) {
			return []annotation.Conversation{}, nil
		}
		keys = keys[filters.Offset:]
	}
	if filters.Limit > 0 && len(keys) > filters.Limit {
		keys = keys[:filters.Limit]
	}

	results := make([]annotation.Conversation, 0, len(keys))
	for _, key := range keys {
		results = append(results, s.conversations[key].conv)
	}
	return results, nil
}

func (s *InMemoryConversationRepository) Count(ctx context.Context) (int, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.conversations), nil
}

// InMemoryFeedbackRepository implements FeedbackRepository with a slice
type InMemoryFeedbackRepository struct {
	entries []*feedback.Entry
	mu      sync.RWMutex
}

func NewInMemoryFeedbackRepository() *InMemoryFeedbackRepository {
	return &InMemoryFeedbackRepository{}
}

func (s *InMemoryFeedbackRepository) Create(ctx context.Context, entry *feedback.Entry) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if entry.Timestamp.IsZero() {
		entry.Timestamp = time.Now().UTC()
	}
	stored := *entry
	s.entries = append(s.entries, &stored)
	return nil
}

func (s *InMemoryFeedbackRepository) List(ctx context.Context, filter feedback.Filter) ([]*feedback.Entry, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	results := make([]*feedback.Entry, 0, len(s.entries))
	for _, entry := range s.entries {
		if filter.Matches(entry) {
			copied := *entry
			results = append(results, &copied)
		}
	}
	return results, nil
}
