package container

import (
	"context"
	"fmt"
	"log"

	"tutoreval/adapters/postgres"
	"tutoreval/app"
	"tutoreval/internal/config"
	"tutoreval/internal/testkit"
	"tutoreval/ports"

	"github.com/jmoiron/sqlx"
)

// Container holds all application dependencies and manages their lifecycle
type Container struct {
	Config *config.Config

	// Infrastructure; nil when running on in-memory storage
	DB *sqlx.DB

	// Repositories (data access layer)
	ConversationRepo ports.ConversationRepository
	FeedbackRepo     ports.FeedbackRepository

	// Services
	Aggregation *app.AggregationService
	Feedback    *app.FeedbackService
	Reader      ports.ReaderPort
}

// New creates a new dependency injection container
func New(cfg *config.Config) (*Container, error) {
	if cfg == nil {
		return nil, fmt.Errorf("config cannot be nil")
	}
	return &Container{Config: cfg}, nil
}

// InitWithDatabase wires the PostgreSQL repositories
func (c *Container) InitWithDatabase(db *sqlx.DB) error {
	if db == nil {
		return fmt.Errorf("database connection cannot be nil")
	}
	if err := db.Ping(); err != nil {
		return fmt.Errorf("database connection test failed: %w", err)
	}

	c.DB = db
	c.ConversationRepo = postgres.NewConversationRepository(db)
	c.FeedbackRepo = postgres.NewFeedbackRepository(db)
	c.initServices()

	log.Printf("[Container] Initialized with PostgreSQL storage")
	return nil
}

// InitInMemory wires the in-memory repositories used without a database
func (c *Container) InitInMemory() error {
	kit, err := testkit.NewTestKit()
	if err != nil {
		return fmt.Errorf("failed to initialize test kit: %w", err)
	}

	c.ConversationRepo = kit.ConversationRepository()
	c.FeedbackRepo = kit.FeedbackRepository()
	c.initServices()

	log.Printf("[Container] Initialized with in-memory storage; data is lost on exit")
	return nil
}

func (c *Container) initServices() {
	c.Aggregation = app.NewAggregationService(c.ConversationRepo)
	c.Feedback = app.NewFeedbackService(c.FeedbackRepo)
	c.Reader = app.NewReader(c.ConversationRepo, c.FeedbackRepo)
}

// Shutdown releases held resources
func (c *Container) Shutdown(ctx context.Context) error {
	if c.DB != nil {
		if err := c.DB.Close(); err != nil {
			return fmt.Errorf("failed to close database: %w", err)
		}
		log.Printf("[Container] Database connection closed")
	}
	return nil
}
