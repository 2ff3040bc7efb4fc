package container

import (
	"context"
	"fmt"
	"log"

	"gosheet/adapters/llm"
	"gosheet/adapters/memory"
	"gosheet/adapters/postgres"
	"gosheet/internal"
	"gosheet/internal/api"
	"gosheet/internal/assistant"
	"gosheet/internal/config"
	"gosheet/internal/document"
	"gosheet/internal/errors"
	"gosheet/internal/migration"
	"gosheet/ports"

	"github.com/jmoiron/sqlx"
	_ "github.com/lib/pq"
)

// Container holds all application dependencies and manages their lifecycle
type Container struct {
	Config *config.Config
	Logger *internal.Logger

	// Infrastructure
	DB *sqlx.DB

	// Repositories (data access layer)
	DocumentRepo ports.DocumentRepository

	// Services
	SSEHub     *api.SSEHub
	Documents  *document.Service
	ChatClient ports.ChatClient
	Assistant  *assistant.Assistant
}

// New creates a new dependency injection container
func New(cfg *config.Config) (*Container, error) {
	if cfg == nil {
		return nil, fmt.Errorf("config cannot be nil")
	}

	internal.DefaultLogger.SetLevel(internal.ParseLogLevel(cfg.LogLevel))
	return &Container{
		Config: cfg,
		Logger: internal.DefaultLogger,
	}, nil
}

// Init connects storage and builds the services. A configured DATABASE_URL
// selects PostgreSQL; otherwise documents live in memory.
func (c *Container) Init(ctx context.Context) error {
	if c.Config.Database.URL != "" {
		db, err := sqlx.Connect("postgres", c.Config.Database.URL)
		if err != nil {
			return errors.DatabaseError("failed to connect to database", err)
		}
		if err := c.InitWithDatabase(ctx, db); err != nil {
			db.Close()
			return err
		}
	} else {
		c.DocumentRepo = memory.NewDocumentRepository()
		c.Logger.Warn("DATABASE_URL not set, documents are kept in memory only")
	}

	return c.initServices()
}

// InitWithDatabase migrates the schema and installs the PostgreSQL repositories
func (c *Container) InitWithDatabase(ctx context.Context, db *sqlx.DB) error {
	if db == nil {
		return errors.InternalError("database connection cannot be nil")
	}

	if err := db.PingContext(ctx); err != nil {
		return errors.DatabaseError("database connection test failed", err)
	}

	var migrator migration.Migrator = migration.NewRunner()
	if err := migrator.Run(ctx, db); err != nil {
		return errors.Wrap(err, "database migration failed")
	}
	log.Printf("[Container] Database schema at version %s", migrator.Version())

	c.DB = db
	c.DocumentRepo = postgres.NewDocumentRepository(db)
	return nil
}

// initServices builds the event hub, the document service and the assistant
func (c *Container) initServices() error {
	if c.DocumentRepo == nil {
		return errors.InternalError("document repository not initialized")
	}

	c.SSEHub = api.NewSSEHub()
	c.Documents = document.NewService(c.DocumentRepo, c.SSEHub)

	if c.ChatClient == nil && c.Config.AssistantEnabled() {
		client, err := llm.NewClient(llm.Config{
			Model:       c.Config.AI.Model,
			APIKey:      c.Config.AI.APIKey,
			BaseURL:     c.Config.AI.BaseURL,
			Temperature: c.Config.AI.Temperature,
			MaxTokens:   c.Config.AI.MaxTokens,
			Timeout:     c.Config.AI.Timeout,
		})
		if err != nil {
			return errors.Wrap(err, "failed to create LLM client")
		}
		c.ChatClient = client
	}
	if c.ChatClient == nil {
		c.Logger.Warn("No LLM API key configured, assistant disabled")
	}

	c.Assistant = assistant.New(c.ChatClient, c.Documents, c.SSEHub, assistant.Config{
		MaxConcurrent: int64(c.Config.AI.MaxConcurrentChats),
	})

	c.Logger.Info("Container initialized: repository=%T assistant=%t", c.DocumentRepo, c.Assistant.Enabled())
	return nil
}

// Shutdown gracefully shuts down all components
func (c *Container) Shutdown(ctx context.Context) error {
	if c.SSEHub != nil {
		c.SSEHub.Close()
	}

	if c.DB != nil {
		return c.DB.Close()
	}
	return nil
}
