// Package infrastructure provides core service initialization for application startup.
// It assembles common dependencies (logging, database, reasoning) that domain systems require.
package infrastructure

import (
	"fmt"
	"log/slog"
	"os"

	"github.com/bioclassify/taric/internal/config"
	"github.com/bioclassify/taric/internal/reasoning"
	"github.com/bioclassify/taric/pkg/database"
	"github.com/bioclassify/taric/pkg/lifecycle"
)

// Infrastructure holds the core systems required by all domain modules.
// It provides a single point of initialization for lifecycle coordination,
// logging, database access, and the reasoning engine.
type Infrastructure struct {
	Lifecycle *lifecycle.Coordinator
	Logger    *slog.Logger
	Database  database.System
	Reasoning reasoning.System
}

// New creates an Infrastructure from the application configuration.
// It initializes all systems but does not start them; call Start separately.
func New(cfg *config.Config) (*Infrastructure, error) {
	lc := lifecycle.New()
	logger := slog.New(slog.NewTextHandler(os.Stderr, nil))

	db, err := database.New(&cfg.Database, logger)
	if err != nil {
		return nil, fmt.Errorf("database init failed: %w", err)
	}

	return &Infrastructure{
		Lifecycle: lc,
		Logger:    logger,
		Database:  db,
		Reasoning: reasoning.New(cfg.Engine, logger),
	}, nil
}

// Start registers all infrastructure systems with the lifecycle coordinator.
// The database hook coordinates connection startup and shutdown; the
// reasoning engine connects lazily on first use and needs no hook.
func (i *Infrastructure) Start() error {
	if err := i.Database.Start(i.Lifecycle); err != nil {
		return fmt.Errorf("database start failed: %w", err)
	}
	return nil
}
