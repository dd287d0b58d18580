package api

import (
	"github.com/bioclassify/taric/internal/config"
	"github.com/bioclassify/taric/internal/infrastructure"
	"github.com/bioclassify/taric/pkg/pagination"
)

// Runtime extends Infrastructure with API-specific configuration.
type Runtime struct {
	*infrastructure.Infrastructure
	Pagination pagination.Config
}

// NewRuntime creates an API runtime with a module-scoped logger.
func NewRuntime(cfg *config.Config, infra *infrastructure.Infrastructure) *Runtime {
	return &Runtime{
		Infrastructure: &infrastructure.Infrastructure{
			Lifecycle: infra.Lifecycle,
			Logger:    infra.Logger.With("module", "api"),
			Database:  infra.Database,
			Reasoning: infra.Reasoning,
		},
		Pagination: cfg.API.Pagination,
	}
}
