// Package api assembles the API module with all domain systems and route registration.
package api

import (
	"fmt"
	"net/http"

	"github.com/bioclassify/taric/internal/config"
	"github.com/bioclassify/taric/internal/infrastructure"
	"github.com/bioclassify/taric/pkg/middleware"
	"github.com/bioclassify/taric/pkg/module"
	"github.com/bioclassify/taric/pkg/openapi"
)

// NewModule creates the API module with all domain handlers and middleware.
func NewModule(cfg *config.Config, infra *infrastructure.Infrastructure) (*module.Module, error) {
	runtime := NewRuntime(cfg, infra)
	domain := NewDomain(runtime)

	mux := http.NewServeMux()
	registerRoutes(mux, domain, cfg)

	spec, err := openapi.MarshalJSON(buildSpec(cfg))
	if err != nil {
		return nil, fmt.Errorf("serialize openapi spec: %w", err)
	}
	mux.HandleFunc("GET /openapi.json", openapi.ServeSpec(spec))

	m := module.New(cfg.API.BasePath, mux)
	m.Use(middleware.CORS(&cfg.API.CORS))
	m.Use(middleware.Logger(runtime.Infrastructure.Logger))

	return m, nil
}
