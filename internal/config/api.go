package config

import (
	"fmt"
	"os"

	"github.com/bioclassify/taric/pkg/formatting"
	"github.com/bioclassify/taric/pkg/middleware"
	"github.com/bioclassify/taric/pkg/openapi"
	"github.com/bioclassify/taric/pkg/pagination"
)

var corsEnv = &middleware.CORSEnv{
	Enabled:          "TARIC_CORS_ENABLED",
	Origins:          "TARIC_CORS_ORIGINS",
	AllowedMethods:   "TARIC_CORS_ALLOWED_METHODS",
	AllowedHeaders:   "TARIC_CORS_ALLOWED_HEADERS",
	AllowCredentials: "TARIC_CORS_ALLOW_CREDENTIALS",
	MaxAge:           "TARIC_CORS_MAX_AGE",
}

var openapiEnv = &openapi.ConfigEnv{
	Title:       "TARIC_OPENAPI_TITLE",
	Description: "TARIC_OPENAPI_DESCRIPTION",
}

var paginationEnv = &pagination.ConfigEnv{
	DefaultPageSize: "TARIC_PAGINATION_DEFAULT_PAGE_SIZE",
	MaxPageSize:     "TARIC_PAGINATION_MAX_PAGE_SIZE",
}

// APIConfig holds API routing, CORS, pagination, and request body settings.
type APIConfig struct {
	BasePath       string                `toml:"base_path"`
	MaxRequestBody string                `toml:"max_request_body"`
	CORS           middleware.CORSConfig `toml:"cors"`
	Pagination     pagination.Config     `toml:"pagination"`
	OpenAPI        openapi.Config        `toml:"openapi"`
}

// MaxRequestBodyBytes returns the request body cap in bytes. Classification
// requests carry extracted document text, so the cap is generous but bounded.
func (c *APIConfig) MaxRequestBodyBytes() int64 {
	size, err := formatting.ParseBytes(c.MaxRequestBody)
	if err != nil {
		return 1024 * 1024 // 1MB fallback
	}
	return size
}

// Finalize applies defaults, environment variable overrides, and validation
// for the API config and its nested CORS and pagination configs.
func (c *APIConfig) Finalize() error {
	c.loadDefaults()
	c.loadEnv()

	if err := c.CORS.Finalize(corsEnv); err != nil {
		return fmt.Errorf("cors: %w", err)
	}
	if err := c.Pagination.Finalize(paginationEnv); err != nil {
		return fmt.Errorf("pagination: %w", err)
	}
	if err := c.OpenAPI.Finalize(openapiEnv); err != nil {
		return fmt.Errorf("openapi: %w", err)
	}
	return nil
}

// Merge overwrites non-zero fields from overlay across nested configs.
func (c *APIConfig) Merge(overlay *APIConfig) {
	if overlay.BasePath != "" {
		c.BasePath = overlay.BasePath
	}
	if overlay.MaxRequestBody != "" {
		c.MaxRequestBody = overlay.MaxRequestBody
	}

	c.CORS.Merge(&overlay.CORS)
	c.Pagination.Merge(&overlay.Pagination)
	c.OpenAPI.Merge(&overlay.OpenAPI)
}

func (c *APIConfig) loadDefaults() {
	if c.BasePath == "" {
		c.BasePath = "/api"
	}
	if c.MaxRequestBody == "" {
		c.MaxRequestBody = "1MB"
	}
}

func (c *APIConfig) loadEnv() {
	if v := os.Getenv("TARIC_API_BASE_PATH"); v != "" {
		c.BasePath = v
	}
	if v := os.Getenv("TARIC_API_MAX_REQUEST_BODY"); v != "" {
		c.MaxRequestBody = v
	}
}
