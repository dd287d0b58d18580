package api

import (
	"net/http"

	"github.com/bioclassify/taric/internal/config"
	"github.com/bioclassify/taric/pkg/routes"
)

func registerRoutes(
	mux *http.ServeMux,
	domain *Domain,
	cfg *config.Config,
) {
	maxBody := cfg.API.MaxRequestBodyBytes()

	routes.Register(
		mux,
		domain.Tariffs.Handler().Routes(),
		domain.Sessions.Handler().Routes(),
		domain.Classifier.Handler().WithMaxBody(maxBody).Routes(),
		domain.Extraction.Handler().WithMaxBody(maxBody).Routes(),
	)
}
