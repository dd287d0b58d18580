package api

import (
	"github.com/bioclassify/taric/internal/classifier"
	"github.com/bioclassify/taric/internal/extraction"
	"github.com/bioclassify/taric/internal/sessions"
	"github.com/bioclassify/taric/internal/tariffs"
)

// Domain holds all domain systems that comprise the API.
type Domain struct {
	Tariffs    tariffs.System
	Sessions   sessions.System
	Classifier classifier.System
	Extraction *extraction.Extractor
}

// NewDomain creates all domain systems from the API runtime.
func NewDomain(runtime *Runtime) *Domain {
	tariffsSystem := tariffs.New(
		runtime.Database.Connection(),
		runtime.Logger,
		runtime.Pagination,
	)

	sessionsSystem := sessions.New(
		runtime.Database.Connection(),
		runtime.Logger,
		runtime.Pagination,
	)

	classifierSystem := classifier.New(
		tariffsSystem,
		sessionsSystem,
		runtime.Reasoning,
		runtime.Logger,
	)

	return &Domain{
		Tariffs:    tariffsSystem,
		Sessions:   sessionsSystem,
		Classifier: classifierSystem,
		Extraction: extraction.New(runtime.Logger),
	}
}
