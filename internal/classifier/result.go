package classifier

import (
	"math"

	"github.com/bioclassify/taric/internal/sessions"
	"github.com/google/uuid"
)

// Confidence tier labels.
const (
	LabelHigh   = "high"
	LabelMedium = "medium"
	LabelLow    = "low"

	highThreshold   = 0.85
	mediumThreshold = 0.65

	// degradedConfidence is reported whenever the engine's confidence
	// could not be trusted: unstructured output, non-numeric values.
	degradedConfidence = 0.5
)

// Reasoning is the structured breakdown the engine is asked to produce
// alongside its code selection.
type Reasoning struct {
	ProductType         string `json:"product_type"`
	ActiveIngredient    string `json:"active_ingredient"`
	GIRApplied          string `json:"gir_applied"`
	ChapterNotesApplied string `json:"chapter_notes_applied"`
	ExclusionsChecked   string `json:"exclusions_checked"`
}

// ClassificationResult is the assembled outcome of one classify call.
// Created once after validation, persisted once, never mutated; follow-up
// turns accumulate on the session, not here.
type ClassificationResult struct {
	HSCode            string    `json:"hs_code"`
	Confidence        float64   `json:"confidence"`
	ConfidenceLabel   string    `json:"confidence_label"`
	Memo              string    `json:"memo"`
	Reasoning         Reasoning `json:"reasoning"`
	Sources           []string  `json:"sources"`
	DatabaseValidated bool      `json:"database_validated"`
	ValidationWarning string    `json:"validation_warning,omitempty"`
	SessionID         uuid.UUID `json:"session_id"`
}

// FollowUpResult is the outcome of one follow-up turn.
type FollowUpResult struct {
	SessionID uuid.UUID       `json:"session_id"`
	Response  string          `json:"response"`
	History   []sessions.Turn `json:"history"`
}

func confidenceLabel(confidence float64) string {
	switch {
	case confidence >= highThreshold:
		return LabelHigh
	case confidence >= mediumThreshold:
		return LabelMedium
	default:
		return LabelLow
	}
}

func clampConfidence(confidence float64) float64 {
	switch {
	case math.IsNaN(confidence) || math.IsInf(confidence, 0):
		return degradedConfidence
	case confidence < 0:
		return 0
	case confidence > 1:
		return 1
	default:
		return confidence
	}
}
