// Package classifier implements the retrieval-constrained classification
// engine: candidate retrieval, grounded prompt construction, response
// parsing, code validation, and the orchestration of both public
// operations over those parts.
package classifier

import (
	"strings"
	"unicode"
)

// ProductQuery carries the user-supplied product attributes for a single
// classification. List fields are treated as sets: deduplicated and
// order-irrelevant after Normalize.
type ProductQuery struct {
	Description       string   `json:"description"`
	RawText           string   `json:"raw_text,omitempty"`
	CASNumbers        []string `json:"cas_numbers,omitempty"`
	ActiveIngredients []string `json:"active_ingredients,omitempty"`
	Composition       []string `json:"chemical_composition,omitempty"`
	SafetyWarnings    []string `json:"safety_warnings,omitempty"`
	Formulation       []string `json:"formulation,omitempty"`
	Packaging         []string `json:"packaging,omitempty"`
	TherapeuticUses   []string `json:"therapeutic_use,omitempty"`
	Manufacturer      string   `json:"manufacturer,omitempty"`
	Storage           string   `json:"storage,omitempty"`
}

// Normalize trims and deduplicates every list field and strips control
// characters from all text. Called once by the orchestrator before the
// pipeline runs; the query is treated as immutable afterward.
func (q *ProductQuery) Normalize() {
	q.Description = cleanText(q.Description)
	q.RawText = cleanText(q.RawText)
	q.Manufacturer = cleanText(q.Manufacturer)
	q.Storage = cleanText(q.Storage)

	q.CASNumbers = cleanSet(q.CASNumbers)
	q.ActiveIngredients = cleanSet(q.ActiveIngredients)
	q.Composition = cleanSet(q.Composition)
	q.SafetyWarnings = cleanSet(q.SafetyWarnings)
	q.Formulation = cleanSet(q.Formulation)
	q.Packaging = cleanSet(q.Packaging)
	q.TherapeuticUses = cleanSet(q.TherapeuticUses)
}

// Validate reports whether the query carries enough text to classify.
func (q *ProductQuery) Validate() error {
	if q.Description == "" && q.RawText == "" {
		return ErrEmptyQuery
	}
	return nil
}

func cleanText(s string) string {
	var b strings.Builder
	for _, r := range s {
		if unicode.IsControl(r) && r != '\n' && r != '\t' {
			continue
		}
		b.WriteRune(r)
	}
	return strings.TrimSpace(b.String())
}

func cleanSet(items []string) []string {
	if len(items) == 0 {
		return nil
	}

	seen := make(map[string]struct{}, len(items))
	out := make([]string, 0, len(items))

	for _, item := range items {
		cleaned := cleanText(item)
		if cleaned == "" {
			continue
		}

		key := strings.ToLower(cleaned)
		if _, ok := seen[key]; ok {
			continue
		}
		seen[key] = struct{}{}
		out = append(out, cleaned)
	}

	if len(out) == 0 {
		return nil
	}
	return out
}
