// Package extraction tags raw product document text into the structured
// attribute lists a classification query carries. Each tag rule is an
// independent predicate over text lines; the default rule table can be
// replaced or extended at construction, so rules are data, not code.
// PDF-to-text conversion happens upstream; this package only sees text.
package extraction

import (
	"log/slog"
	"regexp"
	"strings"

	"github.com/bioclassify/taric/internal/classifier"
)

// Target fields a line rule can tag into.
const (
	FieldActiveIngredients = "active_ingredients"
	FieldSafetyWarnings    = "safety_warnings"
	FieldComposition       = "chemical_composition"
	FieldFormulation       = "formulation"
	FieldPackaging         = "packaging"
	FieldTherapeuticUse    = "therapeutic_use"
)

// LineRule tags a line into Field when any keyword appears in the
// lowercased line or Pattern matches it. Lines outside [MinLen, MaxLen]
// are skipped when those bounds are set; Cap bounds how many lines the
// rule may collect.
type LineRule struct {
	Field    string
	Keywords []string
	Pattern  *regexp.Regexp
	MinLen   int
	MaxLen   int
	Cap      int
}

// Matches reports whether the rule tags the given line.
func (r LineRule) Matches(line string) bool {
	if r.MinLen > 0 && len(line) < r.MinLen {
		return false
	}
	if r.MaxLen > 0 && len(line) > r.MaxLen {
		return false
	}

	lower := strings.ToLower(line)
	for _, kw := range r.Keywords {
		if strings.Contains(lower, kw) {
			return true
		}
	}

	return r.Pattern != nil && r.Pattern.MatchString(line)
}

var (
	casPattern          = regexp.MustCompile(`\b\d{2,7}-\d{2}-\d\b`)
	hazardCodePattern   = regexp.MustCompile(`(?i)\b[hp]\d{3}\b`)
	quantityPattern     = regexp.MustCompile(`(?i)\d+\.?\d*\s*(%|mg|ml|g/l|w/v|v/v)`)
	manufacturerPattern = regexp.MustCompile(`(?i)manufacturer[:\s]+([^\n]+)`)
	storagePattern      = regexp.MustCompile(`(?i)storage[:\s]+([^\n]+)`)
)

// DefaultRules returns the built-in pharmaceutical tag rule table.
func DefaultRules() []LineRule {
	return []LineRule{
		{
			Field: FieldActiveIngredients,
			Keywords: []string{
				"active ingredient", "active substance", "api",
				"drug substance", "therapeutic agent",
			},
			Cap: 5,
		},
		{
			Field: FieldSafetyWarnings,
			Keywords: []string{
				"hazard", "warning", "danger", "caution", "toxic",
				"flammable", "corrosive", "irritant", "carcinogen", "mutagen",
			},
			Pattern: hazardCodePattern,
			MinLen:  10,
			MaxLen:  500,
			Cap:     10,
		},
		{
			Field:   FieldComposition,
			Pattern: quantityPattern,
			Cap:     10,
		},
		{
			Field: FieldFormulation,
			Keywords: []string{
				"formulation", "excipient", "buffer", "stabilizer",
				"preservative", "diluent", "solvent",
			},
			Cap: 5,
		},
		{
			Field: FieldPackaging,
			Keywords: []string{
				"vial", "syringe", "ampoule", "bottle", "container",
				"closure", "stopper", "glass", "plastic", "rubber",
			},
			Cap: 5,
		},
		{
			Field: FieldTherapeuticUse,
			Keywords: []string{
				"indication", "treatment", "therapy", "disease",
				"condition", "cancer", "immunotherapy", "oncology",
			},
			Cap: 5,
		},
	}
}

// Extractor applies a rule table over document text.
type Extractor struct {
	rules  []LineRule
	logger *slog.Logger
}

// New creates an Extractor. With no rules given, the default
// pharmaceutical table applies.
func New(logger *slog.Logger, rules ...LineRule) *Extractor {
	if len(rules) == 0 {
		rules = DefaultRules()
	}

	return &Extractor{
		rules:  rules,
		logger: logger.With("system", "extraction"),
	}
}

func (e *Extractor) Handler() *Handler {
	return NewHandler(e, e.logger)
}

// Extract tags document text into a ProductQuery. CAS numbers are scanned
// over the whole text; line rules collect per-field lists; manufacturer
// and storage take the remainder of their labeled line. The returned
// query is normalized (deduplicated, control characters stripped).
func (e *Extractor) Extract(text string) classifier.ProductQuery {
	query := classifier.ProductQuery{
		RawText:    text,
		CASNumbers: casPattern.FindAllString(text, -1),
	}

	collected := make(map[string][]string, len(e.rules))

	for _, line := range splitLines(text) {
		for _, rule := range e.rules {
			if rule.Cap > 0 && len(collected[rule.Field]) >= rule.Cap {
				continue
			}
			if rule.Matches(line) {
				collected[rule.Field] = append(collected[rule.Field], line)
			}
		}
	}

	query.ActiveIngredients = collected[FieldActiveIngredients]
	query.SafetyWarnings = collected[FieldSafetyWarnings]
	query.Composition = collected[FieldComposition]
	query.Formulation = collected[FieldFormulation]
	query.Packaging = collected[FieldPackaging]
	query.TherapeuticUses = collected[FieldTherapeuticUse]

	if m := manufacturerPattern.FindStringSubmatch(text); m != nil {
		query.Manufacturer = strings.TrimSpace(m[1])
	}
	if m := storagePattern.FindStringSubmatch(text); m != nil {
		query.Storage = strings.TrimSpace(m[1])
	}

	query.Normalize()
	return query
}

func splitLines(text string) []string {
	raw := strings.Split(text, "\n")
	lines := make([]string, 0, len(raw))
	for _, line := range raw {
		line = strings.TrimSpace(line)
		if line != "" {
			lines = append(lines, line)
		}
	}
	return lines
}
