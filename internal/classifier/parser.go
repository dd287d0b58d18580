package classifier

import (
	"encoding/json"
	"regexp"
	"strconv"
	"strings"

	"github.com/bioclassify/taric/pkg/formatting"

	"github.com/bioclassify/taric/internal/tariffs"
)

// ParseOutcome tags how much structure survived decoding the engine's
// raw output.
type ParseOutcome int

const (
	// OutcomeStructured: the output decoded as the requested JSON shape.
	OutcomeStructured ParseOutcome = iota
	// OutcomeDegraded: JSON decoding failed but a code-shaped token was
	// recovered by scanning the raw text.
	OutcomeDegraded
	// OutcomeUnparseable: nothing usable; the catch-all medicaments code
	// is substituted.
	OutcomeUnparseable
)

// Parsed is the structured classification recovered from raw engine
// output. Warning is non-empty for every outcome except Structured.
type Parsed struct {
	Outcome    ParseOutcome
	HSCode     string
	Confidence float64
	Memo       string
	Reasoning  Reasoning
	Sources    []string
	Warning    string
}

// engineResponse mirrors the JSON shape requested by the task directive.
// Confidence stays raw so non-numeric values degrade instead of failing
// the whole decode.
type engineResponse struct {
	HSCode     string          `json:"hs_code"`
	Confidence json.RawMessage `json:"confidence"`
	Reasoning  Reasoning       `json:"reasoning"`
	Sources    []string        `json:"sources"`
	Memo       string          `json:"memo"`
}

var codePattern = regexp.MustCompile(`\b\d{4}[.\s]?\d{2}[.\s]?\d{2}[.\s]?\d{2}\b`)

// parseResponse extracts a classification from raw engine text. It never
// fails: structural decoding falls back to a code token scan, which falls
// back to the catch-all default, each step lowering confidence and
// attaching a warning.
func parseResponse(raw string) Parsed {
	resp, err := formatting.Parse[engineResponse](raw)
	if err == nil && resp.HSCode != "" {
		return Parsed{
			Outcome:    OutcomeStructured,
			HSCode:     resp.HSCode,
			Confidence: clampConfidence(parseConfidence(resp.Confidence)),
			Memo:       resp.Memo,
			Reasoning:  resp.Reasoning,
			Sources:    resp.Sources,
		}
	}

	if match := codePattern.FindString(raw); match != "" {
		return Parsed{
			Outcome:    OutcomeDegraded,
			HSCode:     tariffs.NormalizeCode(match),
			Confidence: degradedConfidence,
			Memo:       strings.TrimSpace(raw),
			Warning:    "engine output was unstructured; code recovered by text scan",
		}
	}

	return Parsed{
		Outcome:    OutcomeUnparseable,
		HSCode:     tariffs.DefaultCode,
		Confidence: degradedConfidence,
		Warning:    "engine output could not be parsed; defaulted to other medicaments",
	}
}

// parseConfidence accepts a JSON number or a numeric string. Anything
// else, including labels like "high", falls back to the degraded value.
func parseConfidence(raw json.RawMessage) float64 {
	if len(raw) == 0 || string(raw) == "null" {
		return degradedConfidence
	}

	var n float64
	if err := json.Unmarshal(raw, &n); err == nil {
		return n
	}

	var s string
	if err := json.Unmarshal(raw, &s); err == nil {
		if n, err := strconv.ParseFloat(strings.TrimSpace(s), 64); err == nil {
			return n
		}
	}

	return degradedConfidence
}
