package classifier

import (
	"fmt"
	"strings"

	"github.com/bioclassify/taric/internal/sessions"
)

// systemInstruction frames every reasoning engine call. The grounding
// constraint is repeated in the user prompt's task section.
const systemInstruction = `You are a customs tariff classification expert specializing in
pharmaceutical products under the EU TARIC nomenclature. You classify
products using the General Interpretive Rules (GIR) and the legal notes
of the relevant chapters. You select codes exclusively from the candidate
list provided in each request and never invent codes.`

const taskDirective = `Select the single most appropriate TARIC code for this product.
You MUST choose a code from the AVAILABLE TARIC CODES list above. Do not
invent or modify codes.

Respond with only a JSON object in this exact shape:
{
  "hs_code": "XXXX.XX.XX.XX",
  "confidence": 0.0,
  "reasoning": {
    "product_type": "",
    "active_ingredient": "",
    "gir_applied": "",
    "chapter_notes_applied": "",
    "exclusions_checked": ""
  },
  "sources": [],
  "memo": ""
}

The memo is an audit-ready legal justification citing the applied GIR
and chapter notes. Confidence is a number between 0 and 1.`

// buildClassifyPrompt serializes the candidate set and product attributes
// into the grounded instruction for the reasoning engine. Pure function;
// section and field order are fixed.
func buildClassifyPrompt(query ProductQuery, candidates *CandidateSet) string {
	var b strings.Builder

	b.WriteString("=== AVAILABLE TARIC CODES ===\n")
	b.WriteString("You must select exactly one code from this list:\n")
	for _, code := range candidates.Codes {
		fmt.Fprintf(&b, "%s: %s\n", code.Code, code.Description)
	}

	if candidates.Notes != nil && candidates.Notes.Notes != "" {
		b.WriteString("\n=== CHAPTER NOTES ===\n")
		b.WriteString(candidates.Notes.Notes)
		b.WriteString("\n")
	}

	if query.RawText != "" {
		b.WriteString("\n=== PRODUCT DOCUMENT TEXT ===\n")
		b.WriteString(query.RawText)
		b.WriteString("\n")
	}

	b.WriteString("\n=== PRODUCT ATTRIBUTES ===\n")
	writeField(&b, "Description", query.Description)
	writeList(&b, "CAS Numbers", query.CASNumbers)
	writeList(&b, "Active Ingredients", query.ActiveIngredients)
	writeList(&b, "Chemical Composition", query.Composition)
	writeList(&b, "Safety Warnings", query.SafetyWarnings)
	writeList(&b, "Formulation", query.Formulation)
	writeList(&b, "Packaging", query.Packaging)
	writeList(&b, "Therapeutic Use", query.TherapeuticUses)
	writeField(&b, "Manufacturer", query.Manufacturer)
	writeField(&b, "Storage", query.Storage)

	b.WriteString("\n=== TASK ===\n")
	b.WriteString(taskDirective)

	return b.String()
}

// buildFollowUpPrompt embeds the original classification as grounding
// context plus the full conversation so the engine cannot drift from the
// classified product.
func buildFollowUpPrompt(session *sessions.Session, result *ClassificationResult, question string) string {
	var b strings.Builder

	b.WriteString("=== ORIGINAL CLASSIFICATION ===\n")
	writeField(&b, "Product", session.ProductDescription)
	writeField(&b, "Classified Code", result.HSCode)
	fmt.Fprintf(&b, "Confidence: %.2f (%s)\n", result.Confidence, result.ConfidenceLabel)
	writeField(&b, "Legal Memo", result.Memo)

	if len(session.History) > 0 {
		b.WriteString("\n=== CONVERSATION SO FAR ===\n")
		for _, turn := range session.History {
			fmt.Fprintf(&b, "%s: %s\n", roleLabel(turn.Role), turn.Content)
		}
	}

	b.WriteString("\n=== FOLLOW-UP QUESTION ===\n")
	b.WriteString(question)
	b.WriteString("\n\nAnswer the question about this classification. Stay grounded in\nthe original product and classification above; do not reclassify\nunless the question explicitly provides new product information.")

	return b.String()
}

func roleLabel(role string) string {
	switch role {
	case sessions.RoleAssistant:
		return "Assistant"
	default:
		return "User"
	}
}

func writeField(b *strings.Builder, label, value string) {
	if value == "" {
		return
	}
	fmt.Fprintf(b, "%s: %s\n", label, value)
}

func writeList(b *strings.Builder, label string, values []string) {
	if len(values) == 0 {
		return
	}
	fmt.Fprintf(b, "%s: %s\n", label, strings.Join(values, ", "))
}
