package classifier

import (
	"strings"
	"testing"

	"github.com/google/uuid"

	"github.com/bioclassify/taric/internal/sessions"
	"github.com/bioclassify/taric/internal/tariffs"
)

func TestBuildClassifyPrompt(t *testing.T) {
	query := ProductQuery{
		Description:       "KEYTRUDA 25 mg/mL concentrate for solution for infusion",
		ActiveIngredients: []string{"pembrolizumab"},
		CASNumbers:        []string{"1374853-91-4"},
		TherapeuticUses:   []string{"cancer immunotherapy"},
	}
	candidates := &CandidateSet{
		Codes: []tariffs.TariffCode{
			code("3002.15.00.00", "Immunological products, put up in measured doses"),
			code("3004.90.00.00", "Other medicaments"),
		},
		Notes: &tariffs.ChapterNote{Chapter: "30", Notes: "Note 1. This chapter does not cover foods."},
	}

	prompt := buildClassifyPrompt(query, candidates)

	for _, want := range []string{
		"=== AVAILABLE TARIC CODES ===",
		"3002.15.00.00: Immunological products, put up in measured doses",
		"=== CHAPTER NOTES ===",
		"Note 1. This chapter does not cover foods.",
		"=== PRODUCT ATTRIBUTES ===",
		"Active Ingredients: pembrolizumab",
		"CAS Numbers: 1374853-91-4",
		"=== TASK ===",
		`"hs_code"`,
	} {
		if !strings.Contains(prompt, want) {
			t.Errorf("prompt missing %q", want)
		}
	}

	// candidate listing precedes the attributes, attributes precede the task
	codesAt := strings.Index(prompt, "=== AVAILABLE TARIC CODES ===")
	attrsAt := strings.Index(prompt, "=== PRODUCT ATTRIBUTES ===")
	taskAt := strings.Index(prompt, "=== TASK ===")
	if !(codesAt < attrsAt && attrsAt < taskAt) {
		t.Errorf("section order wrong: codes=%d attrs=%d task=%d", codesAt, attrsAt, taskAt)
	}
}

func TestBuildClassifyPromptOmitsEmptySections(t *testing.T) {
	query := ProductQuery{Description: "aspirin tablets"}
	candidates := &CandidateSet{
		Codes: []tariffs.TariffCode{code("3004.90.00.00", "Other medicaments")},
	}

	prompt := buildClassifyPrompt(query, candidates)

	for _, absent := range []string{
		"=== CHAPTER NOTES ===",
		"=== PRODUCT DOCUMENT TEXT ===",
		"Manufacturer:",
		"Safety Warnings:",
	} {
		if strings.Contains(prompt, absent) {
			t.Errorf("prompt contains %q, want omitted", absent)
		}
	}
}

func TestBuildClassifyPromptDeterministic(t *testing.T) {
	query := ProductQuery{
		Description: "insulin injection",
		Formulation: []string{"solution", "injectable"},
	}
	candidates := &CandidateSet{
		Codes: []tariffs.TariffCode{
			code("3004.31.00.00", "Containing insulin"),
			code("3004.90.00.00", "Other medicaments"),
		},
	}

	first := buildClassifyPrompt(query, candidates)
	for range 5 {
		if got := buildClassifyPrompt(query, candidates); got != first {
			t.Fatal("prompt output varies across calls with identical input")
		}
	}
}

func TestBuildFollowUpPrompt(t *testing.T) {
	session := &sessions.Session{
		ID:                 uuid.New(),
		ProductDescription: "KEYTRUDA 25 mg/mL",
		History: []sessions.Turn{
			{Role: sessions.RoleUser, Content: "Why chapter 30?"},
			{Role: sessions.RoleAssistant, Content: "It is a medicament."},
		},
	}
	result := &ClassificationResult{
		HSCode:          "3002.15.00.00",
		Confidence:      0.92,
		ConfidenceLabel: LabelHigh,
		Memo:            "Classified under GIR 1 per chapter 30 note 2.",
	}

	prompt := buildFollowUpPrompt(session, result, "What is the duty rate?")

	for _, want := range []string{
		"=== ORIGINAL CLASSIFICATION ===",
		"Classified Code: 3002.15.00.00",
		"Confidence: 0.92 (high)",
		"=== CONVERSATION SO FAR ===",
		"User: Why chapter 30?",
		"Assistant: It is a medicament.",
		"=== FOLLOW-UP QUESTION ===",
		"What is the duty rate?",
	} {
		if !strings.Contains(prompt, want) {
			t.Errorf("prompt missing %q", want)
		}
	}
}

func TestBuildFollowUpPromptNoHistory(t *testing.T) {
	session := &sessions.Session{
		ID:                 uuid.New(),
		ProductDescription: "aspirin tablets",
	}
	result := &ClassificationResult{
		HSCode:          "3004.90.00.00",
		Confidence:      0.7,
		ConfidenceLabel: LabelMedium,
	}

	prompt := buildFollowUpPrompt(session, result, "Is this correct?")
	if strings.Contains(prompt, "=== CONVERSATION SO FAR ===") {
		t.Error("conversation section present for empty history")
	}
}
