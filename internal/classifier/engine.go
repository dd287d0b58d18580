package classifier

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"strings"
	"sync"

	"github.com/google/uuid"

	"github.com/bioclassify/taric/internal/reasoning"
	"github.com/bioclassify/taric/internal/sessions"
	"github.com/bioclassify/taric/internal/tariffs"
)

type engine struct {
	retriever *retriever
	validator *validator
	reasoner  reasoning.System
	store     sessions.System
	logger    *slog.Logger
	locks     sessionLocks
}

// New composes the classification pipeline over the tariff repository,
// the session store, and the reasoning engine.
func New(
	repo CodeRepository,
	store sessions.System,
	reasoner reasoning.System,
	logger *slog.Logger,
) System {
	return &engine{
		retriever: &retriever{repo: repo},
		validator: &validator{repo: repo},
		reasoner:  reasoner,
		store:     store,
		logger:    logger.With("system", "classifier"),
		locks:     sessionLocks{entries: make(map[uuid.UUID]*lockEntry)},
	}
}

func (e *engine) Handler() *Handler {
	return NewHandler(e, e.logger)
}

// Classify runs the full pipeline: normalize and validate the query,
// retrieve candidates, build the grounded prompt, call the reasoning
// engine, parse its output, validate the selected code, assemble the
// result, and persist it as a new session. The session insert is the
// only write and happens last, so a cancelled call persists nothing.
func (e *engine) Classify(ctx context.Context, query ProductQuery) (*ClassificationResult, error) {
	query.Normalize()
	if err := query.Validate(); err != nil {
		return nil, err
	}

	candidates, err := e.retriever.Retrieve(ctx, query)
	if err != nil {
		return nil, err
	}

	prompt := buildClassifyPrompt(query, candidates)

	raw, err := e.reasoner.Complete(ctx, systemInstruction, prompt)
	if err != nil {
		return nil, err
	}

	parsed := parseResponse(raw)

	validation, err := e.validator.Validate(ctx, parsed.HSCode)
	if err != nil {
		return nil, err
	}

	result := e.assemble(candidates, parsed, validation)

	session, err := e.persist(ctx, query, result)
	if err != nil {
		return nil, err
	}
	result.SessionID = session.ID

	e.logger.Info("product classified",
		"session", session.ID,
		"code", result.HSCode,
		"confidence", result.Confidence,
		"validated", result.DatabaseValidated,
		"candidates", len(candidates.Codes),
	)

	return result, nil
}

// FollowUp answers a question about an existing classification. Calls for
// the same session are serialized so concurrent questions cannot
// interleave or lose conversation turns.
func (e *engine) FollowUp(ctx context.Context, sessionID uuid.UUID, question string) (*FollowUpResult, error) {
	question = cleanText(question)
	if question == "" {
		return nil, ErrEmptyQuestion
	}

	e.locks.acquire(sessionID)
	defer e.locks.release(sessionID)

	session, err := e.store.Find(ctx, sessionID)
	if err != nil {
		return nil, err
	}

	var result ClassificationResult
	if err := json.Unmarshal(session.Result, &result); err != nil {
		return nil, fmt.Errorf("decode session result: %w", err)
	}

	prompt := buildFollowUpPrompt(session, &result, question)

	response, err := e.reasoner.Complete(ctx, systemInstruction, prompt)
	if err != nil {
		return nil, err
	}

	updated, err := e.store.AppendTurns(ctx, sessionID,
		sessions.Turn{Role: sessions.RoleUser, Content: question},
		sessions.Turn{Role: sessions.RoleAssistant, Content: response},
	)
	if err != nil {
		return nil, err
	}

	e.logger.Info("follow-up answered",
		"session", sessionID,
		"turns", len(updated.History),
	)

	return &FollowUpResult{
		SessionID: sessionID,
		Response:  response,
		History:   updated.History,
	}, nil
}

// assemble merges the parsed engine output with the validation outcome.
// The validated or substituted code always wins over the engine's
// original selection; parse and validation warnings are both preserved.
func (e *engine) assemble(
	candidates *CandidateSet,
	parsed Parsed,
	validation *Validation,
) *ClassificationResult {
	confidence := clampConfidence(parsed.Confidence)

	warnings := make([]string, 0, 3)
	if parsed.Warning != "" {
		warnings = append(warnings, parsed.Warning)
	}
	if validation.Warning != "" {
		warnings = append(warnings, validation.Warning)
	}
	if len(candidates.Codes) == 0 {
		warnings = append(warnings, "candidate retrieval returned no codes; confidence is untrusted")
		if confidence > degradedConfidence {
			confidence = degradedConfidence
		}
	}

	sources := parsed.Sources
	if len(sources) == 0 {
		sources = []string{tariffs.MeasureURL(validation.Code)}
	}

	return &ClassificationResult{
		HSCode:            validation.Code,
		Confidence:        confidence,
		ConfidenceLabel:   confidenceLabel(confidence),
		Memo:              parsed.Memo,
		Reasoning:         parsed.Reasoning,
		Sources:           sources,
		DatabaseValidated: validation.Valid,
		ValidationWarning: strings.Join(warnings, "; "),
	}
}

func (e *engine) persist(ctx context.Context, query ProductQuery, result *ClassificationResult) (*sessions.Session, error) {
	queryBlob, err := json.Marshal(query)
	if err != nil {
		return nil, fmt.Errorf("encode query: %w", err)
	}

	resultBlob, err := json.Marshal(result)
	if err != nil {
		return nil, fmt.Errorf("encode result: %w", err)
	}

	description := query.Description
	if description == "" {
		description = firstLine(query.RawText)
	}

	return e.store.Create(ctx, sessions.CreateCommand{
		ProductDescription: description,
		ClassifiedCode:     result.HSCode,
		Confidence:         result.Confidence,
		DatabaseValidated:  result.DatabaseValidated,
		Query:              queryBlob,
		Result:             resultBlob,
	})
}

// sessionLocks serializes follow-ups per session id. Entries are
// reference-counted and removed once the last holder releases, so the
// map stays proportional to in-flight follow-ups rather than growing
// with every session ever touched.
type sessionLocks struct {
	mu      sync.Mutex
	entries map[uuid.UUID]*lockEntry
}

type lockEntry struct {
	mu   sync.Mutex
	refs int
}

func (l *sessionLocks) acquire(id uuid.UUID) {
	l.mu.Lock()
	entry, ok := l.entries[id]
	if !ok {
		entry = &lockEntry{}
		l.entries[id] = entry
	}
	entry.refs++
	l.mu.Unlock()

	entry.mu.Lock()
}

func (l *sessionLocks) release(id uuid.UUID) {
	l.mu.Lock()
	entry := l.entries[id]
	entry.mu.Unlock()
	entry.refs--
	if entry.refs == 0 {
		delete(l.entries, id)
	}
	l.mu.Unlock()
}

func firstLine(s string) string {
	if i := strings.IndexByte(s, '\n'); i >= 0 {
		s = s[:i]
	}
	return strings.TrimSpace(s)
}
