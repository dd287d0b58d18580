package classifier

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"

	"golang.org/x/sync/errgroup"

	"github.com/bioclassify/taric/internal/tariffs"
)

// Retrieval caps. The candidate set feeds directly into the grounding
// prompt, so the overall cap bounds prompt size.
const (
	chapterAnchorLimit = 50
	maxKeywords        = 5
	keywordSearchLimit = 10
	maxCandidates      = 30
)

// vocabulary is the fixed domain term list matched against query tokens.
// A term matches when it appears as a substring of a token or vice versa.
var vocabulary = []string{
	"vaccine", "antibody", "monoclonal", "immunological", "insulin",
	"antibiotic", "penicillin", "hormone", "vitamin", "steroid",
	"tablet", "capsule", "injection", "infusion", "cream", "ointment",
	"syrup", "solution", "suspension", "powder", "diagnostic",
}

// CodeRepository is the read-only view of the tariff code store the
// classification pipeline depends on. tariffs.System satisfies it.
type CodeRepository interface {
	Find(ctx context.Context, code string) (*tariffs.TariffCode, error)
	FindByChapter(ctx context.Context, chapter string, limit int) ([]tariffs.TariffCode, error)
	FindByPrefix(ctx context.Context, prefix string, limit int) ([]tariffs.TariffCode, error)
	SearchByDescription(ctx context.Context, term string, limit int) ([]tariffs.TariffCode, error)
	ChapterNotes(ctx context.Context, chapter string) (*tariffs.ChapterNote, error)
}

// CandidateSet is the bounded, deduplicated collection of tariff codes
// the reasoning engine is allowed to select from, plus the pharmaceutical
// chapter's legal notes when available.
type CandidateSet struct {
	Codes    []tariffs.TariffCode
	Notes    *tariffs.ChapterNote
	Keywords []string
}

type retriever struct {
	repo CodeRepository
}

// Retrieve anchors on the full pharmaceutical chapter listing, expands it
// with description searches for matched vocabulary keywords, and merges
// the results into a deduplicated set capped at maxCandidates. Keyword
// searches run concurrently; merge order is chapter results first, then
// keyword results in keyword order, so output is deterministic for a
// given repository state.
func (r *retriever) Retrieve(ctx context.Context, query ProductQuery) (*CandidateSet, error) {
	anchor, err := r.repo.FindByChapter(ctx, tariffs.PharmaceuticalChapter, chapterAnchorLimit)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrRetrieval, err)
	}

	keywords := matchKeywords(query)

	matches := make([][]tariffs.TariffCode, len(keywords))
	var mu sync.Mutex

	g, gctx := errgroup.WithContext(ctx)
	for i, keyword := range keywords {
		g.Go(func() error {
			found, err := r.repo.SearchByDescription(gctx, keyword, keywordSearchLimit)
			if err != nil {
				return fmt.Errorf("search %q: %w", keyword, err)
			}

			mu.Lock()
			matches[i] = found
			mu.Unlock()
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrRetrieval, err)
	}

	seen := make(map[string]struct{}, len(anchor))
	codes := make([]tariffs.TariffCode, 0, maxCandidates)

	merge := func(items []tariffs.TariffCode) {
		for _, item := range items {
			if len(codes) >= maxCandidates {
				return
			}
			if _, ok := seen[item.Code]; ok {
				continue
			}
			seen[item.Code] = struct{}{}
			codes = append(codes, item)
		}
	}

	merge(anchor)
	for _, found := range matches {
		merge(found)
	}

	set := &CandidateSet{
		Codes:    codes,
		Keywords: keywords,
	}

	notes, err := r.repo.ChapterNotes(ctx, tariffs.PharmaceuticalChapter)
	switch {
	case err == nil:
		set.Notes = notes
	case errors.Is(err, tariffs.ErrChapterNotFound):
		// no notes seeded for the chapter; the prompt omits the section
	default:
		return nil, fmt.Errorf("%w: %v", ErrRetrieval, err)
	}

	return set, nil
}

// matchKeywords intersects the domain vocabulary against tokens drawn
// from the query's description, active ingredients, therapeutic uses,
// and formulation fields. Results follow vocabulary order, capped at
// maxKeywords.
func matchKeywords(query ProductQuery) []string {
	tokens := tokenize(query)
	if len(tokens) == 0 {
		return nil
	}

	var matched []string
	for _, term := range vocabulary {
		if len(matched) >= maxKeywords {
			break
		}
		for token := range tokens {
			if strings.Contains(token, term) || strings.Contains(term, token) {
				matched = append(matched, term)
				break
			}
		}
	}

	return matched
}

func tokenize(query ProductQuery) map[string]struct{} {
	fields := []string{query.Description}
	fields = append(fields, query.ActiveIngredients...)
	fields = append(fields, query.TherapeuticUses...)
	fields = append(fields, query.Formulation...)

	tokens := make(map[string]struct{})
	for _, field := range fields {
		for _, token := range strings.Fields(strings.ToLower(field)) {
			token = strings.Trim(token, ".,;:()[]\"'")
			if len(token) < 3 {
				continue
			}
			tokens[token] = struct{}{}
		}
	}

	return tokens
}
