package classifier

import (
	"context"
	"errors"
	"fmt"

	"github.com/bioclassify/taric/internal/tariffs"
)

// Validation is the outcome of checking an engine-selected code against
// the repository. When Valid is false and Match is set, Match carries the
// closest verified code sharing the requested code's 6-digit prefix.
type Validation struct {
	Valid   bool
	Code    string
	Match   *tariffs.TariffCode
	Warning string
}

type validator struct {
	repo CodeRepository
}

// Validate is the anti-hallucination gate: normalize the requested code,
// look it up exactly, and on a miss fall back to a 6-digit-prefix match
// within the same heading. No code reaches the caller without passing
// through here.
func (v *validator) Validate(ctx context.Context, code string) (*Validation, error) {
	normalized := tariffs.NormalizeCode(code)

	record, err := v.repo.Find(ctx, normalized)
	if err == nil {
		return &Validation{
			Valid: true,
			Code:  record.Code,
			Match: record,
		}, nil
	}
	if !errors.Is(err, tariffs.ErrNotFound) {
		return nil, fmt.Errorf("%w: %v", ErrRetrieval, err)
	}

	prefix := tariffs.SixDigitPrefix(normalized)
	if prefix != "" {
		partial, err := v.repo.FindByPrefix(ctx, prefix, 1)
		if err != nil {
			return nil, fmt.Errorf("%w: %v", ErrRetrieval, err)
		}
		if len(partial) > 0 {
			match := partial[0]
			return &Validation{
				Valid: false,
				Code:  match.Code,
				Match: &match,
				Warning: fmt.Sprintf(
					"code %s not found in the tariff repository; substituted nearest verified code %s",
					normalized, match.Code,
				),
			}, nil
		}
	}

	return &Validation{
		Valid: false,
		Code:  normalized,
		Warning: fmt.Sprintf(
			"code %s could not be confirmed against the tariff repository",
			normalized,
		),
	}, nil
}
