package sessions

import (
	"encoding/json"
	"fmt"
	"net/url"
	"strconv"

	"github.com/bioclassify/taric/pkg/query"
	"github.com/bioclassify/taric/pkg/repository"
)

var projection = query.
	NewProjectionMap("public", "classification_sessions", "s").
	Project("id", "ID").
	Project("product_description", "ProductDescription").
	Project("classified_code", "ClassifiedCode").
	Project("confidence", "Confidence").
	Project("database_validated", "DatabaseValidated").
	Project("query", "Query").
	Project("result", "Result").
	Project("history", "History").
	Project("created_at", "CreatedAt").
	Project("updated_at", "UpdatedAt")

var defaultSort = query.SortField{
	Field:      "CreatedAt",
	Descending: true,
}

// Filters contains optional filtering criteria for session queries.
// Nil fields are ignored.
type Filters struct {
	ClassifiedCode    *string `json:"classified_code,omitempty"`
	DatabaseValidated *bool   `json:"database_validated,omitempty"`
}

// Apply adds filter conditions to a query builder.
func (f Filters) Apply(b *query.Builder) *query.Builder {
	b.WhereEquals("ClassifiedCode", f.ClassifiedCode)
	b.WhereEquals("DatabaseValidated", f.DatabaseValidated)
	return b
}

// FiltersFromQuery extracts filter values from URL query parameters.
func FiltersFromQuery(values url.Values) Filters {
	var f Filters

	if c := values.Get("classified_code"); c != "" {
		f.ClassifiedCode = &c
	}

	if v := values.Get("database_validated"); v != "" {
		if validated, err := strconv.ParseBool(v); err == nil {
			f.DatabaseValidated = &validated
		}
	}

	return f
}

func scanSession(s repository.Scanner) (Session, error) {
	var (
		session Session
		history []byte
	)

	err := s.Scan(
		&session.ID,
		&session.ProductDescription,
		&session.ClassifiedCode,
		&session.Confidence,
		&session.DatabaseValidated,
		&session.Query,
		&session.Result,
		&history,
		&session.CreatedAt,
		&session.UpdatedAt,
	)
	if err != nil {
		return session, err
	}

	if len(history) > 0 {
		if err := json.Unmarshal(history, &session.History); err != nil {
			return session, fmt.Errorf("decode session history: %w", err)
		}
	}

	return session, nil
}
