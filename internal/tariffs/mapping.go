package tariffs

import (
	"net/url"

	"github.com/bioclassify/taric/pkg/query"
	"github.com/bioclassify/taric/pkg/repository"
)

var projection = query.
	NewProjectionMap("public", "taric_codes", "t").
	Project("code", "Code").
	Project("description", "Description").
	Project("chapter", "Chapter").
	Project("heading", "Heading").
	Project("source_url", "SourceURL")

var defaultSort = query.SortField{
	Field:      "Code",
	Descending: false,
}

// Filters contains optional filtering criteria for tariff code queries.
// Nil fields are ignored. Chapter and Heading use exact matching;
// Description uses case-insensitive contains matching.
type Filters struct {
	Chapter     *string `json:"chapter,omitempty"`
	Heading     *string `json:"heading,omitempty"`
	Description *string `json:"description,omitempty"`
}

// Apply adds filter conditions to a query builder.
func (f Filters) Apply(b *query.Builder) *query.Builder {
	return b.
		WhereEquals("Chapter", f.Chapter).
		WhereEquals("Heading", f.Heading).
		WhereContains("Description", f.Description)
}

// FiltersFromQuery extracts filter values from URL query parameters.
func FiltersFromQuery(values url.Values) Filters {
	var f Filters

	if c := values.Get("chapter"); c != "" {
		f.Chapter = &c
	}

	if h := values.Get("heading"); h != "" {
		f.Heading = &h
	}

	if d := values.Get("description"); d != "" {
		f.Description = &d
	}

	return f
}

func scanTariffCode(s repository.Scanner) (TariffCode, error) {
	var t TariffCode
	err := s.Scan(
		&t.Code,
		&t.Description,
		&t.Chapter,
		&t.Heading,
		&t.SourceURL,
	)
	return t, err
}

func scanChapterNote(s repository.Scanner) (ChapterNote, error) {
	var n ChapterNote
	err := s.Scan(
		&n.Chapter,
		&n.Title,
		&n.Notes,
	)
	return n, err
}
