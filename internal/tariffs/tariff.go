// Package tariffs implements the tariff code repository domain.
// It provides types and read-side data access for the authoritative store
// of EU TARIC codes, headings, and chapter notes that ground every
// classification. The store is seeded by cmd/migrate and is read-only
// from the classification engine's perspective.
package tariffs

import (
	"fmt"
	"regexp"
	"strings"
)

// PharmaceuticalChapter is the HS chapter covering pharmaceutical products.
// The candidate retriever always anchors on this chapter.
const PharmaceuticalChapter = "30"

// DefaultCode is the catch-all heading for retail medicaments not elsewhere
// specified. It is the fallback classification when the reasoning engine's
// output cannot be parsed at all.
const DefaultCode = "3004.90.00.00"

// TariffCode represents a single entry in the TARIC code repository.
// Code is canonical 4-2-2-2 form (e.g. "3002.15.00.00"); its leading four
// digits always equal Chapter+Heading.
type TariffCode struct {
	Code        string `json:"code"`
	Description string `json:"description"`
	Chapter     string `json:"chapter"`
	Heading     string `json:"heading"`
	SourceURL   string `json:"source_url"`
}

// ChapterNote carries the authoritative legal notes scoping a chapter.
type ChapterNote struct {
	Chapter string `json:"chapter"`
	Title   string `json:"title"`
	Notes   string `json:"notes"`
}

var (
	canonicalPattern = regexp.MustCompile(`^\d{4}\.\d{2}\.\d{2}\.\d{2}$`)
	bareDigits       = regexp.MustCompile(`^\d{10}$`)
	separators       = regexp.MustCompile(`\.+`)
	whitespace       = regexp.MustCompile(`\s+`)
)

// NormalizeCode strips whitespace, collapses repeated separators, and
// reformats a bare 10-digit code into canonical 4-2-2-2 groups.
// Input that cannot be normalized is returned trimmed but otherwise unchanged.
func NormalizeCode(code string) string {
	c := whitespace.ReplaceAllString(code, "")
	c = separators.ReplaceAllString(c, ".")

	if bareDigits.MatchString(c) {
		return fmt.Sprintf("%s.%s.%s.%s", c[0:4], c[4:6], c[6:8], c[8:10])
	}

	return c
}

// IsCanonical reports whether code is in canonical 4-2-2-2 form.
func IsCanonical(code string) bool {
	return canonicalPattern.MatchString(code)
}

// SixDigitPrefix returns the leading heading.subheading portion ("3002.15")
// of a canonical or bare code, or an empty string if fewer than six digits
// are present.
func SixDigitPrefix(code string) string {
	digits := strings.ReplaceAll(NormalizeCode(code), ".", "")
	if len(digits) < 6 {
		return ""
	}
	return digits[0:4] + "." + digits[4:6]
}

// HeadingOf returns the leading four digits of a code, or an empty string
// if the code is too short.
func HeadingOf(code string) string {
	digits := strings.ReplaceAll(NormalizeCode(code), ".", "")
	if len(digits) < 4 {
		return ""
	}
	return digits[0:4]
}

// ChapterOf returns the leading two digits of a code, or an empty string
// if the code is too short.
func ChapterOf(code string) string {
	digits := strings.ReplaceAll(NormalizeCode(code), ".", "")
	if len(digits) < 2 {
		return ""
	}
	return digits[0:2]
}

// MeasureURL returns the official EU TARIC consultation URL for a code.
// Used as the default citation source when the reasoning engine omits one.
func MeasureURL(code string) string {
	digits := strings.ReplaceAll(NormalizeCode(code), ".", "")
	return "https://ec.europa.eu/taxation_customs/dds2/taric/measures.jsp?Taric=" + digits
}
