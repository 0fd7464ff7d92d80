// Package search projects a record collection onto the rows matching a
// free-text query.
package search

import (
	"strings"

	"github.com/ngo-portal/portal-backend/internal/portal/domain"
)

// Filter returns, in their original order, the records for which q is a
// case-insensitive substring of at least one searchable field. An empty
// query returns every record.
func Filter[T domain.Record](records []T, q string) []T {
	out := make([]T, 0, len(records))
	if q == "" {
		return append(out, records...)
	}
	needle := strings.ToLower(q)
	for _, r := range records {
		if Matches(r, needle) {
			out = append(out, r)
		}
	}
	return out
}

// Matches reports whether a lower-cased needle occurs in any of r's
// searchable fields.
func Matches(r domain.Record, needle string) bool {
	for _, f := range r.SearchFields() {
		if strings.Contains(strings.ToLower(f), needle) {
			return true
		}
	}
	return false
}
