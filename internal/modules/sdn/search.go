package sdn

import (
	"errors"
	"strings"

	"github.com/aristath/sdnwatch/internal/domain"
)

// MaxDisplayResults caps how many matches are shown to a user.
const MaxDisplayResults = 10

// ErrEmptyQuery is returned when a lookup is attempted without a name.
var ErrEmptyQuery = errors.New("no query provided")

// Search returns every record whose name contains query, case-insensitively.
// No match yields an empty slice and a nil error.
func Search(query string, snapshot []domain.EntityRecord) ([]domain.EntityRecord, error) {
	needle := strings.ToLower(strings.TrimSpace(query))
	if needle == "" {
		return nil, ErrEmptyQuery
	}

	matches := make([]domain.EntityRecord, 0)
	for _, rec := range snapshot {
		if strings.Contains(strings.ToLower(rec.Name), needle) {
			matches = append(matches, rec)
		}
	}
	return matches, nil
}
