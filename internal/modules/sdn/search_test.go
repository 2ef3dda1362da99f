package sdn

import (
	"testing"

	"github.com/aristath/sdnwatch/internal/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSearch_CaseInsensitiveSubstring(t *testing.T) {
	snapshot := []domain.EntityRecord{rec("1", "John Smith"), rec("2", "Jane Doe")}

	matches, err := Search("smith", snapshot)

	require.NoError(t, err)
	require.Len(t, matches, 1)
	assert.Equal(t, "John Smith", matches[0].Name)
}

func TestSearch_LongerQueryDoesNotMatch(t *testing.T) {
	snapshot := []domain.EntityRecord{rec("1", "Smith")}

	matches, err := Search("Smithsonian", snapshot)

	require.NoError(t, err)
	assert.NotNil(t, matches)
	assert.Empty(t, matches)
}

func TestSearch_EmptyQuery(t *testing.T) {
	snapshot := []domain.EntityRecord{rec("1", "Smith")}

	for _, q := range []string{"", "   ", "\t"} {
		matches, err := Search(q, snapshot)
		assert.ErrorIs(t, err, ErrEmptyQuery)
		assert.Nil(t, matches)
	}
}

func TestSearch_MatchesNameOnly(t *testing.T) {
	snapshot := []domain.EntityRecord{{ID: "cuba-1", Name: "Acme", Type: "entity", Program: "CUBA"}}

	matches, err := Search("cuba", snapshot)

	require.NoError(t, err)
	assert.Empty(t, matches)
}

func TestSearch_TrimsQueryAndKeepsOrder(t *testing.T) {
	snapshot := []domain.EntityRecord{rec("3", "BANCO A"), rec("1", "Other"), rec("2", "banco b")}

	matches, err := Search("  Banco ", snapshot)

	require.NoError(t, err)
	require.Len(t, matches, 2)
	assert.Equal(t, "3", matches[0].ID)
	assert.Equal(t, "2", matches[1].ID)
}
