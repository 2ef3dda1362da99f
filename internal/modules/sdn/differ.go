package sdn

import "github.com/aristath/sdnwatch/internal/domain"

// Diff computes the records added and removed between two snapshots by identity key.
// The key sets are only used for membership; emission order is the order of the
// respective input, so the result is deterministic. Both lists are non-nil.
func Diff(old, current []domain.EntityRecord) domain.Delta {
	oldKeys := keySet(old)
	newKeys := keySet(current)

	added := make([]domain.EntityRecord, 0)
	for _, rec := range current {
		if _, ok := oldKeys[rec.Key()]; !ok {
			added = append(added, rec)
		}
	}

	removed := make([]domain.EntityRecord, 0)
	for _, rec := range old {
		if _, ok := newKeys[rec.Key()]; !ok {
			removed = append(removed, rec)
		}
	}

	return domain.Delta{Added: added, Removed: removed}
}

func keySet(records []domain.EntityRecord) map[domain.IdentityKey]struct{} {
	set := make(map[domain.IdentityKey]struct{}, len(records))
	for _, rec := range records {
		set[rec.Key()] = struct{}{}
	}
	return set
}
