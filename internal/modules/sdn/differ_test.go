package sdn

import (
	"testing"

	"github.com/aristath/sdnwatch/internal/domain"
	"github.com/stretchr/testify/assert"
)

func rec(id, name string) domain.EntityRecord {
	return domain.EntityRecord{ID: id, Name: name, Type: "individual", Program: "SDN"}
}

func keys(records []domain.EntityRecord) map[domain.IdentityKey]bool {
	out := make(map[domain.IdentityKey]bool, len(records))
	for _, r := range records {
		out[r.Key()] = true
	}
	return out
}

func TestDiff_AddedRecord(t *testing.T) {
	alice := rec("1", "Alice")
	bob := rec("2", "Bob")

	delta := Diff([]domain.EntityRecord{alice}, []domain.EntityRecord{alice, bob})

	assert.Equal(t, []domain.EntityRecord{bob}, delta.Added)
	assert.Empty(t, delta.Removed)
	assert.NotNil(t, delta.Removed)
}

func TestDiff_IdenticalInputs(t *testing.T) {
	snapshot := []domain.EntityRecord{rec("1", "Alice"), rec("2", "Bob"), rec("3", "Carol")}

	delta := Diff(snapshot, snapshot)

	assert.True(t, delta.IsEmpty())
	assert.NotNil(t, delta.Added)
	assert.NotNil(t, delta.Removed)
}

func TestDiff_Bootstrap(t *testing.T) {
	current := []domain.EntityRecord{rec("3", "Carol"), rec("1", "Alice"), rec("2", "Bob")}

	delta := Diff(nil, current)

	assert.Equal(t, current, delta.Added, "all records added in original order")
	assert.Empty(t, delta.Removed)
}

func TestDiff_EmptyNew(t *testing.T) {
	old := []domain.EntityRecord{rec("1", "Alice"), rec("2", "Bob")}

	delta := Diff(old, []domain.EntityRecord{})

	assert.Empty(t, delta.Added)
	assert.Equal(t, old, delta.Removed)
}

func TestDiff_Symmetry(t *testing.T) {
	a := []domain.EntityRecord{rec("1", "Alice"), rec("2", "Bob"), rec("4", "Dave")}
	b := []domain.EntityRecord{rec("2", "Bob"), rec("3", "Carol"), rec("5", "Eve")}

	ab := Diff(a, b)
	ba := Diff(b, a)

	assert.Equal(t, keys(ab.Added), keys(ba.Removed))
	assert.Equal(t, keys(ab.Removed), keys(ba.Added))
}

func TestDiff_RenameIsRemovalPlusAddition(t *testing.T) {
	old := []domain.EntityRecord{rec("7", "ACME LTD")}
	current := []domain.EntityRecord{rec("7", "ACME LIMITED")}

	delta := Diff(old, current)

	assert.Equal(t, current, delta.Added)
	assert.Equal(t, old, delta.Removed)
}

func TestDiff_NonIdentityChangeNotReported(t *testing.T) {
	old := []domain.EntityRecord{{ID: "9", Name: "Vessel X", Type: "vessel", Program: "IRAN"}}
	current := []domain.EntityRecord{{ID: "9", Name: "Vessel X", Type: "vessel", Program: "SDGT"}}

	delta := Diff(old, current)

	assert.True(t, delta.IsEmpty())
}

func TestDiff_SameIDDifferentNameAreDistinct(t *testing.T) {
	old := []domain.EntityRecord{rec("10", "Alpha"), rec("10", "Beta")}
	current := []domain.EntityRecord{rec("10", "Beta")}

	delta := Diff(old, current)

	assert.Empty(t, delta.Added)
	assert.Equal(t, []domain.EntityRecord{rec("10", "Alpha")}, delta.Removed)
}

func TestDiff_PreservesSourceOrder(t *testing.T) {
	old := []domain.EntityRecord{rec("9", "Z"), rec("1", "A"), rec("5", "M")}
	current := []domain.EntityRecord{rec("8", "Y"), rec("2", "B"), rec("6", "N")}

	for i := 0; i < 20; i++ {
		delta := Diff(old, current)
		assert.Equal(t, current, delta.Added)
		assert.Equal(t, old, delta.Removed)
	}
}

func TestDiff_DuplicateRowsAllReported(t *testing.T) {
	dup := rec("1", "Alice")

	delta := Diff(nil, []domain.EntityRecord{dup, dup})

	assert.Len(t, delta.Added, 2)
}
