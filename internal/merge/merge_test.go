package merge

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pdiddy/contact-engine/pkg/types"
)

func rec(id, given, family string, emails ...string) *types.ContactRecord {
	c := &types.ContactRecord{ID: id, GivenName: given, FamilyName: family}
	for _, e := range emails {
		c.Emails = append(c.Emails, types.LabeledValue{Value: e})
	}
	return c
}

func TestMergeEmptyPanics(t *testing.T) {
	assert.Panics(t, func() { Merge(nil, false) })
}

func TestMergeSingleRecordIsCopy(t *testing.T) {
	a := rec("a", "John", "Smith", "john@company.com")
	merged := Merge([]*types.ContactRecord{a}, false)

	assert.True(t, merged.ContentEquals(a))

	// The result must be independent of the input.
	merged.Emails[0].Value = "changed@company.com"
	assert.Equal(t, "john@company.com", a.Emails[0].Value)
}

func TestMergeScalarFirstWins(t *testing.T) {
	a := rec("a", "John", "", "")
	a.Organization = "Acme"
	b := rec("b", "Johnny", "Smith", "")
	b.Organization = "Globex"

	merged := Merge([]*types.ContactRecord{a, b}, false)

	assert.Equal(t, "John", merged.GivenName, "first non-empty wins")
	assert.Equal(t, "Smith", merged.FamilyName, "empty filled from later record")
	assert.Equal(t, "Acme", merged.Organization)
}

func TestMergeScalarPreferLater(t *testing.T) {
	a := rec("a", "John", "Smith", "")
	b := rec("b", "Johnny", "", "")

	merged := Merge([]*types.ContactRecord{a, b}, true)

	assert.Equal(t, "Johnny", merged.GivenName, "later value preferred")
	assert.Equal(t, "Smith", merged.FamilyName, "later empty never overwrites")
}

func TestMergeMultiValuedUnion(t *testing.T) {
	a := rec("a", "John", "Smith", "john@company.com", "js@gmail.com")
	b := rec("b", "John", "Smith", "js@gmail.com", "john@home.net")

	merged := Merge([]*types.ContactRecord{a, b}, false)

	require.Len(t, merged.Emails, 3)
	assert.Equal(t, "john@company.com", merged.Emails[0].Value, "first-seen order preserved")
	assert.Equal(t, "js@gmail.com", merged.Emails[1].Value)
	assert.Equal(t, "john@home.net", merged.Emails[2].Value)
}

func TestMergeLabelDistinguishesValues(t *testing.T) {
	a := rec("a", "John", "Smith")
	a.Emails = []types.LabeledValue{{Value: "john@company.com", Label: "work"}}
	b := rec("b", "John", "Smith")
	b.Emails = []types.LabeledValue{{Value: "john@company.com", Label: "home"}}

	merged := Merge([]*types.ContactRecord{a, b}, false)
	assert.Len(t, merged.Emails, 2, "same value under different labels is not an exact duplicate")
}

// Folding pairwise must produce the same union as a single pass, whatever
// the grouping. Scalar fields keep first-wins order and are not asserted
// commutative.
func TestMergeUnionAssociative(t *testing.T) {
	r1 := rec("1", "John", "Smith", "a@x.com")
	r2 := rec("2", "John", "Smith", "b@x.com", "a@x.com")
	r3 := rec("3", "John", "Smith", "c@x.com")

	all := Merge([]*types.ContactRecord{r1, r2, r3}, false)
	stepwise := Merge([]*types.ContactRecord{
		Merge([]*types.ContactRecord{r1, r2}, false), r3,
	}, false)

	assert.Equal(t, all.Emails, stepwise.Emails)
}

func TestMergeNotes(t *testing.T) {
	tests := []struct {
		name string
		a, b string
		want string
	}{
		{"both empty", "", "", ""},
		{"one side", "met at conference", "", "met at conference"},
		{"other side", "", "met at conference", "met at conference"},
		{"equal", "same note", "same note", "same note"},
		{"different concatenated", "first", "second", "first" + noteSeparator + "second"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			a, b := rec("a", "J", "S"), rec("b", "J", "S")
			a.Note, b.Note = tt.a, tt.b
			merged := Merge([]*types.ContactRecord{a, b}, false)
			assert.Equal(t, tt.want, merged.Note)
		})
	}
}

func TestMergePhotoAndTimestamps(t *testing.T) {
	early := time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC)
	late := time.Date(2026, 6, 1, 0, 0, 0, 0, time.UTC)

	a := rec("a", "John", "Smith")
	a.Photo = []byte{0x1}
	a.UpdatedAt = early
	b := rec("b", "John", "Smith")
	b.Photo = []byte{0x2}
	b.UpdatedAt = late

	merged := Merge([]*types.ContactRecord{a, b}, false)
	assert.Equal(t, []byte{0x1}, merged.Photo, "photo follows the scalar rule")
	assert.Equal(t, late, merged.UpdatedAt, "later timestamp wins regardless of bias")

	merged = Merge([]*types.ContactRecord{a, b}, true)
	assert.Equal(t, []byte{0x2}, merged.Photo)
}

func TestMergeBirthday(t *testing.T) {
	a := rec("a", "John", "Smith")
	b := rec("b", "John", "Smith")
	b.Birthday = types.PartialDate{Month: 6, Day: 15}

	merged := Merge([]*types.ContactRecord{a, b}, false)
	assert.Equal(t, types.PartialDate{Month: 6, Day: 15}, merged.Birthday)
}

func TestMergeSelfIsNoop(t *testing.T) {
	a := rec("a", "John", "Smith", "john@company.com")
	a.Note = "note"
	a.Phones = []types.LabeledValue{{Value: "+15551234567", Label: "mobile"}}

	merged := Merge([]*types.ContactRecord{a, a}, false)
	assert.True(t, merged.ContentEquals(a), "merging a record with itself must be a no-op")
}

func TestGeneratePreviewConflicts(t *testing.T) {
	a := rec("a", "John", "Smith", "john@company.com")
	a.Organization = "Acme"
	b := rec("b", "John", "Smyth", "j.smith@company.com")
	b.Organization = "Acme"

	group := &types.DuplicateGroup{
		Candidates: []types.DuplicateCandidate{
			{Contact: a, Source: types.SourceCloud},
			{Contact: b, Source: types.SourceLocal},
		},
	}

	preview := GeneratePreview(group, false)

	require.NotNil(t, preview.Merged)
	assert.True(t, preview.HasCriticalConflict())

	var familyChange *types.MergeChange
	for i := range preview.Changes {
		if preview.Changes[i].Field == "family_name" {
			familyChange = &preview.Changes[i]
		}
	}
	require.NotNil(t, familyChange, "family name conflict must be reported")
	assert.True(t, familyChange.Conflict)
	assert.ElementsMatch(t, []string{"Smith", "Smyth"}, familyChange.Values)
	assert.Equal(t, "Smith", familyChange.Chosen)

	// Emails are a non-conflicting informational union.
	var emailChange *types.MergeChange
	for i := range preview.Changes {
		if preview.Changes[i].Field == "emails" {
			emailChange = &preview.Changes[i]
		}
	}
	require.NotNil(t, emailChange)
	assert.False(t, emailChange.Conflict)
	assert.Len(t, emailChange.Values, 2)
}

func TestGeneratePreviewNoConflict(t *testing.T) {
	a := rec("a", "John", "Smith", "john@company.com")
	b := rec("b", "", "Smith", "john@company.com")

	group := &types.DuplicateGroup{
		Candidates: []types.DuplicateCandidate{
			{Contact: a, Source: types.SourceCloud},
			{Contact: b, Source: types.SourceLocal},
		},
	}

	preview := GeneratePreview(group, false)
	assert.False(t, preview.HasCriticalConflict(),
		"an empty value on one side is not a conflict")
}

func TestPreviewMergedSelfMergeRoundTrip(t *testing.T) {
	a := rec("a", "John", "Smith", "john@company.com", "js@gmail.com")
	b := rec("b", "John", "Smith", "john@home.net")
	b.Note = "other note"

	group := &types.DuplicateGroup{
		Candidates: []types.DuplicateCandidate{
			{Contact: a, Source: types.SourceCloud},
			{Contact: b, Source: types.SourceLocal},
		},
	}

	merged := GeneratePreview(group, false).Merged
	again := Merge([]*types.ContactRecord{merged, merged}, false)
	assert.True(t, again.ContentEquals(merged))
}
