// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package merge deterministically folds the records of a duplicate group
// into one, and produces per-field previews for review before a merge is
// applied.
package merge

import (
	"strings"

	"github.com/pdiddy/contact-engine/pkg/types"
)

// noteSeparator joins conflicting notes so neither side is silently dropped.
const noteSeparator = "\n---\n"

// Merge folds records left to right with the same preferLater bias
// throughout. Merging an empty slice is a caller contract violation and
// panics. A single record merges to a copy of itself.
func Merge(records []*types.ContactRecord, preferLater bool) *types.ContactRecord {
	if len(records) == 0 {
		panic("merge: empty record list")
	}
	merged := clone(records[0])
	for _, r := range records[1:] {
		merged = mergePair(merged, r, preferLater)
	}
	return merged
}

// mergePair merges b into a copy of a. Scalars keep the first non-empty
// value unless preferLater is set, in which case b wins whenever it has a
// value. Multi-valued fields take the order-preserving union.
func mergePair(a, b *types.ContactRecord, preferLater bool) *types.ContactRecord {
	out := clone(a)

	out.GivenName = pickString(a.GivenName, b.GivenName, preferLater)
	out.MiddleName = pickString(a.MiddleName, b.MiddleName, preferLater)
	out.FamilyName = pickString(a.FamilyName, b.FamilyName, preferLater)
	out.Prefix = pickString(a.Prefix, b.Prefix, preferLater)
	out.Suffix = pickString(a.Suffix, b.Suffix, preferLater)
	out.Nickname = pickString(a.Nickname, b.Nickname, preferLater)
	out.Organization = pickString(a.Organization, b.Organization, preferLater)
	out.Department = pickString(a.Department, b.Department, preferLater)
	out.JobTitle = pickString(a.JobTitle, b.JobTitle, preferLater)

	out.Emails = unionLabeled(a.Emails, b.Emails)
	out.Phones = unionLabeled(a.Phones, b.Phones)
	out.URLs = unionLabeled(a.URLs, b.URLs)
	out.Addresses = unionAddresses(a.Addresses, b.Addresses)

	if a.Birthday.IsZero() || (preferLater && !b.Birthday.IsZero()) {
		out.Birthday = b.Birthday
	}

	out.Note = mergeNotes(a.Note, b.Note)

	if len(out.Photo) == 0 || (preferLater && len(b.Photo) > 0) {
		out.Photo = b.Photo
	}

	// Upstream keys follow the scalar rule so a cross-source merge keeps
	// both identities when they do not collide.
	out.CloudID = pickString(a.CloudID, b.CloudID, preferLater)
	out.LocalID = pickString(a.LocalID, b.LocalID, preferLater)

	if b.UpdatedAt.After(out.UpdatedAt) {
		out.UpdatedAt = b.UpdatedAt
	}

	return out
}

func pickString(first, second string, preferLater bool) string {
	if first == "" {
		return second
	}
	if preferLater && second != "" {
		return second
	}
	return first
}

// unionLabeled returns the exact-duplicate-eliminated union of two labeled
// value lists, preserving first-seen order.
func unionLabeled(a, b []types.LabeledValue) []types.LabeledValue {
	seen := make(map[types.LabeledValue]struct{}, len(a)+len(b))
	var out []types.LabeledValue
	for _, v := range a {
		if _, ok := seen[v]; ok {
			continue
		}
		seen[v] = struct{}{}
		out = append(out, v)
	}
	for _, v := range b {
		if _, ok := seen[v]; ok {
			continue
		}
		seen[v] = struct{}{}
		out = append(out, v)
	}
	return out
}

func unionAddresses(a, b []types.PostalAddress) []types.PostalAddress {
	seen := make(map[types.PostalAddress]struct{}, len(a)+len(b))
	var out []types.PostalAddress
	for _, v := range a {
		if _, ok := seen[v]; ok {
			continue
		}
		seen[v] = struct{}{}
		out = append(out, v)
	}
	for _, v := range b {
		if _, ok := seen[v]; ok {
			continue
		}
		seen[v] = struct{}{}
		out = append(out, v)
	}
	return out
}

func mergeNotes(a, b string) string {
	switch {
	case a == "":
		return b
	case b == "" || a == b:
		return a
	default:
		return a + noteSeparator + b
	}
}

func clone(c *types.ContactRecord) *types.ContactRecord {
	out := *c
	out.Emails = append([]types.LabeledValue(nil), c.Emails...)
	out.Phones = append([]types.LabeledValue(nil), c.Phones...)
	out.URLs = append([]types.LabeledValue(nil), c.URLs...)
	out.Addresses = append([]types.PostalAddress(nil), c.Addresses...)
	out.Photo = append([]byte(nil), c.Photo...)
	return &out
}

// criticalFields names the scalar fields whose conflict blocks automatic
// merging regardless of score.
var criticalFields = []struct {
	name string
	get  func(*types.ContactRecord) string
}{
	{"given_name", func(c *types.ContactRecord) string { return c.GivenName }},
	{"family_name", func(c *types.ContactRecord) string { return c.FamilyName }},
	{"organization", func(c *types.ContactRecord) string { return c.Organization }},
}

// GeneratePreview computes the full merge of a group's records plus
// per-field changes: conflicts for the critical fields when more than one
// distinct non-empty value exists, and informational unions for emails and
// phones. The group must have at least one candidate.
func GeneratePreview(group *types.DuplicateGroup, preferLater bool) types.MergePreview {
	records := group.Records()
	merged := Merge(records, preferLater)

	var changes []types.MergeChange

	for _, f := range criticalFields {
		distinct := distinctNonEmpty(records, f.get)
		if len(distinct) > 1 {
			changes = append(changes, types.MergeChange{
				Field:    f.name,
				Conflict: true,
				Values:   distinct,
				Chosen:   f.get(merged),
			})
		}
	}

	if len(merged.Emails) > 0 {
		changes = append(changes, types.MergeChange{
			Field:  "emails",
			Values: labeledStrings(merged.Emails),
		})
	}
	if len(merged.Phones) > 0 {
		changes = append(changes, types.MergeChange{
			Field:  "phones",
			Values: labeledStrings(merged.Phones),
		})
	}

	return types.MergePreview{Merged: merged, Changes: changes}
}

// distinctNonEmpty collects the distinct non-empty values of one scalar
// field across records, in first-seen order. Comparison is trimmed but
// otherwise literal: "Smith" and "Smyth" are distinct.
func distinctNonEmpty(records []*types.ContactRecord, get func(*types.ContactRecord) string) []string {
	seen := make(map[string]struct{})
	var out []string
	for _, r := range records {
		v := strings.TrimSpace(get(r))
		if v == "" {
			continue
		}
		if _, ok := seen[v]; ok {
			continue
		}
		seen[v] = struct{}{}
		out = append(out, v)
	}
	return out
}

func labeledStrings(values []types.LabeledValue) []string {
	out := make([]string, len(values))
	for i, v := range values {
		out[i] = v.Value
	}
	return out
}
