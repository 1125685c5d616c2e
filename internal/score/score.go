// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package score computes the pairwise confidence score between two contact
// records. Every rule compares normalized views through set intersections
// and string equality, so the score is symmetric in its arguments.
package score

import (
	"strings"

	"github.com/pdiddy/contact-engine/internal/normalize"
	"github.com/pdiddy/contact-engine/pkg/types"
)

// Rule weights. The total is floored at zero but never capped, so a pair
// matching on email, phone, and name scores well above 100.
const (
	emailWeight        = 60
	phoneWeight        = 60
	exactNameWeight    = 30
	similarNameWeight  = 20
	orgWeight          = 10
	addressWeight      = 10
	domainPenalty      = -10
	contactInfoPenalty = -20

	// nameDistance is the maximum edit distance for the similar-name rule.
	nameDistance = 2
)

// Score evaluates all matching rules between two records and returns the
// itemized breakdown. Both records must be non-nil; passing nil is a caller
// bug and panics.
func Score(a, b *types.ContactRecord) types.MatchScoreBreakdown {
	if a == nil || b == nil {
		panic("score: nil contact record")
	}

	n1 := normalize.NewView(a)
	n2 := normalize.NewView(b)

	var breakdown types.MatchScoreBreakdown
	var reasons []string

	if normalize.Intersects(n1.Emails, n2.Emails) {
		breakdown.EmailMatch = emailWeight
		reasons = append(reasons, "Same email address")
	}
	if phonesIntersect(n1.Phones, n2.Phones) {
		breakdown.PhoneMatch = phoneWeight
		reasons = append(reasons, "Same phone number")
	}

	nameMatched := false
	if n1.FullName != "" && n1.FullName == n2.FullName {
		breakdown.ExactName = exactNameWeight
		reasons = append(reasons, "Identical name")
		nameMatched = true
	} else if similarNames(n1.FullName, n2.FullName) {
		breakdown.SimilarName = similarNameWeight
		reasons = append(reasons, "Very similar name")
		nameMatched = true
	}

	if n1.Organization != "" && n1.Organization == n2.Organization {
		breakdown.Organization = orgWeight
		reasons = append(reasons, "Same organization")
	}
	if n1.Address != "" && n1.Address == n2.Address {
		breakdown.Address = addressWeight
		reasons = append(reasons, "Same address")
	}

	// Penalties apply only when a name rule fired: without a name match the
	// positive rules already carry all the signal there is.
	if nameMatched {
		if len(n1.EmailDomains) > 0 && len(n2.EmailDomains) > 0 &&
			!normalize.Intersects(n1.EmailDomains, n2.EmailDomains) {
			breakdown.DomainMismatch = domainPenalty
			reasons = append(reasons, "Conflicting email domains")
		}

		// The penalties are mutually exclusive: a domain mismatch already
		// accounts for the diverging contact info.
		if breakdown.DomainMismatch == 0 &&
			breakdown.EmailMatch == 0 && breakdown.PhoneMatch == 0 {
			hasInfo1 := len(n1.Emails) > 0 || len(n1.Phones) > 0
			hasInfo2 := len(n2.Emails) > 0 || len(n2.Phones) > 0
			if hasInfo1 && hasInfo2 {
				breakdown.ContactInfoMismatch = contactInfoPenalty
				reasons = append(reasons, "Different contact info despite similar name")
			}
		}
	}

	total := breakdown.EmailMatch + breakdown.PhoneMatch +
		breakdown.ExactName + breakdown.SimilarName +
		breakdown.Organization + breakdown.Address +
		breakdown.DomainMismatch + breakdown.ContactInfoMismatch
	if total < 0 {
		total = 0
	}
	breakdown.TotalScore = total
	breakdown.Reasons = reasons

	return breakdown
}

// similarNames reports whether two normalized full names are close enough
// for the similar-name rule: within edit distance 2, or matching token for
// token with single-letter initials expanding to the other side's token
// ("j smith" matches "john smith").
func similarNames(a, b string) bool {
	if normalize.NamesSimilar(a, b, nameDistance) {
		return true
	}
	ta, tb := strings.Fields(a), strings.Fields(b)
	if len(ta) == 0 || len(ta) != len(tb) {
		return false
	}
	for i := range ta {
		x, y := ta[i], tb[i]
		if x == y {
			continue
		}
		if len(x) == 1 && strings.HasPrefix(y, x) {
			continue
		}
		if len(y) == 1 && strings.HasPrefix(x, y) {
			continue
		}
		return false
	}
	return true
}

// phonesIntersect reports whether any pair of normalized phones matches.
// Numbers match when equal ignoring the leading plus, or when one is a
// trailing national form of the other ("+15551234567" matches
// "5551234567"): sources disagree on whether the country code is present.
func phonesIntersect(a, b map[string]struct{}) bool {
	for pa := range a {
		for pb := range b {
			if phoneEqual(pa, pb) {
				return true
			}
		}
	}
	return false
}

// minPhoneDigits guards the suffix comparison against short extensions.
const minPhoneDigits = 7

func phoneEqual(a, b string) bool {
	da := strings.TrimPrefix(a, "+")
	db := strings.TrimPrefix(b, "+")
	if da == db {
		return true
	}
	if len(da) < len(db) {
		da, db = db, da
	}
	return len(db) >= minPhoneDigits && strings.HasSuffix(da, db)
}
