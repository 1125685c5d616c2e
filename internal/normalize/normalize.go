// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package normalize canonicalizes contact fields into comparable strings and
// sets. Every function is pure and total: absent input yields an empty
// string or set, never an error.
package normalize

import (
	"strings"
	"unicode"

	"github.com/agnivade/levenshtein"

	"github.com/pdiddy/contact-engine/pkg/types"
)

// legalSuffixes are trailing legal-entity markers stripped from organization
// names. Order matters: the first matching suffix wins.
var legalSuffixes = []string{
	"inc", "inc.", "incorporated",
	"llc", "l.l.c.", "l.l.c",
	"corp", "corp.", "corporation",
	"ltd", "ltd.", "limited",
	"co", "co.", "company",
	"plc", "plc.",
}

// Name lowercases, strips punctuation, and collapses whitespace. When the
// result has more than two tokens, single-letter tokens are dropped: they
// are almost always middle initials and differ between sources.
func Name(s string) string {
	var b strings.Builder
	for _, r := range strings.ToLower(s) {
		if unicode.IsLetter(r) || unicode.IsDigit(r) || unicode.IsSpace(r) {
			b.WriteRune(r)
		}
	}
	tokens := strings.Fields(b.String())
	if len(tokens) > 2 {
		kept := tokens[:0]
		for _, tok := range tokens {
			if len(tok) > 1 {
				kept = append(kept, tok)
			}
		}
		tokens = kept
	}
	return strings.Join(tokens, " ")
}

// FullName normalizes each name component independently, drops empties, and
// joins with single spaces. The joined result is normalized once more so a
// middle initial is dropped when the full name has three or more tokens,
// matching how Name treats initials inside a single string.
func FullName(given, middle, family string) string {
	var parts []string
	for _, s := range []string{given, middle, family} {
		if n := Name(s); n != "" {
			parts = append(parts, n)
		}
	}
	return Name(strings.Join(parts, " "))
}

// Email lowercases and trims. For Gmail domains the local part is
// dot-insensitive, so dots before the @ are removed.
func Email(s string) string {
	e := strings.ToLower(strings.TrimSpace(s))
	at := strings.LastIndex(e, "@")
	if at < 0 {
		return e
	}
	local, domain := e[:at], e[at+1:]
	if domain == "gmail.com" || domain == "googlemail.com" {
		local = strings.ReplaceAll(local, ".", "")
	}
	return local + "@" + domain
}

// Phone keeps digits only, plus a single leading + when the input starts
// with one. Input with no digits normalizes to the empty string.
func Phone(s string) string {
	s = strings.TrimSpace(s)
	var b strings.Builder
	for _, r := range s {
		if r >= '0' && r <= '9' {
			b.WriteRune(r)
		}
	}
	digits := b.String()
	if digits == "" {
		return ""
	}
	if strings.HasPrefix(s, "+") {
		return "+" + digits
	}
	return digits
}

// Organization lowercases, trims, and strips one trailing legal-entity
// suffix ("Inc", "LLC", "Corp", ...) so that "Acme Inc" and "Acme"
// compare equal.
func Organization(s string) string {
	org := strings.ToLower(strings.TrimSpace(s))
	for _, suffix := range legalSuffixes {
		if org == suffix {
			return ""
		}
		if strings.HasSuffix(org, " "+suffix) {
			return strings.TrimSpace(strings.TrimSuffix(org, suffix))
		}
	}
	return org
}

// Address joins the lowercased, trimmed components into a single comparable
// line, skipping absent ones.
func Address(street, city, region, postal, country string) string {
	var parts []string
	for _, s := range []string{street, city, region, postal, country} {
		if t := strings.ToLower(strings.TrimSpace(s)); t != "" {
			parts = append(parts, t)
		}
	}
	return strings.Join(parts, " ")
}

// Distance is the Levenshtein edit distance with unit costs.
func Distance(a, b string) int {
	return levenshtein.ComputeDistance(a, b)
}

// NamesSimilar reports whether two names normalize to equal strings or lie
// within maxDistance edits of each other. Names that normalize to empty are
// never similar to anything.
func NamesSimilar(a, b string, maxDistance int) bool {
	na, nb := Name(a), Name(b)
	if na == "" || nb == "" {
		return false
	}
	if na == nb {
		return true
	}
	return Distance(na, nb) <= maxDistance
}

// View is the comparison-ready projection of a contact record. Two records
// with identical views are indistinguishable to the scorer.
type View struct {
	FullName     string
	Given        string
	Family       string
	Emails       map[string]struct{}
	EmailDomains map[string]struct{}
	Phones       map[string]struct{}
	Organization string
	Address      string
}

// NewView derives the normalized view of a record. The address view uses
// the record's first postal address; additional addresses participate in
// merging but not in matching.
func NewView(c *types.ContactRecord) View {
	v := View{
		FullName:     FullName(c.GivenName, c.MiddleName, c.FamilyName),
		Given:        Name(c.GivenName),
		Family:       Name(c.FamilyName),
		Emails:       make(map[string]struct{}),
		EmailDomains: make(map[string]struct{}),
		Phones:       make(map[string]struct{}),
		Organization: Organization(c.Organization),
	}
	for _, e := range c.Emails {
		n := Email(e.Value)
		if n == "" {
			continue
		}
		v.Emails[n] = struct{}{}
		if at := strings.LastIndex(n, "@"); at >= 0 {
			v.EmailDomains[n[at+1:]] = struct{}{}
		}
	}
	for _, p := range c.Phones {
		if n := Phone(p.Value); n != "" {
			v.Phones[n] = struct{}{}
		}
	}
	if len(c.Addresses) > 0 {
		a := c.Addresses[0]
		v.Address = Address(a.Street, a.City, a.Region, a.PostalCode, a.Country)
	}
	return v
}

// Intersects reports whether two string sets share any element.
func Intersects(a, b map[string]struct{}) bool {
	if len(a) > len(b) {
		a, b = b, a
	}
	for k := range a {
		if _, ok := b[k]; ok {
			return true
		}
	}
	return false
}
