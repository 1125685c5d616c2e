// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package types

import "time"

// LabeledValue is one entry of a multi-valued contact field (email, phone,
// URL): the raw value plus a free-form label such as "home" or "work".
// Duplicate entries within a list are possible and tolerated.
type LabeledValue struct {
	// Value is the raw field value as supplied by the source.
	Value string `json:"value" yaml:"value"`

	// Label is the source-assigned label. May be empty.
	Label string `json:"label,omitempty" yaml:"label,omitempty"`
}

// PostalAddress holds one structured postal address. Any component may be
// empty; a zero PostalAddress carries no information.
type PostalAddress struct {
	Street     string `json:"street,omitempty" yaml:"street,omitempty"`
	City       string `json:"city,omitempty" yaml:"city,omitempty"`
	Region     string `json:"region,omitempty" yaml:"region,omitempty"`
	PostalCode string `json:"postal_code,omitempty" yaml:"postal_code,omitempty"`
	Country    string `json:"country,omitempty" yaml:"country,omitempty"`
	Label      string `json:"label,omitempty" yaml:"label,omitempty"`
}

// PartialDate is a date where any component may be absent (zero). Birthdays
// from contact sources frequently omit the year.
type PartialDate struct {
	Year  int `json:"year,omitempty" yaml:"year,omitempty"`
	Month int `json:"month,omitempty" yaml:"month,omitempty"`
	Day   int `json:"day,omitempty" yaml:"day,omitempty"`
}

// IsZero reports whether no component of the date is set.
func (d PartialDate) IsZero() bool {
	return d.Year == 0 && d.Month == 0 && d.Day == 0
}

// ContactRecord is one contact as seen by the deduplication engine. Records
// are constructed by an external mapper from a source-specific representation
// and are treated as immutable once handed to the engine; only the merge
// engine produces new records.
type ContactRecord struct {
	// ID is an opaque identifier, stable for the lifetime of this in-memory
	// record. It carries no meaning beyond identity.
	ID string `json:"id" yaml:"id"`

	// CloudID and LocalID are the upstream keys of the record in the cloud
	// and local contact sources. Either or both may be empty.
	CloudID string `json:"cloud_id,omitempty" yaml:"cloud_id,omitempty"`
	LocalID string `json:"local_id,omitempty" yaml:"local_id,omitempty"`

	GivenName  string `json:"given_name,omitempty" yaml:"given_name,omitempty"`
	MiddleName string `json:"middle_name,omitempty" yaml:"middle_name,omitempty"`
	FamilyName string `json:"family_name,omitempty" yaml:"family_name,omitempty"`
	Prefix     string `json:"prefix,omitempty" yaml:"prefix,omitempty"`
	Suffix     string `json:"suffix,omitempty" yaml:"suffix,omitempty"`
	Nickname   string `json:"nickname,omitempty" yaml:"nickname,omitempty"`

	Organization string `json:"organization,omitempty" yaml:"organization,omitempty"`
	Department   string `json:"department,omitempty" yaml:"department,omitempty"`
	JobTitle     string `json:"job_title,omitempty" yaml:"job_title,omitempty"`

	Emails    []LabeledValue  `json:"emails,omitempty" yaml:"emails,omitempty"`
	Phones    []LabeledValue  `json:"phones,omitempty" yaml:"phones,omitempty"`
	Addresses []PostalAddress `json:"addresses,omitempty" yaml:"addresses,omitempty"`
	URLs      []LabeledValue  `json:"urls,omitempty" yaml:"urls,omitempty"`

	Birthday PartialDate `json:"birthday,omitempty" yaml:"birthday,omitempty"`

	Note string `json:"note,omitempty" yaml:"note,omitempty"`

	// Photo is an opaque image blob. It is carried through merges but never
	// inspected for matching.
	Photo []byte `json:"photo,omitempty" yaml:"photo,omitempty"`

	// UpdatedAt is the last-modified time reported by the source, if any.
	UpdatedAt time.Time `json:"updated_at,omitempty" yaml:"updated_at,omitempty"`
}

// ContentEquals reports whether two records carry the same contact content.
// Identifiers, photo, and timestamps are ignored: two records are
// content-equal iff every name, organization, multi-valued, birthday, and
// note field matches.
func (c *ContactRecord) ContentEquals(other *ContactRecord) bool {
	if other == nil {
		return c == nil
	}
	if c.GivenName != other.GivenName ||
		c.MiddleName != other.MiddleName ||
		c.FamilyName != other.FamilyName ||
		c.Prefix != other.Prefix ||
		c.Suffix != other.Suffix ||
		c.Nickname != other.Nickname ||
		c.Organization != other.Organization ||
		c.Department != other.Department ||
		c.JobTitle != other.JobTitle ||
		c.Birthday != other.Birthday ||
		c.Note != other.Note {
		return false
	}
	if !labeledValuesEqual(c.Emails, other.Emails) ||
		!labeledValuesEqual(c.Phones, other.Phones) ||
		!labeledValuesEqual(c.URLs, other.URLs) {
		return false
	}
	if len(c.Addresses) != len(other.Addresses) {
		return false
	}
	for i := range c.Addresses {
		if c.Addresses[i] != other.Addresses[i] {
			return false
		}
	}
	return true
}

func labeledValuesEqual(a, b []LabeledValue) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}
	return true
}
