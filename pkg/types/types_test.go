package types

import (
	"testing"
	"time"
)

func TestContentEquals(t *testing.T) {
	base := func() *ContactRecord {
		return &ContactRecord{
			ID:         "a",
			CloudID:    "g-1",
			GivenName:  "John",
			FamilyName: "Smith",
			Emails:     []LabeledValue{{Value: "john@company.com", Label: "work"}},
			Birthday:   PartialDate{Month: 6, Day: 15},
			Note:       "met at conference",
			Photo:      []byte{0x1},
			UpdatedAt:  time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC),
		}
	}

	a, b := base(), base()

	// Identifiers, photo, and timestamps are ignored.
	b.ID = "b"
	b.CloudID = "g-2"
	b.LocalID = "m-9"
	b.Photo = []byte{0xFF}
	b.UpdatedAt = time.Date(2020, 1, 1, 0, 0, 0, 0, time.UTC)
	if !a.ContentEquals(b) {
		t.Error("records differing only in id/photo/timestamp must be content-equal")
	}

	tests := []struct {
		name   string
		mutate func(*ContactRecord)
	}{
		{"given name", func(c *ContactRecord) { c.GivenName = "Jon" }},
		{"family name", func(c *ContactRecord) { c.FamilyName = "Smyth" }},
		{"nickname", func(c *ContactRecord) { c.Nickname = "Johnny" }},
		{"organization", func(c *ContactRecord) { c.Organization = "Acme" }},
		{"email value", func(c *ContactRecord) { c.Emails[0].Value = "other@company.com" }},
		{"email label", func(c *ContactRecord) { c.Emails[0].Label = "home" }},
		{"extra email", func(c *ContactRecord) { c.Emails = append(c.Emails, LabeledValue{Value: "x@y.z"}) }},
		{"phone", func(c *ContactRecord) { c.Phones = []LabeledValue{{Value: "555"}} }},
		{"address", func(c *ContactRecord) { c.Addresses = []PostalAddress{{City: "Springfield"}} }},
		{"birthday", func(c *ContactRecord) { c.Birthday = PartialDate{Month: 7} }},
		{"note", func(c *ContactRecord) { c.Note = "different" }},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := base()
			tt.mutate(c)
			if a.ContentEquals(c) {
				t.Errorf("%s change must break content equality", tt.name)
			}
		})
	}
}

func TestPartialDateIsZero(t *testing.T) {
	if !(PartialDate{}).IsZero() {
		t.Error("zero date must report IsZero")
	}
	if (PartialDate{Month: 6}).IsZero() {
		t.Error("year-less birthday is not zero")
	}
}

func TestEngineConfigValidate(t *testing.T) {
	tests := []struct {
		name    string
		cfg     EngineConfig
		wantErr bool
	}{
		{"defaults", DefaultEngineConfig(), false},
		{"equal thresholds", EngineConfig{AutoMergeThreshold: 50, ConfirmationThreshold: 50, MaxAutoMergeGroupSize: 2}, false},
		{"negative auto", EngineConfig{AutoMergeThreshold: -1, ConfirmationThreshold: 0, MaxAutoMergeGroupSize: 3}, true},
		{"negative confirm", EngineConfig{AutoMergeThreshold: 80, ConfirmationThreshold: -5, MaxAutoMergeGroupSize: 3}, true},
		{"inverted thresholds", EngineConfig{AutoMergeThreshold: 40, ConfirmationThreshold: 50, MaxAutoMergeGroupSize: 3}, true},
		{"group size too small", EngineConfig{AutoMergeThreshold: 80, ConfirmationThreshold: 50, MaxAutoMergeGroupSize: 1}, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.cfg.Validate()
			if (err != nil) != tt.wantErr {
				t.Errorf("Validate() error = %v, wantErr %v", err, tt.wantErr)
			}
		})
	}
}

func TestGroupPredicates(t *testing.T) {
	cfg := DefaultEngineConfig()
	pair := []DuplicateCandidate{{}, {}}

	tests := []struct {
		name         string
		group        DuplicateGroup
		auto, prompt bool
		separate     bool
	}{
		{"high score pair", DuplicateGroup{MatchScore: 95, Candidates: pair}, true, false, false},
		{"at auto threshold", DuplicateGroup{MatchScore: 80, Candidates: pair}, true, false, false},
		{"confirmation band", DuplicateGroup{MatchScore: 79, Candidates: pair}, false, true, false},
		{"at confirmation threshold", DuplicateGroup{MatchScore: 50, Candidates: pair}, false, true, false},
		{"below band", DuplicateGroup{MatchScore: 49, Candidates: pair}, false, false, true},
		{"oversize group", DuplicateGroup{MatchScore: 95, Candidates: make([]DuplicateCandidate, 4)}, false, false, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.group.ShouldAutoMerge(cfg); got != tt.auto {
				t.Errorf("ShouldAutoMerge() = %v, want %v", got, tt.auto)
			}
			if got := tt.group.ShouldPromptUser(cfg); got != tt.prompt {
				t.Errorf("ShouldPromptUser() = %v, want %v", got, tt.prompt)
			}
			if got := tt.group.ShouldKeepSeparate(cfg); got != tt.separate {
				t.Errorf("ShouldKeepSeparate() = %v, want %v", got, tt.separate)
			}
		})
	}
}

func TestPrimaryReasonFallback(t *testing.T) {
	b := MatchScoreBreakdown{}
	if got := b.PrimaryReason(); got != "Similar contacts" {
		t.Errorf("PrimaryReason() = %q, want fallback", got)
	}
	b.Reasons = []string{"Same email address", "Identical name"}
	if got := b.PrimaryReason(); got != "Same email address" {
		t.Errorf("PrimaryReason() = %q", got)
	}
}
