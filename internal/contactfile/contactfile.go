// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package contactfile reads contact and link files produced by the external
// source mappers and writes scan reports. Files are YAML or JSON by
// extension; the engine itself never touches a contacts API.
package contactfile

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"go.yaml.in/yaml/v3"

	"github.com/pdiddy/contact-engine/pkg/types"
)

// contactFile is the on-disk shape of one source's export: a flat list of
// records.
type contactFile struct {
	Contacts []*types.ContactRecord `json:"contacts" yaml:"contacts"`
}

// linkFile holds previously confirmed cloud/local mappings.
type linkFile struct {
	Links []types.Link `json:"links" yaml:"links"`
}

// LoadContacts reads a contact file. Records missing an ID are assigned a
// positional one so they stay addressable in reports; a record that is nil
// after decoding is dropped. Malformed files are errors, malformed records
// are not.
func LoadContacts(path string) ([]*types.ContactRecord, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading contact file: %w", err)
	}

	var cf contactFile
	if err := unmarshal(path, data, &cf); err != nil {
		return nil, fmt.Errorf("parsing contact file %s: %w", path, err)
	}

	var records []*types.ContactRecord
	for i, r := range cf.Contacts {
		if r == nil {
			continue
		}
		if r.ID == "" {
			r.ID = fmt.Sprintf("%s#%d", filepath.Base(path), i)
		}
		records = append(records, r)
	}
	return records, nil
}

// LoadLinks reads a link file. An empty path yields no links.
func LoadLinks(path string) ([]types.Link, error) {
	if path == "" {
		return nil, nil
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading link file: %w", err)
	}
	var lf linkFile
	if err := unmarshal(path, data, &lf); err != nil {
		return nil, fmt.Errorf("parsing link file %s: %w", path, err)
	}
	return lf.Links, nil
}

func unmarshal(path string, data []byte, v any) error {
	if strings.EqualFold(filepath.Ext(path), ".json") {
		return json.Unmarshal(data, v)
	}
	return yaml.Unmarshal(data, v)
}

// WriteReport writes a scan report to path as YAML or JSON by extension.
func WriteReport(report *types.ScanReport, path string) error {
	var data []byte
	var err error
	if strings.EqualFold(filepath.Ext(path), ".json") {
		data, err = json.MarshalIndent(report, "", "  ")
	} else {
		data, err = yaml.Marshal(report)
	}
	if err != nil {
		return fmt.Errorf("marshaling report: %w", err)
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("writing report %s: %w", path, err)
	}
	return nil
}

// ReadReport loads a previously written scan report.
func ReadReport(path string) (*types.ScanReport, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading report: %w", err)
	}
	var report types.ScanReport
	if err := unmarshal(path, data, &report); err != nil {
		return nil, fmt.Errorf("parsing report %s: %w", path, err)
	}
	return &report, nil
}

// FormatTable writes the groups of a report as a human-readable table.
func FormatTable(report *types.ScanReport, w io.Writer) {
	if len(report.Groups) == 0 {
		fmt.Fprintln(w, "No duplicate groups found.")
		return
	}

	fmt.Fprintf(w, "%-36s  %-15s  %-5s  %-18s  %-30s  %s\n",
		"Group", "Type", "Score", "Class", "Reason", "Contacts")
	fmt.Fprintln(w, strings.Repeat("-", 120))

	for _, g := range report.Groups {
		names := make([]string, len(g.Candidates))
		for i, c := range g.Candidates {
			names[i] = displayName(c.Contact)
		}
		fmt.Fprintf(w, "%-36s  %-15s  %-5d  %-18s  %-30s  %s\n",
			g.ID, g.GroupType, g.MatchScore, g.Classification,
			truncate(g.MatchReason, 30), strings.Join(names, " / "))
	}

	s := report.Stats
	fmt.Fprintf(w, "\n%d group(s): %d auto-merge, %d need confirmation, %d keep separate\n",
		s.GroupsFound, s.AutoMerge, s.NeedsConfirmation, s.KeepSeparate)
	for _, e := range report.Errors {
		fmt.Fprintf(w, "warning: %s: %s\n", e.Context, e.Err)
	}
}

// FormatJSON writes the report as indented JSON.
func FormatJSON(report *types.ScanReport, w io.Writer) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(report)
}

func displayName(c *types.ContactRecord) string {
	name := strings.TrimSpace(c.GivenName + " " + c.FamilyName)
	if name == "" && len(c.Emails) > 0 {
		name = c.Emails[0].Value
	}
	if name == "" {
		name = c.ID
	}
	return truncate(name, 25)
}

func truncate(s string, max int) string {
	if len(s) <= max {
		return s
	}
	return s[:max-3] + "..."
}
