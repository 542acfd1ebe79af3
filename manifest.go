package ccdocs

import (
	"bytes"
	"encoding/json"
	"sort"
	"time"
)

// ManifestDescription is stamped on every saved manifest.
const ManifestDescription = "Claude Code documentation manifest for cc-docs skill."

// Manifest is the persisted record of previously fetched files.
type Manifest struct {
	Files         map[string]ManifestEntry `json:"files"`
	LastUpdated   Timestamp                `json:"last_updated"`
	Description   string                   `json:"description,omitempty"`
	FetchMetadata *FetchMetadata           `json:"fetch_metadata,omitempty"`
}

// ManifestEntry records where a file came from and which content it holds.
type ManifestEntry struct {
	OriginalURL string    `json:"original_url"`
	Hash        string    `json:"hash"`
	LastUpdated Timestamp `json:"last_updated"`
	Source      string    `json:"source,omitempty"`
}

// FetchMetadata summarizes the run that produced a manifest.
type FetchMetadata struct {
	LastFetch       Timestamp `json:"last_fetch"`
	DurationSeconds float64   `json:"duration_seconds"`
	Successful      int       `json:"successful"`
	Failed          int       `json:"failed"`
	FailedPages     []string  `json:"failed_pages"`
	SitemapURL      *string   `json:"sitemap_url"`
	BaseURL         string    `json:"base_url"`
	RunID           string    `json:"run_id,omitempty"`
}

// NewManifest returns an empty manifest.
func NewManifest() *Manifest {
	return &Manifest{Files: make(map[string]ManifestEntry)}
}

// DecodeManifest parses and validates a persisted manifest. Unknown fields
// are ignored and a missing files mapping decodes as empty.
func DecodeManifest(data []byte) (*Manifest, error) {
	var m Manifest
	if err := json.Unmarshal(data, &m); err != nil {
		return nil, WrapErrorf(err, EINVALID, "decoding manifest")
	}
	if m.Files == nil {
		m.Files = make(map[string]ManifestEntry)
	}
	if err := m.Validate(); err != nil {
		return nil, err
	}
	return &m, nil
}

// Validate returns an error if a file key could escape the references
// directory.
func (m *Manifest) Validate() error {
	for name := range m.Files {
		if !IsPlainFilename(name) {
			return Errorf(EINVALID, "manifest file key %q is not a plain filename", name)
		}
	}
	return nil
}

// Filenames returns the manifest's file keys in sorted order.
func (m *Manifest) Filenames() []string {
	names := make([]string, 0, len(m.Files))
	for name := range m.Files {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// LoadState classifies the outcome of loading a manifest.
type LoadState int

const (
	LoadOK LoadState = iota
	LoadMissing
	LoadCorrupt
)

func (s LoadState) String() string {
	switch s {
	case LoadOK:
		return "ok"
	case LoadMissing:
		return "missing"
	default:
		return "corrupt"
	}
}

// ManifestLoad is the result of ManifestStore.Load. Manifest is never nil;
// it is empty unless State is LoadOK. Err is set for LoadCorrupt.
type ManifestLoad struct {
	Manifest *Manifest
	State    LoadState
	Err      error
}

// ManifestStore persists the manifest.
type ManifestStore interface {
	// Load reads the persisted manifest. It never fails; missing or
	// corrupt state loads as an empty manifest.
	Load() ManifestLoad

	// Save stamps m and replaces the persisted manifest with it.
	Save(m *Manifest) error
}

// legacyTimeLayouts are accepted in addition to RFC 3339. Manifests written
// by earlier versions of the fetcher carry zone-less local timestamps.
var legacyTimeLayouts = []string{
	"2006-01-02T15:04:05.999999999",
	"2006-01-02T15:04:05",
}

// Timestamp is a time that encodes as RFC 3339 and null when zero.
type Timestamp struct {
	time.Time
}

// NewTimestamp returns t as a Timestamp.
func NewTimestamp(t time.Time) Timestamp { return Timestamp{Time: t} }

// MarshalJSON implements json.Marshaler.
func (t Timestamp) MarshalJSON() ([]byte, error) {
	if t.IsZero() {
		return []byte("null"), nil
	}
	return json.Marshal(t.Format(time.RFC3339Nano))
}

// UnmarshalJSON implements json.Unmarshaler.
func (t *Timestamp) UnmarshalJSON(data []byte) error {
	if bytes.Equal(data, []byte("null")) {
		t.Time = time.Time{}
		return nil
	}
	var s string
	if err := json.Unmarshal(data, &s); err != nil {
		return err
	}
	if s == "" {
		t.Time = time.Time{}
		return nil
	}
	if v, err := time.Parse(time.RFC3339Nano, s); err == nil {
		t.Time = v
		return nil
	}
	for _, layout := range legacyTimeLayouts {
		if v, err := time.ParseInLocation(layout, s, time.Local); err == nil {
			t.Time = v
			return nil
		}
	}
	return Errorf(EINVALID, "invalid timestamp %q", s)
}

// ReferenceStore holds the fetched files of the references directory.
type ReferenceStore interface {
	// Ensure creates the directory if needed.
	Ensure() error
	Write(name, content string) error
	// Remove deletes a file; a file that does not exist is not an error.
	Remove(name string) error
	// List returns the names of the *.md and *.json files present.
	List() ([]string, error)
}
