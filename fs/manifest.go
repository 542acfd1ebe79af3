// Package fs provides file-based storage for the references directory.
package fs

import (
	"encoding/json"
	"errors"
	"os"
	"path/filepath"
	"time"

	"github.com/chrisboden/ccdocs"
)

// Ensure ManifestStore implements ccdocs.ManifestStore at compile time.
var _ ccdocs.ManifestStore = (*ManifestStore)(nil)

// ManifestStore keeps the manifest as an indented JSON file.
// Saves are written to a temporary file and renamed over the manifest.
type ManifestStore struct {
	path string

	// Now returns the time stamped on saved manifests. Defaults to time.Now.
	Now func() time.Time
}

// NewManifestStore creates a ManifestStore for the file at path.
func NewManifestStore(path string) *ManifestStore {
	return &ManifestStore{path: path}
}

// Path returns the manifest file location.
func (s *ManifestStore) Path() string {
	return s.path
}

func (s *ManifestStore) Load() ccdocs.ManifestLoad {
	data, err := os.ReadFile(s.path)
	if errors.Is(err, os.ErrNotExist) {
		return ccdocs.ManifestLoad{Manifest: ccdocs.NewManifest(), State: ccdocs.LoadMissing}
	}
	if err != nil {
		return ccdocs.ManifestLoad{Manifest: ccdocs.NewManifest(), State: ccdocs.LoadCorrupt, Err: err}
	}

	m, err := ccdocs.DecodeManifest(data)
	if err != nil {
		return ccdocs.ManifestLoad{Manifest: ccdocs.NewManifest(), State: ccdocs.LoadCorrupt, Err: err}
	}
	return ccdocs.ManifestLoad{Manifest: m, State: ccdocs.LoadOK}
}

func (s *ManifestStore) Save(m *ccdocs.Manifest) error {
	m.LastUpdated = ccdocs.NewTimestamp(s.now())
	m.Description = ccdocs.ManifestDescription
	if m.Files == nil {
		m.Files = make(map[string]ccdocs.ManifestEntry)
	}

	data, err := json.MarshalIndent(m, "", "  ")
	if err != nil {
		return ccdocs.WrapErrorf(err, ccdocs.EINTERNAL, "encoding manifest")
	}
	data = append(data, '\n')

	tmp, err := os.CreateTemp(filepath.Dir(s.path), filepath.Base(s.path)+".*.tmp")
	if err != nil {
		return err
	}
	tmpName := tmp.Name()

	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		os.Remove(tmpName)
		return err
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmpName)
		return err
	}
	if err := os.Chmod(tmpName, 0644); err != nil {
		os.Remove(tmpName)
		return err
	}
	if err := os.Rename(tmpName, s.path); err != nil {
		os.Remove(tmpName)
		return err
	}
	return nil
}

func (s *ManifestStore) now() time.Time {
	if s.Now != nil {
		return s.Now()
	}
	return time.Now()
}
