package mock

import "github.com/chrisboden/ccdocs"

// Compile-time interface verification.
var (
	_ ccdocs.ManifestStore  = (*ManifestStore)(nil)
	_ ccdocs.ReferenceStore = (*ReferenceStore)(nil)
	_ ccdocs.IndexDocument  = (*IndexDocument)(nil)
)

// ManifestStore is a mock implementation of ccdocs.ManifestStore.
type ManifestStore struct {
	LoadFn func() ccdocs.ManifestLoad
	SaveFn func(m *ccdocs.Manifest) error
}

func (s *ManifestStore) Load() ccdocs.ManifestLoad {
	return s.LoadFn()
}

func (s *ManifestStore) Save(m *ccdocs.Manifest) error {
	return s.SaveFn(m)
}

// ReferenceStore is a mock implementation of ccdocs.ReferenceStore.
type ReferenceStore struct {
	EnsureFn func() error
	WriteFn  func(name, content string) error
	RemoveFn func(name string) error
	ListFn   func() ([]string, error)
}

func (s *ReferenceStore) Ensure() error {
	return s.EnsureFn()
}

func (s *ReferenceStore) Write(name, content string) error {
	return s.WriteFn(name, content)
}

func (s *ReferenceStore) Remove(name string) error {
	return s.RemoveFn(name)
}

func (s *ReferenceStore) List() ([]string, error) {
	return s.ListFn()
}

// IndexDocument is a mock implementation of ccdocs.IndexDocument.
type IndexDocument struct {
	ReferencesFn          func() ([]string, error)
	AppendUncategorizedFn func(names []string) (int, error)
}

func (d *IndexDocument) References() ([]string, error) {
	return d.ReferencesFn()
}

func (d *IndexDocument) AppendUncategorized(names []string) (int, error) {
	return d.AppendUncategorizedFn(names)
}
