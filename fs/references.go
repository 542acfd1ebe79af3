package fs

import (
	"errors"
	"os"
	"path/filepath"
	"sort"

	"github.com/chrisboden/ccdocs"
)

// Ensure ReferenceDir implements ccdocs.ReferenceStore at compile time.
var _ ccdocs.ReferenceStore = (*ReferenceDir)(nil)

// ReferenceDir stores fetched files flat in a single directory.
type ReferenceDir struct {
	dir string
}

// NewReferenceDir creates a ReferenceDir rooted at dir.
func NewReferenceDir(dir string) *ReferenceDir {
	return &ReferenceDir{dir: dir}
}

// Dir returns the directory path.
func (d *ReferenceDir) Dir() string {
	return d.dir
}

func (d *ReferenceDir) Ensure() error {
	return os.MkdirAll(d.dir, 0755)
}

func (d *ReferenceDir) Write(name, content string) error {
	p, err := d.path(name)
	if err != nil {
		return err
	}
	return os.WriteFile(p, []byte(content), 0644)
}

func (d *ReferenceDir) Remove(name string) error {
	p, err := d.path(name)
	if err != nil {
		return err
	}
	if err := os.Remove(p); err != nil && !errors.Is(err, os.ErrNotExist) {
		return err
	}
	return nil
}

// List returns the sorted names of the *.md and *.json files in the
// directory. A missing directory lists nothing.
func (d *ReferenceDir) List() ([]string, error) {
	entries, err := os.ReadDir(d.dir)
	if errors.Is(err, os.ErrNotExist) {
		return []string{}, nil
	}
	if err != nil {
		return nil, err
	}

	names := []string{}
	for _, e := range entries {
		if !e.Type().IsRegular() {
			continue
		}
		switch filepath.Ext(e.Name()) {
		case ".md", ".json":
			names = append(names, e.Name())
		}
	}
	sort.Strings(names)
	return names, nil
}

// path joins name to the directory, rejecting names that would escape it.
func (d *ReferenceDir) path(name string) (string, error) {
	if !ccdocs.IsPlainFilename(name) {
		return "", ccdocs.Errorf(ccdocs.EINVALID, "invalid reference filename %q", name)
	}
	return filepath.Join(d.dir, name), nil
}
