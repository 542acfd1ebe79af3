package fs

import (
	"errors"
	"os"
	"strings"

	"github.com/chrisboden/ccdocs"
	"github.com/chrisboden/ccdocs/goldmark"
)

// UncategorizedHeading titles the section that collects newly fetched files.
const UncategorizedHeading = "Uncategorized (New)"

const uncategorizedSection = "\n\n### " + UncategorizedHeading + "\n\n<!-- Review and move these to appropriate sections -->\n\n"

// Ensure IndexFile implements ccdocs.IndexDocument at compile time.
var _ ccdocs.IndexDocument = (*IndexFile)(nil)

// IndexFile is an index document stored as a markdown file.
type IndexFile struct {
	path string
}

// NewIndexFile creates an IndexFile for the file at path.
func NewIndexFile(path string) *IndexFile {
	return &IndexFile{path: path}
}

// References returns the filenames the document mentions.
// A missing document references nothing.
func (f *IndexFile) References() ([]string, error) {
	data, err := os.ReadFile(f.path)
	if errors.Is(err, os.ErrNotExist) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return ccdocs.ExtractReferences(string(data)), nil
}

// AppendUncategorized adds a bullet for each name the document does not
// already mention, under the uncategorized heading. The heading is added
// first if the document lacks it. Returns the number of names appended.
func (f *IndexFile) AppendUncategorized(names []string) (int, error) {
	data, err := os.ReadFile(f.path)
	if errors.Is(err, os.ErrNotExist) {
		return 0, ccdocs.Errorf(ccdocs.ENOTFOUND, "index document %s not found", f.path)
	}
	if err != nil {
		return 0, err
	}
	content := string(data)

	seen := make(map[string]bool)
	for _, name := range ccdocs.ExtractReferences(content) {
		seen[name] = true
	}
	var add []string
	for _, name := range names {
		if seen[name] {
			continue
		}
		seen[name] = true
		add = append(add, name)
	}
	if len(add) == 0 {
		return 0, nil
	}

	var b strings.Builder
	b.WriteString(strings.TrimRight(content, " \t\r\n"))
	if goldmark.HasHeading(data, UncategorizedHeading) {
		b.WriteString("\n")
	} else {
		b.WriteString(uncategorizedSection)
	}
	for _, name := range add {
		b.WriteString("- `references/")
		b.WriteString(name)
		b.WriteString("` - (new, needs categorization)\n")
	}

	if err := os.WriteFile(f.path, []byte(b.String()), 0644); err != nil {
		return 0, err
	}
	return len(add), nil
}
