package ccdocs_test

import (
	"testing"

	"github.com/chrisboden/ccdocs"
	"github.com/stretchr/testify/assert"
)

func TestExtractReferences(t *testing.T) {
	t.Parallel()

	doc := "# Claude Code Docs\n\n" +
		"- `references/overview.md` - what Claude Code is\n" +
		"- See references/hooks.md for hook events.\n" +
		"- `references/docs_manifest.json`\n" +
		"- `references/overview.md` again\n" +
		"- references/image.png is not a doc\n"

	assert.Equal(t, []string{"overview.md", "hooks.md", "docs_manifest.json"}, ccdocs.ExtractReferences(doc))
	assert.Empty(t, ccdocs.ExtractReferences("no references here"))
}

func TestReconcile(t *testing.T) {
	t.Parallel()

	t.Run("reports orphaned and unreferenced files", func(t *testing.T) {
		t.Parallel()

		r := ccdocs.Reconcile([]string{"A.md", "B.md"}, []string{"A.md", "C.md"}, nil)

		assert.Equal(t, []string{"B.md"}, r.Orphaned)
		assert.Equal(t, []string{"C.md"}, r.Unreferenced)
		assert.False(t, r.InSync())
	})

	t.Run("never reports excluded names", func(t *testing.T) {
		t.Parallel()

		r := ccdocs.Reconcile(
			[]string{"a.md", "docs_manifest.json"},
			[]string{"a.md", "README.md"},
			[]string{"docs_manifest.json", "README.md"},
		)

		assert.Empty(t, r.Orphaned)
		assert.Empty(t, r.Unreferenced)
		assert.True(t, r.InSync())
	})

	t.Run("sorts results", func(t *testing.T) {
		t.Parallel()

		r := ccdocs.Reconcile(nil, []string{"z.md", "a.md", "m.md"}, nil)

		assert.Equal(t, []string{"a.md", "m.md", "z.md"}, r.Unreferenced)
		assert.NotNil(t, r.Orphaned)
	})
}
