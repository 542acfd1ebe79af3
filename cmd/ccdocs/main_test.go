package main_test

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/chrisboden/ccdocs"
	main "github.com/chrisboden/ccdocs/cmd/ccdocs"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const pageMarkdown = "# Overview\n\nClaude Code is an agentic coding tool.\n\n## Install\n\n- npm\n- brew\n"

var changelogText = "## 1.0.0\n\n" + strings.Repeat("- Initial release of the command line tool\n", 4)

// newDocsServer serves markdown pages and a changelog but no sitemap.
func newDocsServer(t *testing.T, pages map[string]string) *httptest.Server {
	t.Helper()
	return httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if body, ok := pages[r.URL.Path]; ok {
			_, _ = w.Write([]byte(body))
			return
		}
		http.NotFound(w, r)
	}))
}

// writeConfig writes a config that points every URL at srv and disables
// retry delays.
func writeConfig(t *testing.T, dir string, srv *httptest.Server, pages []string) string {
	t.Helper()

	quoted := make([]string, len(pages))
	for i, p := range pages {
		quoted[i] = fmt.Sprintf("%q", p)
	}
	cfg := fmt.Sprintf(`sitemap_urls: [%q]
fallback_base_url: %q
fallback_pages: [%s]
changelog_url: %q
max_attempts: 1
base_delay: 0s
rate_limit_delay: 0s
`, srv.URL+"/sitemap.xml", srv.URL, strings.Join(quoted, ", "), srv.URL+"/CHANGELOG.md")

	path := filepath.Join(dir, "ccdocs.yaml")
	require.NoError(t, os.WriteFile(path, []byte(cfg), 0644))
	return path
}

func readManifest(t *testing.T, path string) *ccdocs.Manifest {
	t.Helper()
	data, err := os.ReadFile(path)
	require.NoError(t, err)
	m, err := ccdocs.DecodeManifest(data)
	require.NoError(t, err)
	return m
}

func TestMain_Run(t *testing.T) {
	t.Parallel()

	t.Run("falls back to fixed pages when the sitemap is unreachable", func(t *testing.T) {
		t.Parallel()

		srv := newDocsServer(t, map[string]string{
			"/docs/en/overview.md": pageMarkdown,
			"/docs/en/broken.md":   "<!DOCTYPE html><html><body>oops</body></html>",
			"/CHANGELOG.md":        changelogText,
		})
		defer srv.Close()

		dir := t.TempDir()
		cfgPath := writeConfig(t, dir, srv, []string{"/docs/en/overview", "/docs/en/broken"})
		skill := "# Skill\n\n- `references/overview.md` - overview\n- `references/gone.md` - removed page\n"
		require.NoError(t, os.WriteFile(filepath.Join(dir, "SKILL.md"), []byte(skill), 0644))

		stdout, stderr := &bytes.Buffer{}, &bytes.Buffer{}
		err := main.NewMain().Run(context.Background(),
			[]string{"--skill-dir", dir, "--config", cfgPath, "--update-skill"}, stdout, stderr)

		require.NoError(t, err)
		assert.Contains(t, stdout.String(), "Fetch completed: 2 successful, 1 failed")
		assert.Contains(t, stdout.String(), "failed: /docs/en/broken")
		assert.Contains(t, stdout.String(), "gone.md")

		content, err := os.ReadFile(filepath.Join(dir, "references", "overview.md"))
		require.NoError(t, err)
		assert.Equal(t, pageMarkdown, string(content))
		assert.NoFileExists(t, filepath.Join(dir, "references", "broken.md"))
		assert.FileExists(t, filepath.Join(dir, "references", "changelog.md"))

		m := readManifest(t, filepath.Join(dir, "references", "docs_manifest.json"))
		assert.Equal(t, []string{"changelog.md", "overview.md"}, m.Filenames())
		assert.Equal(t, ccdocs.ContentHash(pageMarkdown), m.Files["overview.md"].Hash)
		assert.Equal(t, srv.URL+"/docs/en/overview", m.Files["overview.md"].OriginalURL)
		require.NotNil(t, m.FetchMetadata)
		assert.Nil(t, m.FetchMetadata.SitemapURL)
		assert.Equal(t, srv.URL, m.FetchMetadata.BaseURL)
		assert.Equal(t, []string{"/docs/en/broken"}, m.FetchMetadata.FailedPages)

		updated, err := os.ReadFile(filepath.Join(dir, "SKILL.md"))
		require.NoError(t, err)
		assert.Contains(t, string(updated), "### Uncategorized (New)")
		assert.Contains(t, string(updated), "- `references/changelog.md` - (new, needs categorization)")
	})

	t.Run("second run leaves unchanged files alone", func(t *testing.T) {
		t.Parallel()

		srv := newDocsServer(t, map[string]string{
			"/docs/en/overview.md": pageMarkdown,
			"/CHANGELOG.md":        changelogText,
		})
		defer srv.Close()

		dir := t.TempDir()
		cfgPath := writeConfig(t, dir, srv, []string{"/docs/en/overview"})
		args := []string{"--skill-dir", dir, "--config", cfgPath}
		manifestPath := filepath.Join(dir, "references", "docs_manifest.json")

		require.NoError(t, main.NewMain().Run(context.Background(), args, &bytes.Buffer{}, &bytes.Buffer{}))
		first := readManifest(t, manifestPath)

		require.NoError(t, main.NewMain().Run(context.Background(), args, &bytes.Buffer{}, &bytes.Buffer{}))
		second := readManifest(t, manifestPath)

		require.Equal(t, first.Filenames(), second.Filenames())
		for name, entry := range first.Files {
			assert.Equal(t, entry.Hash, second.Files[name].Hash, name)
			assert.True(t, entry.LastUpdated.Equal(second.Files[name].LastUpdated.Time), name)
		}
	})

	t.Run("fails when no page is fetched", func(t *testing.T) {
		t.Parallel()

		srv := newDocsServer(t, map[string]string{})
		defer srv.Close()

		dir := t.TempDir()
		cfgPath := writeConfig(t, dir, srv, []string{"/docs/en/overview"})

		stdout := &bytes.Buffer{}
		err := main.NewMain().Run(context.Background(),
			[]string{"--skill-dir", dir, "--config", cfgPath}, stdout, &bytes.Buffer{})

		require.Error(t, err)
		assert.Equal(t, ccdocs.EUNAVAILABLE, ccdocs.ErrorCode(err))
		assert.Contains(t, stdout.String(), "Fetch completed: 0 successful, 2 failed")
		assert.FileExists(t, filepath.Join(dir, "references", "docs_manifest.json"))
	})

	t.Run("fails when no pages are discovered", func(t *testing.T) {
		t.Parallel()

		srv := newDocsServer(t, map[string]string{})
		defer srv.Close()

		dir := t.TempDir()
		cfgPath := writeConfig(t, dir, srv, nil)

		err := main.NewMain().Run(context.Background(),
			[]string{"--skill-dir", dir, "--config", cfgPath}, &bytes.Buffer{}, &bytes.Buffer{})

		require.Error(t, err)
		assert.Equal(t, ccdocs.ENOTFOUND, ccdocs.ErrorCode(err))
		assert.NoFileExists(t, filepath.Join(dir, "references", "docs_manifest.json"))
	})

	t.Run("validates existing files without fetching", func(t *testing.T) {
		t.Parallel()

		requests := 0
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			requests++
			http.NotFound(w, r)
		}))
		defer srv.Close()

		dir := t.TempDir()
		cfgPath := writeConfig(t, dir, srv, []string{"/docs/en/overview"})
		refs := filepath.Join(dir, "references")
		require.NoError(t, os.MkdirAll(refs, 0755))
		for _, name := range []string{"a.md", "c.md", "docs_manifest.json", "notes.txt"} {
			require.NoError(t, os.WriteFile(filepath.Join(refs, name), []byte("x"), 0644))
		}
		skill := "- `references/a.md`\n- `references/b.md`\n"
		require.NoError(t, os.WriteFile(filepath.Join(dir, "SKILL.md"), []byte(skill), 0644))

		stdout := &bytes.Buffer{}
		err := main.NewMain().Run(context.Background(),
			[]string{"--validate", "--skill-dir", dir, "--config", cfgPath}, stdout, &bytes.Buffer{})

		require.NoError(t, err)
		assert.Zero(t, requests)
		assert.NotContains(t, stdout.String(), "Fetch completed")
		assert.Contains(t, stdout.String(), "Orphaned references in SKILL.md (files don't exist):\n  - b.md\n")
		assert.Contains(t, stdout.String(), "Unreferenced files (not in SKILL.md):\n  - c.md\n")
		assert.NotContains(t, stdout.String(), "docs_manifest.json")
	})

	t.Run("shows help", func(t *testing.T) {
		t.Parallel()

		stdout := &bytes.Buffer{}
		err := main.NewMain().Run(context.Background(), []string{"--help"}, stdout, &bytes.Buffer{})

		require.NoError(t, err)
		assert.Contains(t, stdout.String(), "--update-skill")
		assert.Contains(t, stdout.String(), "--validate")
	})

	t.Run("rejects an unknown log level", func(t *testing.T) {
		t.Parallel()

		err := main.NewMain().Run(context.Background(),
			[]string{"--validate", "--skill-dir", t.TempDir(), "--log-level", "verbose"}, &bytes.Buffer{}, &bytes.Buffer{})

		assert.Error(t, err)
	})

	t.Run("applies the timeout flag", func(t *testing.T) {
		t.Parallel()

		dir := t.TempDir()
		m := main.NewMain()
		err := m.Run(context.Background(),
			[]string{"--validate", "--skill-dir", dir, "--timeout", "5s"}, &bytes.Buffer{}, &bytes.Buffer{})

		require.NoError(t, err)
		assert.Equal(t, "5s", m.Config.Timeout.String())
	})

	t.Run("bounds sitemap and page requests by the timeout", func(t *testing.T) {
		t.Parallel()

		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			select {
			case <-r.Context().Done():
			case <-time.After(2 * time.Second):
			}
		}))
		defer srv.Close()

		dir := t.TempDir()
		cfgPath := writeConfig(t, dir, srv, []string{"/docs/en/overview"})

		start := time.Now()
		err := main.NewMain().Run(context.Background(),
			[]string{"--skill-dir", dir, "--config", cfgPath, "--timeout", "50ms"}, &bytes.Buffer{}, &bytes.Buffer{})

		require.Error(t, err)
		assert.Equal(t, ccdocs.EUNAVAILABLE, ccdocs.ErrorCode(err))
		assert.Less(t, time.Since(start), time.Second, "sitemap, page and changelog requests each time out")
	})

	t.Run("writes json logs", func(t *testing.T) {
		t.Parallel()

		dir := t.TempDir()
		refs := filepath.Join(dir, "references")
		require.NoError(t, os.MkdirAll(refs, 0755))
		require.NoError(t, os.WriteFile(filepath.Join(refs, "new.md"), []byte("x"), 0644))

		stderr := &bytes.Buffer{}
		err := main.NewMain().Run(context.Background(),
			[]string{"--validate", "--skill-dir", dir, "--log-format", "json"}, &bytes.Buffer{}, stderr)

		require.NoError(t, err)
		line := strings.SplitN(strings.TrimSpace(stderr.String()), "\n", 2)[0]
		var record map[string]any
		require.NoError(t, json.Unmarshal([]byte(line), &record))
		assert.Equal(t, "unreferenced file", record["msg"])
		assert.Equal(t, "new.md", record["file"])
	})
}
