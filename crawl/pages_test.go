package crawl_test

import (
	"context"
	"strings"
	"testing"
	"time"

	"github.com/chrisboden/ccdocs"
	"github.com/chrisboden/ccdocs/crawl"
	"github.com/chrisboden/ccdocs/mock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const validMarkdown = "# Hooks\n\nHooks run shell commands.\n\n## Events\n\n- PreToolUse\n- PostToolUse\n"

func newPageFetcher(fetcher ccdocs.Fetcher) *crawl.PageFetcher {
	var sleeps []time.Duration
	return crawl.NewPageFetcher(fetcher, newTestRetrier(&sleeps), ccdocs.DefaultConfig())
}

func TestPageFetcher_FetchPage(t *testing.T) {
	t.Parallel()

	t.Run("fetches markdown variant and derives filename", func(t *testing.T) {
		t.Parallel()

		var requested string
		fetcher := &mock.Fetcher{
			FetchFn: func(_ context.Context, url string) (string, error) {
				requested = url
				return validMarkdown, nil
			},
		}

		file, err := newPageFetcher(fetcher).FetchPage(context.Background(), "https://code.claude.com", "/docs/en/sdk/migration")

		require.NoError(t, err)
		assert.Equal(t, "https://code.claude.com/docs/en/sdk/migration.md", requested)
		assert.Equal(t, "sdk__migration.md", file.Filename)
		assert.Equal(t, requested, file.URL)
		assert.Equal(t, validMarkdown, file.Content)
	})

	t.Run("retries transport failures", func(t *testing.T) {
		t.Parallel()

		calls := 0
		fetcher := &mock.Fetcher{
			FetchFn: func(_ context.Context, _ string) (string, error) {
				calls++
				if calls == 1 {
					return "", ccdocs.Errorf(ccdocs.EUNAVAILABLE, "HTTP 502")
				}
				return validMarkdown, nil
			},
		}

		file, err := newPageFetcher(fetcher).FetchPage(context.Background(), "https://code.claude.com", "/docs/en/hooks")

		require.NoError(t, err)
		assert.Equal(t, "hooks.md", file.Filename)
		assert.Equal(t, 2, calls)
	})

	t.Run("rejects HTML without retrying", func(t *testing.T) {
		t.Parallel()

		calls := 0
		fetcher := &mock.Fetcher{
			FetchFn: func(_ context.Context, _ string) (string, error) {
				calls++
				return "<!DOCTYPE html><html><body>Not found</body></html>", nil
			},
		}

		_, err := newPageFetcher(fetcher).FetchPage(context.Background(), "https://code.claude.com", "/docs/en/hooks")

		require.Error(t, err)
		assert.Equal(t, ccdocs.EINVALID, ccdocs.ErrorCode(err))
		assert.Contains(t, err.Error(), "hooks.md")
		assert.Equal(t, 1, calls)
	})
}

func TestPageFetcher_FetchChangelog(t *testing.T) {
	t.Parallel()

	cfg := ccdocs.DefaultConfig()
	changelog := "## 1.0.1\n\n" + strings.Repeat("- Fixed a bug in the hooks runner\n", 5)

	t.Run("prepends attribution header", func(t *testing.T) {
		t.Parallel()

		var requested string
		fetcher := &mock.Fetcher{
			FetchFn: func(_ context.Context, url string) (string, error) {
				requested = url
				return changelog, nil
			},
		}

		file, err := newPageFetcher(fetcher).FetchChangelog(context.Background())

		require.NoError(t, err)
		assert.Equal(t, cfg.ChangelogURL, requested)
		assert.Equal(t, ccdocs.ChangelogFilename, file.Filename)
		assert.True(t, strings.HasPrefix(file.Content, "# Claude Code Changelog\n\n> **Source**: "+cfg.ChangelogSourceURL+"\n\n---\n\n"))
		assert.True(t, strings.HasSuffix(file.Content, changelog))
	})

	t.Run("rejects short changelog", func(t *testing.T) {
		t.Parallel()

		calls := 0
		fetcher := &mock.Fetcher{
			FetchFn: func(_ context.Context, _ string) (string, error) {
				calls++
				return "## 1.0.0\n", nil
			},
		}

		_, err := newPageFetcher(fetcher).FetchChangelog(context.Background())

		require.Error(t, err)
		assert.Equal(t, ccdocs.EINVALID, ccdocs.ErrorCode(err))
		assert.Equal(t, 1, calls)
	})

	t.Run("does not require markdown indicators", func(t *testing.T) {
		t.Parallel()

		plain := strings.Repeat("plain release notes without markup ", 5)
		fetcher := &mock.Fetcher{
			FetchFn: func(_ context.Context, _ string) (string, error) {
				return plain, nil
			},
		}

		file, err := newPageFetcher(fetcher).FetchChangelog(context.Background())

		require.NoError(t, err)
		assert.Contains(t, file.Content, plain)
	})
}
