package crawl

import (
	"context"
	"strings"

	"github.com/chrisboden/ccdocs"
)

// Ensure PageFetcher implements ccdocs.PageFetcher at compile time.
var _ ccdocs.PageFetcher = (*PageFetcher)(nil)

// PageFetcher implements ccdocs.PageFetcher by retrying a single-attempt
// ccdocs.Fetcher and validating what it returns.
type PageFetcher struct {
	fetcher            ccdocs.Fetcher
	retrier            *Retrier
	minContentLength   int
	minChangelogLength int
	changelogURL       string
	changelogSourceURL string
}

// NewPageFetcher creates a PageFetcher with the content rules of cfg.
func NewPageFetcher(fetcher ccdocs.Fetcher, retrier *Retrier, cfg *ccdocs.Config) *PageFetcher {
	return &PageFetcher{
		fetcher:            fetcher,
		retrier:            retrier,
		minContentLength:   cfg.MinContentLength,
		minChangelogLength: cfg.MinChangelogLength,
		changelogURL:       cfg.ChangelogURL,
		changelogSourceURL: cfg.ChangelogSourceURL,
	}
}

// FetchPage fetches baseURL+path+".md" and checks that it is markdown.
func (f *PageFetcher) FetchPage(ctx context.Context, baseURL, path string) (*ccdocs.FetchedFile, error) {
	url := baseURL + path + ".md"
	filename := ccdocs.Filename(path)

	content, err := f.retrier.Do(ctx, url, func(ctx context.Context, url string) (string, error) {
		body, err := f.fetcher.Fetch(ctx, url)
		if err != nil {
			return "", err
		}
		if err := ccdocs.ValidateMarkdown(body, f.minContentLength); err != nil {
			return "", ccdocs.WrapErrorf(err, ccdocs.EINVALID, "content validation failed for %s", filename)
		}
		return body, nil
	})
	if err != nil {
		return nil, err
	}

	return &ccdocs.FetchedFile{Filename: filename, URL: url, Content: content}, nil
}

// FetchChangelog fetches the changelog and prepends its attribution header.
func (f *PageFetcher) FetchChangelog(ctx context.Context) (*ccdocs.FetchedFile, error) {
	content, err := f.retrier.Do(ctx, f.changelogURL, func(ctx context.Context, url string) (string, error) {
		body, err := f.fetcher.Fetch(ctx, url)
		if err != nil {
			return "", err
		}
		if err := ccdocs.ValidateLength(body, f.minChangelogLength); err != nil {
			return "", ccdocs.WrapErrorf(err, ccdocs.EINVALID, "changelog validation failed")
		}
		return body, nil
	})
	if err != nil {
		return nil, err
	}

	return &ccdocs.FetchedFile{
		Filename: ccdocs.ChangelogFilename,
		URL:      f.changelogURL,
		Content:  ChangelogHeader(f.changelogSourceURL) + content,
	}, nil
}

// ChangelogHeader returns the attribution block placed above the changelog.
func ChangelogHeader(sourceURL string) string {
	var b strings.Builder
	b.WriteString("# Claude Code Changelog\n\n")
	b.WriteString("> **Source**: ")
	b.WriteString(sourceURL)
	b.WriteString("\n\n---\n\n")
	return b.String()
}
