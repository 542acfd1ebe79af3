package http

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"

	"github.com/beevik/etree"
	"github.com/chrisboden/ccdocs"
	"github.com/temoto/robotstxt"
)

// Ensure SitemapService implements ccdocs.SitemapService.
var _ ccdocs.SitemapService = (*SitemapService)(nil)

// SitemapService locates and reads website sitemaps via HTTP.
type SitemapService struct {
	client    *http.Client
	userAgent string
}

// NewSitemapService creates a new SitemapService with the given HTTP client.
// If client is nil, http.DefaultClient is used.
func NewSitemapService(client *http.Client, userAgent string) *SitemapService {
	if client == nil {
		client = http.DefaultClient
	}
	return &SitemapService{client: client, userAgent: userAgent}
}

// Locate returns the first candidate serving a sitemap with at least one
// location, along with the scheme and host of that location.
func (s *SitemapService) Locate(ctx context.Context, candidates []string) (*ccdocs.Sitemap, error) {
	var errs []error
	for _, candidate := range candidates {
		if err := ctx.Err(); err != nil {
			return nil, err
		}

		sm, err := s.locate(ctx, candidate)
		if err != nil {
			errs = append(errs, fmt.Errorf("%s: %w", candidate, err))
			continue
		}
		return sm, nil
	}

	if err := ctx.Err(); err != nil {
		return nil, err
	}
	return nil, ccdocs.WrapErrorf(errors.Join(errs...), ccdocs.ENOTFOUND, "could not find a valid sitemap")
}

func (s *SitemapService) locate(ctx context.Context, sitemapURL string) (*ccdocs.Sitemap, error) {
	doc, err := s.fetchSitemap(ctx, sitemapURL)
	if err != nil {
		return nil, err
	}

	locs := locations(doc.Root())
	if len(locs) == 0 {
		return nil, fmt.Errorf("no locations in sitemap")
	}

	first, err := url.Parse(locs[0])
	if err != nil || first.Scheme == "" || first.Host == "" {
		return nil, fmt.Errorf("invalid first location %q", locs[0])
	}

	return &ccdocs.Sitemap{
		URL:     sitemapURL,
		BaseURL: first.Scheme + "://" + first.Host,
	}, nil
}

// URLs returns every location listed by the sitemap.
// Returns an empty slice (not nil) if the sitemap lists nothing.
func (s *SitemapService) URLs(ctx context.Context, sitemapURL string) ([]string, error) {
	urls, err := s.processSitemap(ctx, sitemapURL, make(map[string]bool))
	if err != nil {
		return nil, err
	}
	if urls == nil {
		urls = []string{}
	}
	return urls, nil
}

// RobotsSitemaps returns the Sitemap: directives of siteURL's robots.txt.
func (s *SitemapService) RobotsSitemaps(ctx context.Context, siteURL string) ([]string, error) {
	base, err := url.Parse(siteURL)
	if err != nil {
		return nil, ccdocs.WrapErrorf(err, ccdocs.EINVALID, "invalid site URL")
	}
	robotsURL := base.ResolveReference(&url.URL{Path: "/robots.txt"})

	req, err := newRequest(ctx, robotsURL.String(), s.userAgent)
	if err != nil {
		return nil, err
	}
	resp, err := s.client.Do(req)
	if err != nil {
		return nil, ccdocs.WrapErrorf(err, ccdocs.EUNAVAILABLE, "fetching %s", robotsURL)
	}
	defer resp.Body.Close()

	data, err := robotstxt.FromResponse(resp)
	if err != nil {
		return nil, fmt.Errorf("parsing robots.txt: %w", err)
	}
	return data.Sitemaps, nil
}

// processSitemap fetches and parses a sitemap, handling both urlset and sitemapindex.
func (s *SitemapService) processSitemap(ctx context.Context, sitemapURL string, seen map[string]bool) ([]string, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	// Avoid processing the same sitemap twice
	if seen[sitemapURL] {
		return nil, nil
	}
	seen[sitemapURL] = true

	doc, err := s.fetchSitemap(ctx, sitemapURL)
	if err != nil {
		return nil, err
	}

	root := doc.Root()
	if root.Tag == "sitemapindex" {
		return s.processSitemapIndex(ctx, root, seen)
	}

	return locations(root), nil
}

// processSitemapIndex processes a <sitemapindex> element recursively.
func (s *SitemapService) processSitemapIndex(ctx context.Context, root *etree.Element, seen map[string]bool) ([]string, error) {
	var allURLs []string

	for _, sitemap := range root.SelectElements("sitemap") {
		loc := sitemap.SelectElement("loc")
		if loc == nil {
			continue
		}
		sitemapURL := strings.TrimSpace(loc.Text())
		if sitemapURL == "" {
			continue
		}

		urls, err := s.processSitemap(ctx, sitemapURL, seen)
		if err != nil {
			return nil, err
		}
		allURLs = append(allURLs, urls...)
	}

	return allURLs, nil
}

// locations returns the <url><loc> values in the sitemap namespace, or every
// <loc> in the document when none are namespaced.
func locations(root *etree.Element) []string {
	var locs []string
	for _, u := range root.FindElements("//url") {
		if u.NamespaceURI() != ccdocs.SitemapNamespace {
			continue
		}
		if loc := u.SelectElement("loc"); loc != nil {
			if text := strings.TrimSpace(loc.Text()); text != "" {
				locs = append(locs, text)
			}
		}
	}
	if len(locs) > 0 {
		return locs
	}

	for _, loc := range root.FindElements("//loc") {
		if text := strings.TrimSpace(loc.Text()); text != "" {
			locs = append(locs, text)
		}
	}
	return locs
}

// fetchSitemap fetches and parses a sitemap document. Documents declaring a
// DTD are rejected; entities are never expanded.
func (s *SitemapService) fetchSitemap(ctx context.Context, sitemapURL string) (*etree.Document, error) {
	body, err := s.fetchURL(ctx, sitemapURL)
	if err != nil {
		return nil, err
	}
	defer body.Close()

	doc := etree.NewDocument()
	if _, err := doc.ReadFrom(body); err != nil {
		return nil, fmt.Errorf("parsing sitemap XML: %w", err)
	}

	for _, tok := range doc.Child {
		if d, ok := tok.(*etree.Directive); ok && strings.HasPrefix(strings.ToUpper(strings.TrimSpace(d.Data)), "DOCTYPE") {
			return nil, fmt.Errorf("sitemap declares a DTD")
		}
	}

	if doc.Root() == nil {
		return nil, fmt.Errorf("empty sitemap XML")
	}
	return doc, nil
}

// fetchURL fetches a URL and returns the response body.
func (s *SitemapService) fetchURL(ctx context.Context, targetURL string) (io.ReadCloser, error) {
	req, err := newRequest(ctx, targetURL, s.userAgent)
	if err != nil {
		return nil, err
	}

	resp, err := s.client.Do(req)
	if err != nil {
		return nil, ccdocs.WrapErrorf(err, ccdocs.EUNAVAILABLE, "fetching %s", targetURL)
	}

	if resp.StatusCode != http.StatusOK {
		resp.Body.Close()
		return nil, ccdocs.Errorf(ccdocs.EUNAVAILABLE, "HTTP %d for %s", resp.StatusCode, targetURL)
	}

	return resp.Body, nil
}
