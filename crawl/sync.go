package crawl

import (
	"context"
	"log/slog"
	"time"

	"github.com/chrisboden/ccdocs"
	"github.com/google/uuid"
)

// Syncer mirrors the documentation site into the references directory and
// records what it fetched in the manifest.
type Syncer struct {
	Source    ccdocs.PageSource
	Pages     ccdocs.PageFetcher
	Manifests ccdocs.ManifestStore
	Files     ccdocs.ReferenceStore
	Pacer     *Pacer
	Config    *ccdocs.Config
	Logger    *slog.Logger

	// Now returns the current time. Defaults to time.Now.
	Now func() time.Time

	// NewRunID returns the identifier of a run. Defaults to a random UUID.
	NewRunID func() string
}

// Result holds the outcome of a sync run.
type Result struct {
	RunID       string
	Pages       ccdocs.PageSet
	Successful  int
	Failed      int
	FailedPages []string

	// Fetched are the filenames recorded in the new manifest, sorted.
	Fetched []string

	Written   int
	Unchanged int
	Removed   []string
	Duration  time.Duration
}

// Run performs one fetch → hash → compare → write → cleanup cycle.
//
// Per-page failures are counted and skipped. Run returns an ENOTFOUND error
// before fetching anything when discovery yields no pages, and an
// EUNAVAILABLE error (after saving the manifest) when nothing was
// fetched successfully.
func (s *Syncer) Run(ctx context.Context) (*Result, error) {
	start := s.now()
	res := &Result{RunID: s.newRunID()}
	logger := s.logger().With("run", res.RunID)
	logger.Info("starting documentation fetch")

	if err := s.Files.Ensure(); err != nil {
		return nil, err
	}

	load := s.Manifests.Load()
	switch load.State {
	case ccdocs.LoadMissing:
		logger.Info("no previous manifest, fetching from scratch")
	case ccdocs.LoadCorrupt:
		logger.Warn("failed to load manifest, fetching from scratch", "err", load.Err)
	}
	prev := load.Manifest

	res.Pages = s.Source.Discover(ctx)
	switch res.Pages.Origin {
	case ccdocs.OriginSitemap:
		logger.Info("using sitemap pages", "sitemap", res.Pages.SitemapURL, "pages", len(res.Pages.Paths))
	case ccdocs.OriginFallback:
		logger.Warn("using fallback page list", "pages", len(res.Pages.Paths), "reason", res.Pages.Reason)
	}
	if len(res.Pages.Paths) == 0 {
		logger.Error("no documentation pages discovered")
		return nil, ccdocs.Errorf(ccdocs.ENOTFOUND, "no documentation pages discovered")
	}

	next := ccdocs.NewManifest()
	baseURL := res.Pages.BaseURL
	total := len(res.Pages.Paths)

	for i, path := range res.Pages.Paths {
		if err := ctx.Err(); err != nil {
			return res, err
		}
		logger.Info("processing page", "n", i+1, "total", total, "path", path)

		file, err := s.Pages.FetchPage(ctx, baseURL, path)
		if err == nil {
			err = s.record(logger, res, prev, next, file, ccdocs.ManifestEntry{OriginalURL: baseURL + path})
		}
		if err != nil {
			logger.Error("failed to process page", "path", path, "err", err)
			res.Failed++
			res.FailedPages = append(res.FailedPages, path)
			continue
		}
		res.Successful++

		if i < total-1 {
			if err := s.pace(ctx); err != nil {
				return res, err
			}
		}
	}

	file, err := s.Pages.FetchChangelog(ctx)
	if err == nil {
		err = s.record(logger, res, prev, next, file, ccdocs.ManifestEntry{
			OriginalURL: s.Config.ChangelogSourceURL,
			Source:      ccdocs.ChangelogSource,
		})
	}
	if err != nil {
		logger.Error("failed to fetch changelog", "err", err)
		res.Failed++
	} else {
		res.Successful++
	}

	s.cleanup(logger, res, prev, next)

	res.Fetched = next.Filenames()
	res.Duration = s.now().Sub(start)

	var sitemapURL *string
	if res.Pages.SitemapURL != "" {
		u := res.Pages.SitemapURL
		sitemapURL = &u
	}
	next.FetchMetadata = &ccdocs.FetchMetadata{
		LastFetch:       ccdocs.NewTimestamp(s.now()),
		DurationSeconds: res.Duration.Seconds(),
		Successful:      res.Successful,
		Failed:          res.Failed,
		FailedPages:     append([]string{}, res.FailedPages...),
		SitemapURL:      sitemapURL,
		BaseURL:         baseURL,
		RunID:           res.RunID,
	}
	if err := s.Manifests.Save(next); err != nil {
		logger.Error("failed to save manifest", "err", err)
		return res, err
	}

	logger.Info("fetch completed",
		"successful", res.Successful,
		"failed", res.Failed,
		"written", res.Written,
		"unchanged", res.Unchanged,
		"removed", len(res.Removed),
		"duration", res.Duration,
	)

	if res.Successful == 0 {
		return res, ccdocs.Errorf(ccdocs.EUNAVAILABLE, "no pages fetched successfully")
	}
	return res, nil
}

// record adds file to next, writing it to disk only when its hash differs
// from the previous manifest's.
func (s *Syncer) record(logger *slog.Logger, res *Result, prev, next *ccdocs.Manifest, file *ccdocs.FetchedFile, entry ccdocs.ManifestEntry) error {
	entry.Hash = ccdocs.ContentHash(file.Content)

	old, ok := prev.Files[file.Filename]
	if ok && old.Hash == entry.Hash {
		entry.LastUpdated = old.LastUpdated
		if entry.LastUpdated.IsZero() {
			entry.LastUpdated = ccdocs.NewTimestamp(s.now())
		}
		res.Unchanged++
	} else {
		if err := s.Files.Write(file.Filename, file.Content); err != nil {
			return err
		}
		logger.Info("saved", "file", file.Filename, "bytes", len(file.Content))
		entry.LastUpdated = ccdocs.NewTimestamp(s.now())
		res.Written++
	}

	next.Files[file.Filename] = entry
	return nil
}

// cleanup removes files of the previous manifest that this run did not
// fetch, except protected ones.
func (s *Syncer) cleanup(logger *slog.Logger, res *Result, prev, next *ccdocs.Manifest) {
	for _, name := range prev.Filenames() {
		if _, ok := next.Files[name]; ok {
			continue
		}
		if s.Config.IsProtected(name) {
			logger.Info("keeping protected file", "file", name)
			continue
		}
		if err := s.Files.Remove(name); err != nil {
			logger.Error("failed to remove obsolete file", "file", name, "err", err)
			continue
		}
		logger.Info("removed obsolete file", "file", name)
		res.Removed = append(res.Removed, name)
	}
}

func (s *Syncer) pace(ctx context.Context) error {
	if s.Pacer == nil {
		return ctx.Err()
	}
	return s.Pacer.Wait(ctx)
}

func (s *Syncer) now() time.Time {
	if s.Now != nil {
		return s.Now()
	}
	return time.Now()
}

func (s *Syncer) newRunID() string {
	if s.NewRunID != nil {
		return s.NewRunID()
	}
	return uuid.NewString()
}

func (s *Syncer) logger() *slog.Logger {
	if s.Logger != nil {
		return s.Logger
	}
	return slog.New(slog.DiscardHandler)
}
