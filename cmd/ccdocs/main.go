package main

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"

	"github.com/alecthomas/kong"
	"github.com/chrisboden/ccdocs"
	"github.com/chrisboden/ccdocs/crawl"
	"github.com/chrisboden/ccdocs/fs"
	ccdocshttp "github.com/chrisboden/ccdocs/http"
	ccslog "github.com/chrisboden/ccdocs/slog"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)

	m := NewMain()

	err := m.Run(ctx, os.Args[1:], os.Stdout, os.Stderr)
	stop()
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

// Main represents the program.
type Main struct {
	// Config is the configuration of the last Run, after the config file
	// and flags have been applied.
	Config *ccdocs.Config

	// HTTPClient is used for every request, sitemap and page alike.
	// Defaults to a client with the configured timeout.
	HTTPClient *http.Client
}

// NewMain returns a new instance of Main.
func NewMain() *Main {
	return &Main{}
}

// Run executes the CLI with the given arguments.
func (m *Main) Run(ctx context.Context, args []string, stdout, stderr io.Writer) error {
	cli := &CLI{}
	parser, err := kong.New(cli,
		kong.Name("ccdocs"),
		kong.Description("Fetch the Claude Code documentation into a skill's references directory."),
		kong.Writers(stdout, stderr),
		kong.Exit(func(int) {}), // Don't exit on help
	)
	if err != nil {
		return fmt.Errorf("failed to create parser: %w", err)
	}

	for _, arg := range args {
		if arg == "--help" || arg == "-h" {
			_, _ = parser.Parse([]string{"--help"})
			return nil
		}
	}

	if _, err := parser.Parse(args); err != nil {
		return err
	}

	cfg, err := LoadConfig(cli.Config)
	if err != nil {
		return err
	}
	if cli.Timeout > 0 {
		cfg.Timeout = cli.Timeout
	}
	if err := cfg.Validate(); err != nil {
		return err
	}
	m.Config = cfg

	logger, err := newLogger(stderr, cli.LogLevel, cli.LogFormat)
	if err != nil {
		return err
	}

	return cli.Run(m.dependencies(ctx, cli.SkillDir, cfg, logger, stdout, stderr))
}

// dependencies wires the services for a run rooted at skillDir.
func (m *Main) dependencies(ctx context.Context, skillDir string, cfg *ccdocs.Config, logger *slog.Logger, stdout, stderr io.Writer) *Dependencies {
	refsDir := filepath.Join(skillDir, cfg.ReferencesDir)
	files := fs.NewReferenceDir(refsDir)

	client := m.HTTPClient
	if client == nil {
		client = newHTTPClient(cfg)
	}

	var fetcher ccdocs.Fetcher = ccdocshttp.NewFetcher(
		ccdocshttp.WithClient(client),
		ccdocshttp.WithUserAgent(cfg.UserAgent),
		ccdocshttp.WithDefaultRetryAfter(cfg.DefaultRetryAfter),
	)
	fetcher = ccslog.NewLoggingFetcher(fetcher, logger)

	var sitemaps ccdocs.SitemapService = ccdocshttp.NewSitemapService(client, cfg.UserAgent)
	sitemaps = ccslog.NewLoggingSitemapService(sitemaps, logger)

	return &Dependencies{
		Ctx:    ctx,
		Stdout: stdout,
		Stderr: stderr,
		Logger: logger,
		Config: cfg,
		Files:  files,
		Index:  fs.NewIndexFile(filepath.Join(skillDir, cfg.IndexFile)),
		Syncer: &crawl.Syncer{
			Source:    crawl.NewDiscoverer(sitemaps, cfg, logger),
			Pages:     crawl.NewPageFetcher(fetcher, crawl.NewRetrier(cfg, logger), cfg),
			Manifests: fs.NewManifestStore(filepath.Join(refsDir, cfg.ManifestFile)),
			Files:     files,
			Pacer:     crawl.NewPacer(cfg.RateLimitDelay),
			Config:    cfg,
			Logger:    logger,
		},
	}
}

// newHTTPClient returns the client shared by the sitemap service and the
// page fetcher, bounded by the configured per-request timeout.
func newHTTPClient(cfg *ccdocs.Config) *http.Client {
	return &http.Client{Timeout: cfg.Timeout}
}

// newLogger returns a logger writing to w in the given format at the given level.
func newLogger(w io.Writer, level, format string) (*slog.Logger, error) {
	var lvl slog.Level
	if err := lvl.UnmarshalText([]byte(level)); err != nil {
		return nil, ccdocs.WrapErrorf(err, ccdocs.EINVALID, "invalid log level %q", level)
	}
	opts := &slog.HandlerOptions{Level: lvl}

	switch format {
	case "json":
		return slog.New(slog.NewJSONHandler(w, opts)), nil
	case "text", "":
		return slog.New(slog.NewTextHandler(w, opts)), nil
	default:
		return nil, ccdocs.Errorf(ccdocs.EINVALID, "invalid log format %q", format)
	}
}
