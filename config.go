package ccdocs

import (
	"net/url"
	"time"
)

// Config holds the settings shared by every component of a run. It is built
// once at process start and passed to each constructor.
type Config struct {
	// SitemapURLs are tried in order until one yields a usable sitemap.
	SitemapURLs []string `yaml:"sitemap_urls"`

	// UseRobots appends Sitemap: directives from the fallback site's
	// robots.txt to SitemapURLs.
	UseRobots bool `yaml:"use_robots"`

	// FallbackBaseURL is used when no sitemap could be located.
	FallbackBaseURL string `yaml:"fallback_base_url"`

	// FallbackPages is the fixed page list used when discovery yields nothing.
	FallbackPages []string `yaml:"fallback_pages"`

	// IncludeMarkers select documentation URLs from the sitemap.
	IncludeMarkers []string `yaml:"include_markers"`

	// ExcludeFragments drop normalized paths containing any of them.
	ExcludeFragments []string `yaml:"exclude_fragments"`

	ChangelogURL       string `yaml:"changelog_url"`
	ChangelogSourceURL string `yaml:"changelog_source_url"`

	UserAgent string        `yaml:"user_agent"`
	Timeout   time.Duration `yaml:"timeout"`

	MaxAttempts       int           `yaml:"max_attempts"`
	BaseDelay         time.Duration `yaml:"base_delay"`
	MaxDelay          time.Duration `yaml:"max_delay"`
	DefaultRetryAfter time.Duration `yaml:"default_retry_after"`
	MaxRateLimitWaits int           `yaml:"max_rate_limit_waits"`

	// RateLimitDelay separates consecutive page fetches after a success.
	RateLimitDelay time.Duration `yaml:"rate_limit_delay"`

	MinContentLength   int `yaml:"min_content_length"`
	MinChangelogLength int `yaml:"min_changelog_length"`

	ReferencesDir  string   `yaml:"references_dir"`
	ManifestFile   string   `yaml:"manifest_file"`
	IndexFile      string   `yaml:"index_file"`
	ProtectedFiles []string `yaml:"protected_files"`
}

// Default values.
const (
	DefaultManifestFile  = "docs_manifest.json"
	DefaultIndexFile     = "SKILL.md"
	DefaultReferencesDir = "references"
	ChangelogFilename    = "changelog.md"
	ChangelogSource      = "github"
)

// DefaultConfig returns the configuration for the Claude Code documentation site.
func DefaultConfig() *Config {
	return &Config{
		SitemapURLs: []string{
			"https://code.claude.com/docs/sitemap.xml",
			"https://docs.anthropic.com/sitemap.xml",
		},
		FallbackBaseURL:    "https://code.claude.com",
		FallbackPages:      FallbackPages(),
		IncludeMarkers:     []string{"/docs/en/", "/en/docs/claude-code/"},
		ExcludeFragments:   []string{"/tool-use/", "/examples/", "/legacy/", "/api/", "/reference/"},
		ChangelogURL:       "https://raw.githubusercontent.com/anthropics/claude-code/main/CHANGELOG.md",
		ChangelogSourceURL: "https://github.com/anthropics/claude-code/blob/main/CHANGELOG.md",
		UserAgent:          "Claude-Code-Docs-Fetcher/3.0 (cc-docs-skill)",
		Timeout:            30 * time.Second,
		MaxAttempts:        3,
		BaseDelay:          2 * time.Second,
		MaxDelay:           30 * time.Second,
		DefaultRetryAfter:  60 * time.Second,
		MaxRateLimitWaits:  5,
		RateLimitDelay:     500 * time.Millisecond,
		MinContentLength:   50,
		MinChangelogLength: 100,
		ReferencesDir:      DefaultReferencesDir,
		ManifestFile:       DefaultManifestFile,
		IndexFile:          DefaultIndexFile,
		ProtectedFiles:     []string{DefaultManifestFile, "README.md"},
	}
}

// FallbackPages returns the essential pages fetched when the sitemap cannot
// be used. It performs no I/O.
func FallbackPages() []string {
	return []string{
		"/docs/en/overview",
		"/docs/en/setup",
		"/docs/en/quickstart",
		"/docs/en/memory",
		"/docs/en/common-workflows",
		"/docs/en/mcp",
		"/docs/en/github-actions",
		"/docs/en/troubleshooting",
		"/docs/en/security",
		"/docs/en/settings",
		"/docs/en/hooks",
		"/docs/en/costs",
		"/docs/en/monitoring-usage",
	}
}

// Validate returns an error if the configuration cannot drive a run.
func (c *Config) Validate() error {
	if len(c.SitemapURLs) == 0 && !c.UseRobots && len(c.FallbackPages) == 0 {
		return Errorf(EINVALID, "config needs sitemap URLs or fallback pages")
	}
	if u, err := url.Parse(c.FallbackBaseURL); err != nil || u.Scheme == "" || u.Host == "" {
		return Errorf(EINVALID, "invalid fallback base URL %q", c.FallbackBaseURL)
	}
	if c.MaxAttempts < 1 {
		return Errorf(EINVALID, "max attempts must be at least 1, got %d", c.MaxAttempts)
	}
	if c.MaxRateLimitWaits < 0 {
		return Errorf(EINVALID, "max rate limit waits must not be negative")
	}
	if c.BaseDelay < 0 || c.MaxDelay < 0 || c.RateLimitDelay < 0 || c.DefaultRetryAfter < 0 {
		return Errorf(EINVALID, "delays must not be negative")
	}
	if c.Timeout <= 0 {
		return Errorf(EINVALID, "timeout must be positive")
	}
	if c.ManifestFile == "" || c.IndexFile == "" || c.ReferencesDir == "" {
		return Errorf(EINVALID, "manifest, index and references names are required")
	}
	if !IsPlainFilename(c.ManifestFile) {
		return Errorf(EINVALID, "manifest file %q must be a plain filename", c.ManifestFile)
	}
	return nil
}

// IsProtected reports whether name must survive cleanup.
func (c *Config) IsProtected(name string) bool {
	for _, p := range c.ProtectedFiles {
		if p == name {
			return true
		}
	}
	return name == c.ManifestFile
}
