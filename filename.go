package ccdocs

import (
	"crypto/sha256"
	"encoding/hex"
	"path"
	"strings"
)

// filenamePrefixes are the documentation prefixes stripped from page paths,
// checked in order.
var filenamePrefixes = []string{"/docs/en/", "/en/docs/claude-code/", "/docs/claude-code/", "/claude-code/"}

// Filename derives the references filename for a page path.
// Example: /docs/en/sdk/migration → sdk__migration.md
//
// The result depends only on the path, so unchanged pages map to the same
// file on every run.
func Filename(pagePath string) string {
	name := pagePath
	stripped := false
	for _, prefix := range filenamePrefixes {
		if i := strings.LastIndex(pagePath, prefix); i >= 0 {
			name = pagePath[i+len(prefix):]
			stripped = true
			break
		}
	}
	if !stripped {
		if i := strings.LastIndex(pagePath, "claude-code/"); i >= 0 {
			name = pagePath[i+len("claude-code/"):]
		}
	}

	if strings.Contains(name, "/") {
		name = strings.ReplaceAll(name, "/", "__")
	}
	if !strings.HasSuffix(name, ".md") {
		name += ".md"
	}
	return name
}

// NormalizePath strips a trailing ".html" or, failing that, a trailing slash.
func NormalizePath(p string) string {
	if strings.HasSuffix(p, ".html") {
		return strings.TrimSuffix(p, ".html")
	}
	return strings.TrimSuffix(p, "/")
}

// IsPlainFilename reports whether name is a single path element that stays
// inside the directory it is joined to.
func IsPlainFilename(name string) bool {
	if name == "" || name == "." || name == ".." {
		return false
	}
	if strings.ContainsAny(name, `/\`) {
		return false
	}
	return path.Base(name) == name
}

// ContentHash returns the hex SHA-256 digest of content's UTF-8 bytes.
func ContentHash(content string) string {
	sum := sha256.Sum256([]byte(content))
	return hex.EncodeToString(sum[:])
}
