package ccdocs

import "strings"

// markdownIndicators mark a line as markdown syntax.
var markdownIndicators = []string{"# ", "## ", "### ", "```", "- ", "* ", "1. ", "[", "**", "_", "> "}

const (
	indicatorScanLines = 50
	minIndicatorLines  = 3
	htmlSniffLength    = 100
)

// ValidateMarkdown returns an EINVALID error unless content looks like a
// markdown document of at least minLength bytes (after trimming).
func ValidateMarkdown(content string, minLength int) error {
	if content == "" || strings.HasPrefix(content, "<!DOCTYPE") || strings.Contains(head(content, htmlSniffLength), "<html") {
		return Errorf(EINVALID, "received HTML instead of markdown")
	}

	if err := ValidateLength(content, minLength); err != nil {
		return err
	}

	lines := strings.Split(content, "\n")
	count := 0
	for _, line := range lines[:min(len(lines), indicatorScanLines)] {
		if hasIndicator(line) {
			count++
		}
	}
	if count < minIndicatorLines {
		return Errorf(EINVALID, "content doesn't appear to be markdown (only %d indicators)", count)
	}
	return nil
}

// ValidateLength returns an EINVALID error if trimmed content is shorter
// than minLength.
func ValidateLength(content string, minLength int) error {
	if len(strings.TrimSpace(content)) < minLength {
		return Errorf(EINVALID, "content too short (%d bytes)", len(content))
	}
	return nil
}

// head returns the first n characters of s.
func head(s string, n int) string {
	count := 0
	for i := range s {
		if count == n {
			return s[:i]
		}
		count++
	}
	return s
}

func hasIndicator(line string) bool {
	for _, ind := range markdownIndicators {
		if strings.Contains(line, ind) {
			return true
		}
	}
	return false
}
