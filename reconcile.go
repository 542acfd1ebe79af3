package ccdocs

import (
	"regexp"
	"sort"
)

// referenceRe matches `references/<name>.md` or references/<name>.json,
// optionally backtick-wrapped.
var referenceRe = regexp.MustCompile("`?references/([^`\\s]+\\.(?:md|json))`?")

// ExtractReferences returns the unique references filenames mentioned in an
// index document, in order of first appearance.
func ExtractReferences(content string) []string {
	seen := make(map[string]bool)
	var names []string
	for _, m := range referenceRe.FindAllStringSubmatch(content, -1) {
		if !seen[m[1]] {
			seen[m[1]] = true
			names = append(names, m[1])
		}
	}
	return names
}

// Report is the difference between an index document and fetched files.
type Report struct {
	// Orphaned are referenced by the index but were not fetched.
	Orphaned []string
	// Unreferenced were fetched but are not mentioned by the index.
	Unreferenced []string
}

// InSync reports whether the index and the fetched set agree.
func (r Report) InSync() bool {
	return len(r.Orphaned) == 0 && len(r.Unreferenced) == 0
}

// Reconcile compares referenced filenames against fetched filenames.
// Names in excluded are never reported.
func Reconcile(referenced, fetched, excluded []string) Report {
	ref := toSet(referenced)
	got := toSet(fetched)
	skip := toSet(excluded)

	r := Report{Orphaned: []string{}, Unreferenced: []string{}}
	for name := range ref {
		if !got[name] && !skip[name] {
			r.Orphaned = append(r.Orphaned, name)
		}
	}
	for name := range got {
		if !ref[name] && !skip[name] {
			r.Unreferenced = append(r.Unreferenced, name)
		}
	}
	sort.Strings(r.Orphaned)
	sort.Strings(r.Unreferenced)
	return r
}

func toSet(names []string) map[string]bool {
	set := make(map[string]bool, len(names))
	for _, n := range names {
		set[n] = true
	}
	return set
}

// IndexDocument is the human-maintained document that references fetched files.
type IndexDocument interface {
	// References returns the filenames the document mentions. A missing
	// document has none.
	References() ([]string, error)

	// AppendUncategorized lists names under the document's uncategorized
	// section, creating it if needed. It returns how many were appended.
	AppendUncategorized(names []string) (int, error)
}
