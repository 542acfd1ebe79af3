// Package ccdocs mirrors the Claude Code documentation site into a local
// references directory, tracks fetched pages in a hash manifest, and keeps
// a human-maintained index document in sync with the fetched set.
//
// This package contains domain types and interfaces following Ben Johnson's
// Standard Package Layout. Implementations live in subdirectories named
// after their primary dependency (e.g., http/, fs/, goldmark/).
package ccdocs
