package main

import (
	"fmt"

	"github.com/chrisboden/ccdocs"
)

// Run fetches the documentation, or with --validate only inspects the
// references directory, and then reconciles the result with the index
// document.
func (c *CLI) Run(deps *Dependencies) error {
	var fetched []string
	if c.Validate {
		names, err := deps.Files.List()
		if err != nil {
			return fmt.Errorf("failed to list references: %w", err)
		}
		fetched = names
	} else {
		res, err := deps.Syncer.Run(deps.Ctx)
		if res != nil {
			fmt.Fprintf(deps.Stdout, "Fetch completed: %d successful, %d failed\n", res.Successful, res.Failed)
			for _, p := range res.FailedPages {
				fmt.Fprintf(deps.Stdout, "  failed: %s\n", p)
			}
		}
		if err != nil {
			deps.Logger.Error("fetch failed", "err", err)
			return err
		}
		fetched = res.Fetched
	}

	return c.reconcile(deps, fetched)
}

// reconcile reports the differences between the index document and the
// fetched files, appending unreferenced files to it when requested.
func (c *CLI) reconcile(deps *Dependencies, fetched []string) error {
	referenced, err := deps.Index.References()
	if err != nil {
		return fmt.Errorf("failed to read index document: %w", err)
	}

	excluded := append([]string{deps.Config.ManifestFile}, deps.Config.ProtectedFiles...)
	report := ccdocs.Reconcile(referenced, fetched, excluded)

	if len(report.Orphaned) > 0 {
		fmt.Fprintf(deps.Stdout, "Orphaned references in %s (files don't exist):\n", deps.Config.IndexFile)
		for _, name := range report.Orphaned {
			deps.Logger.Warn("orphaned reference", "file", name)
			fmt.Fprintf(deps.Stdout, "  - %s\n", name)
		}
	}

	if len(report.Unreferenced) > 0 {
		fmt.Fprintf(deps.Stdout, "Unreferenced files (not in %s):\n", deps.Config.IndexFile)
		for _, name := range report.Unreferenced {
			deps.Logger.Info("unreferenced file", "file", name)
			fmt.Fprintf(deps.Stdout, "  - %s\n", name)
		}

		if c.UpdateSkill {
			n, err := deps.Index.AppendUncategorized(report.Unreferenced)
			if err != nil {
				deps.Logger.Error("failed to update index document", "err", err)
				return err
			}
			deps.Logger.Info("added files to uncategorized section", "count", n)
			fmt.Fprintf(deps.Stdout, "Added %d files to the uncategorized section of %s\n", n, deps.Config.IndexFile)
		}
	}

	if report.InSync() {
		fmt.Fprintf(deps.Stdout, "%s is in sync with fetched files\n", deps.Config.IndexFile)
	}
	return nil
}
