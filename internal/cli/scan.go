package cli

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/matzehuels/nestmap/pkg/pipeline"
	"github.com/matzehuels/nestmap/pkg/tree"
)

// scanCommand creates the scan command for extracting weighted trees from source.
func (c *CLI) scanCommand() *cobra.Command {
	var (
		output       string
		includeTests bool
		noCache      bool
		refresh      bool
	)

	cmd := &cobra.Command{
		Use:   "scan [path]",
		Short: "Scan a Go source tree into a weighted tree",
		Long: `Scan a Go source tree into a weighted tree.

The scan command walks the source tree rooted at path (default: current
directory), parses every Go file, and emits a tree.json where packages
contain files, files contain declarations, and every node is weighted by
the number of source lines it spans.

Results are cached locally keyed on a content fingerprint, so unchanged
trees are returned instantly on subsequent runs.`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			path := "."
			if len(args) > 0 {
				path = args[0]
			}
			return c.runScan(cmd.Context(), path, output, includeTests, noCache, refresh)
		},
	}

	cmd.Flags().StringVarP(&output, "output", "o", "tree.json", "output file")
	cmd.Flags().BoolVar(&includeTests, "include-tests", false, "include _test.go files")
	cmd.Flags().BoolVar(&noCache, "no-cache", false, "disable caching")
	cmd.Flags().BoolVar(&refresh, "refresh", false, "bypass the cache and rescan")

	return cmd
}

// runScan scans the source tree and writes the resulting tree file.
func (c *CLI) runScan(ctx context.Context, path, output string, includeTests, noCache, refresh bool) error {
	runner, err := c.newRunner(noCache)
	if err != nil {
		return fmt.Errorf("initialize runner: %w", err)
	}

	opts := pipeline.Options{
		Path:         path,
		IncludeTests: includeTests,
		Refresh:      refresh,
		Logger:       c.Logger,
	}
	if err := opts.ValidateAndSetDefaults(); err != nil {
		return err
	}

	spinner := newSpinnerWithContext(ctx, fmt.Sprintf("Scanning %s...", path))
	spinner.Start()

	root, cacheHit, err := runner.ScanWithCacheInfo(ctx, opts)
	if err != nil {
		spinner.StopWithError("Scan failed")
		return fmt.Errorf("scan %s: %w", path, err)
	}
	spinner.Stop()

	if ctx.Err() != nil {
		return ctx.Err()
	}

	if err := tree.WriteFile(root, output); err != nil {
		return fmt.Errorf("write output %s: %w", output, err)
	}

	printSuccess("Scan complete")
	printFile(output)
	printStats(root.Count(), 0, cacheHit)
	printNewline()
	printNextStep("Layout", "nestmap layout "+output)

	return nil
}
