package cli

import (
	"context"
	"fmt"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"

	"github.com/matzehuels/nestmap/pkg/pipeline"
	"github.com/matzehuels/nestmap/pkg/tree"
)

// viewCommand creates the view command for interactive tree browsing.
func (c *CLI) viewCommand() *cobra.Command {
	var (
		includeTests bool
		noCache      bool
	)

	cmd := &cobra.Command{
		Use:   "view [path|tree.json]",
		Short: "Browse a weighted tree interactively",
		Long: `Browse a weighted tree interactively.

The view command opens a terminal browser over the tree: expand and
collapse containers, and see each node's category, weight, and share of
the total. Accepts either a source directory (scanned on the fly) or a
tree.json file.`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			input := "."
			if len(args) > 0 {
				input = args[0]
			}
			return c.runView(cmd.Context(), input, includeTests, noCache)
		},
	}

	cmd.Flags().BoolVar(&includeTests, "include-tests", false, "include _test.go files")
	cmd.Flags().BoolVar(&noCache, "no-cache", false, "disable caching")

	return cmd
}

// runView resolves the tree and starts the browser.
func (c *CLI) runView(ctx context.Context, input string, includeTests, noCache bool) error {
	var root *tree.Node
	var err error

	if strings.HasSuffix(input, ".json") {
		root, err = tree.ReadFile(input)
		if err != nil {
			return fmt.Errorf("load tree %s: %w", input, err)
		}
	} else {
		runner, rerr := c.newRunner(noCache)
		if rerr != nil {
			return fmt.Errorf("initialize runner: %w", rerr)
		}
		opts := pipeline.Options{Path: input, IncludeTests: includeTests, Logger: c.Logger}
		if err := opts.ValidateAndSetDefaults(); err != nil {
			return err
		}
		root, _, err = runner.ScanWithCacheInfo(ctx, opts)
		if err != nil {
			return fmt.Errorf("scan %s: %w", input, err)
		}
	}

	program := tea.NewProgram(NewTreeModel(root), tea.WithContext(ctx))
	_, err = program.Run()
	return err
}
