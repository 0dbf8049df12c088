package cli

import (
	"context"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/matzehuels/nestmap/pkg/cache"
	"github.com/matzehuels/nestmap/pkg/layout"
	"github.com/matzehuels/nestmap/pkg/pipeline"
	"github.com/matzehuels/nestmap/pkg/render"
	"github.com/matzehuels/nestmap/pkg/tree"
)

// layoutCommand creates the layout command for computing box layouts.
func (c *CLI) layoutCommand() *cobra.Command {
	var (
		output  string
		config  string
		noCache bool
		width   float64
		height  float64
	)

	cmd := &cobra.Command{
		Use:   "layout [tree.json]",
		Short: "Compute a nested box layout from a weighted tree",
		Long: `Compute a nested box layout from a weighted tree.

The layout command takes a tree.json file (produced by 'scan') and packs
the hierarchy into the given viewport. The output is a layout.json with
absolute coordinates for every box, ready for 'nestmap render' or any
external renderer.

Engine knobs can be overridden via a nestmap.toml [layout] table.

Results are cached locally for faster subsequent runs.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return c.runLayout(cmd.Context(), args[0], output, config, width, height, noCache)
		},
	}

	cmd.Flags().StringVarP(&output, "output", "o", "", "output file (default: <input>.layout.json)")
	cmd.Flags().StringVar(&config, "config", configFileName, "configuration file")
	cmd.Flags().BoolVar(&noCache, "no-cache", false, "disable caching")
	cmd.Flags().Float64Var(&width, "width", 0, "viewport width")
	cmd.Flags().Float64Var(&height, "height", 0, "viewport height")

	return cmd
}

// runLayout loads the tree, computes the layout, and writes output.
func (c *CLI) runLayout(ctx context.Context, input, output, config string, width, height float64, noCache bool) error {
	root, err := tree.ReadFile(input)
	if err != nil {
		return fmt.Errorf("load tree %s: %w", input, err)
	}

	fileCfg, err := loadConfig(config)
	if err != nil {
		return err
	}

	runner, err := c.newRunner(noCache)
	if err != nil {
		return fmt.Errorf("initialize runner: %w", err)
	}

	opts := pipeline.Options{
		Tree:   root,
		Width:  width,
		Height: height,
		Logger: c.Logger,
	}
	applyConfig(&opts, fileCfg)
	if err := opts.ValidateAndSetDefaults(); err != nil {
		return err
	}

	data, err := tree.Marshal(root)
	if err != nil {
		return fmt.Errorf("hash tree: %w", err)
	}
	treeHash := cache.Hash(data)

	spinner := newSpinnerWithContext(ctx, "Computing layout...")
	spinner.Start()

	laid, cacheHit, err := runner.LayoutWithCacheInfo(ctx, root, treeHash, opts)
	if err != nil {
		spinner.StopWithError("Layout failed")
		return fmt.Errorf("compute layout: %w", err)
	}
	spinner.Stop()

	if ctx.Err() != nil {
		return ctx.Err()
	}

	outputPath := derivedOutput(input, output, ".layout.json")
	artifact, err := render.MarshalJSON(laid)
	if err != nil {
		return fmt.Errorf("encode layout: %w", err)
	}
	if err := os.WriteFile(outputPath, artifact, 0644); err != nil {
		return fmt.Errorf("write output %s: %w", outputPath, err)
	}

	stats := layout.Summarize(laid)
	printSuccess("Layout complete")
	printFile(outputPath)
	printStats(stats.Nodes, stats.Hidden, cacheHit)
	printNewline()
	printNextStep("Render", "nestmap render "+input)

	return nil
}
