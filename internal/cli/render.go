package cli

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"github.com/matzehuels/nestmap/pkg/pipeline"
	"github.com/matzehuels/nestmap/pkg/tree"
)

// renderCommand creates the render command for one-shot scan+layout+render.
func (c *CLI) renderCommand() *cobra.Command {
	var (
		formatsStr   string
		output       string
		config       string
		includeTests bool
		noCache      bool
		refresh      bool
		width        float64
		height       float64
	)

	cmd := &cobra.Command{
		Use:   "render [path|tree.json]",
		Short: "Scan, lay out, and render in one step",
		Long: `Scan, lay out, and render in one step.

The render command accepts either a source directory (scanned like
'nestmap scan') or a tree.json file, computes the box layout, and writes
one artifact per requested format.

Formats: svg (default), json, dot, png. PNG and DOT rendering go through
Graphviz.

Every stage is cached independently, so re-rendering an unchanged tree
at the same viewport is nearly free.`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			input := "."
			if len(args) > 0 {
				input = args[0]
			}
			formats := parseFormats(formatsStr)
			if err := pipeline.ValidateFormats(formats); err != nil {
				return err
			}
			return c.runRender(cmd.Context(), input, output, config, formats,
				width, height, includeTests, noCache, refresh)
		},
	}

	cmd.Flags().StringVarP(&output, "output", "o", "", "output base path (default: <input>)")
	cmd.Flags().StringVar(&config, "config", configFileName, "configuration file")
	cmd.Flags().BoolVar(&noCache, "no-cache", false, "disable caching")
	cmd.Flags().BoolVar(&refresh, "refresh", false, "bypass the cache and recompute")
	cmd.Flags().BoolVar(&includeTests, "include-tests", false, "include _test.go files")
	cmd.Flags().Float64Var(&width, "width", 0, "viewport width")
	cmd.Flags().Float64Var(&height, "height", 0, "viewport height")
	cmd.Flags().StringVarP(&formatsStr, "format", "f", "", "output format(s): svg (default), json, dot, png (comma-separated)")

	return cmd
}

// runRender executes the full pipeline and writes artifacts.
func (c *CLI) runRender(ctx context.Context, input, output, config string, formats []string, width, height float64, includeTests, noCache, refresh bool) error {
	fileCfg, err := loadConfig(config)
	if err != nil {
		return err
	}

	runner, err := c.newRunner(noCache)
	if err != nil {
		return fmt.Errorf("initialize runner: %w", err)
	}

	opts := pipeline.Options{
		IncludeTests: includeTests,
		Refresh:      refresh,
		Width:        width,
		Height:       height,
		Formats:      formats,
		Logger:       c.Logger,
	}
	if strings.HasSuffix(input, ".json") {
		root, err := tree.ReadFile(input)
		if err != nil {
			return fmt.Errorf("load tree %s: %w", input, err)
		}
		opts.Tree = root
	} else {
		opts.Path = input
	}
	applyConfig(&opts, fileCfg)

	spinner := newSpinnerWithContext(ctx, "Rendering...")
	spinner.Start()

	result, err := runner.Execute(ctx, opts)
	if err != nil {
		spinner.StopWithError("Render failed")
		return fmt.Errorf("render %s: %w", input, err)
	}
	spinner.Stop()

	if ctx.Err() != nil {
		return ctx.Err()
	}

	base := artifactBase(input, output)
	printSuccess("Render complete")
	for _, format := range opts.Formats {
		path := base + "." + format
		if err := os.WriteFile(path, result.Artifacts[format], 0644); err != nil {
			return fmt.Errorf("write %s: %w", path, err)
		}
		printFile(path)
	}
	printStats(result.Stats.NodeCount, result.Stats.HiddenCount, result.CacheInfo.RenderHit)

	return nil
}

// artifactBase derives the artifact base path from input and the optional
// output override. Directories map to "<dir>/nestmap", files drop their
// extension.
func artifactBase(input, output string) string {
	if output != "" {
		return strings.TrimSuffix(output, filepath.Ext(output))
	}
	info, err := os.Stat(input)
	if err == nil && info.IsDir() {
		return filepath.Join(input, appName)
	}
	return strings.TrimSuffix(input, filepath.Ext(input))
}
