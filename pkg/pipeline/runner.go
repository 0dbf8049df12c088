package pipeline

import (
	"context"
	"encoding/json"
	"time"

	"github.com/charmbracelet/log"

	"github.com/matzehuels/nestmap/pkg/cache"
	"github.com/matzehuels/nestmap/pkg/errors"
	"github.com/matzehuels/nestmap/pkg/layout"
	"github.com/matzehuels/nestmap/pkg/observability"
	"github.com/matzehuels/nestmap/pkg/render"
	"github.com/matzehuels/nestmap/pkg/source/golang"
	"github.com/matzehuels/nestmap/pkg/tree"
)

// Runner encapsulates pipeline execution with caching.
//
// The Runner is stateless except for the cache and logger - it doesn't
// store pipeline results. Multiple goroutines can safely use the same
// Runner with different options.
type Runner struct {
	Cache  cache.Cache
	Keyer  cache.Keyer
	Logger *log.Logger
}

// NewRunner creates a runner with the given cache and keyer.
// If keyer is nil, a DefaultKeyer is used.
// If cache is nil, a NullCache is used (caching disabled).
func NewRunner(c cache.Cache, keyer cache.Keyer, logger *log.Logger) *Runner {
	if keyer == nil {
		keyer = cache.NewDefaultKeyer()
	}
	if c == nil {
		c = cache.NewNullCache()
	}
	if logger == nil {
		logger = log.Default()
	}
	return &Runner{Cache: c, Keyer: keyer, Logger: logger}
}

// Execute runs the complete scan → layout → render pipeline with caching.
func (r *Runner) Execute(ctx context.Context, opts Options) (*Result, error) {
	if err := opts.ValidateAndSetDefaults(); err != nil {
		return nil, errors.Wrap(errors.ErrCodeInvalidInput, err, "invalid options")
	}
	r.applyLogger(&opts)

	result := &Result{Artifacts: make(map[string][]byte)}

	// Stage 1: Scan
	scanStart := time.Now()
	root, scanHit, err := r.ScanWithCacheInfo(ctx, opts)
	if err != nil {
		return nil, err
	}
	result.Tree = root
	result.Stats.ScanTime = time.Since(scanStart)
	result.Stats.NodeCount = root.Count()
	result.CacheInfo.ScanHit = scanHit

	if data, err := tree.Marshal(root); err == nil {
		result.TreeHash = cache.Hash(data)
	}

	opts.Logger.Info("scanned source tree",
		"nodes", result.Stats.NodeCount,
		"cached", scanHit,
		"duration", result.Stats.ScanTime)

	// Stage 2: Layout
	layoutStart := time.Now()
	laid, layoutHit, err := r.LayoutWithCacheInfo(ctx, root, result.TreeHash, opts)
	if err != nil {
		return nil, err
	}
	result.Layout = laid
	result.Stats.LayoutTime = time.Since(layoutStart)
	result.CacheInfo.LayoutHit = layoutHit

	summary := layout.Summarize(laid)
	result.Stats.PlacedCount = summary.Nodes
	result.Stats.HiddenCount = summary.Hidden

	opts.Logger.Info("computed layout",
		"placed", summary.Nodes,
		"hidden", summary.Hidden,
		"cached", layoutHit,
		"duration", result.Stats.LayoutTime)

	// Stage 3: Render
	renderStart := time.Now()
	artifacts, renderHit, err := r.RenderWithCacheInfo(ctx, laid, opts)
	if err != nil {
		return nil, err
	}
	result.Artifacts = artifacts
	result.Stats.RenderTime = time.Since(renderStart)
	result.CacheInfo.RenderHit = renderHit

	opts.Logger.Info("rendered outputs",
		"formats", opts.Formats,
		"cached", renderHit,
		"duration", result.Stats.RenderTime)

	return result, nil
}

// ScanWithCacheInfo builds the input tree, consulting the cache when the
// scanner can fingerprint its inputs. A tree supplied directly in the
// options bypasses both scanner and cache.
func (r *Runner) ScanWithCacheInfo(ctx context.Context, opts Options) (*tree.Node, bool, error) {
	if opts.Tree != nil {
		if err := opts.Tree.Validate(); err != nil {
			return nil, false, err
		}
		return opts.Tree, false, nil
	}

	scanner := opts.Scanner
	if scanner == nil {
		scanner = golang.New(golang.Options{IncludeTests: opts.IncludeTests})
	}

	hooks := observability.Pipeline()
	hooks.OnScanStart(ctx, opts.Path)
	start := time.Now()

	key := ""
	if fp, ok := scanner.(interface{ Fingerprint(string) (string, error) }); ok {
		if print, err := fp.Fingerprint(opts.Path); err == nil {
			key = r.Keyer.TreeKey(scanner.Name(), print)
		}
	}

	if key != "" && !opts.Refresh {
		if data, ok, err := r.Cache.Get(ctx, key); err == nil && ok {
			if root, err := tree.Unmarshal(data); err == nil {
				hooks.OnScanComplete(ctx, opts.Path, root.Count(), time.Since(start), nil)
				return root, true, nil
			}
		}
	}

	root, err := scanner.Scan(ctx, opts.Path)
	if err != nil {
		hooks.OnScanComplete(ctx, opts.Path, 0, time.Since(start), err)
		return nil, false, err
	}
	hooks.OnScanComplete(ctx, opts.Path, root.Count(), time.Since(start), nil)

	if key != "" {
		if data, err := tree.Marshal(root); err == nil {
			if err := r.Cache.Set(ctx, key, data, DefaultTTL); err != nil {
				opts.Logger.Warn("failed to cache scan result", "err", err)
			}
		}
	}
	return root, false, nil
}

// LayoutWithCacheInfo computes the layout, consulting the cache keyed by
// tree hash, viewport, and configuration.
func (r *Runner) LayoutWithCacheInfo(ctx context.Context, root *tree.Node, treeHash string, opts Options) (*layout.Node, bool, error) {
	key := ""
	if treeHash != "" {
		key = r.Keyer.LayoutKey(treeHash, r.layoutKeyOpts(opts))
	}

	hooks := observability.Pipeline()
	hooks.OnLayoutStart(ctx, root.Count())
	start := time.Now()

	if key != "" && !opts.Refresh {
		if data, ok, err := r.Cache.Get(ctx, key); err == nil && ok {
			var laid layout.Node
			if err := json.Unmarshal(data, &laid); err == nil {
				s := layout.Summarize(&laid)
				hooks.OnLayoutComplete(ctx, s.Nodes, s.Hidden, time.Since(start), nil)
				return &laid, true, nil
			}
		}
	}

	laid, err := layout.Build(root, opts.Width, opts.Height, opts.Layout)
	if err != nil {
		hooks.OnLayoutComplete(ctx, root.Count(), 0, time.Since(start), err)
		return nil, false, err
	}
	s := layout.Summarize(laid)
	hooks.OnLayoutComplete(ctx, s.Nodes, s.Hidden, time.Since(start), nil)

	if key != "" {
		if data, err := json.Marshal(laid); err == nil {
			if err := r.Cache.Set(ctx, key, data, DefaultTTL); err != nil {
				opts.Logger.Warn("failed to cache layout", "err", err)
			}
		}
	}
	return laid, false, nil
}

// RenderWithCacheInfo produces all requested artifacts. The hit flag is
// set only when every format came from cache.
func (r *Runner) RenderWithCacheInfo(ctx context.Context, laid *layout.Node, opts Options) (map[string][]byte, bool, error) {
	hooks := observability.Pipeline()
	hooks.OnRenderStart(ctx, opts.Formats)
	start := time.Now()

	layoutHash := ""
	if data, err := json.Marshal(laid); err == nil {
		layoutHash = cache.Hash(data)
	}

	artifacts := make(map[string][]byte, len(opts.Formats))
	allHit := true
	for _, format := range opts.Formats {
		key := ""
		if layoutHash != "" {
			key = r.Keyer.ArtifactKey(layoutHash, cache.ArtifactKeyOpts{Format: format})
		}
		if key != "" && !opts.Refresh {
			if data, ok, err := r.Cache.Get(ctx, key); err == nil && ok {
				artifacts[format] = data
				continue
			}
		}
		allHit = false

		data, err := r.renderFormat(ctx, laid, format)
		if err != nil {
			hooks.OnRenderComplete(ctx, opts.Formats, time.Since(start), err)
			return nil, false, err
		}
		artifacts[format] = data

		if key != "" {
			if err := r.Cache.Set(ctx, key, data, DefaultTTL); err != nil {
				opts.Logger.Warn("failed to cache artifact", "format", format, "err", err)
			}
		}
	}

	hooks.OnRenderComplete(ctx, opts.Formats, time.Since(start), nil)
	return artifacts, allHit && len(opts.Formats) > 0, nil
}

func (r *Runner) renderFormat(ctx context.Context, laid *layout.Node, format string) ([]byte, error) {
	switch format {
	case FormatSVG:
		return render.RenderSVG(laid), nil
	case FormatJSON:
		return render.MarshalJSON(laid)
	case FormatDOT:
		return []byte(render.ToDOT(laid)), nil
	case FormatPNG:
		return render.RenderDOTPNG(ctx, render.ToDOT(laid))
	default:
		return nil, errors.New(errors.ErrCodeInvalidFormat, "invalid format: %q", format)
	}
}

func (r *Runner) layoutKeyOpts(opts Options) cache.LayoutKeyOpts {
	cfg := ""
	if data, err := json.Marshal(opts.Layout); err == nil {
		cfg = string(data)
	}
	return cache.LayoutKeyOpts{Width: opts.Width, Height: opts.Height, Config: cfg}
}

func (r *Runner) applyLogger(opts *Options) {
	if opts.Logger == nil {
		opts.Logger = r.Logger
	}
}
