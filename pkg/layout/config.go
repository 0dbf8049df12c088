package layout

import (
	"github.com/matzehuels/nestmap/pkg/errors"
)

// Heuristic selects the free-rectangle scoring strategy used by the bin
// packer.
type Heuristic string

// Packing heuristics.
const (
	// BestShortSideFit minimizes the smaller of the two leftover margins.
	// This is the default and tends to produce the tightest packings.
	BestShortSideFit Heuristic = "short-side"
	// BestAreaFit minimizes leftover area, with short-side as tie-break.
	BestAreaFit Heuristic = "area"
	// BestLongSideFit minimizes the larger of the two leftover margins.
	BestLongSideFit Heuristic = "long-side"
)

// DiagnosticFunc receives optional diagnostics events from a layout pass.
// The engine holds no ambient logger; callers that want insight into
// placement decisions inject a callback here. Events include
// "grid_selected", "targets_expanded", "fallback_used" and "child_hidden".
type DiagnosticFunc func(event string, fields map[string]any)

// Config carries every knob the layout engine recognizes. The zero value is
// not usable; start from [DefaultConfig] and override fields as needed.
// Validate rejects inconsistent configurations before any layout work runs.
type Config struct {
	// MinBoxSize is the smallest width or height at which a node is drawn
	// at all; below it the node's render mode is ModeNone.
	MinBoxSize float64 `json:"min_box_size" toml:"min_box_size"`

	// MinTextWidth and MinTextHeight are the smallest dimensions at which
	// a node's label is considered readable (ModeText).
	MinTextWidth  float64 `json:"min_text_width" toml:"min_text_width"`
	MinTextHeight float64 `json:"min_text_height" toml:"min_text_height"`

	// PrefWidth and PrefHeight are the size a leaf attempts when its
	// allocation permits.
	PrefWidth  float64 `json:"pref_width" toml:"pref_width"`
	PrefHeight float64 `json:"pref_height" toml:"pref_height"`

	// MinAspectRatio and MaxAspectRatio bound w/h for leaves sized beyond
	// their preferred dimensions. Readability wins over space consumption.
	MinAspectRatio float64 `json:"min_aspect_ratio" toml:"min_aspect_ratio"`
	MaxAspectRatio float64 `json:"max_aspect_ratio" toml:"max_aspect_ratio"`

	// HeaderHeight is the base height of a container's header band. The
	// effective height shrinks slightly with depth (HeaderDepthScale) and
	// is capped at HeaderMaxFraction of the available height.
	HeaderHeight      float64 `json:"header_height" toml:"header_height"`
	HeaderDepthScale  float64 `json:"header_depth_scale" toml:"header_depth_scale"`
	HeaderMaxFraction float64 `json:"header_max_fraction" toml:"header_max_fraction"`

	// Padding insets a container's content area on all sides.
	Padding float64 `json:"padding" toml:"padding"`

	// GridThresholdChildCount is the minimum number of loose leaves before
	// the grid selector considers multi-row arrangements.
	GridThresholdChildCount int `json:"grid_threshold_child_count" toml:"grid_threshold_child_count"`

	// GridMinRatio, GridIdealRatio and GridMaxRatio bound the per-cell
	// aspect ratio the grid selector accepts; row counts are scored by
	// distance from GridIdealRatio.
	GridMinRatio   float64 `json:"grid_min_ratio" toml:"grid_min_ratio"`
	GridIdealRatio float64 `json:"grid_ideal_ratio" toml:"grid_ideal_ratio"`
	GridMaxRatio   float64 `json:"grid_max_ratio" toml:"grid_max_ratio"`

	// UtilizationLowThreshold and UtilizationCriticalThreshold drive the
	// space-utilization optimizer (see optimizeTargets).
	UtilizationLowThreshold      float64 `json:"utilization_low_threshold" toml:"utilization_low_threshold"`
	UtilizationCriticalThreshold float64 `json:"utilization_critical_threshold" toml:"utilization_critical_threshold"`

	// PackingHeuristic selects the free-rectangle scoring strategy.
	PackingHeuristic Heuristic `json:"packing_heuristic" toml:"packing_heuristic"`

	// MinUsableResidualWidth/Height: split residuals smaller than this are
	// discarded rather than retained as unusable slivers.
	MinUsableResidualWidth  float64 `json:"min_usable_residual_width" toml:"min_usable_residual_width"`
	MinUsableResidualHeight float64 `json:"min_usable_residual_height" toml:"min_usable_residual_height"`

	// FallbackWidthFraction is how much of a free rectangle's width the
	// adaptive fallback may consume; FallbackMaxAspectRatio is the hard
	// aspect cap it enforces while squeezing.
	FallbackWidthFraction  float64 `json:"fallback_width_fraction" toml:"fallback_width_fraction"`
	FallbackMaxAspectRatio float64 `json:"fallback_max_aspect_ratio" toml:"fallback_max_aspect_ratio"`

	// Diagnostics, when non-nil, receives layout events. Never serialized.
	Diagnostics DiagnosticFunc `json:"-" toml:"-"`
}

// DefaultConfig returns the documented default configuration.
func DefaultConfig() *Config {
	return &Config{
		MinBoxSize:                   4,
		MinTextWidth:                 24,
		MinTextHeight:                12,
		PrefWidth:                    80,
		PrefHeight:                   40,
		MinAspectRatio:               1.0,
		MaxAspectRatio:               4.5,
		HeaderHeight:                 18,
		HeaderDepthScale:             0.95,
		HeaderMaxFraction:            1.0 / 3.0,
		Padding:                      4,
		GridThresholdChildCount:      6,
		GridMinRatio:                 0.75,
		GridIdealRatio:               2.5,
		GridMaxRatio:                 4.0,
		UtilizationLowThreshold:      0.8,
		UtilizationCriticalThreshold: 0.6,
		PackingHeuristic:             BestShortSideFit,
		MinUsableResidualWidth:       20,
		MinUsableResidualHeight:      12,
		FallbackWidthFraction:        0.98,
		FallbackMaxAspectRatio:       6.0,
	}
}

// Validate checks the configuration for internal consistency. It is the
// engine's only hard failure mode and runs once per Build call, outside the
// recursion.
func (c *Config) Validate() error {
	if c.MinBoxSize <= 0 {
		return errors.New(errors.ErrCodeInvalidConfig, "min_box_size must be positive, got %v", c.MinBoxSize)
	}
	if c.MinTextWidth < c.MinBoxSize || c.MinTextHeight < c.MinBoxSize {
		return errors.New(errors.ErrCodeInvalidConfig, "min text dimensions (%vx%v) must be at least min_box_size (%v)",
			c.MinTextWidth, c.MinTextHeight, c.MinBoxSize)
	}
	if c.MinTextWidth > c.PrefWidth {
		return errors.New(errors.ErrCodeInvalidConfig, "min_text_width (%v) exceeds pref_width (%v)", c.MinTextWidth, c.PrefWidth)
	}
	if c.MinTextHeight > c.PrefHeight {
		return errors.New(errors.ErrCodeInvalidConfig, "min_text_height (%v) exceeds pref_height (%v)", c.MinTextHeight, c.PrefHeight)
	}
	if c.MinAspectRatio <= 0 || c.MinAspectRatio > c.MaxAspectRatio {
		return errors.New(errors.ErrCodeInvalidConfig, "aspect ratio bounds [%v, %v] are invalid", c.MinAspectRatio, c.MaxAspectRatio)
	}
	if c.HeaderHeight < 0 || c.Padding < 0 {
		return errors.New(errors.ErrCodeInvalidConfig, "header_height and padding must be non-negative")
	}
	if c.HeaderDepthScale <= 0 || c.HeaderDepthScale > 1 {
		return errors.New(errors.ErrCodeInvalidConfig, "header_depth_scale must be in (0, 1], got %v", c.HeaderDepthScale)
	}
	if c.HeaderMaxFraction <= 0 || c.HeaderMaxFraction >= 1 {
		return errors.New(errors.ErrCodeInvalidConfig, "header_max_fraction must be in (0, 1), got %v", c.HeaderMaxFraction)
	}
	if c.GridThresholdChildCount < 2 {
		return errors.New(errors.ErrCodeInvalidConfig, "grid_threshold_child_count must be at least 2, got %d", c.GridThresholdChildCount)
	}
	if c.GridMinRatio <= 0 || c.GridMinRatio > c.GridIdealRatio || c.GridIdealRatio > c.GridMaxRatio {
		return errors.New(errors.ErrCodeInvalidConfig, "grid ratio bounds [%v, %v, %v] must be increasing and positive",
			c.GridMinRatio, c.GridIdealRatio, c.GridMaxRatio)
	}
	if c.UtilizationCriticalThreshold <= 0 || c.UtilizationCriticalThreshold > c.UtilizationLowThreshold || c.UtilizationLowThreshold > 1 {
		return errors.New(errors.ErrCodeInvalidConfig, "utilization thresholds (critical %v, low %v) must satisfy 0 < critical <= low <= 1",
			c.UtilizationCriticalThreshold, c.UtilizationLowThreshold)
	}
	switch c.PackingHeuristic {
	case BestShortSideFit, BestAreaFit, BestLongSideFit:
	default:
		return errors.New(errors.ErrCodeInvalidConfig, "unknown packing heuristic %q", c.PackingHeuristic)
	}
	if c.MinUsableResidualWidth < 0 || c.MinUsableResidualHeight < 0 {
		return errors.New(errors.ErrCodeInvalidConfig, "residual minimums must be non-negative")
	}
	if c.FallbackWidthFraction <= 0 || c.FallbackWidthFraction > 1 {
		return errors.New(errors.ErrCodeInvalidConfig, "fallback_width_fraction must be in (0, 1], got %v", c.FallbackWidthFraction)
	}
	if c.FallbackMaxAspectRatio < c.MaxAspectRatio {
		return errors.New(errors.ErrCodeInvalidConfig, "fallback_max_aspect_ratio (%v) must be at least max_aspect_ratio (%v)",
			c.FallbackMaxAspectRatio, c.MaxAspectRatio)
	}
	return nil
}

// diag emits a diagnostics event if a callback is configured.
func (c *Config) diag(event string, fields map[string]any) {
	if c.Diagnostics != nil {
		c.Diagnostics(event, fields)
	}
}
