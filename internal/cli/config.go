package cli

import (
	"os"

	"github.com/BurntSushi/toml"

	"github.com/matzehuels/nestmap/pkg/errors"
	"github.com/matzehuels/nestmap/pkg/layout"
	"github.com/matzehuels/nestmap/pkg/pipeline"
)

// fileConfig is the shape of an optional nestmap.toml. Every field is
// optional; unset fields keep their pipeline or engine defaults.
type fileConfig struct {
	Width        float64        `toml:"width"`
	Height       float64        `toml:"height"`
	Formats      []string       `toml:"formats"`
	IncludeTests bool           `toml:"include_tests"`
	Layout       *layout.Config `toml:"layout"`
}

// loadConfig reads a nestmap.toml from path. A missing file is not an
// error; it simply yields no overrides.
func loadConfig(path string) (*fileConfig, error) {
	if _, err := os.Stat(path); os.IsNotExist(err) {
		return nil, nil
	}
	var cfg fileConfig
	if _, err := toml.DecodeFile(path, &cfg); err != nil {
		return nil, errors.Wrap(errors.ErrCodeInvalidConfig, err, "parse %s", path)
	}
	if cfg.Layout != nil {
		// Partial [layout] tables are completed from defaults so users
		// only override the knobs they care about.
		merged := layout.DefaultConfig()
		if _, err := toml.DecodeFile(path, &struct {
			Layout *layout.Config `toml:"layout"`
		}{Layout: merged}); err != nil {
			return nil, errors.Wrap(errors.ErrCodeInvalidConfig, err, "parse %s", path)
		}
		cfg.Layout = merged
		if err := cfg.Layout.Validate(); err != nil {
			return nil, err
		}
	}
	return &cfg, nil
}

// applyConfig layers file configuration under opts: explicit options win,
// file values fill the gaps.
func applyConfig(opts *pipeline.Options, cfg *fileConfig) {
	if cfg == nil {
		return
	}
	if opts.Width == 0 && cfg.Width > 0 {
		opts.Width = cfg.Width
	}
	if opts.Height == 0 && cfg.Height > 0 {
		opts.Height = cfg.Height
	}
	if len(opts.Formats) == 0 && len(cfg.Formats) > 0 {
		opts.Formats = cfg.Formats
	}
	if opts.Layout == nil && cfg.Layout != nil {
		opts.Layout = cfg.Layout
	}
	if cfg.IncludeTests {
		opts.IncludeTests = true
	}
}
