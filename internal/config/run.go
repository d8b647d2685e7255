package config

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	"github.com/banshee-data/shapegrid/internal/hebbian"
	"github.com/banshee-data/shapegrid/internal/shapes"
)

// DefaultConfigPath is the checked-in run configuration with the standard
// 64x64 settings spelled out.
const DefaultConfigPath = "config/run.defaults.json"

// Defaults for fields that hebbian.DefaultConfig does not cover.
const (
	DefaultSeed      uint64 = 1
	DefaultOutputDir        = "out"
	DefaultStrategy         = "centered"
	DefaultRangeRule        = "half-open"
)

// RunConfig is the JSON configuration for one training and evaluation run.
// Every field is optional; nil fields fall back to the Get* defaults so
// partial files are safe.
type RunConfig struct {
	// Core run shape
	Size          *int     `json:"size,omitempty"`
	TotalShapes   *int     `json:"total_shapes,omitempty"`
	TotalTests    *int     `json:"total_tests,omitempty"`
	Record        *bool    `json:"record,omitempty"`
	RecordFrames  *int     `json:"record_frames,omitempty"`
	ExpectedRange *float64 `json:"expected_range,omitempty"`

	// Shape sampling
	Strategy  *string `json:"strategy,omitempty"`   // "centered" or "uniform"
	RangeRule *string `json:"range_rule,omitempty"` // "half-open" or "legacy"
	Seed      *uint64 `json:"seed,omitempty"`

	// Outputs
	OutputDir  *string `json:"output_dir,omitempty"`
	Plots      *bool   `json:"plots,omitempty"`
	Heatmaps   *bool   `json:"heatmaps,omitempty"`
	ColorScale *bool   `json:"color_scale,omitempty"` // reference image of the colour map
	DBPath     *string `json:"db_path,omitempty"`     // empty disables run history
}

// Helper functions to create pointers
func ptrFloat64(v float64) *float64 { return &v }
func ptrBool(v bool) *bool          { return &v }
func ptrString(v string) *string    { return &v }
func ptrInt(v int) *int             { return &v }
func ptrUint64(v uint64) *uint64    { return &v }

// EmptyRunConfig returns a RunConfig with all fields nil.
func EmptyRunConfig() *RunConfig {
	return &RunConfig{}
}

// DefaultRunConfig returns a RunConfig with every field set to its default.
func DefaultRunConfig() *RunConfig {
	d := hebbian.DefaultConfig()
	return &RunConfig{
		Size:          ptrInt(d.Size),
		TotalShapes:   ptrInt(d.TotalShapes),
		TotalTests:    ptrInt(d.TotalTests),
		Record:        ptrBool(false),
		RecordFrames:  ptrInt(d.RecordFrames),
		ExpectedRange: ptrFloat64(d.ExpectedRange),
		Strategy:      ptrString(DefaultStrategy),
		RangeRule:     ptrString(DefaultRangeRule),
		Seed:          ptrUint64(DefaultSeed),
		OutputDir:     ptrString(DefaultOutputDir),
		Plots:         ptrBool(false),
		Heatmaps:      ptrBool(false),
		ColorScale:    ptrBool(false),
		DBPath:        ptrString(""),
	}
}

// LoadRunConfig loads a RunConfig from a JSON file.
// The file must have a .json extension and be under 1MB.
func LoadRunConfig(path string) (*RunConfig, error) {
	cleanPath := filepath.Clean(path)
	if ext := filepath.Ext(cleanPath); ext != ".json" {
		return nil, fmt.Errorf("config file must have .json extension, got %q", ext)
	}

	fileInfo, err := os.Stat(cleanPath)
	if err != nil {
		return nil, fmt.Errorf("failed to stat config file: %w", err)
	}
	const maxFileSize = 1 * 1024 * 1024 // 1MB
	if fileInfo.Size() > maxFileSize {
		return nil, fmt.Errorf("config file too large: %d bytes (max %d)", fileInfo.Size(), maxFileSize)
	}

	data, err := os.ReadFile(cleanPath)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	cfg := EmptyRunConfig()
	if err := json.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config JSON: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	return cfg, nil
}

// Validate checks that the configuration values are usable.
func (c *RunConfig) Validate() error {
	if err := c.TrainerConfig().Validate(); err != nil {
		return err
	}
	if c.GetSize() < 4 {
		return fmt.Errorf("size must be at least 4, got %d", c.GetSize())
	}
	if _, err := shapes.ParseStrategy(c.GetStrategy()); err != nil {
		return err
	}
	if _, err := shapes.ParseRangeRule(c.GetRangeRule()); err != nil {
		return err
	}
	return nil
}

// TrainerConfig returns the immutable trainer configuration.
func (c *RunConfig) TrainerConfig() hebbian.Config {
	return hebbian.Config{
		Size:          c.GetSize(),
		TotalShapes:   c.GetTotalShapes(),
		TotalTests:    c.GetTotalTests(),
		Record:        c.GetRecord(),
		RecordFrames:  c.GetRecordFrames(),
		ExpectedRange: c.GetExpectedRange(),
	}
}

// NewGenerator builds the shape generator described by the configuration.
func (c *RunConfig) NewGenerator() (*shapes.Generator, error) {
	strategy, err := shapes.ParseStrategy(c.GetStrategy())
	if err != nil {
		return nil, err
	}
	rule, err := shapes.ParseRangeRule(c.GetRangeRule())
	if err != nil {
		return nil, err
	}
	return shapes.NewGenerator(c.GetSize(), strategy, rule, c.GetSeed()), nil
}

// GetSize returns the grid size or the default.
func (c *RunConfig) GetSize() int {
	if c.Size == nil {
		return hebbian.DefaultSize
	}
	return *c.Size
}

// GetTotalShapes returns the training iteration count or the default.
func (c *RunConfig) GetTotalShapes() int {
	if c.TotalShapes == nil {
		return hebbian.DefaultTotalShapes
	}
	return *c.TotalShapes
}

// GetTotalTests returns the evaluation iteration count or the default.
func (c *RunConfig) GetTotalTests() int {
	if c.TotalTests == nil {
		return hebbian.DefaultTotalTests
	}
	return *c.TotalTests
}

// GetRecord returns whether frame recording is on. Default false.
func (c *RunConfig) GetRecord() bool {
	return c.Record != nil && *c.Record
}

// GetRecordFrames returns the number of recorded frames or the default.
func (c *RunConfig) GetRecordFrames() int {
	if c.RecordFrames == nil {
		return hebbian.DefaultRecordFrames
	}
	return *c.RecordFrames
}

// GetExpectedRange returns the colour normalisation range or the default.
func (c *RunConfig) GetExpectedRange() float64 {
	if c.ExpectedRange == nil {
		return hebbian.DefaultExpectedRange
	}
	return *c.ExpectedRange
}

// GetStrategy returns the shape strategy name or the default.
func (c *RunConfig) GetStrategy() string {
	if c.Strategy == nil || *c.Strategy == "" {
		return DefaultStrategy
	}
	return *c.Strategy
}

// GetRangeRule returns the range rule name or the default.
func (c *RunConfig) GetRangeRule() string {
	if c.RangeRule == nil || *c.RangeRule == "" {
		return DefaultRangeRule
	}
	return *c.RangeRule
}

// GetSeed returns the random seed or the default.
func (c *RunConfig) GetSeed() uint64 {
	if c.Seed == nil {
		return DefaultSeed
	}
	return *c.Seed
}

// GetOutputDir returns the artifact directory or the default.
func (c *RunConfig) GetOutputDir() string {
	if c.OutputDir == nil || *c.OutputDir == "" {
		return DefaultOutputDir
	}
	return *c.OutputDir
}

// GetPlots returns whether training plots are written. Default false.
func (c *RunConfig) GetPlots() bool {
	return c.Plots != nil && *c.Plots
}

// GetHeatmaps returns whether HTML heatmaps are written. Default false.
func (c *RunConfig) GetHeatmaps() bool {
	return c.Heatmaps != nil && *c.Heatmaps
}

// GetColorScale returns whether the colour scale image is written. Default false.
func (c *RunConfig) GetColorScale() bool {
	return c.ColorScale != nil && *c.ColorScale
}

// GetDBPath returns the run history database path. Empty disables it.
func (c *RunConfig) GetDBPath() string {
	if c.DBPath == nil {
		return ""
	}
	return *c.DBPath
}
