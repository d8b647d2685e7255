package hebbian

import "fmt"

// Defaults for a full run.
const (
	DefaultSize          = 64
	DefaultTotalShapes   = 100_000
	DefaultTotalTests    = 1_000
	DefaultRecordFrames  = 1_200
	DefaultExpectedRange = 32.0
)

// Config fixes the shape of a run. It is passed by value and never mutated
// once a Trainer has been built from it.
type Config struct {
	Size          int     // grid edge length
	TotalShapes   int     // training iterations, one rectangle and one circle each
	TotalTests    int     // evaluation iterations, one rectangle and one circle each
	Record        bool    // snapshot weights into frames during training
	RecordFrames  int     // number of leading iterations to snapshot
	ExpectedRange float64 // colour normalisation for exported images
}

// DefaultConfig returns the standard 64x64 run.
func DefaultConfig() Config {
	return Config{
		Size:          DefaultSize,
		TotalShapes:   DefaultTotalShapes,
		TotalTests:    DefaultTotalTests,
		RecordFrames:  DefaultRecordFrames,
		ExpectedRange: DefaultExpectedRange,
	}
}

// Validate checks that the configuration can drive a run.
func (c Config) Validate() error {
	if c.Size <= 0 {
		return fmt.Errorf("size must be positive, got %d", c.Size)
	}
	if c.TotalShapes < 0 {
		return fmt.Errorf("total_shapes must be non-negative, got %d", c.TotalShapes)
	}
	if c.TotalTests < 0 {
		return fmt.Errorf("total_tests must be non-negative, got %d", c.TotalTests)
	}
	if c.RecordFrames < 0 {
		return fmt.Errorf("record_frames must be non-negative, got %d", c.RecordFrames)
	}
	if c.ExpectedRange <= 0 {
		return fmt.Errorf("expected_range must be positive, got %g", c.ExpectedRange)
	}
	return nil
}
