package hebbian

import (
	"fmt"
	"math"

	"gonum.org/v1/gonum/stat"

	"github.com/banshee-data/shapegrid/internal/grid"
	"github.com/banshee-data/shapegrid/internal/monitoring"
	"github.com/banshee-data/shapegrid/internal/shapes"
)

// FrameSink receives weight snapshots during training. The grid passed to
// RecordFrame is the live weight grid; implementations must not keep or
// modify it after returning.
type FrameSink interface {
	RecordFrame(index int, weights *grid.Grid) error
}

// Event describes one training sample after the learning rule ran.
type Event struct {
	Iteration   int
	Kind        shapes.Kind
	Score       float64
	Accumulated bool
}

// Observer is called once per training sample, in order.
type Observer func(Event)

// Option customises a Trainer.
type Option func(*Trainer)

// WithFrameSink routes weight snapshots to sink when Config.Record is set.
func WithFrameSink(sink FrameSink) Option {
	return func(t *Trainer) { t.frames = sink }
}

// WithObserver registers an observer for training events. Multiple observers
// run in registration order.
func WithObserver(obs Observer) Option {
	return func(t *Trainer) {
		if obs != nil {
			t.observers = append(t.observers, obs)
		}
	}
}

// TrainStats summarises a training phase.
type TrainStats struct {
	Iterations        int
	RectAccumulated   int
	CircleAccumulated int
	MeanRectScore     float64
	MeanCircleScore   float64
	FramesRecorded    int
}

// Report summarises an evaluation phase.
type Report struct {
	Tests           int
	RectCorrect     int
	CircleCorrect   int
	RectAccuracy    float64 // percent, one decimal place
	CircleAccuracy  float64 // percent, one decimal place
	MeanRectScore   float64
	MeanCircleScore float64

	// Sum of every rectangle and circle sample drawn during evaluation.
	RectAggregate   *grid.Grid
	CircleAggregate *grid.Grid
}

// Trainer owns the weight grid for the lifetime of a run.
type Trainer struct {
	cfg       Config
	src       shapes.Source
	weights   *grid.Grid
	frames    FrameSink
	observers []Observer
}

// NewTrainer allocates an all-zero weight grid sized by cfg.
func NewTrainer(cfg Config, src shapes.Source, opts ...Option) (*Trainer, error) {
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid trainer config: %w", err)
	}
	if src == nil {
		return nil, fmt.Errorf("shape source is required")
	}

	t := &Trainer{
		cfg:     cfg,
		src:     src,
		weights: grid.New(cfg.Size),
	}
	for _, opt := range opts {
		opt(t)
	}
	return t, nil
}

// Config returns the run configuration.
func (t *Trainer) Config() Config { return t.cfg }

// Weights returns the live weight grid.
func (t *Trainer) Weights() *grid.Grid { return t.weights }

// Train runs TotalShapes iterations of the learning rule. Each iteration
// presents one rectangle and then one circle. An error is returned only when
// the frame sink fails.
func (t *Trainer) Train() (TrainStats, error) {
	stats := TrainStats{Iterations: t.cfg.TotalShapes}
	rectScores := make([]float64, 0, t.cfg.TotalShapes)
	circleScores := make([]float64, 0, t.cfg.TotalShapes)

	for i := 0; i < t.cfg.TotalShapes; i++ {
		rect := t.src.Rect()
		score, acc := Learn(t.weights, rect.Sample(t.cfg.Size))
		rectScores = append(rectScores, score)
		if acc {
			stats.RectAccumulated++
		}
		t.emit(Event{Iteration: i, Kind: shapes.KindRect, Score: score, Accumulated: acc})
		monitoring.Debugf("%d. input %v score=%.1f accumulated=%t", i, rect, score, acc)

		circle := t.src.Circle()
		score, acc = Learn(t.weights, circle.Sample(t.cfg.Size))
		circleScores = append(circleScores, score)
		if acc {
			stats.CircleAccumulated++
		}
		t.emit(Event{Iteration: i, Kind: shapes.KindCircle, Score: score, Accumulated: acc})
		monitoring.Debugf("%d. input %v score=%.1f accumulated=%t", i, circle, score, acc)

		if t.cfg.Record && t.frames != nil && i < t.cfg.RecordFrames {
			if err := t.frames.RecordFrame(i, t.weights); err != nil {
				return stats, fmt.Errorf("record frame %d: %w", i, err)
			}
			stats.FramesRecorded++
		}
	}

	stats.MeanRectScore = mean(rectScores)
	stats.MeanCircleScore = mean(circleScores)
	return stats, nil
}

// Evaluate scores TotalTests fresh rectangle and circle samples against the
// current weights without modifying them.
func (t *Trainer) Evaluate() Report {
	n := t.cfg.TotalTests
	rep := Report{
		Tests:           n,
		RectAggregate:   grid.New(t.cfg.Size),
		CircleAggregate: grid.New(t.cfg.Size),
	}
	rectScores := make([]float64, 0, n)
	circleScores := make([]float64, 0, n)

	for i := 0; i < n; i++ {
		rect := t.src.Rect().Sample(t.cfg.Size)
		rep.RectAggregate.Accumulate(rect)
		score := Score(t.weights, rect)
		rectScores = append(rectScores, score)
		if Correct(score) {
			rep.RectCorrect++
		}

		circle := t.src.Circle().Sample(t.cfg.Size)
		rep.CircleAggregate.Accumulate(circle)
		score = Score(t.weights, circle)
		circleScores = append(circleScores, score)
		if Correct(score) {
			rep.CircleCorrect++
		}
		monitoring.Debugf("%d. test rect=%.1f circle=%.1f", i, rectScores[i], score)
	}

	rep.RectAccuracy = Percent(rep.RectCorrect, n)
	rep.CircleAccuracy = Percent(rep.CircleCorrect, n)
	rep.MeanRectScore = mean(rectScores)
	rep.MeanCircleScore = mean(circleScores)
	return rep
}

func (t *Trainer) emit(ev Event) {
	for _, obs := range t.observers {
		obs(ev)
	}
}

// Percent returns correct/total as a percentage rounded to one decimal place.
// A zero total yields 0.
func Percent(correct, total int) float64 {
	if total == 0 {
		return 0
	}
	return math.Round(float64(correct)/float64(total)*1000) / 10
}

func mean(xs []float64) float64 {
	if len(xs) == 0 {
		return 0
	}
	return stat.Mean(xs, nil)
}
