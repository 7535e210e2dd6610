package coherence

import (
	"sync"

	"gonum.org/v1/gonum/stat"
)

// AccuracyTracker keeps a window of recent predictions and scores the model
// against what the hardware actually did.
//
// Example:
//
//	tracker := NewAccuracyTracker(500)
//
//	p, _ := Predict(5, lambdas, observedHold)
//	tracker.Record(p)
//
//	if tracker.Accuracy() < 0.8 {
//	    // Model is drifting away from the device
//	}
type AccuracyTracker struct {
	mu          sync.RWMutex
	samples     []Prediction // Ring buffer of recent predictions
	maxSamples  int
	writeIndex  int
	sampleCount int64 // Total predictions recorded (monotonic)
}

// NewAccuracyTracker creates a tracker with a fixed-size ring buffer.
// A non-positive size falls back to 1000.
func NewAccuracyTracker(maxSamples int) *AccuracyTracker {
	if maxSamples <= 0 {
		maxSamples = 1000
	}

	return &AccuracyTracker{
		samples:    make([]Prediction, maxSamples),
		maxSamples: maxSamples,
	}
}

// Record adds a prediction, overwriting the oldest one when the window is full.
func (t *AccuracyTracker) Record(p Prediction) {
	t.mu.Lock()
	defer t.mu.Unlock()

	t.samples[t.writeIndex] = p
	t.writeIndex = (t.writeIndex + 1) % t.maxSamples
	t.sampleCount++
}

// ConfusionMatrix counts predictions by (predicted, observed).
type ConfusionMatrix struct {
	TrueHold      int `json:"true_hold"`      // Predicted Hold, observed Hold
	FalseHold     int `json:"false_hold"`     // Predicted Hold, observed Collapse
	TrueCollapse  int `json:"true_collapse"`  // Predicted Collapse, observed Collapse
	FalseCollapse int `json:"false_collapse"` // Predicted Collapse, observed Hold
}

// Total returns the number of predictions counted.
func (c ConfusionMatrix) Total() int {
	return c.TrueHold + c.FalseHold + c.TrueCollapse + c.FalseCollapse
}

// Accuracy returns the fraction of correct predictions, 0 when empty.
func (c ConfusionMatrix) Accuracy() float64 {
	total := c.Total()
	if total == 0 {
		return 0
	}
	return float64(c.TrueHold+c.TrueCollapse) / float64(total)
}

// Accuracy returns the fraction of correct predictions in the window.
func (t *AccuracyTracker) Accuracy() float64 {
	return t.Confusion().Accuracy()
}

// Confusion returns the confusion matrix over the window.
func (t *AccuracyTracker) Confusion() ConfusionMatrix {
	t.mu.RLock()
	defer t.mu.RUnlock()

	return confusionOf(t.samples[:t.effectiveSampleCount()])
}

func confusionOf(window []Prediction) ConfusionMatrix {
	var c ConfusionMatrix
	for _, p := range window {
		switch {
		case p.Predicted && p.Observed:
			c.TrueHold++
		case p.Predicted && !p.Observed:
			c.FalseHold++
		case !p.Predicted && !p.Observed:
			c.TrueCollapse++
		default:
			c.FalseCollapse++
		}
	}
	return c
}

// effectiveSampleCount returns the number of valid samples in the buffer.
func (t *AccuracyTracker) effectiveSampleCount() int {
	if t.sampleCount < int64(t.maxSamples) {
		return int(t.sampleCount)
	}
	return t.maxSamples
}

// AccuracyStats is a snapshot of the tracker.
type AccuracyStats struct {
	SampleCount  int64           `json:"sample_count"` // All predictions ever recorded
	WindowSize   int             `json:"window_size"`  // Predictions in the current window
	Accuracy     float64         `json:"accuracy"`
	Confusion    ConfusionMatrix `json:"confusion"`
	MeanMargin   float64         `json:"mean_margin"`   // Mean Λ(n) − threshold
	StdDevMargin float64         `json:"stddev_margin"` // 0 with fewer than two samples
}

// Stats returns a consistent snapshot of the window.
func (t *AccuracyTracker) Stats() AccuracyStats {
	t.mu.RLock()
	defer t.mu.RUnlock()

	window := t.samples[:t.effectiveSampleCount()]
	confusion := confusionOf(window)

	stats := AccuracyStats{
		SampleCount: t.sampleCount,
		WindowSize:  len(window),
		Accuracy:    confusion.Accuracy(),
		Confusion:   confusion,
	}

	if len(window) == 0 {
		return stats
	}

	margins := make([]float64, len(window))
	for i, p := range window {
		margins[i] = p.Margin()
	}

	stats.MeanMargin = stat.Mean(margins, nil)
	if len(margins) > 1 {
		stats.StdDevMargin = stat.StdDev(margins, nil)
	}

	return stats
}
