package coherence

import (
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func prediction(predicted, observed bool, margin float64) Prediction {
	return Prediction{Depth: 3, Product: 0.5 + margin, Threshold: 0.5, Predicted: predicted, Observed: observed}
}

func TestAccuracyTracker_Empty(t *testing.T) {
	tracker := NewAccuracyTracker(10)

	stats := tracker.Stats()
	assert.Equal(t, int64(0), stats.SampleCount)
	assert.Equal(t, 0, stats.WindowSize)
	assert.Equal(t, 0.0, stats.Accuracy)
	assert.Equal(t, 0.0, stats.MeanMargin)
	assert.Equal(t, 0.0, tracker.Accuracy())
}

func TestAccuracyTracker_Confusion(t *testing.T) {
	tracker := NewAccuracyTracker(100)

	tracker.Record(prediction(true, true, 0.1))    // True hold
	tracker.Record(prediction(true, true, 0.2))    // True hold
	tracker.Record(prediction(true, false, 0.05))  // False hold
	tracker.Record(prediction(false, false, -0.1)) // True collapse
	tracker.Record(prediction(false, true, -0.05)) // False collapse

	c := tracker.Confusion()
	assert.Equal(t, ConfusionMatrix{TrueHold: 2, FalseHold: 1, TrueCollapse: 1, FalseCollapse: 1}, c)
	assert.Equal(t, 5, c.Total())
	assert.InDelta(t, 0.6, tracker.Accuracy(), 1e-12)

	stats := tracker.Stats()
	assert.Equal(t, int64(5), stats.SampleCount)
	assert.Equal(t, 5, stats.WindowSize)
	assert.InDelta(t, 0.04, stats.MeanMargin, 1e-12)
	assert.Greater(t, stats.StdDevMargin, 0.0)

	t.Logf("✓ Accuracy %.0f%%, mean margin %.3f ± %.3f",
		stats.Accuracy*100, stats.MeanMargin, stats.StdDevMargin)
}

// TestAccuracyTracker_RingBuffer verifies old predictions leave the window.
func TestAccuracyTracker_RingBuffer(t *testing.T) {
	tracker := NewAccuracyTracker(4)

	for i := 0; i < 4; i++ {
		tracker.Record(prediction(true, false, 0.1)) // Wrong
	}
	assert.Equal(t, 0.0, tracker.Accuracy())

	for i := 0; i < 4; i++ {
		tracker.Record(prediction(true, true, 0.1)) // Right
	}

	stats := tracker.Stats()
	assert.Equal(t, int64(8), stats.SampleCount)
	assert.Equal(t, 4, stats.WindowSize)
	assert.Equal(t, 1.0, stats.Accuracy)
	assert.InDelta(t, 0.0, stats.StdDevMargin, 1e-12)
}

func TestAccuracyTracker_DefaultSize(t *testing.T) {
	tracker := NewAccuracyTracker(0)

	assert.Equal(t, 1000, tracker.maxSamples)
}

func TestAccuracyTracker_Concurrent(t *testing.T) {
	tracker := NewAccuracyTracker(10000)

	var wg sync.WaitGroup
	for w := 0; w < 8; w++ {
		wg.Add(1)
		go func(w int) {
			defer wg.Done()
			for i := 0; i < 500; i++ {
				tracker.Record(prediction(true, w%2 == 0, 0.1))
				_ = tracker.Accuracy()
			}
		}(w)
	}
	wg.Wait()

	stats := tracker.Stats()
	require.Equal(t, int64(4000), stats.SampleCount)
	assert.InDelta(t, 0.5, stats.Accuracy, 1e-12)
}

func TestAssertAccuracy(t *testing.T) {
	tracker := NewAccuracyTracker(10)
	for i := 0; i < 5; i++ {
		tracker.Record(prediction(false, false, -0.1))
	}

	AssertAccuracy(t, tracker.Stats(), DefaultAssertionConfig())
}
