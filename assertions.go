package coherence

import (
	"fmt"
	"testing"
)

// AssertionConfig contains thresholds for model-quality assertions.
type AssertionConfig struct {
	// Minimum fraction of correct predictions
	MinAccuracy float64

	// Maximum tolerated false holds (predicted Hold, observed Collapse)
	MaxFalseHold int

	// Minimum predictions before accuracy is judged
	MinSamples int
}

// DefaultAssertionConfig returns conservative thresholds.
func DefaultAssertionConfig() AssertionConfig {
	return AssertionConfig{
		MinAccuracy:  0.80, // 80% of circuits classified correctly
		MaxFalseHold: 0,    // Never promise coherence that the device lost
		MinSamples:   5,
	}
}

// AssertCoherenceHolds verifies a λ sequence is predicted to hold.
//
// Mathematical property:
//
//	Π λᵢ ≥ λ̄^(k·π)
func AssertCoherenceHolds(t testing.TB, lambdas []float64) {
	t.Helper()

	p, err := Predict(len(lambdas), lambdas, true)
	if err != nil {
		t.Fatalf("Failed to predict: %v", err)
	}

	if !p.Predicted {
		t.Errorf("Coherence collapse predicted: Λ(n) = %.6f < threshold %.6f (λ̄ = %.6f, n = %d)",
			p.Product, p.Threshold, p.Average, len(lambdas))
		return
	}

	t.Logf("✓ Coherence holds: Λ(n) = %.6f ≥ %.6f (margin %.6f)", p.Product, p.Threshold, p.Margin())
}

// AssertCollapse verifies a λ sequence is predicted to collapse.
func AssertCollapse(t testing.TB, lambdas []float64) {
	t.Helper()

	p, err := Predict(len(lambdas), lambdas, false)
	if err != nil {
		t.Fatalf("Failed to predict: %v", err)
	}

	if p.Predicted {
		t.Errorf("Coherence predicted to hold: Λ(n) = %.6f ≥ threshold %.6f (λ̄ = %.6f, n = %d)",
			p.Product, p.Threshold, p.Average, len(lambdas))
		return
	}

	t.Logf("✓ Collapse: Λ(n) = %.6f < %.6f (margin %.6f)", p.Product, p.Threshold, p.Margin())
}

// AssertPredictionCorrect verifies the prediction matched the observation.
func AssertPredictionCorrect(t testing.TB, p Prediction) {
	t.Helper()

	if !p.Correct() {
		t.Errorf("Prediction mismatch for GHZ-%d: predicted %s, observed %s\n%s",
			p.Depth, OutcomeOf(p.Predicted), OutcomeOf(p.Observed), p)
		return
	}

	t.Logf("✓ GHZ-%d: %s as predicted", p.Depth, OutcomeOf(p.Observed))
}

// AssertAccuracy verifies the model meets the configured accuracy bar.
func AssertAccuracy(t testing.TB, stats AccuracyStats, cfg AssertionConfig) {
	t.Helper()

	if stats.WindowSize < cfg.MinSamples {
		t.Fatalf("Too few predictions: %d (need at least %d)", stats.WindowSize, cfg.MinSamples)
	}

	var failures []string
	if stats.Accuracy < cfg.MinAccuracy {
		failures = append(failures, fmt.Sprintf(
			"  accuracy=%.2f%% (min: %.2f%%)", stats.Accuracy*100, cfg.MinAccuracy*100))
	}
	if stats.Confusion.FalseHold > cfg.MaxFalseHold {
		failures = append(failures, fmt.Sprintf(
			"  false holds=%d (max: %d)", stats.Confusion.FalseHold, cfg.MaxFalseHold))
	}

	if len(failures) > 0 {
		t.Errorf("Model quality below threshold:\n%s", failures)
		return
	}

	t.Logf("✓ Accuracy: %.1f%% over %d predictions", stats.Accuracy*100, stats.WindowSize)
}

// PrintSweep outputs a depth sweep to the test log.
func PrintSweep(t testing.TB, sweep DepthSweep) {
	t.Helper()

	t.Logf("\n=== Depth Sweep ===")
	t.Logf("  n    Λ(n)        λ̄           threshold   outcome")
	t.Logf("  --   ----------  ----------  ----------  --------")
	for _, p := range sweep.Points {
		t.Logf("  %-4d %10.6f  %10.6f  %10.6f  %s",
			p.Depth, p.Product, p.Average, p.Threshold, OutcomeOf(p.Holds))
	}

	if sweep.FirstCollapse == -1 {
		t.Logf("\nNo collapse up to n=%d", len(sweep.Points))
	} else {
		t.Logf("\nFirst collapse at n=%d (critical depth %d, uniform bound %d)",
			sweep.FirstCollapse, sweep.CriticalDepth, UniformCriticalDepth())
	}
}
