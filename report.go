package coherence

import (
	"fmt"
	"strings"
)

// Outcome is the hold/collapse verdict for a circuit.
type Outcome string

const (
	OutcomeHold     Outcome = "Hold"     // Λ(n) ≥ threshold, coherence survives
	OutcomeCollapse Outcome = "Collapse" // Λ(n) < threshold
)

// OutcomeOf maps the boolean verdict used throughout the package to an Outcome.
func OutcomeOf(holds bool) Outcome {
	if holds {
		return OutcomeHold
	}
	return OutcomeCollapse
}

// Report correctness markers.
const (
	MarkerCorrect  = "✅ CORRECT"
	MarkerMismatch = "❌ MISMATCH"
)

// Prediction captures one evaluated circuit. It is a value type; nothing in
// this package mutates a Prediction after it is built.
type Prediction struct {
	Depth     int     `json:"depth"`     // GHZ size label
	Product   float64 `json:"product"`   // Λ(n)
	Average   float64 `json:"average"`   // λ̄
	Threshold float64 `json:"threshold"` // λ̄^(k·π)
	Predicted bool    `json:"predicted"` // true = Hold
	Observed  bool    `json:"observed"`  // true = Hold
}

// Correct reports whether the prediction matched the observation.
func (p Prediction) Correct() bool {
	return p.Predicted == p.Observed
}

// Margin returns Λ(n) − threshold. Positive margins hold.
func (p Prediction) Margin() float64 {
	return p.Product - p.Threshold
}

// String returns the formatted prediction report.
func (p Prediction) String() string {
	return FormatPredictionReport(p.Depth, p.Product, p.Average, p.Threshold, p.Predicted, p.Observed)
}

// FormatPredictionReport renders a deterministic seven-line report:
//
//	GHZ-3 Prediction
//	Λ(n): 0.950000
//	λ_avg: 0.980000
//	HRM Collapse Threshold: 0.900000
//	Predicted: Hold
//	Observed: Hold
//	✅ CORRECT
//
// The last line has no trailing newline. Values use Go's %.6f verb, so
// non-finite inputs print as +Inf, -Inf or NaN. Predict never produces them.
func FormatPredictionReport(depth int, lambdaProduct, lambdaAvg, lambdaThreshold float64, predicted, observed bool) string {
	var b strings.Builder

	fmt.Fprintf(&b, "GHZ-%d Prediction\n", depth)
	fmt.Fprintf(&b, "Λ(n): %.6f\n", lambdaProduct)
	fmt.Fprintf(&b, "λ_avg: %.6f\n", lambdaAvg)
	fmt.Fprintf(&b, "HRM Collapse Threshold: %.6f\n", lambdaThreshold)
	fmt.Fprintf(&b, "Predicted: %s\n", OutcomeOf(predicted))
	fmt.Fprintf(&b, "Observed: %s\n", OutcomeOf(observed))

	if predicted == observed {
		b.WriteString(MarkerCorrect)
	} else {
		b.WriteString(MarkerMismatch)
	}

	return b.String()
}
