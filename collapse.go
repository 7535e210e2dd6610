package coherence

import (
	"errors"
	"fmt"
	"math"

	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/stat"
)

// ThresholdExponent is the HRM collapse exponent k·π ≈ 10.6814.
// It is a constant of the model, not a tuning knob.
const ThresholdExponent = AngularContainment * math.Pi

var (
	// ErrEmptyLambdas is returned when an average is requested over no λ values.
	// Unlike the product there is no meaningful empty mean.
	ErrEmptyLambdas = errors.New("coherence: empty lambda sequence")

	// ErrLambdaDomain is returned when the mean λ is negative or NaN, where
	// λ̄^(k·π) is undefined over the reals, or when the product or threshold
	// overflows to ±Inf.
	ErrLambdaDomain = errors.New("coherence: lambda average outside threshold domain")
)

// LambdaProduct returns the recursive product Λ(n) of all λ values.
// An empty sequence yields 1.0.
func LambdaProduct(lambdas []float64) float64 {
	return floats.Prod(lambdas)
}

// LambdaAvg returns the arithmetic mean λ̄. It fails with ErrEmptyLambdas
// for an empty sequence.
func LambdaAvg(lambdas []float64) (float64, error) {
	if len(lambdas) == 0 {
		return 0, ErrEmptyLambdas
	}
	return stat.Mean(lambdas, nil), nil
}

// LambdaThreshold returns the structural collapse threshold λ̄^(k·π).
//
// The model expects 0 < λ̄ ≤ 1. A negative or NaN input yields NaN, which
// PredictCollapse always classifies as collapse.
func LambdaThreshold(lambdaAvg float64) float64 {
	return math.Pow(lambdaAvg, ThresholdExponent)
}

// PredictCollapse reports whether coherence holds: Λ(n) ≥ threshold.
// The comparison is exact; equality holds.
func PredictCollapse(lambdaProduct, lambdaThreshold float64) bool {
	return lambdaProduct >= lambdaThreshold
}

// Predict runs the full pipeline over a λ sequence: product, mean,
// threshold and hold/collapse, and pairs the outcome with what was observed.
func Predict(depth int, lambdas []float64, observed bool) (Prediction, error) {
	avg, err := LambdaAvg(lambdas)
	if err != nil {
		return Prediction{}, fmt.Errorf("GHZ-%d: %w", depth, err)
	}
	if math.IsNaN(avg) || avg < 0 {
		return Prediction{}, fmt.Errorf("GHZ-%d: λ̄=%.6f: %w", depth, avg, ErrLambdaDomain)
	}

	product := LambdaProduct(lambdas)
	threshold := LambdaThreshold(avg)
	if !isFinite(product) || !isFinite(threshold) {
		return Prediction{}, fmt.Errorf("GHZ-%d: Λ(n)=%g threshold=%g: %w", depth, product, threshold, ErrLambdaDomain)
	}

	return Prediction{
		Depth:     depth,
		Product:   product,
		Average:   avg,
		Threshold: threshold,
		Predicted: PredictCollapse(product, threshold),
		Observed:  observed,
	}, nil
}

func isFinite(x float64) bool {
	return !math.IsNaN(x) && !math.IsInf(x, 0)
}

// PredictMap is Predict over the values of an extracted LambdaMap.
func PredictMap(depth int, m LambdaMap, observed bool) (Prediction, error) {
	return Predict(depth, m.Values(), observed)
}
