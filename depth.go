package coherence

import "math"

// DepthPoint is the prediction for one prefix of a λ sequence.
type DepthPoint struct {
	Depth     int     // Number of λ values in the prefix
	Product   float64 // Λ(n)
	Average   float64 // λ̄ over the prefix
	Threshold float64 // λ̄^(k·π)
	Holds     bool    // Λ(n) ≥ threshold
}

// DepthSweep is the hold/collapse profile of a circuit as it grows.
type DepthSweep struct {
	Points        []DepthPoint
	FirstCollapse int // First depth predicted to collapse, -1 if none
	CriticalDepth int // Largest n with every prefix 1..n holding
}

// SweepDepth evaluates the predictor over every prefix lambdas[:n],
// n = 1..len(lambdas), in the order given.
//
// For a constant sequence 0 < λ < 1 the product is λⁿ and the threshold is
// λ^(k·π), so coherence holds exactly while n ≤ k·π. Real λ maps deviate from
// this through the spread of their coefficients.
//
// Interpretation (compare CriticalDepth with UniformCriticalDepth, 10):
//   - CriticalDepth == len(lambdas): every prefix holds, the circuit has not
//     reached its limit on this map
//   - CriticalDepth < 10: spread in λ pulls the product below the threshold
//     early; the weakest edges dominate
//   - CriticalDepth near 10: the map behaves like a uniform one
//
// The product is always at most λ̄ⁿ (AM-GM), so for λ̄ < 1 a non-uniform map
// never holds deeper than a uniform map with the same mean, and prefixes ordered
// by the caller change where collapse first appears.
//
// Example:
//
//	s := SweepDepth(m.Values())
//	if s.FirstCollapse != -1 {
//	    log.Printf("collapse at n=%d, critical depth %d of %d",
//	        s.FirstCollapse, s.CriticalDepth, UniformCriticalDepth())
//	}
func SweepDepth(lambdas []float64) DepthSweep {
	sweep := DepthSweep{
		Points:        make([]DepthPoint, 0, len(lambdas)),
		FirstCollapse: -1,
	}

	product := 1.0
	sum := 0.0

	for i, lam := range lambdas {
		n := i + 1
		product *= lam
		sum += lam

		avg := sum / float64(n)
		threshold := LambdaThreshold(avg)
		holds := PredictCollapse(product, threshold)

		sweep.Points = append(sweep.Points, DepthPoint{
			Depth:     n,
			Product:   product,
			Average:   avg,
			Threshold: threshold,
			Holds:     holds,
		})

		if !holds && sweep.FirstCollapse == -1 {
			sweep.FirstCollapse = n
		}
	}

	if sweep.FirstCollapse == -1 {
		sweep.CriticalDepth = len(lambdas)
	} else {
		sweep.CriticalDepth = sweep.FirstCollapse - 1
	}

	return sweep
}

// UniformCriticalDepth returns ⌊k·π⌋, the deepest circuit that holds when
// every edge shares the same λ in (0, 1).
func UniformCriticalDepth() int {
	return int(math.Floor(ThresholdExponent))
}
