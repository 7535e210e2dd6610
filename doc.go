// Package coherence predicts coherence collapse of GHZ circuits from
// per-edge decay coefficients.
//
// # Overview
//
// Each two-qubit gate on a device contributes a retention coefficient λ in
// (0, 1]. The Harmonic Recursion Model (HRM) compares the recursive product
// of those coefficients against a structural threshold derived from their
// mean:
//
//	Λ(n)      = λ₁ · λ₂ · … · λₙ
//	threshold = λ̄^(k·π),  k = 3.4
//
// Coherence is predicted to hold while Λ(n) ≥ threshold and to collapse
// otherwise. For identical coefficients this reduces to n ≤ k·π, so the
// deepest uniform circuit that holds has ⌊k·π⌋ = 10 edges.
//
// # Architecture
//
// The package components:
//
//   - edges      - Gate label parsing and λ map extraction
//   - collapse   - Product, mean, threshold and the hold/collapse predicate
//   - report     - Prediction value and its textual report
//   - depth      - Prefix sweep locating the first collapse
//   - tracker    - Rolling accuracy against hardware observations
//   - batch      - Concurrent evaluation of many circuits
//   - constants  - Closed-form constant derivations sharing k, λ and φ
//   - assertions - Test helpers for model quality
//
// # Quick Start
//
// Build a λ map from backend gate data and predict:
//
//	coupling := coherence.NewCouplingMap(
//	    coherence.Edge{From: 0, To: 1},
//	    coherence.Edge{From: 1, To: 2},
//	)
//
//	lambdas := coherence.ExtractLambdaMap(
//	    []string{"ecr0_1", "ecr1_2"},
//	    []float64{0.991, 0.987},
//	    coupling,
//	)
//
//	p, err := coherence.PredictMap(3, lambdas, observedHold)
//	if err != nil {
//	    log.Fatal(err)
//	}
//
//	fmt.Println(p) // GHZ-3 Prediction ... ✅ CORRECT
//
// Labels that do not parse, edges missing from the coupling map and
// non-positive coefficients are skipped silently. Use LabelFormat.Extract
// to see what was skipped and why.
//
// # Edge Direction
//
// Edge equality is order-sensitive. "ecr12_13" only matches a coupling map
// that contains {12, 13}; {13, 12} is a different edge. Normalize the
// coupling map before extraction if your device is undirected.
//
// # Testing
//
// Use assertions to validate model quality:
//
//	func TestDeviceCalibration(t *testing.T) {
//	    batch, _ := coherence.Run(ctx, circuits, coupling, coherence.DefaultBatchConfig())
//
//	    coherence.AssertAccuracy(t, batch.Stats, coherence.DefaultAssertionConfig())
//	}
//
// # See Also
//
//   - cmd/coherence - Command line runner for experiment files
package coherence
