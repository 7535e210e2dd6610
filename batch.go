package coherence

import (
	"context"
	"fmt"
	"log/slog"
	"runtime"
	"time"

	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"
)

// Circuit is one GHZ experiment: the backend's gate data for the edges it
// uses and whether coherence was observed to hold on hardware.
type Circuit struct {
	Name        string
	Depth       int
	GateLabels  []string
	GateLambdas []float64
	Observed    bool
}

// CircuitResult is the evaluation of one Circuit.
type CircuitResult struct {
	Circuit    string
	Extraction Extraction
	Prediction Prediction // Zero when Err is set
	Err        error
}

// BatchResult contains every circuit evaluated by Run, in input order.
type BatchResult struct {
	RunID    uuid.UUID
	Results  []CircuitResult
	Stats    AccuracyStats // Scored over the circuits of this run only
	Failed   int           // Circuits that could not be predicted
	Duration time.Duration
}

// BatchConfig controls batch evaluation.
type BatchConfig struct {
	Workers int              // Concurrent evaluations (<= 0 = runtime.NumCPU())
	Format  LabelFormat      // Gate label format of the backend
	Logger  *slog.Logger     // nil = slog.Default()
	Tracker *AccuracyTracker // Optional long-lived tracker fed with every prediction
}

// DefaultBatchConfig returns sensible defaults.
func DefaultBatchConfig() BatchConfig {
	return BatchConfig{
		Workers: runtime.NumCPU(),
		Format:  DefaultLabelFormat,
	}
}

// Evaluate extracts the λ map of a single circuit and predicts its outcome.
func Evaluate(c Circuit, coupling CouplingMap, format LabelFormat) CircuitResult {
	result := CircuitResult{
		Circuit:    c.Name,
		Extraction: format.Extract(c.GateLabels, c.GateLambdas, coupling),
	}

	p, err := PredictMap(c.Depth, result.Extraction.Lambdas, c.Observed)
	if err != nil {
		result.Err = fmt.Errorf("circuit %q: %w", c.Name, err)
		return result
	}

	result.Prediction = p
	return result
}

// Run evaluates circuits concurrently against one device coupling map.
//
// Evaluations share nothing, so they are fanned out over at most
// cfg.Workers goroutines. A circuit that cannot be predicted is reported in
// its CircuitResult.Err and does not stop the batch; only context
// cancellation does.
func Run(ctx context.Context, circuits []Circuit, coupling CouplingMap, cfg BatchConfig) (BatchResult, error) {
	logger := cfg.Logger
	if logger == nil {
		logger = slog.Default()
	}
	workers := cfg.Workers
	if workers <= 0 {
		workers = runtime.NumCPU()
	}

	batch := BatchResult{
		RunID:   uuid.New(),
		Results: make([]CircuitResult, len(circuits)),
	}
	logger = logger.With("run_id", batch.RunID.String())
	start := time.Now()

	logger.Debug("Batch started",
		"circuits", len(circuits),
		"workers", workers,
		"coupled_edges", coupling.Len())

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(workers)

	for i, c := range circuits {
		i, c := i, c
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}
			batch.Results[i] = Evaluate(c, coupling, cfg.Format)
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return BatchResult{}, fmt.Errorf("batch %s: %w", batch.RunID, err)
	}
	if err := ctx.Err(); err != nil {
		return BatchResult{}, fmt.Errorf("batch %s: %w", batch.RunID, err)
	}

	local := NewAccuracyTracker(max(len(circuits), 1))
	for _, r := range batch.Results {
		for _, rej := range r.Extraction.Rejected {
			logger.Debug("Gate skipped",
				"circuit", r.Circuit,
				"label", rej.Label,
				"lambda", rej.Lambda,
				"reason", string(rej.Reason))
		}

		if r.Err != nil {
			batch.Failed++
			logger.Warn("Circuit not predicted", "circuit", r.Circuit, "error", r.Err)
			continue
		}

		local.Record(r.Prediction)
		if cfg.Tracker != nil {
			cfg.Tracker.Record(r.Prediction)
		}

		logger.Debug("Circuit predicted",
			"circuit", r.Circuit,
			"depth", r.Prediction.Depth,
			"predicted", string(OutcomeOf(r.Prediction.Predicted)),
			"observed", string(OutcomeOf(r.Prediction.Observed)),
			"correct", r.Prediction.Correct())
	}

	batch.Stats = local.Stats()
	batch.Duration = time.Since(start)

	logger.Info("Batch complete",
		"circuits", len(circuits),
		"failed", batch.Failed,
		"accuracy", batch.Stats.Accuracy,
		"duration", batch.Duration)

	return batch, nil
}
