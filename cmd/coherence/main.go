// Command coherence runs HRM collapse predictions for an experiment file.
//
// Usage:
//
//	coherence -experiment ghz.toml [-json] [-workers N] [-sweep]
//	coherence -constants
package main

import (
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/signal"

	"github.com/alexshd/coherence"
	"github.com/alexshd/coherence/internal/config"
	"github.com/lmittmann/tint"
)

func main() {
	settings := config.LoadSettings()

	experimentPath := flag.String("experiment", "", "experiment file (.toml, .yaml, .yml, .json)")
	asJSON := flag.Bool("json", settings.Output == "json", "print results as JSON")
	workers := flag.Int("workers", settings.Workers, "concurrent evaluations (0 = one per CPU)")
	sweep := flag.Bool("sweep", false, "print the depth sweep of every circuit")
	constants := flag.Bool("constants", false, "print the closed-form constant derivations")
	flag.Parse()

	slog.SetDefault(slog.New(
		tint.NewHandler(os.Stderr, &tint.Options{
			Level:      settings.SlogLevel(),
			TimeFormat: "15:04:05",
			NoColor:    settings.NoColor,
		}),
	))

	if *constants {
		printDerivations(os.Stdout)
		if *experimentPath == "" {
			return
		}
	}

	if *experimentPath == "" {
		flag.Usage()
		os.Exit(2)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	if err := run(ctx, os.Stdout, *experimentPath, *workers, *asJSON, *sweep); err != nil {
		slog.Error("Prediction run failed", "error", err)
		os.Exit(1)
	}
}

func run(ctx context.Context, w io.Writer, path string, workers int, asJSON, sweep bool) error {
	exp, err := config.Load(path)
	if err != nil {
		return err
	}

	slog.Info("Experiment loaded",
		"backend", exp.Backend.Name,
		"circuits", len(exp.Circuits),
		"coupled_edges", len(exp.Backend.CouplingMap))

	cfg := coherence.DefaultBatchConfig()
	if workers > 0 {
		cfg.Workers = workers
	}
	cfg.Format = exp.LabelFormat()
	cfg.Logger = slog.Default().With("backend", exp.Backend.Name)

	batch, err := coherence.Run(ctx, exp.CircuitList(), exp.CouplingMap(), cfg)
	if err != nil {
		return err
	}

	if asJSON {
		return writeJSON(w, exp.Backend.Name, batch, sweep)
	}
	writeText(w, batch, sweep)
	return nil
}

type circuitOutput struct {
	Circuit  string                 `json:"circuit"`
	Edges    int                    `json:"edges"`
	Rejected int                    `json:"rejected"`
	Result   *coherence.Prediction  `json:"prediction,omitempty"`
	Correct  *bool                  `json:"correct,omitempty"`
	Sweep    []coherence.DepthPoint `json:"sweep,omitempty"`
	Error    string                 `json:"error,omitempty"`
}

type batchOutput struct {
	RunID    string                  `json:"run_id"`
	Backend  string                  `json:"backend"`
	Circuits []circuitOutput         `json:"circuits"`
	Stats    coherence.AccuracyStats `json:"stats"`
}

func writeJSON(w io.Writer, backend string, batch coherence.BatchResult, sweep bool) error {
	out := batchOutput{
		RunID:    batch.RunID.String(),
		Backend:  backend,
		Circuits: make([]circuitOutput, len(batch.Results)),
		Stats:    batch.Stats,
	}

	for i, r := range batch.Results {
		c := circuitOutput{
			Circuit:  r.Circuit,
			Edges:    len(r.Extraction.Lambdas),
			Rejected: len(r.Extraction.Rejected),
		}
		if r.Err != nil {
			c.Error = r.Err.Error()
		} else {
			p := r.Prediction
			correct := p.Correct()
			c.Result = &p
			c.Correct = &correct
			if sweep {
				c.Sweep = coherence.SweepDepth(r.Extraction.Lambdas.Values()).Points
			}
		}
		out.Circuits[i] = c
	}

	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(out)
}

func writeText(w io.Writer, batch coherence.BatchResult, sweep bool) {
	for _, r := range batch.Results {
		if r.Err != nil {
			fmt.Fprintf(w, "%s: not predicted: %v\n\n", r.Circuit, r.Err)
			continue
		}

		fmt.Fprintf(w, "%s\n", r.Prediction)
		if sweep {
			s := coherence.SweepDepth(r.Extraction.Lambdas.Values())
			for _, p := range s.Points {
				fmt.Fprintf(w, "  n=%-3d Λ(n)=%.6f threshold=%.6f %s\n",
					p.Depth, p.Product, p.Threshold, coherence.OutcomeOf(p.Holds))
			}
			fmt.Fprintf(w, "  critical depth: %d\n", s.CriticalDepth)
		}
		fmt.Fprintln(w)
	}

	c := batch.Stats.Confusion
	fmt.Fprintf(w, "Accuracy: %.1f%% (%d/%d)\n",
		batch.Stats.Accuracy*100, c.TrueHold+c.TrueCollapse, c.Total())
	fmt.Fprintf(w, "  true hold=%d false hold=%d true collapse=%d false collapse=%d\n",
		c.TrueHold, c.FalseHold, c.TrueCollapse, c.FalseCollapse)
	if batch.Failed > 0 {
		fmt.Fprintf(w, "  not predicted: %d\n", batch.Failed)
	}
}

func printDerivations(w io.Writer) {
	for _, d := range coherence.Derivations() {
		fmt.Fprintf(w, "%s\n\n", d.Report())
	}
}
