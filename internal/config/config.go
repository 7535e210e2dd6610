// Package config loads experiment descriptions and runtime settings.
package config

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/alexshd/coherence"
	"github.com/pelletier/go-toml/v2"
	"gopkg.in/yaml.v3"
)

// ErrUnsupportedFormat is returned for experiment files that are not TOML, YAML or JSON.
var ErrUnsupportedFormat = errors.New("unsupported experiment file format")

// BackendConfig describes the device the circuits ran on.
type BackendConfig struct {
	Name           string   `toml:"name" yaml:"name" json:"name"`
	LabelPrefix    *string  `toml:"label_prefix" yaml:"label_prefix" json:"label_prefix"`
	LabelDelimiter string   `toml:"label_delimiter" yaml:"label_delimiter" json:"label_delimiter"`
	CouplingMap    [][2]int `toml:"coupling_map" yaml:"coupling_map" json:"coupling_map"`
}

// CircuitConfig is one GHZ circuit and its hardware outcome.
type CircuitConfig struct {
	Name        string    `toml:"name" yaml:"name" json:"name"`
	Depth       int       `toml:"depth" yaml:"depth" json:"depth"`
	GateLabels  []string  `toml:"gate_labels" yaml:"gate_labels" json:"gate_labels"`
	GateLambdas []float64 `toml:"gate_lambdas" yaml:"gate_lambdas" json:"gate_lambdas"`
	Observed    string    `toml:"observed" yaml:"observed" json:"observed"` // "hold" or "collapse"
}

// Experiment is the on-disk description of a prediction run.
type Experiment struct {
	Backend  BackendConfig   `toml:"backend" yaml:"backend" json:"backend"`
	Circuits []CircuitConfig `toml:"circuits" yaml:"circuits" json:"circuits"`
}

// Load reads an experiment file. The format follows the file extension:
// .toml, .yaml/.yml or .json.
func Load(path string) (*Experiment, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read experiment file '%s': %w", path, err)
	}

	exp, err := Parse(data, filepath.Ext(path))
	if err != nil {
		return nil, fmt.Errorf("experiment file '%s': %w", path, err)
	}

	return exp, nil
}

// Parse decodes experiment data of the given extension and validates it.
func Parse(data []byte, ext string) (*Experiment, error) {
	var exp Experiment

	switch strings.ToLower(ext) {
	case ".toml":
		if err := toml.Unmarshal(data, &exp); err != nil {
			return nil, fmt.Errorf("failed to parse TOML: %w", err)
		}
	case ".yaml", ".yml":
		if err := yaml.Unmarshal(data, &exp); err != nil {
			return nil, fmt.Errorf("failed to parse YAML: %w", err)
		}
	case ".json":
		if err := json.Unmarshal(data, &exp); err != nil {
			return nil, fmt.Errorf("failed to parse JSON: %w", err)
		}
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnsupportedFormat, ext)
	}

	if err := exp.Validate(); err != nil {
		return nil, err
	}

	return &exp, nil
}

// Validate checks structural constraints that decoding cannot express.
func (e *Experiment) Validate() error {
	if len(e.Backend.CouplingMap) == 0 {
		return fmt.Errorf("backend.coupling_map is required")
	}
	for i, pair := range e.Backend.CouplingMap {
		if pair[0] < 0 || pair[1] < 0 {
			return fmt.Errorf("backend.coupling_map[%d]: negative qubit index %v", i, pair)
		}
	}

	if len(e.Circuits) == 0 {
		return fmt.Errorf("at least one circuit is required")
	}
	for i, c := range e.Circuits {
		if c.Depth <= 0 {
			return fmt.Errorf("circuits[%d] (%s): depth must be positive, got %d", i, c.Name, c.Depth)
		}
		if _, err := parseObserved(c.Observed); err != nil {
			return fmt.Errorf("circuits[%d] (%s): %w", i, c.Name, err)
		}
	}

	return nil
}

// LabelFormat returns the backend's gate label format, defaulting to ECR labels.
// An explicitly empty prefix is honoured.
func (e *Experiment) LabelFormat() coherence.LabelFormat {
	format := coherence.DefaultLabelFormat
	if e.Backend.LabelPrefix != nil {
		format.Prefix = *e.Backend.LabelPrefix
	}
	if e.Backend.LabelDelimiter != "" {
		format.Delimiter = e.Backend.LabelDelimiter
	}
	return format
}

// CouplingMap converts the configured pairs, preserving their direction.
func (e *Experiment) CouplingMap() coherence.CouplingMap {
	edges := make([]coherence.Edge, len(e.Backend.CouplingMap))
	for i, pair := range e.Backend.CouplingMap {
		edges[i] = coherence.Edge{From: pair[0], To: pair[1]}
	}
	return coherence.NewCouplingMap(edges...)
}

// CircuitList converts the configured circuits. Unnamed circuits are named
// after their depth.
func (e *Experiment) CircuitList() []coherence.Circuit {
	circuits := make([]coherence.Circuit, len(e.Circuits))
	for i, c := range e.Circuits {
		name := c.Name
		if name == "" {
			name = fmt.Sprintf("GHZ-%d", c.Depth)
		}
		observed, _ := parseObserved(c.Observed)
		circuits[i] = coherence.Circuit{
			Name:        name,
			Depth:       c.Depth,
			GateLabels:  c.GateLabels,
			GateLambdas: c.GateLambdas,
			Observed:    observed,
		}
	}
	return circuits
}

func parseObserved(s string) (bool, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "hold":
		return true, nil
	case "collapse":
		return false, nil
	default:
		return false, fmt.Errorf("observed must be \"hold\" or \"collapse\", got %q", s)
	}
}
