package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/alexshd/coherence"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoad_AllFormatsAgree(t *testing.T) {
	toml, err := Load("testdata/ghz.toml")
	require.NoError(t, err)

	for _, path := range []string{"testdata/ghz.yaml", "testdata/ghz.json"} {
		t.Run(filepath.Ext(path), func(t *testing.T) {
			exp, err := Load(path)
			require.NoError(t, err)
			assert.Equal(t, toml, exp)
		})
	}
}

func TestLoad_Experiment(t *testing.T) {
	exp, err := Load("testdata/ghz.toml")
	require.NoError(t, err)

	assert.Equal(t, "ibm_brisbane", exp.Backend.Name)
	assert.Equal(t, coherence.DefaultLabelFormat, exp.LabelFormat())

	coupling := exp.CouplingMap()
	assert.Equal(t, 4, coupling.Len())
	assert.True(t, coupling.Contains(coherence.Edge{From: 3, To: 4}))
	assert.False(t, coupling.Contains(coherence.Edge{From: 4, To: 3}))

	circuits := exp.CircuitList()
	require.Len(t, circuits, 2)
	assert.Equal(t, "GHZ-3", circuits[0].Name)
	assert.True(t, circuits[0].Observed)
	assert.False(t, circuits[1].Observed)
	assert.Equal(t, []float64{0.9912, 0.9874, 0.9861, 0.9790, 0.9950}, circuits[1].GateLambdas)
}

func TestLoad_MissingFile(t *testing.T) {
	_, err := Load("testdata/nope.toml")

	require.Error(t, err)
	assert.ErrorIs(t, err, os.ErrNotExist)
	assert.Contains(t, err.Error(), "nope.toml")
}

func TestParse_UnsupportedFormat(t *testing.T) {
	_, err := Parse([]byte("x"), ".ini")

	assert.ErrorIs(t, err, ErrUnsupportedFormat)
}

func TestParse_Malformed(t *testing.T) {
	_, err := Parse([]byte("[backend\nname ="), ".toml")
	assert.ErrorContains(t, err, "failed to parse TOML")

	_, err = Parse([]byte("backend: [unterminated"), ".yaml")
	assert.ErrorContains(t, err, "failed to parse YAML")

	_, err = Parse([]byte("{"), ".json")
	assert.ErrorContains(t, err, "failed to parse JSON")
}

func TestValidate(t *testing.T) {
	valid := func() Experiment {
		return Experiment{
			Backend: BackendConfig{CouplingMap: [][2]int{{0, 1}}},
			Circuits: []CircuitConfig{
				{Name: "a", Depth: 2, GateLabels: []string{"ecr0_1"}, GateLambdas: []float64{0.9}, Observed: "hold"},
			},
		}
	}

	tests := []struct {
		name   string
		mutate func(e *Experiment)
		errMsg string
	}{
		{"valid", func(e *Experiment) {}, ""},
		{"no coupling map", func(e *Experiment) { e.Backend.CouplingMap = nil }, "coupling_map is required"},
		{"negative qubit", func(e *Experiment) { e.Backend.CouplingMap = [][2]int{{-1, 0}} }, "negative qubit"},
		{"no circuits", func(e *Experiment) { e.Circuits = nil }, "at least one circuit"},
		{"zero depth", func(e *Experiment) { e.Circuits[0].Depth = 0 }, "depth must be positive"},
		{"bad observed", func(e *Experiment) { e.Circuits[0].Observed = "maybe" }, "observed must be"},
		{"empty observed", func(e *Experiment) { e.Circuits[0].Observed = "" }, "observed must be"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			e := valid()
			tt.mutate(&e)

			err := e.Validate()
			if tt.errMsg == "" {
				assert.NoError(t, err)
				return
			}
			assert.ErrorContains(t, err, tt.errMsg)
		})
	}
}

func TestLabelFormat_Overrides(t *testing.T) {
	empty := ""
	exp := Experiment{Backend: BackendConfig{LabelPrefix: &empty, LabelDelimiter: "-"}}

	format := exp.LabelFormat()
	assert.Equal(t, coherence.LabelFormat{Prefix: "", Delimiter: "-"}, format)

	edge, ok := format.Parse("4-5")
	require.True(t, ok)
	assert.Equal(t, coherence.Edge{From: 4, To: 5}, edge)
}

func TestCircuitList_DefaultName(t *testing.T) {
	exp := Experiment{Circuits: []CircuitConfig{{Depth: 7, Observed: "collapse"}}}

	circuits := exp.CircuitList()
	require.Len(t, circuits, 1)
	assert.Equal(t, "GHZ-7", circuits[0].Name)
}

func TestLoad_RunsEndToEnd(t *testing.T) {
	exp, err := Load("testdata/ghz.yaml")
	require.NoError(t, err)

	for _, c := range exp.CircuitList() {
		r := coherence.Evaluate(c, exp.CouplingMap(), exp.LabelFormat())
		require.NoError(t, r.Err)
		t.Logf("%s\n", r.Prediction)
	}
}
