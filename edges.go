package coherence

import (
	"fmt"
	"sort"
	"strconv"
	"strings"
)

// Edge identifies two physical qubits joined by a two-qubit gate.
// Equality is order-sensitive: {12, 13} and {13, 12} are different edges.
type Edge struct {
	From int
	To   int
}

func (e Edge) String() string {
	return fmt.Sprintf("(%d, %d)", e.From, e.To)
}

// CouplingMap is the set of qubit pairs a device can couple directly.
type CouplingMap map[Edge]struct{}

// NewCouplingMap builds a coupling map from a list of edges.
func NewCouplingMap(edges ...Edge) CouplingMap {
	c := make(CouplingMap, len(edges))
	for _, e := range edges {
		c[e] = struct{}{}
	}
	return c
}

// Contains reports whether e is physically connected. No normalization of
// direction is applied.
func (c CouplingMap) Contains(e Edge) bool {
	_, ok := c[e]
	return ok
}

// Len returns the number of edges.
func (c CouplingMap) Len() int {
	return len(c)
}

// LambdaMap maps a coupled edge to its decay coefficient λ.
type LambdaMap map[Edge]float64

// Edges returns the keys sorted by From, then To.
func (m LambdaMap) Edges() []Edge {
	edges := make([]Edge, 0, len(m))
	for e := range m {
		edges = append(edges, e)
	}
	sort.Slice(edges, func(i, j int) bool {
		if edges[i].From != edges[j].From {
			return edges[i].From < edges[j].From
		}
		return edges[i].To < edges[j].To
	})
	return edges
}

// Values returns the coefficients in Edges() order, ready for aggregation.
func (m LambdaMap) Values() []float64 {
	edges := m.Edges()
	values := make([]float64, len(edges))
	for i, e := range edges {
		values[i] = m[e]
	}
	return values
}

// LabelFormat describes how a backend names its two-qubit gates:
// <Prefix><int><Delimiter><int>, e.g. "ecr12_13".
type LabelFormat struct {
	Prefix    string
	Delimiter string
}

// DefaultLabelFormat matches ECR gate labels such as "ecr12_13".
var DefaultLabelFormat = LabelFormat{
	Prefix:    "ecr",
	Delimiter: "_",
}

// Parse converts a gate label into an Edge.
//
// Every occurrence of the prefix is removed (not only a leading one), the
// remainder must split into exactly two delimiter-separated non-negative
// integers. Any anomaly yields ok == false; the parser never panics.
func (f LabelFormat) Parse(label string) (Edge, bool) {
	if f.Delimiter == "" {
		return Edge{}, false
	}

	clean := label
	if f.Prefix != "" {
		clean = strings.ReplaceAll(label, f.Prefix, "")
	}

	pieces := strings.Split(clean, f.Delimiter)
	if len(pieces) != 2 {
		return Edge{}, false
	}

	q0, ok := parseQubit(pieces[0])
	if !ok {
		return Edge{}, false
	}
	q1, ok := parseQubit(pieces[1])
	if !ok {
		return Edge{}, false
	}

	return Edge{From: q0, To: q1}, true
}

func parseQubit(s string) (int, bool) {
	n, err := strconv.Atoi(strings.TrimSpace(s))
	if err != nil || n < 0 {
		return 0, false
	}
	return n, true
}

// ParseEdgeLabel parses a label in DefaultLabelFormat.
//
//	ParseEdgeLabel("ecr12_13") // Edge{12, 13}, true
//	ParseEdgeLabel("ecr_13")   // Edge{}, false
func ParseEdgeLabel(label string) (Edge, bool) {
	return DefaultLabelFormat.Parse(label)
}

// RejectReason explains why a (label, λ) pair was left out of a LambdaMap.
type RejectReason string

const (
	RejectInvalidLabel RejectReason = "INVALID_LABEL" // Label did not parse
	RejectUncoupled    RejectReason = "UNCOUPLED"     // Edge not in coupling map
	RejectNonPositive  RejectReason = "NON_POSITIVE"  // λ <= 0 or NaN
)

// Rejection records one skipped pair.
type Rejection struct {
	Index  int
	Label  string
	Lambda float64
	Edge   Edge // Zero when Reason is RejectInvalidLabel
	Reason RejectReason
}

// Extraction is the outcome of filtering backend gate data.
type Extraction struct {
	Lambdas  LambdaMap
	Rejected []Rejection
}

// Extract pairs labels with coefficients and keeps the entries whose label
// parses, whose edge is in the coupling map and whose λ is strictly positive.
//
// Pairing stops at the shorter of the two slices; trailing unmatched elements
// are ignored. When several labels resolve to the same edge the last one wins.
func (f LabelFormat) Extract(labels []string, lambdas []float64, coupling CouplingMap) Extraction {
	n := min(len(labels), len(lambdas))
	out := Extraction{
		Lambdas: make(LambdaMap, n),
	}

	for i := 0; i < n; i++ {
		label, lam := labels[i], lambdas[i]

		edge, ok := f.Parse(label)
		var reason RejectReason
		switch {
		case !ok:
			reason = RejectInvalidLabel
		case !coupling.Contains(edge):
			reason = RejectUncoupled
		case !(lam > 0):
			reason = RejectNonPositive
		default:
			out.Lambdas[edge] = lam
			continue
		}

		out.Rejected = append(out.Rejected, Rejection{
			Index:  i,
			Label:  label,
			Lambda: lam,
			Edge:   edge,
			Reason: reason,
		})
	}

	return out
}

// ExtractLambdaMap builds the edge → λ map for labels in DefaultLabelFormat.
func ExtractLambdaMap(labels []string, lambdas []float64, coupling CouplingMap) LambdaMap {
	return DefaultLabelFormat.Extract(labels, lambdas, coupling).Lambdas
}
