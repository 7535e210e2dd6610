package coherence

import (
	"fmt"
	"math"
	"strings"
)

// Phi is the golden ratio φ = (1 + √5) / 2.
const Phi = 1.6180339887498948482045868343656381177203091798057628621

// AngularContainment is the angular containment coefficient k (torsional
// impedance). The collapse threshold exponent is k·π.
const AngularContainment = 3.4

// LambdaHRM is the recursive coherence correction factor λ used by the
// mass-ratio and Rydberg derivations.
const LambdaHRM = 0.99988

// Reference values (CODATA 2018, h fixed by the 2019 SI).
const (
	FineStructureCODATA     = 0.0072973525693   // α
	InverseFineStructure    = 137.035999084     // 1/α
	ProtonElectronMassRatio = 1836.15267343     // m_p / m_e
	PlanckCODATA            = 6.62607015e-34    // h, J·s
	RydbergCODATA           = 1.0973731568160e7 // R∞, 1/m
	ElectronMass            = 9.10938356e-31    // m_e, kg
	SpeedOfLight            = 2.99792458e8      // c, m/s
	BohrRadius              = 5.29177210903e-11 // a₀, m
)

// Derivation is a closed-form value compared against its reference constant.
type Derivation struct {
	Name      string
	Formula   string
	Value     float64
	Reference float64
}

// RelativeError returns |value − reference| / reference.
func (d Derivation) RelativeError() float64 {
	return math.Abs(d.Value-d.Reference) / d.Reference
}

// Report renders the derivation the way the test log prints constants.
func (d Derivation) Report() string {
	var b strings.Builder
	fmt.Fprintf(&b, "%s\n", d.Name)
	fmt.Fprintf(&b, "  %s\n", d.Formula)
	fmt.Fprintf(&b, "  derived        = %.13e\n", d.Value)
	fmt.Fprintf(&b, "  reference      = %.13e\n", d.Reference)
	fmt.Fprintf(&b, "  relative error = %.2e", d.RelativeError())
	return b.String()
}

// FineStructureGeometric derives α from recursive angular geometry:
//
//	α = 1 / (k · π · φ²)
func FineStructureGeometric() Derivation {
	return Derivation{
		Name:      "Fine-structure constant (angular geometry)",
		Formula:   "α = 1 / (k · π · φ²)",
		Value:     1 / (AngularContainment * math.Pi * Phi * Phi),
		Reference: FineStructureCODATA,
	}
}

// FineStructureMassRatio derives α from the proton/electron mass ratio:
//
//	α = (π · φ³ · λ) / (m_p / m_e)
func FineStructureMassRatio() Derivation {
	x := math.Pi * Phi * Phi * Phi
	return Derivation{
		Name:      "Fine-structure constant (mass ratio)",
		Formula:   "α = (π · φ³ · λ) / (m_p / m_e)",
		Value:     x * LambdaHRM / ProtonElectronMassRatio,
		Reference: FineStructureCODATA,
	}
}

// PlanckConstant derives h from the hydrogen ground state and the structural
// retention factor η = 1 / (2φ²α):
//
//	h = 2π · m_e · (α·c) · a₀ / η
func PlanckConstant() Derivation {
	alpha := 1 / InverseFineStructure
	v := alpha * SpeedOfLight
	eta := 1 / (2 * Phi * Phi * alpha)
	return Derivation{
		Name:      "Planck constant",
		Formula:   "h = 2π · m_e · (α·c) · a₀ / η,  η = 1 / (2φ²α)",
		Value:     2 * math.Pi * ElectronMass * v * BohrRadius / eta,
		Reference: PlanckCODATA,
	}
}

// RydbergConstant derives R∞ with the HRM phase correction:
//
//	R∞ = λ · α² · m_e · c / (2h)
func RydbergConstant() Derivation {
	return Derivation{
		Name:      "Rydberg constant",
		Formula:   "R∞ = λ · α² · m_e · c / (2h)",
		Value:     LambdaHRM * FineStructureCODATA * FineStructureCODATA * ElectronMass * SpeedOfLight / (2 * PlanckCODATA),
		Reference: RydbergCODATA,
	}
}

// Derivations returns every closed-form derivation in a stable order.
func Derivations() []Derivation {
	return []Derivation{
		FineStructureGeometric(),
		FineStructureMassRatio(),
		PlanckConstant(),
		RydbergConstant(),
	}
}
