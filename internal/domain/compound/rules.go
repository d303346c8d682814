// Package compound holds the rule evaluation logic: the static
// drug-likeness rule table and its application to computed descriptors.
package compound

import (
	"fmt"

	"github.com/turtacn/compound-analyzer/pkg/types/compound"
)

// Rule is one fixed-threshold predicate over a descriptor block.  A rule is
// violated when its extracted value exceeds its threshold; thresholds are
// inclusive, so a value exactly at the threshold is compliant.
type Rule struct {
	// Name identifies the rule in violation strings, e.g. "MW".
	Name string

	// Threshold is the inclusive upper bound.
	Threshold float64

	// Integral marks rules over integer-valued descriptors, which
	// controls violation string formatting.
	Integral bool

	// Value extracts the descriptor the rule tests.
	Value func(compound.Descriptors) float64
}

// Violated reports whether the rule fails for the given descriptors.
func (r Rule) Violated(d compound.Descriptors) bool {
	return r.Value(d) > r.Threshold
}

// Violation renders the human-readable violation string, naming the rule,
// its threshold and the actual value.
func (r Rule) Violation(d compound.Descriptors) string {
	if r.Integral {
		return fmt.Sprintf("%s > %d (actual %d)", r.Name, int(r.Threshold), int(r.Value(d)))
	}
	return fmt.Sprintf("%s > %g (actual %.2f)", r.Name, r.Threshold, r.Value(d))
}

// RuleSet is an ordered list of rules evaluated per compound.
type RuleSet []Rule

// DefaultRuleSet returns the Lipinski-style rule table: molecular weight
// below 500, logP at most 5, at most 5 hydrogen-bond donors, at most 10
// acceptors and at most 10 rotatable bonds.
func DefaultRuleSet() RuleSet {
	return RuleSet{
		{
			Name:      "MW",
			Threshold: 500,
			Value:     func(d compound.Descriptors) float64 { return d.MolecularWeight },
		},
		{
			Name:      "logP",
			Threshold: 5,
			Value:     func(d compound.Descriptors) float64 { return d.LogP },
		},
		{
			Name:      "H-donors",
			Threshold: 5,
			Integral:  true,
			Value:     func(d compound.Descriptors) float64 { return float64(d.HDonors) },
		},
		{
			Name:      "H-acceptors",
			Threshold: 10,
			Integral:  true,
			Value:     func(d compound.Descriptors) float64 { return float64(d.HAcceptors) },
		},
		{
			Name:      "Rotatable bonds",
			Threshold: 10,
			Integral:  true,
			Value:     func(d compound.Descriptors) float64 { return float64(d.RotatableBonds) },
		},
	}
}

// Evaluate runs every rule in order and returns the violation strings of
// the failing ones.  An empty slice means the compound is compliant.
func (rs RuleSet) Evaluate(d compound.Descriptors) []string {
	var violations []string
	for _, r := range rs {
		if r.Violated(d) {
			violations = append(violations, r.Violation(d))
		}
	}
	return violations
}
