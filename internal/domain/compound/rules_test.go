package compound

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/turtacn/compound-analyzer/pkg/types/compound"
)

func compliantDescriptors() compound.Descriptors {
	return compound.Descriptors{
		MolecularWeight: 180.16,
		LogP:            1.31,
		HDonors:         1,
		HAcceptors:      4,
		RotatableBonds:  3,
	}
}

func TestDefaultRuleSetCompliant(t *testing.T) {
	rs := DefaultRuleSet()
	assert.Len(t, rs, 5)
	assert.Empty(t, rs.Evaluate(compliantDescriptors()))
}

func TestRuleViolations(t *testing.T) {
	rs := DefaultRuleSet()

	cases := []struct {
		name   string
		mutate func(*compound.Descriptors)
		want   string
	}{
		{"molecular weight", func(d *compound.Descriptors) { d.MolecularWeight = 612.74 }, "MW > 500 (actual 612.74)"},
		{"logP", func(d *compound.Descriptors) { d.LogP = 7.5 }, "logP > 5 (actual 7.50)"},
		{"donors", func(d *compound.Descriptors) { d.HDonors = 6 }, "H-donors > 5 (actual 6)"},
		{"acceptors", func(d *compound.Descriptors) { d.HAcceptors = 12 }, "H-acceptors > 10 (actual 12)"},
		{"rotatable bonds", func(d *compound.Descriptors) { d.RotatableBonds = 11 }, "Rotatable bonds > 10 (actual 11)"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			d := compliantDescriptors()
			tc.mutate(&d)
			violations := rs.Evaluate(d)
			assert.Equal(t, []string{tc.want}, violations)
		})
	}
}

func TestThresholdsAreInclusive(t *testing.T) {
	rs := DefaultRuleSet()
	d := compound.Descriptors{
		MolecularWeight: 500,
		LogP:            5,
		HDonors:         5,
		HAcceptors:      10,
		RotatableBonds:  10,
	}
	assert.Empty(t, rs.Evaluate(d))
}

func TestMultipleViolationsKeepRuleOrder(t *testing.T) {
	rs := DefaultRuleSet()
	d := compound.Descriptors{
		MolecularWeight: 812.3,
		LogP:            9.1,
		HDonors:         2,
		HAcceptors:      14,
		RotatableBonds:  4,
	}
	violations := rs.Evaluate(d)
	assert.Equal(t, []string{
		"MW > 500 (actual 812.30)",
		"logP > 5 (actual 9.10)",
		"H-acceptors > 10 (actual 14)",
	}, violations)
}
