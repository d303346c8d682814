package chem

import (
	"github.com/turtacn/compound-analyzer/pkg/types/compound"
)

// Toolkit is the boundary the batch evaluator computes descriptors through.
// ParseSMILES reports structural validity; Descriptors computes the full
// descriptor block for a structure that ParseSMILES accepted.
type Toolkit interface {
	// Descriptors parses the SMILES string and computes all descriptors.
	// An unparseable string returns an AppError with CodeInvalidSMILES;
	// any post-parse failure returns CodeDescriptorFailed.
	Descriptors(smiles string) (compound.Descriptors, error)
}

type nativeToolkit struct{}

// NewToolkit returns the built-in descriptor toolkit.
func NewToolkit() Toolkit {
	return nativeToolkit{}
}

func (nativeToolkit) Descriptors(smiles string) (compound.Descriptors, error) {
	mol, err := ParseSMILES(smiles)
	if err != nil {
		return compound.Descriptors{}, err
	}
	return compound.Descriptors{
		MolecularWeight: mol.MolecularWeight(),
		LogP:            mol.LogP(),
		HDonors:         mol.HDonorCount(),
		HAcceptors:      mol.HAcceptorCount(),
		RotatableBonds:  mol.RotatableBondCount(),
		Formula:         mol.Formula(),
		HeavyAtoms:      mol.HeavyAtomCount(),
		AromaticRings:   mol.AromaticRingCount(),
	}, nil
}
