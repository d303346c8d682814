// Package compound defines the data transfer types shared by every layer of
// the compound-analyzer: batch inputs, computed descriptors, and per-compound
// evaluation results.
package compound

import "time"

// Input is one entry of an analysis batch.  ID may be empty; the evaluator
// assigns a sequential identifier in that case.  SMILES is an arbitrary
// string and is not validated until parse time.
type Input struct {
	ID     string `json:"compound_id,omitempty"`
	SMILES string `json:"smiles"`
}

// Descriptors holds the physicochemical descriptors computed for a parsed
// structure.  The first five fields feed the rule set; the remainder are
// informational.
type Descriptors struct {
	MolecularWeight float64 `json:"molecular_weight"`
	LogP            float64 `json:"logP"`
	HDonors         int     `json:"h_donors"`
	HAcceptors      int     `json:"h_acceptors"`
	RotatableBonds  int     `json:"rotatable_bonds"`

	Formula       string `json:"formula,omitempty"`
	HeavyAtoms    int    `json:"heavy_atoms,omitempty"`
	AromaticRings int    `json:"aromatic_rings,omitempty"`
}

// Result is the evaluation outcome for a single compound.
//
// Invariants:
//   - IsValid false ⇒ MolecularWeight and LogP are nil, IsCompliant is false,
//     and RuleViolations carries an explicit failure marker.
//   - IsValid true ⇒ IsCompliant is true iff RuleViolations is empty.
type Result struct {
	CompoundID      string   `json:"compound_id"`
	SMILES          string   `json:"smiles"`
	IsValid         bool     `json:"is_valid"`
	MolecularWeight *float64 `json:"molecular_weight"`
	LogP            *float64 `json:"logP"`
	IsCompliant     bool     `json:"is_compliant"`
	RuleViolations  []string `json:"rule_violations"`
}

// Analysis is a completed batch: the ordered result table plus metadata.
// It exists so that the optional store and the HTTP surface share one shape;
// the evaluator itself returns the bare []Result.
type Analysis struct {
	ID          string    `json:"id"`
	SubmittedAt time.Time `json:"submitted_at"`
	Count       int       `json:"count"`
	Results     []Result  `json:"results"`
}
