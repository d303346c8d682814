package chem

// Atomic logP contributions, a reduced Wildman-Crippen style additive
// scheme.  Keys are element symbols; aromatic forms where the aromatic
// contribution differs are resolved in logPContribution.
var logPAliphatic = map[string]float64{
	"C":  0.1441,
	"N":  -1.0190,
	"O":  -0.2893,
	"S":  0.6482,
	"P":  0.8612,
	"F":  0.4202,
	"Cl": 0.6895,
	"Br": 0.8456,
	"I":  0.8857,
}

var logPAromatic = map[string]float64{
	"C": 0.1581,
	"N": -0.3240,
	"O": 0.1552,
	"S": 0.6482,
}

const (
	logPHydrogenOnCarbon = 0.1230
	logPHydrogenOnHetero = -0.2677
	logPCarbonylOxygen   = -0.1526
)

// logPContribution returns the additive contribution of atom i, excluding
// its hydrogens.
func (m *Molecule) logPContribution(i int) float64 {
	a := m.Atoms[i]
	if a.Aromatic {
		if v, ok := logPAromatic[a.Symbol]; ok {
			return v
		}
	}
	if a.Symbol == "O" && m.hasDoubleBond(i) {
		return logPCarbonylOxygen
	}
	if v, ok := logPAliphatic[a.Symbol]; ok {
		return v
	}
	return 0
}

func (m *Molecule) hasDoubleBond(i int) bool {
	for _, bi := range m.adjacency[i] {
		if m.Bonds[bi].Order == 2 && !m.Bonds[bi].Aromatic {
			return true
		}
	}
	return false
}

// MolecularWeight returns the average molecular weight in g/mol, summing
// atomic weights of all heavy atoms plus attached hydrogens.
func (m *Molecule) MolecularWeight() float64 {
	var w float64
	for _, a := range m.Atoms {
		w += atomicWeights[a.Symbol]
		w += float64(a.Hydrogens) * hydrogenWeight
	}
	return w
}

// LogP returns the estimated octanol-water partition coefficient from the
// additive contribution scheme above.
func (m *Molecule) LogP() float64 {
	var p float64
	for i, a := range m.Atoms {
		p += m.logPContribution(i)
		if a.Hydrogens > 0 {
			h := logPHydrogenOnCarbon
			if a.Symbol != "C" {
				h = logPHydrogenOnHetero
			}
			p += float64(a.Hydrogens) * h
		}
	}
	return p
}

// HDonorCount returns the number of nitrogen or oxygen atoms carrying at
// least one hydrogen.
func (m *Molecule) HDonorCount() int {
	n := 0
	for _, a := range m.Atoms {
		if hBondElements[a.Symbol] && a.Hydrogens > 0 {
			n++
		}
	}
	return n
}

// HAcceptorCount returns the number of nitrogen and oxygen atoms.
func (m *Molecule) HAcceptorCount() int {
	n := 0
	for _, a := range m.Atoms {
		if hBondElements[a.Symbol] {
			n++
		}
	}
	return n
}

// RotatableBondCount returns the number of single, acyclic, non-aromatic
// bonds between two non-terminal atoms, excluding amide C-N bonds and bonds
// to triple-bonded atoms.
func (m *Molecule) RotatableBondCount() int {
	n := 0
	for bi, b := range m.Bonds {
		if b.Order != 1 || b.Aromatic || b.InRing {
			continue
		}
		if m.Degree(b.A1) < 2 || m.Degree(b.A2) < 2 {
			continue
		}
		if m.hasTripleBond(b.A1) || m.hasTripleBond(b.A2) {
			continue
		}
		if m.isAmideBond(bi) {
			continue
		}
		n++
	}
	return n
}

func (m *Molecule) hasTripleBond(i int) bool {
	for _, bi := range m.adjacency[i] {
		if m.Bonds[bi].Order == 3 {
			return true
		}
	}
	return false
}

// isAmideBond reports whether bond bi is a C-N bond where the carbon also
// carries a double-bonded oxygen.
func (m *Molecule) isAmideBond(bi int) bool {
	b := m.Bonds[bi]
	var carbon int
	switch {
	case m.Atoms[b.A1].Symbol == "C" && m.Atoms[b.A2].Symbol == "N":
		carbon = b.A1
	case m.Atoms[b.A2].Symbol == "C" && m.Atoms[b.A1].Symbol == "N":
		carbon = b.A2
	default:
		return false
	}
	for _, cbi := range m.adjacency[carbon] {
		cb := m.Bonds[cbi]
		if cb.Order == 2 && !cb.Aromatic && m.Atoms[cb.other(carbon)].Symbol == "O" {
			return true
		}
	}
	return false
}

// HeavyAtomCount returns the number of non-hydrogen atoms.
func (m *Molecule) HeavyAtomCount() int {
	n := 0
	for _, a := range m.Atoms {
		if a.Symbol != "H" {
			n++
		}
	}
	return n
}

// AromaticRingCount returns the number of independent cycles in the
// aromatic-bond subgraph, i.e. its cyclomatic number.
func (m *Molecule) AromaticRingCount() int {
	atomSet := map[int]bool{}
	edges := 0
	for _, b := range m.Bonds {
		if !b.Aromatic {
			continue
		}
		edges++
		atomSet[b.A1] = true
		atomSet[b.A2] = true
	}
	if edges == 0 {
		return 0
	}

	// Count connected components of the aromatic subgraph.
	parent := map[int]int{}
	var find func(x int) int
	find = func(x int) int {
		if parent[x] != x {
			parent[x] = find(parent[x])
		}
		return parent[x]
	}
	for a := range atomSet {
		parent[a] = a
	}
	for _, b := range m.Bonds {
		if !b.Aromatic {
			continue
		}
		ra, rb := find(b.A1), find(b.A2)
		if ra != rb {
			parent[ra] = rb
		}
	}
	components := 0
	for a := range atomSet {
		if find(a) == a {
			components++
		}
	}
	return edges - len(atomSet) + components
}
