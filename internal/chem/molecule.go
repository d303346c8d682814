// Package chem is the chemistry toolkit boundary of the compound-analyzer.
// It provides SMILES parsing and the descriptor functions the batch
// evaluator delegates to.  The implementation is self-contained; swapping in
// an RDKit-backed toolkit only requires satisfying the Toolkit interface.
package chem

import (
	"fmt"
	"sort"
	"strings"
)

// Atom is one atom of a parsed structure.
type Atom struct {
	// Symbol is the canonical element symbol ("C", "Cl").
	Symbol string

	// Aromatic reports whether the atom was written in aromatic
	// (lowercase) form.
	Aromatic bool

	// Charge is the formal charge from bracket notation.
	Charge int

	// Isotope is the isotope number from bracket notation, 0 if absent.
	Isotope int

	// Hydrogens is the number of attached hydrogens: the explicit count for
	// bracket atoms, the computed implicit count otherwise.
	Hydrogens int

	// Bracket reports whether the atom was written in bracket notation.
	// Bracket atoms take their hydrogen count literally and bypass valence
	// checking.
	Bracket bool
}

// Bond connects two atoms by index.
type Bond struct {
	A1, A2 int

	// Order is the integral bond order (1, 2 or 3).  Aromatic bonds carry
	// Order 1 with Aromatic set; their effective order is 1.5.
	Order    int
	Aromatic bool

	// InRing is populated by ring perception after parsing.
	InRing bool
}

// Molecule is a parsed SMILES structure.
type Molecule struct {
	Atoms []Atom
	Bonds []Bond

	// adjacency[i] holds the bond indices incident to atom i.
	adjacency [][]int
}

// other returns the atom index on the far side of the bond from atom i.
func (b Bond) other(i int) int {
	if b.A1 == i {
		return b.A2
	}
	return b.A1
}

// Degree returns the number of explicit (heavy-atom) neighbours of atom i.
func (m *Molecule) Degree(i int) int {
	return len(m.adjacency[i])
}

// buildAdjacency populates the per-atom bond index lists.
func (m *Molecule) buildAdjacency() {
	m.adjacency = make([][]int, len(m.Atoms))
	for bi, b := range m.Bonds {
		m.adjacency[b.A1] = append(m.adjacency[b.A1], bi)
		m.adjacency[b.A2] = append(m.adjacency[b.A2], bi)
	}
}

// perceiveRings marks every bond that participates in a cycle.  A bond is in
// a ring iff it is not a bridge of the molecular graph; bridges are found
// with a single DFS over each connected component.
func (m *Molecule) perceiveRings() {
	n := len(m.Atoms)
	disc := make([]int, n)
	low := make([]int, n)
	for i := range disc {
		disc[i] = -1
	}
	timer := 0

	var dfs func(at, parentBond int)
	dfs = func(at, parentBond int) {
		disc[at] = timer
		low[at] = timer
		timer++
		for _, bi := range m.adjacency[at] {
			if bi == parentBond {
				continue
			}
			to := m.Bonds[bi].other(at)
			if disc[to] == -1 {
				dfs(to, bi)
				if low[to] < low[at] {
					low[at] = low[to]
				}
				// A child that cannot reach above this atom makes the
				// connecting bond a bridge; everything else is in a ring.
				if low[to] <= disc[at] {
					m.Bonds[bi].InRing = true
				}
			} else {
				if disc[to] < low[at] {
					low[at] = disc[to]
				}
				if disc[to] < disc[at] {
					m.Bonds[bi].InRing = true
				}
			}
		}
	}

	for i := 0; i < n; i++ {
		if disc[i] == -1 {
			dfs(i, -1)
		}
	}
}

// inRing reports whether atom i participates in any ring bond.
func (m *Molecule) inRing(i int) bool {
	for _, bi := range m.adjacency[i] {
		if m.Bonds[bi].InRing {
			return true
		}
	}
	return false
}

// bondOrderSum returns the bond order total used for hydrogen assignment at
// atom i.  Aromatic bonds count one sigma bond each; an atom that donates a
// pi electron through a formal double bond in the aromatic system (carbon,
// pyridine-type nitrogen) counts one extra, while lone-pair donors (aromatic
// oxygen and sulfur) do not.  This keeps fused-ring bridgeheads at exactly
// their valence instead of rounding three half-order bonds past it, and
// five-membered heteroaromatics hydrogen-free.  Pyrrole-type NH must be
// written bracketed ([nH]), per SMILES convention.
func (m *Molecule) bondOrderSum(i int) int {
	sum := 0
	aromatic := 0
	for _, bi := range m.adjacency[i] {
		b := m.Bonds[bi]
		if b.Aromatic {
			aromatic++
			sum++
			continue
		}
		sum += b.Order
	}
	if aromatic > 0 {
		switch m.Atoms[i].Symbol {
		case "O", "S":
		case "N", "P":
			// Two-coordinate aromatic N is pyridine-type and holds the
			// formal double bond; three-coordinate aromatic N donates its
			// lone pair (N-substituted pyrrole) and gets no extra.
			if len(m.adjacency[i]) == 2 {
				sum++
			}
		default:
			sum++
		}
	}
	return sum
}

// assignImplicitHydrogens computes the hydrogen count of every non-bracket
// atom from its bond order sum and the element's allowed valences, and
// validates that no organic-subset atom exceeds its maximum valence.
// Bracket atoms keep their explicit count and are not checked.
func (m *Molecule) assignImplicitHydrogens() error {
	for i := range m.Atoms {
		a := &m.Atoms[i]
		if a.Bracket {
			continue
		}
		valences, ok := defaultValences[a.Symbol]
		if !ok {
			// Non-organic-subset atoms only occur bracketed; the parser
			// guarantees this.
			continue
		}
		sum := m.bondOrderSum(i)
		assigned := false
		for _, v := range valences {
			if sum <= v {
				a.Hydrogens = v - sum
				assigned = true
				break
			}
		}
		if !assigned {
			return fmt.Errorf("atom %d (%s) exceeds maximum valence: bond order sum %d", i, a.Symbol, sum)
		}
	}
	return nil
}

// validateAromaticity rejects aromatic atoms outside of rings, e.g. "cc".
func (m *Molecule) validateAromaticity() error {
	for i, a := range m.Atoms {
		if a.Aromatic && !m.inRing(i) {
			return fmt.Errorf("aromatic atom %d (%s) is not in a ring", i, strings.ToLower(a.Symbol))
		}
	}
	return nil
}

// Formula returns the molecular formula in Hill order: carbon first,
// hydrogen second, all other elements alphabetically.
func (m *Molecule) Formula() string {
	counts := map[string]int{}
	hydrogens := 0
	for _, a := range m.Atoms {
		counts[a.Symbol]++
		hydrogens += a.Hydrogens
	}
	if h, ok := counts["H"]; ok {
		hydrogens += h
		delete(counts, "H")
	}

	var sb strings.Builder
	writeElem := func(sym string, n int) {
		if n == 0 {
			return
		}
		sb.WriteString(sym)
		if n > 1 {
			fmt.Fprintf(&sb, "%d", n)
		}
	}

	if c, ok := counts["C"]; ok {
		writeElem("C", c)
		delete(counts, "C")
		writeElem("H", hydrogens)
		hydrogens = 0
	}

	rest := make([]string, 0, len(counts))
	for sym := range counts {
		rest = append(rest, sym)
	}
	if hydrogens > 0 {
		rest = append(rest, "H")
		counts["H"] = hydrogens
	}
	sort.Strings(rest)
	for _, sym := range rest {
		writeElem(sym, counts[sym])
	}
	return sb.String()
}
