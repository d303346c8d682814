package chem

import (
	"fmt"
	"strings"

	"github.com/turtacn/compound-analyzer/pkg/errors"
)

// ParseSMILES parses a SMILES string into a Molecule.  Supported notation:
// the organic subset (B C N O P S F Cl Br I), aromatic lowercase forms,
// bracket atoms with isotope/chirality/hydrogen-count/charge/atom-class,
// branches, single/double/triple/aromatic bonds, directional bonds (treated
// as single), ring closures including the %nn form, and dot-separated
// fragments.
//
// Parse failures return an AppError with CodeInvalidSMILES.
func ParseSMILES(smiles string) (*Molecule, error) {
	s := strings.TrimSpace(smiles)
	if s == "" {
		return nil, errors.New(errors.CodeInvalidSMILES, "empty SMILES string")
	}

	p := &parser{input: s, ringBonds: map[int]ringOpening{}}
	mol, err := p.parse()
	if err != nil {
		return nil, errors.New(errors.CodeInvalidSMILES, "SMILES parse failed").
			WithDetail(fmt.Sprintf("%s: %v", smiles, err))
	}

	mol.buildAdjacency()
	if err := mol.assignImplicitHydrogens(); err != nil {
		return nil, errors.New(errors.CodeInvalidSMILES, "SMILES parse failed").
			WithDetail(fmt.Sprintf("%s: %v", smiles, err))
	}
	mol.perceiveRings()
	if err := mol.validateAromaticity(); err != nil {
		return nil, errors.New(errors.CodeInvalidSMILES, "SMILES parse failed").
			WithDetail(fmt.Sprintf("%s: %v", smiles, err))
	}
	return mol, nil
}

// ringOpening records the first atom of a not-yet-closed ring bond together
// with the bond symbol (if any) written at the opening.
type ringOpening struct {
	atom     int
	order    int
	aromatic bool
	explicit bool
}

// pendingBond carries a bond symbol until the next atom is read.
type pendingBond struct {
	order    int
	aromatic bool
	explicit bool
}

type parser struct {
	input string
	pos   int

	mol       Molecule
	prev      int // index of the atom the next bond attaches to; -1 at start
	stack     []int
	pending   pendingBond
	ringBonds map[int]ringOpening
}

func (p *parser) parse() (*Molecule, error) {
	p.prev = -1

	for p.pos < len(p.input) {
		c := p.input[p.pos]
		switch {
		case c == '(':
			if p.prev < 0 {
				return nil, fmt.Errorf("branch at position %d has no preceding atom", p.pos)
			}
			p.stack = append(p.stack, p.prev)
			p.pos++
		case c == ')':
			if len(p.stack) == 0 {
				return nil, fmt.Errorf("unmatched ')' at position %d", p.pos)
			}
			if p.pending.explicit {
				return nil, fmt.Errorf("dangling bond before ')' at position %d", p.pos)
			}
			p.prev = p.stack[len(p.stack)-1]
			p.stack = p.stack[:len(p.stack)-1]
			p.pos++
		case c == '.':
			if p.pending.explicit {
				return nil, fmt.Errorf("bond before '.' at position %d", p.pos)
			}
			p.prev = -1
			p.pos++
		case c == '-' || c == '=' || c == '#' || c == ':' || c == '/' || c == '\\':
			if p.pending.explicit {
				return nil, fmt.Errorf("consecutive bond symbols at position %d", p.pos)
			}
			p.pending = bondFromSymbol(c)
			p.pos++
		case c >= '0' && c <= '9':
			if err := p.ringClosure(int(c - '0')); err != nil {
				return nil, err
			}
			p.pos++
		case c == '%':
			num, width, err := p.twoDigitRing()
			if err != nil {
				return nil, err
			}
			if err := p.ringClosure(num); err != nil {
				return nil, err
			}
			p.pos += width
		case c == '[':
			atom, width, err := p.bracketAtom()
			if err != nil {
				return nil, err
			}
			p.addAtom(atom)
			p.pos += width
		default:
			atom, width, err := p.organicAtom()
			if err != nil {
				return nil, err
			}
			p.addAtom(atom)
			p.pos += width
		}
	}

	if len(p.stack) != 0 {
		return nil, fmt.Errorf("unclosed '(' (%d open)", len(p.stack))
	}
	if p.pending.explicit {
		return nil, fmt.Errorf("dangling bond at end of input")
	}
	if len(p.ringBonds) != 0 {
		return nil, fmt.Errorf("unclosed ring bond (%d open)", len(p.ringBonds))
	}
	if len(p.mol.Atoms) == 0 {
		return nil, fmt.Errorf("no atoms")
	}
	return &p.mol, nil
}

func bondFromSymbol(c byte) pendingBond {
	switch c {
	case '=':
		return pendingBond{order: 2, explicit: true}
	case '#':
		return pendingBond{order: 3, explicit: true}
	case ':':
		return pendingBond{order: 1, aromatic: true, explicit: true}
	default: // '-', '/', '\\' are all single bonds here
		return pendingBond{order: 1, explicit: true}
	}
}

// addAtom appends the atom and bonds it to the previous atom according to
// the pending bond symbol, defaulting to aromatic when both ends are
// aromatic and single otherwise.
func (p *parser) addAtom(a Atom) {
	idx := len(p.mol.Atoms)
	p.mol.Atoms = append(p.mol.Atoms, a)

	if p.prev >= 0 {
		bond := Bond{A1: p.prev, A2: idx, Order: 1}
		if p.pending.explicit {
			bond.Order = p.pending.order
			bond.Aromatic = p.pending.aromatic
		} else if p.mol.Atoms[p.prev].Aromatic && a.Aromatic {
			bond.Aromatic = true
		}
		p.mol.Bonds = append(p.mol.Bonds, bond)
	}
	p.pending = pendingBond{}
	p.prev = idx
}

// ringClosure opens or closes the numbered ring bond.
func (p *parser) ringClosure(num int) error {
	if p.prev < 0 {
		return fmt.Errorf("ring closure %d has no preceding atom", num)
	}

	open, ok := p.ringBonds[num]
	if !ok {
		p.ringBonds[num] = ringOpening{
			atom:     p.prev,
			order:    p.pending.order,
			aromatic: p.pending.aromatic,
			explicit: p.pending.explicit,
		}
		p.pending = pendingBond{}
		return nil
	}
	delete(p.ringBonds, num)

	if open.atom == p.prev {
		return fmt.Errorf("ring closure %d bonds atom %d to itself", num, p.prev)
	}
	for _, b := range p.mol.Bonds {
		if (b.A1 == open.atom && b.A2 == p.prev) || (b.A1 == p.prev && b.A2 == open.atom) {
			return fmt.Errorf("ring closure %d duplicates an existing bond", num)
		}
	}

	bond := Bond{A1: open.atom, A2: p.prev, Order: 1}
	switch {
	case open.explicit && p.pending.explicit &&
		(open.order != p.pending.order || open.aromatic != p.pending.aromatic):
		return fmt.Errorf("ring closure %d has conflicting bond symbols", num)
	case open.explicit:
		bond.Order = open.order
		bond.Aromatic = open.aromatic
	case p.pending.explicit:
		bond.Order = p.pending.order
		bond.Aromatic = p.pending.aromatic
	case p.mol.Atoms[open.atom].Aromatic && p.mol.Atoms[p.prev].Aromatic:
		bond.Aromatic = true
	}
	p.mol.Bonds = append(p.mol.Bonds, bond)
	p.pending = pendingBond{}
	return nil
}

// twoDigitRing reads a %nn ring closure number starting at p.pos.
func (p *parser) twoDigitRing() (num, width int, err error) {
	if p.pos+2 >= len(p.input) {
		return 0, 0, fmt.Errorf("truncated %%nn ring closure at position %d", p.pos)
	}
	d1, d2 := p.input[p.pos+1], p.input[p.pos+2]
	if d1 < '0' || d1 > '9' || d2 < '0' || d2 > '9' {
		return 0, 0, fmt.Errorf("malformed %%nn ring closure at position %d", p.pos)
	}
	return int(d1-'0')*10 + int(d2-'0'), 3, nil
}

// organicAtom reads an unbracketed organic-subset atom at p.pos.
func (p *parser) organicAtom() (Atom, int, error) {
	c := p.input[p.pos]

	// Two-character symbols first.
	if c == 'C' && p.pos+1 < len(p.input) && p.input[p.pos+1] == 'l' {
		return Atom{Symbol: "Cl"}, 2, nil
	}
	if c == 'B' && p.pos+1 < len(p.input) && p.input[p.pos+1] == 'r' {
		return Atom{Symbol: "Br"}, 2, nil
	}

	if sym, ok := aromaticSymbols[string(c)]; ok {
		return Atom{Symbol: sym, Aromatic: true}, 1, nil
	}
	if c >= 'A' && c <= 'Z' && organicSubset[string(c)] {
		return Atom{Symbol: string(c)}, 1, nil
	}
	if c == '*' {
		return Atom{}, 0, fmt.Errorf("wildcard atom '*' is not supported")
	}
	return Atom{}, 0, fmt.Errorf("unexpected character %q at position %d", c, p.pos)
}

// bracketAtom reads a [ ... ] atom expression starting at p.pos.
// Returned width includes both brackets.
func (p *parser) bracketAtom() (Atom, int, error) {
	start := p.pos
	end := strings.IndexByte(p.input[start:], ']')
	if end < 0 {
		return Atom{}, 0, fmt.Errorf("unterminated bracket atom at position %d", start)
	}
	body := p.input[start+1 : start+end]
	width := end + 1
	if body == "" {
		return Atom{}, 0, fmt.Errorf("empty bracket atom at position %d", start)
	}

	atom := Atom{Bracket: true}
	i := 0

	// Isotope.
	for i < len(body) && body[i] >= '0' && body[i] <= '9' {
		atom.Isotope = atom.Isotope*10 + int(body[i]-'0')
		i++
	}

	// Element symbol: uppercase (+ optional lowercase), or an aromatic
	// lowercase form ("c", "n", "o", "p", "s", "se", "as").
	switch {
	case i < len(body) && body[i] >= 'A' && body[i] <= 'Z':
		sym := string(body[i])
		i++
		if i < len(body) && body[i] >= 'a' && body[i] <= 'z' {
			two := sym + string(body[i])
			if _, ok := atomicWeights[two]; ok {
				sym = two
				i++
			}
		}
		if _, ok := atomicWeights[sym]; !ok {
			return Atom{}, 0, fmt.Errorf("unknown element %q at position %d", sym, start)
		}
		atom.Symbol = sym
	case i+1 < len(body) && (body[i:i+2] == "se" || body[i:i+2] == "as"):
		atom.Symbol = strings.ToUpper(body[i:i+1]) + body[i+1:i+2]
		atom.Aromatic = true
		i += 2
	case i < len(body):
		sym, ok := aromaticSymbols[string(body[i])]
		if !ok {
			return Atom{}, 0, fmt.Errorf("unknown element %q at position %d", body[i], start)
		}
		atom.Symbol = sym
		atom.Aromatic = true
		i++
	default:
		return Atom{}, 0, fmt.Errorf("bracket atom without element at position %d", start)
	}

	// Chirality markers are parsed and discarded; descriptors here are
	// stereochemistry-independent.
	for i < len(body) && body[i] == '@' {
		i++
	}
	if i+1 < len(body) && (strings.HasPrefix(body[i:], "TH") || strings.HasPrefix(body[i:], "AL")) {
		i += 2
		for i < len(body) && body[i] >= '0' && body[i] <= '9' {
			i++
		}
	}

	// Explicit hydrogen count.
	if i < len(body) && body[i] == 'H' {
		i++
		atom.Hydrogens = 1
		if i < len(body) && body[i] >= '0' && body[i] <= '9' {
			atom.Hydrogens = 0
			for i < len(body) && body[i] >= '0' && body[i] <= '9' {
				atom.Hydrogens = atom.Hydrogens*10 + int(body[i]-'0')
				i++
			}
		}
	}

	// Charge: "+", "-", repeated forms, or a signed digit count.
	if i < len(body) && (body[i] == '+' || body[i] == '-') {
		sign := 1
		if body[i] == '-' {
			sign = -1
		}
		symbol := body[i]
		count := 1
		i++
		if i < len(body) && body[i] >= '0' && body[i] <= '9' {
			count = 0
			for i < len(body) && body[i] >= '0' && body[i] <= '9' {
				count = count*10 + int(body[i]-'0')
				i++
			}
		} else {
			for i < len(body) && body[i] == symbol {
				count++
				i++
			}
		}
		atom.Charge = sign * count
	}

	// Atom class, ignored.
	if i < len(body) && body[i] == ':' {
		i++
		if i >= len(body) || body[i] < '0' || body[i] > '9' {
			return Atom{}, 0, fmt.Errorf("malformed atom class at position %d", start)
		}
		for i < len(body) && body[i] >= '0' && body[i] <= '9' {
			i++
		}
	}

	if i != len(body) {
		return Atom{}, 0, fmt.Errorf("trailing characters %q in bracket atom at position %d", body[i:], start)
	}
	return atom, width, nil
}
