package chem

// Standard atomic weights (IUPAC 2021, conventional values) for the elements
// the parser accepts.  Elements absent from this table are rejected at parse
// time rather than silently contributing zero mass.
var atomicWeights = map[string]float64{
	"H": 1.008, "He": 4.003,
	"Li": 6.94, "Be": 9.012, "B": 10.81, "C": 12.011, "N": 14.007,
	"O": 15.999, "F": 18.998, "Ne": 20.180,
	"Na": 22.990, "Mg": 24.305, "Al": 26.982, "Si": 28.085, "P": 30.974,
	"S": 32.06, "Cl": 35.45, "Ar": 39.95,
	"K": 39.098, "Ca": 40.078, "Ti": 47.867, "Cr": 51.996, "Mn": 54.938,
	"Fe": 55.845, "Co": 58.933, "Ni": 58.693, "Cu": 63.546, "Zn": 65.38,
	"Ga": 69.723, "Ge": 72.630, "As": 74.922, "Se": 78.971, "Br": 79.904,
	"Kr": 83.798,
	"Rb": 85.468, "Sr": 87.62, "Mo": 95.95, "Ru": 101.07, "Rh": 102.906,
	"Pd": 106.42, "Ag": 107.868, "Cd": 112.414, "In": 114.818,
	"Sn": 118.710, "Sb": 121.760, "Te": 127.60, "I": 126.904, "Xe": 131.293,
	"Cs": 132.905, "Ba": 137.327, "W": 183.84, "Re": 186.207, "Os": 190.23,
	"Ir": 192.217, "Pt": 195.084, "Au": 196.967, "Hg": 200.592,
	"Tl": 204.38, "Pb": 207.2, "Bi": 208.980,
}

// hydrogenWeight is referenced wherever implicit hydrogens are summed.
const hydrogenWeight = 1.008

// defaultValences lists the allowed valence states, in ascending order, for
// the organic-subset elements.  Implicit hydrogen counts are derived from the
// smallest allowed valence that accommodates the atom's bond order sum.
var defaultValences = map[string][]int{
	"B":  {3},
	"C":  {4},
	"N":  {3, 5},
	"O":  {2},
	"P":  {3, 5},
	"S":  {2, 4, 6},
	"F":  {1},
	"Cl": {1},
	"Br": {1},
	"I":  {1},
}

// organicSubset is the set of elements that may be written without brackets.
var organicSubset = map[string]bool{
	"B": true, "C": true, "N": true, "O": true, "P": true, "S": true,
	"F": true, "Cl": true, "Br": true, "I": true,
}

// aromaticSymbols maps the lowercase aromatic forms accepted outside
// brackets to their element symbol.  "se" and "as" are additionally accepted
// inside brackets.
var aromaticSymbols = map[string]string{
	"b": "B", "c": "C", "n": "N", "o": "O", "p": "P", "s": "S",
}

// hBondElements are the elements counted by the Lipinski donor/acceptor
// definitions.
var hBondElements = map[string]bool{
	"N": true,
	"O": true,
}
