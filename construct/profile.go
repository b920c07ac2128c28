package construct

import "fmt"

// Chain identifies the receptor chain a construct belongs to.
type Chain uint8

const (
	// ChainA is the TCR alpha chain.
	ChainA Chain = iota
	// ChainB is the TCR beta chain.
	ChainB
	// NumChains is the number of chains.
	NumChains
)

// String returns the gene-locus label of the chain, "TRA" or "TRB".
func (c Chain) String() string {
	switch c {
	case ChainA:
		return "TRA"
	case ChainB:
		return "TRB"
	}
	return fmt.Sprintf("chain(%d)", uint8(c))
}

// ParseChain parses a chain label. Both the locus label ("TRA", "TRB") and
// the short form ("A", "B") are accepted.
func ParseChain(s string) (Chain, bool) {
	switch s {
	case "TRA", "A":
		return ChainA, true
	case "TRB", "B":
		return ChainB, true
	}
	return NumChains, false
}

// Orientation records which strand of a read carried the construct.
type Orientation uint8

const (
	// Forward means the construct was found in the read as sequenced.
	Forward Orientation = iota
	// ReverseComplement means the construct was found in the reverse
	// complement of the read.
	ReverseComplement
)

func (o Orientation) String() string {
	if o == ReverseComplement {
		return "reverse-complement"
	}
	return "forward"
}

// Mate selects one read of a pair.
type Mate uint8

const (
	// Mate1 is R1.
	Mate1 Mate = iota
	// Mate2 is R2.
	Mate2
)

// Profile describes one construct variant:
//
//   anchor · UMI1 · linker · UMI2 · flank · [AT]
//
// and the mate it is searched for in. All literals are compared by exact
// string equality.
type Profile struct {
	Chain   Chain
	Anchor  string
	Linker  string
	Flank   string
	UMI1Len int
	UMI2Len int
	// Mate is the read of the pair that carries this construct.
	Mate Mate
}

// UMILen is the length of each UMI segment in both library constructs.
const UMILen = 7

// TRA is the chain-A construct, carried by R1.
var TRA = Profile{
	Chain:   ChainA,
	Anchor:  "GACTCTGATGACGACGCACA",
	Linker:  "GTACACGCTGGATCCGACTTGTAGA",
	Flank:   "TACTCTGCTGATACCGATGC",
	UMI1Len: UMILen,
	UMI2Len: UMILen,
	Mate:    Mate1,
}

// TRB is the chain-B construct, carried by R2. Its literals are the reverse
// complements of TRA's.
var TRB = Profile{
	Chain:   ChainB,
	Anchor:  "GCATCGGTATCAGCAGAGTA",
	Linker:  "TCTACAAGTCGGATCCAGCGTGTAC",
	Flank:   "TGTGCGTCGTCATCAGAGTC",
	UMI1Len: UMILen,
	UMI2Len: UMILen,
	Mate:    Mate2,
}

// Len returns the length of the full construct, including the trailing
// orientation base.
func (p *Profile) Len() int {
	return len(p.Anchor) + p.UMI1Len + len(p.Linker) + p.UMI2Len + len(p.Flank) + 1
}

func (p *Profile) String() string {
	return fmt.Sprintf("%s: %s...UMI(%d)...%s...UMI(%d)...%s[AT] on R%d",
		p.Chain, p.Anchor, p.UMI1Len, p.Linker, p.UMI2Len, p.Flank, p.Mate+1)
}
