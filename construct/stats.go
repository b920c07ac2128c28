package construct

import "fmt"

// Stats counts classification outcomes.
type Stats struct {
	// Pairs is the number of read pairs examined.
	Pairs int
	// Classified[c] is the number of pairs written for chain c.
	Classified [NumChains]int
	// ReverseComplement[c] is the subset of Classified[c] whose construct
	// was found on the reverse strand.
	ReverseComplement [NumChains]int
	// Unmatched is the number of pairs with no construct.
	Unmatched int
	// EmptyPayload is the number of pairs dropped because trimming left an
	// empty mate.
	EmptyPayload int
	// Malformed is the number of pairs skipped as unusable records.
	Malformed int
}

// Add records the outcome of one pair. p is consulted only for outcome
// Classified.
func (s *Stats) Add(o Outcome, p *Pair) {
	s.Pairs++
	switch o {
	case Classified:
		s.Classified[p.Read.Chain]++
		if p.Read.Orientation == ReverseComplement {
			s.ReverseComplement[p.Read.Chain]++
		}
	case Unmatched:
		s.Unmatched++
	case EmptyPayload:
		s.EmptyPayload++
	case Malformed:
		s.Malformed++
	}
}

// Merge adds the field values of the two Stats objects and creates new Stats.
func (s Stats) Merge(o Stats) Stats {
	s.Pairs += o.Pairs
	for c := range s.Classified {
		s.Classified[c] += o.Classified[c]
		s.ReverseComplement[c] += o.ReverseComplement[c]
	}
	s.Unmatched += o.Unmatched
	s.EmptyPayload += o.EmptyPayload
	s.Malformed += o.Malformed
	return s
}

func (s Stats) String() string {
	return fmt.Sprintf("pairs: %d, TRA: %d (%d rc), TRB: %d (%d rc), unmatched: %d, empty payload: %d, malformed: %d",
		s.Pairs,
		s.Classified[ChainA], s.ReverseComplement[ChainA],
		s.Classified[ChainB], s.ReverseComplement[ChainB],
		s.Unmatched, s.EmptyPayload, s.Malformed)
}
