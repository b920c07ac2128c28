package construct

import (
	"strings"

	"github.com/grailbio/tcrpair/dna"
)

// Match describes a construct found in a read.
type Match struct {
	UMI1, UMI2  string
	Orientation Orientation
	// Start and Limit delimit the construct, as a half-open range in the
	// coordinates of the read as sequenced, regardless of Orientation.
	Start, Limit int
}

// Payload returns the part of seq that lies outside the construct on its
// downstream side: the suffix after the construct for a forward match, or the
// prefix before it for a reverse-complement match. seq must be the sequence
// (or a same-length companion such as the quality string) that m was
// extracted from.
func (m Match) Payload(seq string) string {
	start, limit := m.PayloadRange(len(seq))
	return seq[start:limit]
}

// PayloadRange returns the half-open range of Payload within a read of
// length n.
func (m Match) PayloadRange(n int) (start, limit int) {
	if m.Orientation == ReverseComplement {
		return 0, m.Start
	}
	return m.Limit, n
}

// Extract searches seq for the construct described by p. The read as
// sequenced is tried first; only if no occurrence validates is the reverse
// complement tried. It returns false if neither orientation carries a
// well-formed construct.
//
// Extract is a pure function of its arguments.
func Extract(p *Profile, seq string) (Match, bool) {
	if len(seq) < p.Len() {
		return Match{}, false
	}
	if m, ok := p.search(seq); ok {
		m.Orientation = Forward
		return m, true
	}
	rc := dna.ReverseCompString(seq)
	if m, ok := p.search(rc); ok {
		n := len(seq)
		m.Start, m.Limit = n-m.Limit, n-m.Start
		m.Orientation = ReverseComplement
		return m, true
	}
	return Match{}, false
}

// search returns the leftmost anchor occurrence in seq that is followed by a
// well-formed construct. Start and Limit are in seq's coordinates.
func (p *Profile) search(seq string) (Match, bool) {
	limit := len(seq) - p.Len()
	for from := 0; from <= limit; {
		i := strings.Index(seq[from:], p.Anchor)
		if i < 0 {
			break
		}
		start := from + i
		if start > limit {
			break
		}
		if m, ok := p.matchAt(seq, start); ok {
			return m, true
		}
		from = start + 1
	}
	return Match{}, false
}

// matchAt validates the construct whose anchor begins at seq[start]. The
// caller guarantees len(seq)-start >= p.Len().
func (p *Profile) matchAt(seq string, start int) (Match, bool) {
	pos := start + len(p.Anchor)
	umi1 := seq[pos : pos+p.UMI1Len]
	pos += p.UMI1Len
	if seq[pos:pos+len(p.Linker)] != p.Linker {
		return Match{}, false
	}
	pos += len(p.Linker)
	umi2 := seq[pos : pos+p.UMI2Len]
	pos += p.UMI2Len
	if seq[pos:pos+len(p.Flank)] != p.Flank {
		return Match{}, false
	}
	pos += len(p.Flank)
	if b := seq[pos]; b != 'A' && b != 'T' {
		return Match{}, false
	}
	pos++
	// UMIs may carry no-calls, but nothing that would corrupt a header tag.
	if !dna.IsACGTN(umi1) || !dna.IsACGTN(umi2) {
		return Match{}, false
	}
	return Match{UMI1: umi1, UMI2: umi2, Start: start, Limit: pos}, true
}
