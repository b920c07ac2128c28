package construct

import (
	"strings"
	"testing"

	"github.com/grailbio/tcrpair/dna"
	"github.com/grailbio/tcrpair/encoding/fastq"
	"github.com/grailbio/testutil/expect"
)

func testRead(id, seq string) fastq.Read {
	return fastq.Read{ID: id, Seq: seq, Unk: "+", Qual: strings.Repeat("I", len(seq))}
}

func TestClassifyChainA(t *testing.T) {
	r1 := testRead("@r1 1:N:0:ATCACG", testConstruct(&TRA, "AAAAAAA", "CCCCCCC", 'A')+"ACGTACGT")
	r2 := testRead("@r1 2:N:0:ATCACG", "TTGGCCAATTGG")
	var p Pair
	c := NewClassifier()
	expect.EQ(t, c.Classify(&r1, &r2, &p), Classified)
	expect.EQ(t, p.Read, ClassifiedRead{
		ReadID:      "r1",
		Chain:       ChainA,
		UMI1:        "AAAAAAA",
		UMI2:        "CCCCCCC",
		Orientation: Forward,
		Seq:         "ACGTACGT",
		Qual:        "IIIIIIII",
	})
	expect.EQ(t, p.R1, fastq.Read{
		ID:   "@r1 1:N:0:ATCACG UMI:TRA:AAAAAAA_CCCCCCC",
		Seq:  "ACGTACGT",
		Unk:  "+",
		Qual: "IIIIIIII",
	})
	expect.EQ(t, p.R2, fastq.Read{
		ID:   "@r1 2:N:0:ATCACG UMI:TRA:AAAAAAA_CCCCCCC",
		Seq:  "TTGGCCAATTGG",
		Unk:  "+",
		Qual: "IIIIIIIIIIII",
	})
	// The inputs are left alone.
	expect.EQ(t, r1.ID, "@r1 1:N:0:ATCACG")
}

func TestClassifyChainBReverse(t *testing.T) {
	const payload = "GGATCCAAGT"
	r1 := testRead("@r2/1", "ACGTACGTACGTACGT")
	r2seq := dna.ReverseCompString("CA" + testConstruct(&TRB, "GGGGGGG", "TTTTTTT", 'T') + payload)
	r2 := testRead("@r2/2", r2seq)
	var p Pair
	expect.EQ(t, NewClassifier().Classify(&r1, &r2, &p), Classified)
	expect.EQ(t, p.Read.ReadID, "r2")
	expect.EQ(t, p.Read.Chain, ChainB)
	expect.EQ(t, p.Read.Orientation, ReverseComplement)
	expect.EQ(t, p.Read.UMI1, "GGGGGGG")
	expect.EQ(t, p.Read.UMI2, "TTTTTTT")
	expect.EQ(t, p.R2.Seq, dna.ReverseCompString(payload))
	expect.EQ(t, p.R2.ID, "@r2/2 UMI:TRB:GGGGGGG_TTTTTTT:RC")
	expect.EQ(t, p.R1.Seq, r1.Seq)
	expect.EQ(t, p.R1.ID, "@r2/1 UMI:TRB:GGGGGGG_TTTTTTT:RC")
}

func TestClassifyChainAPriority(t *testing.T) {
	r1 := testRead("@r3", testConstruct(&TRA, "AAAAAAA", "CCCCCCC", 'A')+"GGG")
	r2 := testRead("@r3", testConstruct(&TRB, "GGGGGGG", "TTTTTTT", 'A')+"CCC")
	var p Pair
	expect.EQ(t, NewClassifier().Classify(&r1, &r2, &p), Classified)
	expect.EQ(t, p.Read.Chain, ChainA)
	expect.EQ(t, p.R2.Seq, r2.Seq)
}

func TestClassifyMateAssignment(t *testing.T) {
	// A TRB construct on R1 and a TRA construct on R2 are not looked for.
	r1 := testRead("@r4", testConstruct(&TRB, "GGGGGGG", "TTTTTTT", 'A')+"CCC")
	r2 := testRead("@r4", testConstruct(&TRA, "AAAAAAA", "CCCCCCC", 'A')+"GGG")
	var p Pair
	expect.EQ(t, NewClassifier().Classify(&r1, &r2, &p), Unmatched)
}

func TestClassifyDropped(t *testing.T) {
	c := NewClassifier()
	var p Pair

	r1 := testRead("@r5", "ACGT"+testConstruct(&TRA, "AAAAAAA", "CCCCCCC", 'A'))
	r2 := testRead("@r5", "ACGTACGT")
	expect.EQ(t, c.Classify(&r1, &r2, &p), EmptyPayload)

	r1 = testRead("@r6", testConstruct(&TRA, "AAAAAAA", "CCCCCCC", 'A')+"ACGT")
	r2 = testRead("@r6", "")
	expect.EQ(t, c.Classify(&r1, &r2, &p), EmptyPayload)

	r1 = testRead("@", testConstruct(&TRA, "AAAAAAA", "CCCCCCC", 'A')+"ACGT")
	r2 = testRead("@", "ACGT")
	expect.EQ(t, c.Classify(&r1, &r2, &p), Malformed)

	r1 = testRead("@r7", testConstruct(&TRA, "AAAAAAA", "CCCCCCC", 'A')+"ACGT")
	r1.Qual = r1.Qual[1:]
	r2 = testRead("@r7", "ACGT")
	expect.EQ(t, c.Classify(&r1, &r2, &p), Malformed)
}

// Only the mate carrying the construct needs matching sequence and quality
// lengths.
func TestClassifyLengthCheckedOnTrimmedMate(t *testing.T) {
	c := NewClassifier()
	var p Pair
	r1 := testRead("@r8", "ACGTACGT")
	r1.Qual = r1.Qual[1:]
	r2 := testRead("@r8", testConstruct(&TRB, "GGGGGGG", "TTTTTTT", 'T')+"ACGT")
	expect.EQ(t, c.Classify(&r1, &r2, &p), Classified)
	expect.EQ(t, p.Read.Chain, ChainB)
	expect.EQ(t, p.Read.Seq, "ACGT")
	expect.EQ(t, p.R1.Qual, r1.Qual)
}

func TestStats(t *testing.T) {
	var s Stats
	a := Pair{Read: ClassifiedRead{Chain: ChainA}}
	b := Pair{Read: ClassifiedRead{Chain: ChainB, Orientation: ReverseComplement}}
	s.Add(Classified, &a)
	s.Add(Classified, &b)
	s.Add(Unmatched, nil)
	s.Add(EmptyPayload, nil)
	s.Add(Malformed, nil)
	expect.EQ(t, s.Pairs, 5)
	expect.EQ(t, s.Classified, [NumChains]int{1, 1})
	expect.EQ(t, s.ReverseComplement, [NumChains]int{0, 1})

	m := s.Merge(s)
	expect.EQ(t, m.Pairs, 10)
	expect.EQ(t, m.Classified, [NumChains]int{2, 2})
	expect.EQ(t, m.Unmatched, 2)
	expect.EQ(t, m.EmptyPayload, 2)
	expect.EQ(t, m.Malformed, 2)
}

func TestChainLabels(t *testing.T) {
	expect.EQ(t, ChainA.String(), "TRA")
	expect.EQ(t, ChainB.String(), "TRB")
	for _, s := range []string{"TRA", "A"} {
		c, ok := ParseChain(s)
		expect.True(t, ok)
		expect.EQ(t, c, ChainA)
	}
	_, ok := ParseChain("IGH")
	expect.False(t, ok)
}
