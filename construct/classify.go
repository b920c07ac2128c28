package construct

import (
	"github.com/grailbio/tcrpair/encoding/fastq"
)

// ClassifiedRead is the chain-specific view of a read pair whose
// construct-bearing mate matched a profile.
type ClassifiedRead struct {
	// ReadID is the mate-independent base identifier.
	ReadID      string
	Chain       Chain
	UMI1, UMI2  string
	Orientation Orientation
	// Seq and Qual are the payload of the construct-bearing mate, in the
	// orientation the read was sequenced.
	Seq, Qual string
}

// Tag returns the header annotation for the read.
func (c *ClassifiedRead) Tag() fastq.UMITag {
	return fastq.UMITag{
		Chain: c.Chain.String(),
		UMI1:  c.UMI1,
		UMI2:  c.UMI2,
		RC:    c.Orientation == ReverseComplement,
	}
}

// Outcome is the result of classifying one read pair.
type Outcome uint8

const (
	// Classified means a construct matched and the pair should be written.
	Classified Outcome = iota
	// Unmatched means no profile matched in either orientation.
	Unmatched
	// EmptyPayload means a construct matched but nothing of the trimmed mate,
	// or of its partner, remains.
	EmptyPayload
	// Malformed means the record is unusable: no base ID, or sequence and
	// quality lengths differ on the construct-bearing mate.
	Malformed
)

// Pair is a classified read pair in its output form.
type Pair struct {
	Read ClassifiedRead
	// R1 and R2 carry the UMI tag in their headers. The construct-bearing
	// mate is trimmed to its payload; the other mate is unchanged.
	R1, R2 fastq.Read
}

// DefaultProfiles lists the library constructs in priority order.
var DefaultProfiles = []*Profile{&TRA, &TRB}

// Classifier assigns read pairs to chains. A Classifier holds no mutable
// state and may be shared by concurrent goroutines.
type Classifier struct {
	profiles []*Profile
}

// NewClassifier creates a classifier that tries the given profiles in
// order. The first profile whose mate carries a construct wins. With no
// arguments, DefaultProfiles is used.
func NewClassifier(profiles ...*Profile) *Classifier {
	if len(profiles) == 0 {
		profiles = DefaultProfiles
	}
	return &Classifier{profiles: profiles}
}

// Classify classifies the pair (r1, r2), filling out if the outcome is
// Classified.
func (c *Classifier) Classify(r1, r2 *fastq.Read, out *Pair) Outcome {
	id, ok := r1.BaseID()
	if !ok {
		return Malformed
	}
	for _, p := range c.profiles {
		target := r1
		if p.Mate == Mate2 {
			target = r2
		}
		m, ok := Extract(p, target.Seq)
		if !ok {
			continue
		}
		if len(target.Seq) != len(target.Qual) {
			return Malformed
		}
		out.R1, out.R2 = *r1, *r2
		trimmed, other := &out.R1, &out.R2
		if p.Mate == Mate2 {
			trimmed, other = &out.R2, &out.R1
		}
		trimmed.Slice(m.PayloadRange(len(target.Seq)))
		out.Read = ClassifiedRead{
			ReadID:      id,
			Chain:       p.Chain,
			UMI1:        m.UMI1,
			UMI2:        m.UMI2,
			Orientation: m.Orientation,
			Seq:         trimmed.Seq,
			Qual:        trimmed.Qual,
		}
		tag := out.Read.Tag()
		out.R1.ID = fastq.AddUMITag(r1.ID, tag)
		out.R2.ID = fastq.AddUMITag(r2.ID, tag)
		if len(trimmed.Seq) == 0 || len(other.Seq) == 0 {
			return EmptyPayload
		}
		return Classified
	}
	return Unmatched
}
