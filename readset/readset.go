// Package readset reduces classified read streams to the reads that take part
// in at least one UMI link.
package readset

import (
	"io"

	"github.com/grailbio/base/log"
	"github.com/grailbio/tcrpair/encoding/fastq"
	"github.com/grailbio/tcrpair/umi"
	"github.com/pkg/errors"
)

// Set is a set of base read IDs.
type Set map[string]struct{}

// FromLinks returns the IDs referenced on either side of links.
func FromLinks(links umi.Links) Set {
	return Set(links.ReadIDs())
}

// Contains reports whether id is in the set.
func (s Set) Contains(id string) bool {
	_, ok := s[id]
	return ok
}

// Stats counts the outcome of filtering one stream.
type Stats struct {
	// Scanned is the number of records read.
	Scanned int
	// Kept is the number of records written.
	Kept int
	// Malformed is the number of records dropped because their header
	// carries no read ID.
	Malformed int
}

// Merge adds the field values of the two Stats objects and creates new Stats.
func (s Stats) Merge(o Stats) Stats {
	s.Scanned += o.Scanned
	s.Kept += o.Kept
	s.Malformed += o.Malformed
	return s
}

// Filter copies the FASTQ records of in whose base read ID is in s to out,
// in input order and unchanged.
func (s Set) Filter(in io.Reader, out io.Writer) (Stats, error) {
	var (
		stats Stats
		read  fastq.Read
		sc    = fastq.NewScanner(in, fastq.All)
		w     = fastq.NewWriter(out)
	)
	for sc.Scan(&read) {
		stats.Scanned++
		id, ok := read.BaseID()
		if !ok {
			log.Error.Printf("readset: record %d has no read ID: %q", sc.N(), read.ID)
			stats.Malformed++
			continue
		}
		if !s.Contains(id) {
			continue
		}
		if err := w.Write(&read); err != nil {
			return stats, errors.Wrap(err, "write")
		}
		stats.Kept++
	}
	if err := sc.Err(); err != nil {
		return stats, errors.Wrapf(err, "record %d", sc.N()+1)
	}
	return stats, nil
}
