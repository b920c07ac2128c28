package fastq

import (
	"bufio"
	"io"

	"github.com/pkg/errors"
)

var (
	// ErrShort is returned when a truncated FASTQ file is encountered.
	ErrShort = errors.New("short FASTQ file")
	// ErrInvalid is returned when an invalid FASTQ file is encountered.
	ErrInvalid = errors.New("invalid FASTQ file")
	// ErrDiscordant is returned when two underlying FASTQ files are discordant.
	ErrDiscordant = errors.New("discordant FASTQ pairs")
)

// maxLineLength bounds a single FASTQ line. Long-read headers with many
// appended tags can exceed bufio's 64KiB default.
const maxLineLength = 1 << 20

// A Read is one FASTQ record. Unk holds line 3, the "+" separator, as read.
type Read struct {
	ID, Seq, Unk, Qual string
}

// Slice keeps only the half-open range [start, limit) of the sequence and
// quality strings.
func (r *Read) Slice(start, limit int) {
	r.Seq = r.Seq[start:limit]
	r.Qual = r.Qual[start:limit]
}

// BaseID returns the mate-independent identifier of the read. See BaseID.
func (r *Read) BaseID() (string, bool) {
	return BaseID(r.ID)
}

var errEOF = errors.New("eof")

// leader holds the byte each line of a record must start with, or 0.
var leader = [4]byte{'@', 0, '+', 0}

// Scanner reads FASTQ records one at a time. It checks that the ID line
// starts with "@" and that line 3 starts with "+"; sequence and quality are
// taken as given. Scanners are not threadsafe.
type Scanner struct {
	b      *bufio.Scanner
	err    error
	fields Field
	n      int
}

// Field selects how much of each record a Scanner copies out.
type Field uint

const (
	// ID fills in only Read.ID. The other lines are checked and skipped.
	ID Field = iota
	// All fills in every field. Line 3 is kept as read so that a record can
	// be written back unchanged.
	All
)

// NewScanner creates a Scanner that reads FASTQ data from r.
func NewScanner(r io.Reader, fields Field) *Scanner {
	b := bufio.NewScanner(r)
	b.Buffer(make([]byte, 0, 64<<10), maxLineLength)
	return &Scanner{b: b, fields: fields}
}

// Scan reads the next record into read. Once Scan returns false it never
// returns true again; Err then tells a clean end of input from a failure.
func (f *Scanner) Scan(read *Read) bool {
	if f.err != nil {
		return false
	}
	lines := [4]*string{&read.ID, &read.Seq, &read.Unk, &read.Qual}
	for i, dst := range lines {
		if !f.b.Scan() {
			switch f.err = f.b.Err(); {
			case f.err != nil:
			case i == 0:
				f.err = errEOF
			default:
				f.err = ErrShort
			}
			return false
		}
		line := f.b.Bytes()
		if c := leader[i]; c != 0 && (len(line) == 0 || line[0] != c) {
			f.err = ErrInvalid
			return false
		}
		if i == 0 || f.fields == All {
			*dst = string(line)
		}
	}
	f.n++
	return true
}

// N returns the number of complete records scanned so far.
func (f *Scanner) N() int { return f.n }

// Err returns the scanning error, if any. ErrShort and ErrInvalid are
// returned unwrapped so callers can compare against them.
func (f *Scanner) Err() error {
	if f.err == errEOF {
		return nil
	}
	return f.err
}

// PairScanner composes a pair of scanners to scan a pair of FASTQ
// streams.
type PairScanner struct {
	r1, r2 *Scanner
	err    error

	// CheckIDs causes Scan to fail with ErrDiscordant when the base IDs of
	// the two mates differ. It requires the ID field to be scanned.
	CheckIDs bool
}

// NewPairScanner creates a new FASTQ pair scanner from the provided
// R1 and R2 readers.
func NewPairScanner(r1, r2 io.Reader, fields Field) *PairScanner {
	return &PairScanner{
		r1: NewScanner(r1, fields),
		r2: NewScanner(r2, fields),
	}
}

// Scan scans the next read pair into r1, r2. Scan returns a boolean
// indicating whether the scan succeeded. Once Scan returns false, it
// never returns true again. Upon completion, the user should check
// the Err method to determine whether scanning stopped because of an
// error or because the end of the stream was reached.
func (p *PairScanner) Scan(r1, r2 *Read) bool {
	if p.err != nil {
		return false
	}
	ok1 := p.r1.Scan(r1)
	ok2 := p.r2.Scan(r2)
	if ok1 != ok2 {
		p.err = errors.Wrapf(ErrDiscordant, "record %d: one mate stream ended early", p.r1.N()+1)
		return false
	}
	if ok1 && p.CheckIDs {
		id1, _ := BaseID(r1.ID)
		id2, _ := BaseID(r2.ID)
		if id1 != id2 {
			p.err = errors.Wrapf(ErrDiscordant, "record %d: %q vs %q", p.r1.N(), r1.ID, r2.ID)
			return false
		}
	}
	return ok1 && ok2
}

// N returns the number of complete pairs scanned so far.
func (p *PairScanner) N() int { return p.r1.N() }

// Err returns the scanning error, if any. It should be checked
// after Scan returns false.
func (p *PairScanner) Err() error {
	if err := p.r1.Err(); err != nil {
		return errors.Wrap(err, "R1")
	}
	if err := p.r2.Err(); err != nil {
		return errors.Wrap(err, "R2")
	}
	return p.err
}
