package clonepair

import (
	"io"
	"strings"

	"github.com/grailbio/base/log"
	"github.com/grailbio/base/tsv"
	"github.com/grailbio/tcrpair/construct"
	"github.com/grailbio/tcrpair/encoding/fastq"
	"github.com/pkg/errors"
)

// Column names of an annotation table, as exported by the clone assembler.
const (
	ColHeader = "descrsR1"
	ColVGene  = "bestVGene"
	ColJGene  = "bestJGene"
	ColNCDR3  = "nSeqCDR3"
	ColAACDR3 = "aaSeqCDR3"
	// ColChain is optional. When absent, the chain label of a row is inferred
	// from its gene calls.
	ColChain = "chain"
)

var requiredCols = []string{ColHeader, ColVGene, ColJGene, ColNCDR3, ColAACDR3}

// AlignmentRow is one row of an annotation table.
type AlignmentRow struct {
	// ReadID is the base read ID recovered from Header.
	ReadID string
	// Label is the chain the annotator assigned to the read. It is NumChains
	// when no chain could be determined.
	Label construct.Chain
	VGene string
	JGene string
	// NCDR3 and AACDR3 are the CDR3 nucleotide and amino-acid sequences.
	NCDR3  string
	AACDR3 string
	// Header is the original read header echoed by the annotator.
	Header string
}

// Opts configures annotation parsing.
type Opts struct {
	// GenePrefixes[c] is the gene-name prefix that marks a V or J call as
	// belonging to chain c.
	GenePrefixes [construct.NumChains]string
}

// DefaultOpts sets the default values to Opts.
var DefaultOpts = Opts{
	GenePrefixes: [construct.NumChains]string{"TRA", "TRB"},
}

// label returns the chain of a row read from the table of chain c. A row
// belongs to c when either its V or its J call carries c's prefix, so a
// TRDV/TRAJ rearrangement stays in the chain-A table. Otherwise the row takes
// the first other chain named by its V call, then its J call, or NumChains.
func (o *Opts) label(c construct.Chain, vGene, jGene string) construct.Chain {
	if o.hasPrefix(c, vGene) || o.hasPrefix(c, jGene) {
		return c
	}
	for _, g := range []string{vGene, jGene} {
		for other := range o.GenePrefixes {
			if o.hasPrefix(construct.Chain(other), g) {
				return construct.Chain(other)
			}
		}
	}
	return construct.NumChains
}

func (o *Opts) hasPrefix(c construct.Chain, gene string) bool {
	prefix := o.GenePrefixes[c]
	return prefix != "" && strings.HasPrefix(gene, prefix)
}

// TableStats counts the rows of one annotation table.
type TableStats struct {
	// Rows is the number of data rows read.
	Rows int
	// Kept is the number of rows whose label matches the table's chain.
	Kept int
	// CrossChain is the number of rows dropped because their label
	// contradicts the table's chain.
	CrossChain int
	// Malformed is the number of rows dropped because no read ID could be
	// recovered from their header or the row was short.
	Malformed int
}

// Table holds the chain-consistent rows of one annotation table, indexed by
// read ID.
type Table struct {
	Chain construct.Chain
	// Rows lists the kept rows in input order.
	Rows []AlignmentRow
	byID map[string][]int
}

// NewTable creates a table of chain c from rows, dropping those whose label
// is not c.
func NewTable(c construct.Chain, rows []AlignmentRow) (*Table, TableStats) {
	t := &Table{Chain: c, byID: map[string][]int{}}
	stats := TableStats{Rows: len(rows)}
	for _, row := range rows {
		t.add(row, &stats)
	}
	return t, stats
}

func (t *Table) add(row AlignmentRow, stats *TableStats) {
	if row.ReadID == "" {
		stats.Malformed++
		return
	}
	if row.Label != t.Chain {
		stats.CrossChain++
		return
	}
	t.byID[row.ReadID] = append(t.byID[row.ReadID], len(t.Rows))
	t.Rows = append(t.Rows, row)
	stats.Kept++
}

// Lookup returns the rows annotated for readID, in input order.
func (t *Table) Lookup(readID string) []AlignmentRow {
	idx := t.byID[readID]
	if len(idx) == 0 {
		return nil
	}
	rows := make([]AlignmentRow, len(idx))
	for i, j := range idx {
		rows[i] = t.Rows[j]
	}
	return rows
}

// ReadTable parses an annotation table of chain c. The first line must be a
// header naming at least the columns ColHeader, ColVGene, ColJGene, ColNCDR3
// and ColAACDR3, in any order; other columns are ignored. A header-only or
// empty input yields an empty table.
func ReadTable(r io.Reader, c construct.Chain, opts Opts) (*Table, TableStats, error) {
	tr := tsv.NewReader(r)
	tr.LazyQuotes = true
	tr.FieldsPerRecord = -1

	t := &Table{Chain: c, byID: map[string][]int{}}
	var stats TableStats
	header, err := tr.Reader.Read()
	if err == io.EOF {
		return t, stats, nil
	}
	if err != nil {
		return nil, stats, errors.Wrap(err, "read annotation header")
	}
	cols := map[string]int{}
	for i, name := range header {
		cols[strings.TrimSpace(name)] = i
	}
	for _, name := range requiredCols {
		if _, ok := cols[name]; !ok {
			return nil, stats, errors.Errorf("annotation table: missing column %q in header %v", name, header)
		}
	}
	chainCol, hasChain := cols[ColChain]

	for {
		fields, err := tr.Reader.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, stats, errors.Wrapf(err, "annotation table row %d", stats.Rows+1)
		}
		stats.Rows++
		get := func(col string) (string, bool) {
			i := cols[col]
			if i >= len(fields) {
				return "", false
			}
			return fields[i], true
		}
		var (
			row AlignmentRow
			ok  = true
		)
		for _, f := range []struct {
			col string
			dst *string
		}{
			{ColHeader, &row.Header},
			{ColVGene, &row.VGene},
			{ColJGene, &row.JGene},
			{ColNCDR3, &row.NCDR3},
			{ColAACDR3, &row.AACDR3},
		} {
			v, present := get(f.col)
			*f.dst = v
			ok = ok && present
		}
		if !ok {
			log.Debug.Printf("annotation table row %d: short row %v", stats.Rows, fields)
			stats.Malformed++
			continue
		}
		row.ReadID, _ = fastq.BaseID(row.Header)
		row.Label = opts.label(c, row.VGene, row.JGene)
		if hasChain && chainCol < len(fields) {
			row.Label = construct.NumChains
			if label, ok := construct.ParseChain(strings.TrimSpace(fields[chainCol])); ok {
				row.Label = label
			}
		}
		t.add(row, &stats)
	}
	return t, stats, nil
}
