package clonepair

import (
	"fmt"
	"io"
	"strings"

	"github.com/grailbio/base/tsv"
	"github.com/grailbio/tcrpair/construct"
	"github.com/grailbio/tcrpair/umi"
)

// FinalRow combines one link with the annotation of each of its reads.
type FinalRow struct {
	A, B AlignmentRow
}

// FinalHeader lists the columns written by WriteFinal.
var FinalHeader = []string{
	"TRA_Read_ID_Base", "TRB_Read_ID_Base",
	"TRA_VGene", "TRA_JGene", "TRA_nCDR3", "TRA_aCDR3",
	"TRB_VGene", "TRB_JGene", "TRB_nCDR3", "TRB_aCDR3",
	"TRA_Header", "TRB_Header",
}

// JoinStats counts join outcomes.
type JoinStats struct {
	// Links is the number of links examined.
	Links int
	// MissingA and MissingB count links dropped because the chain-A or
	// chain-B read had no annotation. A link missing both is counted in
	// MissingA only.
	MissingA int
	MissingB int
	// Rows is the number of rows produced.
	Rows int
}

func (s JoinStats) String() string {
	return fmt.Sprintf("links: %d, no TRA annotation: %d, no TRB annotation: %d, rows: %d",
		s.Links, s.MissingA, s.MissingB, s.Rows)
}

// Join inner-joins links with the chain-A table on the chain-A read ID and
// the result with the chain-B table on the chain-B read ID. Rows are
// produced in link order; a read with several annotation rows contributes
// every combination.
func Join(links umi.Links, a, b *Table) ([]FinalRow, JoinStats) {
	if a.Chain != construct.ChainA || b.Chain != construct.ChainB {
		panic(fmt.Sprintf("clonepair.Join: tables of chains %v, %v", a.Chain, b.Chain))
	}
	var (
		rows  []FinalRow
		stats = JoinStats{Links: len(links)}
	)
	for _, l := range links {
		aRows := a.Lookup(l.A)
		if len(aRows) == 0 {
			stats.MissingA++
			continue
		}
		bRows := b.Lookup(l.B)
		if len(bRows) == 0 {
			stats.MissingB++
			continue
		}
		for _, ar := range aRows {
			for _, br := range bRows {
				rows = append(rows, FinalRow{A: ar, B: br})
			}
		}
	}
	stats.Rows = len(rows)
	return rows, stats
}

// WriteFinal writes rows as a TSV table with a FinalHeader header line. The
// header is written even when rows is empty.
func WriteFinal(w io.Writer, rows []FinalRow) error {
	tw := tsv.NewWriter(w)
	tw.WriteString(strings.Join(FinalHeader, "\t"))
	if err := tw.EndLine(); err != nil {
		return err
	}
	for _, r := range rows {
		tw.WriteString(r.A.ReadID)
		tw.WriteString(r.B.ReadID)
		tw.WriteString(r.A.VGene)
		tw.WriteString(r.A.JGene)
		tw.WriteString(r.A.NCDR3)
		tw.WriteString(r.A.AACDR3)
		tw.WriteString(r.B.VGene)
		tw.WriteString(r.B.JGene)
		tw.WriteString(r.B.NCDR3)
		tw.WriteString(r.B.AACDR3)
		tw.WriteString(r.A.Header)
		tw.WriteString(r.B.Header)
		if err := tw.EndLine(); err != nil {
			return err
		}
	}
	return tw.Flush()
}
