package umi

import (
	"io"
	"strings"

	"github.com/grailbio/base/log"
	"github.com/grailbio/base/tsv"
	"github.com/pkg/errors"
)

// TableHeader lists the columns of a pair table.
var TableHeader = []string{"TRA_UMI", "TRB_UMI", "TRA_Read_ID_Base", "TRB_Read_ID_Base"}

// TableRow is one row of a pair table.
type TableRow struct {
	AKey string // umi1_umi2 of the chain-A read
	BKey string // umi1_umi2 of the chain-B read
	A    string // chain-A read ID
	B    string // chain-B read ID
}

// TableWriter writes links as a pair table. The header is written on
// creation, so a table with no links is still well formed.
type TableWriter struct {
	w *tsv.Writer
	n int
}

// NewTableWriter creates a TableWriter and writes the header line.
func NewTableWriter(w io.Writer) (*TableWriter, error) {
	tw := &TableWriter{w: tsv.NewWriter(w)}
	tw.w.WriteString(strings.Join(TableHeader, "\t"))
	if err := tw.w.EndLine(); err != nil {
		return nil, err
	}
	return tw, nil
}

// Write appends one link.
func (tw *TableWriter) Write(l Link) error {
	tw.w.WriteString(l.AKey.Joined())
	tw.w.WriteString(l.BKey.Joined())
	tw.w.WriteString(l.A)
	tw.w.WriteString(l.B)
	tw.n++
	return tw.w.EndLine()
}

// N returns the number of links written.
func (tw *TableWriter) N() int { return tw.n }

// Flush flushes buffered rows to the underlying writer.
func (tw *TableWriter) Flush() error { return tw.w.Flush() }

// WriteTable writes links as a complete pair table.
func WriteTable(w io.Writer, links Links) error {
	tw, err := NewTableWriter(w)
	if err != nil {
		return err
	}
	for _, l := range links {
		if err := tw.Write(l); err != nil {
			return err
		}
	}
	return tw.Flush()
}

// ReadTable reads a pair table written by TableWriter. The header may list
// the columns in any order. Rows that are missing a column, whose UMI columns
// do not parse as umiLen-base pairs, or whose ID columns are empty, are
// skipped and counted in the second return value.
func ReadTable(r io.Reader, umiLen int) (Links, int, error) {
	tr := tsv.NewReader(r)
	tr.FieldsPerRecord = -1

	header, err := tr.Reader.Read()
	if err == io.EOF {
		return nil, 0, nil
	}
	if err != nil {
		return nil, 0, errors.Wrap(err, "read pair table header")
	}
	var cols [4]int
	for i, name := range TableHeader {
		cols[i] = -1
		for j, h := range header {
			if h == name {
				cols[i] = j
				break
			}
		}
		if cols[i] < 0 {
			return nil, 0, errors.Errorf("pair table: missing column %q in header %v", name, header)
		}
	}

	var (
		links     Links
		malformed int
	)
	for {
		fields, err := tr.Reader.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, malformed, errors.Wrap(err, "read pair table")
		}
		var (
			row  TableRow
			dsts = [...]*string{&row.AKey, &row.BKey, &row.A, &row.B}
			l    Link
		)
		for i, col := range cols {
			if col >= len(fields) {
				err = errors.Errorf("short row, %d fields", len(fields))
				break
			}
			*dsts[i] = fields[col]
		}
		if err == nil {
			l, err = row.link(umiLen)
		}
		if err != nil {
			log.Debug.Printf("pair table: skipping row %v: %v", fields, err)
			malformed++
			continue
		}
		links = append(links, l)
	}
	return links, malformed, nil
}

func (row TableRow) link(umiLen int) (Link, error) {
	if row.A == "" || row.B == "" {
		return Link{}, errors.New("empty read ID")
	}
	aKey, err := ParseJoined(row.AKey, umiLen)
	if err != nil {
		return Link{}, err
	}
	bKey, err := ParseJoined(row.BKey, umiLen)
	if err != nil {
		return Link{}, err
	}
	return Link{A: row.A, B: row.B, AKey: aKey, BKey: bKey}, nil
}
