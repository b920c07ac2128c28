package pairtcr

import (
	"context"
	"io"
	"strings"

	"blainsmith.com/go/seahash"
	"github.com/grailbio/base/errors"
	"github.com/grailbio/base/tsv"
	"github.com/grailbio/base/unsafe"
)

// TableChecksum is an order-independent digest of a TSV table.
type TableChecksum struct {
	// Path is the file the checksum was computed from.
	Path string
	// Header is the first line of the table, fields joined by tabs.
	Header string
	// NRows is the number of rows after the header.
	NRows int64
	// SumRows is the sum of the seahash values of every row. Being a sum, it
	// does not depend on row order.
	SumRows uint64
}

var tab = []byte{'\t'}

// Checksum computes the checksum of the table at path. Two tables with the
// same header and the same multiset of rows have equal checksums.
func Checksum(ctx context.Context, path string) (csum TableChecksum, err error) {
	csum.Path = path
	in, err := openInput(ctx, path)
	if err != nil {
		return csum, err
	}
	defer func() {
		if cerr := in.Close(ctx); err == nil {
			err = cerr
		}
	}()
	r := tsv.NewReader(in.Reader())
	r.LazyQuotes = true
	r.FieldsPerRecord = -1
	h := seahash.New()
	for first := true; ; first = false {
		fields, err := r.Reader.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return csum, errors.E(err, "checksum", path)
		}
		if first {
			csum.Header = strings.Join(fields, "\t")
			continue
		}
		h.Reset()
		for i, f := range fields {
			if i > 0 {
				h.Write(tab) // nolint: errcheck
			}
			h.Write(unsafe.StringToBytes(f)) // nolint: errcheck
		}
		csum.NRows++
		csum.SumRows += h.Sum64()
	}
	return csum, nil
}
