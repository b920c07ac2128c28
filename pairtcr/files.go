package pairtcr

import (
	"context"
	"io"
	"strings"

	"github.com/grailbio/base/compress"
	"github.com/grailbio/base/errors"
	"github.com/grailbio/base/file"
	"github.com/klauspost/pgzip"
)

// input is a file opened for streaming, decompressed if its name calls for
// it.
type input struct {
	f file.File
	u io.ReadCloser
	r io.Reader
}

func openInput(ctx context.Context, path string) (*input, error) {
	f, err := file.Open(ctx, path)
	if err != nil {
		return nil, errors.E(err, "open", path)
	}
	in := &input{f: f, r: f.Reader(ctx)}
	if u := compress.NewReaderPath(in.r, f.Name()); u != nil {
		in.u, in.r = u, u
	}
	return in, nil
}

func (in *input) Reader() io.Reader { return in.r }

func (in *input) Close(ctx context.Context) error {
	once := errors.Once{}
	if in.u != nil {
		once.Set(in.u.Close())
	}
	once.Set(in.f.Close(ctx))
	if err := once.Err(); err != nil {
		return errors.E(err, "close", in.f.Name())
	}
	return nil
}

// output is a file created for streaming. Paths ending in ".gz" are
// compressed with parallel gzip.
type output struct {
	f  file.File
	gz *pgzip.Writer
	w  io.Writer
}

func createOutput(ctx context.Context, path string) (*output, error) {
	f, err := file.Create(ctx, path)
	if err != nil {
		return nil, errors.E(err, "create", path)
	}
	out := &output{f: f, w: f.Writer(ctx)}
	if strings.HasSuffix(path, ".gz") {
		out.gz = pgzip.NewWriter(out.w)
		out.w = out.gz
	}
	return out, nil
}

func (out *output) Writer() io.Writer { return out.w }

func (out *output) Close(ctx context.Context) error {
	once := errors.Once{}
	if out.gz != nil {
		once.Set(out.gz.Close())
	}
	once.Set(out.f.Close(ctx))
	if err := once.Err(); err != nil {
		return errors.E(err, "close", out.f.Name())
	}
	return nil
}
