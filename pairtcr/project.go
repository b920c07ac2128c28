package pairtcr

import (
	"context"

	"github.com/grailbio/base/errors"
	"github.com/grailbio/base/log"
	"github.com/grailbio/tcrpair/construct"
	"github.com/grailbio/tcrpair/readset"
	"github.com/grailbio/tcrpair/umi"
)

// readLinks reads the pair table at path.
func readLinks(ctx context.Context, path string, umiLen int) (umi.Links, error) {
	in, err := openInput(ctx, path)
	if err != nil {
		return nil, err
	}
	links, malformed, err := umi.ReadTable(in.Reader(), umiLen)
	if cerr := in.Close(ctx); err == nil {
		err = cerr
	}
	if err != nil {
		return nil, errors.E(err, "read", path)
	}
	if malformed > 0 {
		log.Error.Printf("%s: skipped %d malformed rows", path, malformed)
	}
	return links, nil
}

func filterFile(ctx context.Context, set readset.Set, inPath, outPath string) (stats readset.Stats, err error) {
	in, err := openInput(ctx, inPath)
	if err != nil {
		return stats, err
	}
	defer func() {
		if cerr := in.Close(ctx); err == nil {
			err = cerr
		}
	}()
	out, err := createOutput(ctx, outPath)
	if err != nil {
		return stats, err
	}
	defer func() {
		if cerr := out.Close(ctx); err == nil {
			err = cerr
		}
	}()
	if stats, err = set.Filter(in.Reader(), out.Writer()); err != nil {
		return stats, errors.E(err, inPath)
	}
	log.Printf("Kept %d of %d reads of %s in %s", stats.Kept, stats.Scanned, inPath, outPath)
	return stats, nil
}

// Project copies the reads named in the pair table at tablePath from the
// extraction outputs Paths(inPrefix, opts.Gzip) to MatchedPaths(outPrefix,
// opts.Gzip). Each output keeps the order of its input.
func Project(ctx context.Context, tablePath, inPrefix, outPrefix string, opts Opts) (readset.Stats, error) {
	links, err := readLinks(ctx, tablePath, opts.UMI.UMILen)
	if err != nil {
		return readset.Stats{}, err
	}
	set := readset.FromLinks(links)
	log.Printf("%s: %d links over %d reads", tablePath, len(links), len(set))
	var (
		inPaths  = Paths(inPrefix, opts.Gzip)
		outPaths = MatchedPaths(outPrefix, opts.Gzip)
		total    readset.Stats
	)
	for c := 0; c < int(construct.NumChains); c++ {
		for m := range inPaths[c] {
			stats, err := filterFile(ctx, set, inPaths[c][m], outPaths[c][m])
			if err != nil {
				return total, err
			}
			total = total.Merge(stats)
		}
	}
	return total, nil
}
