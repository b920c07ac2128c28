package pairtcr

import (
	"context"

	"github.com/grailbio/base/errors"
	"github.com/grailbio/base/log"
	"github.com/grailbio/tcrpair/clonepair"
	"github.com/grailbio/tcrpair/construct"
)

func readAnnotations(ctx context.Context, path string, c construct.Chain, opts clonepair.Opts) (*clonepair.Table, clonepair.TableStats, error) {
	in, err := openInput(ctx, path)
	if err != nil {
		return nil, clonepair.TableStats{}, err
	}
	t, stats, err := clonepair.ReadTable(in.Reader(), c, opts)
	if cerr := in.Close(ctx); err == nil {
		err = cerr
	}
	if err != nil {
		return nil, stats, errors.E(err, "read", path)
	}
	log.Printf("%s: %d %v rows, %d kept, %d cross-chain, %d malformed",
		path, stats.Rows, c, stats.Kept, stats.CrossChain, stats.Malformed)
	return t, stats, nil
}

// JoinStats summarizes one Join call.
type JoinStats struct {
	Tables [construct.NumChains]clonepair.TableStats
	Join   clonepair.JoinStats
}

// Join combines the pair table at tablePath with the annotation tables of
// the chain-A and chain-B reads and writes the final table to outPath.
func Join(ctx context.Context, tablePath, traPath, trbPath, outPath string, opts Opts) (stats JoinStats, err error) {
	links, err := readLinks(ctx, tablePath, opts.UMI.UMILen)
	if err != nil {
		return stats, err
	}
	a, aStats, err := readAnnotations(ctx, traPath, construct.ChainA, opts.Annotation)
	if err != nil {
		return stats, err
	}
	b, bStats, err := readAnnotations(ctx, trbPath, construct.ChainB, opts.Annotation)
	if err != nil {
		return stats, err
	}
	stats.Tables = [construct.NumChains]clonepair.TableStats{aStats, bStats}

	var rows []clonepair.FinalRow
	rows, stats.Join = clonepair.Join(links, a, b)

	out, err := createOutput(ctx, outPath)
	if err != nil {
		return stats, err
	}
	defer func() {
		if cerr := out.Close(ctx); err == nil {
			err = cerr
		}
	}()
	if err = clonepair.WriteFinal(out.Writer(), rows); err != nil {
		return stats, errors.E(err, "write", outPath)
	}
	log.Printf("Wrote %s: %v", outPath, stats.Join)
	return stats, nil
}
