package pairtcr

import (
	"context"

	"github.com/grailbio/base/errors"
	"github.com/grailbio/base/log"
	"github.com/grailbio/tcrpair/construct"
	"github.com/grailbio/tcrpair/encoding/fastq"
	"github.com/grailbio/tcrpair/umi"
	"github.com/pbnjay/memory"
)

// scanTagged calls fn with the base ID and UMI key of every read in the
// FASTQ file at path. Reads with no usable ID or UMI tag, or whose tag names a
// chain other than want, are skipped and counted.
func scanTagged(ctx context.Context, path string, want construct.Chain, umiLen int, fn func(id string, key umi.Key) error) (malformed int, err error) {
	in, err := openInput(ctx, path)
	if err != nil {
		return 0, err
	}
	defer func() {
		if cerr := in.Close(ctx); err == nil {
			err = cerr
		}
	}()
	var (
		sc   = fastq.NewScanner(in.Reader(), fastq.ID)
		read fastq.Read
	)
	for sc.Scan(&read) {
		key, id, perr := parseTagged(read.ID, want, umiLen)
		if perr != nil {
			if malformed == 0 {
				log.Error.Printf("%s: record %d: %v", path, sc.N(), perr)
			}
			malformed++
			continue
		}
		if err = fn(id, key); err != nil {
			return malformed, err
		}
	}
	if err = sc.Err(); err != nil {
		return malformed, errors.E(err, "scan", path)
	}
	return malformed, nil
}

func parseTagged(header string, want construct.Chain, umiLen int) (umi.Key, string, error) {
	id, ok := fastq.BaseID(header)
	if !ok {
		return "", "", errors.New("no read ID")
	}
	tag, found, err := fastq.ParseUMITag(header)
	if err != nil {
		return "", "", err
	}
	if !found {
		return "", "", errors.E("no UMI tag in", header)
	}
	if c, ok := construct.ParseChain(tag.Chain); !ok || c != want {
		return "", "", errors.E("UMI tag chain", tag.Chain, "is not", want.String())
	}
	key, err := umi.NewKey(tag.UMI1, tag.UMI2, umiLen)
	return key, id, err
}

// indexOpts fills in a memory-derived key bound when none is set.
func indexOpts(opts umi.Opts) umi.Opts {
	if opts.MaxKeys == 0 {
		if total := memory.TotalMemory(); total > 0 {
			opts.MaxKeys = umi.MaxKeysForMemory(total)
			log.Debug.Printf("umi index: %d bytes of memory, at most %d keys", total, opts.MaxKeys)
		}
	}
	return opts
}

// Link indexes the UMIs of the chain-A reads in traPath, streams the chain-B
// reads in trbPath against the index, and writes every link to the pair
// table at tablePath.
func Link(ctx context.Context, traPath, trbPath, tablePath string, opts Opts) (stats umi.Stats, err error) {
	uopts := indexOpts(opts.UMI)
	b := umi.NewIndexBuilder(uopts)
	malformedA, err := scanTagged(ctx, traPath, construct.ChainA, uopts.UMILen, func(id string, key umi.Key) error {
		if err := b.Add(key, id); err != nil {
			return errors.E(err, "index", traPath, "; raise the key limit or split the sample")
		}
		return nil
	})
	if err != nil {
		return stats, err
	}
	linker := umi.NewLinker(b.Build())
	linker.AddMalformed(malformedA)

	out, err := createOutput(ctx, tablePath)
	if err != nil {
		return stats, err
	}
	defer func() {
		if cerr := out.Close(ctx); err == nil {
			err = cerr
		}
	}()
	tw, err := umi.NewTableWriter(out.Writer())
	if err != nil {
		return stats, errors.E(err, "write", tablePath)
	}
	malformedB, err := scanTagged(ctx, trbPath, construct.ChainB, uopts.UMILen, func(id string, key umi.Key) error {
		return linker.Link(id, key, tw.Write)
	})
	if err != nil {
		return stats, err
	}
	linker.AddMalformed(malformedB)
	if err = tw.Flush(); err != nil {
		return stats, errors.E(err, "write", tablePath)
	}
	stats = linker.Stats()
	log.Printf("Wrote %d links to %s: %v", tw.N(), tablePath, stats)
	return stats, nil
}
