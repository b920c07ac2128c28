package pairtcr

import (
	"context"

	"github.com/grailbio/base/errors"
	"github.com/grailbio/base/log"
	"github.com/grailbio/base/traverse"
	"github.com/grailbio/tcrpair/construct"
	"github.com/grailbio/tcrpair/encoding/fastq"
)

type rawPair struct {
	r1, r2 fastq.Read
}

type classified struct {
	outcome construct.Outcome
	pair    construct.Pair
}

// classifyBatch classifies batch in parallel, writing results[i] for
// batch[i]. It returns the merged stats of all shards.
func classifyBatch(c *construct.Classifier, batch []rawPair, results []classified, parallelism int) construct.Stats {
	if parallelism > len(batch) {
		parallelism = len(batch)
	}
	if parallelism < 1 {
		parallelism = 1
	}
	shardStats := make([]construct.Stats, parallelism)
	// Classification cannot fail.
	_ = traverse.Each(parallelism, func(shard int) error {
		start := shard * len(batch) / parallelism
		limit := (shard + 1) * len(batch) / parallelism
		stats := &shardStats[shard]
		for i := start; i < limit; i++ {
			res := &results[i]
			res.outcome = c.Classify(&batch[i].r1, &batch[i].r2, &res.pair)
			stats.Add(res.outcome, &res.pair)
		}
		return nil
	})
	var stats construct.Stats
	for _, s := range shardStats {
		stats = stats.Merge(s)
	}
	return stats
}

// Extract classifies the read pairs of the FASTQ files r1Path and r2Path and
// writes the pairs of each chain to the files named by Paths(prefix,
// opts.Gzip). Pairs are written in input order. Inputs may be compressed.
func Extract(ctx context.Context, r1Path, r2Path, prefix string, opts Opts) (stats construct.Stats, err error) {
	in1, err := openInput(ctx, r1Path)
	if err != nil {
		return stats, err
	}
	defer func() {
		if cerr := in1.Close(ctx); err == nil {
			err = cerr
		}
	}()
	in2, err := openInput(ctx, r2Path)
	if err != nil {
		return stats, err
	}
	defer func() {
		if cerr := in2.Close(ctx); err == nil {
			err = cerr
		}
	}()

	for _, p := range construct.DefaultProfiles {
		log.Debug.Printf("construct %v", p)
	}
	paths := Paths(prefix, opts.Gzip)
	var (
		outs    [construct.NumChains][2]*output
		writers [construct.NumChains][2]*fastq.Writer
	)
	defer func() {
		once := errors.Once{}
		for c := range outs {
			for m := range outs[c] {
				if outs[c][m] != nil {
					once.Set(outs[c][m].Close(ctx))
				}
			}
		}
		if err == nil {
			err = once.Err()
		}
	}()
	for c := range paths {
		for m, path := range paths[c] {
			if outs[c][m], err = createOutput(ctx, path); err != nil {
				return stats, err
			}
			writers[c][m] = fastq.NewWriter(outs[c][m].Writer())
		}
	}

	batchSize := opts.BatchSize
	if batchSize <= 0 {
		batchSize = DefaultOpts.BatchSize
	}
	var (
		classifier = construct.NewClassifier()
		sc         = fastq.NewPairScanner(in1.Reader(), in2.Reader(), fastq.All)
		batch      = make([]rawPair, 0, batchSize)
		results    = make([]classified, batchSize)
		nextLog    = 1 << 20
	)
	sc.CheckIDs = true

	flush := func() error {
		stats = stats.Merge(classifyBatch(classifier, batch, results, opts.Parallelism))
		for i := range batch {
			res := &results[i]
			if res.outcome != construct.Classified {
				continue
			}
			w := writers[res.pair.Read.Chain]
			if err := w[0].Write(&res.pair.R1); err != nil {
				return errors.E(err, "write", paths[res.pair.Read.Chain][0])
			}
			if err := w[1].Write(&res.pair.R2); err != nil {
				return errors.E(err, "write", paths[res.pair.Read.Chain][1])
			}
		}
		batch = batch[:0]
		if stats.Pairs >= nextLog {
			log.Printf("%s: %dMi readpairs", r1Path, stats.Pairs>>20)
			nextLog += 1 << 20
		}
		return nil
	}

	for opts.ReadLimit <= 0 || sc.N() < opts.ReadLimit {
		var p rawPair
		if !sc.Scan(&p.r1, &p.r2) {
			break
		}
		batch = append(batch, p)
		if len(batch) == batchSize {
			if err = flush(); err != nil {
				return stats, err
			}
		}
	}
	if err = sc.Err(); err != nil {
		return stats, errors.E(err, "scan", r1Path, r2Path)
	}
	if len(batch) > 0 {
		if err = flush(); err != nil {
			return stats, err
		}
	}
	if opts.ReadLimit > 0 && sc.N() >= opts.ReadLimit {
		log.Printf("%s: stopped at read limit %d", r1Path, opts.ReadLimit)
	}
	for c := range writers {
		for m, w := range writers[c] {
			log.Debug.Printf("%s: %d reads", paths[c][m], w.N())
		}
	}
	log.Printf("Processed %d read pairs in %s: %v", stats.Pairs, r1Path, stats)
	return stats, nil
}
