package pairtcr

import (
	"fmt"
	"runtime"

	"github.com/grailbio/tcrpair/clonepair"
	"github.com/grailbio/tcrpair/construct"
	"github.com/grailbio/tcrpair/umi"
)

// Opts configures the pipeline stages.
type Opts struct {
	// Parallelism is the number of goroutines that classify read pairs.
	Parallelism int
	// BatchSize is the number of read pairs classified per round.
	BatchSize int
	// ReadLimit caps the number of read pairs extracted. Zero or negative
	// means no limit.
	ReadLimit int
	// Gzip causes FASTQ outputs to be gzip compressed and named with a ".gz"
	// suffix.
	Gzip bool
	// UMI configures the UMI index. A zero UMI.MaxKeys is replaced by a bound
	// derived from the physical memory of the machine.
	UMI umi.Opts
	// Annotation configures annotation table parsing.
	Annotation clonepair.Opts
}

// DefaultOpts sets the default values to Opts.
var DefaultOpts = Opts{
	Parallelism: runtime.NumCPU(),
	BatchSize:   1 << 14,
	ReadLimit:   100000,
	Gzip:        true,
	UMI:         umi.DefaultOpts,
	Annotation:  clonepair.DefaultOpts,
}

func fqSuffix(gz bool) string {
	if gz {
		return ".fq.gz"
	}
	return ".fq"
}

// Paths returns the extraction outputs for prefix: paths[c][0] and
// paths[c][1] hold mates 1 and 2 of the pairs of chain c, named
// "<prefix>_<chain>_<mate>.fq[.gz]".
func Paths(prefix string, gz bool) (paths [construct.NumChains][2]string) {
	for c := range paths {
		for m := range paths[c] {
			paths[c][m] = fmt.Sprintf("%s_%v_%d%s", prefix, construct.Chain(c), m+1, fqSuffix(gz))
		}
	}
	return
}

// MatchedPaths returns the projection outputs for prefix, laid out like
// Paths and named "<prefix>_matched_<chain>_matched_<mate>.fq[.gz]".
func MatchedPaths(prefix string, gz bool) (paths [construct.NumChains][2]string) {
	for c := range paths {
		for m := range paths[c] {
			paths[c][m] = fmt.Sprintf("%s_matched_%v_matched_%d%s", prefix, construct.Chain(c), m+1, fqSuffix(gz))
		}
	}
	return
}
