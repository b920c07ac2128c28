package cmd

import (
	"encoding/json"
	"fmt"

	"github.com/grailbio/base/cmdutil"
	"github.com/grailbio/base/vcontext"
	"github.com/grailbio/tcrpair/construct"
	"github.com/grailbio/tcrpair/pairtcr"
	"v.io/x/lib/cmdline"
)

// optsFlags binds the pipeline options shared by several subcommands.
type optsFlags struct {
	gzip   *bool
	umiLen *int
}

func bindOpts(cmd *cmdline.Command) optsFlags {
	return optsFlags{
		gzip:   cmd.Flags.Bool("gzip", pairtcr.DefaultOpts.Gzip, "Read and write FASTQ files with a .fq.gz suffix instead of .fq"),
		umiLen: cmd.Flags.Int("umi-len", pairtcr.DefaultOpts.UMI.UMILen, "Length of each of the two UMI segments"),
	}
}

func (f optsFlags) opts() pairtcr.Opts {
	opts := pairtcr.DefaultOpts
	opts.Gzip = *f.gzip
	opts.UMI.UMILen = *f.umiLen
	return opts
}

func newCmdExtract() *cmdline.Command {
	cmd := &cmdline.Command{
		Name:  "extract",
		Short: "Classify read pairs by construct and split them by chain",
		Long: `Extract searches R1 for the TRA construct and R2 for the TRB construct,
each first as sequenced and then reverse complemented. Matched pairs are
written to <prefix>_TRA_{1,2}.fq.gz or <prefix>_TRB_{1,2}.fq.gz, with the
construct trimmed from the mate that carried it and the UMIs appended to both
headers.`,
		ArgsName: "r1 r2 prefix",
	}
	common := bindOpts(cmd)
	readLimit := cmd.Flags.Int("read-limit", pairtcr.DefaultOpts.ReadLimit, "Maximum number of read pairs to process. Zero means no limit")
	parallelism := cmd.Flags.Int("parallelism", pairtcr.DefaultOpts.Parallelism, "Number of goroutines classifying reads")
	batchSize := cmd.Flags.Int("batch-size", pairtcr.DefaultOpts.BatchSize, "Number of read pairs classified per round")
	cmd.Runner = cmdutil.RunnerFunc(func(env *cmdline.Env, argv []string) error {
		if len(argv) != 3 {
			return fmt.Errorf("extract takes r1 r2 prefix, but got %v", argv)
		}
		opts := common.opts()
		opts.ReadLimit = *readLimit
		opts.Parallelism = *parallelism
		opts.BatchSize = *batchSize
		_, err := pairtcr.Extract(vcontext.Background(), argv[0], argv[1], argv[2], opts)
		return err
	})
	return cmd
}

func newCmdLink() *cmdline.Command {
	cmd := &cmdline.Command{
		Name:  "link",
		Short: "Pair TRA and TRB reads whose UMIs are reverse complements",
		Long: `Link indexes the UMIs of the TRA reads written by extract and streams the
TRB reads against the index. A TRB read is paired with every TRA read whose
UMI pair is the reverse complement of its own. The pairs are written as a TSV
table.`,
		ArgsName: "prefix table",
	}
	common := bindOpts(cmd)
	maxKeys := cmd.Flags.Int("max-keys", 0, "Maximum number of distinct TRA UMI pairs held in memory. Zero derives a bound from the physical memory size")
	cmd.Runner = cmdutil.RunnerFunc(func(env *cmdline.Env, argv []string) error {
		if len(argv) != 2 {
			return fmt.Errorf("link takes prefix table, but got %v", argv)
		}
		opts := common.opts()
		opts.UMI.MaxKeys = *maxKeys
		paths := pairtcr.Paths(argv[0], opts.Gzip)
		_, err := pairtcr.Link(vcontext.Background(), paths[construct.ChainA][0], paths[construct.ChainB][0], argv[1], opts)
		return err
	})
	return cmd
}

func newCmdProject() *cmdline.Command {
	cmd := &cmdline.Command{
		Name:  "project",
		Short: "Keep only the reads named in a pair table",
		Long: `Project filters the four FASTQ files written by extract down to the reads
that appear in the pair table, preserving their order, and writes them to
<outprefix>_matched_{TRA,TRB}_matched_{1,2}.fq.gz.`,
		ArgsName: "table prefix outprefix",
	}
	common := bindOpts(cmd)
	cmd.Runner = cmdutil.RunnerFunc(func(env *cmdline.Env, argv []string) error {
		if len(argv) != 3 {
			return fmt.Errorf("project takes table prefix outprefix, but got %v", argv)
		}
		_, err := pairtcr.Project(vcontext.Background(), argv[0], argv[1], argv[2], common.opts())
		return err
	})
	return cmd
}

func newCmdJoin() *cmdline.Command {
	cmd := &cmdline.Command{
		Name:  "join",
		Short: "Join a pair table with TRA and TRB clone annotations",
		Long: `Join reads the per-read annotation exports for the TRA and TRB reads
(columns descrsR1, bestVGene, bestJGene, nSeqCDR3, aaSeqCDR3, and optionally
chain), drops rows annotated to the other chain, and writes one row per linked
pair whose two reads are both annotated.`,
		ArgsName: "table tra-annotations trb-annotations output",
	}
	common := bindOpts(cmd)
	traPrefix := cmd.Flags.String("tra-gene-prefix", pairtcr.DefaultOpts.Annotation.GenePrefixes[construct.ChainA], "Gene name prefix of TRA V and J calls")
	trbPrefix := cmd.Flags.String("trb-gene-prefix", pairtcr.DefaultOpts.Annotation.GenePrefixes[construct.ChainB], "Gene name prefix of TRB V and J calls")
	cmd.Runner = cmdutil.RunnerFunc(func(env *cmdline.Env, argv []string) error {
		if len(argv) != 4 {
			return fmt.Errorf("join takes table tra-annotations trb-annotations output, but got %v", argv)
		}
		opts := common.opts()
		opts.Annotation.GenePrefixes[construct.ChainA] = *traPrefix
		opts.Annotation.GenePrefixes[construct.ChainB] = *trbPrefix
		_, err := pairtcr.Join(vcontext.Background(), argv[0], argv[1], argv[2], argv[3], opts)
		return err
	})
	return cmd
}

func newCmdChecksum() *cmdline.Command {
	cmd := &cmdline.Command{
		Name: "checksum",
		Short: `Compute an order-independent checksum of TSV tables.
The checksum is a JSON string with the header, the row count and the sum of row hashes`,
		ArgsName: "path...",
	}
	cmd.Runner = cmdutil.RunnerFunc(func(env *cmdline.Env, argv []string) error {
		if len(argv) == 0 {
			return fmt.Errorf("checksum takes one or more paths")
		}
		ctx := vcontext.Background()
		enc := json.NewEncoder(env.Stdout)
		enc.SetIndent("", "  ")
		for _, path := range argv {
			csum, err := pairtcr.Checksum(ctx, path)
			if err != nil {
				return err
			}
			if err := enc.Encode(csum); err != nil {
				return err
			}
		}
		return nil
	})
	return cmd
}

// Run is the entry point of bio-tcrpair.
func Run() {
	cmdline.HideGlobalFlagsExcept()
	cmdline.Main(
		&cmdline.Command{
			Name:     "bio-tcrpair",
			Short:    "Pair TRA and TRB reads by their shared UMIs",
			LookPath: false,
			Children: []*cmdline.Command{
				newCmdExtract(),
				newCmdLink(),
				newCmdProject(),
				newCmdJoin(),
				newCmdChecksum(),
			},
		})
}
