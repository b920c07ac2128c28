package umi

import (
	"sort"

	"github.com/grailbio/base/log"
	"github.com/pkg/errors"
)

// ErrIndexFull is returned by IndexBuilder.Add when the number of distinct
// keys would exceed Opts.MaxKeys.
var ErrIndexFull = errors.New("umi index capacity exceeded")

// Opts configures index construction.
type Opts struct {
	// UMILen is the length of each of the two UMI segments.
	UMILen int
	// MaxKeys bounds the number of distinct chain-A keys held in memory. Zero
	// means no bound.
	MaxKeys int
}

// DefaultOpts sets the default values to Opts.
var DefaultOpts = Opts{
	UMILen:  7,
	MaxKeys: 0,
}

// bytesPerKey is a rough per-key footprint of an Index: the key string, map
// overhead in both maps, and one read ID.
const bytesPerKey = 256

// MaxKeysForMemory suggests an Opts.MaxKeys value that keeps an index
// within half of the given number of bytes.
func MaxKeysForMemory(bytes uint64) int {
	return int(bytes / 2 / bytesPerKey)
}

// IndexBuilder accumulates chain-A reads. It is not threadsafe. Once Build
// has been called the builder must not be used again.
type IndexBuilder struct {
	opts  Opts
	ids   map[Key][]string
	reads int
}

// NewIndexBuilder creates an empty builder.
func NewIndexBuilder(opts Opts) *IndexBuilder {
	return &IndexBuilder{opts: opts, ids: map[Key][]string{}}
}

// Add records that the chain-A read readID carries key. The same key may be
// added for any number of reads.
func (b *IndexBuilder) Add(key Key, readID string) error {
	ids, ok := b.ids[key]
	if !ok && b.opts.MaxKeys > 0 && len(b.ids) >= b.opts.MaxKeys {
		return ErrIndexFull
	}
	b.ids[key] = append(ids, readID)
	b.reads++
	return nil
}

// Build freezes the builder into a read-only Index. Read IDs under each key
// are sorted and deduplicated so lookups are deterministic.
func (b *IndexBuilder) Build() *Index {
	idx := &Index{
		ids:   b.ids,
		rc:    make(map[Key]Key, len(b.ids)),
		reads: b.reads,
	}
	b.ids = nil
	for key, ids := range idx.ids {
		idx.ids[key] = sortedUnique(ids)
		idx.rc[key.ReverseComplement()] = key
	}
	log.Debug.Printf("umi index: %d reads, %d distinct keys", idx.reads, len(idx.ids))
	return idx
}

func sortedUnique(ids []string) []string {
	if len(ids) < 2 {
		return ids
	}
	sort.Strings(ids)
	n := 1
	for i := 1; i < len(ids); i++ {
		if ids[i] != ids[n-1] {
			ids[n] = ids[i]
			n++
		}
	}
	return ids[:n]
}

// Index maps chain-A keys to the reads that carry them, and the reverse
// complement of every chain-A key back to the key. An Index is immutable and
// safe for concurrent lookups.
type Index struct {
	ids   map[Key][]string
	rc    map[Key]Key
	reads int
}

// Lookup finds the chain-A reads whose key is the reverse complement of the
// chain-B key b. It returns the chain-A key and its read IDs, sorted. The
// returned slice must not be modified.
func (x *Index) Lookup(b Key) (Key, []string, bool) {
	a, ok := x.rc[b]
	if !ok {
		return "", nil, false
	}
	return a, x.ids[a], true
}

// Keys returns the number of distinct chain-A keys.
func (x *Index) Keys() int { return len(x.ids) }

// Reads returns the number of chain-A reads added to the builder.
func (x *Index) Reads() int { return x.reads }
