package umi

import "fmt"

// Link records that a chain-A read and a chain-B read were tagged from the
// same molecule.
type Link struct {
	// A and B are the base read IDs of the chain-A and chain-B reads.
	A, B string
	// AKey and BKey are the keys the two reads carry. BKey is always the
	// reverse complement of AKey.
	AKey, BKey Key
}

// Links is a many-to-many relation between chain-A and chain-B reads, in
// discovery order. A read may appear in any number of links on its side.
type Links []Link

// ReadIDs returns the union of the read IDs on both sides of the relation.
func (ls Links) ReadIDs() map[string]struct{} {
	ids := make(map[string]struct{}, 2*len(ls))
	for _, l := range ls {
		ids[l.A] = struct{}{}
		ids[l.B] = struct{}{}
	}
	return ids
}

// Stats counts linking outcomes.
type Stats struct {
	// ChainAReads is the number of chain-A reads added to the index.
	ChainAReads int
	// ChainAKeys is the number of distinct chain-A keys.
	ChainAKeys int
	// ChainBReads is the number of chain-B reads looked up.
	ChainBReads int
	// MatchedReads is the number of chain-B reads with a partner key.
	MatchedReads int
	// Missed is the number of chain-B reads with no partner key.
	Missed int
	// Links is the number of links emitted.
	Links int
	// Malformed is the number of reads on either side skipped because their
	// ID or UMI tag was unusable.
	Malformed int
}

func (s Stats) String() string {
	return fmt.Sprintf("TRA reads: %d (%d distinct UMIs), TRB reads: %d, matched: %d, missed: %d, links: %d, malformed: %d",
		s.ChainAReads, s.ChainAKeys, s.ChainBReads, s.MatchedReads, s.Missed, s.Links, s.Malformed)
}

// Linker streams chain-B reads against a finished Index. A Linker is not
// threadsafe, but any number of Linkers may share one Index.
type Linker struct {
	index *Index
	stats Stats
}

// NewLinker creates a linker over idx.
func NewLinker(idx *Index) *Linker {
	return &Linker{
		index: idx,
		stats: Stats{ChainAReads: idx.Reads(), ChainAKeys: idx.Keys()},
	}
}

// Link looks up one chain-B read and calls emit once for every chain-A read
// whose key is the reverse complement of key. A chain-B read with no partner
// is counted and dropped. Link stops at the first error returned by emit.
func (l *Linker) Link(readID string, key Key, emit func(Link) error) error {
	l.stats.ChainBReads++
	aKey, aIDs, ok := l.index.Lookup(key)
	if !ok {
		l.stats.Missed++
		return nil
	}
	l.stats.MatchedReads++
	for _, a := range aIDs {
		if err := emit(Link{A: a, B: readID, AKey: aKey, BKey: key}); err != nil {
			return err
		}
		l.stats.Links++
	}
	return nil
}

// AddMalformed counts n reads skipped before they reached the linker.
func (l *Linker) AddMalformed(n int) { l.stats.Malformed += n }

// Stats returns the counts accumulated so far.
func (l *Linker) Stats() Stats { return l.stats }

// Read is a UMI-tagged read, as consumed by LinkAll.
type Read struct {
	ID  string
	Key Key
}

// LinkAll builds an index over chainA and links every read of chainB against
// it, returning the relation in chain-B order.
func LinkAll(opts Opts, chainA, chainB []Read) (Links, Stats, error) {
	b := NewIndexBuilder(opts)
	for _, r := range chainA {
		if err := b.Add(r.Key, r.ID); err != nil {
			return nil, Stats{}, err
		}
	}
	linker := NewLinker(b.Build())
	var links Links
	for _, r := range chainB {
		// emit never fails.
		_ = linker.Link(r.ID, r.Key, func(l Link) error {
			links = append(links, l)
			return nil
		})
	}
	return links, linker.Stats(), nil
}
