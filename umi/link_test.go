package umi

import (
	"bytes"
	"math/rand"
	"os"
	"strings"
	"testing"

	"github.com/grailbio/base/grail"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func mustKey(t *testing.T, umi1, umi2 string) Key {
	k, err := NewKey(umi1, umi2, 7)
	require.NoError(t, err)
	return k
}

func TestKey(t *testing.T) {
	k := mustKey(t, "AAAAAAA", "CCCCCCC")
	assert.Equal(t, Key("AAAAAAACCCCCCC"), k)
	assert.Equal(t, Key("GGGGGGGTTTTTTT"), k.ReverseComplement())
	assert.Equal(t, "AAAAAAA_CCCCCCC", k.Joined())

	umi1, umi2 := k.ReverseComplement().Split()
	assert.Equal(t, "GGGGGGG", umi1)
	assert.Equal(t, "TTTTTTT", umi2)

	p, err := ParseJoined("AAAAAAA_CCCCCCC", 7)
	require.NoError(t, err)
	assert.Equal(t, k, p)

	for _, bad := range [][2]string{
		{"AAAAAA", "CCCCCCC"},
		{"AAAAAAA", "CCCCCCCC"},
		{"AAA-AAA", "CCCCCCC"},
		{"AAAAAAA", "ccccccc"},
	} {
		_, err := NewKey(bad[0], bad[1], 7)
		assert.Error(t, err, "%v", bad)
	}
	_, err = ParseJoined("AAAAAAACCCCCCC", 7)
	assert.Error(t, err)
}

func TestLinkExample(t *testing.T) {
	links, stats, err := LinkAll(DefaultOpts,
		[]Read{{"r1", "AAAAAAACCCCCCC"}},
		[]Read{{"r2", "GGGGGGGTTTTTTT"}, {"r3", "AAAAAAACCCCCCC"}, {"r4", "GGGGGGGTTTTTTA"}})
	require.NoError(t, err)
	assert.Equal(t, Links{{A: "r1", B: "r2", AKey: "AAAAAAACCCCCCC", BKey: "GGGGGGGTTTTTTT"}}, links)
	assert.Equal(t, Stats{
		ChainAReads:  1,
		ChainAKeys:   1,
		ChainBReads:  3,
		MatchedReads: 1,
		Missed:       2,
		Links:        1,
	}, stats)
}

func TestLinkNoCall(t *testing.T) {
	k := mustKey(t, "AAANAAA", "CCCCCCC")
	assert.Equal(t, Key("GGGGGGGTTTNTTT"), k.ReverseComplement())
	links, stats, err := LinkAll(DefaultOpts,
		[]Read{{"r1", k}},
		[]Read{{"r2", "GGGGGGGTTTNTTT"}, {"r3", "GGGGGGGTTTTTTT"}})
	require.NoError(t, err)
	assert.Equal(t, Links{{A: "r1", B: "r2", AKey: k, BKey: "GGGGGGGTTTNTTT"}}, links)
	assert.Equal(t, 1, stats.Missed)
}

func TestLinkManyToMany(t *testing.T) {
	a := []Read{
		{"a2", "AAAAAAACCCCCCC"},
		{"a1", "AAAAAAACCCCCCC"},
		{"a1", "AAAAAAACCCCCCC"},
		{"a3", "ACGTACGTACGTAC"},
	}
	b := []Read{
		{"b1", "GGGGGGGTTTTTTT"},
		{"b2", "GTACGTACGTACGT"},
		{"b3", "GGGGGGGTTTTTTT"},
	}
	links, stats, err := LinkAll(DefaultOpts, a, b)
	require.NoError(t, err)
	var got []string
	for _, l := range links {
		got = append(got, l.A+"-"+l.B)
	}
	// Duplicate chain-A reads collapse; each chain-B read fans out to every
	// chain-A read of its partner key, in read ID order.
	assert.Equal(t, []string{"a1-b1", "a2-b1", "a3-b2", "a1-b3", "a2-b3"}, got)
	assert.Equal(t, 4, stats.ChainAReads)
	assert.Equal(t, 2, stats.ChainAKeys)
	assert.Equal(t, 5, stats.Links)
	assert.Equal(t, 0, stats.Missed)

	ids := links.ReadIDs()
	assert.Equal(t, 6, len(ids))
	for _, id := range []string{"a1", "a2", "a3", "b1", "b2", "b3"} {
		_, ok := ids[id]
		assert.True(t, ok, id)
	}
}

func randomKey(r *rand.Rand) Key {
	const bases = "ACGT"
	buf := make([]byte, 14)
	for i := range buf {
		buf[i] = bases[r.Intn(4)]
	}
	return Key(buf)
}

// A link is produced exactly when the chain-B key is the reverse complement
// of an indexed chain-A key.
func TestLinkIffReverseComplement(t *testing.T) {
	r := rand.New(rand.NewSource(0))
	aKeys := map[Key]bool{}
	b := NewIndexBuilder(DefaultOpts)
	for i := 0; i < 200; i++ {
		k := randomKey(r)
		aKeys[k] = true
		require.NoError(t, b.Add(k, "a"))
	}
	linker := NewLinker(b.Build())
	for i := 0; i < 2000; i++ {
		var k Key
		if i%2 == 0 {
			k = randomKey(r)
		} else {
			// Pick a partner of a known key.
			for a := range aKeys {
				k = a.ReverseComplement()
				break
			}
		}
		var n int
		require.NoError(t, linker.Link("b", k, func(l Link) error {
			assert.Equal(t, l.AKey.ReverseComplement(), k)
			n++
			return nil
		}))
		if aKeys[k.ReverseComplement()] {
			assert.Equal(t, 1, n, "key %s", k)
		} else {
			assert.Equal(t, 0, n, "key %s", k)
		}
	}
	s := linker.Stats()
	assert.Equal(t, s.ChainBReads, s.MatchedReads+s.Missed)
}

func TestIndexFull(t *testing.T) {
	b := NewIndexBuilder(Opts{UMILen: 7, MaxKeys: 2})
	require.NoError(t, b.Add("AAAAAAACCCCCCC", "r1"))
	require.NoError(t, b.Add("AAAAAAAGGGGGGG", "r2"))
	// Known keys never count against the limit.
	require.NoError(t, b.Add("AAAAAAACCCCCCC", "r3"))
	assert.Equal(t, ErrIndexFull, b.Add("TTTTTTTGGGGGGG", "r4"))

	idx := b.Build()
	assert.Equal(t, 2, idx.Keys())
	assert.Equal(t, 3, idx.Reads())
	a, ids, ok := idx.Lookup(Key("AAAAAAACCCCCCC").ReverseComplement())
	assert.True(t, ok)
	assert.Equal(t, Key("AAAAAAACCCCCCC"), a)
	assert.Equal(t, []string{"r1", "r3"}, ids)

	assert.Equal(t, 2048, MaxKeysForMemory(1<<20))
}

func TestTable(t *testing.T) {
	links := Links{
		{A: "r1", B: "r2", AKey: "AAAAAAACCCCCCC", BKey: "GGGGGGGTTTTTTT"},
		{A: "r5", B: "r2", AKey: "AAAAAAACCCCCCC", BKey: "GGGGGGGTTTTTTT"},
	}
	var buf bytes.Buffer
	require.NoError(t, WriteTable(&buf, links))
	assert.Equal(t,
		"TRA_UMI\tTRB_UMI\tTRA_Read_ID_Base\tTRB_Read_ID_Base\n"+
			"AAAAAAA_CCCCCCC\tGGGGGGG_TTTTTTT\tr1\tr2\n"+
			"AAAAAAA_CCCCCCC\tGGGGGGG_TTTTTTT\tr5\tr2\n",
		buf.String())

	got, malformed, err := ReadTable(strings.NewReader(buf.String()), 7)
	require.NoError(t, err)
	assert.Equal(t, 0, malformed)
	assert.Equal(t, links, got)
}

func TestTableEmptyAndMalformed(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, WriteTable(&buf, nil))
	assert.Equal(t, "TRA_UMI\tTRB_UMI\tTRA_Read_ID_Base\tTRB_Read_ID_Base\n", buf.String())
	got, malformed, err := ReadTable(&buf, 7)
	require.NoError(t, err)
	assert.Equal(t, 0, malformed)
	assert.Empty(t, got)

	in := "TRA_UMI\tTRB_UMI\tTRA_Read_ID_Base\tTRB_Read_ID_Base\n" +
		"AAAAAAA_CCCCCCC\tGGGGGGG_TTTTTTT\tr1\tr2\n" +
		"AAAAAAA\tGGGGGGG_TTTTTTT\tr3\tr4\n" +
		"AAAAAAA_CCCCCCC\tGGGGGGG_TTTTTTT\tr5\n" +
		"AAAAAAA_CCCCCCC\tGGGGGGG_TTTTTTT\t\tr6\n" +
		"AAAAAAA_CCCCCCC\tGGGGGGG_TTTTTTT\tr7\tr8\n"
	got, malformed, err = ReadTable(strings.NewReader(in), 7)
	require.NoError(t, err)
	assert.Equal(t, 3, malformed)
	require.Equal(t, 2, len(got))
	assert.Equal(t, "r1", got[0].A)
	assert.Equal(t, "r8", got[1].B)

	// Columns are found by name.
	in = "TRB_Read_ID_Base\tTRA_Read_ID_Base\tTRB_UMI\tTRA_UMI\n" +
		"r2\tr1\tGGGGGGG_TTTTTTT\tAAAAAAA_CCCCCCC\n"
	got, malformed, err = ReadTable(strings.NewReader(in), 7)
	require.NoError(t, err)
	assert.Equal(t, 0, malformed)
	assert.Equal(t, Links{{A: "r1", B: "r2", AKey: "AAAAAAACCCCCCC", BKey: "GGGGGGGTTTTTTT"}}, got)

	_, _, err = ReadTable(strings.NewReader("TRA_UMI\tTRB_UMI\n"), 7)
	assert.Error(t, err)
}

func TestMain(m *testing.M) {
	shutdown := grail.Init()
	defer shutdown()
	os.Exit(m.Run())
}
