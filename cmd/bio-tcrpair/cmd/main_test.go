package cmd

import (
	"bytes"
	"encoding/json"
	"io/ioutil"
	"os"
	"path/filepath"
	"testing"

	"github.com/grailbio/base/grail"
	"github.com/grailbio/tcrpair/construct"
	"github.com/grailbio/tcrpair/pairtcr"
	"github.com/grailbio/testutil"
	"github.com/grailbio/testutil/assert"
	"github.com/grailbio/testutil/expect"
	"v.io/x/lib/cmdline"
)

func TestArity(t *testing.T) {
	tests := []struct {
		cmd  *cmdline.Command
		argv []string
	}{
		{newCmdExtract(), nil},
		{newCmdExtract(), []string{"r1.fq", "r2.fq"}},
		{newCmdExtract(), []string{"r1.fq", "r2.fq", "out", "extra"}},
		{newCmdLink(), []string{"out"}},
		{newCmdLink(), []string{"out", "pairs.tsv", "extra"}},
		{newCmdProject(), []string{"pairs.tsv", "out"}},
		{newCmdProject(), []string{"pairs.tsv", "out", "matched", "extra"}},
		{newCmdJoin(), []string{"pairs.tsv", "tra.tsv", "trb.tsv"}},
		{newCmdJoin(), []string{"pairs.tsv", "tra.tsv", "trb.tsv", "final.tsv", "extra"}},
		{newCmdChecksum(), nil},
	}
	for _, test := range tests {
		env := &cmdline.Env{Stdout: ioutil.Discard, Stderr: ioutil.Discard}
		err := test.cmd.Runner.Run(env, test.argv)
		expect.True(t, err != nil, "%s %v", test.cmd.Name, test.argv)
	}
}

func TestFlagDefaults(t *testing.T) {
	defaults := map[string]map[string]string{
		"extract": {"gzip": "true", "umi-len": "7", "read-limit": "100000"},
		"link":    {"gzip": "true", "umi-len": "7", "max-keys": "0"},
		"project": {"gzip": "true", "umi-len": "7"},
		"join":    {"gzip": "true", "tra-gene-prefix": "TRA", "trb-gene-prefix": "TRB"},
	}
	for _, cmd := range []*cmdline.Command{newCmdExtract(), newCmdLink(), newCmdProject(), newCmdJoin()} {
		for name, want := range defaults[cmd.Name] {
			f := cmd.Flags.Lookup(name)
			if f == nil {
				t.Errorf("%s: flag -%s not defined", cmd.Name, name)
				continue
			}
			expect.EQ(t, f.DefValue, want, "%s -%s", cmd.Name, name)
		}
	}
}

func TestBindOpts(t *testing.T) {
	cmd := &cmdline.Command{Name: "test"}
	f := bindOpts(cmd)
	assert.NoError(t, cmd.Flags.Parse([]string{"-gzip=false", "-umi-len=8"}))
	opts := f.opts()
	expect.False(t, opts.Gzip)
	expect.EQ(t, opts.UMI.UMILen, 8)
	expect.EQ(t, opts.ReadLimit, pairtcr.DefaultOpts.ReadLimit)
	expect.EQ(t, opts.Annotation.GenePrefixes[construct.ChainA], "TRA")
}

func TestChecksumCommand(t *testing.T) {
	tmpDir, cleanup := testutil.TempDir(t, "", "")
	defer cleanup()
	path := filepath.Join(tmpDir, "pairs.tsv")
	assert.NoError(t, ioutil.WriteFile(path, []byte("a\tb\n1\t2\n3\t4\n"), 0600))

	var out bytes.Buffer
	env := &cmdline.Env{Stdout: &out, Stderr: ioutil.Discard}
	assert.NoError(t, newCmdChecksum().Runner.Run(env, []string{path}))
	var csum pairtcr.TableChecksum
	assert.NoError(t, json.Unmarshal(out.Bytes(), &csum))
	expect.EQ(t, csum.Path, path)
	expect.EQ(t, csum.Header, "a\tb")
	expect.EQ(t, csum.NRows, int64(2))
}

func TestMain(m *testing.M) {
	shutdown := grail.Init()
	defer shutdown()
	os.Exit(m.Run())
}
