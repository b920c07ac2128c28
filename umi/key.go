package umi

import (
	"strings"

	"github.com/grailbio/tcrpair/dna"
	"github.com/pkg/errors"
)

var alphabetMap = map[byte]bool{
	'A': true,
	'C': true,
	'G': true,
	'T': true,
	'N': true,
}

// Key is the concatenation umi1·umi2 of a read's two UMI segments.
type Key string

// NewKey joins the two UMI segments of a read. Both segments must have
// length umiLen and consist of the bases ACGT or the no-call N.
func NewKey(umi1, umi2 string, umiLen int) (Key, error) {
	if err := validateUMI(umi1, umiLen); err != nil {
		return "", err
	}
	if err := validateUMI(umi2, umiLen); err != nil {
		return "", err
	}
	return Key(umi1 + umi2), nil
}

func validateUMI(umi string, umiLen int) error {
	if len(umi) != umiLen {
		return errors.Errorf("umi %s has length %d, want %d", umi, len(umi), umiLen)
	}
	for i := 0; i < len(umi); i++ {
		if !alphabetMap[umi[i]] {
			return errors.Errorf("invalid base %c in umi %v", umi[i], umi)
		}
	}
	return nil
}

// ReverseComplement returns the key a molecule's mate would carry: the two
// barcode reads are synthesized from opposite strands, so the chain-B key of
// a molecule is the reverse complement of its chain-A key.
func (k Key) ReverseComplement() Key {
	return Key(dna.ReverseCompString(string(k)))
}

// Split returns the two UMI segments.
func (k Key) Split() (umi1, umi2 string) {
	h := len(k) / 2
	return string(k[:h]), string(k[h:])
}

// Joined formats the key as "umi1_umi2".
func (k Key) Joined() string {
	umi1, umi2 := k.Split()
	return umi1 + "_" + umi2
}

// ParseJoined parses the "umi1_umi2" form produced by Joined.
func ParseJoined(s string, umiLen int) (Key, error) {
	i := strings.IndexByte(s, '_')
	if i < 0 {
		return "", errors.Errorf("umi pair %q: missing '_'", s)
	}
	return NewKey(s[:i], s[i+1:], umiLen)
}
