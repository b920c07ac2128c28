// Copyright 2018 GRAIL, Inc.  All rights reserved.
// Use of this source code is governed by the Apache-2.0
// license that can be found in the LICENSE file.

// Package dna provides nucleotide-level helpers shared by the construct
// extractor and the UMI linker.
package dna

import gunsafe "github.com/grailbio/base/unsafe"

// complementTable maps 'A'/'a' to 'T', 'C'/'c' to 'G', 'G'/'g' to 'C',
// 'T'/'t' to 'A', and every other byte (including 'N') to 'N'.
var complementTable [256]byte

func init() {
	for i := range complementTable {
		complementTable[i] = 'N'
	}
	for _, p := range [][2]byte{{'A', 'T'}, {'C', 'G'}, {'G', 'C'}, {'T', 'A'}} {
		complementTable[p[0]] = p[1]
		complementTable[p[0]+'a'-'A'] = p[1]
	}
}

// ReverseComp writes the reverse complement of src[] to dst[].
//
// It panics if len(dst) != len(src).
func ReverseComp(dst, src []byte) {
	nByte := len(src)
	if len(dst) != nByte {
		panic("ReverseComp requires len(dst) == len(src).")
	}
	for idx, invIdx := 0, nByte-1; idx != nByte; idx, invIdx = idx+1, invIdx-1 {
		dst[idx] = complementTable[src[invIdx]]
	}
}

// ReverseCompString returns the reverse complement of s. Bases outside
// ACGT (either case) become 'N', so the result is always over {A,C,G,T,N}.
func ReverseCompString(s string) string {
	if len(s) == 0 {
		return ""
	}
	buf := make([]byte, len(s))
	ReverseComp(buf, gunsafe.StringToBytes(s))
	return gunsafe.BytesToString(buf)
}

// IsACGTN reports whether every byte of s is an uppercase base A, C, G, T or
// the no-call symbol N.
func IsACGTN(s string) bool {
	for i := 0; i < len(s); i++ {
		switch s[i] {
		case 'A', 'C', 'G', 'T', 'N':
		default:
			return false
		}
	}
	return true
}
