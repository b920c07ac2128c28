package fastq

import (
	"strings"

	"github.com/pkg/errors"
)

// umiTagPrefix starts the header field carrying a read's chain and UMIs, e.g.
// "UMI:TRA:ACGTACG_TTGACCA" or "UMI:TRB:ACGTACG_TTGACCA:RC".
const umiTagPrefix = "UMI:"

// rcSuffix marks a UMI tag whose construct was found on the reverse strand.
const rcSuffix = ":RC"

// BaseID extracts the mate-independent read identifier from a FASTQ header
// line, or from a header echoed back by an external tool. The identifier is
// the first whitespace-delimited token with any leading '@' and any trailing
// "/1" or "/2" removed. It returns false if no identifier remains.
func BaseID(header string) (string, bool) {
	header = strings.TrimLeft(header, " \t")
	if i := strings.IndexAny(header, " \t"); i >= 0 {
		header = header[:i]
	}
	header = strings.TrimPrefix(header, "@")
	if n := len(header); n >= 2 && header[n-2] == '/' && (header[n-1] == '1' || header[n-1] == '2') {
		header = header[:n-2]
	}
	if header == "" {
		return "", false
	}
	return header, true
}

// UMITag is the chain and UMI annotation appended to the header of each
// classified read.
type UMITag struct {
	// Chain is the chain label, e.g. "TRA".
	Chain string
	// UMI1 and UMI2 are the two barcode segments in construct order.
	UMI1, UMI2 string
	// RC is true if the construct was found on the reverse complement of the
	// read.
	RC bool
}

// String formats the tag as it appears in a header, "UMI:<chain>:<umi1>_<umi2>[:RC]".
func (t UMITag) String() string {
	b := strings.Builder{}
	b.Grow(len(umiTagPrefix) + len(t.Chain) + len(t.UMI1) + len(t.UMI2) + 5)
	b.WriteString(umiTagPrefix)
	b.WriteString(t.Chain)
	b.WriteByte(':')
	b.WriteString(t.UMI1)
	b.WriteByte('_')
	b.WriteString(t.UMI2)
	if t.RC {
		b.WriteString(rcSuffix)
	}
	return b.String()
}

// AddUMITag appends the tag to a header line as a new space-separated field.
func AddUMITag(header string, t UMITag) string {
	return header + " " + t.String()
}

// ParseUMITag finds the UMI tag among the whitespace-separated fields of a
// header line. It returns false if the header carries no tag, and an error if
// a tag is present but malformed.
func ParseUMITag(header string) (UMITag, bool, error) {
	for _, field := range strings.Fields(header) {
		if !strings.HasPrefix(field, umiTagPrefix) {
			continue
		}
		t, err := parseUMITagField(field[len(umiTagPrefix):])
		if err != nil {
			return UMITag{}, true, errors.Wrapf(err, "header %q", header)
		}
		return t, true, nil
	}
	return UMITag{}, false, nil
}

func parseUMITagField(s string) (UMITag, error) {
	var t UMITag
	if strings.HasSuffix(s, rcSuffix) {
		t.RC = true
		s = s[:len(s)-len(rcSuffix)]
	}
	colon := strings.IndexByte(s, ':')
	if colon <= 0 {
		return t, errors.Errorf("missing chain in UMI tag %q", s)
	}
	t.Chain = s[:colon]
	umis := s[colon+1:]
	under := strings.IndexByte(umis, '_')
	if under < 0 || strings.IndexByte(umis[under+1:], '_') >= 0 {
		return t, errors.Errorf("expect <umi1>_<umi2>, found %q", umis)
	}
	t.UMI1, t.UMI2 = umis[:under], umis[under+1:]
	if t.UMI1 == "" || t.UMI2 == "" {
		return t, errors.Errorf("empty UMI segment in %q", umis)
	}
	return t, nil
}
