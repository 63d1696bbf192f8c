package codec

import (
	"encoding/hex"

	"github.com/zeebo/blake3"
)

// Verification is the outcome of a round trip. A mismatch is a normal
// result, not an error.
type Verification struct {
	Identical bool
	// Valid is false when the original did not decipher to JSON; the
	// re-encode step is skipped in that case.
	Valid        bool
	OriginalSize int
	ResavedSize  int
	// FirstDiff is the offset of the first differing byte, or -1.
	FirstDiff      int
	OriginalDigest string
	ResavedDigest  string
}

// Verify decodes original to compact text, encodes it again and compares
// the two byte slices.
func (c *Codec) Verify(original []byte) (Verification, error) {
	res, err := c.DecodeCompact(original)
	if err != nil {
		return Verification{}, err
	}
	if !res.OK {
		return Verification{
			OriginalSize:   len(original),
			FirstDiff:      0,
			OriginalDigest: digest(original),
		}, nil
	}
	return Compare(original, c.Encode(res.Text, true)), nil
}

// Compare reports whether resaved reproduces original byte for byte.
func Compare(original, resaved []byte) Verification {
	v := Verification{
		Valid:          true,
		OriginalSize:   len(original),
		ResavedSize:    len(resaved),
		FirstDiff:      firstDiff(original, resaved),
		OriginalDigest: digest(original),
		ResavedDigest:  digest(resaved),
	}
	v.Identical = v.FirstDiff == -1
	return v
}

func firstDiff(a, b []byte) int {
	n := min(len(a), len(b))
	for i := 0; i < n; i++ {
		if a[i] != b[i] {
			return i
		}
	}
	if len(a) != len(b) {
		return n
	}
	return -1
}

func digest(b []byte) string {
	sum := blake3.Sum256(b)
	return hex.EncodeToString(sum[:])
}
