package codec

import (
	"fmt"

	"github.com/wizenheimer/bsbidx/internal/ixerr"
)

// VarByte gap-encodes a postings list with Variable-Byte Encoding: each gap
// is split into base-128 digits, most-significant digit first, and the
// final digit of each number has its high bit set as a terminator.
type VarByte struct{}

func (VarByte) Encode(postings []uint32) ([]byte, error) {
	gaps := toGaps(postings)
	var out []byte
	for _, g := range gaps {
		out = append(out, vbEncodeNumber(g)...)
	}
	return out, nil
}

// vbEncodeNumber encodes a single number as a sequence of base-128 digits,
// most-significant first, with the high bit of the final byte set.
func vbEncodeNumber(n uint32) []byte {
	var digits []byte
	digits = append(digits, byte(n%128))
	for n >= 128 {
		n /= 128
		digits = append(digits, byte(n%128))
	}
	// digits is currently least-significant-first; reverse it.
	for i, j := 0, len(digits)-1; i < j; i, j = i+1, j-1 {
		digits[i], digits[j] = digits[j], digits[i]
	}
	digits[len(digits)-1] |= 0x80
	return digits
}

func (VarByte) Decode(data []byte, df int) ([]uint32, error) {
	var gaps []uint32
	var n uint32
	for _, b := range data {
		if b < 128 {
			n = 128*n + uint32(b)
		} else {
			n = 128*n + uint32(b-128)
			gaps = append(gaps, n)
			n = 0
		}
	}
	if n != 0 {
		return nil, fmt.Errorf("%w: variable-byte stream did not end on a terminator byte", ixerr.ErrFormat)
	}
	return fromGaps(gaps), nil
}
