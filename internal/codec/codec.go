// Package codec implements the four postings-list encodings: Fixed 32-bit,
// Variable-Byte, Simple8b and Elias-Gamma. All four round-trip a []uint32
// postings list to and from a byte stream; all but Fixed32 first transform
// the list to gaps between consecutive postings, since gaps compress far
// better than absolute document ids once a term's postings are mostly
// nearby.
//
// ═══════════════════════════════════════════════════════════════════════════════
// WHY DOES DECODE TAKE A COUNT?
// ═══════════════════════════════════════════════════════════════════════════════
// Fixed32, VarByte and Simple8b streams are all self-delimiting: a reader
// knows it has reached the end when it runs out of bytes. Elias-Gamma is
// not — it is a bitstream, and the final byte is padded out with zero bits
// that are themselves indistinguishable from the start of one more unary
// prefix. Decode is therefore handed the document frequency recorded in the
// index file's record header and stops once it has produced that many
// values, rather than guessing from the padding. The other three codecs
// ignore the count; it exists on the interface so callers, and in
// particular the index file reader, never need to know which codec is in
// play to decode a record.
// ═══════════════════════════════════════════════════════════════════════════════
package codec

import "fmt"

// Codec turns an ascending, duplicate-free postings list into bytes and
// back. df is the number of postings the caller expects to get back; it is
// recorded alongside the encoded bytes in the index file and is required to
// decode an Elias-Gamma stream unambiguously.
type Codec interface {
	Encode(postings []uint32) ([]byte, error)
	Decode(data []byte, df int) ([]uint32, error)
}

// Name identifies one of the four codecs, used on the CLI and in config.
type Name string

const (
	Fixed32Name    Name = "fixed32"
	VarByteName    Name = "vb"
	Simple8bName   Name = "simple8b"
	EliasGammaName Name = "gamma"
)

// ByName resolves a codec Name to its Codec implementation.
func ByName(n Name) (Codec, error) {
	switch n {
	case Fixed32Name:
		return Fixed32{}, nil
	case VarByteName:
		return VarByte{}, nil
	case Simple8bName:
		return Simple8b{}, nil
	case EliasGammaName:
		return EliasGamma{}, nil
	default:
		return nil, fmt.Errorf("codec: unknown codec name %q", n)
	}
}

// toGaps converts an ascending postings list into first-value-plus-deltas,
// the representation every codec but Fixed32 actually stores.
func toGaps(postings []uint32) []uint32 {
	gaps := make([]uint32, len(postings))
	var prev uint32
	for i, p := range postings {
		gaps[i] = p - prev
		prev = p
	}
	return gaps
}

// fromGaps undoes toGaps.
func fromGaps(gaps []uint32) []uint32 {
	postings := make([]uint32, len(gaps))
	var prev uint32
	for i, g := range gaps {
		prev += g
		postings[i] = prev
	}
	return postings
}
