package codec

import (
	"encoding/binary"
	"fmt"

	"github.com/wizenheimer/bsbidx/internal/ixerr"
)

// Simple8b gap-encodes a postings list and packs the resulting gaps into
// 64-bit words: the 4 most-significant bits hold a selector in [0,16) that
// names one of 16 (count, width) packing schemes, and the remaining 60 bits
// hold that many values at that width, little-endian within the word (value
// 0 occupies the low bits). Words are then written out big-endian, 8 bytes
// each — an intentionally mixed convention (values packed little-endian
// within a word, words serialized big-endian) preserved exactly as the
// format that was already on disk.
//
// reference: https://github.com/jwilder/encoding/blob/master/simple8b/encoding.go
type Simple8b struct{}

// selectorRow describes one of the 16 packing schemes: n values packed at
// bits each, selected by its index into selectorTable.
type selectorRow struct {
	n    int
	bits uint
}

// selectorTable is indexed by the 4-bit selector. Rows 0 and 1 are special:
// they pack no bits at all, representing 240 or 120 consecutive 1s (the
// common case of back-to-back, gap-of-one postings).
var selectorTable = [16]selectorRow{
	{240, 0},
	{120, 0},
	{60, 1},
	{30, 2},
	{20, 3},
	{15, 4},
	{12, 5},
	{10, 6},
	{8, 7},
	{7, 8},
	{6, 10},
	{5, 12},
	{4, 15},
	{3, 20},
	{2, 30},
	{1, 60},
}

func canPackRow(src []uint32, row selectorRow) bool {
	if len(src) < row.n {
		return false
	}
	if row.bits == 0 {
		for _, v := range src[:row.n] {
			if v != 1 {
				return false
			}
		}
		return true
	}
	maxVal := uint64(1)<<row.bits - 1
	for _, v := range src[:row.n] {
		if uint64(v) > maxVal {
			return false
		}
	}
	return true
}

func packRow(src []uint32, selector int, row selectorRow) uint64 {
	word := uint64(selector) << 60
	if row.bits == 0 {
		return word
	}
	mask := uint64(1)<<row.bits - 1
	for i := 0; i < row.n; i++ {
		word |= (uint64(src[i]) & mask) << (row.bits * uint(i))
	}
	return word
}

func unpackRow(word uint64) ([]uint32, error) {
	selector := word >> 60
	if selector >= 16 {
		return nil, fmt.Errorf("%w: simple8b selector %d out of range", ixerr.ErrFormat, selector)
	}
	row := selectorTable[selector]
	if row.bits == 0 {
		ones := make([]uint32, row.n)
		for i := range ones {
			ones[i] = 1
		}
		return ones, nil
	}
	mask := uint64(1)<<row.bits - 1
	values := make([]uint32, row.n)
	for i := 0; i < row.n; i++ {
		values[i] = uint32((word >> (row.bits * uint(i))) & mask)
	}
	return values, nil
}

func (Simple8b) Encode(postings []uint32) ([]byte, error) {
	gaps := toGaps(postings)

	var words []uint64
	i := 0
	for i < len(gaps) {
		packed := false
		for selector, row := range selectorTable {
			if canPackRow(gaps[i:], row) {
				words = append(words, packRow(gaps[i:], selector, row))
				i += row.n
				packed = true
				break
			}
		}
		if !packed {
			// Row 15 packs a single 60-bit value and always succeeds for any
			// uint32, so this only triggers on a programming error above.
			return nil, fmt.Errorf("%w: simple8b could not pack gap %d", ixerr.ErrEncode, gaps[i])
		}
	}

	out := make([]byte, 8*len(words))
	for j, w := range words {
		binary.BigEndian.PutUint64(out[8*j:], w)
	}
	return out, nil
}

func (Simple8b) Decode(data []byte, df int) ([]uint32, error) {
	if len(data)%8 != 0 {
		return nil, fmt.Errorf("%w: simple8b stream length %d not a multiple of 8", ixerr.ErrFormat, len(data))
	}
	var gaps []uint32
	for off := 0; off < len(data); off += 8 {
		word := binary.BigEndian.Uint64(data[off:])
		values, err := unpackRow(word)
		if err != nil {
			return nil, err
		}
		gaps = append(gaps, values...)
	}
	return fromGaps(gaps), nil
}
