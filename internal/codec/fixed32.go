package codec

import (
	"encoding/binary"
	"fmt"

	"github.com/wizenheimer/bsbidx/internal/ixerr"
)

// Fixed32 stores each posting as a raw big-endian uint32, untransformed. No
// gap encoding, no variable width: four bytes per posting, always. It exists
// as the baseline every other codec is measured against.
type Fixed32 struct{}

func (Fixed32) Encode(postings []uint32) ([]byte, error) {
	buf := make([]byte, 4*len(postings))
	for i, p := range postings {
		binary.BigEndian.PutUint32(buf[4*i:], p)
	}
	return buf, nil
}

func (Fixed32) Decode(data []byte, df int) ([]uint32, error) {
	if len(data)%4 != 0 {
		return nil, fmt.Errorf("%w: fixed32 stream length %d not a multiple of 4", ixerr.ErrFormat, len(data))
	}
	n := len(data) / 4
	postings := make([]uint32, n)
	for i := 0; i < n; i++ {
		postings[i] = binary.BigEndian.Uint32(data[4*i:])
	}
	return postings, nil
}
