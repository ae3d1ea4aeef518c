// Package idmap maintains a bijection between strings (terms or document
// names) and the small dense integers the rest of the index deals in.
//
// ═══════════════════════════════════════════════════════════════════════════════
// WHY NOT JUST USE STRINGS EVERYWHERE?
// ═══════════════════════════════════════════════════════════════════════════════
// Postings lists, codecs and the on-disk index file all operate on uint32
// identifiers rather than strings: fixed-width integers sort, compare and
// pack into varint/Simple8b/Elias-Gamma streams far more cheaply than
// variable-length strings ever could. Map assigns ids in strict
// first-appearance order starting at 1; an id, once assigned, is never
// reused or renumbered.
// ═══════════════════════════════════════════════════════════════════════════════
package idmap

import (
	"bytes"
	"encoding/gob"
	"fmt"

	"github.com/wizenheimer/bsbidx/internal/ixerr"
)

// Map is a bidirectional string<->uint32 map. The zero value is not usable;
// construct one with New.
type Map struct {
	strToID map[string]uint32
	idToStr []string // idToStr[i] holds the string for id i+1
}

// New returns an empty Map.
func New() *Map {
	return &Map{
		strToID: make(map[string]uint32),
	}
}

// GetOrAssign returns the id for s, assigning the next sequential id (in
// first-appearance order, 1-based) if s has not been seen before.
func (m *Map) GetOrAssign(s string) uint32 {
	if id, ok := m.strToID[s]; ok {
		return id
	}
	id := uint32(len(m.idToStr)) + 1
	m.strToID[s] = id
	m.idToStr = append(m.idToStr, s)
	return id
}

// Lookup returns the id assigned to s, if any, without assigning a new one.
func (m *Map) Lookup(s string) (uint32, bool) {
	id, ok := m.strToID[s]
	return id, ok
}

// LookupByID returns the string assigned to id, if any.
func (m *Map) LookupByID(id uint32) (string, bool) {
	if id == 0 || int(id) > len(m.idToStr) {
		return "", false
	}
	return m.idToStr[id-1], true
}

// Size returns the number of distinct strings held in the map.
func (m *Map) Size() int {
	return len(m.idToStr)
}

// gobMap is the on-disk representation: idToStr alone is sufficient to
// reconstruct strToID on load, so that's all gob needs to carry.
type gobMap struct {
	IDToStr []string
}

// MarshalBinary implements encoding.BinaryMarshaler via gob. idmap carries no
// pointer graph (unlike a skip list), so gob's reflection-based encoding
// costs nothing over a hand-rolled binary.Write loop and keeps the format
// resilient to field additions.
func (m *Map) MarshalBinary() ([]byte, error) {
	var buf bytes.Buffer
	if err := gob.NewEncoder(&buf).Encode(gobMap{IDToStr: m.idToStr}); err != nil {
		return nil, fmt.Errorf("idmap: encode: %w", err)
	}
	return buf.Bytes(), nil
}

// UnmarshalBinary implements encoding.BinaryUnmarshaler, rebuilding the
// reverse index from the decoded forward list.
func (m *Map) UnmarshalBinary(data []byte) error {
	var g gobMap
	if err := gob.NewDecoder(bytes.NewReader(data)).Decode(&g); err != nil {
		return fmt.Errorf("%w: decoding idmap: %v", ixerr.ErrFormat, err)
	}
	m.idToStr = g.IDToStr
	m.strToID = make(map[string]uint32, len(g.IDToStr))
	for i, s := range g.IDToStr {
		m.strToID[s] = uint32(i) + 1
	}
	return nil
}
