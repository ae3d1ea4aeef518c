// Package indexfile reads and writes the on-disk inverted-index file format:
// a sequence of (termID, postings) records in strictly ascending termID
// order, each headed by a fixed-width record header, plus a sidecar file
// mapping termID to its byte offset so random lookups avoid a linear scan.
//
// ═══════════════════════════════════════════════════════════════════════════════
// RECORD LAYOUT
// ═══════════════════════════════════════════════════════════════════════════════
//
//	termID               uint32 big-endian
//	document-frequency   uint32 big-endian  (len(postings))
//	postings-byte-length uint32 big-endian
//	postings bytes        <postings-byte-length> bytes, codec-specific
//
// The sidecar is built in memory while writing and gob-encoded to a second
// file alongside the main one at Close. A reader loads the sidecar eagerly
// on Open so GetPostings never has to scan.
// ═══════════════════════════════════════════════════════════════════════════════
package indexfile

import (
	"bufio"
	"bytes"
	"encoding/binary"
	"encoding/gob"
	"fmt"
	"io"
	"os"

	"github.com/wizenheimer/bsbidx/internal/codec"
	"github.com/wizenheimer/bsbidx/internal/ixerr"
)

const recordHeaderLen = 12

// SidecarSuffix is appended to an index file's path to name its sidecar.
const SidecarSuffix = ".sidecar"

// entry is one sidecar row: where a term's record lives and how big it is.
type entry struct {
	Offset int64
	Length uint32
	DF     uint32
}

// Writer appends records to an index file in strictly ascending termID
// order and persists the sidecar on Close.
type Writer struct {
	codec    codec.Codec
	f        *os.File
	w        *bufio.Writer
	path     string
	offset   int64
	lastTerm uint32
	started  bool
	sidecar  map[uint32]entry
}

// Create opens path for writing, truncating any existing content.
func Create(path string, c codec.Codec) (*Writer, error) {
	f, err := os.Create(path)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ixerr.ErrIO, err)
	}
	return &Writer{
		codec:   c,
		f:       f,
		w:       bufio.NewWriter(f),
		path:    path,
		sidecar: make(map[uint32]entry),
	}, nil
}

// Append encodes postings under the active codec and writes one record.
// termID must be strictly greater than the termID of the previous Append
// call.
func (w *Writer) Append(termID uint32, postings []uint32) error {
	if w.started && termID <= w.lastTerm {
		return fmt.Errorf("%w: indexfile: termID %d is not greater than previously appended termID %d", ixerr.ErrProgramming, termID, w.lastTerm)
	}

	encoded, err := w.codec.Encode(postings)
	if err != nil {
		return err
	}

	var header [recordHeaderLen]byte
	binary.BigEndian.PutUint32(header[0:4], termID)
	binary.BigEndian.PutUint32(header[4:8], uint32(len(postings)))
	binary.BigEndian.PutUint32(header[8:12], uint32(len(encoded)))

	if _, err := w.w.Write(header[:]); err != nil {
		return fmt.Errorf("%w: %v", ixerr.ErrIO, err)
	}
	if _, err := w.w.Write(encoded); err != nil {
		return fmt.Errorf("%w: %v", ixerr.ErrIO, err)
	}

	w.sidecar[termID] = entry{
		Offset: w.offset + recordHeaderLen,
		Length: uint32(len(encoded)),
		DF:     uint32(len(postings)),
	}
	w.offset += int64(recordHeaderLen + len(encoded))
	w.lastTerm = termID
	w.started = true
	return nil
}

// Close flushes the main file and writes the sidecar. Both are flushed and
// closed before Close returns; a clean return leaves a readable pair on
// disk.
func (w *Writer) Close() error {
	flushErr := w.w.Flush()
	closeErr := w.f.Close()
	if flushErr != nil {
		return fmt.Errorf("%w: %v", ixerr.ErrIO, flushErr)
	}
	if closeErr != nil {
		return fmt.Errorf("%w: %v", ixerr.ErrIO, closeErr)
	}

	sf, err := os.Create(w.path + SidecarSuffix)
	if err != nil {
		return fmt.Errorf("%w: %v", ixerr.ErrIO, err)
	}
	defer sf.Close()

	if err := gob.NewEncoder(sf).Encode(w.sidecar); err != nil {
		return fmt.Errorf("%w: sidecar encode: %v", ixerr.ErrIO, err)
	}
	return nil
}

// Reader provides both sequential and random access to an index file. It
// holds one open file descriptor and the sidecar, loaded entirely into
// memory on Open.
type Reader struct {
	codec   codec.Codec
	f       *os.File
	br      *bufio.Reader
	sidecar map[uint32]entry
}

// Open loads the sidecar for path and prepares path for reading.
func Open(path string, c codec.Codec) (*Reader, error) {
	sidecarBytes, err := os.ReadFile(path + SidecarSuffix)
	if err != nil {
		return nil, fmt.Errorf("%w: reading sidecar: %v", ixerr.ErrIO, err)
	}
	var sidecar map[uint32]entry
	if err := gob.NewDecoder(bytes.NewReader(sidecarBytes)).Decode(&sidecar); err != nil {
		return nil, fmt.Errorf("%w: decoding sidecar: %v", ixerr.ErrFormat, err)
	}

	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ixerr.ErrIO, err)
	}

	return &Reader{
		codec:   c,
		f:       f,
		br:      bufio.NewReader(f),
		sidecar: sidecar,
	}, nil
}

// Close releases the underlying file descriptor.
func (r *Reader) Close() error {
	if err := r.f.Close(); err != nil {
		return fmt.Errorf("%w: %v", ixerr.ErrIO, err)
	}
	return nil
}

// Next yields the next (termID, postings) record in ascending termID order.
// It returns io.EOF once the file is exhausted.
func (r *Reader) Next() (termID uint32, postings []uint32, err error) {
	var header [recordHeaderLen]byte
	if _, err := io.ReadFull(r.br, header[:]); err != nil {
		if err == io.EOF {
			return 0, nil, io.EOF
		}
		return 0, nil, fmt.Errorf("%w: reading record header: %v", ixerr.ErrFormat, err)
	}

	termID = binary.BigEndian.Uint32(header[0:4])
	df := binary.BigEndian.Uint32(header[4:8])
	length := binary.BigEndian.Uint32(header[8:12])

	payload := make([]byte, length)
	if _, err := io.ReadFull(r.br, payload); err != nil {
		return 0, nil, fmt.Errorf("%w: reading record payload for termID %d: %v", ixerr.ErrFormat, termID, err)
	}

	postings, err = r.codec.Decode(payload, int(df))
	if err != nil {
		return 0, nil, err
	}
	return termID, postings, nil
}

// GetPostings performs a random lookup by termID via the sidecar. It
// returns an empty (nil) list, not an error, when termID is absent.
func (r *Reader) GetPostings(termID uint32) ([]uint32, error) {
	e, ok := r.sidecar[termID]
	if !ok {
		return nil, nil
	}

	payload := make([]byte, e.Length)
	if _, err := r.f.ReadAt(payload, e.Offset); err != nil {
		return nil, fmt.Errorf("%w: reading termID %d at offset %d: %v", ixerr.ErrIO, termID, e.Offset, err)
	}
	return r.codec.Decode(payload, int(e.DF))
}

// DocumentFrequency reports the number of postings for termID without
// decoding them, or 0 if termID is absent.
func (r *Reader) DocumentFrequency(termID uint32) int {
	e, ok := r.sidecar[termID]
	if !ok {
		return 0
	}
	return int(e.DF)
}

// Terms returns every termID present in the file, order unspecified.
func (r *Reader) Terms() []uint32 {
	terms := make([]uint32, 0, len(r.sidecar))
	for t := range r.sidecar {
		terms = append(terms, t)
	}
	return terms
}
