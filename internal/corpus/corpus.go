// Package corpus discovers the blocks and documents a BSBI build walks over,
// and tracks which blocks have already been processed so an interrupted
// build can safely resume instead of reparsing work it already committed to
// an intermediate index file.
package corpus

import (
	"os"
	"path/filepath"
	"sort"

	"github.com/bits-and-blooms/bitset"
)

// Document is one file within a block, identified by the path the document
// identifier map will assign an id to.
type Document struct {
	// RelPath is "<block>/<filename>", used as the document's identifier
	// string so that doc ids are stable across re-runs over the same tree.
	RelPath string
	// FullPath is the path to open for reading.
	FullPath string
}

// Block is one immediate subdirectory of the corpus root.
type Block struct {
	Name      string
	Documents []Document
}

// Walk discovers every block under root and every regular file within each
// block, both in lexicographic order, so that identifier assignment is
// deterministic across runs over the same corpus.
func Walk(root string) ([]Block, error) {
	entries, err := os.ReadDir(root)
	if err != nil {
		return nil, err
	}

	var blockNames []string
	for _, e := range entries {
		if e.IsDir() {
			blockNames = append(blockNames, e.Name())
		}
	}
	sort.Strings(blockNames)

	blocks := make([]Block, 0, len(blockNames))
	for _, name := range blockNames {
		blockDir := filepath.Join(root, name)
		docEntries, err := os.ReadDir(blockDir)
		if err != nil {
			return nil, err
		}

		var fileNames []string
		for _, e := range docEntries {
			if !e.IsDir() {
				fileNames = append(fileNames, e.Name())
			}
		}
		sort.Strings(fileNames)

		docs := make([]Document, 0, len(fileNames))
		for _, fn := range fileNames {
			docs = append(docs, Document{
				RelPath:  filepath.Join(name, fn),
				FullPath: filepath.Join(blockDir, fn),
			})
		}
		blocks = append(blocks, Block{Name: name, Documents: docs})
	}
	return blocks, nil
}

// SeenBlocks records which blocks (by index into a Walk result) have
// already had an intermediate index written for them, so a build that was
// interrupted after some blocks completed can skip reparsing them on retry.
// The builder itself performs no crash recovery beyond this bookkeeping:
// intermediate files from a block not marked seen are simply overwritten.
type SeenBlocks struct {
	bits *bitset.BitSet
}

// NewSeenBlocks returns an empty tracker.
func NewSeenBlocks() *SeenBlocks {
	return &SeenBlocks{bits: bitset.New(0)}
}

// Mark records block i as done.
func (s *SeenBlocks) Mark(i uint) {
	s.bits.Set(i)
}

// Seen reports whether block i has already been marked done.
func (s *SeenBlocks) Seen(i uint) bool {
	return s.bits.Test(i)
}

// MarshalBinary persists the tracker for a resumed run.
func (s *SeenBlocks) MarshalBinary() ([]byte, error) {
	return s.bits.MarshalBinary()
}

// UnmarshalBinary restores a tracker previously persisted with
// MarshalBinary.
func (s *SeenBlocks) UnmarshalBinary(data []byte) error {
	s.bits = bitset.New(0)
	return s.bits.UnmarshalBinary(data)
}
