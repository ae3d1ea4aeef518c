// Package bsbi implements blocked sort-based indexing: parse each block of
// the corpus independently, invert it into a small intermediate index, then
// k-way merge every intermediate index into one final, ascending-termID
// index file.
package bsbi

import (
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/wizenheimer/bsbidx/internal/analyze"
	"github.com/wizenheimer/bsbidx/internal/codec"
	"github.com/wizenheimer/bsbidx/internal/corpus"
	"github.com/wizenheimer/bsbidx/internal/idmap"
	"github.com/wizenheimer/bsbidx/internal/indexfile"
)

const (
	termsDictFile = "terms.dict"
	docsDictFile  = "docs.dict"
	seenBlockFile = "seen_blocks"

	intermediatePrefix = "intermediate_index_"
)

// Builder drives a full build of a corpus directory into a final merged
// index, plus the term and document identifier maps that index's termIDs
// and docIDs refer to.
type Builder struct {
	DataPath   string
	OutputPath string
	Codec      codec.Codec
	IndexName  string
	Analyzer   *analyze.Analyzer

	Terms *idmap.Map
	Docs  *idmap.Map

	Logger *slog.Logger
}

// NewBuilder constructs a Builder with fresh, empty identifier maps and
// IndexName set to "main_index"; assign a different IndexName on the result
// to override it.
func NewBuilder(dataPath, outputPath string, c codec.Codec, a *analyze.Analyzer) *Builder {
	return &Builder{
		DataPath:   dataPath,
		OutputPath: outputPath,
		Codec:      c,
		IndexName:  "main_index",
		Analyzer:   a,
		Terms:      idmap.New(),
		Docs:       idmap.New(),
		Logger:     slog.Default(),
	}
}

// Build walks DataPath, parses and inverts each block into an intermediate
// index, persists the identifier maps, then merges every intermediate index
// into the final index named IndexName under OutputPath.
//
// Any I/O error during block parsing or writing aborts the build.
// Intermediate files already written remain on disk; a subsequent Build
// call over the same OutputPath — whether resuming after a crash or simply
// re-indexing the same output directory, in the same or a new process —
// loads the term and document maps persisted by the prior run before
// skipping blocks recorded as done in the seen-block tracker, so a skipped
// block's ids are never renumbered or dropped. A new block added since the
// prior run gets ids continuing from the loaded maps, matching the
// unchanged intermediate index files already on disk.
func (b *Builder) Build() error {
	if err := os.MkdirAll(b.OutputPath, 0o755); err != nil {
		return fmt.Errorf("bsbi: creating output path: %w", err)
	}

	blocks, err := corpus.Walk(b.DataPath)
	if err != nil {
		return fmt.Errorf("bsbi: walking corpus: %w", err)
	}

	seen := corpus.NewSeenBlocks()
	if data, err := os.ReadFile(b.seenBlockPath()); err == nil {
		if err := seen.UnmarshalBinary(data); err != nil {
			return fmt.Errorf("bsbi: loading seen-block tracker: %w", err)
		}
	}

	if terms, docs, err := b.loadIDMapsIfPresent(); err != nil {
		return fmt.Errorf("bsbi: loading existing identifier maps: %w", err)
	} else if terms != nil {
		b.Terms, b.Docs = terms, docs
	}

	intermediatePaths := make([]string, len(blocks))
	for i, block := range blocks {
		intermediatePaths[i] = filepath.Join(b.OutputPath, intermediatePrefix+block.Name)

		if seen.Seen(uint(i)) {
			b.Logger.Info("skipping already-built block", "block", block.Name)
			continue
		}

		b.Logger.Info("parsing block", "block", block.Name, "documents", len(block.Documents))
		pairs, err := ParseBlock(block, b.Terms, b.Docs, b.Analyzer)
		if err != nil {
			return fmt.Errorf("bsbi: parsing block %s: %w", block.Name, err)
		}

		if err := b.writeIntermediate(intermediatePaths[i], pairs); err != nil {
			return fmt.Errorf("bsbi: writing intermediate index for block %s: %w", block.Name, err)
		}

		// Persisted before the block is marked seen, so the on-disk maps are
		// always at least as current as seen_blocks: a crash between these
		// two writes still leaves a reloadable, consistent pair on the next run.
		if err := b.persistIDMaps(); err != nil {
			return fmt.Errorf("bsbi: persisting identifier maps: %w", err)
		}

		seen.Mark(uint(i))
		if err := b.persistSeenBlocks(seen); err != nil {
			return fmt.Errorf("bsbi: persisting seen-block tracker: %w", err)
		}
	}

	if err := b.persistIDMaps(); err != nil {
		return fmt.Errorf("bsbi: persisting identifier maps: %w", err)
	}

	b.Logger.Info("merging intermediate indices", "count", len(intermediatePaths))
	if err := b.mergeAll(intermediatePaths); err != nil {
		return err
	}
	return nil
}

// loadIDMapsIfPresent loads the term and document maps a prior Build
// persisted under OutputPath, or returns nil maps (no error) if this is the
// first build for this output path.
func (b *Builder) loadIDMapsIfPresent() (*idmap.Map, *idmap.Map, error) {
	termData, err := os.ReadFile(filepath.Join(b.OutputPath, termsDictFile))
	if errors.Is(err, os.ErrNotExist) {
		return nil, nil, nil
	}
	if err != nil {
		return nil, nil, err
	}
	terms := idmap.New()
	if err := terms.UnmarshalBinary(termData); err != nil {
		return nil, nil, err
	}

	docData, err := os.ReadFile(filepath.Join(b.OutputPath, docsDictFile))
	if errors.Is(err, os.ErrNotExist) {
		return nil, nil, nil
	}
	if err != nil {
		return nil, nil, err
	}
	docs := idmap.New()
	if err := docs.UnmarshalBinary(docData); err != nil {
		return nil, nil, err
	}

	return terms, docs, nil
}

func (b *Builder) writeIntermediate(path string, pairs []Pair) error {
	w, err := indexfile.Create(path, b.Codec)
	if err != nil {
		return err
	}
	if err := InvertBlock(pairs, w); err != nil {
		w.Close()
		return err
	}
	return w.Close()
}

// mergeAll opens every intermediate index, runs the k-way merge into the
// final index, and guarantees every opened reader is released regardless of
// where the merge fails.
func (b *Builder) mergeAll(paths []string) error {
	readers := make([]*indexfile.Reader, 0, len(paths))
	closeAll := func() {
		for _, r := range readers {
			r.Close()
		}
	}

	for _, p := range paths {
		r, err := indexfile.Open(p, b.Codec)
		if err != nil {
			closeAll()
			return fmt.Errorf("bsbi: opening intermediate index %s: %w", p, err)
		}
		readers = append(readers, r)
	}
	defer closeAll()

	w, err := indexfile.Create(filepath.Join(b.OutputPath, b.IndexName), b.Codec)
	if err != nil {
		return fmt.Errorf("bsbi: creating merged index: %w", err)
	}
	defer w.Close()

	return Merge(readers, w)
}

func (b *Builder) persistIDMaps() error {
	if err := persistMap(b.Terms, filepath.Join(b.OutputPath, termsDictFile)); err != nil {
		return err
	}
	return persistMap(b.Docs, filepath.Join(b.OutputPath, docsDictFile))
}

func persistMap(m *idmap.Map, path string) error {
	data, err := m.MarshalBinary()
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0o644)
}

func (b *Builder) persistSeenBlocks(s *corpus.SeenBlocks) error {
	data, err := s.MarshalBinary()
	if err != nil {
		return err
	}
	return os.WriteFile(b.seenBlockPath(), data, 0o644)
}

func (b *Builder) seenBlockPath() string {
	return filepath.Join(b.OutputPath, seenBlockFile)
}

// LoadIDMaps reads the term and document identifier maps a prior Build
// persisted under outputPath.
func LoadIDMaps(outputPath string) (terms, docs *idmap.Map, err error) {
	terms = idmap.New()
	docs = idmap.New()

	termData, err := os.ReadFile(filepath.Join(outputPath, termsDictFile))
	if err != nil {
		return nil, nil, fmt.Errorf("bsbi: loading term map: %w", err)
	}
	if err := terms.UnmarshalBinary(termData); err != nil {
		return nil, nil, fmt.Errorf("bsbi: decoding term map: %w", err)
	}

	docData, err := os.ReadFile(filepath.Join(outputPath, docsDictFile))
	if err != nil {
		return nil, nil, fmt.Errorf("bsbi: loading document map: %w", err)
	}
	if err := docs.UnmarshalBinary(docData); err != nil {
		return nil, nil, fmt.Errorf("bsbi: decoding document map: %w", err)
	}

	return terms, docs, nil
}
