package bsbi

import (
	"io"
	"os"
	"path/filepath"
	"reflect"
	"sort"
	"testing"

	"github.com/wizenheimer/bsbidx/internal/analyze"
	"github.com/wizenheimer/bsbidx/internal/codec"
	"github.com/wizenheimer/bsbidx/internal/corpus"
	"github.com/wizenheimer/bsbidx/internal/idmap"
	"github.com/wizenheimer/bsbidx/internal/indexfile"
)

func identityAnalyzer() *analyze.Analyzer {
	return analyze.New(nil, nil)
}

// ═══════════════════════════════════════════════════════════════════════════════
// PARSE + INVERT
// ═══════════════════════════════════════════════════════════════════════════════

func TestParseAndInvertBlock(t *testing.T) {
	root := t.TempDir()
	blockDir := filepath.Join(root, "block0")
	if err := os.MkdirAll(blockDir, 0o755); err != nil {
		t.Fatalf("MkdirAll: %v", err)
	}
	mustWriteFile(t, filepath.Join(blockDir, "a.txt"), "cat dog cat")
	mustWriteFile(t, filepath.Join(blockDir, "b.txt"), "dog bird")

	blocks, err := corpus.Walk(root)
	if err != nil {
		t.Fatalf("Walk: %v", err)
	}
	if len(blocks) != 1 {
		t.Fatalf("len(blocks) = %d, want 1", len(blocks))
	}

	terms := idmap.New()
	docs := idmap.New()
	pairs, err := ParseBlock(blocks[0], terms, docs, identityAnalyzer())
	if err != nil {
		t.Fatalf("ParseBlock: %v", err)
	}

	catID, _ := terms.Lookup("cat")
	dogID, _ := terms.Lookup("dog")
	birdID, _ := terms.Lookup("bird")
	docAID, _ := docs.Lookup(filepath.Join("block0", "a.txt"))
	docBID, _ := docs.Lookup(filepath.Join("block0", "b.txt"))

	indexPath := filepath.Join(root, "intermediate")
	w, err := indexfile.Create(indexPath, codec.Fixed32{})
	if err != nil {
		t.Fatalf("Create: %v", err)
	}
	if err := InvertBlock(pairs, w); err != nil {
		t.Fatalf("InvertBlock: %v", err)
	}
	if err := w.Close(); err != nil {
		t.Fatalf("Close: %v", err)
	}

	r, err := indexfile.Open(indexPath, codec.Fixed32{})
	if err != nil {
		t.Fatalf("Open: %v", err)
	}
	defer r.Close()

	catPostings, err := r.GetPostings(catID)
	if err != nil {
		t.Fatalf("GetPostings(cat): %v", err)
	}
	if !reflect.DeepEqual(catPostings, []uint32{docAID}) {
		t.Errorf("cat postings = %v, want [%d]", catPostings, docAID)
	}

	dogPostings, err := r.GetPostings(dogID)
	if err != nil {
		t.Fatalf("GetPostings(dog): %v", err)
	}
	want := []uint32{docAID, docBID}
	if docBID < docAID {
		want = []uint32{docBID, docAID}
	}
	if !reflect.DeepEqual(dogPostings, want) {
		t.Errorf("dog postings = %v, want %v (ascending, deduplicated)", dogPostings, want)
	}

	birdPostings, err := r.GetPostings(birdID)
	if err != nil {
		t.Fatalf("GetPostings(bird): %v", err)
	}
	if !reflect.DeepEqual(birdPostings, []uint32{docBID}) {
		t.Errorf("bird postings = %v, want [%d]", birdPostings, docBID)
	}
}

func mustWriteFile(t *testing.T, path, content string) {
	t.Helper()
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("WriteFile: %v", err)
	}
}

// ═══════════════════════════════════════════════════════════════════════════════
// BUILD / RESUME
// ═══════════════════════════════════════════════════════════════════════════════

// TestRebuildOverCompletedOutputPreservesIDMaps guards against re-running
// Build over an OutputPath whose blocks are all already marked seen: the
// persisted term and document maps must still resolve to the postings
// already baked into the merged index, not be overwritten with empty ones.
func TestRebuildOverCompletedOutputPreservesIDMaps(t *testing.T) {
	root := t.TempDir()
	out := t.TempDir()

	mustMkdirAll(t, filepath.Join(root, "b0"))
	mustWriteFile(t, filepath.Join(root, "b0", "d0.txt"), "cat dog")

	build := func() *Builder {
		b := NewBuilder(root, out, codec.VarByte{}, identityAnalyzer())
		if err := b.Build(); err != nil {
			t.Fatalf("Build: %v", err)
		}
		return b
	}

	first := build()
	firstCatID, ok := first.Terms.Lookup("cat")
	if !ok {
		t.Fatalf("first build: cat not indexed")
	}
	firstDocID, ok := first.Docs.Lookup(filepath.Join("b0", "d0.txt"))
	if !ok {
		t.Fatalf("first build: document not indexed")
	}

	// Every block is now marked seen in out/seen_blocks; a fresh Builder
	// pointed at the same OutputPath must not reparse anything, yet must
	// still know about "cat" and the document under the same ids.
	second := build()
	if second.Terms.Size() != first.Terms.Size() {
		t.Fatalf("second build: Terms.Size() = %d, want %d (unchanged)", second.Terms.Size(), first.Terms.Size())
	}
	if second.Docs.Size() != first.Docs.Size() {
		t.Fatalf("second build: Docs.Size() = %d, want %d (unchanged)", second.Docs.Size(), first.Docs.Size())
	}

	terms, docs, err := LoadIDMaps(out)
	if err != nil {
		t.Fatalf("LoadIDMaps: %v", err)
	}
	catID, ok := terms.Lookup("cat")
	if !ok || catID != firstCatID {
		t.Fatalf("terms.dict after rebuild: cat -> (%d, %v), want (%d, true)", catID, ok, firstCatID)
	}
	docID, ok := docs.Lookup(filepath.Join("b0", "d0.txt"))
	if !ok || docID != firstDocID {
		t.Fatalf("docs.dict after rebuild: document -> (%d, %v), want (%d, true)", docID, ok, firstDocID)
	}

	r, err := indexfile.Open(filepath.Join(out, "main_index"), codec.VarByte{})
	if err != nil {
		t.Fatalf("Open merged index: %v", err)
	}
	defer r.Close()
	postings, err := r.GetPostings(catID)
	if err != nil {
		t.Fatalf("GetPostings(cat): %v", err)
	}
	if !reflect.DeepEqual(postings, []uint32{docID}) {
		t.Errorf("cat postings after rebuild = %v, want [%d]", postings, docID)
	}
}

// TestBuildNewBlockAfterCompletionExtendsIDMaps guards against id collisions
// when a new block is added after a completed build: the new block's terms
// and documents must be assigned ids that continue from, not restart at,
// the ids already baked into the unchanged intermediate index files.
func TestBuildNewBlockAfterCompletionExtendsIDMaps(t *testing.T) {
	root := t.TempDir()
	out := t.TempDir()

	mustMkdirAll(t, filepath.Join(root, "b0"))
	mustWriteFile(t, filepath.Join(root, "b0", "d0.txt"), "cat")

	b := NewBuilder(root, out, codec.VarByte{}, identityAnalyzer())
	if err := b.Build(); err != nil {
		t.Fatalf("first Build: %v", err)
	}
	catID, _ := b.Terms.Lookup("cat")

	mustMkdirAll(t, filepath.Join(root, "b1"))
	mustWriteFile(t, filepath.Join(root, "b1", "d1.txt"), "dog")

	b2 := NewBuilder(root, out, codec.VarByte{}, identityAnalyzer())
	if err := b2.Build(); err != nil {
		t.Fatalf("second Build: %v", err)
	}
	dogID, ok := b2.Terms.Lookup("dog")
	if !ok {
		t.Fatalf("second build: dog not indexed")
	}
	if dogID == catID {
		t.Fatalf("dog id %d collides with cat id %d", dogID, catID)
	}

	r, err := indexfile.Open(filepath.Join(out, "main_index"), codec.VarByte{})
	if err != nil {
		t.Fatalf("Open merged index: %v", err)
	}
	defer r.Close()

	catPostings, err := r.GetPostings(catID)
	if err != nil {
		t.Fatalf("GetPostings(cat): %v", err)
	}
	if len(catPostings) != 1 {
		t.Errorf("cat postings after second build = %v, want 1 entry (unaffected by new block)", catPostings)
	}
	dogPostings, err := r.GetPostings(dogID)
	if err != nil {
		t.Fatalf("GetPostings(dog): %v", err)
	}
	if len(dogPostings) != 1 {
		t.Errorf("dog postings after second build = %v, want 1 entry", dogPostings)
	}
}

func mustMkdirAll(t *testing.T, path string) {
	t.Helper()
	if err := os.MkdirAll(path, 0o755); err != nil {
		t.Fatalf("MkdirAll: %v", err)
	}
}

// ═══════════════════════════════════════════════════════════════════════════════
// K-WAY MERGE
// ═══════════════════════════════════════════════════════════════════════════════

func TestMergeUnionsOverlappingTerms(t *testing.T) {
	dir := t.TempDir()
	c := codec.VarByte{}

	writeIntermediate := func(name string, records map[uint32][]uint32) string {
		path := filepath.Join(dir, name)
		w, err := indexfile.Create(path, c)
		if err != nil {
			t.Fatalf("Create: %v", err)
		}
		var ids []uint32
		for id := range records {
			ids = append(ids, id)
		}
		sort.Slice(ids, func(i, j int) bool { return ids[i] < ids[j] })
		for _, id := range ids {
			if err := w.Append(id, records[id]); err != nil {
				t.Fatalf("Append: %v", err)
			}
		}
		if err := w.Close(); err != nil {
			t.Fatalf("Close: %v", err)
		}
		return path
	}

	path1 := writeIntermediate("idx1", map[uint32][]uint32{
		1: {1, 2},
		3: {5},
	})
	path2 := writeIntermediate("idx2", map[uint32][]uint32{
		1: {3},
		2: {7},
	})

	var readers []*indexfile.Reader
	for _, p := range []string{path1, path2} {
		r, err := indexfile.Open(p, c)
		if err != nil {
			t.Fatalf("Open: %v", err)
		}
		defer r.Close()
		readers = append(readers, r)
	}

	mergedPath := filepath.Join(dir, "merged")
	w, err := indexfile.Create(mergedPath, c)
	if err != nil {
		t.Fatalf("Create: %v", err)
	}
	if err := Merge(readers, w); err != nil {
		t.Fatalf("Merge: %v", err)
	}
	if err := w.Close(); err != nil {
		t.Fatalf("Close: %v", err)
	}

	mr, err := indexfile.Open(mergedPath, c)
	if err != nil {
		t.Fatalf("Open merged: %v", err)
	}
	defer mr.Close()

	var gotTerms []uint32
	postingsByTerm := map[uint32][]uint32{}
	for {
		termID, postings, err := mr.Next()
		if err == io.EOF {
			break
		}
		if err != nil {
			t.Fatalf("Next: %v", err)
		}
		gotTerms = append(gotTerms, termID)
		postingsByTerm[termID] = postings
	}

	if !reflect.DeepEqual(gotTerms, []uint32{1, 2, 3}) {
		t.Errorf("merged termIDs = %v, want [1 2 3] (ascending)", gotTerms)
	}
	if !reflect.DeepEqual(postingsByTerm[1], []uint32{1, 2, 3}) {
		t.Errorf("merged postings for term 1 = %v, want [1 2 3]", postingsByTerm[1])
	}
	if !reflect.DeepEqual(postingsByTerm[2], []uint32{7}) {
		t.Errorf("merged postings for term 2 = %v, want [7]", postingsByTerm[2])
	}
	if !reflect.DeepEqual(postingsByTerm[3], []uint32{5}) {
		t.Errorf("merged postings for term 3 = %v, want [5]", postingsByTerm[3])
	}
}
