package retrieve

import (
	"os"
	"path/filepath"
	"reflect"
	"sort"
	"testing"

	"github.com/wizenheimer/bsbidx/internal/analyze"
	"github.com/wizenheimer/bsbidx/internal/bsbi"
	"github.com/wizenheimer/bsbidx/internal/codec"
	"github.com/wizenheimer/bsbidx/internal/indexfile"
	"github.com/wizenheimer/bsbidx/internal/query"
)

// buildScenario5 builds the exact corpus from the spec's end-to-end
// scenario: blocks b0 (b0/d0.txt = "cat dog") and b1 (b1/d1.txt = "dog
// fish"), empty stopword list, identity stemmer.
func buildScenario5(t *testing.T) (outputPath string, c codec.Codec) {
	t.Helper()
	dataPath := t.TempDir()
	outputPath = t.TempDir()

	mustMkdir(t, filepath.Join(dataPath, "b0"))
	mustMkdir(t, filepath.Join(dataPath, "b1"))
	mustWrite(t, filepath.Join(dataPath, "b0", "d0.txt"), "cat dog")
	mustWrite(t, filepath.Join(dataPath, "b1", "d1.txt"), "dog fish")

	c = codec.VarByte{}
	a := analyze.New(nil, nil) // empty stopwords, identity stemmer
	b := bsbi.NewBuilder(dataPath, outputPath, c, a)
	if err := b.Build(); err != nil {
		t.Fatalf("Build: %v", err)
	}
	return outputPath, c
}

func mustMkdir(t *testing.T, path string) {
	t.Helper()
	if err := os.MkdirAll(path, 0o755); err != nil {
		t.Fatalf("MkdirAll: %v", err)
	}
}

func mustWrite(t *testing.T, path, content string) {
	t.Helper()
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("WriteFile: %v", err)
	}
}

// ═══════════════════════════════════════════════════════════════════════════════
// SCENARIO 5: BUILD
// ═══════════════════════════════════════════════════════════════════════════════

func TestEndToEndBuildPostings(t *testing.T) {
	outputPath, c := buildScenario5(t)

	terms, _, err := bsbi.LoadIDMaps(outputPath)
	if err != nil {
		t.Fatalf("LoadIDMaps: %v", err)
	}
	r, err := indexfile.Open(filepath.Join(outputPath, "main_index"), c)
	if err != nil {
		t.Fatalf("Open: %v", err)
	}
	defer r.Close()

	check := func(term string, want []uint32) {
		t.Helper()
		termID, ok := terms.Lookup(term)
		if !ok {
			t.Fatalf("term %q was never indexed", term)
		}
		postings, err := r.GetPostings(termID)
		if err != nil {
			t.Fatalf("GetPostings(%q): %v", term, err)
		}
		if !reflect.DeepEqual(postings, want) {
			t.Errorf("postings for %q = %v, want %v", term, postings, want)
		}
	}

	check("cat", []uint32{1})
	check("dog", []uint32{1, 2})
	check("fish", []uint32{2})
}

// ═══════════════════════════════════════════════════════════════════════════════
// SCENARIO 6: END-TO-END QUERY
// ═══════════════════════════════════════════════════════════════════════════════

func TestEndToEndQuery(t *testing.T) {
	outputPath, c := buildScenario5(t)

	terms, docs, err := bsbi.LoadIDMaps(outputPath)
	if err != nil {
		t.Fatalf("LoadIDMaps: %v", err)
	}
	r, err := indexfile.Open(filepath.Join(outputPath, "main_index"), c)
	if err != nil {
		t.Fatalf("Open: %v", err)
	}
	defer r.Close()

	run := func(q string) []string {
		t.Helper()
		postfix, err := query.ToPostfixString(q, nil, nil)
		if err != nil {
			t.Fatalf("ToPostfixString(%q): %v", q, err)
		}
		got, err := Evaluate(r, terms, docs, postfix)
		if err != nil {
			t.Fatalf("Evaluate(%q): %v", q, err)
		}
		return got
	}

	if got := run("cat AND dog"); !reflect.DeepEqual(got, []string{filepath.Join("b0", "d0.txt")}) {
		t.Errorf(`"cat AND dog" = %v, want [b0/d0.txt]`, got)
	}
	if got := run("cat OR fish"); !reflect.DeepEqual(got, []string{filepath.Join("b0", "d0.txt"), filepath.Join("b1", "d1.txt")}) {
		t.Errorf(`"cat OR fish" = %v, want [b0/d0.txt b1/d1.txt]`, got)
	}
	if got := run("dog DIFF cat"); !reflect.DeepEqual(got, []string{filepath.Join("b1", "d1.txt")}) {
		t.Errorf(`"dog DIFF cat" = %v, want [b1/d1.txt]`, got)
	}
}

func TestEvaluateUnknownTermIsEmptyNotError(t *testing.T) {
	outputPath, c := buildScenario5(t)
	terms, docs, err := bsbi.LoadIDMaps(outputPath)
	if err != nil {
		t.Fatalf("LoadIDMaps: %v", err)
	}
	r, err := indexfile.Open(filepath.Join(outputPath, "main_index"), c)
	if err != nil {
		t.Fatalf("Open: %v", err)
	}
	defer r.Close()

	postfix := []string{"cat", "ghost", "AND"}
	got, err := Evaluate(r, terms, docs, postfix)
	if err != nil {
		t.Fatalf("Evaluate: %v", err)
	}
	if len(got) != 0 {
		t.Errorf("AND with an unknown term should be empty, got %v", got)
	}
}

func TestEvaluateEmptyPostfix(t *testing.T) {
	outputPath, c := buildScenario5(t)
	terms, docs, err := bsbi.LoadIDMaps(outputPath)
	if err != nil {
		t.Fatalf("LoadIDMaps: %v", err)
	}
	r, err := indexfile.Open(filepath.Join(outputPath, "main_index"), c)
	if err != nil {
		t.Fatalf("Open: %v", err)
	}
	defer r.Close()

	got, err := Evaluate(r, terms, docs, nil)
	if err != nil {
		t.Fatalf("Evaluate: %v", err)
	}
	if len(got) != 0 {
		t.Errorf("empty postfix should yield empty result, got %v", got)
	}
}

// ═══════════════════════════════════════════════════════════════════════════════
// CANDIDATE SET EQUIVALENCE
// ═══════════════════════════════════════════════════════════════════════════════

func TestCandidateSetMatchesSetAlgebra(t *testing.T) {
	a := []uint32{2, 3, 4, 10}
	b := []uint32{3, 4, 8}

	ca := NewCandidateSet(a)
	cb := NewCandidateSet(b)

	check := func(name string, got CandidateSet, want []uint32) {
		t.Helper()
		got32 := got.ToSlice()
		sort.Slice(got32, func(i, j int) bool { return got32[i] < got32[j] })
		if !reflect.DeepEqual(got32, want) {
			t.Errorf("%s = %v, want %v", name, got32, want)
		}
	}

	check("And", ca.And(cb), []uint32{3, 4})
	check("Or", ca.Or(cb), []uint32{2, 3, 4, 8, 10})
	check("AndNot", ca.AndNot(cb), []uint32{2, 10})
}
