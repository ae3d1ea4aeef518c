package bsbi

import (
	"fmt"
	"os"
	"sort"
	"strings"

	"github.com/wizenheimer/bsbidx/internal/analyze"
	"github.com/wizenheimer/bsbidx/internal/corpus"
	"github.com/wizenheimer/bsbidx/internal/idmap"
	"github.com/wizenheimer/bsbidx/internal/indexfile"
)

// Pair is one (termID, docID) occurrence produced while parsing a block.
type Pair struct {
	TermID uint32
	DocID  uint32
}

// ParseBlock reads every document in block, analyzes its text and returns
// the resulting (termID, docID) pairs sorted by termID then docID. Both id
// maps are shared across every block in a build so identifiers stay
// consistent across the whole corpus.
func ParseBlock(block corpus.Block, terms, docs *idmap.Map, a *analyze.Analyzer) ([]Pair, error) {
	var pairs []Pair

	for _, doc := range block.Documents {
		docID := docs.GetOrAssign(doc.RelPath)

		raw, err := os.ReadFile(doc.FullPath)
		if err != nil {
			return nil, fmt.Errorf("bsbi: reading %s: %w", doc.FullPath, err)
		}
		text := strings.ToValidUTF8(string(raw), "")

		for _, term := range a.Analyze(text) {
			termID := terms.GetOrAssign(term)
			pairs = append(pairs, Pair{TermID: termID, DocID: docID})
		}
	}

	sort.Slice(pairs, func(i, j int) bool {
		if pairs[i].TermID != pairs[j].TermID {
			return pairs[i].TermID < pairs[j].TermID
		}
		return pairs[i].DocID < pairs[j].DocID
	})
	return pairs, nil
}

// InvertBlock groups parsed pairs by termID into ascending, duplicate-free
// postings lists and appends each one to w in ascending termID order.
func InvertBlock(pairs []Pair, w *indexfile.Writer) error {
	i := 0
	for i < len(pairs) {
		term := pairs[i].TermID

		var postings []uint32
		var lastDoc uint32
		hasLast := false
		j := i
		for j < len(pairs) && pairs[j].TermID == term {
			doc := pairs[j].DocID
			if !hasLast || doc != lastDoc {
				postings = append(postings, doc)
				lastDoc = doc
				hasLast = true
			}
			j++
		}

		if err := w.Append(term, postings); err != nil {
			return fmt.Errorf("bsbi: inverting block: %w", err)
		}
		i = j
	}
	return nil
}
