// Package retrieve evaluates a postfix boolean query against a final,
// merged index and maps the resulting document ids back to document paths.
package retrieve

import (
	"fmt"

	"github.com/wizenheimer/bsbidx/internal/idmap"
	"github.com/wizenheimer/bsbidx/internal/indexfile"
	"github.com/wizenheimer/bsbidx/internal/ixerr"
	"github.com/wizenheimer/bsbidx/internal/query"
	"github.com/wizenheimer/bsbidx/internal/setalgebra"
)

// Evaluate runs postfix tokens against r using the sorted-list algebra and
// returns the matching document paths. An operand naming a term absent from
// terms (or present in terms but absent from the index) contributes an
// empty postings list rather than an error. Evaluating an empty postfix
// stream yields an empty result.
func Evaluate(r *indexfile.Reader, terms, docs *idmap.Map, postfix []string) ([]string, error) {
	var stack [][]uint32

	for _, tok := range postfix {
		if query.IsOperator(tok) {
			if len(stack) < 2 {
				return nil, fmt.Errorf("%w: malformed postfix expression: operator %q with insufficient operands", ixerr.ErrInvalidQuery, tok)
			}
			b := stack[len(stack)-1]
			a := stack[len(stack)-2]
			stack = stack[:len(stack)-2]

			var result []uint32
			switch tok {
			case "AND":
				result = setalgebra.Intersect(a, b)
			case "OR":
				result = setalgebra.Union(a, b)
			case "DIFF":
				result = setalgebra.Diff(a, b)
			}
			stack = append(stack, result)
			continue
		}

		postings, err := fetchPostings(r, terms, tok)
		if err != nil {
			return nil, err
		}
		stack = append(stack, postings)
	}

	if len(stack) == 0 {
		return nil, nil
	}
	if len(stack) != 1 {
		return nil, fmt.Errorf("%w: malformed postfix expression: %d operands left on the stack", ixerr.ErrInvalidQuery, len(stack))
	}

	return docPaths(docs, stack[0])
}

func fetchPostings(r *indexfile.Reader, terms *idmap.Map, term string) ([]uint32, error) {
	termID, ok := terms.Lookup(term)
	if !ok {
		return nil, nil
	}
	postings, err := r.GetPostings(termID)
	if err != nil {
		return nil, fmt.Errorf("retrieve: fetching postings for %q: %w", term, err)
	}
	return postings, nil
}

func docPaths(docs *idmap.Map, docIDs []uint32) ([]string, error) {
	paths := make([]string, 0, len(docIDs))
	for _, id := range docIDs {
		path, ok := docs.LookupByID(id)
		if !ok {
			return nil, fmt.Errorf("%w: docID %d has no entry in the document map", ixerr.ErrFormat, id)
		}
		paths = append(paths, path)
	}
	return paths, nil
}

// Resolver adapts a Reader/term-map pair to query.Resolver, so the fluent
// query.Builder can run over the same index a string query would.
type Resolver struct {
	Reader *indexfile.Reader
	Terms  *idmap.Map
}

// Postings implements query.Resolver.
func (r Resolver) Postings(term string) []uint32 {
	postings, err := fetchPostings(r.Reader, r.Terms, term)
	if err != nil {
		return nil
	}
	return postings
}
