package query

import "github.com/wizenheimer/bsbidx/internal/setalgebra"

// ═══════════════════════════════════════════════════════════════════════════════
// FLUENT QUERY BUILDER
// ═══════════════════════════════════════════════════════════════════════════════
// Builder is a programmatic alternative to the string query parser in
// query.go, for callers constructing a query from code rather than user input:
//
//	docs := query.NewBuilder(resolver).
//	    Term("cat").
//	    Or().
//	    Term("dog").
//	    Execute()
//
// It runs over the same sorted-list algebra the postfix evaluator uses, but
// it applies each operator as soon as its right-hand Term or Group arrives,
// strictly left to right with no operator precedence: Term("a").Or().Term("b").
// And().Term("c") yields (a OR b) AND c, whereas the string query
// "a OR b AND c" yields a OR (b AND c). Use Group to nest explicitly.
// ═══════════════════════════════════════════════════════════════════════════════

// Resolver fetches the decoded postings list for a single term, returning an
// empty slice (never an error) for a term absent from the index.
type Resolver interface {
	Postings(term string) []uint32
}

type pendingOp int

const (
	pendingNone pendingOp = iota
	pendingAnd
	pendingOr
	pendingDiff
)

// Builder accumulates a boolean query over a single resolver.
type Builder struct {
	resolve  Resolver
	stack    []uint32
	hasValue bool
	pending  pendingOp
}

// NewBuilder constructs a Builder over resolve.
func NewBuilder(resolve Resolver) *Builder {
	return &Builder{resolve: resolve}
}

// Term looks up term's postings and combines them with the result so far
// using the operator (And/Or/Diff) requested since the previous Term or
// Group, or And if none was requested. The first Term call in a chain
// simply seeds the accumulator.
func (b *Builder) Term(term string) *Builder {
	b.combine(b.resolve.Postings(term))
	return b
}

// Group evaluates fn against a fresh Builder sharing the same resolver, then
// combines its result with the outer accumulator exactly as Term would.
func (b *Builder) Group(fn func(*Builder)) *Builder {
	inner := NewBuilder(b.resolve)
	fn(inner)
	b.combine(inner.Execute())
	return b
}

func (b *Builder) combine(postings []uint32) {
	if !b.hasValue {
		b.stack = postings
		b.hasValue = true
		return
	}
	switch b.pending {
	case pendingOr:
		b.stack = setalgebra.Union(b.stack, postings)
	case pendingDiff:
		b.stack = setalgebra.Diff(b.stack, postings)
	default:
		b.stack = setalgebra.Intersect(b.stack, postings)
	}
	b.pending = pendingNone
}

// And requests that the next Term or Group be intersected with the result
// so far.
func (b *Builder) And() *Builder { b.pending = pendingAnd; return b }

// Or requests that the next Term or Group be unioned with the result so
// far.
func (b *Builder) Or() *Builder { b.pending = pendingOr; return b }

// Diff requests that the next Term or Group be subtracted from the result
// so far.
func (b *Builder) Diff() *Builder { b.pending = pendingDiff; return b }

// Execute returns the accumulated postings list, or nil if no Term or Group
// call was ever made.
func (b *Builder) Execute() []uint32 {
	return b.stack
}
