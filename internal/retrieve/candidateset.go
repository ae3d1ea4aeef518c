package retrieve

import "github.com/RoaringBitmap/roaring"

// ═══════════════════════════════════════════════════════════════════════════════
// CANDIDATE SET: a RoaringBitmap-backed alternative to the sorted-list
// algebra used above.
// ═══════════════════════════════════════════════════════════════════════════════
// setalgebra's two-cursor merge is the mandated evaluation path: every
// result returned by Evaluate comes from it. CandidateSet exists alongside
// it as an opt-in fast path for callers who already hold many large
// postings lists in memory (e.g. an interactive query session reusing
// results across several queries) and want compressed, SIMD-friendly
// bitmap operations instead of repeated slice merges. It is built from, and
// always produces the same document-id set as, setalgebra's operators —
// see TestCandidateSetMatchesSetAlgebra in retrieve_test.go.
// ═══════════════════════════════════════════════════════════════════════════════

// CandidateSet wraps a roaring.Bitmap of document ids.
type CandidateSet struct {
	bitmap *roaring.Bitmap
}

// NewCandidateSet builds a CandidateSet from a sorted-list postings slice.
func NewCandidateSet(postings []uint32) CandidateSet {
	return CandidateSet{bitmap: roaring.BitmapOf(postings...)}
}

// ToSlice returns the ascending document ids held by the set.
func (c CandidateSet) ToSlice() []uint32 {
	return c.bitmap.ToArray()
}

// And returns the intersection of c and other.
func (c CandidateSet) And(other CandidateSet) CandidateSet {
	return CandidateSet{bitmap: roaring.And(c.bitmap, other.bitmap)}
}

// Or returns the union of c and other.
func (c CandidateSet) Or(other CandidateSet) CandidateSet {
	return CandidateSet{bitmap: roaring.Or(c.bitmap, other.bitmap)}
}

// AndNot returns the elements of c not present in other (c - other).
func (c CandidateSet) AndNot(other CandidateSet) CandidateSet {
	return CandidateSet{bitmap: roaring.AndNot(c.bitmap, other.bitmap)}
}

// Len reports the number of document ids in the set.
func (c CandidateSet) Len() int {
	return int(c.bitmap.GetCardinality())
}
