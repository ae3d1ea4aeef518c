// Package setalgebra implements intersection, union and difference over
// two ascending, duplicate-free sequences.
//
// ═══════════════════════════════════════════════════════════════════════════════
// WHY SORTED-LIST ALGEBRA?
// ═══════════════════════════════════════════════════════════════════════════════
// Postings lists are kept in ascending order on disk specifically so that
// boolean query evaluation never needs to sort: AND, OR and DIFF all run in
// O(|A|+|B|) with a two-cursor merge, the same trick mergesort uses to
// combine two sorted runs.
//
// EXAMPLE:
// --------
//
//	Intersect([2,3,4], [3,4])   == [3,4]
//	Union([5,6], [2,5,8])       == [2,5,6,8]
//	Diff([2,3,4], [3,4])        == [2]
//
// ═══════════════════════════════════════════════════════════════════════════════
package setalgebra

import "cmp"

// Intersect returns the ascending elements common to both A and B.
//
// Advances both cursors; on equality it emits once and advances both,
// otherwise it advances whichever cursor points at the smaller value.
func Intersect[T cmp.Ordered](a, b []T) []T {
	result := make([]T, 0, min(len(a), len(b)))
	i, j := 0, 0
	for i < len(a) && j < len(b) {
		switch {
		case a[i] == b[j]:
			result = append(result, a[i])
			i++
			j++
		case a[i] < b[j]:
			i++
		default:
			j++
		}
	}
	return result
}

// Union returns the ascending elements present in A or B, duplicates
// collapsed.
func Union[T cmp.Ordered](a, b []T) []T {
	result := make([]T, 0, len(a)+len(b))
	i, j := 0, 0
	for i < len(a) && j < len(b) {
		switch {
		case a[i] == b[j]:
			result = append(result, a[i])
			i++
			j++
		case a[i] < b[j]:
			result = append(result, a[i])
			i++
		default:
			result = append(result, b[j])
			j++
		}
	}
	result = append(result, a[i:]...)
	result = append(result, b[j:]...)
	return result
}

// Diff returns the ascending elements of A that do not appear in B (A − B).
func Diff[T cmp.Ordered](a, b []T) []T {
	result := make([]T, 0, len(a))
	i, j := 0, 0
	for i < len(a) && j < len(b) {
		switch {
		case a[i] == b[j]:
			i++
			j++
		case a[i] < b[j]:
			result = append(result, a[i])
			i++
		default:
			j++
		}
	}
	result = append(result, a[i:]...)
	return result
}
