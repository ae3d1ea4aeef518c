package bsbi

import (
	"container/heap"
	"fmt"
	"io"

	"github.com/wizenheimer/bsbidx/internal/indexfile"
	"github.com/wizenheimer/bsbidx/internal/setalgebra"
)

// mergeItem is one entry on the k-way merge heap: the current record read
// from one intermediate reader.
type mergeItem struct {
	termID    uint32
	postings  []uint32
	readerIdx int
}

// mergeHeap orders items by ascending termID, breaking ties on reader index
// so that equal termIDs are popped in a fixed, deterministic order.
type mergeHeap []mergeItem

func (h mergeHeap) Len() int { return len(h) }
func (h mergeHeap) Less(i, j int) bool {
	if h[i].termID != h[j].termID {
		return h[i].termID < h[j].termID
	}
	return h[i].readerIdx < h[j].readerIdx
}
func (h mergeHeap) Swap(i, j int) { h[i], h[j] = h[j], h[i] }
func (h *mergeHeap) Push(x any)   { *h = append(*h, x.(mergeItem)) }
func (h *mergeHeap) Pop() any {
	old := *h
	n := len(old)
	item := old[n-1]
	*h = old[:n-1]
	return item
}

// Merge performs a k-way merge of readers' records into w, preserving
// ascending termID order. Postings for the same termID across multiple
// readers are combined with the sorted-list union, which also discards the
// duplicates that would otherwise arise at block boundaries. It is the
// caller's responsibility to close every reader in readers; Merge only
// reads from them.
func Merge(readers []*indexfile.Reader, w *indexfile.Writer) error {
	h := &mergeHeap{}
	heap.Init(h)

	advance := func(idx int) error {
		termID, postings, err := readers[idx].Next()
		if err == io.EOF {
			return nil
		}
		if err != nil {
			return err
		}
		heap.Push(h, mergeItem{termID: termID, postings: postings, readerIdx: idx})
		return nil
	}

	for idx := range readers {
		if err := advance(idx); err != nil {
			return fmt.Errorf("bsbi: merge: reading first record from reader %d: %w", idx, err)
		}
	}

	for h.Len() > 0 {
		top := heap.Pop(h).(mergeItem)
		currentTerm := top.termID
		merged := top.postings

		for h.Len() > 0 && (*h)[0].termID == currentTerm {
			next := heap.Pop(h).(mergeItem)
			merged = setalgebra.Union(merged, next.postings)
			if err := advance(next.readerIdx); err != nil {
				return fmt.Errorf("bsbi: merge: advancing reader %d: %w", next.readerIdx, err)
			}
		}

		if err := w.Append(currentTerm, merged); err != nil {
			return fmt.Errorf("bsbi: merge: appending termID %d: %w", currentTerm, err)
		}

		if err := advance(top.readerIdx); err != nil {
			return fmt.Errorf("bsbi: merge: advancing reader %d: %w", top.readerIdx, err)
		}
	}
	return nil
}
