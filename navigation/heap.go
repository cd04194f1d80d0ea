package navigation

import "github.com/lixenwraith/pathplan/parameter"

// heapSlot pairs an item with its priority key
// seq is a monotonic insertion counter; equal keys resolve by insertion
// order so repeated searches over the same graph expand identically
type heapSlot[T any] struct {
	key  float64
	seq  uint64
	item T
}

// BinaryHeap is an array-backed min-heap keyed by float64 priority
// It backs the open set of the graph-search planners: cleared between
// searches, never reallocated, no allocation in Push/Pop besides the
// amortized capacity doubling
type BinaryHeap[T any] struct {
	slots []heapSlot[T]
	seq   uint64
}

// NewBinaryHeap creates a heap with the given initial capacity
// Capacities below the parameter floor are raised to it
func NewBinaryHeap[T any](capacity int) *BinaryHeap[T] {
	if capacity < parameter.OpenSetInitialCapacity {
		capacity = parameter.OpenSetInitialCapacity
	}
	return &BinaryHeap[T]{
		slots: make([]heapSlot[T], 0, capacity),
	}
}

// Count returns the number of held elements
func (h *BinaryHeap[T]) Count() int {
	return len(h.slots)
}

// Clear resets size to zero without releasing backing storage
func (h *BinaryHeap[T]) Clear() {
	h.slots = h.slots[:0]
	h.seq = 0
}

// Push inserts item with the given key in O(log n)
func (h *BinaryHeap[T]) Push(key float64, item T) {
	h.slots = append(h.slots, heapSlot[T]{key: key, seq: h.seq, item: item})
	h.seq++

	// Sift up
	i := len(h.slots) - 1
	for i > 0 {
		parent := (i - 1) / 2
		if !h.less(i, parent) {
			break
		}
		h.slots[parent], h.slots[i] = h.slots[i], h.slots[parent]
		i = parent
	}
}

// Pop removes and returns the minimum-key element in O(log n)
// Calling Pop on an empty heap is a programmer error and panics
func (h *BinaryHeap[T]) Pop() (T, float64) {
	n := len(h.slots)
	top := h.slots[0]
	h.slots[0] = h.slots[n-1]
	var zero heapSlot[T]
	h.slots[n-1] = zero
	h.slots = h.slots[:n-1]

	// Sift down
	i := 0
	for {
		left := 2*i + 1
		if left >= len(h.slots) {
			break
		}
		smallest := left
		if right := left + 1; right < len(h.slots) && h.less(right, left) {
			smallest = right
		}
		if !h.less(smallest, i) {
			break
		}
		h.slots[i], h.slots[smallest] = h.slots[smallest], h.slots[i]
		i = smallest
	}
	return top.item, top.key
}

func (h *BinaryHeap[T]) less(i, j int) bool {
	if h.slots[i].key != h.slots[j].key {
		return h.slots[i].key < h.slots[j].key
	}
	return h.slots[i].seq < h.slots[j].seq
}
