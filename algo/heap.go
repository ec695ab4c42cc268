// SPDX-License-Identifier: MIT

package algo

// indexed is the view the sift routines need of a heap: a three-way
// comparison and an exchange, both by element index.
type indexed interface {
	compare(i, j int) int
	swap(i, j int)
}

// siftDown restores the max-heap property for the subtree rooted at i,
// considering only the first n elements.
func siftDown(h indexed, i, n int) {
	for {
		child := 2*i + 1
		if child >= n || child < 0 {
			return
		}
		if right := child + 1; right < n && h.compare(right, child) > 0 {
			child = right
		}
		if h.compare(child, i) <= 0 {
			return
		}
		h.swap(i, child)
		i = child
	}
}

// siftUp moves element i toward the root while its parent is smaller.
func siftUp(h indexed, i int) {
	for i > 0 {
		parent := (i - 1) / 2
		if h.compare(parent, i) >= 0 {
			return
		}
		h.swap(parent, i)
		i = parent
	}
}

func heapify(h indexed, n int) {
	for i := n/2 - 1; i >= 0; i-- {
		siftDown(h, i, n)
	}
}

func pop(h indexed, n int) {
	if n <= 1 {
		return
	}
	h.swap(0, n-1)
	siftDown(h, 0, n-1)
}

// typed adapts a slice and its comparator to indexed.
type typed[T any] struct {
	s   []T
	cmp func(a, b T) int
}

func (t typed[T]) compare(i, j int) int { return t.cmp(t.s[i], t.s[j]) }
func (t typed[T]) swap(i, j int)        { t.s[i], t.s[j] = t.s[j], t.s[i] }

// erased adapts a flat byte buffer of fixed-size elements to indexed.
type erased struct {
	data []byte
	size int
	cmp  func(a, b []byte) int
}

func (e erased) at(i int) []byte {
	off := i * e.size

	return e.data[off : off+e.size : off+e.size]
}

func (e erased) compare(i, j int) int { return e.cmp(e.at(i), e.at(j)) }
func (e erased) swap(i, j int)        { Swap(e.at(i), e.at(j)) }

// HeapMake rearranges s into a max-heap under cmp.
func HeapMake[T any](s []T, cmp func(a, b T) int) {
	heapify(typed[T]{s, cmp}, len(s))
}

// HeapPop moves the maximum of the heap s to s[len(s)-1] and restores the
// heap over s[:len(s)-1]. The caller drops the last element afterwards:
//
//	algo.HeapPop(h, cmp)
//	top := h[len(h)-1]
//	h = h[:len(h)-1]
//
// It is a no-op when len(s) <= 1.
func HeapPop[T any](s []T, cmp func(a, b T) int) {
	pop(typed[T]{s, cmp}, len(s))
}

// HeapPush appends item to the heap s and sifts it into place.
// It returns the extended slice.
func HeapPush[T any](s []T, item T, cmp func(a, b T) int) []T {
	s = append(s, item)
	siftUp(typed[T]{s, cmp}, len(s)-1)

	return s
}

// HeapMakeBytes is HeapMake over count elements of size bytes stored
// back to back in data.
func HeapMakeBytes(data []byte, size, count int, cmp func(a, b []byte) int) {
	heapify(erased{data, size, cmp}, count)
}

// HeapPopBytes is HeapPop over count elements of size bytes.
func HeapPopBytes(data []byte, size, count int, cmp func(a, b []byte) int) {
	pop(erased{data, size, cmp}, count)
}

// HeapPushBytes copies item into slot count of data and sifts it up, so
// the heap then spans count+1 elements. data must have room for that slot.
func HeapPushBytes(item, data []byte, size, count int, cmp func(a, b []byte) int) {
	e := erased{data, size, cmp}
	copy(e.at(count), item)
	siftUp(e, count)
}
