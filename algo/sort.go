// SPDX-License-Identifier: MIT

package algo

func heapSort(h indexed, n int) {
	heapify(h, n)
	for end := n; end > 1; end-- {
		pop(h, end)
	}
}

// Sort orders s ascending under cmp with an in-place heap-sort.
// The sort is not stable.
func Sort[T any](s []T, cmp func(a, b T) int) {
	heapSort(typed[T]{s, cmp}, len(s))
}

// SortBytes sorts count elements of size bytes stored back to back in data.
func SortBytes(data []byte, size, count int, cmp func(a, b []byte) int) {
	heapSort(erased{data, size, cmp}, count)
}
