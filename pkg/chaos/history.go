package chaos

// History is a fixed-capacity ring buffer of the most recently chosen
// vertex indices. The engine pushes after every accepted step; selectors
// only read. A fresh History is zero-filled, so the engine behaves as if
// vertex 0 had been chosen before the first step.
//
// The zero value is not usable - use NewHistory.
type History struct {
	buf  []int
	head int // next write position
}

// NewHistory creates a zero-filled ring with the given capacity.
// Capacity is raised to 2 so double-history selectors always have two
// entries to read.
func NewHistory(capacity int) *History {
	if capacity < 2 {
		capacity = 2
	}
	return &History{buf: make([]int, capacity)}
}

// Push records v as the most recent entry, evicting the oldest. O(1).
func (h *History) Push(v int) {
	h.buf[h.head] = v
	h.head = (h.head + 1) % len(h.buf)
}

// At returns the i-th most recent entry; At(0) is the last pushed value.
// i must be in [0, Cap).
func (h *History) At(i int) int {
	n := len(h.buf)
	return h.buf[((h.head-1-i)%n+n)%n]
}

// Last returns the most recently pushed entry.
func (h *History) Last() int { return h.At(0) }

// Cap returns the ring capacity.
func (h *History) Cap() int { return len(h.buf) }

// Values returns the entries ordered oldest to newest. The slice is a
// copy; it is the serialization format used by session snapshots.
func (h *History) Values() []int {
	out := make([]int, len(h.buf))
	for i := range out {
		out[i] = h.At(len(h.buf) - 1 - i)
	}
	return out
}

// Restore overwrites the ring with values ordered oldest to newest, as
// produced by [History.Values]. The length must match the capacity.
func (h *History) Restore(values []int) bool {
	if len(values) != len(h.buf) {
		return false
	}
	copy(h.buf, values)
	h.head = 0
	return true
}
