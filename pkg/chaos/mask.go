package chaos

import "math/bits"

// Mask is a bitmask over vertex indices, at most 64 bits wide. Exclusion
// rules store *relative* offsets ("the vertex just visited" is offset 0);
// [Mask.Rotate] turns a relative mask into an absolute one for a concrete
// last-visited vertex.
type Mask uint64

// MaskOf builds a mask with the given offsets set. Duplicate offsets are
// idempotent. Offsets are not range-checked here; [Config.Validate] rejects
// offsets outside [0, NumTargets).
func MaskOf(offsets ...int) Mask {
	var m Mask
	for _, off := range offsets {
		m |= 1 << off
	}
	return m
}

// Rotate circularly left-rotates the mask by k positions within an n-bit
// field: bit i moves to bit (i+k) mod n. This reinterprets a mask of
// relative offsets as a mask of absolute vertex indices when the last
// chosen vertex was k.
func (m Mask) Rotate(n, k int) Mask {
	ones := ^Mask(0) >> (64 - n)
	return ((m >> (n - k)) | (m << k)) & ones
}

// Has reports whether bit i is set.
func (m Mask) Has(i int) bool { return m&(1<<i) != 0 }

// Count returns the number of set bits.
func (m Mask) Count() int { return bits.OnesCount64(uint64(m)) }

// Covers reports whether the mask forbids every one of n vertices.
func (m Mask) Covers(n int) bool {
	ones := ^Mask(0) >> (64 - n)
	return m&ones == ones
}

// available lists the vertex indices in [0, n) whose bit is not set in the
// forbidden mask. The order is ascending, which keeps uniform draws over
// the result reproducible for a fixed RNG state.
func available(n int, forbidden Mask) []int {
	avail := make([]int, 0, n)
	for i := range n {
		if !forbidden.Has(i) {
			avail = append(avail, i)
		}
	}
	return avail
}
