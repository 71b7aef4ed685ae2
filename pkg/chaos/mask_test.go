package chaos

import (
	"slices"
	"testing"
)

func TestMaskOf(t *testing.T) {
	tests := []struct {
		name    string
		offsets []int
		want    Mask
	}{
		{"empty", nil, 0},
		{"single bit", []int{0}, 0b1},
		{"spread bits", []int{1, 3, 5}, 0b101010},
		{"duplicates are idempotent", []int{2, 2, 2}, 0b100},
		{"high bit", []int{63}, 1 << 63},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := MaskOf(tt.offsets...); got != tt.want {
				t.Errorf("MaskOf(%v) = %b, want %b", tt.offsets, got, tt.want)
			}
		})
	}
}

func TestMaskRotate(t *testing.T) {
	tests := []struct {
		name string
		mask Mask
		n    int
		k    int
		want Mask
	}{
		{"no rotation", 0b000001, 6, 0, 0b000001},
		{"single bit forward", 0b000001, 6, 2, 0b000100},
		{"wrap around", 0b100000, 6, 1, 0b000001},
		{"multi bit wrap", 0b100001, 6, 1, 0b000011},
		{"full field stays full", 0b111111, 6, 4, 0b111111},
		{"rotate by last index", 0b000001, 6, 5, 0b100000},
		{"widest field", 1 << 63, 64, 1, 1},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.mask.Rotate(tt.n, tt.k); got != tt.want {
				t.Errorf("Rotate(%d, %d) = %b, want %b", tt.n, tt.k, got, tt.want)
			}
		})
	}
}

func TestMaskRotate_PreservesCount(t *testing.T) {
	m := MaskOf(0, 2, 3)
	for k := range 6 {
		if got := m.Rotate(6, k).Count(); got != 3 {
			t.Errorf("Rotate(6, %d).Count() = %d, want 3", k, got)
		}
	}
}

func TestMaskCovers(t *testing.T) {
	if !MaskOf(0, 1, 2).Covers(3) {
		t.Errorf("Covers(3) = false for full mask, want true")
	}
	if MaskOf(0, 1).Covers(3) {
		t.Errorf("Covers(3) = true for partial mask, want false")
	}
	// Bits above the field width do not count toward coverage.
	if MaskOf(0, 1, 5).Covers(3) {
		t.Errorf("Covers(3) = true with out-of-field bit, want false")
	}
}

func TestAvailable(t *testing.T) {
	tests := []struct {
		name      string
		n         int
		forbidden Mask
		want      []int
	}{
		{"nothing forbidden", 4, 0, []int{0, 1, 2, 3}},
		{"one forbidden", 4, MaskOf(2), []int{0, 1, 3}},
		{"all but one", 4, MaskOf(0, 1, 2), []int{3}},
		{"everything forbidden", 3, MaskOf(0, 1, 2), []int{}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := available(tt.n, tt.forbidden); !slices.Equal(got, tt.want) {
				t.Errorf("available(%d, %b) = %v, want %v", tt.n, tt.forbidden, got, tt.want)
			}
		})
	}
}
