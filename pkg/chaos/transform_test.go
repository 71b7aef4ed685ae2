package chaos

import (
	"math"
	"testing"
)

func TestTransformApply(t *testing.T) {
	tests := []struct {
		name      string
		transform Transform
		anchor    Point
		from      Point
		want      Point
	}{
		{
			name:      "half-way toward anchor",
			transform: Transform{Scale: 0.5},
			anchor:    Pt(1, 0),
			from:      Pt(0, 0),
			want:      Pt(0.5, 0),
		},
		{
			name:      "identity",
			transform: Transform{Scale: 1},
			anchor:    Pt(3, -2),
			from:      Pt(0.25, 0.75),
			want:      Pt(0.25, 0.75),
		},
		{
			name:      "quarter turn around origin",
			transform: Transform{Scale: 1, Rotation: math.Pi / 2},
			anchor:    Pt(0, 0),
			from:      Pt(1, 0),
			want:      Pt(0, 1),
		},
		{
			name:      "scale and translate",
			transform: Transform{Scale: 0.5},
			anchor:    Pt(-1, -1),
			from:      Pt(1, 1),
			want:      Pt(0, 0),
		},
		{
			name:      "half turn",
			transform: Transform{Scale: 0.5, Rotation: math.Pi},
			anchor:    Pt(0, 0),
			from:      Pt(1, 0),
			want:      Pt(-0.5, 0),
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := tt.transform.Apply(tt.anchor, tt.from)
			if math.Abs(got.X-tt.want.X) > 1e-9 || math.Abs(got.Y-tt.want.Y) > 1e-9 {
				t.Errorf("Apply(%v, %v) = %v, want %v", tt.anchor, tt.from, got, tt.want)
			}
		})
	}
}

func TestTransformApply_Pure(t *testing.T) {
	tr := Transform{Scale: 0.5, Rotation: 1}
	anchor, from := Pt(1, 0), Pt(0.2, 0.3)

	first := tr.Apply(anchor, from)
	second := tr.Apply(anchor, from)

	if first != second {
		t.Errorf("Apply() not deterministic: %v vs %v", first, second)
	}
	if from != Pt(0.2, 0.3) {
		t.Errorf("Apply() mutated its input: %v", from)
	}
}

func TestWeightSumValid(t *testing.T) {
	tests := []struct {
		name       string
		transforms []Transform
		want       bool
	}{
		{"single unit weight", []Transform{{Weight: 1}}, true},
		{"even split", []Transform{{Weight: 0.5}, {Weight: 0.5}}, true},
		{"within tolerance", []Transform{{Weight: 0.999999}}, true},
		{"half missing", []Transform{{Weight: 0.5}}, false},
		{"overshoot", []Transform{{Weight: 0.7}, {Weight: 0.7}}, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := weightSumValid(tt.transforms); got != tt.want {
				t.Errorf("weightSumValid() = %v, want %v", got, tt.want)
			}
		})
	}
}
