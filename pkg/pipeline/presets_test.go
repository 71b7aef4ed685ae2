package pipeline

import (
	"errors"
	"math"
	"os"
	"path/filepath"
	"slices"
	"testing"

	"github.com/nloeffler/chaosgame/pkg/chaos"
)

func TestPresets(t *testing.T) {
	want := []string{"classic", "hexweb", "pentaflake", "pentagon", "sierpinski", "vortex", "weave"}
	if got := Presets(); !slices.Equal(got, want) {
		t.Errorf("Presets() = %v, want %v", got, want)
	}
}

func TestLoadPresetAllValid(t *testing.T) {
	for _, name := range Presets() {
		t.Run(name, func(t *testing.T) {
			opts, err := LoadPreset(name)
			if err != nil {
				t.Fatalf("LoadPreset(%q) error: %v", name, err)
			}
			if opts.Name != name {
				t.Errorf("Name = %q, want %q", opts.Name, name)
			}
			if opts.Description == "" {
				t.Error("Description should not be empty")
			}
			if err := opts.ValidateAndSetDefaults(); err != nil {
				t.Errorf("ValidateAndSetDefaults() error: %v", err)
			}

			// Presets must be clean configs: no divergence warnings.
			cfg := opts.GeneratorConfig()
			if warnings := cfg.Warnings(); len(warnings) != 0 {
				t.Errorf("Warnings() = %v, want none", warnings)
			}
		})
	}
}

func TestLoadPresetHexweb(t *testing.T) {
	opts, err := LoadPreset("hexweb")
	if err != nil {
		t.Fatalf("LoadPreset(hexweb) error: %v", err)
	}

	if opts.NumTargets != 6 {
		t.Errorf("NumTargets = %d, want 6", opts.NumTargets)
	}
	if opts.Selector != chaos.SelectorRepeat {
		t.Errorf("Selector = %q, want %q", opts.Selector, chaos.SelectorRepeat)
	}
	if want := []int{1, 3, 5}; !slices.Equal(opts.Excluded, want) {
		t.Errorf("Excluded = %v, want %v", opts.Excluded, want)
	}
	if len(opts.Transforms) != 2 {
		t.Fatalf("Transforms = %d, want 2", len(opts.Transforms))
	}
	if got := opts.Transforms[1].Rotation; math.Abs(got-math.Pi/3) > 1e-12 {
		t.Errorf("second transform rotation = %v, want pi/3", got)
	}
	if opts.Points != 1500000 {
		t.Errorf("Points = %d, want 1500000", opts.Points)
	}
	if opts.Quality != QualityFine {
		t.Errorf("Quality = %q, want %q", opts.Quality, QualityFine)
	}
}

func TestLoadPresetVortex(t *testing.T) {
	opts, err := LoadPreset("vortex")
	if err != nil {
		t.Fatalf("LoadPreset(vortex) error: %v", err)
	}

	if opts.Picker != chaos.PickerVertex {
		t.Errorf("Picker = %q, want %q", opts.Picker, chaos.PickerVertex)
	}
	if len(opts.Transforms) != opts.NumTargets {
		t.Errorf("Transforms = %d, want %d (one per target)", len(opts.Transforms), opts.NumTargets)
	}
	if len(opts.Coloring) != 4 {
		t.Errorf("Coloring = %d corners, want 4", len(opts.Coloring))
	}
	if got := opts.Coloring[0]; got.R != 255 || got.G != 64 || got.B != 160 {
		t.Errorf("first corner = %+v, want {255 64 160}", got)
	}
}

func TestLoadPresetWeave(t *testing.T) {
	opts, err := LoadPreset("weave")
	if err != nil {
		t.Fatalf("LoadPreset(weave) error: %v", err)
	}
	if opts.Selector != chaos.SelectorFixed {
		t.Errorf("Selector = %q, want %q", opts.Selector, chaos.SelectorFixed)
	}
	if opts.HistLen != 2 {
		t.Errorf("HistLen = %d, want 2", opts.HistLen)
	}
	if want := []int{0}; !slices.Equal(opts.Excluded, want) {
		t.Errorf("Excluded = %v, want %v", opts.Excluded, want)
	}
}

func TestLoadPresetPentagon(t *testing.T) {
	opts, err := LoadPreset("pentagon")
	if err != nil {
		t.Fatalf("LoadPreset(pentagon) error: %v", err)
	}
	if opts.Selector != chaos.SelectorRepeat {
		t.Errorf("Selector = %q, want %q", opts.Selector, chaos.SelectorRepeat)
	}
	if want := []int{0}; !slices.Equal(opts.Excluded, want) {
		t.Errorf("Excluded = %v, want %v", opts.Excluded, want)
	}
}

func TestLoadPresetUnknown(t *testing.T) {
	_, err := LoadPreset("mandelbrot")
	if !errors.Is(err, ErrUnknownPreset) {
		t.Errorf("LoadPreset(mandelbrot) error = %v, want ErrUnknownPreset", err)
	}
}

func TestLoadFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "spiral.toml")
	content := `
num_targets = 3
seed = 7
quality = "low"

[[transform]]
scale = 0.5
rotation = 0.2
weight = 1.0
`
	if err := os.WriteFile(path, []byte(content), 0600); err != nil {
		t.Fatalf("WriteFile() error: %v", err)
	}

	opts, err := LoadFile(path)
	if err != nil {
		t.Fatalf("LoadFile() error: %v", err)
	}
	if opts.Name != "spiral" {
		t.Errorf("Name = %q, want %q", opts.Name, "spiral")
	}
	if opts.NumTargets != 3 {
		t.Errorf("NumTargets = %d, want 3", opts.NumTargets)
	}
	if opts.Seed != 7 {
		t.Errorf("Seed = %d, want 7", opts.Seed)
	}
	if err := opts.ValidateAndSetDefaults(); err != nil {
		t.Errorf("ValidateAndSetDefaults() error: %v", err)
	}
}

func TestLoadFileShippedExample(t *testing.T) {
	opts, err := LoadFile(filepath.Join("..", "..", "examples", "web.toml"))
	if err != nil {
		t.Fatalf("LoadFile(examples/web.toml) error: %v", err)
	}
	if err := opts.ValidateAndSetDefaults(); err != nil {
		t.Errorf("ValidateAndSetDefaults() error: %v", err)
	}
	if opts.NumTargets != 8 {
		t.Errorf("NumTargets = %d, want 8", opts.NumTargets)
	}
	if len(opts.Coloring) != 4 {
		t.Errorf("Coloring = %d corners, want 4", len(opts.Coloring))
	}
}

func TestLoadFileUnknownKey(t *testing.T) {
	path := filepath.Join(t.TempDir(), "typo.toml")
	content := `
num_tragets = 3
`
	if err := os.WriteFile(path, []byte(content), 0600); err != nil {
		t.Fatalf("WriteFile() error: %v", err)
	}

	if _, err := LoadFile(path); err == nil {
		t.Error("LoadFile() with unknown key should return error")
	}
}

func TestLoadFileMissing(t *testing.T) {
	if _, err := LoadFile(filepath.Join(t.TempDir(), "absent.toml")); err == nil {
		t.Error("LoadFile() on missing file should return error")
	}
}
