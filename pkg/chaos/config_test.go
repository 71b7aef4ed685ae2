package chaos

import (
	"errors"
	"testing"
)

func TestConfigSetDefaults(t *testing.T) {
	var cfg Config
	cfg.SetDefaults()

	if cfg.NumTargets != 6 {
		t.Errorf("NumTargets = %d, want 6", cfg.NumTargets)
	}
	if cfg.Selector != SelectorUniform {
		t.Errorf("Selector = %q, want uniform", cfg.Selector)
	}
	if cfg.Picker != PickerWeighted {
		t.Errorf("Picker = %q, want weighted", cfg.Picker)
	}
	if cfg.Seed != DefaultSeed {
		t.Errorf("Seed = %d, want %d", cfg.Seed, DefaultSeed)
	}
	if cfg.HistLen != 1 {
		t.Errorf("HistLen = %d, want 1", cfg.HistLen)
	}
	if cfg.Scan != ScanEach {
		t.Errorf("Scan = %q, want each", cfg.Scan)
	}
	if len(cfg.Transforms) != 1 || cfg.Transforms[0] != DefaultTransform {
		t.Errorf("Transforms = %v, want [%v]", cfg.Transforms, DefaultTransform)
	}
	if len(cfg.Corners) != 4 {
		t.Errorf("len(Corners) = %d, want 4", len(cfg.Corners))
	}

	if err := cfg.Validate(); err != nil {
		t.Errorf("Validate() after SetDefaults error = %v", err)
	}
}

func TestConfigSetDefaults_Idempotent(t *testing.T) {
	cfg := Config{NumTargets: 4, Seed: 9}
	cfg.SetDefaults()
	before := cfg

	cfg.SetDefaults()
	if cfg.NumTargets != before.NumTargets || cfg.Seed != before.Seed {
		t.Errorf("SetDefaults() changed explicit values: %+v", cfg)
	}
}

func TestConfigValidate(t *testing.T) {
	valid := func() Config { return testConfig(1) }

	tests := []struct {
		name   string
		mutate func(*Config)
		want   error
	}{
		{"too few targets", func(c *Config) { c.NumTargets = 2 }, ErrTargets},
		{"too many targets", func(c *Config) { c.NumTargets = 65 }, ErrTargets},
		{"no transforms", func(c *Config) { c.Transforms = nil }, ErrTransformCount},
		{"three corners", func(c *Config) { c.Corners = c.Corners[:3] }, ErrCorners},
		{"unknown selector", func(c *Config) { c.Selector = "roulette" }, ErrSelector},
		{"unknown picker", func(c *Config) { c.Picker = "alternating" }, ErrPicker},
		{"unknown scan", func(c *Config) { c.Scan = "spiral" }, ErrScan},
		{"weights off", func(c *Config) { c.Transforms = []Transform{{Weight: 0.5}} }, ErrWeightSum},
		{
			"indexed count mismatch",
			func(c *Config) { c.Picker = PickerVertex; c.Transforms = []Transform{{Scale: 0.5}} },
			ErrTransformCount,
		},
		{"negative offset", func(c *Config) { c.Excluded = []int{-1} }, ErrExclusion},
		{"offset beyond targets", func(c *Config) { c.Excluded = []int{6} }, ErrExclusion},
		{
			"mask covers everything",
			func(c *Config) { c.Selector = SelectorFixed; c.Excluded = []int{0, 1, 2, 3, 4, 5} },
			ErrExclusion,
		},
		{
			"bad hist len",
			func(c *Config) { c.Selector = SelectorFixed; c.HistLen = -1 },
			ErrHistLen,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := valid()
			tt.mutate(&cfg)

			err := cfg.Validate()
			if !errors.Is(err, tt.want) {
				t.Errorf("Validate() error = %v, want %v", err, tt.want)
			}
			if !errors.Is(err, ErrConfig) {
				t.Errorf("Validate() error = %v, want ErrConfig kind", err)
			}
		})
	}
}

func TestConfigValidate_UniformIgnoresExclusion(t *testing.T) {
	// A full mask only matters for selectors that apply it.
	cfg := testConfig(1)
	cfg.Excluded = []int{0, 1, 2, 3, 4, 5}

	if err := cfg.Validate(); err != nil {
		t.Errorf("Validate() error = %v, want nil for uniform selector", err)
	}
}

func TestConfigWarnings(t *testing.T) {
	cfg := testConfig(1)
	if got := cfg.Warnings(); len(got) != 0 {
		t.Errorf("Warnings() = %v, want none", got)
	}

	cfg.Transforms = []Transform{{Scale: 1.0, Weight: 0.5}, {Scale: 1.5, Weight: 0.5}}
	warnings := cfg.Warnings()
	if len(warnings) != 2 {
		t.Fatalf("len(Warnings()) = %d, want 2", len(warnings))
	}
	for _, w := range warnings {
		if !errors.Is(w, ErrScale) {
			t.Errorf("warning = %v, want ErrScale", w)
		}
		if errors.Is(w, ErrConfig) {
			t.Errorf("warning = %v, must not be a configuration error", w)
		}
	}
}

func TestConfigMask(t *testing.T) {
	cfg := Config{Excluded: []int{1, 3, 5}}
	if got := cfg.Mask(); got != 0b101010 {
		t.Errorf("Mask() = %b, want 101010", got)
	}
}
