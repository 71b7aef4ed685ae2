package pipeline

import (
	"embed"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"slices"
	"strings"

	"github.com/BurntSushi/toml"
)

// ErrUnknownPreset is returned when a preset name has no embedded config.
var ErrUnknownPreset = errors.New("unknown preset")

//go:embed presets/*.toml
var presetFiles embed.FS

// Presets returns the names of all embedded presets, sorted.
func Presets() []string {
	entries, err := presetFiles.ReadDir("presets")
	if err != nil {
		return nil
	}
	names := make([]string, 0, len(entries))
	for _, e := range entries {
		names = append(names, strings.TrimSuffix(e.Name(), ".toml"))
	}
	slices.Sort(names)
	return names
}

// LoadPreset loads an embedded preset by name.
func LoadPreset(name string) (Options, error) {
	data, err := presetFiles.ReadFile("presets/" + name + ".toml")
	if err != nil {
		return Options{}, fmt.Errorf("%w: %q (available: %s)",
			ErrUnknownPreset, name, strings.Join(Presets(), ", "))
	}
	opts, err := decode(string(data))
	if err != nil {
		return Options{}, fmt.Errorf("preset %q: %w", name, err)
	}
	opts.Name = name
	return opts, nil
}

// LoadFile loads run options from a TOML config file.
func LoadFile(path string) (Options, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return Options{}, fmt.Errorf("read config: %w", err)
	}
	opts, err := decode(string(data))
	if err != nil {
		return Options{}, fmt.Errorf("config %s: %w", path, err)
	}
	opts.Name = strings.TrimSuffix(filepath.Base(path), filepath.Ext(path))
	return opts, nil
}

// decode parses TOML into options, rejecting unknown keys so a typo fails
// loudly instead of silently falling back to a default.
func decode(data string) (Options, error) {
	var opts Options
	md, err := toml.Decode(data, &opts)
	if err != nil {
		return Options{}, err
	}
	if undecoded := md.Undecoded(); len(undecoded) > 0 {
		keys := make([]string, len(undecoded))
		for i, k := range undecoded {
			keys[i] = k.String()
		}
		return Options{}, fmt.Errorf("unknown keys: %s", strings.Join(keys, ", "))
	}
	return opts, nil
}
