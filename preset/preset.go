// Package preset loads and saves engine.Preset values as YAML text, and
// ships a handful of factory presets embedded in the binary.
package preset

import (
	"embed"
	"fmt"
	"io"
	"io/fs"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/DasEtwas/enginesound/engine"
)

//go:embed presets/*.yaml
var factoryFS embed.FS

// Load reads and parses a preset from path. It does not validate the
// result beyond what YAML decoding itself enforces (type shape); callers
// pass the decoded Preset to engine.NewEngine/Rebuild, which performs
// the full semantic validation and returns *engine.ConfigInvalid or
// *engine.CapacityExceeded on failure.
func Load(path string) (engine.Preset, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return engine.Preset{}, fmt.Errorf("preset: reading %s: %w", path, err)
	}
	return decode(data, path)
}

// Save writes p to path as YAML.
func Save(path string, p engine.Preset) error {
	data, err := yaml.Marshal(p)
	if err != nil {
		return fmt.Errorf("preset: marshaling: %w", err)
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("preset: writing %s: %w", path, err)
	}
	return nil
}

// Marshal serializes p to YAML text, for the GUI's clipboard-copy
// feature; the paste path parses text back with Unmarshal.
func Marshal(p engine.Preset) (string, error) {
	data, err := yaml.Marshal(p)
	if err != nil {
		return "", fmt.Errorf("preset: marshaling: %w", err)
	}
	return string(data), nil
}

// Unmarshal parses YAML preset text, e.g. pasted from the clipboard.
func Unmarshal(text string) (engine.Preset, error) {
	return decode([]byte(text), "<clipboard>")
}

func decode(data []byte, source string) (engine.Preset, error) {
	var p engine.Preset
	if err := yaml.Unmarshal(data, &p); err != nil {
		return engine.Preset{}, fmt.Errorf("preset: parsing %s: %w", source, err)
	}
	return p, nil
}

// Factory lists the names of the presets embedded in the binary.
func Factory() ([]string, error) {
	entries, err := fs.ReadDir(factoryFS, "presets")
	if err != nil {
		return nil, fmt.Errorf("preset: listing factory presets: %w", err)
	}
	names := make([]string, 0, len(entries))
	for _, e := range entries {
		if e.IsDir() {
			continue
		}
		names = append(names, trimYAMLExt(e.Name()))
	}
	return names, nil
}

// LoadFactory loads one of the embedded factory presets by name (as
// returned by Factory, without the .yaml extension).
func LoadFactory(name string) (engine.Preset, error) {
	f, err := factoryFS.Open("presets/" + name + ".yaml")
	if err != nil {
		return engine.Preset{}, fmt.Errorf("preset: unknown factory preset %q: %w", name, err)
	}
	defer f.Close()
	data, err := io.ReadAll(f)
	if err != nil {
		return engine.Preset{}, fmt.Errorf("preset: reading factory preset %q: %w", name, err)
	}
	return decode(data, name)
}

func trimYAMLExt(name string) string {
	const ext = ".yaml"
	if len(name) > len(ext) && name[len(name)-len(ext):] == ext {
		return name[:len(name)-len(ext)]
	}
	return name
}
