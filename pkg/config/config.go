// Package config loads brushwork.yaml, the project settings shared by the
// desktop app and the brushc CLI.
package config

import (
	"errors"
	"fmt"
	"os"

	"github.com/chazu/brushwork/pkg/kernel"
	"github.com/chazu/brushwork/pkg/kernel/hull"
	"github.com/chazu/brushwork/pkg/kernel/sdfx"
	"gopkg.in/yaml.v3"
)

const (
	Filename = "brushwork.yaml"

	KernelHull = "hull"
	KernelSdfx = "sdfx"

	FormatSTL  = "stl"
	FormatJSON = "json"

	DefaultMeshCells = sdfx.DefaultMeshCells
	DefaultExportDir = "out"
)

// ErrUnknownKernel is returned for a kernel name other than hull or sdfx.
var ErrUnknownKernel = errors.New("config: unknown kernel")

// ErrUnknownFormat is returned for an export format other than stl or json.
var ErrUnknownFormat = errors.New("config: unknown export format")

// DefaultPalette assigns distinct colors to parts without a material color.
var DefaultPalette = []string{
	"#4A90D9", "#E67E22", "#2ECC71", "#9B59B6",
	"#E74C3C", "#1ABC9C", "#F39C12", "#3498DB",
}

type Config struct {
	// Kernel selects the geometry backend: "hull" (exact) or "sdfx"
	// (marching cubes).
	Kernel string `yaml:"kernel"`
	// Tolerance is the hull solver epsilon. Zero keeps exact comparisons.
	Tolerance float64 `yaml:"tolerance,omitempty"`
	// MeshCells is the sdfx marching cubes resolution along the longest axis.
	MeshCells int `yaml:"meshCells"`

	Palette   []string          `yaml:"palette"`
	Materials map[string]string `yaml:"materials,omitempty"`

	Export ExportConfig `yaml:"export"`
}

type ExportConfig struct {
	Format string `yaml:"format"`
	Dir    string `yaml:"dir"`
}

func (c *Config) normalize() {
	if c.Kernel == "" {
		c.Kernel = KernelHull
	}
	if c.Tolerance < 0 {
		c.Tolerance = 0
	}
	if c.MeshCells <= 0 {
		c.MeshCells = DefaultMeshCells
	}
	if len(c.Palette) == 0 {
		c.Palette = append([]string(nil), DefaultPalette...)
	}
	if c.Export.Format == "" {
		c.Export.Format = FormatSTL
	}
	if c.Export.Dir == "" {
		c.Export.Dir = DefaultExportDir
	}
}

// Validate reports unsupported kernel or format names.
func (c Config) Validate() error {
	switch c.Kernel {
	case KernelHull, KernelSdfx:
	default:
		return fmt.Errorf("%w %q (want %s or %s)", ErrUnknownKernel, c.Kernel, KernelHull, KernelSdfx)
	}
	switch c.Export.Format {
	case FormatSTL, FormatJSON:
	default:
		return fmt.Errorf("%w %q (want %s or %s)", ErrUnknownFormat, c.Export.Format, FormatSTL, FormatJSON)
	}
	return nil
}

// Default returns the configuration used when no file is present.
func Default() Config {
	var c Config
	c.normalize()
	return c
}

// Load reads and validates a config file.
func Load(path string) (Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return Config{}, fmt.Errorf("read %s: %w", path, err)
	}

	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return Config{}, fmt.Errorf("parse %s: %w", path, err)
	}
	cfg.normalize()
	if err := cfg.Validate(); err != nil {
		return Config{}, fmt.Errorf("%s: %w", path, err)
	}
	return cfg, nil
}

// LoadOrDefault is Load, except a missing file yields Default().
func LoadOrDefault(path string) (Config, error) {
	cfg, err := Load(path)
	if errors.Is(err, os.ErrNotExist) {
		return Default(), nil
	}
	return cfg, err
}

// Write stores cfg at path with defaults filled in.
func Write(path string, cfg Config) error {
	cfg.normalize()

	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create %s: %w", path, err)
	}
	defer f.Close()

	enc := yaml.NewEncoder(f)
	enc.SetIndent(2)
	if err := enc.Encode(&cfg); err != nil {
		return fmt.Errorf("encode %s: %w", path, err)
	}
	if err := enc.Close(); err != nil {
		return fmt.Errorf("close %s: %w", path, err)
	}
	return nil
}

// NewKernel constructs the configured geometry backend.
func (c Config) NewKernel() (kernel.Kernel, error) {
	switch c.Kernel {
	case KernelHull, "":
		return hull.NewWithTolerance(c.Tolerance), nil
	case KernelSdfx:
		return sdfx.NewWithCells(c.MeshCells), nil
	}
	return nil, fmt.Errorf("%w %q", ErrUnknownKernel, c.Kernel)
}

// Color picks a display color for a part: the material's color when one
// is configured, otherwise the palette entry for index.
func (c Config) Color(material string, index int) string {
	if col, ok := c.Materials[material]; ok && col != "" {
		return col
	}
	palette := c.Palette
	if len(palette) == 0 {
		palette = DefaultPalette
	}
	if index < 0 {
		index = -index
	}
	return palette[index%len(palette)]
}
