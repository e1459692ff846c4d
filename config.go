package editproj

import (
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"strings"

	"github.com/pelletier/go-toml/v2"
)

// Config 导入导出配置
type Config struct {
	// Indent 写出 JSON 的缩进
	Indent string `toml:"indent"`
	// EditorCamera names the editor work camera, which is never exported.
	EditorCamera string `toml:"editor_camera"`
	// MaterialKinds lists the custom material classes the importer can
	// instantiate.
	MaterialKinds []string `toml:"material_kinds"`
	// AlwaysAvailableMaterials are never reported in requestedMaterials.
	AlwaysAvailableMaterials []string `toml:"always_available_materials"`
	// IncludeRequestedMaterials is the flag Session.Export passes to
	// ExportProject.
	IncludeRequestedMaterials bool   `toml:"include_requested_materials"`
	LogLevel                  string `toml:"log_level"`
	AuthoredActions           bool   `toml:"authored_actions"`
}

func DefaultConfig() *Config {
	return &Config{
		Indent:                   "\t",
		EditorCamera:             "EditorCamera",
		AlwaysAvailableMaterials: []string{ClassStandardMaterial, ClassMultiMaterial, ClassPBRMaterial},
		LogLevel:                 "info",
	}
}

// LoadConfig reads a TOML config over the defaults. A missing file yields
// the defaults.
func LoadConfig(path string) (*Config, error) {
	cfg := DefaultConfig()
	bt, err := os.ReadFile(path)
	if errors.Is(err, fs.ErrNotExist) {
		return cfg, nil
	}
	if err != nil {
		return nil, err
	}
	if err := toml.Unmarshal(bt, cfg); err != nil {
		return nil, fmt.Errorf("config %s: %w", path, err)
	}
	return cfg, nil
}

func SaveConfig(path string, cfg *Config) error {
	bt, err := toml.Marshal(cfg)
	if err != nil {
		return err
	}
	return os.WriteFile(path, bt, 0o644)
}

// Level parses LogLevel, defaulting to info.
func (c *Config) Level() slog.Level {
	var lvl slog.Level
	if err := lvl.UnmarshalText([]byte(strings.ToUpper(c.LogLevel))); err != nil {
		return slog.LevelInfo
	}
	return lvl
}

func (c *Config) alwaysAvailable(class string) bool {
	for _, k := range c.AlwaysAvailableMaterials {
		if k == class {
			return true
		}
	}
	return false
}
