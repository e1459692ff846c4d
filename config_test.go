package editproj

import (
	"log/slog"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// TestLoadConfig 测试配置读取
func TestLoadConfig(t *testing.T) {
	dir := t.TempDir()

	cfg, err := LoadConfig(filepath.Join(dir, "missing.toml"))
	require.NoError(t, err)
	assert.Equal(t, DefaultConfig(), cfg)

	path := filepath.Join(dir, "editproj.toml")
	content := `
indent = "  "
editor_camera = "WorkCam"
material_kinds = ["GradientMaterial", "FurMaterial"]
authored_actions = true
log_level = "debug"
`
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	cfg, err = LoadConfig(path)
	require.NoError(t, err)
	assert.Equal(t, "  ", cfg.Indent)
	assert.Equal(t, "WorkCam", cfg.EditorCamera)
	assert.Equal(t, []string{"GradientMaterial", "FurMaterial"}, cfg.MaterialKinds)
	assert.Equal(t, DefaultConfig().AlwaysAvailableMaterials, cfg.AlwaysAvailableMaterials)
	assert.True(t, cfg.AuthoredActions)
	assert.Equal(t, slog.LevelDebug, cfg.Level())

	require.NoError(t, os.WriteFile(path, []byte("indent = ["), 0o644))
	_, err = LoadConfig(path)
	assert.Error(t, err)
}

func TestSaveConfig(t *testing.T) {
	path := filepath.Join(t.TempDir(), "out.toml")
	cfg := DefaultConfig()
	cfg.MaterialKinds = []string{"SkyMaterial"}
	cfg.IncludeRequestedMaterials = true
	require.NoError(t, SaveConfig(path, cfg))

	got, err := LoadConfig(path)
	require.NoError(t, err)
	assert.Equal(t, cfg, got)
}

func TestConfigLevel(t *testing.T) {
	tests := []struct {
		in   string
		want slog.Level
	}{
		{"debug", slog.LevelDebug},
		{"WARN", slog.LevelWarn},
		{"error", slog.LevelError},
		{"", slog.LevelInfo},
		{"loud", slog.LevelInfo},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			assert.Equal(t, tt.want, (&Config{LogLevel: tt.in}).Level())
		})
	}
}

func TestAlwaysAvailable(t *testing.T) {
	cfg := DefaultConfig()
	assert.True(t, cfg.alwaysAvailable(ClassPBRMaterial))
	assert.True(t, cfg.alwaysAvailable(ClassMultiMaterial))
	assert.False(t, cfg.alwaysAvailable(gradientMaterial))

	cfg.AlwaysAvailableMaterials = nil
	assert.False(t, cfg.alwaysAvailable(ClassPBRMaterial))
}
