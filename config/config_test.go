package config

import (
	"log/slog"
	"os"
	"path/filepath"
	"testing"
	"time"

	"canvastetris/surface"
	"canvastetris/tetris"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseDefaults(t *testing.T) {
	cfg, err := parse(nil)
	require.NoError(t, err)
	assert.Equal(t, &Config{
		Surface:  surface.Terminal,
		Board:    tetris.Config{Rows: tetris.DefaultRows, Cols: tetris.DefaultCols, GameSpeed: tetris.DefaultGameSpeed},
		CellSize: DefaultCellSize,
		LogLevel: slog.LevelInfo,
	}, cfg)
}

func TestParseFlags(t *testing.T) {
	cfg, err := parse([]string{
		"-surface", "canvas", "-rows", "20", "-cols", "12", "-cell-size", "16",
		"-speed", "500ms", "-seed", "7", "-dev", "-log", "tetris.log",
		"-log-level", "debug", "-inspect", ":9000",
	})
	require.NoError(t, err)
	assert.Equal(t, &Config{
		Surface:  surface.Canvas,
		Board:    tetris.Config{Rows: 20, Cols: 12, GameSpeed: 500 * time.Millisecond, Seed: 7},
		CellSize: 16,
		Dev:      true,
		Log:      "tetris.log",
		LogLevel: slog.LevelDebug,
		Inspect:  ":9000",
	}, cfg)
}

func TestParseEnv(t *testing.T) {
	t.Setenv("TETRIS_SURFACE", "tcell")
	t.Setenv("TETRIS_ROWS", "30")
	t.Setenv("TETRIS_SPEED", "2s")
	t.Setenv("TETRIS_DEV", "true")

	cfg, err := parse([]string{"-rows", "25"})
	require.NoError(t, err)
	assert.Equal(t, surface.Tcell, cfg.Surface)
	assert.Equal(t, 25, cfg.Board.Rows, "flags win over the environment")
	assert.Equal(t, 2*time.Second, cfg.Board.GameSpeed)
	assert.True(t, cfg.Dev)
}

func TestParseErrors(t *testing.T) {
	tests := []struct {
		name    string
		env     map[string]string
		args    []string
		wantErr error
	}{
		{name: "unknown surface", args: []string{"-surface", "svg"}, wantErr: surface.ErrMissing},
		{name: "empty surface", args: []string{"-surface", ""}, wantErr: surface.ErrMissing},
		{name: "too few columns", args: []string{"-cols", "5"}, wantErr: tetris.ErrInvalidConfig},
		{name: "too few rows", args: []string{"-rows", "2"}, wantErr: tetris.ErrInvalidConfig},
		{name: "zero cell size", args: []string{"-cell-size", "0"}, wantErr: ErrInvalid},
		{name: "bad log level", args: []string{"-log-level", "loud"}, wantErr: ErrInvalid},
		{name: "unknown flag", args: []string{"-color"}, wantErr: ErrInvalid},
		{name: "bad env value", env: map[string]string{"TETRIS_COLS": "ten"}, wantErr: ErrInvalid},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			for k, v := range tt.env {
				t.Setenv(k, v)
			}
			_, err := parse(tt.args)
			assert.ErrorIs(t, err, tt.wantErr)
		})
	}
}

func TestLoadWithoutDotEnv(t *testing.T) {
	t.Chdir(t.TempDir())
	_, err := Load(nil)
	assert.NoError(t, err)
}

func TestLoadDotEnv(t *testing.T) {
	dir := t.TempDir()
	t.Chdir(dir)
	require.NoError(t, os.WriteFile(filepath.Join(dir, ".env"), []byte("TETRIS_COLS=12\nTETRIS_SURFACE=tcell\n"), 0o600))
	// registers the cleanup of the variables godotenv sets.
	for _, k := range []string{"TETRIS_COLS", "TETRIS_SURFACE"} {
		t.Setenv(k, "")
		require.NoError(t, os.Unsetenv(k))
	}

	cfg, err := Load(nil)
	require.NoError(t, err)
	assert.Equal(t, 12, cfg.Board.Cols)
	assert.Equal(t, surface.Tcell, cfg.Surface)
}
