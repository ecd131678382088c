// Package config reads the command line flags. Every flag defaults to a
// TETRIS_* environment variable, which can also come from a .env file.
package config

import (
	"errors"
	"flag"
	"fmt"
	"io"
	"io/fs"
	"log/slog"
	"os"
	"strconv"
	"strings"
	"time"

	"canvastetris/surface"
	"canvastetris/tetris"

	"github.com/joho/godotenv"
)

const DefaultCellSize = 30

// ErrInvalid is returned for flag or environment values that can't be used.
var ErrInvalid = errors.New("invalid configuration")

type Config struct {
	Surface  string
	Board    tetris.Config
	CellSize int // pixels, canvas only
	Dev      bool
	Log      string // log file, empty discards logs
	LogLevel slog.Level
	Inspect  string // inspector listen address, empty disables it
}

// Load reads .env from the working directory if present, then parses args.
func Load(args []string) (*Config, error) {
	if err := godotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return nil, fmt.Errorf("failed to load .env: %w", err)
	}
	return parse(args)
}

func parse(args []string) (*Config, error) {
	var (
		cfg   Config
		level string
		err   error
	)
	env := envReader{}
	fset := flag.NewFlagSet("tetris", flag.ContinueOnError)
	fset.SetOutput(io.Discard)
	fset.StringVar(&cfg.Surface, "surface", env.str("TETRIS_SURFACE", surface.Terminal), "rendering surface: "+strings.Join(surface.IDs(), ", "))
	fset.IntVar(&cfg.Board.Rows, "rows", env.integer("TETRIS_ROWS", tetris.DefaultRows), "board rows")
	fset.IntVar(&cfg.Board.Cols, "cols", env.integer("TETRIS_COLS", tetris.DefaultCols), "board columns")
	fset.IntVar(&cfg.CellSize, "cell-size", env.integer("TETRIS_CELL_SIZE", DefaultCellSize), "cell size in pixels (canvas)")
	fset.DurationVar(&cfg.Board.GameSpeed, "speed", env.duration("TETRIS_SPEED", tetris.DefaultGameSpeed), "time for gravity to move the piece one row")
	fset.Uint64Var(&cfg.Board.Seed, "seed", env.unsigned("TETRIS_SEED", 0), "shape picker seed, 0 is random")
	fset.BoolVar(&cfg.Dev, "dev", env.boolean("TETRIS_DEV", false), "draw row and column indexes and the piece anchor")
	fset.StringVar(&cfg.Log, "log", env.str("TETRIS_LOG", ""), "log file")
	fset.StringVar(&level, "log-level", env.str("TETRIS_LOG_LEVEL", "info"), "log level: debug, info, warn, error")
	fset.StringVar(&cfg.Inspect, "inspect", env.str("TETRIS_INSPECT", ""), "serve the inspector on this address, e.g. :9000")
	if env.err != nil {
		return nil, env.err
	}
	if err := fset.Parse(args); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrInvalid, err)
	}

	if err := surface.Validate(cfg.Surface); err != nil {
		return nil, err
	}
	if err := cfg.Board.Validate(); err != nil {
		return nil, err
	}
	if cfg.CellSize <= 0 {
		return nil, fmt.Errorf("%w: cell size must be positive, got %d", ErrInvalid, cfg.CellSize)
	}
	if err = cfg.LogLevel.UnmarshalText([]byte(level)); err != nil {
		return nil, fmt.Errorf("%w: log level: %w", ErrInvalid, err)
	}
	return &cfg, nil
}

// envReader reads typed defaults from the environment. The first bad
// value is kept in err.
type envReader struct {
	err error
}

func (e *envReader) str(key, def string) string {
	if v, ok := os.LookupEnv(key); ok {
		return v
	}
	return def
}

func (e *envReader) parse(key string, fn func(string) error) {
	v, ok := os.LookupEnv(key)
	if !ok || e.err != nil {
		return
	}
	if err := fn(v); err != nil {
		e.err = fmt.Errorf("%w: %s=%q: %w", ErrInvalid, key, v, err)
	}
}

func (e *envReader) integer(key string, def int) int {
	e.parse(key, func(v string) (err error) { def, err = strconv.Atoi(v); return })
	return def
}

func (e *envReader) unsigned(key string, def uint64) uint64 {
	e.parse(key, func(v string) (err error) { def, err = strconv.ParseUint(v, 10, 64); return })
	return def
}

func (e *envReader) boolean(key string, def bool) bool {
	e.parse(key, func(v string) (err error) { def, err = strconv.ParseBool(v); return })
	return def
}

func (e *envReader) duration(key string, def time.Duration) time.Duration {
	e.parse(key, func(v string) (err error) { def, err = time.ParseDuration(v); return })
	return def
}
