// Package tetris contains the logic of the game: the grid, the falling
// piece and the fixed timestep loop that moves it.
package tetris

import (
	"errors"
	"fmt"
	"log/slog"
	"math/rand/v2"
	"time"

	"canvastetris/matrix"
)

const (
	DefaultRows      = 24
	DefaultCols      = 10
	DefaultGameSpeed = 1000 * time.Millisecond
)

// ErrInvalidConfig is returned when the board can't be built with the given Config.
var ErrInvalidConfig = errors.New("invalid board config")

// State is the state of the board.
type State int

const (
	Falling  State = iota // A piece is falling.
	GameOver              // A new piece had no room to spawn. Terminal.
)

func (s State) String() string {
	switch s {
	case Falling:
		return "falling"
	case GameOver:
		return "game over"
	}
	return fmt.Sprintf("State(%d)", int(s))
}

// Direction is a projected movement of the falling piece.
type Direction int

const (
	MoveLeft Direction = iota
	MoveRight
	MoveDown
	Rotate
)

func (d Direction) String() string {
	switch d {
	case MoveLeft:
		return "left"
	case MoveRight:
		return "right"
	case MoveDown:
		return "down"
	case Rotate:
		return "rotate"
	}
	return fmt.Sprintf("Direction(%d)", int(d))
}

// Config is read at construction time only.
// Zero values are replaced with the defaults.
type Config struct {
	Rows, Cols int
	// GameSpeed is the time it takes gravity to move the piece one row.
	GameSpeed time.Duration
	// Seed for the shape picker. 0 picks a random seed.
	Seed uint64
}

func (c Config) withDefaults() Config {
	if c.Rows == 0 {
		c.Rows = DefaultRows
	}
	if c.Cols == 0 {
		c.Cols = DefaultCols
	}
	if c.GameSpeed == 0 {
		c.GameSpeed = DefaultGameSpeed
	}
	return c
}

// Validate returns ErrInvalidConfig if a board can't be built with c.
func (c Config) Validate() error { return c.withDefaults().validate() }

func (c Config) validate() error {
	// the I piece is 4x4 and spawns at column 3.
	if c.Rows < 4 {
		return fmt.Errorf("%w: need at least 4 rows, got %d", ErrInvalidConfig, c.Rows)
	}
	if c.Cols < spawnCol+4 {
		return fmt.Errorf("%w: need at least %d columns, got %d", ErrInvalidConfig, spawnCol+4, c.Cols)
	}
	if c.GameSpeed < 0 {
		return fmt.Errorf("%w: negative game speed %v", ErrInvalidConfig, c.GameSpeed)
	}
	return nil
}

// Board owns the grid, the falling piece and the player intents.
// It is not safe for concurrent use: a single loop calls Update and Read.
type Board struct {
	grid         *Grid
	piece        *Piece
	intents      Intents
	state        State
	gameSpeed    time.Duration
	downTimer    time.Time
	linesCleared int

	clock  Clock
	rng    *rand.Rand
	logger *slog.Logger
}

// NewBoard returns a board with an empty grid and a falling piece.
func NewBoard(cfg Config, l *slog.Logger) (*Board, error) {
	return NewConfigurableBoard(cfg, realClock{}, l)
}

// NewConfigurableBoard is NewBoard with a custom clock.
func NewConfigurableBoard(cfg Config, c Clock, l *slog.Logger) (*Board, error) {
	cfg = cfg.withDefaults()
	if err := cfg.validate(); err != nil {
		return nil, err
	}
	if l == nil {
		l = slog.New(slog.DiscardHandler)
	}
	seed := cfg.Seed
	if seed == 0 {
		seed = rand.Uint64()
	}
	b := &Board{
		grid:      NewGrid(cfg.Rows, cfg.Cols),
		gameSpeed: cfg.GameSpeed,
		clock:     c,
		rng:       rand.New(rand.NewPCG(seed, seed)),
		logger:    l,
	}
	b.spawn()
	return b, nil
}

// Input applies a key event to the board intents.
func (b *Board) Input(ev Event) {
	b.intents = Reduce(b.intents, ev)
}

func (b *Board) Intents() Intents { return b.intents }
func (b *Board) State() State     { return b.state }

// Update advances the game by one fixed step.
//
// Each requested intent is acted on at most once and then cleared, holding a key
// repeats through the key events of the input source. Gravity runs on its own
// timer: once GameSpeed has passed since the last fall the piece moves down one
// row, or locks if it can't.
func (b *Board) Update() {
	if b.state == GameOver {
		return
	}

	if b.consume(IntentLeft) && !b.HasCollision(MoveLeft) {
		b.piece.Anchor.Col--
	}
	if b.consume(IntentRight) && !b.HasCollision(MoveRight) {
		b.piece.Anchor.Col++
	}
	if b.consume(IntentUp) && !b.HasCollision(Rotate) {
		b.piece.rotate()
	}
	if b.consume(IntentDown) && !b.HasCollision(MoveDown) {
		b.piece.Anchor.Row++
	}
	if b.consume(IntentSpace) {
		b.hardDrop()
		return
	}

	now := b.clock.Now()
	if now.Sub(b.downTimer) < b.gameSpeed {
		return
	}
	b.downTimer = now
	if b.HasCollision(MoveDown) {
		b.lock()
		return
	}
	b.piece.Anchor.Row++
}

// consume reports whether i was requested and clears it.
func (b *Board) consume(i Intent) bool {
	if !b.intents.Has(i) {
		return false
	}
	b.intents[i] = false
	return true
}

func (b *Board) hardDrop() {
	for !b.HasCollision(MoveDown) {
		b.piece.Anchor.Row++
	}
	b.lock()
}

// HasCollision reports whether moving the piece in direction d would put any of its
// blocks outside the grid or on top of a block already in the grid.
// It doesn't modify the board.
func (b *Board) HasCollision(d Direction) bool {
	if b.piece == nil {
		return true
	}
	m, a := b.piece.Matrix, b.piece.Anchor
	switch d {
	case MoveLeft:
		a.Col--
	case MoveRight:
		a.Col++
	case MoveDown:
		a.Row++
	case Rotate:
		m = matrix.Rotate(m)
	}
	return b.collides(m, a)
}

func (b *Board) collides(m [][]Cell, a Anchor) bool {
	// 		0 1 2 3 4 5 6 7 8 9			0 1 2
	// 0	X X X O X X X X X X		0	O X X
	// 1	X X X O O O X X X X		1	O O O
	// 2	X X X X X X X X X X		2	X X X
	for ir, r := range m {
		for ic, c := range r {
			if c.IsEmpty() {
				continue
			}
			// out of bounds counts as a collision.
			gc, ok := b.grid.At(a.Row+ir, a.Col+ic)
			if !ok || !gc.IsEmpty() {
				return true
			}
		}
	}
	return false
}

// storeShape copies the blocks of the piece into the grid.
func (b *Board) storeShape() {
	a := b.piece.Anchor
	matrix.ForEachCell(b.piece.Matrix, func(c Cell, row, col int) {
		if !c.IsEmpty() {
			b.grid.Set(a.Row+row, a.Col+col, c)
		}
	})
}

// clearRows removes every full row, shifting the rows above it down, and
// returns how many were removed.
func (b *Board) clearRows() int {
	var cleared int
	// after a removal the rows above move down by one,
	// so the same index is tested again.
	for row := b.grid.Rows() - 1; row >= 0; {
		if b.grid.isFull(row) {
			b.grid.removeRow(row)
			cleared++
			continue
		}
		row--
	}
	return cleared
}

func (b *Board) lock() {
	b.storeShape()
	cleared := b.clearRows()
	b.linesCleared += cleared
	b.logger.Debug("piece locked",
		slog.String("shape", string(b.piece.Shape)),
		slog.Int("row", b.piece.Anchor.Row),
		slog.Int("col", b.piece.Anchor.Col),
		slog.Int("rows_cleared", cleared),
	)
	b.spawn()
}

func (b *Board) spawn() {
	shapes := Shapes()
	b.spawnShape(shapes[b.rng.IntN(len(shapes))])
}

// spawnShape puts a fresh piece of shape s at the spawn location.
// If it doesn't fit the game is over.
func (b *Board) spawnShape(s Shape) {
	b.piece = shapeMap[s]()
	b.downTimer = b.clock.Now()
	if b.collides(b.piece.Matrix, b.piece.Anchor) {
		b.state = GameOver
		b.logger.Info("game over", slog.Int("lines_cleared", b.linesCleared))
	}
}

// Snapshot is a copy of the board that is safe to hand to a renderer.
type Snapshot struct {
	Rows, Cols   int
	Grid         [][]Cell
	Piece        *Piece
	State        State
	LinesCleared int
}

// Read returns a copy of the current board.
func (b *Board) Read() *Snapshot {
	return &Snapshot{
		Rows:         b.grid.Rows(),
		Cols:         b.grid.Cols(),
		Grid:         b.grid.Cells(),
		Piece:        b.piece.copy(),
		State:        b.state,
		LinesCleared: b.linesCleared,
	}
}

// Merged returns the grid with the falling piece drawn on it.
// Blocks of the piece that fall outside the grid are left out.
func (s *Snapshot) Merged() [][]Cell {
	merged := matrix.Copy(s.Grid)
	if s.Piece == nil {
		return merged
	}
	a := s.Piece.Anchor
	matrix.ForEachCell(s.Piece.Matrix, func(c Cell, row, col int) {
		r, cl := a.Row+row, a.Col+col
		if c.IsEmpty() || r < 0 || r >= len(merged) || cl < 0 || cl >= len(merged[r]) {
			return
		}
		merged[r][cl] = c
	})
	return merged
}
