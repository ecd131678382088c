// Package canvas draws the game in a window with ebiten. The board is
// advanced from ebiten's Update, which ebiten calls once per frame.
package canvas

import (
	"errors"
	"fmt"
	"image/color"
	"log/slog"
	"strconv"
	"time"

	"canvastetris/surface"
	"canvastetris/tetris"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/ebitenutil"
	"github.com/hajimehoshi/ebiten/v2/inpututil"
	"github.com/hajimehoshi/ebiten/v2/vector"
)

var (
	background = color.White
	gridColor  = color.Gray{Y: 0x80}
	anchorRed  = color.RGBA{R: 0xff, A: 0xff}
)

var shapeColors = map[tetris.Shape]color.RGBA{
	tetris.I: {R: 0x00, G: 0xbc, B: 0xd4, A: 0xff},
	tetris.J: {R: 0x1e, G: 0x4f, B: 0xd8, A: 0xff},
	tetris.L: {R: 0xff, G: 0x98, B: 0x00, A: 0xff},
	tetris.O: {R: 0xf2, G: 0xc9, B: 0x1c, A: 0xff},
	tetris.S: {R: 0x2e, G: 0xa0, B: 0x43, A: 0xff},
	tetris.Z: {R: 0xd3, G: 0x2f, B: 0x2f, A: 0xff},
	tetris.T: {R: 0x8e, G: 0x24, B: 0xaa, A: 0xff},
}

var keyIntents = map[ebiten.Key]tetris.Intent{
	ebiten.KeyArrowUp:    tetris.IntentUp,
	ebiten.KeyArrowDown:  tetris.IntentDown,
	ebiten.KeyArrowLeft:  tetris.IntentLeft,
	ebiten.KeyArrowRight: tetris.IntentRight,
	ebiten.KeySpace:      tetris.IntentSpace,
}

type Options struct {
	Board    tetris.Config
	CellSize int
	Dev      bool
	Logger   *slog.Logger
	// Publish, if set, receives a snapshot after every frame.
	Publish func(*tetris.Snapshot)
	// Done, if set, is called with the last snapshot of every game.
	Done func(*tetris.Snapshot)
}

type game struct {
	opts   Options
	logger *slog.Logger
	board  *tetris.Board
	loop   tetris.Loop
	last   *tetris.Snapshot
	over   bool
}

func newGame(o Options) (*game, error) {
	if o.Logger == nil {
		o.Logger = slog.New(slog.DiscardHandler)
	}
	g := &game{opts: o, logger: o.Logger}
	if err := g.restart(); err != nil {
		return nil, err
	}
	return g, nil
}

func (g *game) restart() error {
	b, err := tetris.NewBoard(g.opts.Board, g.logger)
	if err != nil {
		return err
	}
	g.board = b
	g.loop = tetris.Loop{}
	g.last = b.Read()
	g.over = false
	return nil
}

// Update reads the keyboard and advances the board. Esc quits, r restarts a finished game.
func (g *game) Update() error {
	if inpututil.IsKeyJustPressed(ebiten.KeyEscape) {
		return ebiten.Termination
	}
	if g.over {
		if inpututil.IsKeyJustPressed(ebiten.KeyR) {
			return g.restart()
		}
		return nil
	}

	for k, intent := range keyIntents {
		if inpututil.IsKeyJustPressed(k) {
			g.board.Input(tetris.Event{Intent: intent, Pressed: true})
		}
		if inpututil.IsKeyJustReleased(k) {
			g.board.Input(tetris.Event{Intent: intent, Pressed: false})
		}
	}

	g.loop.Step(time.Now(), g.board.Update)
	g.last = g.board.Read()
	if g.opts.Publish != nil {
		g.opts.Publish(g.last)
	}
	if g.last.State == tetris.GameOver {
		g.over = true
		g.logger.Info("game over", slog.Int("lines_cleared", g.last.LinesCleared))
		if g.opts.Done != nil {
			g.opts.Done(g.last)
		}
	}
	return nil
}

func (g *game) Draw(screen *ebiten.Image) {
	screen.Fill(background)
	s := g.last
	size := float32(g.opts.CellSize)

	for row, r := range s.Merged() {
		for col, c := range r {
			x, y := float32(col)*size, float32(row)*size
			if sh, ok := c.Shape(); ok {
				vector.DrawFilledRect(screen, x, y, size, size, shapeColors[sh], false)
				continue
			}
			vector.StrokeRect(screen, x, y, size, size, 1, gridColor, false)
		}
	}

	if g.opts.Dev {
		g.drawDev(screen, s)
	}

	ebitenutil.DebugPrintAt(screen, fmt.Sprintf("lines: %d", s.LinesCleared), 4, int(size)*s.Rows-16)
	if g.over {
		ebitenutil.DebugPrint(screen, "Game Over :)\n(r)estart  (esc) quit")
	}
}

// drawDev prints the row and column indexes and marks the anchor of the piece.
func (g *game) drawDev(screen *ebiten.Image, s *tetris.Snapshot) {
	size := g.opts.CellSize
	for row := range s.Rows {
		ebitenutil.DebugPrintAt(screen, strconv.Itoa(row), 2, row*size+2)
	}
	for col := 1; col < s.Cols; col++ {
		ebitenutil.DebugPrintAt(screen, strconv.Itoa(col), col*size+2, 2)
	}
	if p := s.Piece; p != nil {
		q := float32(size) / 4
		vector.DrawFilledRect(screen, float32(p.Anchor.Col*size)+q, float32(p.Anchor.Row*size)+q, 2*q, 2*q, anchorRed, false)
	}
}

func (g *game) Layout(int, int) (int, int) {
	return g.opts.Board.Cols * g.opts.CellSize, g.opts.Board.Rows * g.opts.CellSize
}

// Run opens the window and blocks until it's closed.
// Failures to open the window are returned as surface.ErrNoContext.
func Run(o Options) error {
	if o.CellSize <= 0 {
		return fmt.Errorf("cell size must be positive, got %d", o.CellSize)
	}
	o.Board = withDefaults(o.Board)
	g, err := newGame(o)
	if err != nil {
		return err
	}
	ebiten.SetWindowSize(g.Layout(0, 0))
	ebiten.SetWindowTitle("Tetris")
	if err := ebiten.RunGame(g); err != nil && !errors.Is(err, ebiten.Termination) {
		return surface.NoContext(surface.Canvas, err)
	}
	return nil
}

func withDefaults(c tetris.Config) tetris.Config {
	if c.Rows == 0 {
		c.Rows = tetris.DefaultRows
	}
	if c.Cols == 0 {
		c.Cols = tetris.DefaultCols
	}
	return c
}
