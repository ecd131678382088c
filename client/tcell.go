package client

import (
	"fmt"
	"log/slog"
	"sync"

	"canvastetris/tetris"

	"github.com/gdamore/tcell/v2"
)

// Board position on the tcell screen, leaving room for the dev labels.
const (
	tcellOriginX = 3
	tcellOriginY = 2
)

var tcellColors = map[tetris.Shape]tcell.Color{
	tetris.I: tcell.ColorAqua,
	tetris.J: tcell.ColorBlue,
	tetris.L: tcell.ColorOrange,
	tetris.O: tcell.ColorYellow,
	tetris.S: tcell.ColorGreen,
	tetris.Z: tcell.ColorRed,
	tetris.T: tcell.ColorPurple,
}

type tcellSurface struct {
	screen tcell.Screen
	logger *slog.Logger
	dev    bool
	keysCh chan key
	last   *tetris.Snapshot
	mu     sync.Mutex
}

// newTcellSurface initializes screen, or a new terminal screen when it's nil.
func newTcellSurface(screen tcell.Screen, l *slog.Logger, dev bool) (*tcellSurface, error) {
	if screen == nil {
		var err error
		if screen, err = tcell.NewScreen(); err != nil {
			return nil, fmt.Errorf("failed to create screen: %w", err)
		}
	}
	if err := screen.Init(); err != nil {
		return nil, fmt.Errorf("failed to init screen: %w", err)
	}
	screen.HideCursor()
	s := &tcellSurface{
		screen: screen,
		logger: l,
		dev:    dev,
		keysCh: make(chan key),
	}
	go s.poll()
	return s, nil
}

func (s *tcellSurface) poll() {
	defer close(s.keysCh)
	for {
		// PollEvent returns nil once the screen is finalized.
		switch ev := s.screen.PollEvent().(type) {
		case nil:
			return
		case *tcell.EventKey:
			s.keysCh <- keyFromTcell(ev.Key(), ev.Rune())
		case *tcell.EventResize:
			s.screen.Sync()
		}
	}
}

func keyFromTcell(k tcell.Key, r rune) key {
	switch {
	case k == tcell.KeyCtrlC || k == tcell.KeyEscape:
		return key{quit: true}
	case k == tcell.KeyUp || (k == tcell.KeyRune && r == 'w'):
		return key{intent: tetris.IntentUp, ok: true, r: r}
	case k == tcell.KeyDown || (k == tcell.KeyRune && r == 's'):
		return key{intent: tetris.IntentDown, ok: true, r: r}
	case k == tcell.KeyLeft || (k == tcell.KeyRune && r == 'a'):
		return key{intent: tetris.IntentLeft, ok: true, r: r}
	case k == tcell.KeyRight || (k == tcell.KeyRune && r == 'd'):
		return key{intent: tetris.IntentRight, ok: true, r: r}
	case k == tcell.KeyRune && r == ' ':
		return key{intent: tetris.IntentSpace, ok: true, r: r}
	case k == tcell.KeyRune:
		return key{r: r}
	}
	return key{}
}

func (s *tcellSurface) keys() <-chan key { return s.keysCh }

func (s *tcellSurface) close() error {
	s.screen.Fini()
	return nil
}

func (s *tcellSurface) render(snap *tetris.Snapshot) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.last = snap
	s.draw(snap)
	s.screen.Show()
}

func (s *tcellSurface) lobby(msg string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.draw(s.last)
	x, y := tcellOriginX+2, tcellOriginY+8
	text(s.screen, x, y, "Welcome to Tetris", tcell.StyleDefault.Bold(true))
	text(s.screen, x, y+2, msg, tcell.StyleDefault)
	s.screen.Show()
}

func (s *tcellSurface) draw(snap *tetris.Snapshot) {
	rows, cols := tetris.DefaultRows, tetris.DefaultCols
	var cells [][]tetris.Cell
	if snap != nil {
		rows, cols = snap.Rows, snap.Cols
		cells = snap.Merged()
	}

	s.screen.Clear()
	border := tcell.StyleDefault.Foreground(tcell.ColorGray)
	left, right := tcellOriginX, tcellOriginX+cols*2+1
	for y := tcellOriginY; y <= tcellOriginY+rows+1; y++ {
		s.screen.SetContent(left, y, '|', nil, border)
		s.screen.SetContent(right, y, '|', nil, border)
	}
	for x := left; x <= right; x++ {
		s.screen.SetContent(x, tcellOriginY, '-', nil, border)
		s.screen.SetContent(x, tcellOriginY+rows+1, '-', nil, border)
	}

	for row, r := range cells {
		for col, c := range r {
			sh, ok := c.Shape()
			if !ok {
				continue
			}
			x, y := cellPos(row, col)
			st := tcell.StyleDefault.Background(tcellColors[sh])
			s.screen.SetContent(x, y, ' ', nil, st)
			s.screen.SetContent(x+1, y, ' ', nil, st)
		}
	}

	if s.dev {
		label := tcell.StyleDefault.Foreground(tcell.ColorGray)
		for row := range rows {
			text(s.screen, 0, tcellOriginY+1+row, fmt.Sprintf("%2d", row), label)
		}
		for col := range cols {
			x, _ := cellPos(0, col)
			text(s.screen, x, tcellOriginY-1, fmt.Sprintf("%d", col%10), label)
		}
		if snap != nil && snap.Piece != nil {
			a := snap.Piece.Anchor
			if a.Row >= 0 && a.Row < rows && a.Col >= 0 && a.Col < cols {
				x, y := cellPos(a.Row, a.Col)
				s.screen.SetContent(x, y, '+', nil, tcell.StyleDefault.Foreground(tcell.ColorRed))
			}
		}
	}

	if snap != nil {
		text(s.screen, tcellOriginX, tcellOriginY+rows+2, fmt.Sprintf("lines: %d", snap.LinesCleared), tcell.StyleDefault)
	}
}

// cellPos returns the screen position of the left half of a board cell.
func cellPos(row, col int) (int, int) {
	return tcellOriginX + 1 + col*2, tcellOriginY + 1 + row
}

func text(screen tcell.Screen, x, y int, s string, style tcell.Style) {
	for i, r := range []rune(s) {
		screen.SetContent(x+i, y, r, nil, style)
	}
}
