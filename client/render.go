package client

import (
	_ "embed"
	"fmt"
	"io"
	"log/slog"
	"strings"
	"sync"
	"text/template"

	"canvastetris/tetris"
)

const (
	// ASCII colors.
	Cyan    = "36"
	Blue    = "34"
	Orange  = "38;5;214"
	Yellow  = "33"
	Green   = "32"
	Red     = "31"
	Magenta = "35"

	resetPos    = "\033[H"  // Reset cursor position to 0,0
	clearScreen = "\033[2J" // Clear the whole screen

	welcomeMessage  = "(p)lay   (q)uit"
	gameOverMessage = "Game Over :)  (p)lay again"
	errorMessage    = "something went wrong :("
)

//go:embed "layout.tmpl"
var layout string

var colorMap = map[tetris.Shape]string{
	tetris.I: Cyan,
	tetris.J: Blue,
	tetris.L: Orange,
	tetris.O: Yellow,
	tetris.S: Green,
	tetris.Z: Red,
	tetris.T: Magenta,
}

type templateData struct {
	Board *tetris.Snapshot
	Title string
	Dev   bool
}

// Render draws snapshots to a terminal with ANSI escape codes.
type Render struct {
	writer   io.Writer
	logger   *slog.Logger
	template *template.Template
	td       *templateData
	mu       sync.Mutex
}

// NewRender returns a renderer writing to w. The title is printed above the board.
func NewRender(w io.Writer, l *slog.Logger, title string, dev bool) (*Render, error) {
	tmp, err := loadTemplate()
	if err != nil {
		return nil, fmt.Errorf("failed to load template: %w", err)
	}
	return &Render{
		writer:   w,
		logger:   l,
		template: tmp,
		td:       &templateData{Title: title, Dev: dev},
	}, nil
}

// Render redraws the whole board.
func (r *Render) Render(s *tetris.Snapshot) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.td.Board = s
	fmt.Fprint(r.writer, resetPos)
	if err := r.template.Execute(r.writer, r.td); err != nil {
		r.logger.Error("unable to execute template in Render()", slog.String("error", err.Error()))
	}
}

// Message prints msg in a box over the board.
func (r *Render) Message(msg string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	const width = 26
	if len(msg) > width {
		msg = msg[:width]
	}
	pad := width - len(msg)
	fmt.Fprint(r.writer, "\033[10;2H+----------------------------+")
	fmt.Fprint(r.writer, "\033[11;2H|    Welcome to Tetris       |")
	fmt.Fprintf(r.writer, "\033[12;2H| %s%s |", strings.Repeat(" ", pad/2), msg+strings.Repeat(" ", pad-pad/2))
	fmt.Fprint(r.writer, "\033[13;2H+----------------------------+")
}

// Clear wipes the screen.
func (r *Render) Clear() {
	r.mu.Lock()
	defer r.mu.Unlock()
	fmt.Fprint(r.writer, clearScreen+resetPos)
}

func loadTemplate() (*template.Template, error) {
	funcMap := template.FuncMap{
		"board":  boardCells,
		"border": border,
		"lines":  lines,
		"cols":   colLabels,
	}

	// we use the console raw so new lines don't automatically transform into carriage return
	// to fix that we add a carriage return to every new line in the layout.
	l := strings.ReplaceAll(layout, "\n", "\r\n")
	return template.New("layout").Funcs(funcMap).Parse(l)
}

func cell(s tetris.Shape) string {
	return fmt.Sprintf("\x1b[7m\x1b[%sm[]\x1b[0m", colorMap[s])
}

// boardCells renders every cell of the board as a two characters string.
// A nil snapshot renders an empty board of the default size.
func boardCells(td *templateData) [][]string {
	rows, cols := tetris.DefaultRows, tetris.DefaultCols
	if td != nil && td.Board != nil {
		rows, cols = td.Board.Rows, td.Board.Cols
	}
	rendered := make([][]string, rows)
	for y := range rendered {
		rendered[y] = make([]string, cols)
		for x := range rendered[y] {
			rendered[y][x] = "  "
		}
	}
	if td == nil || td.Board == nil {
		return rendered
	}

	for y, row := range td.Board.Merged() {
		for x, c := range row {
			if s, ok := c.Shape(); ok {
				rendered[y][x] = cell(s)
			}
		}
	}

	// the anchor of the piece is marked in dev mode.
	if p := td.Board.Piece; td.Dev && p != nil {
		a := p.Anchor
		if a.Row >= 0 && a.Row < rows && a.Col >= 0 && a.Col < cols {
			rendered[a.Row][a.Col] = "\x1b[31m<>\x1b[0m"
		}
	}
	return rendered
}

func border(td *templateData) string {
	cols := tetris.DefaultCols
	if td != nil && td.Board != nil {
		cols = td.Board.Cols
	}
	return strings.Repeat("-", cols*2)
}

func lines(td *templateData) int {
	if td == nil || td.Board == nil {
		return 0
	}
	return td.Board.LinesCleared
}

// colLabels returns the column indexes, last digit only, two characters each.
func colLabels(td *templateData) string {
	cols := tetris.DefaultCols
	if td != nil && td.Board != nil {
		cols = td.Board.Cols
	}
	var b strings.Builder
	for i := range cols {
		fmt.Fprintf(&b, "%d ", i%10)
	}
	return b.String()
}
