package server

import (
	"errors"
	"fmt"
	"strings"

	"canvastetris/tetris"

	"google.golang.org/protobuf/types/known/structpb"
)

var errBadSnapshot = errors.New("malformed snapshot")

// Rows of cells travel as strings, one character per cell: the shape
// letter or '.' for an empty cell.
func cells2Rows(cells [][]tetris.Cell) []any {
	rows := make([]any, len(cells))
	for y, row := range cells {
		var b strings.Builder
		for _, c := range row {
			b.WriteString(c.String())
		}
		rows[y] = b.String()
	}
	return rows
}

func rows2Cells(v *structpb.Value) ([][]tetris.Cell, error) {
	list := v.GetListValue()
	if list == nil {
		return nil, fmt.Errorf("%w: rows are not a list", errBadSnapshot)
	}
	cells := make([][]tetris.Cell, len(list.GetValues()))
	for y, r := range list.GetValues() {
		s := r.GetStringValue()
		cells[y] = make([]tetris.Cell, len(s))
		for x, ch := range s {
			if ch == '.' {
				continue
			}
			cells[y][x] = tetris.Occupied(tetris.Shape(ch))
		}
	}
	return cells, nil
}

func snapshot2Proto(s *tetris.Snapshot) (*structpb.Struct, error) {
	m := map[string]any{
		"rows":          s.Rows,
		"cols":          s.Cols,
		"state":         s.State.String(),
		"lines_cleared": s.LinesCleared,
		"grid":          cells2Rows(s.Grid),
	}
	if p := s.Piece; p != nil {
		m["piece"] = map[string]any{
			"shape":  string(p.Shape),
			"row":    p.Anchor.Row,
			"col":    p.Anchor.Col,
			"matrix": cells2Rows(p.Matrix),
		}
	}
	st, err := structpb.NewStruct(m)
	if err != nil {
		return nil, fmt.Errorf("failed to encode snapshot: %w", err)
	}
	return st, nil
}

func proto2Snapshot(st *structpb.Struct) (*tetris.Snapshot, error) {
	f := st.GetFields()
	grid, err := rows2Cells(f["grid"])
	if err != nil {
		return nil, err
	}
	s := &tetris.Snapshot{
		Rows:         int(f["rows"].GetNumberValue()),
		Cols:         int(f["cols"].GetNumberValue()),
		Grid:         grid,
		LinesCleared: int(f["lines_cleared"].GetNumberValue()),
	}
	if len(grid) != s.Rows {
		return nil, fmt.Errorf("%w: %d rows, want %d", errBadSnapshot, len(grid), s.Rows)
	}
	switch state := f["state"].GetStringValue(); state {
	case tetris.Falling.String():
		s.State = tetris.Falling
	case tetris.GameOver.String():
		s.State = tetris.GameOver
	default:
		return nil, fmt.Errorf("%w: unknown state %q", errBadSnapshot, state)
	}

	if pv, ok := f["piece"]; ok {
		pf := pv.GetStructValue().GetFields()
		m, err := rows2Cells(pf["matrix"])
		if err != nil {
			return nil, err
		}
		s.Piece = &tetris.Piece{
			Shape:  tetris.Shape(pf["shape"].GetStringValue()),
			Matrix: m,
			Anchor: tetris.Anchor{
				Row: int(pf["row"].GetNumberValue()),
				Col: int(pf["col"].GetNumberValue()),
			},
		}
	}
	return s, nil
}
