package tetris

import "canvastetris/matrix"

// Every piece spawns with its top-left corner at row 0, column 3.
const (
	spawnRow = 0
	spawnCol = 3
)

// Anchor is the position of the top-left cell of a piece matrix in the grid.
type Anchor struct {
	Row, Col int
}

// Piece is the falling piece. Matrix is its own local grid, Anchor places it on the board.
type Piece struct {
	Shape  Shape
	Matrix [][]Cell
	Anchor Anchor
}

// rotate turns the matrix clockwise around its top-left corner.
// The anchor doesn't move.
func (p *Piece) rotate() {
	p.Matrix = matrix.Rotate(p.Matrix)
}

func (p *Piece) copy() *Piece {
	if p == nil {
		return nil
	}
	return &Piece{
		Shape:  p.Shape,
		Matrix: matrix.Copy(p.Matrix),
		Anchor: p.Anchor,
	}
}

var shapeMap = map[Shape]func() *Piece{
	I: newI,
	J: newJ,
	L: newL,
	O: newO,
	S: newS,
	Z: newZ,
	T: newT,
}

func newPiece(s Shape, grid [][]bool) *Piece {
	m := make([][]Cell, len(grid))
	for ir, r := range grid {
		m[ir] = make([]Cell, len(r))
		for ic, c := range r {
			if c {
				m[ir][ic] = Occupied(s)
			}
		}
	}
	return &Piece{
		Shape:  s,
		Matrix: m,
		Anchor: Anchor{Row: spawnRow, Col: spawnCol},
	}
}

/*
.	Spawn Location			.	Shape

.	0 1 2 3 4 5 6 7 8 9		.	0 1 2 3

0	X X X X X X X X X X		0	X X X X

1	X X X O O O O X X X		1	O O O O

2	X X X X X X X X X X		2	X X X X

3	X X X X X X X X X X		3	X X X X
*/
func newI() *Piece {
	return newPiece(I, [][]bool{
		{false, false, false, false},
		{true, true, true, true},
		{false, false, false, false},
		{false, false, false, false},
	})
}

/*
.	Spawn Location			.	Shape

.	0 1 2 3 4 5 6 7 8 9		.	0 1 2

0	X X X O X X X X X X		0	O X X

1	X X X O O O X X X X		1	O O O

2	X X X X X X X X X X		2	X X X
*/
func newJ() *Piece {
	return newPiece(J, [][]bool{
		{true, false, false},
		{true, true, true},
		{false, false, false},
	})
}

/*
.	Spawn Location			.	Shape

.	0 1 2 3 4 5 6 7 8 9		.	0 1 2

0	X X X X X O X X X X		0	X X O

1	X X X O O O X X X X		1	O O O

2	X X X X X X X X X X		2	X X X
*/
func newL() *Piece {
	return newPiece(L, [][]bool{
		{false, false, true},
		{true, true, true},
		{false, false, false},
	})
}

/*
.	Spawn Location			.	Shape

.	0 1 2 3 4 5 6 7 8 9		.	0 1

0	X X X O O X X X X X		0	O O

1	X X X O O X X X X X		1	O O
*/
func newO() *Piece {
	return newPiece(O, [][]bool{
		{true, true},
		{true, true},
	})
}

/*
.	Spawn Location			.	Shape

.	0 1 2 3 4 5 6 7 8 9		.	0 1 2

0	X X X X O O X X X X		0	X O O

1	X X X O O X X X X X		1	O O X

2	X X X X X X X X X X		2	X X X
*/
func newS() *Piece {
	return newPiece(S, [][]bool{
		{false, true, true},
		{true, true, false},
		{false, false, false},
	})
}

/*
.	Spawn Location			.	Shape

.	0 1 2 3 4 5 6 7 8 9		.	0 1 2

0	X X X O O X X X X X		0	O O X

1	X X X X O O X X X X		1	X O O

2	X X X X X X X X X X		2	X X X
*/
func newZ() *Piece {
	return newPiece(Z, [][]bool{
		{true, true, false},
		{false, true, true},
		{false, false, false},
	})
}

/*
.	Spawn Location			.	Shape

.	0 1 2 3 4 5 6 7 8 9		.	0 1 2

0	X X X X O X X X X X		0	X O X

1	X X X O O O X X X X		1	O O O

2	X X X X X X X X X X		2	X X X
*/
func newT() *Piece {
	return newPiece(T, [][]bool{
		{false, true, false},
		{true, true, true},
		{false, false, false},
	})
}
