package tetris

// Shape identifies one of the seven pieces. It is also the color tag
// renderers use to paint a cell.
type Shape string

const (
	I Shape = "I"
	J Shape = "J"
	L Shape = "L"
	O Shape = "O"
	S Shape = "S"
	Z Shape = "Z"
	T Shape = "T"
)

// Shapes returns the seven shapes in a stable order.
func Shapes() []Shape { return []Shape{I, J, L, O, S, Z, T} }

// Cell is either empty or occupied by a block of a given shape.
// The zero value is an empty cell.
type Cell struct {
	shape    Shape
	occupied bool
}

// Occupied returns a cell filled with a block of shape s.
func Occupied(s Shape) Cell { return Cell{shape: s, occupied: true} }

// IsEmpty reports whether there is no block in the cell.
func (c Cell) IsEmpty() bool { return !c.occupied }

// Shape returns the shape that filled the cell and false if the cell is empty.
func (c Cell) Shape() (Shape, bool) { return c.shape, c.occupied }

func (c Cell) String() string {
	if !c.occupied {
		return "."
	}
	return string(c.shape)
}
