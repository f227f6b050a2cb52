package world

import "fmt"

//Coord is a cell position on the grid
type Coord struct {
	X int `yaml:"x"`
	Y int `yaml:"y"`
}

func (c Coord) String() string {
	return fmt.Sprintf("(%d,%d)", c.X, c.Y)
}

//Add returns the neighbour of c in direction d, not normalized
func (c Coord) Add(d Direction) Coord {
	dx, dy := d.Offset()
	return Coord{c.X + dx, c.Y + dy}
}

//Grid describes the extent of the world and which axes wrap around
type Grid struct {
	Width  int
	Height int
	WrapX  bool
	WrapY  bool
}

//Normalize folds c into [0,Width) x [0,Height).
//ok is false when c lies outside a non-wrapping axis; such a cell is not part of the world.
func (g Grid) Normalize(c Coord) (n Coord, ok bool) {
	x, ok := fold(c.X, g.Width, g.WrapX)
	if !ok {
		return Coord{}, false
	}
	y, ok := fold(c.Y, g.Height, g.WrapY)
	if !ok {
		return Coord{}, false
	}
	return Coord{x, y}, true
}

//Contains reports whether c is already a normalized in-bounds cell
func (g Grid) Contains(c Coord) bool {
	return c.X >= 0 && c.X < g.Width && c.Y >= 0 && c.Y < g.Height
}

//Cells returns the number of cells of the grid
func (g Grid) Cells() int {
	return g.Width * g.Height
}

func fold(v int, extent int, wrap bool) (int, bool) {
	if v >= 0 && v < extent {
		return v, true
	}
	if !wrap {
		return 0, false
	}
	v %= extent
	if v < 0 {
		v += extent
	}
	return v, true
}
