package world

//Direction is one of the four compass headings, ordered clockwise
type Direction int

const (
	Up Direction = iota
	Right
	Down
	Left
)

//Directions is the number of headings
const Directions = 4

var (
	directionNames   = [Directions]string{"UP", "RIGHT", "DOWN", "LEFT"}
	directionOffsets = [Directions][2]int{{0, -1}, {1, 0}, {0, 1}, {-1, 0}}
)

func (d Direction) String() string {
	if d < 0 || d >= Directions {
		return "UNKNOWN"
	}
	return directionNames[d]
}

//Offset returns the unit step (dx, dy) of the heading; y grows downwards
func (d Direction) Offset() (dx int, dy int) {
	o := directionOffsets[d]
	return o[0], o[1]
}

//TurnLeft returns the heading 90 degrees counter-clockwise
func (d Direction) TurnLeft() Direction {
	return (d + Directions - 1) % Directions
}

//TurnRight returns the heading 90 degrees clockwise
func (d Direction) TurnRight() Direction {
	return (d + 1) % Directions
}

func randomDirection(src *Source) Direction {
	return Direction(src.Intn(Directions))
}
