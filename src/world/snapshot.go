package world

import "sort"

//EntityView is a read only copy of an entity
type EntityView struct {
	Position  Coord
	Direction Direction
	Energy    int
	Program   string
	PC        int
}

//Snapshot is an immutable copy of the field taken between two ticks.
//Food and walls are sorted by row then column so equal worlds give equal snapshots.
type Snapshot struct {
	Width    int
	Height   int
	Step     int
	Version  uint64
	Food     []Coord
	Walls    []Coord
	Entities []EntityView
}

//Snapshot copies the current state under the read lock
func (f *Field) Snapshot() Snapshot {
	f.mu.RLock()
	defer f.mu.RUnlock()

	s := Snapshot{
		Width:    f.grid.Width,
		Height:   f.grid.Height,
		Step:     f.step,
		Version:  f.version,
		Food:     sortedCells(f.food),
		Walls:    sortedCells(f.walls),
		Entities: make([]EntityView, len(f.entities)),
	}
	for i, e := range f.entities {
		s.Entities[i] = EntityView{
			Position:  e.position,
			Direction: e.direction,
			Energy:    e.energy,
			Program:   e.program.String(),
			PC:        e.program.pc,
		}
	}
	return s
}

//Population returns the number of entities in the snapshot
func (s Snapshot) Population() int {
	return len(s.Entities)
}

func sortedCells(set map[Coord]struct{}) []Coord {
	cells := make([]Coord, 0, len(set))
	for c := range set {
		cells = append(cells, c)
	}
	sort.Slice(cells, func(i, j int) bool {
		if cells[i].Y != cells[j].Y {
			return cells[i].Y < cells[j].Y
		}
		return cells[i].X < cells[j].X
	})
	return cells
}
