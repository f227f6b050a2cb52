package world

//Entity is a single agent: position, heading, energy and the program driving it.
//Entities are owned by the Field that holds them.
type Entity struct {
	energy    int
	position  Coord
	direction Direction
	program   *Program
}

//NewEntity creates an entity, a nil program is replaced by a single Sleep
func NewEntity(energy int, program *Program, position Coord, direction Direction) *Entity {
	if program == nil {
		program = NewProgram()
	}
	return &Entity{
		energy:    energy,
		position:  position,
		direction: direction,
		program:   program,
	}
}

//Energy returns the current energy, it may be negative before the entity is removed
func (e *Entity) Energy() int {
	return e.energy
}

//Position returns the cell the entity stands on
func (e *Entity) Position() Coord {
	return e.position
}

//Direction returns the heading
func (e *Entity) Direction() Direction {
	return e.direction
}

//Program returns the program, callers must not execute it
func (e *Entity) Program() *Program {
	return e.program
}

func (e *Entity) turnLeft() {
	e.direction = e.direction.TurnLeft()
}

func (e *Entity) turnRight() {
	e.direction = e.direction.TurnRight()
}

//ahead returns the not normalized cell in front of the entity
func (e *Entity) ahead() Coord {
	return e.position.Add(e.direction)
}

//move steps one cell forward if that cell is walkable, eating any food found there
func (e *Entity) move(f *Field) {
	goal, ok := f.grid.Normalize(e.ahead())
	if !ok || f.isWall(goal) {
		return
	}
	if f.takeFood(goal) {
		e.energy += f.cfg.EnergyPerFood
	}
	e.position = goal
}

//step executes one instruction, eats the food below and pays the per step cost.
//Energy is not clamped.
func (e *Entity) step(f *Field) {
	e.program.execute(f, e)
	if f.takeFood(e.position) {
		e.energy += f.cfg.EnergyPerFood
	}
	e.energy -= f.cfg.EnergyPerStep
}

//replicate splits the energy of e with a new entity placed on a random cell,
//facing a random heading and running a mutated copy of the program.
//
//Draw order: x, y, heading, mutation.
func (e *Entity) replicate(f *Field) *Entity {
	position := f.randomCoord()
	direction := randomDirection(f.rng)
	program := e.program.Mutate(f.rng, f.cfg.MutationRate, f.cfg.ExtendedCommands)
	e.energy /= 2

	return NewEntity(e.energy, program, position, direction)
}
