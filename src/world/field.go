package world

import (
	"fmt"
	"sync"
)

//RegrowthInterval is the number of ticks between two food injections
const RegrowthInterval = 10

//TickReport summarizes one completed tick
type TickReport struct {
	Step       int
	Births     int
	Deaths     int
	Population int
	Food       int
}

//Field is the world: grid, food, walls, entities and the tick algorithm.
//A tick holds the write lock for its whole duration, so readers never see it half done.
type Field struct {
	mu       sync.RWMutex
	cfg      Config
	grid     Grid
	rng      *Source
	food     map[Coord]struct{}
	walls    map[Coord]struct{}
	entities []*Entity
	step     int
	regrowIn int
	version  uint64
}

//NewField creates an empty field; call Reset to settle it with the configured population
func NewField(cfg Config) (*Field, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &Field{
		cfg:   cfg,
		grid:  cfg.Grid(),
		rng:   NewSource(cfg.Seed),
		food:  make(map[Coord]struct{}),
		walls: make(map[Coord]struct{}),
	}, nil
}

//Reset clears food, walls, entities and counters and settles the field again:
//food and walls as a percentage of the cells, then the initial population.
//Every placement is an independent uniform draw; collisions are kept, not retried.
func (f *Field) Reset() {
	f.mu.Lock()
	defer f.mu.Unlock()

	f.food = make(map[Coord]struct{})
	f.walls = make(map[Coord]struct{})
	f.entities = nil
	f.step = 0
	f.regrowIn = 0

	cells := f.grid.Cells()
	for i := 0; i < cells*f.cfg.InitialFood/Percent; i++ {
		f.food[f.randomCoord()] = struct{}{}
	}
	for i := 0; i < cells*f.cfg.InitialWalls/Percent; i++ {
		f.walls[f.randomCoord()] = struct{}{}
	}
	//the seed program was validated by NewField
	seed, _ := ParseProgram(f.cfg.SeedProgram)
	for i := 0; i < f.cfg.Population; i++ {
		position := f.randomCoord()
		direction := randomDirection(f.rng)
		program := NewProgram(seed.commands...)
		if f.cfg.RandomPrograms {
			program = randomProgram(f.rng, 1+f.rng.Intn(RandomProgramMaxLen), f.cfg.ExtendedCommands)
		}
		f.entities = append(f.entities, NewEntity(f.cfg.InitialEnergy, program, position, direction))
	}
	f.version++
}

//Reseed restarts the random sequence, the next Reset replays the same world
func (f *Field) Reseed(seed int64) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.rng.Reseed(seed)
	f.cfg.Seed = seed
}

//Tick advances the world by one time unit:
//counter, food regrowth, one instruction per entity alive at the start of the tick,
//then deaths (energy <= 0) and births (energy > reproduction energy).
//Offspring join the field after the classification and never act in the tick they are born.
func (f *Field) Tick() TickReport {
	f.mu.Lock()
	defer f.mu.Unlock()

	f.step++

	f.regrowIn--
	if f.regrowIn < 0 {
		f.regrowIn = RegrowthInterval
		for i := 0; i < f.cfg.RegrowthRate; i++ {
			f.food[f.randomCoord()] = struct{}{}
		}
	}

	alive := make([]*Entity, len(f.entities))
	copy(alive, f.entities)
	for _, e := range alive {
		e.step(f)
	}

	survivors := make([]*Entity, 0, len(alive))
	var parents []*Entity
	for _, e := range alive {
		if e.energy <= 0 {
			continue
		}
		survivors = append(survivors, e)
		if e.energy > f.cfg.ReproductionEnergy {
			parents = append(parents, e)
		}
	}
	for _, p := range parents {
		survivors = append(survivors, p.replicate(f))
	}
	f.entities = survivors
	f.version++

	return TickReport{
		Step:       f.step,
		Births:     len(parents),
		Deaths:     len(alive) - (len(survivors) - len(parents)),
		Population: len(f.entities),
		Food:       len(f.food),
	}
}

//AddEntity places e on the field, its position is normalized first
func (f *Field) AddEntity(e *Entity) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	pos, ok := f.grid.Normalize(e.position)
	if !ok {
		return fmt.Errorf("entity position %v is outside the field", e.position)
	}
	e.position = pos
	f.entities = append(f.entities, e)
	f.version++
	return nil
}

//AddFood puts food on c; adding food twice to a cell keeps one
func (f *Field) AddFood(c Coord) error {
	return f.addCell(f.food, c)
}

//AddWall puts a wall on c
func (f *Field) AddWall(c Coord) error {
	return f.addCell(f.walls, c)
}

func (f *Field) addCell(set map[Coord]struct{}, c Coord) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	n, ok := f.grid.Normalize(c)
	if !ok {
		return fmt.Errorf("cell %v is outside the field", c)
	}
	set[n] = struct{}{}
	f.version++
	return nil
}

//SetParam changes a mutable parameter between two ticks
func (f *Field) SetParam(name string, value int) error {
	p, err := LookupParam(name)
	if err != nil {
		return err
	}
	if !p.Mutable {
		return fmt.Errorf("%w: %s", ErrImmutableParam, name)
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	return p.Set(&f.cfg, value)
}

//Config returns a copy of the current configuration
func (f *Field) Config() Config {
	f.mu.RLock()
	defer f.mu.RUnlock()
	return f.cfg
}

//Grid returns the field geometry
func (f *Field) Grid() Grid {
	return f.grid
}

//Step returns the number of completed ticks since the last reset
func (f *Field) Step() int {
	f.mu.RLock()
	defer f.mu.RUnlock()
	return f.step
}

//Version changes on every tick, reset and manual placement
func (f *Field) Version() uint64 {
	f.mu.RLock()
	defer f.mu.RUnlock()
	return f.version
}

//Population returns the number of live entities
func (f *Field) Population() int {
	f.mu.RLock()
	defer f.mu.RUnlock()
	return len(f.entities)
}

//FoodCount returns the number of food cells
func (f *Field) FoodCount() int {
	f.mu.RLock()
	defer f.mu.RUnlock()
	return len(f.food)
}

//IsFood reports whether c holds food
func (f *Field) IsFood(c Coord) bool {
	f.mu.RLock()
	defer f.mu.RUnlock()
	n, ok := f.grid.Normalize(c)
	return ok && f.isFood(n)
}

//IsWalkable reports whether an entity may enter c
func (f *Field) IsWalkable(c Coord) bool {
	f.mu.RLock()
	defer f.mu.RUnlock()
	return f.isWalkable(c)
}

//randomCoord draws x then y
func (f *Field) randomCoord() Coord {
	x := f.rng.Intn(f.grid.Width)
	y := f.rng.Intn(f.grid.Height)
	return Coord{x, y}
}

//the helpers below expect the lock to be held and n to be normalized

func (f *Field) isFood(n Coord) bool {
	_, ok := f.food[n]
	return ok
}

func (f *Field) isWall(n Coord) bool {
	_, ok := f.walls[n]
	return ok
}

func (f *Field) takeFood(n Coord) bool {
	if !f.isFood(n) {
		return false
	}
	delete(f.food, n)
	return true
}

//isWalkable normalizes c itself: outside a non-wrapping axis is not walkable
func (f *Field) isWalkable(c Coord) bool {
	n, ok := f.grid.Normalize(c)
	return ok && !f.isWall(n)
}

func (f *Field) hasOtherEntity(n Coord, self *Entity) bool {
	for _, e := range f.entities {
		if e != self && e.position == n {
			return true
		}
	}
	return false
}
