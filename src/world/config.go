package world

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"

	"gopkg.in/yaml.v3"
)

var (
	//ErrUnknownParam is returned for a parameter name missing from Params
	ErrUnknownParam = errors.New("unknown parameter")
	//ErrImmutableParam is returned when a fixed parameter is changed on a running field
	ErrImmutableParam = errors.New("parameter can not be changed during a run")
)

//default configuration
const (
	DefWidth              = 100
	DefHeight             = 100
	DefInitialFood        = 25
	DefInitialWalls       = 1
	DefPopulation         = 10
	DefInitialEnergy      = 1000
	DefMutationRate       = 50
	DefRegrowthRate       = 40
	DefEnergyPerFood      = 10
	DefEnergyPerStep      = 1
	DefReproductionEnergy = 100
	DefSpeed              = 20
	DefSeed               = 42
	DefSeedProgram        = "LEFT MOVE RIGHT MOVE MOVE"

	//RandomProgramMaxLen bounds the length of programs drawn for the initial population
	RandomProgramMaxLen = 8
)

//Config holds every parameter of a simulation run
type Config struct {
	Width              int    `yaml:"width"`
	Height             int    `yaml:"height"`
	WrapX              bool   `yaml:"wrap_x"`
	WrapY              bool   `yaml:"wrap_y"`
	InitialFood        int    `yaml:"initial_food"`
	InitialWalls       int    `yaml:"initial_walls"`
	Population         int    `yaml:"population"`
	InitialEnergy      int    `yaml:"initial_energy"`
	ExtendedCommands   bool   `yaml:"extended_commands"`
	RandomPrograms     bool   `yaml:"random_programs"`
	SeedProgram        string `yaml:"seed_program"`
	MutationRate       int    `yaml:"mutation_rate"`
	RegrowthRate       int    `yaml:"regrowth_rate"`
	EnergyPerFood      int    `yaml:"energy_per_food"`
	EnergyPerStep      int    `yaml:"energy_per_step"`
	ReproductionEnergy int    `yaml:"reproduction_energy"`
	Speed              int    `yaml:"speed"`
	Seed               int64  `yaml:"seed"`
}

//DefaultConfig is the configuration used when nothing else is given
var DefaultConfig = Config{
	Width:              DefWidth,
	Height:             DefHeight,
	WrapX:              true,
	WrapY:              true,
	InitialFood:        DefInitialFood,
	InitialWalls:       DefInitialWalls,
	Population:         DefPopulation,
	InitialEnergy:      DefInitialEnergy,
	ExtendedCommands:   true,
	SeedProgram:        DefSeedProgram,
	MutationRate:       DefMutationRate,
	RegrowthRate:       DefRegrowthRate,
	EnergyPerFood:      DefEnergyPerFood,
	EnergyPerStep:      DefEnergyPerStep,
	ReproductionEnergy: DefReproductionEnergy,
	Speed:              DefSpeed,
	Seed:               DefSeed,
}

//Param describes one bounded integer parameter of Config
type Param struct {
	Name    string
	Title   string
	Min     int
	Default int
	Max     int
	//Mutable parameters may be changed between two ticks
	Mutable bool
	ref     func(c *Config) *int
}

//Params lists the integer parameters in display order
var Params = []Param{
	{"width", "Field width", 1, DefWidth, 512, false, func(c *Config) *int { return &c.Width }},
	{"height", "Field height", 1, DefHeight, 512, false, func(c *Config) *int { return &c.Height }},
	{"initial_food", "Initial food on the field in percent", 0, DefInitialFood, 100, false, func(c *Config) *int { return &c.InitialFood }},
	{"initial_walls", "Initial walls on the field in percent", 0, DefInitialWalls, 100, false, func(c *Config) *int { return &c.InitialWalls }},
	{"population", "Initial population", 0, DefPopulation, 10000, false, func(c *Config) *int { return &c.Population }},
	{"initial_energy", "Initial energy", 1, DefInitialEnergy, 100000, false, func(c *Config) *int { return &c.InitialEnergy }},
	{"speed", "Simulation speed in ticks per second", 1, DefSpeed, 100, true, func(c *Config) *int { return &c.Speed }},
	{"mutation_rate", "Mutation rate in percent", 0, DefMutationRate, 100, true, func(c *Config) *int { return &c.MutationRate }},
	{"regrowth_rate", "Regrowth rate in food per 10 ticks", 0, DefRegrowthRate, 100, true, func(c *Config) *int { return &c.RegrowthRate }},
	{"energy_per_food", "Energy per food", 0, DefEnergyPerFood, 100, true, func(c *Config) *int { return &c.EnergyPerFood }},
	{"energy_per_step", "Energy loss per step", 0, DefEnergyPerStep, 10, true, func(c *Config) *int { return &c.EnergyPerStep }},
	{"reproduction_energy", "Reproduction energy", 1, DefReproductionEnergy, 10000, true, func(c *Config) *int { return &c.ReproductionEnergy }},
}

//LookupParam finds a parameter by name
func LookupParam(name string) (Param, error) {
	for _, p := range Params {
		if p.Name == name {
			return p, nil
		}
	}
	return Param{}, fmt.Errorf("%w: %q", ErrUnknownParam, name)
}

//Get returns the value of the parameter in c
func (p Param) Get(c *Config) int {
	return *p.ref(c)
}

//Set checks the bounds and stores value in c
func (p Param) Set(c *Config, value int) error {
	if value < p.Min || value > p.Max {
		return fmt.Errorf("%s must be within [%d, %d], got %d", p.Name, p.Min, p.Max, value)
	}
	*p.ref(c) = value
	return nil
}

//Grid returns the geometry described by the configuration
func (c Config) Grid() Grid {
	return Grid{Width: c.Width, Height: c.Height, WrapX: c.WrapX, WrapY: c.WrapY}
}

//Validate checks every parameter against its bounds and the seed program syntax
func (c Config) Validate() error {
	for _, p := range Params {
		if v := p.Get(&c); v < p.Min || v > p.Max {
			return fmt.Errorf("%s must be within [%d, %d], got %d", p.Name, p.Min, p.Max, v)
		}
	}
	if _, err := ParseProgram(c.SeedProgram); err != nil {
		return fmt.Errorf("seed_program: %w", err)
	}
	return nil
}

//LoadConfig reads a yaml file on top of DefaultConfig.
//Unknown keys are rejected so typos do not pass silently.
func LoadConfig(path string) (Config, error) {
	cfg := DefaultConfig
	data, err := os.ReadFile(path)
	if err != nil {
		return cfg, fmt.Errorf("reading config: %w", err)
	}
	decoder := yaml.NewDecoder(bytes.NewReader(data))
	decoder.KnownFields(true)
	if err := decoder.Decode(&cfg); err != nil && !errors.Is(err, io.EOF) {
		return cfg, fmt.Errorf("parsing config %s: %w", path, err)
	}
	if err := cfg.Validate(); err != nil {
		return cfg, fmt.Errorf("invalid config %s: %w", path, err)
	}
	return cfg, nil
}
