package world

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func smallRandomConfig(seed int64) Config {
	cfg := DefaultConfig
	cfg.Width = 30
	cfg.Height = 20
	cfg.Population = 25
	cfg.InitialWalls = 5
	cfg.RandomPrograms = true
	cfg.ReproductionEnergy = 150
	cfg.InitialEnergy = 120
	cfg.Seed = seed
	return cfg
}

func TestField_ResetSettlesConfiguredWorld(t *testing.T) {
	cfg := smallRandomConfig(1)
	f := newTestField(t, cfg)

	f.Reset()
	s := f.Snapshot()

	assert.Zero(t, s.Step)
	assert.Len(t, s.Entities, cfg.Population)
	assert.LessOrEqual(t, len(s.Food), 600*cfg.InitialFood/Percent)
	assert.NotEmpty(t, s.Food)
	assert.LessOrEqual(t, len(s.Walls), 600*cfg.InitialWalls/Percent)
	grid := f.Grid()
	for _, e := range s.Entities {
		assert.True(t, grid.Contains(e.Position))
		assert.Equal(t, cfg.InitialEnergy, e.Energy)
		assert.NotEmpty(t, e.Program)
	}
	for _, c := range append(s.Food, s.Walls...) {
		assert.True(t, grid.Contains(c))
	}
}

func TestField_ResetClearsEverything(t *testing.T) {
	cfg := testConfig()
	f := newTestField(t, cfg)
	require.NoError(t, f.AddFood(Coord{1, 1}))
	require.NoError(t, f.AddWall(Coord{2, 2}))
	addEntity(t, f, 10, Coord{3, 3}, Up, Sleep)
	f.Tick()
	f.Tick()

	f.Reset()

	s := f.Snapshot()
	assert.Zero(t, s.Step)
	assert.Empty(t, s.Food)
	assert.Empty(t, s.Walls)
	assert.Empty(t, s.Entities)
}

func TestField_ResetRestartsRegrowthCadence(t *testing.T) {
	//GIVEN a field in the middle of a regrowth cadence
	cfg := testConfig()
	cfg.Width, cfg.Height = 100, 100
	cfg.RegrowthRate = 5
	f := newTestField(t, cfg)
	for i := 0; i < 3; i++ {
		f.Tick()
	}

	//WHEN it is reset
	f.Reset()
	require.Zero(t, f.FoodCount())

	//THEN the very next tick injects food again
	f.Tick()
	assert.Greater(t, f.FoodCount(), 0)
}

func TestField_SeedProgramForInitialPopulation(t *testing.T) {
	cfg := testConfig()
	cfg.Population = 3
	f := newTestField(t, cfg)

	f.Reset()

	for _, e := range f.Snapshot().Entities {
		assert.Equal(t, DefSeedProgram, e.Program)
	}
}

func TestField_DeterministicReplay(t *testing.T) {
	//GIVEN two fields built from the same seed
	a := newTestField(t, smallRandomConfig(42))
	b := newTestField(t, smallRandomConfig(42))
	a.Reset()
	b.Reset()
	require.Equal(t, a.Snapshot(), b.Snapshot())

	//WHEN both run the same number of ticks
	for i := 0; i < 300; i++ {
		ra := a.Tick()
		rb := b.Tick()

		//THEN every intermediate state is identical
		require.Equal(t, ra, rb, "tick %d", i+1)
		require.Equal(t, a.Snapshot(), b.Snapshot(), "tick %d", i+1)
	}
}

func TestField_DifferentSeedsDiverge(t *testing.T) {
	a := newTestField(t, smallRandomConfig(1))
	b := newTestField(t, smallRandomConfig(2))
	a.Reset()
	b.Reset()
	assert.NotEqual(t, a.Snapshot(), b.Snapshot())
}

func TestField_ReseedReplaysReset(t *testing.T) {
	f := newTestField(t, smallRandomConfig(9))
	f.Reset()
	first := f.Snapshot()
	for i := 0; i < 20; i++ {
		f.Tick()
	}

	f.Reseed(9)
	f.Reset()
	again := f.Snapshot()

	assert.Equal(t, first.Entities, again.Entities)
	assert.Equal(t, first.Food, again.Food)
	assert.Equal(t, first.Walls, again.Walls)
	assert.Greater(t, again.Version, first.Version)
}

func TestField_AddOutsideNonWrappingField(t *testing.T) {
	cfg := testConfig()
	cfg.WrapX = false
	f := newTestField(t, cfg)

	assert.Error(t, f.AddFood(Coord{-1, 0}))
	assert.Error(t, f.AddWall(Coord{10, 0}))
	assert.Error(t, f.AddEntity(NewEntity(1, nil, Coord{11, 0}, Up)))

	require.NoError(t, f.AddFood(Coord{0, -1}))
	assert.True(t, f.IsFood(Coord{0, 9}), "stored coordinates are normalized")
}

func TestField_SnapshotIsACopy(t *testing.T) {
	f := newTestField(t, testConfig())
	addEntity(t, f, 100, Coord{0, 0}, Right, Move)
	s := f.Snapshot()

	f.Tick()

	assert.Equal(t, Coord{0, 0}, s.Entities[0].Position)
	assert.Equal(t, 100, s.Entities[0].Energy)
	assert.Equal(t, "MOVE", s.Entities[0].Program)
	assert.Greater(t, f.Version(), s.Version)
}

func TestField_ConcurrentReadersSeeWholeTicks(t *testing.T) {
	f := newTestField(t, smallRandomConfig(3))
	f.Reset()
	done := make(chan struct{})
	go func() {
		defer close(done)
		for i := 0; i < 200; i++ {
			f.Tick()
		}
	}()
	for {
		select {
		case <-done:
			assert.Equal(t, 200, f.Step())
			return
		default:
			s := f.Snapshot()
			assert.GreaterOrEqual(t, s.Step, 0)
		}
	}
}

func BenchmarkField_Tick(b *testing.B) {
	cfg := DefaultConfig
	cfg.Population = 500
	cfg.RandomPrograms = true
	f, err := NewField(cfg)
	if err != nil {
		b.Fatal(err)
	}
	f.Reset()
	b.ReportAllocs()
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		if f.Population() == 0 {
			b.StopTimer()
			f.Reset()
			b.StartTimer()
		}
		f.Tick()
	}
}
