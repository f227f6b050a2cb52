package universe

import (
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"evolife/src/world"
)

func quietConfig() world.Config {
	cfg := world.DefaultConfig
	cfg.Width = 10
	cfg.Height = 10
	cfg.InitialFood = 0
	cfg.InitialWalls = 0
	cfg.Population = 0
	cfg.RegrowthRate = 0
	cfg.ReproductionEnergy = 10000
	return cfg
}

func newField(t *testing.T, cfg world.Config) *world.Field {
	t.Helper()
	f, err := world.NewField(cfg)
	require.NoError(t, err)
	return f
}

func waitFor(t *testing.T, ch chan Status, mode RunningState) Status {
	t.Helper()
	timeout := time.After(5 * time.Second)
	for {
		select {
		case st := <-ch:
			if st.RunningMode == mode {
				return st
			}
		case <-timeout:
			t.Fatalf("timeout waiting for running mode %v", mode)
		}
	}
}

type countingViewer struct {
	sync.Mutex
	u         Universe
	refreshes int
	lastStep  int
}

func (c *countingViewer) Refresh() {
	c.Lock()
	defer c.Unlock()
	c.refreshes++
	c.lastStep = c.u.Snapshot().Step
}

func (c *countingViewer) Register(u Universe) { c.u = u }

func (c *countingViewer) Start() {}

func TestUniverse_StepTicksOnce(t *testing.T) {
	for _, name := range []string{"base", "snapshot"} {
		t.Run(name, func(t *testing.T) {
			f := newField(t, quietConfig())
			require.NoError(t, f.AddEntity(world.NewEntity(100, world.NewProgram(world.Move), world.Coord{}, world.Right)))
			ch := make(chan Status, 10)
			u := engines[name](f, newUniverseOptions(), ch)
			defer u.Close()
			v := &countingViewer{}
			u.RegisterViewer(v)

			u.Step()
			st := waitFor(t, ch, RunningStateManual)

			assert.Equal(t, 1, st.IterationNum)
			assert.Equal(t, 1, st.Population)
			assert.Equal(t, 1, u.Snapshot().Step)
			assert.Equal(t, world.Coord{X: 1}, u.Snapshot().Entities[0].Position)
			v.Lock()
			assert.Equal(t, 1, v.refreshes)
			assert.Equal(t, 1, v.lastStep)
			v.Unlock()
		})
	}
}

func TestUniverse_RunUntilMaxSteps(t *testing.T) {
	f := newField(t, quietConfig())
	require.NoError(t, f.AddEntity(world.NewEntity(1000, world.NewProgram(world.Sleep), world.Coord{}, world.Up)))
	ch := make(chan Status, 10)
	o := newUniverseOptions()
	o.MaxSteps = 5
	u := NewBaseUniverse(f, o, ch)
	defer u.Close()

	u.Run()
	st := waitFor(t, ch, RunningStateFinished)

	assert.Equal(t, 5, st.IterationNum)
	assert.Equal(t, 5, f.Step())
	assert.Equal(t, RunningStateFinished, u.Status().RunningMode)
}

func TestUniverse_FinishesOnExtinction(t *testing.T) {
	cfg := quietConfig()
	cfg.EnergyPerStep = 5
	f := newField(t, cfg)
	require.NoError(t, f.AddEntity(world.NewEntity(12, world.NewProgram(world.Sleep), world.Coord{}, world.Up)))
	ch := make(chan Status, 10)
	u := NewSnapshotUniverse(f, newUniverseOptions(), ch)
	defer u.Close()

	u.Run()
	st := waitFor(t, ch, RunningStateFinished)

	assert.Equal(t, 3, st.IterationNum)
	assert.Zero(t, st.Population)
	assert.Equal(t, 1, st.Deaths)
}

func TestUniverse_StopPausesRun(t *testing.T) {
	f := newField(t, quietConfig())
	require.NoError(t, f.AddEntity(world.NewEntity(100000, world.NewProgram(world.Sleep), world.Coord{}, world.Up)))
	ch := make(chan Status, 10)
	u := NewBaseUniverse(f, newUniverseOptions(), ch)
	defer u.Close()

	u.Run()
	waitFor(t, ch, RunningStateRun)
	u.Stop()
	waitFor(t, ch, RunningStateManual)
	time.Sleep(50 * time.Millisecond)
	paused := f.Step()
	time.Sleep(50 * time.Millisecond)

	assert.Equal(t, paused, f.Step(), "no ticks while paused")
}

func TestUniverse_ResetSettlesAgain(t *testing.T) {
	cfg := quietConfig()
	cfg.Population = 4
	f := newField(t, cfg)
	f.Reset()
	ch := make(chan Status, 10)
	u := NewSnapshotUniverse(f, newUniverseOptions(), ch)
	defer u.Close()

	u.Step()
	waitFor(t, ch, RunningStateManual)
	u.Reset()
	st := waitFor(t, ch, RunningStateManual)

	assert.Zero(t, st.IterationNum)
	assert.Equal(t, 4, st.Population)
	assert.Zero(t, u.Snapshot().Step)
}

func TestUniverse_SetParam(t *testing.T) {
	u := NewBaseUniverse(newField(t, quietConfig()), nil, nil)
	defer u.Close()

	require.NoError(t, u.SetParam("mutation_rate", 10))
	assert.Equal(t, 10, u.Config().MutationRate)

	require.NoError(t, u.SetParam("speed", 50))
	assert.Equal(t, 50, u.Options().Speed)
	assert.Equal(t, 50, u.Config().Speed)
	assert.Equal(t, 20*time.Millisecond, u.interval())

	assert.Error(t, u.SetSpeed(0))
	assert.Error(t, u.SetParam("height", 3))
	assert.Equal(t, "base", u.Options().Engine)
}

func TestUniverse_CloseWaitsForTheMainLoop(t *testing.T) {
	//GIVEN a running universe whose status channel nobody reads
	f := newField(t, quietConfig())
	require.NoError(t, f.AddEntity(world.NewEntity(100000, world.NewProgram(world.Sleep), world.Coord{}, world.Up)))
	ch := make(chan Status, 1)
	u := NewBaseUniverse(f, newUniverseOptions(), ch)
	v := &countingViewer{}
	u.RegisterViewer(v)
	u.Run()
	time.Sleep(30 * time.Millisecond)

	//WHEN it is closed
	closed := make(chan struct{})
	go func() {
		u.Close()
		close(closed)
	}()
	select {
	case <-closed:
	case <-time.After(5 * time.Second):
		t.Fatal("Close did not return")
	}

	//THEN no tick and no refresh happens afterwards
	v.Lock()
	refreshes := v.refreshes
	v.Unlock()
	step := f.Step()
	time.Sleep(50 * time.Millisecond)
	v.Lock()
	assert.Equal(t, refreshes, v.refreshes)
	v.Unlock()
	assert.Equal(t, step, f.Step())

	//AND commands and a second Close return immediately
	u.Step()
	u.Close()
}

func TestRunningState_IsTyped(t *testing.T) {
	var got interface{} = RunningStateFinished
	assert.IsType(t, RunningState(0), got)
	assert.Equal(t, []RunningState{0, 1, 2, 3},
		[]RunningState{RunningStateManual, RunningStateStep, RunningStateRun, RunningStateFinished})
}
