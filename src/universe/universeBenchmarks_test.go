package universe

import (
	"sort"
	"testing"

	"evolife/src/world"
)

var (
	engines = map[string]func(f *world.Field, o *Options, stateCh chan Status) Universe{
		"base": func(f *world.Field, o *Options, stateCh chan Status) Universe {
			return NewBaseUniverse(f, o, stateCh)
		},
		"snapshot": NewSnapshotUniverse,
	}
)

const (
	width  = 200
	height = 200
)

func benchField(b *testing.B) *world.Field {
	cfg := world.DefaultConfig
	cfg.Width = width
	cfg.Height = height
	cfg.Population = 400
	cfg.RandomPrograms = true
	f, err := world.NewField(cfg)
	if err != nil {
		b.Fatal(err)
	}
	f.Reset()
	return f
}

func universeStep(u Universe, b *testing.B) {
	stateCh := u.StateCh()
	b.ReportAllocs()
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		if u.Status().Population == 0 {
			b.StopTimer()
			u.Reset()
			<-stateCh //wait for finish
			b.StartTimer()
		}
		u.Step()
		for {
			st := <-stateCh
			if st.RunningMode == RunningStateManual || st.RunningMode == RunningStateFinished {
				break
			}
		}
		_ = u.Snapshot()
	}
	u.Close()
}

func newStateCh() chan Status {
	return make(chan Status, 10)
}

func newUniverseOptions() *Options {
	o := DefaultUniverseOptions
	o.Speed = 100
	return &o
}

func engineNames() (engineNames []string) {
	engineNames = make([]string, 0, len(engines))
	for k := range engines {
		engineNames = append(engineNames, k)
	}
	sort.Strings(engineNames)
	return
}

func Benchmark_Step(b *testing.B) {
	for _, e := range engineNames() {
		b.Run(e, func(b *testing.B) {
			u := engines[e](benchField(b), newUniverseOptions(), newStateCh())
			universeStep(u, b)
		})
	}
}
