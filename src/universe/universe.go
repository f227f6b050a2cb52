package universe

import "evolife/src/world"

type Universe interface {
	Status() Status
	Options() Options
	Config() world.Config
	Snapshot() world.Snapshot
	StateCh() chan Status
	RegisterViewer(v Viewer)
	SetSpeed(ticksPerSecond int) error
	SetParam(name string, value int) error
	Run()
	Stop()
	Step()
	Reset()
	Close()
}
