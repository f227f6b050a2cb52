package universe

import (
	"sync"
	"time"

	"github.com/sirupsen/logrus"

	"evolife/src/world"
)

//Options represents the driving loop's configurable options
type Options struct {
	Speed    int //ticks per second
	MaxSteps int //0 means unlimited
	Engine   string
}

//Status represents the status of the Universe at concrete moment
type Status struct {
	IterationNum  int
	RunningMode   RunningState
	Population    int
	Food          int
	Births        int
	Deaths        int
	IterationTime time.Duration
}

//Viewer is the interface to any Viewer - the object who can display simulation data or control the engine
type Viewer interface {
	Refresh()
	Register(u Universe)
	Start()
}

//The universe running status at the concrete moment
type RunningState int

//default options
const (
	DefMaxSteps = 0
	DefEngine   = "base"
)

const (
	RunningStateManual RunningState = iota
	RunningStateStep
	RunningStateRun
	RunningStateFinished
)

var DefaultUniverseOptions = Options{
	Speed:    world.DefSpeed,
	MaxSteps: DefMaxSteps,
	Engine:   DefEngine,
}

//BaseUniverse is the base driving loop around a world.Field
//implements Universe interface
//other engines redefine how observers get their snapshot (snapshot and publish funcs)
type BaseUniverse struct {
	options struct {
		Options
		sync.Mutex
	}
	state struct {
		Status
		sync.Mutex
	}
	field     *world.Field
	stateCh   chan Status
	views     []Viewer
	controlCh chan func()
	closeCh   chan struct{}
	closeOnce sync.Once
	quitCh    chan struct{}
	snapshot  func() world.Snapshot
	publish   func()
}

//NewBaseUniverse creates the BaseUniverse instance driving field
func NewBaseUniverse(field *world.Field, o *Options, stateCh chan Status) *BaseUniverse {
	if o == nil {
		o = &DefaultUniverseOptions
	}
	u := BaseUniverse{
		field:     field,
		controlCh: make(chan func(), 1),
		closeCh:   make(chan struct{}),
		quitCh:    make(chan struct{}),
		stateCh:   stateCh,
	}
	u.options.Options = *o
	if u.options.Speed < 1 {
		u.options.Speed = 1
	}
	u.options.Engine = "base"
	//snapshot and publish can be redefined by successor
	u.snapshot = field.Snapshot
	u.publish = func() {}

	u.updateStatus(world.TickReport{Step: field.Step(), Population: field.Population(), Food: field.FoodCount()}, 0)
	go u.mainLoop()
	return &u
}

//RegisterViewer registers the viewer - the universe will call the viewer when the state is changed
func (u *BaseUniverse) RegisterViewer(v Viewer) {
	u.views = append(u.views, v)
	v.Register(u)
}

//StateCh returns the channel with the universe's status updates
func (u *BaseUniverse) StateCh() chan Status {
	return u.stateCh
}

//Status returns current universe status represented by Status struct
func (u *BaseUniverse) Status() Status {
	u.state.Lock()
	defer u.state.Unlock()
	return u.state.Status
}

//Options returns current driving loop configuration represented by Options struct
func (u *BaseUniverse) Options() Options {
	u.options.Lock()
	defer u.options.Unlock()
	return u.options.Options
}

//Config returns the current simulation parameters
func (u *BaseUniverse) Config() world.Config {
	cfg := u.field.Config()
	cfg.Speed = u.Options().Speed
	return cfg
}

//Snapshot returns the last complete state of the field
func (u *BaseUniverse) Snapshot() world.Snapshot {
	return u.snapshot()
}

//SetSpeed changes the ticks per second, takes effect after the current pause
func (u *BaseUniverse) SetSpeed(ticksPerSecond int) error {
	p, err := world.LookupParam("speed")
	if err != nil {
		return err
	}
	var cfg world.Config
	if err := p.Set(&cfg, ticksPerSecond); err != nil {
		return err
	}
	u.options.Lock()
	u.options.Speed = ticksPerSecond
	u.options.Unlock()
	return nil
}

//SetParam changes a tunable simulation parameter between two ticks
func (u *BaseUniverse) SetParam(name string, value int) error {
	if name == "speed" {
		return u.SetSpeed(value)
	}
	if err := u.field.SetParam(name, value); err != nil {
		return err
	}
	logrus.Debugf("parameter %s set to %d", name, value)
	return nil
}

//Run starts the universe simulation, returns immediately
func (u *BaseUniverse) Run() {
	u.send(u.run)
}

//Stop pauses the universe simulation, returns immediately
//the Status struct will be written the stateCh on finish
func (u *BaseUniverse) Stop() {
	u.send(u.stop)
}

//Step do one simulation step, returns immediately
//the Status struct will be written to the stateCh on start and on finish
func (u *BaseUniverse) Step() {
	u.send(u.step)
}

//Reset settles the field again and resets all counters, returns immediately
//the Status struct will be written to the stateCh on finish
func (u *BaseUniverse) Reset() {
	u.send(u.reset)
}

//Close stops the main loop and returns after it exited
//a tick in progress is completed and its viewers are refreshed before Close returns
//no viewer is called after that, calling Close again does nothing
func (u *BaseUniverse) Close() {
	u.closeOnce.Do(func() { close(u.closeCh) })
	<-u.quitCh
}

//send queues cmd for the main loop, commands after Close are dropped
func (u *BaseUniverse) send(cmd func()) {
	select {
	case u.controlCh <- cmd:
	case <-u.quitCh:
	}
}

//mainLoop - the main cycle, should start as a goroutine
//waits for command and executes
func (u *BaseUniverse) mainLoop() {
	defer close(u.quitCh)
	for {
		//close wins over pending commands
		select {
		case <-u.closeCh:
			return
		default:
		}
		select {
		case cmd := <-u.controlCh:
			cmd()
		case <-u.closeCh:
			return
		}
	}
}

//interval returns the pause between two ticks
func (u *BaseUniverse) interval() time.Duration {
	return time.Second / time.Duration(u.Options().Speed)
}

func (u *BaseUniverse) runningMode() RunningState {
	u.state.Lock()
	defer u.state.Unlock()
	return u.state.RunningMode
}

//switchRunningState switch the state of the universe to RunningState
//also writes the new state to the stateCh to signal upper control software
func (u *BaseUniverse) switchRunningState(to RunningState) {
	u.state.Lock()
	u.state.RunningMode = to
	st := u.state.Status
	u.state.Unlock()
	if u.stateCh != nil {
		//nobody may read the channel any more while closing
		select {
		case u.stateCh <- st:
		case <-u.closeCh:
		}
	}
}

func (u *BaseUniverse) updateStatus(r world.TickReport, d time.Duration) {
	u.state.Lock()
	u.state.IterationNum = r.Step
	u.state.Population = r.Population
	u.state.Food = r.Food
	u.state.Births = r.Births
	u.state.Deaths = r.Deaths
	u.state.IterationTime = d
	u.state.Unlock()
}

//run starts the universe simulation
//simulation will stop on Stop() calling or when the boundary conditions are reached
func (u *BaseUniverse) run() {
	mode := u.runningMode()
	if mode == RunningStateRun || mode == RunningStateFinished {
		return
	}
	u.switchRunningState(RunningStateRun)
	go func() {
		done := make(chan bool, 1)
		for u.runningMode() == RunningStateRun {
			select {
			case u.controlCh <- func() {
				//the mode may have changed while this closure was queued
				if u.runningMode() == RunningStateRun {
					u.step()
				}
				done <- true
			}:
			case <-u.quitCh:
				return
			}
			select {
			case <-done:
			case <-u.quitCh:
				return
			}
			time.Sleep(u.interval())
		}
	}()
}

//stop stops the universe running cycle
func (u *BaseUniverse) stop() {
	if u.runningMode() == RunningStateRun {
		u.switchRunningState(RunningStateManual)
	}
}

//step does one tick of the field
//the universe finishes when the population is extinct or maxSteps is reached
func (u *BaseUniverse) step() {
	rm := u.runningMode()
	if rm == RunningStateFinished {
		u.switchRunningState(RunningStateFinished)
		return
	}
	finished := false
	defer func() {
		u.refreshView()
		if finished {
			u.switchRunningState(RunningStateFinished)
		} else {
			u.switchRunningState(rm)
		}
	}()

	maxSteps := u.Options().MaxSteps
	if maxSteps != 0 && u.field.Step() >= maxSteps {
		finished = true
		return
	}

	u.switchRunningState(RunningStateStep)
	start := time.Now()
	report := u.field.Tick()
	u.updateStatus(report, time.Since(start))
	u.publish()
	logrus.Debugf("[tick %07d] population=%d (+%d/-%d) food=%d",
		report.Step, report.Population, report.Births, report.Deaths, report.Food)

	if report.Population == 0 {
		logrus.Infof("population extinct at step %d", report.Step)
		finished = true
	} else if maxSteps != 0 && report.Step >= maxSteps {
		finished = true
	}
}

//reset settles the field again, reset all counters
func (u *BaseUniverse) reset() {
	u.field.Reset()
	u.updateStatus(world.TickReport{Population: u.field.Population(), Food: u.field.FoodCount()}, 0)
	u.publish()
	logrus.Infof("field reset: population=%d food=%d", u.field.Population(), u.field.FoodCount())
	u.refreshView()
	u.switchRunningState(RunningStateManual)
}

//refreshView calls Refresh event for all registered views
func (u *BaseUniverse) refreshView() {
	for _, v := range u.views {
		v.Refresh()
	}
}
