package main

import (
	"io"
	"os"
	"os/signal"
	"sort"
	"strconv"
	"strings"

	"github.com/integrii/flaggy"
	"github.com/sirupsen/logrus"

	"evolife/src/stats"
	"evolife/src/universe"
	"evolife/src/view"
	"evolife/src/world"
)

var (
	engines = map[string]func(field *world.Field, o *universe.Options, stateCh chan universe.Status) universe.Universe{
		"base": func(field *world.Field, o *universe.Options, stateCh chan universe.Status) universe.Universe {
			return universe.NewBaseUniverse(field, o, stateCh)
		},
		"snapshot": universe.NewSnapshotUniverse,
	}
)

type EnvOptions struct {
	interactive bool
	basic       bool
	engine      string
	configPath  string
	width       int
	height      int
	seed        string
	stats       []string
	logLevel    string
	logFile     string
}

func main() {
	eo, uo := initOptions()
	closeLog := initLogging(eo)
	defer closeLog()

	cfg := loadConfig(eo)
	uo.Speed = cfg.Speed
	field, err := world.NewField(cfg)
	if err != nil {
		logrus.Fatalf("invalid configuration: %v", err)
	}
	field.Reset()

	var stateCh chan universe.Status

	if !eo.interactive {
		stateCh = make(chan universe.Status, 10) //the buffered channel to getting the universe status
	}

	u := engines[eo.engine](field, uo, stateCh)

	rec := stats.NewRecorder()
	for _, s := range eo.stats {
		path, pattern, ok := strings.Cut(s, ":")
		if !ok || path == "" {
			logrus.Fatalf("statistics file must be given as file:pattern, got %q", s)
		}
		if err := rec.AddFile(path, pattern); err != nil {
			logrus.Fatalf("statistics file %s: %v", path, err)
		}
	}
	if rec.Len() > 0 {
		u.RegisterViewer(rec)
		rec.Sample(u.Snapshot())
	}

	if eo.interactive {
		v := view.NewViewTerminal()
		u.RegisterViewer(v)
		v.Start()
	} else {
		runBatch(u, stateCh)
	}
	//the last tick is recorded before Close returns
	u.Close()

	if err := rec.Close(); err != nil {
		logrus.Errorf("closing statistics: %v", err)
	}
}

//runBatch runs the universe until it finishes or the process is interrupted
func runBatch(u universe.Universe, stateCh chan universe.Status) {
	v := view.NewConsoleOut()
	u.RegisterViewer(v)
	v.Start()

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, os.Interrupt)
	defer signal.Stop(sigCh)

	u.Run()
	for {
		select {
		case st := <-stateCh:
			if st.RunningMode == universe.RunningStateFinished {
				v.Finished(st)
				return
			}
		case <-sigCh:
			logrus.Warn("interrupted")
			v.Finished(u.Status())
			return
		}
	}
}

func initOptions() (eo *EnvOptions, uo *universe.Options) {

	uo = &universe.DefaultUniverseOptions
	engineNames := make([]string, 0, len(engines))
	for k := range engines {
		engineNames = append(engineNames, k)
	}
	sort.Strings(engineNames)
	eo = &EnvOptions{engine: universe.DefEngine, logLevel: "info"}

	flaggy.SetName("evolife")
	flaggy.SetDescription("Entities running tiny programs compete for food, reproduce and mutate on a grid")
	flaggy.DefaultParser.ShowHelpOnUnexpected = true
	flaggy.DefaultParser.AdditionalHelpAppend = "\nStatistics pattern escapes:\n" + stats.EscapeHelp
	flaggy.String(&eo.configPath, "c", "config", "YAML file with simulation parameters")
	flaggy.Int(&eo.width, "x", "width", "Width of a simulation field, overrides the config file")
	flaggy.Int(&eo.height, "y", "height", "Height of a simulation field, overrides the config file")
	flaggy.String(&eo.seed, "s", "seed", "Seed of the random generator, overrides the config file")
	flaggy.Int(&uo.MaxSteps, "m", "maxSteps", "Limit the simulation to maxSteps, 0 is unlimited")
	flaggy.Bool(&eo.interactive, "n", "interactive", "Start interactive mode")
	flaggy.Bool(&eo.basic, "b", "basic", "Basic variant: five commands and a wrapping field")
	flaggy.String(&eo.engine, "e", "engine", "Engine to use ["+strings.Join(engineNames, "|")+"]")
	flaggy.StringSlice(&eo.stats, "t", "stats", "Write statistics as file:pattern, may be repeated")
	flaggy.String(&eo.logLevel, "l", "log", "Log level [debug|info|warn|error]")
	flaggy.String(&eo.logFile, "f", "logFile", "Write the log to a file, the interactive mode discards it otherwise")

	flaggy.Parse()

	if _, ok := engines[eo.engine]; !ok {
		flaggy.ShowHelpAndExit("unknown engine")
	}

	return
}

//initLogging sets the level and the destination of the log, the returned func closes it
func initLogging(eo *EnvOptions) func() {
	level, err := logrus.ParseLevel(eo.logLevel)
	if err != nil {
		logrus.Fatalf("invalid log level: %v", err)
	}
	logrus.SetLevel(level)

	switch {
	case eo.logFile != "":
		fd, err := os.OpenFile(eo.logFile, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
		if err != nil {
			logrus.Fatalf("opening log file: %v", err)
		}
		logrus.SetOutput(fd)
		return func() { _ = fd.Close() }
	case eo.interactive:
		//the terminal belongs to the user interface
		logrus.SetOutput(io.Discard)
	}
	return func() {}
}

//loadConfig reads the config file if given and applies the command line overrides
func loadConfig(eo *EnvOptions) world.Config {
	cfg := world.DefaultConfig
	if eo.configPath != "" {
		var err error
		if cfg, err = world.LoadConfig(eo.configPath); err != nil {
			logrus.Fatalf("%v", err)
		}
	}
	if eo.width != 0 {
		cfg.Width = eo.width
	}
	if eo.height != 0 {
		cfg.Height = eo.height
	}
	if eo.seed != "" {
		seed, err := strconv.ParseInt(eo.seed, 10, 64)
		if err != nil {
			logrus.Fatalf("invalid seed %q: %v", eo.seed, err)
		}
		cfg.Seed = seed
	}
	if eo.basic {
		cfg.ExtendedCommands = false
		cfg.WrapX, cfg.WrapY = true, true
	}
	if err := cfg.Validate(); err != nil {
		logrus.Fatalf("invalid configuration: %v", err)
	}
	return cfg
}
