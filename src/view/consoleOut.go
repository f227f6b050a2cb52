package view

import (
	"fmt"
	"sort"
	"time"

	"github.com/sirupsen/logrus"

	"evolife/src/universe"
	"evolife/src/world"
)

//progressEvery is the number of steps between two progress lines
const progressEvery = 10

type ConsoleOut struct {
	u         universe.Universe
	startTime time.Time
	lastStep  int
}

func NewConsoleOut() *ConsoleOut {
	return &ConsoleOut{lastStep: -1}
}

func (c *ConsoleOut) Refresh() {
	st := c.u.Status()
	if st.IterationNum == c.lastStep {
		return
	}
	c.lastStep = st.IterationNum
	if st.IterationNum%progressEvery == 0 {
		logrus.Infof("[tick %07d] population=%d food=%d", st.IterationNum, st.Population, st.Food)
	}
}

//Finished logs the summary of a finished run
func (c *ConsoleOut) Finished(st universe.Status) {
	c.printHashData("Finished:", map[string]interface{}{
		"Last step":  st.IterationNum,
		"Population": st.Population,
		"Food":       st.Food,
		"Total time": time.Since(c.startTime).Round(time.Millisecond),
	})
}

func (c *ConsoleOut) Register(u universe.Universe) {
	c.u = u
	cfg := u.Config()
	o := u.Options()
	data := map[string]interface{}{
		"Dimension": fmtDimension(cfg),
		"Wrap":      [2]bool{cfg.WrapX, cfg.WrapY},
		"Seed":      cfg.Seed,
		"Engine":    o.Engine,
		"Max steps": o.MaxSteps,
		"Commands":  commandSet(cfg),
	}
	for _, p := range world.Params {
		data[p.Title] = p.Get(&cfg)
	}
	c.printHashData("Running configuration:", data)
}

func (c *ConsoleOut) Start() {
	c.startTime = time.Now()
	logrus.Info("Simulation started...")
}

func (c *ConsoleOut) printHashData(title string, d map[string]interface{}) {
	logrus.Info(title)
	propNames := make([]string, 0, len(d))
	for k := range d {
		propNames = append(propNames, k)
	}
	sort.Strings(propNames)
	for _, propName := range propNames {
		logrus.Infof("  %s: %v", propName, d[propName])
	}
}

func fmtDimension(cfg world.Config) string {
	return fmt.Sprintf("%v x %v", cfg.Width, cfg.Height)
}

func commandSet(cfg world.Config) string {
	if cfg.ExtendedCommands {
		return "extended"
	}
	return "basic"
}
