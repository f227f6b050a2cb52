package view

import (
	"bytes"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/jroimartin/gocui"
	"github.com/logrusorgru/aurora"
	"github.com/sirupsen/logrus"

	"evolife/src/stats"
	"evolife/src/universe"
	"evolife/src/world"
)

type keyBindings struct {
	key      interface{}
	name     string
	descr    string
	handler  func(v *gocui.View) error
	viewName string
}

type ConsoleUI struct {
	u universe.Universe
	g *gocui.Gui
	k []keyBindings

	entityFiller [world.Directions]string
	foodFiller   string
	wallFiller   string
	emptyFiller  string

	noticeMu sync.Mutex
	notice   string
}

const (
	speedStep        = 1
	mutationRateStep = 5
	censusRows       = 10
)

var (
	runningStateDescr = map[universe.RunningState]string{
		universe.RunningStateManual:   aurora.Colorize("paused", aurora.BlueFg).String(),
		universe.RunningStateStep:     "doing the step",
		universe.RunningStateRun:      aurora.Colorize("running", aurora.CyanFg).String(),
		universe.RunningStateFinished: aurora.Colorize("finished", aurora.RedFg).String(),
	}
	arrows = [world.Directions]string{
		world.Up:    "^",
		world.Right: ">",
		world.Down:  "v",
		world.Left:  "<",
	}
)

func NewViewTerminal() *ConsoleUI {

	var err error
	t := ConsoleUI{
		foodFiller:  aurora.Green("*").String(),
		wallFiller:  aurora.BrightBlack("█").String(),
		emptyFiller: " ",
	}
	for d, a := range arrows {
		t.entityFiller[d] = aurora.Yellow(a).Bold().String()
	}

	t.g, err = gocui.NewGui(gocui.OutputNormal)
	if err != nil {
		logrus.Fatalf("starting terminal: %v", err)
	}

	t.k = []keyBindings{
		{gocui.KeyCtrlC, "^C", "Exit", t.cmdQuit, ""},
		{'n', "N", "Next step", t.cmdNextStep, ""},
		{'r', "R", "Run", t.cmdRun, ""},
		{'s', "S", "Stop", t.cmdStop, ""},
		{'c', "C", "Reset", t.cmdReset, ""},
		{'+', "+", "Faster", t.cmdFaster, ""},
		{'-', "-", "Slower", t.cmdSlower, ""},
		{'M', "M", "More mutation", t.cmdMoreMutation, ""},
		{'m', "m", "Less mutation", t.cmdLessMutation, ""},
	}
	t.g.SetManagerFunc(t.layout)

	t.initKeyBindings(t.k)

	return &t
}

func (t *ConsoleUI) initKeyBindings(k []keyBindings) {
	for _, kb := range k {
		h := kb.handler
		if err := t.g.SetKeybinding(kb.viewName, kb.key, gocui.ModNone, func(gui *gocui.Gui, view *gocui.View) error { return h(view) }); err != nil {
			logrus.Fatalf("binding key %s: %v", kb.name, err)
		}
	}
}

func (t *ConsoleUI) Register(u universe.Universe) {
	t.u = u
}

//Start blocks until the user quits
func (t *ConsoleUI) Start() {
	if err := t.g.MainLoop(); err != nil && err != gocui.ErrQuit {
		logrus.Errorf("terminal main loop: %v", err)
	}
	t.g.Close()
}

func (t *ConsoleUI) Refresh() {
	s := t.u.Snapshot()
	t.renderField(s)
	t.renderCensus(s)
	t.renderConfiguration()
	t.renderStatus()
}

func (t *ConsoleUI) setNotice(format string, args ...interface{}) {
	t.noticeMu.Lock()
	t.notice = fmt.Sprintf(format, args...)
	t.noticeMu.Unlock()
	t.renderStatus()
}

func (t *ConsoleUI) renderField(s world.Snapshot) {

	t.g.Update(func(g *gocui.Gui) error {
		v, e := g.View("field")
		if e != nil {
			return e
		}
		v.Clear()

		maxW, maxH := v.Size()
		crop := s.Width > maxW || s.Height > maxH
		w, h := min(s.Width, maxW), min(s.Height, maxH)

		//cells later in the list are drawn on top: walls, food, entities
		cells := make([]string, w*h)
		put := func(c world.Coord, filler string) {
			if c.X < w && c.Y < h {
				cells[c.Y*w+c.X] = filler
			}
		}
		for _, c := range s.Walls {
			put(c, t.wallFiller)
		}
		for _, c := range s.Food {
			put(c, t.foodFiller)
		}
		for _, en := range s.Entities {
			put(en.Position, t.entityFiller[en.Direction])
		}

		var b bytes.Buffer
		for y := 0; y < h; y++ {
			if y != 0 {
				b.WriteByte('\n')
			}
			if crop && y == h-1 {
				b.WriteString(aurora.Red("The field size is larger than the viewing area").BgBlack().String())
				break
			}
			for x := 0; x < w; x++ {
				if f := cells[y*w+x]; f != "" {
					b.WriteString(f)
				} else {
					b.WriteString(t.emptyFiller)
				}
			}
		}
		_, _ = fmt.Fprint(v, b.String())
		return nil
	})
}

func (t *ConsoleUI) renderStatus() {
	s := t.u.Status()
	t.noticeMu.Lock()
	notice := t.notice
	t.noticeMu.Unlock()
	t.g.Update(func(g *gocui.Gui) error {
		if v, e := g.View("status"); e == nil {
			v.Clear()
			_, _ = fmt.Fprintln(v, t.renderProp("Step", "%v", s.IterationNum))
			_, _ = fmt.Fprintln(v, t.renderProp("Population", "%v (+%v/-%v)", s.Population, s.Births, s.Deaths))
			_, _ = fmt.Fprintln(v, t.renderProp("Food", "%v", s.Food))
			_, _ = fmt.Fprintln(v, t.renderProp("Tick time", "%v", s.IterationTime.Round(time.Microsecond)))
			_, _ = fmt.Fprintln(v, t.renderProp("Mode", "%v", runningStateDescr[s.RunningMode]))
			if notice != "" {
				_, _ = fmt.Fprintln(v, " "+aurora.Red(notice).String())
			}
		}
		return nil
	})
}

func (t *ConsoleUI) renderConfiguration() {
	//it needs to call Update when calls from goroutine
	t.g.Update(func(g *gocui.Gui) error {
		c := t.u.Config()
		o := t.u.Options()
		if v, e := g.View("configuration"); e == nil {
			v.Clear()
			_, _ = fmt.Fprintln(v, t.renderProp("Dimension", "%v x %v", c.Width, c.Height))
			_, _ = fmt.Fprintln(v, t.renderProp("Wrap", "x=%v y=%v", c.WrapX, c.WrapY))
			_, _ = fmt.Fprintln(v, t.renderProp("Seed", "%v", c.Seed))
			_, _ = fmt.Fprintln(v, t.renderProp("Engine", "%v", o.Engine))
			_, _ = fmt.Fprintln(v, t.renderProp("Max steps", "%v", o.MaxSteps))
			for _, p := range world.Params {
				if !p.Mutable {
					continue
				}
				_, _ = fmt.Fprintln(v, t.renderProp(p.Title, "%v", p.Get(&c)))
			}
		}
		return nil
	})
}

func (t *ConsoleUI) renderCensus(s world.Snapshot) {
	table := stats.Census(s)
	t.g.Update(func(g *gocui.Gui) error {
		if v, e := g.View("census"); e == nil {
			v.Clear()
			for i, pc := range table {
				if i == censusRows {
					_, _ = fmt.Fprintf(v, " ... %v more\n", len(table)-censusRows)
					break
				}
				_, _ = fmt.Fprintf(v, " %5d %s\n", pc.Count, pc.Program)
			}
		}
		return nil
	})
}

func (t *ConsoleUI) renderProp(name string, valueformat string, values ...interface{}) string {
	return fmt.Sprintf(" "+aurora.Colorize(name, aurora.GreenFg).String()+": "+valueformat, values...)
}

func (t *ConsoleUI) layout(g *gocui.Gui) error {

	maxX, maxY := g.Size()
	leftColumnWidth := 40
	minWindowHeight := 24

	if maxY < minWindowHeight {
		if _, err := t.headerLayout(g, maxY, "Terminal height too small"); err != nil {
			if err != gocui.ErrUnknownView {
				return err
			}
		}
		for _, name := range []string{"configuration", "status", "census", "commands", "field", "help"} {
			_ = g.DeleteView(name)
		}
		return nil
	}
	if _, err := t.headerLayout(g, 3, "Evolving programs on a field"); err != nil {
		if err != gocui.ErrUnknownView {
			return err
		}
	}

	paneHeight := (maxY - 5 - 3) / 3
	panes := []struct {
		name  string
		title string
		y0    int
		y1    int
	}{
		{"configuration", "Configuration", 3, 3 + paneHeight},
		{"status", "Status", 3 + paneHeight + 1, 3 + 2*paneHeight},
		{"census", "Programs", 3 + 2*paneHeight + 1, maxY - 5},
	}
	for _, p := range panes {
		if v, err := g.SetView(p.name, 0, p.y0, leftColumnWidth, p.y1); err != nil {
			if err != gocui.ErrUnknownView || v == nil {
				return err
			}
			v.Title = p.title
			v.Frame = true
		}
	}

	commandsWidth := 36
	if v, err := g.SetView("commands", maxX-commandsWidth, 3, maxX-1, maxY-5); err != nil {
		if err != gocui.ErrUnknownView || v == nil {
			return err
		}
		v.Title = "Commands"
		v.Frame = true
		v.Wrap = true
		for i := 0; i < world.AllCommands; i++ {
			c := world.Command(i)
			_, _ = fmt.Fprintf(v, " %s\n   %s\n", aurora.Cyan(c.String()), c.Describe())
		}
	}

	if v, err := g.SetView("field", leftColumnWidth+1, 3, maxX-commandsWidth-1, maxY-5); err != nil {
		if err != gocui.ErrUnknownView || v == nil {
			return err
		}
		v.Title = "Field"
		v.Frame = true
		t.Refresh()
	}

	if v, err := g.SetView("help", -1, maxY-5, maxX, maxY-3); err != nil {
		if err != gocui.ErrUnknownView || v == nil {
			return err
		}
		v.Frame = false
		b := bytes.Buffer{}
		b.WriteString("KEYBINDINGS: ")
		for i, k := range t.k {
			if i != 0 {
				b.WriteString(", ")
			}
			b.WriteString(aurora.Green(k.name).String())
			b.WriteString(": ")
			b.WriteString(k.descr)
		}
		_, _ = fmt.Fprintln(v, b.String())
	}

	return nil
}

func (t *ConsoleUI) headerLayout(g *gocui.Gui, height int, text string) (v *gocui.View, err error) {
	maxX, _ := g.Size()
	if v, err = g.SetView("header", -1, -1, maxX+1, height); err != nil {
		if err == gocui.ErrUnknownView && v != nil {
			v.Frame = false
			v.BgColor = gocui.ColorCyan
			v.FgColor = gocui.ColorBlack
		}
	}
	if v != nil {
		v.Clear()
		pad := 0
		if maxX > len(text) {
			pad = (maxX - len(text)) / 2
		}
		_, _ = fmt.Fprintln(v, strings.Repeat("\n", height/2+1)+strings.Repeat(" ", pad)+text)
	}
	return
}

func (t *ConsoleUI) cmdQuit(_ *gocui.View) error {
	return gocui.ErrQuit
}

func (t *ConsoleUI) cmdNextStep(_ *gocui.View) error {
	t.u.Step()
	return nil
}

func (t *ConsoleUI) cmdRun(_ *gocui.View) error {
	t.u.Run()
	return nil
}

func (t *ConsoleUI) cmdStop(_ *gocui.View) error {
	t.u.Stop()
	return nil
}

func (t *ConsoleUI) cmdReset(_ *gocui.View) error {
	t.u.Reset()
	return nil
}

func (t *ConsoleUI) cmdFaster(_ *gocui.View) error {
	t.changeParam("speed", speedStep)
	return nil
}

func (t *ConsoleUI) cmdSlower(_ *gocui.View) error {
	t.changeParam("speed", -speedStep)
	return nil
}

func (t *ConsoleUI) cmdMoreMutation(_ *gocui.View) error {
	t.changeParam("mutation_rate", mutationRateStep)
	return nil
}

func (t *ConsoleUI) cmdLessMutation(_ *gocui.View) error {
	t.changeParam("mutation_rate", -mutationRateStep)
	return nil
}

//changeParam moves a tunable parameter by delta, out of range values are reported in the status pane
func (t *ConsoleUI) changeParam(name string, delta int) {
	p, err := world.LookupParam(name)
	if err != nil {
		t.setNotice("%v", err)
		return
	}
	c := t.u.Config()
	if err := t.u.SetParam(name, p.Get(&c)+delta); err != nil {
		t.setNotice("%v", err)
		return
	}
	t.setNotice("")
	t.renderConfiguration()
}
