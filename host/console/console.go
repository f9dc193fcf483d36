// Package console is a terminal panel for a gpiocdc board: the layout's pins
// with their last commanded level, a log pane, and a command input line.
package console

import (
	"log"
	"strings"
	"sync"

	"github.com/gdamore/tcell/v2"
	"github.com/rivo/tview"

	"gpiocdc/core"
)

// Runner executes command characters and returns the echoes
type Runner interface {
	Exec(seq string) ([]byte, error)
	Help() (string, error)
}

type Console struct {
	r Runner

	pins   *tview.TextView
	log    *tview.TextView
	status *tview.TextView
	input  *tview.InputField
	cols   *tview.Flex
	rows   *tview.Flex
	app    *tview.Application

	mu    sync.Mutex
	state *State
}

func New(layout core.Layout, r Runner) *Console {
	c := &Console{
		r: r,
		pins: tview.NewTextView().
			SetWrap(false),
		log: tview.NewTextView().
			SetMaxLines(1000),
		status: tview.NewTextView().
			SetWrap(false),
		input: tview.NewInputField().
			SetLabel("> "),
		cols: tview.NewFlex(),
		rows: tview.NewFlex().
			SetDirection(tview.FlexRow),
		app:   tview.NewApplication(),
		state: NewState(layout),
	}
	c.log.SetChangedFunc(func() { c.app.Draw() })
	c.pins.SetBackgroundColor(tcell.ColorDarkBlue)
	c.status.SetBackgroundColor(tcell.ColorDarkGrey)
	c.status.SetTextColor(tcell.ColorBlack)
	c.cols.
		AddItem(c.pins, 24, 0, false).
		AddItem(c.log, 0, 1, false)
	c.rows.
		AddItem(c.cols, 0, 1, false).
		AddItem(c.status, 1, 0, false).
		AddItem(c.input, 1, 0, true)
	c.app.SetRoot(c.rows, true)

	c.pins.SetText(c.state.Render())
	c.status.SetText(layout.Name + "  ? help  exit quits")

	c.input.SetDoneFunc(func(key tcell.Key) {
		if key != tcell.KeyEnter {
			return
		}
		cmd := strings.TrimSpace(c.input.GetText())
		if cmd == "" {
			return
		}
		c.input.SetText("")
		if cmd == "exit" {
			c.app.Stop()
			return
		}
		go c.exec(cmd)
	})
	return c
}

// Run takes over the terminal until the user exits. Output of the log
// package is shown in the log pane meanwhile.
func (c *Console) Run() error {
	out, prefix := log.Writer(), log.Prefix()
	log.SetOutput(c.log)
	log.SetPrefix("")
	defer func() {
		log.SetOutput(out)
		log.SetPrefix(prefix)
	}()
	return c.app.Run()
}

func (c *Console) exec(cmd string) {
	if cmd == string(core.OpHelp) {
		text, err := c.r.Help()
		if err != nil {
			log.Printf("help: %v", err)
			return
		}
		log.Print(strings.ReplaceAll(text, "\r\n", "\n"))
		return
	}

	echoes, err := c.r.Exec(cmd)

	c.mu.Lock()
	c.state.Apply(echoes)
	text := c.state.Render()
	c.mu.Unlock()

	if err != nil {
		log.Printf("%s: echoed %q: %v", cmd, echoes, err)
	} else {
		log.Printf("%s: echoed %q", cmd, echoes)
	}
	c.app.QueueUpdateDraw(func() {
		c.pins.SetText(text)
	})
}
