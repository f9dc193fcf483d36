package console

import (
	"fmt"
	"strings"

	"gpiocdc/core"
)

// State mirrors what the board has confirmed: the selected pin and the last
// level commanded on each pin. Only echoed bytes change it.
type State struct {
	layout   core.Layout
	selected core.PinRef
	levels   map[core.PinRef]core.Level
}

func NewState(layout core.Layout) *State {
	return &State{
		layout:   layout,
		selected: core.DefaultPin,
		levels:   make(map[core.PinRef]core.Level),
	}
}

// Apply updates the state from the echoes of one exchange
func (s *State) Apply(echoes []byte) {
	for _, b := range echoes {
		cmd := core.Classify(s.layout.Pins, b)
		switch cmd.Kind {
		case core.KindSelect:
			s.selected = cmd.Pin
		case core.KindSetHigh:
			s.levels[s.selected] = core.High
		case core.KindSetLow:
			s.levels[s.selected] = core.Low
		case core.KindPulseLowHigh, core.KindPulseHighLow:
			_, last := cmd.Levels()
			s.levels[s.selected] = last
		}
	}
}

// Selected returns the pin the board has selected
func (s *State) Selected() core.PinRef {
	return s.selected
}

// Level returns the last confirmed level of pin
func (s *State) Level(pin core.PinRef) (core.Level, bool) {
	l, ok := s.levels[pin]
	return l, ok
}

// Render formats one line per selector: marker, selector, label, pin, level
func (s *State) Render() string {
	var b strings.Builder
	for _, sel := range s.layout.Pins.Selectors() {
		pin, _ := s.layout.Pins.Lookup(sel)

		mark := ' '
		if pin == s.selected {
			mark = '>'
		}
		level := "-"
		if l, ok := s.levels[pin]; ok {
			level = l.String()
		}
		fmt.Fprintf(&b, "%c %c %-5s %-3s %s\n",
			mark, sel, s.layout.Pins.Label(sel), pin, level)
	}
	return b.String()
}
