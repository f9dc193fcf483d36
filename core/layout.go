package core

// Layout bundles a board's pin table with the help text describing it
type Layout struct {
	Name string
	Pins *PinTable
	Help string
}

// ArduinoMicro is the ATmega32U4 Arduino Micro header layout
var ArduinoMicro = Layout{
	Name: "arduino-micro",
	Pins: MustPinTable(
		PinEntry{'0', Pin(PortB, 2), "MOSI"},
		PinEntry{'1', Pin(PortB, 0), "RXLED"},
		PinEntry{'2', Pin(PortD, 3), "D1"},
		PinEntry{'3', Pin(PortD, 2), "D0"},
		PinEntry{'4', Pin(PortD, 1), "D2"},
		PinEntry{'5', Pin(PortD, 0), "D3"},
		PinEntry{'6', Pin(PortD, 4), "D4"},
		PinEntry{'7', Pin(PortC, 6), "D5"},
		PinEntry{'8', Pin(PortD, 7), "D6"},
		PinEntry{'9', Pin(PortE, 6), "D7"},
		PinEntry{'a', Pin(PortB, 4), "IO8"},
		PinEntry{'b', Pin(PortB, 5), "IO9"},
		PinEntry{'c', Pin(PortB, 6), "IO10"},
		PinEntry{'d', Pin(PortB, 7), "IO11"},
		PinEntry{'e', Pin(PortD, 6), "IO12"},

		PinEntry{'f', Pin(PortB, 1), "SCK"},
		PinEntry{'g', Pin(PortB, 3), "MISO"},
		PinEntry{'h', Pin(PortF, 0), "A5"},
		PinEntry{'i', Pin(PortF, 1), "A4"},
		PinEntry{'j', Pin(PortF, 4), "A3"},
		PinEntry{'k', Pin(PortF, 5), "A2"},
		PinEntry{'l', Pin(PortF, 6), "A1"},
		PinEntry{'m', Pin(PortF, 7), "A0"},
		PinEntry{'n', Pin(PortC, 7), "IO13"},

		PinEntry{'o', Pin(PortD, 5), "TXLED"},
	),
	Help: HelpArduinoMicro,
}

// Pico is the Raspberry Pi Pico header layout. GPIOs are grouped in banks
// of eight: GPn is port n/8, bit n%8.
var Pico = Layout{
	Name: "pico",
	Pins: MustPinTable(
		gp('0', 0), gp('1', 1), gp('2', 2), gp('3', 3), gp('4', 4),
		gp('5', 5), gp('6', 6), gp('7', 7), gp('8', 8), gp('9', 9),
		gp('a', 10), gp('b', 11), gp('c', 12), gp('d', 13), gp('e', 14),
		gp('f', 15), gp('g', 16), gp('h', 17), gp('i', 18), gp('j', 19),
		gp('k', 20), gp('l', 21), gp('m', 22),
		gp('n', 25), // LED
		gp('o', 26), gp('p', 27), gp('q', 28),
	),
	Help: HelpPico,
}

// MCP23017 is the port expander layout: '0'-'7' are GPA0-7, '8'-'f' GPB0-7
var MCP23017 = Layout{
	Name: "mcp23017",
	Pins: MustPinTable(
		PinEntry{'0', Pin(PortA, 0), "GPA0"},
		PinEntry{'1', Pin(PortA, 1), "GPA1"},
		PinEntry{'2', Pin(PortA, 2), "GPA2"},
		PinEntry{'3', Pin(PortA, 3), "GPA3"},
		PinEntry{'4', Pin(PortA, 4), "GPA4"},
		PinEntry{'5', Pin(PortA, 5), "GPA5"},
		PinEntry{'6', Pin(PortA, 6), "GPA6"},
		PinEntry{'7', Pin(PortA, 7), "GPA7"},
		PinEntry{'8', Pin(PortB, 0), "GPB0"},
		PinEntry{'9', Pin(PortB, 1), "GPB1"},
		PinEntry{'a', Pin(PortB, 2), "GPB2"},
		PinEntry{'b', Pin(PortB, 3), "GPB3"},
		PinEntry{'c', Pin(PortB, 4), "GPB4"},
		PinEntry{'d', Pin(PortB, 5), "GPB5"},
		PinEntry{'e', Pin(PortB, 6), "GPB6"},
		PinEntry{'f', Pin(PortB, 7), "GPB7"},
	),
	Help: HelpMCP23017,
}

// Without returns a copy of l whose table drops every selector bound to one
// of pins. The help text is unchanged.
func (l Layout) Without(pins ...PinRef) Layout {
	if len(pins) == 0 {
		return l
	}

	var entries []PinEntry
	for _, sel := range l.Pins.Selectors() {
		pin, _ := l.Pins.Lookup(sel)
		if containsPin(pins, pin) {
			continue
		}
		entries = append(entries, PinEntry{Selector: sel, Pin: pin, Label: l.Pins.Label(sel)})
	}
	// a subset of a valid table is valid
	l.Pins = MustPinTable(entries...)
	return l
}

func containsPin(pins []PinRef, p PinRef) bool {
	for _, q := range pins {
		if q == p {
			return true
		}
	}
	return false
}

func gp(sel byte, n int) PinEntry {
	return PinEntry{
		Selector: sel,
		Pin:      Pin(Port(n/8), uint8(n%8)),
		Label:    "GP" + itoa(n),
	}
}

var layouts = []Layout{ArduinoMicro, Pico, MCP23017}

// Layouts returns the built-in layouts
func Layouts() []Layout {
	out := make([]Layout, len(layouts))
	copy(out, layouts)
	return out
}

// LayoutByName finds a built-in layout
func LayoutByName(name string) (Layout, bool) {
	for _, l := range layouts {
		if l.Name == name {
			return l, true
		}
	}
	return Layout{}, false
}
