// Package expander drives pins through an MCP23017 I2C port expander. Its
// two 8-bit ports map onto core ports A and B, matching the mcp23017 layout.
package expander

import (
	"errors"

	"gpiocdc/core"

	"tinygo.org/x/drivers"
	"tinygo.org/x/drivers/mcp23017"
)

// DefaultAddress is the expander's address with A0..A2 tied low
const DefaultAddress = 0x20

var ErrNoSuchPin = errors.New("expander has no such pin")

// Expander implements core.PinDriver on an MCP23017
type Expander struct {
	dev *mcp23017.Device
}

// New attaches to the expander at addr on bus
func New(bus drivers.I2C, addr uint8) (*Expander, error) {
	dev, err := mcp23017.NewI2C(bus, addr)
	if err != nil {
		return nil, err
	}
	return &Expander{dev: dev}, nil
}

// pinNumber maps A0..A7 to 0..7 and B0..B7 to 8..15
func pinNumber(p core.PinRef) (int, error) {
	if !p.Valid() || p.Port > core.PortB {
		return 0, ErrNoSuchPin
	}
	return p.Index(), nil
}

func (e *Expander) ConfigureOutput(p core.PinRef) error {
	n, err := pinNumber(p)
	if err != nil {
		return err
	}
	return e.dev.Pin(n).SetMode(mcp23017.Output)
}

func (e *Expander) Set(p core.PinRef, level core.Level) error {
	n, err := pinNumber(p)
	if err != nil {
		return err
	}
	return e.dev.Pin(n).Set(bool(level))
}

// Get reads the pin level back from the expander
func (e *Expander) Get(p core.PinRef) (core.Level, error) {
	n, err := pinNumber(p)
	if err != nil {
		return core.Low, err
	}
	v, err := e.dev.Pin(n).Get()
	return core.Level(v), err
}
