//go:build rp2040 || rp2350

package main

import (
	"errors"
	"machine"

	"gpiocdc/core"
)

var errNoSuchGPIO = errors.New("no such GPIO")

// numGPIO is the number of user GPIOs on RP2040 (GPIO0-GPIO29)
const numGPIO = 30

// RPGPIODriver implements core.PinDriver on the on-chip GPIOs. Ports are
// banks of eight GPIOs: port n bit b is GPIO n*8+b.
type RPGPIODriver struct {
	// Track configured pins to prevent conflicts
	configured [numGPIO]bool
}

// gpioRef is the inverse of the port/bit banking above
func gpioRef(p machine.Pin) core.PinRef {
	n := int(p)
	return core.Pin(core.Port(n/8), uint8(n%8))
}

// onChipBoard is the Pico layout on the on-chip GPIOs, minus any pins the
// debug UART owns
func onChipBoard() (core.Layout, core.PinDriver) {
	return core.Pico.Without(debugPins()...), NewRPGPIODriver()
}

func NewRPGPIODriver() *RPGPIODriver {
	return &RPGPIODriver{}
}

func (d *RPGPIODriver) ConfigureOutput(pin core.PinRef) error {
	n := pin.Index()
	if !pin.Valid() || n >= numGPIO {
		return errNoSuchGPIO
	}
	if d.configured[n] {
		return nil
	}
	machine.Pin(n).Configure(machine.PinConfig{Mode: machine.PinOutput})
	d.configured[n] = true
	return nil
}

// Set drives the pin, configuring it first if needed
func (d *RPGPIODriver) Set(pin core.PinRef, level core.Level) error {
	n := pin.Index()
	if !pin.Valid() || n >= numGPIO {
		return errNoSuchGPIO
	}
	if !d.configured[n] {
		if err := d.ConfigureOutput(pin); err != nil {
			return err
		}
	}
	machine.Pin(n).Set(bool(level))
	return nil
}

// Get reads the current pin state
func (d *RPGPIODriver) Get(pin core.PinRef) (core.Level, error) {
	n := pin.Index()
	if !pin.Valid() || n >= numGPIO {
		return core.Low, errNoSuchGPIO
	}
	return core.Level(machine.Pin(n).Get()), nil
}
