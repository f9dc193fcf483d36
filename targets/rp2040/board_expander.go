//go:build (rp2040 || rp2350) && expander

package main

import (
	"gpiocdc/core"
	"gpiocdc/drivers/expander"
)

// boardPins drives an MCP23017 on I2C0. Without a responding expander the
// firmware falls back to the on-chip GPIOs.
func boardPins() (core.Layout, core.PinDriver) {
	bus, err := ConfigureI2C0(expanderBusHz)
	if err != nil {
		DebugPrintln("i2c0: " + err.Error())
		return onChipBoard()
	}

	dev, err := expander.New(bus, expander.DefaultAddress)
	if err != nil {
		DebugPrintln("mcp23017: " + err.Error())
		return onChipBoard()
	}
	return core.MCP23017, dev
}
