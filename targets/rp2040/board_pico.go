//go:build (rp2040 || rp2350) && !expander

package main

import "gpiocdc/core"

// boardPins drives the Pico header GPIOs directly
func boardPins() (core.Layout, core.PinDriver) {
	return onChipBoard()
}
