//go:build (rp2040 || rp2350) && !debuguart

package main

import "gpiocdc/core"

func InitDebugUART() {}

// DebugPrintln discards debug output when the debug UART is not built in
func DebugPrintln(s string) {}

// debugPins is empty: no pin is reserved without the debug UART
func debugPins() []core.PinRef { return nil }
