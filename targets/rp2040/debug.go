//go:build (rp2040 || rp2350) && debuguart

package main

import (
	"machine"

	"github.com/jangala-dev/tinygo-uartx/uartx"

	"gpiocdc/core"
)

// The debug UART takes GP8/GP9, the pico layout's '8' and '9' selectors.
// Those selectors are removed from the layout in debuguart builds.

var (
	debugUART    *uartx.UART
	debugEnabled bool
)

// InitDebugUART initializes UART1 on GP8 (TX) and GP9 (RX) at 115200 baud
func InitDebugUART() {
	debugUART = uartx.UART1

	err := debugUART.Configure(uartx.UARTConfig{
		BaudRate: 115200,
		TX:       uartx.UART1_TX_PIN,
		RX:       uartx.UART1_RX_PIN,
	})
	if err != nil {
		debugEnabled = false
		return
	}

	debugEnabled = true

	DebugPrintln("=== gpiocdc debug UART ===")
}

// debugPins returns the GPIOs the debug UART owns
func debugPins() []core.PinRef {
	return []core.PinRef{
		gpioRef(machine.Pin(uartx.UART1_TX_PIN)),
		gpioRef(machine.Pin(uartx.UART1_RX_PIN)),
	}
}

// DebugPrintln writes a string to the debug UART with newline
func DebugPrintln(s string) {
	if !debugEnabled || debugUART == nil {
		return
	}
	debugUART.Write([]byte(s))
	debugUART.Write([]byte("\r\n"))
}
