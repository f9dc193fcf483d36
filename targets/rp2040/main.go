//go:build rp2040 || rp2350

package main

import (
	"machine"
	"time"

	"gpiocdc/core"
)

var (
	interp *core.Interpreter
	usb    *usbTransport

	// Debug counters
	loopPanics uint32
)

func main() {
	// Disable watchdog on boot to clear any previous state
	err := machine.Watchdog.Configure(machine.WatchdogConfig{TimeoutMillis: 0})
	if err != nil {
		return
	}

	InitDebugUART()

	// Initialize USB CDC immediately
	usb = InitUSB()

	layout, pins := boardPins()
	mode := GetMode()

	interp, err = core.NewInterpreter(core.Config{
		Layout: layout,
		Pins:   pins,
		Clock:  NewHardwareClock(),
		Pulse:  mode.Pulse,
		Debug:  DebugPrintln,
	})
	if err != nil {
		DebugPrintln("interpreter: " + err.Error())
		halt()
	}

	// All layout pins are outputs driven low from here on
	interp.Init()
	DebugPrintln("layout " + layout.Name + ", " + itoa(layout.Pins.Len()) + " pins")

	for {
		// Recover from panics in the main loop to prevent a firmware crash
		func() {
			defer func() {
				if r := recover(); r != nil {
					loopPanics++
					interp.DumpTrace()
				}
			}()

			if !interp.Poll(usb) {
				// Yield to other goroutines
				time.Sleep(10 * time.Microsecond)
			}
		}()
	}
}

func halt() {
	for {
		time.Sleep(time.Hour)
	}
}

// itoa converts int to string without importing strconv (for embedded)
func itoa(i int) string {
	if i == 0 {
		return "0"
	}

	negative := i < 0
	if negative {
		i = -i
	}

	var buf [20]byte
	pos := len(buf)
	for i > 0 {
		pos--
		buf[pos] = byte('0' + i%10)
		i /= 10
	}

	if negative {
		pos--
		buf[pos] = '-'
	}

	return string(buf[pos:])
}
