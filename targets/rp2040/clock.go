//go:build rp2040 || rp2350

package main

import (
	"runtime/volatile"
	"time"
	"unsafe"
)

// RP2040/RP2350 Timer peripheral memory map
const (
	timerBase     = 0x40054000
	timerTIMERAWH = timerBase + 0x08 // Raw timer high word
	timerTIMERAWL = timerBase + 0x0C // Raw timer low word
)

var (
	timerRAWH = (*volatile.Register32)(unsafe.Pointer(uintptr(timerTIMERAWH)))
	timerRAWL = (*volatile.Register32)(unsafe.Pointer(uintptr(timerTIMERAWL)))
)

// HardwareClock is a core.Clock on the 1 MHz hardware timer
type HardwareClock struct{}

func NewHardwareClock() *HardwareClock {
	return &HardwareClock{}
}

// Millis returns the low 32 bits of the millisecond uptime
func (HardwareClock) Millis() uint32 {
	return uint32(GetHardwareUptime() / 1000)
}

// Sleep blocks the main loop; USB is serviced by the TinyGo runtime
func (HardwareClock) Sleep(d time.Duration) {
	time.Sleep(d)
}

// GetHardwareUptime reads the full 64-bit RP2040 hardware timer
func GetHardwareUptime() uint64 {
	// Must read high first, then low, then high again to detect rollover
	for {
		high1 := timerRAWH.Get()
		low := timerRAWL.Get()
		high2 := timerRAWH.Get()

		if high1 == high2 {
			return (uint64(high1) << 32) | uint64(low)
		}
	}
}
