//go:build rp2040 || rp2350

package main

import "gpiocdc/core"

// ModeConfig determines how the firmware runs pulses
type ModeConfig struct {
	// PulseBlocking sleeps through a pulse; USB is not serviced meanwhile.
	// PulseScheduled keeps servicing USB while the pulse runs.
	Pulse core.PulseMode
}

// GetMode returns the current mode configuration
func GetMode() ModeConfig {
	return ModeConfig{
		Pulse: core.PulseBlocking,
	}
}
