//go:build tinygo

package core

import "runtime/interrupt"

// disableInterrupts masks interrupts around timer list updates so a
// reception interrupt never observes a half-linked list
func disableInterrupts() interrupt.State {
	return interrupt.Disable()
}

// restoreInterrupts restores the interrupt state
func restoreInterrupts(state interrupt.State) {
	interrupt.Restore(state)
}
