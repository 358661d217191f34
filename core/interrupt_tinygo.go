//go:build tinygo

package core

import "runtime/interrupt"

type irqState = interrupt.State

// disableInterrupts masks interrupts and returns the state to restore
func disableInterrupts() irqState {
	return interrupt.Disable()
}

func restoreInterrupts(state irqState) {
	interrupt.Restore(state)
}
