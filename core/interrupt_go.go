//go:build !tinygo

package core

import "sync"

type irqState struct{}

// critical stands in for interrupt masking on regular Go, where the
// realtime queue is fed from other goroutines
var critical sync.Mutex

func disableInterrupts() irqState {
	critical.Lock()
	return irqState{}
}

func restoreInterrupts(state irqState) {
	critical.Unlock()
}
