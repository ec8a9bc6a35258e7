//go:build !tinygo

package core

import "sync"

// State is the saved critical-section state on regular Go
type State uintptr

// Host builds have real threads (BlueZ callbacks arrive on their own
// goroutine), so the critical section is a mutex. It is not reentrant.
var critical sync.Mutex

// disableInterrupts enters the critical section
func disableInterrupts() State {
	critical.Lock()
	return 0
}

// restoreInterrupts leaves the critical section
func restoreInterrupts(state State) {
	critical.Unlock()
}

// notify wakes a sleeping Run without blocking
func notify(wake chan struct{}) {
	select {
	case wake <- struct{}{}:
	default:
	}
}
