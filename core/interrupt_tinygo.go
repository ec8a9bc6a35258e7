//go:build tinygo

package core

import "runtime/interrupt"

// State is the saved interrupt mask
type State = interrupt.State

// disableInterrupts masks interrupts so SoftDevice event handlers cannot
// interleave with the event queue, and returns the previous mask
func disableInterrupts() State {
	return interrupt.Disable()
}

// restoreInterrupts restores the mask returned by disableInterrupts
func restoreInterrupts(state State) {
	interrupt.Restore(state)
}

// notify is a no-op: channel operations are not allowed from interrupt
// context, so Run picks posted calls up on its next bounded wakeup.
func notify(wake chan struct{}) {}
