package core

import (
	"context"
	"time"
)

// Timer represents a scheduled event
type Timer struct {
	WakeTime uint32
	Handler  func(*Timer) uint8
	Next     *Timer
}

const (
	SF_DONE       = 0
	SF_RESCHEDULE = 1
)

const (
	// idleWait bounds how long Run sleeps when nothing is scheduled
	idleWait = 100 * time.Millisecond

	// postedCap is the number of deferred calls that can wait for Dispatch
	postedCap = 8
)

// EventQueue dispatches timers and deferred calls from a single loop.
// Schedule and Post may be called from other goroutines or interrupt
// handlers; handlers always run on the goroutine calling Dispatch or Run.
type EventQueue struct {
	// Clock returns the current time in ticks. Defaults to GetTime.
	Clock func() uint32

	timerList   *Timer
	posted      [postedCap]func()
	postedHead  uint8
	postedCount uint8
	currentTime uint32
	wake        chan struct{}
}

// NewEventQueue returns an empty queue driven by the system clock.
func NewEventQueue() *EventQueue {
	return &EventQueue{
		Clock: GetTime,
		wake:  make(chan struct{}, 1),
	}
}

// Now returns the time the running handler was dispatched at.
func (q *EventQueue) Now() uint32 {
	return q.currentTime
}

// Schedule adds a timer to the queue
func (q *EventQueue) Schedule(t *Timer) {
	state := disableInterrupts()
	q.insertTimer(t)
	restoreInterrupts(state)
	q.signal()
}

// Cancel removes t if it is queued
func (q *EventQueue) Cancel(t *Timer) {
	state := disableInterrupts()
	defer restoreInterrupts(state)

	for p := &q.timerList; *p != nil; p = &(*p).Next {
		if *p == t {
			*p = t.Next
			t.Next = nil
			return
		}
	}
}

// insertTimer inserts a timer in sorted order by WakeTime. Timers with equal
// wake times fire in insertion order.
func (q *EventQueue) insertTimer(t *Timer) {
	if q.timerList == nil || timeBefore(t.WakeTime, q.timerList.WakeTime) {
		t.Next = q.timerList
		q.timerList = t
		return
	}

	current := q.timerList
	for current.Next != nil && !timeBefore(t.WakeTime, current.Next.WakeTime) {
		current = current.Next
	}

	t.Next = current.Next
	current.Next = t
}

// CallEvery runs fn every period, first one period from now. A handler that
// overruns by more than a period skips the missed calls instead of bursting.
func (q *EventQueue) CallEvery(period time.Duration, fn func()) *Timer {
	ticks := TimerFromDuration(period)
	if ticks == 0 {
		ticks = 1
	}
	t := &Timer{
		WakeTime: q.Clock() + ticks,
		Handler: func(t *Timer) uint8 {
			fn()
			t.WakeTime += ticks
			if timeBefore(t.WakeTime, q.currentTime) {
				t.WakeTime = q.currentTime + ticks
			}
			return SF_RESCHEDULE
		},
	}
	q.Schedule(t)
	return t
}

// CallIn runs fn once after delay.
func (q *EventQueue) CallIn(delay time.Duration, fn func()) *Timer {
	t := &Timer{
		WakeTime: q.Clock() + TimerFromDuration(delay),
		Handler: func(*Timer) uint8 {
			fn()
			return SF_DONE
		},
	}
	q.Schedule(t)
	return t
}

// Post defers fn to the next Dispatch. It is the only way for code running
// outside the loop to touch state owned by handlers. Post does not allocate,
// so it is safe from interrupt context when fn is built ahead of time.
// It reports false when the queue is full and fn was dropped.
func (q *EventQueue) Post(fn func()) bool {
	state := disableInterrupts()
	if q.postedCount == postedCap {
		restoreInterrupts(state)
		return false
	}
	q.posted[(q.postedHead+q.postedCount)%postedCap] = fn
	q.postedCount++
	restoreInterrupts(state)
	q.signal()
	return true
}

func (q *EventQueue) popPosted() func() {
	state := disableInterrupts()
	defer restoreInterrupts(state)

	if q.postedCount == 0 {
		return nil
	}
	fn := q.posted[q.postedHead]
	q.posted[q.postedHead] = nil
	q.postedHead = (q.postedHead + 1) % postedCap
	q.postedCount--
	return fn
}

func (q *EventQueue) signal() {
	notify(q.wake)
}

// Dispatch runs posted calls, then every timer due at the current clock.
// It returns the number of handlers run.
func (q *EventQueue) Dispatch() int {
	n := 0
	for fn := q.popPosted(); fn != nil; fn = q.popPosted() {
		fn()
		n++
	}

	q.currentTime = q.Clock()
	for {
		state := disableInterrupts()
		timer := q.timerList
		if timer == nil || timeBefore(q.currentTime, timer.WakeTime) {
			restoreInterrupts(state)
			return n
		}
		q.timerList = timer.Next
		timer.Next = nil
		restoreInterrupts(state)

		n++
		if timer.Handler(timer) == SF_RESCHEDULE {
			state := disableInterrupts()
			q.insertTimer(timer)
			restoreInterrupts(state)
		}
	}
}

// untilNext returns how long the loop may sleep before the next timer is due.
func (q *EventQueue) untilNext() time.Duration {
	state := disableInterrupts()
	defer restoreInterrupts(state)

	if q.postedCount > 0 {
		return 0
	}
	if q.timerList == nil {
		return idleWait
	}
	now := q.Clock()
	if !timeBefore(now, q.timerList.WakeTime) {
		return 0
	}
	wait := time.Duration(TimerToUS(q.timerList.WakeTime-now)) * time.Microsecond
	if wait > idleWait {
		wait = idleWait
	}
	return wait
}

// Run dispatches until ctx is done.
func (q *EventQueue) Run(ctx context.Context) error {
	sleep := time.NewTimer(idleWait)
	defer sleep.Stop()

	for {
		q.Dispatch()

		wait := q.untilNext()
		if wait == 0 {
			if err := ctx.Err(); err != nil {
				return err
			}
			continue
		}

		if !sleep.Stop() {
			select {
			case <-sleep.C:
			default:
			}
		}
		sleep.Reset(wait)

		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-q.wake:
		case <-sleep.C:
		}
	}
}
