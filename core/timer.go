package core

import (
	"sync/atomic"
	"time"
)

// Timer frequency: one tick per microsecond. uint32 ticks wrap after ~71.6 minutes.
const (
	TimerFreq = 1000000
)

var (
	bootTime   = time.Now()
	tickOffset uint32
)

func monotonicTicks() uint32 {
	return uint32(time.Since(bootTime) / time.Microsecond)
}

// GetTime returns the current system time in timer ticks
func GetTime() uint32 {
	return monotonicTicks() + atomic.LoadUint32(&tickOffset)
}

// SetTime shifts the clock so that GetTime returns ticks now
func SetTime(ticks uint32) {
	atomic.StoreUint32(&tickOffset, ticks-monotonicTicks())
}

// GetUptime returns the time since boot in timer ticks, without wrapping
func GetUptime() uint64 {
	return uint64(time.Since(bootTime) / time.Microsecond)
}

// TimerFromUS converts microseconds to timer ticks
func TimerFromUS(us uint32) uint32 {
	return uint32(uint64(us) * TimerFreq / 1000000)
}

// TimerToUS converts timer ticks to microseconds
func TimerToUS(ticks uint32) uint32 {
	return uint32(uint64(ticks) * 1000000 / TimerFreq)
}

// TimerFromDuration converts d to timer ticks, saturating at the wrap horizon.
func TimerFromDuration(d time.Duration) uint32 {
	us := d / time.Microsecond
	if us <= 0 {
		return 0
	}
	if us > 1<<31-1 {
		us = 1<<31 - 1
	}
	return TimerFromUS(uint32(us))
}

// timeBefore compares tick counts across a wrap: a is before b when the signed
// distance is negative.
func timeBefore(a, b uint32) bool {
	return int32(a-b) < 0
}
