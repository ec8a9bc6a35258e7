package core

// DebugWriter is a function type for writing debug messages
type DebugWriter func(string)

// SensorEvent captures a sensor or radio event for post-mortem analysis
type SensorEvent struct {
	EventType uint8  // Event type code
	Code      uint8  // Status code or characteristic index
	Clock     uint32 // System clock at event
	Value1    uint32 // Context-dependent value
	Value2    uint32 // Context-dependent value
}

// Event type codes
const (
	EvtSensorError     = 1 // hard transport error, Value1 = register
	EvtSensorAbsent    = 2 // all-ones read, start of a streak
	EvtSensorRecovered = 3 // first good read after a streak, Value1 = streak length
	EvtConnect         = 4 // central connected
	EvtDisconnect      = 5 // central disconnected
	EvtAdvertise       = 6 // advertising (re)started, Code = 1 on failure
	EvtNotifyFailed    = 7 // characteristic write failed
)

const (
	EventRingSize = 32 // Keep last 32 events for post-mortem
)

var (
	// debugPrintln is the global debug print function (can be set by platform code)
	debugPrintln DebugWriter = func(s string) {} // No-op by default

	// debugEnabled gates Logger.Debug output
	debugEnabled bool = false

	eventRing     [EventRingSize]SensorEvent
	eventRingHead uint8
)

// SetDebugWriter sets the platform-specific debug output function
// This allows platforms to redirect debug output to UART, USB, etc.
func SetDebugWriter(writer DebugWriter) {
	if writer == nil {
		writer = func(string) {}
	}
	debugPrintln = writer
}

// SetDebugEnabled enables or disables debug output
func SetDebugEnabled(enabled bool) {
	debugEnabled = enabled
}

// IsDebugEnabled returns whether debug output is enabled
func IsDebugEnabled() bool {
	return debugEnabled
}

// DebugPrintln writes a debug message using the platform-specific writer
// when debug output is enabled
func DebugPrintln(msg string) {
	if debugEnabled {
		debugPrintln(msg)
	}
}

// Logger prefixes messages with a component name and a level. Debug output
// follows SetDebugEnabled; the other levels are always written.
type Logger struct {
	Prefix string
}

func (l Logger) Debug(msg string) {
	if debugEnabled {
		debugPrintln("[" + l.Prefix + "] DEBUG " + msg)
	}
}

func (l Logger) Info(msg string) {
	debugPrintln("[" + l.Prefix + "] INFO " + msg)
}

func (l Logger) Warn(msg string) {
	debugPrintln("[" + l.Prefix + "] WARN " + msg)
}

// Error writes msg followed by err, if any
func (l Logger) Error(msg string, err error) {
	if err != nil {
		msg += ": " + err.Error()
	}
	debugPrintln("[" + l.Prefix + "] ERROR " + msg)
}

// RecordEvent captures an event in the ring buffer. It never blocks.
func RecordEvent(eventType, code uint8, value1, value2 uint32) {
	state := disableInterrupts()
	idx := eventRingHead
	eventRing[idx] = SensorEvent{
		EventType: eventType,
		Code:      code,
		Clock:     GetTime(),
		Value1:    value1,
		Value2:    value2,
	}
	eventRingHead = (idx + 1) % EventRingSize
	restoreInterrupts(state)
}

// RecentEvents returns the recorded events, oldest first
func RecentEvents() []SensorEvent {
	state := disableInterrupts()
	defer restoreInterrupts(state)

	events := make([]SensorEvent, 0, EventRingSize)
	for i := uint8(0); i < EventRingSize; i++ {
		evt := eventRing[(eventRingHead+i)%EventRingSize]
		if evt.EventType != 0 {
			events = append(events, evt)
		}
	}
	return events
}

func eventName(t uint8) string {
	switch t {
	case EvtSensorError:
		return "SENSOR_ERR"
	case EvtSensorAbsent:
		return "SENSOR_ABSENT"
	case EvtSensorRecovered:
		return "SENSOR_OK"
	case EvtConnect:
		return "CONNECT"
	case EvtDisconnect:
		return "DISCONNECT"
	case EvtAdvertise:
		return "ADVERTISE"
	case EvtNotifyFailed:
		return "NOTIFY_FAIL"
	default:
		return "UNKNOWN"
	}
}

// DumpEventRing outputs the event ring buffer (call on shutdown/error)
func DumpEventRing() {
	debugPrintln("[EVENTS] === Event Ring Dump ===")
	for _, evt := range RecentEvents() {
		debugPrintln("[EVENTS] " + eventName(evt.EventType) +
			" code=" + Itoa(int(evt.Code)) +
			" clock=" + Utoa(evt.Clock) +
			" v1=" + Utoa(evt.Value1) +
			" v2=" + Utoa(evt.Value2))
	}
	debugPrintln("[EVENTS] === End Dump ===")
}

// ClearEventRing clears the event buffer
func ClearEventRing() {
	state := disableInterrupts()
	for i := range eventRing {
		eventRing[i] = SensorEvent{}
	}
	eventRingHead = 0
	restoreInterrupts(state)
}
