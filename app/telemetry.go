package app

import (
	"io"
	"sync"

	"imuble/protocol"
)

// Telemetry mirrors characteristic updates and log lines as protocol frames
// on a serial console
type Telemetry struct {
	mu     sync.Mutex
	w      io.Writer
	framer *protocol.Framer

	// Dropped counts frames that failed to encode or write
	Dropped uint32
}

// NewTelemetry writes frames to w
func NewTelemetry(w io.Writer) *Telemetry {
	return &Telemetry{w: w, framer: protocol.NewFramer()}
}

// Slot sends a copy of a characteristic slot
func (t *Telemetry) Slot(id uint32, slot []byte) {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.send(t.framer.EncodeSlot(id, slot))
}

// Status sends the error counters
func (t *Telemetry) Status(s protocol.LinkStatus) {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.send(t.framer.EncodeStatus(s))
}

// Log sends one line of text. It has the signature of core.DebugWriter.
func (t *Telemetry) Log(text string) {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.send(t.framer.EncodeLog(text))
}

// send runs with t.mu held
func (t *Telemetry) send(frame []byte, err error) {
	if err == nil {
		_, err = t.w.Write(frame)
	}
	if err != nil {
		t.Dropped++
	}
}
