// Package monitor follows the telemetry the firmware mirrors on its USB
// console.
package monitor

import (
	"context"
	"fmt"
	"io"
	"sync"

	log "github.com/sirupsen/logrus"

	"imuble/host/serial"
	"imuble/protocol"
	"imuble/sensorservice"
)

// Snapshot is the last known state of the peripheral
type Snapshot struct {
	TempDeciC  int16
	HaveTemp   bool
	Motion     sensorservice.Motion // wire units, as sent to the phone
	HaveMotion bool
	Status     protocol.LinkStatus
	Messages   map[uint32]uint32 // count per message id
}

// Monitor decodes telemetry from a console and keeps a Snapshot
type Monitor struct {
	reader *protocol.Reader
	log    log.FieldLogger

	mu    sync.Mutex
	state Snapshot
}

// Open connects to the console on device
func Open(cfg *serial.Config, logger log.FieldLogger) (*Monitor, error) {
	port, err := serial.Open(cfg)
	if err != nil {
		return nil, fmt.Errorf("failed to open serial port: %w", err)
	}
	m := New(port, logger)
	if err := port.Flush(); err != nil {
		m.log.WithError(err).Debugln("flush failed")
	}
	return m, nil
}

// New starts decoding r, which is closed by Close if it is an io.Closer
func New(r io.Reader, logger log.FieldLogger) *Monitor {
	if logger == nil {
		logger = log.StandardLogger()
	}
	return &Monitor{
		reader: protocol.NewReader(r),
		log:    logger,
		state:  Snapshot{Messages: make(map[uint32]uint32)},
	}
}

// Run logs each message until ctx is done or the console closes
func (m *Monitor) Run(ctx context.Context) error {
	msgs := m.reader.Messages()
	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case msg, ok := <-msgs:
			if !ok {
				return io.EOF
			}
			m.Handle(msg)
		}
	}
}

// Handle applies one message to the snapshot and logs it
func (m *Monitor) Handle(msg protocol.Telemetry) {
	entry := m.log.WithField("seq", msg.Seq&protocol.MessageSeqMask)

	m.mu.Lock()
	m.state.Messages[msg.ID]++
	prev := m.state.Status
	m.mu.Unlock()

	switch msg.ID {
	case protocol.MsgEnv:
		t, ok := sensorservice.DecodeTemperature(msg.Slot)
		if !ok {
			entry.Warnf("env slot has %d bytes", len(msg.Slot))
			return
		}
		m.update(func(s *Snapshot) { s.TempDeciC, s.HaveTemp = t, true })
		entry.WithField("temp_c", float32(t)/10).Infoln("env")
	case protocol.MsgMotion:
		mo, ok := sensorservice.DecodeMotion(msg.Slot)
		if !ok {
			entry.Warnf("motion slot has %d bytes", len(msg.Slot))
			return
		}
		m.update(func(s *Snapshot) { s.Motion, s.HaveMotion = mo, true })
		entry.WithFields(log.Fields{
			"accel": mo.Accel,
			"gyro":  mo.Gyro,
		}).Debugln("motion")
	case protocol.MsgStatus:
		m.update(func(s *Snapshot) { s.Status = msg.Status })
		fields := entry.WithFields(log.Fields{
			"connected":   msg.Status.Connected,
			"all_ones":    msg.Status.AllOnes,
			"non_success": msg.Status.NonSuccess,
			"skipped":     msg.Status.Skipped,
		})
		// Only changes are worth a line at info level
		if msg.Status.Connected != prev.Connected || msg.Status.Skipped != prev.Skipped {
			fields.Infoln("status")
		} else {
			fields.Debugln("status")
		}
	case protocol.MsgLog:
		entry.WithField("src", "mcu").Infoln(msg.Text)
	}
}

func (m *Monitor) update(fn func(s *Snapshot)) {
	m.mu.Lock()
	defer m.mu.Unlock()
	fn(&m.state)
}

// Snapshot returns a copy of the current state
func (m *Monitor) Snapshot() Snapshot {
	m.mu.Lock()
	defer m.mu.Unlock()
	s := m.state
	s.Messages = make(map[uint32]uint32, len(m.state.Messages))
	for id, n := range m.state.Messages {
		s.Messages[id] = n
	}
	return s
}

// Stats returns the frame decoder counters and the invalid payload count
func (m *Monitor) Stats() (protocol.DecoderStats, uint32) {
	return m.reader.Stats()
}

// Close stops decoding and closes the console
func (m *Monitor) Close() error {
	return m.reader.Close()
}
