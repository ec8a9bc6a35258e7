package monitor

import (
	"bytes"
	"context"
	"io"
	"testing"

	log "github.com/sirupsen/logrus"
	"github.com/sirupsen/logrus/hooks/test"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"imuble/protocol"
	"imuble/sensorservice"
)

func telemetryStream(t *testing.T) []byte {
	t.Helper()
	var v sensorservice.ValueBytes
	v.UpdateTemp(215)
	v.UpdateAccel([3]int16{-200, 100, 300})
	v.UpdateGyro([3]int16{2, 1, 3})

	f := protocol.NewFramer()
	var stream bytes.Buffer
	for _, encode := range []func() ([]byte, error){
		func() ([]byte, error) { return f.EncodeLog("APP: advertising") },
		func() ([]byte, error) { return f.EncodeSlot(protocol.MsgEnv, v.Env[:]) },
		func() ([]byte, error) { return f.EncodeSlot(protocol.MsgMotion, v.Motion[:]) },
		func() ([]byte, error) {
			return f.EncodeStatus(protocol.LinkStatus{Connected: true, Skipped: 1})
		},
	} {
		frame, err := encode()
		require.NoError(t, err)
		stream.Write(frame)
	}
	return stream.Bytes()
}

func TestMonitorRun(t *testing.T) {
	logger, hook := test.NewNullLogger()
	logger.SetLevel(log.DebugLevel)

	m := New(bytes.NewReader(telemetryStream(t)), logger)
	err := m.Run(context.Background())
	assert.ErrorIs(t, err, io.EOF)

	snap := m.Snapshot()
	assert.True(t, snap.HaveTemp)
	assert.Equal(t, int16(215), snap.TempDeciC)
	assert.True(t, snap.HaveMotion)
	// wire units: accel negated on X and Z and shifted right 2, gyro shifted left 4
	assert.Equal(t, [3]int16{50, 25, -75}, snap.Motion.Accel)
	assert.Equal(t, [3]int16{32, 16, 48}, snap.Motion.Gyro)
	assert.True(t, snap.Status.Connected)
	assert.Equal(t, uint32(1), snap.Messages[protocol.MsgLog])
	assert.Equal(t, uint32(1), snap.Messages[protocol.MsgStatus])

	entries := hook.AllEntries()
	require.Len(t, entries, 4)
	assert.Equal(t, "APP: advertising", entries[0].Message)
	assert.Equal(t, "mcu", entries[0].Data["src"])
	assert.InDelta(t, 21.5, entries[1].Data["temp_c"], 0.001)
	assert.Equal(t, "motion", entries[2].Message)
	assert.Equal(t, log.InfoLevel, entries[3].Level, "connection change is logged at info")

	stats, invalid := m.Stats()
	assert.Equal(t, uint32(4), stats.Frames)
	assert.Zero(t, invalid)
}

func TestMonitorBadSlot(t *testing.T) {
	logger, hook := test.NewNullLogger()
	m := New(bytes.NewReader(nil), logger)

	m.Handle(protocol.Telemetry{ID: protocol.MsgEnv, Slot: []byte{1, 2}})
	m.Handle(protocol.Telemetry{ID: protocol.MsgMotion, Slot: nil})

	snap := m.Snapshot()
	assert.False(t, snap.HaveTemp)
	assert.False(t, snap.HaveMotion)
	assert.Equal(t, uint32(1), snap.Messages[protocol.MsgEnv])
	require.Len(t, hook.AllEntries(), 2)
	assert.Equal(t, log.WarnLevel, hook.LastEntry().Level)
}

func TestMonitorStopsOnCancel(t *testing.T) {
	pr, pw := io.Pipe()
	defer pw.Close()
	logger, _ := test.NewNullLogger()
	m := New(pr, logger)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	assert.ErrorIs(t, m.Run(ctx), context.Canceled)
	assert.NoError(t, m.Close())
}

func TestSnapshotIsACopy(t *testing.T) {
	logger, _ := test.NewNullLogger()
	m := New(bytes.NewReader(nil), logger)
	m.Handle(protocol.Telemetry{ID: protocol.MsgLog, Text: "x"})

	snap := m.Snapshot()
	snap.Messages[protocol.MsgLog] = 99
	assert.Equal(t, uint32(1), m.Snapshot().Messages[protocol.MsgLog])
}
