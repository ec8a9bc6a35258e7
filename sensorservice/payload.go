package sensorservice

import "encoding/binary"

// Slot sizes
const (
	EnvSize    = 8
	MotionSize = 14
)

// tempBias is added to the temperature before it is written to the slot
const tempBias = 22

// Byte offsets inside the slots. Bytes 0..1 of both slots are the BlueST
// timestamp and env bytes 2..5 the pressure; neither is produced here.
const (
	envTempOffset     = 6
	motionAccelOffset = 2
	motionGyroOffset  = 8
)

// ValueBytes holds the two characteristic slots in their wire layout
type ValueBytes struct {
	Env    [EnvSize]byte
	Motion [MotionSize]byte
}

// UpdateTemp stores t (tenths of a degree C) in the env slot
func (v *ValueBytes) UpdateTemp(t int16) {
	binary.LittleEndian.PutUint16(v.Env[envTempOffset:], uint16(int32(t)+tempBias))
}

// UpdateAccel stores raw accelerometer counts ordered {Y, X, Z}. Y and Z are
// negated and every axis is scaled down by 4.
func (v *ValueBytes) UpdateAccel(a [3]int16) {
	vals := [3]int32{-int32(a[0]) >> 2, int32(a[1]) >> 2, -int32(a[2]) >> 2}
	for i, val := range vals {
		binary.LittleEndian.PutUint16(v.Motion[motionAccelOffset+2*i:], uint16(val))
	}
}

// UpdateGyro stores raw gyroscope counts ordered {Y, X, Z}, each shifted
// left by 4 and truncated to 16 bits
func (v *ValueBytes) UpdateGyro(g [3]int16) {
	for i, val := range g {
		binary.LittleEndian.PutUint16(v.Motion[motionGyroOffset+2*i:], uint16(int32(val)<<4))
	}
}

// DecodeTemperature returns the temperature in tenths of a degree C from an
// env slot. The bias wraps the same way it does on encode.
func DecodeTemperature(env []byte) (int16, bool) {
	if len(env) != EnvSize {
		return 0, false
	}
	return int16(binary.LittleEndian.Uint16(env[envTempOffset:]) - tempBias), true
}

// Motion is a decoded motion slot in wire units
type Motion struct {
	Timestamp uint16
	Accel     [3]int16
	Gyro      [3]int16
}

// DecodeMotion splits a motion slot into its fields
func DecodeMotion(motion []byte) (Motion, bool) {
	var m Motion
	if len(motion) != MotionSize {
		return m, false
	}
	m.Timestamp = binary.LittleEndian.Uint16(motion)
	for i := 0; i < 3; i++ {
		m.Accel[i] = int16(binary.LittleEndian.Uint16(motion[motionAccelOffset+2*i:]))
		m.Gyro[i] = int16(binary.LittleEndian.Uint16(motion[motionGyroOffset+2*i:]))
	}
	return m, true
}
