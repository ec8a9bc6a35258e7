package app

import (
	"errors"
	"strings"
	"testing"

	"github.com/google/uuid"

	"imuble/core"
	"imuble/lsm6ds3"
	"imuble/sensorservice"
)

var errBus = errors.New("spi timeout")

// fakeIMU is a register file behind the lsm6ds3.Transport interface
type fakeIMU struct {
	regs [0x80]uint8
	fail map[uint8]error
}

func newFakeIMU() *fakeIMU {
	f := &fakeIMU{fail: map[uint8]error{}}
	f.regs[lsm6ds3.RegWhoAmI] = lsm6ds3.WhoAmILSM6DS3
	return f
}

func (f *fakeIMU) setWord(reg uint8, v int16) {
	f.regs[reg] = uint8(uint16(v))
	f.regs[reg+1] = uint8(uint16(v) >> 8)
}

func (f *fakeIMU) failHard(reg uint8) {
	f.fail[reg] = &lsm6ds3.Error{Status: lsm6ds3.HWError, Reg: reg, Err: errBus}
}

func (f *fakeIMU) failAllOnes(reg uint8) {
	f.fail[reg] = &lsm6ds3.Error{Status: lsm6ds3.AllOnesWarning, Reg: reg}
}

func (f *fakeIMU) ReadRegisterRegion(buf []byte, start uint8) error {
	copy(buf, f.regs[start:])
	return f.fail[start]
}

func (f *fakeIMU) ReadRegister(reg uint8) (uint8, error) {
	var b [1]byte
	err := f.ReadRegisterRegion(b[:], reg)
	return b[0], err
}

func (f *fakeIMU) ReadRegisterInt16(reg uint8) (int16, error) {
	if err := f.fail[reg]; err != nil {
		if lsm6ds3.IsWarning(err) {
			return -1, err
		}
		return 0, err
	}
	return int16(uint16(f.regs[reg]) | uint16(f.regs[reg+1])<<8), nil
}

func (f *fakeIMU) WriteRegister(reg, value uint8) error {
	f.regs[reg] = value
	return nil
}

func (f *fakeIMU) EmbeddedPage() error { return nil }
func (f *fakeIMU) BasePage() error     { return nil }

type fakeChar struct {
	writes [][]byte
	err    error
}

func (c *fakeChar) Write(p []byte) (int, error) {
	c.writes = append(c.writes, append([]byte(nil), p...))
	if c.err != nil {
		return 0, c.err
	}
	return len(p), nil
}

func (c *fakeChar) last() []byte {
	if len(c.writes) == 0 {
		return nil
	}
	return c.writes[len(c.writes)-1]
}

type fakeRadio struct {
	handler    func(bool)
	configured bool
	advStarts  int
	advErr     error
	serviceErr error
	env        *fakeChar
	motion     *fakeChar
}

func (r *fakeRadio) AddService(service uuid.UUID, configs []sensorservice.CharacteristicConfig) ([]sensorservice.Characteristic, error) {
	if r.serviceErr != nil {
		return nil, r.serviceErr
	}
	r.env, r.motion = &fakeChar{}, &fakeChar{}
	return []sensorservice.Characteristic{r.env, r.motion}, nil
}

func (r *fakeRadio) SetConnectHandler(handler func(connected bool)) {
	r.handler = handler
}

func (r *fakeRadio) ConfigureAdvertising() error {
	r.configured = true
	return nil
}

func (r *fakeRadio) StartAdvertising() error {
	r.advStarts++
	return r.advErr
}

type mockGPIO struct {
	pins map[core.GPIOPin]bool
}

func (m *mockGPIO) ConfigureOutput(pin core.GPIOPin, initial bool) error {
	m.pins[pin] = initial
	return nil
}

func (m *mockGPIO) SetPin(pin core.GPIOPin, value bool) error {
	m.pins[pin] = value
	return nil
}

func (m *mockGPIO) GetPin(pin core.GPIOPin) (bool, error) {
	return m.pins[pin], nil
}

// logCapture collects core debug output for the duration of a test
type logCapture struct {
	lines []string
}

func captureLog(t *testing.T) *logCapture {
	c := &logCapture{}
	core.SetDebugWriter(func(s string) { c.lines = append(c.lines, s) })
	t.Cleanup(func() { core.SetDebugWriter(nil) })
	return c
}

func (c *logCapture) count(substr string) int {
	n := 0
	for _, l := range c.lines {
		if strings.Contains(l, substr) {
			n++
		}
	}
	return n
}
