package core

import (
	"errors"
	"testing"
)

// MockGPIODriver is a test implementation of GPIODriver
type MockGPIODriver struct {
	pins       map[GPIOPin]bool
	configured map[GPIOPin]bool
	levels     map[GPIOPin][]bool // every level driven, in order
	err        error
}

func NewMockGPIODriver() *MockGPIODriver {
	return &MockGPIODriver{
		pins:       make(map[GPIOPin]bool),
		configured: make(map[GPIOPin]bool),
		levels:     make(map[GPIOPin][]bool),
	}
}

func (m *MockGPIODriver) ConfigureOutput(pin GPIOPin, initial bool) error {
	m.configured[pin] = true
	m.pins[pin] = initial
	m.levels[pin] = append(m.levels[pin], initial)
	return nil
}

func (m *MockGPIODriver) SetPin(pin GPIOPin, value bool) error {
	if m.err != nil {
		return m.err
	}
	m.pins[pin] = value
	m.levels[pin] = append(m.levels[pin], value)
	return nil
}

func (m *MockGPIODriver) GetPin(pin GPIOPin) (bool, error) {
	return m.pins[pin], nil
}

func TestDigitalOutBasic(t *testing.T) {
	mockDriver := NewMockGPIODriver()
	SetGPIODriver(mockDriver)

	testPin := GPIOPin(13)
	dout, err := NewDigitalOut(testPin, true, false)
	if err != nil {
		t.Fatalf("NewDigitalOut failed: %v", err)
	}

	if !mockDriver.configured[testPin] {
		t.Errorf("Pin %d was not configured as output", testPin)
	}
	if !mockDriver.pins[testPin] || !dout.IsOn() {
		t.Errorf("Expected pin to start high")
	}

	if err := dout.Toggle(); err != nil {
		t.Fatalf("Toggle failed: %v", err)
	}
	if mockDriver.pins[testPin] || dout.IsOn() {
		t.Errorf("Expected pin to be low after toggle")
	}

	dout.Set(true)
	if !mockDriver.pins[testPin] {
		t.Errorf("Expected pin to be high after Set(true)")
	}

	if err := dout.Shutdown(); err != nil {
		t.Fatalf("Shutdown failed: %v", err)
	}
	if mockDriver.pins[testPin] {
		t.Errorf("Expected pin to return to its default low state")
	}
}

func TestDigitalOutKeepsStateOnError(t *testing.T) {
	mockDriver := NewMockGPIODriver()
	SetGPIODriver(mockDriver)

	dout, err := NewDigitalOut(GPIOPin(2), false, true)
	if err != nil {
		t.Fatalf("NewDigitalOut failed: %v", err)
	}

	mockDriver.err = errors.New("pin locked")
	dout.Set(true)
	if dout.LastErr == nil {
		t.Errorf("Expected Set to record the driver error")
	}
	if dout.IsOn() {
		t.Errorf("State flag changed although the write failed")
	}
	if err := dout.Toggle(); err == nil {
		t.Errorf("Expected Toggle to return the driver error")
	}
}

func TestChipSelectNeverGlitchesLow(t *testing.T) {
	mockDriver := NewMockGPIODriver()
	SetGPIODriver(mockDriver)

	cs, err := NewDigitalOut(GPIOPin(2), true, true)
	if err != nil {
		t.Fatalf("NewDigitalOut failed: %v", err)
	}
	if levels := mockDriver.levels[2]; len(levels) != 1 || !levels[0] {
		t.Errorf("Chip select levels during setup: %v", levels)
	}
	if !cs.IsOn() {
		t.Errorf("Chip select does not report high")
	}
}
