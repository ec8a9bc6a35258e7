//go:build nrf52840

package main

import (
	"errors"
	"machine"
	"sync"

	"imuble/core"
)

// NRFI2CDriver implements core.I2CDriver using TinyGo's machine.I2C.
// The nRF52840 TWI instances are I2C0 and I2C1.
type NRFI2CDriver struct {
	mu sync.Mutex

	buses map[core.I2CBusID]*machine.I2C
}

func NewNRFI2CDriver() *NRFI2CDriver {
	return &NRFI2CDriver{
		buses: make(map[core.I2CBusID]*machine.I2C),
	}
}

// ConfigureBus initializes a bus on the board's default SDA/SCL pins
func (d *NRFI2CDriver) ConfigureBus(bus core.I2CBusID, frequencyHz uint32) error {
	d.mu.Lock()
	defer d.mu.Unlock()

	if i2c, exists := d.buses[bus]; exists {
		return i2c.SetBaudRate(frequencyHz)
	}

	var i2c *machine.I2C
	switch bus {
	case 0:
		i2c = machine.I2C0
	case 1:
		i2c = machine.I2C1
	default:
		return errors.New("unsupported I2C bus ID")
	}

	if err := i2c.Configure(machine.I2CConfig{Frequency: frequencyHz}); err != nil {
		return err
	}
	d.buses[bus] = i2c
	return nil
}

func (d *NRFI2CDriver) Tx(bus core.I2CBusID, addr core.I2CAddress, w, r []byte) error {
	i2c, err := d.bus(bus)
	if err != nil {
		return err
	}
	return i2c.Tx(uint16(addr), w, r)
}

func (d *NRFI2CDriver) bus(bus core.I2CBusID) (*machine.I2C, error) {
	d.mu.Lock()
	defer d.mu.Unlock()

	i2c, exists := d.buses[bus]
	if !exists {
		return nil, errors.New("I2C bus not configured")
	}
	return i2c, nil
}
