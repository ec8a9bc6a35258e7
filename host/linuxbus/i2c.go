package linuxbus

import (
	"fmt"
	"sync"

	"periph.io/x/conn/v3/i2c/i2creg"
	"periph.io/x/conn/v3/physic"

	"imuble/core"
)

type i2cConn interface {
	Tx(addr uint16, w, r []byte) error
}

type i2cOpener func(name string, frequencyHz uint32) (i2cConn, error)

// I2CDriver implements core.I2CDriver on /dev/i2c-N buses
type I2CDriver struct {
	names map[core.I2CBusID]string
	open  i2cOpener

	mu    sync.Mutex
	buses map[core.I2CBusID]i2cConn
}

// NewI2CDriver creates a driver that opens buses by registry name
func NewI2CDriver(names map[core.I2CBusID]string) *I2CDriver {
	return &I2CDriver{
		names: names,
		open:  openPeriphI2C,
		buses: make(map[core.I2CBusID]i2cConn),
	}
}

func openPeriphI2C(name string, frequencyHz uint32) (i2cConn, error) {
	bus, err := i2creg.Open(name)
	if err != nil {
		return nil, err
	}
	if frequencyHz != 0 {
		// Most adapters fix the clock in the device tree
		_ = bus.SetSpeed(physic.Frequency(frequencyHz) * physic.Hertz)
	}
	return bus, nil
}

// ConfigureBus opens the bus once; later calls are no-ops
func (d *I2CDriver) ConfigureBus(bus core.I2CBusID, frequencyHz uint32) error {
	d.mu.Lock()
	defer d.mu.Unlock()

	if _, ok := d.buses[bus]; ok {
		return nil
	}
	name, ok := d.names[bus]
	if !ok {
		return fmt.Errorf("i2c bus %d: no adapter mapped", bus)
	}
	conn, err := d.open(name, frequencyHz)
	if err != nil {
		return fmt.Errorf("open i2c %s: %w", name, err)
	}
	d.buses[bus] = conn
	return nil
}

func (d *I2CDriver) conn(bus core.I2CBusID) (i2cConn, error) {
	d.mu.Lock()
	defer d.mu.Unlock()
	conn, ok := d.buses[bus]
	if !ok {
		return nil, fmt.Errorf("i2c bus %d not configured", bus)
	}
	return conn, nil
}

func (d *I2CDriver) Tx(bus core.I2CBusID, addr core.I2CAddress, w, r []byte) error {
	conn, err := d.conn(bus)
	if err != nil {
		return err
	}
	return conn.Tx(uint16(addr), w, r)
}
