// I2C bus access for sensor drivers
package core

import (
	"errors"

	"tinygo.org/x/drivers"
)

// ErrI2CAddress is returned for addresses outside the 7-bit range
var ErrI2CAddress = errors.New("i2c address out of range")

// I2CBus exposes one configured bus as a drivers.I2C.
type I2CBus struct {
	Bus I2CBusID

	drv I2CDriver
}

var _ drivers.I2C = (*I2CBus)(nil)

// OpenI2C configures a bus through the registered I2C driver
func OpenI2C(bus I2CBusID, frequencyHz uint32) (*I2CBus, error) {
	drv := MustI2C()
	if err := drv.ConfigureBus(bus, frequencyHz); err != nil {
		return nil, err
	}
	return &I2CBus{Bus: bus, drv: drv}, nil
}

// Tx writes w then, when r is non-empty, reads len(r) bytes after a repeated start
func (b *I2CBus) Tx(addr uint16, w, r []byte) error {
	if addr > 0x7F {
		return ErrI2CAddress
	}
	return b.drv.Tx(b.Bus, I2CAddress(addr), w, r)
}
