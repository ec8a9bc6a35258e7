package lsm6ds3

import (
	"tinygo.org/x/drivers"
)

type i2cBus struct {
	conn drivers.I2C
	addr uint16
	w    [2]byte
}

// NewI2C builds a Core on a configured I2C bus. addr is usually
// DefaultAddress or AltAddress.
func NewI2C(conn drivers.I2C, addr uint16) *Core {
	return &Core{
		handle: Handle{Mode: I2CMode, Arg: addr},
		bus:    &i2cBus{conn: conn, addr: addr},
	}
}

func (b *i2cBus) read(reg uint8, buf []byte) error {
	b.w[0] = reg
	return b.conn.Tx(b.addr, b.w[:1], buf)
}

func (b *i2cBus) write(reg, value uint8) error {
	b.w[0] = reg
	b.w[1] = value
	return b.conn.Tx(b.addr, b.w[:2], nil)
}
