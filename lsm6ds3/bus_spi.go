package lsm6ds3

import (
	"tinygo.org/x/drivers"
)

// OutputPin drives the chip-select line. machine.Pin satisfies it.
type OutputPin interface {
	Set(high bool)
}

type noPin struct{}

func (noPin) Set(bool) {}

// NoChipSelect is used when the bus asserts chip select itself, as Linux
// spidev ports do.
var NoChipSelect OutputPin = noPin{}

type spiBus struct {
	conn drivers.SPI
	cs   OutputPin
	tx   [regionMax + 1]byte
	rx   [regionMax + 1]byte
}

// NewSPI builds a Core on a configured SPI bus (mode 3, up to 10 MHz). cs is
// driven low for each transaction and released on every return path; csPin
// is recorded in the Handle only.
func NewSPI(conn drivers.SPI, cs OutputPin, csPin uint16) *Core {
	if cs == nil {
		cs = NoChipSelect
	}
	cs.Set(true)
	return &Core{
		handle: Handle{Mode: SPIMode, Arg: csPin},
		bus:    &spiBus{conn: conn, cs: cs},
	}
}

func (b *spiBus) read(reg uint8, buf []byte) error {
	n := len(buf) + 1
	b.tx[0] = reg | spiReadFlag
	for i := 1; i < n; i++ {
		b.tx[i] = 0
	}
	if err := b.transfer(b.tx[:n], b.rx[:n]); err != nil {
		return err
	}
	copy(buf, b.rx[1:n])
	return nil
}

func (b *spiBus) write(reg, value uint8) error {
	b.tx[0] = reg &^ spiReadFlag
	b.tx[1] = value
	return b.transfer(b.tx[:2], b.rx[:2])
}

func (b *spiBus) transfer(w, r []byte) error {
	b.cs.Set(false)
	defer b.cs.Set(true)
	return b.conn.Tx(w, r)
}
