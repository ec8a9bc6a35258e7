// SPI bus access for sensor drivers
package core

import (
	"errors"

	"tinygo.org/x/drivers"
)

var (
	// ErrTransferLength is returned when Tx is given buffers of different lengths
	ErrTransferLength = errors.New("spi: tx and rx lengths differ")
	ErrSPIMode        = errors.New("spi: mode must be 0-3")
)

// SPIBus exposes one configured hardware bus as a drivers.SPI, so TinyGo
// drivers can run on top of the SPI HAL.
type SPIBus struct {
	Config SPIConfig

	drv     SPIDriver
	handle  SPIHandle
	scratch []byte
}

var _ drivers.SPI = (*SPIBus)(nil)

// OpenSPI configures a bus through the registered SPI driver
func OpenSPI(config SPIConfig) (*SPIBus, error) {
	if !config.Mode.Valid() {
		return nil, ErrSPIMode
	}
	drv := MustSPI()
	handle, err := drv.ConfigureBus(config)
	if err != nil {
		return nil, err
	}
	return &SPIBus{Config: config, drv: drv, handle: handle}, nil
}

// Tx performs a full-duplex transfer. Either buffer may be nil.
func (b *SPIBus) Tx(w, r []byte) error {
	switch {
	case w == nil && r == nil:
		return nil
	case w == nil:
		w = b.zeroes(len(r))
	case r == nil:
		r = b.discard(len(w))
	case len(w) != len(r):
		return ErrTransferLength
	}
	return b.drv.Transfer(b.handle, w, r)
}

// Transfer sends and receives a single byte
func (b *SPIBus) Transfer(w byte) (byte, error) {
	var tx, rx [1]byte
	tx[0] = w
	err := b.drv.Transfer(b.handle, tx[:], rx[:])
	return rx[0], err
}

func (b *SPIBus) grow(n int) []byte {
	if cap(b.scratch) < n {
		b.scratch = make([]byte, n)
	}
	return b.scratch[:n]
}

func (b *SPIBus) zeroes(n int) []byte {
	buf := b.grow(n)
	for i := range buf {
		buf[i] = 0
	}
	return buf
}

func (b *SPIBus) discard(n int) []byte {
	return b.grow(n)
}
