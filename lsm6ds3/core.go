// Package lsm6ds3 drives the ST LSM6DS3 6-axis IMU over SPI or I2C.
//
// Core is the register transport. Device layers sensor configuration, unit
// conversion and FIFO handling on top of any Transport.
package lsm6ds3

// CommMode selects the bus a Core talks over.
type CommMode uint8

const (
	I2CMode CommMode = iota
	SPIMode
)

func (m CommMode) String() string {
	if m == SPIMode {
		return "spi"
	}
	return "i2c"
}

// Handle identifies the device on its bus: the chip-select pin in SPI mode,
// the 7-bit address in I2C mode.
type Handle struct {
	Mode CommMode
	Arg  uint16
}

// Transport is the register-level contract Device depends on. Core is the
// production implementation; tests substitute their own.
type Transport interface {
	ReadRegisterRegion(buf []byte, start uint8) error
	ReadRegister(reg uint8) (uint8, error)
	ReadRegisterInt16(reg uint8) (int16, error)
	WriteRegister(reg, value uint8) error
	EmbeddedPage() error
	BasePage() error
}

// bus moves raw bytes; Core owns bounds checks and status mapping.
type bus interface {
	read(reg uint8, buf []byte) error
	write(reg, value uint8) error
}

// regionMax is the largest region that fits below RegMax.
const regionMax = RegMax + 1

// Core implements Transport over a single SPI or I2C bus.
type Core struct {
	handle Handle
	bus    bus
	buf    [2]byte
}

var _ Transport = (*Core)(nil)

// Handle returns the bus identity the core was built with.
func (c *Core) Handle() Handle {
	return c.handle
}

// ReadRegisterRegion reads len(buf) consecutive registers starting at start.
// A read where every byte is 0xFF returns an AllOnesWarning error; buf is
// still filled so callers can decide whether to use it.
func (c *Core) ReadRegisterRegion(buf []byte, start uint8) error {
	if len(buf) == 0 {
		return &Error{Status: OutOfBounds, Reg: start, Err: errEmptyRegion}
	}
	if int(start)+len(buf) > regionMax {
		return &Error{Status: OutOfBounds, Reg: start}
	}
	if err := c.bus.read(start, buf); err != nil {
		return &Error{Status: HWError, Reg: start, Err: err}
	}
	if allOnes(buf) {
		return &Error{Status: AllOnesWarning, Reg: start}
	}
	return nil
}

// ReadRegister reads one register. On a hard error the value is 0.
func (c *Core) ReadRegister(reg uint8) (uint8, error) {
	err := c.ReadRegisterRegion(c.buf[:1], reg)
	if err != nil && !IsWarning(err) {
		return 0, err
	}
	return c.buf[0], err
}

// ReadRegisterInt16 reads reg (low byte) and reg+1 (high byte) as a signed
// little-endian word. On a hard error the value is 0.
func (c *Core) ReadRegisterInt16(reg uint8) (int16, error) {
	err := c.ReadRegisterRegion(c.buf[:2], reg)
	if err != nil && !IsWarning(err) {
		return 0, err
	}
	return int16(uint16(c.buf[0]) | uint16(c.buf[1])<<8), err
}

// WriteRegister writes a single register.
func (c *Core) WriteRegister(reg, value uint8) error {
	if reg > RegMax {
		return &Error{Status: OutOfBounds, Reg: reg}
	}
	if err := c.bus.write(reg, value); err != nil {
		return &Error{Status: HWError, Reg: reg, Err: err}
	}
	return nil
}

// EmbeddedPage maps the embedded function registers over the base page.
func (c *Core) EmbeddedPage() error {
	return c.WriteRegister(RegRAMAccess, ramAccessEmbedded)
}

// BasePage restores the base register page.
func (c *Core) BasePage() error {
	return c.WriteRegister(RegRAMAccess, ramAccessBase)
}

// BeginCore probes WHO_AM_I and fails unless a supported chip answers.
func (c *Core) BeginCore() error {
	return probe(c)
}

// WithEmbeddedPage runs fn with the embedded page selected and always
// switches back to the base page, even when fn fails. The first error wins.
func WithEmbeddedPage(t Transport, fn func() error) error {
	if err := t.EmbeddedPage(); err != nil {
		return err
	}
	err := fn()
	if berr := t.BasePage(); err == nil {
		err = berr
	}
	return err
}

func probe(t Transport) error {
	id, err := t.ReadRegister(RegWhoAmI)
	if err != nil {
		return err
	}
	switch id {
	case WhoAmILSM6DS3, WhoAmILSM6DS3TRC:
		return nil
	default:
		return &Error{Status: HWError, Reg: RegWhoAmI, Err: errUnknownChip}
	}
}

func allOnes(buf []byte) bool {
	for _, b := range buf {
		if b != 0xFF {
			return false
		}
	}
	return true
}
