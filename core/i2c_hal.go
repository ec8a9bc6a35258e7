package core

// I2CBusID selects one of the target's I2C controllers
type I2CBusID uint8

// I2CAddress is a 7-bit device address
type I2CAddress uint8

// I2CDriver moves bytes on the target's I2C controllers. The sensor only
// ever needs a register write, or a register address followed by a burst
// read, so a single combined transaction covers both.
type I2CDriver interface {
	// ConfigureBus brings bus up at frequencyHz. Calling it again for a bus
	// that is already running is allowed.
	ConfigureBus(bus I2CBusID, frequencyHz uint32) error

	// Tx writes w to addr and, when r is non-empty, fills r after a
	// repeated start.
	Tx(bus I2CBusID, addr I2CAddress, w, r []byte) error
}

var i2cDriver I2CDriver

func SetI2CDriver(d I2CDriver) {
	i2cDriver = d
}

// MustI2C panics when no driver was installed at startup
func MustI2C() I2CDriver {
	if i2cDriver == nil {
		panic("I2C driver not configured")
	}
	return i2cDriver
}
