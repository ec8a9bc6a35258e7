package core

// GPIOPin is a board pin number in the target's own numbering
type GPIOPin uint32

// GPIODriver drives the output pins the firmware needs: the status LED and
// SPI chip-select lines.
type GPIODriver interface {
	// ConfigureOutput makes pin an output that is already at initial when
	// the driver turns it on, so a chip select never pulses low during
	// setup. Configuring a pin twice is not an error.
	ConfigureOutput(pin GPIOPin, initial bool) error

	SetPin(pin GPIOPin, value bool) error

	// GetPin returns the level last driven
	GetPin(pin GPIOPin) (bool, error)
}

var gpioDriver GPIODriver

// SetGPIODriver installs the target's GPIO driver
func SetGPIODriver(d GPIODriver) {
	gpioDriver = d
}

// MustGPIO returns the installed driver. A missing driver is a wiring bug in
// main, so it panics.
func MustGPIO() GPIODriver {
	if gpioDriver == nil {
		panic("GPIO driver not configured")
	}
	return gpioDriver
}
