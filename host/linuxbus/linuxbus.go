// Package linuxbus registers periph.io backed SPI, I2C and GPIO drivers with
// the core HAL so the sensor stack runs unchanged on a Linux board.
package linuxbus

import (
	"fmt"
	"sync"

	"periph.io/x/host/v3"

	"imuble/core"
)

var initOnce struct {
	sync.Once
	err error
}

// Init loads the periph.io host drivers. It is safe to call more than once.
func Init() error {
	initOnce.Do(func() {
		if _, err := host.Init(); err != nil {
			initOnce.err = fmt.Errorf("periph host init: %w", err)
		}
	})
	return initOnce.err
}

// Names maps core bus and pin identifiers to periph registry names
type Names struct {
	SPI map[core.SPIBusID]string
	I2C map[core.I2CBusID]string
	// GPIO is a format string taking the pin number, e.g. "GPIO%d"
	GPIO string
}

// DefaultNames matches the Raspberry Pi header
func DefaultNames() Names {
	return Names{
		SPI:  map[core.SPIBusID]string{0: "SPI0.0", 1: "SPI0.1"},
		I2C:  map[core.I2CBusID]string{1: "1"},
		GPIO: "GPIO%d",
	}
}

// Register initializes periph and installs the three drivers as the core HAL
// singletons
func Register(names Names) error {
	if err := Init(); err != nil {
		return err
	}
	core.SetSPIDriver(NewSPIDriver(names.SPI))
	core.SetI2CDriver(NewI2CDriver(names.I2C))
	core.SetGPIODriver(NewGPIODriver(names.GPIO))
	return nil
}
