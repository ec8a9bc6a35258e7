//go:build nrf52840

package main

import (
	"machine"

	"imuble/core"
)

// NRFGPIODriver implements core.GPIODriver. Pin numbers are nRF port pins:
// P0.n is n and P1.n is 32+n, the same numbering machine.Pin uses.
type NRFGPIODriver struct {
	configuredPins map[core.GPIOPin]machine.Pin
}

func NewNRFGPIODriver() *NRFGPIODriver {
	return &NRFGPIODriver{
		configuredPins: make(map[core.GPIOPin]machine.Pin),
	}
}

// ConfigureOutput latches the initial level in OUT before switching the pin
// to output
func (d *NRFGPIODriver) ConfigureOutput(pin core.GPIOPin, initial bool) error {
	if _, exists := d.configuredPins[pin]; exists {
		return nil
	}
	machinePin := machine.Pin(pin)
	machinePin.Set(initial)
	machinePin.Configure(machine.PinConfig{Mode: machine.PinOutput})
	d.configuredPins[pin] = machinePin
	return nil
}

// SetPin drives the pin, configuring it first if needed
func (d *NRFGPIODriver) SetPin(pin core.GPIOPin, value bool) error {
	machinePin, exists := d.configuredPins[pin]
	if !exists {
		return d.ConfigureOutput(pin, value)
	}
	machinePin.Set(value)
	return nil
}

func (d *NRFGPIODriver) GetPin(pin core.GPIOPin) (bool, error) {
	machinePin, exists := d.configuredPins[pin]
	if !exists {
		return false, nil
	}
	return machinePin.Get(), nil
}
