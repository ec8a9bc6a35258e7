package linuxbus

import (
	"fmt"
	"sync"

	"periph.io/x/conn/v3/gpio"
	"periph.io/x/conn/v3/gpio/gpioreg"

	"imuble/core"
)

type outPin interface {
	Out(l gpio.Level) error
	Read() gpio.Level
}

// GPIODriver implements core.GPIODriver on the periph pin registry
type GPIODriver struct {
	format string
	lookup func(name string) outPin

	mu   sync.Mutex
	pins map[core.GPIOPin]outPin
}

// NewGPIODriver resolves pin numbers through format, e.g. "GPIO%d"
func NewGPIODriver(format string) *GPIODriver {
	return &GPIODriver{
		format: format,
		lookup: lookupPeriphPin,
		pins:   make(map[core.GPIOPin]outPin),
	}
}

func lookupPeriphPin(name string) outPin {
	p := gpioreg.ByName(name)
	if p == nil {
		return nil
	}
	return p
}

func (d *GPIODriver) ConfigureOutput(pin core.GPIOPin, initial bool) error {
	d.mu.Lock()
	defer d.mu.Unlock()

	if _, ok := d.pins[pin]; ok {
		return nil
	}
	name := fmt.Sprintf(d.format, pin)
	p := d.lookup(name)
	if p == nil {
		return fmt.Errorf("gpio pin %s not found", name)
	}
	if err := p.Out(gpio.Level(initial)); err != nil {
		return fmt.Errorf("configure %s: %w", name, err)
	}
	d.pins[pin] = p
	return nil
}

func (d *GPIODriver) pin(pin core.GPIOPin) (outPin, error) {
	d.mu.Lock()
	defer d.mu.Unlock()
	p, ok := d.pins[pin]
	if !ok {
		return nil, fmt.Errorf("gpio pin %d not configured", pin)
	}
	return p, nil
}

func (d *GPIODriver) SetPin(pin core.GPIOPin, value bool) error {
	p, err := d.pin(pin)
	if err != nil {
		return err
	}
	return p.Out(gpio.Level(value))
}

func (d *GPIODriver) GetPin(pin core.GPIOPin) (bool, error) {
	p, err := d.pin(pin)
	if err != nil {
		return false, err
	}
	return bool(p.Read()), nil
}
