// GPIO output support: status LEDs and chip-select lines
package core

// DigitalOut flags
const (
	DF_ON         = 1 << 0 // Current pin state (1=high, 0=low)
	DF_DEFAULT_ON = 1 << 3 // State restored by Shutdown
)

// DigitalOut is a configured GPIO output pin
type DigitalOut struct {
	Pin   GPIOPin // Hardware pin
	Flags uint8   // State flags (DF_*)

	// LastErr holds the most recent driver error from Set, which cannot return one
	LastErr error
}

// NewDigitalOut configures pin as an output through the registered GPIO
// driver, starting at value.
func NewDigitalOut(pin GPIOPin, value, defaultValue bool) (*DigitalOut, error) {
	dout := &DigitalOut{Pin: pin}
	if defaultValue {
		dout.Flags |= DF_DEFAULT_ON
	}

	if err := MustGPIO().ConfigureOutput(pin, value); err != nil {
		return nil, err
	}
	if value {
		dout.Flags |= DF_ON
	}
	return dout, nil
}

// IsOn reports the last state written
func (d *DigitalOut) IsOn() bool {
	return d.Flags&DF_ON != 0
}

// Write drives the pin and records the new state
func (d *DigitalOut) Write(value bool) error {
	if err := MustGPIO().SetPin(d.Pin, value); err != nil {
		return err
	}
	if value {
		d.Flags |= DF_ON
	} else {
		d.Flags &^= DF_ON
	}
	return nil
}

// Set drives the pin, keeping any error in LastErr. It lets a DigitalOut
// serve as a chip-select line.
func (d *DigitalOut) Set(high bool) {
	d.LastErr = d.Write(high)
}

// Toggle inverts the pin
func (d *DigitalOut) Toggle() error {
	return d.Write(!d.IsOn())
}

// Shutdown returns the pin to its default state
func (d *DigitalOut) Shutdown() error {
	return d.Write(d.Flags&DF_DEFAULT_ON != 0)
}
