package linuxbus

import (
	"fmt"

	"periph.io/x/conn/v3/physic"
	"periph.io/x/conn/v3/spi"
	"periph.io/x/conn/v3/spi/spireg"

	"imuble/core"
)

type spiConn interface {
	Tx(w, r []byte) error
}

type spiOpener func(name string, mode core.SPIMode, rate uint32) (spiConn, error)

// SPIDriver implements core.SPIDriver on spidev ports. The kernel drives chip
// select for the port's own CS line.
type SPIDriver struct {
	names map[core.SPIBusID]string
	open  spiOpener
}

// NewSPIDriver creates a driver that opens ports by registry name
func NewSPIDriver(names map[core.SPIBusID]string) *SPIDriver {
	return &SPIDriver{names: names, open: openPeriphSPI}
}

func openPeriphSPI(name string, mode core.SPIMode, rate uint32) (spiConn, error) {
	port, err := spireg.Open(name)
	if err != nil {
		return nil, err
	}
	conn, err := port.Connect(physic.Frequency(rate)*physic.Hertz, spi.Mode(mode), 8)
	if err != nil {
		port.Close()
		return nil, err
	}
	return conn, nil
}

// ConfigureBus opens the port mapped to config.BusID
func (d *SPIDriver) ConfigureBus(config core.SPIConfig) (core.SPIHandle, error) {
	name, ok := d.names[config.BusID]
	if !ok {
		return nil, fmt.Errorf("spi bus %d: no port mapped", config.BusID)
	}
	if !config.Mode.Valid() {
		return nil, fmt.Errorf("spi bus %d: invalid mode %d", config.BusID, config.Mode)
	}
	conn, err := d.open(name, config.Mode, config.Rate)
	if err != nil {
		return nil, fmt.Errorf("open spi %s: %w", name, err)
	}
	return conn, nil
}

// Transfer runs one full-duplex transaction
func (d *SPIDriver) Transfer(busHandle core.SPIHandle, txData []byte, rxData []byte) error {
	conn, ok := busHandle.(spiConn)
	if !ok {
		return fmt.Errorf("invalid spi handle %T", busHandle)
	}
	return conn.Tx(txData, rxData)
}

// GetBusInfo lists the mapped ports
func (d *SPIDriver) GetBusInfo() map[core.SPIBusID]string {
	info := make(map[core.SPIBusID]string, len(d.names))
	for id, name := range d.names {
		info[id] = name
	}
	return info
}
