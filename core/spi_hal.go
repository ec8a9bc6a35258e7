package core

// SPIBusID selects one of the target's SPI controllers
type SPIBusID uint8

// SPIMode packs clock polarity (bit 1) and phase (bit 0). The LSM6DS3 is
// wired in mode 3: clock idles high, data sampled on the rising edge.
type SPIMode uint8

const (
	SPIMode0 SPIMode = iota
	SPIMode1
	SPIMode2
	SPIMode3
)

func (m SPIMode) Valid() bool { return m <= SPIMode3 }

type SPIConfig struct {
	BusID SPIBusID
	Mode  SPIMode
	Rate  uint32 // Hz
}

// SPIHandle is whatever the driver needs to find a configured bus again.
// Only the driver that returned it may interpret it.
type SPIHandle any

// SPIDriver runs full-duplex transfers on the target's SPI controllers.
// Chip select is not its concern; callers drive it through a DigitalOut.
type SPIDriver interface {
	ConfigureBus(config SPIConfig) (SPIHandle, error)

	// Transfer clocks tx out while filling rx. Both have the same length.
	Transfer(h SPIHandle, tx, rx []byte) error

	// GetBusInfo names each bus the driver can open, for probe output
	GetBusInfo() map[SPIBusID]string
}

var spiDriver SPIDriver

func SetSPIDriver(d SPIDriver) {
	spiDriver = d
}

// MustSPI panics when no driver was installed at startup
func MustSPI() SPIDriver {
	if spiDriver == nil {
		panic("SPI driver not configured")
	}
	return spiDriver
}
