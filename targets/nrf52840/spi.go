//go:build nrf52840

package main

import (
	"errors"
	"machine"
	"sync"

	"imuble/core"
)

// nRF52840 SPI bus configurations. Bus 0 uses the board's default SPI0 pins.
type spiBusConfig struct {
	spi  *machine.SPI
	sck  machine.Pin
	sdo  machine.Pin
	sdi  machine.Pin
	name string
}

var nrfSPIBuses = map[core.SPIBusID]spiBusConfig{
	0: {spi: machine.SPI0, sck: machine.SPI0_SCK_PIN, sdo: machine.SPI0_SDO_PIN, sdi: machine.SPI0_SDI_PIN, name: "spi0"},
}

// NRFSPIDriver implements core.SPIDriver using TinyGo's machine.SPI
type NRFSPIDriver struct {
	mu sync.Mutex

	configuredBuses map[core.SPIBusID]*spiInstance
}

type spiInstance struct {
	spi  *machine.SPI
	mode core.SPIMode
	rate uint32
}

func NewNRFSPIDriver() *NRFSPIDriver {
	return &NRFSPIDriver{
		configuredBuses: make(map[core.SPIBusID]*spiInstance),
	}
}

// ConfigureBus sets up a hardware SPI bus, reusing it when the settings match
func (d *NRFSPIDriver) ConfigureBus(config core.SPIConfig) (core.SPIHandle, error) {
	d.mu.Lock()
	defer d.mu.Unlock()

	if inst, exists := d.configuredBuses[config.BusID]; exists {
		if inst.mode == config.Mode && inst.rate == config.Rate {
			return inst, nil
		}
	}

	busConfig, exists := nrfSPIBuses[config.BusID]
	if !exists {
		return nil, errors.New("invalid SPI bus ID")
	}
	if !config.Mode.Valid() {
		return nil, errors.New("invalid SPI mode")
	}

	err := busConfig.spi.Configure(machine.SPIConfig{
		Frequency: config.Rate,
		SCK:       busConfig.sck,
		SDO:       busConfig.sdo,
		SDI:       busConfig.sdi,
		Mode:      uint8(config.Mode),
	})
	if err != nil {
		return nil, err
	}

	inst := &spiInstance{spi: busConfig.spi, mode: config.Mode, rate: config.Rate}
	d.configuredBuses[config.BusID] = inst
	return inst, nil
}

// Transfer performs a full-duplex SPI transfer
func (d *NRFSPIDriver) Transfer(busHandle core.SPIHandle, txData []byte, rxData []byte) error {
	inst, ok := busHandle.(*spiInstance)
	if !ok {
		return errors.New("invalid SPI bus handle")
	}
	if len(txData) != len(rxData) {
		return errors.New("tx and rx buffer lengths must match")
	}
	return inst.spi.Tx(txData, rxData)
}

func (d *NRFSPIDriver) GetBusInfo() map[core.SPIBusID]string {
	info := make(map[core.SPIBusID]string)
	for id, config := range nrfSPIBuses {
		info[id] = config.name
	}
	return info
}
