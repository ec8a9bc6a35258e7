//go:build nrf52840

// Firmware for nRF52840 boards with an LSM6DS3 on SPI0 or I2C0. Build with
// the SoftDevice enabled, e.g.
//
//	tinygo flash -target=feather-nrf52840-sense ./targets/nrf52840
package main

import (
	"context"
	"errors"
	"machine"
	"time"

	"tinygo.org/x/bluetooth"

	"imuble/app"
	"imuble/ble"
	"imuble/core"
	"imuble/lsm6ds3"
)

// Overridable with -ldflags "-X main.busMode=i2c"
var (
	busMode    = "spi"
	configJSON = ""
)

const (
	spiRate    = 4000000
	i2cRate    = 400000
	csPin      = core.GPIOPin(2) // P0.02
	ledPin     = core.GPIOPin(machine.LED)
	retryDelay = 2 * time.Second
)

var errHostGone = errors.New("usb host not reading")

var log = core.Logger{Prefix: "MAIN"}

func main() {
	usb := InitUSB()
	telemetry := app.NewTelemetry(usb)
	core.SetDebugWriter(telemetry.Log)

	cfg := app.DefaultConfig()
	if configJSON != "" {
		loaded, err := app.LoadConfig([]byte(configJSON))
		if err != nil {
			log.Error("bad embedded config, using defaults", err)
		} else {
			cfg = loaded
		}
	}
	core.SetDebugEnabled(cfg.Debug)

	core.SetGPIODriver(NewNRFGPIODriver())
	core.SetSPIDriver(NewNRFSPIDriver())
	core.SetI2CDriver(NewNRFI2CDriver())

	led, err := core.NewDigitalOut(ledPin, false, false)
	if err != nil {
		log.Error("led", err)
	}

	imu := lsm6ds3.New(mustTransport())
	for {
		err := imu.Begin()
		if err == nil {
			break
		}
		log.Error("imu begin failed", err)
		core.DumpEventRing()
		time.Sleep(retryDelay)
	}
	log.Info("imu ready on " + imu.Settings.CommMode.String())

	radio := ble.NewPeripheral(bluetooth.DefaultAdapter, cfg.DeviceName)
	for {
		err := radio.Enable()
		if err == nil {
			break
		}
		log.Error("enable BLE stack", err)
		time.Sleep(retryDelay)
	}

	demo := app.NewSensorDemo(cfg, core.NewEventQueue(), imu, radio, led, telemetry)
	if err := demo.Start(context.Background()); err != nil {
		log.Error("sensor demo stopped", err)
		core.DumpEventRing()
	}
	for {
		time.Sleep(time.Hour)
	}
}

func mustTransport() lsm6ds3.Transport {
	for {
		tr, err := openTransport()
		if err == nil {
			return tr
		}
		log.Error("open "+busMode+" bus", err)
		time.Sleep(retryDelay)
	}
}

func openTransport() (lsm6ds3.Transport, error) {
	if busMode == "i2c" {
		bus, err := core.OpenI2C(0, i2cRate)
		if err != nil {
			return nil, err
		}
		return lsm6ds3.NewI2C(bus, lsm6ds3.DefaultAddress), nil
	}

	// LSM6DS3 samples on the rising edge with the clock idle high
	bus, err := core.OpenSPI(core.SPIConfig{BusID: 0, Mode: core.SPIMode3, Rate: spiRate})
	if err != nil {
		return nil, err
	}
	cs, err := core.NewDigitalOut(csPin, true, true)
	if err != nil {
		return nil, err
	}
	return lsm6ds3.NewSPI(bus, cs, uint16(csPin)), nil
}
