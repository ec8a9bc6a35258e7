// Package ble connects the sensor service to tinygo.org/x/bluetooth. The
// same code drives the nRF SoftDevice on the MCU and BlueZ on Linux.
package ble

import (
	"errors"

	"github.com/google/uuid"
	"tinygo.org/x/bluetooth"

	"imuble/sensorservice"
)

// DeviceName is the advertised local name
const DeviceName = "MBED_SENSOR"

// BlueST advertising data: protocol version 1, device id 0x02 and the
// feature mask announcing the environmental and motion characteristics.
// The first two bytes go out as the company id.
const blueSTCompanyID = 0x0201

var blueSTFeatures = []byte{0x00, 0xD4, 0x00, 0x00, 0x00, 0x00, 0x00, 0x00, 0x00, 0x00}

var errNotConfigured = errors.New("ble: advertising not configured")

// Peripheral is the GATT server and advertiser
type Peripheral struct {
	adapter *bluetooth.Adapter
	adv     *bluetooth.Advertisement
	name    string
}

// NewPeripheral wraps adapter, usually bluetooth.DefaultAdapter. An empty
// name means DeviceName.
func NewPeripheral(adapter *bluetooth.Adapter, name string) *Peripheral {
	if name == "" {
		name = DeviceName
	}
	return &Peripheral{adapter: adapter, name: name}
}

// Enable powers up the BLE stack
func (p *Peripheral) Enable() error {
	return p.adapter.Enable()
}

// AddService registers a service and returns its characteristics in the
// order of chars
func (p *Peripheral) AddService(service uuid.UUID, chars []sensorservice.CharacteristicConfig) ([]sensorservice.Characteristic, error) {
	handles := make([]bluetooth.Characteristic, len(chars))
	configs := make([]bluetooth.CharacteristicConfig, len(chars))
	for i, c := range chars {
		configs[i] = bluetooth.CharacteristicConfig{
			Handle: &handles[i],
			UUID:   bluetooth.NewUUID(c.UUID),
			Value:  c.Value,
			Flags:  characteristicFlags(c.Flags),
		}
	}

	err := p.adapter.AddService(&bluetooth.Service{
		UUID:            bluetooth.NewUUID(service),
		Characteristics: configs,
	})
	if err != nil {
		return nil, err
	}

	out := make([]sensorservice.Characteristic, len(handles))
	for i := range handles {
		out[i] = &handles[i]
	}
	return out, nil
}

// ConfigureAdvertising sets the local name and BlueST manufacturer data
func (p *Peripheral) ConfigureAdvertising() error {
	adv := p.adapter.DefaultAdvertisement()
	if err := adv.Configure(advertisementOptions(p.name)); err != nil {
		return err
	}
	p.adv = adv
	return nil
}

func (p *Peripheral) StartAdvertising() error {
	if p.adv == nil {
		return errNotConfigured
	}
	return p.adv.Start()
}

func (p *Peripheral) StopAdvertising() error {
	if p.adv == nil {
		return errNotConfigured
	}
	return p.adv.Stop()
}

// SetConnectHandler registers handler for connection changes. It may be
// called from the BLE stack's own context.
func (p *Peripheral) SetConnectHandler(handler func(connected bool)) {
	p.adapter.SetConnectHandler(func(device bluetooth.Device, connected bool) {
		handler(connected)
	})
}

func advertisementOptions(name string) bluetooth.AdvertisementOptions {
	return bluetooth.AdvertisementOptions{
		LocalName: name,
		ManufacturerData: []bluetooth.ManufacturerDataElement{
			{CompanyID: blueSTCompanyID, Data: blueSTFeatures},
		},
	}
}

func characteristicFlags(f sensorservice.Flags) bluetooth.CharacteristicPermissions {
	var perm bluetooth.CharacteristicPermissions
	if f&sensorservice.FlagRead != 0 {
		perm |= bluetooth.CharacteristicReadPermission
	}
	if f&sensorservice.FlagNotify != 0 {
		perm |= bluetooth.CharacteristicNotifyPermission
	}
	return perm
}
