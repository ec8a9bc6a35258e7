//go:build nrf52840

package main

import (
	"machine"
)

// usbSerial is the USB CDC console. Writes never block the event loop for
// long: after repeated failures the host is assumed gone and output is
// dropped until a write succeeds again.
type usbSerial struct {
	consecutiveWriteFailures uint32
}

// InitUSB configures USB CDC
func InitUSB() *usbSerial {
	machine.Serial.Configure(machine.UARTConfig{})
	return &usbSerial{}
}

func (u *usbSerial) Write(p []byte) (int, error) {
	if u.consecutiveWriteFailures > 10 && !u.probe() {
		return 0, errHostGone
	}
	written := 0
	for written < len(p) {
		n, err := machine.Serial.Write(p[written:])
		if err != nil || n == 0 {
			u.consecutiveWriteFailures++
			if err == nil {
				err = errHostGone
			}
			return written, err
		}
		written += n
	}
	u.consecutiveWriteFailures = 0
	return written, nil
}

// probe retries a host that stopped reading every 64th write
func (u *usbSerial) probe() bool {
	u.consecutiveWriteFailures++
	return u.consecutiveWriteFailures%64 == 0
}
