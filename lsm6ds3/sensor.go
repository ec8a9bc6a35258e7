package lsm6ds3

import (
	"tinygo.org/x/drivers"
)

var _ drivers.Sensor = (*Device)(nil)

// Update reads the requested measurements and caches them for Acceleration,
// AngularVelocity and Temperature. It stops at the first failing read.
func (d *Device) Update(which drivers.Measurement) error {
	if which&drivers.Acceleration != 0 {
		for i, reg := range [3]uint8{RegOutXLXL, RegOutYLXL, RegOutZLXL} {
			raw, err := d.readRaw(reg)
			if err != nil {
				return err
			}
			d.accel[i] = d.microG(raw)
		}
	}
	if which&drivers.AngularVelocity != 0 {
		for i, reg := range [3]uint8{RegOutXLG, RegOutYLG, RegOutZLG} {
			raw, err := d.readRaw(reg)
			if err != nil {
				return err
			}
			d.gyro[i] = d.microDPS(raw)
		}
	}
	if which&drivers.Temperature != 0 {
		raw, err := d.ReadRawTemp()
		if err != nil {
			return err
		}
		d.temp = 25000 + int32(raw)*125/2
	}
	return nil
}

// Acceleration returns the last acceleration read by Update, in µg.
func (d *Device) Acceleration() (x, y, z int32) {
	return d.accel[0], d.accel[1], d.accel[2]
}

// AngularVelocity returns the last rotation rate read by Update, in µdps.
func (d *Device) AngularVelocity() (x, y, z int32) {
	return d.gyro[0], d.gyro[1], d.gyro[2]
}

// Temperature returns the last die temperature read by Update, in milli-°C.
func (d *Device) Temperature() int32 {
	return d.temp
}

// 61 µg/LSB at 2 g, doubling with each range step.
func (d *Device) microG(raw int16) int32 {
	return int32(raw) * 61 * int32(d.Settings.AccelRange>>1)
}

// 4375 µdps/LSB at 125 dps. Full scale at 2000 dps exceeds int32, so saturate.
func (d *Device) microDPS(raw int16) int32 {
	v := int64(raw) * 4375 * int64(d.gyroDivisor())
	switch {
	case v > 1<<31-1:
		return 1<<31 - 1
	case v < -1<<31:
		return -1 << 31
	}
	return int32(v)
}
