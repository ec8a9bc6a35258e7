package lsm6ds3

import (
	regs "tinygo.org/x/drivers/lsm6ds3"
)

// Device is the sensor facade. It reads through a Transport and converts
// using the current Settings; nothing re-reads the chip configuration.
type Device struct {
	Settings SensorSettings

	// AllOnesCounter and NonSuccessCounter count failed raw reads by severity.
	AllOnesCounter    uint16
	NonSuccessCounter uint16

	tr Transport

	accelOffset [3]int16
	gyroOffset  [3]int16

	// last Update results
	accel [3]int32
	gyro  [3]int32
	temp  int32
}

// New returns a Device with DefaultSettings. Call Begin before reading.
func New(tr Transport) *Device {
	d := &Device{Settings: DefaultSettings(), tr: tr}
	if h, ok := tr.(interface{ Handle() Handle }); ok {
		d.Settings.CommMode = h.Handle().Mode
	}
	return d
}

// Transport returns the underlying register transport.
func (d *Device) Transport() Transport {
	return d.tr
}

// Begin probes the chip and applies Settings. It stops at the first failing
// transaction and leaves whatever was already written in place.
func (d *Device) Begin() error {
	if err := probe(d.tr); err != nil {
		return err
	}
	if err := d.tr.WriteRegister(RegCtrl1XL, d.Settings.ctrl1XL()); err != nil {
		return err
	}

	ctrl4, err := d.tr.ReadRegister(RegCtrl4C)
	if err != nil {
		return err
	}
	ctrl4 &^= regs.BW_SCAL_ODR_ENABLED
	if d.Settings.AccelODROff {
		ctrl4 |= regs.BW_SCAL_ODR_ENABLED
	}
	if err := d.tr.WriteRegister(RegCtrl4C, ctrl4); err != nil {
		return err
	}

	return d.tr.WriteRegister(RegCtrl2G, d.Settings.ctrl2G())
}

func (d *Device) readRaw(reg uint8) (int16, error) {
	v, err := d.tr.ReadRegisterInt16(reg)
	if err != nil {
		if IsWarning(err) {
			d.AllOnesCounter++
		} else {
			d.NonSuccessCounter++
		}
	}
	return v, err
}

func (d *Device) ReadRawAccelX() (int16, error) { return d.readRaw(RegOutXLXL) }
func (d *Device) ReadRawAccelY() (int16, error) { return d.readRaw(RegOutYLXL) }
func (d *Device) ReadRawAccelZ() (int16, error) { return d.readRaw(RegOutZLXL) }
func (d *Device) ReadRawGyroX() (int16, error)  { return d.readRaw(RegOutXLG) }
func (d *Device) ReadRawGyroY() (int16, error)  { return d.readRaw(RegOutYLG) }
func (d *Device) ReadRawGyroZ() (int16, error)  { return d.readRaw(RegOutZLG) }
func (d *Device) ReadRawTemp() (int16, error)   { return d.readRaw(RegOutTempL) }

// CalcAccel converts a raw accelerometer sample to g at the configured range.
func (d *Device) CalcAccel(raw int32) float32 {
	return float32(raw) * 0.061 * float32(d.Settings.AccelRange>>1) / 1000
}

// CalcGyro converts a raw gyroscope sample to dps at the configured range.
func (d *Device) CalcGyro(raw int32) float32 {
	return float32(raw) * 4.375 * float32(d.gyroDivisor()) / 1000
}

// 245 dps is the one range that is not a multiple of 125.
func (d *Device) gyroDivisor() uint16 {
	if d.Settings.GyroRange == 245 {
		return 2
	}
	return d.Settings.GyroRange / 125
}

func (d *Device) ReadFloatAccelX() (float32, error) { return d.readAccel(RegOutXLXL) }
func (d *Device) ReadFloatAccelY() (float32, error) { return d.readAccel(RegOutYLXL) }
func (d *Device) ReadFloatAccelZ() (float32, error) { return d.readAccel(RegOutZLXL) }
func (d *Device) ReadFloatGyroX() (float32, error)  { return d.readGyro(RegOutXLG) }
func (d *Device) ReadFloatGyroY() (float32, error)  { return d.readGyro(RegOutYLG) }
func (d *Device) ReadFloatGyroZ() (float32, error)  { return d.readGyro(RegOutZLG) }

func (d *Device) readAccel(reg uint8) (float32, error) {
	raw, err := d.readRaw(reg)
	return d.CalcAccel(int32(raw)), err
}

func (d *Device) readGyro(reg uint8) (float32, error) {
	raw, err := d.readRaw(reg)
	return d.CalcGyro(int32(raw)), err
}

// ReadTempC returns the die temperature in degrees Celsius.
func (d *Device) ReadTempC() (float32, error) {
	raw, err := d.ReadRawTemp()
	return float32(raw)/16 + 25, err
}

// ReadTempF returns the die temperature in degrees Fahrenheit.
func (d *Device) ReadTempF() (float32, error) {
	c, err := d.ReadTempC()
	return c*9/5 + 32, err
}

// SetOffset stores calibration offsets. They are never subtracted from
// readings; callers apply them.
func (d *Device) SetOffset(ax, ay, az, gx, gy, gz int16) {
	d.accelOffset = [3]int16{ax, ay, az}
	d.gyroOffset = [3]int16{gx, gy, gz}
}

// Offsets returns the values last passed to SetOffset.
func (d *Device) Offsets() (accel, gyro [3]int16) {
	return d.accelOffset, d.gyroOffset
}
