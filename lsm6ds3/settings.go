package lsm6ds3

// SensorSettings is the configuration Begin and FIFOBegin apply. Ranges are in
// g and dps, rates and bandwidths in Hz. Values the chip does not support fall
// back to the defaults of the encoding tables.
type SensorSettings struct {
	GyroEnabled        bool
	GyroRange          uint16
	GyroSampleRate     uint16
	GyroBandwidth      uint16
	GyroFIFOEnabled    bool
	GyroFIFODecimation uint8

	AccelEnabled        bool
	AccelODROff         bool
	AccelRange          uint16
	AccelSampleRate     uint16
	AccelBandwidth      uint16
	AccelFIFOEnabled    bool
	AccelFIFODecimation uint8

	// TempEnabled is informational. The LSM6DS3 temperature sensor has no
	// enable bit and is always readable.
	TempEnabled bool

	// CommMode mirrors the transport's Handle. New fills it in.
	CommMode CommMode

	FIFOThreshold  uint16
	FIFOSampleRate uint16
	FIFOModeWord   uint8
}

// DefaultSettings returns the power-on configuration used by New.
func DefaultSettings() SensorSettings {
	return SensorSettings{
		GyroEnabled:        true,
		GyroRange:          2000,
		GyroSampleRate:     416,
		GyroBandwidth:      400,
		GyroFIFOEnabled:    true,
		GyroFIFODecimation: 1,

		AccelEnabled:        true,
		AccelODROff:         true,
		AccelRange:          16,
		AccelSampleRate:     416,
		AccelBandwidth:      100,
		AccelFIFOEnabled:    true,
		AccelFIFODecimation: 1,

		TempEnabled: true,

		CommMode: SPIMode,

		FIFOThreshold:  3000,
		FIFOSampleRate: 10,
		FIFOModeWord:   6,
	}
}

func (s *SensorSettings) ctrl1XL() uint8 {
	if !s.AccelEnabled {
		return 0
	}
	return accelBandwidthBits(s.AccelBandwidth) | accelRangeBits(s.AccelRange) | accelRateBits(s.AccelSampleRate)
}

func (s *SensorSettings) ctrl2G() uint8 {
	if !s.GyroEnabled {
		return 0
	}
	return gyroRangeBits(s.GyroRange) | gyroRateBits(s.GyroSampleRate)
}

// fifoCtrl returns FIFO_CTRL1..FIFO_CTRL5 in register order.
func (s *SensorSettings) fifoCtrl() [5]uint8 {
	var ctrl3 uint8
	if s.GyroFIFOEnabled {
		ctrl3 |= (s.GyroFIFODecimation & 0x07) << 3
	}
	if s.AccelFIFOEnabled {
		ctrl3 |= s.AccelFIFODecimation & 0x07
	}
	return [5]uint8{
		uint8(s.FIFOThreshold & 0x00FF),
		uint8((s.FIFOThreshold & 0x0F00) >> 8),
		ctrl3,
		0,
		fifoRateBits(s.FIFOSampleRate) | s.FIFOModeWord&0x07,
	}
}
