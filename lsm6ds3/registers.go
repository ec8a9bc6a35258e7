package lsm6ds3

import (
	regs "tinygo.org/x/drivers/lsm6ds3"
)

// I2C addresses. The SA0 pin selects between them.
const (
	DefaultAddress = 0x6B
	AltAddress     = regs.Address
)

// Base page registers.
const (
	RegRAMAccess    = 0x01
	RegFIFOCtrl1    = 0x06
	RegFIFOCtrl2    = 0x07
	RegFIFOCtrl3    = 0x08
	RegFIFOCtrl4    = 0x09
	RegFIFOCtrl5    = 0x0A
	RegWhoAmI       = regs.WHO_AM_I
	RegCtrl1XL      = regs.CTRL1_XL
	RegCtrl2G       = regs.CTRL2_G
	RegCtrl3C       = regs.CTRL3_C
	RegCtrl4C       = regs.CTRL4_C
	RegStatus       = regs.STATUS
	RegOutTempL     = regs.OUT_TEMP_L
	RegOutXLG       = regs.OUTX_L_G
	RegOutYLG       = regs.OUTY_L_G
	RegOutZLG       = regs.OUTZ_L_G
	RegOutXLXL      = regs.OUTX_L_XL
	RegOutYLXL      = regs.OUTY_L_XL
	RegOutZLXL      = regs.OUTZ_L_XL
	RegFIFOStatus1  = 0x3A
	RegFIFOStatus2  = 0x3B
	RegFIFOStatus3  = 0x3C
	RegFIFOStatus4  = 0x3D
	RegFIFODataOutL = 0x3E
	RegFIFODataOutH = 0x3F

	// RegMax is the last addressable register on either page.
	RegMax = 0x7F
)

// Embedded page registers. They share addresses with base page registers and
// are only visible after EmbeddedPage.
const (
	RegEmbPedoThsMin  = 0x0F
	RegEmbSMThs       = 0x13
	RegEmbPedoDebReg  = 0x14
	RegEmbStepCountDt = 0x15
)

const (
	ramAccessBase     = 0x00
	ramAccessEmbedded = 0x80

	spiReadFlag = 0x80
)

// WHO_AM_I values accepted by BeginCore.
const (
	WhoAmILSM6DS3    = 0x69
	WhoAmILSM6DS3TRC = 0x6A
)

// FIFO status word bits, as returned by FIFOStatus (FIFO_STATUS2 in the high byte).
const (
	FIFOLevelMask = 0x0FFF
	FIFOEmpty     = 0x1000
	FIFOFull      = 0x2000
	FIFOOverrun   = 0x4000
	FIFOWatermark = 0x8000
)

// FIFO output data rate codes for FIFO_CTRL5.
const (
	fifoODR10Hz   = 0x08
	fifoODR25Hz   = 0x10
	fifoODR50Hz   = 0x18
	fifoODR100Hz  = 0x20
	fifoODR200Hz  = 0x28
	fifoODR400Hz  = 0x30
	fifoODR800Hz  = 0x38
	fifoODR1600Hz = 0x40
	fifoODR3300Hz = 0x48
	fifoODR6600Hz = 0x50
)

// 125 dps is selected with its own enable bit; the drivers package leaves it out.
const gyroFS125Enabled = 0x02

func accelBandwidthBits(hz uint16) uint8 {
	switch hz {
	case 50:
		return uint8(regs.ACCEL_BW_50)
	case 100:
		return uint8(regs.ACCEL_BW_100)
	case 200:
		return uint8(regs.ACCEL_BW_200)
	default:
		return uint8(regs.ACCEL_BW_400)
	}
}

func accelRangeBits(g uint16) uint8 {
	switch g {
	case 2:
		return uint8(regs.ACCEL_2G)
	case 4:
		return uint8(regs.ACCEL_4G)
	case 8:
		return uint8(regs.ACCEL_8G)
	default:
		return uint8(regs.ACCEL_16G)
	}
}

func accelRateBits(hz uint16) uint8 {
	switch hz {
	case 13:
		return uint8(regs.ACCEL_SR_13)
	case 26:
		return uint8(regs.ACCEL_SR_26)
	case 52:
		return uint8(regs.ACCEL_SR_52)
	case 208:
		return uint8(regs.ACCEL_SR_208)
	case 416:
		return uint8(regs.ACCEL_SR_416)
	case 833:
		return uint8(regs.ACCEL_SR_833)
	case 1660:
		return uint8(regs.ACCEL_SR_1666)
	case 3330:
		return uint8(regs.ACCEL_SR_3332)
	case 6660:
		return uint8(regs.ACCEL_SR_6664)
	case 13330:
		return uint8(regs.ACCEL_SR_13330)
	default:
		return uint8(regs.ACCEL_SR_104)
	}
}

func gyroRangeBits(dps uint16) uint8 {
	switch dps {
	case 125:
		return gyroFS125Enabled
	case 245:
		return uint8(regs.GYRO_250DPS)
	case 500:
		return uint8(regs.GYRO_500DPS)
	case 1000:
		return uint8(regs.GYRO_1000DPS)
	default:
		return uint8(regs.GYRO_2000DPS)
	}
}

func gyroRateBits(hz uint16) uint8 {
	switch hz {
	case 13:
		return uint8(regs.GYRO_SR_13)
	case 52:
		return uint8(regs.GYRO_SR_52)
	case 104:
		return uint8(regs.GYRO_SR_104)
	case 208:
		return uint8(regs.GYRO_SR_208)
	case 416:
		return uint8(regs.GYRO_SR_416)
	case 833:
		return uint8(regs.GYRO_SR_833)
	case 1660:
		return uint8(regs.GYRO_SR_1666)
	default:
		return uint8(regs.GYRO_SR_26)
	}
}

func fifoRateBits(hz uint16) uint8 {
	switch hz {
	case 25:
		return fifoODR25Hz
	case 50:
		return fifoODR50Hz
	case 100:
		return fifoODR100Hz
	case 200:
		return fifoODR200Hz
	case 400:
		return fifoODR400Hz
	case 800:
		return fifoODR800Hz
	case 1600:
		return fifoODR1600Hz
	case 3300:
		return fifoODR3300Hz
	case 6600:
		return fifoODR6600Hz
	default:
		return fifoODR10Hz
	}
}
