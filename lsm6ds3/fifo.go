package lsm6ds3

// fifoDepth bounds FIFOClear; the hardware FIFO holds 4096 words.
const fifoDepth = 4096

// FIFOBegin writes FIFO_CTRL1..FIFO_CTRL5 from Settings.
func (d *Device) FIFOBegin() error {
	ctrl := d.Settings.fifoCtrl()
	for i, v := range ctrl {
		if err := d.tr.WriteRegister(RegFIFOCtrl1+uint8(i), v); err != nil {
			return err
		}
	}
	return nil
}

// FIFOEnd puts the FIFO in bypass mode.
func (d *Device) FIFOEnd() error {
	return d.tr.WriteRegister(RegFIFOCtrl5, 0)
}

// FIFORead pops one 16-bit word. A word of 0xFFFF is valid data and comes
// back together with an AllOnesWarning.
func (d *Device) FIFORead() (int16, error) {
	return d.tr.ReadRegisterInt16(RegFIFODataOutL)
}

// FIFOStatus returns FIFO_STATUS1 | FIFO_STATUS2<<8. See the FIFO* bit masks.
func (d *Device) FIFOStatus() (uint16, error) {
	v, err := d.tr.ReadRegisterInt16(RegFIFOStatus1)
	return uint16(v), err
}

// FIFOClear reads and discards words until the FIFO reports empty.
func (d *Device) FIFOClear() error {
	for i := 0; i < fifoDepth; i++ {
		status, err := d.FIFOStatus()
		if err != nil {
			return err
		}
		if status&FIFOEmpty != 0 {
			return nil
		}
		if _, err := d.FIFORead(); err != nil && !IsWarning(err) {
			return err
		}
	}
	return &Error{Status: GenericError, Reg: RegFIFOStatus1, Err: errFIFONotDraining}
}
