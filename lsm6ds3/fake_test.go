package lsm6ds3

import "errors"

var errBus = errors.New("bus fault")

type regWrite struct {
	Reg, Value uint8
}

// fakeTransport is a two-page register file with an optional word FIFO
// behind FIFO_DATA_OUT. It records every write.
type fakeTransport struct {
	base, emb [regionMax]uint8
	embedded  bool

	writes    []regWrite
	failWrite int // 1-based index of the write that fails, 0 for never
	failRead  map[uint8]error

	fifoMode  bool
	fifo      []int16
	fifoStuck bool
	reads     int
}

func newFakeTransport() *fakeTransport {
	f := &fakeTransport{failRead: map[uint8]error{}}
	f.base[RegWhoAmI] = WhoAmILSM6DS3
	return f
}

func (f *fakeTransport) page() *[regionMax]uint8 {
	if f.embedded {
		return &f.emb
	}
	return &f.base
}

func (f *fakeTransport) setWord(reg uint8, v int16) {
	f.base[reg] = uint8(uint16(v))
	f.base[reg+1] = uint8(uint16(v) >> 8)
}

func (f *fakeTransport) ReadRegisterRegion(buf []byte, start uint8) error {
	f.reads++
	if len(buf) == 0 || int(start)+len(buf) > regionMax {
		return &Error{Status: OutOfBounds, Reg: start}
	}
	if err, ok := f.failRead[start]; ok {
		return err
	}
	switch {
	case f.fifoMode && start == RegFIFOStatus1 && len(buf) == 2:
		status := uint16(len(f.fifo)) & FIFOLevelMask
		if f.fifoStuck {
			status = 5
		} else if len(f.fifo) == 0 {
			status |= FIFOEmpty
		}
		buf[0], buf[1] = uint8(status), uint8(status>>8)
	case f.fifoMode && start == RegFIFODataOutL && len(buf) == 2:
		var w uint16
		if len(f.fifo) > 0 {
			w = uint16(f.fifo[0])
			f.fifo = f.fifo[1:]
		}
		buf[0], buf[1] = uint8(w), uint8(w>>8)
	default:
		copy(buf, f.page()[start:])
	}
	if allOnes(buf) {
		return &Error{Status: AllOnesWarning, Reg: start}
	}
	return nil
}

func (f *fakeTransport) ReadRegister(reg uint8) (uint8, error) {
	var b [1]byte
	err := f.ReadRegisterRegion(b[:], reg)
	if err != nil && !IsWarning(err) {
		return 0, err
	}
	return b[0], err
}

func (f *fakeTransport) ReadRegisterInt16(reg uint8) (int16, error) {
	var b [2]byte
	err := f.ReadRegisterRegion(b[:], reg)
	if err != nil && !IsWarning(err) {
		return 0, err
	}
	return int16(uint16(b[0]) | uint16(b[1])<<8), err
}

func (f *fakeTransport) WriteRegister(reg, value uint8) error {
	f.writes = append(f.writes, regWrite{reg, value})
	if f.failWrite == len(f.writes) {
		return &Error{Status: HWError, Reg: reg, Err: errBus}
	}
	if reg > RegMax {
		return &Error{Status: OutOfBounds, Reg: reg}
	}
	if reg == RegRAMAccess {
		f.embedded = value&ramAccessEmbedded != 0
	}
	f.page()[reg] = value
	return nil
}

func (f *fakeTransport) EmbeddedPage() error {
	return f.WriteRegister(RegRAMAccess, ramAccessEmbedded)
}

func (f *fakeTransport) BasePage() error {
	return f.WriteRegister(RegRAMAccess, ramAccessBase)
}

// pagedI2C is a drivers.I2C bus with one LSM6DS3 that honours RAM_ACCESS.
type pagedI2C struct {
	addr      uint16
	base, emb [256]uint8
}

func (b *pagedI2C) Tx(addr uint16, w, r []byte) error {
	if addr != b.addr {
		return errBus
	}
	regs := &b.base
	if b.base[RegRAMAccess]&ramAccessEmbedded != 0 {
		regs = &b.emb
	}
	if len(r) > 0 {
		copy(r, regs[w[0]:])
		return nil
	}
	if w[0] == RegRAMAccess {
		// RAM_ACCESS is visible on both pages
		b.base[RegRAMAccess] = w[1]
		b.emb[RegRAMAccess] = w[1]
		return nil
	}
	copy(regs[w[0]:], w[1:])
	return nil
}
