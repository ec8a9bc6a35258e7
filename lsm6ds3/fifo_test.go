package lsm6ds3

import (
	"testing"

	qt "github.com/frankban/quicktest"
)

func TestFIFOBeginDefaults(t *testing.T) {
	c := qt.New(t)
	tr := newFakeTransport()
	dev := New(tr)

	c.Assert(dev.FIFOBegin(), qt.IsNil)
	c.Assert(tr.writes, qt.DeepEquals, []regWrite{
		{RegFIFOCtrl1, 0xB8}, // threshold 3000 = 0x0BB8
		{RegFIFOCtrl2, 0x0B},
		{RegFIFOCtrl3, 0x09},
		{RegFIFOCtrl4, 0x00},
		{RegFIFOCtrl5, 0x0E}, // 10 Hz | continuous
	})
}

func TestFIFOBeginSettings(t *testing.T) {
	c := qt.New(t)
	tr := newFakeTransport()
	dev := New(tr)
	dev.Settings.GyroFIFOEnabled = false
	dev.Settings.AccelFIFODecimation = 2
	dev.Settings.FIFOSampleRate = 100
	dev.Settings.FIFOModeWord = 1
	dev.Settings.FIFOThreshold = 0xF123

	c.Assert(dev.FIFOBegin(), qt.IsNil)
	c.Assert(tr.writes, qt.DeepEquals, []regWrite{
		{RegFIFOCtrl1, 0x23},
		{RegFIFOCtrl2, 0x01},
		{RegFIFOCtrl3, 0x02},
		{RegFIFOCtrl4, 0x00},
		{RegFIFOCtrl5, 0x21},
	})
}

func TestFIFOBeginFailsFast(t *testing.T) {
	c := qt.New(t)
	tr := newFakeTransport()
	tr.failWrite = 2
	dev := New(tr)

	c.Assert(StatusOf(dev.FIFOBegin()), qt.Equals, HWError)
	c.Assert(tr.writes, qt.HasLen, 2)
}

func TestFIFOEnd(t *testing.T) {
	c := qt.New(t)
	tr := newFakeTransport()
	dev := New(tr)

	c.Assert(dev.FIFOEnd(), qt.IsNil)
	c.Assert(tr.writes, qt.DeepEquals, []regWrite{{RegFIFOCtrl5, 0}})
}

func TestFIFOReadAndStatus(t *testing.T) {
	c := qt.New(t)
	tr := newFakeTransport()
	tr.fifoMode = true
	tr.fifo = []int16{10, -20, 30}
	dev := New(tr)

	status, err := dev.FIFOStatus()
	c.Assert(err, qt.IsNil)
	c.Assert(status&FIFOLevelMask, qt.Equals, uint16(3))
	c.Assert(status&FIFOEmpty, qt.Equals, uint16(0))

	for _, want := range []int16{10, -20, 30} {
		v, err := dev.FIFORead()
		c.Assert(err, qt.IsNil)
		c.Assert(v, qt.Equals, want)
	}
}

func TestFIFOClearEmpties(t *testing.T) {
	c := qt.New(t)
	tr := newFakeTransport()
	tr.fifoMode = true
	tr.fifo = []int16{1, 2, -1, 4, 5}
	dev := New(tr)

	c.Assert(dev.FIFOClear(), qt.IsNil)

	status, err := dev.FIFOStatus()
	c.Assert(err, qt.IsNil)
	c.Assert(status&FIFOEmpty, qt.Not(qt.Equals), uint16(0))
	c.Assert(status&FIFOLevelMask, qt.Equals, uint16(0))
}

func TestFIFOClearIsBounded(t *testing.T) {
	c := qt.New(t)
	tr := newFakeTransport()
	tr.fifoMode = true
	tr.fifoStuck = true
	dev := New(tr)

	c.Assert(StatusOf(dev.FIFOClear()), qt.Equals, GenericError)
	c.Assert(tr.reads, qt.Equals, 2*fifoDepth)
}

func TestFIFOClearPropagatesStatusError(t *testing.T) {
	c := qt.New(t)
	tr := newFakeTransport()
	tr.failRead[RegFIFOStatus1] = &Error{Status: HWError, Reg: RegFIFOStatus1, Err: errBus}
	dev := New(tr)

	c.Assert(StatusOf(dev.FIFOClear()), qt.Equals, HWError)
}
