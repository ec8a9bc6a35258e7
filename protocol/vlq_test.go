package protocol

import (
	"bytes"
	"math"
	"testing"
)

func TestVLQKnownEncodings(t *testing.T) {
	testCases := []struct {
		v       int32
		encoded []byte
	}{
		{0, []byte{0x00}},
		{95, []byte{0x5F}},
		{96, []byte{0x80, 0x60}},
		{-1, []byte{0x7F}},
		{-32, []byte{0x60}},
		{-33, []byte{0xFF, 0x5F}},
		{300, []byte{0x82, 0x2C}},
	}

	for _, tc := range testCases {
		output := NewScratchOutput()
		EncodeVLQInt(output, tc.v)
		if !bytes.Equal(output.Result(), tc.encoded) {
			t.Errorf("%d encoded as %x, expected %x", tc.v, output.Result(), tc.encoded)
		}
		if VLQLen(tc.v) != len(tc.encoded) {
			t.Errorf("VLQLen(%d) = %d, expected %d", tc.v, VLQLen(tc.v), len(tc.encoded))
		}
	}
}

func TestVLQRoundTripBoundaries(t *testing.T) {
	var testCases []int32
	for _, shift := range []uint{5, 12, 19, 26} {
		lo, hi := int32(-1)<<shift, int32(3)<<shift
		testCases = append(testCases, lo-1, lo, hi-1, hi)
	}
	testCases = append(testCases, math.MinInt32, math.MaxInt32)

	for _, expected := range testCases {
		output := NewScratchOutput()
		EncodeVLQInt(output, expected)

		data := output.Result()
		decoded, err := DecodeVLQInt(&data)
		if err != nil {
			t.Errorf("Failed to decode %d: %v", expected, err)
			continue
		}
		if decoded != expected {
			t.Errorf("Round trip of %d gave %d (encoded %x)", expected, decoded, output.Result())
		}
		if len(data) != 0 {
			t.Errorf("%d left %d bytes unconsumed", expected, len(data))
		}
	}
}

func TestVLQUint(t *testing.T) {
	for _, expected := range []uint32{0, 127, 70000, math.MaxUint32} {
		output := NewScratchOutput()
		EncodeVLQUint(output, expected)

		data := output.Result()
		decoded, err := DecodeVLQUint(&data)
		if err != nil || decoded != expected {
			t.Errorf("Round trip of %d gave %d, %v", expected, decoded, err)
		}
	}
}

func TestVLQSensorRange(t *testing.T) {
	// int16 samples must fit in three bytes so a motion frame stays small
	for _, v := range []int32{math.MinInt16, -1, 0, math.MaxInt16} {
		if n := VLQLen(v); n > 3 {
			t.Errorf("Value %d encoded in %d bytes", v, n)
		}
	}
	if n := VLQLen(math.MinInt32); n != vlqMaxLen {
		t.Errorf("MinInt32 encoded in %d bytes, expected %d", n, vlqMaxLen)
	}
}

func TestVLQDecodeErrors(t *testing.T) {
	data := []byte{0x80} // continuation with nothing after it
	if _, err := DecodeVLQInt(&data); err != ErrBufferTooSmall {
		t.Errorf("Expected ErrBufferTooSmall, got %v", err)
	}
	if len(data) != 1 {
		t.Errorf("Failed decode consumed input")
	}

	data = []byte{0x80, 0x80, 0x80, 0x80, 0x80, 0x00}
	if _, err := DecodeVLQInt(&data); err != ErrInvalidVLQ {
		t.Errorf("Expected ErrInvalidVLQ for a six byte value, got %v", err)
	}

	data = []byte{0x80, 0x80, 0x80, 0x80, 0x00}
	if v, err := DecodeVLQInt(&data); err != nil || v != 0 {
		t.Errorf("Five byte value gave %d, %v", v, err)
	}
}

func TestVLQBytes(t *testing.T) {
	slot := []byte{0x00, 0x00, 0xC8, 0x00, 0x64, 0x00, 0x7E, 0x7E}

	output := NewScratchOutput()
	EncodeVLQBytes(output, slot)
	EncodeVLQBytes(output, nil)

	data := output.Result()
	first, err := DecodeVLQBytes(&data)
	if err != nil || !bytes.Equal(first, slot) {
		t.Errorf("First slice %x, %v", first, err)
	}
	second, err := DecodeVLQBytes(&data)
	if err != nil || len(second) != 0 {
		t.Errorf("Empty slice %x, %v", second, err)
	}
	if len(data) != 0 {
		t.Errorf("%d bytes left", len(data))
	}

	short := []byte{0x05, 0x01, 0x02}
	if _, err := DecodeVLQBytes(&short); err != ErrBufferTooSmall {
		t.Errorf("Expected ErrBufferTooSmall, got %v", err)
	}
	if len(short) != 3 {
		t.Errorf("Failed decode consumed input")
	}
}

func TestVLQString(t *testing.T) {
	for _, expected := range []string{"", "imu ready on SPI", "Special chars: !@#$%^&*()"} {
		output := NewScratchOutput()
		EncodeVLQString(output, expected, logTextMax)

		data := output.Result()
		decoded, err := DecodeVLQString(&data)
		if err != nil || decoded != expected {
			t.Errorf("Round trip of %q gave %q, %v", expected, decoded, err)
		}
	}
}

func TestVLQStringTruncated(t *testing.T) {
	output := NewScratchOutput()
	EncodeVLQString(output, "sensor absent on spi0", 6)

	data := output.Result()
	decoded, err := DecodeVLQString(&data)
	if err != nil {
		t.Fatalf("Failed to decode truncated string: %v", err)
	}
	if decoded != "sensor" {
		t.Errorf("Expected truncated string 'sensor', got '%s'", decoded)
	}
}
