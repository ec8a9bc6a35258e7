package protocol

import "testing"

func TestCRC16CheckValue(t *testing.T) {
	if crc := CRC16(nil); crc != crc16Init {
		t.Errorf("CRC16 of nothing = %04X, expected the seed", crc)
	}
	if crc := CRC16([]byte("123456789")); crc != 0x6F91 {
		t.Errorf("CRC16 check value = %04X, expected 6F91", crc)
	}
}

func TestUpdateCRC16Incremental(t *testing.T) {
	data := []byte{0x07, 0x10, 0x02, 0x08, 0x00, 0x00, 0xC8, 0x00}
	whole := CRC16(data)
	for split := 0; split <= len(data); split++ {
		crc := UpdateCRC16(UpdateCRC16(crc16Init, data[:split]), data[split:])
		if crc != whole {
			t.Errorf("Split at %d gave %04X, expected %04X", split, crc, whole)
		}
	}
}

func TestCRC16DetectsSingleBitErrors(t *testing.T) {
	header := []byte{0x0A, 0x13, 0x01, 0x08, 0x16, 0x00, 0xFF, 0x7F}
	good := CRC16(header)
	for i := range header {
		for bit := 0; bit < 8; bit++ {
			header[i] ^= 1 << bit
			if CRC16(header) == good {
				t.Errorf("Flip of byte %d bit %d not detected", i, bit)
			}
			header[i] ^= 1 << bit
		}
	}
}
