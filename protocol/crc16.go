package protocol

// crc16Init is the CRC-16/MCRF4XX seed
const crc16Init = 0xFFFF

// UpdateCRC16 folds data into a running CRC-16/MCRF4XX (reflected
// polynomial 0x8408, no final xor)
func UpdateCRC16(crc uint16, data []byte) uint16 {
	for _, b := range data {
		b ^= uint8(crc)
		b ^= b << 4
		b16 := uint16(b)
		crc = (b16<<8 | crc>>8) ^ (b16 >> 4) ^ (b16 << 3)
	}
	return crc
}

// CRC16 returns the frame checksum of data
func CRC16(data []byte) uint16 {
	return UpdateCRC16(crc16Init, data)
}
