// Package protocol frames sensor telemetry for a serial console.
//
// A frame is len | seq | payload | crc16 (big endian) | 0x7E, where len counts
// the whole frame and seq is 0x10 | n&0x0F for the n-th frame sent. Payloads
// are a VLQ message id followed by VLQ-encoded fields.
package protocol

// Version is the telemetry wire format version reported in the startup log line
const Version = "1"

const (
	// MessageMax sizes ScratchOutput. A frame never exceeds MessageLengthMax,
	// the slack absorbs an oversized payload so it can be rejected whole.
	MessageMax = 512

	MessageSeqMask = 0x0F // low nibble of the seq byte
)
