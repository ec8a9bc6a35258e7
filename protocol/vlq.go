package protocol

import "errors"

var (
	ErrInvalidVLQ     = errors.New("invalid VLQ encoding")
	ErrBufferTooSmall = errors.New("buffer too small for VLQ")
)

// vlqMaxLen is the longest encoding of a 32-bit value
const vlqMaxLen = 5

// appendVLQ writes v into buf, most significant group first, and returns the
// number of bytes used. Values in [-32, 96) take one byte; int16 sensor
// values take at most three.
func appendVLQ(buf *[vlqMaxLen]byte, v int32) int {
	n := 0
	for shift := uint(28); shift > 0; shift -= 7 {
		// One group holds [-2^(shift-2), 3*2^(shift-2)); the ranges nest
		if v < int32(-1)<<(shift-2) || v >= int32(3)<<(shift-2) {
			buf[n] = byte((v>>shift)&0x7F) | 0x80
			n++
		}
	}
	buf[n] = byte(v & 0x7F)
	return n + 1
}

// VLQLen returns the encoded size of v
func VLQLen(v int32) int {
	var buf [vlqMaxLen]byte
	return appendVLQ(&buf, v)
}

// EncodeVLQInt encodes a signed integer without allocating
func EncodeVLQInt(output OutputBuffer, v int32) {
	var buf [vlqMaxLen]byte
	n := appendVLQ(&buf, v)
	output.Output(buf[:n])
}

// EncodeVLQUint encodes an unsigned integer; values of 2^31 and above share
// the encoding of the negative int32 with the same bits
func EncodeVLQUint(output OutputBuffer, v uint32) {
	EncodeVLQInt(output, int32(v))
}

// DecodeVLQInt decodes a signed integer and advances data past it
func DecodeVLQInt(data *[]byte) (int32, error) {
	d := *data
	if len(d) == 0 {
		return 0, ErrBufferTooSmall
	}

	c := uint32(d[0])
	v := c & 0x7F
	if c&0x60 == 0x60 {
		// Sign extend from bit 5
		v |= ^uint32(0x1F)
	}

	i := 1
	for c&0x80 != 0 {
		if i == vlqMaxLen {
			return 0, ErrInvalidVLQ
		}
		if i == len(d) {
			return 0, ErrBufferTooSmall
		}
		c = uint32(d[i])
		i++
		v = v<<7 | c&0x7F
	}

	*data = d[i:]
	return int32(v), nil
}

// DecodeVLQUint decodes an unsigned integer and advances data past it
func DecodeVLQUint(data *[]byte) (uint32, error) {
	val, err := DecodeVLQInt(data)
	return uint32(val), err
}

// EncodeVLQBytes encodes a length-prefixed byte slice
func EncodeVLQBytes(output OutputBuffer, data []byte) {
	EncodeVLQUint(output, uint32(len(data)))
	output.Output(data)
}

// DecodeVLQBytes decodes a length-prefixed byte slice. The result aliases
// data. On error data is left untouched.
func DecodeVLQBytes(data *[]byte) ([]byte, error) {
	rest := *data
	length, err := DecodeVLQUint(&rest)
	if err != nil {
		return nil, err
	}
	if uint32(len(rest)) < length {
		return nil, ErrBufferTooSmall
	}
	*data = rest[length:]
	return rest[:length], nil
}

// EncodeVLQString encodes a length-prefixed string truncated to max bytes
func EncodeVLQString(output OutputBuffer, s string, max int) {
	if len(s) > max {
		s = s[:max]
	}
	EncodeVLQUint(output, uint32(len(s)))
	output.Output([]byte(s))
}

// DecodeVLQString decodes a length-prefixed string
func DecodeVLQString(data *[]byte) (string, error) {
	b, err := DecodeVLQBytes(data)
	if err != nil {
		return "", err
	}
	return string(b), nil
}
