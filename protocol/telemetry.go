package protocol

import "errors"

// Telemetry message ids
const (
	MsgEnv    = 1 // environmental characteristic slot, 8 bytes
	MsgMotion = 2 // motion characteristic slot, 14 bytes
	MsgStatus = 3 // link and sensor error counters
	MsgLog    = 4 // free text
)

// logTextMax leaves room for the id and length prefix in one frame
const logTextMax = MessagePayloadMax - 2

var (
	ErrUnknownMessage = errors.New("unknown telemetry message")
	ErrTrailingData   = errors.New("trailing data after telemetry message")
)

// LinkStatus is the payload of MsgStatus
type LinkStatus struct {
	Connected  bool
	AllOnes    uint32 // all-ones warnings seen by the sensor facade
	NonSuccess uint32 // other failed sensor reads
	Skipped    uint32 // characteristic updates skipped because of sensor errors
}

// Telemetry is one decoded message. Only the fields of its ID are set.
type Telemetry struct {
	Seq    uint8
	ID     uint32
	Slot   []byte
	Status LinkStatus
	Text   string
}

// EncodeSlot frames a characteristic slot mirror (MsgEnv or MsgMotion)
func (f *Framer) EncodeSlot(id uint32, slot []byte) ([]byte, error) {
	return f.EncodeFrame(func(output OutputBuffer) {
		EncodeVLQUint(output, id)
		EncodeVLQBytes(output, slot)
	})
}

// EncodeStatus frames a MsgStatus
func (f *Framer) EncodeStatus(s LinkStatus) ([]byte, error) {
	return f.EncodeFrame(func(output OutputBuffer) {
		EncodeVLQUint(output, MsgStatus)
		var connected uint32
		if s.Connected {
			connected = 1
		}
		EncodeVLQUint(output, connected)
		EncodeVLQUint(output, s.AllOnes)
		EncodeVLQUint(output, s.NonSuccess)
		EncodeVLQUint(output, s.Skipped)
	})
}

// EncodeLog frames a MsgLog, truncating text to fit one frame
func (f *Framer) EncodeLog(text string) ([]byte, error) {
	return f.EncodeFrame(func(output OutputBuffer) {
		EncodeVLQUint(output, MsgLog)
		EncodeVLQString(output, text, logTextMax)
	})
}

// DecodeTelemetry parses a frame payload. Slot is copied out of payload.
func DecodeTelemetry(seq uint8, payload []byte) (Telemetry, error) {
	msg := Telemetry{Seq: seq}
	id, err := DecodeVLQUint(&payload)
	if err != nil {
		return msg, err
	}
	msg.ID = id

	switch id {
	case MsgEnv, MsgMotion:
		slot, err := DecodeVLQBytes(&payload)
		if err != nil {
			return msg, err
		}
		msg.Slot = append([]byte(nil), slot...)
	case MsgStatus:
		var fields [4]uint32
		for i := range fields {
			if fields[i], err = DecodeVLQUint(&payload); err != nil {
				return msg, err
			}
		}
		msg.Status = LinkStatus{
			Connected:  fields[0] != 0,
			AllOnes:    fields[1],
			NonSuccess: fields[2],
			Skipped:    fields[3],
		}
	case MsgLog:
		if msg.Text, err = DecodeVLQString(&payload); err != nil {
			return msg, err
		}
	default:
		return msg, ErrUnknownMessage
	}

	if len(payload) != 0 {
		return msg, ErrTrailingData
	}
	return msg, nil
}
