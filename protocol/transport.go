package protocol

import "errors"

const (
	MessageHeaderSize  = 2
	MessageTrailerSize = 3
	MessageLengthMin   = MessageHeaderSize + MessageTrailerSize
	MessageLengthMax   = 64
	MessagePayloadMax  = MessageLengthMax - MessageLengthMin
	MessagePositionLen = 0
	MessagePositionSeq = 1
	MessageTrailerCRC  = 3
	MessageTrailerSync = 1
	MessageValueSync   = 0x7E
	MessageDest        = 0x10
)

// ErrFrameTooLong is returned when a payload does not fit in one frame
var ErrFrameTooLong = errors.New("frame exceeds maximum length")

// Framer encodes outgoing frames with a rolling sequence number.
// It is not safe for concurrent use.
type Framer struct {
	seq    uint8
	output ScratchOutput
}

// NewFramer creates a Framer starting at sequence 0
func NewFramer() *Framer {
	return &Framer{}
}

// EncodeFrame encodes one frame around the payload written by frameData.
// The returned slice is reused by the next call.
func (f *Framer) EncodeFrame(frameData func(output OutputBuffer)) ([]byte, error) {
	f.output.Reset()

	// Write header (length placeholder and sequence)
	f.output.Output([]byte{0, MessageDest | f.seq&MessageSeqMask})

	// Write frame contents
	frameData(&f.output)

	msgLen := f.output.CurPosition() + MessageTrailerSize
	if f.output.Overflowed() || msgLen > MessageLengthMax {
		return nil, ErrFrameTooLong
	}
	f.output.Update(MessagePositionLen, uint8(msgLen))

	crc := CRC16(f.output.Result())
	f.output.Output([]byte{
		uint8((crc & 0xFF00) >> 8),
		uint8(crc & 0xFF),
		MessageValueSync,
	})

	f.seq = (f.seq + 1) & MessageSeqMask
	return f.output.Result(), nil
}

// FrameHandler receives the sequence byte and payload of each valid frame.
// payload is only valid for the duration of the call.
type FrameHandler func(seq uint8, payload []byte)

// DecoderStats counts what the decoder has seen
type DecoderStats struct {
	Frames    uint32 // valid frames delivered
	Lost      uint32 // frames skipped according to the sequence numbers
	Resyncs   uint32 // times synchronization was lost
	Discarded uint32 // bytes dropped while resynchronizing
}

// Decoder splits a byte stream into frames, dropping corrupt data until the
// next sync byte.
type Decoder struct {
	isSynchronized bool
	haveSeq        bool
	nextSeq        uint8
	handler        FrameHandler
	stats          DecoderStats
}

// NewDecoder creates a synchronized Decoder
func NewDecoder(handler FrameHandler) *Decoder {
	return &Decoder{
		isSynchronized: true,
		handler:        handler,
	}
}

// Stats returns the decoder counters
func (d *Decoder) Stats() DecoderStats {
	return d.stats
}

// Receive consumes complete frames from input. A trailing partial frame is
// left in input for the next call.
func (d *Decoder) Receive(input InputBuffer) {
	data := input.Data()

	for len(data) > 0 {
		if !d.isSynchronized {
			// Look for sync byte to resynchronize
			syncPos := -1
			for i, b := range data {
				if b == MessageValueSync {
					syncPos = i
					break
				}
			}

			if syncPos >= 0 {
				d.stats.Discarded += uint32(syncPos + 1)
				data = data[syncPos+1:]
				d.isSynchronized = true
			} else {
				d.stats.Discarded += uint32(len(data))
				data = nil
			}
			continue
		}

		// Skip leading sync bytes
		if data[0] == MessageValueSync {
			data = data[1:]
			continue
		}

		// Need at least minimum message length
		if len(data) < MessageLengthMin {
			break
		}

		msgLen := int(data[MessagePositionLen])
		if msgLen < MessageLengthMin || msgLen > MessageLengthMax {
			d.desync()
			continue
		}

		seq := data[MessagePositionSeq]
		if seq&^MessageSeqMask != MessageDest {
			d.desync()
			continue
		}

		// Wait for full message
		if len(data) < msgLen {
			break
		}

		if data[msgLen-MessageTrailerSync] != MessageValueSync {
			d.desync()
			continue
		}

		frameCRC := uint16(data[msgLen-MessageTrailerCRC])<<8 |
			uint16(data[msgLen-MessageTrailerCRC+1])
		if frameCRC != CRC16(data[:msgLen-MessageTrailerSize]) {
			d.desync()
			continue
		}

		payload := data[MessageHeaderSize : msgLen-MessageTrailerSize]
		data = data[msgLen:]

		if d.haveSeq {
			d.stats.Lost += uint32((seq - d.nextSeq) & MessageSeqMask)
		}
		d.haveSeq = true
		d.nextSeq = ((seq + 1) & MessageSeqMask) | MessageDest
		d.stats.Frames++

		if d.handler != nil {
			d.handler(seq, payload)
		}
	}

	// Remove consumed bytes from input
	consumed := input.Available() - len(data)
	if consumed > 0 {
		input.Pop(consumed)
	}
}

func (d *Decoder) desync() {
	d.isSynchronized = false
	d.stats.Resyncs++
}

// Reset drops synchronization and sequence state
func (d *Decoder) Reset() {
	d.isSynchronized = true
	d.haveSeq = false
	d.stats = DecoderStats{}
}
