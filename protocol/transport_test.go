package protocol

import (
	"bytes"
	"testing"
)

type frameRecord struct {
	seq     uint8
	payload []byte
}

func collectFrames(frames *[]frameRecord) FrameHandler {
	return func(seq uint8, payload []byte) {
		*frames = append(*frames, frameRecord{seq, append([]byte(nil), payload...)})
	}
}

func encodeTestFrame(t *testing.T, f *Framer, payload []byte) []byte {
	t.Helper()
	frame, err := f.EncodeFrame(func(output OutputBuffer) {
		output.Output(payload)
	})
	if err != nil {
		t.Fatalf("EncodeFrame failed: %v", err)
	}
	return append([]byte(nil), frame...)
}

func TestFramerLayout(t *testing.T) {
	f := NewFramer()
	frame := encodeTestFrame(t, f, []byte{0x01, 0x02})

	if len(frame) != 7 {
		t.Fatalf("Expected 7-byte frame, got %d: %v", len(frame), frame)
	}
	if frame[MessagePositionLen] != 7 {
		t.Errorf("Length byte %d, expected 7", frame[MessagePositionLen])
	}
	if frame[MessagePositionSeq] != MessageDest {
		t.Errorf("First sequence byte %#x, expected %#x", frame[MessagePositionSeq], MessageDest)
	}
	crc := CRC16(frame[:4])
	if frame[4] != uint8(crc>>8) || frame[5] != uint8(crc) {
		t.Errorf("CRC bytes %x %x, expected %04x big endian", frame[4], frame[5], crc)
	}
	if frame[6] != MessageValueSync {
		t.Errorf("Missing trailing sync byte")
	}

	second := encodeTestFrame(t, f, nil)
	if second[MessagePositionSeq] != MessageDest|1 {
		t.Errorf("Second sequence byte %#x, expected %#x", second[MessagePositionSeq], MessageDest|1)
	}
}

func TestFramerRejectsLongPayload(t *testing.T) {
	f := NewFramer()
	_, err := f.EncodeFrame(func(output OutputBuffer) {
		output.Output(make([]byte, MessagePayloadMax+1))
	})
	if err != ErrFrameTooLong {
		t.Errorf("Expected ErrFrameTooLong, got %v", err)
	}

	frame := encodeTestFrame(t, f, make([]byte, MessagePayloadMax))
	if len(frame) != MessageLengthMax {
		t.Errorf("Max payload gave %d-byte frame", len(frame))
	}
}

func TestDecoderRoundTrip(t *testing.T) {
	f := NewFramer()
	var stream []byte
	payloads := [][]byte{{1}, {2, 3}, {}, {0x7E, 0x7E}}
	for _, p := range payloads {
		stream = append(stream, encodeTestFrame(t, f, p)...)
	}

	var frames []frameRecord
	d := NewDecoder(collectFrames(&frames))
	input := NewSliceInputBuffer(stream)
	d.Receive(input)

	if len(frames) != len(payloads) {
		t.Fatalf("Decoded %d frames, expected %d", len(frames), len(payloads))
	}
	for i, p := range payloads {
		if !bytes.Equal(frames[i].payload, p) {
			t.Errorf("Frame %d payload %v, expected %v", i, frames[i].payload, p)
		}
	}
	if input.Available() != 0 {
		t.Errorf("%d bytes left unconsumed", input.Available())
	}
	if stats := d.Stats(); stats.Lost != 0 || stats.Resyncs != 0 {
		t.Errorf("Unexpected stats %+v", stats)
	}
}

func TestDecoderKeepsPartialFrame(t *testing.T) {
	f := NewFramer()
	frame := encodeTestFrame(t, f, []byte{9, 8, 7})

	var frames []frameRecord
	d := NewDecoder(collectFrames(&frames))
	fifo := NewFifoBuffer(128)

	fifo.Write(frame[:4])
	d.Receive(fifo)
	if len(frames) != 0 {
		t.Fatalf("Decoded a frame from partial data")
	}
	if fifo.Available() != 4 {
		t.Errorf("Partial frame was consumed")
	}

	fifo.Write(frame[4:])
	d.Receive(fifo)
	if len(frames) != 1 || !bytes.Equal(frames[0].payload, []byte{9, 8, 7}) {
		t.Errorf("Unexpected frames %v", frames)
	}
}

func TestDecoderResyncsAfterCorruption(t *testing.T) {
	f := NewFramer()
	good1 := encodeTestFrame(t, f, []byte{1})
	bad := encodeTestFrame(t, f, []byte{2, 2})
	good2 := encodeTestFrame(t, f, []byte{3})
	bad[2] ^= 0xFF // corrupt payload

	var stream []byte
	stream = append(stream, 0x00, 0x13, 0x37, MessageValueSync) // line noise
	stream = append(stream, good1...)
	stream = append(stream, bad...)
	stream = append(stream, good2...)

	var frames []frameRecord
	d := NewDecoder(collectFrames(&frames))
	d.Receive(NewSliceInputBuffer(stream))

	if len(frames) != 2 {
		t.Fatalf("Decoded %d frames, expected 2", len(frames))
	}
	if frames[0].payload[0] != 1 || frames[1].payload[0] != 3 {
		t.Errorf("Wrong frames survived: %v", frames)
	}

	stats := d.Stats()
	if stats.Resyncs == 0 || stats.Discarded == 0 {
		t.Errorf("Expected resync and discarded bytes, got %+v", stats)
	}
	if stats.Lost != 1 {
		t.Errorf("Expected 1 lost frame from the sequence gap, got %d", stats.Lost)
	}
}

func TestDecoderSequenceWrap(t *testing.T) {
	f := NewFramer()
	var stream []byte
	for i := 0; i < 20; i++ {
		stream = append(stream, encodeTestFrame(t, f, []byte{byte(i)})...)
	}

	var frames []frameRecord
	d := NewDecoder(collectFrames(&frames))
	d.Receive(NewSliceInputBuffer(stream))

	if len(frames) != 20 {
		t.Fatalf("Decoded %d frames, expected 20", len(frames))
	}
	if frames[16].seq != MessageDest {
		t.Errorf("Sequence did not wrap: frame 16 has %#x", frames[16].seq)
	}
	if d.Stats().Lost != 0 {
		t.Errorf("Wrap counted as loss: %+v", d.Stats())
	}
}
