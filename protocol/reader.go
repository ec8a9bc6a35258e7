package protocol

import (
	"io"
	"sync"
	"time"
)

// Reader decodes telemetry from a serial port on a background goroutine
type Reader struct {
	port io.Reader

	inputBuffer *FifoBuffer
	decoder     *Decoder

	// Guards decoder stats and invalid
	mu      sync.Mutex
	invalid uint32

	messages chan Telemetry

	stopOnce sync.Once
	stopChan chan struct{}
	doneChan chan struct{}
}

// NewReader starts decoding port. Messages that cannot be delivered because
// the consumer is slow replace the oldest queued message.
func NewReader(port io.Reader) *Reader {
	r := &Reader{
		port:        port,
		inputBuffer: NewFifoBuffer(512),
		messages:    make(chan Telemetry, 16),
		stopChan:    make(chan struct{}),
		doneChan:    make(chan struct{}),
	}
	r.decoder = NewDecoder(r.dispatch)

	go r.readLoop()

	return r
}

// Messages returns the decoded message stream. It is closed when the port
// reaches EOF or the Reader is closed.
func (r *Reader) Messages() <-chan Telemetry {
	return r.messages
}

// Stats returns the decoder counters and the number of frames whose payload
// did not parse
func (r *Reader) Stats() (DecoderStats, uint32) {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.decoder.Stats(), r.invalid
}

// readLoop continuously reads from the port and decodes frames
func (r *Reader) readLoop() {
	defer close(r.doneChan)
	defer close(r.messages)

	buffer := make([]byte, 256)

	for {
		select {
		case <-r.stopChan:
			return
		default:
		}

		n, err := r.port.Read(buffer)
		if n > 0 {
			r.feed(buffer[:n])
		}
		if err != nil {
			if err == io.EOF {
				return
			}
			// Serial read timeouts and transient errors: retry
			time.Sleep(10 * time.Millisecond)
		}
	}
}

func (r *Reader) feed(chunk []byte) {
	r.mu.Lock()
	defer r.mu.Unlock()

	for len(chunk) > 0 {
		n := r.inputBuffer.Write(chunk)
		chunk = chunk[n:]
		r.decoder.Receive(r.inputBuffer)
		if n == 0 && r.inputBuffer.Free() == 0 {
			// Full of undecodable bytes
			r.inputBuffer.Reset()
		}
	}
}

// dispatch runs with r.mu held
func (r *Reader) dispatch(seq uint8, payload []byte) {
	msg, err := DecodeTelemetry(seq, payload)
	if err != nil {
		r.invalid++
		return
	}

	select {
	case r.messages <- msg:
	default:
		// Channel full, drop oldest
		select {
		case <-r.messages:
		default:
		}
		r.messages <- msg
	}
}

// Close stops the reader and closes the port if it is an io.Closer
func (r *Reader) Close() error {
	var err error
	r.stopOnce.Do(func() {
		close(r.stopChan)
		if c, ok := r.port.(io.Closer); ok {
			err = c.Close()
		}
		<-r.doneChan
	})
	return err
}
