// Package serial opens the firmware's USB CDC console on the host
package serial

import (
	"errors"
	"fmt"
	"io"
	"time"

	"github.com/tarm/serial"
)

var (
	ErrNoConfig = errors.New("serial: config cannot be nil")
	ErrNoDevice = errors.New("serial: no device given")
)

// Port is an open console
type Port interface {
	io.ReadWriteCloser

	// Flush drops input that arrived before the port was opened
	Flush() error
}

type Config struct {
	Device string // e.g. /dev/ttyACM0 or COM3
	Baud   int    // ignored by USB CDC, but tarm/serial requires one

	// ReadTimeout bounds each Read so a monitor can notice cancellation.
	// Zero blocks.
	ReadTimeout time.Duration
}

func DefaultConfig(device string) *Config {
	return &Config{
		Device:      device,
		Baud:        115200,
		ReadTimeout: 100 * time.Millisecond,
	}
}

func (c *Config) validate() error {
	switch {
	case c == nil:
		return ErrNoConfig
	case c.Device == "":
		return ErrNoDevice
	}
	return nil
}

// tty is the part of *serial.Port a console uses
type tty interface {
	io.ReadWriteCloser
	Flush() error
}

// console is a tty that remembers its device path
type console struct {
	tty
	device  string
	timeout time.Duration
}

// Open opens cfg.Device with tarm/serial
func Open(cfg *Config) (Port, error) {
	if err := cfg.validate(); err != nil {
		return nil, err
	}
	p, err := serial.OpenPort(&serial.Config{
		Name:        cfg.Device,
		Baud:        cfg.Baud,
		ReadTimeout: cfg.ReadTimeout,
	})
	if err != nil {
		return nil, fmt.Errorf("open %s: %w", cfg.Device, err)
	}
	return &console{tty: p, device: cfg.Device, timeout: cfg.ReadTimeout}, nil
}

// Read reports an idle read timeout as (0, nil). On Linux tarm/serial
// surfaces VTIME expiry as a zero-byte io.EOF, which would otherwise end the
// stream for readers that stop on EOF.
func (c *console) Read(b []byte) (int, error) {
	n, err := c.tty.Read(b)
	if n == 0 && err == io.EOF && c.timeout > 0 {
		return 0, nil
	}
	return n, err
}

func (c *console) String() string {
	return c.device
}
