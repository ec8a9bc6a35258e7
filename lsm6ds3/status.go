package lsm6ds3

import "errors"

// Status is the closed set of outcomes of a register transport operation.
// Success is never returned as an error value; operations return nil instead.
type Status uint8

const (
	Success Status = iota
	HWError
	NotSupported
	GenericError
	OutOfBounds
	AllOnesWarning
)

// Severity tags a Status so callers can tell "sensor absent" from "bus fault"
// without comparing individual codes.
type Severity uint8

const (
	SeverityOK Severity = iota
	SeverityWarning
	SeverityError
)

func (s Status) String() string {
	switch s {
	case Success:
		return "success"
	case HWError:
		return "hardware error"
	case NotSupported:
		return "not supported"
	case GenericError:
		return "generic error"
	case OutOfBounds:
		return "out of bounds"
	case AllOnesWarning:
		return "all ones warning"
	default:
		return "unknown status"
	}
}

// Error implements error so a bare Status can be used as an errors.Is target.
func (s Status) Error() string {
	return "lsm6ds3: " + s.String()
}

// Severity reports whether s is a success, a soft warning or a hard failure.
func (s Status) Severity() Severity {
	switch s {
	case Success:
		return SeverityOK
	case AllOnesWarning:
		return SeverityWarning
	default:
		return SeverityError
	}
}

// Error is the error returned by transport operations. It carries the
// register the operation started at and, for bus failures, the bus error.
type Error struct {
	Status Status
	Reg    uint8
	Err    error
}

func (e *Error) Error() string {
	msg := "lsm6ds3: " + e.Status.String() + " at register 0x" + hex8(e.Reg)
	if e.Err != nil {
		msg += ": " + e.Err.Error()
	}
	return msg
}

func (e *Error) Unwrap() error {
	return e.Err
}

// Is matches a bare Status target, so errors.Is(err, HWError) works on wrapped errors.
func (e *Error) Is(target error) bool {
	s, ok := target.(Status)
	return ok && s == e.Status
}

// StatusOf maps err back onto the closed status set. Errors that did not come
// from this package are reported as GenericError.
func StatusOf(err error) Status {
	if err == nil {
		return Success
	}
	var e *Error
	if errors.As(err, &e) {
		return e.Status
	}
	var s Status
	if errors.As(err, &s) {
		return s
	}
	return GenericError
}

// SeverityOf is shorthand for StatusOf(err).Severity().
func SeverityOf(err error) Severity {
	return StatusOf(err).Severity()
}

// IsWarning reports whether err is a soft failure such as an all-ones read.
func IsWarning(err error) bool {
	return SeverityOf(err) == SeverityWarning
}

var (
	errUnknownChip     = errors.New("unexpected WHO_AM_I value")
	errFIFONotDraining = errors.New("fifo did not report empty")
	errEmptyRegion     = errors.New("empty region")
)

func hex8(b uint8) string {
	const digits = "0123456789abcdef"
	return string([]byte{digits[b>>4], digits[b&0x0F]})
}
