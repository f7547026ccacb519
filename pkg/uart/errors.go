package uart

import (
	"errors"
	"fmt"
)

// ErrWouldBlock indicates the hardware is not ready yet. It is transient
// and the operation should be retried.
var ErrWouldBlock = errors.New("would block")

// Fault is a hardware error latched by the peripheral.
type Fault int

// Faults reported by the peripheral.
const (
	FaultFraming Fault = iota + 1
	FaultOverrun
	FaultParity
	FaultNoise
	FaultIO // host side I/O failure
)

var faultNames = map[Fault]string{
	FaultFraming: "framing",
	FaultOverrun: "overrun",
	FaultParity:  "parity",
	FaultNoise:   "noise",
	FaultIO:      "io",
}

// String implements fmt.Stringer.
func (f Fault) String() string {
	if name, ok := faultNames[f]; ok {
		return name
	}
	return fmt.Sprintf("fault(%d)", int(f))
}

// FaultError is returned by Hardware for a non-retryable fault.
type FaultError struct {
	Fault Fault
	Err   error
}

// Error implements error.
func (e *FaultError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("uart %s fault: %v", e.Fault, e.Err)
	}
	return fmt.Sprintf("uart %s fault", e.Fault)
}

// ErrorKind classifies transport errors.
type ErrorKind int

const (
	// KindOther is a generic I/O error. Writer reports every fault with it.
	KindOther ErrorKind = iota
)

// String implements fmt.Stringer.
func (k ErrorKind) String() string {
	if k == KindOther {
		return "other"
	}
	return fmt.Sprintf("kind(%d)", int(k))
}

// Error is the error returned by Writer.
type Error struct {
	Op   string
	Kind ErrorKind
}

// Error implements error.
func (e *Error) Error() string {
	return fmt.Sprintf("uart %s: %s error", e.Op, e.Kind)
}

// IsTransport tells if err is a transport error and returns its kind.
func IsTransport(err error) (ErrorKind, bool) {
	var terr *Error
	if errors.As(err, &terr) {
		return terr.Kind, true
	}
	return 0, false
}
