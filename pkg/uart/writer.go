package uart

import (
	"github.com/golang/glog"
)

// Writer is the transport adapter over Hardware.
// Every call either transmits all its input or reports an *Error.
type Writer struct {
	hw Hardware
}

// NewWriter takes the hardware channel. It must not be used by others
// afterwards.
func NewWriter(hw Hardware) *Writer {
	return &Writer{hw: hw}
}

// Write implements io.Writer.
func (w *Writer) Write(p []byte) (int, error) {
	for n, b := range p {
		if err := Block(func() error { return w.hw.WriteByte(b) }); err != nil {
			glog.Errorf("uart write aborted at byte %d/%d: %v", n, len(p), err)
			return n, &Error{Op: "write", Kind: KindOther}
		}
	}
	if glog.V(3) {
		glog.Infof("uart TX %q", p)
	}
	return len(p), nil
}

// WriteString writes s.
func (w *Writer) WriteString(s string) (int, error) {
	return w.Write([]byte(s))
}

// Flush waits until the transmit path drained.
func (w *Writer) Flush() error {
	if err := Block(w.hw.Flush); err != nil {
		glog.Errorf("uart flush aborted: %v", err)
		return &Error{Op: "flush", Kind: KindOther}
	}
	return nil
}
