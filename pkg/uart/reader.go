package uart

import (
	"io"
	"time"

	"github.com/golang/glog"
)

// DefaultPollInterval is the idle time between polls of an empty receiver.
const DefaultPollInterval = time.Millisecond

// Reader adapts the receive side of Hardware into io.Reader.
type Reader struct {
	PollInterval time.Duration

	hw Hardware
}

// NewReader creates a Reader.
func NewReader(hw Hardware) *Reader {
	return &Reader{PollInterval: DefaultPollInterval, hw: hw}
}

// Read implements io.Reader. It blocks until one byte arrives and returns
// it alone, as a following ReadByte may block on some channels. io.EOF is
// passed through; faults are reported as *Error like Writer does.
func (r *Reader) Read(p []byte) (int, error) {
	if len(p) == 0 {
		return 0, nil
	}
	for {
		b, err := r.hw.ReadByte()
		if err == ErrWouldBlock {
			if r.PollInterval > 0 {
				time.Sleep(r.PollInterval)
			}
			continue
		}
		if err == io.EOF {
			return 0, err
		}
		if err != nil {
			glog.Errorf("uart read aborted: %v", err)
			return 0, &Error{Op: "read", Kind: KindOther}
		}
		p[0] = b
		return 1, nil
	}
}
