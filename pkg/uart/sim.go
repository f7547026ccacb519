package uart

import (
	"io"
	"sync"
)

// Sim is an in-memory UART peripheral.
//
// The transmit path is a one byte shift register: a byte accepted by
// WriteByte leaves the wire when the next one is accepted or when Flush
// drains it. TxLatency is the number of polls the peripheral reports
// not-ready before accepting a byte or finishing a drain.
type Sim struct {
	TxLatency int
	// Output receives every byte leaving the wire, if set.
	Output io.Writer

	lock     sync.Mutex
	busy     int
	draining int
	shift    []byte
	wire     []byte
	rx       []byte
	txFaults []Fault
	rxFaults []Fault
}

// NewSim creates a Sim.
func NewSim(txLatency int) *Sim {
	return &Sim{TxLatency: txLatency, busy: txLatency}
}

// WriteByte implements Hardware.
func (s *Sim) WriteByte(b byte) error {
	s.lock.Lock()
	defer s.lock.Unlock()
	if err := s.takeFault(&s.txFaults); err != nil {
		return err
	}
	if s.busy > 0 {
		s.busy--
		return ErrWouldBlock
	}
	s.shiftOut()
	s.shift = append(s.shift, b)
	s.busy = s.TxLatency
	return nil
}

// Flush implements Hardware.
func (s *Sim) Flush() error {
	s.lock.Lock()
	defer s.lock.Unlock()
	if err := s.takeFault(&s.txFaults); err != nil {
		return err
	}
	if len(s.shift) == 0 {
		return nil
	}
	if s.draining < s.TxLatency {
		s.draining++
		return ErrWouldBlock
	}
	s.draining = 0
	s.shiftOut()
	return nil
}

// ReadByte implements Hardware.
func (s *Sim) ReadByte() (byte, error) {
	s.lock.Lock()
	defer s.lock.Unlock()
	if err := s.takeFault(&s.rxFaults); err != nil {
		return 0, err
	}
	if len(s.rx) == 0 {
		return 0, ErrWouldBlock
	}
	b := s.rx[0]
	s.rx = s.rx[1:]
	return b, nil
}

// Inject queues bytes as if received from the line.
func (s *Sim) Inject(p []byte) {
	s.lock.Lock()
	s.rx = append(s.rx, p...)
	s.lock.Unlock()
}

// InjectTxFault makes a following transmit operation fail with f.
func (s *Sim) InjectTxFault(f Fault) {
	s.lock.Lock()
	s.txFaults = append(s.txFaults, f)
	s.lock.Unlock()
}

// InjectRxFault makes a following ReadByte fail with f.
func (s *Sim) InjectRxFault(f Fault) {
	s.lock.Lock()
	s.rxFaults = append(s.rxFaults, f)
	s.lock.Unlock()
}

// Wire returns a copy of all bytes which left the wire.
func (s *Sim) Wire() []byte {
	s.lock.Lock()
	defer s.lock.Unlock()
	return append([]byte(nil), s.wire...)
}

// Write implements io.Writer so the same Sim can be fed from a stream.
func (s *Sim) Write(p []byte) (int, error) {
	s.Inject(p)
	return len(p), nil
}

func (s *Sim) shiftOut() {
	if len(s.shift) == 0 {
		return
	}
	s.wire = append(s.wire, s.shift...)
	if s.Output != nil {
		s.Output.Write(s.shift)
	}
	s.shift = s.shift[:0]
}

func (s *Sim) takeFault(faults *[]Fault) error {
	if len(*faults) == 0 {
		return nil
	}
	f := (*faults)[0]
	*faults = (*faults)[1:]
	return &FaultError{Fault: f}
}

// Close implements io.Closer.
func (s *Sim) Close() error {
	return nil
}
