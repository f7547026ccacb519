package uart

import (
	"io"
	"os"

	tty "github.com/mattn/go-tty"
	"github.com/tarm/serial"
	"golang.org/x/term"
)

// Channel is a Hardware channel owning an OS resource.
type Channel interface {
	Hardware
	io.Closer
}

// Drainer is implemented by streams which can wait for written bytes to
// physically leave.
type Drainer interface {
	Drain() error
}

// Port adapts an io.ReadWriter to Hardware.
// Writes are handed synchronously to the OS driver. ReadByte blocks
// unless the stream has a read timeout, which is reported as ErrWouldBlock.
type Port struct {
	rw  io.ReadWriter
	buf [1]byte
}

// NewPort wraps rw.
func NewPort(rw io.ReadWriter) *Port {
	return &Port{rw: rw}
}

// WriteByte implements Hardware.
func (p *Port) WriteByte(b byte) error {
	n, err := p.rw.Write([]byte{b})
	if err != nil {
		if os.IsTimeout(err) {
			return ErrWouldBlock
		}
		return &FaultError{Fault: FaultIO, Err: err}
	}
	if n == 0 {
		return ErrWouldBlock
	}
	return nil
}

// Flush implements Hardware.
func (p *Port) Flush() error {
	if d, ok := p.rw.(Drainer); ok {
		if err := d.Drain(); err != nil {
			return &FaultError{Fault: FaultIO, Err: err}
		}
	}
	return nil
}

// ReadByte implements Hardware.
func (p *Port) ReadByte() (byte, error) {
	n, err := p.rw.Read(p.buf[:])
	if err != nil {
		if os.IsTimeout(err) {
			return 0, ErrWouldBlock
		}
		if err == io.EOF {
			return 0, err
		}
		return 0, &FaultError{Fault: FaultIO, Err: err}
	}
	if n == 0 {
		return 0, ErrWouldBlock
	}
	return p.buf[0], nil
}

// Close implements io.Closer.
func (p *Port) Close() error {
	if closer, ok := p.rw.(io.Closer); ok {
		return closer.Close()
	}
	return nil
}

// OpenSerial opens a host serial device.
func OpenSerial(conf *Config) (*Port, error) {
	if err := conf.Validate(); err != nil {
		return nil, err
	}
	if conf.Duplex == DuplexHalf {
		return nil, ErrHalfDuplex
	}
	port, err := serial.OpenPort(&serial.Config{
		Name:        conf.Device,
		Baud:        conf.Baud,
		Size:        byte(conf.DataBits),
		Parity:      serial.Parity(conf.Parity),
		StopBits:    serial.StopBits(conf.StopBits),
		ReadTimeout: conf.ReadTimeout,
	})
	if err != nil {
		return nil, err
	}
	return NewPort(port), nil
}

type ttyStream struct {
	tty     *tty.TTY
	restore func() error
}

func (s *ttyStream) Read(p []byte) (int, error)  { return s.tty.Input().Read(p) }
func (s *ttyStream) Write(p []byte) (int, error) { return s.tty.Output().Write(p) }
func (s *ttyStream) Drain() error                { return s.tty.Output().Sync() }

func (s *ttyStream) Close() error {
	if s.restore != nil {
		s.restore()
	}
	return s.tty.Close()
}

// OpenTTY opens a terminal device in raw mode. The line settings are
// whatever the device already has.
func OpenTTY(path string) (*Port, error) {
	t, err := tty.OpenDevice(path)
	if err != nil {
		return nil, err
	}
	return NewPort(&ttyStream{tty: t, restore: t.MustRaw()}), nil
}

type stdioStream struct {
	fd    int
	state *term.State
}

func (s *stdioStream) Read(p []byte) (int, error)  { return os.Stdin.Read(p) }
func (s *stdioStream) Write(p []byte) (int, error) { return os.Stdout.Write(p) }

func (s *stdioStream) Close() error {
	if s.state != nil {
		return term.Restore(s.fd, s.state)
	}
	return nil
}

// OpenStdio uses the process stdin/stdout, switching stdin into raw mode
// when it is a terminal.
func OpenStdio() (*Port, error) {
	s := &stdioStream{fd: int(os.Stdin.Fd())}
	if term.IsTerminal(s.fd) {
		state, err := term.MakeRaw(s.fd)
		if err != nil {
			return nil, err
		}
		s.state = state
	}
	return NewPort(s), nil
}
