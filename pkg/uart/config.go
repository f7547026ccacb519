package uart

import (
	"errors"
	"fmt"
	"strings"
	"time"
)

// Parity is the parity setting of the line.
type Parity byte

// Parity settings, encoded the same way as common serial libraries.
const (
	ParityNone Parity = 'N'
	ParityOdd  Parity = 'O'
	ParityEven Parity = 'E'
)

// Duplex is the duplex mode of the line.
type Duplex int

// Duplex modes.
const (
	DuplexFull Duplex = iota
	DuplexHalf
)

// Device names with special meaning in Config.Device.
const (
	DeviceSim   = "sim"
	DeviceStdio = "stdio"
	// DeviceTTYPrefix selects a raw tty, e.g. "tty:/dev/pts/3".
	DeviceTTYPrefix = "tty:"
)

// DefaultBaud is the baud rate of the reference configuration.
const DefaultBaud = 115200

// ErrHalfDuplex indicates half duplex is requested on a device which can't do it.
var ErrHalfDuplex = errors.New("half duplex not supported by device")

// Config is the line configuration. It is fixed when the channel opens.
type Config struct {
	Device      string
	Baud        int
	DataBits    int
	StopBits    int
	Parity      Parity
	Duplex      Duplex
	ReadTimeout time.Duration
}

// DefaultConfig returns 115200 8N1 full duplex on the simulated device.
func DefaultConfig() Config {
	return Config{
		Device:   DeviceSim,
		Baud:     DefaultBaud,
		DataBits: 8,
		StopBits: 1,
		Parity:   ParityNone,
		Duplex:   DuplexFull,
	}
}

// Validate checks the settings.
func (c *Config) Validate() error {
	if c.Baud <= 0 {
		return fmt.Errorf("invalid baud rate %d", c.Baud)
	}
	if c.DataBits < 5 || c.DataBits > 8 {
		return fmt.Errorf("invalid data bits %d", c.DataBits)
	}
	if c.StopBits != 1 && c.StopBits != 2 {
		return fmt.Errorf("invalid stop bits %d", c.StopBits)
	}
	switch c.Parity {
	case ParityNone, ParityOdd, ParityEven:
	default:
		return fmt.Errorf("invalid parity %q", rune(c.Parity))
	}
	if c.Duplex != DuplexFull && c.Duplex != DuplexHalf {
		return fmt.Errorf("invalid duplex mode %d", c.Duplex)
	}
	return nil
}

// ParseFraming parses framing strings like "8N1".
func ParseFraming(s string) (dataBits, stopBits int, parity Parity, err error) {
	if len(s) != 3 || s[0] < '5' || s[0] > '8' || s[2] < '1' || s[2] > '2' {
		err = fmt.Errorf("invalid framing %q", s)
		return
	}
	dataBits, stopBits = int(s[0]-'0'), int(s[2]-'0')
	switch p := Parity(strings.ToUpper(s[1:2])[0]); p {
	case ParityNone, ParityOdd, ParityEven:
		parity = p
	default:
		err = fmt.Errorf("invalid framing %q", s)
	}
	return
}

// Framing formats the framing like "8N1".
func (c *Config) Framing() string {
	return fmt.Sprintf("%d%c%d", c.DataBits, rune(c.Parity), c.StopBits)
}

// Open opens the channel named by c.Device.
func Open(c *Config) (Channel, error) {
	if err := c.Validate(); err != nil {
		return nil, err
	}
	var (
		port *Port
		err  error
	)
	switch {
	case c.Device == DeviceSim:
		return NewSim(0), nil
	case c.Device == DeviceStdio:
		port, err = OpenStdio()
	case strings.HasPrefix(c.Device, DeviceTTYPrefix):
		port, err = OpenTTY(strings.TrimPrefix(c.Device, DeviceTTYPrefix))
	default:
		port, err = OpenSerial(c)
	}
	if err != nil {
		return nil, err
	}
	return port, nil
}
