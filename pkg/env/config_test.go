package env

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/robotalks/uartcon/pkg/uart"
)

func TestDefaultConfig(t *testing.T) {
	conf := NewConfig()
	conf.Device = uart.DeviceSim
	require.NoError(t, conf.Validate())

	uconf, err := conf.UARTConfig()
	require.NoError(t, err)
	require.Equal(t, 115200, uconf.Baud)
	require.Equal(t, "8N1", uconf.Framing())
	require.Equal(t, uart.DuplexFull, uconf.Duplex)
}

func TestUARTConfig(t *testing.T) {
	conf := NewConfig()
	conf.Device, conf.Baud, conf.Framing, conf.HalfDuplex = "/dev/ttyUSB0", 9600, "7E2", true
	uconf, err := conf.UARTConfig()
	require.NoError(t, err)
	require.Equal(t, "/dev/ttyUSB0", uconf.Device)
	require.Equal(t, 9600, uconf.Baud)
	require.Equal(t, 7, uconf.DataBits)
	require.Equal(t, 2, uconf.StopBits)
	require.Equal(t, uart.ParityEven, uconf.Parity)
	require.Equal(t, uart.DuplexHalf, uconf.Duplex)
}

func TestInvalidConfig(t *testing.T) {
	testCases := []struct {
		name   string
		modify func(*Config)
	}{
		{"line size", func(c *Config) { c.LineSize = 0 }},
		{"history size", func(c *Config) { c.HistorySize = -1 }},
		{"escape timeout", func(c *Config) { c.EscapeTimeout = -time.Second }},
		{"framing", func(c *Config) { c.Framing = "8Q1" }},
		{"baud", func(c *Config) { c.Baud = -1 }},
	}
	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			conf := NewConfig()
			tc.modify(conf)
			require.Error(t, conf.Validate())
		})
	}
}
