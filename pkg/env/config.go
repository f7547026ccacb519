// Package env provides the configuration of the console process.
package env

import (
	"flag"
	"fmt"
	"os"
	"strconv"
	"time"

	"github.com/robotalks/uartcon/pkg/console"
	"github.com/robotalks/uartcon/pkg/uart"
)

// Config is the process configuration.
type Config struct {
	Device  string
	Baud    int
	Framing string
	// HalfDuplex only applies to devices supporting it.
	HalfDuplex bool

	LineSize      int
	HistorySize   int
	EscapeTimeout time.Duration
	Banner        string
	Prompt        string

	// MQTTURL publishes submitted commands when set,
	// e.g. mqtt://host:port/topic-prefix
	MQTTURL string
	// Listen serves the console over websocket instead of Device when set.
	Listen string
}

var defaultConfig = Config{
	Device:        uart.DeviceStdio,
	Baud:          uart.DefaultBaud,
	Framing:       "8N1",
	LineSize:      16,
	HistorySize:   16,
	EscapeTimeout: console.DefaultEscapeTimeout,
	Banner:        console.DefaultBanner,
	Prompt:        console.DefaultPrompt,
}

func init() {
	if val := os.Getenv("UARTCON_DEVICE"); val != "" {
		defaultConfig.Device = val
	}
	if val := os.Getenv("UARTCON_BAUD"); val != "" {
		if baud, err := strconv.Atoi(val); err == nil {
			defaultConfig.Baud = baud
		}
	}
	if val := os.Getenv("UARTCON_FRAMING"); val != "" {
		defaultConfig.Framing = val
	}
	if val := os.Getenv("UARTCON_BANNER"); val != "" {
		defaultConfig.Banner = val
	}
	if val := os.Getenv("UARTCON_PROMPT"); val != "" {
		defaultConfig.Prompt = val
	}
	if val := os.Getenv("UARTCON_MQTT_URL"); val != "" {
		defaultConfig.MQTTURL = val
	}
}

// SetupFlags sets up command line flags.
func SetupFlags() {
	flag.StringVar(&defaultConfig.Device, "device", defaultConfig.Device, "Serial device path, stdio, sim or tty:PATH.")
	flag.IntVar(&defaultConfig.Baud, "baud", defaultConfig.Baud, "Baud rate.")
	flag.StringVar(&defaultConfig.Framing, "framing", defaultConfig.Framing, "Data bits, parity and stop bits, e.g. 8N1.")
	flag.BoolVar(&defaultConfig.HalfDuplex, "half-duplex", defaultConfig.HalfDuplex, "Use half duplex.")
	flag.IntVar(&defaultConfig.LineSize, "line-size", defaultConfig.LineSize, "Capacity of the command line in bytes.")
	flag.IntVar(&defaultConfig.HistorySize, "history-size", defaultConfig.HistorySize, "Capacity of the history in bytes.")
	flag.DurationVar(&defaultConfig.EscapeTimeout, "escape-timeout", defaultConfig.EscapeTimeout, "Grace period for escape sequences, 0 to disable.")
	flag.StringVar(&defaultConfig.Banner, "banner", defaultConfig.Banner, "Welcome banner.")
	flag.StringVar(&defaultConfig.Prompt, "prompt", defaultConfig.Prompt, "Prompt.")
	flag.StringVar(&defaultConfig.MQTTURL, "mqtt", defaultConfig.MQTTURL, "MQTT URL to publish submitted commands.")
	flag.StringVar(&defaultConfig.Listen, "listen", defaultConfig.Listen, "Serve the console over websocket on this address.")
}

// NewConfig creates a Config with default configurations.
func NewConfig() *Config {
	conf := defaultConfig
	return &conf
}

// Validate checks the settings.
func (c *Config) Validate() error {
	if c.LineSize <= 0 {
		return fmt.Errorf("invalid line size %d", c.LineSize)
	}
	if c.HistorySize < 0 {
		return fmt.Errorf("invalid history size %d", c.HistorySize)
	}
	if c.EscapeTimeout < 0 {
		return fmt.Errorf("invalid escape timeout %v", c.EscapeTimeout)
	}
	_, err := c.UARTConfig()
	return err
}

// UARTConfig builds the line configuration.
func (c *Config) UARTConfig() (*uart.Config, error) {
	conf := uart.DefaultConfig()
	conf.Device, conf.Baud = c.Device, c.Baud
	dataBits, stopBits, parity, err := uart.ParseFraming(c.Framing)
	if err != nil {
		return nil, err
	}
	conf.DataBits, conf.StopBits, conf.Parity = dataBits, stopBits, parity
	if c.HalfDuplex {
		conf.Duplex = uart.DuplexHalf
	}
	if err := conf.Validate(); err != nil {
		return nil, err
	}
	return &conf, nil
}
