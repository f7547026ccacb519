package main

//go-build: CGO_ENABLED=0

import (
	"flag"
	"io"
	"os"

	"github.com/golang/glog"

	"github.com/robotalks/uartcon/pkg/console"
	"github.com/robotalks/uartcon/pkg/console/history"
	"github.com/robotalks/uartcon/pkg/console/line"
	"github.com/robotalks/uartcon/pkg/dispatch"
	"github.com/robotalks/uartcon/pkg/env"
	fx "github.com/robotalks/uartcon/pkg/framework"
	"github.com/robotalks/uartcon/pkg/uart"
)

func init() {
	env.SetupFlags()
}

// storage is allocated once and reused by every session.
type storage struct {
	line    *line.Buffer
	history *history.Ring
}

func newStorage(conf *env.Config) *storage {
	return &storage{
		line:    line.New(make([]byte, conf.LineSize)),
		history: history.New(make([]byte, conf.HistorySize)),
	}
}

func newEngine(conf *env.Config, st *storage, ch uart.Hardware, input io.Reader, h console.CommandHandler) *console.Engine {
	st.line.Clear()
	return console.New(uart.NewWriter(ch), st.line, st.history).
		WithInput(input).
		WithBanner(conf.Banner).
		WithPrompt(conf.Prompt).
		WithEscapeTimeout(conf.EscapeTimeout).
		WithHandler(h)
}

func newHandler(conf *env.Config) (console.CommandHandler, io.Closer) {
	if conf.MQTTURL == "" {
		return dispatch.Log{}, nil
	}
	m, err := dispatch.NewMQTTFromURL(conf.MQTTURL, env.MachineID())
	if err != nil {
		glog.Exitf("invalid MQTT URL %q: %v", conf.MQTTURL, err)
	}
	if err := m.Connect(); err != nil {
		glog.Exitf("MQTT connect failed: %v", err)
	}
	glog.Infof("publishing commands to %s%s", m.Queue.TopicPrefix, m.Topic())
	return dispatch.Multi{dispatch.Log{}, m}, m
}

// openDevice opens the channel and the reader feeding the engine.
func openDevice(conf *env.Config) (uart.Channel, io.Reader, error) {
	uconf, err := conf.UARTConfig()
	if err != nil {
		return nil, nil, err
	}
	ch, err := uart.Open(uconf)
	if err != nil {
		return nil, nil, err
	}
	if sim, ok := ch.(*uart.Sim); ok {
		// the simulated line is wired to stdio.
		sim.Output = os.Stdout
		go io.Copy(sim, os.Stdin)
	}
	glog.Infof("console on %s %d %s", uconf.Device, uconf.Baud, uconf.Framing())
	return ch, uart.NewReader(ch), nil
}

func runDevice(conf *env.Config, h console.CommandHandler) error {
	ch, input, err := openDevice(conf)
	if err != nil {
		return err
	}
	defer ch.Close()

	engine := newEngine(conf, newStorage(conf), ch, input, h)
	err = fx.NewRunner().HandleSignals().Go(fx.NamedRun("console", engine)).Wait()
	if unwrapSingle(err) == io.EOF {
		return nil
	}
	return err
}

func main() {
	flag.Parse()
	defer glog.Flush()

	conf := env.NewConfig()
	if err := conf.Validate(); err != nil {
		glog.Exitf("invalid configuration: %v", err)
	}
	h, closer := newHandler(conf)
	if closer != nil {
		defer closer.Close()
	}

	var err error
	if conf.Listen != "" {
		err = serveWebsocket(conf, h)
	} else {
		err = runDevice(conf, h)
	}
	if err != nil {
		if _, ok := uart.IsTransport(unwrapSingle(err)); ok {
			glog.Exitf("transport fault, console stopped: %v", err)
		}
		glog.Exitf("%v", err)
	}
}

func unwrapSingle(err error) error {
	if agg, ok := err.(*fx.AggregatedError); ok && len(agg.Errors) == 1 {
		return agg.Errors[0]
	}
	return err
}
