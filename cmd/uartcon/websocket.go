package main

import (
	"context"
	"net/http"

	"github.com/golang/glog"
	"golang.org/x/net/websocket"

	"github.com/robotalks/uartcon/pkg/console"
	"github.com/robotalks/uartcon/pkg/env"
	fx "github.com/robotalks/uartcon/pkg/framework"
	"github.com/robotalks/uartcon/pkg/uart"
)

const busyMessage = "console busy\r\n"

// consoleServer serves one console session at a time over websocket.
// Sessions share the same line and history storage.
type consoleServer struct {
	conf    *env.Config
	storage *storage
	handler console.CommandHandler
	ctx     context.Context
	slot    chan struct{}
}

func newConsoleServer(ctx context.Context, conf *env.Config, h console.CommandHandler) *consoleServer {
	return &consoleServer{
		conf:    conf,
		storage: newStorage(conf),
		handler: h,
		ctx:     ctx,
		slot:    make(chan struct{}, 1),
	}
}

func (s *consoleServer) serve(ws *websocket.Conn) {
	ws.PayloadType = websocket.BinaryFrame
	select {
	case s.slot <- struct{}{}:
	default:
		ws.Write([]byte(busyMessage))
		ws.Close()
		return
	}
	defer func() { <-s.slot }()

	glog.Infof("console session from %s", ws.Request().RemoteAddr)
	port := uart.NewPort(ws)
	engine := newEngine(s.conf, s.storage, port, uart.NewReader(port), s.handler)
	err := fx.RunWithContextCloser(s.ctx, port, func() error {
		return engine.Run(s.ctx)
	})
	glog.Infof("console session from %s closed: %v", ws.Request().RemoteAddr, err)
}

func serveWebsocket(conf *env.Config, h console.CommandHandler) error {
	runner := fx.NewRunner().HandleSignals()
	s := newConsoleServer(runner.Context, conf, h)
	mux := http.NewServeMux()
	mux.Handle("/console", websocket.Handler(s.serve))
	server := &http.Server{Addr: conf.Listen, Handler: mux}

	glog.Infof("serving console on ws://%s/console", conf.Listen)
	runner.Go(fx.NamedRun("http", fx.RunFunc(func(ctx context.Context) error {
		return fx.RunWithContextCloser(ctx, server, server.ListenAndServe)
	})))
	return runner.Wait()
}
