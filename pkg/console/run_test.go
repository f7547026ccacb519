package console

import (
	"context"
	"io"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/robotalks/uartcon/pkg/console/history"
	"github.com/robotalks/uartcon/pkg/console/line"
	"github.com/robotalks/uartcon/pkg/uart"
)

type runTestEnv struct {
	t      *testing.T
	input  *io.PipeWriter
	engine *Engine
	cmdCh  chan string
	errCh  chan error
	cancel func()
	sim    *uart.Sim
}

func newRunTestEnv(t *testing.T, escTimeout time.Duration) *runTestEnv {
	env := &runTestEnv{
		t:     t,
		cmdCh: make(chan string, 4),
		errCh: make(chan error, 1),
		sim:   uart.NewSim(1),
	}
	r, w := io.Pipe()
	env.input = w
	env.engine = New(uart.NewWriter(env.sim), line.New(make([]byte, 16)), history.New(make([]byte, 16))).
		WithInput(r).
		WithEscapeTimeout(escTimeout).
		WithHandler(HandleCommandFunc(func(ctx context.Context, cmd []byte) error {
			env.cmdCh <- string(cmd)
			return nil
		}))
	ctx, cancel := context.WithCancel(context.TODO())
	env.cancel = cancel
	go func() {
		env.errCh <- env.engine.Run(ctx)
	}()
	return env
}

func (e *runTestEnv) inject(s string) *runTestEnv {
	_, err := e.input.Write([]byte(s))
	require.NoError(e.t, err)
	return e
}

func (e *runTestEnv) expectCommand(cmd string) *runTestEnv {
	select {
	case actual := <-e.cmdCh:
		require.Equal(e.t, cmd, actual)
	case <-time.After(500 * time.Millisecond):
		e.t.Fatalf("expect command %q timeout", cmd)
	}
	return e
}

func (e *runTestEnv) expectNoCommand() *runTestEnv {
	select {
	case actual := <-e.cmdCh:
		e.t.Fatalf("unexpected command %q", actual)
	case <-time.After(50 * time.Millisecond):
	}
	return e
}

func (e *runTestEnv) stop() error {
	e.cancel()
	select {
	case err := <-e.errCh:
		return err
	case <-time.After(500 * time.Millisecond):
		e.t.Fatal("engine not stopped")
	}
	return nil
}

func TestRunOverSim(t *testing.T) {
	env := newRunTestEnv(t, 0)
	env.inject("ls\r").expectCommand("ls")
	require.Equal(t, context.Canceled, env.stop())
	require.Equal(t, DefaultBanner+prompt+"ls\r\n"+prompt, string(env.sim.Wire()))
}

func TestRunHistoryRecall(t *testing.T) {
	env := newRunTestEnv(t, 0)
	env.inject("ls\r").expectCommand("ls")
	env.inject(up + "\r").expectCommand("ls")
	require.Equal(t, context.Canceled, env.stop())
	require.True(t, strings.HasSuffix(string(env.sim.Wire()), "\r\x1b[K"+prompt+"ls\r\n"+prompt))
}

func TestRunEscapeTimeout(t *testing.T) {
	env := newRunTestEnv(t, 10*time.Millisecond)
	env.inject("\x1b")
	time.Sleep(50 * time.Millisecond)
	env.inject("x\r").expectCommand("x")
	require.Equal(t, context.Canceled, env.stop())
}

func TestRunWithoutEscapeTimeout(t *testing.T) {
	env := newRunTestEnv(t, 0)
	env.inject("\x1b")
	time.Sleep(20 * time.Millisecond)
	// x completes the escape sequence as an unknown one.
	env.inject("x\r").expectNoCommand()
	require.Equal(t, context.Canceled, env.stop())
}

func TestRunInputClosed(t *testing.T) {
	env := newRunTestEnv(t, 0)
	env.inject("a\r").expectCommand("a")
	env.input.Close()
	select {
	case err := <-env.errCh:
		require.Equal(t, io.EOF, err)
	case <-time.After(500 * time.Millisecond):
		t.Fatal("engine not stopped")
	}
}

func TestRunTransportFault(t *testing.T) {
	env := newRunTestEnv(t, 0)
	env.inject("a").expectNoCommand()
	env.sim.InjectTxFault(uart.FaultFraming)
	env.inject("b")
	select {
	case err := <-env.errCh:
		kind, ok := uart.IsTransport(err)
		require.True(t, ok)
		require.Equal(t, uart.KindOther, kind)
	case <-time.After(500 * time.Millisecond):
		t.Fatal("engine not stopped")
	}
	env.cancel()
}

func TestRunNoInput(t *testing.T) {
	e := New(&recordingTransport{}, line.New(make([]byte, 4)), history.New(make([]byte, 4)))
	require.Equal(t, ErrNoInput, e.Run(context.TODO()))
}

func TestRunReceiveFault(t *testing.T) {
	sim := uart.NewSim(0)
	r := uart.NewReader(sim)
	r.PollInterval = time.Microsecond
	sim.InjectRxFault(uart.FaultOverrun)
	e := New(uart.NewWriter(sim), line.New(make([]byte, 4)), history.New(make([]byte, 4))).WithInput(r)
	kind, ok := uart.IsTransport(e.Run(context.TODO()))
	require.True(t, ok)
	require.Equal(t, uart.KindOther, kind)
}
