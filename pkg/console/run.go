package console

import (
	"context"
	"errors"
	"io"
	"time"
)

// ErrNoInput indicates Run is called without Input.
var ErrNoInput = errors.New("no input")

// Run implements Runnable. It prints the banner, then processes bytes from
// Input until ctx is done, the input fails or a transport error happens.
func (e *Engine) Run(ctx context.Context) error {
	if e.Input == nil {
		return ErrNoInput
	}
	if err := e.Start(); err != nil {
		return err
	}

	byteCh, errCh := make(chan byte), make(chan error, 1)
	subCtx, cancel := context.WithCancel(ctx)
	defer cancel()
	go readLoop(subCtx, e.Input, byteCh, errCh)

	var escTimer <-chan time.Time
	for {
		select {
		case b := <-byteCh:
			if err := e.Process(ctx, b); err != nil {
				return err
			}
			if e.State() == StateEscape && e.EscapeTimeout > 0 {
				escTimer = time.After(e.EscapeTimeout)
			} else {
				escTimer = nil
			}
		case <-escTimer:
			e.Timeout()
			escTimer = nil
		case err := <-errCh:
			return err
		case <-ctx.Done():
			return ctx.Err()
		}
	}
}

func readLoop(ctx context.Context, r io.Reader, byteCh chan<- byte, errCh chan<- error) {
	buf := make([]byte, 64)
	for {
		n, err := r.Read(buf)
		for _, b := range buf[:n] {
			select {
			case byteCh <- b:
			case <-ctx.Done():
				return
			}
		}
		if err != nil {
			errCh <- err
			return
		}
	}
}
