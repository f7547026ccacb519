// Package console implements an interactive command line over a byte stream.
package console

import (
	"context"
	"io"
	"time"

	"github.com/golang/glog"

	"github.com/robotalks/uartcon/pkg/console/history"
	"github.com/robotalks/uartcon/pkg/console/line"
)

// Transport is where the engine renders its output.
type Transport interface {
	io.Writer
	Flush() error
}

// State is the state of the engine.
type State int

const (
	// StateEditing means the engine is accumulating a line.
	StateEditing State = iota
	// StateEscape means the engine is in the middle of an escape sequence.
	StateEscape
)

// Defaults.
const (
	DefaultBanner        = "Welcome to the embedded CLI!\r\n"
	DefaultPrompt        = "$ "
	DefaultEscapeTimeout = 50 * time.Millisecond
)

// Control bytes.
const (
	keyETX = 0x03 // Ctrl-C
	keyBEL = 0x07
	keyBS  = 0x08
	keyLF  = '\n'
	keyCR  = '\r'
	keyESC = 0x1b
	keyDEL = 0x7f
)

const (
	seqNewline   = "\r\n"
	seqClearLine = "\r\x1b[K"
	seqCancel    = "^C\r\n"
)

// Engine turns input bytes into edited lines.
// It owns the transport and both buffers; it is not safe for concurrent use.
type Engine struct {
	Banner        string
	Prompt        string
	EscapeTimeout time.Duration
	Bell          bool
	Handler       CommandHandler
	Input         io.Reader

	out  Transport
	line *line.Buffer
	hist *history.Ring

	esc        escParser
	navigating int
	lastCR     bool
	pending    []byte
	cmd        []byte
}

// New creates an Engine taking over out, the line buffer and the history.
func New(out Transport, lineBuf *line.Buffer, hist *history.Ring) *Engine {
	return &Engine{
		Banner:        DefaultBanner,
		Prompt:        DefaultPrompt,
		EscapeTimeout: DefaultEscapeTimeout,
		Bell:          true,

		out:        out,
		line:       lineBuf,
		hist:       hist,
		navigating: -1,
		pending:    make([]byte, 0, 2*lineBuf.Cap()+len(seqClearLine)+len(DefaultPrompt)),
		cmd:        make([]byte, 0, lineBuf.Cap()),
	}
}

// WithHandler sets the command handler.
func (e *Engine) WithHandler(h CommandHandler) *Engine {
	e.Handler = h
	return e
}

// WithInput sets the reader used by Run.
func (e *Engine) WithInput(r io.Reader) *Engine {
	e.Input = r
	return e
}

// WithBanner sets the banner.
func (e *Engine) WithBanner(banner string) *Engine {
	e.Banner = banner
	return e
}

// WithPrompt sets the prompt.
func (e *Engine) WithPrompt(prompt string) *Engine {
	e.Prompt = prompt
	return e
}

// WithEscapeTimeout sets the escape grace period. 0 disables it.
func (e *Engine) WithEscapeTimeout(d time.Duration) *Engine {
	e.EscapeTimeout = d
	return e
}

// State returns the current state.
func (e *Engine) State() State {
	if e.esc.active() {
		return StateEscape
	}
	return StateEditing
}

// Line returns the line buffer.
func (e *Engine) Line() *line.Buffer { return e.line }

// History returns the history buffer.
func (e *Engine) History() *history.Ring { return e.hist }

// Output returns the transport, for command handlers to print results.
func (e *Engine) Output() Transport { return e.out }

// Start prints the banner and the first prompt.
func (e *Engine) Start() error {
	e.emitString(e.Banner)
	e.emitString(e.Prompt)
	return e.commit()
}

// Process consumes one input byte. Errors are transport errors and are
// not recoverable by the engine.
func (e *Engine) Process(ctx context.Context, b byte) error {
	if e.esc.active() {
		return e.processEscape(ctx, b)
	}
	afterCR := e.lastCR
	e.lastCR = false
	switch {
	case b == keyCR:
		e.lastCR = true
		return e.submit(ctx)
	case b == keyLF:
		if afterCR {
			return nil
		}
		return e.submit(ctx)
	case b == keyESC:
		e.esc.start()
		return nil
	case b == keyBS || b == keyDEL:
		e.backspace()
	case b == keyETX:
		e.cancel()
	case b >= 0x20 && b < keyDEL:
		e.insert(b)
	default:
		glog.V(2).Infof("ignored input byte 0x%02x", b)
		return nil
	}
	return e.commit()
}

// Timeout discards an incomplete escape sequence.
func (e *Engine) Timeout() {
	if e.esc.active() {
		glog.V(2).Infof("escape sequence timed out: %q", e.esc.pending())
		e.esc.reset()
	}
}

func (e *Engine) processEscape(ctx context.Context, b byte) error {
	if b != keyESC && isControl(b) {
		glog.V(2).Infof("escape sequence aborted by 0x%02x: %q", b, e.esc.pending())
		e.esc.reset()
		return e.Process(ctx, b)
	}
	key, done := e.esc.parse(b)
	if !done {
		return nil
	}
	switch key {
	case KeyUp:
		e.recallOlder()
	case KeyDown:
		e.recallNewer()
	case KeyLeft:
		if e.line.Left() {
			e.emit(keyBS)
		}
	case KeyRight:
		if e.line.Right() {
			e.emit(e.line.Snapshot()[e.line.Cursor()-1])
		}
	case KeyHome:
		e.emitBack(e.line.Home())
	case KeyEnd:
		n := e.line.End()
		e.emit(e.line.Snapshot()[e.line.Len()-n:]...)
	case KeyDelete:
		if e.line.DeleteAt() {
			e.rewriteTail()
		}
	default:
		glog.V(2).Infof("discarded escape sequence ending with 0x%02x", b)
	}
	return e.commit()
}

func (e *Engine) insert(b byte) {
	if !e.line.Insert(b) {
		if e.Bell {
			e.emit(keyBEL)
		}
		return
	}
	e.emit(b)
	if tail := e.line.Tail(); len(tail) > 0 {
		e.emit(tail...)
		e.emitBack(len(tail))
	}
}

func (e *Engine) backspace() {
	if e.line.DeleteBefore() {
		e.emit(keyBS)
		e.rewriteTail()
	}
}

func (e *Engine) cancel() {
	e.emitString(seqCancel)
	e.line.Clear()
	e.navigating = -1
	e.emitString(e.Prompt)
}

func (e *Engine) submit(ctx context.Context) error {
	e.emitString(seqNewline)
	e.cmd = append(e.cmd[:0], e.line.Snapshot()...)
	e.line.Clear()
	e.navigating = -1
	if err := e.commit(); err != nil {
		return err
	}
	if len(e.cmd) > 0 {
		if err := e.hist.Push(e.cmd); err != nil {
			glog.Warningf("history rejected %q: %v", e.cmd, err)
			if e.Bell {
				e.emit(keyBEL)
			}
		}
		if h := e.Handler; h != nil {
			if err := h.HandleCommand(ctx, e.cmd); err != nil {
				glog.Warningf("command %q failed: %v", e.cmd, err)
			}
		}
	}
	e.emitString(e.Prompt)
	return e.commit()
}

func (e *Engine) recallOlder() {
	entry, ok := e.hist.Recall(e.navigating + 1)
	if !ok {
		return
	}
	e.navigating++
	e.replaceLine(entry)
}

func (e *Engine) recallNewer() {
	if e.navigating <= 0 {
		e.navigating = -1
		return
	}
	e.navigating--
	if entry, ok := e.hist.Recall(e.navigating); ok {
		e.replaceLine(entry)
	}
}

func (e *Engine) replaceLine(entry []byte) {
	e.line.Set(entry)
	e.emitString(seqClearLine)
	e.emitString(e.Prompt)
	e.emit(e.line.Snapshot()...)
}

// rewriteTail prints the tail after the cursor and a blank over the erased
// byte, then moves the terminal cursor back.
func (e *Engine) rewriteTail() {
	tail := e.line.Tail()
	e.emit(tail...)
	e.emit(' ')
	e.emitBack(len(tail) + 1)
}

func (e *Engine) emit(p ...byte) {
	e.pending = append(e.pending, p...)
}

func (e *Engine) emitString(s string) {
	e.pending = append(e.pending, s...)
}

func (e *Engine) emitBack(n int) {
	for ; n > 0; n-- {
		e.pending = append(e.pending, keyBS)
	}
}

func (e *Engine) commit() error {
	if len(e.pending) == 0 {
		return nil
	}
	_, err := e.out.Write(e.pending)
	e.pending = e.pending[:0]
	if err != nil {
		return err
	}
	return e.out.Flush()
}
