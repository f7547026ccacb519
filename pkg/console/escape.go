package console

// Key is a key decoded from an escape sequence.
type Key int

// Keys recognized in escape sequences.
const (
	KeyNone Key = iota
	KeyUp
	KeyDown
	KeyRight
	KeyLeft
	KeyHome
	KeyEnd
	KeyDelete
)

var keyNames = [...]string{"none", "up", "down", "right", "left", "home", "end", "delete"}

// String implements fmt.Stringer.
func (k Key) String() string {
	if k >= 0 && int(k) < len(keyNames) {
		return keyNames[k]
	}
	return "unknown"
}

// MaxEscapeLen is the most bytes buffered after ESC before the sequence
// is discarded.
const MaxEscapeLen = 8

type escState int

const (
	escIdle  escState = iota // not in a sequence
	escStart                 // ESC received
	escCSI                   // ESC [ received, collecting parameters
	escSS3                   // ESC O received
)

// escParser decodes ANSI cursor key sequences one byte at a time.
type escParser struct {
	state escState
	buf   [MaxEscapeLen]byte
	n     int
}

func (p *escParser) active() bool {
	return p.state != escIdle
}

func (p *escParser) start() {
	p.state, p.n = escStart, 0
}

func (p *escParser) reset() {
	p.state, p.n = escIdle, 0
}

// pending returns the bytes received after ESC.
func (p *escParser) pending() []byte {
	return p.buf[:p.n]
}

// isControl tells if b is a C0 control or DEL. Such a byte never belongs
// to a sequence.
func isControl(b byte) bool {
	return b < 0x20 || b == 0x7f
}

// parse consumes one byte. When done is true the sequence is complete and
// the parser is idle again; key is KeyNone if the sequence was discarded.
// ESC restarts the sequence. Other control bytes must not be passed in.
func (p *escParser) parse(b byte) (key Key, done bool) {
	if b == keyESC {
		p.start()
		return KeyNone, false
	}
	if p.n >= len(p.buf) {
		p.reset()
		return KeyNone, true
	}
	p.buf[p.n] = b
	p.n++
	switch p.state {
	case escStart:
		switch b {
		case '[':
			p.state = escCSI
			return KeyNone, false
		case 'O':
			p.state = escSS3
			return KeyNone, false
		}
	case escCSI:
		switch {
		case b >= 0x20 && b <= 0x3f:
			// parameter and intermediate bytes
			return KeyNone, false
		case b == '~':
			key = tildeKey(p.buf[1 : p.n-1])
		case b >= 0x40 && b <= 0x7e:
			if p.n == 2 {
				key = finalKey(b)
			}
		}
	case escSS3:
		key = finalKey(b)
	}
	p.reset()
	return key, true
}

func finalKey(b byte) Key {
	switch b {
	case 'A':
		return KeyUp
	case 'B':
		return KeyDown
	case 'C':
		return KeyRight
	case 'D':
		return KeyLeft
	case 'H':
		return KeyHome
	case 'F':
		return KeyEnd
	}
	return KeyNone
}

func tildeKey(params []byte) Key {
	switch string(params) {
	case "1", "7":
		return KeyHome
	case "4", "8":
		return KeyEnd
	case "3":
		return KeyDelete
	}
	return KeyNone
}
