package uart

// Hardware is a duplex byte channel with non-blocking operations.
type Hardware interface {
	// WriteByte puts one byte into the transmit path.
	WriteByte(b byte) error
	// Flush returns ErrWouldBlock until all bytes in the transmit path are sent.
	Flush() error
	// ReadByte takes one received byte.
	ReadByte() (byte, error)
}

// Block calls op until it stops reporting ErrWouldBlock.
// It is a busy-wait; the hardware readiness is the only bound.
func Block(op func() error) error {
	for {
		if err := op(); err != ErrWouldBlock {
			return err
		}
	}
}
