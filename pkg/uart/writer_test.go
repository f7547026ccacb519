package uart

import (
	"testing"

	"github.com/stretchr/testify/require"
)

type countingHardware struct {
	notReady int
	polls    int
	sent     []byte
	fault    *FaultError
	failAt   int
}

func (h *countingHardware) WriteByte(b byte) error {
	h.polls++
	if h.fault != nil && len(h.sent) == h.failAt {
		return h.fault
	}
	if h.polls%(h.notReady+1) != 0 {
		return ErrWouldBlock
	}
	h.sent = append(h.sent, b)
	return nil
}

func (h *countingHardware) Flush() error {
	if h.fault != nil && len(h.sent) == h.failAt {
		return h.fault
	}
	return nil
}

func (h *countingHardware) ReadByte() (byte, error) {
	return 0, ErrWouldBlock
}

func TestWriterBlocksUntilReady(t *testing.T) {
	hw := &countingHardware{notReady: 3}
	w := NewWriter(hw)
	n, err := w.Write([]byte("hello"))
	require.NoError(t, err)
	require.Equal(t, 5, n)
	require.Equal(t, []byte("hello"), hw.sent)
	require.Equal(t, 20, hw.polls)
}

func TestWriterCollapsesFaults(t *testing.T) {
	testCases := []struct {
		name  string
		fault Fault
	}{
		{"framing", FaultFraming},
		{"overrun", FaultOverrun},
		{"parity", FaultParity},
		{"noise", FaultNoise},
	}
	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			hw := &countingHardware{fault: &FaultError{Fault: tc.fault}, failAt: 2}
			w := NewWriter(hw)
			n, err := w.Write([]byte("abcd"))
			require.Error(t, err)
			require.Equal(t, 2, n)
			kind, ok := IsTransport(err)
			require.True(t, ok)
			require.Equal(t, KindOther, kind)
			require.Equal(t, &Error{Op: "write", Kind: KindOther}, err)

			err = w.Flush()
			require.Equal(t, &Error{Op: "flush", Kind: KindOther}, err)
		})
	}
}

func TestWriterWithSim(t *testing.T) {
	sim := NewSim(2)
	w := NewWriter(sim)
	n, err := w.WriteString("ls\r\n")
	require.NoError(t, err)
	require.Equal(t, 4, n)
	// last byte is still in the shift register.
	require.Equal(t, []byte("ls\r"), sim.Wire())
	require.NoError(t, w.Flush())
	require.Equal(t, []byte("ls\r\n"), sim.Wire())
	require.NoError(t, w.Flush())
	require.Equal(t, []byte("ls\r\n"), sim.Wire())
}

func TestWriterSimFault(t *testing.T) {
	sim := NewSim(0)
	w := NewWriter(sim)
	_, err := w.Write([]byte("a"))
	require.NoError(t, err)
	sim.InjectTxFault(FaultOverrun)
	_, err = w.Write([]byte("b"))
	_, ok := IsTransport(err)
	require.True(t, ok)
	// fault is latched once.
	_, err = w.Write([]byte("c"))
	require.NoError(t, err)
	require.NoError(t, w.Flush())
	require.Equal(t, []byte("ac"), sim.Wire())
}

func TestIsTransport(t *testing.T) {
	_, ok := IsTransport(ErrWouldBlock)
	require.False(t, ok)
	_, ok = IsTransport(&FaultError{Fault: FaultParity})
	require.False(t, ok)
	require.Equal(t, "uart write: other error", (&Error{Op: "write"}).Error())
	require.Equal(t, "uart parity fault", (&FaultError{Fault: FaultParity}).Error())
}
