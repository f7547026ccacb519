package uart

import (
	"bytes"
	"io"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func TestReader(t *testing.T) {
	sim := NewSim(0)
	r := NewReader(sim)
	r.PollInterval = time.Microsecond

	go func() {
		time.Sleep(5 * time.Millisecond)
		sim.Inject([]byte("ab"))
	}()
	buf := make([]byte, 8)
	for _, expected := range []byte("ab") {
		n, err := r.Read(buf)
		require.NoError(t, err)
		require.Equal(t, 1, n)
		require.Equal(t, expected, buf[0])
	}

	n, err := r.Read(nil)
	require.NoError(t, err)
	require.Zero(t, n)

	sim.InjectRxFault(FaultFraming)
	_, err = r.Read(buf)
	require.Equal(t, &Error{Op: "read", Kind: KindOther}, err)
	kind, ok := IsTransport(err)
	require.True(t, ok)
	require.Equal(t, KindOther, kind)
}

func TestReaderPassesEOF(t *testing.T) {
	r := NewReader(NewPort(&scriptedStream{in: bytes.NewBuffer(nil), readErr: io.EOF}))
	_, err := r.Read(make([]byte, 1))
	require.Equal(t, io.EOF, err)
}
