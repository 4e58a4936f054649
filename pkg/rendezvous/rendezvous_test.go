package rendezvous

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/StoreStation/blockwright/pkg/protoerr"
)

func TestSendThenRecv(t *testing.T) {
	c := New()
	require.NoError(t, c.Send([]byte("hi")))
	got, err := c.Recv()
	require.NoError(t, err)
	require.Equal(t, []byte("hi"), got)
}

func TestRecvThenSendWakesParkedReceiver(t *testing.T) {
	c := New()
	result := make(chan []byte, 1)
	go func() {
		got, err := c.Recv()
		require.NoError(t, err)
		result <- got
	}()

	// Give the receiver a chance to park in RECEIVING before Send arrives.
	time.Sleep(10 * time.Millisecond)
	require.NoError(t, c.Send([]byte("later")))

	select {
	case got := <-result:
		require.Equal(t, []byte("later"), got)
	case <-time.After(time.Second):
		t.Fatal("receiver was not woken")
	}
}

func TestCloseSenderWakesParkedReceiver(t *testing.T) {
	c := New()
	errCh := make(chan error, 1)
	go func() {
		_, err := c.Recv()
		errCh <- err
	}()

	time.Sleep(10 * time.Millisecond)
	c.CloseSender()

	select {
	case err := <-errCh:
		require.ErrorIs(t, err, protoerr.Closed)
	case <-time.After(time.Second):
		t.Fatal("receiver was not woken by sender close")
	}
}

func TestSendAfterReceiverClosedReturnsClosed(t *testing.T) {
	c := New()
	c.CloseReceiver()
	err := c.Send([]byte("too late"))
	require.ErrorIs(t, err, protoerr.Closed)
}
