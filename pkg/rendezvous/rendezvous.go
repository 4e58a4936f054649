// Package rendezvous implements the single-producer/single-consumer
// primitive described in spec.md §5/§9: a connection task awaits
// "buffer non-empty" through a channel that carries at most one message
// at a time. Send moves it EMPTY → MESSAGE on the uncontended path, or
// EMPTY → RECEIVING → UNPARKING → MESSAGE when the receiver parks
// first; Recv takes the message and moves it back to EMPTY, so the same
// pair can exchange further messages. Dropping either endpoint moves the
// channel to DISCONNECTED, and dropping the sender wakes a parked
// receiver.
//
// Grounded on the teacher's stopCh chan struct{} idiom (pkg/server/server.go,
// e.g. the keepAliveLoop/regenerationLoop/itemPickupLoop stop channels),
// generalized from a broadcast-close signal to a value-carrying oneshot
// with explicit state transitions and atomic.Int32 for the ordering the
// spec requires.
package rendezvous

import (
	"sync/atomic"

	"github.com/StoreStation/blockwright/pkg/protoerr"
)

type state int32

const (
	stateEmpty state = iota
	stateMessage
	stateDisconnected
	stateReceiving
	stateUnparking
)

// Channel is a rendezvous between one sending goroutine and one
// receiving goroutine. It holds at most one undelivered message; a Send
// made while a message is still pending waits until Recv takes it.
type Channel struct {
	st   atomic.Int32
	msg  []byte
	wake chan struct{}
}

// New builds an empty Channel.
func New() *Channel {
	return &Channel{wake: make(chan struct{}, 1)}
}

// Send publishes msg to the receiver, waking it if already parked. It
// returns protoerr.Closed if the receiver endpoint has disconnected.
func (c *Channel) Send(msg []byte) error {
	c.msg = msg
	for {
		switch state(c.st.Load()) {
		case stateEmpty:
			if c.st.CompareAndSwap(int32(stateEmpty), int32(stateMessage)) {
				return nil
			}
		case stateReceiving:
			if c.st.CompareAndSwap(int32(stateReceiving), int32(stateUnparking)) {
				c.st.Store(int32(stateMessage))
				c.signal()
				return nil
			}
		case stateDisconnected:
			return protoerr.Closed
		default:
			// A previous message is still pending (MESSAGE); spin until
			// the receiver takes it.
		}
	}
}

// Recv blocks until a message arrives or the sender disconnects.
func (c *Channel) Recv() ([]byte, error) {
	switch state(c.st.Load()) {
	case stateMessage:
		if c.st.CompareAndSwap(int32(stateMessage), int32(stateEmpty)) {
			return c.msg, nil
		}
		return c.Recv()
	case stateDisconnected:
		return nil, protoerr.Closed
	}

	if !c.st.CompareAndSwap(int32(stateEmpty), int32(stateReceiving)) {
		return c.Recv()
	}

	<-c.wake

	switch state(c.st.Load()) {
	case stateMessage:
		c.st.Store(int32(stateEmpty))
		return c.msg, nil
	default:
		return nil, protoerr.Closed
	}
}

// CloseSender drops the sender endpoint, transitioning to DISCONNECTED
// and waking a parked receiver.
func (c *Channel) CloseSender() {
	prev := state(c.st.Swap(int32(stateDisconnected)))
	if prev == stateReceiving || prev == stateUnparking {
		c.signal()
	}
}

// CloseReceiver drops the receiver endpoint, transitioning to
// DISCONNECTED so a subsequent Send observes protoerr.Closed.
func (c *Channel) CloseReceiver() {
	c.st.Store(int32(stateDisconnected))
}

func (c *Channel) signal() {
	select {
	case c.wake <- struct{}{}:
	default:
	}
}
