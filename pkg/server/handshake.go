package server

import (
	"github.com/cockroachdb/errors"

	"github.com/StoreStation/blockwright/pkg/protocol"
	"github.com/StoreStation/blockwright/pkg/protoerr"
)

// handleHandshake parses the single handshake packet (id 0x00): protocol
// version, server address, server port, next state. Address and port
// are accepted but unused -- this server doesn't do virtual-host
// routing.
func (c *conn) handleHandshake(id int32, body []byte) error {
	if id != 0 {
		return errors.Wrap(protoerr.Malformed, "server: expected handshake packet")
	}
	_, n, ok := protocol.ReadVarInt(body) // protocol version
	if !ok {
		return errors.Wrap(protoerr.Malformed, "server: truncated handshake")
	}
	body = body[n:]
	_, n, err := protocol.ReadString(body) // server address
	if err != nil {
		return err
	}
	body = body[n:]
	_, n, err = protocol.ReadUint16(body) // server port
	if err != nil {
		return err
	}
	body = body[n:]
	next, _, ok := protocol.ReadVarInt(body)
	if !ok {
		return errors.Wrap(protoerr.Malformed, "server: truncated handshake next state")
	}
	switch next {
	case 1:
		c.state = stateStatus
	case 2:
		c.state = stateLogin
	default:
		return errors.Wrapf(protoerr.Malformed, "server: unknown next state %d", next)
	}
	return nil
}
