package server

import (
	"io"
	"net"

	"github.com/cockroachdb/errors"
	"go.uber.org/zap"

	"github.com/StoreStation/blockwright/pkg/frame"
	"github.com/StoreStation/blockwright/pkg/protocol"
	"github.com/StoreStation/blockwright/pkg/protoerr"
	"github.com/StoreStation/blockwright/pkg/rendezvous"
)

type connState int

const (
	stateHandshake connState = iota
	stateStatus
	stateLogin
	statePlay
)

// conn is one client connection's state machine, grounded on the
// teacher's handleConnection (pkg/server/server.go): a single read loop
// that switches behavior by connection state, plus a dedicated writer
// goroutine fed by a rendezvous.Channel mailbox for anything the
// connection needs to push spontaneously once in the play state (here,
// the keep-alive ticker).
type conn struct {
	srv   *Server
	nc    net.Conn
	log   *zap.Logger
	dec   *frame.Decoder
	enc   *frame.Encoder
	state connState

	out    *rendezvous.Channel
	player *Player
}

func (s *Server) handleConn(nc net.Conn) {
	c := &conn{
		srv: s,
		nc:  nc,
		log: s.log.With(zap.String("remote", nc.RemoteAddr().String())),
		dec: frame.NewDecoder(),
		enc: frame.NewEncoder(),
		out: rendezvous.New(),
	}
	defer c.close()
	c.serve()
}

func (c *conn) close() {
	c.out.CloseReceiver()
	_ = c.nc.Close()
	if c.player != nil {
		c.srv.removePlayer(c.player.EntityID)
		c.log.Info("player disconnected", zap.String("username", c.player.Username))
	}
}

func (c *conn) serve() {
	buf := make([]byte, 4096)
	for {
		n, err := c.nc.Read(buf)
		if n > 0 {
			c.dec.Feed(buf[:n])
			if derr := c.dec.Decode(); derr != nil {
				c.log.Debug("frame decode error", zap.Error(derr))
				return
			}
			packets, _ := c.dec.Packets()
			for _, p := range packets {
				if herr := c.handlePacket(p); herr != nil {
					c.log.Debug("packet handling error", zap.Error(herr))
					return
				}
			}
		}
		if err != nil {
			if err != io.EOF {
				c.log.Debug("read error", zap.Error(err))
			}
			return
		}
	}
}

// handlePacket splits the leading VarInt packet id off payload and
// dispatches on the connection's current state.
func (c *conn) handlePacket(payload []byte) error {
	id, n, ok := protocol.ReadVarInt(payload)
	if !ok {
		return errors.Wrap(protoerr.Malformed, "server: truncated packet id")
	}
	body := payload[n:]
	switch c.state {
	case stateHandshake:
		return c.handleHandshake(id, body)
	case stateStatus:
		return c.handleStatus(id, body)
	case stateLogin:
		return c.handleLogin(id, body)
	default:
		return c.handlePlay(id, body)
	}
}

// send frames payload (already prefixed with its own packet-id VarInt)
// through the connection's encoder and writes it to the socket.
func (c *conn) send(payload []byte) error {
	framed := c.enc.Encode(nil, payload)
	_, err := c.nc.Write(framed)
	return err
}
