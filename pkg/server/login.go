package server

import (
	"crypto/md5"

	"github.com/cockroachdb/errors"
	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/StoreStation/blockwright/pkg/inventory"
	"github.com/StoreStation/blockwright/pkg/protocol"
	"github.com/StoreStation/blockwright/pkg/protoerr"
)

func (c *conn) handleLogin(id int32, body []byte) error {
	if id != 0x00 {
		return errors.Wrapf(protoerr.Malformed, "server: unexpected login packet id %d", id)
	}
	username, _, err := protocol.ReadString(body)
	if err != nil {
		return err
	}

	if c.srv.cfg.CompressionThreshold >= 0 {
		payload := protocol.WriteVarInt(nil, int32(c.srv.pk.SetCompression))
		payload = protocol.WriteVarInt(payload, c.srv.cfg.CompressionThreshold)
		if err := c.send(payload); err != nil {
			return err
		}
		c.enc.EnableCompression(int(c.srv.cfg.CompressionThreshold))
		c.dec.EnableCompression(int(c.srv.cfg.CompressionThreshold))
	}

	id4 := offlineUUID(username)
	resp := protocol.WriteVarInt(nil, int32(c.srv.pk.LoginSuccess))
	resp = protocol.WriteUUID(resp, id4)
	resp = protocol.WriteString(resp, username)
	resp = protocol.WriteVarInt(resp, 0) // no properties
	if err := c.send(resp); err != nil {
		return err
	}

	p := &Player{
		EntityID:  c.srv.nextEntityID(),
		UUID:      id4,
		Username:  username,
		GameMode:  inventory.Survival,
		Inventory: inventory.New(c.srv.reg),
	}
	c.player = p
	c.srv.addPlayer(p)
	c.state = statePlay
	c.log = c.log.With(zap.String("username", username), zap.Int32("entity_id", p.EntityID))
	c.log.Info("player logged in")

	go c.keepAliveLoop()
	go c.writerLoop()
	return c.sendJoinGame()
}

// offlineUUID derives the vanilla offline-mode UUID: a version-3 (MD5)
// UUID over "OfflinePlayer:<username>".
func offlineUUID(username string) uuid.UUID {
	sum := md5.Sum([]byte("OfflinePlayer:" + username))
	sum[6] = (sum[6] & 0x0F) | 0x30
	sum[8] = (sum[8] & 0x3F) | 0x80
	id, _ := uuid.FromBytes(sum[:])
	return id
}
