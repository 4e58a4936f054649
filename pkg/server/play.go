package server

import (
	"time"

	"go.uber.org/zap"

	"github.com/StoreStation/blockwright/pkg/chunk"
	"github.com/StoreStation/blockwright/pkg/protocol"
	"github.com/StoreStation/blockwright/pkg/registry"
)

const keepAliveInterval = 15 * time.Second

// keepAliveLoop is the rendezvous.Channel's sole producer for this
// connection: it's the only thing that pushes unsolicited packets onto
// the outbound mailbox, so the channel's single-producer/single-consumer
// contract holds.
func (c *conn) keepAliveLoop() {
	ticker := time.NewTicker(keepAliveInterval)
	defer ticker.Stop()
	var token int64
	for range ticker.C {
		token++
		payload := protocol.WriteVarInt(nil, int32(c.srv.pk.KeepAlive))
		payload = protocol.WriteInt64(payload, token)
		if err := c.out.Send(payload); err != nil {
			return
		}
	}
}

// writerLoop is the rendezvous.Channel's sole consumer, draining the
// mailbox and writing each frame to the socket in order.
func (c *conn) writerLoop() {
	for {
		payload, err := c.out.Recv()
		if err != nil {
			return
		}
		if err := c.send(payload); err != nil {
			return
		}
	}
}

func (c *conn) handlePlay(id int32, body []byte) error {
	c.log.Debug("unhandled play packet", zap.Int32("id", id), zap.Int("len", len(body)))
	return nil
}

// sendJoinGame sends a single demo spawn chunk: a flat stone floor at
// the bottom section, matching the teacher's single-biome flat-world
// spawn (pkg/world/generator.go) generalized onto pkg/chunk's packed
// section encoding instead of a flat byte array.
func (c *conn) sendJoinGame() error {
	section := buildSpawnSection(c.srv.reg)
	data := section.WriteTo(nil)

	payload := protocol.WriteVarInt(nil, int32(c.srv.pk.ChunkData))
	payload = protocol.WriteVarInt(payload, 0) // chunk x
	payload = protocol.WriteVarInt(payload, 0) // chunk z
	payload = protocol.WriteVarInt(payload, int32(len(data)))
	payload = append(payload, data...)
	return c.send(payload)
}

func buildSpawnSection(reg *registry.Registries) *chunk.Section {
	section := chunk.NewSection(reg.TotalStates(), reg.Biome.MAX())
	stoneID, ok := reg.Block.Parse([]byte("stone"))
	if !ok {
		return section
	}
	state := reg.DefaultState(stoneID)
	for x := 0; x < 16; x++ {
		for z := 0; z < 16; z++ {
			section.SetBlock(x, 0, z, state)
		}
	}
	return section
}
