package server

import "github.com/StoreStation/blockwright/pkg/registry"

// packetIDs resolves each named clientbound packet to its wire id once
// at startup, grounded on the teacher's hand-picked byte constants
// (pkg/server/server.go's packet-id literals scattered through the
// handlers) generalized to a single table driven by the registry's
// packet_ids section instead of hardcoded bytes.
type packetIDs struct {
	StatusResponse uint32
	LoginSuccess   uint32
	SetCompression uint32
	KeepAlive      uint32
	ChunkData      uint32
	PlayerPosition uint32
	BlockChange    uint32
}

func resolvePacketIDs(reg *registry.Registries) packetIDs {
	wire := func(name string) uint32 {
		id, ok := reg.Packet.Parse([]byte(name))
		if !ok {
			panic("server: registry data has no packet named " + name)
		}
		return reg.PacketWireID(id)
	}
	return packetIDs{
		StatusResponse: wire("status_response"),
		LoginSuccess:   wire("login_success"),
		SetCompression: wire("set_compression"),
		KeepAlive:      wire("keep_alive"),
		ChunkData:      wire("chunk_data"),
		PlayerPosition: wire("player_position"),
		BlockChange:    wire("block_change"),
	}
}
