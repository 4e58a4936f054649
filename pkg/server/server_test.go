package server

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/StoreStation/blockwright/pkg/registry"
)

func TestResolvePacketIDsFindsEveryName(t *testing.T) {
	reg := registry.Load()
	pk := resolvePacketIDs(reg)

	require.NotZero(t, pk.ChunkData)
	require.NotZero(t, pk.LoginSuccess)
	require.NotZero(t, pk.SetCompression)

	// Every id must be a valid wire id for some registered packet, i.e.
	// resolving twice is deterministic.
	pk2 := resolvePacketIDs(reg)
	require.Equal(t, pk, pk2)
}

func TestOfflineUUIDIsDeterministicAndVersioned(t *testing.T) {
	a := offlineUUID("Notch")
	b := offlineUUID("Notch")
	require.Equal(t, a, b)

	other := offlineUUID("jeb_")
	require.NotEqual(t, a, other)

	require.Equal(t, byte(3), a[6]>>4, "version nibble must mark a v3 UUID")
	require.Equal(t, byte(0x80), a[8]&0xC0, "variant bits must be RFC 4122")
}

func TestDefaultConfigEnablesCompressionForTwentyPlayers(t *testing.T) {
	cfg := DefaultConfig()
	require.GreaterOrEqual(t, cfg.CompressionThreshold, int32(0))
	require.Equal(t, 20, cfg.MaxPlayers)
}

func TestServerTracksOnlinePlayers(t *testing.T) {
	reg := registry.Load()
	s := &Server{reg: reg, pk: resolvePacketIDs(reg), players: make(map[int32]*Player)}

	require.Equal(t, 0, s.onlineCount())

	id := s.nextEntityID()
	s.addPlayer(&Player{EntityID: id, Username: "tester"})
	require.Equal(t, 1, s.onlineCount())

	s.removePlayer(id)
	require.Equal(t, 0, s.onlineCount())
}

func TestBuildSpawnSectionFillsFloorWithSolidBlocks(t *testing.T) {
	reg := registry.Load()
	section := buildSpawnSection(reg)
	require.False(t, section.IsEmpty())
	require.Equal(t, 16*16, section.NonAirCount())
}
