package server

// Config holds the server's runtime configuration, the ambient
// settings spec.md §1 expects cmd/server to surface as CLI flags.
type Config struct {
	Addr                 string
	MOTD                 string
	MaxPlayers           int
	CompressionThreshold int32 // frame.NoCompression disables the layer entirely
	ViewDistance         int
}

// DefaultConfig mirrors the teacher's DefaultConfig (pkg/server/server.go),
// generalized with a compression threshold and view distance the 1.8
// protocol never negotiated.
func DefaultConfig() Config {
	return Config{
		Addr:                 ":25565",
		MOTD:                 "A blockwright server",
		MaxPlayers:           20,
		CompressionThreshold: 256,
		ViewDistance:         10,
	}
}
