// Package server drives the connection lifecycle described in
// spec.md §4/§6: per-connection handshake -> status/login -> play state
// machine, each stage framed through pkg/frame and backed by the
// pkg/registry block/item/packet tables pkg/regdata compiles.
//
// Grounded on the teacher's pkg/server.Server (net.Listener, an
// acceptLoop spawning one goroutine per connection, a players map
// guarded by a mutex, a monotonic entity id counter) generalized onto
// the new framed/registry protocol stack in place of the teacher's raw
// 1.8 byte protocol.
package server

import (
	"net"
	"sync"
	"sync/atomic"

	"go.uber.org/zap"

	"github.com/StoreStation/blockwright/pkg/registry"
)

// Server accepts connections on one listener and hands each to its own
// goroutine running the conn state machine.
type Server struct {
	cfg Config
	log *zap.Logger
	reg *registry.Registries
	pk  packetIDs

	listener net.Listener

	mu      sync.RWMutex
	players map[int32]*Player
	nextEID int32

	closing atomic.Bool
}

// New builds a Server, loading the embedded registry data once.
func New(cfg Config, log *zap.Logger) *Server {
	reg := registry.Load()
	return &Server{
		cfg:     cfg,
		log:     log,
		reg:     reg,
		pk:      resolvePacketIDs(reg),
		players: make(map[int32]*Player),
	}
}

// ListenAndServe opens cfg.Addr and runs the accept loop until Close is
// called or a non-transient accept error occurs.
func (s *Server) ListenAndServe() error {
	ln, err := net.Listen("tcp", s.cfg.Addr)
	if err != nil {
		return err
	}
	s.listener = ln
	s.log.Info("listening", zap.String("addr", s.cfg.Addr), zap.Int("view_distance", s.cfg.ViewDistance))
	return s.acceptLoop()
}

func (s *Server) acceptLoop() error {
	for {
		c, err := s.listener.Accept()
		if err != nil {
			if s.closing.Load() {
				return nil
			}
			s.log.Warn("accept error", zap.Error(err))
			continue
		}
		go s.handleConn(c)
	}
}

// Close stops accepting new connections. In-flight connections run
// their own read loop to completion on I/O error or EOF.
func (s *Server) Close() error {
	s.closing.Store(true)
	if s.listener == nil {
		return nil
	}
	return s.listener.Close()
}

func (s *Server) nextEntityID() int32 {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.nextEID++
	return s.nextEID
}

func (s *Server) addPlayer(p *Player) {
	s.mu.Lock()
	s.players[p.EntityID] = p
	s.mu.Unlock()
}

func (s *Server) removePlayer(eid int32) {
	s.mu.Lock()
	delete(s.players, eid)
	s.mu.Unlock()
}

func (s *Server) onlineCount() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.players)
}
