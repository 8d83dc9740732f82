package authority

import (
	"context"
	"encoding/binary"
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"sync/atomic"
	"time"

	"github.com/getsentry/sentry-go"
	"github.com/go-gl/mathgl/mgl32"
	"github.com/google/uuid"
	"github.com/oomph-ac/charsim/movement"
	"github.com/oomph-ac/charsim/packet"
	"github.com/oomph-ac/charsim/settings"
	"github.com/oomph-ac/charsim/transport"
	"github.com/oomph-ac/charsim/worker"
	"github.com/oomph-ac/charsim/world"
	"github.com/sirupsen/logrus"
	"golang.org/x/time/rate"
)

// Session is a connection to a client owning a single character. *transport.Conn
// implements it.
type Session interface {
	WritePacket(pk packet.Packet) error
	ReadPacket() (packet.Packet, error)
	Close() error
}

// ErrServerClosed is returned by a Server after Close was called.
var ErrServerClosed = errors.New("server closed")

// Server simulates every character in a world and replicates their states to all sessions.
type Server struct {
	conf   settings.Settings
	params movement.Params
	level  logrus.Level

	world *world.World
	pool  *worker.Pool
	log   *slog.Logger

	characters map[uint64]*Character
	sessions   map[uint64]Session
	mu         sync.RWMutex

	// tickMu is held for the whole of a tick so that Close never stops the pool under it.
	tickMu sync.Mutex
	closed bool
	done   chan struct{}
}

// NewServer returns a Server simulating characters in the world passed. The logger may be nil.
func NewServer(conf settings.Settings, w *world.World, log *slog.Logger) (*Server, error) {
	params, err := conf.Character.Params()
	if err != nil {
		return nil, err
	}
	level, err := logrus.ParseLevel(conf.Server.LogLevel)
	if err != nil {
		return nil, fmt.Errorf("invalid log level: %w", err)
	}
	if log == nil {
		log = slog.New(slog.DiscardHandler)
	}
	return &Server{
		conf:       conf,
		params:     params,
		level:      level,
		world:      w,
		pool:       worker.New(0),
		log:        log,
		characters: make(map[uint64]*Character),
		sessions:   make(map[uint64]Session),
		done:       make(chan struct{}),
	}, nil
}

// World ...
func (s *Server) World() *world.World {
	return s.world
}

// Spawn adds a new character at the position passed.
func (s *Server) Spawn(pos mgl32.Vec3) (*Character, error) {
	if s.Closed() {
		return nil, ErrServerClosed
	}
	lg := logrus.New()
	lg.Formatter = &logrus.TextFormatter{ForceColors: true}
	lg.Level = s.level

	s.mu.Lock()
	defer s.mu.Unlock()

	id := s.newEntityID()
	c, err := NewCharacter(id, s.world, pos, CharacterConfig{
		Params:     s.params,
		InputRate:  rate.Limit(s.conf.Server.InputRate),
		InputBurst: s.conf.Server.InputBurst,
		Log:        lg,
		Broadcast:  s.broadcast,
	})
	if err != nil {
		return nil, err
	}
	s.characters[id] = c
	s.log.Debug("spawned character", "entity", id, "pos", pos)
	return c, nil
}

// newEntityID returns an unused entity ID taken from a random UUID.
func (s *Server) newEntityID() uint64 {
	for {
		u := uuid.New()
		id := binary.LittleEndian.Uint64(u[:8])
		if _, ok := s.characters[id]; !ok && id != 0 {
			return id
		}
	}
}

// Character returns the character with the entity ID passed.
func (s *Server) Character(id uint64) (*Character, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	c, ok := s.characters[id]
	return c, ok
}

// Len returns the amount of characters in the server.
func (s *Server) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.characters)
}

// Remove removes the character with the entity ID passed and closes its session.
func (s *Server) Remove(id uint64) {
	s.mu.Lock()
	sess, ok := s.sessions[id]
	delete(s.sessions, id)
	delete(s.characters, id)
	s.mu.Unlock()

	if ok {
		_ = sess.Close()
	}
}

// Tick applies the queued inputs of every character on the worker pool and waits for all of
// them to finish. It returns the amount of inputs applied, which is 0 once the server is
// closed.
func (s *Server) Tick() int {
	s.tickMu.Lock()
	defer s.tickMu.Unlock()
	if s.closed {
		return 0
	}

	s.mu.RLock()
	chars := make([]*Character, 0, len(s.characters))
	for _, c := range s.characters {
		chars = append(chars, c)
	}
	s.mu.RUnlock()

	var (
		wg      sync.WaitGroup
		applied atomic.Int64
	)
	wg.Add(len(chars))
	for _, c := range chars {
		s.pool.Submit(func() {
			defer wg.Done()
			applied.Add(int64(c.Tick()))
		})
	}
	wg.Wait()
	return int(applied.Load())
}

// Run ticks the server at the configured tick rate until the context is cancelled or the
// server is closed.
func (s *Server) Run(ctx context.Context) error {
	t := time.NewTicker(s.conf.TickInterval())
	defer t.Stop()

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-s.done:
			return ErrServerClosed
		case <-t.C:
			start := time.Now()
			if n := s.Tick(); n > 0 {
				s.log.Debug("server tick", "inputs", n, "took", time.Since(start))
			}
		}
	}
}

// Serve accepts connections from the listener passed and spawns a character at the position
// passed for each of them. It returns when the listener is closed.
func (s *Server) Serve(l *transport.Listener, spawn mgl32.Vec3) error {
	for {
		conn, err := l.Accept()
		if err != nil {
			return err
		}
		go func() {
			if err := s.Handle(conn, spawn); err != nil {
				s.log.Info("session closed", "addr", conn.RemoteAddr(), "err", err)
			}
		}()
	}
}

// Handle spawns a character for the session passed and queues the inputs it sends until it
// is closed. The first packet written to the session is a Teleport carrying the ID of the
// character it owns.
func (s *Server) Handle(sess Session, spawn mgl32.Vec3) error {
	defer sentry.Recover()

	c, err := s.Spawn(spawn)
	if err != nil {
		_ = sess.Close()
		return err
	}
	defer s.Remove(c.ID())

	if err := sess.WritePacket(&packet.Teleport{EntityID: c.ID(), Position: spawn}); err != nil {
		return err
	}
	s.mu.Lock()
	s.sessions[c.ID()] = sess
	others := make([]*Character, 0, len(s.characters))
	for _, other := range s.characters {
		others = append(others, other)
	}
	s.mu.Unlock()

	for _, other := range others {
		if err := sess.WritePacket(packet.FromState(other.ID(), other.State())); err != nil {
			return err
		}
	}

	for {
		pk, err := sess.ReadPacket()
		if err != nil {
			return err
		}
		switch pk := pk.(type) {
		case *packet.Input:
			// Rejected inputs are logged by the character.
			_ = c.Queue(pk.Movement())
		default:
			s.log.Debug("unexpected packet from client", "entity", c.ID(), "packet", fmt.Sprintf("%T", pk))
		}
	}
}

// broadcast writes the packet passed to every session.
func (s *Server) broadcast(pk packet.Packet) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	for id, sess := range s.sessions {
		if err := sess.WritePacket(pk); err != nil {
			s.log.Debug("failed to write packet", "entity", id, "err", err)
		}
	}
}

// Closed reports whether Close was called.
func (s *Server) Closed() bool {
	s.tickMu.Lock()
	defer s.tickMu.Unlock()
	return s.closed
}

// Close stops Run, waits for a running tick to finish, closes every session and stops the
// worker pool. Calling it more than once is a no-op.
func (s *Server) Close() {
	s.tickMu.Lock()
	if s.closed {
		s.tickMu.Unlock()
		return
	}
	s.closed = true
	close(s.done)
	s.tickMu.Unlock()

	s.mu.Lock()
	sessions := s.sessions
	s.sessions = make(map[uint64]Session)
	s.characters = make(map[uint64]*Character)
	s.mu.Unlock()

	for _, sess := range sessions {
		_ = sess.Close()
	}
	s.pool.Close()
}
