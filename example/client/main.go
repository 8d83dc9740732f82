package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"sync"
	"time"

	"github.com/chewxy/math32"
	"github.com/getsentry/sentry-go"
	"github.com/go-gl/mathgl/mgl32"
	"github.com/oomph-ac/charsim/collision"
	"github.com/oomph-ac/charsim/event"
	"github.com/oomph-ac/charsim/example/arena"
	"github.com/oomph-ac/charsim/interpolation"
	"github.com/oomph-ac/charsim/movement"
	"github.com/oomph-ac/charsim/packet"
	"github.com/oomph-ac/charsim/prediction"
	"github.com/oomph-ac/charsim/settings"
	"github.com/oomph-ac/charsim/transport"
	"github.com/oomph-ac/charsim/world"
	"github.com/sirupsen/logrus"
)

// The following program connects to an authority server and walks a character around the arena,
// predicting its movement locally and interpolating every other character.
func main() {
	conf := settings.DefaultSettings()
	addr := conf.Server.Address
	if len(os.Args) >= 2 {
		addr = os.Args[1]
	}

	lg := logrus.New()
	lg.Formatter = &logrus.TextFormatter{ForceColors: true}
	lg.Level = logrus.InfoLevel
	log := slog.Default()

	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt)
	defer cancel()

	dialCtx, dialCancel := context.WithTimeout(ctx, 10*time.Second)
	conn, err := transport.Dial(dialCtx, addr, log)
	dialCancel()
	if err != nil {
		lg.Fatalf("failed to connect to %v: %v", addr, err)
	}
	defer conn.Close()

	pk, err := conn.ReadPacket()
	if err != nil {
		lg.Fatalf("failed to read spawn: %v", err)
	}
	spawn, ok := pk.(*packet.Teleport)
	if !ok {
		lg.Fatalf("expected spawn teleport, got %T", pk)
	}
	lg.Infof("spawned as entity %d at %v", spawn.EntityID, spawn.Position)

	c := newClient(conf, spawn, lg, log)
	go func() {
		defer sentry.Recover()
		defer cancel()
		if err := c.read(conn); err != nil {
			lg.Errorf("connection closed: %v", err)
		}
	}()
	c.run(ctx, conn, conf.TickInterval())
}

// viewDistance is the radius in chunks around the character that is kept loaded.
const viewDistance = 8

type client struct {
	self      uint64
	world     *world.World
	predictor *prediction.Predictor
	remotes   *interpolation.Registry
	clocks    map[uint64]remoteClock
	clocksMu  sync.Mutex
	log       *logrus.Logger
}

// remoteClock maps the simulation time of a remote character to the local wall clock.
type remoteClock struct {
	time       int64
	receivedAt time.Time
}

func (c remoteClock) now() int64 {
	return c.time + time.Since(c.receivedAt).Milliseconds()
}

func newClient(conf settings.Settings, spawn *packet.Teleport, lg *logrus.Logger, log *slog.Logger) *client {
	w := world.New(log)
	arena.Build(w)

	params, err := conf.Character.Params()
	if err != nil {
		lg.Fatal(err)
	}
	mctx := &movement.Context{
		Params:   &params,
		World:    w,
		Collider: collision.NewBlockCollider(w),
		Events: event.HandlerFunc(func(ev event.Event) {
			lg.Debugf("event %T at %dms", ev, ev.Time())
		}),
	}
	return &client{
		self:      spawn.EntityID,
		world:     w,
		predictor: prediction.New(movement.NewMover(), mctx, movement.NewState(spawn.Position), nil, log),
		remotes:   interpolation.NewRegistry(conf.Client.StateBufferCapacity, conf.RenderDelay()),
		clocks:    make(map[uint64]remoteClock),
		log:       lg,
	}
}

// read handles packets from the server until the connection is closed.
func (c *client) read(conn *transport.Conn) error {
	for {
		pk, err := conn.ReadPacket()
		if err != nil {
			return err
		}
		switch pk := pk.(type) {
		case *packet.State:
			s, err := pk.Movement()
			if err != nil {
				c.log.Warnf("invalid state: %v", err)
				continue
			}
			if pk.EntityID == c.self {
				c.predictor.OnAuthoritativeState(s)
				continue
			}
			if c.remotes.Get(pk.EntityID).Push(s) {
				c.clocksMu.Lock()
				c.clocks[pk.EntityID] = remoteClock{time: s.Time, receivedAt: time.Now()}
				c.clocksMu.Unlock()
			}
		case *packet.Teleport:
			if pk.EntityID == c.self {
				c.predictor.OnTeleport(pk.Sequence, pk.Position)
				continue
			}
			c.remotes.Get(pk.EntityID).Clear()
		case *packet.Events:
			if pk.EntityID == c.self {
				continue
			}
			evs, err := pk.Events()
			if err != nil {
				c.log.Warnf("invalid events: %v", err)
				continue
			}
			for _, ev := range evs {
				c.log.Debugf("entity %d: %T", pk.EntityID, ev)
			}
		}
	}
}

// run sends a scripted input every tick until the context is cancelled.
func (c *client) run(ctx context.Context, conn *transport.Conn, interval time.Duration) {
	t := time.NewTicker(interval)
	defer t.Stop()

	var seq int32
	for {
		select {
		case <-ctx.Done():
			c.predictor.Close()
			c.remotes.Clear()
			return
		case <-t.C:
		}
		seq++

		in := scriptedInput(seq, interval.Milliseconds())
		s, err := c.predictor.OnLocalInput(in)
		if err != nil {
			c.log.Errorf("failed to predict input %d: %v", seq, err)
			continue
		}
		if err := conn.WritePacket(packet.FromInput(in)); err != nil {
			c.log.Errorf("failed to send input %d: %v", seq, err)
			return
		}
		if seq%20 == 0 {
			c.world.CleanChunks(viewDistance, world.ChunkPosOf(s.Position))
			c.report(s)
		}
	}
}

func (c *client) report(s movement.State) {
	c.log.Infof("pos=%v mode=%v pending=%d corrections=%d", s.Position, s.Mode, c.predictor.Pending(), c.predictor.Corrections())

	c.clocksMu.Lock()
	defer c.clocksMu.Unlock()
	c.remotes.Range(func(id uint64, i *interpolation.Interpolator) bool {
		clock, ok := c.clocks[id]
		if !ok {
			return true
		}
		if sample, ok := i.Sample(clock.now()); ok {
			c.log.Infof("entity %d: %s", id, describe(sample))
		}
		return true
	})
}

func describe(s interpolation.Sample) string {
	kind := "interpolated"
	if s.Extrapolated {
		kind = "extrapolated"
	}
	return fmt.Sprintf("%s pos=%v mode=%v", kind, s.Position, s.Mode)
}

// scriptedInput walks the character in a circle, jumping every two seconds.
func scriptedInput(seq int32, delta int64) movement.Input {
	yaw := float32(seq%360) * 2
	rad := mgl32.DegToRad(yaw)
	return movement.Input{
		Sequence:  seq,
		Delta:     delta,
		Yaw:       yaw,
		Direction: mgl32.Vec3{-math32.Sin(rad), 0, math32.Cos(rad)},
		Running:   seq%100 > 50,
		Jumping:   seq%40 == 0,
	}
}
