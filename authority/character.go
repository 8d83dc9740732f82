package authority

import (
	"cmp"
	"errors"
	"io"
	"slices"
	"sync"

	"github.com/chewxy/math32"
	"github.com/go-gl/mathgl/mgl32"
	"github.com/oomph-ac/charsim/collision"
	"github.com/oomph-ac/charsim/event"
	"github.com/oomph-ac/charsim/movement"
	"github.com/oomph-ac/charsim/oerror"
	"github.com/oomph-ac/charsim/packet"
	"github.com/oomph-ac/charsim/world"
	"github.com/sirupsen/logrus"
	"golang.org/x/time/rate"
)

// maxInputDelta is the longest time in milliseconds a single input may cover.
const maxInputDelta = 250

var (
	ErrRateLimited  = errors.New("input rate limit exceeded")
	ErrStaleInput   = errors.New("input sequence already applied")
	ErrInvalidInput = errors.New("invalid input")
)

// CharacterConfig holds the settings a Character is created with.
type CharacterConfig struct {
	Params movement.Params
	// InputRate and InputBurst limit the inputs accepted per second. A zero InputRate disables
	// the limit.
	InputRate  rate.Limit
	InputBurst int
	// Log is the logger of the character. If nil, a logger that discards everything is used.
	Log *logrus.Logger
	// Broadcast receives the states and events the character produces. It may be nil.
	Broadcast func(pk packet.Packet)
}

// Character is the authoritative chain of states of a single entity. Inputs are queued as
// they arrive and applied in sequence order on every tick.
type Character struct {
	id uint64

	mover  *movement.Mover
	params movement.Params
	ctx    *movement.Context
	rec    *event.Recorder
	state  movement.State

	queue   []movement.Input
	limiter *rate.Limiter
	dropped uint64

	log       *logrus.Entry
	broadcast func(pk packet.Packet)

	mu sync.Mutex
}

// NewCharacter returns a walking character at the position passed.
func NewCharacter(id uint64, w world.Lookup, pos mgl32.Vec3, conf CharacterConfig) (*Character, error) {
	if err := conf.Params.Validate(); err != nil {
		return nil, err
	}
	if conf.Log == nil {
		conf.Log = logrus.New()
		conf.Log.SetOutput(io.Discard)
	}
	if conf.Broadcast == nil {
		conf.Broadcast = func(packet.Packet) {}
	}
	limit := rate.Inf
	if conf.InputRate > 0 {
		limit = conf.InputRate
	}

	c := &Character{
		id:        id,
		mover:     movement.NewMover(),
		params:    conf.Params,
		rec:       &event.Recorder{},
		state:     movement.NewState(pos),
		limiter:   rate.NewLimiter(limit, max(conf.InputBurst, 1)),
		log:       conf.Log.WithField("entity", id),
		broadcast: conf.Broadcast,
	}
	c.ctx = &movement.Context{
		Params:   &c.params,
		World:    w,
		Collider: collision.NewBlockCollider(w),
		Events:   c.rec,
	}
	return c, nil
}

// ID ...
func (c *Character) ID() uint64 {
	return c.id
}

// State returns the last authoritative state of the character.
func (c *Character) State() movement.State {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.state.Clone()
}

// Params returns the movement parameters of the character.
func (c *Character) Params() movement.Params {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.params
}

// SetHooks replaces the hooks the character's movement is modified by.
func (c *Character) SetHooks(h movement.Hooks) {
	c.mu.Lock()
	c.ctx.Hooks = h
	c.mu.Unlock()
}

// Dropped returns the amount of inputs that were rejected.
func (c *Character) Dropped() uint64 {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.dropped
}

// Queue queues an input received from the owner of the character. It is applied on the next
// tick. Inputs that were already applied, arrive too fast or cannot be simulated are dropped.
func (c *Character) Queue(in movement.Input) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	if err := c.validate(in); err != nil {
		c.dropped++
		c.log.WithField("seq", in.Sequence).Debugf("dropped input: %v", err)
		return err
	}
	if !c.limiter.Allow() {
		c.dropped++
		c.log.WithField("seq", in.Sequence).Warn("dropped input: rate limit exceeded")
		return ErrRateLimited
	}
	in.FirstApplication = true
	c.queue = append(c.queue, in)
	return nil
}

func (c *Character) validate(in movement.Input) error {
	if in.Sequence <= c.state.Sequence {
		return ErrStaleInput
	}
	for _, queued := range c.queue {
		if queued.Sequence == in.Sequence {
			return ErrStaleInput
		}
	}
	if in.Delta <= 0 || in.Delta > maxInputDelta {
		return errors.Join(ErrInvalidInput, oerror.New("delta %dms out of range", in.Delta))
	}
	for _, f := range [...]float32{in.Pitch, in.Yaw, in.Direction[0], in.Direction[1], in.Direction[2]} {
		if math32.IsNaN(f) || math32.IsInf(f, 0) {
			return errors.Join(ErrInvalidInput, oerror.New("non-finite input value"))
		}
	}
	return nil
}

// Tick applies all queued inputs in sequence order and broadcasts the state produced by
// each of them, followed by its events. It returns the amount of inputs applied.
func (c *Character) Tick() int {
	c.mu.Lock()
	if len(c.queue) == 0 {
		c.mu.Unlock()
		return 0
	}
	slices.SortFunc(c.queue, func(a, b movement.Input) int {
		return cmp.Compare(a.Sequence, b.Sequence)
	})

	pks := make([]packet.Packet, 0, len(c.queue)*2)
	for _, in := range c.queue {
		c.state = c.mover.Step(c.state, in, c.ctx)
		pks = append(pks, packet.FromState(c.id, c.state))
		if evs := c.rec.Flush(); len(evs) > 0 {
			pks = append(pks, packet.FromEvents(c.id, evs))
		}
	}
	applied := len(c.queue)
	c.queue = c.queue[:0]
	c.mu.Unlock()

	for _, pk := range pks {
		c.broadcast(pk)
	}
	return applied
}

// Teleport moves the character to the position passed without simulating the movement.
func (c *Character) Teleport(pos mgl32.Vec3) {
	c.modify(func(s movement.State) movement.State {
		return movement.Teleport(s, pos)
	})
	c.log.Infof("teleported to %v", pos)
}

// SetMode forces the character into the mode passed.
func (c *Character) SetMode(mode movement.Mode) error {
	if !mode.Valid() {
		return oerror.New("unknown movement mode %d", mode)
	}
	c.modify(func(s movement.State) movement.State {
		return movement.SetMode(s, mode)
	})
	c.log.Infof("mode set to %v", mode)
	return nil
}

// Impulse adds the impulse passed to the velocity of the character.
func (c *Character) Impulse(impulse mgl32.Vec3) {
	c.modify(func(s movement.State) movement.State {
		return movement.Impulse(s, impulse)
	})
}

// Scale grows or shrinks the character by the factor passed.
func (c *Character) Scale(factor float32) error {
	c.mu.Lock()
	err := c.params.Scale(factor)
	c.mu.Unlock()
	if err != nil {
		return err
	}
	c.modify(func(s movement.State) movement.State {
		return s
	})
	c.log.Infof("scaled by %v", factor)
	return nil
}

// modify changes the state outside of the input chain. The owner is told where the change
// happened in its input chain and the new state is broadcast.
func (c *Character) modify(f func(s movement.State) movement.State) {
	c.mu.Lock()
	c.state = f(c.state)
	tp := &packet.Teleport{EntityID: c.id, Sequence: c.state.Sequence, Position: c.state.Position}
	st := packet.FromState(c.id, c.state)
	c.mu.Unlock()

	c.broadcast(tp)
	c.broadcast(st)
}
