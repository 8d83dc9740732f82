package prediction

import (
	"errors"
	"log/slog"
	"sync"

	"github.com/elliotchance/orderedmap/v2"
	"github.com/go-gl/mathgl/mgl32"
	"github.com/oomph-ac/charsim/movement"
	"github.com/oomph-ac/charsim/oerror"
	"github.com/oomph-ac/charsim/utils"
)

// HistorySize is the amount of predicted state hashes kept to detect mispredictions.
const HistorySize = 128

// ErrClosed is returned by a Predictor after Close was called.
var ErrClosed = errors.New("predictor closed")

// Target receives every state the Predictor produces, such as the local character's
// rendered transform. ApplyState is called with the Predictor locked and must not call
// back into it.
type Target interface {
	ApplyState(s movement.State)
}

// pendingInput is an unconfirmed input along with the jump counts it was first applied with.
// Jumps live in the Params rather than the State, so replays must start from these.
type pendingInput struct {
	in                  movement.Input
	jumpsLeft, jumpsMax int
}

type predictedHash struct {
	seq  int32
	hash uint64
}

// Predictor runs the local character ahead of the authority. Inputs are applied as soon as
// they are produced and kept until the authority confirms them. Authoritative states replace
// the confirmed part of the chain and the unconfirmed inputs are replayed on top of them.
type Predictor struct {
	mover  *movement.Mover
	ctx    *movement.Context
	target Target
	log    *slog.Logger

	pending   *orderedmap.OrderedMap[int32, pendingInput]
	predicted movement.State
	confirmed movement.State
	lastSeq   int32

	history     *utils.RingBuffer[predictedHash]
	corrections uint64
	closed      bool

	mu sync.Mutex
}

// New returns a Predictor starting from the initial state passed. The target and logger
// may be nil.
func New(mover *movement.Mover, ctx *movement.Context, initial movement.State, target Target, log *slog.Logger) *Predictor {
	return &Predictor{
		mover:     mover,
		ctx:       ctx,
		target:    target,
		log:       log,
		pending:   orderedmap.NewOrderedMap[int32, pendingInput](),
		predicted: initial.Clone(),
		confirmed: initial.Clone(),
		lastSeq:   initial.Sequence,
		history:   utils.NewRingBuffer[predictedHash](HistorySize),
	}
}

// OnLocalInput queues the input passed and applies it to the predicted state. Inputs must
// arrive with increasing sequences.
func (p *Predictor) OnLocalInput(in movement.Input) (movement.State, error) {
	p.mu.Lock()
	defer p.mu.Unlock()

	if p.closed {
		return movement.State{}, ErrClosed
	}
	if in.Sequence <= p.lastSeq {
		return p.predicted, oerror.New("input sequence %d is not after %d", in.Sequence, p.lastSeq)
	}

	in.FirstApplication = true
	p.pending.Set(in.Sequence, pendingInput{in: in, jumpsLeft: p.ctx.Params.JumpsLeft, jumpsMax: p.ctx.Params.JumpsMax})
	p.lastSeq = in.Sequence

	p.predicted = p.mover.Step(p.predicted, in, p.ctx)
	p.history.Add(predictedHash{seq: in.Sequence, hash: p.predicted.Hash()})
	p.apply(p.predicted)
	return p.predicted, nil
}

// OnAuthoritativeState reconciles the prediction with the authoritative state passed.
// States older than the last confirmed state are ignored.
func (p *Predictor) OnAuthoritativeState(s movement.State) {
	p.mu.Lock()
	defer p.mu.Unlock()

	if p.closed {
		return
	}
	if s.Sequence < p.confirmed.Sequence {
		p.debug("ignored stale authoritative state", "seq", s.Sequence, "confirmed", p.confirmed.Sequence)
		return
	}

	for el := p.pending.Front(); el != nil && el.Key <= s.Sequence; el = p.pending.Front() {
		p.pending.Delete(el.Key)
	}
	if hash, ok := p.predictedHashAt(s.Sequence); ok && hash != s.Hash() {
		p.corrections++
		p.debug("prediction diverged from authority", "seq", s.Sequence, "pos", s.Position, "vel", s.Velocity, "mode", s.Mode, "pending", p.pending.Len())
	}

	p.confirmed = s.Clone()
	p.replayLocked(s)
}

// OnTeleport moves the local character to the position passed as the authority did after
// applying the input with the sequence passed. Pending inputs up to that sequence are applied
// before the move and dropped, the rest are replayed after it. The authority follows a teleport
// with a state of the same sequence, which OnAuthoritativeState then reconciles as usual.
func (p *Predictor) OnTeleport(seq int32, pos mgl32.Vec3) {
	p.mu.Lock()
	defer p.mu.Unlock()

	if p.closed {
		return
	}
	if seq < p.confirmed.Sequence {
		p.debug("ignored stale teleport", "seq", seq, "confirmed", p.confirmed.Sequence)
		return
	}

	state := p.confirmed.Clone()
	p.restoreJumpsLocked()
	for el := p.pending.Front(); el != nil && el.Key <= seq; el = p.pending.Front() {
		state = p.mover.Step(state, el.Value.in.Replay(), p.ctx)
		p.pending.Delete(el.Key)
	}
	state = movement.Teleport(state, pos)
	state.Sequence = seq

	p.confirmed = state.Clone()
	p.replayLocked(state)
}

// replayLocked applies every pending input on top of the state passed and publishes the
// result as the predicted state.
func (p *Predictor) replayLocked(s movement.State) {
	state := s.Clone()
	p.restoreJumpsLocked()
	for el := p.pending.Front(); el != nil; el = el.Next() {
		state = p.mover.Step(state, el.Value.in.Replay(), p.ctx)
	}
	p.predicted = state
	if s.Sequence > p.lastSeq {
		p.lastSeq = s.Sequence
	}
	p.apply(p.predicted)
}

// restoreJumpsLocked rewinds the jump counts to those the oldest pending input was first
// applied with. Without pending inputs the counts are already current.
func (p *Predictor) restoreJumpsLocked() {
	if el := p.pending.Front(); el != nil {
		p.ctx.Params.JumpsLeft, p.ctx.Params.JumpsMax = el.Value.jumpsLeft, el.Value.jumpsMax
	}
}

// Reset drops all pending inputs and adopts the state passed as both the confirmed and the
// predicted state. It is used on respawns and teleports.
func (p *Predictor) Reset(s movement.State) {
	p.mu.Lock()
	defer p.mu.Unlock()

	p.resetLocked(s)
	p.apply(p.predicted)
}

// Close drops all state. Any further input is rejected with ErrClosed.
func (p *Predictor) Close() {
	p.mu.Lock()
	defer p.mu.Unlock()

	p.resetLocked(movement.State{})
	p.closed = true
}

func (p *Predictor) resetLocked(s movement.State) {
	p.pending = orderedmap.NewOrderedMap[int32, pendingInput]()
	p.history.Clear()
	p.predicted = s.Clone()
	p.confirmed = s.Clone()
	p.lastSeq = s.Sequence
}

// Pending returns the amount of inputs not yet confirmed by the authority.
func (p *Predictor) Pending() int {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.pending.Len()
}

// Predicted returns the newest predicted state.
func (p *Predictor) Predicted() movement.State {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.predicted.Clone()
}

// Confirmed returns the last authoritative state.
func (p *Predictor) Confirmed() movement.State {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.confirmed.Clone()
}

// Corrections returns how often the authority disagreed with a prediction.
func (p *Predictor) Corrections() uint64 {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.corrections
}

func (p *Predictor) predictedHashAt(seq int32) (uint64, bool) {
	for h := range p.history.Backward() {
		if h.seq == seq {
			return h.hash, true
		}
		if h.seq < seq {
			break
		}
	}
	return 0, false
}

func (p *Predictor) apply(s movement.State) {
	if p.target != nil {
		p.target.ApplyState(s)
	}
}

func (p *Predictor) debug(msg string, args ...any) {
	if p.log != nil {
		p.log.Debug(msg, args...)
	}
}
