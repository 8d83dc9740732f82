package movement

import (
	"sync"

	"github.com/ethaniccc/float32-cube/cube"
	"github.com/oomph-ac/charsim/event"
	"github.com/oomph-ac/charsim/game"
)

// stepContext holds the scratch state of a single step.
type stepContext struct {
	ctx   *Context
	in    Input
	state *State
	box   cube.BBox
	// time is the simulation time events of the step are stamped with.
	time int64

	// stepped is true once a move attempted to step up onto an obstacle.
	stepped bool
	// steppedUpDist is the distance the last successful step moved up.
	steppedUpDist float32
}

var stepContextPool = sync.Pool{
	New: func() any {
		return &stepContext{}
	},
}

func newStepContext(ctx *Context, in Input, state *State) *stepContext {
	sc := stepContextPool.Get().(*stepContext)
	sc.ctx = ctx
	sc.in = in
	sc.state = state
	sc.box = game.ColliderBox(ctx.Params.Radius, ctx.Params.Height)
	sc.time = state.Time + in.Delta
	return sc
}

func putStepContext(sc *stepContext) {
	sc.reset()
	stepContextPool.Put(sc)
}

func (sc *stepContext) reset() {
	sc.ctx = nil
	sc.in = Input{}
	sc.state = nil
	sc.box = cube.BBox{}
	sc.time = 0
	sc.stepped = false
	sc.steppedUpDist = 0
}

func (sc *stepContext) nopEvent() event.NopEvent {
	return event.NopEvent{EvTime: sc.time}
}
