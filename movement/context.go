package movement

import (
	"log/slog"

	"github.com/go-gl/mathgl/mgl32"
	"github.com/oomph-ac/charsim/event"
	"github.com/oomph-ac/charsim/world"
)

// Context holds everything a step needs besides the prior state and input. A Context
// belongs to a single character and must not be shared between characters.
type Context struct {
	// Params are read by every step and have their jump counts written back.
	Params *Params
	// World is consulted for liquids, climbable blocks and loaded terrain.
	World world.Lookup
	// Collider resolves movement against terrain.
	Collider Collider
	// Events receives the side effects of first applications. It may be nil.
	Events event.Handler
	// Hooks may adjust speed and jump values before they are applied.
	Hooks Hooks
	// Parent returns the transform of the entity a character in ModeNone is attached to.
	// It returns false if the character has no parent.
	Parent func() (mgl32.Vec3, mgl32.Quat, bool)
	// Log receives debug output. It may be nil.
	Log *slog.Logger
}

func (ctx *Context) emit(ev event.Event) {
	if ctx.Events != nil {
		ctx.Events.HandleEvent(ev)
	}
}

func (ctx *Context) debug(msg string, args ...any) {
	if ctx.Log != nil {
		ctx.Log.Debug(msg, args...)
	}
}
