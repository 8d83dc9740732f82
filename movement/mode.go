package movement

import (
	"strings"

	"github.com/oomph-ac/charsim/oerror"
)

// Mode is the physical regime a character is moving in.
type Mode uint8

const (
	ModeWalking Mode = iota
	ModeCrouching
	ModeProning
	ModeClimbing
	ModeSwimming
	ModeDiving
	ModeGhosting
	ModeFlying
	ModeNone

	modeCount
)

// ModeProperties are the constant physical coefficients of a Mode.
type ModeProperties struct {
	// ScaleGravity scales the gravity applied to the character. Modes with a scale of
	// zero blend their vertical velocity like the horizontal axes instead.
	ScaleGravity float32
	// ScaleInertia is the rate at which the velocity approaches the desired velocity.
	ScaleInertia float32
	// UseCollision is false for modes that move through terrain.
	UseCollision bool
	// CanBeGrounded is true if the character can stand on terrain in this mode.
	CanBeGrounded bool
	// RespondToEnvironment is true if liquids and climbable blocks may change the mode.
	RespondToEnvironment bool
	// MaxSpeed is the nominal speed of the mode in blocks per second.
	MaxSpeed float32
	// ApplyInertiaToVertical applies inertia to the vertical axis on top of gravity.
	ApplyInertiaToVertical bool
}

var modeTable = [modeCount]ModeProperties{
	ModeWalking:   {ScaleGravity: 1, ScaleInertia: 8, UseCollision: true, CanBeGrounded: true, RespondToEnvironment: true, MaxSpeed: 5},
	ModeCrouching: {ScaleGravity: 1, ScaleInertia: 8, UseCollision: true, CanBeGrounded: true, RespondToEnvironment: true, MaxSpeed: 3},
	ModeProning:   {ScaleGravity: 1, ScaleInertia: 8, UseCollision: true, CanBeGrounded: true, RespondToEnvironment: true, MaxSpeed: 1.5},
	ModeClimbing:  {ScaleGravity: 0, ScaleInertia: 8, UseCollision: true, CanBeGrounded: true, RespondToEnvironment: true, MaxSpeed: 3},
	ModeSwimming:  {ScaleGravity: 0.05, ScaleInertia: 1.5, UseCollision: true, RespondToEnvironment: true, MaxSpeed: 2, ApplyInertiaToVertical: true},
	ModeDiving:    {ScaleGravity: 0, ScaleInertia: 2, UseCollision: true, RespondToEnvironment: true, MaxSpeed: 3},
	ModeGhosting:  {ScaleGravity: 0, ScaleInertia: 4, MaxSpeed: 5, ApplyInertiaToVertical: true},
	ModeFlying:    {ScaleGravity: 0, ScaleInertia: 4, UseCollision: true, MaxSpeed: 5, ApplyInertiaToVertical: true},
	ModeNone:      {},
}

var modeNames = [modeCount]string{
	ModeWalking:   "WALKING",
	ModeCrouching: "CROUCHING",
	ModeProning:   "PRONING",
	ModeClimbing:  "CLIMBING",
	ModeSwimming:  "SWIMMING",
	ModeDiving:    "DIVING",
	ModeGhosting:  "GHOSTING",
	ModeFlying:    "FLYING",
	ModeNone:      "NONE",
}

// Properties returns the physical coefficients of the mode. Unknown modes behave like ModeNone.
func (m Mode) Properties() ModeProperties {
	if !m.Valid() {
		return modeTable[ModeNone]
	}
	return modeTable[m]
}

// Valid returns true if the mode is one of the known modes.
func (m Mode) Valid() bool {
	return m < modeCount
}

// Swimming returns true for the two liquid modes.
func (m Mode) Swimming() bool {
	return m == ModeSwimming || m == ModeDiving
}

func (m Mode) String() string {
	if !m.Valid() {
		return "UNKNOWN"
	}
	return modeNames[m]
}

// ParseMode parses a mode name, case-insensitively.
func ParseMode(s string) (Mode, error) {
	s = strings.ToUpper(strings.TrimSpace(s))
	for m, name := range modeNames {
		if name == s {
			return Mode(m), nil
		}
	}
	return ModeNone, oerror.New("unknown movement mode %q", s)
}
