package game

const (
	// Gravity is the downward acceleration applied to characters, in blocks per second squared.
	Gravity = float32(28)
	// TerminalVelocity is the maximum speed at which a character can fall.
	TerminalVelocity = float32(64)

	// HorizontalPenetration and VerticalPenetration are the distances a collider may
	// overlap terrain during a sweep before a contact is reported.
	HorizontalPenetration = float32(0.03)
	VerticalPenetration   = float32(0.04)
	// HorizontalPenetrationLeeway and VerticalPenetrationLeeway are added to sweep
	// distances so that resting contact does not oscillate between hit and miss.
	HorizontalPenetrationLeeway = float32(0.04)
	VerticalPenetrationLeeway   = float32(0.05)

	// CheckForwardDistance is how far ahead of a contact a step is searched for.
	CheckForwardDistance = float32(0.05)
	// MaxSweepIterations caps the amount of sweeps a single resolution pass may run.
	MaxSweepIterations = 10
	// MinRemainingFraction ends horizontal resolution once less than this fraction of
	// the requested movement is left.
	MinRemainingFraction = float32(0.01)

	// Epsilon is the smallest meaningful float32 difference used by the solver.
	Epsilon = float32(1.1920929e-7)
)
