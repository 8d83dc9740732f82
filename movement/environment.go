package movement

import (
	"github.com/chewxy/math32"
	"github.com/ethaniccc/float32-cube/cube"
	"github.com/go-gl/mathgl/mgl32"
	"github.com/oomph-ac/charsim/event"
	"github.com/oomph-ac/charsim/world"
)

// climbReach is how far past its radius a character can reach a climbable face.
const climbReach = 0.1

// checkBlockEntry emits an EnterBlockEvent for every vertical slice of the character that
// occupies a different block after moving from oldPos to newPos.
func (sc *stepContext) checkBlockEntry(oldPos, newPos mgl32.Vec3) {
	halfHeight := sc.ctx.Params.Height / 2
	oldFeet := cube.PosFromVec3(oldPos.Sub(mgl32.Vec3{0, halfHeight, 0}))
	newFeet := cube.PosFromVec3(newPos.Sub(mgl32.Vec3{0, halfHeight, 0}))
	if oldFeet == newFeet {
		return
	}

	slices := int(math32.Ceil(sc.ctx.Params.Height))
	for i := 0; i < slices; i++ {
		offset := cube.Pos{0, i, 0}
		oldBlock := sc.ctx.World.BlockAt(oldFeet.Add(offset))
		newBlock := sc.ctx.World.BlockAt(newFeet.Add(offset))
		if oldBlock.Name == newBlock.Name {
			continue
		}
		sc.ctx.emit(event.EnterBlockEvent{
			NopEvent: sc.nopEvent(),
			Old:      oldBlock.Name,
			New:      newBlock.Name,
			Slice:    int32(i),
		})
	}
}

// checkMode samples the surroundings of the character for liquids and climbable blocks and
// moves it into the mode they call for.
func (sc *stepContext) checkMode() {
	s := sc.state
	if !s.Mode.Properties().RespondToEnvironment {
		return
	}
	height := sc.ctx.Params.Height

	topLiquid := world.BlockAtVec(sc.ctx.World, s.Position.Add(mgl32.Vec3{0, 0.5 * height, 0})).Liquid
	bottomLiquid := world.BlockAtVec(sc.ctx.World, s.Position.Add(mgl32.Vec3{0, -0.25 * height, 0})).Liquid
	swimming := topLiquid != bottomLiquid
	diving := topLiquid && bottomLiquid

	climbing := false
	if !swimming && !diving {
		if dir, ok := sc.findClimbable(s.Position); ok {
			climbing = true
			s.SetClimbDirection(dir)
		}
	}
	if !climbing {
		s.ClimbDirection = nil
	}

	before := s.Mode
	updateMode(s, swimming, diving, climbing, sc.in.Crouching)
	if before != s.Mode {
		sc.ctx.debug("movement mode changed", "from", before, "to", s.Mode, "seq", sc.in.Sequence)
	}
}

// findClimbable checks the four sides of the character and the block below its feet for
// something climbable. The returned direction points from the character into the surface.
func (sc *stepContext) findClimbable(pos mgl32.Vec3) (cube.Pos, bool) {
	p := sc.ctx.Params
	sides := [...]struct {
		offset mgl32.Vec3
		dir    cube.Pos
	}{
		{mgl32.Vec3{p.Radius, 0, 0}, cube.Pos{1, 0, 0}},
		{mgl32.Vec3{-p.Radius, 0, 0}, cube.Pos{-1, 0, 0}},
		{mgl32.Vec3{0, 0, p.Radius}, cube.Pos{0, 0, 1}},
		{mgl32.Vec3{0, 0, -p.Radius}, cube.Pos{0, 0, -1}},
		{mgl32.Vec3{0, -p.Height, 0}, cube.Pos{}},
	}

	var (
		found     bool
		finalDir  cube.Pos
		closest   = float32(100)
		reachDist = p.Radius + climbReach
	)
	for _, side := range sides {
		blockPos := cube.PosFromVec3(pos.Add(side.offset))
		info := sc.ctx.World.BlockAt(blockPos)
		if !info.Climbable {
			continue
		}
		centre := blockPos.Vec3().Add(mgl32.Vec3{0.5, 0.5, 0.5})
		normal := info.ClimbNormal

		dir, dist := side.dir, float32(10)
		if normal != (cube.Pos{}) {
			dir = cube.Pos{-normal[0], -normal[1], -normal[2]}
		}
		switch {
		case normal[0] != 0:
			plane := centre[0] - float32(normal[0])*0.5
			if math32.Abs(pos[0]-plane) < reachDist {
				if (pos[0]-plane)*float32(normal[0]) < 0 {
					dir = normal
				}
				dist = math32.Abs(centre[2] - pos[2])
			}
		case normal[2] != 0:
			plane := centre[2] - float32(normal[2])*0.5
			if math32.Abs(pos[2]-plane) < reachDist {
				if (pos[2]-plane)*float32(normal[2]) < 0 {
					dir = normal
				}
				dist = math32.Abs(centre[0] - pos[0])
			}
		case side.dir[0] != 0:
			dist = math32.Abs(centre[2] - pos[2])
		case side.dir[2] != 0:
			dist = math32.Abs(centre[0] - pos[0])
		}

		if dist < closest {
			closest = dist
			finalDir = dir
			found = true
		}
	}
	return finalDir, found
}

// updateMode moves the state into the mode matching the environment flags passed.
func updateMode(s *State, swimming, diving, climbing, crouching bool) {
	switch {
	case diving:
		s.Mode = ModeDiving
	case swimming:
		s.Mode = ModeSwimming
		s.Velocity[1] += 0.02
	case s.Mode.Swimming():
		if climbing {
			s.Mode = ModeClimbing
			s.Velocity[1] = 0
		} else {
			// Leaving the water with upward velocity gives a boost to climb out onto land.
			if s.Velocity[1] > 0 {
				s.Velocity[1] += 4
			}
			s.Mode = walkingMode(crouching)
		}
	case climbing != (s.Mode == ModeClimbing):
		s.Velocity[1] = 0
		if climbing {
			s.Mode = ModeClimbing
		} else {
			s.Mode = walkingMode(crouching)
		}
	}

	if s.Mode == ModeWalking || s.Mode == ModeCrouching {
		s.Mode = walkingMode(crouching)
	}
	if s.Mode != ModeClimbing {
		s.ClimbDirection = nil
	}
}

func walkingMode(crouching bool) Mode {
	if crouching {
		return ModeCrouching
	}
	return ModeWalking
}
