package movement

import (
	"github.com/chewxy/math32"
	"github.com/go-gl/mathgl/mgl32"
	"github.com/oomph-ac/charsim/game"
)

// moveResult holds the outcome of resolving a movement against terrain.
type moveResult struct {
	position      mgl32.Vec3
	horizontalHit bool
	bottomHit     bool
	topHit        bool
}

// contact is the way a horizontal sweep responds to a surface.
type contact uint8

const (
	// contactStep surfaces are either stepped onto or block movement.
	contactStep contact = iota
	// contactSlope surfaces deflect movement along themselves.
	contactSlope
)

// classifyContact decides how a horizontal sweep responds to a surface with the slope
// passed. Surfaces steeper than the slope factor block movement unless they can be
// stepped onto. Surfaces so flat that the contact only grazes them take the same path,
// since deflecting along them would not change the movement.
func classifyContact(slope, slopeFactor float32) contact {
	if slope < slopeFactor || 1-slope < game.Epsilon {
		return contactStep
	}
	return contactSlope
}

// move resolves the delta passed from the start position against terrain. A nil
// collider ignores terrain altogether.
func (sc *stepContext) move(start, delta mgl32.Vec3, stepHeight, slopeFactor float32, col Collider) moveResult {
	sc.steppedUpDist = 0
	sc.stepped = false

	pos := start
	res := moveResult{}
	if delta[1] > 0 {
		res.topHit = delta[1]-sc.moveUp(delta[1], col, &pos) > game.Epsilon
	}
	res.horizontalHit = sc.moveHorizontal(mgl32.Vec3{delta[0], 0, delta[2]}, col, &pos, slopeFactor, stepHeight)
	if delta[1] < 0 || sc.steppedUpDist > 0 {
		dist := min(delta[1], 0) - sc.steppedUpDist
		res.bottomHit = sc.moveDown(dist, slopeFactor, col, &pos)
	}
	if !res.bottomHit && stepHeight > 0 {
		// Snap down onto a step below so walking off a low ledge does not leave a gap.
		tempPos := pos
		if sc.moveDown(-stepHeight, slopeFactor, col, &tempPos) {
			res.bottomHit = true
			pos = tempPos
		}
	}
	res.position = pos
	return res
}

// moveUp moves the position up by at most rise and returns the distance actually moved.
func (sc *stepContext) moveUp(rise float32, col Collider, pos *mgl32.Vec3) float32 {
	if col != nil {
		to := mgl32.Vec3{pos[0], pos[1] + rise + game.VerticalPenetrationLeeway, pos[2]}
		sweep := col.Sweep(sc.box, *pos, to, game.VerticalPenetrationLeeway)
		if sweep.Hit {
			actualDist := max(0, (rise+game.VerticalPenetrationLeeway)*sweep.Fraction-game.VerticalPenetrationLeeway)
			pos[1] += actualDist
			return actualDist
		}
	}
	pos[1] += rise
	return rise
}

// moveDown moves the position down by -dist, sliding along surfaces steeper than the slope
// factor. It returns true if the movement ended on a surface or ran out of iterations.
func (sc *stepContext) moveDown(dist, slopeFactor float32, col Collider, pos *mgl32.Vec3) bool {
	if col == nil {
		pos[1] += dist
		return false
	}

	remainingDist := -dist
	targetPos := *pos
	targetPos[1] -= remainingDist + game.VerticalPenetrationLeeway
	normalizedDir := mgl32.Vec3{0, -1, 0}

	hit := false
	iteration := 0
	for remainingDist > game.Epsilon && iteration < game.MaxSweepIterations {
		iteration++

		sweep := col.Sweep(sc.box, *pos, targetPos, game.VerticalPenetration)
		actualDist := max(0, (remainingDist+game.VerticalPenetrationLeeway)*sweep.Fraction-game.VerticalPenetrationLeeway)
		expectedMove := targetPos.Sub(*pos)
		if expectedMove.LenSqr() > game.Epsilon {
			*pos = pos.Add(expectedMove.Normalize().Mul(actualDist))
		}
		remainingDist -= actualDist
		if remainingDist < game.Epsilon || !sweep.Hit {
			break
		}

		if sweep.Slope() >= slopeFactor {
			hit = true
			break
		}

		residual, ok := game.SafeNormalize(extractResidualMovement(sweep.Normal, targetPos.Sub(*pos)))
		if !ok || residual.Dot(normalizedDir) <= 0 || residual[1] > -game.Epsilon {
			hit = true
			break
		}
		normalizedDir = residual
		targetPos = pos.Add(residual.Mul(-remainingDist/residual[1] + game.HorizontalPenetrationLeeway))
	}
	if iteration >= game.MaxSweepIterations {
		hit = true
	}
	return hit
}

// moveHorizontal moves the position along the horizontal delta passed, stepping up onto
// low obstacles and deflecting along shallow slopes. It returns true if a wall stopped or
// redirected the movement.
func (sc *stepContext) moveHorizontal(horizMove mgl32.Vec3, col Collider, pos *mgl32.Vec3, slopeFactor, stepHeight float32) bool {
	dist := horizMove.Len()
	if dist < game.Epsilon {
		return false
	}
	normalizedDir, _ := game.SafeNormalize(horizMove)
	if col == nil {
		*pos = pos.Add(normalizedDir.Mul(dist))
		return false
	}

	horizontalHit := false
	remainingFraction := float32(1)
	targetPos := pos.Add(normalizedDir.Mul(dist + game.HorizontalPenetrationLeeway))
	lastHitNormal := mgl32.Vec3{0, 1, 0}

loop:
	for iteration := 0; remainingFraction >= game.MinRemainingFraction && iteration < game.MaxSweepIterations; iteration++ {
		sweep := col.Sweep(sc.box, *pos, targetPos, game.HorizontalPenetration)

		// After the first iteration the fraction only covers part of the movement, which is
		// close enough for the remaining fraction to still end the loop.
		actualDist := max(0, (dist+game.HorizontalPenetrationLeeway)*sweep.Fraction-game.HorizontalPenetrationLeeway)
		if actualDist != 0 {
			remainingFraction -= actualDist / dist
		}
		if !sweep.Hit {
			*pos = pos.Add(normalizedDir.Mul(dist))
			break
		}

		if actualDist > game.Epsilon {
			*pos = pos.Add(normalizedDir.Mul(actualDist))
		}
		dist -= actualDist
		newDir := normalizedDir.Mul(dist)

		switch classifyContact(sweep.Slope(), slopeFactor) {
		case contactStep:
			if sc.checkStep(col, pos, newDir, sweep, slopeFactor, stepHeight) {
				break
			}
			horizontalHit = true
			newHorizDir := mgl32.Vec3{newDir[0], 0, newDir[2]}
			horizNormal := mgl32.Vec3{sweep.Normal[0], 0, sweep.Normal[2]}
			if horizNormal.LenSqr() > game.Epsilon {
				horizNormal = horizNormal.Normalize()
				if lastHitNormal.Dot(horizNormal) > game.Epsilon {
					break loop
				}
				lastHitNormal = horizNormal
				newHorizDir = extractResidualMovement(horizNormal, newHorizDir)
			}
			newDir = newHorizDir
		case contactSlope:
			newHorizLen := mgl32.Vec3{newDir[0], 0, newDir[2]}.Len()
			newDir = extractResidualMovement(sweep.Normal, newDir)
			if modHorizLen := (mgl32.Vec3{newDir[0], 0, newDir[2]}).Len(); modHorizLen > game.Epsilon {
				newDir = newDir.Mul(newHorizLen / modHorizLen)
			}
		}

		sqrDist := newDir.LenSqr()
		if sqrDist <= game.Epsilon {
			break
		}
		newDir = newDir.Normalize()
		if newDir.Dot(normalizedDir) <= 0 {
			break
		}
		dist = math32.Sqrt(sqrDist)
		normalizedDir = newDir
		targetPos = pos.Add(normalizedDir.Mul(dist + game.HorizontalPenetrationLeeway))
	}
	return horizontalHit
}

// checkStep steps the position up if the collider finds a step ahead. A single move only
// ever attempts one step.
func (sc *stepContext) checkStep(col Collider, pos *mgl32.Vec3, direction mgl32.Vec3, sweep Sweep, slopeFactor, stepHeight float32) bool {
	if sc.stepped {
		return false
	}
	sc.stepped = true

	if col.CheckForStep(sc.box, *pos, sweep, direction, stepHeight, slopeFactor, game.CheckForwardDistance) {
		sc.steppedUpDist = sc.moveUp(stepHeight, col, pos)
		return true
	}
	return false
}

// extractResidualMovement returns the part of the movement passed that continues along the
// surface with the normal passed.
func extractResidualMovement(hitNormal, direction mgl32.Vec3) mgl32.Vec3 {
	movementLength := direction.Len()
	if movementLength <= game.Epsilon {
		return direction
	}
	reflectDir, ok := game.SafeNormalize(game.Reflect(direction.Mul(1/movementLength), hitNormal))
	if !ok {
		return mgl32.Vec3{}
	}
	return game.Perpendicular(reflectDir, hitNormal).Mul(movementLength)
}
