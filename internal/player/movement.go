package player

import (
	"math"

	"github.com/go-gl/mathgl/mgl32"

	"skycarpet/internal/input"
	"skycarpet/internal/physics"
	"skycarpet/internal/profiling"
)

const (
	HorizontalDrag = 0.91 // per-tick velocity retention
	VerticalDrag   = 0.80 // heavier, so altitude settles quickly
	VerticalFactor = 0.6  // ascend/descend accel relative to forward
	StopEpsilon    = 0.005
)

// UpdatePosition advances the carpet one frame: input acceleration along the
// view direction, exponential drag, then the terrain clearance clamp.
func (p *Player) UpdatePosition(dt float64, im *input.InputManager) {
	defer profiling.Track("player.Update")()

	p.Boosting = im.IsActive(input.ActionBoost)

	forward := float32(0)
	strafe := float32(0)
	lift := float32(0)
	if im.IsActive(input.ActionMoveForward) {
		forward++
	}
	if im.IsActive(input.ActionMoveBackward) {
		forward--
	}
	if im.IsActive(input.ActionMoveRight) {
		strafe++
	}
	if im.IsActive(input.ActionMoveLeft) {
		strafe--
	}
	if im.IsActive(input.ActionAscend) {
		lift++
	}
	if im.IsActive(input.ActionDescend) {
		lift--
	}

	// Forward follows the full look direction so the carpet flies where the
	// camera points; strafe stays level.
	front := p.GetFrontVector()
	yawRad := float64(mgl32.DegToRad(float32(p.CamYaw)))
	right := mgl32.Vec3{float32(math.Cos(yawRad + math.Pi/2)), 0, float32(math.Sin(yawRad + math.Pi/2))}

	modeDistance := float32(dt * 20.0) // ticks elapsed this frame

	// Per-tick acceleration chosen so cruise speed settles near flightSpeed
	// once drag balances it.
	accel := float32(p.flightSpeed) * (1 - HorizontalDrag)
	if p.Boosting {
		accel *= float32(p.boostMult)
	}

	if forward != 0 || strafe != 0 {
		dir := front.Mul(forward).Add(right.Mul(strafe))
		if l := dir.Len(); l > 0 {
			dir = dir.Mul(1 / l)
		}
		p.Velocity = p.Velocity.Add(dir.Mul(accel * modeDistance))
	}
	if lift != 0 {
		p.Velocity[1] += lift * accel * VerticalFactor * modeDistance
	}

	// Integrate, then keep the carpet above the ground.
	newPos := p.Position.Add(p.Velocity.Mul(float32(dt)))
	clamped, hit := physics.ClampAboveTerrain(newPos, p.minClearance, p.World)
	p.Position = clamped
	if hit && p.Velocity[1] < 0 {
		// The slope absorbed the descent; the horizontal glide continues.
		p.Velocity[1] = 0
	}

	// Drag at the end of the tick, scaled to real time
	hDrag := float32(math.Pow(HorizontalDrag, float64(modeDistance)))
	vDrag := float32(math.Pow(VerticalDrag, float64(modeDistance)))
	p.Velocity[0] *= hDrag
	p.Velocity[2] *= hDrag
	p.Velocity[1] *= vDrag

	// Stop completely if very slow (epsilon check)
	for i := range p.Velocity {
		if math.Abs(float64(p.Velocity[i])) < StopEpsilon {
			p.Velocity[i] = 0
		}
	}
}
