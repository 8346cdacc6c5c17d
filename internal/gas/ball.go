package gas

import (
	"fmt"
	"math"
)

// timeFloor rejects quadratic roots that are really t=0 re-detections of the
// collision just resolved, left slightly positive by floating-point noise.
const timeFloor = 1e-12

// Ball is a hard, perfectly elastic disc. Position is relative to the
// container center. The engine mutates balls in place; nothing else does.
type Ball struct {
	Pos    Vec2
	Vel    Vec2
	Mass   float64
	Radius float64

	// Statistics, not part of the collision dynamics.
	DistanceTravelled float64
	BallCollisions    int
	WallCollisions    int
}

// NewBall validates the physical parameters. Geometric validity of the
// initial layout (in bounds, non-overlapping) is the loader's problem.
func NewBall(pos, vel Vec2, mass, radius float64) (*Ball, error) {
	if math.IsNaN(mass) || math.IsInf(mass, 0) || mass <= 0 {
		return nil, fmt.Errorf("%w: mass %v", ErrBadBall, mass)
	}
	if math.IsNaN(radius) || math.IsInf(radius, 0) || radius <= 0 {
		return nil, fmt.Errorf("%w: radius %v", ErrBadBall, radius)
	}
	if !pos.IsFinite() || !vel.IsFinite() {
		return nil, fmt.Errorf("%w: non-finite position or velocity", ErrBadBall)
	}
	return &Ball{Pos: pos, Vel: vel, Mass: mass, Radius: radius}, nil
}

// Advance moves the ball along its straight-line trajectory for dt.
func (b *Ball) Advance(dt float64) {
	dp := b.Vel.Scale(dt)
	b.Pos = b.Pos.Add(dp)
	b.DistanceTravelled += dp.Norm()
}

// NextWallCollision returns the time until the ball touches the container
// wall, or +Inf if it never will on its current trajectory.
//
// Solves |x + v t| = R - r as a quadratic in t.
func (b *Ball) NextWallCollision(containerRadius float64) float64 {
	reach := containerRadius - b.Radius
	a := b.Vel.Dot(b.Vel)
	bb := 2 * b.Pos.Dot(b.Vel)
	c := b.Pos.Dot(b.Pos) - reach*reach
	return predictCollisionTime(a, bb, c)
}

// NextBallCollision returns the time until this ball touches other, or +Inf.
// Same quadratic as the wall case, built from relative position and velocity
// with target separation r1+r2.
func (b *Ball) NextBallCollision(other *Ball) float64 {
	dx := b.Pos.Sub(other.Pos)
	dv := b.Vel.Sub(other.Vel)
	sum := b.Radius + other.Radius

	a := dv.Dot(dv)
	bb := 2 * dx.Dot(dv)
	c := dx.Dot(dx) - sum*sum
	return predictCollisionTime(a, bb, c)
}

// predictCollisionTime solves a t^2 + b t + c = 0 and returns the smallest
// root above timeFloor, or +Inf when no such root exists.
//
// a == 0 degenerates to a linear (or constant) equation; balls already in
// contact but separating produce only roots at or below the floor and so
// report +Inf rather than re-colliding in place.
func predictCollisionTime(a, b, c float64) float64 {
	if a == 0 {
		if b == 0 {
			return math.Inf(1)
		}
		if t := -c / b; t > timeFloor {
			return t
		}
		return math.Inf(1)
	}

	disc := b*b - 4*a*c
	if disc < 0 {
		return math.Inf(1)
	}

	sq := math.Sqrt(disc)
	t1 := (-b - sq) / (2 * a)
	t2 := (-b + sq) / (2 * a)
	if t1 > t2 {
		t1, t2 = t2, t1
	}

	if t1 > timeFloor {
		return t1
	}
	if t2 > timeFloor {
		return t2
	}
	return math.Inf(1)
}

// VelocityAfterWallBounce reflects the velocity about the radius vector at
// the contact point. Elastic: speed is preserved exactly.
func (b *Ball) VelocityAfterWallBounce() Vec2 {
	r := b.Pos
	u := b.Vel
	return u.Sub(r.Scale(2 * u.Dot(r) / r.Dot(r)))
}

// VelocityAfterBallCollision resolves a 2-body elastic collision along the
// line of centers and returns the post-collision velocities of b and other.
// Conserves total momentum and kinetic energy for any mass ratio.
func (b *Ball) VelocityAfterBallCollision(other *Ball) (Vec2, Vec2) {
	dx := b.Pos.Sub(other.Pos)
	dv := b.Vel.Sub(other.Vel)

	s := 2 * dx.Dot(dv) / ((b.Mass + other.Mass) * dx.Dot(dx))

	v1 := b.Vel.Sub(dx.Scale(other.Mass * s))
	v2 := other.Vel.Add(dx.Scale(b.Mass * s))
	return v1, v2
}

// KineticEnergy returns 1/2 m v^2.
func (b *Ball) KineticEnergy() float64 {
	return 0.5 * b.Mass * b.Vel.Dot(b.Vel)
}

// SpeedSquared returns |v|^2, used for RMS speed accumulation.
func (b *Ball) SpeedSquared() float64 {
	return b.Vel.Dot(b.Vel)
}

func (b *Ball) Speed() float64 {
	return b.Vel.Norm()
}

// MeanFreePath is the average distance travelled between ball-ball
// collisions, or 0 before the first one.
func (b *Ball) MeanFreePath() float64 {
	if b.BallCollisions == 0 {
		return 0
	}
	return b.DistanceTravelled / float64(b.BallCollisions)
}

func (b *Ball) Momentum() Vec2 {
	return b.Vel.Scale(b.Mass)
}
