package gas

import (
	"context"
	"math"
)

// Observer receives a snapshot after every resolved event.
type Observer interface {
	OnEvent(s Snapshot)
}

// Engine owns the balls and the collision table and replays the gas
// collision by collision. All mutation of ball state happens here.
type Engine struct {
	balls           []*Ball
	table           *CollisionTable
	containerRadius float64
	circumference   float64

	time           float64
	wallImpulse    float64 // accumulated |delta p| from wall events
	ballCollisions int
	wallCollisions int

	kineticEnergy float64
	rmsSpeed      float64
	pressure      float64

	observers []Observer
}

// NewEngine builds an engine from an initial configuration. The caller is
// responsible for supplying a non-overlapping, in-bounds layout; the engine
// does not re-validate geometry.
func NewEngine(containerRadius float64, balls []*Ball) (*Engine, error) {
	if math.IsNaN(containerRadius) || math.IsInf(containerRadius, 0) || containerRadius <= 0 {
		return nil, ErrBadContainer
	}
	if len(balls) == 0 {
		return nil, ErrNoBalls
	}

	e := &Engine{
		balls:           balls,
		table:           NewCollisionTable(len(balls)),
		containerRadius: containerRadius,
		circumference:   2 * math.Pi * containerRadius,
	}
	e.table.Rebuild(balls, containerRadius)
	e.updateObservables(0)
	return e, nil
}

func (e *Engine) AddObserver(o Observer) { e.observers = append(e.observers, o) }

func (e *Engine) Balls() []*Ball           { return e.balls }
func (e *Engine) ContainerRadius() float64 { return e.containerRadius }
func (e *Engine) Time() float64            { return e.time }

// Step advances the gas to its next collision and resolves it. Returns
// ErrStalled when the table holds no finite time, meaning no contact will
// ever occur on the current trajectories.
func (e *Engine) Step() error {
	ev := e.table.NextEvent()
	if math.IsInf(ev.Dt, 1) || math.IsNaN(ev.Dt) {
		return ErrStalled
	}

	dt := ev.Dt
	e.table.Decrement(dt)
	for _, b := range e.balls {
		b.Advance(dt)
	}

	if ev.IsWall() {
		e.resolveWall(ev.A)
		e.table.Recompute([]int{ev.A}, e.balls, e.containerRadius)
	} else {
		e.resolveBall(ev.A, ev.B)
		e.table.Recompute([]int{ev.A, ev.B}, e.balls, e.containerRadius)
	}

	e.updateObservables(dt)

	snap := e.Snapshot()
	for _, o := range e.observers {
		o.OnEvent(snap)
	}
	return nil
}

func (e *Engine) resolveWall(i int) {
	b := e.balls[i]
	u := b.Vel
	v := b.VelocityAfterWallBounce()
	b.Vel = v

	// The wall impulse drives the pressure observable.
	e.wallImpulse += v.Sub(u).Scale(b.Mass).Norm()

	b.WallCollisions++
	e.wallCollisions++
}

func (e *Engine) resolveBall(i, j int) {
	b1, b2 := e.balls[i], e.balls[j]
	v1, v2 := b1.VelocityAfterBallCollision(b2)
	b1.Vel = v1
	b2.Vel = v2

	b1.BallCollisions++
	b2.BallCollisions++
	e.ballCollisions++
}

// updateObservables recomputes the aggregate quantities after dt has
// elapsed. Pressure is the accumulated wall impulse spread over the
// container circumference and the elapsed time; it reads 0 until the clock
// has advanced.
func (e *Engine) updateObservables(dt float64) {
	ke := 0.0
	speedSq := 0.0
	for _, b := range e.balls {
		ke += b.KineticEnergy()
		speedSq += b.SpeedSquared()
	}

	e.time += dt
	e.kineticEnergy = ke
	e.rmsSpeed = math.Sqrt(speedSq / float64(len(e.balls)))
	if e.time > 0 {
		e.pressure = e.wallImpulse / (e.circumference * e.time)
	} else {
		e.pressure = 0
	}
}

// Run replays a fixed number of events. Cancellation is checked between
// events; an event is never split.
func (e *Engine) Run(ctx context.Context, events int) error {
	for i := 0; i < events; i++ {
		select {
		case <-ctx.Done():
			return ctx.Err()
		default:
		}
		if err := e.Step(); err != nil {
			return err
		}
	}
	return nil
}
