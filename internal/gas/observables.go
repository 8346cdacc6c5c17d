package gas

// Snapshot is the read-only aggregate view exposed after every event and at
// the start and end of a run.
type Snapshot struct {
	Time           float64
	KineticEnergy  float64
	RMSSpeed       float64
	Pressure       float64
	BallCollisions int
	WallCollisions int
	NumBalls       int
}

// Snapshot returns the current aggregate observables.
func (e *Engine) Snapshot() Snapshot {
	return Snapshot{
		Time:           e.time,
		KineticEnergy:  e.kineticEnergy,
		RMSSpeed:       e.rmsSpeed,
		Pressure:       e.pressure,
		BallCollisions: e.ballCollisions,
		WallCollisions: e.wallCollisions,
		NumBalls:       len(e.balls),
	}
}

// BallReport is the per-ball derived view, requested only at coarse
// checkpoints since it allocates per ball.
type BallReport struct {
	Speed         float64
	KineticEnergy float64
	MeanFreePath  float64
	Momentum      Vec2
}

// Report derives the per-ball observables for the current state.
func (e *Engine) Report() []BallReport {
	reports := make([]BallReport, len(e.balls))
	for i, b := range e.balls {
		reports[i] = BallReport{
			Speed:         b.Speed(),
			KineticEnergy: b.KineticEnergy(),
			MeanFreePath:  b.MeanFreePath(),
			Momentum:      b.Momentum(),
		}
	}
	return reports
}

// TotalMomentum sums the momenta of all balls. Wall events change it by
// exactly the recorded impulse; ball-ball events leave it unchanged.
func (e *Engine) TotalMomentum() Vec2 {
	var p Vec2
	for _, b := range e.balls {
		p = p.Add(b.Momentum())
	}
	return p
}
