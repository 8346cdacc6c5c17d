package gas_test

import (
	"context"
	"errors"
	"math"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/san-kum/gassim/internal/gas"
)

const containerRadius = 10.0

// fourBallGas is a deterministic layout that produces both wall and
// ball-ball events within a few dozen steps.
func fourBallGas() []*gas.Ball {
	specs := []struct {
		pos, vel gas.Vec2
		mass     float64
	}{
		{gas.Vec2{X: -5, Y: 0}, gas.Vec2{X: 1.5, Y: 0.2}, 1},
		{gas.Vec2{X: 5, Y: 0.5}, gas.Vec2{X: -1.1, Y: -0.3}, 1},
		{gas.Vec2{X: 0, Y: 5}, gas.Vec2{X: 0.4, Y: -1.7}, 2},
		{gas.Vec2{X: 0, Y: -5}, gas.Vec2{X: -0.6, Y: 1.3}, 0.5},
	}

	balls := make([]*gas.Ball, 0, len(specs))
	for _, s := range specs {
		b, err := gas.NewBall(s.pos, s.vel, s.mass, 1)
		Expect(err).NotTo(HaveOccurred())
		balls = append(balls, b)
	}
	return balls
}

func totalEnergy(e *gas.Engine) float64 {
	ke := 0.0
	for _, b := range e.Balls() {
		ke += b.KineticEnergy()
	}
	return ke
}

var _ = Describe("Engine", func() {
	var eng *gas.Engine

	BeforeEach(func() {
		var err error
		eng, err = gas.NewEngine(containerRadius, fourBallGas())
		Expect(err).NotTo(HaveOccurred())
	})

	Describe("construction", func() {
		It("rejects an empty ball set", func() {
			_, err := gas.NewEngine(containerRadius, nil)
			Expect(err).To(MatchError(gas.ErrNoBalls))
		})

		It("rejects a bad container radius", func() {
			_, err := gas.NewEngine(-1, fourBallGas())
			Expect(err).To(MatchError(gas.ErrBadContainer))

			_, err = gas.NewEngine(math.NaN(), fourBallGas())
			Expect(err).To(MatchError(gas.ErrBadContainer))
		})

		It("reports initial observables at time zero", func() {
			snap := eng.Snapshot()
			Expect(snap.Time).To(BeZero())
			Expect(snap.Pressure).To(BeZero())
			Expect(snap.KineticEnergy).To(BeNumerically(">", 0))
			Expect(snap.NumBalls).To(Equal(4))
		})
	})

	Describe("event replay", func() {
		It("conserves kinetic energy across events", func() {
			initial := totalEnergy(eng)
			for i := 0; i < 200; i++ {
				Expect(eng.Step()).To(Succeed())
				Expect(totalEnergy(eng)).To(BeNumerically("~", initial, 1e-9))
			}
		})

		It("keeps every ball inside the container at event boundaries", func() {
			for i := 0; i < 200; i++ {
				Expect(eng.Step()).To(Succeed())
				for _, b := range eng.Balls() {
					Expect(b.Pos.Norm() + b.Radius).To(BeNumerically("<=", containerRadius+1e-9))
				}
			}
		})

		It("never lets balls interpenetrate at event boundaries", func() {
			for i := 0; i < 200; i++ {
				Expect(eng.Step()).To(Succeed())
				balls := eng.Balls()
				for a := 0; a < len(balls); a++ {
					for b := a + 1; b < len(balls); b++ {
						dist := balls[a].Pos.Sub(balls[b].Pos).Norm()
						Expect(dist).To(BeNumerically(">=", balls[a].Radius+balls[b].Radius-1e-9))
					}
				}
			}
		})

		It("conserves momentum except for recorded wall impulses", func() {
			for i := 0; i < 100; i++ {
				before := eng.TotalMomentum()
				wallBefore := eng.Snapshot().WallCollisions
				Expect(eng.Step()).To(Succeed())
				after := eng.TotalMomentum()

				if eng.Snapshot().WallCollisions == wallBefore {
					// Ball-ball event: total momentum unchanged.
					Expect(after.Sub(before).Norm()).To(BeNumerically("<", 1e-10))
				} else {
					// Wall event: momentum changes by a nonzero impulse.
					Expect(after.Sub(before).Norm()).To(BeNumerically(">", 0))
				}
			}
		})

		It("advances the clock monotonically", func() {
			last := eng.Time()
			for i := 0; i < 100; i++ {
				Expect(eng.Step()).To(Succeed())
				Expect(eng.Time()).To(BeNumerically(">=", last))
				last = eng.Time()
			}
		})

		It("accumulates collision counters", func() {
			Expect(eng.Run(context.Background(), 150)).To(Succeed())
			snap := eng.Snapshot()
			Expect(snap.BallCollisions + snap.WallCollisions).To(Equal(150))
			Expect(snap.Pressure).To(BeNumerically(">", 0))
		})

		It("replays identically for identical initial configurations", func() {
			other, err := gas.NewEngine(containerRadius, fourBallGas())
			Expect(err).NotTo(HaveOccurred())

			for i := 0; i < 200; i++ {
				Expect(eng.Step()).To(Succeed())
				Expect(other.Step()).To(Succeed())
			}

			Expect(other.Snapshot()).To(Equal(eng.Snapshot()))
			for i, b := range eng.Balls() {
				Expect(other.Balls()[i].Pos).To(Equal(b.Pos))
				Expect(other.Balls()[i].Vel).To(Equal(b.Vel))
			}
		})
	})

	Describe("per-ball reports", func() {
		It("derives speed, energy, mean free path and momentum", func() {
			Expect(eng.Run(context.Background(), 50)).To(Succeed())

			reports := eng.Report()
			Expect(reports).To(HaveLen(4))
			for i, r := range reports {
				b := eng.Balls()[i]
				Expect(r.Speed).To(BeNumerically("~", b.Vel.Norm(), 1e-12))
				Expect(r.KineticEnergy).To(BeNumerically("~", b.KineticEnergy(), 1e-12))
				Expect(r.Momentum).To(Equal(b.Momentum()))
			}
		})
	})

	Describe("stalling", func() {
		It("fails with ErrStalled when no collision can ever occur", func() {
			b, err := gas.NewBall(gas.Vec2{}, gas.Vec2{}, 1, 1)
			Expect(err).NotTo(HaveOccurred())

			still, err := gas.NewEngine(containerRadius, []*gas.Ball{b})
			Expect(err).NotTo(HaveOccurred())

			Expect(still.Step()).To(MatchError(gas.ErrStalled))
		})

		It("surfaces the stall through Run", func() {
			b, err := gas.NewBall(gas.Vec2{}, gas.Vec2{}, 1, 1)
			Expect(err).NotTo(HaveOccurred())

			still, err := gas.NewEngine(containerRadius, []*gas.Ball{b})
			Expect(err).NotTo(HaveOccurred())

			err = still.Run(context.Background(), 10)
			Expect(errors.Is(err, gas.ErrStalled)).To(BeTrue())
		})
	})

	Describe("cancellation", func() {
		It("stops between events when the context is canceled", func() {
			ctx, cancel := context.WithCancel(context.Background())
			cancel()
			err := eng.Run(ctx, 100)
			Expect(err).To(MatchError(context.Canceled))
		})
	})

	Describe("observers", func() {
		It("notifies after every event", func() {
			var got []gas.Snapshot
			eng.AddObserver(observerFunc(func(s gas.Snapshot) {
				got = append(got, s)
			}))

			Expect(eng.Run(context.Background(), 25)).To(Succeed())
			Expect(got).To(HaveLen(25))
			Expect(got[24]).To(Equal(eng.Snapshot()))
		})
	})
})

type observerFunc func(gas.Snapshot)

func (f observerFunc) OnEvent(s gas.Snapshot) { f(s) }
