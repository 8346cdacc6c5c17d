// Package state loads, saves and procedurally generates initial gas
// configurations. A configuration is a CSV file with one ball per row:
//
//	x, y, vx, vy, mass, radius
//
// The generator guarantees the layout the engine assumes: every ball inside
// the container and no two balls overlapping.
package state

import (
	"encoding/csv"
	"errors"
	"fmt"
	"math"
	"math/rand"
	"os"
	"strconv"

	"github.com/san-kum/gassim/internal/gas"
)

var (
	// ErrBadRow indicates a configuration row with the wrong arity or a
	// value that does not parse to a finite number.
	ErrBadRow = errors.New("state: malformed configuration row")

	// ErrTooCrowded indicates the generator could not place a ball without
	// overlap within the attempt budget.
	ErrTooCrowded = errors.New("state: container too crowded to place ball")
)

const fieldsPerBall = 6

// maxPlacementAttempts bounds the rejection-sampling loop per ball.
const maxPlacementAttempts = 500

// Load reads an initial configuration from a CSV file.
func Load(path string) ([]*gas.Ball, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	r := csv.NewReader(f)
	r.FieldsPerRecord = -1

	records, err := r.ReadAll()
	if err != nil {
		return nil, err
	}

	balls := make([]*gas.Ball, 0, len(records))
	for i, record := range records {
		b, err := parseRow(record)
		if err != nil {
			return nil, fmt.Errorf("row %d: %w", i+1, err)
		}
		balls = append(balls, b)
	}
	return balls, nil
}

func parseRow(record []string) (*gas.Ball, error) {
	if len(record) != fieldsPerBall {
		return nil, fmt.Errorf("%w: expected %d fields, got %d", ErrBadRow, fieldsPerBall, len(record))
	}

	vals := make([]float64, fieldsPerBall)
	for i, field := range record {
		v, err := strconv.ParseFloat(field, 64)
		if err != nil {
			return nil, fmt.Errorf("%w: field %d: %v", ErrBadRow, i+1, err)
		}
		if math.IsNaN(v) || math.IsInf(v, 0) {
			return nil, fmt.Errorf("%w: field %d is not finite", ErrBadRow, i+1)
		}
		vals[i] = v
	}

	b, err := gas.NewBall(
		gas.Vec2{X: vals[0], Y: vals[1]},
		gas.Vec2{X: vals[2], Y: vals[3]},
		vals[4], vals[5],
	)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrBadRow, err)
	}
	return b, nil
}

// Save writes a configuration in the same format Load reads.
func Save(path string, balls []*gas.Ball) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	defer f.Close()

	w := csv.NewWriter(f)
	defer w.Flush()

	for _, b := range balls {
		row := []string{
			strconv.FormatFloat(b.Pos.X, 'f', -1, 64),
			strconv.FormatFloat(b.Pos.Y, 'f', -1, 64),
			strconv.FormatFloat(b.Vel.X, 'f', -1, 64),
			strconv.FormatFloat(b.Vel.Y, 'f', -1, 64),
			strconv.FormatFloat(b.Mass, 'f', -1, 64),
			strconv.FormatFloat(b.Radius, 'f', -1, 64),
		}
		if err := w.Write(row); err != nil {
			return err
		}
	}
	return nil
}

// GenSpec parameterizes procedural generation.
type GenSpec struct {
	ContainerRadius float64
	NumBalls        int
	Mass            float64
	Radius          float64
	RMSSpeed        float64
	Seed            int64
}

// Generate places NumBalls uniformly inside the container by rejection
// sampling, retrying each placement until it neither overlaps a previous
// ball nor pokes outside the wall. Every ball gets speed RMSSpeed with a
// random direction, so the nominal RMS speed of the gas equals RMSSpeed
// exactly.
func Generate(spec GenSpec) ([]*gas.Ball, error) {
	if spec.Radius >= spec.ContainerRadius {
		return nil, fmt.Errorf("%w: ball radius %v exceeds container", ErrTooCrowded, spec.Radius)
	}

	rng := rand.New(rand.NewSource(spec.Seed))
	balls := make([]*gas.Ball, 0, spec.NumBalls)
	bounds := spec.ContainerRadius - spec.Radius

	for i := 0; i < spec.NumBalls; i++ {
		pos, err := placeBall(rng, balls, bounds, spec.Radius)
		if err != nil {
			return nil, fmt.Errorf("ball %d of %d: %w", i+1, spec.NumBalls, err)
		}

		b, err := gas.NewBall(pos, drawVelocity(rng, spec.RMSSpeed), spec.Mass, spec.Radius)
		if err != nil {
			return nil, err
		}
		balls = append(balls, b)
	}
	return balls, nil
}

func placeBall(rng *rand.Rand, placed []*gas.Ball, bounds, radius float64) (gas.Vec2, error) {
	for attempt := 0; attempt < maxPlacementAttempts; attempt++ {
		pos := gas.Vec2{
			X: rng.Float64()*2*bounds - bounds,
			Y: rng.Float64()*2*bounds - bounds,
		}
		if pos.Norm() > bounds {
			continue
		}
		if overlapsAny(pos, radius, placed) {
			continue
		}
		return pos, nil
	}
	return gas.Vec2{}, ErrTooCrowded
}

func overlapsAny(pos gas.Vec2, radius float64, placed []*gas.Ball) bool {
	for _, b := range placed {
		if pos.Sub(b.Pos).Norm() <= radius+b.Radius {
			return true
		}
	}
	return false
}

// drawVelocity returns a velocity of fixed magnitude with uniformly random
// x component and random vertical sign. For a Maxwell-like speed spread,
// draw both components from a normal distribution instead.
func drawVelocity(rng *rand.Rand, speed float64) gas.Vec2 {
	vx := rng.Float64()*2*speed - speed
	vy := math.Sqrt(speed*speed - vx*vx)
	if rng.Intn(2) == 0 {
		vy = -vy
	}
	return gas.Vec2{X: vx, Y: vy}
}
