package state

import (
	"errors"
	"math"
	"os"
	"path/filepath"
	"testing"

	"github.com/san-kum/gassim/internal/gas"
)

func TestLoad_RoundTrip(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "initial.csv")

	b1, _ := gas.NewBall(gas.Vec2{X: -3, Y: 0.5}, gas.Vec2{X: 1.5, Y: -0.25}, 1, 1)
	b2, _ := gas.NewBall(gas.Vec2{X: 4, Y: -2}, gas.Vec2{X: -0.5, Y: 2}, 2.5, 0.75)

	if err := Save(path, []*gas.Ball{b1, b2}); err != nil {
		t.Fatal(err)
	}

	balls, err := Load(path)
	if err != nil {
		t.Fatal(err)
	}
	if len(balls) != 2 {
		t.Fatalf("expected 2 balls, got %d", len(balls))
	}

	if balls[0].Pos != b1.Pos || balls[0].Vel != b1.Vel {
		t.Errorf("ball 0 state mismatch: %+v", balls[0])
	}
	if balls[1].Mass != 2.5 || balls[1].Radius != 0.75 {
		t.Errorf("ball 1 parameter mismatch: %+v", balls[1])
	}
}

func TestLoad_MalformedRows(t *testing.T) {
	tests := []struct {
		name    string
		content string
	}{
		{"wrong arity", "1,2,3,4,5\n"},
		{"not a number", "1,2,3,4,five,1\n"},
		{"non-finite value", "1,2,3,4,+Inf,1\n"},
		{"zero mass", "1,2,3,4,0,1\n"},
		{"negative radius", "1,2,3,4,1,-1\n"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			path := filepath.Join(t.TempDir(), "bad.csv")
			if err := os.WriteFile(path, []byte(tt.content), 0644); err != nil {
				t.Fatal(err)
			}

			_, err := Load(path)
			if !errors.Is(err, ErrBadRow) {
				t.Errorf("expected ErrBadRow, got %v", err)
			}
		})
	}
}

func TestLoad_MissingFile(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "nope.csv"))
	if err == nil {
		t.Error("expected error for missing file")
	}
}

func TestGenerate_LayoutInvariants(t *testing.T) {
	spec := GenSpec{
		ContainerRadius: 10,
		NumBalls:        15,
		Mass:            1,
		Radius:          1,
		RMSSpeed:        5,
		Seed:            42,
	}

	balls, err := Generate(spec)
	if err != nil {
		t.Fatal(err)
	}
	if len(balls) != spec.NumBalls {
		t.Fatalf("expected %d balls, got %d", spec.NumBalls, len(balls))
	}

	for i, b := range balls {
		if b.Pos.Norm()+b.Radius > spec.ContainerRadius {
			t.Errorf("ball %d outside container: |pos|=%v", i, b.Pos.Norm())
		}
		if math.Abs(b.Speed()-spec.RMSSpeed) > 1e-9 {
			t.Errorf("ball %d speed %v, want %v", i, b.Speed(), spec.RMSSpeed)
		}
		for j := i + 1; j < len(balls); j++ {
			dist := b.Pos.Sub(balls[j].Pos).Norm()
			if dist <= b.Radius+balls[j].Radius {
				t.Errorf("balls %d and %d overlap: dist %v", i, j, dist)
			}
		}
	}
}

func TestGenerate_Deterministic(t *testing.T) {
	spec := GenSpec{ContainerRadius: 10, NumBalls: 8, Mass: 1, Radius: 1, RMSSpeed: 3, Seed: 7}

	a, err := Generate(spec)
	if err != nil {
		t.Fatal(err)
	}
	b, err := Generate(spec)
	if err != nil {
		t.Fatal(err)
	}

	for i := range a {
		if a[i].Pos != b[i].Pos || a[i].Vel != b[i].Vel {
			t.Errorf("ball %d differs across identical seeds", i)
		}
	}
}

func TestGenerate_TooCrowded(t *testing.T) {
	spec := GenSpec{ContainerRadius: 5, NumBalls: 100, Mass: 1, Radius: 1, RMSSpeed: 1, Seed: 1}

	_, err := Generate(spec)
	if !errors.Is(err, ErrTooCrowded) {
		t.Errorf("expected ErrTooCrowded, got %v", err)
	}
}

func TestGenerate_BallLargerThanContainer(t *testing.T) {
	spec := GenSpec{ContainerRadius: 1, NumBalls: 1, Mass: 1, Radius: 2, RMSSpeed: 1, Seed: 1}

	_, err := Generate(spec)
	if !errors.Is(err, ErrTooCrowded) {
		t.Errorf("expected ErrTooCrowded, got %v", err)
	}
}

func TestGenerate_FeedsEngine(t *testing.T) {
	spec := GenSpec{ContainerRadius: 10, NumBalls: 10, Mass: 1, Radius: 0.5, RMSSpeed: 4, Seed: 99}

	balls, err := Generate(spec)
	if err != nil {
		t.Fatal(err)
	}

	eng, err := gas.NewEngine(spec.ContainerRadius, balls)
	if err != nil {
		t.Fatal(err)
	}
	for i := 0; i < 50; i++ {
		if err := eng.Step(); err != nil {
			t.Fatalf("step %d: %v", i, err)
		}
	}
}
