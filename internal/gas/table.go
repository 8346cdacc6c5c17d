package gas

import "math"

// CollisionTable holds the predicted time to every possible future contact,
// stored relative to the current simulation clock. Pair times live in a flat
// upper-triangular array addressed through a canonical (min,max) index, so
// the i<j half-matrix convention is enforced by the structure rather than by
// caller discipline. Wall times are a plain slice.
type CollisionTable struct {
	n   int
	b2b []float64 // n*(n-1)/2 pair entries
	b2w []float64 // n wall entries
}

func NewCollisionTable(n int) *CollisionTable {
	t := &CollisionTable{
		n:   n,
		b2b: make([]float64, n*(n-1)/2),
		b2w: make([]float64, n),
	}
	for i := range t.b2b {
		t.b2b[i] = math.Inf(1)
	}
	for i := range t.b2w {
		t.b2w[i] = math.Inf(1)
	}
	return t
}

// pairIndex maps an unordered pair to its slot in the flat triangle.
func (t *CollisionTable) pairIndex(i, j int) int {
	if i > j {
		i, j = j, i
	}
	// Row i of the upper triangle starts after i rows of decreasing length.
	return i*(2*t.n-i-1)/2 + (j - i - 1)
}

// Pair returns the stored time-to-contact for the unordered pair (i, j).
func (t *CollisionTable) Pair(i, j int) float64 {
	return t.b2b[t.pairIndex(i, j)]
}

// Wall returns the stored time until ball i touches the container wall.
func (t *CollisionTable) Wall(i int) float64 {
	return t.b2w[i]
}

// Rebuild recomputes every entry from scratch. O(N^2); used at startup only.
func (t *CollisionTable) Rebuild(balls []*Ball, containerRadius float64) {
	for i, b := range balls {
		t.b2w[i] = b.NextWallCollision(containerRadius)
		for j := i + 1; j < len(balls); j++ {
			t.b2b[t.pairIndex(i, j)] = b.NextBallCollision(balls[j])
		}
	}
}

// Decrement slides every entry back by dt as the clock advances. Subtraction
// leaves +Inf entries at +Inf.
func (t *CollisionTable) Decrement(dt float64) {
	for i := range t.b2w {
		t.b2w[i] -= dt
	}
	for i := range t.b2b {
		t.b2b[i] -= dt
	}
}

// Recompute repairs the entries invalidated by a collision: for each
// affected ball, its wall time and its pair time against every other ball.
// O(N) per affected id, so a full event costs O(N) instead of an O(N^2)
// rebuild.
func (t *CollisionTable) Recompute(ids []int, balls []*Ball, containerRadius float64) {
	for _, i := range ids {
		t.b2w[i] = balls[i].NextWallCollision(containerRadius)
		for j := range balls {
			if j == i {
				continue
			}
			t.b2b[t.pairIndex(i, j)] = balls[i].NextBallCollision(balls[j])
		}
	}
}

// Event is the earliest predicted contact in the table. A wall event names
// one ball (B == -1); a ball-ball event names two.
type Event struct {
	A  int
	B  int
	Dt float64
}

func (e Event) IsWall() bool { return e.B < 0 }

// NextEvent scans both tables and returns the earliest contact. On an exact
// tie between a wall and a pair contact the pair event wins: the wall branch
// is taken only on a strictly smaller time. Simultaneous contacts are
// physically degenerate, so any stable rule works; this one is kept for
// compatibility with prior runs.
func (t *CollisionTable) NextEvent() Event {
	wallID := 0
	wallTime := math.Inf(1)
	for i, v := range t.b2w {
		if v < wallTime {
			wallID, wallTime = i, v
		}
	}

	pairA, pairB := 0, 1
	pairTime := math.Inf(1)
	for i := 0; i < t.n; i++ {
		for j := i + 1; j < t.n; j++ {
			if v := t.b2b[t.pairIndex(i, j)]; v < pairTime {
				pairA, pairB, pairTime = i, j, v
			}
		}
	}

	if wallTime < pairTime {
		return Event{A: wallID, B: -1, Dt: wallTime}
	}
	return Event{A: pairA, B: pairB, Dt: pairTime}
}
