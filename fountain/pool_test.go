package fountain

import (
	"math"
	"math/rand"
	"testing"

	"github.com/go-gl/mathgl/mgl32"
)

// scriptedSource replays vals and records the bound of every draw.
type scriptedSource struct {
	vals   []int
	bounds []int
	i      int
}

func (s *scriptedSource) Intn(n int) int {
	s.bounds = append(s.bounds, n)
	v := 0
	if len(s.vals) > 0 {
		v = s.vals[s.i%len(s.vals)]
	}
	s.i++
	return v % n
}

func near(a, b float32) bool {
	return math.Abs(float64(a-b)) < 1e-5
}

func newTestPool(n int, emitter mgl32.Vec3, seed int64) (*Pool, *Params) {
	params := DefaultParams()
	return NewPool(n, emitter, &params, rand.New(rand.NewSource(seed))), &params
}

func TestNewPoolSpawnValues(t *testing.T) {
	params := DefaultParams()
	src := &scriptedSource{vals: []int{150, 4, 0, 19, 29}}
	emitter := mgl32.Vec3{1, 2, 3}
	pool := NewPool(1, emitter, &params, src)

	wantBounds := []int{200, 5, 200, 20, 30}
	if len(src.bounds) != len(wantBounds) {
		t.Fatalf("Expected %d draws, got %d", len(wantBounds), len(src.bounds))
	}
	for i, b := range wantBounds {
		if src.bounds[i] != b {
			t.Errorf("Draw %d: expected bound %d, got %d", i, b, src.bounds[i])
		}
	}

	pt := pool.At(0)
	if pt.Position != emitter {
		t.Errorf("Expected position %v, got %v", emitter, pt.Position)
	}
	want := mgl32.Vec3{0.3, 8.4, -0.6}
	for i := range want {
		if !near(pt.Velocity[i], want[i]) {
			t.Errorf("Velocity[%d]: expected %.4f, got %.4f", i, want[i], pt.Velocity[i])
		}
	}
	if pt.Age != 0 {
		t.Errorf("Expected age 0, got %f", pt.Age)
	}
	if !near(pt.Lifespan, 5.9) {
		t.Errorf("Expected lifespan 5.9, got %f", pt.Lifespan)
	}
	if !near(pt.Color[0], 0.79) || pt.Color[1] != 0.8 || pt.Color[2] != 1.0 || pt.Color[3] != 1.0 {
		t.Errorf("Unexpected color %v", pt.Color)
	}
}

func TestNewPoolDefaultCapacity(t *testing.T) {
	pool, _ := newTestPool(0, mgl32.Vec3{}, 1)
	if pool.Len() != DefaultCapacity {
		t.Errorf("Expected %d particles, got %d", DefaultCapacity, pool.Len())
	}
}

func TestSpawnRanges(t *testing.T) {
	pool, params := newTestPool(DefaultCapacity, mgl32.Vec3{}, 7)
	limit := params.Spread * params.Power
	for i := 0; i < pool.Len(); i++ {
		pt := pool.At(i)
		if pt.Lifespan < 4.0 || pt.Lifespan >= 6.0 {
			t.Errorf("Particle %d: lifespan %f out of [4,6)", i, pt.Lifespan)
		}
		if pt.Velocity.Y() < 10*params.Power || pt.Velocity.Y() >= 15*params.Power {
			t.Errorf("Particle %d: vy %f out of initial range", i, pt.Velocity.Y())
		}
		if pt.Velocity.X() < -limit || pt.Velocity.X() > limit {
			t.Errorf("Particle %d: vx %f out of range", i, pt.Velocity.X())
		}
		if pt.Color[0] < 0.5 || pt.Color[0] >= 0.8 {
			t.Errorf("Particle %d: red %f out of [0.5,0.8)", i, pt.Color[0])
		}
	}
}

func TestRecycleUsesWiderLiftRange(t *testing.T) {
	params := DefaultParams()
	src := &scriptedSource{vals: []int{100, 6, 100, 0, 0}}
	pool := NewPool(1, mgl32.Vec3{}, &params, src)
	src.bounds = nil

	pt := pool.At(0)
	pt.Age = pt.Lifespan + 0.5
	pool.Advance(0, mgl32.Vec3{}, &params)

	wantBounds := []int{200, 7, 200, 20}
	if len(src.bounds) != len(wantBounds) {
		t.Fatalf("Expected %d draws on recycle, got %v", len(wantBounds), src.bounds)
	}
	for i, b := range wantBounds {
		if src.bounds[i] != b {
			t.Errorf("Draw %d: expected bound %d, got %d", i, b, src.bounds[i])
		}
	}
}

func TestAdvanceIntegration(t *testing.T) {
	params := DefaultParams()
	pool := NewPool(1, mgl32.Vec3{}, &params, &scriptedSource{vals: []int{100, 0, 100, 10, 0}})
	pt := pool.At(0)
	pt.Velocity = mgl32.Vec3{1, 5, -2}
	pt.Position = mgl32.Vec3{0, 1, 0}

	var dt float32 = 0.05
	pool.Advance(dt, mgl32.Vec3{}, &params)

	vy := 5 + params.Gravity*dt
	if !near(pt.Velocity.Y(), vy) {
		t.Errorf("Expected vy %f, got %f", vy, pt.Velocity.Y())
	}
	// Position uses the already updated vertical velocity.
	if !near(pt.Position.Y(), 1+vy*dt) {
		t.Errorf("Expected y %f, got %f", 1+vy*dt, pt.Position.Y())
	}
	if !near(pt.Position.X(), 0.05) || !near(pt.Position.Z(), -0.1) {
		t.Errorf("Unexpected horizontal position %v", pt.Position)
	}
	r := dt / pt.Lifespan
	if !near(pt.Alpha(), 1-params.FadeSpeed*r*r) {
		t.Errorf("Expected alpha %f, got %f", 1-params.FadeSpeed*r*r, pt.Alpha())
	}
}

func TestAgeMonotonicUntilRecycle(t *testing.T) {
	emitter := mgl32.Vec3{0, 0, -5}
	pool, params := newTestPool(DefaultCapacity, emitter, 3)
	var dt float32 = 0.016

	prev := make([]float32, pool.Len())
	for step := 0; step < 600; step++ {
		for i := range prev {
			prev[i] = pool.At(i).Age
		}
		pool.Advance(dt, emitter, params)
		for i := range prev {
			age := pool.At(i).Age
			if age != 0 && age != prev[i]+dt {
				t.Fatalf("Step %d particle %d: age went from %f to %f", step, i, prev[i], age)
			}
		}
	}
}

func TestRecycleOnExpiry(t *testing.T) {
	emitter := mgl32.Vec3{2, 1, -3}
	pool, params := newTestPool(4, emitter, 11)
	pt := pool.At(2)
	pt.Position = mgl32.Vec3{5, 5, 5}
	pt.Age = pt.Lifespan + 0.001

	pool.Advance(0, emitter, params)

	if pt.Age != 0 {
		t.Errorf("Expected age reset to 0, got %f", pt.Age)
	}
	if pt.Lifespan < 4.0 || pt.Lifespan >= 6.0 {
		t.Errorf("Expected lifespan in [4,6), got %f", pt.Lifespan)
	}
	want := emitter.Add(mgl32.Vec3{0, RespawnLift, 0})
	if pt.Position != want {
		t.Errorf("Expected respawn at %v, got %v", want, pt.Position)
	}
}

func TestRecycleBelowGround(t *testing.T) {
	emitter := mgl32.Vec3{0, 0, -5}
	pool, params := newTestPool(1, emitter, 5)
	pt := pool.At(0)
	pt.Position = mgl32.Vec3{1, -0.01, 1}
	pt.Velocity = mgl32.Vec3{0, -1, 0}
	pt.Age = 0.5

	pool.Advance(0, emitter, params)

	if !near(pt.Position.Y(), emitter.Y()+RespawnLift) {
		t.Errorf("Expected respawn height %f, got %f", emitter.Y()+RespawnLift, pt.Position.Y())
	}
	if pt.Age != 0 {
		t.Errorf("Expected age 0 after ground contact, got %f", pt.Age)
	}
	if pt.Velocity.Y() <= 0 {
		t.Errorf("Expected upward velocity after respawn, got %f", pt.Velocity.Y())
	}
}

func TestStep(t *testing.T) {
	tests := []struct {
		name string
		dt   float32
		want float32
	}{
		{"Zero", 0, 0},
		{"Frame", 0.016, 0.016},
		{"At limit", MaxStep, MaxStep},
		{"Stall", 5.0, FallbackStep},
		{"Just over", 0.1001, FallbackStep},
		{"Negative", -1, 0},
		{"NaN", float32(math.NaN()), 0},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := Step(tt.dt); got != tt.want {
				t.Errorf("Expected %f, got %f", tt.want, got)
			}
		})
	}
}

func TestAdvanceClampsStall(t *testing.T) {
	emitter := mgl32.Vec3{0, 0, -5}
	stalled, params := newTestPool(64, emitter, 21)
	regular, _ := newTestPool(64, emitter, 21)

	stalled.Advance(5.0, emitter, params)
	regular.Advance(FallbackStep, emitter, params)

	for i := 0; i < stalled.Len(); i++ {
		if *stalled.At(i) != *regular.At(i) {
			t.Fatalf("Particle %d: stalled %+v != regular %+v", i, *stalled.At(i), *regular.At(i))
		}
	}
}

func TestSnapshotSkipsFadedParticles(t *testing.T) {
	pool, params := newTestPool(1, mgl32.Vec3{}, 9)
	pt := pool.At(0)
	pt.Position = mgl32.Vec3{0, 2, 0}
	pt.Velocity = mgl32.Vec3{}
	pt.Lifespan = 5
	pt.Age = 3 // 1 - 3*(0.6)^2 < 0

	pool.Advance(0, mgl32.Vec3{}, params)

	if pt.Alpha() > 0 {
		t.Fatalf("Expected non-positive alpha, got %f", pt.Alpha())
	}
	if pts := pool.Snapshot(nil); len(pts) != 0 {
		t.Errorf("Expected faded particle to be hidden, got %d points", len(pts))
	}
	if pool.Len() != 1 {
		t.Errorf("Expected faded particle to stay in the pool")
	}
}

func TestSnapshotSkipsExpiredParticles(t *testing.T) {
	pool, _ := newTestPool(3, mgl32.Vec3{}, 9)
	pool.At(1).Age = pool.At(1).Lifespan + 1

	pts := pool.Snapshot(make([]Point, 0, 3))
	if len(pts) != 2 {
		t.Errorf("Expected 2 visible points, got %d", len(pts))
	}
}

func TestSnapshotReusesBuffer(t *testing.T) {
	pool, _ := newTestPool(8, mgl32.Vec3{}, 2)
	buf := make([]Point, 0, 8)
	pts := pool.Snapshot(buf)
	if len(pts) != 8 {
		t.Fatalf("Expected 8 points, got %d", len(pts))
	}
	if &pts[0] != &buf[:1][0] {
		t.Errorf("Expected snapshot to reuse the destination buffer")
	}
}

func TestFountainRunsStable(t *testing.T) {
	emitter := mgl32.Vec3{0, 0, -5}
	pool, params := newTestPool(DefaultCapacity, emitter, 1234)

	for step := 0; step < 1000; step++ {
		pool.Advance(0.016, emitter, params)
		if pool.Len() != DefaultCapacity {
			t.Fatalf("Step %d: pool size changed to %d", step, pool.Len())
		}
		for i := 0; i < pool.Len(); i++ {
			pt := pool.At(i)
			if pt.Age < 0 || pt.Age > 6.0 {
				t.Fatalf("Step %d particle %d: age %f out of [0,6]", step, i, pt.Age)
			}
			if pt.Position.Y() < 0 {
				t.Fatalf("Step %d particle %d: below ground at %f", step, i, pt.Position.Y())
			}
		}
	}
}
