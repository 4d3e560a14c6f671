package fountain

import (
	"math"

	"github.com/go-gl/mathgl/mgl32"
)

// Pool holds a fixed number of particles. Particles are never added or
// removed: an expired particle is respawned in place at the emitter.
type Pool struct {
	particles []Particle
	src       Source
}

// NewPool spawns n particles at the emitter. A non-positive n falls back to
// DefaultCapacity.
func NewPool(n int, emitter mgl32.Vec3, params *Params, src Source) *Pool {
	if n <= 0 {
		n = DefaultCapacity
	}
	p := &Pool{
		particles: make([]Particle, n),
		src:       src,
	}
	for i := range p.particles {
		pt := &p.particles[i]
		pt.Position = emitter
		pt.Velocity = spawnVelocity(src, params, initialLiftRange)
		pt.Age = 0
		pt.Lifespan = spawnLifespan(src)
		pt.Color = spawnColor(src)
	}
	return p
}

// Len returns the pool capacity.
func (p *Pool) Len() int {
	return len(p.particles)
}

// At returns a pointer to the i-th particle.
func (p *Pool) At(i int) *Particle {
	return &p.particles[i]
}

// Step returns the integration step used for a measured frame delta.
func Step(dt float32) float32 {
	switch {
	case math.IsNaN(float64(dt)) || dt < 0:
		return 0
	case dt > MaxStep:
		return FallbackStep
	}
	return dt
}

// Advance integrates every particle by dt seconds and recycles the ones that
// expired or fell below the ground plane.
func (p *Pool) Advance(dt float32, emitter mgl32.Vec3, params *Params) {
	dt = Step(dt)

	for i := range p.particles {
		pt := &p.particles[i]
		pt.Age += dt

		// Velocity is updated before position (semi-implicit Euler).
		pt.Velocity[1] += params.Gravity * dt
		pt.Position = pt.Position.Add(pt.Velocity.Mul(dt))

		r := pt.Age / pt.Lifespan
		pt.Color[3] = 1.0 - params.FadeSpeed*r*r

		if pt.Expired() || pt.Position.Y() < 0 {
			p.recycle(pt, emitter, params)
		}
	}
}

func (p *Pool) recycle(pt *Particle, emitter mgl32.Vec3, params *Params) {
	pt.Position = emitter.Add(mgl32.Vec3{0, RespawnLift, 0})
	pt.Velocity = spawnVelocity(p.src, params, recycleLiftRange)
	pt.Age = 0
	pt.Lifespan = spawnLifespan(p.src)
}

// Snapshot appends the visible particles to dst and returns the result.
// Expired or fully faded particles stay in the pool but are skipped.
func (p *Pool) Snapshot(dst []Point) []Point {
	dst = dst[:0]
	for i := range p.particles {
		pt := &p.particles[i]
		if !pt.Visible() {
			continue
		}
		dst = append(dst, Point{Position: pt.Position, Color: pt.Color})
	}
	return dst
}
