package fountain

import "github.com/go-gl/mathgl/mgl32"

// Particle defines the general components of a fountain particle.
type Particle struct {
	Position mgl32.Vec3
	Velocity mgl32.Vec3
	Age      float32
	Lifespan float32
	Color    mgl32.Vec4
}

// Alpha returns the particle opacity computed by the last Advance.
// It is not clamped and can be negative.
func (p *Particle) Alpha() float32 {
	return p.Color[3]
}

// Expired reports whether the particle outlived its lifespan.
func (p *Particle) Expired() bool {
	return p.Age > p.Lifespan
}

// Visible reports whether the particle should be drawn.
func (p *Particle) Visible() bool {
	return !p.Expired() && p.Alpha() > 0
}

// Point is a renderable particle: a world position and an RGBA color.
type Point struct {
	Position mgl32.Vec3 `json:"p"`
	Color    mgl32.Vec4 `json:"c"`
}
