package camera

import (
	"math"

	"github.com/go-gl/mathgl/mgl32"

	"github.com/esimov/ascii-fountain/fountain"
)

const (
	radiusStep = 0.1
	eyeStep    = 0.05
	angleStep  = 0.01
	minRadius  = 0.5
)

// Camera orbits a fixed centre on the ground plane and looks at the emitter.
type Camera struct {
	CenterX, CenterZ float32
	Radius           float32
	Angle            float32
	EyeY             float32
	FovY             float32
	Near, Far        float32
}

// Default returns the camera of the classic fountain scene.
func Default() Camera {
	return Camera{
		CenterX: 0,
		CenterZ: -5,
		Radius:  13,
		Angle:   math.Pi / 2,
		EyeY:    5,
		FovY:    mgl32.DegToRad(60),
		Near:    0.1,
		Far:     100,
	}
}

// Eye returns the camera position.
func (c Camera) Eye() mgl32.Vec3 {
	a := float64(c.Angle)
	return mgl32.Vec3{
		c.CenterX + c.Radius*float32(math.Cos(a)),
		c.EyeY,
		c.CenterZ + c.Radius*float32(math.Sin(a)),
	}
}

// ViewProjection returns the matrix mapping world space to clip space when
// looking at target through a viewport of the given aspect ratio.
func (c Camera) ViewProjection(target mgl32.Vec3, aspect float32) mgl32.Mat4 {
	if aspect <= 0 {
		aspect = 1
	}
	view := mgl32.LookAtV(c.Eye(), target, mgl32.Vec3{0, 1, 0})
	proj := mgl32.Perspective(c.FovY, aspect, c.Near, c.Far)
	return proj.Mul4(view)
}

// Apply handles camera actions and reports whether k was one.
func (c *Camera) Apply(k fountain.Kind) bool {
	switch k {
	case fountain.ZoomOut:
		c.Radius += radiusStep
	case fountain.ZoomIn:
		c.Radius -= radiusStep
		if c.Radius < minRadius {
			c.Radius = minRadius
		}
	case fountain.RaiseEye:
		c.EyeY += eyeStep
	case fountain.LowerEye:
		c.EyeY -= eyeStep
	case fountain.OrbitRight:
		c.Angle -= angleStep
	case fountain.OrbitLeft:
		c.Angle += angleStep
	default:
		return false
	}
	c.Angle = wrapAngle(c.Angle)
	return true
}

func wrapAngle(a float32) float32 {
	const full = 2 * math.Pi
	for a < 0 {
		a += full
	}
	for a >= full {
		a -= full
	}
	return a
}

// Projector maps world points onto a w×h grid of pixels or cells.
type Projector struct {
	m    mgl32.Mat4
	w, h int
}

// NewProjector builds a projector for a w×h viewport whose units are
// pixelAspect times taller than wide.
func NewProjector(cam Camera, target mgl32.Vec3, w, h int, pixelAspect float32) Projector {
	aspect := float32(1)
	if w > 0 && h > 0 && pixelAspect > 0 {
		aspect = float32(w) / (float32(h) * pixelAspect)
	}
	return Projector{m: cam.ViewProjection(target, aspect), w: w, h: h}
}

// Project returns the grid position of v and its distance along the view
// axis. ok is false when v is outside the view volume.
func (p Projector) Project(v mgl32.Vec3) (x, y int, depth float32, ok bool) {
	clip := p.m.Mul4x1(v.Vec4(1))
	w := clip.W()
	if w <= 0 {
		return 0, 0, 0, false
	}
	ndc := clip.Vec3().Mul(1 / w)
	if ndc.X() < -1 || ndc.X() > 1 || ndc.Y() < -1 || ndc.Y() > 1 || ndc.Z() < -1 || ndc.Z() > 1 {
		return 0, 0, 0, false
	}
	x = int((ndc.X() + 1) / 2 * float32(p.w))
	y = int((1 - ndc.Y()) / 2 * float32(p.h))
	if x >= p.w {
		x = p.w - 1
	}
	if y >= p.h {
		y = p.h - 1
	}
	return x, y, w, true
}
