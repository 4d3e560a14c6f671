package fountain

import "github.com/go-gl/mathgl/mgl32"

// Mirror draws a second fountain out of the same particles: every frame each
// visible point is randomly drawn either where it is or shifted by Offset on
// the ground plane with its red channel saturated.
type Mirror struct {
	Enabled bool       `json:"enabled"`
	Offset  mgl32.Vec3 `json:"offset"`
}

// DefaultMirror returns the mirror used by the classic fountain.
func DefaultMirror() Mirror {
	return Mirror{Enabled: true, Offset: mgl32.Vec3{0, 0, -5}}
}

// Compose rewrites points in place. The vertical component of the offset is
// ignored.
func (m Mirror) Compose(points []Point, src Source) {
	if !m.Enabled {
		return
	}
	for i := range points {
		if src.Intn(2) == 0 {
			continue
		}
		pt := &points[i]
		pt.Position[0] += m.Offset[0]
		pt.Position[2] += m.Offset[2]
		pt.Color[0] = 1.0
	}
}
