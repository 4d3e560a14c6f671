package terminal

import (
	"github.com/go-gl/mathgl/mgl32"
	"github.com/nsf/termbox-go"
)

var (
	clearColor   = mgl32.Vec3{0.2, 0.2, 0.5}
	groundColor  = mgl32.Vec3{0.1, 0.4, 0.05}
	emitterColor = mgl32.Vec3{0, 0, 1}
	statusColor  = mgl32.Vec3{1, 1, 1}
)

// particleGlyphs go from opaque to almost transparent.
var particleGlyphs = []rune{'@', 'o', '*', '\''}

func clamp01(v float32) float32 {
	switch {
	case v < 0:
		return 0
	case v > 1:
		return 1
	}
	return v
}

// blend composites c over the clear color.
func blend(c mgl32.Vec4) mgl32.Vec3 {
	a := clamp01(c[3])
	return c.Vec3().Mul(a).Add(clearColor.Mul(1 - a))
}

// color256 returns the closest entry of the xterm 6×6×6 color cube, as a
// termbox attribute for Output256 mode.
func color256(c mgl32.Vec3) termbox.Attribute {
	level := func(v float32) int {
		return int(clamp01(v)*5 + 0.5)
	}
	idx := 16 + 36*level(c[0]) + 6*level(c[1]) + level(c[2])
	return termbox.Attribute(idx + 1)
}

func glyph(alpha float32) rune {
	a := clamp01(alpha)
	i := int((1 - a) * float32(len(particleGlyphs)))
	if i >= len(particleGlyphs) {
		i = len(particleGlyphs) - 1
	}
	return particleGlyphs[i]
}
