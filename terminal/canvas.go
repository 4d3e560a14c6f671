package terminal

import (
	"math"

	"github.com/go-gl/mathgl/mgl32"
	"github.com/nsf/termbox-go"

	"github.com/esimov/ascii-fountain/camera"
	"github.com/esimov/ascii-fountain/fountain"
)

// cellAspect is the height/width ratio of a terminal cell.
const cellAspect = 2.0

// groundExtent is the half size of the ground plane in world units.
const groundExtent = 20

// Canvas is a depth-tested cell back buffer.
type Canvas struct {
	w, h  int
	cells []termbox.Cell
	depth []float32
}

// NewCanvas allocates a w×h canvas.
func NewCanvas(w, h int) *Canvas {
	c := new(Canvas)
	c.Resize(w, h)
	return c
}

// Resize reallocates the back buffer when the size changed.
func (c *Canvas) Resize(w, h int) {
	if w < 0 {
		w = 0
	}
	if h < 0 {
		h = 0
	}
	if w == c.w && h == c.h && c.cells != nil {
		return
	}
	c.w, c.h = w, h
	c.cells = make([]termbox.Cell, w*h)
	c.depth = make([]float32, w*h)
}

// Size returns the canvas dimensions.
func (c *Canvas) Size() (int, int) {
	return c.w, c.h
}

// Cells returns the back buffer, row major.
func (c *Canvas) Cells() []termbox.Cell {
	return c.cells
}

// At returns the cell at x, y.
func (c *Canvas) At(x, y int) termbox.Cell {
	return c.cells[y*c.w+x]
}

// Clear fills the canvas with blanks on bg and resets the depth buffer.
func (c *Canvas) Clear(bg termbox.Attribute) {
	for i := range c.cells {
		c.cells[i] = termbox.Cell{Ch: ' ', Bg: bg}
		c.depth[i] = math.MaxFloat32
	}
}

// Plot writes ch at x, y when depth is nearer than what the cell holds.
func (c *Canvas) Plot(x, y int, depth float32, ch rune, fg termbox.Attribute) bool {
	if x < 0 || y < 0 || x >= c.w || y >= c.h {
		return false
	}
	i := y*c.w + x
	if depth >= c.depth[i] {
		return false
	}
	c.depth[i] = depth
	c.cells[i].Ch = ch
	c.cells[i].Fg = fg
	return true
}

// Backdrop writes ch at x, y without touching the depth buffer, so anything
// plotted afterwards covers it. Cells already holding a plotted point are
// left alone.
func (c *Canvas) Backdrop(x, y int, ch rune, fg termbox.Attribute) {
	if x < 0 || y < 0 || x >= c.w || y >= c.h {
		return
	}
	i := y*c.w + x
	if c.depth[i] != math.MaxFloat32 {
		return
	}
	c.cells[i].Ch = ch
	c.cells[i].Fg = fg
}

// Text writes s on row y starting at x, ignoring depth.
func (c *Canvas) Text(x, y int, s string, fg, bg termbox.Attribute) {
	if y < 0 || y >= c.h {
		return
	}
	for _, r := range s {
		if x >= c.w {
			return
		}
		if x >= 0 {
			c.cells[y*c.w+x] = termbox.Cell{Ch: r, Fg: fg, Bg: bg}
		}
		x++
	}
}

// DrawScene renders the ground plane, the emitter and the frame points as
// seen by cam. The ground is a backdrop: it never hides the emitter or a
// particle.
func (c *Canvas) DrawScene(cam camera.Camera, f fountain.Frame) {
	bg := color256(clearColor)
	c.Clear(bg)
	if c.w == 0 || c.h == 0 {
		return
	}

	target := mgl32.Vec3{f.Emitter.X(), 0, f.Emitter.Z()}
	p := camera.NewProjector(cam, target, c.w, c.h, cellAspect)

	ground := color256(groundColor)
	for gx := -groundExtent; gx <= groundExtent; gx++ {
		for gz := -groundExtent; gz <= groundExtent; gz++ {
			if x, y, _, ok := p.Project(mgl32.Vec3{float32(gx), 0, float32(gz)}); ok {
				c.Backdrop(x, y, '.', ground)
			}
		}
	}

	if x, y, d, ok := p.Project(f.Emitter); ok {
		c.Plot(x, y, d, 'O', color256(emitterColor))
	}

	for _, pt := range f.Points {
		x, y, d, ok := p.Project(pt.Position)
		if !ok {
			continue
		}
		c.Plot(x, y, d, glyph(pt.Color[3]), color256(blend(pt.Color)))
	}
}
