//go:build js && wasm

package canvas

import (
	"fmt"
	"math"
	"sync"
	"syscall/js"

	"github.com/go-gl/mathgl/mgl32"

	"github.com/esimov/ascii-fountain/camera"
	"github.com/esimov/ascii-fountain/fountain"
)

// Canvas draws the frames streamed by the server on an HTML canvas.
type Canvas struct {
	window js.Value
	doc    js.Value
	canvas js.Value
	ctx    js.Value
	socket js.Value

	mu     sync.Mutex
	frame  framePayload
	camera camera.Camera

	width, height int
}

// NewCanvas creates a full window canvas element.
func NewCanvas() *Canvas {
	var c Canvas
	c.window = js.Global()
	c.doc = c.window.Get("document")
	c.canvas = c.doc.Call("createElement", "canvas")
	c.doc.Get("body").Call("appendChild", c.canvas)
	c.ctx = c.canvas.Call("getContext", "2d")
	c.camera = camera.Default()
	c.resize()

	c.window.Call("addEventListener", "resize", js.FuncOf(func(this js.Value, args []js.Value) interface{} {
		c.resize()
		return nil
	}))
	return &c
}

func (c *Canvas) resize() {
	c.width = c.window.Get("innerWidth").Int()
	c.height = c.window.Get("innerHeight").Int()
	c.canvas.Set("width", c.width)
	c.canvas.Set("height", c.height)
}

// Render starts the animation loop and blocks forever.
func (c *Canvas) Render() {
	var renderFrame js.Func
	renderFrame = js.FuncOf(func(this js.Value, args []js.Value) interface{} {
		c.draw()
		c.window.Call("requestAnimationFrame", renderFrame)
		return nil
	})
	c.window.Call("requestAnimationFrame", renderFrame)
	select {}
}

func (c *Canvas) draw() {
	c.mu.Lock()
	f := c.frame
	cam := c.camera
	c.mu.Unlock()

	c.ctx.Set("fillStyle", "rgb(51,51,128)")
	c.ctx.Call("fillRect", 0, 0, c.width, c.height)

	target := mgl32.Vec3{f.Emitter.X(), 0, f.Emitter.Z()}
	p := camera.NewProjector(cam, target, c.width, c.height, 1)

	c.ctx.Set("fillStyle", "rgb(25,102,13)")
	for gx := -20; gx <= 20; gx++ {
		for gz := -20; gz <= 20; gz++ {
			if x, y, _, ok := p.Project(mgl32.Vec3{float32(gx), 0, float32(gz)}); ok {
				c.ctx.Call("fillRect", x, y, 2, 2)
			}
		}
	}

	if x, y, d, ok := p.Project(f.Emitter); ok {
		c.ctx.Set("fillStyle", "rgb(0,0,255)")
		c.ctx.Call("beginPath")
		c.ctx.Call("arc", x, y, pointRadius(0.2*40, d), 0, 2*math.Pi)
		c.ctx.Call("fill")
	}

	size := f.Size
	if size <= 0 {
		size = fountain.DefaultParams().ParticleSize
	}
	for _, pt := range f.Points {
		x, y, _, ok := p.Project(pt.Position)
		if !ok {
			continue
		}
		col := pt.Color
		c.ctx.Set("fillStyle", fmt.Sprintf("rgba(%d,%d,%d,%.3f)",
			channel(col[0]), channel(col[1]), channel(col[2]), clamp01(col[3])))
		c.ctx.Call("fillRect", x, y, size, size)
	}
}

func pointRadius(r, depth float32) float32 {
	if depth <= 0 {
		return r
	}
	return r * 13 / depth
}

func clamp01(v float32) float32 {
	switch {
	case v < 0:
		return 0
	case v > 1:
		return 1
	}
	return v
}

func channel(v float32) int {
	return int(clamp01(v)*255 + 0.5)
}

// Alert calls the `alert` Javascript function
func (c *Canvas) Alert(message string) {
	c.window.Call("alert", message)
}

// Log calls the `console.log` Javascript function
func (c *Canvas) Log(args ...interface{}) {
	c.window.Get("console").Call("log", args...)
}
