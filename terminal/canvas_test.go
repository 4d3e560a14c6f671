package terminal

import (
	"testing"

	"github.com/go-gl/mathgl/mgl32"
	"github.com/nsf/termbox-go"

	"github.com/esimov/ascii-fountain/camera"
	"github.com/esimov/ascii-fountain/fountain"
)

func TestCanvasPlotDepth(t *testing.T) {
	c := NewCanvas(4, 2)
	c.Clear(termbox.ColorDefault)

	if !c.Plot(1, 1, 5, 'a', termbox.ColorRed) {
		t.Fatal("Expected first plot to succeed")
	}
	if c.Plot(1, 1, 6, 'b', termbox.ColorRed) {
		t.Error("Expected farther plot to be rejected")
	}
	if !c.Plot(1, 1, 4, 'c', termbox.ColorRed) {
		t.Error("Expected nearer plot to win")
	}
	if got := c.At(1, 1).Ch; got != 'c' {
		t.Errorf("Expected 'c', got %q", got)
	}
	if c.Plot(4, 0, 1, 'x', termbox.ColorRed) || c.Plot(-1, 0, 1, 'x', termbox.ColorRed) {
		t.Error("Expected out of bounds plots to be rejected")
	}
}

func TestCanvasBackdrop(t *testing.T) {
	c := NewCanvas(4, 1)
	c.Clear(termbox.ColorDefault)

	c.Backdrop(0, 0, '.', termbox.ColorGreen)
	if got := c.At(0, 0).Ch; got != '.' {
		t.Fatalf("Expected backdrop '.', got %q", got)
	}
	if !c.Plot(0, 0, 1000, 'o', termbox.ColorRed) {
		t.Error("Expected a far plot to cover the backdrop")
	}

	c.Plot(1, 0, 5, 'o', termbox.ColorRed)
	c.Backdrop(1, 0, '.', termbox.ColorGreen)
	if got := c.At(1, 0).Ch; got != 'o' {
		t.Errorf("Expected backdrop to leave plotted cell alone, got %q", got)
	}
	c.Backdrop(4, 0, '.', termbox.ColorGreen)
}

func TestCanvasText(t *testing.T) {
	c := NewCanvas(3, 1)
	c.Clear(termbox.ColorDefault)
	c.Text(1, 0, "abc", termbox.ColorWhite, termbox.ColorDefault)
	if c.At(1, 0).Ch != 'a' || c.At(2, 0).Ch != 'b' {
		t.Errorf("Unexpected row %q%q%q", c.At(0, 0).Ch, c.At(1, 0).Ch, c.At(2, 0).Ch)
	}
}

func TestCanvasResize(t *testing.T) {
	c := NewCanvas(2, 2)
	c.Resize(10, 5)
	if w, h := c.Size(); w != 10 || h != 5 || len(c.Cells()) != 50 {
		t.Errorf("Expected 10x5 canvas, got %dx%d with %d cells", w, h, len(c.Cells()))
	}
}

func TestDrawScene(t *testing.T) {
	c := NewCanvas(80, 24)
	frame := fountain.Frame{
		Emitter: mgl32.Vec3{0, 0, -5},
		Points: []fountain.Point{
			{Position: mgl32.Vec3{0, 2, -5}, Color: mgl32.Vec4{0.6, 0.8, 1, 1}},
			{Position: mgl32.Vec3{0, 0, 40}, Color: mgl32.Vec4{0.6, 0.8, 1, 1}},
		},
	}
	c.DrawScene(camera.Default(), frame)

	count := map[rune]int{}
	for _, cell := range c.Cells() {
		count[cell.Ch]++
	}
	if count['@'] != 1 {
		t.Errorf("Expected one opaque particle, got %d", count['@'])
	}
	if count['O'] != 1 {
		t.Errorf("Expected the emitter to be drawn once, got %d", count['O'])
	}
	if count['.'] == 0 {
		t.Error("Expected the ground plane to be drawn")
	}
}

func TestGroundNeverHidesScene(t *testing.T) {
	const w, h = 80, 24
	cam := camera.Default()
	white := mgl32.Vec4{0.6, 0.8, 1, 1}

	tests := []struct {
		name    string
		emitter mgl32.Vec3
		point   *mgl32.Vec3
	}{
		{"Emitter behind the centre", mgl32.Vec3{0, 0, -5}, nil},
		{"Emitter off centre", mgl32.Vec3{2, 0, -3}, nil},
		{"Particle above a ground dot", mgl32.Vec3{0, 0, -5}, &mgl32.Vec3{3, 0.05, -7}},
		{"Particle close to the ground", mgl32.Vec3{0, 0, -5}, &mgl32.Vec3{-2, 0.01, -9}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			frame := fountain.Frame{Emitter: tt.emitter}
			want, at := 'O', tt.emitter
			if tt.point != nil {
				frame.Points = []fountain.Point{{Position: *tt.point, Color: white}}
				want, at = '@', *tt.point
			}

			c := NewCanvas(w, h)
			c.DrawScene(cam, frame)

			target := mgl32.Vec3{tt.emitter.X(), 0, tt.emitter.Z()}
			x, y, _, ok := camera.NewProjector(cam, target, w, h, cellAspect).Project(at)
			if !ok {
				t.Fatalf("Expected %v to be visible", at)
			}
			if got := c.At(x, y).Ch; got != want {
				t.Errorf("Expected %q at cell (%d,%d), got %q", want, x, y, got)
			}
		})
	}
}

func TestPalette(t *testing.T) {
	if got := color256(mgl32.Vec3{1, 1, 1}); got != termbox.Attribute(232) {
		t.Errorf("Expected white to map to 232, got %d", got)
	}
	if got := color256(mgl32.Vec3{0, 0, 0}); got != termbox.Attribute(17) {
		t.Errorf("Expected black to map to 17, got %d", got)
	}
	if got := blend(mgl32.Vec4{1, 0, 0, -0.5}); got != clearColor {
		t.Errorf("Expected transparent color to show the background, got %v", got)
	}
	if glyph(1) != '@' || glyph(0.01) != '\'' || glyph(-3) != '\'' {
		t.Errorf("Unexpected glyphs %q %q %q", glyph(1), glyph(0.01), glyph(-3))
	}
}

func TestKeyName(t *testing.T) {
	tests := []struct {
		ev   termbox.Event
		want string
	}{
		{termbox.Event{Type: termbox.EventKey, Ch: 'w'}, "w"},
		{termbox.Event{Type: termbox.EventKey, Ch: '+'}, "+"},
		{termbox.Event{Type: termbox.EventKey, Key: termbox.KeyEsc}, "Escape"},
		{termbox.Event{Type: termbox.EventKey, Key: termbox.KeyArrowRight}, "ArrowRight"},
		{termbox.Event{Type: termbox.EventKey, Key: termbox.KeyF1}, ""},
	}
	for _, tt := range tests {
		if got := keyName(tt.ev); got != tt.want {
			t.Errorf("keyName(%+v) = %q, want %q", tt.ev, got, tt.want)
		}
	}
}
