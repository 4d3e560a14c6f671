package terminal

import (
	"context"
	"fmt"
	"sync"

	"github.com/nsf/termbox-go"

	"github.com/esimov/ascii-fountain/camera"
	"github.com/esimov/ascii-fountain/fountain"
)

const help = "WASD move  U/J power  I/K spread  arrows orbit  +/- zoom  M mirror  R reset  Q quit"

// Terminal renders the fountain with termbox and turns key presses into
// simulation actions. Camera keys are handled locally.
type Terminal struct {
	mu      sync.Mutex
	canvas  *Canvas
	camera  camera.Camera
	actions chan<- fountain.Action
}

// New creates a terminal front-end forwarding actions to the given channel.
func New(actions chan<- fountain.Action) *Terminal {
	return &Terminal{
		canvas:  NewCanvas(0, 0),
		camera:  camera.Default(),
		actions: actions,
	}
}

// Open takes over the screen.
func (t *Terminal) Open() error {
	if err := termbox.Init(); err != nil {
		return fmt.Errorf("terminal: init: %w", err)
	}
	termbox.SetInputMode(termbox.InputEsc)
	termbox.SetOutputMode(termbox.Output256)
	t.reallocBackBuffer(termbox.Size())
	return nil
}

// Close restores the screen.
func (t *Terminal) Close() {
	termbox.Close()
}

// Interrupt makes a pending Listen call return.
func (t *Terminal) Interrupt() {
	termbox.Interrupt()
}

// Camera returns a copy of the current camera.
func (t *Terminal) Camera() camera.Camera {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.camera
}

// Listen polls keyboard events until Interrupt is called, ctx is done or a
// termbox error occurs.
func (t *Terminal) Listen(ctx context.Context) error {
	for {
		switch ev := termbox.PollEvent(); ev.Type {
		case termbox.EventInterrupt:
			return nil
		case termbox.EventError:
			return fmt.Errorf("terminal: poll: %w", ev.Err)
		case termbox.EventKey:
			if err := t.handleKey(ctx, keyName(ev)); err != nil {
				return err
			}
		case termbox.EventResize:
			t.reallocBackBuffer(ev.Width, ev.Height)
		}
	}
}

// handleKey applies camera keys and forwards the rest to the simulation.
func (t *Terminal) handleKey(ctx context.Context, key string) error {
	kind, ok := fountain.KeyAction(key)
	if !ok {
		return nil
	}
	if kind.Camera() {
		t.mu.Lock()
		t.camera.Apply(kind)
		t.mu.Unlock()
		return nil
	}
	select {
	case t.actions <- fountain.Action{Kind: kind}:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

func (t *Terminal) reallocBackBuffer(w, h int) {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.canvas.Resize(w, h)
}

// Draw renders a frame. It is meant to be used as the loop frame callback.
func (t *Terminal) Draw(f fountain.Frame) {
	termbox.Clear(termbox.ColorDefault, termbox.ColorDefault)
	w, h := termbox.Size()

	t.mu.Lock()
	t.canvas.Resize(w, h)
	t.render(f)
	copy(termbox.CellBuffer(), t.canvas.Cells())
	t.mu.Unlock()

	termbox.Flush()
}

func (t *Terminal) render(f fountain.Frame) {
	t.canvas.DrawScene(t.camera, f)
	_, h := t.canvas.Size()
	fg, bg := color256(statusColor), color256(clearColor)
	t.canvas.Text(0, 0, status(f), fg, bg)
	t.canvas.Text(0, h-1, help, fg, bg)
}

func status(f fountain.Frame) string {
	mirror := "off"
	if f.Mirror {
		mirror = "on"
	}
	return fmt.Sprintf("power %.2f  spread %.2f  live %d/%d  mirror %s  emitter (%.1f, %.1f)",
		f.Params.Power, f.Params.Spread, len(f.Points), f.Capacity, mirror, f.Emitter.X(), f.Emitter.Z())
}

// keyName converts a termbox key event to a KeyboardEvent.key style name.
func keyName(ev termbox.Event) string {
	if ev.Ch != 0 {
		return string(ev.Ch)
	}
	switch ev.Key {
	case termbox.KeyEsc:
		return "Escape"
	case termbox.KeyArrowUp:
		return "ArrowUp"
	case termbox.KeyArrowDown:
		return "ArrowDown"
	case termbox.KeyArrowLeft:
		return "ArrowLeft"
	case termbox.KeyArrowRight:
		return "ArrowRight"
	case termbox.KeySpace:
		return " "
	}
	return ""
}
