package fountain

import (
	"context"
	"errors"
	"time"
)

// DefaultInterval is the frame period of the loop.
const DefaultInterval = 10 * time.Millisecond

// ErrQuit is returned by Loop.Run when a Quit action arrives.
var ErrQuit = errors.New("fountain: quit requested")

// Loop drives a Simulation from a single goroutine: it applies incoming
// actions between frames and hands every frame to OnFrame.
type Loop struct {
	Sim      *Simulation
	Interval time.Duration
	Actions  <-chan Action
	OnFrame  func(Frame)
	// Frames stops the loop after that many frames when positive.
	Frames int
}

// Run blocks until ctx is done, a Quit action arrives or Frames frames were
// produced.
func (l *Loop) Run(ctx context.Context) error {
	interval := l.Interval
	if interval <= 0 {
		interval = DefaultInterval
	}
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	actions := l.Actions
	produced := 0
	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case a, ok := <-actions:
			if !ok {
				actions = nil
				continue
			}
			if a.Kind == Quit {
				return ErrQuit
			}
			l.Sim.Apply(a)
		case now := <-ticker.C:
			frame := l.Sim.Step(now)
			if l.OnFrame != nil {
				l.OnFrame(frame)
			}
			produced++
			if l.Frames > 0 && produced >= l.Frames {
				return nil
			}
		}
	}
}
