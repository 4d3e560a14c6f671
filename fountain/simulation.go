package fountain

import (
	"time"

	"github.com/go-gl/mathgl/mgl32"
)

// Options configures a Simulation.
type Options struct {
	Capacity int
	Emitter  mgl32.Vec3
	Params   Params
	Mirror   Mirror
	Source   Source
}

// Frame is what front-ends draw. Points is reused by the next Step; call
// Clone before handing a frame to another goroutine.
type Frame struct {
	Seq      uint64     `json:"seq"`
	Emitter  mgl32.Vec3 `json:"emitter"`
	Params   Params     `json:"params"`
	Mirror   bool       `json:"mirror"`
	Capacity int        `json:"capacity"`
	Points   []Point    `json:"points"`
}

// Clone returns a copy of the frame that does not share the points buffer.
func (f Frame) Clone() Frame {
	pts := make([]Point, len(f.Points))
	copy(pts, f.Points)
	f.Points = pts
	return f
}

// Simulation owns the pool together with the emitter, parameters, mirror and
// frame clock. It is not safe for concurrent use.
type Simulation struct {
	pool     *Pool
	params   Params
	emitter  mgl32.Vec3
	mirror   Mirror
	clock    Clock
	src      Source
	defaults Options

	points []Point
	seq    uint64
}

// NewSimulation spawns the pool described by opts.
func NewSimulation(opts Options) *Simulation {
	if opts.Source == nil {
		opts.Source = NewSource(0)
	}
	if opts.Capacity <= 0 {
		opts.Capacity = DefaultCapacity
	}
	s := &Simulation{
		params:   opts.Params,
		emitter:  opts.Emitter,
		mirror:   opts.Mirror,
		src:      opts.Source,
		defaults: opts,
	}
	s.pool = NewPool(opts.Capacity, s.emitter, &s.params, s.src)
	s.points = make([]Point, 0, opts.Capacity)
	return s
}

// Pool returns the particle pool.
func (s *Simulation) Pool() *Pool {
	return s.pool
}

// Params returns the current parameters.
func (s *Simulation) Params() Params {
	return s.params
}

// Emitter returns the current emitter position.
func (s *Simulation) Emitter() mgl32.Vec3 {
	return s.emitter
}

// Mirror returns the current mirror settings.
func (s *Simulation) Mirror() Mirror {
	return s.mirror
}

// Step advances the pool by the wall-clock time elapsed since the previous
// Step and returns the frame to draw. The first Step only snapshots.
func (s *Simulation) Step(now time.Time) Frame {
	first := !s.clock.Started()
	dt := s.clock.Tick(now)
	if first {
		return s.frame()
	}
	return s.StepDelta(dt)
}

// StepDelta advances the pool by dt seconds, subject to the stall clamp, and
// returns the frame to draw.
func (s *Simulation) StepDelta(dt float32) Frame {
	s.pool.Advance(dt, s.emitter, &s.params)
	return s.frame()
}

func (s *Simulation) frame() Frame {
	s.seq++
	s.points = s.pool.Snapshot(s.points)
	s.mirror.Compose(s.points, s.src)
	return Frame{
		Seq:      s.seq,
		Emitter:  s.emitter,
		Params:   s.params,
		Mirror:   s.mirror.Enabled,
		Capacity: s.pool.Len(),
		Points:   s.points,
	}
}

// Apply executes a control action. It returns false for actions the
// simulation does not own, such as camera moves and Quit, and for rejected
// parameter updates.
func (s *Simulation) Apply(a Action) bool {
	switch a.Kind {
	case MoveLeft:
		s.emitter[0] -= EmitterStep
	case MoveRight:
		s.emitter[0] += EmitterStep
	case MoveForward:
		s.emitter[2] -= EmitterStep
	case MoveBack:
		s.emitter[2] += EmitterStep
	case MoveTo:
		s.emitter[0], s.emitter[2] = a.X, a.Z
	case PowerUp:
		s.params.IncPower()
	case PowerDown:
		s.params.DecPower()
	case SpreadUp:
		s.params.IncSpread()
	case SpreadDown:
		s.params.DecSpread()
	case SetParams:
		if err := a.Params.Validate(); err != nil {
			return false
		}
		s.params = a.Params
	case ToggleMirror:
		s.mirror.Enabled = !s.mirror.Enabled
	case Reset:
		s.params = s.defaults.Params
		s.emitter = s.defaults.Emitter
		s.mirror = s.defaults.Mirror
	default:
		return false
	}
	return true
}
