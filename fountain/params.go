package fountain

import (
	"errors"
	"fmt"
	"math"
)

const (
	// DefaultCapacity is the number of particles held by a pool.
	DefaultCapacity = 500

	// MaxStep is the largest frame delta integrated as is. Anything longer
	// (window drag, debugger stop) is replaced by FallbackStep.
	MaxStep = 0.1
	// FallbackStep is the integration step used after a stall.
	FallbackStep = 0.01

	// RespawnLift is the vertical offset above the emitter used on recycle.
	RespawnLift = 0.3

	// EmitterStep is the emitter displacement per move action.
	EmitterStep = 0.5
	// PowerStep is the fountain power change per action.
	PowerStep = 0.01
	// SpreadStep is the spread change per action.
	SpreadStep = 0.05
	// MinPower is the lowest fountain power reachable with the controls.
	MinPower = 0.1
	// MinSpread is the lowest spread reachable with the controls.
	MinSpread = 0.1
)

// ErrInvalidParams is returned when simulation parameters are out of range.
var ErrInvalidParams = errors.New("invalid simulation parameters")

// Params holds the tunables shared by every particle of a pool.
type Params struct {
	Gravity      float32 `json:"gravity"`
	Power        float32 `json:"power"`
	Spread       float32 `json:"spread"`
	FadeSpeed    float32 `json:"fade_speed"`
	ParticleSize float32 `json:"particle_size"`
}

// DefaultParams returns the parameters of the classic fountain.
func DefaultParams() Params {
	return Params{
		Gravity:      -9.81,
		Power:        0.6,
		Spread:       1.0,
		FadeSpeed:    3.0,
		ParticleSize: 5.0,
	}
}

// Validate checks that the parameters are finite and inside the range the
// controls can reach.
func (p Params) Validate() error {
	fields := []struct {
		name string
		val  float32
	}{
		{"gravity", p.Gravity},
		{"power", p.Power},
		{"spread", p.Spread},
		{"fade_speed", p.FadeSpeed},
		{"particle_size", p.ParticleSize},
	}
	for _, f := range fields {
		v := float64(f.val)
		if math.IsNaN(v) || math.IsInf(v, 0) {
			return fmt.Errorf("%w: %s is not finite", ErrInvalidParams, f.name)
		}
	}
	switch {
	case p.Power < MinPower:
		return fmt.Errorf("%w: power %.2f below %.2f", ErrInvalidParams, p.Power, MinPower)
	case p.Spread < MinSpread:
		return fmt.Errorf("%w: spread %.2f below %.2f", ErrInvalidParams, p.Spread, MinSpread)
	case p.FadeSpeed <= 0:
		return fmt.Errorf("%w: fade_speed must be positive", ErrInvalidParams)
	case p.ParticleSize <= 0:
		return fmt.Errorf("%w: particle_size must be positive", ErrInvalidParams)
	}
	return nil
}

// IncPower raises the fountain power by one step.
func (p *Params) IncPower() {
	p.Power += PowerStep
}

// DecPower lowers the fountain power by one step, never below MinPower.
func (p *Params) DecPower() {
	p.Power -= PowerStep
	if p.Power < MinPower {
		p.Power = MinPower
	}
}

// IncSpread widens the fountain by one step.
func (p *Params) IncSpread() {
	p.Spread += SpreadStep
}

// DecSpread narrows the fountain by one step, never below MinSpread.
func (p *Params) DecSpread() {
	p.Spread -= SpreadStep
	if p.Spread < MinSpread {
		p.Spread = MinSpread
	}
}
