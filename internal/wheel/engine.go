// Package wheel holds the spinning wheel: option table, rotation bookkeeping,
// winner resolution and the animation schedule, plus the driver that plays a
// schedule through a realtime.Scheduler.
package wheel

import "math"

// FullTurn is one revolution in degrees.
const FullTurn = 360.0

// pointerOffset places the pointer at the top of the wheel.
const pointerOffset = 90.0

// State is the wheel's rotation in degrees, kept in [0, 360).
type State struct {
	Rotation float64
}

// Engine owns the options, the current rotation and the spin-in-progress
// flag. It is not safe for concurrent use; Spinner serializes access.
type Engine struct {
	options  []Option
	state    State
	spinning bool
}

// New builds an engine at rotation 0. It fails with *ConfigError when the
// options are empty or malformed.
func New(options []Option) (*Engine, error) {
	if err := Validate(options); err != nil {
		return nil, err
	}
	opts := make([]Option, len(options))
	copy(opts, options)
	return &Engine{options: opts}, nil
}

// Options returns a copy of the option table.
func (e *Engine) Options() []Option {
	out := make([]Option, len(e.options))
	copy(out, e.options)
	return out
}

// State returns the current rotation.
func (e *Engine) State() State {
	return e.state
}

// Spinning reports whether a spin is in progress.
func (e *Engine) Spinning() bool {
	return e.spinning
}

// StartSpin jumps to a random whole-degree start offset and marks the wheel
// as spinning. The schedule always adds the same total rotation, so the start
// offset alone decides where the wheel lands.
func (e *Engine) StartSpin(rng RandomSource) (State, error) {
	if e.spinning {
		return e.state, ErrAlreadySpinning
	}
	if rng == nil {
		rng = DefaultRNG()
	}
	e.state = State{Rotation: float64(rng.IntN(int(FullTurn)))}
	e.spinning = true
	return e.state, nil
}

// Step applies one rotation increment.
func (e *Engine) Step(delta float64) State {
	e.state = Advance(e.state, delta)
	return e.state
}

// Winner resolves the option under the pointer for the current rotation.
func (e *Engine) Winner() (Option, int) {
	return ResolveWinner(e.state, e.options)
}

// Finish resolves the winner and returns the wheel to idle.
func (e *Engine) Finish() (Option, int) {
	opt, idx := e.Winner()
	e.spinning = false
	return opt, idx
}

// Advance rotates state by delta degrees, wrapping into [0, 360).
func Advance(state State, delta float64) State {
	return State{Rotation: normalize(state.Rotation + delta)}
}

// ResolveWinner returns the option under the pointer and its index.
//
// Segment i spans [i*seg, (i+1)*seg) counter-clockwise from 0 degrees, the
// drawn wheel is offset by the rotation, and the pointer sits at 90 degrees.
// The pointer's angle in wheel coordinates is therefore (360 - r + 90) mod 360.
// An empty option list yields index -1.
func ResolveWinner(state State, options []Option) (Option, int) {
	n := len(options)
	if n == 0 {
		return Option{}, -1
	}
	segment := FullTurn / float64(n)
	pointer := math.Mod(FullTurn-normalize(state.Rotation)+pointerOffset, FullTurn)
	idx := int(math.Floor(pointer/segment)) % n
	return options[idx], idx
}

func normalize(deg float64) float64 {
	r := math.Mod(deg, FullTurn)
	if r < 0 {
		r += FullTurn
	}
	if r >= FullTurn {
		r = 0
	}
	return r
}
