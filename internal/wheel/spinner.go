package wheel

import (
	"sync"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"weaponwheel/pkg/realtime"
)

// Frame is emitted once per animation step.
type Frame struct {
	SpinID   string
	Step     int
	Total    int
	Rotation float64
}

// Result is the outcome of one spin.
type Result struct {
	SpinID        string
	Index         int
	Option        Option
	StartRotation float64
	Rotation      float64
	StartedAt     time.Time
	FinishedAt    time.Time
}

// Renderer receives each animation frame.
type Renderer func(Frame)

// StartFunc receives the spin ID and start offset before the first frame.
type StartFunc func(spinID string, start State)

// CompletionFunc receives the result once the wheel has settled.
type CompletionFunc func(Result)

// SpinnerOption configures a Spinner.
type SpinnerOption func(*Spinner)

// WithScheduler sets the timer used between frames. Defaults to realtime.TimerScheduler.
func WithScheduler(s realtime.Scheduler) SpinnerOption {
	return func(sp *Spinner) { sp.sched = s }
}

// WithRandomSource sets the source of start offsets. Defaults to DefaultRNG.
func WithRandomSource(rng RandomSource) SpinnerOption {
	return func(sp *Spinner) { sp.rng = rng }
}

// WithRenderer registers the per-frame callback.
func WithRenderer(fn Renderer) SpinnerOption {
	return func(sp *Spinner) { sp.render = fn }
}

// WithStart registers the callback fired when a spin is accepted.
func WithStart(fn StartFunc) SpinnerOption {
	return func(sp *Spinner) { sp.started = fn }
}

// WithCompletion registers the callback fired after the winner is resolved.
func WithCompletion(fn CompletionFunc) SpinnerOption {
	return func(sp *Spinner) { sp.complete = fn }
}

// WithLogger sets the spin lifecycle logger.
func WithLogger(log *zap.Logger) SpinnerOption {
	return func(sp *Spinner) { sp.log = log }
}

// Spinner plays the animation schedule against an Engine. Each step schedules
// the next one, so Spin returns immediately and never sleeps.
type Spinner struct {
	mu       sync.Mutex
	engine   *Engine
	sched    realtime.Scheduler
	rng      RandomSource
	render   Renderer
	started  StartFunc
	complete CompletionFunc
	log      *zap.Logger

	spinID    string
	start     State
	startedAt time.Time
	settled   bool
	last      *Result
}

// NewSpinner wraps engine with a schedule driver.
func NewSpinner(engine *Engine, opts ...SpinnerOption) *Spinner {
	s := &Spinner{
		engine: engine,
		sched:  realtime.TimerScheduler{},
		rng:    DefaultRNG(),
		log:    zap.NewNop(),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Spin starts a spin and returns its ID. It fails with ErrAlreadySpinning
// while another spin is running; the running spin is not affected.
func (s *Spinner) Spin() (string, error) {
	s.mu.Lock()
	start, err := s.engine.StartSpin(s.rng)
	if err != nil {
		running := s.spinID
		s.mu.Unlock()
		s.log.Warn("spin rejected", zap.String("running_spin_id", running), zap.Error(err))
		return "", err
	}
	id := uuid.NewString()
	s.spinID = id
	s.start = start
	s.startedAt = time.Now().UTC()
	s.settled = false
	s.mu.Unlock()

	s.log.Info("spin started",
		zap.String("spin_id", id),
		zap.Float64("start_rotation", start.Rotation),
	)
	if s.started != nil {
		s.started(id, start)
	}

	steps := BuildSchedule()
	s.sched.Schedule(0, func() { s.runStep(id, steps, 0) })
	return id, nil
}

func (s *Spinner) runStep(id string, steps []Step, i int) {
	if i >= len(steps) {
		s.sched.Schedule(SettleDelay, func() { s.finish(id) })
		return
	}
	s.mu.Lock()
	state := s.engine.Step(steps[i].Delta)
	s.mu.Unlock()

	if s.render != nil {
		s.render(Frame{SpinID: id, Step: i, Total: len(steps), Rotation: state.Rotation})
	}
	s.sched.Schedule(steps[i].Wait, func() { s.runStep(id, steps, i+1) })
}

// finish announces the winner while the engine still holds the spinning flag,
// so a new spin cannot start until every completion callback has returned.
func (s *Spinner) finish(id string) {
	s.mu.Lock()
	opt, idx := s.engine.Winner()
	res := Result{
		SpinID:        id,
		Index:         idx,
		Option:        opt,
		StartRotation: s.start.Rotation,
		Rotation:      s.engine.State().Rotation,
		StartedAt:     s.startedAt,
		FinishedAt:    time.Now().UTC(),
	}
	s.last = &res
	s.settled = true
	s.mu.Unlock()

	s.log.Info("spin finished",
		zap.String("spin_id", id),
		zap.String("winner", opt.Label),
		zap.Int("index", idx),
		zap.Float64("rotation", res.Rotation),
	)
	if s.complete != nil {
		s.complete(res)
	}

	s.mu.Lock()
	s.engine.Finish()
	s.mu.Unlock()
}

// Snapshot is a consistent view of a spinner for rendering.
type Snapshot struct {
	Rotation float64
	Spinning bool
	SpinID   string
	Options  []Option
	Last     *Result
}

// Snapshot returns the current rotation, flag and last result.
func (s *Spinner) Snapshot() Snapshot {
	s.mu.Lock()
	defer s.mu.Unlock()
	snap := Snapshot{
		Rotation: s.engine.State().Rotation,
		Spinning: s.engine.Spinning() && !s.settled,
		Options:  s.engine.Options(),
	}
	if snap.Spinning {
		snap.SpinID = s.spinID
	}
	if s.last != nil {
		last := *s.last
		snap.Last = &last
	}
	return snap
}
