package wheel

import (
	"crypto/rand"
	"encoding/base32"
	"errors"
	"strings"
	"time"

	"go.uber.org/zap"

	"weaponwheel/pkg/realtime"
)

// Event kinds published to wheel subscribers.
const (
	EventSpinning = "spinning"
	EventFrame    = "frame"
	EventWinner   = "winner"
)

// ErrWheelNotFound is returned for an unknown wheel ID.
var ErrWheelNotFound = errors.New("wheel: not found")

// Event is one realtime update for a wheel's subscribers.
type Event struct {
	Kind     string  `json:"kind"`
	SpinID   string  `json:"spin_id"`
	Step     int     `json:"step"`
	Total    int     `json:"total"`
	Rotation float64 `json:"rotation"`
	Winner   *Winner `json:"winner,omitempty"`
}

// Winner is the announced result of a spin.
type Winner struct {
	Index   int    `json:"index"`
	Label   string `json:"label"`
	Color   string `json:"color"`
	Message string `json:"message"`
}

// Observer is notified about spin lifecycle events, e.g. for metrics.
type Observer interface {
	SpinStarted(wheelID string)
	SpinRejected(wheelID string)
	SpinFinished(wheelID string, winner string, elapsed time.Duration)
}

type nopObserver struct{}

func (nopObserver) SpinStarted(string) {}

func (nopObserver) SpinRejected(string) {}

func (nopObserver) SpinFinished(string, string, time.Duration) {}

// Wheel is one independently spinnable wheel.
type Wheel struct {
	*Spinner
	ID        string
	CreatedAt time.Time
}

// StoreOption configures a Store.
type StoreOption func(*Store)

// WithStoreScheduler sets the scheduler shared by all wheels in the store.
func WithStoreScheduler(s realtime.Scheduler) StoreOption {
	return func(st *Store) { st.sched = s }
}

// WithStoreRNG sets the random source factory used for each new wheel.
func WithStoreRNG(fn func() RandomSource) StoreOption {
	return func(st *Store) { st.newRNG = fn }
}

// WithStoreLogger sets the logger passed to every wheel.
func WithStoreLogger(log *zap.Logger) StoreOption {
	return func(st *Store) { st.log = log }
}

// WithObserver registers a lifecycle observer.
func WithObserver(o Observer) StoreOption {
	return func(st *Store) { st.obs = o }
}

// WithDefaultOptions sets the table used when CreateWheel gets no options.
func WithDefaultOptions(opts []Option) StoreOption {
	return func(st *Store) { st.defaults = opts }
}

// Store holds wheels and delegates to realtime.RoomStore for broadcast.
type Store struct {
	r        *realtime.RoomStore[*Wheel, Event]
	sched    realtime.Scheduler
	newRNG   func() RandomSource
	log      *zap.Logger
	obs      Observer
	defaults []Option
}

// NewStore creates an in-memory wheel store.
func NewStore(opts ...StoreOption) *Store {
	s := &Store{
		r:      realtime.NewRoomStore[*Wheel, Event](),
		sched:  realtime.TimerScheduler{},
		newRNG: DefaultRNG,
		log:    zap.NewNop(),
		obs:    nopObserver{},
	}
	for _, opt := range opts {
		opt(s)
	}
	if s.defaults == nil {
		s.defaults = DefaultOptions()
	}
	return s
}

// CreateWheel builds a wheel and registers its broadcaster. An empty id gets a
// generated one; nil options use the store's default table.
func (s *Store) CreateWheel(id string, options []Option) (*Wheel, error) {
	if id == "" {
		id = newID()
	}
	if options == nil {
		options = s.defaults
	}
	engine, err := New(options)
	if err != nil {
		return nil, err
	}
	w := &Wheel{ID: id, CreatedAt: time.Now().UTC()}
	log := s.log.With(zap.String("wheel_id", id))
	w.Spinner = NewSpinner(engine,
		WithScheduler(s.sched),
		WithRandomSource(s.newRNG()),
		WithLogger(log),
		WithStart(func(spinID string, start State) {
			s.obs.SpinStarted(id)
			s.r.Publish(id, Event{Kind: EventSpinning, SpinID: spinID, Rotation: start.Rotation})
		}),
		WithRenderer(func(f Frame) {
			s.r.Publish(id, Event{
				Kind:     EventFrame,
				SpinID:   f.SpinID,
				Step:     f.Step,
				Total:    f.Total,
				Rotation: f.Rotation,
			})
		}),
		WithCompletion(func(res Result) {
			s.r.Publish(id, Event{
				Kind:     EventWinner,
				SpinID:   res.SpinID,
				Rotation: res.Rotation,
				Winner: &Winner{
					Index:   res.Index,
					Label:   res.Option.Label,
					Color:   res.Option.Color,
					Message: res.Option.Message,
				},
			})
			s.obs.SpinFinished(id, res.Option.Label, res.FinishedAt.Sub(res.StartedAt))
		}),
	)
	s.r.Create(id, w)
	log.Info("wheel created", zap.Int("options", len(options)))
	return w, nil
}

// GetWheel returns a wheel by ID if it exists.
func (s *Store) GetWheel(id string) (*Wheel, bool) {
	room, ok := s.r.Get(id)
	if !ok {
		return nil, false
	}
	return room.State, true
}

// Spin starts a spin on the wheel and announces it to subscribers.
func (s *Store) Spin(id string) (string, error) {
	w, ok := s.GetWheel(id)
	if !ok {
		return "", ErrWheelNotFound
	}
	spinID, err := w.Spin()
	if err != nil {
		if errors.Is(err, ErrAlreadySpinning) {
			s.obs.SpinRejected(id)
		}
		return "", err
	}
	return spinID, nil
}

// Broadcaster returns the event hub for a wheel.
func (s *Store) Broadcaster(id string) (*realtime.Broadcaster[Event], bool) {
	room, ok := s.r.Get(id)
	if !ok {
		return nil, false
	}
	return room.Hub, true
}

// IDs lists the wheels in the store.
func (s *Store) IDs() []string {
	return s.r.IDs()
}

func newID() string {
	// 10 bytes -> 16 chars of base32, short and url-safe.
	buf := make([]byte, 10)
	_, _ = rand.Read(buf)
	encoder := base32.StdEncoding.WithPadding(base32.NoPadding)
	return strings.ToLower(encoder.EncodeToString(buf))
}
