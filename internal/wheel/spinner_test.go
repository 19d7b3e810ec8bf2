package wheel

import (
	"errors"
	"math"
	"testing"

	"weaponwheel/pkg/realtime"
)

type recorder struct {
	starts  []State
	frames  []Frame
	results []Result
}

func newTestSpinner(t *testing.T, rng RandomSource) (*Spinner, *realtime.ManualScheduler, *recorder) {
	t.Helper()
	engine, err := New(DefaultOptions())
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	sched := realtime.NewManualScheduler()
	rec := &recorder{}
	sp := NewSpinner(engine,
		WithScheduler(sched),
		WithRandomSource(rng),
		WithStart(func(_ string, s State) { rec.starts = append(rec.starts, s) }),
		WithRenderer(func(f Frame) { rec.frames = append(rec.frames, f) }),
		WithCompletion(func(r Result) { rec.results = append(rec.results, r) }),
	)
	return sp, sched, rec
}

func TestSpinner_SpinDoesNotRunSynchronously(t *testing.T) {
	sp, sched, rec := newTestSpinner(t, fixedRNG(0))
	if _, err := sp.Spin(); err != nil {
		t.Fatalf("Spin: %v", err)
	}
	if len(rec.frames) != 0 {
		t.Errorf("frames rendered before scheduler ran: %d", len(rec.frames))
	}
	if sched.Pending() != 1 {
		t.Errorf("pending %d, want 1", sched.Pending())
	}
	if !sp.Snapshot().Spinning {
		t.Error("snapshot should report spinning")
	}
}

func TestSpinner_FullSpin(t *testing.T) {
	sp, sched, rec := newTestSpinner(t, fixedRNG(100))
	id, err := sp.Spin()
	if err != nil {
		t.Fatalf("Spin: %v", err)
	}
	sched.RunAll()

	if len(rec.starts) != 1 || rec.starts[0].Rotation != 100 {
		t.Errorf("starts %v, want one at 100", rec.starts)
	}
	if len(rec.frames) != 50 {
		t.Fatalf("frames %d, want 50", len(rec.frames))
	}
	for i, f := range rec.frames {
		if f.Step != i || f.Total != 50 || f.SpinID != id {
			t.Errorf("frame %d = %+v", i, f)
		}
		if f.Rotation < 0 || f.Rotation >= FullTurn {
			t.Errorf("frame %d rotation %v outside [0, 360)", i, f.Rotation)
		}
	}
	if len(rec.results) != 1 {
		t.Fatalf("results %d, want 1", len(rec.results))
	}
	res := rec.results[0]
	if res.SpinID != id {
		t.Errorf("result spin id %q, want %q", res.SpinID, id)
	}
	if res.Rotation != rec.frames[49].Rotation {
		t.Errorf("result rotation %v, last frame %v", res.Rotation, rec.frames[49].Rotation)
	}
	// 100 + 576 = 676 -> 316
	if math.Abs(res.Rotation-316) > 1e-6 {
		t.Errorf("landing rotation %v, want 316", res.Rotation)
	}
	opt, idx := ResolveWinner(State{Rotation: res.Rotation}, DefaultOptions())
	if res.Index != idx || res.Option != opt {
		t.Errorf("result %d/%q, want %d/%q", res.Index, res.Option.Label, idx, opt.Label)
	}
	snap := sp.Snapshot()
	if snap.Spinning {
		t.Error("spinner should be idle after completion")
	}
	if snap.Last == nil || snap.Last.SpinID != id {
		t.Errorf("snapshot last result %+v", snap.Last)
	}
}

func TestSpinner_TimelineMatchesSchedule(t *testing.T) {
	sp, sched, rec := newTestSpinner(t, fixedRNG(0))
	_, _ = sp.Spin()
	sched.RunAll()
	if len(rec.results) != 1 {
		t.Fatal("spin did not complete")
	}
	want := TotalDuration(BuildSchedule()) + SettleDelay
	if sched.Now() != want {
		t.Errorf("virtual elapsed %v, want %v", sched.Now(), want)
	}
}

func TestSpinner_SecondSpinRejected(t *testing.T) {
	sp, sched, rec := newTestSpinner(t, fixedRNG(42))
	first, err := sp.Spin()
	if err != nil {
		t.Fatalf("Spin: %v", err)
	}
	sched.Advance(CruiseWait * 5)
	before := sp.Snapshot()

	if _, err := sp.Spin(); !errors.Is(err, ErrAlreadySpinning) {
		t.Fatalf("second Spin error %v, want ErrAlreadySpinning", err)
	}
	after := sp.Snapshot()
	if after.Rotation != before.Rotation || after.SpinID != first {
		t.Errorf("rejected spin changed state: %+v -> %+v", before, after)
	}

	sched.RunAll()
	if len(rec.results) != 1 || rec.results[0].SpinID != first {
		t.Errorf("results %+v, want only the first spin", rec.results)
	}
	if len(rec.frames) != 50 {
		t.Errorf("frames %d, want 50", len(rec.frames))
	}
}

func TestSpinner_SpinAgainAfterCompletion(t *testing.T) {
	sp, sched, rec := newTestSpinner(t, NewSeededRNG(3))
	for i := 0; i < 3; i++ {
		if _, err := sp.Spin(); err != nil {
			t.Fatalf("spin %d: %v", i, err)
		}
		sched.RunAll()
	}
	if len(rec.results) != 3 {
		t.Errorf("results %d, want 3", len(rec.results))
	}
}

func TestSpinner_FlagHeldUntilSettle(t *testing.T) {
	sp, sched, rec := newTestSpinner(t, fixedRNG(0))
	_, _ = sp.Spin()
	sched.Advance(TotalDuration(BuildSchedule()))
	if len(rec.frames) != 50 {
		t.Fatalf("frames %d, want 50", len(rec.frames))
	}
	if !sp.Snapshot().Spinning {
		t.Error("wheel should still be spinning during settle delay")
	}
	if len(rec.results) != 0 {
		t.Error("winner announced before settle delay")
	}
	sched.Advance(SettleDelay)
	if len(rec.results) != 1 {
		t.Error("winner not announced after settle delay")
	}
}

func TestSpinner_SeededRunsAreReproducible(t *testing.T) {
	run := func() string {
		sp, sched, rec := newTestSpinner(t, NewSeededRNG(99))
		_, _ = sp.Spin()
		sched.RunAll()
		return rec.results[0].Option.Label
	}
	if a, b := run(), run(); a != b {
		t.Errorf("seeded spins differ: %q vs %q", a, b)
	}
}

func TestSpinner_CompletionRunsBeforeWheelIsIdle(t *testing.T) {
	engine, err := New(DefaultOptions())
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	sched := realtime.NewManualScheduler()
	var (
		sp       *Spinner
		respin   error
		snapshot Snapshot
	)
	sp = NewSpinner(engine,
		WithScheduler(sched),
		WithRandomSource(fixedRNG(0)),
		WithCompletion(func(Result) {
			_, respin = sp.Spin()
			snapshot = sp.Snapshot()
		}),
	)
	if _, err := sp.Spin(); err != nil {
		t.Fatalf("Spin: %v", err)
	}
	sched.RunAll()

	if !errors.Is(respin, ErrAlreadySpinning) {
		t.Errorf("spin during completion error %v, want ErrAlreadySpinning", respin)
	}
	if snapshot.Spinning || snapshot.Last == nil {
		t.Errorf("snapshot during completion %+v, want settled with result", snapshot)
	}
	if engine.Spinning() {
		t.Error("wheel should be idle after completion returned")
	}
	if _, err := sp.Spin(); err != nil {
		t.Errorf("spin after completion: %v", err)
	}
}

func TestSpinner_LandingOnSegmentBoundary(t *testing.T) {
	sp, sched, rec := newTestSpinner(t, fixedRNG(54))
	if _, err := sp.Spin(); err != nil {
		t.Fatalf("Spin: %v", err)
	}
	sched.RunAll()
	if len(rec.results) != 1 {
		t.Fatalf("results %d, want 1", len(rec.results))
	}
	res := rec.results[0]
	// 54 + 576 = 630 -> 270, pointer at 180 on the 7/8 segment edge.
	if math.Abs(res.Rotation-270) > 1e-9 {
		t.Errorf("landing rotation %v, want 270", res.Rotation)
	}
	if res.Index != 7 || res.Option.Label != "IG" {
		t.Errorf("winner %d/%q, want 7/IG", res.Index, res.Option.Label)
	}
}
