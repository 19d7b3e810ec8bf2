package metrics

import (
	"fmt"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
)

func TestSpins_Lifecycle(t *testing.T) {
	reg := prometheus.NewRegistry()
	s := NewSpins(reg)

	s.SpinStarted("main")
	s.SpinRejected("main")
	s.SpinRejected("main")

	if got := testutil.ToFloat64(s.active); got != 1 {
		t.Errorf("active %v, want 1", got)
	}
	s.SpinFinished("main", "GS", 4800*time.Millisecond)

	if got := testutil.ToFloat64(s.started); got != 1 {
		t.Errorf("started %v, want 1", got)
	}
	if got := testutil.ToFloat64(s.rejected); got != 2 {
		t.Errorf("rejected %v, want 2", got)
	}
	if got := testutil.ToFloat64(s.winners.WithLabelValues("GS")); got != 1 {
		t.Errorf("winners{GS} %v, want 1", got)
	}
	if got := testutil.ToFloat64(s.active); got != 0 {
		t.Errorf("active %v, want 0", got)
	}
	if n := testutil.CollectAndCount(s.duration); n != 1 {
		t.Errorf("duration series %d, want 1", n)
	}
}

func TestSpins_SeriesIndependentOfWheelCount(t *testing.T) {
	reg := prometheus.NewRegistry()
	s := NewSpins(reg)

	for i := 0; i < 100; i++ {
		id := fmt.Sprintf("wheel-%d", i)
		s.SpinStarted(id)
		s.SpinRejected(id)
		s.SpinFinished(id, "LS", 5*time.Second)
	}

	cases := []struct {
		name string
		c    prometheus.Collector
		want int
	}{
		{name: "started", c: s.started, want: 1},
		{name: "rejected", c: s.rejected, want: 1},
		{name: "winners", c: s.winners, want: 1},
		{name: "active", c: s.active, want: 1},
		{name: "duration", c: s.duration, want: 1},
	}
	for _, tc := range cases {
		if n := testutil.CollectAndCount(tc.c); n != tc.want {
			t.Errorf("%s series %d, want %d", tc.name, n, tc.want)
		}
	}
	if got := testutil.ToFloat64(s.started); got != 100 {
		t.Errorf("started %v, want 100", got)
	}
}

func TestNewSpins_DoubleRegisterPanics(t *testing.T) {
	reg := prometheus.NewRegistry()
	NewSpins(reg)
	defer func() {
		if recover() == nil {
			t.Error("registering twice should panic")
		}
	}()
	NewSpins(reg)
}
