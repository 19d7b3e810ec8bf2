package viewmodel

import (
	"fmt"
	"math"
	"strings"
	"testing"
)

func approx(a, b float64) bool { return math.Abs(a-b) < 1e-9 }

func slices(n int) []Slice {
	out := make([]Slice, n)
	for i := range out {
		out[i] = Slice{Label: fmt.Sprintf("s%d", i), Color: "#000000"}
	}
	return out
}

func TestBuildSegments(t *testing.T) {
	segs := BuildSegments(slices(4), 100, 100, 50)
	if len(segs) != 4 {
		t.Fatalf("len %d, want 4", len(segs))
	}
	cases := []struct {
		idx   int
		start float64
		path  string
	}{
		{idx: 0, start: 0, path: "M 100 100 L 150 100 A 50 50 0 0 0 100 50 Z"},
		{idx: 1, start: 90, path: "M 100 100 L 100 50 A 50 50 0 0 0 50 100 Z"},
		{idx: 3, start: 270, path: "M 100 100 L 100 150 A 50 50 0 0 0 150 100 Z"},
	}
	for _, tc := range cases {
		s := segs[tc.idx]
		if s.StartAngle != tc.start || s.Extent != 90 {
			t.Errorf("segment %d start/extent %v/%v, want %v/90", tc.idx, s.StartAngle, s.Extent, tc.start)
		}
		if s.Path != tc.path {
			t.Errorf("segment %d path %q, want %q", tc.idx, s.Path, tc.path)
		}
	}
}

func TestBuildSegments_SingleSliceIsCircle(t *testing.T) {
	segs := BuildSegments(slices(1), 0, 0, 10)
	if len(segs) != 1 {
		t.Fatalf("len %d, want 1", len(segs))
	}
	if strings.Count(segs[0].Path, " a ") != 2 {
		t.Errorf("single slice path %q should use two arcs", segs[0].Path)
	}
}

func TestBuildSegments_Empty(t *testing.T) {
	if segs := BuildSegments(nil, 0, 0, 10); segs != nil {
		t.Errorf("segments %v, want nil", segs)
	}
}

func TestBuildLegend_Columns(t *testing.T) {
	cases := []struct {
		name string
		n    int
		left int
	}{
		{name: "Even", n: 14, left: 7},
		{name: "Odd", n: 5, left: 3},
		{name: "One", n: 1, left: 1},
	}

	for _, tc := range cases {
		tc := tc

		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()

			legend := BuildLegend(slices(tc.n))
			left := 0
			for _, e := range legend {
				if e.Side == "left" {
					left++
				}
			}
			if left != tc.left {
				t.Errorf("left column %d, want %d", left, tc.left)
			}
		})
	}
}

func TestBuildLegend_Positions(t *testing.T) {
	legend := BuildLegend(slices(14))
	if !approx(legend[0].XPct, 15) || !approx(legend[7].XPct, 85) {
		t.Errorf("x %v/%v, want 15/85", legend[0].XPct, legend[7].XPct)
	}
	if !approx(legend[0].YPct, 30) || !approx(legend[7].YPct, 30) {
		t.Errorf("top rows y %v/%v, want 30", legend[0].YPct, legend[7].YPct)
	}
	want := (0.3 + 6*(0.6/7)) * 100
	if !approx(legend[6].YPct, want) {
		t.Errorf("last left y %v, want %v", legend[6].YPct, want)
	}
}

func TestBuildWheel(t *testing.T) {
	w := BuildWheel(slices(14), 42)
	if w.CenterX != 500 || w.CenterY != 300 {
		t.Errorf("center %v,%v, want 500,300", w.CenterX, w.CenterY)
	}
	if w.Rotation != 42 || len(w.Segments) != 14 {
		t.Errorf("rotation %v segments %d", w.Rotation, len(w.Segments))
	}
	if w.Pointer != "480,120 520,120 500,80" {
		t.Errorf("pointer %q", w.Pointer)
	}
}

func TestNum(t *testing.T) {
	cases := map[float64]string{0: "0", 1.5: "1.5", 100: "100", -0.0001: "0", 3.14159: "3.142"}
	for in, want := range cases {
		if got := num(in); got != want {
			t.Errorf("num(%v) = %q, want %q", in, got, want)
		}
	}
}
