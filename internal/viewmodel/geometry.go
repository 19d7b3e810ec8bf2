package viewmodel

import (
	"fmt"
	"math"
	"strings"
)

// Canvas layout of the wheel page.
const (
	CanvasWidth  = 1000
	CanvasHeight = 700
	WheelRadius  = 200.0
	HubRadius    = 25.0
	centerLift   = 50.0
	pointerGap   = 20.0
	pointerSize  = 20.0
)

// Legend columns sit at these fractions of the canvas width.
const (
	legendLeftX  = 0.15
	legendRightX = 0.85
	legendTop    = 0.3
	legendSpan   = 0.6
)

// Slice is the label/color pair a segment is drawn from.
type Slice struct {
	Label string
	Color string
}

// BuildWheel lays out one segment per slice plus the pointer.
func BuildWheel(slices []Slice, rotation float64) Wheel {
	cx := float64(CanvasWidth) / 2
	cy := float64(CanvasHeight)/2 - centerLift
	return Wheel{
		Width:    CanvasWidth,
		Height:   CanvasHeight,
		CenterX:  cx,
		CenterY:  cy,
		Radius:   WheelRadius,
		Hub:      HubRadius,
		Rotation: rotation,
		Segments: BuildSegments(slices, cx, cy, WheelRadius),
		Pointer:  pointerPoints(cx, cy-WheelRadius-pointerGap),
	}
}

// BuildSegments returns SVG paths for each slice. Segment i starts at
// i*360/N degrees, measured counter-clockwise from three o'clock.
func BuildSegments(slices []Slice, cx, cy, r float64) []Segment {
	n := len(slices)
	if n == 0 {
		return nil
	}
	extent := 360.0 / float64(n)
	out := make([]Segment, 0, n)
	for i, s := range slices {
		start := float64(i) * extent
		out = append(out, Segment{
			Index:      i,
			Label:      s.Label,
			Color:      s.Color,
			StartAngle: start,
			Extent:     extent,
			Path:       arcPath(cx, cy, r, start, extent),
		})
	}
	return out
}

// BuildLegend splits the slices into two columns, the left one taking the
// extra entry when N is odd.
func BuildLegend(slices []Slice) []LegendEntry {
	n := len(slices)
	if n == 0 {
		return nil
	}
	perSide := n/2 + n%2
	out := make([]LegendEntry, 0, n)
	for i, s := range slices {
		side, x := "left", legendLeftX
		if i >= perSide {
			side, x = "right", legendRightX
		}
		out = append(out, LegendEntry{
			Label: s.Label,
			Color: s.Color,
			Side:  side,
			XPct:  x * 100,
			YPct:  (legendTop + float64(i%perSide)*(legendSpan/float64(perSide))) * 100,
		})
	}
	return out
}

func arcPath(cx, cy, r, start, extent float64) string {
	if extent >= 360 {
		// A single option fills the wheel; SVG cannot draw a closed arc in one segment.
		return fmt.Sprintf("M %s %s m %s 0 a %s %s 0 1 0 %s 0 a %s %s 0 1 0 %s 0 Z",
			num(cx), num(cy), num(-r), num(r), num(r), num(2*r), num(r), num(r), num(-2*r))
	}
	x0, y0 := polar(cx, cy, r, start)
	x1, y1 := polar(cx, cy, r, start+extent)
	large := 0
	if extent > 180 {
		large = 1
	}
	return fmt.Sprintf("M %s %s L %s %s A %s %s 0 %d 0 %s %s Z",
		num(cx), num(cy), num(x0), num(y0), num(r), num(r), large, num(x1), num(y1))
}

// polar converts a counter-clockwise math angle to screen coordinates.
func polar(cx, cy, r, deg float64) (float64, float64) {
	rad := deg * math.Pi / 180
	return cx + r*math.Cos(rad), cy - r*math.Sin(rad)
}

func pointerPoints(x, tipY float64) string {
	pts := [][2]float64{
		{x - pointerSize, tipY + 2*pointerSize},
		{x + pointerSize, tipY + 2*pointerSize},
		{x, tipY},
	}
	parts := make([]string, 0, len(pts))
	for _, p := range pts {
		parts = append(parts, num(p[0])+","+num(p[1]))
	}
	return strings.Join(parts, " ")
}

func num(v float64) string {
	s := fmt.Sprintf("%.3f", v)
	s = strings.TrimRight(s, "0")
	s = strings.TrimSuffix(s, ".")
	if s == "-0" {
		return "0"
	}
	return s
}
