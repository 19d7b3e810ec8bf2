package viewmodel

// WheelPage holds data for the main wheel page template.
type WheelPage struct {
	Title     string
	WheelID   string
	InviteURL string
	SpinURL   string
	StreamURL string
	StateURL  string
	Wheel     Wheel
	Legend    []LegendEntry
	Result    ResultFragment
	Wheels    []string
}

// Wheel holds the SVG geometry of the wheel and pointer.
type Wheel struct {
	Width    int
	Height   int
	CenterX  float64
	CenterY  float64
	Radius   float64
	Hub      float64
	Rotation float64
	Segments []Segment
	Pointer  string
}

// Segment is one colored slice drawn at rotation 0.
type Segment struct {
	Index      int
	Label      string
	Color      string
	StartAngle float64
	Extent     float64
	Path       string
}

// LegendEntry places a color block and label beside the wheel.
type LegendEntry struct {
	Label string
	Color string
	Side  string
	XPct  float64
	YPct  float64
}

// ResultFragment holds data for the winner panel.
type ResultFragment struct {
	Spinning  bool
	HasResult bool
	Label     string
	Color     string
	Message   string
}
