package render

import "github.com/robmorgan/metronizer/rhythm"

// Align is the horizontal anchor of a text element.
type Align string

const (
	AlignLeft   Align = "left"
	AlignCenter Align = "center"
	AlignRight  Align = "right"
)

// Text is a string drawn at a canvas position. Colors are "#rrggbb".
type Text struct {
	Content string  `json:"content"`
	X       float64 `json:"x"`
	Y       float64 `json:"y"`
	Color   string  `json:"color"`
	Align   Align   `json:"align"`
}

// Rect is an axis-aligned filled rectangle.
type Rect struct {
	X      float64 `json:"x"`
	Y      float64 `json:"y"`
	Width  float64 `json:"width"`
	Height float64 `json:"height"`
	Color  string  `json:"color"`
}

// Box is an outlined rectangle.
type Box struct {
	Rect
	StrokeWidth float64 `json:"strokeWidth"`
}

// Circle is the bouncing ball.
type Circle struct {
	X      float64 `json:"x"`
	Y      float64 `json:"y"`
	Radius float64 `json:"radius"`
	Color  string  `json:"color"`

	// Jump is the height of the ball above its resting line.
	Jump float64 `json:"jump"`
}

// BarLine is one bar on the scrolling timeline with its sub-beat ticks.
type BarLine struct {
	Line Rect `json:"line"`

	// Number is the counted bar number. Precount bars have no number and read 0.
	Number   int    `json:"number"`
	Counted  bool   `json:"counted"`
	SubBeats []Rect `json:"subBeats,omitempty"`
}

// CommentMark is a comment label with its marker line.
type CommentMark struct {
	Label  Text `json:"label"`
	Marker Rect `json:"marker"`
}

// Frame is everything a render adapter needs to draw one instant of playback. It is a pure function of the
// scene and the elapsed playback time.
type Frame struct {
	ElapsedMs float64 `json:"elapsedMs"`
	Width     float64 `json:"width"`
	Height    float64 `json:"height"`

	Background string `json:"background"`
	Playhead   Rect   `json:"playhead"`

	// HasSection is false for an empty timeline. Counter, info and ball are then left empty.
	HasSection bool            `json:"hasSection"`
	Position   rhythm.Position `json:"-"`

	HeaderBoxes []Box `json:"headerBoxes,omitempty"`

	Counter  Text          `json:"counter"`
	Info     []Text        `json:"info,omitempty"`
	Ball     Circle        `json:"ball"`
	Bars     []BarLine     `json:"bars,omitempty"`
	Markers  []Text        `json:"markers,omitempty"`
	Comments []CommentMark `json:"comments,omitempty"`
}
