package render

import (
	"math"

	"github.com/lucasb-eyer/go-colorful"
	"github.com/robmorgan/metronizer/config"
	"github.com/robmorgan/metronizer/effect"
	"github.com/robmorgan/metronizer/rhythm"
)

// Layout constants of the virtual canvas.
const (
	RectWidth   = 10.0
	BigTextSize = 80.0

	// fadeStartPx is where timeline elements left of the playhead have faded out completely.
	fadeStartPx = 100.0

	// decayPerFrame is the ball bounce decay after the piece ends, applied per 60 Hz frame.
	decayPerFrame = 0.99

	headerPadding = 12.0
	headerStroke  = 10.0
	// headerBoxHeight fits the two info rows. The playhead starts below it when header boxes are shown.
	headerBoxHeight = BigTextSize*0.8 + BigTextSize*1.5 + headerPadding*2
	// glyphAspect approximates the advance of one glyph relative to the text size.
	glyphAspect = 0.6
)

// Style is the presentation configuration of a scene.
type Style struct {
	Width           float64
	Height          float64
	PlayheadX       float64
	PixelsPerSecond float64

	BallRadius       float64
	BarPronunciation float64
	Oscillator       effect.Oscillator

	Background colorful.Color
	Foreground colorful.Color
	Accent     colorful.Color

	Title             string
	ShowTimeRemaining bool
	ShowHeaderBoxes   bool
}

// StyleFromConfig derives a Style from the program configuration.
func StyleFromConfig(cfg config.MetronizerConfig) (Style, error) {
	osc, err := effect.NewOscillator(string(cfg.Waveform), cfg.Easing)
	if err != nil {
		return Style{}, err
	}
	return Style{
		Width:             cfg.CanvasWidth,
		Height:            cfg.CanvasHeight,
		PlayheadX:         cfg.PlayheadX(),
		PixelsPerSecond:   cfg.PixelsPerSecond,
		BallRadius:        cfg.BallRadius,
		BarPronunciation:  cfg.BarPronunciation,
		Oscillator:        osc,
		Background:        cfg.Background,
		Foreground:        cfg.Foreground,
		Accent:            cfg.Accent,
		Title:             cfg.Title,
		ShowTimeRemaining: cfg.ShowTimeRemaining,
		ShowHeaderBoxes:   cfg.ShowHeaderBoxes,
	}, nil
}

// Scene is the input of Compose: the timeline content, its style and whether playback is running.
type Scene struct {
	Sections []rhythm.Section
	Comments []rhythm.Comment
	Style    Style
	Playing  bool
}

// Compose computes the frame for elapsedMs. It is the single entry point shared by live playback and
// export, and depends on nothing but its arguments.
func Compose(scene Scene, elapsedMs float64) Frame {
	st := scene.Style
	f := Frame{
		ElapsedMs:  elapsedMs,
		Width:      st.Width,
		Height:     st.Height,
		Background: st.Background.Hex(),
	}

	pos, ok := rhythm.Locate(scene.Sections, elapsedMs)
	f.HasSection = ok
	f.Position = pos

	timeToEnd := rhythm.TimeToEnd(scene.Sections, elapsedMs)
	ending := scene.Playing && ok && timeToEnd > 0
	bounce := bounceHeight(st, pos, timeToEnd, ending)
	emphasis := ToUnitClamp(0, st.Height/8)(bounce)

	top := 0.0
	if st.ShowHeaderBoxes {
		top = headerBoxHeight
	}
	f.Playhead = Rect{
		X:      st.PlayheadX - RectWidth/2,
		Y:      top,
		Width:  RectWidth,
		Height: st.Height - top,
		Color:  lerp(st.Background, st.Foreground, Clamp(0, st.Height/8, 0, 0.1)(bounce)),
	}

	f.Comments = composeComments(scene, elapsedMs)
	if ok {
		if st.ShowHeaderBoxes {
			f.HeaderBoxes = composeHeaderBoxes(scene, pos, emphasis)
		}
		f.Info = composeInfo(scene, pos, elapsedMs, emphasis)
		f.Counter = composeCounter(st, pos, timeToEnd, emphasis)
		f.Ball = composeBall(st, pos, bounce, timeToEnd, ending)
	}
	f.Bars, f.Markers = composeTimeline(scene, elapsedMs)
	return f
}

// bounceHeight is the full ball jump for the current beat. The last sub-beat of a bar is emphasized by the
// bar pronunciation, and once the final beat has started the bounce decays with time.
func bounceHeight(st Style, pos rhythm.Position, timeToEnd float64, ending bool) float64 {
	base := st.Height / 5
	if ending {
		return base * math.Pow(decayPerFrame, timeToEnd*60/1000)
	}
	if pos.HasBeat() && pos.SubBeat == pos.Section.Numerator {
		return base * (1 + st.BarPronunciation/100)
	}
	return base
}

func composeBall(st Style, pos rhythm.Position, bounce, timeToEnd float64, ending bool) Circle {
	jump := st.Oscillator.Phase(pos) * bounce
	c := Circle{
		X:      st.PlayheadX,
		Y:      st.Height/2 - jump - st.BallRadius/2,
		Radius: st.BallRadius,
		Color:  st.Accent.Hex(),
		Jump:   jump,
	}
	if ending {
		// the ball drops to the floor and rolls off to the right
		c.Y = math.Min(st.Height-st.BallRadius/2, c.Y+timeToEnd/5)
		c.X += timeToEnd * timeToEnd / 20000
	}
	return c
}

func composeCounter(st Style, pos rhythm.Position, timeToEnd, emphasis float64) Text {
	color := st.Foreground.Hex()
	if !pos.HasBeat() {
		color = lerp(st.Background, st.Foreground, emphasis)
	}
	return Text{
		Content: CounterText(pos, timeToEnd),
		X:       st.Width / 2,
		Y:       10,
		Color:   color,
		Align:   AlignCenter,
	}
}

func composeInfo(scene Scene, pos rhythm.Position, elapsedMs, emphasis float64) []Text {
	st := scene.Style
	fg := lerp(st.Background, st.Foreground, emphasis)
	info := []Text{
		{Content: rhythm.FormatBPM(pos.Section.BPM) + " BPM", X: 10, Y: 10, Color: lerp(st.Background, st.Accent, emphasis), Align: AlignLeft},
		{Content: pos.Section.Signature(), X: 10, Y: BigTextSize + 10, Color: fg, Align: AlignLeft},
		{Content: FormatTime(elapsedMs), X: st.Width - 10, Y: 10, Color: fg, Align: AlignRight},
	}
	if st.ShowTimeRemaining {
		remaining := math.Max(0, rhythm.TotalDuration(scene.Sections)-elapsedMs)
		info = append(info, Text{Content: "-" + FormatTime(remaining), X: st.Width - 10, Y: BigTextSize + 10, Color: fg, Align: AlignRight})
	}
	if st.Title != "" {
		info = append(info, Text{Content: st.Title, X: st.Width / 2, Y: BigTextSize*1.5 + 20, Color: fg, Align: AlignCenter})
	}
	return info
}

// composeHeaderBoxes outlines the left info, the counter and the right info. Both side boxes share the width
// of the widest side text so they stay put while the texts change.
func composeHeaderBoxes(scene Scene, pos rhythm.Position, emphasis float64) []Box {
	st := scene.Style
	timeFormat := "-00:00"
	if rhythm.TotalDuration(scene.Sections) >= 3600000 {
		timeFormat = "-00:00:00"
	}
	widest := math.Max(float64(len(rhythm.FormatBPM(pos.Section.BPM)+" BPM")), float64(len(pos.Section.Signature())))
	widest = math.Max(widest, float64(len(timeFormat)))
	side := widest*BigTextSize*glyphAspect + headerPadding*3 + 10

	color := lerp(st.Background, st.Foreground, emphasis*0.5)
	y := headerStroke / 2
	left := headerStroke / 2
	right := st.Width - headerStroke/2 - side
	return []Box{
		{Rect: Rect{X: left, Y: y, Width: side, Height: headerBoxHeight, Color: color}, StrokeWidth: headerStroke},
		{Rect: Rect{X: left + side, Y: y, Width: right - left - side, Height: headerBoxHeight, Color: color}, StrokeWidth: headerStroke},
		{Rect: Rect{X: right, Y: y, Width: side, Height: headerBoxHeight, Color: color}, StrokeWidth: headerStroke},
	}
}

// composeComments places every comment whose bar exists. Comments addressing a bar past the end are hidden.
func composeComments(scene Scene, elapsedMs float64) []CommentMark {
	st := scene.Style
	var marks []CommentMark
	for _, c := range scene.Comments {
		x, ok := rhythm.CommentX(scene.Sections, c, st.PixelsPerSecond, elapsedMs, st.PlayheadX)
		if !ok {
			continue
		}
		amt := fade(st, x, 1)
		marks = append(marks, CommentMark{
			Label: Text{Content: c.Message, X: x, Y: st.Height / 4, Color: lerp(st.Background, st.Foreground, amt), Align: AlignLeft},
			Marker: Rect{
				X:      x - RectWidth/2,
				Y:      st.Height / 4,
				Width:  RectWidth / 2,
				Height: st.Height / 2,
				Color:  lerp(st.Background, st.Foreground, amt*0.5),
			},
		})
	}
	return marks
}

// composeTimeline lays out the visible bar lines and the tempo or signature change markers.
func composeTimeline(scene Scene, elapsedMs float64) ([]BarLine, []Text) {
	st := scene.Style
	var bars []BarLine
	var markers []Text

	counted := 0
	start := 0.0
	for i, s := range scene.Sections {
		sectionX := rhythm.PixelXAt(start, st.PixelsPerSecond, elapsedMs, st.PlayheadX)
		if i > 0 {
			prev := scene.Sections[i-1]
			if s.BPM != prev.BPM {
				markers = append(markers, Text{
					Content: rhythm.FormatBPM(s.BPM),
					X:       sectionX,
					Y:       st.Height/4*3 + BigTextSize + 10,
					Color:   lerp(st.Background, st.Foreground, fade(st, sectionX, 1)),
					Align:   AlignLeft,
				})
			}
			if s.Signature() != prev.Signature() {
				markers = append(markers, Text{
					Content: s.Signature(),
					X:       sectionX,
					Y:       st.Height - 10,
					Color:   lerp(st.Background, st.Accent, fade(st, sectionX, 1)),
					Align:   AlignLeft,
				})
			}
		}

		maxAmt := 1.0
		if s.ExcludedFromCount {
			maxAmt = 127.0 / 255.0
		}
		beat := s.BeatDurationMs()
		for j := 0; j < s.BarCount; j++ {
			barStart := start + float64(j*s.Numerator)*beat
			x := rhythm.PixelXAt(barStart, st.PixelsPerSecond, elapsedMs, st.PlayheadX)
			if !s.ExcludedFromCount {
				counted++
			}
			if x < -st.Width || x > st.Width {
				continue
			}

			bar := BarLine{
				Line: Rect{
					X:      x - RectWidth/2,
					Y:      st.Height / 2,
					Width:  RectWidth * 1.5,
					Height: st.Height / 4,
					Color:  lerp(st.Background, st.Foreground, fade(st, x, maxAmt)),
				},
				Counted: !s.ExcludedFromCount,
			}
			if bar.Counted {
				bar.Number = counted
			}
			for k := 1; k < s.Numerator; k++ {
				subX := rhythm.PixelXAt(barStart+float64(k)*beat, st.PixelsPerSecond, elapsedMs, st.PlayheadX)
				bar.SubBeats = append(bar.SubBeats, Rect{
					X:      subX - RectWidth/2,
					Y:      st.Height / 2,
					Width:  RectWidth,
					Height: st.Height / 6,
					Color:  lerp(st.Background, st.Foreground, fade(st, subX, maxAmt)),
				})
			}
			bars = append(bars, bar)
		}
		start += s.TotalDurationMs()
	}
	return bars, markers
}

// fade dims elements as they scroll left of the playhead, reaching the background at fadeStartPx.
func fade(st Style, x, maxAmt float64) float64 {
	return Clamp(fadeStartPx, st.PlayheadX, 0, maxAmt)(x)
}

func lerp(from, to colorful.Color, amt float64) string {
	return from.BlendRgb(to, clamp(amt, 0, 1)).Clamped().Hex()
}
