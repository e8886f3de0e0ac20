package render

import (
	"math"
	"testing"

	"github.com/robmorgan/metronizer/config"
	"github.com/robmorgan/metronizer/rhythm"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testScene(t *testing.T, sections []rhythm.Section, comments []rhythm.Comment) Scene {
	t.Helper()
	st, err := StyleFromConfig(config.DefaultConfig())
	require.NoError(t, err)
	return Scene{Sections: sections, Comments: comments, Style: st}
}

func precountSections() []rhythm.Section {
	return []rhythm.Section{
		{BarCount: 1, BPM: 60, Numerator: 4, Denominator: 4, ExcludedFromCount: true},
		{BarCount: 2, BPM: 60, Numerator: 4, Denominator: 4},
	}
}

func TestFormatTime(t *testing.T) {
	t.Parallel()

	testCases := []struct {
		ms       float64
		expected string
	}{
		{0, "00:00.00"},
		{61234.5, "01:01.23"},
		{-5, "00:00.00"},
		{3601000, "00:01.00"},
		{599990, "09:59.99"},
	}

	for _, testCase := range testCases {
		assert.Equal(t, testCase.expected, FormatTime(testCase.ms))
	}
}

func TestCounterText(t *testing.T) {
	t.Parallel()

	sections := precountSections()
	total := rhythm.TotalDuration(sections)

	at := func(ms float64) string {
		pos, _ := rhythm.Locate(sections, ms)
		return CounterText(pos, rhythm.TimeToEnd(sections, ms))
	}

	assert.Equal(t, "0 | 0/4", at(-1))
	assert.Equal(t, "0 | 1/4", at(0))
	assert.Equal(t, "0 | 4/4", at(3999))
	assert.Equal(t, "1 | 1/4", at(4000))
	assert.Equal(t, "2 | 3/4", at(10500))
	assert.Equal(t, "END", at(total))
}

func TestComposeEmptyTimeline(t *testing.T) {
	t.Parallel()

	f := Compose(testScene(t, nil, []rhythm.Comment{{Bar: 1, SubBeat: 1, Message: "lost"}}), 1000)
	assert.False(t, f.HasSection)
	assert.Empty(t, f.Counter.Content)
	assert.Empty(t, f.Bars)
	assert.Empty(t, f.Comments)
	assert.Equal(t, "#000000", f.Background)
}

func TestComposeIsPure(t *testing.T) {
	t.Parallel()

	scene := testScene(t, precountSections(), []rhythm.Comment{{Bar: 2, SubBeat: 3, Message: "here"}})
	scene.Playing = true
	for _, elapsed := range []float64{0, 1234.5, 7000, 12500} {
		assert.Equal(t, Compose(scene, elapsed), Compose(scene, elapsed))
	}
}

func TestComposeBarLines(t *testing.T) {
	t.Parallel()

	scene := testScene(t, precountSections(), nil)

	// 200 px/s with the playhead at 640: bars start every 800 px
	f := Compose(scene, 0)
	require.Len(t, f.Bars, 2)
	assert.False(t, f.Bars[0].Counted)
	assert.Equal(t, 0, f.Bars[0].Number)
	assert.Equal(t, 635.0, f.Bars[0].Line.X)
	assert.True(t, f.Bars[1].Counted)
	assert.Equal(t, 1, f.Bars[1].Number)
	assert.Len(t, f.Bars[1].SubBeats, 3)

	f = Compose(scene, 4000)
	require.Len(t, f.Bars, 3)
	assert.Equal(t, []int{0, 1, 2}, []int{f.Bars[0].Number, f.Bars[1].Number, f.Bars[2].Number})

	// bars left of the fade start vanish into the background
	assert.Equal(t, f.Background, f.Bars[0].Line.Color)
	assert.Equal(t, "#ffffff", f.Bars[1].Line.Color)
}

func TestComposePrecountIsDimmed(t *testing.T) {
	t.Parallel()

	f := Compose(testScene(t, precountSections(), nil), 0)
	assert.Equal(t, "#7f7f7f", f.Bars[0].Line.Color)
	assert.Equal(t, "#ffffff", f.Bars[1].Line.Color)
}

func TestComposeMarkers(t *testing.T) {
	t.Parallel()

	sections := []rhythm.Section{
		{BarCount: 1, BPM: 60, Numerator: 4, Denominator: 4},
		{BarCount: 1, BPM: 90, Numerator: 4, Denominator: 4},
		{BarCount: 1, BPM: 90, Numerator: 3, Denominator: 4},
	}
	f := Compose(testScene(t, sections, nil), 0)

	var contents []string
	for _, m := range f.Markers {
		contents = append(contents, m.Content)
	}
	assert.Equal(t, []string{"90", "3/4"}, contents)
	assert.Equal(t, 1440.0, f.Markers[0].X)
}

func TestComposeCommentsMatchBarLines(t *testing.T) {
	t.Parallel()

	comments := []rhythm.Comment{
		{Bar: 1, SubBeat: 1, Message: "first"},
		{Bar: 99, SubBeat: 1, Message: "missing"},
	}
	f := Compose(testScene(t, precountSections(), comments), 4000)

	require.Len(t, f.Comments, 1)
	assert.Equal(t, "first", f.Comments[0].Label.Content)
	assert.Equal(t, f.Bars[1].Line.X, f.Comments[0].Marker.X)
}

func TestComposeInfo(t *testing.T) {
	t.Parallel()

	scene := testScene(t, precountSections(), nil)
	scene.Style.ShowTimeRemaining = true
	scene.Style.Title = "Soundcheck"

	f := Compose(scene, 5000)
	require.Len(t, f.Info, 5)
	assert.Equal(t, "60 BPM", f.Info[0].Content)
	assert.Equal(t, "#ff0000", f.Info[0].Color)
	assert.Equal(t, "4/4", f.Info[1].Content)
	assert.Equal(t, "00:05.00", f.Info[2].Content)
	assert.Equal(t, "-00:07.00", f.Info[3].Content)
	assert.Equal(t, "Soundcheck", f.Info[4].Content)
}

func TestComposeBall(t *testing.T) {
	t.Parallel()

	scene := testScene(t, precountSections(), nil)
	height := scene.Style.Height

	f := Compose(scene, 500)
	assert.InDelta(t, height/5, f.Ball.Jump, 1e-9)
	assert.Equal(t, 640.0, f.Ball.X)
	assert.InDelta(t, height/2-height/5-50, f.Ball.Y, 1e-9)

	scene.Style.BarPronunciation = 50
	f = Compose(scene, 3500)
	assert.InDelta(t, height/5*1.5, f.Ball.Jump, 1e-9)

	f = Compose(scene, 2500)
	assert.InDelta(t, height/5, f.Ball.Jump, 1e-9)
}

func TestComposeBallRollsOffAtTheEnd(t *testing.T) {
	t.Parallel()

	scene := testScene(t, precountSections(), nil)
	scene.Playing = true
	height := scene.Style.Height

	// the last beat starts at 11000
	f := Compose(scene, 11500)
	bounce := height / 5 * math.Pow(0.99, 30)
	assert.InDelta(t, bounce, f.Ball.Jump, 1e-9)
	assert.InDelta(t, 640+500.0*500/20000, f.Ball.X, 1e-9)
	assert.InDelta(t, height/2-bounce-50+100, f.Ball.Y, 1e-9)

	f = Compose(scene, 20000)
	assert.Equal(t, "END", f.Counter.Content)
	assert.Equal(t, height-50, f.Ball.Y)

	// a paused transport keeps the ball at the playhead
	scene.Playing = false
	f = Compose(scene, 11500)
	assert.Equal(t, 640.0, f.Ball.X)
}

func TestClamp(t *testing.T) {
	t.Parallel()

	toUnit := ToUnitClamp(100, 200)
	assert.Equal(t, 0.0, toUnit(50))
	assert.Equal(t, 0.5, toUnit(150))
	assert.Equal(t, 1.0, toUnit(500))

	assert.Equal(t, 0.25, Clamp(0, 4, 0, 0.5)(2))
}

func TestComposeHeaderBoxes(t *testing.T) {
	t.Parallel()

	scene := testScene(t, precountSections(), nil)
	f := Compose(scene, 5000)
	assert.Empty(t, f.HeaderBoxes)
	assert.Equal(t, 0.0, f.Playhead.Y)
	assert.Equal(t, 1080.0, f.Playhead.Height)

	scene.Style.ShowHeaderBoxes = true
	f = Compose(scene, 5000)
	require.Len(t, f.HeaderBoxes, 3)
	left, middle, right := f.HeaderBoxes[0], f.HeaderBoxes[1], f.HeaderBoxes[2]
	assert.InDelta(t, 5, left.X, 1e-9)
	assert.InDelta(t, 334, left.Width, 1e-9)
	assert.InDelta(t, left.X+left.Width, middle.X, 1e-9)
	assert.InDelta(t, right.X, middle.X+middle.Width, 1e-9)
	assert.InDelta(t, 1920-5-334, right.X, 1e-9)
	assert.Equal(t, left.Width, right.Width)
	assert.Equal(t, 10.0, left.StrokeWidth)
	assert.InDelta(t, 208, left.Height, 1e-9)
	assert.InDelta(t, 208, f.Playhead.Y, 1e-9)
	assert.InDelta(t, 1080-208, f.Playhead.Height, 1e-9)

	// the header is drawn with the info, so an empty piece has none
	scene.Sections = nil
	assert.Empty(t, Compose(scene, 0).HeaderBoxes)
}
