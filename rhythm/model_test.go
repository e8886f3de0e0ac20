package rhythm

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func mustSection(t *testing.T, bars int, bpm float64, sig string, excluded bool) Section {
	t.Helper()
	num, den, err := ParseSignature(sig)
	require.NoError(t, err)
	s, err := NewSection(bars, bpm, num, den, excluded)
	require.NoError(t, err)
	return s
}

func variedSections(t *testing.T) []Section {
	return []Section{
		mustSection(t, 2, 100, "3/4", false),
		mustSection(t, 3, 140, "7/8", false),
		mustSection(t, 1, 75.5, "5/4", false),
	}
}

func TestTotalDuration(t *testing.T) {
	t.Parallel()

	assert.Equal(t, 0.0, TotalDuration(nil))

	sections := variedSections(t)
	sum := 0.0
	for _, s := range sections {
		sum += s.TotalDurationMs()
	}
	assert.Equal(t, sum, TotalDuration(sections))
}

func TestLocateEmpty(t *testing.T) {
	t.Parallel()

	_, ok := Locate(nil, 1000)
	assert.False(t, ok)

	_, ok = TimeOfBar(nil, 1)
	assert.False(t, ok)
	assert.Empty(t, BeatsBetween(nil, -1, 1000))
	assert.Equal(t, 0.0, TimeToEnd(nil, 1000))
}

func TestLocateSingleSection(t *testing.T) {
	t.Parallel()

	sections := []Section{mustSection(t, 2, 60, "4/4", false)}
	assert.Equal(t, 8000.0, TotalDuration(sections))

	testCases := []struct {
		elapsed float64
		bar     int
		subBeat int
	}{
		{0, 1, 1},
		{999, 1, 1},
		{1000, 1, 2},
		{2000, 1, 3},
		{3999, 1, 4},
		{4000, 2, 1},
		{7999, 2, 4},
	}

	for _, testCase := range testCases {
		pos, ok := Locate(sections, testCase.elapsed)
		require.True(t, ok)
		assert.Equal(t, StatusInSection, pos.Status)
		assert.Equal(t, 0, pos.SectionIndex)
		assert.Equal(t, testCase.bar, pos.BarNumber, "bar at %v", testCase.elapsed)
		assert.Equal(t, testCase.subBeat, pos.SubBeat, "subBeat at %v", testCase.elapsed)
	}
}

func TestLocateOutsideThePiece(t *testing.T) {
	t.Parallel()

	sections := []Section{
		mustSection(t, 1, 110, "4/4", true),
		mustSection(t, 2, 120, "4/4", false),
	}

	before, ok := Locate(sections, -10)
	require.True(t, ok)
	assert.Equal(t, StatusBeforeStart, before.Status)
	assert.Equal(t, 0, before.SectionIndex)
	assert.Equal(t, 0, before.BarNumber)
	assert.Equal(t, 0, before.SubBeat)
	assert.False(t, before.HasBeat())

	ended, ok := Locate(sections, TotalDuration(sections))
	require.True(t, ok)
	assert.Equal(t, StatusEnded, ended.Status)
	assert.Equal(t, 0, ended.SectionIndex)
	assert.Equal(t, 2, ended.BarNumber)
	assert.Equal(t, 0, ended.SubBeat)
	assert.Equal(t, 0.0, ended.Progress())
}

func TestLocatePrecount(t *testing.T) {
	t.Parallel()

	sections := []Section{
		mustSection(t, 1, 110, "4/4", true),
		mustSection(t, 2, 120, "4/4", false),
	}
	precount := sections[0].TotalDurationMs()

	for _, elapsed := range []float64{0, 500, 1000, 2000, precount - 1} {
		pos, _ := Locate(sections, elapsed)
		assert.Equal(t, 0, pos.BarNumber, "precount at %v", elapsed)
		assert.Equal(t, 0, pos.SectionIndex)
		assert.True(t, pos.HasBeat())
		assert.False(t, pos.IsCounted())
	}

	pos, _ := Locate(sections, precount)
	assert.Equal(t, 1, pos.SectionIndex)
	assert.Equal(t, 1, pos.BarNumber)
	assert.Equal(t, 1, pos.SubBeat)
	assert.True(t, pos.IsCounted())

	pos, _ = Locate(sections, precount+2000)
	assert.Equal(t, 2, pos.BarNumber)
}

func TestLocateIsMonotonic(t *testing.T) {
	t.Parallel()

	sections := variedSections(t)
	total := TotalDuration(sections)

	var prev Position
	for elapsed := 0.0; elapsed < total; elapsed += 37 {
		pos, _ := Locate(sections, elapsed)
		if elapsed > 0 {
			require.GreaterOrEqual(t, pos.BarNumber, prev.BarNumber)
			if pos.BarNumber == prev.BarNumber {
				require.Equal(t, prev.SectionIndex, pos.SectionIndex)
				require.Equal(t, prev.BarInSection, pos.BarInSection)
			}
		}
		prev = pos
	}
}

func TestBarBoundaryBelongsToNewBar(t *testing.T) {
	t.Parallel()

	sections := append([]Section{mustSection(t, 1, 110, "4/4", true)}, variedSections(t)...)
	for _, start := range BarStartTimes(sections) {
		if start >= TotalDuration(sections) {
			continue
		}
		pos, _ := Locate(sections, start)
		assert.Equal(t, 1, pos.SubBeat, "sub-beat at bar start %v", start)
		assert.Equal(t, 0, pos.BeatInSection%pos.Section.Numerator)
	}
}

func TestTimeOfBarIsInverseOfLocate(t *testing.T) {
	t.Parallel()

	withPrecount := append([]Section{mustSection(t, 2, 110, "4/4", true)}, variedSections(t)...)
	for _, sections := range [][]Section{variedSections(t), withPrecount} {
		counted := CountedBars(sections)
		require.Equal(t, 6, counted)

		for n := 1; n <= counted; n++ {
			start, ok := TimeOfBar(sections, n)
			require.True(t, ok)
			pos, _ := Locate(sections, start)
			assert.Equal(t, n, pos.BarNumber)
			assert.Equal(t, 1, pos.SubBeat)
		}

		_, ok := TimeOfBar(sections, 0)
		assert.False(t, ok)
		_, ok = TimeOfBar(sections, counted+1)
		assert.False(t, ok)
	}
}

func TestTimeOfPosition(t *testing.T) {
	t.Parallel()

	sections := []Section{
		mustSection(t, 1, 60, "4/4", true),
		mustSection(t, 2, 60, "3/4", false),
	}

	tm, ok := TimeOfPosition(sections, 2, 3)
	require.True(t, ok)
	assert.Equal(t, 9000.0, tm)

	pos, _ := Locate(sections, tm)
	assert.Equal(t, 2, pos.BarNumber)
	assert.Equal(t, 3, pos.SubBeat)

	clamped, ok := TimeOfPosition(sections, 1, 9)
	require.True(t, ok)
	assert.Equal(t, 6000.0, clamped)
}

func TestCommentPixelMatchesBarStart(t *testing.T) {
	t.Parallel()

	sections := append([]Section{mustSection(t, 1, 110, "4/4", true)}, variedSections(t)...)
	pixelsPerSecond := 200.0
	playhead := 640.0
	elapsed := 1234.5

	for bar := 1; bar <= CountedBars(sections); bar++ {
		start, ok := TimeOfBar(sections, bar)
		require.True(t, ok)

		x, ok := CommentX(sections, Comment{Bar: bar, SubBeat: 1}, pixelsPerSecond, elapsed, playhead)
		require.True(t, ok)
		assert.Equal(t, PixelXAt(start, pixelsPerSecond, elapsed, playhead), x)

		pos, _ := Locate(sections, TimeAtPixelX(x, pixelsPerSecond, elapsed, playhead))
		assert.Equal(t, bar, pos.BarNumber)
	}

	_, ok := CommentX(sections, Comment{Bar: 99, SubBeat: 1}, pixelsPerSecond, elapsed, playhead)
	assert.False(t, ok)
}

func TestPixelXAtPlayhead(t *testing.T) {
	t.Parallel()

	assert.Equal(t, 640.0, PixelXAt(5000, 200, 5000, 640))
	assert.Equal(t, 840.0, PixelXAt(6000, 200, 5000, 640))
	assert.Equal(t, 440.0, PixelXAt(4000, 200, 5000, 640))
	assert.InDelta(t, 6000.0, TimeAtPixelX(840, 200, 5000, 640), 1e-9)
}

func TestBarStartTimes(t *testing.T) {
	t.Parallel()

	sections := []Section{
		mustSection(t, 1, 60, "4/4", true),
		mustSection(t, 2, 120, "3/4", false),
	}
	assert.Equal(t, []float64{0, 4000, 5500, 7000}, BarStartTimes(sections))
	assert.Equal(t, []float64{0}, BarStartTimes(nil))
}

func TestTimeToEnd(t *testing.T) {
	t.Parallel()

	sections := []Section{mustSection(t, 2, 60, "4/4", false)}
	assert.Equal(t, -1000.0, TimeToEnd(sections, 6000))
	assert.Equal(t, 0.0, TimeToEnd(sections, 7000))
	assert.Equal(t, 1500.0, TimeToEnd(sections, 8500))
}

func TestBeatsBetween(t *testing.T) {
	t.Parallel()

	sections := []Section{
		mustSection(t, 1, 60, "2/4", true),
		mustSection(t, 2, 60, "4/4", false),
	}

	all := BeatsBetween(sections, -1, TotalDuration(sections)+5000)
	require.Len(t, all, 10)
	assert.Equal(t, 0.0, all[0].TimeMs)
	assert.Equal(t, BeatKindBarStart, all[0].Kind())
	assert.False(t, all[0].Counted)
	assert.Equal(t, 0, all[1].BarNumber)
	assert.Equal(t, BeatKindBeat, all[1].Kind())

	assert.Equal(t, 2000.0, all[2].TimeMs)
	assert.Equal(t, 1, all[2].BarNumber)
	assert.Equal(t, 1, all[2].SubBeat)
	assert.True(t, all[2].Counted)

	last := all[len(all)-1]
	assert.Equal(t, 9000.0, last.TimeMs)
	assert.Equal(t, 2, last.BarNumber)
	assert.Equal(t, 4, last.SubBeat)

	// half-open on the left, closed on the right
	some := BeatsBetween(sections, 1000, 3000)
	require.Len(t, some, 2)
	assert.Equal(t, 2000.0, some[0].TimeMs)
	assert.Equal(t, 3000.0, some[1].TimeMs)

	assert.Empty(t, BeatsBetween(sections, 3000, 3000))
	assert.Empty(t, BeatsBetween(sections, 3100, 3900))
}

func TestPositionMarker(t *testing.T) {
	t.Parallel()

	sections := []Section{
		{BarCount: 1, BPM: 120, Numerator: 4, Denominator: 4, ExcludedFromCount: true},
		{BarCount: 2, BPM: 60, Numerator: 3, Denominator: 4},
	}

	testCases := []struct {
		elapsedMs float64
		expected  string
	}{
		{-10, "0.0"},
		{600, "0.2"},
		{2000, "1.1"},
		{6500, "2.2"},
	}

	for _, testCase := range testCases {
		pos, _ := Locate(sections, testCase.elapsedMs)
		assert.Equal(t, testCase.expected, pos.Marker(), "at %v ms", testCase.elapsedMs)
	}
}
