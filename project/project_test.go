package project

import (
	"encoding/json"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/robmorgan/metronizer/rhythm"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func sampleProject() Project {
	return Project{
		Sections: []rhythm.Section{
			{BarCount: 1, BPM: 110, Numerator: 4, Denominator: 4, ExcludedFromCount: true},
			{BarCount: 2, BPM: 92.5, Numerator: 7, Denominator: 8},
			{BarCount: 16, BPM: 140, Numerator: 1, Denominator: 4},
		},
		Comments: []rhythm.Comment{
			{Bar: 1, SubBeat: 1, Message: "Test comment"},
			{Bar: 3, SubBeat: 5, Message: "  spaced   out  "},
			{Bar: 9, SubBeat: 1, Message: ""},
		},
	}
}

func TestParseExample(t *testing.T) {
	t.Parallel()

	p, err := Parse(Example)
	require.NoError(t, err)
	require.Len(t, p.Sections, 4)
	require.Len(t, p.Comments, 1)

	assert.True(t, p.Sections[0].ExcludedFromCount)
	assert.Equal(t, 110.0, p.Sections[0].BPM)
	assert.Equal(t, 3, p.Sections[3].Numerator)
	assert.Equal(t, "Test comment", p.Comments[0].Message)
	assert.Nil(t, p.Settings)
}

func TestRoundTrip(t *testing.T) {
	t.Parallel()

	for _, sep := range []string{CRLF, LF} {
		in := sampleProject()
		out, err := Parse(FormatWith(in, sep))
		require.NoError(t, err)
		assert.Equal(t, in, out, "separator %q", sep)
	}
}

func TestRoundTripKeepsSettings(t *testing.T) {
	t.Parallel()

	in := sampleProject()
	in.Settings = json.RawMessage(`{"title":"Live","pixelPerSecond":250,"unknownKey":[1,2]}`)

	text := Format(in)
	assert.True(t, strings.HasPrefix(text, `settings {"title":"Live"`))

	out, err := Parse(text)
	require.NoError(t, err)
	assert.Equal(t, in, out)
}

func TestFormat(t *testing.T) {
	t.Parallel()

	p, err := Parse(Example)
	require.NoError(t, err)
	assert.Equal(t, Example, Format(p))
	assert.Equal(t, "", Format(Project{}))
}

func TestParseSkipsBlankLines(t *testing.T) {
	t.Parallel()

	p, err := Parse("\r\n4 120 4/4\n\n   \r\nc 2 1 hi\r\n")
	require.NoError(t, err)
	assert.Len(t, p.Sections, 1)
	assert.Len(t, p.Comments, 1)
}

func TestParseCommentEdgeCases(t *testing.T) {
	t.Parallel()

	p, err := Parse("c 1 2\nc 1 1 \nc 4 1 a  b ")
	require.NoError(t, err)
	require.Len(t, p.Comments, 3)
	assert.Equal(t, "", p.Comments[0].Message)
	assert.Equal(t, "", p.Comments[1].Message)
	assert.Equal(t, "a  b ", p.Comments[2].Message)
}

func TestParseIsBestEffort(t *testing.T) {
	t.Parallel()

	input := strings.Join([]string{
		"4 120 4/4",
		"4 abc 4/4",
		"0 120 4/4",
		"4 120 4-4",
		"4 120 4/4 y",
		"c x 1 bad bar",
		"c 1 0 bad sub",
		"2 60 3/4",
		"settings {\"title\":\"late\"}",
	}, CRLF)

	p, err := Parse(input)
	require.Error(t, err)
	require.Len(t, p.Sections, 2)
	assert.Empty(t, p.Comments)

	var parseErrs ParseErrors
	require.True(t, errors.As(err, &parseErrs))

	var got []string
	for _, perr := range parseErrs {
		got = append(got, perr.Field)
	}
	assert.Equal(t, []string{"bpm", "barCount", "timeSignature", "excludedFromCount", "bar", "subBeat", "settings"}, got)
	assert.Equal(t, 2, parseErrs[0].Line)
	assert.Equal(t, "4 abc 4/4", parseErrs[0].Text)

	var sectionErr *rhythm.InvalidSectionError
	assert.True(t, errors.As(parseErrs[1], &sectionErr))
}

func TestParseRejectsBadSettings(t *testing.T) {
	t.Parallel()

	p, err := Parse("settings {not json\n1 60 4/4")
	require.Error(t, err)
	assert.Nil(t, p.Settings)
	assert.Len(t, p.Sections, 1)
}

func TestHasAllowedExtension(t *testing.T) {
	t.Parallel()

	assert.True(t, HasAllowedExtension("song.txt"))
	assert.True(t, HasAllowedExtension("/tmp/Song.MET"))
	assert.False(t, HasAllowedExtension("song.json"))
	assert.False(t, HasAllowedExtension("song"))
}

func TestSaveAndLoad(t *testing.T) {
	t.Parallel()

	path := filepath.Join(t.TempDir(), "song.met")
	in := sampleProject()
	require.NoError(t, Save(path, in))

	raw, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Contains(t, string(raw), CRLF)

	out, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, in, out)
}

func TestLoadErrors(t *testing.T) {
	t.Parallel()

	_, err := Load(filepath.Join(t.TempDir(), "missing.txt"))
	assert.Error(t, err)

	_, err = Load("song.wav")
	assert.Error(t, err)

	path := filepath.Join(t.TempDir(), "broken.txt")
	require.NoError(t, os.WriteFile(path, []byte("4 120 4/4\nnope\n"), 0o644))
	p, err := Load(path)
	require.Error(t, err)
	assert.Len(t, p.Sections, 1)
}

func TestProjectTimeline(t *testing.T) {
	t.Parallel()

	p, err := Parse(Example)
	require.NoError(t, err)

	tl, err := p.Timeline()
	require.NoError(t, err)
	assert.Equal(t, 9, tl.CountedBars())

	back := FromTimeline(tl, p.Settings)
	assert.Equal(t, p, back)
}
