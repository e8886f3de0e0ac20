package rhythm

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBarDuration(t *testing.T) {
	t.Parallel()

	testCases := []struct {
		bpm       float64
		numerator int
		expected  float64
	}{
		{120, 4, 2000},
		{90, 6, 4000},
		{60, 3, 3000},
		{60, 1, 1000},
	}

	for _, testCase := range testCases {
		s, err := NewSection(4, testCase.bpm, testCase.numerator, 4, false)
		require.NoError(t, err)
		assert.InDelta(t, testCase.expected, s.BarDurationMs(), 1e-9)
		assert.InDelta(t, testCase.expected*4, s.TotalDurationMs(), 1e-9)
	}
}

func TestNewSectionRejectsBadFields(t *testing.T) {
	t.Parallel()

	_, err := NewSection(0, 0, 0, 4, false)
	require.Error(t, err)

	var sectionErr *InvalidSectionError
	require.True(t, errors.As(err, &sectionErr))
	assert.Equal(t, []string{"barCount", "bpm", "timeSignatureNumerator"}, sectionErr.Fields)
}

func TestNewSectionAcceptsFractionalTempo(t *testing.T) {
	t.Parallel()

	s, err := NewSection(2, 92.5, 4, 4, false)
	require.NoError(t, err)
	assert.Equal(t, "2 92.5 4/4", s.String())
}

func TestSectionString(t *testing.T) {
	t.Parallel()

	assert.Equal(t, "4 120 4/4", Section{BarCount: 4, BPM: 120, Numerator: 4, Denominator: 4}.String())
	assert.Equal(t, "1 60 4/4 x", Section{BarCount: 1, BPM: 60, Numerator: 4, Denominator: 4, ExcludedFromCount: true}.String())
	assert.Equal(t, "2 90 6/8", Section{BarCount: 2, BPM: 90, Numerator: 6, Denominator: 8}.String())
}

func TestParseSignature(t *testing.T) {
	t.Parallel()

	num, den, err := ParseSignature("7/8")
	require.NoError(t, err)
	assert.Equal(t, 7, num)
	assert.Equal(t, 8, den)

	for _, bad := range []string{"4", "a/4", "4/0", "0/4", "4/4/4"} {
		_, _, err := ParseSignature(bad)
		assert.Error(t, err, bad)
	}
}

func TestDefaults(t *testing.T) {
	t.Parallel()

	s := DefaultSection()
	assert.Equal(t, 1, s.BarCount)
	assert.Equal(t, 60.0, s.BPM)
	assert.Equal(t, "4/4", s.Signature())

	c := DefaultComment()
	assert.Equal(t, 2, c.Bar)
	assert.Equal(t, 1, c.SubBeat)
	assert.Empty(t, c.Message)
}

func TestCommentString(t *testing.T) {
	t.Parallel()

	assert.Equal(t, "c 1 1 Test", Comment{Bar: 1, SubBeat: 1, Message: "Test"}.String())
	assert.Equal(t, "c 5 2 This is a long comment", Comment{Bar: 5, SubBeat: 2, Message: "This is a long comment"}.String())
	assert.Equal(t, "c 1 1 ", Comment{Bar: 1, SubBeat: 1}.String())
}

func TestNewCommentRejectsBadFields(t *testing.T) {
	t.Parallel()

	_, err := NewComment(0, 0, "x")
	var commentErr *InvalidCommentError
	require.True(t, errors.As(err, &commentErr))
	assert.Equal(t, []string{"bar", "subBeat"}, commentErr.Fields)
}
