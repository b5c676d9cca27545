package spline

import (
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type scalar float64

func (s scalar) Lerp(to scalar, fraction float64) scalar {
	return s + scalar(fraction)*(to-s)
}

func ramp(t *testing.T, mode Mode) *TimedSpline[scalar] {
	t.Helper()
	s, err := New[scalar](0, []Keyframe[scalar]{
		{Duration: time.Second, Positions: 1},
		{Duration: 2 * time.Second, Positions: 3},
	}, mode)
	require.NoError(t, err)
	return s
}

func TestNew_NoKeyframes(t *testing.T) {
	_, err := New[scalar](0, nil, Linear)
	assert.ErrorIs(t, err, ErrNoKeyframes)
}

func TestNew_NegativeDuration(t *testing.T) {
	_, err := New[scalar](0, []Keyframe[scalar]{
		{Duration: time.Second, Positions: 1},
		{Duration: -time.Millisecond, Positions: 2},
	}, Linear)
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrNegativeDuration))
	assert.Contains(t, err.Error(), "keyframe 1")
}

func TestTimedSpline_Endpoints(t *testing.T) {
	s := ramp(t, Linear)

	assert.Equal(t, 3*time.Second, s.TotalDuration())
	assert.Equal(t, scalar(0), s.StartPosition())
	assert.Equal(t, scalar(3), s.EndPosition())
}

func TestTimedSpline_ValueAtLinear(t *testing.T) {
	s := ramp(t, Linear)

	tests := []struct {
		elapsed time.Duration
		want    scalar
	}{
		{-time.Second, 0},
		{0, 0},
		{500 * time.Millisecond, 0.5},
		{time.Second, 1},
		{2 * time.Second, 2},
		{3 * time.Second, 3},
		{10 * time.Second, 3},
	}

	for _, tc := range tests {
		assert.InDelta(t, float64(tc.want), float64(s.ValueAt(tc.elapsed)), 1e-9, "elapsed %v", tc.elapsed)
	}
}

func TestTimedSpline_ValueAtCosine(t *testing.T) {
	s := ramp(t, Cosine)

	// Cosine easing is symmetric: the midpoint of a segment is the midpoint value.
	assert.InDelta(t, 0.5, float64(s.ValueAt(500*time.Millisecond)), 1e-9)
	// Slower than linear near the start of a segment.
	assert.Less(t, float64(s.ValueAt(100*time.Millisecond)), 0.1)
}

func TestTimedSpline_ValueAtStep(t *testing.T) {
	s := ramp(t, Step)

	assert.Equal(t, scalar(0), s.ValueAt(999*time.Millisecond))
	assert.Equal(t, scalar(1), s.ValueAt(time.Second))
	assert.Equal(t, scalar(1), s.ValueAt(2900*time.Millisecond))
}

func TestTimedSpline_ZeroDuration(t *testing.T) {
	s, err := New[scalar](4, []Keyframe[scalar]{{Duration: 0, Positions: 7}}, Linear)
	require.NoError(t, err)

	assert.Equal(t, time.Duration(0), s.TotalDuration())
	assert.Equal(t, scalar(4), s.ValueAt(0))
	assert.Equal(t, scalar(7), s.EndPosition())
}

func TestTimedSpline_ZeroLengthSegment(t *testing.T) {
	s, err := New[scalar](0, []Keyframe[scalar]{
		{Duration: time.Second, Positions: 1},
		{Duration: 0, Positions: 5},
		{Duration: time.Second, Positions: 6},
	}, Linear)
	require.NoError(t, err)

	assert.Equal(t, scalar(5), s.ValueAt(time.Second))
	assert.InDelta(t, 5.5, float64(s.ValueAt(1500*time.Millisecond)), 1e-9)
}

func TestTimedSpline_SetStartPosition(t *testing.T) {
	s := ramp(t, Linear)
	s.SetStartPosition(-1)

	assert.Equal(t, scalar(-1), s.StartPosition())
	assert.Equal(t, scalar(-1), s.ValueAt(0))
	assert.InDelta(t, 0, float64(s.ValueAt(500*time.Millisecond)), 1e-9)
	assert.Equal(t, scalar(3), s.EndPosition())
}

func TestParseMode(t *testing.T) {
	for name, want := range map[string]Mode{"": Linear, "linear": Linear, "Cosine": Cosine, " step ": Step} {
		got, err := ParseMode(name)
		require.NoError(t, err, name)
		assert.Equal(t, want, got, name)
	}

	_, err := ParseMode("catmull_rom")
	assert.ErrorIs(t, err, ErrUnknownMode)
}

func TestMode_Text(t *testing.T) {
	var m Mode
	require.NoError(t, m.UnmarshalText([]byte("cosine")))
	assert.Equal(t, Cosine, m)

	text, err := m.MarshalText()
	require.NoError(t, err)
	assert.Equal(t, "cosine", string(text))
}
