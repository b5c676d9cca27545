package joints

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestSliceRoundTrip(t *testing.T) {
	in := make([]float64, Count)
	for i := range in {
		in[i] = float64(i) / 10
	}

	j := FromSlice(in)
	assert.Equal(t, 0.0, j.Head.Yaw)
	assert.Equal(t, 0.1, j.Head.Pitch)
	assert.Equal(t, 0.2, j.LeftArm.ShoulderPitch)
	assert.Equal(t, 2.5, j.RightLeg.AnkleRoll)
	assert.Equal(t, in, j.Slice())
}

func TestFromSlice_Short(t *testing.T) {
	j := FromSlice([]float64{1})
	assert.Equal(t, 1.0, j.Head.Yaw)
	assert.Equal(t, 0.0, j.RightLeg.AnkleRoll)
}

func TestLerp(t *testing.T) {
	a := Fill(0)
	b := Fill(2)

	assert.Equal(t, a, a.Lerp(b, 0))
	assert.Equal(t, b, a.Lerp(b, 1))
	assert.Equal(t, Fill(0.5), a.Lerp(b, 0.25))
}

func TestMaxAbsDiff(t *testing.T) {
	a := Fill(0)
	b := a
	b.LeftLeg.KneePitch = -0.3
	b.Head.Yaw = 0.1

	assert.InDelta(t, 0.3, a.MaxAbsDiff(b), 1e-12)
	assert.Equal(t, 0.0, a.MaxAbsDiff(a))
}

var lerpResult Joints

func TestLerp_DoesNotAllocate(t *testing.T) {
	a := Fill(0)
	b := FromSlice([]float64{1, 2, 3})

	allocs := testing.AllocsPerRun(100, func() {
		lerpResult = a.Lerp(b, 0.5)
		_ = a.MaxAbsDiff(b)
	})
	assert.Zero(t, allocs)
	assert.Equal(t, 1.5, lerpResult.LeftArm.ShoulderPitch)
}
