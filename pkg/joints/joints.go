// Package joints defines the joint-angle vector commanded to the robot.
package joints

import "math"

// Head holds the neck joints in radians.
type Head struct {
	Yaw   float64 `json:"yaw" yaml:"yaw"`
	Pitch float64 `json:"pitch" yaml:"pitch"`
}

// Arm holds one arm's joints in radians. Hand is the gripper opening in [0, 1].
type Arm struct {
	ShoulderPitch float64 `json:"shoulder_pitch" yaml:"shoulder_pitch"`
	ShoulderRoll  float64 `json:"shoulder_roll" yaml:"shoulder_roll"`
	ElbowYaw      float64 `json:"elbow_yaw" yaml:"elbow_yaw"`
	ElbowRoll     float64 `json:"elbow_roll" yaml:"elbow_roll"`
	WristYaw      float64 `json:"wrist_yaw" yaml:"wrist_yaw"`
	Hand          float64 `json:"hand" yaml:"hand"`
}

// Leg holds one leg's joints in radians.
type Leg struct {
	HipYawPitch float64 `json:"hip_yaw_pitch" yaml:"hip_yaw_pitch"`
	HipRoll     float64 `json:"hip_roll" yaml:"hip_roll"`
	HipPitch    float64 `json:"hip_pitch" yaml:"hip_pitch"`
	KneePitch   float64 `json:"knee_pitch" yaml:"knee_pitch"`
	AnklePitch  float64 `json:"ankle_pitch" yaml:"ankle_pitch"`
	AnkleRoll   float64 `json:"ankle_roll" yaml:"ankle_roll"`
}

// Joints is a full-body joint position (or velocity) vector.
type Joints struct {
	Head     Head `json:"head" yaml:"head"`
	LeftArm  Arm  `json:"left_arm" yaml:"left_arm"`
	RightArm Arm  `json:"right_arm" yaml:"right_arm"`
	LeftLeg  Leg  `json:"left_leg" yaml:"left_leg"`
	RightLeg Leg  `json:"right_leg" yaml:"right_leg"`
}

// Count is the number of values in a Joints vector.
const Count = 2 + 2*6 + 2*6

// Lerp blends every joint towards to. It satisfies spline.Interpolate and
// does not allocate.
func (j Joints) Lerp(to Joints, fraction float64) Joints {
	a, b := j.array(), to.array()
	var out [Count]float64
	for i := range out {
		out[i] = a[i] + fraction*(b[i]-a[i])
	}
	return fromArray(&out)
}

// MaxAbsDiff returns the largest absolute per-joint difference.
func (j Joints) MaxAbsDiff(other Joints) float64 {
	a, b := j.array(), other.array()
	var m float64
	for i := range a {
		m = math.Max(m, math.Abs(a[i]-b[i]))
	}
	return m
}

// Slice flattens the joints in a fixed order: head, left arm, right arm,
// left leg, right leg.
func (j Joints) Slice() []float64 {
	a := j.array()
	return a[:]
}

// FromSlice is the inverse of Slice. Missing trailing values are zero.
func FromSlice(v []float64) Joints {
	var a [Count]float64
	copy(a[:], v)
	return fromArray(&a)
}

// Fill returns a Joints with every value set to v.
func Fill(v float64) Joints {
	var a [Count]float64
	for i := range a {
		a[i] = v
	}
	return fromArray(&a)
}

func (j Joints) array() [Count]float64 {
	l, r := &j.LeftArm, &j.RightArm
	ll, rl := &j.LeftLeg, &j.RightLeg
	return [Count]float64{
		j.Head.Yaw, j.Head.Pitch,
		l.ShoulderPitch, l.ShoulderRoll, l.ElbowYaw, l.ElbowRoll, l.WristYaw, l.Hand,
		r.ShoulderPitch, r.ShoulderRoll, r.ElbowYaw, r.ElbowRoll, r.WristYaw, r.Hand,
		ll.HipYawPitch, ll.HipRoll, ll.HipPitch, ll.KneePitch, ll.AnklePitch, ll.AnkleRoll,
		rl.HipYawPitch, rl.HipRoll, rl.HipPitch, rl.KneePitch, rl.AnklePitch, rl.AnkleRoll,
	}
}

func fromArray(a *[Count]float64) Joints {
	return Joints{
		Head:     Head{Yaw: a[0], Pitch: a[1]},
		LeftArm:  armFrom(a[2:8]),
		RightArm: armFrom(a[8:14]),
		LeftLeg:  legFrom(a[14:20]),
		RightLeg: legFrom(a[20:26]),
	}
}

func armFrom(v []float64) Arm {
	return Arm{ShoulderPitch: v[0], ShoulderRoll: v[1], ElbowYaw: v[2], ElbowRoll: v[3], WristYaw: v[4], Hand: v[5]}
}

func legFrom(v []float64) Leg {
	return Leg{HipYawPitch: v[0], HipRoll: v[1], HipPitch: v[2], KneePitch: v[3], AnklePitch: v[4], AnkleRoll: v[5]}
}
