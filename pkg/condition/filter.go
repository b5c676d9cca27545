package condition

// LowPassFilter smooths raw gyroscope samples before they are used as
// FilteredAngularVelocity. Coefficient is the weight of each new sample.
type LowPassFilter struct {
	Coefficient float64

	state  Vector3
	primed bool
}

// NewLowPassFilter creates a filter with the given sample weight in (0, 1].
func NewLowPassFilter(coefficient float64) *LowPassFilter {
	return &LowPassFilter{Coefficient: coefficient}
}

// Update feeds one sample and returns the filtered value. The first sample
// initialises the filter.
func (f *LowPassFilter) Update(sample Vector3) Vector3 {
	if !f.primed {
		f.state = sample
		f.primed = true
		return f.state
	}
	a := f.Coefficient
	f.state = Vector3{
		X: f.state.X + a*(sample.X-f.state.X),
		Y: f.state.Y + a*(sample.Y-f.state.Y),
		Z: f.state.Z + a*(sample.Z-f.state.Z),
	}
	return f.state
}

// Value returns the current filtered value.
func (f *LowPassFilter) Value() Vector3 {
	return f.state
}

// Reset forgets all previous samples.
func (f *LowPassFilter) Reset() {
	f.state = Vector3{}
	f.primed = false
}
