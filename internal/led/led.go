// Package led models the brightness state of a five-channel analog LED
// string. Values are immutable; every operation returns a new State.
package led

// NumChannels is the number of independently controlled channels.
const NumChannels = 5

// State is a snapshot of the brightness of all five channels. Each channel
// is a normalized brightness in [0, 1]. The range is a convention, not an
// enforced invariant: constructors do not validate, and callers are expected
// to keep values in range.
type State struct {
	Red   float64
	Amber float64
	Green float64
	Blue  float64
	White float64
}

// NewState returns a State with the given channel brightnesses.
func NewState(red, amber, green, blue, white float64) State {
	return State{
		Red:   red,
		Amber: amber,
		Green: green,
		Blue:  blue,
		White: white,
	}
}

// AllOn returns the state with every channel at full brightness.
func AllOn() State {
	return NewState(1, 1, 1, 1, 1)
}

// AllOff returns the state with every channel off.
func AllOff() State {
	return NewState(0, 0, 0, 0, 0)
}

// Intermediate returns the state partway between initial and target.
// relativeTime is the progress through the fade: 0 is initial, 1 is target.
// Values outside [0, 1] saturate to the nearest endpoint, so the returned
// state never overshoots either side no matter how sloppy the caller's
// timing arithmetic was.
func Intermediate(initial, target State, relativeTime float64) State {
	if relativeTime < 0 {
		relativeTime = 0
	}
	if relativeTime > 1 {
		relativeTime = 1
	}

	return State{
		Red:   intermediateValue(initial.Red, target.Red, relativeTime),
		Amber: intermediateValue(initial.Amber, target.Amber, relativeTime),
		Green: intermediateValue(initial.Green, target.Green, relativeTime),
		Blue:  intermediateValue(initial.Blue, target.Blue, relativeTime),
		White: intermediateValue(initial.White, target.White, relativeTime),
	}
}

// intermediateValue linearly interpolates a single channel. It does not
// clamp; Intermediate has already constrained relativeTime.
func intermediateValue(initial, target, relativeTime float64) float64 {
	return initial + relativeTime*(target-initial)
}

// Duty converts the state to 8-bit PWM duty values in channel order red,
// amber, green, blue, white. Channel values are clamped to [0, 1] here, at
// the hardware boundary, so an out-of-range state degrades to a saturated
// channel instead of wrapping.
func (s State) Duty() [NumChannels]uint8 {
	return [NumChannels]uint8{
		duty8(s.Red),
		duty8(s.Amber),
		duty8(s.Green),
		duty8(s.Blue),
		duty8(s.White),
	}
}

func duty8(v float64) uint8 {
	switch {
	case v <= 0:
		return 0
	case v >= 1:
		return 0xff
	default:
		return uint8(v*0xff + 0.5)
	}
}
