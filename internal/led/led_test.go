package led

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"pgregory.net/rapid"
)

func TestConstantStates(t *testing.T) {
	assert.Equal(t, NewState(1, 1, 1, 1, 1), AllOn())
	assert.Equal(t, NewState(0, 0, 0, 0, 0), AllOff())
}

func TestIntermediateValueEndpoints(t *testing.T) {
	rapid.Check(t, func(t *rapid.T) {
		initial := rapid.Float64Range(-10, 10).Draw(t, "initial")
		target := rapid.Float64Range(-10, 10).Draw(t, "target")

		if got := intermediateValue(initial, target, 0); got != initial {
			t.Fatalf("lerp at t=0: got %v, want %v", got, initial)
		}
		// t=1 is exact up to one rounding of (target-initial)+initial.
		if got := intermediateValue(initial, target, 1); math.Abs(got-target) > 1e-9 {
			t.Fatalf("lerp at t=1: got %v, want %v", got, target)
		}
	})
}

func TestIntermediateValueMonotonic(t *testing.T) {
	rapid.Check(t, func(t *rapid.T) {
		initial := rapid.Float64Range(0, 1).Draw(t, "initial")
		target := rapid.Float64Range(0, 1).Draw(t, "target")
		t1 := rapid.Float64Range(0, 1).Draw(t, "t1")
		t2 := rapid.Float64Range(0, 1).Draw(t, "t2")
		if t1 > t2 {
			t1, t2 = t2, t1
		}

		v1 := intermediateValue(initial, target, t1)
		v2 := intermediateValue(initial, target, t2)

		if initial <= target && v1 > v2 {
			t.Fatalf("not increasing: f(%v)=%v > f(%v)=%v", t1, v1, t2, v2)
		}
		if initial >= target && v1 < v2 {
			t.Fatalf("not decreasing: f(%v)=%v < f(%v)=%v", t1, v1, t2, v2)
		}
	})
}

func TestIntermediateClampsRelativeTime(t *testing.T) {
	initial := NewState(0.1, 0.2, 0.3, 0.4, 0.5)
	target := NewState(0.9, 0.8, 0.7, 0.6, 0.5)

	assert.Equal(t, initial, Intermediate(initial, target, -0.25))
	assert.Equal(t, initial, Intermediate(initial, target, 0))
	assertStateInDelta(t, target, Intermediate(initial, target, 1))
	assertStateInDelta(t, target, Intermediate(initial, target, 1.75))
}

func TestIntermediateSelfIsNoop(t *testing.T) {
	rapid.Check(t, func(t *rapid.T) {
		s := genState(t)
		rt := rapid.Float64Range(-1, 2).Draw(t, "rt")

		if got := Intermediate(s, s, rt); got != s {
			t.Fatalf("Intermediate(s, s, %v) = %v, want %v", rt, got, s)
		}
	})
}

func TestIntermediateMidpoint(t *testing.T) {
	mid := Intermediate(AllOff(), AllOn(), 0.5)
	assert.Equal(t, NewState(0.5, 0.5, 0.5, 0.5, 0.5), mid)
}

func TestDuty(t *testing.T) {
	assert.Equal(t, [NumChannels]uint8{0, 0, 0, 0, 0}, AllOff().Duty())
	assert.Equal(t, [NumChannels]uint8{255, 255, 255, 255, 255}, AllOn().Duty())

	// Out-of-range channels saturate rather than wrap.
	assert.Equal(t,
		[NumChannels]uint8{0, 255, 128, 0, 255},
		NewState(-0.5, 1.5, 0.5, 0, 1).Duty())
}

func assertStateInDelta(t *testing.T, want, got State) {
	t.Helper()
	const delta = 1e-9
	assert.InDelta(t, want.Red, got.Red, delta)
	assert.InDelta(t, want.Amber, got.Amber, delta)
	assert.InDelta(t, want.Green, got.Green, delta)
	assert.InDelta(t, want.Blue, got.Blue, delta)
	assert.InDelta(t, want.White, got.White, delta)
}

func genState(t *rapid.T) State {
	return NewState(
		rapid.Float64Range(0, 1).Draw(t, "red"),
		rapid.Float64Range(0, 1).Draw(t, "amber"),
		rapid.Float64Range(0, 1).Draw(t, "green"),
		rapid.Float64Range(0, 1).Draw(t, "blue"),
		rapid.Float64Range(0, 1).Draw(t, "white"),
	)
}
