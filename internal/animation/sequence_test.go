package animation_test

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"libdb.so/festiveglow/internal/animation"
	"libdb.so/festiveglow/internal/led"
	"libdb.so/festiveglow/internal/work"
)

const interval = 100 * time.Millisecond

func fadeUpDown(loop bool) *animation.Sequence {
	return animation.NewSequence(led.AllOff(), []animation.Keyframe{
		{Target: led.AllOn(), Duration: time.Second},
		{Target: led.AllOff(), Duration: time.Second},
	}, interval, loop)
}

func TestSequenceInterpolatesWithinSegment(t *testing.T) {
	seq := fadeUpDown(false)

	assert.Equal(t, led.AllOff(), seq.State())

	r := seq.Advance(500 * time.Millisecond)
	assert.Equal(t, work.Yield(interval), r)
	assert.Equal(t, led.NewState(0.5, 0.5, 0.5, 0.5, 0.5), seq.State())
}

func TestSequenceCrossesSegmentBoundary(t *testing.T) {
	seq := fadeUpDown(false)

	r := seq.Advance(1100 * time.Millisecond)
	assert.Equal(t, work.Yield(interval), r)

	// 100ms into the fade back down from full.
	state := seq.State()
	assert.InDelta(t, 0.9, state.Red, 1e-9)
	assert.InDelta(t, 0.9, state.White, 1e-9)
}

func TestSequenceFinishesWithLeftover(t *testing.T) {
	seq := fadeUpDown(false)

	r := seq.Advance(2300 * time.Millisecond)
	require.True(t, r.Done())
	assert.Equal(t, work.Finish(300*time.Millisecond), r)
	assert.True(t, seq.Done())
	assert.Equal(t, led.AllOff(), seq.State())

	// A finished sequence consumes nothing further.
	assert.Equal(t, work.Finish(50*time.Millisecond), seq.Advance(50*time.Millisecond))
}

func TestSequenceLoops(t *testing.T) {
	seq := fadeUpDown(true)

	r := seq.Advance(2500 * time.Millisecond)
	assert.False(t, r.Done())
	assert.False(t, seq.Done())

	// One full cycle wrapped; 500ms into the fade back up.
	assert.Equal(t, led.NewState(0.5, 0.5, 0.5, 0.5, 0.5), seq.State())
}

func TestSequenceSuggestsShortSleepNearBoundary(t *testing.T) {
	seq := fadeUpDown(false)

	r := seq.Advance(970 * time.Millisecond)
	assert.Equal(t, work.Yield(30*time.Millisecond), r)
}

func TestSequenceZeroDurationSnaps(t *testing.T) {
	seq := animation.NewSequence(led.AllOff(), []animation.Keyframe{
		{Target: led.AllOn()},
		{Target: led.AllOff(), Duration: time.Second},
	}, interval, false)

	seq.Advance(0)
	assert.Equal(t, led.AllOn(), seq.State())
}
