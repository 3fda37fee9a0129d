// Package animation drives a five-channel LED state through a sequence of
// keyframes. A Sequence is the work step the daemon polls: it consumes
// elapsed wall time, reports progress through work results, and exposes the
// interpolated state for the current instant.
package animation

import (
	"time"

	"libdb.so/festiveglow/internal/led"
	"libdb.so/festiveglow/internal/work"
)

// Keyframe is one animation segment: fade from whatever state the previous
// segment ended on to Target over Duration. A zero Duration snaps to Target
// immediately.
type Keyframe struct {
	Target   led.State
	Duration time.Duration
}

// Sequence steps through keyframes as time is fed to it via Advance. It is
// not safe for concurrent use; it is meant to be owned by a single driver
// loop.
type Sequence struct {
	frames   []Keyframe
	interval time.Duration
	loop     bool

	from    led.State // state the current segment fades from
	pos     int
	elapsed time.Duration
	done    bool
}

// NewSequence returns a sequence that starts at initial and fades through
// frames in order. interval is the refresh interval suggested to the driver
// between frames. A looping sequence restarts from the last frame's target
// and never finishes.
//
// frames must not be empty, and a looping sequence must have a positive
// total duration; both are the config layer's job to guarantee.
func NewSequence(initial led.State, frames []Keyframe, interval time.Duration, loop bool) *Sequence {
	return &Sequence{
		frames:   frames,
		interval: interval,
		loop:     loop,
		from:     initial,
	}
}

// Advance consumes dt of elapsed time and moves the sequence forward,
// crossing as many segment boundaries as dt covers. It returns
// work.Finished with the unconsumed leftover once a non-looping sequence is
// exhausted, and work.Unfinished with the time to sleep before the next
// refresh otherwise.
func (s *Sequence) Advance(dt time.Duration) work.Result {
	if s.done {
		return work.Finish(dt)
	}

	s.elapsed += dt
	for s.elapsed >= s.frames[s.pos].Duration {
		s.elapsed -= s.frames[s.pos].Duration
		s.from = s.frames[s.pos].Target
		s.pos++

		if s.pos == len(s.frames) {
			if !s.loop {
				s.done = true
				leftover := s.elapsed
				s.elapsed = 0
				return work.Finish(leftover)
			}
			s.pos = 0
		}
	}

	sleep := s.interval
	if remaining := s.frames[s.pos].Duration - s.elapsed; remaining < sleep {
		sleep = remaining
	}
	return work.Yield(sleep)
}

// State returns the interpolated LED state at the sequence's current
// position. After a non-looping sequence finishes, it keeps returning the
// final keyframe's target.
func (s *Sequence) State() led.State {
	if s.done {
		return s.from
	}

	frame := s.frames[s.pos]
	if frame.Duration <= 0 {
		return frame.Target
	}
	return led.Intermediate(s.from, frame.Target, float64(s.elapsed)/float64(frame.Duration))
}

// Done reports whether the sequence has run out of keyframes. Looping
// sequences are never done.
func (s *Sequence) Done() bool {
	return s.done
}
