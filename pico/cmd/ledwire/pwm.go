package main

import "machine"

// pwmSlice is the part of the rp2040 PWM peripheral the analog string
// needs. Each channel must live on its own slice so periods never fight.
type pwmSlice interface {
	Configure(config machine.PWMConfig) error
	Channel(pin machine.Pin) (uint8, error)
	Set(channel uint8, value uint32)
	Top() uint32
}

// channelPin binds one analog channel to a PWM slice and its output pin.
type channelPin struct {
	pwm pwmSlice
	pin machine.Pin
}

type analogChannel struct {
	pwm pwmSlice
	ch  uint8
}

// analogString drives the five analog channels through hardware PWM.
type analogString struct {
	channels [NumChannels]analogChannel
}

// pwmPeriod is the PWM period in nanoseconds. 25kHz keeps the switching
// well above anything visible or audible.
const pwmPeriod = uint64(1e9 / 25000)

// newAnalogString configures a PWM slice and channel for every pin.
func newAnalogString(pins [NumChannels]channelPin) (*analogString, error) {
	var s analogString
	for i, p := range pins {
		if err := p.pwm.Configure(machine.PWMConfig{Period: pwmPeriod}); err != nil {
			return nil, err
		}
		ch, err := p.pwm.Channel(p.pin)
		if err != nil {
			return nil, err
		}
		s.channels[i] = analogChannel{pwm: p.pwm, ch: ch}
	}
	s.Clear()
	return &s, nil
}

// SetLevels sets all channels to the given 8-bit duty levels.
func (s *analogString) SetLevels(levels [NumChannels]uint8) {
	for i, c := range s.channels {
		top := uint64(c.pwm.Top())
		c.pwm.Set(c.ch, uint32(top*uint64(levels[i])/0xff))
	}
}

// Clear turns every channel off.
func (s *analogString) Clear() {
	s.SetLevels([NumChannels]uint8{})
}
