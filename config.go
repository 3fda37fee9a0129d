package festiveglow

import (
	"encoding"
	"fmt"
	"io"
	"time"

	"github.com/pelletier/go-toml"
	"github.com/pkg/errors"
	"libdb.so/festiveglow/internal/animation"
	"libdb.so/festiveglow/internal/led"
)

// Config is the configuration for the festiveglow daemon.
type Config struct {
	// Device is the path to the serial device for the LED controller.
	// This is usually /dev/ttyUSB0 or /dev/ttyACM0.
	Device string `toml:"device"`
	// Baud is the baud rate for the serial connection.
	Baud int `toml:"baud"`
	// Rate is the refresh rate for the LEDs in frames per second.
	Rate int `toml:"rate"`
	// Loop restarts the keyframe sequence from the top once it ends.
	Loop bool `toml:"loop"`
	// Initial is the state the first keyframe fades from. All channels off
	// if absent.
	Initial *StateConfig `toml:"initial"`
	// Keyframes is the animation played by the daemon.
	Keyframes []KeyframeConfig `toml:"keyframe"`
}

// DefaultConfig returns a configuration with the defaults filled in.
// ParseConfig starts from these, so a config file only needs to override
// what it cares about.
func DefaultConfig() Config {
	return Config{
		Baud: 115200,
		Rate: 60,
		Loop: true,
	}
}

// Validate validates the configuration.
func (c *Config) Validate() error {
	if c.Device == "" {
		return errors.New("no serial device configured")
	}
	if c.Baud <= 0 {
		return fmt.Errorf("invalid baud rate %d", c.Baud)
	}
	if c.Rate <= 0 {
		return fmt.Errorf("invalid refresh rate %d", c.Rate)
	}
	if len(c.Keyframes) == 0 {
		return errors.New("no keyframes configured")
	}

	if c.Initial != nil {
		if _, err := c.Initial.State(); err != nil {
			return errors.Wrap(err, "invalid initial state")
		}
	}

	var total time.Duration
	for i, kf := range c.Keyframes {
		if kf.Duration < 0 {
			return fmt.Errorf("keyframe %d: negative duration", i)
		}
		if _, err := kf.StateConfig().State(); err != nil {
			return errors.Wrapf(err, "keyframe %d", i)
		}
		total += time.Duration(kf.Duration)
	}
	if c.Loop && total <= 0 {
		return errors.New("looping sequence needs a positive total duration")
	}

	return nil
}

// FrameInterval returns the time between LED refreshes.
func (c *Config) FrameInterval() time.Duration {
	return time.Second / time.Duration(c.Rate)
}

// Sequence builds the animation sequence described by the configuration.
// The configuration must have been validated.
func (c *Config) Sequence() *animation.Sequence {
	initial := led.AllOff()
	if c.Initial != nil {
		initial, _ = c.Initial.State()
	}

	frames := make([]animation.Keyframe, len(c.Keyframes))
	for i, kf := range c.Keyframes {
		target, _ := kf.StateConfig().State()
		frames[i] = animation.Keyframe{
			Target:   target,
			Duration: time.Duration(kf.Duration),
		}
	}

	return animation.NewSequence(initial, frames, c.FrameInterval(), c.Loop)
}

// StateConfig describes a five-channel LED state. Either Preset is set, or
// the channels are given explicitly.
type StateConfig struct {
	// Preset is an optional shorthand: "on" for all channels at full
	// brightness, "off" for all channels dark.
	Preset string `toml:"preset,omitempty"`

	Red   float64 `toml:"red,omitempty"`
	Amber float64 `toml:"amber,omitempty"`
	Green float64 `toml:"green,omitempty"`
	Blue  float64 `toml:"blue,omitempty"`
	White float64 `toml:"white,omitempty"`
}

// State resolves the configured state. Channels must be within [0, 1]: a
// config file asking for more than full brightness is a mistake worth
// failing on, unlike internally computed states, which merely saturate at
// the hardware boundary.
func (s StateConfig) State() (led.State, error) {
	switch s.Preset {
	case "on":
		return led.AllOn(), nil
	case "off":
		return led.AllOff(), nil
	case "":
		// explicit channels below
	default:
		return led.State{}, fmt.Errorf("unknown preset %q", s.Preset)
	}

	for _, ch := range []struct {
		name  string
		value float64
	}{
		{"red", s.Red},
		{"amber", s.Amber},
		{"green", s.Green},
		{"blue", s.Blue},
		{"white", s.White},
	} {
		if ch.value < 0 || ch.value > 1 {
			return led.State{}, fmt.Errorf("channel %s out of range: %v", ch.name, ch.value)
		}
	}

	return led.NewState(s.Red, s.Amber, s.Green, s.Blue, s.White), nil
}

// KeyframeConfig is one segment of the animation: fade to the given state
// over the given duration.
type KeyframeConfig struct {
	// Duration is how long the fade to this keyframe's state takes.
	// A zero duration jumps to the state immediately.
	Duration TOMLDuration `toml:"duration"`

	Preset string  `toml:"preset,omitempty"`
	Red    float64 `toml:"red,omitempty"`
	Amber  float64 `toml:"amber,omitempty"`
	Green  float64 `toml:"green,omitempty"`
	Blue   float64 `toml:"blue,omitempty"`
	White  float64 `toml:"white,omitempty"`
}

// StateConfig returns the keyframe's target state configuration.
func (k KeyframeConfig) StateConfig() StateConfig {
	return StateConfig{
		Preset: k.Preset,
		Red:    k.Red,
		Amber:  k.Amber,
		Green:  k.Green,
		Blue:   k.Blue,
		White:  k.White,
	}
}

// TOMLDuration is a duration that can be parsed from TOML.
type TOMLDuration time.Duration

var (
	_ encoding.TextUnmarshaler = (*TOMLDuration)(nil)
	_ encoding.TextMarshaler   = (*TOMLDuration)(nil)
)

func (d *TOMLDuration) UnmarshalText(text []byte) error {
	duration, err := time.ParseDuration(string(text))
	if err != nil {
		return err
	}
	*d = TOMLDuration(duration)
	return nil
}

func (d TOMLDuration) MarshalText() ([]byte, error) {
	return []byte(time.Duration(d).String()), nil
}

// ParseConfig parses a configuration from a reader. Defaults are applied
// for anything the file leaves out.
func ParseConfig(r io.Reader) (*Config, error) {
	config := DefaultConfig()
	if err := toml.NewDecoder(r).Decode(&config); err != nil {
		return nil, err
	}
	return &config, nil
}
