// Package festiveglow drives a five-channel analog LED string (red, amber,
// green, blue, white) through configured keyframe fades, over a serial
// connection to the controller that owns the actual output pins.
package festiveglow

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"time"

	"github.com/pkg/errors"
	"go.bug.st/serial"
	"golang.org/x/sync/errgroup"
	"libdb.so/festiveglow/internal/work"
	"libdb.so/festiveglow/ledwire"
)

// Daemon is the main festiveglow daemon.
type Daemon struct {
	cfg    *Config
	logger *slog.Logger
}

// NewDaemon creates a new festiveglow daemon.
func NewDaemon(cfg *Config, logger *slog.Logger) (*Daemon, error) {
	if err := cfg.Validate(); err != nil {
		return nil, errors.Wrap(err, "invalid configuration")
	}

	return &Daemon{
		cfg:    cfg,
		logger: logger,
	}, nil
}

// Run starts the daemon. It blocks until the given context is canceled or,
// for a non-looping sequence, until the animation has played out.
func (d *Daemon) Run(ctx context.Context) error {
	return (&internalDaemon{Daemon: d}).Run(ctx)
}

type internalDaemon struct {
	*Daemon
	port serial.Port
}

func (d *internalDaemon) Run(ctx context.Context) error {
	port, err := serial.Open(d.cfg.Device, &serial.Mode{
		BaudRate: d.cfg.Baud,
	})
	if err != nil {
		return errors.Wrap(err, "failed to open serial port")
	}
	defer port.Close()

	d.port = port

	errg, ctx := errgroup.WithContext(ctx)
	errg.Go(func() error {
		<-ctx.Done()
		d.logger.Debug("closing serial port")
		if err := port.Close(); err != nil {
			return errors.Wrap(err, "failed to close serial port")
		}
		return ctx.Err()
	})

	outPackets := make(chan ledwire.OutgoingPacket)
	errg.Go(func() error {
		return d.mainLoop(ctx, outPackets)
	})
	errg.Go(func() error {
		return d.readPackets(ctx, outPackets)
	})

	err = errg.Wait()
	if errors.Is(err, errSequenceFinished) {
		// A non-looping sequence played out. The sentinel only exists to
		// unwind the other goroutines through the group's context.
		return nil
	}
	return err
}

var errSequenceFinished = errors.New("sequence finished")

func (d *internalDaemon) mainLoop(ctx context.Context, packets <-chan ledwire.OutgoingPacket) error {
	d.logger.Debug("waiting 100ms for the read loop to start...")
	time.Sleep(100 * time.Millisecond)

	d.logger.Debug("sending initialize packet")
	if !d.writePacket(ledwire.InitializePacket{
		Channels: ledwire.NumChannels,
	}) {
		return errors.New("failed to initialize controller")
	}

	seq := d.cfg.Sequence()

	// Fire the first frame immediately; every later wakeup advances the
	// sequence by however long we actually slept.
	timer := time.NewTimer(0)
	defer timer.Stop()
	last := time.Now()

eventLoop:
	for {
		select {
		case <-ctx.Done():
			break eventLoop

		case p := <-packets:
			if err := d.handlePacket(p); err != nil {
				return err
			}

		case now := <-timer.C:
			result := seq.Advance(now.Sub(last))
			last = now

			if !d.writePacket(ledwire.SetPacket{
				Levels: seq.State().Duty(),
			}) {
				return errors.New("failed to write frame")
			}

			switch r := result.(type) {
			case work.Unfinished:
				timer.Reset(r.SuggestedSleep)

			case work.Finished:
				d.logger.Info(
					"animation sequence finished",
					"remaining", r.Remaining)
				return errSequenceFinished
			}
		}
	}

	return nil
}

func (d *internalDaemon) handlePacket(p ledwire.OutgoingPacket) error {
	d.logger.Debug("handling packet", "type", p.Type())

	switch p := p.(type) {
	case ledwire.AckPacket:
		d.logger.Debug(
			"received ack packet from controller",
			"acked_for", p.For)

	case ledwire.ErrorPacket:
		d.logger.Warn(
			"received error packet from controller",
			"message", p.Message)
		return errors.New("controller reported error")

	case ledwire.PanicPacket:
		d.logger.Error(
			"controller unrecoverably panicked",
			"message", p.Message)
		return errors.New("controller panicked")

	case ledwire.LogPacket:
		d.logger.Info(
			"received log packet from controller",
			"message", p.Message)

	default:
		return fmt.Errorf("received unknown packet from controller: %s", p.Type())
	}

	return nil
}

func (d *internalDaemon) readPackets(ctx context.Context, dst chan<- ledwire.OutgoingPacket) error {
	if err := d.port.SetReadTimeout(serial.NoTimeout); err != nil {
		return errors.Wrap(err, "failed to reset read timeout")
	}

	for ctx.Err() == nil {
		p, err := ledwire.ReadOutgoingPacket(d.port)
		if err != nil {
			// A short read indicates a timeout. This is expected.
			// Ignore the error and try again.
			if errors.Is(err, io.EOF) {
				continue
			}
			return errors.Wrap(err, "failed to read packet")
		}

		d.logger.Debug(
			"received packet from controller",
			"type", p.Type())

		select {
		case <-ctx.Done():
			return ctx.Err()
		case dst <- p:
			// ok
		}
	}

	return ctx.Err()
}

func (d *internalDaemon) writePacket(p ledwire.IncomingPacket) bool {
	d.logger.Debug(
		"writing packet",
		"type", p.Type())

	if err := ledwire.WriteIncomingPacket(d.port, p); err != nil {
		d.logger.Warn(
			"failed to write packet",
			"packet", p.Type(),
			"error", err)
		return false
	}

	return true
}
