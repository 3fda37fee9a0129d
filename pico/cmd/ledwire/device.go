package main

import (
	"encoding/binary"
	"fmt"
	"hash/crc32"
	"io"
)

// Device stores the current state of the controller.
type Device struct {
	serial SerialReadWriter
	leds   *analogString

	initialized bool
}

// NewDevice creates a new device driving leds from packets read off serial.
func NewDevice(serial SerialReadWriter, leds *analogString) *Device {
	return &Device{
		serial: serial,
		leds:   leds,
	}
}

// Run runs the device loop forever.
func (d *Device) Run() {
	for {
		p, err := d.readPacket()
		if err != nil {
			// A framing or checksum failure desyncs the stream; there is
			// no way to find the next packet boundary.
			d.panic(err)
		}
		if err := d.handlePacket(p); err != nil {
			d.logError(err)
			continue
		}
		d.sendPacket(AckPacket{For: p.Type()})
	}
}

func (d *Device) panic(err error) {
	d.sendPacket(PanicPacket{Message: err.Error()})
	panic("device panic")
}

func (d *Device) logError(err error) {
	d.sendPacket(ErrorPacket{Message: err.Error()})
}

func (d *Device) sendPacket(p OutgoingPacket) {
	hash := crc32.NewIEEE()
	w := io.MultiWriter(d.serial, hash)

	binary.Write(w, binary.LittleEndian, p.Type())

	switch p := p.(type) {
	case AckPacket:
		binary.Write(w, binary.LittleEndian, p.For)
	case ErrorPacket:
		writeString(w, p.Message)
	case PanicPacket:
		writeString(w, p.Message)
	case LogPacket:
		writeString(w, p.Message)
	}

	binary.Write(d.serial, binary.LittleEndian, hash.Sum32())
}

func writeString(w io.Writer, s string) {
	binary.Write(w, binary.LittleEndian, uint16(len(s)))
	io.WriteString(w, s)
}

func (d *Device) readPacket() (IncomingPacket, error) {
	hash := crc32.NewIEEE()
	r := io.TeeReader(d.serial, hash)

	var packet IncomingPacket
	var ptypeBuf [1]byte
	if _, err := io.ReadFull(r, ptypeBuf[:]); err != nil {
		return nil, fmt.Errorf("failed to read incoming packet type: %w", err)
	}

	switch ptype := IncomingPacketType(ptypeBuf[0]); ptype {
	case TypeInitializePacket:
		var p InitializePacket
		if err := binary.Read(r, binary.LittleEndian, &p.Channels); err != nil {
			return nil, fmt.Errorf("failed to read channel count: %w", err)
		}
		packet = p

	case TypeClearPacket:
		packet = ClearPacket{}

	case TypeSetPacket:
		var p SetPacket
		if _, err := io.ReadFull(r, p.Levels[:]); err != nil {
			return nil, fmt.Errorf("failed to read channel levels: %w", err)
		}
		packet = p

	default:
		return nil, fmt.Errorf("unknown packet type: %d", ptype)
	}

	sum := hash.Sum32()
	var checksumBuf [4]byte
	if _, err := io.ReadFull(d.serial, checksumBuf[:]); err != nil {
		return nil, fmt.Errorf("failed to read packet checksum: %w", err)
	}
	if binary.LittleEndian.Uint32(checksumBuf[:]) != sum {
		return nil, fmt.Errorf("packet checksum mismatch")
	}

	return packet, nil
}

func (d *Device) handlePacket(p IncomingPacket) error {
	switch p := p.(type) {
	case InitializePacket:
		if p.Channels != NumChannels {
			return fmt.Errorf("channel count mismatch: daemon drives %d, string has %d",
				p.Channels, NumChannels)
		}
		d.initialized = true
		d.leds.Clear()
		return nil

	case ClearPacket:
		d.leds.Clear()
		return nil

	case SetPacket:
		if !d.initialized {
			return fmt.Errorf("set before initialize")
		}
		d.leds.SetLevels(p.Levels)
		return nil

	default:
		return fmt.Errorf("unknown packet type: %T", p)
	}
}
