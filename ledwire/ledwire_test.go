package ledwire_test

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"libdb.so/festiveglow/ledwire"
)

func TestIncomingPackets(t *testing.T) {
	packets := []ledwire.IncomingPacket{
		ledwire.InitializePacket{Channels: ledwire.NumChannels},
		ledwire.ClearPacket{},
		ledwire.SetPacket{Levels: [ledwire.NumChannels]uint8{255, 128, 64, 0, 200}},
	}

	var buf bytes.Buffer
	for _, p := range packets {
		require.NoError(t, ledwire.WriteIncomingPacket(&buf, p))
	}

	for _, want := range packets {
		got, err := ledwire.ReadIncomingPacket(&buf)
		require.NoError(t, err)
		assert.Equal(t, want, got)
	}
	assert.Zero(t, buf.Len(), "no trailing bytes expected")
}

func TestOutgoingPackets(t *testing.T) {
	packets := []ledwire.OutgoingPacket{
		ledwire.AckPacket{For: ledwire.TypeSetPacket},
		ledwire.ErrorPacket{Message: "channel count mismatch"},
		ledwire.PanicPacket{Message: "pwm init failed"},
		ledwire.LogPacket{Message: "hello"},
	}

	var buf bytes.Buffer
	for _, p := range packets {
		require.NoError(t, ledwire.WriteOutgoingPacket(&buf, p))
	}

	for _, want := range packets {
		got, err := ledwire.ReadOutgoingPacket(&buf)
		require.NoError(t, err)
		assert.Equal(t, want, got)
	}
}

func TestCorruptChecksum(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, ledwire.WriteIncomingPacket(&buf, ledwire.SetPacket{
		Levels: [ledwire.NumChannels]uint8{1, 2, 3, 4, 5},
	}))

	raw := buf.Bytes()
	raw[2] ^= 0xff // flip a payload byte, leaving the checksum stale

	_, err := ledwire.ReadIncomingPacket(bytes.NewReader(raw))
	assert.ErrorContains(t, err, "checksum mismatch")
}

func TestUnknownPacketType(t *testing.T) {
	_, err := ledwire.ReadIncomingPacket(bytes.NewReader([]byte{0x7f, 0, 0, 0, 0}))
	assert.Error(t, err)
}
