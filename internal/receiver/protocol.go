// Package receiver ingests the PCM stream from the network and feeds it to
// the playback buffer.
package receiver

import (
	"encoding/binary"

	"github.com/tphakala/pcmcast-go/internal/conf"
	"github.com/tphakala/pcmcast-go/internal/errors"
)

// Format is the audio format a datagram header declares for its payload.
type Format struct {
	SampleRate int
	BitDepth   int
	Channels   int
	ChannelMap uint16
}

// Each datagram starts with a five byte header: a sample rate byte (bit 7
// selects the 44.1 kHz base, bits 0-6 hold the multiplier), the bit depth,
// the channel count, and a two byte channel map.

// ParseHeader decodes the datagram header. The returned payload slice
// aliases b.
func ParseHeader(b []byte) (Format, []byte, error) {
	if len(b) < conf.HeaderSize {
		return Format{}, nil, errors.Newf("datagram too short: %d bytes", len(b)).
			Component("receiver").
			Category(errors.CategoryValidation).
			Build()
	}

	base := 48000
	if b[0]&0x80 != 0 {
		base = 44100
	}
	mult := int(b[0] & 0x7f)
	if mult == 0 {
		return Format{}, nil, errors.Newf("invalid sample rate multiplier 0").
			Component("receiver").
			Category(errors.CategoryValidation).
			Build()
	}

	f := Format{
		SampleRate: base * mult,
		BitDepth:   int(b[1]),
		Channels:   int(b[2]),
		ChannelMap: binary.LittleEndian.Uint16(b[3:5]),
	}

	if f.BitDepth == 0 || f.Channels == 0 {
		return Format{}, nil, errors.Newf("invalid format: %d-bit, %d channels", f.BitDepth, f.Channels).
			Component("receiver").
			Category(errors.CategoryValidation).
			Build()
	}

	return f, b[conf.HeaderSize:], nil
}

// EncodeHeader encodes a format into the five byte wire header. Used by the
// test sender.
func EncodeHeader(f Format) ([]byte, error) {
	var rateByte byte
	switch {
	case f.SampleRate%44100 == 0:
		rateByte = 0x80 | byte(f.SampleRate/44100)
	case f.SampleRate%48000 == 0:
		rateByte = byte(f.SampleRate / 48000)
	default:
		return nil, errors.Newf("sample rate %d is not a multiple of 44100 or 48000", f.SampleRate).
			Component("receiver").
			Category(errors.CategoryValidation).
			Build()
	}

	b := make([]byte, conf.HeaderSize)
	b[0] = rateByte
	b[1] = byte(f.BitDepth)
	b[2] = byte(f.Channels)
	binary.LittleEndian.PutUint16(b[3:5], f.ChannelMap)
	return b, nil
}

// Matches reports whether the header format agrees with the configured
// output format.
func (f Format) Matches(sampleRate, bitDepth, channels int) bool {
	return f.SampleRate == sampleRate && f.BitDepth == bitDepth && f.Channels == channels
}
