package receiver

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tphakala/pcmcast-go/internal/conf"
)

func TestParseHeader(t *testing.T) {
	t.Parallel()

	testCases := []struct {
		name       string
		header     []byte
		wantFormat Format
		wantErr    bool
	}{
		{
			name:       "44.1kHz 16-bit stereo",
			header:     []byte{0x81, 16, 2, 0x03, 0x00},
			wantFormat: Format{SampleRate: 44100, BitDepth: 16, Channels: 2, ChannelMap: 0x0003},
		},
		{
			name:       "48kHz 16-bit stereo",
			header:     []byte{0x01, 16, 2, 0x03, 0x00},
			wantFormat: Format{SampleRate: 48000, BitDepth: 16, Channels: 2, ChannelMap: 0x0003},
		},
		{
			name:       "96kHz 24-bit",
			header:     []byte{0x02, 24, 2, 0x03, 0x00},
			wantFormat: Format{SampleRate: 96000, BitDepth: 24, Channels: 2, ChannelMap: 0x0003},
		},
		{
			name:    "too short",
			header:  []byte{0x81, 16},
			wantErr: true,
		},
		{
			name:    "zero rate multiplier",
			header:  []byte{0x80, 16, 2, 0x03, 0x00},
			wantErr: true,
		},
		{
			name:    "zero channels",
			header:  []byte{0x81, 16, 0, 0x00, 0x00},
			wantErr: true,
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()

			format, payload, err := ParseHeader(append(tc.header, 0xaa, 0xbb))
			if tc.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tc.wantFormat, format)
			assert.Equal(t, []byte{0xaa, 0xbb}, payload)
		})
	}
}

func TestEncodeHeaderRoundTrip(t *testing.T) {
	t.Parallel()

	f := Format{SampleRate: conf.SampleRate, BitDepth: conf.BitDepth, Channels: conf.NumChannels, ChannelMap: 0x0003}
	header, err := EncodeHeader(f)
	require.NoError(t, err)
	require.Len(t, header, conf.HeaderSize)

	decoded, payload, err := ParseHeader(header)
	require.NoError(t, err)
	assert.Equal(t, f, decoded)
	assert.Empty(t, payload)
}

func TestEncodeHeaderRejectsOddRate(t *testing.T) {
	t.Parallel()

	_, err := EncodeHeader(Format{SampleRate: 22050, BitDepth: 16, Channels: 2})
	assert.Error(t, err)
}

func TestFormatMatches(t *testing.T) {
	t.Parallel()

	f := Format{SampleRate: 44100, BitDepth: 16, Channels: 2}
	assert.True(t, f.Matches(44100, 16, 2))
	assert.False(t, f.Matches(48000, 16, 2))
	assert.False(t, f.Matches(44100, 24, 2))
	assert.False(t, f.Matches(44100, 16, 1))
}
