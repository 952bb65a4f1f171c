package conf

// Fixed audio format of the incoming PCM stream and the playback device.
// The stream sender negotiates nothing; receivers that get a different
// format in the datagram header drop the payload.
const (
	SampleRate  = 44100 // Sample rate of the PCM stream in Hz
	BitDepth    = 16    // Bit depth of the PCM stream
	NumChannels = 2     // Number of interleaved channels

	// BytesPerFrame is the size of one sample frame (all channels).
	BytesPerFrame = NumChannels * BitDepth / 8

	// BytesPerSecond is the PCM byte rate, used to size the ring buffer
	// from the configured maximum latency.
	BytesPerSecond = SampleRate * BytesPerFrame
)

// Stream wire format constants.
const (
	DefaultGroup = "239.255.77.77" // default multicast group of the sender
	DefaultPort  = 4010            // default UDP port of the sender

	HeaderSize      = 5    // datagram header: rate, width, channels, channel map
	MaxPayloadSize  = 1152 // largest PCM payload a sender emits per datagram
	MaxDatagramSize = HeaderSize + MaxPayloadSize
)

// Playback device defaults.
const (
	DefaultMaxLatencyMs   = 200 // ring buffer capacity in milliseconds of audio
	DefaultDeviceBufferMs = 50  // duration of one device period (smaller distorts)
	DeviceBufferCount     = 2   // device periods; the ring absorbs jitter, two is enough
)
