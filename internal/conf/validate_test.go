package conf

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func validSettings() *Settings {
	s := &Settings{}
	s.Audio.Output = "default"
	s.Audio.MaxLatencyMs = DefaultMaxLatencyMs
	s.Audio.DeviceBufferMs = DefaultDeviceBufferMs
	s.Audio.DeviceBufferCount = DeviceBufferCount
	s.Stream.Group = DefaultGroup
	s.Stream.Port = DefaultPort
	s.Export.Path = "./export"
	s.Export.SegmentSeconds = 60
	s.Telemetry.Listen = "localhost:8090"
	return s
}

func TestValidateSettings(t *testing.T) {
	t.Parallel()

	testCases := []struct {
		name    string
		mutate  func(*Settings)
		wantErr bool
	}{
		{"defaults", func(s *Settings) {}, false},
		{"zero latency", func(s *Settings) { s.Audio.MaxLatencyMs = 0 }, true},
		{"negative latency", func(s *Settings) { s.Audio.MaxLatencyMs = -1 }, true},
		{"zero device buffer", func(s *Settings) { s.Audio.DeviceBufferMs = 0 }, true},
		{"single device buffer", func(s *Settings) { s.Audio.DeviceBufferCount = 1 }, true},
		{"latency below device buffer", func(s *Settings) { s.Audio.MaxLatencyMs = 10 }, true},
		{"port too low", func(s *Settings) { s.Stream.Port = 0 }, true},
		{"port too high", func(s *Settings) { s.Stream.Port = 70000 }, true},
		{"bad group address", func(s *Settings) { s.Stream.Group = "not-an-ip" }, true},
		{"unicast group", func(s *Settings) { s.Stream.Group = "192.168.1.10" }, false},
		{"export without path", func(s *Settings) { s.Export.Enabled = true; s.Export.Path = "" }, true},
		{"export bad segment", func(s *Settings) { s.Export.Enabled = true; s.Export.SegmentSeconds = 0 }, true},
		{"telemetry without listen", func(s *Settings) { s.Telemetry.Enabled = true; s.Telemetry.Listen = "" }, true},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()

			s := validSettings()
			tc.mutate(s)
			err := ValidateSettings(s)
			if tc.wantErr {
				assert.Error(t, err)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}
