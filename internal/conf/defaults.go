package conf

import (
	"fmt"

	"github.com/spf13/viper"
)

// setDefaultConfig sets the default values for each configuration parameter.
func setDefaultConfig() {
	viper.SetDefault("debug", false)
	viper.SetDefault("logfile", "")

	viper.SetDefault("audio.output", "default")
	viper.SetDefault("audio.maxlatencyms", DefaultMaxLatencyMs)
	viper.SetDefault("audio.devicebufferms", DefaultDeviceBufferMs)
	viper.SetDefault("audio.devicebuffercount", DeviceBufferCount)

	viper.SetDefault("stream.group", DefaultGroup)
	viper.SetDefault("stream.port", DefaultPort)

	viper.SetDefault("export.enabled", false)
	viper.SetDefault("export.path", "./export")
	viper.SetDefault("export.segmentseconds", 60)

	viper.SetDefault("telemetry.enabled", false)
	viper.SetDefault("telemetry.listen", "localhost:8090")
}

// getDefaultConfig returns the contents of the config file written on first run.
func getDefaultConfig() string {
	return fmt.Sprintf(`# pcmcast configuration

debug: false

# Path of the JSON log file, empty disables file logging
logfile: ""

audio:
  # Playback device name or ID, "default" selects the system default
  output: default
  # Ring buffer capacity in milliseconds of audio
  maxlatencyms: %d
  # Duration of one device period in milliseconds
  devicebufferms: %d
  # Number of device periods
  devicebuffercount: %d

stream:
  # Multicast group or unicast address to listen on
  group: %s
  # UDP port to listen on
  port: %d

export:
  # Write received audio to WAV segment files
  enabled: false
  path: ./export
  segmentseconds: 60

telemetry:
  # Prometheus metrics endpoint
  enabled: false
  listen: localhost:8090
`, DefaultMaxLatencyMs, DefaultDeviceBufferMs, DeviceBufferCount, DefaultGroup, DefaultPort)
}
