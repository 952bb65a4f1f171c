package conf

import (
	"net"

	"github.com/tphakala/pcmcast-go/internal/errors"
)

// ValidateSettings checks the loaded settings for values that cannot work.
func ValidateSettings(settings *Settings) error {
	if settings.Audio.MaxLatencyMs <= 0 {
		return errors.Newf("audio.maxlatencyms must be greater than 0, got %d", settings.Audio.MaxLatencyMs).
			Component("conf").
			Category(errors.CategoryValidation).
			Context("setting", "audio.maxlatencyms").
			Build()
	}

	if settings.Audio.DeviceBufferMs <= 0 {
		return errors.Newf("audio.devicebufferms must be greater than 0, got %d", settings.Audio.DeviceBufferMs).
			Component("conf").
			Category(errors.CategoryValidation).
			Context("setting", "audio.devicebufferms").
			Build()
	}

	if settings.Audio.DeviceBufferCount < 2 {
		return errors.Newf("audio.devicebuffercount must be at least 2, got %d", settings.Audio.DeviceBufferCount).
			Component("conf").
			Category(errors.CategoryValidation).
			Context("setting", "audio.devicebuffercount").
			Build()
	}

	// The device periods live outside the ring; a ring smaller than one
	// period would be drained on every callback.
	if settings.Audio.MaxLatencyMs < settings.Audio.DeviceBufferMs {
		return errors.Newf("audio.maxlatencyms (%d) must not be smaller than audio.devicebufferms (%d)",
			settings.Audio.MaxLatencyMs, settings.Audio.DeviceBufferMs).
			Component("conf").
			Category(errors.CategoryValidation).
			Build()
	}

	if settings.Stream.Port < 1 || settings.Stream.Port > 65535 {
		return errors.Newf("stream.port must be in 1-65535, got %d", settings.Stream.Port).
			Component("conf").
			Category(errors.CategoryValidation).
			Context("setting", "stream.port").
			Build()
	}

	if ip := net.ParseIP(settings.Stream.Group); ip == nil {
		return errors.Newf("stream.group is not a valid IP address: %q", settings.Stream.Group).
			Component("conf").
			Category(errors.CategoryValidation).
			Context("setting", "stream.group").
			Build()
	}

	if settings.Export.Enabled {
		if settings.Export.Path == "" {
			return errors.Newf("export.path must be set when export is enabled").
				Component("conf").
				Category(errors.CategoryValidation).
				Context("setting", "export.path").
				Build()
		}
		if settings.Export.SegmentSeconds <= 0 {
			return errors.Newf("export.segmentseconds must be greater than 0, got %d", settings.Export.SegmentSeconds).
				Component("conf").
				Category(errors.CategoryValidation).
				Context("setting", "export.segmentseconds").
				Build()
		}
	}

	if settings.Telemetry.Enabled && settings.Telemetry.Listen == "" {
		return errors.Newf("telemetry.listen must be set when telemetry is enabled").
			Component("conf").
			Category(errors.CategoryValidation).
			Context("setting", "telemetry.listen").
			Build()
	}

	return nil
}
