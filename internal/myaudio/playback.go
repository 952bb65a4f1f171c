package myaudio

import (
	"runtime"
	"strings"
	"sync"
	"time"
	"unsafe"

	"github.com/gen2brain/malgo"

	"github.com/tphakala/pcmcast-go/internal/conf"
	"github.com/tphakala/pcmcast-go/internal/errors"
	"github.com/tphakala/pcmcast-go/internal/logging"
)

// playbackSource holds information about a selected playback device.
type playbackSource struct {
	Name    string
	ID      string
	Pointer unsafe.Pointer
}

// PlaybackAudio opens the configured playback device and feeds it from the
// source buffer until the quit channel closes. The device data callback pulls
// fixed-size blocks through SourceBuffer.Fill, so every period is handed to
// the device fully populated.
//
// Initialization failures (context, device or start) are returned to the
// caller; the embedding application decides whether to continue without
// audio. An unexpected device stop triggers a restart attempt and, failing
// that, a signal on the restart channel.
func PlaybackAudio(settings *conf.Settings, buffer *SourceBuffer, wg *sync.WaitGroup, quitChan, restartChan chan struct{}) error {
	defer wg.Done()

	log := logging.ForService("playback")
	var device *malgo.Device

	// if Linux set malgo.BackendAlsa, else set nil for auto select
	var backend malgo.Backend
	switch runtime.GOOS {
	case "linux":
		backend = malgo.BackendAlsa
	case "windows":
		backend = malgo.BackendWasapi
	case "darwin":
		backend = malgo.BackendCoreaudio
	}

	malgoCtx, err := malgo.InitContext([]malgo.Backend{backend}, malgo.ContextConfig{}, func(message string) {
		if settings.Debug {
			log.Debug("miniaudio", "message", message)
		}
	})
	if err != nil {
		return errors.New(err).
			Component("myaudio").
			Category(errors.CategoryAudioDevice).
			Context("operation", "init_context").
			Build()
	}
	defer malgoCtx.Uninit() //nolint:errcheck

	deviceConfig := malgo.DefaultDeviceConfig(malgo.Playback)
	deviceConfig.Playback.Format = malgo.FormatS16
	deviceConfig.Playback.Channels = conf.NumChannels
	deviceConfig.SampleRate = conf.SampleRate
	deviceConfig.Alsa.NoMMap = 1
	deviceConfig.Periods = uint32(settings.Audio.DeviceBufferCount)
	deviceConfig.PeriodSizeInMilliseconds = uint32(settings.Audio.DeviceBufferMs)

	// Select the playback device based on the settings
	if settings.Audio.Output != "" && settings.Audio.Output != "default" {
		infos, err := malgoCtx.Devices(malgo.Playback)
		if err != nil {
			return errors.New(err).
				Component("myaudio").
				Category(errors.CategoryAudioDevice).
				Context("operation", "list_devices").
				Build()
		}
		source, err := selectPlaybackSource(settings, infos)
		if err != nil {
			return err
		}
		deviceConfig.Playback.DeviceID = source.Pointer
		log.Info("selected playback device", "name", source.Name, "id", source.ID)
	}

	// The device pulls one period worth of bytes per callback; the buffer
	// always fills the whole block, padding with silence when the network
	// has not kept up.
	onSendFrames := func(pOutputSample, pInputSamples []byte, framecount uint32) {
		buffer.Fill(pOutputSample)
	}

	// onStopDevice is called when the device stops, either normally or unexpectedly
	onStopDevice := func() {
		go func() {
			select {
			case <-quitChan:
				// Quit signal has been received, do not attempt to restart
				return
			case <-time.After(100 * time.Millisecond):
				// Wait a bit before restarting to avoid rapid restart loops
				if settings.Debug {
					log.Debug("attempting to restart playback device")
				}
				err := device.Start()
				if err != nil {
					log.Error("failed to restart playback device", "error", err)
					time.Sleep(1 * time.Second)
					restartChan <- struct{}{}
				} else if settings.Debug {
					log.Debug("playback device restarted")
				}
			}
		}()
	}

	deviceCallbacks := malgo.DeviceCallbacks{
		Data: onSendFrames,
		Stop: onStopDevice,
	}

	device, err = malgo.InitDevice(malgoCtx.Context, deviceConfig, deviceCallbacks)
	if err != nil {
		return errors.New(err).
			Component("myaudio").
			Category(errors.CategoryAudioDevice).
			Context("operation", "init_device").
			Build()
	}

	// Warm start: run each device period through the same fill path before
	// the device clock starts. The ring is still empty so the periods come
	// back as silence, and playback begins from populated blocks instead of
	// uninitialized memory.
	periodBytes := settings.Audio.DeviceBufferMs * conf.BytesPerSecond / 1000
	primeBlock := make([]byte, periodBytes)
	for i := 0; i < settings.Audio.DeviceBufferCount; i++ {
		buffer.Fill(primeBlock)
	}

	if err := device.Start(); err != nil {
		return errors.New(err).
			Component("myaudio").
			Category(errors.CategoryAudioDevice).
			Context("operation", "start_device").
			Build()
	}
	defer device.Stop() //nolint:errcheck

	log.Info("playback started",
		"sample_rate", conf.SampleRate,
		"channels", conf.NumChannels,
		"period_ms", settings.Audio.DeviceBufferMs,
		"periods", settings.Audio.DeviceBufferCount,
		"buffer_capacity", buffer.Capacity())

	for {
		select {
		case <-quitChan:
			if settings.Debug {
				log.Debug("stopping playback due to quit signal")
			}
			return nil
		case <-restartChan:
			if settings.Debug {
				log.Debug("restarting playback")
			}
			return ErrPlaybackRestart
		default:
			time.Sleep(100 * time.Millisecond)
		}
	}
}

// selectPlaybackSource picks the playback device matching the configured
// output setting and returns it, listing the candidates on the way.
func selectPlaybackSource(settings *conf.Settings, infos []malgo.DeviceInfo) (playbackSource, error) {
	log := logging.ForService("playback")

	var selectedSource playbackSource
	var deviceFound bool

	for i, info := range infos {
		decodedID, err := hexToASCII(info.ID.String())
		if err != nil {
			log.Warn("error decoding device ID", "index", i, "error", err)
			continue
		}

		log.Debug("playback device", "index", i, "name", info.Name(), "id", decodedID)

		if matchesDeviceSettings(decodedID, info, settings.Audio.Output) {
			selectedSource = playbackSource{
				Name:    info.Name(),
				ID:      decodedID,
				Pointer: info.ID.Pointer(),
			}
			deviceFound = true
		}
	}

	if !deviceFound {
		return playbackSource{}, errors.Newf("no suitable playback device found for output setting %s", settings.Audio.Output).
			Component("myaudio").
			Category(errors.CategoryAudioDevice).
			Context("output", settings.Audio.Output).
			Build()
	}

	return selectedSource, nil
}

// matchesDeviceSettings checks if the device matches the settings specified by the user.
func matchesDeviceSettings(decodedID string, info malgo.DeviceInfo, audioOutput string) bool {
	if runtime.GOOS == "windows" && audioOutput == "sysdefault" {
		// On Windows, there is no "sysdefault" device. Use miniaudio's default device instead.
		return info.IsDefault == 1
	}
	return decodedID == audioOutput || strings.Contains(info.Name(), audioOutput)
}
