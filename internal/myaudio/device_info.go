package myaudio

import (
	"encoding/hex"

	"github.com/gen2brain/malgo"

	"github.com/tphakala/pcmcast-go/internal/errors"
)

// AudioDeviceInfo holds information about an audio device.
type AudioDeviceInfo struct {
	Index   int
	Name    string
	ID      string
	Default bool
}

// ListPlaybackDevices returns the available audio playback devices.
func ListPlaybackDevices() ([]AudioDeviceInfo, error) {
	ctx, err := malgo.InitContext(nil, malgo.ContextConfig{}, nil)
	if err != nil {
		return nil, errors.New(err).
			Component("myaudio").
			Category(errors.CategoryAudioDevice).
			Context("operation", "init_context").
			Build()
	}
	defer ctx.Uninit() //nolint:errcheck

	infos, err := ctx.Devices(malgo.Playback)
	if err != nil {
		return nil, errors.New(err).
			Component("myaudio").
			Category(errors.CategoryAudioDevice).
			Context("operation", "list_devices").
			Build()
	}

	var devices []AudioDeviceInfo
	for i, info := range infos {
		decodedID, err := hexToASCII(info.ID.String())
		if err != nil {
			// Skip devices with IDs we cannot decode
			continue
		}
		devices = append(devices, AudioDeviceInfo{
			Index:   i,
			Name:    info.Name(),
			ID:      decodedID,
			Default: info.IsDefault == 1,
		})
	}

	return devices, nil
}

// hexToASCII converts a hexadecimal string to an ASCII string.
func hexToASCII(hexStr string) (string, error) {
	bytes, err := hex.DecodeString(hexStr)
	if err != nil {
		return "", err
	}
	return string(bytes), nil
}
