// Package devices implements the devices subcommand.
package devices

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/tphakala/pcmcast-go/internal/myaudio"
)

// Command creates the devices command: list available playback devices.
func Command() *cobra.Command {
	return &cobra.Command{
		Use:   "devices",
		Short: "List available audio playback devices",
		RunE: func(cmd *cobra.Command, args []string) error {
			devices, err := myaudio.ListPlaybackDevices()
			if err != nil {
				return err
			}

			fmt.Println("Available playback devices:")
			for _, device := range devices {
				marker := " "
				if device.Default {
					marker = "*"
				}
				fmt.Printf("%s %d: %s, %s\n", marker, device.Index, device.Name, device.ID)
			}
			return nil
		},
	}
}
