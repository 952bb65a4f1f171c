// Package listen implements the listen subcommand, the main operating mode.
package listen

import (
	"github.com/spf13/cobra"

	"github.com/tphakala/pcmcast-go/internal/conf"
	"github.com/tphakala/pcmcast-go/internal/player"
)

// Command creates the listen command: receive the stream and play it.
func Command(settings *conf.Settings) *cobra.Command {
	return &cobra.Command{
		Use:   "listen",
		Short: "Receive the PCM stream and play it on the output device",
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := conf.ValidateSettings(settings); err != nil {
				return err
			}
			return player.RunPlayer(settings)
		},
	}
}
