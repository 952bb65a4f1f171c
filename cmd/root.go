// Package cmd assembles the command line interface.
package cmd

import (
	"fmt"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/tphakala/pcmcast-go/cmd/devices"
	"github.com/tphakala/pcmcast-go/cmd/listen"
	"github.com/tphakala/pcmcast-go/internal/conf"
)

// RootCommand creates and returns the root command
func RootCommand(settings *conf.Settings) *cobra.Command {
	rootCmd := &cobra.Command{
		Use:   "pcmcast",
		Short: "Network PCM stream receiver and player",
	}

	// Set up the global flags for the root command.
	if err := setupFlags(rootCmd, settings); err != nil {
		cobra.CheckErr(err)
	}

	rootCmd.AddCommand(
		listen.Command(settings),
		devices.Command(),
	)

	return rootCmd
}

// setupFlags defines flags that are global to the command line interface
func setupFlags(rootCmd *cobra.Command, settings *conf.Settings) error {
	rootCmd.PersistentFlags().BoolVarP(&settings.Debug, "debug", "d", viper.GetBool("debug"), "Enable debug output")
	rootCmd.PersistentFlags().StringVarP(&settings.Audio.Output, "output", "o", viper.GetString("audio.output"), "Playback device name or ID, \"default\" for the system default")
	rootCmd.PersistentFlags().IntVar(&settings.Audio.MaxLatencyMs, "latency", viper.GetInt("audio.maxlatencyms"), "Maximum latency in milliseconds, sizes the stream buffer")
	rootCmd.PersistentFlags().StringVarP(&settings.Stream.Group, "group", "g", viper.GetString("stream.group"), "Multicast group or unicast address to listen on")
	rootCmd.PersistentFlags().IntVarP(&settings.Stream.Port, "port", "p", viper.GetInt("stream.port"), "UDP port to listen on")

	if err := viper.BindPFlags(rootCmd.PersistentFlags()); err != nil {
		return fmt.Errorf("error binding flags: %w", err)
	}

	return nil
}
