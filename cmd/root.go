// Package cmd provides the command-line interface for rdattools.
// rdattools recovers the logical contents of helical-scan R-DAT tapes --
// DAT audio or DDS computer data -- from a baseband RF capture of the
// tape read head.
package cmd

import (
	"os"

	"github.com/spf13/cobra"

	"github.com/tapeworks/rdattools/pkg/config"
	"github.com/tapeworks/rdattools/pkg/logger"
)

var (
	verbose    bool
	configPath string
)

// rootCmd represents the base command when called without any subcommands.
var rootCmd = &cobra.Command{
	Use:   "rdattools",
	Short: "Recover DAT audio and DDS data from R-DAT RF captures",
	Long: `rdattools decodes helical-scan R-DAT tapes from a baseband RF waveform
captured off the tape read head. Input is a headerless stream of IEEE-754
32-bit floats, native-endian, sampled at 75.264 MHz (8x the 9.408 MHz
channel symbol rate).

Commands:
  dat    Decode as digital audio and write a 48 kHz stereo WAV file
  dds    Decode as computer data and write recovered basic groups
  raw    Dump raw 10-bit line words without interpreting them

Examples:
  rdattools dat -f capture.f32 -o tape.wav
  rdattools dds -f capture.f32 -o ./groups/ -s 1
  rdattools raw -f capture.f32

Use 'rdattools [command] --help' for more information about a command.`,
	SilenceUsage: true,
	PersistentPreRun: func(cmd *cobra.Command, args []string) {
		logger.Init(verbose)
	},
}

// Execute runs the root command. It is called by main.main().
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

// loadConfig resolves the decoder constants for the current invocation.
func loadConfig() (config.Config, error) {
	return config.Load(configPath)
}

func init() {
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false,
		"enable debug output")
	rootCmd.PersistentFlags().StringVar(&configPath, "config", "",
		"YAML file overriding the tuned decoder constants")
}
