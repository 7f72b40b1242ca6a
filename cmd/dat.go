package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/tapeworks/rdattools/pkg/audio"
)

var (
	datInputFile  string
	datOutputFile string
)

// datCmd decodes the capture as DAT digital audio.
var datCmd = &cobra.Command{
	Use:   "dat",
	Short: "Decode DAT audio and write a 48 kHz stereo WAV file",
	Long: `Decode the capture as DAT digital audio.

Every recovered frame is reported with its sub-code contents (absolute,
program and running times, table of contents, date/time) and its C1/C2
error statistics. With -o, the 48 kHz 16-bit stereo samples are written to
a WAV file as they are recovered.

Example:
  rdattools dat -f capture.f32 -o tape.wav`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := loadConfig()
		if err != nil {
			return err
		}

		streamer := audio.NewFrameReceiver()
		if datOutputFile != "" {
			if err := streamer.SetDumpFile(datOutputFile); err != nil {
				return fmt.Errorf("failed to open output file: %w", err)
			}
		}

		in, err := openInput(datInputFile)
		if err != nil {
			return err
		}

		pump(in, buildPipeline(cfg, streamer))

		return nil
	},
}

func init() {
	rootCmd.AddCommand(datCmd)

	datCmd.Flags().StringVarP(&datInputFile, "file", "f", "",
		"input sample file (default stdin)")
	datCmd.Flags().StringVarP(&datOutputFile, "output", "o", "",
		"WAV output file")
}
