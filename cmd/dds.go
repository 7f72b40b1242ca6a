package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/tapeworks/rdattools/pkg/dds"
)

var (
	ddsInputFile  string
	ddsOutputDir  string
	ddsSession    uint
)

// ddsCmd decodes the capture as DDS computer data.
var ddsCmd = &cobra.Command{
	Use:   "dds",
	Short: "Decode DDS data and write recovered basic groups",
	Long: `Decode the capture as DDS computer data.

Recovered basic groups are written to the output directory as four files
each: gNNNNNN.bin (126632-byte payload), gNNNNNN.val (per-byte validity,
0xff good / 0x00 bad), and the ECC3 sub-group as gNNNNNN.ecc.bin and
gNNNNNN.ecc.val. On startup any previously written files for a group are
read back and merged, so multiple passes over a damaged tape accumulate.

A tape can contain several sessions separated by end-of-data marks; -s
selects which one to dump (default 0, the first).

Example:
  rdattools dds -f capture.f32 -o ./groups/ -s 1`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := loadConfig()
		if err != nil {
			return err
		}

		streamer := dds.NewFrameReceiver()
		if ddsOutputDir != "" {
			if err := os.MkdirAll(ddsOutputDir, 0755); err != nil {
				return fmt.Errorf("failed to create output directory: %w", err)
			}
			streamer.DumpToDirectory(ddsOutputDir)
		}
		streamer.DumpSession(ddsSession)

		in, err := openInput(ddsInputFile)
		if err != nil {
			return err
		}

		pump(in, buildPipeline(cfg, streamer))

		return nil
	},
}

func init() {
	rootCmd.AddCommand(ddsCmd)

	ddsCmd.Flags().StringVarP(&ddsInputFile, "file", "f", "",
		"input sample file (default stdin)")
	ddsCmd.Flags().StringVarP(&ddsOutputDir, "output", "o", "",
		"directory to dump basic groups into")
	ddsCmd.Flags().UintVarP(&ddsSession, "session", "s", 0,
		"session number to dump")
}
