package cmd

import (
	"github.com/spf13/cobra"
)

var rawInputFile string

// rawCmd dumps raw line words without DAT or DDS interpretation.
var rawCmd = &cobra.Command{
	Use:   "raw",
	Short: "Dump raw 10-bit line words without interpreting them",
	Long: `Run only the clock recovery, deframer and symbol decode, printing every
assembled block as raw 10-bit line words alongside the ten-to-eight decode
result. Useful for judging capture quality before committing to a full
DAT or DDS decode.

Example:
  rdattools raw -f capture.f32`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := loadConfig()
		if err != nil {
			return err
		}

		in, err := openInput(rawInputFile)
		if err != nil {
			return err
		}

		pump(in, buildPipeline(cfg, nil))

		return nil
	},
}

func init() {
	rootCmd.AddCommand(rawCmd)

	rawCmd.Flags().StringVarP(&rawInputFile, "file", "f", "",
		"input sample file (default stdin)")
}
