package cmd

import (
	"github.com/spf13/cobra"

	"github.com/KaramelBytes/geoqaqc-cli/internal/report"
)

var (
	previewIO   ioFlags
	previewRows int
)

var previewCmd = &cobra.Command{
	Use:   "preview <file|->",
	Short: "Show the shape, columns and first rows of a delimited file",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		opt, err := previewIO.options(cmd)
		if err != nil {
			return err
		}
		ds, err := loadInput(cmd, args[0], opt)
		if err != nil {
			return err
		}
		_, err = cmd.OutOrStdout().Write([]byte(report.PreviewMarkdown(displayName(args[0]), ds, previewRows)))
		return err
	},
}

func init() {
	rootCmd.AddCommand(previewCmd)
	previewIO.registerInput(previewCmd)
	previewCmd.Flags().IntVarP(&previewRows, "rows", "n", 10, "number of rows to show")
}
