package cmd

import (
	"github.com/spf13/cobra"

	"github.com/KaramelBytes/geoqaqc-cli/internal/qc"
	"github.com/KaramelBytes/geoqaqc-cli/internal/report"
)

var (
	blankIO    ioFlags
	blankID    string
	blankValue string
	blankTitle string
)

var blankCmd = &cobra.Command{
	Use:   "blank <file|->",
	Short: "Check blanks against a detection limit estimated from the series",
	Long: `Estimates the limit of detection as mean + 3·SD of the blank values and
flags every blank above it as elevated.`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		path := args[0]
		opt, err := blankIO.options(cmd)
		if err != nil {
			return err
		}
		ds, err := loadInput(cmd, path, opt)
		if err != nil {
			return err
		}
		cols := qc.Columns{ID: blankID, Value: blankValue}
		res, err := qc.Blank(ds, cols, opt)
		if err != nil {
			return err
		}
		h := report.Header{Title: blankTitle, Source: displayName(path), Notes: droppedNote(ds, res.Summary.N)}
		return blankIO.finish(cmd, blankReport(h, res, cols))
	},
}

func init() {
	rootCmd.AddCommand(blankCmd)
	blankIO.register(blankCmd)
	blankCmd.Flags().StringVar(&blankID, "id", "", "sample identifier column")
	blankCmd.Flags().StringVar(&blankValue, "value", "", "measured value column")
	blankCmd.Flags().StringVar(&blankTitle, "title", "", "label used in the report and chart")
	_ = blankCmd.MarkFlagRequired("id")
	_ = blankCmd.MarkFlagRequired("value")
}
