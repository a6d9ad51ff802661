package cmd

import (
	"github.com/spf13/cobra"

	"github.com/KaramelBytes/geoqaqc-cli/internal/qc"
	"github.com/KaramelBytes/geoqaqc-cli/internal/report"
)

var (
	dupIO        ioFlags
	dupOriginal  string
	dupReplicate string
	dupTitle     string
)

var duplicateCmd = &cobra.Command{
	Use:     "duplicate <file|->",
	Aliases: []string{"dup"},
	Short:   "Compare original and replicate assays with a linear fit",
	Long: `Fits replicate = slope·original + intercept by least squares and reports
r, R² and the mean absolute and relative differences of the pairs.`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		path := args[0]
		opt, err := dupIO.options(cmd)
		if err != nil {
			return err
		}
		ds, err := loadInput(cmd, path, opt)
		if err != nil {
			return err
		}
		cols := qc.Pair{Original: dupOriginal, Replicate: dupReplicate}
		res, err := qc.Duplicates(ds, cols, opt)
		if err != nil {
			return err
		}
		h := report.Header{Title: dupTitle, Source: displayName(path), Notes: droppedNote(ds, res.Regression.N)}
		return dupIO.finish(cmd, duplicateReport(h, res, cols))
	},
}

func init() {
	rootCmd.AddCommand(duplicateCmd)
	dupIO.register(duplicateCmd)
	duplicateCmd.Flags().StringVar(&dupOriginal, "original", "", "original assay column")
	duplicateCmd.Flags().StringVar(&dupReplicate, "replicate", "", "replicate assay column")
	duplicateCmd.Flags().StringVar(&dupTitle, "title", "", "label used in the report and chart")
	_ = duplicateCmd.MarkFlagRequired("original")
	_ = duplicateCmd.MarkFlagRequired("replicate")
}
