package cmd

import (
	"github.com/spf13/cobra"

	"github.com/KaramelBytes/geoqaqc-cli/internal/qc"
	"github.com/KaramelBytes/geoqaqc-cli/internal/report"
)

var (
	crmIO        ioFlags
	crmID        string
	crmValue     string
	crmRef       float64
	crmRefSD     float64
	crmTolType   string
	crmTolerance float64
	crmTitle     string
)

var crmCmd = &cobra.Command{
	Use:   "crm <file|->",
	Short: "Check certified reference material results against their certified value",
	Long: `Compares each measured CRM value to the certified value and flags rows
outside the acceptance limits. Limits are either reference·(1 ± tolerance%)
or reference ± k·reference-sd.`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		path := args[0]
		opt, err := crmIO.options(cmd)
		if err != nil {
			return err
		}
		kind, err := qc.ParseToleranceKind(crmTolType)
		if err != nil {
			return err
		}
		tol := crmTolerance
		if !cmd.Flags().Changed("tolerance") {
			if kind == qc.Sigma {
				tol = currentConfig().DefaultToleranceSigma
			} else {
				tol = currentConfig().DefaultTolerancePercent
			}
		}
		p := qc.CRMParams{Reference: crmRef, ReferenceStdDev: crmRefSD}
		if kind == qc.Sigma {
			p.Tolerance = qc.StdDevMultiple(tol)
		} else {
			p.Tolerance = qc.Percentage(tol / 100)
		}

		ds, err := loadInput(cmd, path, opt)
		if err != nil {
			return err
		}
		cols := qc.Columns{ID: crmID, Value: crmValue}
		res, err := qc.CRM(ds, cols, p, opt)
		if err != nil {
			return err
		}
		h := report.Header{Title: crmTitle, Source: displayName(path), Notes: droppedNote(ds, res.Summary.N)}
		return crmIO.finish(cmd, crmReport(h, res, cols))
	},
}

func init() {
	rootCmd.AddCommand(crmCmd)
	crmIO.register(crmCmd)
	crmCmd.Flags().StringVar(&crmID, "id", "", "sample identifier column")
	crmCmd.Flags().StringVar(&crmValue, "value", "", "measured value column")
	crmCmd.Flags().Float64Var(&crmRef, "ref", 0, "certified reference value (> 0)")
	crmCmd.Flags().Float64Var(&crmRefSD, "ref-sd", 0, "certified standard deviation (enables z-scores)")
	crmCmd.Flags().StringVar(&crmTolType, "tolerance-type", "percent", "tolerance type: percent|sigma")
	crmCmd.Flags().Float64Var(&crmTolerance, "tolerance", 0, "tolerance in percent or sigma multiples (default from config)")
	crmCmd.Flags().StringVar(&crmTitle, "title", "", "label used in the report and chart")
	_ = crmCmd.MarkFlagRequired("id")
	_ = crmCmd.MarkFlagRequired("value")
	_ = crmCmd.MarkFlagRequired("ref")
}
