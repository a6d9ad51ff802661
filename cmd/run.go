package cmd

import (
	"bytes"
	"fmt"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"github.com/KaramelBytes/geoqaqc-cli/internal/job"
	"github.com/KaramelBytes/geoqaqc-cli/internal/qc"
	"github.com/KaramelBytes/geoqaqc-cli/internal/report"
	"github.com/KaramelBytes/geoqaqc-cli/internal/utils"
)

var (
	runFormat          string
	runOutput          string
	runPrecision       int
	runFailOnViolation bool
	runExportDir       string
)

var runCmd = &cobra.Command{
	Use:   "run <job.yaml>",
	Short: "Run every check described in a YAML job file",
	Long: `Loads the job's input once and runs its crm, blank and duplicate checks in
order. A failing check is reported and does not stop the others. Checks with
an output or chart path write their own files.`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		j, err := job.Load(args[0])
		if err != nil {
			return err
		}
		defaults, err := job.DefaultsFrom(currentConfig())
		if err != nil {
			return err
		}
		outs, err := job.Run(j, defaults, cmd.InOrStdin())
		if err != nil {
			return err
		}
		format, err := normalizeFormat(runFormat)
		if err != nil {
			return err
		}
		if format == formatCSV {
			return fmt.Errorf("--format csv is per check; set output paths in the job file")
		}
		precision := runPrecision
		if precision < 0 {
			precision = currentConfig().Precision
		}

		failedChecks, violations := 0, 0
		var md strings.Builder
		for _, o := range outs {
			if o.Err != nil {
				failedChecks++
				fmt.Fprintf(cmd.ErrOrStderr(), "⚠ %s: %v\n", o.Name, o.Err)
				md.WriteString(fmt.Sprintf("[CHECK FAILED]\nCheck: %s\nError: %v\n\n", o.Name, o.Err))
				continue
			}
			violations += o.Violations()
			rep := outcomeReport(j, o)
			if err := writeOutcomeFiles(cmd, j, o, rep, precision); err != nil {
				return err
			}
			md.WriteString(rep.Markdown(precision))
			md.WriteString("\n")
		}

		var data []byte
		if format == formatJSON {
			b, err := utils.PrettyJSON(runSummary{Job: j.Name, RunID: runID(outs), Outcomes: outs})
			if err != nil {
				return err
			}
			data = append(b, '\n')
		} else {
			data = []byte(md.String())
		}
		if err := emit(cmd, runOutput, "job report", data); err != nil {
			return err
		}
		if failedChecks > 0 {
			return fmt.Errorf("%d of %d check(s) failed", failedChecks, len(outs))
		}
		if runFailOnViolation && violations > 0 {
			return fmt.Errorf("%w: %d row(s) failed across %d check(s)", errViolations, violations, len(outs))
		}
		return nil
	},
}

type runSummary struct {
	Job      string        `json:"job,omitempty"`
	RunID    string        `json:"run_id"`
	Outcomes []job.Outcome `json:"outcomes"`
}

func runID(outs []job.Outcome) string {
	if len(outs) == 0 {
		return ""
	}
	return outs[0].RunID
}

func outcomeReport(j *job.Job, o job.Outcome) checkReport {
	h := report.Header{Title: o.Name, Source: j.Input, RunID: o.RunID}
	c := o.Check
	switch {
	case o.CRM != nil:
		return crmReport(h, o.CRM, qc.Columns{ID: c.ID, Value: c.Value})
	case o.Blank != nil:
		return blankReport(h, o.Blank, qc.Columns{ID: c.ID, Value: c.Value})
	default:
		return duplicateReport(h, o.Duplicate, qc.Pair{Original: c.Original, Replicate: c.Replicate})
	}
}

// writeOutcomeFiles writes the per-check export and chart named in the job.
// With --export-dir, checks without an output path are exported as
// <export-dir>/<check-name>.csv.
func writeOutcomeFiles(cmd *cobra.Command, j *job.Job, o job.Outcome, rep checkReport, precision int) error {
	out := j.OutputPath(o.Check.Output)
	if out == "" && runExportDir != "" {
		out = filepath.Join(runExportDir, utils.Slug(o.Name)+".csv")
	}
	if out != "" {
		data, err := rep.encode(formatFromPath(out), precision)
		if err != nil {
			return err
		}
		if err := utils.SafeWriteFile(out, data); err != nil {
			return fmt.Errorf("write %s: %w", o.Name, err)
		}
		fmt.Fprintf(cmd.ErrOrStderr(), "✓ %s: wrote %s\n", o.Name, out)
	}
	if chartPath := j.OutputPath(o.Check.Chart); chartPath != "" {
		cfg := currentConfig()
		var buf bytes.Buffer
		if err := rep.Chart(&buf, report.ChartSize{Width: cfg.ChartWidth, Height: cfg.ChartHeight}); err != nil {
			return fmt.Errorf("chart %s: %w", o.Name, err)
		}
		if err := utils.SafeWriteFile(chartPath, buf.Bytes()); err != nil {
			return fmt.Errorf("write chart %s: %w", o.Name, err)
		}
		fmt.Fprintf(cmd.ErrOrStderr(), "✓ %s: wrote %s\n", o.Name, chartPath)
	}
	return nil
}

func init() {
	rootCmd.AddCommand(runCmd)
	runCmd.Flags().StringVar(&runFormat, "format", formatMarkdown, "combined report format: markdown|json")
	runCmd.Flags().StringVarP(&runOutput, "output", "o", "", "write the combined report to this path instead of stdout")
	runCmd.Flags().IntVar(&runPrecision, "precision", -1, "decimals for exported numbers (default from config)")
	runCmd.Flags().StringVar(&runExportDir, "export-dir", "", "export every check without an output path as <dir>/<check-name>.csv")
	runCmd.Flags().BoolVar(&runFailOnViolation, "fail-on-violation", false, "exit non-zero when any row is out of limits or elevated")
}
