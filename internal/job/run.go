package job

import (
	"fmt"
	"io"
	"time"

	"github.com/google/uuid"

	"github.com/KaramelBytes/geoqaqc-cli/internal/config"
	"github.com/KaramelBytes/geoqaqc-cli/internal/dataset"
	"github.com/KaramelBytes/geoqaqc-cli/internal/logger"
	"github.com/KaramelBytes/geoqaqc-cli/internal/qc"
	"github.com/KaramelBytes/geoqaqc-cli/internal/utils"
)

// Defaults supply the values a job file leaves out.
type Defaults struct {
	Options          dataset.Options
	TolerancePercent float64 // in percent
	ToleranceSigma   float64
}

// DefaultsFrom derives run defaults from the global configuration.
func DefaultsFrom(c *config.Global) (Defaults, error) {
	opt, err := c.DatasetOptions()
	if err != nil {
		return Defaults{}, err
	}
	return Defaults{
		Options:          opt,
		TolerancePercent: c.DefaultTolerancePercent,
		ToleranceSigma:   c.DefaultToleranceSigma,
	}, nil
}

// Outcome is the result of one check. Exactly one of the result fields is
// set when Err is nil.
type Outcome struct {
	RunID     string              `json:"run_id"`
	Check     Check               `json:"-"`
	Name      string              `json:"check"`
	Type      CheckType           `json:"type"`
	CRM       *qc.CRMResult       `json:"crm,omitempty"`
	Blank     *qc.BlankResult     `json:"blank,omitempty"`
	Duplicate *qc.DuplicateResult `json:"duplicate,omitempty"`
	Err       error               `json:"-"`
	Error     string              `json:"error,omitempty"`
}

// Violations counts rows that did not pass; duplicate checks have none.
func (o Outcome) Violations() int {
	switch {
	case o.CRM != nil:
		return o.CRM.Failures
	case o.Blank != nil:
		return o.Blank.Elevated
	}
	return 0
}

// Run loads the job's input once and runs every check in order. stdin is
// read when the job's input is "-".
func Run(j *Job, d Defaults, stdin io.Reader) ([]Outcome, error) {
	opt, err := j.options(d.Options)
	if err != nil {
		return nil, err
	}
	rc, err := utils.OpenInput(j.InputPath(), stdin)
	if err != nil {
		return nil, err
	}
	defer rc.Close()
	ds, err := dataset.Load(rc, opt)
	if err != nil {
		return nil, fmt.Errorf("load %s: %w", j.Input, err)
	}
	for _, w := range ds.Warnings {
		logger.Warnf("%s: %s", j.Input, w)
	}
	d.Options = opt
	return RunDataset(j, ds, d), nil
}

// RunDataset runs every check against an already loaded dataset. A failing
// check is recorded in its Outcome and does not stop the others.
func RunDataset(j *Job, ds *dataset.Dataset, d Defaults) []Outcome {
	runID := uuid.NewString()
	out := make([]Outcome, 0, len(j.Checks))
	for _, c := range j.Checks {
		start := time.Now()
		o := Outcome{RunID: runID, Check: c, Name: c.Name, Type: c.Type}
		switch c.Type {
		case CheckCRM:
			p, err := crmParams(c, d)
			if err != nil {
				o.Err = err
				break
			}
			o.CRM, o.Err = qc.CRM(ds, qc.Columns{ID: c.ID, Value: c.Value}, p, d.Options)
		case CheckBlank:
			o.Blank, o.Err = qc.Blank(ds, qc.Columns{ID: c.ID, Value: c.Value}, d.Options)
		case CheckDuplicate:
			o.Duplicate, o.Err = qc.Duplicates(ds, qc.Pair{Original: c.Original, Replicate: c.Replicate}, d.Options)
		default:
			o.Err = fmt.Errorf("%w: unknown check type %q", ErrInvalidJob, c.Type)
		}
		if o.Err != nil {
			o.Error = o.Err.Error()
			logger.Warnf("check %s failed: %v", c.Name, o.Err)
		} else {
			logger.Debugf("check %s done in %s", c.Name, time.Since(start))
		}
		out = append(out, o)
	}
	return out
}

func (j *Job) options(base dataset.Options) (dataset.Options, error) {
	opt := base
	if j.Delimiter != "" {
		r, err := dataset.ParseDelimiter(j.Delimiter)
		if err != nil {
			return opt, fmt.Errorf("%w: %v", ErrInvalidJob, err)
		}
		opt.Delimiter = r
	}
	if j.Decimal != "" {
		r, err := config.ParseSeparator(j.Decimal)
		if err != nil {
			return opt, fmt.Errorf("%w: decimal: %v", ErrInvalidJob, err)
		}
		opt.DecimalSeparator = r
	}
	if j.Thousands != "" {
		r, err := config.ParseSeparator(j.Thousands)
		if err != nil {
			return opt, fmt.Errorf("%w: thousands: %v", ErrInvalidJob, err)
		}
		opt.ThousandsSeparator = r
	}
	return opt, nil
}

// crmParams turns a check into library parameters. Percent tolerances are
// converted from percent to a fraction here.
func crmParams(c Check, d Defaults) (qc.CRMParams, error) {
	kind := qc.Percent
	if c.ToleranceType != "" {
		k, err := qc.ParseToleranceKind(c.ToleranceType)
		if err != nil {
			return qc.CRMParams{}, err
		}
		kind = k
	}
	p := qc.CRMParams{Reference: c.Reference, ReferenceStdDev: c.ReferenceSD}
	switch kind {
	case qc.Sigma:
		k := d.ToleranceSigma
		if c.Tolerance != nil {
			k = *c.Tolerance
		}
		p.Tolerance = qc.StdDevMultiple(k)
	default:
		pct := d.TolerancePercent
		if c.Tolerance != nil {
			pct = *c.Tolerance
		}
		p.Tolerance = qc.Percentage(pct / 100)
	}
	return p, nil
}
