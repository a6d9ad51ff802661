package job

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/KaramelBytes/geoqaqc-cli/internal/qc"
)

// CheckType names one of the supported QC routines.
type CheckType string

const (
	CheckCRM       CheckType = "crm"
	CheckBlank     CheckType = "blank"
	CheckDuplicate CheckType = "duplicate"
)

// ErrInvalidJob wraps every validation failure reported by Load.
var ErrInvalidJob = errors.New("invalid job")

// Job describes a batch of checks run against one input file.
type Job struct {
	Name      string  `yaml:"name"`
	Input     string  `yaml:"input"`
	Delimiter string  `yaml:"delimiter,omitempty"`
	Decimal   string  `yaml:"decimal,omitempty"`
	Thousands string  `yaml:"thousands,omitempty"`
	OutputDir string  `yaml:"output_dir,omitempty"`
	Checks    []Check `yaml:"checks"`

	// Not serialized: directory of the job file, used to resolve relative paths.
	baseDir string `yaml:"-"`
}

// Check is one QC routine with explicit parameters.
type Check struct {
	Name string    `yaml:"name,omitempty"`
	Type CheckType `yaml:"type"`

	// crm and blank
	ID    string `yaml:"id,omitempty"`
	Value string `yaml:"value,omitempty"`

	// crm only; Tolerance is in percent for percent tolerances
	Reference     float64  `yaml:"reference,omitempty"`
	ReferenceSD   float64  `yaml:"reference_sd,omitempty"`
	ToleranceType string   `yaml:"tolerance_type,omitempty"`
	Tolerance     *float64 `yaml:"tolerance,omitempty"`

	// duplicate only
	Original  string `yaml:"original,omitempty"`
	Replicate string `yaml:"replicate,omitempty"`

	// Optional per-check outputs, relative to the job's output_dir.
	Output string `yaml:"output,omitempty"`
	Chart  string `yaml:"chart,omitempty"`
}

// Load reads and validates a YAML job file.
func Load(path string) (*Job, error) {
	b, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, fmt.Errorf("job file not found at %s: %w", path, err)
		}
		return nil, fmt.Errorf("read job: %w", err)
	}
	j, err := Parse(b)
	if err != nil {
		return nil, err
	}
	j.baseDir = filepath.Dir(path)
	return j, nil
}

// Parse decodes and validates job YAML held in memory.
func Parse(b []byte) (*Job, error) {
	var j Job
	if err := yaml.Unmarshal(b, &j); err != nil {
		return nil, fmt.Errorf("parse job: %w", err)
	}
	if err := j.Validate(); err != nil {
		return nil, err
	}
	return &j, nil
}

// Validate fills in check names and reports structural problems. Numeric
// parameters are left to the QC routines.
func (j *Job) Validate() error {
	if strings.TrimSpace(j.Input) == "" {
		return fmt.Errorf("%w: input is required", ErrInvalidJob)
	}
	if len(j.Checks) == 0 {
		return fmt.Errorf("%w: at least one check is required", ErrInvalidJob)
	}
	seen := make(map[string]bool, len(j.Checks))
	for i := range j.Checks {
		c := &j.Checks[i]
		c.Type = CheckType(strings.ToLower(strings.TrimSpace(string(c.Type))))
		if c.Name == "" {
			c.Name = fmt.Sprintf("%s-%d", c.Type, i+1)
		}
		if seen[c.Name] {
			return fmt.Errorf("%w: duplicate check name %q", ErrInvalidJob, c.Name)
		}
		seen[c.Name] = true
		if err := c.validate(); err != nil {
			return fmt.Errorf("%w: check %q: %v", ErrInvalidJob, c.Name, err)
		}
	}
	return nil
}

func (c *Check) validate() error {
	switch c.Type {
	case CheckCRM:
		if c.ID == "" || c.Value == "" {
			return errors.New("crm needs id and value columns")
		}
		if c.ToleranceType != "" {
			if _, err := qc.ParseToleranceKind(c.ToleranceType); err != nil {
				return err
			}
		}
	case CheckBlank:
		if c.ID == "" || c.Value == "" {
			return errors.New("blank needs id and value columns")
		}
	case CheckDuplicate:
		if c.Original == "" || c.Replicate == "" {
			return errors.New("duplicate needs original and replicate columns")
		}
	case "":
		return errors.New("type is required (crm|blank|duplicate)")
	default:
		return fmt.Errorf("unknown type %q (use crm|blank|duplicate)", c.Type)
	}
	return nil
}

// InputPath resolves Input against the job file's directory.
func (j *Job) InputPath() string {
	return j.resolve(j.Input)
}

// OutputPath resolves a per-check output against output_dir and the job
// file's directory. An empty name stays empty.
func (j *Job) OutputPath(name string) string {
	if name == "" || name == "-" || filepath.IsAbs(name) {
		return name
	}
	if j.OutputDir != "" {
		name = filepath.Join(j.OutputDir, name)
	}
	return j.resolve(name)
}

func (j *Job) resolve(p string) string {
	if p == "-" || filepath.IsAbs(p) || j.baseDir == "" {
		return p
	}
	return filepath.Join(j.baseDir, p)
}
