package config

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strconv"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
	"gopkg.in/yaml.v3"

	"github.com/KaramelBytes/geoqaqc-cli/internal/dataset"
	"github.com/KaramelBytes/geoqaqc-cli/internal/logger"
)

// EnvPrefix is prepended to every key when read from the environment,
// e.g. GEOQAQC_PRECISION.
const EnvPrefix = "GEOQAQC"

// Global configuration structure.
type Global struct {
	Delimiter          string `mapstructure:"delimiter" yaml:"delimiter"`
	DecimalSeparator   string `mapstructure:"decimal_separator" yaml:"decimal_separator"`
	ThousandsSeparator string `mapstructure:"thousands_separator" yaml:"thousands_separator"`
	Precision          int    `mapstructure:"precision" yaml:"precision"`

	// Tolerances applied when a CRM check gives none. Percent is in percent.
	DefaultTolerancePercent float64 `mapstructure:"default_tolerance_percent" yaml:"default_tolerance_percent"`
	DefaultToleranceSigma   float64 `mapstructure:"default_tolerance_sigma" yaml:"default_tolerance_sigma"`

	OutputDir   string `mapstructure:"output_dir" yaml:"output_dir"`
	ChartWidth  int    `mapstructure:"chart_width" yaml:"chart_width"`
	ChartHeight int    `mapstructure:"chart_height" yaml:"chart_height"`
	LogLevel    string `mapstructure:"log_level" yaml:"log_level"`
}

// Keys lists the settable configuration keys in display order.
var Keys = []string{
	"delimiter",
	"decimal_separator",
	"thousands_separator",
	"precision",
	"default_tolerance_percent",
	"default_tolerance_sigma",
	"output_dir",
	"chart_width",
	"chart_height",
	"log_level",
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("delimiter", ",")
	v.SetDefault("decimal_separator", ".")
	v.SetDefault("thousands_separator", "")
	v.SetDefault("precision", 4)
	v.SetDefault("default_tolerance_percent", 10.0)
	v.SetDefault("default_tolerance_sigma", 2.0)
	v.SetDefault("output_dir", "")
	v.SetDefault("chart_width", 1024)
	v.SetDefault("chart_height", 600)
	v.SetDefault("log_level", "info")
}

// Defaults returns the built-in configuration.
func Defaults() *Global {
	v := viper.New()
	setDefaults(v)
	var c Global
	_ = v.Unmarshal(&c)
	return &c
}

// DefaultPath is ~/.geoqaqc/config.yaml.
func DefaultPath() (string, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("resolve home dir: %w", err)
	}
	return filepath.Join(home, ".geoqaqc", "config.yaml"), nil
}

// Save writes the given configuration to the cfgFile path. If cfgFile is empty,
// it writes to ~/.geoqaqc/config.yaml, creating the directory if necessary.
func Save(c *Global, cfgFile string) error {
	path := cfgFile
	if path == "" {
		p, err := DefaultPath()
		if err != nil {
			return err
		}
		path = p
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("mkdir config dir: %w", err)
	}
	b, err := yaml.Marshal(c)
	if err != nil {
		return fmt.Errorf("marshal yaml: %w", err)
	}
	if err := os.WriteFile(path, b, 0o644); err != nil {
		return fmt.Errorf("write config: %w", err)
	}
	return nil
}

// Load loads configuration from file, env, and defaults.
// Precedence: env > config file > defaults. A .env file in the working
// directory is loaded first when present.
func Load(cfgFile string) (*Global, error) {
	if err := godotenv.Load(); err == nil {
		logger.Debugf("loaded .env")
	}
	v := viper.New()
	v.SetEnvPrefix(EnvPrefix)
	v.AutomaticEnv()
	setDefaults(v)

	if cfgFile != "" {
		v.SetConfigFile(cfgFile)
	} else {
		home, err := os.UserHomeDir()
		if err != nil {
			return nil, fmt.Errorf("resolve home dir: %w", err)
		}
		v.AddConfigPath(filepath.Join(home, ".geoqaqc"))
		v.SetConfigName("config")
		v.SetConfigType("yaml")
	}
	// a missing file is fine; a broken explicit one is not
	if err := v.ReadInConfig(); err != nil && cfgFile != "" && fileExists(cfgFile) {
		return nil, fmt.Errorf("read config: %w", err)
	}

	var c Global
	if err := v.Unmarshal(&c); err != nil {
		return nil, fmt.Errorf("unmarshal config: %w", err)
	}
	if err := c.Validate(); err != nil {
		return nil, err
	}
	return &c, nil
}

// Validate checks values that cannot be caught by type decoding.
func (c *Global) Validate() error {
	if _, err := c.DatasetOptions(); err != nil {
		return err
	}
	if c.Precision < 0 || c.Precision > 12 {
		return fmt.Errorf("precision must be between 0 and 12, got %d", c.Precision)
	}
	if c.DefaultTolerancePercent < 0 || c.DefaultToleranceSigma < 0 {
		return fmt.Errorf("default tolerances must be non-negative")
	}
	if c.ChartWidth < 0 || c.ChartHeight < 0 {
		return fmt.Errorf("chart size must be non-negative")
	}
	if _, err := logger.ParseLevel(c.LogLevel); err != nil {
		return err
	}
	return nil
}

// DatasetOptions converts the separator settings into loader options.
func (c *Global) DatasetOptions() (dataset.Options, error) {
	delim, err := dataset.ParseDelimiter(c.Delimiter)
	if err != nil {
		return dataset.Options{}, err
	}
	dec, err := ParseSeparator(c.DecimalSeparator)
	if err != nil {
		return dataset.Options{}, fmt.Errorf("decimal_separator: %w", err)
	}
	thou, err := ParseSeparator(c.ThousandsSeparator)
	if err != nil {
		return dataset.Options{}, fmt.Errorf("thousands_separator: %w", err)
	}
	if dec != 0 && dec == thou {
		return dataset.Options{}, fmt.Errorf("decimal and thousands separators must differ")
	}
	return dataset.Options{Delimiter: delim, DecimalSeparator: dec, ThousandsSeparator: thou}, nil
}

// ParseSeparator reads a single-character separator. "", "auto" and "none"
// map to 0; "space" maps to ' '.
func ParseSeparator(s string) (rune, error) {
	switch s {
	case "", "auto", "none":
		return 0, nil
	case "space", " ":
		return ' ', nil
	case ".", ",", "'", "_":
		return rune(s[0]), nil
	}
	return 0, fmt.Errorf("unsupported separator %q (use '.', ',', ' ', \"'\" or none)", s)
}

// Set assigns a value to the named key after validating it.
func (c *Global) Set(key, val string) error {
	next := *c
	switch key {
	case "delimiter":
		next.Delimiter = val
	case "decimal_separator":
		next.DecimalSeparator = val
	case "thousands_separator":
		next.ThousandsSeparator = val
	case "precision":
		i, err := strconv.Atoi(val)
		if err != nil {
			return fmt.Errorf("invalid int for precision: %w", err)
		}
		next.Precision = i
	case "default_tolerance_percent":
		f, err := strconv.ParseFloat(val, 64)
		if err != nil {
			return fmt.Errorf("invalid float for default_tolerance_percent: %w", err)
		}
		next.DefaultTolerancePercent = f
	case "default_tolerance_sigma":
		f, err := strconv.ParseFloat(val, 64)
		if err != nil {
			return fmt.Errorf("invalid float for default_tolerance_sigma: %w", err)
		}
		next.DefaultToleranceSigma = f
	case "output_dir":
		next.OutputDir = val
	case "chart_width", "chart_height":
		i, err := strconv.Atoi(val)
		if err != nil {
			return fmt.Errorf("invalid int for %s: %w", key, err)
		}
		if key == "chart_width" {
			next.ChartWidth = i
		} else {
			next.ChartHeight = i
		}
	case "log_level":
		next.LogLevel = val
	default:
		return fmt.Errorf("unknown key: %s (known: %v)", key, sortedKeys())
	}
	if err := next.Validate(); err != nil {
		return err
	}
	*c = next
	return nil
}

// Map returns the configuration as key/value strings for display.
func (c *Global) Map() map[string]string {
	return map[string]string{
		"delimiter":                 c.Delimiter,
		"decimal_separator":         c.DecimalSeparator,
		"thousands_separator":       c.ThousandsSeparator,
		"precision":                 strconv.Itoa(c.Precision),
		"default_tolerance_percent": strconv.FormatFloat(c.DefaultTolerancePercent, 'g', -1, 64),
		"default_tolerance_sigma":   strconv.FormatFloat(c.DefaultToleranceSigma, 'g', -1, 64),
		"output_dir":                c.OutputDir,
		"chart_width":               strconv.Itoa(c.ChartWidth),
		"chart_height":              strconv.Itoa(c.ChartHeight),
		"log_level":                 c.LogLevel,
	}
}

func sortedKeys() []string {
	out := append([]string(nil), Keys...)
	sort.Strings(out)
	return out
}

func fileExists(p string) bool {
	_, err := os.Stat(p)
	return err == nil
}
