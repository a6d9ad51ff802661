package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	cfgpkg "github.com/KaramelBytes/geoqaqc-cli/internal/config"
	"github.com/KaramelBytes/geoqaqc-cli/internal/logger"
)

var (
	// Global flags
	cfgFile string
	debug   bool

	// Loaded configuration
	cfg *cfgpkg.Global
)

var rootCmd = &cobra.Command{
	Use:   "geoqaqc",
	Short: "GeoQAQC: quality-control statistics for geochemical assay data",
	Long: `GeoQAQC checks laboratory assay tables against certified reference materials,
blanks and duplicate pairs, and exports the annotated results with summary
statistics and control charts.`,
	SilenceUsage:  true,
	SilenceErrors: true,
}

// Execute is the entry point called by main.main()
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "✗ Error:", err)
		os.Exit(1)
	}
}

func init() {
	cobra.OnInitialize(loadConfig)
	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "config file (default is ~/.geoqaqc/config.yaml)")
	rootCmd.PersistentFlags().BoolVar(&debug, "debug", false, "enable debug output")
}

func loadConfig() {
	c, err := cfgpkg.Load(cfgFile)
	if err != nil {
		// Non-fatal: fall back to built-in defaults
		fmt.Fprintf(rootCmd.ErrOrStderr(), "⚠ Warning: failed to load config: %v\n", err)
		c = cfgpkg.Defaults()
	}
	cfg = c

	level, err := logger.ParseLevel(cfg.LogLevel)
	if err != nil {
		level = logger.LevelInfo
	}
	if debug {
		level = logger.LevelDebug
	}
	logger.SetLevel(level)
	logger.SetOutput(rootCmd.ErrOrStderr())
	logger.Debugf("config loaded (delimiter=%q decimal=%q precision=%d)", cfg.Delimiter, cfg.DecimalSeparator, cfg.Precision)
}

func currentConfig() *cfgpkg.Global {
	if cfg == nil {
		cfg = cfgpkg.Defaults()
	}
	return cfg
}
