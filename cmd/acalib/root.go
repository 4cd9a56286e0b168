package main

import (
	"fmt"
	"log/slog"
	"os"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/robert-malhotra/go-acalib/fits"
	"github.com/robert-malhotra/go-acalib/internal/config"
	"github.com/robert-malhotra/go-acalib/internal/logging"
	"github.com/robert-malhotra/go-acalib/units"
)

var rootCmd = &cobra.Command{
	Use:   "acalib",
	Short: "Load, inspect and write FITS data cubes",
	Long: "acalib converts FITS files into calibrated N-dimensional datasets and tables, " +
		"summarizes them, and writes them back as multi-extension FITS.",
	SilenceUsage:       true,
	PersistentPreRunE:  setup,
	PersistentPostRunE: teardown,
}

// Shared state set up before every subcommand.
var (
	cfg      config.Config
	logger   = slog.Default()
	closeLog = func() {}
)

// Execute runs the root command and exits non-zero on failure.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func init() {
	cobra.OnInitialize(initConfig)

	pf := rootCmd.PersistentFlags()
	pf.String("config", "", "config file (default .acalib.yaml)")
	pf.String("log-level", "", "log level: debug, info, warn, error")
	pf.String("log-format", "", "log format: text or json")
	pf.String("seq-url", "", "also ship logs to this Seq server")
	pf.String("collapse", "", "how to collapse the polarization axis: sum or mean")
	pf.String("default-unit", "", "unit for images without BUNIT")

	_ = viper.BindPFlag("log_level", pf.Lookup("log-level"))
	_ = viper.BindPFlag("log_format", pf.Lookup("log-format"))
	_ = viper.BindPFlag("seq_url", pf.Lookup("seq-url"))
	_ = viper.BindPFlag("collapse", pf.Lookup("collapse"))
	_ = viper.BindPFlag("default_unit", pf.Lookup("default-unit"))
}

func initConfig() {
	if cfgFile, _ := rootCmd.Flags().GetString("config"); cfgFile != "" {
		viper.SetConfigFile(cfgFile)
	} else {
		viper.SetConfigName(".acalib")
		viper.SetConfigType("yaml")
		viper.AddConfigPath(".")
		home, err := os.UserHomeDir()
		if err == nil {
			viper.AddConfigPath(home)
		}
	}

	viper.SetEnvPrefix("ACALIB")
	viper.AutomaticEnv()

	// It's fine if no config file is found; we use defaults.
	_ = viper.ReadInConfig()
}

func setup(cmd *cobra.Command, args []string) error {
	var err error
	if cfg, err = config.Load(); err != nil {
		return err
	}

	l, cleanup, err := logging.New(os.Stderr, logging.Options{
		Level:  cfg.LogLevel,
		Format: cfg.LogFormat,
		SeqURL: cfg.SeqURL,
	})
	if err != nil {
		return err
	}
	logger, closeLog = l, cleanup
	slog.SetDefault(logger)
	return nil
}

func teardown(cmd *cobra.Command, args []string) error {
	closeLog()
	return nil
}

// fitsOptions translates the configuration into converter options.
func fitsOptions(c config.Config, l *slog.Logger) ([]fits.Option, error) {
	policy, err := fits.ParseCollapsePolicy(c.Collapse)
	if err != nil {
		return nil, err
	}
	opts := []fits.Option{fits.WithLogger(l), fits.WithCollapse(policy)}

	if c.DefaultUnit != "" {
		u, err := units.Parse(c.DefaultUnit)
		if err != nil {
			return nil, fmt.Errorf("default unit: %w", err)
		}
		opts = append(opts, fits.WithDefaultUnit(u))
	}
	if c.SkipPrimaryImage {
		opts = append(opts, fits.WithSkipPrimaryImage())
	}
	return opts, nil
}
