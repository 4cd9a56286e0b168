package main

import (
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/robert-malhotra/go-acalib/fits"
	"github.com/robert-malhotra/go-acalib/internal/report"
)

var infoCmd = &cobra.Command{
	Use:   "info FILE...",
	Short: "Summarize the images and tables of FITS files",
	Args:  cobra.MinimumNArgs(1),
	RunE:  runInfo,
}

func init() {
	infoCmd.Flags().StringP("format", "f", "", "output format: text, json, yaml, toml")
	_ = viper.BindPFlag("format", infoCmd.Flags().Lookup("format"))

	rootCmd.AddCommand(infoCmd)
}

func runInfo(cmd *cobra.Command, args []string) error {
	opts, err := fitsOptions(cfg, logger)
	if err != nil {
		return err
	}

	reports := make([]report.Report, 0, len(args))
	for _, path := range args {
		c, err := fits.Load(path, opts...)
		if err != nil {
			return err
		}
		reports = append(reports, report.New(path, c))
	}
	return report.Write(cmd.OutOrStdout(), cfg.Format, reports...)
}
