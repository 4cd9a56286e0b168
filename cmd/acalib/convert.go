package main

import (
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/robert-malhotra/go-acalib/fits"
)

var convertCmd = &cobra.Command{
	Use:   "convert IN OUT",
	Short: "Load a FITS file and write it back as SCI/TAB extensions",
	Long: "convert loads IN into the data model (calibrating and collapsing the " +
		"polarization axis of 4D cubes) and saves the result to OUT. " +
		"Paths ending in .gz are read and written gzip-compressed.",
	Args: cobra.ExactArgs(2),
	RunE: runConvert,
}

func init() {
	convertCmd.Flags().Bool("skip-primary-image", false, "do not repeat the primary image as a SCI extension")
	_ = viper.BindPFlag("skip_primary_image", convertCmd.Flags().Lookup("skip-primary-image"))

	rootCmd.AddCommand(convertCmd)
}

func runConvert(cmd *cobra.Command, args []string) error {
	opts, err := fitsOptions(cfg, logger)
	if err != nil {
		return err
	}

	in, out := args[0], args[1]
	c, err := fits.Load(in, opts...)
	if err != nil {
		return err
	}
	if err := fits.Save(out, c, opts...); err != nil {
		return err
	}
	logger.Info("converted", "in", in, "out", out, "images", len(c.Images), "tables", len(c.Tables))
	return nil
}
