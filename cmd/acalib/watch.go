package main

import (
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/robert-malhotra/go-acalib/fits"
	"github.com/robert-malhotra/go-acalib/internal/report"
	"github.com/robert-malhotra/go-acalib/internal/watch"
)

var watchCmd = &cobra.Command{
	Use:   "watch DIR",
	Short: "Summarize FITS files as they appear in a directory",
	Args:  cobra.ExactArgs(1),
	RunE:  runWatch,
}

func init() {
	watchCmd.Flags().Duration("debounce", watch.DefaultDebounce, "quiet period before a new file is read")

	rootCmd.AddCommand(watchCmd)
}

func runWatch(cmd *cobra.Command, args []string) error {
	opts, err := fitsOptions(cfg, logger)
	if err != nil {
		return err
	}

	w, err := watch.New(args[0])
	if err != nil {
		return err
	}
	w.Debounce, _ = cmd.Flags().GetDuration("debounce")
	if err := w.Start(); err != nil {
		return err
	}
	defer w.Stop()
	logger.Info("watching", "dir", args[0])

	sig := make(chan os.Signal, 1)
	signal.Notify(sig, os.Interrupt, syscall.SIGTERM)
	defer signal.Stop(sig)

	for {
		select {
		case <-sig:
			return nil
		case err := <-w.Errors:
			logger.Warn("watch error", "error", err)
		case path := <-w.Files:
			c, err := fits.Load(path, opts...)
			if err != nil {
				logger.Error("loading file", "path", path, "error", err)
				continue
			}
			if err := report.Write(cmd.OutOrStdout(), cfg.Format, report.New(path, c)); err != nil {
				return err
			}
		}
	}
}
