package main

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"geotab-reformatter/internal/config"
	"geotab-reformatter/internal/models"
	"geotab-reformatter/internal/service"
	"geotab-reformatter/internal/utils"
)

type options struct {
	exceptions string
	trips      string
	out        string
	verbose    bool
}

func main() {
	if err := newRootCommand().Execute(); err != nil {
		os.Exit(1)
	}
}

func newRootCommand() *cobra.Command {
	opts := &options{}

	cmd := &cobra.Command{
		Use:   "reformat",
		Short: "Reformat Geotab exceptions and trips exports into one processed workbook",
		Long: "Reads the Data sheet of an exceptions export and a trips export, validates their layout\n" +
			"and writes the Trip Details, Speedings and Eco Driving worksheets to a new workbook.",
		SilenceUsage: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			if opts.out == "" {
				cfg, err := config.Load()
				if err != nil {
					return err
				}
				opts.out = cfg.ReportFileName
			}
			return run(cmd.Context(), opts, cmd.OutOrStdout())
		},
	}

	cmd.Flags().StringVar(&opts.exceptions, "exceptions", "", "exceptions report (.xlsx or .xls)")
	cmd.Flags().StringVar(&opts.trips, "trips", "", "trips report (.xlsx or .xls)")
	cmd.Flags().StringVarP(&opts.out, "out", "o", "", "output workbook (default REPORT_FILENAME)")
	cmd.Flags().BoolVarP(&opts.verbose, "verbose", "v", false, "log pipeline progress to stderr")
	_ = cmd.MarkFlagRequired("exceptions")
	_ = cmd.MarkFlagRequired("trips")

	return cmd
}

func run(ctx context.Context, opts *options, stdout io.Writer) error {
	logger := utils.NewDiscardLogger()
	if opts.verbose {
		logger = utils.GetLogger()
		logger.SetOutput(os.Stderr)
	}

	engine := service.NewReportEngine(service.NewExcelService(logger), logger)

	exceptions, err := ingestFile(ctx, engine, models.KindExceptions, opts.exceptions)
	if err != nil {
		return err
	}
	trips, err := ingestFile(ctx, engine, models.KindTrips, opts.trips)
	if err != nil {
		return err
	}

	report, err := engine.Generate(exceptions, trips)
	if err != nil {
		return fmt.Errorf("%s: %w", service.UserMessage(err, service.StageGenerate), err)
	}
	if err := engine.SaveReport(opts.out, report); err != nil {
		return fmt.Errorf("%s: %w", service.UserMessage(err, service.StageGenerate), err)
	}

	logger.WithFields(logrus.Fields{
		"out":          opts.out,
		"unrecognized": report.Unrecognized,
		"malformed":    report.Malformed,
	}).Info("Report written")

	fmt.Fprintf(stdout, "Wrote %s (exceptions %s to %s, %d rows; trips %s to %s, %d rows)\n",
		opts.out,
		exceptions.MinDate, exceptions.MaxDate, exceptions.NumData,
		trips.MinDate, trips.MaxDate, trips.NumData)
	return nil
}

func ingestFile(ctx context.Context, engine *service.ReportEngine, kind models.ReportKind, path string) (*models.FileInfo, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("%s report: %w", kind, err)
	}
	defer f.Close()

	data, err := service.ReadUpload(ctx, f, 0)
	if err != nil {
		return nil, fmt.Errorf("%s report: %s: %w", kind, service.UserMessage(err, service.StageUpload), err)
	}

	info, err := engine.Ingest(kind, filepath.Base(path), data)
	if err != nil {
		return nil, fmt.Errorf("%s report: %s: %w", kind, service.UserMessage(err, service.StageUpload), err)
	}
	return info, nil
}
