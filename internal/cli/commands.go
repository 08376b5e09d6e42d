package cli

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/dustin/go-humanize"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/example/mhsurvey/internal/config"
	"github.com/example/mhsurvey/internal/report"
	"github.com/example/mhsurvey/internal/scheduler"
)

func (a *app) datasetCommand() *cobra.Command {
	var out string

	cmd := &cobra.Command{
		Use:   "dataset",
		Short: "Export the flat survey table",
		Long: `Joins Survey, Question and Answer into one row per answer and writes it as
CSV, or as a workbook when the output file ends in .xlsx.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			rows, err := a.runner(cmd).Dataset(cmd.Context())
			if err != nil {
				return err
			}

			path := out
			if path == "" {
				path = filepath.Join(a.cfg.Output.Dir, report.DatasetFile)
			}
			if dir := filepath.Dir(path); dir != "" {
				if err := mkdir(dir); err != nil {
					return err
				}
			}
			if err := report.WriteDataset(path, rows); err != nil {
				return err
			}

			a.logger.Info("dataset exported", zap.String("path", path), zap.Int("rows", len(rows)))
			fmt.Fprintf(cmd.OutOrStdout(), "Wrote %s rows to %s\n", humanize.Comma(int64(len(rows))), path)
			return nil
		},
	}
	cmd.Flags().StringVarP(&out, "out", "o", "", "output file (.csv or .xlsx), defaults to dataset.csv in the output dir")
	return cmd
}

func (a *app) summaryCommand() *cobra.Command {
	var publish bool

	cmd := &cobra.Command{
		Use:   "summary",
		Short: "Run the configured analyses once",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			var notifier scheduler.Notifier
			if publish {
				var err error
				if notifier, err = a.notifier(); err != nil {
					return err
				}
				if notifier == nil {
					a.logger.Warn("telegram is not configured, report will not be published")
				}
			}

			s := scheduler.New(a.runner(cmd), notifier, time.Hour, a.logger)
			r, err := s.RunOnce(cmd.Context())
			if err != nil {
				return err
			}
			for _, artifact := range r.Artifacts {
				fmt.Fprintf(cmd.OutOrStdout(), "Wrote %s\n", artifact)
			}
			return nil
		},
	}
	cmd.Flags().BoolVar(&publish, "publish", false, "send the report to the configured Telegram chat")
	return cmd
}

func (a *app) countCommand() *cobra.Command {
	var (
		question   int
		maxDisplay int
	)

	cmd := &cobra.Command{
		Use:   "count",
		Short: "Show the distinct answers to one question",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			limit := maxDisplay
			if !cmd.Flags().Changed("max-display") {
				limit = a.cfg.Analysis.MaxDisplay
			}
			_, err := a.runner(cmd).Count(cmd.Context(), question, limit)
			return err
		},
	}
	cmd.Flags().IntVarP(&question, "question", "q", 0, "question id")
	cmd.Flags().IntVar(&maxDisplay, "max-display", 5, "number of values to show, 0 for all")
	_ = cmd.MarkFlagRequired("question")
	return cmd
}

func (a *app) questionsCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "questions",
		Short: "List the question catalog",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			_, err := a.runner(cmd).Questions(cmd.Context())
			return err
		},
	}
}

func (a *app) scheduleCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "schedule",
		Short: "Rerun the report on the configured interval until interrupted",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			interval, err := a.cfg.ScheduleInterval()
			if err != nil {
				return err
			}
			notifier, err := a.notifier()
			if err != nil {
				return err
			}

			s := scheduler.New(a.runner(cmd), notifier, interval, a.logger)
			if err := s.Start(cmd.Context()); err != nil {
				return err
			}
			<-cmd.Context().Done()
			s.Stop()
			return nil
		},
	}
}

func (a *app) initCommand() *cobra.Command {
	var force bool

	cmd := &cobra.Command{
		Use:   "init",
		Short: "Write a default config file",
		Long: `Writes the default configuration to the --config path. The --db and --driver
flags are written into the source section. Existing files are kept unless
--force is given.`,
		Args: cobra.NoArgs,
		// A broken config file must not stop it from being regenerated
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error { return nil },
		RunE: func(cmd *cobra.Command, args []string) error {
			if _, err := os.Stat(a.configPath); err == nil && !force {
				return fmt.Errorf("config %s already exists, use --force to overwrite", a.configPath)
			}

			cfg := config.DefaultConfig()
			if a.db != "" {
				cfg.Source.DSN = a.db
			}
			if a.driver != "" {
				cfg.Source.Driver = a.driver
			}
			if err := cfg.Validate(); err != nil {
				return err
			}
			if err := cfg.Save(a.configPath); err != nil {
				return err
			}

			fmt.Fprintf(cmd.OutOrStdout(), "Wrote %s\n", a.configPath)
			return nil
		},
	}
	cmd.Flags().BoolVar(&force, "force", false, "overwrite an existing config file")
	return cmd
}

func mkdir(dir string) error {
	if err := os.MkdirAll(dir, 0755); err != nil {
		return fmt.Errorf("failed to create output directory: %w", err)
	}
	return nil
}
