// Package cli wires the survey tooling into a cobra command tree.
package cli

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/example/mhsurvey/internal/bot"
	"github.com/example/mhsurvey/internal/config"
	"github.com/example/mhsurvey/internal/logging"
	"github.com/example/mhsurvey/internal/report"
	"github.com/example/mhsurvey/internal/scheduler"
)

// app holds the global flags and what PersistentPreRunE builds from them
type app struct {
	configPath string
	envFile    string
	db         string
	driver     string
	verbose    bool

	cfg    *config.Config
	logger *zap.Logger
}

// Execute runs the command line until it finishes or the process receives
// SIGINT or SIGTERM
func Execute() error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := NewRootCommand().ExecuteContext(ctx); err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		return err
	}
	return nil
}

// NewRootCommand builds the command tree
func NewRootCommand() *cobra.Command {
	a := &app{}

	root := &cobra.Command{
		Use:   "mhsurvey",
		Short: "Build and summarize the mental health in tech survey dataset",
		Long: `mhsurvey joins the Survey, Question and Answer tables of the mental health
survey database into one flat table and computes descriptive statistics over it.

Configuration is read from a YAML file, then environment variables (a .env file
is loaded first), then command line flags.`,
		SilenceUsage:      true,
		SilenceErrors:     true,
		PersistentPreRunE: a.setup,
		PersistentPostRun: func(cmd *cobra.Command, args []string) {
			if a.logger != nil {
				_ = a.logger.Sync()
			}
		},
	}

	flags := root.PersistentFlags()
	flags.StringVar(&a.configPath, "config", "mhsurvey.yaml", "path to the YAML config file")
	flags.StringVar(&a.envFile, "env-file", ".env", "path to a .env file")
	flags.StringVar(&a.db, "db", "", "survey store DSN or SQLite file (overrides config)")
	flags.StringVar(&a.driver, "driver", "", "database driver: sqlite3, sqlite or postgres (overrides config)")
	flags.BoolVarP(&a.verbose, "verbose", "v", false, "enable debug logging")

	root.AddCommand(
		a.datasetCommand(),
		a.summaryCommand(),
		a.countCommand(),
		a.questionsCommand(),
		a.scheduleCommand(),
		a.initCommand(),
	)
	return root
}

// setup loads configuration and builds the logger
func (a *app) setup(cmd *cobra.Command, args []string) error {
	if err := config.LoadEnvFile(a.envFile); err != nil {
		return err
	}

	cfg, err := config.Load(a.configPath)
	if err != nil {
		return err
	}
	if a.db != "" {
		cfg.Source.DSN = a.db
	}
	if a.driver != "" {
		cfg.Source.Driver = a.driver
	}
	if err := cfg.Validate(); err != nil {
		return err
	}
	a.cfg = cfg

	a.logger, err = logging.New(cfg.Logging.Level, cfg.Logging.Development, a.verbose)
	if err != nil {
		return err
	}
	a.logger.Debug("configuration loaded",
		zap.String("config", a.configPath),
		zap.String("driver", cfg.Source.Driver),
		zap.Strings("formats", cfg.Output.Formats))
	return nil
}

func (a *app) runner(cmd *cobra.Command) *report.Runner {
	return report.NewRunner(a.cfg, a.logger, cmd.OutOrStdout())
}

// notifier returns the Telegram publisher, or nil when delivery is not configured
func (a *app) notifier() (scheduler.Notifier, error) {
	if !a.cfg.TelegramEnabled() {
		return nil, nil
	}
	p, err := bot.New(a.cfg.Telegram.Token, bot.DefaultConfig(a.cfg.Telegram.ChatID), a.logger)
	if err != nil {
		return nil, err
	}
	return p, nil
}
