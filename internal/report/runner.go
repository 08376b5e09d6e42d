package report

import (
	"context"
	"fmt"
	"io"
	"path/filepath"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
	"go.uber.org/zap"

	"github.com/example/mhsurvey/internal/config"
	"github.com/example/mhsurvey/internal/database"
	"github.com/example/mhsurvey/internal/export"
	"github.com/example/mhsurvey/internal/metrics"
	"github.com/example/mhsurvey/pkg/models"
)

// Runner builds the flat table from the store and produces reports. The store
// is opened for each call so a replaced snapshot file is picked up.
type Runner struct {
	cfg     *config.Config
	logger  *zap.Logger
	console *export.Console
	now     func() time.Time
}

// NewRunner creates a runner. Console output goes to out.
func NewRunner(cfg *config.Config, logger *zap.Logger, out io.Writer) *Runner {
	return &Runner{
		cfg:     cfg,
		logger:  logger,
		console: export.NewConsole(out),
		now:     time.Now,
	}
}

// Run builds the dataset, runs every configured analysis and writes the
// configured outputs
func (r *Runner) Run(ctx context.Context) (*models.Report, error) {
	runID := uuid.NewString()
	log := r.logger.With(zap.String("run_id", runID))
	start := r.now()

	var (
		rows    []models.SurveyResponse
		orphans int
		surveys []models.Survey
	)
	err := r.withStore(ctx, func(db *sqlx.DB) error {
		responses := database.NewResponseRepository(db)

		var err error
		if rows, err = responses.BuildDataset(ctx, r.filter()); err != nil {
			return err
		}
		if orphans, err = responses.Orphans(ctx); err != nil {
			return err
		}
		surveys, err = database.NewCatalogRepository(db).Surveys(ctx)
		return err
	})
	if err != nil {
		return nil, err
	}
	if orphans > 0 {
		log.Warn("answers reference a missing survey or question", zap.Int("orphans", orphans))
	}
	log.Info("dataset built", zap.Int("rows", len(rows)), zap.Int("surveys", len(surveys)))

	report := Analyze(rows, r.cfg.Analysis)
	report.RunID = runID
	report.GeneratedAt = start.UTC()
	report.Source = sourceLabel(r.cfg.Source)
	report.Orphans = orphans
	report.Surveys = surveys
	if r.cfg.HasFormat(FormatDataset) {
		report.Dataset = rows
	}

	if err := r.writeOutputs(report); err != nil {
		return nil, err
	}
	log.Info("report finished",
		zap.Int("summaries", len(report.Summaries)),
		zap.Int("crosstabs", len(report.CrossTabs)),
		zap.Int("prevalence", len(report.Prevalence)),
		zap.Int("counts", len(report.Counts)),
		zap.Strings("artifacts", report.Artifacts))
	return report, nil
}

// Dataset builds the flat table restricted to the configured years
func (r *Runner) Dataset(ctx context.Context) ([]models.SurveyResponse, error) {
	var rows []models.SurveyResponse
	err := r.withStore(ctx, func(db *sqlx.DB) error {
		var err error
		rows, err = database.NewResponseRepository(db).BuildDataset(ctx, r.filter())
		return err
	})
	return rows, err
}

// Count tallies the answers to one question and renders them
func (r *Runner) Count(ctx context.Context, questionID, maxDisplay int) (models.ValueCounts, error) {
	var rows []models.SurveyResponse
	err := r.withStore(ctx, func(db *sqlx.DB) error {
		filter := r.filter()
		filter.QuestionIDs = []int{questionID}

		var err error
		rows, err = database.NewResponseRepository(db).BuildDataset(ctx, filter)
		return err
	})
	if err != nil {
		return models.ValueCounts{}, err
	}

	missing := metrics.Missing{Sentinel: r.cfg.Analysis.MissingValue, Label: r.cfg.Analysis.UnknownLabel}
	counts := metrics.CountValues(rows, questionID, missing)

	name := fmt.Sprintf("Question %d", questionID)
	if len(rows) > 0 {
		name = rows[len(rows)-1].QuestionText
	}
	r.console.Counts(name, counts, maxDisplay)
	return counts, nil
}

// Questions lists the question catalog with one wording per id, configured
// aliases applied, and renders it
func (r *Runner) Questions(ctx context.Context) ([]models.Question, error) {
	var (
		rows   []models.SurveyResponse
		listed []models.Question
	)
	err := r.withStore(ctx, func(db *sqlx.DB) error {
		var err error
		if rows, err = database.NewResponseRepository(db).BuildDataset(ctx, database.Filter{}); err != nil {
			return err
		}
		listed, err = database.NewCatalogRepository(db).Questions(ctx)
		return err
	})
	if err != nil {
		return nil, err
	}

	catalog := metrics.NewQuestionCatalog(rows, r.cfg.Analysis.Aliases)
	catalog.Merge(listed)
	questions := catalog.Questions()

	r.console.Questions(questions)
	return questions, nil
}

// withStore opens the store read-only, checks its schema and hands it to fn
func (r *Runner) withStore(ctx context.Context, fn func(db *sqlx.DB) error) error {
	db, err := database.Open(ctx, r.cfg.Source)
	if err != nil {
		return err
	}
	defer db.Close()

	if err := database.CheckSchema(ctx, db); err != nil {
		return err
	}
	return fn(db)
}

func (r *Runner) filter() database.Filter {
	return database.Filter{Years: r.cfg.Analysis.Years}
}

// sourceLabel names the store without leaking connection credentials
func sourceLabel(src config.SourceConfig) string {
	if src.Driver == "postgres" {
		return src.Driver
	}
	return src.Driver + ":" + filepath.Base(src.DSN)
}
