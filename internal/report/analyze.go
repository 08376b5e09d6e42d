// Package report runs the configured analyses over the survey store and
// writes their outputs.
package report

import (
	"sort"

	"github.com/example/mhsurvey/internal/config"
	"github.com/example/mhsurvey/internal/metrics"
	"github.com/example/mhsurvey/pkg/models"
)

// Analyze runs every analysis named in cfg over the flat table. An empty table
// yields empty, non-nil result tables.
func Analyze(rows []models.SurveyResponse, cfg config.AnalysisConfig) *models.Report {
	missing := metrics.Missing{Sentinel: cfg.MissingValue, Label: cfg.UnknownLabel}
	catalog := metrics.NewQuestionCatalog(rows, cfg.Aliases)

	r := &models.Report{
		Rows:       len(rows),
		Summaries:  make([]models.SummaryTable, 0, len(cfg.Summaries)),
		CrossTabs:  make([]models.CrossTabTable, 0, len(cfg.CrossTabs)),
		Prevalence: make([]models.PrevalenceTable, 0, len(cfg.Prevalence)),
		Counts:     make([]models.CountTable, 0, len(cfg.Counts)),
	}

	for _, s := range cfg.Summaries {
		groups := metrics.Summarize(rows, metrics.GroupSpec{
			QuestionIDs: s.QuestionIDs,
			ByYear:      s.ByYear,
			Classifier:  metrics.ClassifierFor(s.Mapping, cfg.OtherLabel, missing),
			Catalog:     catalog,
			Categories:  categories(s.Mapping),
		})
		r.Summaries = append(r.Summaries, models.SummaryTable{Name: s.Name, Groups: groups})
	}

	for _, x := range cfg.CrossTabs {
		tab := metrics.CrossTabulate(rows, metrics.CrossSpec{
			RowQuestion:    x.RowQuestion,
			ColumnQuestion: x.ColumnQuestion,
			RowClassifier:  metrics.ClassifierFor(x.RowMapping, cfg.OtherLabel, missing),
			ColClassifier:  metrics.ClassifierFor(x.ColumnMapping, cfg.OtherLabel, missing),
			Missing:        missing,
		})
		r.CrossTabs = append(r.CrossTabs, models.CrossTabTable{Name: x.Name, Table: tab})
	}

	for _, p := range cfg.Prevalence {
		prevalence := metrics.Prevalence(rows, metrics.PrevalenceSpec{
			QuestionID:      p.QuestionID,
			Classifier:      metrics.ClassifierFor(p.Mapping, cfg.OtherLabel, missing),
			Missing:         missing,
			ConfidenceLevel: cfg.ConfidenceLevel,
		})
		r.Prevalence = append(r.Prevalence, models.PrevalenceTable{
			Name:            p.Name,
			QuestionID:      p.QuestionID,
			ConfidenceLevel: cfg.ConfidenceLevel,
			Rows:            prevalence,
		})
	}

	for _, c := range cfg.Counts {
		r.Counts = append(r.Counts, models.CountTable{
			Name:   c.Name,
			Counts: metrics.CountValues(rows, c.QuestionID, missing),
		})
	}

	return r
}

// categories lists the distinct targets of a mapping so unobserved
// categories still show up with a zero count
func categories(mapping map[string]string) []string {
	seen := make(map[string]bool, len(mapping))
	var result []string
	for _, category := range mapping {
		if !seen[category] {
			seen[category] = true
			result = append(result, category)
		}
	}
	sort.Strings(result)
	return result
}
