package metrics

import (
	"sort"

	"github.com/example/mhsurvey/pkg/models"
)

// PrevalenceSpec describes a condition question. Multi-answer questions store
// one row per reported condition.
type PrevalenceSpec struct {
	QuestionID      int
	Classifier      Classifier
	Missing         Missing
	ConfidenceLevel float64
}

// Prevalence computes, per condition, the share of respondents who reported
// it among respondents who gave any non-missing answer to the question.
func Prevalence(rows []models.SurveyResponse, spec PrevalenceSpec) []models.PrevalenceRow {
	classifier := spec.Classifier
	if classifier == nil {
		classifier = IdentityClassifier{Missing: spec.Missing}
	}
	level := spec.ConfidenceLevel
	if level <= 0 || level >= 1 {
		level = 0.95
	}

	respondents := make(map[models.RespondentKey]bool)
	reported := make(map[string]map[models.RespondentKey]bool)
	for _, row := range rows {
		if row.QuestionID != spec.QuestionID || spec.Missing.Is(row.AnswerText) {
			continue
		}
		key := row.Respondent()
		respondents[key] = true

		condition := classifier.Classify(row.AnswerText)
		if reported[condition] == nil {
			reported[condition] = make(map[models.RespondentKey]bool)
		}
		reported[condition][key] = true
	}

	total := len(respondents)
	result := make([]models.PrevalenceRow, 0, len(reported))
	for condition, who := range reported {
		rate := ratio(len(who), total)
		lower, upper := ConfidenceInterval(rate, total, level)
		result = append(result, models.PrevalenceRow{
			Condition:   condition,
			Respondents: len(who),
			Total:       total,
			Rate:        rate,
			CILower:     lower,
			CIUpper:     upper,
		})
	}

	sort.Slice(result, func(i, j int) bool {
		if result[i].Respondents != result[j].Respondents {
			return result[i].Respondents > result[j].Respondents
		}
		return result[i].Condition < result[j].Condition
	})
	return result
}
