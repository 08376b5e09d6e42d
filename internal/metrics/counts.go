package metrics

import (
	"sort"
	"strings"

	"github.com/example/mhsurvey/pkg/models"
)

// CountValues tallies the distinct answers to one question. Missing answers
// are tallied under the missing label and also reported in Missing.
func CountValues(rows []models.SurveyResponse, questionID int, missing Missing) models.ValueCounts {
	counts := make(map[string]int)
	result := models.ValueCounts{QuestionID: questionID, Values: []models.ValueCount{}}

	for _, row := range rows {
		if row.QuestionID != questionID {
			continue
		}
		result.Total++

		if missing.Is(row.AnswerText) {
			result.Missing++
			counts[missing.label()]++
			continue
		}
		counts[strings.TrimSpace(row.AnswerText.String)]++
	}

	for value, n := range counts {
		result.Values = append(result.Values, models.ValueCount{Value: value, Count: n})
	}
	sort.Slice(result.Values, func(i, j int) bool {
		if result.Values[i].Count != result.Values[j].Count {
			return result.Values[i].Count > result.Values[j].Count
		}
		return result.Values[i].Value < result.Values[j].Value
	})

	return result
}

// Head returns at most n values and how many were left out
func Head(counts models.ValueCounts, n int) ([]models.ValueCount, int) {
	if n <= 0 || len(counts.Values) <= n {
		return counts.Values, 0
	}
	return counts.Values[:n], len(counts.Values) - n
}
