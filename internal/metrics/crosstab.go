package metrics

import (
	"sort"

	"github.com/example/mhsurvey/pkg/models"
)

// CrossSpec pairs two questions answered by the same respondent
type CrossSpec struct {
	RowQuestion    int
	ColumnQuestion int
	RowClassifier  Classifier
	ColClassifier  Classifier
	Missing        Missing
}

// CrossTabulate builds a contingency table of RowQuestion x ColumnQuestion.
// Respondents are matched on (survey, year, user). A respondent who answered
// only one of the two questions lands in the missing label on the other axis.
// For multi-answer questions each answer pair is counted.
func CrossTabulate(rows []models.SurveyResponse, spec CrossSpec) models.CrossTab {
	rowClassifier := spec.RowClassifier
	if rowClassifier == nil {
		rowClassifier = IdentityClassifier{Missing: spec.Missing}
	}
	colClassifier := spec.ColClassifier
	if colClassifier == nil {
		colClassifier = IdentityClassifier{Missing: spec.Missing}
	}
	unknown := spec.Missing.label()

	rowAnswers := make(map[models.RespondentKey][]string)
	colAnswers := make(map[models.RespondentKey][]string)
	var order []models.RespondentKey
	seen := make(map[models.RespondentKey]bool)

	for _, row := range rows {
		var target map[models.RespondentKey][]string
		var category string
		switch row.QuestionID {
		case spec.RowQuestion:
			target, category = rowAnswers, rowClassifier.Classify(row.AnswerText)
		case spec.ColumnQuestion:
			target, category = colAnswers, colClassifier.Classify(row.AnswerText)
		default:
			continue
		}
		key := row.Respondent()
		target[key] = append(target[key], category)
		if !seen[key] {
			seen[key] = true
			order = append(order, key)
		}
	}

	cells := make(map[[2]string]int)
	rowSet := make(map[string]bool)
	colSet := make(map[string]bool)
	for _, key := range order {
		rs := rowAnswers[key]
		if len(rs) == 0 {
			rs = []string{unknown}
		}
		cs := colAnswers[key]
		if len(cs) == 0 {
			cs = []string{unknown}
		}
		for _, r := range rs {
			for _, c := range cs {
				cells[[2]string{r, c}]++
				rowSet[r] = true
				colSet[c] = true
			}
		}
	}

	tab := models.CrossTab{
		RowQuestionID:    spec.RowQuestion,
		ColumnQuestionID: spec.ColumnQuestion,
		RowLabels:        sortedLabels(rowSet, unknown),
		ColumnLabels:     sortedLabels(colSet, unknown),
	}
	tab.Cells = make([][]int, len(tab.RowLabels))
	tab.RowTotals = make([]int, len(tab.RowLabels))
	tab.ColumnTotals = make([]int, len(tab.ColumnLabels))
	for i, r := range tab.RowLabels {
		tab.Cells[i] = make([]int, len(tab.ColumnLabels))
		for j, c := range tab.ColumnLabels {
			n := cells[[2]string{r, c}]
			tab.Cells[i][j] = n
			tab.RowTotals[i] += n
			tab.ColumnTotals[j] += n
			tab.Total += n
		}
	}
	return tab
}

// sortedLabels sorts alphabetically and moves the unknown label last
func sortedLabels(set map[string]bool, unknown string) []string {
	labels := make([]string, 0, len(set))
	for l := range set {
		labels = append(labels, l)
	}
	sort.Slice(labels, func(i, j int) bool {
		if (labels[i] == unknown) != (labels[j] == unknown) {
			return labels[j] == unknown
		}
		return labels[i] < labels[j]
	})
	return labels
}
