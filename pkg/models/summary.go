package models

// Bucket is one category count inside a group
type Bucket struct {
	Category   string  `json:"category"`
	Count      int     `json:"count"`
	Proportion float64 `json:"proportion"`
}

// AllYears marks a group that spans every survey year
const AllYears = 0

// GroupSummary holds the category counts of one question, optionally per year
type GroupSummary struct {
	Year         int      `json:"year"`
	QuestionID   int      `json:"question_id"`
	QuestionText string   `json:"question_text"`
	Total        int      `json:"total"`
	Buckets      []Bucket `json:"buckets"`
}

// Bucket returns the bucket for a category and whether it exists
func (g GroupSummary) Bucket(category string) (Bucket, bool) {
	for _, b := range g.Buckets {
		if b.Category == category {
			return b, true
		}
	}
	return Bucket{}, false
}

// ValueCount is the number of times an answer value occurs
type ValueCount struct {
	Value string `json:"value"`
	Count int    `json:"count"`
}

// ValueCounts is the distinct value breakdown of one question
type ValueCounts struct {
	QuestionID int          `json:"question_id"`
	Values     []ValueCount `json:"values"`
	Missing    int          `json:"missing"`
	Total      int          `json:"total"`
}

// CrossTab is a contingency table of two categorical questions
type CrossTab struct {
	RowQuestionID    int      `json:"row_question_id"`
	ColumnQuestionID int      `json:"column_question_id"`
	RowLabels        []string `json:"row_labels"`
	ColumnLabels     []string `json:"column_labels"`
	Cells            [][]int  `json:"cells"`
	RowTotals        []int    `json:"row_totals"`
	ColumnTotals     []int    `json:"column_totals"`
	Total            int      `json:"total"`
}

// Cell returns the count at the given labels, zero when either label is unknown
func (c CrossTab) Cell(row, column string) int {
	ri, ci := indexOf(c.RowLabels, row), indexOf(c.ColumnLabels, column)
	if ri < 0 || ci < 0 {
		return 0
	}
	return c.Cells[ri][ci]
}

func indexOf(labels []string, label string) int {
	for i, l := range labels {
		if l == label {
			return i
		}
	}
	return -1
}

// PrevalenceRow is the share of respondents reporting a condition
type PrevalenceRow struct {
	Condition   string  `json:"condition"`
	Respondents int     `json:"respondents"`
	Total       int     `json:"total"`
	Rate        float64 `json:"rate"`
	CILower     float64 `json:"ci_lower"`
	CIUpper     float64 `json:"ci_upper"`
}
