package export

import (
	"bytes"
	"encoding/csv"
	"strings"
	"testing"

	"github.com/fatih/color"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gopkg.in/guregu/null.v3"

	"github.com/example/mhsurvey/pkg/models"
)

func init() {
	color.NoColor = true
}

func sampleRows() []models.SurveyResponse {
	return []models.SurveyResponse{
		{Year: 2014, Survey: "mental health survey for 2014", QuestionID: 1, QuestionText: "What is your age?", UserID: 1, AnswerText: null.StringFrom("37")},
		{Year: 2014, Survey: "mental health survey for 2014", QuestionID: 2, QuestionText: "What is your gender, if any?", UserID: 1, AnswerText: null.String{}},
	}
}

func TestWriteDatasetCSV(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, WriteDatasetCSV(&buf, sampleRows()))

	records, err := csv.NewReader(&buf).ReadAll()
	require.NoError(t, err)
	require.Len(t, records, 3)

	assert.Equal(t, models.DatasetColumns, records[0])
	assert.Equal(t, []string{"2014", "mental health survey for 2014", "1", "What is your age?", "1", "37"}, records[1])
	assert.Equal(t, "What is your gender, if any?", records[2][3])
	assert.Equal(t, "", records[2][5])
}

func TestWriteDatasetCSV_Empty(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, WriteDatasetCSV(&buf, nil))
	assert.Equal(t, strings.Join(models.DatasetColumns, ",")+"\n", buf.String())
}

func TestSummaryRecords(t *testing.T) {
	groups := []models.GroupSummary{{
		Year:       2014,
		QuestionID: 33,
		Total:      3,
		Buckets: []models.Bucket{
			{Category: "Yes", Count: 2, Proportion: 2.0 / 3},
			{Category: "No", Count: 1, Proportion: 1.0 / 3},
		},
	}, {
		Year:       models.AllYears,
		QuestionID: 7,
	}}

	records := SummaryRecords(groups)
	require.Len(t, records, 2)
	assert.Equal(t, []string{"2014", "33", "", "Yes", "2", "0.667", "3"}, records[0])
	assert.Equal(t, "0.333", records[1][5])
}

func TestCrossTabRecords(t *testing.T) {
	tab := models.CrossTab{
		RowLabels:    []string{"Female", "Male"},
		ColumnLabels: []string{"No", "Yes"},
		Cells:        [][]int{{1, 1}, {0, 2}},
		RowTotals:    []int{2, 2},
		ColumnTotals: []int{1, 3},
		Total:        4,
	}

	assert.Equal(t, [][]string{
		{"", "No", "Yes", "Total"},
		{"Female", "1", "1", "2"},
		{"Male", "0", "2", "2"},
		{"Total", "1", "3", "4"},
	}, CrossTabRecords(tab))
}

func TestPrevalenceAndCountRecords(t *testing.T) {
	prev := PrevalenceRecords([]models.PrevalenceRow{{Condition: "Anxiety", Respondents: 2, Total: 4, Rate: 0.5, CILower: 0.01, CIUpper: 0.99}})
	assert.Equal(t, [][]string{{"Anxiety", "2", "4", "0.500", "0.010", "0.990"}}, prev)

	counts := CountRecords(models.ValueCounts{Values: []models.ValueCount{{Value: "37", Count: 2}}})
	assert.Equal(t, [][]string{{"37", "2"}}, counts)
}

func TestWriteRecords(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, WriteRecords(&buf, CountHeader, [][]string{{"a", "1"}}))
	assert.Equal(t, "value,count\na,1\n", buf.String())
}

func TestConsoleReport(t *testing.T) {
	var buf bytes.Buffer
	console := NewConsole(&buf)

	console.Report(&models.Report{
		RunID:   "run-1",
		Source:  "fixture.sqlite",
		Rows:    1234,
		Orphans: 2,
		Summaries: []models.SummaryTable{{
			Name: "current_disorder",
			Groups: []models.GroupSummary{{
				Year: 2014, QuestionID: 33, Total: 3,
				Buckets: []models.Bucket{{Category: "Yes", Count: 2, Proportion: 2.0 / 3}},
			}},
		}},
		Prevalence: []models.PrevalenceTable{{
			Name: "diagnosed", QuestionID: 115, ConfidenceLevel: 0.95,
			Rows: []models.PrevalenceRow{{Condition: "Anxiety", Respondents: 2, Total: 4, Rate: 0.5, CILower: 0.25, CIUpper: 0.75}},
		}},
		Counts: []models.CountTable{{
			Name:   "age",
			Counts: models.ValueCounts{QuestionID: 1, Values: []models.ValueCount{{Value: "37", Count: 1500}}, Missing: 3, Total: 1503},
		}},
	})

	out := buf.String()
	assert.Contains(t, out, "Report run-1 (1,234 rows from fixture.sqlite)")
	assert.Contains(t, out, "2 answers reference a missing survey or question")
	assert.Contains(t, out, "current_disorder")
	assert.Contains(t, out, "66.7%")
	assert.Contains(t, out, "2 / 4")
	assert.Contains(t, out, "(25.0%, 75.0%)")
	assert.Contains(t, out, "1,500")
	assert.Contains(t, out, "Total count of responses: 1,503")
}

func TestConsoleCounts_MaxDisplay(t *testing.T) {
	var buf bytes.Buffer
	counts := models.ValueCounts{
		QuestionID: 1,
		Values:     []models.ValueCount{{Value: "a", Count: 3}, {Value: "b", Count: 2}, {Value: "c", Count: 1}},
		Total:      6,
	}

	NewConsole(&buf).Counts("age", counts, 2)

	out := buf.String()
	assert.Contains(t, out, "... and 1 more distinct values.")
	assert.NotContains(t, out, "| c ")
}

func TestConsoleEmptyTables(t *testing.T) {
	var buf bytes.Buffer
	console := NewConsole(&buf)

	console.Summary("empty", nil)
	console.CrossTab("empty_tab", models.CrossTab{})
	console.Prevalence(models.PrevalenceTable{Name: "empty_prev"})

	assert.Equal(t, 3, strings.Count(buf.String(), "no responses"))
}
