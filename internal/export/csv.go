// Package export writes analysis results as delimited text and console tables.
package export

import (
	"encoding/csv"
	"fmt"
	"io"
	"strconv"

	"github.com/example/mhsurvey/internal/metrics"
	"github.com/example/mhsurvey/pkg/models"
)

// WriteDatasetCSV writes the flat table. The header is always written so an
// empty dataset still yields a well-formed file. NULL answers become empty cells.
func WriteDatasetCSV(w io.Writer, rows []models.SurveyResponse) error {
	cw := csv.NewWriter(w)
	if err := cw.Write(models.DatasetColumns); err != nil {
		return fmt.Errorf("failed to write dataset header: %w", err)
	}

	for _, row := range rows {
		record := []string{
			strconv.Itoa(row.Year),
			row.Survey,
			strconv.Itoa(row.QuestionID),
			row.QuestionText,
			strconv.Itoa(row.UserID),
			row.AnswerText.ValueOrZero(),
		}
		if err := cw.Write(record); err != nil {
			return fmt.Errorf("failed to write dataset row: %w", err)
		}
	}

	cw.Flush()
	if err := cw.Error(); err != nil {
		return fmt.Errorf("failed to flush dataset: %w", err)
	}
	return nil
}

// SummaryHeader is the column layout of a summary export
var SummaryHeader = []string{"year", "question_id", "question_text", "category", "count", "proportion", "total"}

// SummaryRecords flattens group summaries into one record per bucket
func SummaryRecords(groups []models.GroupSummary) [][]string {
	var records [][]string
	for _, g := range groups {
		for _, b := range g.Buckets {
			records = append(records, []string{
				yearLabel(g.Year),
				strconv.Itoa(g.QuestionID),
				g.QuestionText,
				b.Category,
				strconv.Itoa(b.Count),
				formatRate(b.Proportion),
				strconv.Itoa(g.Total),
			})
		}
	}
	return records
}

// CrossTabRecords renders a contingency table with a header row and totals
func CrossTabRecords(tab models.CrossTab) [][]string {
	header := append([]string{""}, tab.ColumnLabels...)
	header = append(header, "Total")
	records := [][]string{header}

	for i, label := range tab.RowLabels {
		record := []string{label}
		for _, n := range tab.Cells[i] {
			record = append(record, strconv.Itoa(n))
		}
		record = append(record, strconv.Itoa(tab.RowTotals[i]))
		records = append(records, record)
	}

	footer := []string{"Total"}
	for _, n := range tab.ColumnTotals {
		footer = append(footer, strconv.Itoa(n))
	}
	footer = append(footer, strconv.Itoa(tab.Total))
	return append(records, footer)
}

// PrevalenceHeader is the column layout of a prevalence export
var PrevalenceHeader = []string{"condition", "respondents", "total", "rate", "ci_lower", "ci_upper"}

// PrevalenceRecords flattens prevalence rows
func PrevalenceRecords(rows []models.PrevalenceRow) [][]string {
	records := make([][]string, 0, len(rows))
	for _, r := range rows {
		records = append(records, []string{
			r.Condition,
			strconv.Itoa(r.Respondents),
			strconv.Itoa(r.Total),
			formatRate(r.Rate),
			formatRate(r.CILower),
			formatRate(r.CIUpper),
		})
	}
	return records
}

// CountHeader is the column layout of a value count export
var CountHeader = []string{"value", "count"}

// CountRecords flattens value counts
func CountRecords(counts models.ValueCounts) [][]string {
	records := make([][]string, 0, len(counts.Values))
	for _, v := range counts.Values {
		records = append(records, []string{v.Value, strconv.Itoa(v.Count)})
	}
	return records
}

// WriteRecords writes an optional header followed by records
func WriteRecords(w io.Writer, header []string, records [][]string) error {
	cw := csv.NewWriter(w)
	if header != nil {
		if err := cw.Write(header); err != nil {
			return fmt.Errorf("failed to write header: %w", err)
		}
	}
	if err := cw.WriteAll(records); err != nil {
		return fmt.Errorf("failed to write records: %w", err)
	}
	return nil
}

func yearLabel(year int) string {
	if year == models.AllYears {
		return "all"
	}
	return strconv.Itoa(year)
}

func formatRate(v float64) string {
	return strconv.FormatFloat(metrics.Round(v, 3), 'f', 3, 64)
}
