// Package excel writes report workbooks and reads exported flat tables back.
package excel

import (
	"fmt"
	"strings"
	"time"

	"github.com/xuri/excelize/v2"

	"github.com/example/mhsurvey/internal/export"
	"github.com/example/mhsurvey/pkg/models"
)

// Sheet names
const (
	MetaSheet    = "meta"
	DatasetSheet = "dataset"
)

// maxSheetName is the Excel limit on sheet name length
const maxSheetName = 31

// WriteReport saves the report as a workbook with a meta sheet, one sheet per
// analysis and, when the report carries it, the flat dataset
func WriteReport(path string, r *models.Report) error {
	f := excelize.NewFile()
	defer f.Close()

	// The default sheet becomes the meta sheet
	if err := f.SetSheetName(f.GetSheetName(0), MetaSheet); err != nil {
		return fmt.Errorf("failed to rename default sheet: %w", err)
	}
	meta := [][]string{
		{"run_id", r.RunID},
		{"generated_at", r.GeneratedAt.UTC().Format(time.RFC3339)},
		{"source", r.Source},
		{"rows", fmt.Sprint(r.Rows)},
		{"orphans", fmt.Sprint(r.Orphans)},
	}
	for _, s := range r.Surveys {
		meta = append(meta, []string{fmt.Sprintf("survey_%d", s.Year), s.Description})
	}
	if err := writeSheet(f, MetaSheet, nil, meta); err != nil {
		return err
	}

	used := map[string]bool{MetaSheet: true}
	for _, s := range r.Summaries {
		if err := addSheet(f, used, "summary_"+s.Name, export.SummaryHeader, export.SummaryRecords(s.Groups)); err != nil {
			return err
		}
	}
	for _, x := range r.CrossTabs {
		if err := addSheet(f, used, "crosstab_"+x.Name, nil, export.CrossTabRecords(x.Table)); err != nil {
			return err
		}
	}
	for _, p := range r.Prevalence {
		if err := addSheet(f, used, "prevalence_"+p.Name, export.PrevalenceHeader, export.PrevalenceRecords(p.Rows)); err != nil {
			return err
		}
	}
	for _, c := range r.Counts {
		if err := addSheet(f, used, "counts_"+c.Name, export.CountHeader, export.CountRecords(c.Counts)); err != nil {
			return err
		}
	}
	if r.Dataset != nil {
		if err := addSheet(f, used, DatasetSheet, models.DatasetColumns, datasetRecords(r.Dataset)); err != nil {
			return err
		}
	}

	if err := f.SaveAs(path); err != nil {
		return fmt.Errorf("failed to save workbook: %w", err)
	}
	return nil
}

// addSheet creates a uniquely named sheet and fills it
func addSheet(f *excelize.File, used map[string]bool, name string, header []string, records [][]string) error {
	name = sheetName(name, used)
	used[strings.ToLower(name)] = true

	if _, err := f.NewSheet(name); err != nil {
		return fmt.Errorf("failed to create sheet %s: %w", name, err)
	}
	return writeSheet(f, name, header, records)
}

func writeSheet(f *excelize.File, sheet string, header []string, records [][]string) error {
	row := 1
	if header != nil {
		if err := setRow(f, sheet, row, header); err != nil {
			return err
		}
		row++
	}
	for _, record := range records {
		if err := setRow(f, sheet, row, record); err != nil {
			return err
		}
		row++
	}
	return nil
}

func setRow(f *excelize.File, sheet string, row int, values []string) error {
	cell, err := excelize.CoordinatesToCellName(1, row)
	if err != nil {
		return fmt.Errorf("failed to address row %d: %w", row, err)
	}
	cells := make([]interface{}, len(values))
	for i, v := range values {
		cells[i] = v
	}
	if err := f.SetSheetRow(sheet, cell, &cells); err != nil {
		return fmt.Errorf("failed to write row %d of %s: %w", row, sheet, err)
	}
	return nil
}

// sheetName strips characters Excel rejects, truncates to the length limit
// and appends a counter when the name is taken. Excel compares sheet names
// case-insensitively, so used is keyed by the lower-cased name.
func sheetName(name string, used map[string]bool) string {
	name = strings.Map(func(r rune) rune {
		switch r {
		case ':', '\\', '/', '?', '*', '[', ']':
			return '_'
		}
		return r
	}, name)
	name = truncateRunes(name, maxSheetName)

	candidate := name
	for i := 2; used[strings.ToLower(candidate)]; i++ {
		suffix := fmt.Sprintf("_%d", i)
		candidate = truncateRunes(name, maxSheetName-len(suffix)) + suffix
	}
	return candidate
}

// truncateRunes cuts s to at most n characters
func truncateRunes(s string, n int) string {
	runes := []rune(s)
	if len(runes) <= n {
		return s
	}
	return string(runes[:n])
}

func datasetRecords(rows []models.SurveyResponse) [][]string {
	records := make([][]string, 0, len(rows))
	for _, r := range rows {
		records = append(records, []string{
			fmt.Sprint(r.Year),
			r.Survey,
			fmt.Sprint(r.QuestionID),
			r.QuestionText,
			fmt.Sprint(r.UserID),
			r.AnswerText.ValueOrZero(),
		})
	}
	return records
}
