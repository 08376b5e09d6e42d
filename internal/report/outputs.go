package report

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/example/mhsurvey/internal/excel"
	"github.com/example/mhsurvey/internal/export"
	"github.com/example/mhsurvey/pkg/models"
)

// Output formats
const (
	FormatConsole = "console"
	FormatCSV     = "csv"
	FormatXLSX    = "xlsx"
	FormatDataset = "dataset"
)

// File names inside the output directory
const (
	WorkbookFile = "report.xlsx"
	DatasetFile  = "dataset.csv"
)

// createFile opens CSV outputs for writing
var createFile = func(path string) (io.WriteCloser, error) {
	return os.Create(path)
}

// writeOutputs renders the report in every configured format and records the
// files it wrote in report.Artifacts
func (r *Runner) writeOutputs(report *models.Report) error {
	if r.cfg.HasFormat(FormatConsole) {
		r.console.Report(report)
	}

	files := r.cfg.HasFormat(FormatCSV) || r.cfg.HasFormat(FormatXLSX) || r.cfg.HasFormat(FormatDataset)
	if !files {
		return nil
	}
	dir := r.cfg.Output.Dir
	if err := os.MkdirAll(dir, 0755); err != nil {
		return fmt.Errorf("failed to create output directory: %w", err)
	}

	if r.cfg.HasFormat(FormatDataset) {
		path := filepath.Join(dir, DatasetFile)
		if err := WriteDataset(path, report.Dataset); err != nil {
			return err
		}
		report.Artifacts = append(report.Artifacts, path)
	}

	if r.cfg.HasFormat(FormatCSV) {
		paths, err := writeTables(dir, report)
		if err != nil {
			return err
		}
		report.Artifacts = append(report.Artifacts, paths...)
	}

	if r.cfg.HasFormat(FormatXLSX) {
		path := filepath.Join(dir, WorkbookFile)
		if err := excel.WriteReport(path, report); err != nil {
			return err
		}
		report.Artifacts = append(report.Artifacts, path)
	}
	return nil
}

// WriteDataset exports the flat table. The format follows the extension:
// .xlsx writes a workbook with a dataset sheet, anything else is CSV.
func WriteDataset(path string, rows []models.SurveyResponse) error {
	if rows == nil {
		rows = []models.SurveyResponse{}
	}
	if strings.EqualFold(filepath.Ext(path), ".xlsx") {
		return excel.WriteReport(path, &models.Report{Rows: len(rows), Dataset: rows})
	}

	file, err := createFile(path)
	if err != nil {
		return fmt.Errorf("failed to create dataset file: %w", err)
	}
	if err := export.WriteDatasetCSV(file, rows); err != nil {
		file.Close()
		return err
	}
	if err := file.Close(); err != nil {
		return fmt.Errorf("failed to close dataset file: %w", err)
	}
	return nil
}

// writeTables writes one CSV file per analysis table
func writeTables(dir string, report *models.Report) ([]string, error) {
	var paths []string
	write := func(prefix, name string, header []string, records [][]string) error {
		path := filepath.Join(dir, prefix+"_"+fileName(name)+".csv")
		file, err := createFile(path)
		if err != nil {
			return fmt.Errorf("failed to create %s: %w", path, err)
		}
		if err := export.WriteRecords(file, header, records); err != nil {
			file.Close()
			return fmt.Errorf("failed to write %s: %w", path, err)
		}
		if err := file.Close(); err != nil {
			return fmt.Errorf("failed to close %s: %w", path, err)
		}
		paths = append(paths, path)
		return nil
	}

	for _, s := range report.Summaries {
		if err := write("summary", s.Name, export.SummaryHeader, export.SummaryRecords(s.Groups)); err != nil {
			return nil, err
		}
	}
	for _, x := range report.CrossTabs {
		if err := write("crosstab", x.Name, nil, export.CrossTabRecords(x.Table)); err != nil {
			return nil, err
		}
	}
	for _, p := range report.Prevalence {
		if err := write("prevalence", p.Name, export.PrevalenceHeader, export.PrevalenceRecords(p.Rows)); err != nil {
			return nil, err
		}
	}
	for _, c := range report.Counts {
		if err := write("counts", c.Name, export.CountHeader, export.CountRecords(c.Counts)); err != nil {
			return nil, err
		}
	}
	return paths, nil
}

// fileName keeps letters, digits, dashes and underscores
func fileName(name string) string {
	name = strings.Map(func(r rune) rune {
		switch {
		case r >= 'a' && r <= 'z', r >= 'A' && r <= 'Z', r >= '0' && r <= '9', r == '-', r == '_':
			return r
		}
		return '_'
	}, strings.TrimSpace(name))
	if name == "" {
		return "unnamed"
	}
	return name
}
