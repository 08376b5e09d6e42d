package excel

import (
	"encoding/csv"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/xuri/excelize/v2"
	"gopkg.in/guregu/null.v3"

	"github.com/example/mhsurvey/pkg/models"
)

// LoadConfig defines how an exported flat table is read back
type LoadConfig struct {
	FilePath  string // Path to the .csv or .xlsx file
	SheetName string // Sheet holding the flat table in a workbook
}

// DefaultLoadConfig returns the default load configuration
func DefaultLoadConfig(path string) LoadConfig {
	return LoadConfig{
		FilePath:  path,
		SheetName: DatasetSheet,
	}
}

// LoadDataset reads a flat table written by the dataset export. Columns are
// matched by header name so their order does not matter. Files have no NULL:
// NULL and "" both export as an empty answer_text cell, which is read back as
// NULL. Both count as missing answers, so analyses are unchanged.
func LoadDataset(config LoadConfig) ([]models.SurveyResponse, error) {
	ext := strings.ToLower(filepath.Ext(config.FilePath))

	switch ext {
	case ".csv":
		return loadFromCSV(config)
	case ".xlsx":
		return loadFromExcel(config)
	default:
		return nil, fmt.Errorf("unsupported dataset file type %q", ext)
	}
}

// loadFromExcel reads the dataset sheet of a workbook
func loadFromExcel(config LoadConfig) ([]models.SurveyResponse, error) {
	f, err := excelize.OpenFile(config.FilePath)
	if err != nil {
		return nil, fmt.Errorf("failed to open Excel file: %w", err)
	}
	defer f.Close()

	rows, err := f.GetRows(config.SheetName)
	if err != nil {
		return nil, fmt.Errorf("failed to get rows: %w", err)
	}
	if len(rows) == 0 {
		return nil, fmt.Errorf("sheet %s has no header row", config.SheetName)
	}

	columns, err := columnIndex(rows[0])
	if err != nil {
		return nil, err
	}

	responses := make([]models.SurveyResponse, 0, len(rows)-1)
	for i, row := range rows[1:] {
		response, err := parseRow(row, columns)
		if err != nil {
			return nil, fmt.Errorf("row %d: %w", i+2, err)
		}
		responses = append(responses, response)
	}
	return responses, nil
}

// loadFromCSV reads a delimited flat table
func loadFromCSV(config LoadConfig) ([]models.SurveyResponse, error) {
	file, err := os.Open(config.FilePath)
	if err != nil {
		return nil, fmt.Errorf("failed to open CSV file: %w", err)
	}
	defer file.Close()

	reader := csv.NewReader(file)
	reader.FieldsPerRecord = -1

	header, err := reader.Read()
	if err == io.EOF {
		return nil, fmt.Errorf("CSV file %s has no header row", config.FilePath)
	}
	if err != nil {
		return nil, fmt.Errorf("error reading CSV: %w", err)
	}

	columns, err := columnIndex(header)
	if err != nil {
		return nil, err
	}

	responses := []models.SurveyResponse{}
	rowNum := 1
	for {
		row, err := reader.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("error reading CSV: %w", err)
		}
		rowNum++

		response, err := parseRow(row, columns)
		if err != nil {
			return nil, fmt.Errorf("row %d: %w", rowNum, err)
		}
		responses = append(responses, response)
	}
	return responses, nil
}

// columnIndex maps every dataset column to its position in the header
func columnIndex(header []string) (map[string]int, error) {
	index := make(map[string]int, len(header))
	for i, name := range header {
		index[strings.ToLower(strings.TrimSpace(name))] = i
	}
	for _, name := range models.DatasetColumns {
		if _, ok := index[name]; !ok {
			return nil, fmt.Errorf("missing column %q", name)
		}
	}
	return index, nil
}

// parseRow converts one record. Workbooks drop trailing empty cells, so a
// short row means the remaining columns are empty.
func parseRow(row []string, columns map[string]int) (models.SurveyResponse, error) {
	cell := func(name string) string {
		if i := columns[name]; i < len(row) {
			return row[i]
		}
		return ""
	}

	var response models.SurveyResponse
	var err error
	if response.Year, err = parseInt(cell("year"), "year"); err != nil {
		return response, err
	}
	if response.QuestionID, err = parseInt(cell("question_id"), "question_id"); err != nil {
		return response, err
	}
	if response.UserID, err = parseInt(cell("user_id"), "user_id"); err != nil {
		return response, err
	}
	response.Survey = cell("survey")
	response.QuestionText = cell("question_text")

	answer := cell("answer_text")
	response.AnswerText = null.NewString(answer, answer != "")
	return response, nil
}

func parseInt(s, column string) (int, error) {
	val, err := strconv.Atoi(strings.TrimSpace(s))
	if err != nil {
		return 0, fmt.Errorf("invalid %s %q: %w", column, s, err)
	}
	return val, nil
}
