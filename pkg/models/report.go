package models

import "time"

// Report is the outcome of one analysis run
type Report struct {
	RunID       string            `json:"run_id"`
	GeneratedAt time.Time         `json:"generated_at"`
	Source      string            `json:"source"`
	Rows        int               `json:"rows"`
	Orphans     int               `json:"orphans"`
	Surveys     []Survey          `json:"surveys"`
	Summaries   []SummaryTable    `json:"summaries"`
	CrossTabs   []CrossTabTable   `json:"crosstabs"`
	Prevalence  []PrevalenceTable `json:"prevalence"`
	Counts      []CountTable      `json:"counts"`
	Artifacts   []string          `json:"artifacts"`

	// Dataset is only kept when it is exported with the report
	Dataset []SurveyResponse `json:"-"`
}

// SummaryTable is a named set of group summaries
type SummaryTable struct {
	Name   string         `json:"name"`
	Groups []GroupSummary `json:"groups"`
}

// CrossTabTable is a named cross-tabulation
type CrossTabTable struct {
	Name  string   `json:"name"`
	Table CrossTab `json:"table"`
}

// PrevalenceTable is a named list of prevalence rates
type PrevalenceTable struct {
	Name            string          `json:"name"`
	QuestionID      int             `json:"question_id"`
	ConfidenceLevel float64         `json:"confidence_level"`
	Rows            []PrevalenceRow `json:"rows"`
}

// CountTable is a named value count
type CountTable struct {
	Name   string      `json:"name"`
	Counts ValueCounts `json:"counts"`
}
