// Package dbtest creates throwaway survey stores for tests.
package dbtest

import (
	"database/sql"
	"path/filepath"
	"testing"

	_ "modernc.org/sqlite"
)

// Schema mirrors the published OSMI mental health survey database
const Schema = `
CREATE TABLE Survey (
	SurveyID INTEGER PRIMARY KEY,
	Description TEXT
);

CREATE TABLE Question (
	questiontext TEXT,
	questionid INTEGER
);

CREATE TABLE Answer (
	AnswerText TEXT,
	SurveyID INTEGER,
	UserID INTEGER,
	QuestionID INTEGER
);
`

// Survey is a Survey table row
type Survey struct {
	Year        int
	Description string
}

// Question is a Question table row
type Question struct {
	ID   int
	Text string
}

// Answer is an Answer table row. A nil Text is stored as NULL.
type Answer struct {
	Year       int
	UserID     int
	QuestionID int
	Text       *string
}

// Fixture is the content of a seeded store
type Fixture struct {
	Surveys   []Survey
	Questions []Question
	Answers   []Answer
}

// Text returns a pointer for Answer.Text
func Text(s string) *string {
	return &s
}

// NewStore writes a SQLite file with the survey schema and the fixture rows
// and returns its path. The file is removed with the test's temp dir.
func NewStore(t *testing.T, fx Fixture) string {
	t.Helper()

	path := filepath.Join(t.TempDir(), "mental_health.sqlite")
	db, err := sql.Open("sqlite", path)
	if err != nil {
		t.Fatalf("Failed to open test database: %v", err)
	}
	defer db.Close()

	if _, err := db.Exec(Schema); err != nil {
		t.Fatalf("Failed to create schema: %v", err)
	}

	for _, s := range fx.Surveys {
		if _, err := db.Exec(`INSERT INTO Survey (SurveyID, Description) VALUES (?, ?)`, s.Year, s.Description); err != nil {
			t.Fatalf("Failed to insert survey %d: %v", s.Year, err)
		}
	}
	for _, q := range fx.Questions {
		if _, err := db.Exec(`INSERT INTO Question (questiontext, questionid) VALUES (?, ?)`, q.Text, q.ID); err != nil {
			t.Fatalf("Failed to insert question %d: %v", q.ID, err)
		}
	}
	for _, a := range fx.Answers {
		var text sql.NullString
		if a.Text != nil {
			text = sql.NullString{String: *a.Text, Valid: true}
		}
		if _, err := db.Exec(`INSERT INTO Answer (AnswerText, SurveyID, UserID, QuestionID) VALUES (?, ?, ?, ?)`,
			text, a.Year, a.UserID, a.QuestionID); err != nil {
			t.Fatalf("Failed to insert answer: %v", err)
		}
	}

	return path
}

// NewEmptyStore creates a store with the schema and no rows
func NewEmptyStore(t *testing.T) string {
	t.Helper()
	return NewStore(t, Fixture{})
}

// SampleFixture is a small two-year survey with a condition question, a
// gender question and a multi-answer diagnosis question
func SampleFixture() Fixture {
	const (
		condition = "Do you currently have a mental health disorder?"
		gender    = "What is your gender?"
		diagnosis = "If so, what disorder(s) were you diagnosed with?"
	)
	return Fixture{
		Surveys: []Survey{
			{Year: 2014, Description: "mental health survey for 2014"},
			{Year: 2016, Description: "mental health survey for 2016"},
		},
		Questions: []Question{
			{ID: 2, Text: gender},
			{ID: 33, Text: condition},
			{ID: 115, Text: diagnosis},
		},
		Answers: []Answer{
			{Year: 2014, UserID: 1, QuestionID: 2, Text: Text("Male")},
			{Year: 2014, UserID: 2, QuestionID: 2, Text: Text("female")},
			{Year: 2014, UserID: 3, QuestionID: 2, Text: Text("-1")},
			{Year: 2014, UserID: 1, QuestionID: 33, Text: Text("Yes")},
			{Year: 2014, UserID: 2, QuestionID: 33, Text: Text("No")},
			{Year: 2014, UserID: 3, QuestionID: 33, Text: Text("Yes")},
			{Year: 2016, UserID: 1, QuestionID: 2, Text: Text("Female")},
			{Year: 2016, UserID: 2, QuestionID: 2, Text: Text("male")},
			{Year: 2016, UserID: 1, QuestionID: 33, Text: Text("Possibly")},
			{Year: 2016, UserID: 2, QuestionID: 33, Text: nil},
			{Year: 2016, UserID: 1, QuestionID: 115, Text: Text("Anxiety Disorder")},
			{Year: 2016, UserID: 1, QuestionID: 115, Text: Text("Mood Disorder")},
			{Year: 2016, UserID: 2, QuestionID: 115, Text: Text("Anxiety Disorder")},
		},
	}
}
