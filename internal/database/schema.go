package database

import (
	"context"
	"fmt"
	"strings"

	"github.com/jmoiron/sqlx"
)

// sourceTable is a table of the survey store together with the columns the
// dataset query reads from it
type sourceTable struct {
	Name    string
	Columns []string
}

// sourceSchema is the part of the store the pipeline depends on. The store
// belongs to the dataset publisher and is never altered.
var sourceSchema = []sourceTable{
	{Name: "Survey", Columns: []string{"SurveyID", "Description"}},
	{Name: "Question", Columns: []string{"QuestionID", "QuestionText"}},
	{Name: "Answer", Columns: []string{"AnswerText", "SurveyID", "UserID", "QuestionID"}},
}

// CheckSchema verifies that every expected table and column exists. The check
// selects zero rows so it works the same way on every driver.
func CheckSchema(ctx context.Context, db *sqlx.DB) error {
	for _, table := range sourceSchema {
		query := fmt.Sprintf("SELECT %s FROM %s LIMIT 0", strings.Join(table.Columns, ", "), table.Name)
		rows, err := db.QueryContext(ctx, query)
		if err != nil {
			return dataAccess(fmt.Sprintf("table %s does not match the expected schema", table.Name), err)
		}
		rows.Close()
	}
	return nil
}
