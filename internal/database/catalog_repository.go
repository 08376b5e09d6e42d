package database

import (
	"context"

	"github.com/jmoiron/sqlx"

	"github.com/example/mhsurvey/pkg/models"
)

// CatalogRepository reads survey and question metadata
type CatalogRepository struct {
	db *sqlx.DB
}

// NewCatalogRepository creates a new repository instance
func NewCatalogRepository(db *sqlx.DB) *CatalogRepository {
	return &CatalogRepository{db: db}
}

// Surveys returns every survey instrument ordered by year
func (r *CatalogRepository) Surveys(ctx context.Context) ([]models.Survey, error) {
	query := `
		SELECT SurveyID AS year, COALESCE(Description, '') AS description
		FROM Survey
		ORDER BY SurveyID`

	surveys := []models.Survey{}
	if err := r.db.SelectContext(ctx, &surveys, query); err != nil {
		return nil, dataAccess("failed to get surveys", err)
	}
	return surveys, nil
}

// Questions returns the question catalog with the years each question was asked
func (r *CatalogRepository) Questions(ctx context.Context) ([]models.Question, error) {
	var rows []struct {
		ID   int    `db:"question_id"`
		Text string `db:"question_text"`
	}
	query := `
		SELECT QuestionID AS question_id, COALESCE(QuestionText, '') AS question_text
		FROM Question
		ORDER BY QuestionID`
	if err := r.db.SelectContext(ctx, &rows, query); err != nil {
		return nil, dataAccess("failed to get questions", err)
	}

	var asked []struct {
		ID   int `db:"question_id"`
		Year int `db:"year"`
	}
	query = `
		SELECT DISTINCT QuestionID AS question_id, SurveyID AS year
		FROM Answer
		ORDER BY QuestionID, SurveyID`
	if err := r.db.SelectContext(ctx, &asked, query); err != nil {
		return nil, dataAccess("failed to get question years", err)
	}

	years := make(map[int][]int)
	for _, a := range asked {
		years[a.ID] = append(years[a.ID], a.Year)
	}

	questions := make([]models.Question, 0, len(rows))
	for _, row := range rows {
		questions = append(questions, models.Question{
			ID:    row.ID,
			Text:  row.Text,
			Years: years[row.ID],
		})
	}
	return questions, nil
}
