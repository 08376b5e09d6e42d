package database

import (
	"context"
	"fmt"
	"strings"

	"github.com/jmoiron/sqlx"

	"github.com/example/mhsurvey/pkg/models"
)

// Filter narrows the dataset. Empty slices mean no restriction.
type Filter struct {
	Years       []int
	QuestionIDs []int
}

// ResponseRepository builds the flat response table from the survey store
type ResponseRepository struct {
	db *sqlx.DB
}

// NewResponseRepository creates a new repository instance
func NewResponseRepository(db *sqlx.DB) *ResponseRepository {
	return &ResponseRepository{db: db}
}

const datasetQuery = `
	SELECT
		Survey.SurveyID AS year,
		COALESCE(Survey.Description, '') AS survey,
		Question.QuestionID AS question_id,
		COALESCE(Question.QuestionText, '') AS question_text,
		Answer.UserID AS user_id,
		Answer.AnswerText AS answer_text
	FROM Survey
	INNER JOIN Answer ON Survey.SurveyID = Answer.SurveyID
	INNER JOIN Question ON Answer.QuestionID = Question.QuestionID`

const datasetOrder = `
	ORDER BY year, question_id, user_id, answer_text`

// BuildDataset joins surveys, answers and questions into one row per answer.
// No matching rows yields an empty slice, not an error.
func (r *ResponseRepository) BuildDataset(ctx context.Context, filter Filter) ([]models.SurveyResponse, error) {
	query, args, err := r.datasetQuery(filter)
	if err != nil {
		return nil, err
	}

	responses := []models.SurveyResponse{}
	if err := r.db.SelectContext(ctx, &responses, query, args...); err != nil {
		return nil, dataAccess("failed to build dataset", err)
	}
	return responses, nil
}

func (r *ResponseRepository) datasetQuery(filter Filter) (string, []interface{}, error) {
	var (
		where []string
		args  []interface{}
	)
	if len(filter.Years) > 0 {
		where = append(where, "Survey.SurveyID IN (?)")
		args = append(args, filter.Years)
	}
	if len(filter.QuestionIDs) > 0 {
		where = append(where, "Question.QuestionID IN (?)")
		args = append(args, filter.QuestionIDs)
	}

	query := datasetQuery
	if len(where) > 0 {
		query += "\n\tWHERE " + strings.Join(where, " AND ")
	}
	query += datasetOrder

	if len(args) == 0 {
		return query, nil, nil
	}

	query, args, err := sqlx.In(query, args...)
	if err != nil {
		return "", nil, fmt.Errorf("failed to expand dataset filter: %w", err)
	}
	return r.db.Rebind(query), args, nil
}

// Orphans counts answers whose survey or question is missing. The inner join
// drops them from the dataset, so callers report the number as a warning.
func (r *ResponseRepository) Orphans(ctx context.Context) (int, error) {
	query := `
		SELECT COUNT(*)
		FROM Answer
		LEFT JOIN Survey ON Survey.SurveyID = Answer.SurveyID
		LEFT JOIN Question ON Question.QuestionID = Answer.QuestionID
		WHERE Survey.SurveyID IS NULL OR Question.QuestionID IS NULL`

	var count int
	if err := r.db.GetContext(ctx, &count, query); err != nil {
		return 0, dataAccess("failed to count orphan answers", err)
	}
	return count, nil
}
