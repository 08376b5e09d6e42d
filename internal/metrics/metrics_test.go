package metrics

import (
	"gopkg.in/guregu/null.v3"

	"github.com/example/mhsurvey/pkg/models"
)

const conditionQuestion = "Do you have a mental health condition?"

// response builds a row; a nil answer is stored as NULL
func response(year, user, question int, answer *string) models.SurveyResponse {
	return models.SurveyResponse{
		Year:         year,
		Survey:       "survey",
		QuestionID:   question,
		QuestionText: conditionQuestion,
		UserID:       user,
		AnswerText:   null.StringFromPtr(answer),
	}
}

func str(s string) *string { return &s }
