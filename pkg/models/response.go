package models

import (
	"gopkg.in/guregu/null.v3"
)

// DatasetColumns is the fixed column order of the flat table
var DatasetColumns = []string{"year", "survey", "question_id", "question_text", "user_id", "answer_text"}

// SurveyResponse is one answer of one respondent to one question in one survey year
type SurveyResponse struct {
	Year         int         `json:"year" db:"year"`
	Survey       string      `json:"survey" db:"survey"`
	QuestionID   int         `json:"question_id" db:"question_id"`
	QuestionText string      `json:"question_text" db:"question_text"`
	UserID       int         `json:"user_id" db:"user_id"`
	AnswerText   null.String `json:"answer_text" db:"answer_text"`
}

// ResponseKey identifies a response. UserID is only unique within a survey year.
type ResponseKey struct {
	Survey     string
	Year       int
	UserID     int
	QuestionID int
}

// Key returns the identity tuple of the response
func (r SurveyResponse) Key() ResponseKey {
	return ResponseKey{
		Survey:     r.Survey,
		Year:       r.Year,
		UserID:     r.UserID,
		QuestionID: r.QuestionID,
	}
}

// RespondentKey identifies a respondent within one survey year
type RespondentKey struct {
	Survey string
	Year   int
	UserID int
}

// Respondent returns the respondent the response belongs to
func (r SurveyResponse) Respondent() RespondentKey {
	return RespondentKey{Survey: r.Survey, Year: r.Year, UserID: r.UserID}
}

// Question is a catalog entry for a question id
type Question struct {
	ID    int    `json:"id" db:"question_id"`
	Text  string `json:"text" db:"question_text"`
	Years []int  `json:"years"`
}

// Survey is one survey instrument
type Survey struct {
	Year        int    `json:"year" db:"year"`
	Description string `json:"description" db:"description"`
}
