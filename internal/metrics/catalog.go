package metrics

import (
	"slices"
	"sort"

	"github.com/example/mhsurvey/pkg/models"
)

// QuestionCatalog gives each question id one canonical wording across survey
// years. Ids are stable between years while the wording drifts; the most
// recent year's wording wins unless an alias overrides it.
type QuestionCatalog struct {
	texts map[int]string
	years map[int][]int
}

// NewQuestionCatalog builds the catalog from the flat table and optional aliases
func NewQuestionCatalog(rows []models.SurveyResponse, aliases map[int]string) *QuestionCatalog {
	c := &QuestionCatalog{
		texts: make(map[int]string),
		years: make(map[int][]int),
	}

	latest := make(map[int]int)
	seenYear := make(map[[2]int]bool)
	for _, row := range rows {
		if y, ok := latest[row.QuestionID]; !ok || row.Year >= y {
			latest[row.QuestionID] = row.Year
			if row.QuestionText != "" || !ok {
				c.texts[row.QuestionID] = row.QuestionText
			}
		}
		if k := [2]int{row.QuestionID, row.Year}; !seenYear[k] {
			seenYear[k] = true
			c.years[row.QuestionID] = append(c.years[row.QuestionID], row.Year)
		}
	}

	for id, years := range c.years {
		sort.Ints(years)
		c.years[id] = years
	}
	for id, alias := range aliases {
		c.texts[id] = alias
	}
	return c
}

// Merge adds questions listed in the store's catalog. Wording already taken
// from answers or aliases is kept and survey years are unioned, so questions
// nobody answered still show up.
func (c *QuestionCatalog) Merge(questions []models.Question) {
	for _, q := range questions {
		if _, ok := c.texts[q.ID]; !ok {
			c.texts[q.ID] = q.Text
		}

		years := append([]int(nil), c.years[q.ID]...)
		for _, y := range q.Years {
			if !slices.Contains(years, y) {
				years = append(years, y)
			}
		}
		sort.Ints(years)
		c.years[q.ID] = years
	}
}

// Text returns the canonical wording, or "" for an unknown id
func (c *QuestionCatalog) Text(id int) string {
	return c.texts[id]
}

// Questions lists the catalog ordered by id
func (c *QuestionCatalog) Questions() []models.Question {
	ids := make([]int, 0, len(c.texts))
	for id := range c.texts {
		ids = append(ids, id)
	}
	sort.Ints(ids)

	questions := make([]models.Question, 0, len(ids))
	for _, id := range ids {
		questions = append(questions, models.Question{ID: id, Text: c.texts[id], Years: c.years[id]})
	}
	return questions
}
