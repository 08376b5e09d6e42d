package metrics

import (
	"sort"

	"github.com/example/mhsurvey/pkg/models"
)

// GroupSpec selects what Summarize groups and how answers are categorized
type GroupSpec struct {
	// QuestionIDs restricts the summary. Empty means every question.
	QuestionIDs []int
	// ByYear splits each question by survey year; otherwise years are pooled
	// under models.AllYears.
	ByYear bool
	// Classifier defaults to the identity classifier with OSMI missing rules.
	Classifier Classifier
	// Catalog supplies canonical question wording. Optional.
	Catalog *QuestionCatalog
	// Categories are always reported, with zero counts when unobserved.
	Categories []string
}

type groupKey struct {
	year       int
	questionID int
}

// Summarize counts answer categories per (year, question) group. Bucket
// proportions are relative to the group total; an empty group has a zero
// total and zero proportions.
func Summarize(rows []models.SurveyResponse, spec GroupSpec) []models.GroupSummary {
	classifier := spec.Classifier
	if classifier == nil {
		classifier = IdentityClassifier{Missing: DefaultMissing()}
	}

	wanted := make(map[int]bool, len(spec.QuestionIDs))
	for _, id := range spec.QuestionIDs {
		wanted[id] = true
	}

	counts := make(map[groupKey]map[string]int)
	texts := make(map[int]string)
	for _, row := range rows {
		if len(wanted) > 0 && !wanted[row.QuestionID] {
			continue
		}
		key := groupKey{year: models.AllYears, questionID: row.QuestionID}
		if spec.ByYear {
			key.year = row.Year
		}
		if counts[key] == nil {
			counts[key] = make(map[string]int)
		}
		counts[key][classifier.Classify(row.AnswerText)]++

		if _, ok := texts[row.QuestionID]; !ok {
			texts[row.QuestionID] = row.QuestionText
		}
	}

	// Requested questions with no rows still get a (pooled) empty group
	for _, id := range spec.QuestionIDs {
		if spec.ByYear {
			continue
		}
		key := groupKey{year: models.AllYears, questionID: id}
		if counts[key] == nil {
			counts[key] = make(map[string]int)
		}
	}

	summaries := make([]models.GroupSummary, 0, len(counts))
	for key, categories := range counts {
		for _, c := range spec.Categories {
			if _, ok := categories[c]; !ok {
				categories[c] = 0
			}
		}

		text := texts[key.questionID]
		if spec.Catalog != nil {
			if canonical := spec.Catalog.Text(key.questionID); canonical != "" {
				text = canonical
			}
		}

		summaries = append(summaries, newGroupSummary(key, text, categories))
	}

	sort.Slice(summaries, func(i, j int) bool {
		if summaries[i].Year != summaries[j].Year {
			return summaries[i].Year < summaries[j].Year
		}
		return summaries[i].QuestionID < summaries[j].QuestionID
	})
	return summaries
}

func newGroupSummary(key groupKey, text string, categories map[string]int) models.GroupSummary {
	total := 0
	for _, n := range categories {
		total += n
	}

	buckets := make([]models.Bucket, 0, len(categories))
	for category, n := range categories {
		buckets = append(buckets, models.Bucket{
			Category:   category,
			Count:      n,
			Proportion: ratio(n, total),
		})
	}
	sortBuckets(buckets)

	return models.GroupSummary{
		Year:         key.year,
		QuestionID:   key.questionID,
		QuestionText: text,
		Total:        total,
		Buckets:      buckets,
	}
}

// sortBuckets orders by count descending, then category name
func sortBuckets(buckets []models.Bucket) {
	sort.Slice(buckets, func(i, j int) bool {
		if buckets[i].Count != buckets[j].Count {
			return buckets[i].Count > buckets[j].Count
		}
		return buckets[i].Category < buckets[j].Category
	})
}
