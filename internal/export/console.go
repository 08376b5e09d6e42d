package export

import (
	"fmt"
	"io"
	"strconv"

	"github.com/dustin/go-humanize"
	"github.com/fatih/color"
	"github.com/olekukonko/tablewriter"

	"github.com/example/mhsurvey/internal/metrics"
	"github.com/example/mhsurvey/pkg/models"
)

// Console renders results as text tables
type Console struct {
	w     io.Writer
	title *color.Color
	note  *color.Color
}

// NewConsole creates a renderer writing to w
func NewConsole(w io.Writer) *Console {
	return &Console{
		w:     w,
		title: color.New(color.FgCyan, color.Bold),
		note:  color.New(color.FgYellow),
	}
}

// Report renders every table of a report
func (c *Console) Report(r *models.Report) {
	c.title.Fprintf(c.w, "\nReport %s (%s rows from %s)\n", r.RunID, humanize.Comma(int64(r.Rows)), r.Source)
	if r.Orphans > 0 {
		c.note.Fprintf(c.w, "%s answers reference a missing survey or question and were skipped\n", humanize.Comma(int64(r.Orphans)))
	}
	for _, s := range r.Summaries {
		c.Summary(s.Name, s.Groups)
	}
	for _, x := range r.CrossTabs {
		c.CrossTab(x.Name, x.Table)
	}
	for _, p := range r.Prevalence {
		c.Prevalence(p)
	}
	for _, ct := range r.Counts {
		c.Counts(ct.Name, ct.Counts, 0)
	}
}

// Summary renders grouped category counts
func (c *Console) Summary(name string, groups []models.GroupSummary) {
	c.title.Fprintf(c.w, "\n%s\n", name)
	if len(groups) == 0 {
		c.note.Fprintln(c.w, "no responses")
		return
	}

	table := tablewriter.NewWriter(c.w)
	table.SetHeader([]string{"Year", "Question", "Category", "Count", "Share"})
	for _, g := range groups {
		for _, b := range g.Buckets {
			table.Append([]string{
				yearLabel(g.Year),
				strconv.Itoa(g.QuestionID),
				b.Category,
				humanize.Comma(int64(b.Count)),
				percent(b.Proportion),
			})
		}
	}
	table.Render()
}

// CrossTab renders a contingency table
func (c *Console) CrossTab(name string, tab models.CrossTab) {
	c.title.Fprintf(c.w, "\n%s (question %d x question %d)\n", name, tab.RowQuestionID, tab.ColumnQuestionID)
	if tab.Total == 0 {
		c.note.Fprintln(c.w, "no responses")
		return
	}

	records := CrossTabRecords(tab)
	table := tablewriter.NewWriter(c.w)
	table.SetHeader(records[0])
	table.AppendBulk(records[1 : len(records)-1])
	table.SetFooter(records[len(records)-1])
	table.Render()
}

// Prevalence renders rates with their confidence intervals
func (c *Console) Prevalence(p models.PrevalenceTable) {
	c.title.Fprintf(c.w, "\n%s (question %d, %.0f%% CI)\n", p.Name, p.QuestionID, p.ConfidenceLevel*100)
	if len(p.Rows) == 0 {
		c.note.Fprintln(c.w, "no responses")
		return
	}

	table := tablewriter.NewWriter(c.w)
	table.SetHeader([]string{"Condition", "Respondents", "Rate", "CI"})
	for _, r := range p.Rows {
		table.Append([]string{
			r.Condition,
			fmt.Sprintf("%s / %s", humanize.Comma(int64(r.Respondents)), humanize.Comma(int64(r.Total))),
			percent(r.Rate),
			fmt.Sprintf("(%s, %s)", percent(r.CILower), percent(r.CIUpper)),
		})
	}
	table.Render()
}

// Counts renders value counts, limited to maxDisplay rows when positive
func (c *Console) Counts(name string, counts models.ValueCounts, maxDisplay int) {
	c.title.Fprintf(c.w, "\n%s (question %d)\n", name, counts.QuestionID)

	values, more := metrics.Head(counts, maxDisplay)
	table := tablewriter.NewWriter(c.w)
	table.SetHeader([]string{"Value", "Count"})
	for _, v := range values {
		table.Append([]string{v.Value, humanize.Comma(int64(v.Count))})
	}
	table.Render()

	if more > 0 {
		fmt.Fprintf(c.w, "... and %d more distinct values.\n", more)
	}
	fmt.Fprintf(c.w, "Count of missing values: %s\n", humanize.Comma(int64(counts.Missing)))
	fmt.Fprintf(c.w, "Total count of responses: %s\n", humanize.Comma(int64(counts.Total)))
}

// Questions renders the question catalog
func (c *Console) Questions(questions []models.Question) {
	table := tablewriter.NewWriter(c.w)
	table.SetHeader([]string{"ID", "Question", "Years"})
	table.SetColWidth(80)
	for _, q := range questions {
		years := ""
		for i, y := range q.Years {
			if i > 0 {
				years += ", "
			}
			years += strconv.Itoa(y)
		}
		table.Append([]string{strconv.Itoa(q.ID), q.Text, years})
	}
	table.Render()
}

func percent(v float64) string {
	return strconv.FormatFloat(metrics.Round(v*100, 1), 'f', 1, 64) + "%"
}
