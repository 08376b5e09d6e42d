package bot

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zaptest"

	"github.com/example/mhsurvey/pkg/models"
)

type fakeSender struct {
	sent []tgbotapi.Chattable
	err  error
}

func (f *fakeSender) Send(c tgbotapi.Chattable) (tgbotapi.Message, error) {
	if f.err != nil {
		return tgbotapi.Message{}, f.err
	}
	f.sent = append(f.sent, c)
	return tgbotapi.Message{MessageID: len(f.sent)}, nil
}

func testReport() *models.Report {
	return &models.Report{
		RunID:       "abc",
		GeneratedAt: time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC),
		Rows:        12345,
		Summaries: []models.SummaryTable{{
			Name: "condition",
			Groups: []models.GroupSummary{
				{Year: 2014, QuestionID: 33, Total: 3, Buckets: []models.Bucket{{Category: "Yes", Count: 2, Proportion: 2.0 / 3}, {Category: "No", Count: 1, Proportion: 1.0 / 3}}},
				{Year: 2016, QuestionID: 33, Total: 0},
			},
		}},
		Prevalence: []models.PrevalenceTable{{
			Name:            "diagnosis",
			ConfidenceLevel: 0.95,
			Rows:            []models.PrevalenceRow{{Condition: "Anxiety", Respondents: 1, Total: 4, Rate: 0.25, CILower: 0, CIUpper: 0.674}},
		}},
		Artifacts: []string{"out/summary_condition.csv", "out/report.xlsx"},
	}
}

func TestPublish(t *testing.T) {
	api := &fakeSender{}
	p := newPublisher(api, DefaultConfig(42), zaptest.NewLogger(t))

	require.NoError(t, p.Publish(context.Background(), testReport()))
	require.Len(t, api.sent, 2)

	msg, ok := api.sent[0].(tgbotapi.MessageConfig)
	require.True(t, ok)
	assert.Equal(t, int64(42), msg.ChatID)
	assert.Contains(t, msg.Text, "Survey report abc")

	doc, ok := api.sent[1].(tgbotapi.DocumentConfig)
	require.True(t, ok)
	assert.Equal(t, tgbotapi.FilePath("out/report.xlsx"), doc.File)
	assert.Equal(t, "Report abc", doc.Caption)
}

func TestPublishWithoutWorkbook(t *testing.T) {
	api := &fakeSender{}
	p := newPublisher(api, DefaultConfig(42), zaptest.NewLogger(t))

	r := testReport()
	r.Artifacts = []string{"out/summary_condition.csv"}
	require.NoError(t, p.Publish(context.Background(), r))
	assert.Len(t, api.sent, 1)

	cfg := DefaultConfig(42)
	cfg.AttachWorkbook = false
	api = &fakeSender{}
	p = newPublisher(api, cfg, zaptest.NewLogger(t))
	require.NoError(t, p.Publish(context.Background(), testReport()))
	assert.Len(t, api.sent, 1)
}

func TestPublishErrors(t *testing.T) {
	t.Run("send failure", func(t *testing.T) {
		p := newPublisher(&fakeSender{err: errors.New("boom")}, DefaultConfig(42), zaptest.NewLogger(t))
		err := p.Publish(context.Background(), testReport())
		assert.ErrorContains(t, err, "failed to send digest")
	})

	t.Run("cancelled context", func(t *testing.T) {
		api := &fakeSender{}
		p := newPublisher(api, DefaultConfig(42), zaptest.NewLogger(t))
		ctx, cancel := context.WithCancel(context.Background())
		cancel()
		assert.ErrorIs(t, p.Publish(ctx, testReport()), context.Canceled)
		assert.Empty(t, api.sent)
	})
}

func TestNewRequiresCredentials(t *testing.T) {
	_, err := New("", DefaultConfig(42), zaptest.NewLogger(t))
	assert.Error(t, err)

	_, err = New("token", DefaultConfig(0), zaptest.NewLogger(t))
	assert.Error(t, err)
}

func TestDigest(t *testing.T) {
	text := Digest(testReport(), 10)

	assert.Contains(t, text, "Rows: 12,345")
	assert.Contains(t, text, "2014 Q33: Yes 66.7% (n=3)")
	assert.Contains(t, text, "2016 Q33: no answers")
	assert.Contains(t, text, "diagnosis (95% CI)")
	assert.Contains(t, text, "Anxiety: 25.0% [0.0, 67.4] of 4")
	assert.NotContains(t, text, "Orphan")

	limited := Digest(testReport(), 1)
	assert.Contains(t, limited, "...")
	assert.NotContains(t, limited, "2016 Q33")
}

func TestTruncate(t *testing.T) {
	assert.Equal(t, "short", truncate("short", 10))

	long := strings.Repeat("é", 20)
	cut := truncate(long, 10)
	assert.Equal(t, 10, len([]rune(cut)))
	assert.True(t, strings.HasSuffix(cut, "..."))
}
