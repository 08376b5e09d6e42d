// Package bot publishes finished reports to a Telegram chat.
package bot

import (
	"context"
	"fmt"
	"path/filepath"
	"strings"
	"time"

	"github.com/dustin/go-humanize"
	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"go.uber.org/zap"

	"github.com/example/mhsurvey/pkg/models"
)

// maxMessageLength is the Telegram limit on message text
const maxMessageLength = 4096

// sender is the part of the Bot API the publisher needs
type sender interface {
	Send(c tgbotapi.Chattable) (tgbotapi.Message, error)
}

// Publisher sends report digests to one chat
type Publisher struct {
	api    sender
	config *Config
	logger *zap.Logger
}

// New connects to the Bot API with the given token
func New(token string, config *Config, logger *zap.Logger) (*Publisher, error) {
	if token == "" {
		return nil, fmt.Errorf("telegram bot token is not set")
	}
	if config == nil || config.ChatID == 0 {
		return nil, fmt.Errorf("telegram chat id is not set")
	}

	api, err := tgbotapi.NewBotAPI(token)
	if err != nil {
		return nil, fmt.Errorf("failed to create bot API: %w", err)
	}
	logger.Info("authorized on telegram account", zap.String("account", api.Self.UserName))

	return newPublisher(api, config, logger), nil
}

func newPublisher(api sender, config *Config, logger *zap.Logger) *Publisher {
	return &Publisher{api: api, config: config, logger: logger}
}

// Publish sends the digest and, when enabled, the workbook artifact
func (p *Publisher) Publish(ctx context.Context, r *models.Report) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	msg := tgbotapi.NewMessage(p.config.ChatID, Digest(r, p.config.MaxGroups))
	msg.DisableWebPagePreview = true
	if _, err := p.api.Send(msg); err != nil {
		return fmt.Errorf("failed to send digest: %w", err)
	}

	if !p.config.AttachWorkbook {
		return nil
	}
	workbook := workbookArtifact(r.Artifacts)
	if workbook == "" {
		return nil
	}
	if err := ctx.Err(); err != nil {
		return err
	}

	doc := tgbotapi.NewDocument(p.config.ChatID, tgbotapi.FilePath(workbook))
	doc.Caption = "Report " + r.RunID
	if _, err := p.api.Send(doc); err != nil {
		return fmt.Errorf("failed to send workbook: %w", err)
	}
	p.logger.Debug("workbook sent", zap.String("run_id", r.RunID), zap.String("path", workbook))
	return nil
}

// Digest renders the plain text summary of a report: the run, the row count,
// the headline bucket of each summary group and every prevalence rate
func Digest(r *models.Report, maxGroups int) string {
	var b strings.Builder

	fmt.Fprintf(&b, "Survey report %s\n", r.RunID)
	fmt.Fprintf(&b, "Generated %s\n", r.GeneratedAt.UTC().Format(time.RFC1123))
	fmt.Fprintf(&b, "Rows: %s\n", humanize.Comma(int64(r.Rows)))
	if r.Orphans > 0 {
		fmt.Fprintf(&b, "Orphan answers: %s\n", humanize.Comma(int64(r.Orphans)))
	}

	listed := 0
	for _, s := range r.Summaries {
		fmt.Fprintf(&b, "\n%s\n", s.Name)
		for _, g := range s.Groups {
			if maxGroups > 0 && listed >= maxGroups {
				b.WriteString("...\n")
				break
			}
			listed++
			fmt.Fprintf(&b, "%s Q%d: %s\n", yearLabel(g.Year), g.QuestionID, headline(g))
		}
	}

	for _, t := range r.Prevalence {
		fmt.Fprintf(&b, "\n%s (%.0f%% CI)\n", t.Name, t.ConfidenceLevel*100)
		for _, row := range t.Rows {
			fmt.Fprintf(&b, "%s: %.1f%% [%.1f, %.1f] of %s\n",
				row.Condition, row.Rate*100, row.CILower*100, row.CIUpper*100, humanize.Comma(int64(row.Total)))
		}
	}

	return truncate(b.String(), maxMessageLength)
}

func headline(g models.GroupSummary) string {
	if len(g.Buckets) == 0 {
		return "no answers"
	}
	top := g.Buckets[0]
	return fmt.Sprintf("%s %.1f%% (n=%s)", top.Category, top.Proportion*100, humanize.Comma(int64(g.Total)))
}

func yearLabel(year int) string {
	if year == models.AllYears {
		return "All years"
	}
	return fmt.Sprint(year)
}

func workbookArtifact(artifacts []string) string {
	for _, a := range artifacts {
		if strings.EqualFold(filepath.Ext(a), ".xlsx") {
			return a
		}
	}
	return ""
}

// truncate cuts s to at most n runes
func truncate(s string, n int) string {
	runes := []rune(s)
	if len(runes) <= n {
		return s
	}
	return string(runes[:n-3]) + "..."
}
