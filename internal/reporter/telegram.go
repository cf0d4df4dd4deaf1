package reporter

import (
	"fmt"
	"html"
	"strings"
	"time"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"

	"go-job-listing-scraper/internal/models"
	"go-job-listing-scraper/internal/scraper"
)

// maxListedPostings caps how many new postings one summary lists.
const maxListedPostings = 10

type sender interface {
	Send(c tgbotapi.Chattable) (tgbotapi.Message, error)
}

type TelegramReporter struct {
	bot    sender
	chatID int64
}

// RunSummary is what gets reported once a crawl is over.
type RunSummary struct {
	Criteria    string
	Status      string
	Stats       scraper.Stats
	Duration    time.Duration
	Err         error
	NewPostings []models.Posting
}

func NewTelegramReporter(token string, chatID int64) (*TelegramReporter, error) {
	bot, err := tgbotapi.NewBotAPI(token)
	if err != nil {
		return nil, fmt.Errorf("failed to init telegram bot: %w", err)
	}

	//turn this on in case of debug
	//bot.Debug = true

	return &TelegramReporter{
		bot:    bot,
		chatID: chatID,
	}, nil
}

func (t *TelegramReporter) SendMessage(text string) error {
	msg := tgbotapi.NewMessage(t.chatID, text)
	msg.ParseMode = tgbotapi.ModeHTML
	msg.DisableWebPagePreview = true
	_, err := t.bot.Send(msg)
	return err
}

func (t *TelegramReporter) SendRunSummary(s RunSummary) error {
	return t.SendMessage(FormatRunSummary(s))
}

func (t *TelegramReporter) SendError(errReq error) error {
	text := fmt.Sprintf("⚠️ <b>Job scraper error</b>:\n%s", html.EscapeString(errReq.Error()))
	return t.SendMessage(text)
}

// FormatRunSummary renders s as Telegram HTML.
func FormatRunSummary(s RunSummary) string {
	var b strings.Builder

	icon := "✅"
	if s.Err != nil {
		icon = "⚠️"
	}
	fmt.Fprintf(&b, "%s <b>Crawl %s</b>\n", icon, html.EscapeString(s.Status))
	if s.Criteria != "" {
		fmt.Fprintf(&b, "🔍 %s\n", html.EscapeString(s.Criteria))
	}
	fmt.Fprintf(&b, "📄 Pages: %d\n", s.Stats.PagesScraped)
	fmt.Fprintf(&b, "🆕 New postings: %d\n", s.Stats.NewRecords)
	fmt.Fprintf(&b, "❗ Errors: %d\n", s.Stats.Errors)
	if s.Duration > 0 {
		fmt.Fprintf(&b, "⏱ %s\n", s.Duration.Round(time.Second))
	}
	if s.Err != nil {
		fmt.Fprintf(&b, "\n<i>%s</i>\n", html.EscapeString(s.Err.Error()))
	}

	for i, p := range s.NewPostings {
		if i == maxListedPostings {
			fmt.Fprintf(&b, "… and %d more\n", len(s.NewPostings)-maxListedPostings)
			break
		}
		if i == 0 {
			b.WriteString("\n")
		}
		fmt.Fprintf(&b, "🔥 <a href=\"%s\">%s</a> · 🏢 %s · 📍 %s\n",
			html.EscapeString(p.JobLink),
			html.EscapeString(p.Title),
			html.EscapeString(p.Company),
			html.EscapeString(p.Location),
		)
	}
	return b.String()
}
