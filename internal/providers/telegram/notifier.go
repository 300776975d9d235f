package telegram

import (
	"context"
	"errors"
	"net/http"
	"strings"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"

	"visualizer/internal/domain"
)

// LeadAlert is the content of one lead notification.
type LeadAlert struct {
	Lead        domain.Lead
	Style       domain.StyleSelection
	Source      string
	OriginalURL string
	FinalURL    string
}

// Options configures the notifier.
type Options struct {
	Token      string
	ChatID     int64
	Endpoint   string
	HTTPClient *http.Client
}

// Notifier posts lead alerts to a Telegram chat.
type Notifier struct {
	bot    *tgbotapi.BotAPI
	chatID int64
}

// NewNotifier authenticates the bot. It performs one getMe call.
func NewNotifier(opts Options) (*Notifier, error) {
	if strings.TrimSpace(opts.Token) == "" || opts.ChatID == 0 {
		return nil, errors.New("telegram: token and chat id are required")
	}
	endpoint := opts.Endpoint
	if endpoint == "" {
		endpoint = tgbotapi.APIEndpoint
	}
	client := opts.HTTPClient
	if client == nil {
		client = &http.Client{}
	}
	bot, err := tgbotapi.NewBotAPIWithClient(opts.Token, endpoint, client)
	if err != nil {
		return nil, err
	}
	return &Notifier{bot: bot, chatID: opts.ChatID}, nil
}

// NotifyLead sends the alert. ctx is checked before sending; the bot API
// client itself is not context aware.
func (n *Notifier) NotifyLead(ctx context.Context, alert LeadAlert) error {
	if n == nil || n.bot == nil {
		return nil
	}
	if err := ctx.Err(); err != nil {
		return err
	}
	msg := tgbotapi.NewMessage(n.chatID, FormatLead(alert))
	msg.DisableWebPagePreview = true
	_, err := n.bot.Send(msg)
	return err
}

// FormatLead renders the alert text.
func FormatLead(alert LeadAlert) string {
	lines := []string{
		"🏠 NEW VISUALIZER LEAD",
		"",
		"Source: " + orNA(alert.Source),
		"",
		"Name: " + orNA(alert.Lead.Name),
		"Phone: " + orNA(alert.Lead.Phone),
		"",
		"Style: " + orNA(string(alert.Style.DoorStyle)),
		"Color: " + orNA(colorLabel(alert.Style)),
		"Hardware: " + orNA(strings.TrimSpace(string(alert.Style.HardwareStyle)+" "+string(alert.Style.HardwareFinish))),
	}
	if alert.OriginalURL != "" && !strings.HasPrefix(alert.OriginalURL, "data:") {
		lines = append(lines, "", "📷 BEFORE (Original):", alert.OriginalURL)
	}
	if alert.FinalURL != "" {
		lines = append(lines, "", "✨ AFTER (Transformed):", alert.FinalURL)
	}
	return strings.Join(lines, "\n")
}

func colorLabel(style domain.StyleSelection) string {
	switch {
	case style.ColorName != "" && style.ColorHex != "":
		return style.ColorName + " (" + style.ColorHex + ")"
	case style.ColorName != "":
		return style.ColorName
	default:
		return style.ColorHex
	}
}

func orNA(v string) string {
	if v = strings.TrimSpace(v); v == "" {
		return "N/A"
	}
	return v
}
