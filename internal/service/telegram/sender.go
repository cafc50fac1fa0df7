package telegram

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"AlertHub/internal/domain/models"
	pkghttp "AlertHub/pkg/http"
	applogger "AlertHub/pkg/logger"
)

const apiURLTemplate = "https://api.telegram.org/bot%s/sendMessage"

// Sender delivers triggered-alert reports to a Telegram chat. Delivery is
// best-effort: callers log the returned error and never retry.
type Sender struct {
	client    *pkghttp.Client
	logger    *applogger.Logger
	botToken  string
	chatID    string
	timeframe string
	enabled   bool
	now       func() time.Time
}

// NewSender creates a Telegram sender. With enabled false every send is a
// silent no-op, which keeps local runs from needing credentials.
func NewSender(botToken, chatID, timeframe string, enabled bool, logger *applogger.Logger) *Sender {
	return &Sender{
		client:    pkghttp.NewClient(pkghttp.WithTimeout(15 * time.Second)),
		logger:    logger,
		botToken:  botToken,
		chatID:    chatID,
		timeframe: timeframe,
		enabled:   enabled,
		now:       time.Now,
	}
}

type sendMessagePayload struct {
	ChatID                string `json:"chat_id"`
	Text                  string `json:"text"`
	ParseMode             string `json:"parse_mode"`
	DisableWebPagePreview bool   `json:"disable_web_page_preview"`
}

// SendCombinedReport formats and sends one message covering both kinds.
// Nothing is sent when both lists are empty.
func (s *Sender) SendCombinedReport(ctx context.Context, lineAlerts, vwapAlerts []models.Alert) error {
	msg := FormatCombinedReport(s.now(), lineAlerts, vwapAlerts, s.timeframe)
	if msg == "" {
		return nil
	}

	if !s.enabled {
		s.logger.Debug("telegram disabled, report skipped",
			applogger.Int("line", len(lineAlerts)),
			applogger.Int("vwap", len(vwapAlerts)),
		)
		return nil
	}
	if s.botToken == "" || s.chatID == "" {
		return fmt.Errorf("telegram credentials missing")
	}

	err := s.client.SendAndParse(ctx, &pkghttp.RequestOptions{
		Method: http.MethodPost,
		URL:    fmt.Sprintf(apiURLTemplate, s.botToken),
		Body: sendMessagePayload{
			ChatID:                s.chatID,
			Text:                  msg,
			ParseMode:             "HTML",
			DisableWebPagePreview: true,
		},
	}, nil)
	if err != nil {
		return fmt.Errorf("telegram send: %w", err)
	}

	s.logger.Info("triggered alerts report sent",
		applogger.Int("line", len(lineAlerts)),
		applogger.Int("vwap", len(vwapAlerts)),
	)
	return nil
}
