package whatsapp

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/bloomagain/bloombot/internal/config"
)

const defaultAPIBase = "https://api.twilio.com"

// Sender posts outbound messages to the channel's REST API. With missing
// credentials it is constructed disabled: Send logs and reports an
// error, and the warning is emitted once at startup rather than
// per message.
type Sender struct {
	accountSID string
	authToken  string
	from       string
	apiBase    string
	httpClient *http.Client
	logger     *slog.Logger
}

// NewSender creates a Sender from the channel configuration.
func NewSender(cfg config.TwilioConfig, logger *slog.Logger) *Sender {
	if logger == nil {
		logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	}
	logger = logger.With("component", "whatsapp_sender")

	if cfg.AccountSID == "" || cfg.AuthToken == "" {
		logger.Warn("Twilio credentials not configured, outbound messaging disabled")
	}

	return &Sender{
		accountSID: cfg.AccountSID,
		authToken:  cfg.AuthToken,
		from:       cfg.WhatsAppNumber,
		apiBase:    defaultAPIBase,
		httpClient: &http.Client{Timeout: 30 * time.Second},
		logger:     logger,
	}
}

// Enabled reports whether outbound sends are configured.
func (s *Sender) Enabled() bool {
	return s.accountSID != "" && s.authToken != ""
}

// Send delivers one message to the given number over the WhatsApp
// channel.
func (s *Sender) Send(ctx context.Context, to, body string) error {
	if !s.Enabled() {
		return fmt.Errorf("outbound messaging not configured")
	}

	form := url.Values{}
	form.Set("From", "whatsapp:"+s.from)
	form.Set("To", "whatsapp:"+to)
	form.Set("Body", body)

	endpoint := fmt.Sprintf("%s/2010-04-01/Accounts/%s/Messages.json", s.apiBase, s.accountSID)
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint, strings.NewReader(form.Encode()))
	if err != nil {
		return fmt.Errorf("failed to build send request: %w", err)
	}
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	req.SetBasicAuth(s.accountSID, s.authToken)

	resp, err := s.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("failed to send message: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 300 {
		payload, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return fmt.Errorf("message send rejected with status %d: %s", resp.StatusCode, string(payload))
	}

	s.logger.InfoContext(ctx, "outbound message sent", "to", to, "length", len(body))
	return nil
}
