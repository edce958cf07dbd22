// Package notify provides a webhook client for newsroom operations alerts.
package notify

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/bylinehq/integrity-engine/internal/config"
	"github.com/bylinehq/integrity-engine/pkg/logger"
)

// Client handles outbound webhook notifications.
type Client struct {
	webhookURL string
	channel    string
	enabled    bool
	httpClient *http.Client
	log        *logger.Logger
}

// NewClient creates a new notification client.
func NewClient(cfg *config.NotificationsConfig, log *logger.Logger) *Client {
	return &Client{
		webhookURL: cfg.WebhookURL,
		channel:    cfg.Channel,
		enabled:    cfg.Enabled,
		httpClient: http.DefaultClient,
		log:        log,
	}
}

// Message represents a webhook message payload.
type Message struct {
	Channel  string `json:"channel,omitempty"`
	Username string `json:"username,omitempty"`
	Text     string `json:"text,omitempty"`
	IconURL  string `json:"icon_url,omitempty"`
}

// SendMessage sends a message to the configured webhook.
func (c *Client) SendMessage(msg *Message) error {
	if !c.enabled {
		c.log.Debug().Msg("Notifications are disabled, skipping message")
		return nil
	}

	if msg.Channel == "" {
		msg.Channel = c.channel
	}

	payload, err := json.Marshal(msg)
	if err != nil {
		return fmt.Errorf("failed to marshal message: %w", err)
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	req, err := http.NewRequestWithContext(ctx, "POST", c.webhookURL, bytes.NewBuffer(payload))
	if err != nil {
		return fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("failed to send webhook message: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("webhook returned status %d", resp.StatusCode)
	}

	c.log.Debug().
		Str("channel", msg.Channel).
		Msg("Sent webhook message")

	return nil
}

// SendSimpleMessage sends a simple text message.
func (c *Client) SendSimpleMessage(text string) error {
	return c.SendMessage(&Message{
		Text: text,
	})
}

// SendRevenueRunSummary announces a completed monthly revenue run.
func (c *Client) SendRevenueRunSummary(period string, pool float64, contributors int, gini float64) error {
	if !c.enabled {
		return nil
	}

	text := fmt.Sprintf("### 💰 Revenue Run Complete: %s\n\n", period)
	text += fmt.Sprintf("- Pool: **$%.2f**\n", pool)
	text += fmt.Sprintf("- Contributors paid out: **%d**\n", contributors)
	text += fmt.Sprintf("- Gini coefficient: **%.3f**\n", gini)

	if contributors == 0 {
		text += "\n_No eligible contributors this period._"
	}

	return c.SendMessage(&Message{
		Username: "Revenue Bot",
		Text:     text,
	})
}

// SendRevenueRunFailure alerts that the scheduled revenue run did not complete.
func (c *Client) SendRevenueRunFailure(period string, runErr error) error {
	if !c.enabled {
		return nil
	}

	text := fmt.Sprintf("### ⚠️ Revenue Run Failed: %s\n\n`%v`\n\n_Entries were not generated; rerun manually once resolved._", period, runErr)

	return c.SendMessage(&Message{
		Username: "Revenue Bot",
		Text:     text,
	})
}

// SendEditorialHoldAlert notifies editors that an article assessment advised
// holding publication.
func (c *Client) SendEditorialHoldAlert(articleID uint, title, riskLevel string, reasons []string) error {
	if !c.enabled {
		return nil
	}

	text := fmt.Sprintf("### 🛑 Editorial Hold Advised\n\n**%s** (article %d) was assessed **%s** risk:\n\n", title, articleID, strings.ToUpper(riskLevel))
	for _, reason := range reasons {
		text += fmt.Sprintf("• %s\n", reason)
	}
	text += "\n_Please review sourcing before publication._"

	return c.SendMessage(&Message{
		Username: "Integrity Bot",
		Text:     text,
	})
}
