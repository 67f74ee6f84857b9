package notify

import (
	"context"
	"fmt"
	"time"

	"github.com/avasalony-boop/policy-tracker/pkg/logger"
	"github.com/go-resty/resty/v2"
	"github.com/sethvargo/go-retry"
)

const (
	slackTimeout     = 10 * time.Second
	slackMaxAttempts = 3
	slackBackoffBase = 500 * time.Millisecond
)

// SlackWebhook posts messages to a Slack incoming webhook. Transient failures
// are retried with fibonacci backoff; the caller sees only the final error.
type SlackWebhook struct {
	client *resty.Client
	url    string
}

func NewSlackWebhook(url string) *SlackWebhook {
	return &SlackWebhook{
		client: resty.New().SetTimeout(slackTimeout),
		url:    url,
	}
}

func (s *SlackWebhook) Send(ctx context.Context, msg *Message) error {
	backoff := retry.WithMaxRetries(slackMaxAttempts-1, retry.NewFibonacci(slackBackoffBase))
	err := retry.Do(ctx, backoff, func(ctx context.Context) error {
		resp, err := s.client.R().
			SetContext(ctx).
			SetHeader("Content-Type", "application/json").
			SetBody(msg).
			Post(s.url)
		if err != nil {
			return retry.RetryableError(err)
		}
		if resp.IsError() {
			if resp.StatusCode() >= 500 || resp.StatusCode() == 429 {
				return retry.RetryableError(fmt.Errorf("slack webhook: %s", resp.Status()))
			}
			return fmt.Errorf("slack webhook: %s", resp.Status())
		}
		return nil
	})
	if err != nil {
		return fmt.Errorf("posting to slack webhook: %w", err)
	}
	return nil
}

// NopSender drops every message with a log line. Used when no webhook URL is
// configured so runs still complete.
type NopSender struct{}

func (NopSender) Send(ctx context.Context, msg *Message) error {
	logger.FromContext(ctx).Warn("No webhook URL configured, dropping notification", "text", msg.Text)
	return nil
}

// NewSender returns the Slack webhook sender for url, or a NopSender when
// url is empty.
func NewSender(url string) Sender {
	if url == "" {
		return NopSender{}
	}
	return NewSlackWebhook(url)
}
