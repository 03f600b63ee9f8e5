// Package history provides the outbound HTTP delivery of audit events.
package history

import (
	"context"
	"time"

	"github.com/go-resty/resty/v2"

	"stocktrack/internal/domain/history"
	"stocktrack/pkg/logger"
)

var _ history.Notifier = (*Client)(nil)

// ClientConfig holds history client configuration.
type ClientConfig struct {
	// URL is the history service endpoint events are POSTed to
	URL string

	// Timeout bounds a single delivery attempt (default 5s)
	Timeout time.Duration
}

// Client delivers audit events to the history service.
//
// Delivery is fire-and-forget: each event is sent from its own goroutine
// with no retry and no acknowledgment wait. Transport failures are logged
// and swallowed; they are invisible to the mutation path.
type Client struct {
	url  string
	http *resty.Client
}

// NewClient creates a new history client.
func NewClient(cfg ClientConfig) *Client {
	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = 5 * time.Second
	}

	return &Client{
		url:  cfg.URL,
		http: resty.New().SetTimeout(timeout),
	}
}

// Notify implements history.Notifier.
// Returns immediately; the POST happens in the background with its own
// context so caller cancellation cannot abort an already-committed event.
func (c *Client) Notify(ctx context.Context, event history.Event) {
	go c.deliver(logger.FromContext(ctx), event)
}

func (c *Client) deliver(log *logger.Logger, event history.Event) {
	ctx, cancel := context.WithTimeout(context.Background(), c.http.GetClient().Timeout)
	defer cancel()

	resp, err := c.http.R().
		SetContext(ctx).
		SetHeader("Content-Type", "application/json").
		SetBody(event).
		Post(c.url)
	if err != nil {
		log.Warnw("history notification failed",
			"action", event.Action,
			"plu", event.PLU,
			"error", err,
		)
		return
	}

	if resp.IsError() {
		log.Warnw("history service rejected event",
			"action", event.Action,
			"plu", event.PLU,
			"status", resp.StatusCode(),
		)
	}
}
