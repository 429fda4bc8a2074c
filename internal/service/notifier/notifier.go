package notifier

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/oshokin/miner-runner/internal/logger"
)

const (
	// ColorAnnounce is the embed color for new-artifact announcements.
	ColorAnnounce = "3dbd6e"
	// ColorError is the embed color for failure reports.
	ColorError = "bd3d3d"
)

// Event is a transient notification value: constructed, dispatched once and
// never stored.
type Event struct {
	// Title is the embed title.
	Title string
	// Body is the embed description.
	Body string
	// Color is a hex string selecting the embed accent, e.g. "bd3d3d".
	Color string
}

// payload is the webhook request body.
type payload struct {
	Embeds []embed `json:"embeds"`
}

// embed is a single Discord embed object.
type embed struct {
	Title       string `json:"title"`
	Color       int64  `json:"color"`
	Description string `json:"description"`
	Timestamp   string `json:"timestamp"`
}

// Webhook posts events to webhook endpoints.
type Webhook struct {
	// client performs the outbound POST requests.
	client *http.Client
	// now supplies the embed timestamp.
	now func() time.Time
}

// NewWebhook creates a notifier whose delivery attempts are bounded by the
// provided timeout.
func NewWebhook(timeout time.Duration) *Webhook {
	return &Webhook{
		client: &http.Client{Timeout: timeout},
		now:    time.Now,
	}
}

// Notify posts the event to the endpoint. An empty endpoint disables the
// channel and issues no network call at all. The response status is not
// inspected and delivery is never retried.
func (w *Webhook) Notify(ctx context.Context, endpoint string, event Event) {
	if endpoint == "" {
		return
	}

	body, err := json.Marshal(payload{
		Embeds: []embed{
			{
				Title:       event.Title,
				Color:       parseColor(event.Color),
				Description: event.Body,
				Timestamp:   w.now().UTC().Format(time.RFC3339),
			},
		},
	})
	if err != nil {
		logger.ErrorKV(ctx, "Encode notification failed", "error", err)
		return
	}

	request, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint, bytes.NewReader(body))
	if err != nil {
		logger.ErrorKV(ctx, "Build notification request failed", "error", err)
		return
	}

	request.Header.Set("Content-Type", "application/json")

	response, err := w.client.Do(request)
	if err != nil {
		logger.WarnKV(ctx, "Notification delivery failed", "endpoint", endpoint, "error", err)
		return
	}

	// Drain so the connection can be reused; the status is deliberately ignored.
	_, _ = io.Copy(io.Discard, response.Body)
	_ = response.Body.Close()

	logger.DebugKV(ctx, "Notification delivered", "title", event.Title)
}

// parseColor converts a hex color string to the integer form Discord
// expects. Unparseable values fall back to 0 (no accent).
func parseColor(color string) int64 {
	value, err := strconv.ParseInt(strings.TrimPrefix(color, "#"), 16, 64)
	if err != nil {
		return 0
	}

	return value
}
