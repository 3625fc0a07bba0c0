package notify

import (
	"bytes"
	"context"
	"encoding/json"
	"log/slog"
	"net/http"
	"time"

	"contractflow/types"
)

// Event describes a completed workflow action. Events are informational only:
// delivery failure must never roll back the transition that produced them.
type Event struct {
	Type       string       `json:"type"` // assigned, analyzed, approved, rejected
	ContractID string       `json:"contract_id"`
	ActorID    string       `json:"actor_id"`
	Status     types.Status `json:"status"`
	OccurredAt time.Time    `json:"occurred_at"`
}

// Notifier delivers workflow events to the external notification/counter
// services.
type Notifier interface {
	Notify(ctx context.Context, ev Event)
}

// Webhook POSTs events to a configured endpoint, fire-and-forget.
type Webhook struct {
	url    string
	client *http.Client
}

func NewWebhook(url string) *Webhook {
	return &Webhook{
		url: url,
		client: &http.Client{
			Timeout: 10 * time.Second,
		},
	}
}

func (w *Webhook) Notify(ctx context.Context, ev Event) {
	body, err := json.Marshal(ev)
	if err != nil {
		slog.Warn("notify: marshal event failed", "err", err)
		return
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, w.url, bytes.NewReader(body))
	if err != nil {
		slog.Warn("notify: build request failed", "err", err)
		return
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := w.client.Do(req)
	if err != nil {
		slog.Warn("notify: delivery failed", "type", ev.Type, "contract", ev.ContractID, "err", err)
		return
	}
	defer resp.Body.Close()
	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		slog.Warn("notify: endpoint rejected event", "type", ev.Type, "status", resp.StatusCode)
	}
}

// Noop drops every event. Used when NOTIFY_URL is not configured and in tests.
type Noop struct{}

func (Noop) Notify(context.Context, Event) {}

// FromConfig picks the webhook notifier when a URL is configured.
func FromConfig(url string) Notifier {
	if url == "" {
		return Noop{}
	}
	return NewWebhook(url)
}
