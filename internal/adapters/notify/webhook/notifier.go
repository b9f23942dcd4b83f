package webhook

import (
	"context"
	"errors"
	"net/http"
	"strings"
	"time"

	"eldercare-reminders/internal/platform/httpclient"
	"eldercare-reminders/internal/ports/notify"
)

type Options struct {
	URL        string
	APIKey     string
	RatePerSec float64
	Timeout    time.Duration
	// Transport solo para tests
	Transport http.RoundTripper
}

// Notifier hace POST del aviso en JSON a un endpoint externo (push gateway, SMS, etc).
type Notifier struct {
	client *httpclient.Client
	url    string
	apiKey string
}

func New(opts Options) (*Notifier, error) {
	u := strings.TrimSpace(opts.URL)
	if u == "" {
		return nil, errors.New("webhook: url is required")
	}
	c, err := httpclient.New(httpclient.Options{
		BaseURL:    u,
		Timeout:    opts.Timeout,
		RatePerSec: opts.RatePerSec,
		Burst:      1,
		Transport:  opts.Transport,
	})
	if err != nil {
		return nil, err
	}
	return &Notifier{client: c, url: u, apiKey: opts.APIKey}, nil
}

type payload struct {
	Kind  string    `json:"kind"`
	RefID string    `json:"ref_id"`
	Title string    `json:"title"`
	Body  string    `json:"body"`
	At    time.Time `json:"at"`
}

func (n *Notifier) Notify(ctx context.Context, r notify.Reminder) error {
	headers := map[string]string{}
	if n.apiKey != "" {
		headers["X-API-Key"] = n.apiKey
	}
	return n.client.DoJSON(ctx, http.MethodPost, n.url, headers, payload{
		Kind:  string(r.Kind),
		RefID: r.RefID,
		Title: r.Title,
		Body:  r.Body,
		At:    r.At,
	}, nil)
}
