package leads

import (
	"context"
	"net/http"
	"time"

	"github.com/foomo/sitegen/content"
	"github.com/foomo/sitegen/pkg/metrics"
	"github.com/foomo/sitegen/pkg/utils"
	"github.com/foomo/sitegen/pkg/vendorapi"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

const (
	targetStore   = "store"
	targetWebhook = "webhook"
)

type (
	// Capturer records generator submissions as leads. Capturing never fails the caller.
	Capturer struct {
		l          *zap.Logger
		store      *Store
		webhookURL string
		httpClient *http.Client
		source     string
		now        func() time.Time
	}
	CapturerOption func(*Capturer)
	// webhookPayload the submitted inputs plus capture metadata
	webhookPayload struct {
		content.GeneratorInputs
		Timestamp string `json:"timestamp"`
		Source    string `json:"source"`
	}
)

// ------------------------------------------------------------------------------------------------
// ~ Constructor
// ------------------------------------------------------------------------------------------------

func NewCapturer(l *zap.Logger, opts ...CapturerOption) *Capturer {
	inst := &Capturer{
		l:      l.Named("leads"),
		source: "sitegen",
		now:    time.Now,
	}

	for _, opt := range opts {
		opt(inst)
	}

	if inst.webhookURL != "" && !utils.IsValidURL(inst.webhookURL) {
		inst.l.Warn("ignoring invalid lead webhook url", zap.String("url", inst.webhookURL))
		inst.webhookURL = ""
	}

	return inst
}

// ------------------------------------------------------------------------------------------------
// ~ Options
// ------------------------------------------------------------------------------------------------

func WithStore(v *Store) CapturerOption {
	return func(o *Capturer) {
		o.store = v
	}
}

func WithWebhookURL(v string) CapturerOption {
	return func(o *Capturer) {
		o.webhookURL = v
	}
}

func WithHTTPClient(v *http.Client) CapturerOption {
	return func(o *Capturer) {
		o.httpClient = v
	}
}

func WithSource(v string) CapturerOption {
	return func(o *Capturer) {
		if v != "" {
			o.source = v
		}
	}
}

func WithClock(v func() time.Time) CapturerOption {
	return func(o *Capturer) {
		o.now = v
	}
}

// ------------------------------------------------------------------------------------------------
// ~ Public methods
// ------------------------------------------------------------------------------------------------

// Capture persists the lead and forwards it to the webhook.
// Failures and skipped targets are logged and counted.
func (c *Capturer) Capture(ctx context.Context, inputs content.GeneratorInputs) {
	now := c.now()
	lead := content.NewLead(uuid.NewString(), inputs, now.UTC())
	l := c.l.With(zap.String("lead", lead.ID), zap.String("company", inputs.CompanyName))

	if c.store == nil {
		metrics.LeadCaptureFailedCounter.WithLabelValues(targetStore).Inc()
		l.Debug("lead store skipped: no database configured")
	} else if err := c.store.Insert(ctx, lead); err != nil {
		metrics.LeadCaptureFailedCounter.WithLabelValues(targetStore).Inc()
		l.Warn("failed to store lead", zap.Error(err))
	} else {
		l.Debug("lead stored")
	}

	if c.webhookURL == "" {
		metrics.LeadCaptureFailedCounter.WithLabelValues(targetWebhook).Inc()
		l.Warn("lead webhook skipped: LEAD_WEBHOOK_URL not set")
		return
	}

	client := vendorapi.New(c.l, targetWebhook, c.webhookURL, vendorapi.WithHTTPClient(c.httpClient))
	payload := webhookPayload{
		GeneratorInputs: inputs,
		Timestamp:       now.UTC().Format("2006-01-02T15:04:05.000Z"),
		Source:          c.source,
	}
	if err := client.JSON(ctx, http.MethodPost, "", nil, payload, nil); err != nil {
		metrics.LeadCaptureFailedCounter.WithLabelValues(targetWebhook).Inc()
		l.Warn("failed to send lead to webhook", zap.Error(err))
		return
	}
	l.Info("lead captured via webhook")
}

// List returns stored leads, newest first
func (c *Capturer) List(ctx context.Context, limit int) ([]*content.Lead, error) {
	if c.store == nil {
		return []*content.Lead{}, nil
	}
	return c.store.List(ctx, limit)
}
