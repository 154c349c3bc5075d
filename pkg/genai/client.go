package genai

import (
	"context"
	"encoding/base64"
	"net/http"
	"strings"

	"github.com/foomo/sitegen/pkg/metrics"
	"github.com/foomo/sitegen/pkg/vendorapi"
	"github.com/pkg/errors"
	"go.uber.org/zap"
	googleai "google.golang.org/genai"
)

const (
	DefaultBaseURL    = "https://generativelanguage.googleapis.com/"
	DefaultTextModel  = "gemini-3-flash-preview"
	DefaultImageModel = "gemini-2.5-flash-image"
)

const service = "genai"

// ErrNoImage the response did not contain inline image data
var ErrNoImage = errors.New("response contains no image")

type (
	// Client talks to the generative language api through the google genai sdk
	Client struct {
		l          *zap.Logger
		apiKey     string
		baseURL    string
		httpClient *http.Client
		models     *googleai.Models
	}
	Option func(*Client)
	// Image inline image data as returned by the API
	Image struct {
		MIMEType string
		// Data base64 encoded image bytes
		Data string
	}
)

// ------------------------------------------------------------------------------------------------
// ~ Constructor
// ------------------------------------------------------------------------------------------------

// New creates a client. Without an api key every call fails with vendorapi.ErrNotConfigured.
func New(l *zap.Logger, apiKey string, opts ...Option) (*Client, error) {
	inst := &Client{
		l:       l.Named("genai"),
		apiKey:  apiKey,
		baseURL: DefaultBaseURL,
	}

	for _, opt := range opts {
		opt(inst)
	}

	if apiKey == "" {
		return inst, nil
	}

	client, err := googleai.NewClient(context.Background(), &googleai.ClientConfig{
		APIKey:     apiKey,
		Backend:    googleai.BackendGeminiAPI,
		HTTPClient: inst.httpClient,
		HTTPOptions: googleai.HTTPOptions{
			BaseURL: inst.baseURL,
		},
	})
	if err != nil {
		return nil, errors.Wrap(err, "failed to create genai client")
	}
	inst.models = client.Models

	return inst, nil
}

// ------------------------------------------------------------------------------------------------
// ~ Options
// ------------------------------------------------------------------------------------------------

func WithBaseURL(v string) Option {
	return func(o *Client) {
		if v != "" {
			o.baseURL = strings.TrimSuffix(v, "/") + "/"
		}
	}
}

func WithHTTPClient(v *http.Client) Option {
	return func(o *Client) {
		o.httpClient = v
	}
}

// ------------------------------------------------------------------------------------------------
// ~ Public methods
// ------------------------------------------------------------------------------------------------

// GenerateJSON requests structured output conforming to schema and returns the raw response text
func (c *Client) GenerateJSON(ctx context.Context, model, prompt string, schema *googleai.Schema) (string, error) {
	resp, err := c.generate(ctx, model, prompt, &googleai.GenerateContentConfig{
		ResponseMIMEType: "application/json",
		ResponseSchema:   schema,
	})
	if err != nil {
		return "", err
	}

	if len(resp.Candidates) == 0 || resp.Candidates[0].Content == nil {
		return "", nil
	}
	var b strings.Builder
	for _, p := range resp.Candidates[0].Content.Parts {
		if p == nil || p.Thought {
			continue
		}
		b.WriteString(p.Text)
	}
	return b.String(), nil
}

// GenerateImage requests a single image for prompt
func (c *Client) GenerateImage(ctx context.Context, model, prompt string) (*Image, error) {
	resp, err := c.generate(ctx, model, prompt, nil)
	if err != nil {
		return nil, err
	}

	for _, candidate := range resp.Candidates {
		if candidate.Content == nil {
			continue
		}
		for _, p := range candidate.Content.Parts {
			if p == nil || p.InlineData == nil || len(p.InlineData.Data) == 0 {
				continue
			}
			mimeType := p.InlineData.MIMEType
			if mimeType == "" {
				mimeType = "image/png"
			}
			return &Image{MIMEType: mimeType, Data: base64.StdEncoding.EncodeToString(p.InlineData.Data)}, nil
		}
	}
	return nil, ErrNoImage
}

// DataURI returns the image as a data URI
func (i *Image) DataURI() string {
	return "data:" + i.MIMEType + ";base64," + i.Data
}

// ------------------------------------------------------------------------------------------------
// ~ Private methods
// ------------------------------------------------------------------------------------------------

func (c *Client) generate(ctx context.Context, model, prompt string, config *googleai.GenerateContentConfig) (*googleai.GenerateContentResponse, error) {
	if c.models == nil {
		return nil, vendorapi.NotConfigured("GEMINI_API_KEY")
	}
	resp, err := c.models.GenerateContent(ctx, model, googleai.Text(prompt), config)
	if err != nil {
		err = vendorError(err)
		metrics.VendorErrorCounter.WithLabelValues(service).Inc()
		c.l.Debug("generate content failed", zap.String("model", model), zap.Error(err))
		return nil, err
	}
	return resp, nil
}

// vendorError converts sdk api errors so callers see the provider status and message
func vendorError(err error) error {
	var apiErr googleai.APIError
	if errors.As(err, &apiErr) {
		return &vendorapi.Error{Service: service, StatusCode: apiErr.Code, Message: apiErr.Message}
	}
	var apiErrPtr *googleai.APIError
	if errors.As(err, &apiErrPtr) && apiErrPtr != nil {
		return &vendorapi.Error{Service: service, StatusCode: apiErrPtr.Code, Message: apiErrPtr.Message}
	}
	return err
}
