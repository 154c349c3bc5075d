package vendorapi

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"

	"github.com/foomo/sitegen/pkg/metrics"
	jsoniter "github.com/json-iterator/go"
	"github.com/pkg/errors"
	"go.uber.org/zap"
)

var json = jsoniter.ConfigCompatibleWithStandardLibrary

// ErrNotConfigured the credentials for a vendor are missing
var ErrNotConfigured = errors.New("not configured")

const maxErrorMessageLength = 512

type (
	// Client performs authenticated JSON requests against a vendor REST API
	Client struct {
		l          *zap.Logger
		service    string
		baseURL    string
		httpClient *http.Client
		header     http.Header
	}
	Option func(*Client)
	// Error non success response of a vendor API
	Error struct {
		Service    string
		StatusCode int
		Message    string
	}
)

// ------------------------------------------------------------------------------------------------
// ~ Constructor
// ------------------------------------------------------------------------------------------------

func New(l *zap.Logger, service, baseURL string, opts ...Option) *Client {
	inst := &Client{
		l:          l.Named(service),
		service:    service,
		baseURL:    baseURL,
		httpClient: http.DefaultClient,
		header:     http.Header{},
	}

	for _, opt := range opts {
		opt(inst)
	}

	return inst
}

// ------------------------------------------------------------------------------------------------
// ~ Options
// ------------------------------------------------------------------------------------------------

func WithHTTPClient(v *http.Client) Option {
	return func(o *Client) {
		if v != nil {
			o.httpClient = v
		}
	}
}

func WithHeader(key, value string) Option {
	return func(o *Client) {
		o.header.Set(key, value)
	}
}

func WithBearerToken(v string) Option {
	return WithHeader("Authorization", "Bearer "+v)
}

// ------------------------------------------------------------------------------------------------
// ~ Public methods
// ------------------------------------------------------------------------------------------------

func (e *Error) Error() string {
	return fmt.Sprintf("%s: status %d: %s", e.Service, e.StatusCode, e.Message)
}

// NotConfigured returns an ErrNotConfigured wrapped with the missing setting
func NotConfigured(setting string) error {
	return errors.Wrap(ErrNotConfigured, setting+" not set")
}

// StatusCode returns the vendor status code of err or 0
func StatusCode(err error) int {
	var vendorErr *Error
	if errors.As(err, &vendorErr) {
		return vendorErr.StatusCode
	}
	return 0
}

// JSON sends body as JSON and decodes the response into out
func (c *Client) JSON(ctx context.Context, method, path string, query url.Values, body, out interface{}) error {
	var reader io.Reader
	if body != nil {
		data, err := json.Marshal(body)
		if err != nil {
			return errors.Wrap(err, "failed to encode request")
		}
		reader = bytes.NewReader(data)
	}
	req, err := c.newRequest(ctx, method, path, query, reader)
	if err != nil {
		return err
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	return c.do(req, out)
}

// ------------------------------------------------------------------------------------------------
// ~ Private methods
// ------------------------------------------------------------------------------------------------

func (c *Client) newRequest(ctx context.Context, method, path string, query url.Values, body io.Reader) (*http.Request, error) {
	// an empty path targets the base url unmodified, e.g. webhooks ending in a slash
	u := c.baseURL
	if path != "" {
		u = strings.TrimSuffix(u, "/") + path
	}
	if len(query) > 0 {
		u += "?" + query.Encode()
	}
	req, err := http.NewRequestWithContext(ctx, method, u, body)
	if err != nil {
		return nil, errors.Wrap(err, "failed to create request")
	}
	for key, values := range c.header {
		for _, value := range values {
			req.Header.Add(key, value)
		}
	}
	req.Header.Set("Accept", "application/json")
	return req, nil
}

func (c *Client) do(req *http.Request, out interface{}) error {
	resp, err := c.httpClient.Do(req)
	if err != nil {
		return errors.Wrapf(err, "%s request failed", c.service)
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return errors.Wrapf(err, "failed to read %s response", c.service)
	}

	if resp.StatusCode < http.StatusOK || resp.StatusCode >= http.StatusMultipleChoices {
		vendorErr := &Error{
			Service:    c.service,
			StatusCode: resp.StatusCode,
			Message:    errorMessage(data, resp.Status),
		}
		metrics.VendorErrorCounter.WithLabelValues(c.service).Inc()
		c.l.Debug("request failed",
			zap.String("method", req.Method),
			zap.String("path", req.URL.Path),
			zap.Int("status", resp.StatusCode),
			zap.String("message", vendorErr.Message),
		)
		return vendorErr
	}

	if out == nil || len(data) == 0 {
		return nil
	}
	if err := json.Unmarshal(data, out); err != nil {
		return errors.Wrapf(err, "failed to decode %s response", c.service)
	}
	return nil
}

// errorMessage extracts a human readable message from the common vendor error shapes
// {"error":{"message":"..."}}, {"error":"..."} and {"message":"..."}
func errorMessage(data []byte, status string) string {
	var body struct {
		Error   jsoniter.RawMessage `json:"error"`
		Message string              `json:"message"`
	}
	if err := json.Unmarshal(data, &body); err == nil {
		if len(body.Error) > 0 {
			var nested struct {
				Message string `json:"message"`
			}
			if err := json.Unmarshal(body.Error, &nested); err == nil && nested.Message != "" {
				return nested.Message
			}
			var plain string
			if err := json.Unmarshal(body.Error, &plain); err == nil && plain != "" {
				return plain
			}
		}
		if body.Message != "" {
			return body.Message
		}
	}
	msg := strings.TrimSpace(string(data))
	if msg == "" {
		return status
	}
	if len(msg) > maxErrorMessageLength {
		msg = msg[:maxErrorMessageLength]
	}
	return msg
}
