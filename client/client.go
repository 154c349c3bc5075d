package client

import (
	"bytes"
	"context"
	"io"
	"mime/multipart"
	"net/http"
	"net/url"
	"strconv"

	"github.com/foomo/sitegen/content"
	"github.com/foomo/sitegen/pkg/domains"
	"github.com/foomo/sitegen/pkg/utils"
	"github.com/foomo/sitegen/requests"
	"github.com/foomo/sitegen/responses"
	jsoniter "github.com/json-iterator/go"
	"github.com/pkg/errors"
)

var json = jsoniter.ConfigCompatibleWithStandardLibrary

type (
	// Client a sitegen api client
	Client struct {
		t      transport
		stream *socketTransport
	}
	Option  func(*options)
	options struct {
		httpClient *http.Client
	}
)

// ------------------------------------------------------------------------------------------------
// ~ Constructor
// ------------------------------------------------------------------------------------------------

// NewHTTPClient constructs a new client to talk to the sitegen server at server, e.g. "http://127.0.0.1:8080"
func NewHTTPClient(server string, opts ...Option) (*Client, error) {
	if !utils.IsValidURL(server) {
		return nil, errors.Errorf("invalid server url: %q", server)
	}
	o := &options{httpClient: http.DefaultClient}
	for _, opt := range opts {
		opt(o)
	}
	return &Client{
		t:      NewHTTPTransport(server, o.httpClient),
		stream: newSocketTransport(server),
	}, nil
}

// ------------------------------------------------------------------------------------------------
// ~ Options
// ------------------------------------------------------------------------------------------------

func WithHTTPClient(v *http.Client) Option {
	return func(o *options) {
		if v != nil {
			o.httpClient = v
		}
	}
}

// ------------------------------------------------------------------------------------------------
// ~ Public methods
// ------------------------------------------------------------------------------------------------

// Generate generates and stores a new site
func (c *Client) Generate(ctx context.Context, inputs requests.Generate) (*content.SiteInstance, error) {
	site := &content.SiteInstance{}
	return site, c.callJSON(ctx, http.MethodPost, "/api/generate", inputs, site)
}

// GenerateStream generates a site over the websocket, reporting progress messages
func (c *Client) GenerateStream(ctx context.Context, inputs requests.Generate, progress ProgressFunc) (*content.SiteInstance, error) {
	return c.stream.generate(ctx, inputs, progress)
}

func (c *Client) ListSites(ctx context.Context) ([]*content.SiteInstance, error) {
	var sites []*content.SiteInstance
	if err := c.callJSON(ctx, http.MethodGet, "/api/sites", nil, &sites); err != nil {
		return nil, err
	}
	return sites, nil
}

func (c *Client) GetSite(ctx context.Context, id string) (*content.SiteInstance, error) {
	site := &content.SiteInstance{}
	return site, c.callJSON(ctx, http.MethodGet, sitePath(id, ""), nil, site)
}

// UpdateField edits the field at the dotted path
func (c *Client) UpdateField(ctx context.Context, id, path, value string) (*content.SiteInstance, error) {
	site := &content.SiteInstance{}
	return site, c.callJSON(ctx, http.MethodPost, sitePath(id, "/fields"), requests.UpdateField{Path: path, Value: value}, site)
}

// UploadImage replaces an image field with the given file
func (c *Client) UploadImage(ctx context.Context, id string, field content.TextField, filename string, data []byte) (*content.SiteInstance, error) {
	var body bytes.Buffer
	mw := multipart.NewWriter(&body)
	fw, err := mw.CreateFormFile("file", filename)
	if err != nil {
		return nil, err
	}
	if _, err := fw.Write(data); err != nil {
		return nil, err
	}
	if err := mw.Close(); err != nil {
		return nil, err
	}
	site := &content.SiteInstance{}
	path := sitePath(id, "/images") + "?field=" + url.QueryEscape(string(field))
	return site, c.t.call(ctx, http.MethodPost, path, mw.FormDataContentType(), &body, site)
}

// Deploy publishes the site
func (c *Client) Deploy(ctx context.Context, id string) (*responses.Deploy, error) {
	resp := &responses.Deploy{}
	return resp, c.callJSON(ctx, http.MethodPost, sitePath(id, "/deploy"), nil, resp)
}

func (c *Client) Revisions(ctx context.Context, id string) ([]string, error) {
	resp := &responses.Revisions{}
	if err := c.callJSON(ctx, http.MethodGet, sitePath(id, "/revisions"), nil, resp); err != nil {
		return nil, err
	}
	return resp.Revisions, nil
}

// CheckDomain looks up availability and price of a fully qualified domain
func (c *Client) CheckDomain(ctx context.Context, domain string) (*domains.SearchResult, error) {
	resp := &domains.SearchResult{}
	return resp, c.callJSON(ctx, http.MethodPost, "/api/check-domain", requests.CheckDomain{Domain: domain}, resp)
}

// ListLeads returns captured leads, newest first. A limit of 0 uses the server default.
func (c *Client) ListLeads(ctx context.Context, limit int) ([]*content.Lead, error) {
	path := "/api/leads"
	if limit > 0 {
		path += "?limit=" + strconv.Itoa(limit)
	}
	var leads []*content.Lead
	if err := c.callJSON(ctx, http.MethodGet, path, nil, &leads); err != nil {
		return nil, err
	}
	return leads, nil
}

// Shutdown the transport
func (c *Client) Shutdown() {
	c.t.shutdown()
}

// ------------------------------------------------------------------------------------------------
// ~ Private methods
// ------------------------------------------------------------------------------------------------

func (c *Client) callJSON(ctx context.Context, method, path string, request, response interface{}) error {
	var body io.Reader
	contentType := ""
	if request != nil {
		data, err := json.Marshal(request)
		if err != nil {
			return errors.Wrap(err, "failed to encode request")
		}
		body = bytes.NewReader(data)
		contentType = "application/json"
	}
	return c.t.call(ctx, method, path, contentType, body, response)
}

func sitePath(id, suffix string) string {
	return "/api/sites/" + url.PathEscape(id) + suffix
}
