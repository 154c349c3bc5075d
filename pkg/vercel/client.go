package vercel

import (
	"context"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/foomo/sitegen/pkg/vendorapi"
	"github.com/pkg/errors"
	"go.uber.org/zap"
)

const DefaultBaseURL = "https://api.vercel.com"

type (
	// Client for the hosting and domain registrar api
	Client struct {
		l          *zap.Logger
		token      string
		teamID     string
		baseURL    string
		httpClient *http.Client
		now        func() time.Time
		api        *vendorapi.Client
	}
	Option func(*Client)
	// Price registrar price quote in USD
	Price struct {
		Price        float64
		RenewalPrice float64
	}
	// File a single file of a deployment
	File struct {
		Name string
		Data string
	}
	Deployment struct {
		ID  string `json:"id"`
		URL string `json:"url"`
	}
)

// ------------------------------------------------------------------------------------------------
// ~ Constructor
// ------------------------------------------------------------------------------------------------

func New(l *zap.Logger, token string, opts ...Option) *Client {
	inst := &Client{
		l:       l.Named("vercel"),
		token:   token,
		baseURL: DefaultBaseURL,
		now:     time.Now,
	}

	for _, opt := range opts {
		opt(inst)
	}

	inst.api = vendorapi.New(inst.l, "vercel", inst.baseURL,
		vendorapi.WithHTTPClient(inst.httpClient),
		vendorapi.WithBearerToken(token),
	)

	return inst
}

// ------------------------------------------------------------------------------------------------
// ~ Options
// ------------------------------------------------------------------------------------------------

func WithTeamID(v string) Option {
	return func(o *Client) {
		o.teamID = v
	}
}

func WithBaseURL(v string) Option {
	return func(o *Client) {
		o.baseURL = v
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

// Availability reports whether domain can be registered
func (c *Client) Availability(ctx context.Context, domain string) (bool, error) {
	if err := c.configured(); err != nil {
		return false, err
	}
	var resp struct {
		Available bool `json:"available"`
	}
	if err := c.api.JSON(ctx, http.MethodGet, registrarPath(domain, "availability"), nil, nil, &resp); err != nil {
		return false, err
	}
	return resp.Available, nil
}

// Price fetches the current registration and renewal price of domain
func (c *Client) Price(ctx context.Context, domain string) (*Price, error) {
	if err := c.configured(); err != nil {
		return nil, err
	}
	var resp struct {
		Price        *float64 `json:"price"`
		Registration *float64 `json:"registration"`
		Renewal      *float64 `json:"renewal"`
	}
	if err := c.api.JSON(ctx, http.MethodGet, registrarPath(domain, "price"), nil, nil, &resp); err != nil {
		return nil, err
	}
	price := first(resp.Price, resp.Registration)
	if price == nil {
		return nil, errors.Errorf("no price returned for %s", domain)
	}
	ret := &Price{Price: *price, RenewalPrice: *price}
	if renewal := first(resp.Renewal, resp.Price); renewal != nil {
		ret.RenewalPrice = *renewal
	}
	return ret, nil
}

// Buy registers domain for one year with auto renewal at the expected price and returns the order id
func (c *Client) Buy(ctx context.Context, domain string, expectedPrice float64) (string, error) {
	if err := c.configured(); err != nil {
		return "", err
	}
	req := map[string]interface{}{
		"expectedPrice": expectedPrice,
		"autoRenew":     true,
		"years":         1,
	}
	var resp struct {
		OrderID string `json:"orderId"`
		ID      string `json:"id"`
	}
	if err := c.api.JSON(ctx, http.MethodPost, registrarPath(domain, "buy"), nil, req, &resp); err != nil {
		return "", errors.Wrap(err, "domain purchase failed")
	}
	switch {
	case resp.OrderID != "":
		return resp.OrderID, nil
	case resp.ID != "":
		return resp.ID, nil
	default:
		return "order_" + strconv.FormatInt(c.now().UnixMilli(), 10), nil
	}
}

// AddProjectDomain attaches domain to the hosting project
func (c *Client) AddProjectDomain(ctx context.Context, project, domain string) error {
	if err := c.configured(); err != nil {
		return err
	}
	path := "/v10/projects/" + url.PathEscape(project) + "/domains"
	return c.api.JSON(ctx, http.MethodPost, path, c.teamQuery(), map[string]string{"name": domain}, nil)
}

// Deploy publishes files as a production deployment of project
func (c *Client) Deploy(ctx context.Context, project string, files []File) (*Deployment, error) {
	if err := c.configured(); err != nil {
		return nil, err
	}
	type deploymentFile struct {
		File     string `json:"file"`
		Data     string `json:"data"`
		Encoding string `json:"encoding"`
	}
	req := struct {
		Name   string           `json:"name"`
		Files  []deploymentFile `json:"files"`
		Target string           `json:"target"`
	}{
		Name:   project,
		Target: "production",
	}
	for _, f := range files {
		req.Files = append(req.Files, deploymentFile{File: f.Name, Data: f.Data, Encoding: "utf-8"})
	}
	resp := &Deployment{}
	if err := c.api.JSON(ctx, http.MethodPost, "/v13/deployments", c.teamQuery(), req, resp); err != nil {
		return nil, errors.Wrap(err, "deployment failed")
	}
	if resp.URL != "" && !strings.HasPrefix(resp.URL, "http") {
		resp.URL = "https://" + resp.URL
	}
	c.l.Info("deployment created", zap.String("project", project), zap.String("id", resp.ID), zap.String("url", resp.URL))
	return resp, nil
}

// ProjectName derives a stable project name for a site
func ProjectName(companyName, siteID string) string {
	var b strings.Builder
	lastDash := true
	for _, r := range strings.ToLower(companyName) {
		switch {
		case r >= 'a' && r <= 'z', r >= '0' && r <= '9':
			b.WriteRune(r)
			lastDash = false
		case !lastDash:
			b.WriteByte('-')
			lastDash = true
		}
		if b.Len() >= 40 {
			break
		}
	}
	name := strings.Trim(b.String(), "-")
	if name == "" {
		name = "site"
	}
	suffix := strings.ReplaceAll(siteID, "-", "")
	if len(suffix) > 8 {
		suffix = suffix[:8]
	}
	if suffix == "" {
		return name
	}
	return name + "-" + suffix
}

// ------------------------------------------------------------------------------------------------
// ~ Private methods
// ------------------------------------------------------------------------------------------------

func (c *Client) configured() error {
	if c.token == "" {
		return vendorapi.NotConfigured("VERCEL_TOKEN")
	}
	return nil
}

func (c *Client) teamQuery() url.Values {
	if c.teamID == "" {
		return nil
	}
	return url.Values{"teamId": {c.teamID}}
}

func registrarPath(domain, action string) string {
	return "/v1/registrar/domains/" + url.PathEscape(domain) + "/" + action
}

func first(values ...*float64) *float64 {
	for _, v := range values {
		if v != nil && *v != 0 {
			return v
		}
	}
	return nil
}
