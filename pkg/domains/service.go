package domains

import (
	"context"
	"strconv"
	"strings"
	"time"

	"github.com/foomo/sitegen/content"
	"github.com/foomo/sitegen/pkg/billing"
	"github.com/foomo/sitegen/pkg/metrics"
	"github.com/foomo/sitegen/pkg/vercel"
	jsoniter "github.com/json-iterator/go"
	"github.com/pkg/errors"
	"go.uber.org/zap"
)

var json = jsoniter.ConfigCompatibleWithStandardLibrary

const (
	Currency = "gbp"
	// MetadataTypeDomainPurchase marks checkout sessions created for domain purchases
	MetadataTypeDomainPurchase = "domain_purchase"
)

var (
	ErrInvalidRequest    = errors.New("invalid request")
	ErrPaymentIncomplete = errors.New("Payment not completed")                              //nolint:revive,stylecheck
	ErrMissingMetadata   = errors.New("Missing domain or project info in session metadata") //nolint:revive,stylecheck
)

type (
	// Registrar checks, prices, buys and attaches domains
	Registrar interface {
		Availability(ctx context.Context, domain string) (bool, error)
		Price(ctx context.Context, domain string) (*vercel.Price, error)
		Buy(ctx context.Context, domain string, expectedPrice float64) (string, error)
		AddProjectDomain(ctx context.Context, project, domain string) error
	}
	// Payments creates and verifies checkout sessions
	Payments interface {
		TestMode() bool
		CreateCheckoutSession(ctx context.Context, p billing.CheckoutParams) (*billing.Session, error)
		GetCheckoutSession(ctx context.Context, id string) (*billing.Session, error)
		CreatePortalSession(ctx context.Context, customerID, returnURL string) (string, error)
	}
	// SiteRecorder stores a purchased domain on its site instance
	SiteRecorder interface {
		AttachDomain(ctx context.Context, id, domain, orderID string) (*content.SiteInstance, error)
	}
	Service struct {
		l         *zap.Logger
		registrar Registrar
		payments  Payments
		sites     SiteRecorder
		now       func() time.Time
	}
	Option func(*Service)
	// SearchResult availability and pricing of a domain. Prices are only set for available domains.
	SearchResult struct {
		Available           bool     `json:"available"`
		Domain              string   `json:"domain"`
		Price               *float64 `json:"price"`
		RenewalPrice        *float64 `json:"renewalPrice"`
		DisplayPrice        *float64 `json:"displayPrice"`
		DisplayRenewalPrice *float64 `json:"displayRenewalPrice"`
	}
	// CheckoutRequest starts the payment for a domain
	CheckoutRequest struct {
		Domain string
		// Price registrar price in USD
		Price       float64
		SiteID      string
		ProjectName string
		Origin      string
	}
	PurchaseResult struct {
		Success bool   `json:"success"`
		Domain  string `json:"domain"`
		OrderID string `json:"orderId"`
		// Attached is false when the domain could not be added to the hosting project
		Attached bool `json:"attached"`
	}
)

// ------------------------------------------------------------------------------------------------
// ~ Constructor
// ------------------------------------------------------------------------------------------------

func NewService(l *zap.Logger, registrar Registrar, payments Payments, opts ...Option) *Service {
	inst := &Service{
		l:         l.Named("domains"),
		registrar: registrar,
		payments:  payments,
		now:       time.Now,
	}

	for _, opt := range opts {
		opt(inst)
	}

	return inst
}

// ------------------------------------------------------------------------------------------------
// ~ Options
// ------------------------------------------------------------------------------------------------

func WithSiteRecorder(v SiteRecorder) Option {
	return func(o *Service) {
		o.sites = v
	}
}

func WithClock(v func() time.Time) Option {
	return func(o *Service) {
		o.now = v
	}
}

// ------------------------------------------------------------------------------------------------
// ~ Public methods
// ------------------------------------------------------------------------------------------------

// Purchasable reports whether the purchase flow may be offered
func (r *SearchResult) Purchasable() bool {
	return r.Available && r.Price != nil
}

// MarshalJSON omits all price fields for unavailable domains
func (r SearchResult) MarshalJSON() ([]byte, error) {
	if !r.Available {
		return json.Marshal(struct {
			Available bool   `json:"available"`
			Domain    string `json:"domain,omitempty"`
		}{Domain: r.Domain})
	}
	type plain SearchResult
	return json.Marshal(plain(r))
}

// Search checks the availability of domain and prices it when available.
// A failed price lookup still reports the domain as available but without prices.
func (s *Service) Search(ctx context.Context, domain string) (*SearchResult, error) {
	domain, err := ParseDomain(domain)
	if err != nil {
		return nil, err
	}
	l := s.l.With(zap.String("domain", domain))
	l.Info("checking availability")

	available, err := s.registrar.Availability(ctx, domain)
	if err != nil {
		return nil, errors.Wrap(err, "failed to check domain availability")
	}
	ret := &SearchResult{Available: available, Domain: domain}
	if !available {
		return ret, nil
	}

	price, err := s.registrar.Price(ctx, domain)
	if err != nil {
		l.Warn("price lookup failed", zap.Error(err))
		return ret, nil
	}
	ret.Price = &price.Price
	ret.RenewalPrice = &price.RenewalPrice
	display := ConvertPrice(price.Price)
	displayRenewal := ConvertPrice(price.RenewalPrice)
	ret.DisplayPrice = &display
	ret.DisplayRenewalPrice = &displayRenewal
	return ret, nil
}

// CreateCheckout creates a payment session for a domain and returns the payment page url
func (s *Service) CreateCheckout(ctx context.Context, req CheckoutRequest) (string, error) {
	if req.Domain == "" || req.Price <= 0 || req.SiteID == "" || req.ProjectName == "" {
		return "", errors.Wrap(ErrInvalidRequest, "Missing required fields: domain, price, siteId, projectName")
	}
	domain, err := ParseDomain(req.Domain)
	if err != nil {
		return "", err
	}
	origin := strings.TrimSuffix(req.Origin, "/")
	amount := ConvertPrice(req.Price)

	session, err := s.payments.CreateCheckoutSession(ctx, billing.CheckoutParams{
		ProductName:        "Domain Registration - " + domain,
		ProductDescription: "1 year registration for " + domain,
		Currency:           Currency,
		UnitAmount:         MinorUnits(amount),
		SuccessURL:         origin + "?domain_payment=success&session_id=" + billing.SessionIDPlaceholder,
		CancelURL:          origin + "?domain_payment=cancelled",
		Metadata: map[string]string{
			"type":        MetadataTypeDomainPurchase,
			"domain":      domain,
			"projectName": req.ProjectName,
			"siteId":      req.SiteID,
		},
	})
	if err != nil {
		return "", errors.Wrap(err, "failed to create checkout session")
	}
	s.l.Info("checkout session created",
		zap.String("domain", domain),
		zap.String("session", session.ID),
		zap.Float64("usd", req.Price),
		zap.Float64("gbp", amount),
	)
	return session.URL, nil
}

// Purchase finalizes a paid checkout: it buys the domain at a fresh price and attaches it to the
// project. A failed attach is logged and counted but does not fail the purchase.
func (s *Service) Purchase(ctx context.Context, sessionID string) (*PurchaseResult, error) {
	if sessionID == "" {
		return nil, errors.Wrap(ErrInvalidRequest, "sessionId is required")
	}
	session, err := s.payments.GetCheckoutSession(ctx, sessionID)
	if err != nil {
		return nil, errors.Wrap(err, "failed to retrieve checkout session")
	}
	if session.PaymentStatus != billing.PaymentStatusPaid {
		return nil, ErrPaymentIncomplete
	}
	domain := session.Metadata["domain"]
	project := session.Metadata["projectName"]
	siteID := session.Metadata["siteId"]
	if domain == "" || project == "" {
		return nil, ErrMissingMetadata
	}

	l := s.l.With(zap.String("domain", domain), zap.String("project", project))
	l.Info("processing domain purchase")

	if s.payments.TestMode() {
		l.Info("test mode, skipping registrar purchase")
		ret := &PurchaseResult{
			Success: true,
			Domain:  domain,
			OrderID: "test_order_" + strconv.FormatInt(s.now().UnixMilli(), 10),
		}
		s.record(ctx, l, siteID, ret)
		metrics.DomainPurchaseCounter.WithLabelValues("test").Inc()
		return ret, nil
	}

	price, err := s.registrar.Price(ctx, domain)
	if err != nil {
		metrics.DomainPurchaseCounter.WithLabelValues("error").Inc()
		return nil, errors.Wrap(err, "failed to get domain price")
	}
	orderID, err := s.registrar.Buy(ctx, domain, price.Price)
	if err != nil {
		metrics.DomainPurchaseCounter.WithLabelValues("error").Inc()
		return nil, err
	}
	l.Info("domain purchased", zap.String("order", orderID), zap.Float64("price", price.Price))

	ret := &PurchaseResult{Success: true, Domain: domain, OrderID: orderID, Attached: true}
	if err := s.registrar.AddProjectDomain(ctx, project, domain); err != nil {
		ret.Attached = false
		metrics.DomainAttachFailedCounter.WithLabelValues().Inc()
		l.Warn("domain purchased but could not be attached to project, attach it manually", zap.Error(err))
	}
	s.record(ctx, l, siteID, ret)
	metrics.DomainPurchaseCounter.WithLabelValues("success").Inc()
	return ret, nil
}

// PortalSession creates a billing portal session for a customer
func (s *Service) PortalSession(ctx context.Context, customerID, returnURL string) (string, error) {
	if customerID == "" {
		return "", errors.Wrap(ErrInvalidRequest, "customerId is required")
	}
	s.l.Info("creating billing portal session", zap.String("customer", customerID))
	return s.payments.CreatePortalSession(ctx, customerID, returnURL)
}

// ------------------------------------------------------------------------------------------------
// ~ Private methods
// ------------------------------------------------------------------------------------------------

func (s *Service) record(ctx context.Context, l *zap.Logger, siteID string, res *PurchaseResult) {
	if s.sites == nil || siteID == "" {
		return
	}
	if _, err := s.sites.AttachDomain(ctx, siteID, res.Domain, res.OrderID); err != nil {
		l.Warn("failed to record domain on site", zap.String("site", siteID), zap.Error(err))
	}
}
