package billing

import (
	"context"
	"net/http"
	"strings"

	"github.com/foomo/sitegen/pkg/metrics"
	"github.com/foomo/sitegen/pkg/vendorapi"
	"github.com/pkg/errors"
	"github.com/stripe/stripe-go/v82"
	portalsession "github.com/stripe/stripe-go/v82/billingportal/session"
	checkoutsession "github.com/stripe/stripe-go/v82/checkout/session"
	"go.uber.org/zap"
)

const (
	DefaultBaseURL = stripe.APIURL
	// SessionIDPlaceholder is replaced by the processor with the checkout session id
	SessionIDPlaceholder = "{CHECKOUT_SESSION_ID}"
	PaymentStatusPaid    = string(stripe.CheckoutSessionPaymentStatusPaid)
	testKeyPrefix        = "sk_test_"
	service              = "stripe"
)

type (
	// Stripe payment processor client
	Stripe struct {
		l          *zap.Logger
		secretKey  string
		baseURL    string
		httpClient *http.Client
		checkout   checkoutsession.Client
		portal     portalsession.Client
	}
	StripeOption func(*Stripe)
	// CheckoutParams a single item card payment
	CheckoutParams struct {
		ProductName        string
		ProductDescription string
		Currency           string
		// UnitAmount in minor currency units
		UnitAmount int64
		SuccessURL string
		CancelURL  string
		Metadata   map[string]string
	}
	// Session checkout session
	Session struct {
		ID            string            `json:"id"`
		URL           string            `json:"url"`
		PaymentStatus string            `json:"payment_status"`
		Customer      string            `json:"customer"`
		Metadata      map[string]string `json:"metadata"`
	}
)

// ------------------------------------------------------------------------------------------------
// ~ Constructor
// ------------------------------------------------------------------------------------------------

func NewStripe(l *zap.Logger, secretKey string, opts ...StripeOption) *Stripe {
	inst := &Stripe{
		l:         l.Named("stripe"),
		secretKey: secretKey,
		baseURL:   DefaultBaseURL,
	}

	for _, opt := range opts {
		opt(inst)
	}

	backend := stripe.GetBackendWithConfig(stripe.APIBackend, &stripe.BackendConfig{
		URL:               stripe.String(inst.baseURL),
		HTTPClient:        inst.httpClient,
		MaxNetworkRetries: stripe.Int64(0),
		LeveledLogger:     &stripe.LeveledLogger{Level: stripe.LevelNull},
	})
	inst.checkout = checkoutsession.Client{B: backend, Key: secretKey}
	inst.portal = portalsession.Client{B: backend, Key: secretKey}

	return inst
}

// ------------------------------------------------------------------------------------------------
// ~ Options
// ------------------------------------------------------------------------------------------------

func StripeWithBaseURL(v string) StripeOption {
	return func(o *Stripe) {
		if v != "" {
			o.baseURL = strings.TrimSuffix(v, "/")
		}
	}
}

func StripeWithHTTPClient(v *http.Client) StripeOption {
	return func(o *Stripe) {
		o.httpClient = v
	}
}

// ------------------------------------------------------------------------------------------------
// ~ Public methods
// ------------------------------------------------------------------------------------------------

// TestMode reports whether the configured key is a test key
func (s *Stripe) TestMode() bool {
	return strings.HasPrefix(s.secretKey, testKeyPrefix)
}

// CreateCheckoutSession creates a hosted card payment page
func (s *Stripe) CreateCheckoutSession(ctx context.Context, p CheckoutParams) (*Session, error) {
	if err := s.configured(); err != nil {
		return nil, err
	}
	productData := &stripe.CheckoutSessionLineItemPriceDataProductDataParams{
		Name: stripe.String(p.ProductName),
	}
	if p.ProductDescription != "" {
		productData.Description = stripe.String(p.ProductDescription)
	}
	params := &stripe.CheckoutSessionParams{
		Params:             stripe.Params{Context: ctx},
		PaymentMethodTypes: stripe.StringSlice([]string{"card"}),
		LineItems: []*stripe.CheckoutSessionLineItemParams{{
			PriceData: &stripe.CheckoutSessionLineItemPriceDataParams{
				Currency:    stripe.String(p.Currency),
				ProductData: productData,
				UnitAmount:  stripe.Int64(p.UnitAmount),
			},
			Quantity: stripe.Int64(1),
		}},
		Mode:       stripe.String(string(stripe.CheckoutSessionModePayment)),
		SuccessURL: stripe.String(p.SuccessURL),
		CancelURL:  stripe.String(p.CancelURL),
	}
	for key, value := range p.Metadata {
		params.AddMetadata(key, value)
	}

	session, err := s.checkout.New(params)
	if err != nil {
		return nil, s.vendorError("create checkout session", err)
	}
	s.l.Info("checkout session created", zap.String("id", session.ID))
	return newSession(session), nil
}

// GetCheckoutSession retrieves a checkout session
func (s *Stripe) GetCheckoutSession(ctx context.Context, id string) (*Session, error) {
	if err := s.configured(); err != nil {
		return nil, err
	}
	session, err := s.checkout.Get(id, &stripe.CheckoutSessionParams{Params: stripe.Params{Context: ctx}})
	if err != nil {
		return nil, s.vendorError("get checkout session", err)
	}
	return newSession(session), nil
}

// CreatePortalSession creates a billing portal session and returns its url
func (s *Stripe) CreatePortalSession(ctx context.Context, customerID, returnURL string) (string, error) {
	if err := s.configured(); err != nil {
		return "", err
	}
	session, err := s.portal.New(&stripe.BillingPortalSessionParams{
		Params:    stripe.Params{Context: ctx},
		Customer:  stripe.String(customerID),
		ReturnURL: stripe.String(returnURL),
	})
	if err != nil {
		return "", s.vendorError("create portal session", err)
	}
	return session.URL, nil
}

// ------------------------------------------------------------------------------------------------
// ~ Private methods
// ------------------------------------------------------------------------------------------------

func (s *Stripe) configured() error {
	if s.secretKey == "" {
		return vendorapi.NotConfigured("STRIPE_SECRET_KEY")
	}
	return nil
}

// vendorError converts sdk errors so callers see the processor status and message
func (s *Stripe) vendorError(action string, err error) error {
	metrics.VendorErrorCounter.WithLabelValues(service).Inc()
	s.l.Debug("request failed", zap.String("action", action), zap.Error(err))
	var stripeErr *stripe.Error
	if errors.As(err, &stripeErr) {
		return &vendorapi.Error{Service: service, StatusCode: stripeErr.HTTPStatusCode, Message: stripeErr.Msg}
	}
	return errors.Wrap(err, action)
}

func newSession(v *stripe.CheckoutSession) *Session {
	ret := &Session{
		ID:            v.ID,
		URL:           v.URL,
		PaymentStatus: string(v.PaymentStatus),
		Metadata:      v.Metadata,
	}
	if v.Customer != nil {
		ret.Customer = v.Customer.ID
	}
	return ret
}
