package domains_test

import (
	"context"
	"testing"
	"time"

	"github.com/foomo/sitegen/content"
	"github.com/foomo/sitegen/pkg/billing"
	"github.com/foomo/sitegen/pkg/domains"
	"github.com/foomo/sitegen/pkg/vercel"
	jsoniter "github.com/json-iterator/go"
	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zaptest"
)

type fakeRegistrar struct {
	available  bool
	availErr   error
	price      *vercel.Price
	priceErr   error
	buyErr     error
	attachErr  error
	bought     []float64
	attached   []string
	priceCalls int
}

func (f *fakeRegistrar) Availability(ctx context.Context, domain string) (bool, error) {
	return f.available, f.availErr
}

func (f *fakeRegistrar) Price(ctx context.Context, domain string) (*vercel.Price, error) {
	f.priceCalls++
	return f.price, f.priceErr
}

func (f *fakeRegistrar) Buy(ctx context.Context, domain string, expectedPrice float64) (string, error) {
	f.bought = append(f.bought, expectedPrice)
	if f.buyErr != nil {
		return "", f.buyErr
	}
	return "ord_1", nil
}

func (f *fakeRegistrar) AddProjectDomain(ctx context.Context, project, domain string) error {
	f.attached = append(f.attached, project+"/"+domain)
	return f.attachErr
}

type fakePayments struct {
	testMode bool
	session  *billing.Session
	params   billing.CheckoutParams
}

func (f *fakePayments) TestMode() bool { return f.testMode }

func (f *fakePayments) CreateCheckoutSession(ctx context.Context, p billing.CheckoutParams) (*billing.Session, error) {
	f.params = p
	return &billing.Session{ID: "cs_1", URL: "https://checkout.example.com/cs_1"}, nil
}

func (f *fakePayments) GetCheckoutSession(ctx context.Context, id string) (*billing.Session, error) {
	return f.session, nil
}

func (f *fakePayments) CreatePortalSession(ctx context.Context, customerID, returnURL string) (string, error) {
	return "https://billing.example.com/" + customerID, nil
}

type fakeSites struct {
	domain, orderID string
}

func (f *fakeSites) AttachDomain(ctx context.Context, id, domain, orderID string) (*content.SiteInstance, error) {
	f.domain, f.orderID = domain, orderID
	return &content.SiteInstance{ID: id, CustomDomain: domain, DomainOrderID: orderID}, nil
}

func paidSession() *billing.Session {
	return &billing.Session{
		ID:            "cs_1",
		PaymentStatus: billing.PaymentStatusPaid,
		Metadata:      map[string]string{"domain": "acme.com", "projectName": "acme-1234", "siteId": "site-1"},
	}
}

func TestService_Search_Unavailable(t *testing.T) {
	r := &fakeRegistrar{available: false, price: &vercel.Price{Price: 20}}
	s := domains.NewService(zaptest.NewLogger(t), r, &fakePayments{})

	res, err := s.Search(context.Background(), "acme.com")
	require.NoError(t, err)
	assert.False(t, res.Available)
	assert.False(t, res.Purchasable())
	assert.Nil(t, res.Price)
	assert.Equal(t, 0, r.priceCalls)

	data, err := jsoniter.Marshal(res)
	require.NoError(t, err)
	assert.JSONEq(t, `{"available":false,"domain":"acme.com"}`, string(data))
}

func TestService_Search_Available(t *testing.T) {
	r := &fakeRegistrar{available: true, price: &vercel.Price{Price: 20, RenewalPrice: 25}}
	s := domains.NewService(zaptest.NewLogger(t), r, &fakePayments{})

	res, err := s.Search(context.Background(), "Acme.com")
	require.NoError(t, err)
	assert.True(t, res.Purchasable())
	assert.InDelta(t, 20, *res.Price, 0.0001)
	assert.InDelta(t, 21, *res.DisplayPrice, 0.0001)
	assert.InDelta(t, 25, *res.DisplayRenewalPrice, 0.0001)
}

func TestService_Search_PriceFailure(t *testing.T) {
	r := &fakeRegistrar{available: true, priceErr: errors.New("nope")}
	s := domains.NewService(zaptest.NewLogger(t), r, &fakePayments{})

	res, err := s.Search(context.Background(), "acme.com")
	require.NoError(t, err)
	assert.True(t, res.Available)
	assert.False(t, res.Purchasable())

	data, err := jsoniter.Marshal(res)
	require.NoError(t, err)
	assert.JSONEq(t, `{"available":true,"domain":"acme.com","price":null,"renewalPrice":null,"displayPrice":null,"displayRenewalPrice":null}`, string(data))
}

func TestService_Search_InvalidDomain(t *testing.T) {
	s := domains.NewService(zaptest.NewLogger(t), &fakeRegistrar{}, &fakePayments{})
	_, err := s.Search(context.Background(), "acme.io")
	assert.True(t, errors.Is(err, domains.ErrInvalidDomain))
}

func TestService_CreateCheckout(t *testing.T) {
	p := &fakePayments{}
	s := domains.NewService(zaptest.NewLogger(t), &fakeRegistrar{}, p)

	u, err := s.CreateCheckout(context.Background(), domains.CheckoutRequest{
		Domain:      "acme.com",
		Price:       20,
		SiteID:      "site-1",
		ProjectName: "acme-1234",
		Origin:      "https://app.example.com/",
	})
	require.NoError(t, err)
	assert.Equal(t, "https://checkout.example.com/cs_1", u)
	assert.Equal(t, "gbp", p.params.Currency)
	assert.Equal(t, int64(2100), p.params.UnitAmount)
	assert.Equal(t, "Domain Registration - acme.com", p.params.ProductName)
	assert.Equal(t, "1 year registration for acme.com", p.params.ProductDescription)
	assert.Equal(t, "https://app.example.com?domain_payment=success&session_id={CHECKOUT_SESSION_ID}", p.params.SuccessURL)
	assert.Equal(t, "https://app.example.com?domain_payment=cancelled", p.params.CancelURL)
	assert.Equal(t, map[string]string{
		"type":        "domain_purchase",
		"domain":      "acme.com",
		"projectName": "acme-1234",
		"siteId":      "site-1",
	}, p.params.Metadata)
}

func TestService_CreateCheckout_MissingFields(t *testing.T) {
	s := domains.NewService(zaptest.NewLogger(t), &fakeRegistrar{}, &fakePayments{})
	_, err := s.CreateCheckout(context.Background(), domains.CheckoutRequest{Domain: "acme.com", Price: 20})
	assert.True(t, errors.Is(err, domains.ErrInvalidRequest))
}

func TestService_Purchase(t *testing.T) {
	r := &fakeRegistrar{price: &vercel.Price{Price: 22}}
	sites := &fakeSites{}
	s := domains.NewService(zaptest.NewLogger(t), r, &fakePayments{session: paidSession()}, domains.WithSiteRecorder(sites))

	res, err := s.Purchase(context.Background(), "cs_1")
	require.NoError(t, err)
	assert.Equal(t, &domains.PurchaseResult{Success: true, Domain: "acme.com", OrderID: "ord_1", Attached: true}, res)
	assert.Equal(t, []float64{22}, r.bought)
	assert.Equal(t, []string{"acme-1234/acme.com"}, r.attached)
	assert.Equal(t, "acme.com", sites.domain)
	assert.Equal(t, "ord_1", sites.orderID)
}

func TestService_Purchase_AttachFailureStillSucceeds(t *testing.T) {
	r := &fakeRegistrar{price: &vercel.Price{Price: 22}, attachErr: errors.New("project not found")}
	s := domains.NewService(zaptest.NewLogger(t), r, &fakePayments{session: paidSession()})

	res, err := s.Purchase(context.Background(), "cs_1")
	require.NoError(t, err)
	assert.True(t, res.Success)
	assert.False(t, res.Attached)
	assert.Equal(t, "ord_1", res.OrderID)
}

func TestService_Purchase_NotPaid(t *testing.T) {
	session := paidSession()
	session.PaymentStatus = "unpaid"
	r := &fakeRegistrar{price: &vercel.Price{Price: 22}}
	s := domains.NewService(zaptest.NewLogger(t), r, &fakePayments{session: session})

	_, err := s.Purchase(context.Background(), "cs_1")
	assert.True(t, errors.Is(err, domains.ErrPaymentIncomplete))
	assert.Empty(t, r.bought)
}

func TestService_Purchase_MissingMetadata(t *testing.T) {
	session := paidSession()
	delete(session.Metadata, "projectName")
	s := domains.NewService(zaptest.NewLogger(t), &fakeRegistrar{}, &fakePayments{session: session})

	_, err := s.Purchase(context.Background(), "cs_1")
	assert.True(t, errors.Is(err, domains.ErrMissingMetadata))
}

func TestService_Purchase_TestMode(t *testing.T) {
	r := &fakeRegistrar{price: &vercel.Price{Price: 22}}
	now := time.UnixMilli(1700000000000)
	s := domains.NewService(zaptest.NewLogger(t), r, &fakePayments{testMode: true, session: paidSession()},
		domains.WithClock(func() time.Time { return now }),
	)

	res, err := s.Purchase(context.Background(), "cs_1")
	require.NoError(t, err)
	assert.Equal(t, "test_order_1700000000000", res.OrderID)
	assert.Empty(t, r.bought)
	assert.Equal(t, 0, r.priceCalls)
}

func TestService_Purchase_BuyFailure(t *testing.T) {
	r := &fakeRegistrar{price: &vercel.Price{Price: 22}, buyErr: errors.New("price changed")}
	s := domains.NewService(zaptest.NewLogger(t), r, &fakePayments{session: paidSession()})

	_, err := s.Purchase(context.Background(), "cs_1")
	require.Error(t, err)
	assert.Empty(t, r.attached)
}

func TestService_PortalSession(t *testing.T) {
	s := domains.NewService(zaptest.NewLogger(t), &fakeRegistrar{}, &fakePayments{})
	u, err := s.PortalSession(context.Background(), "cus_1", "https://app.example.com")
	require.NoError(t, err)
	assert.Equal(t, "https://billing.example.com/cus_1", u)

	_, err = s.PortalSession(context.Background(), "", "https://app.example.com")
	assert.True(t, errors.Is(err, domains.ErrInvalidRequest))
}
