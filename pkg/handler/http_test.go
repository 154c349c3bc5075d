package handler_test

import (
	"bytes"
	"context"
	"image"
	"image/color"
	"image/png"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/foomo/sitegen/content"
	"github.com/foomo/sitegen/pkg/domains"
	"github.com/foomo/sitegen/pkg/generator"
	"github.com/foomo/sitegen/pkg/handler"
	"github.com/foomo/sitegen/pkg/repo"
	"github.com/foomo/sitegen/pkg/vercel"
	"github.com/foomo/sitegen/responses"
	"github.com/foomo/sitegen/testing/fixtures"
	jsoniter "github.com/json-iterator/go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zaptest"
	"gocloud.dev/blob"
	_ "gocloud.dev/blob/memblob"
)

var json = jsoniter.ConfigCompatibleWithStandardLibrary

// ------------------------------------------------------------------------------------------------
// ~ Fakes
// ------------------------------------------------------------------------------------------------

type fakeGenerator struct {
	progress []string
	err      error
}

func (f *fakeGenerator) Generate(ctx context.Context, inputs content.GeneratorInputs, progress generator.ProgressFunc) (*content.GeneratedSiteData, error) {
	for _, msg := range f.progress {
		if progress != nil {
			progress(msg)
		}
	}
	if f.err != nil {
		return nil, f.err
	}
	return fixtures.SiteData(), nil
}

type fakeDomains struct {
	searched    []string
	checkout    domains.CheckoutRequest
	returnURL   string
	purchaseErr error
}

func (f *fakeDomains) Search(ctx context.Context, domain string) (*domains.SearchResult, error) {
	f.searched = append(f.searched, domain)
	price := 11.25
	return &domains.SearchResult{Available: true, Domain: domain, Price: &price, RenewalPrice: &price}, nil
}

func (f *fakeDomains) CreateCheckout(ctx context.Context, req domains.CheckoutRequest) (string, error) {
	f.checkout = req
	return "https://checkout.example.com/cs_1", nil
}

func (f *fakeDomains) Purchase(ctx context.Context, sessionID string) (*domains.PurchaseResult, error) {
	if f.purchaseErr != nil {
		return nil, f.purchaseErr
	}
	return &domains.PurchaseResult{Success: true, Domain: "acme.com", OrderID: "ord_1", Attached: true}, nil
}

func (f *fakeDomains) PortalSession(ctx context.Context, customerID, returnURL string) (string, error) {
	f.returnURL = returnURL
	return "https://billing.example.com/" + customerID, nil
}

type fakeDeployer struct {
	project string
	files   []vercel.File
}

func (f *fakeDeployer) Deploy(ctx context.Context, project string, files []vercel.File) (*vercel.Deployment, error) {
	f.project = project
	f.files = files
	return &vercel.Deployment{ID: "dpl_1", URL: "https://" + project + ".vercel.app"}, nil
}

type fakeLeads struct {
	captured chan content.GeneratorInputs
	list     []*content.Lead
}

func (f *fakeLeads) Capture(ctx context.Context, inputs content.GeneratorInputs) {
	f.captured <- inputs
}

func (f *fakeLeads) List(ctx context.Context, limit int) ([]*content.Lead, error) {
	if limit > 0 && limit < len(f.list) {
		return f.list[:limit], nil
	}
	return f.list, nil
}

// ------------------------------------------------------------------------------------------------
// ~ Helpers
// ------------------------------------------------------------------------------------------------

type env struct {
	repo     *repo.Repo
	domains  *fakeDomains
	deployer *fakeDeployer
	leads    *fakeLeads
	handler  http.Handler
}

func newEnv(t *testing.T, opts ...handler.HTTPOption) *env {
	t.Helper()
	l := zaptest.NewLogger(t)
	bucket, err := blob.OpenBucket(context.Background(), "mem://")
	require.NoError(t, err)
	h, err := repo.NewHistory(l, repo.HistoryWithStorage(repo.NewBlobStorageFromBucket(bucket, "")))
	require.NoError(t, err)
	r := repo.New(l, h, repo.WithIDGenerator(func() string { return fixtures.SiteID }))
	require.NoError(t, r.Load(context.Background()))
	t.Cleanup(func() { _ = r.Close() })

	e := &env{
		repo:     r,
		domains:  &fakeDomains{},
		deployer: &fakeDeployer{},
		leads:    &fakeLeads{captured: make(chan content.GeneratorInputs, 4)},
	}
	e.handler = handler.NewHTTP(l, r, append([]handler.HTTPOption{
		handler.WithGenerator(&fakeGenerator{progress: []string{"Writing copy...", "Creating images..."}}),
		handler.WithDomains(e.domains),
		handler.WithDeployer(e.deployer),
		handler.WithLeads(e.leads),
	}, opts...)...)
	return e
}

func (e *env) createSite(t *testing.T) *content.SiteInstance {
	t.Helper()
	site, err := e.repo.Create(context.Background(), fixtures.Inputs(), fixtures.SiteData())
	require.NoError(t, err)
	return site
}

func (e *env) do(t *testing.T, method, path string, body interface{}, header ...string) *httptest.ResponseRecorder {
	t.Helper()
	var reader *bytes.Reader
	if body != nil {
		data, err := json.Marshal(body)
		require.NoError(t, err)
		reader = bytes.NewReader(data)
	} else {
		reader = bytes.NewReader(nil)
	}
	req := httptest.NewRequest(method, path, reader)
	req.Header.Set("Content-Type", "application/json")
	for i := 0; i+1 < len(header); i += 2 {
		req.Header.Set(header[i], header[i+1])
	}
	rec := httptest.NewRecorder()
	e.handler.ServeHTTP(rec, req)
	return rec
}

func decode(t *testing.T, rec *httptest.ResponseRecorder, v interface{}) {
	t.Helper()
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), v), rec.Body.String())
}

func errorMessage(t *testing.T, rec *httptest.ResponseRecorder) string {
	t.Helper()
	var resp responses.Error
	decode(t, rec, &resp)
	return resp.Message
}

func pngImage(t *testing.T) []byte {
	t.Helper()
	img := image.NewRGBA(image.Rect(0, 0, 40, 20))
	for x := 0; x < 40; x++ {
		for y := 0; y < 20; y++ {
			img.Set(x, y, color.RGBA{R: 200, A: 255})
		}
	}
	var buf bytes.Buffer
	require.NoError(t, png.Encode(&buf, img))
	return buf.Bytes()
}

func upload(t *testing.T, e *env, path string, data []byte) *httptest.ResponseRecorder {
	t.Helper()
	var body bytes.Buffer
	mw := multipart.NewWriter(&body)
	fw, err := mw.CreateFormFile("file", "upload.bin")
	require.NoError(t, err)
	_, err = fw.Write(data)
	require.NoError(t, err)
	require.NoError(t, mw.Close())

	req := httptest.NewRequest(http.MethodPost, path, &body)
	req.Header.Set("Content-Type", mw.FormDataContentType())
	rec := httptest.NewRecorder()
	e.handler.ServeHTTP(rec, req)
	return rec
}

// ------------------------------------------------------------------------------------------------
// ~ Tests
// ------------------------------------------------------------------------------------------------

func TestGenerate(t *testing.T) {
	e := newEnv(t)
	rec := e.do(t, http.MethodPost, "/api/generate", fixtures.Inputs())
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())

	var site content.SiteInstance
	decode(t, rec, &site)
	assert.Equal(t, fixtures.SiteID, site.ID)
	assert.Equal(t, content.DeploymentStatusDraft, site.DeploymentStatus)
	require.NotNil(t, site.FormInputs)
	assert.Equal(t, "Acme Plumbing", site.FormInputs.CompanyName)

	select {
	case inputs := <-e.leads.captured:
		assert.Equal(t, "Acme Plumbing", inputs.CompanyName)
	case <-time.After(time.Second):
		t.Fatal("lead was not captured")
	}

	stored, err := e.repo.Get(context.Background(), fixtures.SiteID)
	require.NoError(t, err)
	assert.Equal(t, site.Data.Hero.Headline, stored.Data.Hero.Headline)
}

func TestGenerate_MissingFields(t *testing.T) {
	e := newEnv(t)
	inputs := fixtures.Inputs()
	inputs.CompanyName = "  "
	rec := e.do(t, http.MethodPost, "/api/generate", inputs)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Equal(t, "missing required fields: companyName", errorMessage(t, rec))
	assert.Empty(t, e.leads.captured)
}

func TestGenerate_InvalidJSON(t *testing.T) {
	e := newEnv(t)
	req := httptest.NewRequest(http.MethodPost, "/api/generate", strings.NewReader("{"))
	rec := httptest.NewRecorder()
	e.handler.ServeHTTP(rec, req)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Equal(t, "Invalid JSON body", errorMessage(t, rec))
}

func TestGenerate_NotConfigured(t *testing.T) {
	e := newEnv(t, handler.WithGenerator(nil))
	rec := e.do(t, http.MethodPost, "/api/generate", fixtures.Inputs())
	assert.Equal(t, http.StatusInternalServerError, rec.Code)
	assert.Equal(t, "Server configuration error: GEMINI_API_KEY not set", errorMessage(t, rec))
}

func TestGenerate_MethodNotAllowed(t *testing.T) {
	e := newEnv(t)
	rec := e.do(t, http.MethodGet, "/api/generate", nil)
	assert.Equal(t, http.StatusMethodNotAllowed, rec.Code)
	assert.Equal(t, "Method not allowed", errorMessage(t, rec))
}

func TestGetSite(t *testing.T) {
	e := newEnv(t)
	e.createSite(t)

	rec := e.do(t, http.MethodGet, "/api/sites/"+fixtures.SiteID, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	var site content.SiteInstance
	decode(t, rec, &site)
	assert.Equal(t, fixtures.SiteID, site.ID)

	rec = e.do(t, http.MethodGet, "/api/sites/"+fixtures.SiteID2, nil)
	assert.Equal(t, http.StatusNotFound, rec.Code)
	assert.Equal(t, "Site not found", errorMessage(t, rec))
}

func TestListSites(t *testing.T) {
	e := newEnv(t)
	e.createSite(t)

	rec := e.do(t, http.MethodGet, "/api/sites", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	var sites []*content.SiteInstance
	decode(t, rec, &sites)
	require.Len(t, sites, 1)
	assert.Equal(t, fixtures.SiteID, sites[0].ID)
}

func TestUpdateField(t *testing.T) {
	e := newEnv(t)
	e.createSite(t)
	path := "/api/sites/" + fixtures.SiteID + "/fields"

	rec := e.do(t, http.MethodPost, path, map[string]string{"path": "hero.headline", "value": "Fast Plumbing"})
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	var site content.SiteInstance
	decode(t, rec, &site)
	assert.Equal(t, "Fast Plumbing", site.Data.Hero.Headline)

	rec = e.do(t, http.MethodPost, path, map[string]string{"path": "trust.bullets.1", "value": "Same day"})
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	decode(t, rec, &site)
	assert.Equal(t, "Same day", site.Data.Trust.Bullets[1])

	rec = e.do(t, http.MethodPost, path, map[string]string{"path": "hero.unknown", "value": "x"})
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	rec = e.do(t, http.MethodPost, path, map[string]string{"path": "trust.bullets.9", "value": "x"})
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	stored, err := e.repo.Get(context.Background(), fixtures.SiteID)
	require.NoError(t, err)
	assert.Equal(t, "Fast Plumbing", stored.Data.Hero.Headline)
}

func TestUploadImage(t *testing.T) {
	e := newEnv(t)
	e.createSite(t)

	rec := upload(t, e, "/api/sites/"+fixtures.SiteID+"/images?field=hero.heroImage", pngImage(t))
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	var site content.SiteInstance
	decode(t, rec, &site)
	assert.True(t, strings.HasPrefix(site.Data.Hero.HeroImage, "data:image/jpeg;base64,"))
}

func TestUploadImage_Rejected(t *testing.T) {
	e := newEnv(t)
	e.createSite(t)

	rec := upload(t, e, "/api/sites/"+fixtures.SiteID+"/images?field=hero.headline", pngImage(t))
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	rec = upload(t, e, "/api/sites/"+fixtures.SiteID+"/images?field=trust.image", []byte("just some text"))
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	rec = upload(t, e, "/api/sites/"+fixtures.SiteID2+"/images?field=trust.image", pngImage(t))
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestDeploy(t *testing.T) {
	e := newEnv(t)
	e.createSite(t)

	rec := e.do(t, http.MethodPost, "/api/sites/"+fixtures.SiteID+"/deploy", nil)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	var resp responses.Deploy
	decode(t, rec, &resp)
	assert.Equal(t, "acme-plumbing-6f1c2a52", resp.Project)
	assert.Equal(t, "https://acme-plumbing-6f1c2a52.vercel.app", resp.URL)
	require.NotNil(t, resp.Site)
	assert.Equal(t, content.DeploymentStatusDeployed, resp.Site.DeploymentStatus)

	require.Len(t, e.deployer.files, 1)
	assert.Equal(t, "index.html", e.deployer.files[0].Name)
	assert.Contains(t, e.deployer.files[0].Data, "Professional Plumbing in Austin")
	assert.NotContains(t, e.deployer.files[0].Data, "contenteditable")

	// redeploys stay in the same project
	rec = e.do(t, http.MethodPost, "/api/sites/"+fixtures.SiteID+"/deploy", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "acme-plumbing-6f1c2a52", e.deployer.project)
}

func TestDeploy_NotConfigured(t *testing.T) {
	e := newEnv(t, handler.WithDeployer(nil))
	e.createSite(t)
	rec := e.do(t, http.MethodPost, "/api/sites/"+fixtures.SiteID+"/deploy", nil)
	assert.Equal(t, http.StatusInternalServerError, rec.Code)
	assert.Equal(t, "Server configuration error: VERCEL_TOKEN not set", errorMessage(t, rec))
}

func TestRevisions(t *testing.T) {
	e := newEnv(t)
	e.createSite(t)
	e.do(t, http.MethodPost, "/api/sites/"+fixtures.SiteID+"/fields", map[string]string{"path": "hero.headline", "value": "x"})

	rec := e.do(t, http.MethodGet, "/api/sites/"+fixtures.SiteID+"/revisions", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	var resp responses.Revisions
	decode(t, rec, &resp)
	assert.Equal(t, fixtures.SiteID, resp.ID)
	assert.NotEmpty(t, resp.Revisions)
}

func TestSitePage(t *testing.T) {
	e := newEnv(t)
	e.createSite(t)

	rec := e.do(t, http.MethodGet, "/sites/"+fixtures.SiteID, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "text/html; charset=utf-8", rec.Header().Get("Content-Type"))
	assert.NotContains(t, rec.Body.String(), "contenteditable")

	rec = e.do(t, http.MethodGet, "/sites/"+fixtures.SiteID+"?edit=1", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `contenteditable="true"`)
	assert.Contains(t, rec.Body.String(), fixtures.SiteID)

	rec = e.do(t, http.MethodGet, "/sites/"+fixtures.SiteID2, nil)
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestCheckDomain(t *testing.T) {
	e := newEnv(t)

	rec := e.do(t, http.MethodPost, "/api/check-domain", map[string]string{"name": "Acme Plumbing!", "tld": ".co.uk"})
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	rec = e.do(t, http.MethodPost, "/api/check-domain", map[string]string{"domain": "acme.com"})
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	assert.Equal(t, []string{"acmeplumbing.co.uk", "acme.com"}, e.domains.searched)

	rec = e.do(t, http.MethodPost, "/api/check-domain", map[string]string{"name": "acme", "tld": ".io"})
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestDomainCheckout(t *testing.T) {
	e := newEnv(t)
	body := map[string]interface{}{
		"domain":      "acme.com",
		"vercelPrice": 11.25,
		"siteId":      fixtures.SiteID,
		"projectName": "acme-plumbing-6f1c2a52",
	}

	rec := e.do(t, http.MethodPost, "/api/create-domain-checkout", body, "Origin", "https://app.example.com")
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	var resp responses.URL
	decode(t, rec, &resp)
	assert.Equal(t, "https://checkout.example.com/cs_1", resp.URL)
	assert.Equal(t, domains.CheckoutRequest{
		Domain:      "acme.com",
		Price:       11.25,
		SiteID:      fixtures.SiteID,
		ProjectName: "acme-plumbing-6f1c2a52",
		Origin:      "https://app.example.com",
	}, e.domains.checkout)
}

func TestDomainCheckout_Origin(t *testing.T) {
	body := map[string]interface{}{"domain": "acme.com", "price": 11.25, "siteId": fixtures.SiteID, "projectName": "p"}

	e := newEnv(t)
	rec := e.do(t, http.MethodPost, "/api/create-domain-checkout", body)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Equal(t, "Missing request origin", errorMessage(t, rec))

	e = newEnv(t, handler.WithPublicURL("https://sites.example.com/"))
	rec = e.do(t, http.MethodPost, "/api/create-domain-checkout", body)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "https://sites.example.com", e.domains.checkout.Origin)
}

func TestPurchaseDomain(t *testing.T) {
	e := newEnv(t)
	rec := e.do(t, http.MethodPost, "/api/purchase-domain", map[string]string{"sessionId": "cs_1"})
	require.Equal(t, http.StatusOK, rec.Code)
	var resp domains.PurchaseResult
	decode(t, rec, &resp)
	assert.True(t, resp.Success)
	assert.Equal(t, "ord_1", resp.OrderID)

	rec = e.do(t, http.MethodPost, "/api/purchase-domain", map[string]string{})
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	e.domains.purchaseErr = domains.ErrPaymentIncomplete
	rec = e.do(t, http.MethodPost, "/api/purchase-domain", map[string]string{"sessionId": "cs_1"})
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Equal(t, "Payment not completed", errorMessage(t, rec))
}

func TestPortalSession(t *testing.T) {
	e := newEnv(t)
	rec := e.do(t, http.MethodPost, "/api/create-portal-session", map[string]string{"customerId": "cus_1"}, "Origin", "https://app.example.com")
	require.Equal(t, http.StatusOK, rec.Code)
	var resp responses.URL
	decode(t, rec, &resp)
	assert.Equal(t, "https://billing.example.com/cus_1", resp.URL)
	assert.Equal(t, "https://app.example.com", e.domains.returnURL)
}

func TestListLeads(t *testing.T) {
	e := newEnv(t)
	now := time.UnixMilli(1767225600000).UTC()
	e.leads.list = []*content.Lead{
		content.NewLead("a", fixtures.Inputs(), now),
		content.NewLead("b", fixtures.Inputs(), now),
	}

	rec := e.do(t, http.MethodGet, "/api/leads?limit=1", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	var list []*content.Lead
	decode(t, rec, &list)
	require.Len(t, list, 1)
	assert.Equal(t, "a", list[0].ID)

	rec = e.do(t, http.MethodGet, "/api/leads?limit=x", nil)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestConcurrentFieldUpdates(t *testing.T) {
	e := newEnv(t)
	e.createSite(t)

	paths := []string{"hero.headline", "hero.subheadline", "trust.headline", "trust.paragraph", "emergency.headline"}
	var wg sync.WaitGroup
	for _, p := range paths {
		wg.Add(1)
		go func(p string) {
			defer wg.Done()
			rec := e.do(t, http.MethodPost, "/api/sites/"+fixtures.SiteID+"/fields", map[string]string{"path": p, "value": "edited " + p})
			assert.Equal(t, http.StatusOK, rec.Code)
		}(p)
	}
	wg.Wait()

	site, err := e.repo.Get(context.Background(), fixtures.SiteID)
	require.NoError(t, err)
	assert.Equal(t, "edited hero.headline", site.Data.Hero.Headline)
	assert.Equal(t, "edited hero.subheadline", site.Data.Hero.Subheadline)
	assert.Equal(t, "edited trust.headline", site.Data.Trust.Headline)
	assert.Equal(t, "edited trust.paragraph", site.Data.Trust.Paragraph)
	assert.Equal(t, "edited emergency.headline", site.Data.Emergency.Headline)
}
