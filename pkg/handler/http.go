package handler

import (
	"bytes"
	"context"
	"io"
	"net/http"
	"strconv"
	"strings"
	"time"

	httputils "github.com/foomo/keel/utils/net/http"
	"github.com/foomo/sitegen/content"
	"github.com/foomo/sitegen/pkg/domains"
	"github.com/foomo/sitegen/pkg/generator"
	"github.com/foomo/sitegen/pkg/images"
	"github.com/foomo/sitegen/pkg/metrics"
	"github.com/foomo/sitegen/pkg/render"
	"github.com/foomo/sitegen/pkg/repo"
	"github.com/foomo/sitegen/pkg/utils"
	"github.com/foomo/sitegen/pkg/vendorapi"
	"github.com/foomo/sitegen/pkg/vercel"
	"github.com/foomo/sitegen/requests"
	"github.com/foomo/sitegen/responses"
	"github.com/go-chi/chi/v5"
	"github.com/gorilla/websocket"
	jsoniter "github.com/json-iterator/go"
	"github.com/pkg/errors"
	"go.uber.org/zap"
)

var json = jsoniter.ConfigCompatibleWithStandardLibrary

const (
	// DefaultMaxBodySize limit for json request bodies
	DefaultMaxBodySize int64 = 1 << 20
	// DefaultMaxUploadSize limit for image uploads
	DefaultMaxUploadSize int64 = 10 << 20
)

type (
	// Sites stores generated site instances
	Sites interface {
		Create(ctx context.Context, inputs content.GeneratorInputs, data *content.GeneratedSiteData) (*content.SiteInstance, error)
		Get(ctx context.Context, id string) (*content.SiteInstance, error)
		List(ctx context.Context) ([]*content.SiteInstance, error)
		ApplyUpdate(ctx context.Context, id string, u content.Update) (*content.SiteInstance, error)
		MarkDeployed(ctx context.Context, id, url string) (*content.SiteInstance, error)
		Revisions(ctx context.Context, id string) ([]string, error)
	}
	// Generator produces site documents
	Generator interface {
		Generate(ctx context.Context, inputs content.GeneratorInputs, progress generator.ProgressFunc) (*content.GeneratedSiteData, error)
	}
	// Domains searches, sells and buys domains
	Domains interface {
		Search(ctx context.Context, domain string) (*domains.SearchResult, error)
		CreateCheckout(ctx context.Context, req domains.CheckoutRequest) (string, error)
		Purchase(ctx context.Context, sessionID string) (*domains.PurchaseResult, error)
		PortalSession(ctx context.Context, customerID, returnURL string) (string, error)
	}
	// Deployer publishes static files
	Deployer interface {
		Deploy(ctx context.Context, project string, files []vercel.File) (*vercel.Deployment, error)
	}
	// Leads captures and lists form submissions
	Leads interface {
		Capture(ctx context.Context, inputs content.GeneratorInputs)
		List(ctx context.Context, limit int) ([]*content.Lead, error)
	}
	HTTP struct {
		l             *zap.Logger
		router        chi.Router
		upgrader      websocket.Upgrader
		sites         Sites
		generator     Generator
		domains       Domains
		deployer      Deployer
		leads         Leads
		publicURL     string
		maxUploadSize int64
	}
	HTTPOption func(*HTTP)
)

// badRequest sentinels mapped to 400
var badRequest = []error{
	content.ErrInvalidInput,
	content.ErrUnknownField,
	content.ErrIndexOutOfRange,
	domains.ErrInvalidDomain,
	domains.ErrInvalidRequest,
	domains.ErrPaymentIncomplete,
	domains.ErrMissingMetadata,
}

// ------------------------------------------------------------------------------------------------
// ~ Constructor
// ------------------------------------------------------------------------------------------------

// NewHTTP returns the api and page handler
func NewHTTP(l *zap.Logger, sites Sites, opts ...HTTPOption) http.Handler {
	inst := &HTTP{
		l:             l.Named("http"),
		sites:         sites,
		maxUploadSize: DefaultMaxUploadSize,
	}

	for _, opt := range opts {
		opt(inst)
	}

	inst.router = inst.routes()
	return inst
}

// ------------------------------------------------------------------------------------------------
// ~ Options
// ------------------------------------------------------------------------------------------------

func WithGenerator(v Generator) HTTPOption {
	return func(o *HTTP) {
		o.generator = v
	}
}

func WithDomains(v Domains) HTTPOption {
	return func(o *HTTP) {
		o.domains = v
	}
}

func WithDeployer(v Deployer) HTTPOption {
	return func(o *HTTP) {
		o.deployer = v
	}
}

func WithLeads(v Leads) HTTPOption {
	return func(o *HTTP) {
		o.leads = v
	}
}

// WithPublicURL origin used for payment redirects when the request carries none
func WithPublicURL(v string) HTTPOption {
	return func(o *HTTP) {
		o.publicURL = strings.TrimSuffix(v, "/")
	}
}

func WithMaxUploadSize(v int64) HTTPOption {
	return func(o *HTTP) {
		if v > 0 {
			o.maxUploadSize = v
		}
	}
}

// WithAllowedOrigins origins allowed to open the generation socket. Without any only same origin
// requests are accepted.
func WithAllowedOrigins(v ...string) HTTPOption {
	return func(o *HTTP) {
		if len(v) == 0 {
			return
		}
		allowed := make(map[string]bool, len(v))
		for _, origin := range v {
			allowed[strings.TrimSuffix(origin, "/")] = true
		}
		o.upgrader.CheckOrigin = func(r *http.Request) bool {
			origin := r.Header.Get("Origin")
			return origin == "" || allowed["*"] || allowed[origin]
		}
	}
}

// ------------------------------------------------------------------------------------------------
// ~ Public methods
// ------------------------------------------------------------------------------------------------

func (h *HTTP) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	h.router.ServeHTTP(w, r)
}

// ------------------------------------------------------------------------------------------------
// ~ Private methods
// ------------------------------------------------------------------------------------------------

func (h *HTTP) routes() chi.Router {
	r := chi.NewRouter()

	r.NotFound(func(w http.ResponseWriter, r *http.Request) {
		h.writeJSON(w, http.StatusNotFound, responses.NewError(http.StatusNotFound, "Not found"))
	})
	r.MethodNotAllowed(func(w http.ResponseWriter, r *http.Request) {
		h.writeJSON(w, http.StatusMethodNotAllowed, responses.NewError(http.StatusMethodNotAllowed, "Method not allowed"))
	})

	r.Route("/api", func(r chi.Router) {
		r.Post("/generate", h.handle(RouteGenerate, h.handleGenerate))
		r.Get("/sites", h.handle(RouteListSites, h.handleListSites))
		r.Route("/sites/{id}", func(r chi.Router) {
			r.Get("/", h.handle(RouteGetSite, h.handleGetSite))
			r.Post("/fields", h.handle(RouteUpdateField, h.handleUpdateField))
			r.Post("/images", h.handle(RouteUploadImage, h.handleUploadImage))
			r.Post("/deploy", h.handle(RouteDeploy, h.handleDeploy))
			r.Get("/revisions", h.handle(RouteRevisions, h.handleRevisions))
		})
		r.Post("/check-domain", h.handle(RouteCheckDomain, h.handleCheckDomain))
		r.Post("/create-domain-checkout", h.handle(RouteDomainCheckout, h.handleDomainCheckout))
		r.Post("/purchase-domain", h.handle(RoutePurchaseDomain, h.handlePurchaseDomain))
		r.Post("/create-portal-session", h.handle(RoutePortalSession, h.handlePortalSession))
		r.Get("/leads", h.handle(RouteListLeads, h.handleListLeads))
	})
	r.Get("/ws/generate", h.handleGenerateStream)
	r.Get("/sites/{id}", h.handleSitePage)

	return r
}

// handle wraps fn with metrics and json error responses
func (h *HTTP) handle(route Route, fn func(w http.ResponseWriter, r *http.Request) error) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		err := fn(w, r)
		result := "success"
		if err != nil {
			result = "error"
			status, message := h.errorStatus(err)
			l := h.l.With(zap.String("route", string(route)), zap.Int("status", status))
			if status >= http.StatusInternalServerError {
				l.Error("request failed", zap.Error(err))
			} else {
				l.Info("request rejected", zap.Error(err))
			}
			h.writeJSON(w, status, responses.NewError(status, message))
		}
		metrics.ServiceRequestCounter.WithLabelValues(string(route), result).Inc()
		metrics.ServiceRequestDuration.WithLabelValues(string(route), result).Observe(time.Since(start).Seconds())
	}
}

// errorStatus maps err to a status code and a client facing message
func (h *HTTP) errorStatus(err error) (int, string) {
	var respErr *responses.Error
	if errors.As(err, &respErr) {
		return respErr.Status, respErr.Message
	}
	if errors.Is(err, vendorapi.ErrNotConfigured) {
		return http.StatusInternalServerError, "Server configuration error: " + trimSentinel(err, vendorapi.ErrNotConfigured)
	}
	if errors.Is(err, repo.ErrNotFound) {
		return http.StatusNotFound, "Site not found"
	}
	if errors.Is(err, repo.ErrNotReady) {
		return http.StatusServiceUnavailable, "Sites are still loading"
	}
	for _, sentinel := range badRequest {
		if errors.Is(err, sentinel) {
			return http.StatusBadRequest, trimSentinel(err, sentinel)
		}
	}
	if errors.Is(err, generator.ErrModelNotFound) {
		return http.StatusInternalServerError, generator.ErrModelNotFound.Error()
	}
	if status := vendorapi.StatusCode(err); status >= http.StatusBadRequest {
		return status, err.Error()
	}
	return http.StatusInternalServerError, err.Error()
}

func (h *HTTP) writeJSON(w http.ResponseWriter, status int, v interface{}) {
	data, err := json.Marshal(v)
	if err != nil {
		h.l.Error("could not encode reply", zap.Error(err))
		http.Error(w, "could not encode reply", http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_, _ = w.Write(data)
}

// decode reads a json body into v, an empty body leaves v untouched
func (h *HTTP) decode(w http.ResponseWriter, r *http.Request, v interface{}) error {
	data, err := io.ReadAll(http.MaxBytesReader(w, r.Body, DefaultMaxBodySize))
	if err != nil {
		return responses.NewError(http.StatusRequestEntityTooLarge, "Request body too large")
	}
	if len(bytes.TrimSpace(data)) == 0 {
		return nil
	}
	if err := json.Unmarshal(data, v); err != nil {
		return responses.NewError(http.StatusBadRequest, "Invalid JSON body")
	}
	return nil
}

// origin of the calling page for payment redirects
func (h *HTTP) origin(r *http.Request) (string, error) {
	if origin := utils.Origin(r.Header.Get("Origin")); origin != "" {
		return origin, nil
	}
	if h.publicURL != "" {
		return h.publicURL, nil
	}
	return "", responses.NewError(http.StatusBadRequest, "Missing request origin")
}

// ~ Sites

func (h *HTTP) handleGenerate(w http.ResponseWriter, r *http.Request) error {
	var inputs requests.Generate
	if err := h.decode(w, r, &inputs); err != nil {
		return err
	}
	site, err := h.generate(r.Context(), inputs, nil)
	if err != nil {
		return err
	}
	h.writeJSON(w, http.StatusCreated, site)
	return nil
}

// generate validates inputs, captures the lead, generates and stores the site
func (h *HTTP) generate(ctx context.Context, inputs content.GeneratorInputs, progress generator.ProgressFunc) (*content.SiteInstance, error) {
	if h.generator == nil {
		return nil, vendorapi.NotConfigured("GEMINI_API_KEY")
	}
	inputs = inputs.Normalize()
	if err := inputs.Validate(); err != nil {
		return nil, err
	}
	if h.leads != nil {
		go h.leads.Capture(context.WithoutCancel(ctx), inputs)
	}
	data, err := h.generator.Generate(ctx, inputs, progress)
	if err != nil {
		return nil, err
	}
	return h.sites.Create(ctx, inputs, data)
}

func (h *HTTP) handleListSites(w http.ResponseWriter, r *http.Request) error {
	sites, err := h.sites.List(r.Context())
	if err != nil {
		return err
	}
	h.writeJSON(w, http.StatusOK, sites)
	return nil
}

func (h *HTTP) handleGetSite(w http.ResponseWriter, r *http.Request) error {
	site, err := h.sites.Get(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		return err
	}
	h.writeJSON(w, http.StatusOK, site)
	return nil
}

func (h *HTTP) handleUpdateField(w http.ResponseWriter, r *http.Request) error {
	var req requests.UpdateField
	if err := h.decode(w, r, &req); err != nil {
		return err
	}
	u, err := content.ParseUpdate(req.Path, req.Value)
	if err != nil {
		return err
	}
	site, err := h.sites.ApplyUpdate(r.Context(), chi.URLParam(r, "id"), u)
	if err != nil {
		return err
	}
	h.writeJSON(w, http.StatusOK, site)
	return nil
}

func (h *HTTP) handleUploadImage(w http.ResponseWriter, r *http.Request) error {
	field := content.TextField(r.URL.Query().Get("field"))
	if !field.IsImage() {
		return responses.NewError(http.StatusBadRequest, "Invalid image field: "+string(field))
	}
	r.Body = http.MaxBytesReader(w, r.Body, h.maxUploadSize)
	file, _, err := r.FormFile("file")
	if err != nil {
		return responses.NewError(http.StatusBadRequest, "Missing image file")
	}
	defer file.Close()
	data, err := io.ReadAll(file)
	if err != nil {
		return responses.NewError(http.StatusRequestEntityTooLarge, "Image too large")
	}
	if mime := http.DetectContentType(data); !strings.HasPrefix(mime, "image/") {
		return responses.NewError(http.StatusBadRequest, "Unsupported file type: "+mime)
	}

	src, err := images.Compress(data, images.DefaultOptions)
	if err != nil {
		h.l.Warn("image compression failed, storing original", zap.String("field", string(field)), zap.Error(err))
		src = images.DataURI(data, "")
	}
	site, err := h.sites.ApplyUpdate(r.Context(), chi.URLParam(r, "id"), content.TextUpdate{Field: field, Value: src})
	if err != nil {
		return err
	}
	h.writeJSON(w, http.StatusOK, site)
	return nil
}

func (h *HTTP) handleDeploy(w http.ResponseWriter, r *http.Request) error {
	if h.deployer == nil {
		return vendorapi.NotConfigured("VERCEL_TOKEN")
	}
	id := chi.URLParam(r, "id")
	site, err := h.sites.Get(r.Context(), id)
	if err != nil {
		return err
	}
	var buf bytes.Buffer
	if err := render.RenderSite(&buf, site, false); err != nil {
		return err
	}
	project := projectName(site)
	deployment, err := h.deployer.Deploy(r.Context(), project, []vercel.File{{Name: "index.html", Data: buf.String()}})
	if err != nil {
		return err
	}
	site, err = h.sites.MarkDeployed(r.Context(), id, deployment.URL)
	if err != nil {
		return err
	}
	h.writeJSON(w, http.StatusOK, responses.Deploy{URL: deployment.URL, Project: project, Site: site})
	return nil
}

func (h *HTTP) handleRevisions(w http.ResponseWriter, r *http.Request) error {
	id := chi.URLParam(r, "id")
	revisions, err := h.sites.Revisions(r.Context(), id)
	if err != nil {
		return err
	}
	h.writeJSON(w, http.StatusOK, responses.Revisions{ID: id, Revisions: revisions})
	return nil
}

func (h *HTTP) handleSitePage(w http.ResponseWriter, r *http.Request) {
	start := time.Now()
	result := "success"
	defer func() {
		metrics.ServiceRequestCounter.WithLabelValues(string(RouteSitePage), result).Inc()
		metrics.ServiceRequestDuration.WithLabelValues(string(RouteSitePage), result).Observe(time.Since(start).Seconds())
	}()

	site, err := h.sites.Get(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		result = "error"
		status, _ := h.errorStatus(err)
		httputils.ServerError(h.l, w, r, status, err)
		return
	}
	edit, _ := strconv.ParseBool(r.URL.Query().Get("edit"))

	var buf bytes.Buffer
	if err := render.RenderSite(&buf, site, edit); err != nil {
		result = "error"
		httputils.ServerError(h.l, w, r, http.StatusInternalServerError, err)
		return
	}
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	_, _ = w.Write(buf.Bytes())
}

// ~ Domains

func (h *HTTP) handleCheckDomain(w http.ResponseWriter, r *http.Request) error {
	if h.domains == nil {
		return vendorapi.NotConfigured("VERCEL_TOKEN")
	}
	var req requests.CheckDomain
	if err := h.decode(w, r, &req); err != nil {
		return err
	}
	domain := req.Domain
	if domain == "" {
		var err error
		if domain, err = domains.FQDN(req.Name, req.TLD); err != nil {
			return err
		}
	}
	res, err := h.domains.Search(r.Context(), domain)
	if err != nil {
		return err
	}
	h.writeJSON(w, http.StatusOK, res)
	return nil
}

func (h *HTTP) handleDomainCheckout(w http.ResponseWriter, r *http.Request) error {
	if h.domains == nil {
		return vendorapi.NotConfigured("STRIPE_SECRET_KEY")
	}
	var req requests.DomainCheckout
	if err := h.decode(w, r, &req); err != nil {
		return err
	}
	origin, err := h.origin(r)
	if err != nil {
		return err
	}
	url, err := h.domains.CreateCheckout(r.Context(), domains.CheckoutRequest{
		Domain:      req.Domain,
		Price:       req.USDPrice(),
		SiteID:      req.SiteID,
		ProjectName: req.ProjectName,
		Origin:      origin,
	})
	if err != nil {
		return err
	}
	h.writeJSON(w, http.StatusOK, responses.URL{URL: url})
	return nil
}

func (h *HTTP) handlePurchaseDomain(w http.ResponseWriter, r *http.Request) error {
	if h.domains == nil {
		return vendorapi.NotConfigured("STRIPE_SECRET_KEY")
	}
	var req requests.PurchaseDomain
	if err := h.decode(w, r, &req); err != nil {
		return err
	}
	if req.SessionID == "" {
		return responses.NewError(http.StatusBadRequest, "Missing sessionId")
	}
	res, err := h.domains.Purchase(r.Context(), req.SessionID)
	if err != nil {
		return err
	}
	h.writeJSON(w, http.StatusOK, res)
	return nil
}

func (h *HTTP) handlePortalSession(w http.ResponseWriter, r *http.Request) error {
	if h.domains == nil {
		return vendorapi.NotConfigured("STRIPE_SECRET_KEY")
	}
	var req requests.PortalSession
	if err := h.decode(w, r, &req); err != nil {
		return err
	}
	if req.CustomerID == "" {
		return responses.NewError(http.StatusBadRequest, "Missing customerId")
	}
	origin, err := h.origin(r)
	if err != nil {
		return err
	}
	url, err := h.domains.PortalSession(r.Context(), req.CustomerID, origin)
	if err != nil {
		return err
	}
	h.writeJSON(w, http.StatusOK, responses.URL{URL: url})
	return nil
}

// ~ Leads

func (h *HTTP) handleListLeads(w http.ResponseWriter, r *http.Request) error {
	list := []*content.Lead{}
	if h.leads != nil {
		limit := 0
		if v := r.URL.Query().Get("limit"); v != "" {
			var err error
			if limit, err = strconv.Atoi(v); err != nil || limit < 0 {
				return responses.NewError(http.StatusBadRequest, "Invalid limit")
			}
		}
		var err error
		if list, err = h.leads.List(r.Context(), limit); err != nil {
			return err
		}
	}
	h.writeJSON(w, http.StatusOK, list)
	return nil
}

// ------------------------------------------------------------------------------------------------
// ~ Private functions
// ------------------------------------------------------------------------------------------------

// projectName keeps redeployments of a site in the same hosting project
func projectName(site *content.SiteInstance) string {
	company := ""
	if site.FormInputs != nil {
		company = site.FormInputs.CompanyName
	}
	if company == "" && site.Data != nil {
		company = site.Data.Contact.CompanyName
	}
	return vercel.ProjectName(company, site.ID)
}

// trimSentinel returns the message of err without the sentinel suffix
func trimSentinel(err, sentinel error) string {
	msg := err.Error()
	if trimmed := strings.TrimSuffix(msg, ": "+sentinel.Error()); trimmed != "" {
		return trimmed
	}
	return msg
}
