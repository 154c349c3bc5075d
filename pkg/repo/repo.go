package repo

import (
	"context"
	"os"
	"sort"
	"sync"
	"sync/atomic"
	"time"

	"github.com/foomo/sitegen/content"
	"github.com/foomo/sitegen/pkg/metrics"
	"github.com/google/uuid"
	jsoniter "github.com/json-iterator/go"
	"github.com/pkg/errors"
	"go.uber.org/zap"
)

var json = jsoniter.ConfigCompatibleWithStandardLibrary

var (
	ErrNotFound = errors.New("site not found")
	ErrNotReady = errors.New("repo not loaded")
)

// Repo site repository
type (
	Repo struct {
		l         *zap.Logger
		history   *History
		loaded    *atomic.Bool
		now       func() time.Time
		newID     func() string
		sites     map[string]*content.SiteInstance
		sitesLock sync.RWMutex
		// serializes read-modify-write cycles per site
		siteLocks sync.Map
	}
	Option func(*Repo)
)

// ------------------------------------------------------------------------------------------------
// ~ Constructor
// ------------------------------------------------------------------------------------------------

func New(l *zap.Logger, history *History, opts ...Option) *Repo {
	inst := &Repo{
		l:       l.Named("repo"),
		history: history,
		loaded:  &atomic.Bool{},
		now:     time.Now,
		newID:   uuid.NewString,
		sites:   map[string]*content.SiteInstance{},
	}

	for _, opt := range opts {
		opt(inst)
	}

	return inst
}

// ------------------------------------------------------------------------------------------------
// ~ Options
// ------------------------------------------------------------------------------------------------

func WithClock(v func() time.Time) Option {
	return func(o *Repo) {
		o.now = v
	}
}

func WithIDGenerator(v func() string) Option {
	return func(o *Repo) {
		o.newID = v
	}
}

// ------------------------------------------------------------------------------------------------
// ~ Getter
// ------------------------------------------------------------------------------------------------

func (r *Repo) Loaded() bool {
	return r.loaded.Load()
}

// ------------------------------------------------------------------------------------------------
// ~ Public methods
// ------------------------------------------------------------------------------------------------

// Load restores all current site records from the history storage
func (r *Repo) Load(ctx context.Context) error {
	l := r.l.Named("load")

	ids, err := r.history.IDs(ctx)
	if err != nil {
		return errors.Wrap(err, "failed to list sites")
	}

	sites := make(map[string]*content.SiteInstance, len(ids))
	for _, id := range ids {
		site, err := r.read(ctx, id)
		if err != nil {
			l.Warn("could not restore site", zap.String("id", id), zap.Error(err))
			continue
		}
		sites[id] = site
	}

	r.sitesLock.Lock()
	r.sites = sites
	r.sitesLock.Unlock()
	r.loaded.Store(true)

	l.Info("restored sites", zap.Int("num_sites", len(sites)))
	return nil
}

// Create persists a freshly generated document as a new draft site
func (r *Repo) Create(ctx context.Context, inputs content.GeneratorInputs, data *content.GeneratedSiteData) (*content.SiteInstance, error) {
	if data == nil {
		return nil, errors.Wrap(content.ErrInvalidInput, "missing site data")
	}
	site := &content.SiteInstance{
		ID:               r.newID(),
		Data:             data.Clone(),
		FormInputs:       &inputs,
		DeploymentStatus: content.DeploymentStatusDraft,
	}
	if err := r.Save(ctx, site); err != nil {
		return nil, err
	}
	return site.Clone(), nil
}

// Get returns a copy of the site
func (r *Repo) Get(ctx context.Context, id string) (*content.SiteInstance, error) {
	if err := validateID(id); err != nil {
		return nil, err
	}
	if !r.Loaded() {
		return r.read(ctx, id)
	}
	r.sitesLock.RLock()
	defer r.sitesLock.RUnlock()
	site, ok := r.sites[id]
	if !ok {
		return nil, errors.Wrap(ErrNotFound, id)
	}
	return site.Clone(), nil
}

// List returns all sites, most recently saved first
func (r *Repo) List(ctx context.Context) ([]*content.SiteInstance, error) {
	if !r.Loaded() {
		return nil, ErrNotReady
	}
	r.sitesLock.RLock()
	ret := make([]*content.SiteInstance, 0, len(r.sites))
	for _, site := range r.sites {
		ret = append(ret, site.Clone())
	}
	r.sitesLock.RUnlock()

	sort.Slice(ret, func(i, j int) bool {
		if ret[i].LastSaved != ret[j].LastSaved {
			return ret[i].LastSaved > ret[j].LastSaved
		}
		return ret[i].ID < ret[j].ID
	})
	return ret, nil
}

// Save stamps and persists the site as a new revision
func (r *Repo) Save(ctx context.Context, site *content.SiteInstance) error {
	if site == nil {
		return errors.New("nil site")
	}
	if err := validateID(site.ID); err != nil {
		return err
	}
	unlock := r.lock(site.ID)
	defer unlock()
	return r.save(ctx, site)
}

// ApplyUpdate applies a single field edit and persists the result
func (r *Repo) ApplyUpdate(ctx context.Context, id string, u content.Update) (*content.SiteInstance, error) {
	return r.modify(ctx, id, func(site *content.SiteInstance) error {
		data, err := content.Apply(site.Data, u)
		if err != nil {
			return err
		}
		site.Data = data
		return nil
	})
}

// MarkDeployed records the deployment url of a site
func (r *Repo) MarkDeployed(ctx context.Context, id, url string) (*content.SiteInstance, error) {
	return r.modify(ctx, id, func(site *content.SiteInstance) error {
		site.DeployedURL = url
		site.DeploymentStatus = content.DeploymentStatusDeployed
		return nil
	})
}

// AttachDomain records a purchased custom domain on a site
func (r *Repo) AttachDomain(ctx context.Context, id, domain, orderID string) (*content.SiteInstance, error) {
	return r.modify(ctx, id, func(site *content.SiteInstance) error {
		site.CustomDomain = domain
		site.DomainOrderID = orderID
		return nil
	})
}

// Revisions lists the stored revision keys of a site, newest first
func (r *Repo) Revisions(ctx context.Context, id string) ([]string, error) {
	if err := validateID(id); err != nil {
		return nil, err
	}
	if _, err := r.Get(ctx, id); err != nil {
		return nil, err
	}
	return r.history.Revisions(ctx, id)
}

// Close releases the history storage
func (r *Repo) Close() error {
	return r.history.Close()
}

// ------------------------------------------------------------------------------------------------
// ~ Private methods
// ------------------------------------------------------------------------------------------------

func (r *Repo) modify(ctx context.Context, id string, fn func(site *content.SiteInstance) error) (*content.SiteInstance, error) {
	if err := validateID(id); err != nil {
		return nil, err
	}
	unlock := r.lock(id)
	defer unlock()

	site, err := r.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := fn(site); err != nil {
		return nil, err
	}
	if err := r.save(ctx, site); err != nil {
		return nil, err
	}
	return site.Clone(), nil
}

func (r *Repo) save(ctx context.Context, site *content.SiteInstance) error {
	site.LastSaved = r.now().UnixMilli()
	if site.DeploymentStatus == "" {
		site.DeploymentStatus = content.DeploymentStatusDraft
	}

	jsonBytes, err := json.Marshal(site)
	if err != nil {
		return errors.Wrap(err, "failed to marshal site")
	}

	if err := r.history.Add(ctx, site.ID, jsonBytes); err != nil {
		r.l.Error("Could not persist site in history", zap.String("id", site.ID), zap.Error(err))
		metrics.HistoryPersistFailedCounter.WithLabelValues().Inc()
		return errors.Wrap(err, "failed to persist site")
	}
	metrics.SiteSavesCounter.WithLabelValues().Inc()

	r.sitesLock.Lock()
	r.sites[site.ID] = site.Clone()
	r.sitesLock.Unlock()
	return nil
}

func (r *Repo) read(ctx context.Context, id string) (*content.SiteInstance, error) {
	jsonBytes, err := r.history.GetCurrent(ctx, id)
	if errors.Is(err, os.ErrNotExist) {
		return nil, errors.Wrap(ErrNotFound, id)
	} else if err != nil {
		return nil, errors.Wrap(err, "failed to read site")
	}
	site := &content.SiteInstance{}
	if err := json.Unmarshal(jsonBytes, site); err != nil {
		return nil, errors.Wrap(err, "failed to unmarshal site")
	}
	if site.ID != id {
		return nil, errors.Errorf("site id mismatch: %q != %q", site.ID, id)
	}
	return site, nil
}

func (r *Repo) lock(id string) func() {
	v, _ := r.siteLocks.LoadOrStore(id, &sync.Mutex{})
	mu := v.(*sync.Mutex) //nolint:forcetypeassert
	mu.Lock()
	return mu.Unlock
}

// validateID only accepts uuids so ids can never escape the storage prefix
func validateID(id string) error {
	if len(id) != 36 {
		return errors.Wrap(ErrNotFound, id)
	}
	if _, err := uuid.Parse(id); err != nil {
		return errors.Wrap(ErrNotFound, id)
	}
	return nil
}
