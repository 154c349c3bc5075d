package repo

import (
	"context"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/pkg/errors"
	"go.uber.org/zap"
)

const (
	HistorySiteJSONPrefix = "site-"
	HistorySiteJSONSuffix = ".json"
	historyCurrent        = "-current"
	historyRevision       = "-rev-"
	// revisionTimeFormat sorts lexicographically in time order
	revisionTimeFormat = "20060102T150405.000000000Z"
)

type (
	// History keeps the current record and a bounded number of revisions per site
	History struct {
		l            *zap.Logger
		storage      Storage
		historyDir   string // directory used for default filesystem storage
		historyLimit int
		now          func() time.Time
		mu           sync.RWMutex
	}
	HistoryOption func(*History)
)

// ------------------------------------------------------------------------------------------------
// ~ Options
// ------------------------------------------------------------------------------------------------

func HistoryWithHistoryLimit(v int) HistoryOption {
	return func(o *History) {
		o.historyLimit = v
	}
}

func HistoryWithHistoryDir(v string) HistoryOption {
	return func(o *History) {
		o.historyDir = v
	}
}

func HistoryWithStorage(s Storage) HistoryOption {
	return func(o *History) {
		o.storage = s
	}
}

func HistoryWithClock(v func() time.Time) HistoryOption {
	return func(o *History) {
		o.now = v
	}
}

// ------------------------------------------------------------------------------------------------
// ~ Constructor
// ------------------------------------------------------------------------------------------------

func NewHistory(l *zap.Logger, opts ...HistoryOption) (*History, error) {
	inst := &History{
		l:            l,
		historyDir:   "/var/lib/sitegen",
		historyLimit: 10,
		now:          time.Now,
	}

	for _, opt := range opts {
		opt(inst)
	}

	// If no storage provided, create a default filesystem storage
	if inst.storage == nil {
		storage, err := NewFilesystemStorage(inst.historyDir)
		if err != nil {
			return nil, fmt.Errorf("failed to create default filesystem storage: %w", err)
		}
		inst.storage = storage
	}

	return inst, nil
}

// ------------------------------------------------------------------------------------------------
// ~ Public methods
// ------------------------------------------------------------------------------------------------

// CurrentKey returns the storage key of the current record of a site
func CurrentKey(id string) string {
	return HistorySiteJSONPrefix + id + historyCurrent + HistorySiteJSONSuffix
}

// Add writes the JSON bytes of a site as a new revision and as its current record.
func (h *History) Add(ctx context.Context, id string, jsonBytes []byte) error {
	h.mu.Lock()
	defer h.mu.Unlock()

	revisionKey := revisionPrefix(id) + h.now().UTC().Format(revisionTimeFormat) + HistorySiteJSONSuffix

	if err := h.storage.Write(ctx, revisionKey, jsonBytes); err != nil {
		return errors.Wrap(err, "failed to write site revision")
	}

	h.l.Debug("writing files",
		zap.String("revision", revisionKey),
		zap.String("current", CurrentKey(id)),
	)

	if err := h.storage.Write(ctx, CurrentKey(id), jsonBytes); err != nil {
		return errors.Wrap(err, "failed to write current site")
	}

	if err := h.cleanup(ctx, id); err != nil {
		return errors.Wrap(err, "failed to clean up history")
	}

	return nil
}

// GetCurrent reads the current record of a site.
// Returns os.ErrNotExist if the site does not exist.
func (h *History) GetCurrent(ctx context.Context, id string) ([]byte, error) {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return h.storage.Read(ctx, CurrentKey(id))
}

// GetRevision reads a single revision by its key
func (h *History) GetRevision(ctx context.Context, id, key string) ([]byte, error) {
	if !strings.HasPrefix(key, revisionPrefix(id)) {
		return nil, errors.Errorf("revision %q does not belong to site %q", key, id)
	}
	h.mu.RLock()
	defer h.mu.RUnlock()
	return h.storage.Read(ctx, key)
}

// Revisions lists the revision keys of a site, newest first
func (h *History) Revisions(ctx context.Context, id string) ([]string, error) {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return h.getHistory(ctx, id)
}

// IDs lists the ids of all sites with a current record
func (h *History) IDs(ctx context.Context) ([]string, error) {
	h.mu.RLock()
	defer h.mu.RUnlock()
	keys, err := h.storage.List(ctx, HistorySiteJSONPrefix)
	if err != nil {
		return nil, err
	}
	var ids []string
	for _, key := range keys {
		if !strings.HasSuffix(key, historyCurrent+HistorySiteJSONSuffix) {
			continue
		}
		ids = append(ids, strings.TrimSuffix(strings.TrimPrefix(key, HistorySiteJSONPrefix), historyCurrent+HistorySiteJSONSuffix))
	}
	return ids, nil
}

// Close releases resources held by the history storage.
func (h *History) Close() error {
	h.mu.Lock()
	defer h.mu.Unlock()
	if h.storage != nil {
		return h.storage.Close()
	}
	return nil
}

// ------------------------------------------------------------------------------------------------
// ~ Private methods
// ------------------------------------------------------------------------------------------------

func revisionPrefix(id string) string {
	return HistorySiteJSONPrefix + id + historyRevision
}

func (h *History) getHistory(ctx context.Context, id string) (files []string, err error) {
	keys, err := h.storage.List(ctx, revisionPrefix(id))
	if err != nil {
		return nil, err
	}

	for _, key := range keys {
		if strings.HasSuffix(key, HistorySiteJSONSuffix) {
			files = append(files, key)
		}
	}
	return files, nil
}

func (h *History) cleanup(ctx context.Context, id string) error {
	files, err := h.getFilesForCleanup(ctx, id, h.historyLimit)
	if err != nil {
		return err
	}

	for _, f := range files {
		h.l.Debug("removing outdated revision", zap.String("file", f))
		if err := h.storage.Delete(ctx, f); err != nil {
			return fmt.Errorf("could not remove file %s: %w", f, err)
		}
	}

	return nil
}

func (h *History) getFilesForCleanup(ctx context.Context, id string, historyVersions int) (files []string, err error) {
	revisions, err := h.getHistory(ctx, id)
	if err != nil {
		return nil, errors.New("could not generate file cleanup list: " + err.Error())
	}

	if len(revisions) > historyVersions {
		files = append(files, revisions[historyVersions:]...)
	}
	return files, nil
}
