package cache

import (
	"context"
	"net/url"
	"strings"
	"sync"

	"github.com/inkwell-cms/core/internal/models"
	"github.com/inkwell-cms/core/internal/store"
	"go.uber.org/zap"
)

// Registry caches every web log, keyed by id, and resolves inbound
// requests to the tenant whose URL base is the longest prefix of the
// request path. It is filled once at process start and updated in place
// when settings are saved.
type Registry struct {
	webLogs sync.Map // web log id -> *models.WebLog
	store   *store.WebLogStore
	log     *zap.Logger
}

func NewRegistry(s *store.WebLogStore, log *zap.Logger) *Registry {
	if log == nil {
		log = zap.NewNop()
	}
	return &Registry{store: s, log: log}
}

// Fill loads every web log from the store, replacing the cached set.
func (r *Registry) Fill(ctx context.Context) error {
	webLogs, err := r.store.All(ctx)
	if err != nil {
		return err
	}
	r.webLogs.Range(func(key, _ any) bool {
		r.webLogs.Delete(key)
		return true
	})
	for _, wl := range webLogs {
		r.webLogs.Store(wl.ID, wl)
	}
	r.log.Info("web log registry filled", zap.Int("count", len(webLogs)))
	return nil
}

// Get returns the cached web log by id.
func (r *Registry) Get(id string) (*models.WebLog, bool) {
	v, ok := r.webLogs.Load(id)
	if !ok {
		return nil, false
	}
	return v.(*models.WebLog), true
}

// Exists reports whether the id is cached.
func (r *Registry) Exists(id string) bool {
	_, ok := r.webLogs.Load(id)
	return ok
}

// Resolve returns the web log whose URL base matches the request host and
// whose base path is the longest prefix of the request path. Multiple web
// logs may share a host under different base paths.
func (r *Registry) Resolve(host, path string) (*models.WebLog, bool) {
	var (
		best    *models.WebLog
		bestLen = -1
	)
	r.webLogs.Range(func(_, v any) bool {
		wl := v.(*models.WebLog)
		base, err := url.Parse(wl.URLBase)
		if err != nil {
			return true
		}
		if !strings.EqualFold(base.Host, host) {
			return true
		}
		basePath := strings.TrimSuffix(base.Path, "/")
		if path != basePath && !strings.HasPrefix(path, basePath+"/") {
			return true
		}
		if len(basePath) > bestLen {
			best, bestLen = wl, len(basePath)
		}
		return true
	})
	return best, best != nil
}

// Update replaces the cached web log after a settings save.
func (r *Registry) Update(webLog *models.WebLog) {
	r.webLogs.Store(webLog.ID, webLog)
}

// Remove evicts a deleted web log.
func (r *Registry) Remove(id string) {
	r.webLogs.Delete(id)
}
