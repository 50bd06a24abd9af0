package tenant

import (
	"context"
	"fmt"
	"strconv"
	"strings"
	"sync"
	"time"

	"go.uber.org/zap"
	"golang.org/x/sync/singleflight"
	"gorm.io/gorm"

	"github.com/Psychotichub/panel/internal/apperr"
	"github.com/Psychotichub/panel/pkg/config"
	"github.com/Psychotichub/panel/prometheus"
)

// Registry resolves tenant keys to handles. It owns the process-wide
// handle cache and guarantees that provisioning for a given key runs at
// most once at a time: concurrent resolvers for the same key join the
// in-flight attempt and share its outcome. Distinct keys resolve fully
// independently; there is no lock spanning tenants other than the map
// itself.
type Registry struct {
	db  *gorm.DB
	cfg config.TenantConfig
	log *zap.Logger

	mu      sync.RWMutex
	handles map[Key]*Handle

	group singleflight.Group

	// provision performs the one-time schema setup for a key. Swapped
	// out in tests; production wiring is (*Registry).provisionSchema.
	provision func(ctx context.Context, k Key) error

	// pingStore checks raw store connectivity once. Swapped out in
	// tests; production wiring is (*Registry).pingOnce.
	pingStore func(ctx context.Context) error
}

// NewRegistry creates a registry bound to an established database
// connection.
func NewRegistry(db *gorm.DB, cfg config.TenantConfig, log *zap.Logger) *Registry {
	r := &Registry{
		db:      db,
		cfg:     cfg,
		log:     log,
		handles: make(map[Key]*Handle),
	}
	r.provision = r.provisionSchema
	r.pingStore = r.pingOnce
	return r
}

// flightKey renders the key for singleflight grouping. String() is for
// humans and collides across tenants whose parts contain the
// separator, so the parts are quoted instead: two distinct keys never
// share a flight.
func flightKey(k Key) string {
	return strconv.Quote(k.Site) + strconv.Quote(k.Company)
}

// Resolve returns the handle for (site, company), provisioning the
// tenant's storage constraints on first use. A cached handle returns
// without blocking. On a provisioning failure nothing is cached and a
// later Resolve retries from scratch.
func (r *Registry) Resolve(ctx context.Context, site, company string) (*Handle, error) {
	if strings.TrimSpace(site) == "" {
		return nil, apperr.Validation("site", "must not be empty")
	}
	if strings.TrimSpace(company) == "" {
		return nil, apperr.Validation("company", "must not be empty")
	}

	k := NewKey(site, company)

	r.mu.RLock()
	h, ok := r.handles[k]
	r.mu.RUnlock()
	if ok {
		prometheus.RecordTenantResolution("cached")
		return h, nil
	}

	v, err, _ := r.group.Do(flightKey(k), func() (interface{}, error) {
		// A flight that finished while this caller queued may already
		// have published the handle.
		r.mu.RLock()
		h, ok := r.handles[k]
		r.mu.RUnlock()
		if ok {
			return h, nil
		}
		return r.initialize(k)
	})
	if err != nil {
		prometheus.RecordTenantResolution("error")
		return nil, err
	}
	prometheus.RecordTenantResolution("resolved")
	return v.(*Handle), nil
}

// initialize runs one provisioning attempt and publishes the handle on
// success. It deliberately runs on a fresh context rather than the
// resolving request's: the result is shared with every current and
// future caller, so an abandoning request must not cancel it.
func (r *Registry) initialize(k Key) (*Handle, error) {
	start := time.Now()
	ctx, cancel := context.WithTimeout(context.Background(), r.cfg.ProvisionTimeout)
	defer cancel()

	if err := r.provision(ctx, k); err != nil {
		r.log.Error("tenant provisioning failed",
			zap.String("tenant", k.String()),
			zap.Error(err))
		prometheus.ObserveTenantProvision("error", time.Since(start))
		return nil, fmt.Errorf("tenant %s: %w", k, err)
	}

	h := newHandle(r.db, k, r.log)
	r.mu.Lock()
	r.handles[k] = h
	cached := len(r.handles)
	r.mu.Unlock()
	prometheus.UpdateCachedTenants(cached)

	r.log.Info("tenant provisioned",
		zap.String("tenant", k.String()),
		zap.Duration("took", time.Since(start)))
	prometheus.ObserveTenantProvision("success", time.Since(start))
	return h, nil
}

// provisionSchema verifies connectivity and ensures the tenant's
// uniqueness constraints exist. A leftover single-field panel
// constraint from the superseded design is surfaced as a schema
// conflict for the operator to migrate offline; it is never dropped
// here.
func (r *Registry) provisionSchema(ctx context.Context, k Key) error {
	if err := r.ping(ctx); err != nil {
		return &apperr.ConnectionError{Err: err}
	}

	legacy := legacyPanelIndexName(k)
	present, err := hasIndex(r.db.WithContext(ctx), "panels", legacy)
	if err != nil {
		return err
	}
	if present {
		return &apperr.SchemaConflictError{
			Constraint: legacy,
			Detail:     "superseded panel-name uniqueness rule present; run the index migration tool for this tenant",
		}
	}

	db := r.db.WithContext(ctx)
	if err := createPanelConstraints(db, k); err != nil {
		return err
	}
	return createMaterialConstraints(db, k)
}

// ping checks store reachability with bounded retry/backoff. The last
// failed attempt returns its error directly, without a trailing
// backoff sleep.
func (r *Registry) ping(ctx context.Context) error {
	attempts := r.cfg.ConnectRetries
	if attempts < 1 {
		attempts = 1
	}

	var lastErr error
	for i := 0; i < attempts; i++ {
		if lastErr = r.pingStore(ctx); lastErr == nil {
			return nil
		}
		if i == attempts-1 {
			break
		}
		r.log.Warn("store unreachable, retrying",
			zap.Int("attempt", i+1),
			zap.Error(lastErr))
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-time.After(r.cfg.ConnectBackoff):
		}
	}
	return lastErr
}

func (r *Registry) pingOnce(ctx context.Context) error {
	sqlDB, err := r.db.DB()
	if err != nil {
		return err
	}
	return sqlDB.PingContext(ctx)
}

// Teardown drops every cached handle. Subsequent resolves provision
// again.
func (r *Registry) Teardown() {
	r.mu.Lock()
	r.handles = make(map[Key]*Handle)
	r.mu.Unlock()
	prometheus.UpdateCachedTenants(0)
}
