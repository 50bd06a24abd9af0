package tenant

import (
	"go.uber.org/zap"
	"gorm.io/gorm"
)

// Handle is the runtime binding between one tenant key and its entity
// accessors. It is constructed once per distinct key by the registry
// and shared by every caller resolving that key. Every accessor filters
// and stamps rows with the bound key, so a caller cannot express a
// cross-tenant query through a handle.
type Handle struct {
	key Key

	panels    *PanelStore
	materials *MaterialStore
	reports   *ReportStore
	prices    *PriceStore
}

func newHandle(db *gorm.DB, k Key, log *zap.Logger) *Handle {
	log = log.With(zap.String("tenant", k.String()))
	return &Handle{
		key:       k,
		panels:    &PanelStore{db: db, key: k, log: log},
		materials: &MaterialStore{db: db, key: k, log: log},
		reports:   &ReportStore{db: db, key: k, log: log},
		prices:    &PriceStore{db: db, key: k, log: log},
	}
}

// Key returns the tenant key the handle is bound to.
func (h *Handle) Key() Key { return h.key }

// Panels returns the tenant's panel accessor.
func (h *Handle) Panels() *PanelStore { return h.panels }

// Materials returns the tenant's material accessor.
func (h *Handle) Materials() *MaterialStore { return h.materials }

// Reports returns the tenant's daily report accessor.
func (h *Handle) Reports() *ReportStore { return h.reports }

// Prices returns the tenant's total price accessor.
func (h *Handle) Prices() *PriceStore { return h.prices }
