package tenant

import (
	"context"

	"go.uber.org/zap"
	"gorm.io/gorm"
)

// MigrationReport lists one tenant's panel constraint set before and
// after a migration run.
type MigrationReport struct {
	Tenant  string   `json:"tenant"`
	Before  []string `json:"before"`
	After   []string `json:"after"`
	Dropped bool     `json:"dropped_legacy"`
	Created bool     `json:"created_compound"`
}

// MigratePanelIndexes transitions one tenant's panel constraint from
// the obsolete single-field rule (panel name alone) to the compound
// (panel name, circuit) rule. It runs out-of-band, never on the request
// path, and is safe to re-run: a missing legacy index and an existing
// compound index are both treated as success.
func MigratePanelIndexes(ctx context.Context, db *gorm.DB, k Key, log *zap.Logger) (*MigrationReport, error) {
	db = db.WithContext(ctx)
	log = log.With(zap.String("tenant", k.String()))

	report := &MigrationReport{Tenant: k.String()}

	before, err := listTenantPanelIndexes(db, k)
	if err != nil {
		return nil, err
	}
	report.Before = before
	log.Info("current panel constraints", zap.Strings("indexes", before))

	legacy := legacyPanelIndexName(k)
	present, err := hasIndex(db, "panels", legacy)
	if err != nil {
		return nil, err
	}
	if present {
		if err := dropIndex(db, legacy); err != nil {
			return nil, err
		}
		report.Dropped = true
		log.Info("dropped obsolete constraint", zap.String("index", legacy))
	} else {
		log.Info("obsolete constraint not present, nothing to drop", zap.String("index", legacy))
	}

	compound := compoundPanelIndexName(k)
	present, err = hasIndex(db, "panels", compound)
	if err != nil {
		return nil, err
	}
	if !present {
		if err := createPanelConstraints(db, k); err != nil {
			return nil, err
		}
		report.Created = true
		log.Info("created compound constraint", zap.String("index", compound))
	} else {
		log.Info("compound constraint already present", zap.String("index", compound))
	}

	after, err := listTenantPanelIndexes(db, k)
	if err != nil {
		return nil, err
	}
	report.After = after
	log.Info("final panel constraints", zap.Strings("indexes", after))

	return report, nil
}
