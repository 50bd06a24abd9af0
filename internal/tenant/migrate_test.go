package tenant

import (
	"context"
	"testing"

	qt "github.com/frankban/quicktest"
	"go.uber.org/zap"
)

func TestMigrateDropsLegacyIndex(t *testing.T) {
	c := qt.New(t)
	ctx := context.Background()
	db := openTestDB(c)
	k := NewKey("sitex", "compx")

	// Simulate a tenant provisioned under the superseded rule.
	err := db.Exec(
		"CREATE UNIQUE INDEX " + legacyPanelIndexName(k) +
			" ON panels (panel_name) WHERE " + tenantPredicate(k),
	).Error
	c.Assert(err, qt.IsNil)

	report, err := MigratePanelIndexes(ctx, db, k, zap.NewNop())
	c.Assert(err, qt.IsNil)
	c.Assert(report.Dropped, qt.IsTrue)
	c.Assert(report.Created, qt.IsTrue)
	c.Assert(report.Before, qt.ContentEquals, []string{legacyPanelIndexName(k)})
	c.Assert(report.After, qt.ContentEquals, []string{compoundPanelIndexName(k)})

	has, err := hasIndex(db, "panels", legacyPanelIndexName(k))
	c.Assert(err, qt.IsNil)
	c.Assert(has, qt.IsFalse)
}

func TestMigrateIsIdempotent(t *testing.T) {
	c := qt.New(t)
	ctx := context.Background()
	db := openTestDB(c)
	k := NewKey("sitex", "compx")

	first, err := MigratePanelIndexes(ctx, db, k, zap.NewNop())
	c.Assert(err, qt.IsNil)
	c.Assert(first.Dropped, qt.IsFalse)
	c.Assert(first.Created, qt.IsTrue)

	second, err := MigratePanelIndexes(ctx, db, k, zap.NewNop())
	c.Assert(err, qt.IsNil)
	c.Assert(second.Dropped, qt.IsFalse)
	c.Assert(second.Created, qt.IsFalse)
	c.Assert(second.After, qt.ContentEquals, first.After)
}

func TestMigrateLeavesOtherTenantsAlone(t *testing.T) {
	c := qt.New(t)
	ctx := context.Background()
	db := openTestDB(c)
	kx := NewKey("sitex", "compx")
	ky := NewKey("sitey", "compx")

	err := db.Exec(
		"CREATE UNIQUE INDEX " + legacyPanelIndexName(ky) +
			" ON panels (panel_name) WHERE " + tenantPredicate(ky),
	).Error
	c.Assert(err, qt.IsNil)

	_, err = MigratePanelIndexes(ctx, db, kx, zap.NewNop())
	c.Assert(err, qt.IsNil)

	has, err := hasIndex(db, "panels", legacyPanelIndexName(ky))
	c.Assert(err, qt.IsNil)
	c.Assert(has, qt.IsTrue)
}

func TestMigrateThenProvision(t *testing.T) {
	c := qt.New(t)
	ctx := context.Background()
	db := openTestDB(c)
	k := NewKey("sitex", "compx")

	err := db.Exec(
		"CREATE UNIQUE INDEX " + legacyPanelIndexName(k) +
			" ON panels (panel_name) WHERE " + tenantPredicate(k),
	).Error
	c.Assert(err, qt.IsNil)

	_, err = MigratePanelIndexes(ctx, db, k, zap.NewNop())
	c.Assert(err, qt.IsNil)

	r := NewRegistry(db, testTenantConfig(), zap.NewNop())
	h, err := r.Resolve(ctx, "sitex", "compx")
	c.Assert(err, qt.IsNil)

	// The compound rule is in force after migration.
	_, err = h.Panels().Create(ctx, "Panel-A", "C1", "tester")
	c.Assert(err, qt.IsNil)
	_, err = h.Panels().Create(ctx, "Panel-A", "C2", "tester")
	c.Assert(err, qt.IsNil)
}
