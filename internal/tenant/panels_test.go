package tenant

import (
	"context"
	"testing"

	qt "github.com/frankban/quicktest"
	"go.uber.org/zap"
	"gorm.io/gorm"

	"github.com/Psychotichub/panel/internal/apperr"
)

func resolveTestTenant(c *qt.C, db *gorm.DB, site, company string) *Handle {
	r := NewRegistry(db, testTenantConfig(), zap.NewNop())
	h, err := r.Resolve(context.Background(), site, company)
	c.Assert(err, qt.IsNil)
	return h
}

func TestPanelCreateValidation(t *testing.T) {
	tests := []struct {
		name      string
		panelName string
		circuit   string
	}{
		{"empty panel name", "", "C1"},
		{"empty circuit", "Panel-A", ""},
		{"whitespace panel name", "  ", "C1"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := qt.New(t)
			h := resolveTestTenant(c, openTestDB(c), "sitex", "compx")

			_, err := h.Panels().Create(context.Background(), tt.panelName, tt.circuit, "tester")
			c.Assert(apperr.IsValidation(err), qt.IsTrue)
		})
	}
}

func TestPanelUniquenessWithinTenant(t *testing.T) {
	c := qt.New(t)
	ctx := context.Background()
	h := resolveTestTenant(c, openTestDB(c), "sitex", "compx")

	// Same panel name with a different circuit is allowed.
	_, err := h.Panels().Create(ctx, "Panel-A", "C1", "tester")
	c.Assert(err, qt.IsNil)
	_, err = h.Panels().Create(ctx, "Panel-A", "C2", "tester")
	c.Assert(err, qt.IsNil)

	// The identical tuple is not.
	_, err = h.Panels().Create(ctx, "Panel-A", "C1", "tester")
	c.Assert(apperr.IsDuplicate(err), qt.IsTrue)
}

func TestPanelIsolationAcrossTenants(t *testing.T) {
	c := qt.New(t)
	ctx := context.Background()
	db := openTestDB(c)

	hx := resolveTestTenant(c, db, "sitex", "compx")
	hy := resolveTestTenant(c, db, "sitey", "compx")

	_, err := hx.Panels().Create(ctx, "Panel-A", "C1", "tester")
	c.Assert(err, qt.IsNil)

	// The identical tuple under another tenant succeeds.
	_, err = hy.Panels().Create(ctx, "Panel-A", "C1", "tester")
	c.Assert(err, qt.IsNil)

	// Each tenant lists only its own rows.
	panels, err := hx.Panels().List(ctx)
	c.Assert(err, qt.IsNil)
	c.Assert(panels, qt.HasLen, 1)
	c.Assert(panels[0].Site, qt.Equals, "sitex")
	c.Assert(panels[0].Company, qt.Equals, "compx")
}

func TestPanelCreateStampsTenantAndCreator(t *testing.T) {
	c := qt.New(t)
	h := resolveTestTenant(c, openTestDB(c), " SiteX ", "CompX")

	panel, err := h.Panels().Create(context.Background(), "Panel-A", "C1", "alice")
	c.Assert(err, qt.IsNil)
	c.Assert(panel.Site, qt.Equals, "sitex")
	c.Assert(panel.Company, qt.Equals, "compx")
	c.Assert(panel.CreatedBy, qt.Equals, "alice")
}

func TestPanelUpdate(t *testing.T) {
	c := qt.New(t)
	ctx := context.Background()
	h := resolveTestTenant(c, openTestDB(c), "sitex", "compx")

	_, err := h.Panels().Create(ctx, "Panel-A", "C1", "tester")
	c.Assert(err, qt.IsNil)
	_, err = h.Panels().Create(ctx, "Panel-B", "C1", "tester")
	c.Assert(err, qt.IsNil)

	// Renaming onto an occupied tuple fails.
	_, err = h.Panels().Update(ctx, "Panel-A", "Panel-B", "C1")
	c.Assert(apperr.IsDuplicate(err), qt.IsTrue)

	// Renaming to a free tuple succeeds and the old name is gone.
	updated, err := h.Panels().Update(ctx, "Panel-A", "Panel-C", "C1")
	c.Assert(err, qt.IsNil)
	c.Assert(updated.PanelName, qt.Equals, "Panel-C")

	_, err = h.Panels().FindByName(ctx, "Panel-A")
	c.Assert(apperr.IsNotFound(err), qt.IsTrue)

	found, err := h.Panels().FindByName(ctx, "Panel-C")
	c.Assert(err, qt.IsNil)
	c.Assert(found.Circuit, qt.Equals, "C1")
}

func TestPanelUpdateUnknownName(t *testing.T) {
	c := qt.New(t)
	h := resolveTestTenant(c, openTestDB(c), "sitex", "compx")

	_, err := h.Panels().Update(context.Background(), "Panel-X", "Panel-Y", "C1")
	c.Assert(apperr.IsNotFound(err), qt.IsTrue)
}

func TestPanelUpdateCircuitOnly(t *testing.T) {
	c := qt.New(t)
	ctx := context.Background()
	h := resolveTestTenant(c, openTestDB(c), "sitex", "compx")

	_, err := h.Panels().Create(ctx, "Panel-A", "C1", "tester")
	c.Assert(err, qt.IsNil)

	updated, err := h.Panels().Update(ctx, "Panel-A", "Panel-A", "C9")
	c.Assert(err, qt.IsNil)
	c.Assert(updated.Circuit, qt.Equals, "C9")
}

func TestPanelDeleteRemovesAllCircuits(t *testing.T) {
	c := qt.New(t)
	ctx := context.Background()
	h := resolveTestTenant(c, openTestDB(c), "sitex", "compx")

	_, err := h.Panels().Create(ctx, "Panel-A", "C1", "tester")
	c.Assert(err, qt.IsNil)
	_, err = h.Panels().Create(ctx, "Panel-A", "C2", "tester")
	c.Assert(err, qt.IsNil)

	c.Assert(h.Panels().Delete(ctx, "Panel-A"), qt.IsNil)

	panels, err := h.Panels().List(ctx)
	c.Assert(err, qt.IsNil)
	c.Assert(panels, qt.HasLen, 0)
}

func TestPanelDeleteIsIdempotent(t *testing.T) {
	c := qt.New(t)
	h := resolveTestTenant(c, openTestDB(c), "sitex", "compx")

	c.Assert(h.Panels().Delete(context.Background(), "never-created"), qt.IsNil)
}

func TestPanelDeleteScopedToTenant(t *testing.T) {
	c := qt.New(t)
	ctx := context.Background()
	db := openTestDB(c)

	hx := resolveTestTenant(c, db, "sitex", "compx")
	hy := resolveTestTenant(c, db, "sitey", "compx")

	_, err := hx.Panels().Create(ctx, "Panel-A", "C1", "tester")
	c.Assert(err, qt.IsNil)
	_, err = hy.Panels().Create(ctx, "Panel-A", "C1", "tester")
	c.Assert(err, qt.IsNil)

	c.Assert(hx.Panels().Delete(ctx, "Panel-A"), qt.IsNil)

	// The other tenant's row survives.
	_, err = hy.Panels().FindByName(ctx, "Panel-A")
	c.Assert(err, qt.IsNil)
}

func TestPanelExists(t *testing.T) {
	c := qt.New(t)
	ctx := context.Background()
	h := resolveTestTenant(c, openTestDB(c), "sitex", "compx")

	exists, err := h.Panels().Exists(ctx, "Panel-A")
	c.Assert(err, qt.IsNil)
	c.Assert(exists, qt.IsFalse)

	_, err = h.Panels().Create(ctx, "Panel-A", "C1", "tester")
	c.Assert(err, qt.IsNil)

	exists, err = h.Panels().Exists(ctx, "Panel-A")
	c.Assert(err, qt.IsNil)
	c.Assert(exists, qt.IsTrue)
}

func TestPanelConstraintIsRaceBackstop(t *testing.T) {
	c := qt.New(t)
	ctx := context.Background()
	db := openTestDB(c)
	h := resolveTestTenant(c, db, "sitex", "compx")

	_, err := h.Panels().Create(ctx, "Panel-A", "C1", "tester")
	c.Assert(err, qt.IsNil)

	// Insert the identical tuple directly, bypassing the pre-check the
	// way a racing writer would; the partial unique index rejects it.
	err = db.Exec(
		"INSERT INTO panels (panel_name, circuit, site, company) VALUES (?, ?, ?, ?)",
		"Panel-A", "C1", "sitex", "compx",
	).Error
	c.Assert(err, qt.IsNotNil)
}
