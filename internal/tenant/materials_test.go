package tenant

import (
	"context"
	"testing"

	qt "github.com/frankban/quicktest"

	"github.com/Psychotichub/panel/internal/apperr"
)

func TestMaterialNameUniquePerTenant(t *testing.T) {
	c := qt.New(t)
	ctx := context.Background()
	db := openTestDB(c)

	hx := resolveTestTenant(c, db, "sitex", "compx")
	hy := resolveTestTenant(c, db, "sitey", "compx")

	_, err := hx.Materials().Create(ctx, "Cable 3x2.5", "m", 1.2, "tester")
	c.Assert(err, qt.IsNil)

	_, err = hx.Materials().Create(ctx, "Cable 3x2.5", "m", 1.5, "tester")
	c.Assert(apperr.IsDuplicate(err), qt.IsTrue)

	// Another tenant is free to reuse the name.
	_, err = hy.Materials().Create(ctx, "Cable 3x2.5", "m", 1.2, "tester")
	c.Assert(err, qt.IsNil)
}

func TestMaterialCreateValidation(t *testing.T) {
	c := qt.New(t)
	h := resolveTestTenant(c, openTestDB(c), "sitex", "compx")

	_, err := h.Materials().Create(context.Background(), "  ", "m", 1.0, "tester")
	c.Assert(apperr.IsValidation(err), qt.IsTrue)
}

func TestMaterialFindAndDelete(t *testing.T) {
	c := qt.New(t)
	ctx := context.Background()
	h := resolveTestTenant(c, openTestDB(c), "sitex", "compx")

	_, err := h.Materials().Create(ctx, "Conduit 20mm", "m", 0.8, "tester")
	c.Assert(err, qt.IsNil)

	found, err := h.Materials().FindByName(ctx, "Conduit 20mm")
	c.Assert(err, qt.IsNil)
	c.Assert(found.Unit, qt.Equals, "m")

	c.Assert(h.Materials().Delete(ctx, "Conduit 20mm"), qt.IsNil)

	_, err = h.Materials().FindByName(ctx, "Conduit 20mm")
	c.Assert(apperr.IsNotFound(err), qt.IsTrue)

	// Deleting again is a no-op.
	c.Assert(h.Materials().Delete(ctx, "Conduit 20mm"), qt.IsNil)
}
