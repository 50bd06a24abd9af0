package tenant

import (
	"fmt"
	"sort"
	"strings"

	"gorm.io/gorm"
)

// Per-tenant storage constraints are partial unique indexes on the
// shared tables, scoped by the tenant's discriminator predicate. Index
// names embed the tenant slug so each tenant's constraint set can be
// enumerated and migrated independently.

func compoundPanelIndexName(k Key) string {
	return "uq_panels_" + k.Slug() + "_name_circuit"
}

// legacyPanelIndexName is the superseded single-field rule (panel name
// alone). It must not exist anymore; provisioning refuses to run while
// it does and the offline migration removes it.
func legacyPanelIndexName(k Key) string {
	return "uq_panels_" + k.Slug() + "_name"
}

func materialIndexName(k Key) string {
	return "uq_materials_" + k.Slug() + "_name"
}

// tenantPredicate renders the discriminator condition as a SQL literal.
// Index DDL cannot be parameterized, so the normalized values are
// escaped inline.
func tenantPredicate(k Key) string {
	return fmt.Sprintf("site = '%s' AND company = '%s'", sqlEscape(k.Site), sqlEscape(k.Company))
}

func sqlEscape(s string) string {
	return strings.ReplaceAll(s, "'", "''")
}

// createPanelConstraints ensures the compound (panel_name, circuit)
// uniqueness rule for the tenant. Creating an index that is already
// present is a no-op.
func createPanelConstraints(db *gorm.DB, k Key) error {
	ddl := fmt.Sprintf(
		"CREATE UNIQUE INDEX IF NOT EXISTS %s ON panels (panel_name, circuit) WHERE %s",
		compoundPanelIndexName(k), tenantPredicate(k),
	)
	if err := db.Exec(ddl).Error; err != nil {
		return fmt.Errorf("create panel constraint for tenant %s: %w", k, err)
	}
	return nil
}

// createMaterialConstraints ensures material names stay unique within
// the tenant.
func createMaterialConstraints(db *gorm.DB, k Key) error {
	ddl := fmt.Sprintf(
		"CREATE UNIQUE INDEX IF NOT EXISTS %s ON materials (material_name) WHERE %s",
		materialIndexName(k), tenantPredicate(k),
	)
	if err := db.Exec(ddl).Error; err != nil {
		return fmt.Errorf("create material constraint for tenant %s: %w", k, err)
	}
	return nil
}

// dropIndex removes an index by name. A missing index is success, not
// failure.
func dropIndex(db *gorm.DB, name string) error {
	return db.Exec("DROP INDEX IF EXISTS " + name).Error
}

// hasIndex reports whether an index with the given name exists on the
// table.
func hasIndex(db *gorm.DB, table, name string) (bool, error) {
	names, err := listIndexes(db, table)
	if err != nil {
		return false, err
	}
	for _, n := range names {
		if n == name {
			return true, nil
		}
	}
	return false, nil
}

// listIndexes enumerates index names on a table. Catalog queries differ
// per dialect; postgres and sqlite are the two stores this layer runs
// against (sqlite only in tests).
func listIndexes(db *gorm.DB, table string) ([]string, error) {
	var names []string
	var err error
	switch db.Dialector.Name() {
	case "sqlite", "sqlite3":
		err = db.Raw(
			"SELECT name FROM sqlite_master WHERE type = 'index' AND tbl_name = ?", table,
		).Scan(&names).Error
	default:
		err = db.Raw(
			"SELECT indexname FROM pg_indexes WHERE tablename = ?", table,
		).Scan(&names).Error
	}
	if err != nil {
		return nil, fmt.Errorf("list indexes on %s: %w", table, err)
	}
	sort.Strings(names)
	return names, nil
}

// listTenantPanelIndexes narrows the panel index listing to the
// tenant's own constraint set.
func listTenantPanelIndexes(db *gorm.DB, k Key) ([]string, error) {
	names, err := listIndexes(db, "panels")
	if err != nil {
		return nil, err
	}
	prefix := "uq_panels_" + k.Slug() + "_"
	var own []string
	for _, n := range names {
		if strings.HasPrefix(n, prefix) {
			own = append(own, n)
		}
	}
	return own, nil
}
