// Package tenant implements the multi-tenant data access layer: the
// registry that resolves a (site, company) pair to a handle, the
// tenant-scoped entity accessors, per-tenant constraint provisioning
// and the offline index migration.
package tenant

import "strings"

// Key identifies one tenant. Both parts are stored normalized (trimmed
// and lowercased); two keys are equal iff their normalized forms are
// equal. The normalized values are also what gets stamped onto entity
// rows, so the cache key and the constraint scope always agree.
type Key struct {
	Site    string
	Company string
}

// NewKey normalizes site and company into a Key.
func NewKey(site, company string) Key {
	return Key{
		Site:    strings.ToLower(strings.TrimSpace(site)),
		Company: strings.ToLower(strings.TrimSpace(company)),
	}
}

// String returns the cache/log form of the key. Safe to include in
// errors; keys carry no secret material.
func (k Key) String() string {
	return k.Site + "/" + k.Company
}

// Slug returns a form of the key usable inside index and constraint
// names: non-alphanumeric runes collapse to underscores.
func (k Key) Slug() string {
	return slugify(k.Site) + "_" + slugify(k.Company)
}

func slugify(s string) string {
	var b strings.Builder
	for _, r := range s {
		switch {
		case r >= 'a' && r <= 'z', r >= '0' && r <= '9':
			b.WriteRune(r)
		default:
			b.WriteByte('_')
		}
	}
	return b.String()
}
