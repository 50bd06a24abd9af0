package tenant

import (
	"testing"

	qt "github.com/frankban/quicktest"
)

func TestNewKeyNormalization(t *testing.T) {
	tests := []struct {
		name    string
		site    string
		company string
		want    Key
	}{
		{
			name:    "already normalized",
			site:    "arsi",
			company: "sion solution srl",
			want:    Key{Site: "arsi", Company: "sion solution srl"},
		},
		{
			name:    "trims whitespace",
			site:    "  arsi ",
			company: "\tsion solution srl\n",
			want:    Key{Site: "arsi", Company: "sion solution srl"},
		},
		{
			name:    "lowercases",
			site:    "Arsi",
			company: "SION Solution SRL",
			want:    Key{Site: "arsi", Company: "sion solution srl"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := qt.New(t)
			c.Assert(NewKey(tt.site, tt.company), qt.Equals, tt.want)
		})
	}
}

func TestKeyEquality(t *testing.T) {
	c := qt.New(t)

	// Differently-spelled inputs yield equal keys after normalization,
	// so they share one cache slot.
	a := NewKey(" SiteX", "CompX ")
	b := NewKey("sitex", "compx")
	c.Assert(a, qt.Equals, b)

	seen := map[Key]bool{a: true}
	c.Assert(seen[b], qt.IsTrue)
}

func TestKeyString(t *testing.T) {
	c := qt.New(t)
	c.Assert(NewKey("arsi", "sion solution srl").String(), qt.Equals, "arsi/sion solution srl")
}

func TestKeySlug(t *testing.T) {
	tests := []struct {
		name    string
		site    string
		company string
		want    string
	}{
		{"plain", "arsi", "acme", "arsi_acme"},
		{"spaces collapse", "arsi", "sion solution srl", "arsi_sion_solution_srl"},
		{"specials collapse", "site-1", "a.b'c", "site_1_a_b_c"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := qt.New(t)
			c.Assert(NewKey(tt.site, tt.company).Slug(), qt.Equals, tt.want)
		})
	}
}
