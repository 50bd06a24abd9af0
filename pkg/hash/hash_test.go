package hash_test

import (
	"testing"

	qt "github.com/frankban/quicktest"
	"golang.org/x/crypto/bcrypt"

	"github.com/Psychotichub/panel/pkg/hash"
)

func TestHashVerifyRoundtrip(t *testing.T) {
	c := qt.New(t)
	h := &hash.Bcrypt{Cost: bcrypt.MinCost}

	hashed, err := h.Hash("correct horse battery staple")
	c.Assert(err, qt.IsNil)
	c.Assert(hashed, qt.Not(qt.Equals), "correct horse battery staple")

	c.Assert(h.Verify("correct horse battery staple", hashed), qt.IsTrue)
	c.Assert(h.Verify("wrong password", hashed), qt.IsFalse)
	c.Assert(h.Verify("", hashed), qt.IsFalse)
}

func TestHashesAreSalted(t *testing.T) {
	c := qt.New(t)
	h := &hash.Bcrypt{Cost: bcrypt.MinCost}

	a, err := h.Hash("same input")
	c.Assert(err, qt.IsNil)
	b, err := h.Hash("same input")
	c.Assert(err, qt.IsNil)
	c.Assert(a, qt.Not(qt.Equals), b)
}

func TestVerifyRejectsGarbageHash(t *testing.T) {
	c := qt.New(t)
	h := hash.NewBcrypt()

	c.Assert(h.Verify("anything", "not-a-bcrypt-hash"), qt.IsFalse)
}
