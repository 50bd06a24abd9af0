package apperr_test

import (
	"errors"
	"fmt"
	"testing"

	qt "github.com/frankban/quicktest"

	"github.com/Psychotichub/panel/internal/apperr"
)

func TestPredicatesSurviveWrapping(t *testing.T) {
	tests := []struct {
		name      string
		err       error
		predicate func(error) bool
	}{
		{"validation", apperr.Validation("username", "must not be empty"), apperr.IsValidation},
		{"duplicate", apperr.Duplicate("panel", "Panel-A/C1"), apperr.IsDuplicate},
		{"not found", apperr.NotFound("panel", "Panel-A"), apperr.IsNotFound},
		{"connection", &apperr.ConnectionError{Err: errors.New("refused")}, apperr.IsConnection},
		{"schema conflict", &apperr.SchemaConflictError{Constraint: "uq_panels_x_y_name"}, apperr.IsSchemaConflict},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := qt.New(t)
			c.Assert(tt.predicate(tt.err), qt.IsTrue)

			wrapped := fmt.Errorf("tenant sitex/compx: %w", tt.err)
			c.Assert(tt.predicate(wrapped), qt.IsTrue)

			twice := fmt.Errorf("resolve: %w", wrapped)
			c.Assert(tt.predicate(twice), qt.IsTrue)
		})
	}
}

func TestPredicatesRejectOtherKinds(t *testing.T) {
	c := qt.New(t)

	plain := errors.New("boom")
	c.Assert(apperr.IsValidation(plain), qt.IsFalse)
	c.Assert(apperr.IsDuplicate(plain), qt.IsFalse)
	c.Assert(apperr.IsNotFound(plain), qt.IsFalse)
	c.Assert(apperr.IsConnection(plain), qt.IsFalse)
	c.Assert(apperr.IsSchemaConflict(plain), qt.IsFalse)

	// A duplicate is not a validation failure and vice versa.
	c.Assert(apperr.IsValidation(apperr.Duplicate("panel", "x")), qt.IsFalse)
	c.Assert(apperr.IsDuplicate(apperr.Validation("f", "r")), qt.IsFalse)
}

func TestConnectionErrorUnwraps(t *testing.T) {
	c := qt.New(t)

	cause := errors.New("dial tcp: connection refused")
	err := &apperr.ConnectionError{Err: cause}
	c.Assert(errors.Is(err, cause), qt.IsTrue)
}

func TestMessages(t *testing.T) {
	c := qt.New(t)

	c.Assert(apperr.Validation("username", "must not be empty").Error(),
		qt.Contains, "username")
	c.Assert(apperr.Duplicate("panel", "Panel-A/C1").Error(),
		qt.Contains, "Panel-A/C1")
	c.Assert(apperr.NotFound("panel", "Panel-A").Error(),
		qt.Contains, "Panel-A")
}
