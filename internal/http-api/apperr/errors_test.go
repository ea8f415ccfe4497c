package apperr

import (
	"errors"
	"fmt"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestStatus(t *testing.T) {
	tests := []struct {
		err    error
		status int
	}{
		{NotFound("category %d not found", 7), http.StatusNotFound},
		{Conflict("slug in use"), http.StatusConflict},
		{Forbidden("not yours"), http.StatusForbidden},
		{Unauthenticated("bad token"), http.StatusUnauthorized},
		{Validation("empty name"), http.StatusBadRequest},
		{errors.New("disk on fire"), http.StatusInternalServerError},
		{nil, http.StatusInternalServerError},
	}

	for _, tt := range tests {
		assert.Equal(t, tt.status, Status(tt.err))
	}
}

func TestKindOf_Wrapped(t *testing.T) {
	// Kind survives fmt.Errorf wrapping.
	err := fmt.Errorf("while deleting: %w", Conflict("has children"))
	assert.Equal(t, KindConflict, KindOf(err))
	assert.True(t, IsKind(err, KindConflict))
	assert.Equal(t, http.StatusConflict, Status(err))
}

func TestErrorMessage(t *testing.T) {
	err := NotFound("post %d not found", 42)
	assert.Equal(t, "not_found: post 42 not found", err.Error())
}
