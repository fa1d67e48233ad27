package apperr

import (
	"errors"
	"fmt"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestFromWrapped(t *testing.T) {
	err := fmt.Errorf("checkout: %w", ErrUnauthorized)

	e, ok := From(err)
	assert.True(t, ok)
	assert.Equal(t, http.StatusUnauthorized, e.Status)
	assert.True(t, errors.Is(err, ErrUnauthorized))

	_, ok = From(errors.New("boom"))
	assert.False(t, ok)
}

func TestKind(t *testing.T) {
	assert.Equal(t, "ok", Kind(nil))
	assert.Equal(t, "NotFound", Kind(ErrNotFound))
	assert.Equal(t, "Internal", Kind(errors.New("db down")))
}
