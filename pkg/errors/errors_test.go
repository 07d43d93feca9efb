package errors

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestKindOf(t *testing.T) {
	sentinel := errors.New("row missing")

	assert.Equal(t, KindNotFound, KindOf(NotFound("not found", sentinel)))
	assert.Equal(t, KindConflict, KindOf(Conflict("conflict", nil)))
	assert.Equal(t, KindValidation, KindOf(Validation("bad input", nil)))
	assert.Equal(t, KindInternal, KindOf(sentinel))
	assert.Equal(t, KindInternal, KindOf(nil))
}

func TestKindSurvivesWrapping(t *testing.T) {
	err := fmt.Errorf("handling message: %w", NotFound("not found", nil))
	assert.True(t, IsNotFound(err))
	assert.False(t, IsConflict(err))
}

func TestUnwrapReachesSentinel(t *testing.T) {
	sentinel := errors.New("row missing")
	err := NotFound("not found", sentinel)
	assert.True(t, errors.Is(err, sentinel))
}
