package errs

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestWrappersClassify(t *testing.T) {
	assert.ErrorIs(t, Validation("missing title"), ErrValidation)
	assert.ErrorIs(t, NotFound("note x"), ErrNotFound)
	assert.ErrorIs(t, Conflict("duplicate title"), ErrConflict)
}

func TestWrappedErrorsSurviveFurtherWrapping(t *testing.T) {
	err := fmt.Errorf("list notes: %w", NotFound("no notes found"))
	assert.ErrorIs(t, err, ErrNotFound)
	assert.False(t, errors.Is(err, ErrConflict))
}
