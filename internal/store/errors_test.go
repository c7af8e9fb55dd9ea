package store

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestStoreError_Unwrap(t *testing.T) {
	t.Parallel()

	cause := errors.New("connection reset")
	storeErr := NewStoreError("task", "list", "failed to query tasks", cause)

	assert.Contains(t, storeErr.Error(), "task")
	assert.Contains(t, storeErr.Error(), "list")
	assert.True(t, errors.Is(storeErr, cause))
}

func TestErrTaskNotFound_WrapsErrNotFound(t *testing.T) {
	t.Parallel()

	assert.True(t, errors.Is(ErrTaskNotFound, ErrNotFound))
	assert.True(t, IsNotFoundError(ErrTaskNotFound))
	assert.True(t, IsNotFoundError(fmt.Errorf("fetch: %w", ErrTaskNotFound)))
	assert.False(t, IsNotFoundError(ErrDuplicate))
}
