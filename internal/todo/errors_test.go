package todo

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestAPIErrorMessage(t *testing.T) {
	err := &APIError{StatusCode: 404, Reason: "Not Found"}
	assert.Equal(t, "Error 404: Not Found", err.Error())
}

func TestErrorPredicates(t *testing.T) {
	notFound := &APIError{StatusCode: 404, Reason: "Not Found"}
	unauthorized := &APIError{StatusCode: 401, Reason: "Unauthorized"}
	forbidden := &APIError{StatusCode: 403, Reason: "Forbidden"}

	assert.True(t, IsNotFound(notFound))
	assert.False(t, IsNotFound(unauthorized))

	assert.True(t, IsUnauthorized(unauthorized))
	assert.False(t, IsUnauthorized(forbidden))

	assert.True(t, IsForbidden(forbidden))
	assert.False(t, IsForbidden(notFound))

	// Wrapped errors are still recognized.
	wrapped := fmt.Errorf("listing tasks: %w", notFound)
	assert.True(t, IsNotFound(wrapped))

	// Unrelated errors are not.
	assert.False(t, IsNotFound(errors.New("boom")))
	assert.False(t, IsNotFound(nil))
}
