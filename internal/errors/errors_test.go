package errors

import (
	stderrors "errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDeckErrorFormatting(t *testing.T) {
	err := NewConfigError(ErrCodeBadToken, "invalid structure token: x")

	msg := err.Error()
	assert.Contains(t, msg, "[ERR_BAD_TOKEN]")
	assert.Contains(t, msg, "invalid structure token: x")
}

func TestDeckErrorWithPathAndCause(t *testing.T) {
	cause := stderrors.New("permission denied")
	err := NewIOError(ErrCodeInternalFailure, "failed to write markup", cause).
		WithPath("/decks/deck-x/index.html")

	msg := err.Error()
	assert.Contains(t, msg, "/decks/deck-x/index.html")
	assert.Contains(t, msg, "permission denied")
	assert.Equal(t, cause, stderrors.Unwrap(err))
}

func TestDeckErrorIs(t *testing.T) {
	err := ErrDeckExists("/decks/deck-x")

	assert.True(t, stderrors.Is(err, NewConflictError(ErrCodeDeckExists, "")))
	assert.False(t, stderrors.Is(err, NewConfigError(ErrCodeDeckExists, "")))
}

func TestDeckErrorWrappedDetection(t *testing.T) {
	wrapped := fmt.Errorf("materialize: %w", ErrArchiveMissing("/tmp/template.zip"))

	assert.True(t, IsConfigError(wrapped))
	assert.False(t, IsConflictError(wrapped))
}

func TestHelperConstructors(t *testing.T) {
	badToken := ErrBadToken("x")
	assert.Equal(t, ErrorTypeConfig, badToken.Type)
	assert.Equal(t, "x", badToken.Context["token"])

	exclusive := ErrExclusiveOptions("slides", "structure")
	assert.Contains(t, exclusive.Error(), "slides")
	assert.Contains(t, exclusive.Error(), "structure")

	conflict := ErrDeckExists("/out/deck-a")
	require.True(t, IsConflictError(conflict))
	assert.Contains(t, conflict.Error(), "/out/deck-a")
}

func TestValidationErrorType(t *testing.T) {
	err := NewValidationError(ErrCodeBadFormat, "invalid format: xml")
	assert.Equal(t, ErrorTypeValidation, err.Type)
	assert.True(t, stderrors.Is(err, NewValidationError(ErrCodeBadFormat, "")))
}
