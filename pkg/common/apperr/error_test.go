package apperr

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
)

var errCause = errors.New("boom")

func TestMapError(t *testing.T) {
	err := MapError("Example", errCause, CodeDatabaseError, MsgInsertFailed)

	assert.Equal(t, "Example failed to insert: boom", err.Error())
	assert.Equal(t, CodeDatabaseError, err.Code)
	assert.ErrorIs(t, err, errCause)
}

func TestMapError_Nil(t *testing.T) {
	assert.Nil(t, MapError("Example", nil, CodeDatabaseError, MsgInsertFailed))
}

func TestNewError_NoCause(t *testing.T) {
	err := NewError("Example", CodeMissingID, MsgUpdateFailed, nil)
	assert.Equal(t, "Example failed to update", err.Error())
	assert.Nil(t, errors.Unwrap(err))
}

func TestCodeOf(t *testing.T) {
	wrapped := fmt.Errorf("outer: %w", New(CodeNotFound, MsgNotFound, errCause))

	assert.Equal(t, CodeNotFound, CodeOf(wrapped))
	assert.True(t, HasCode(wrapped, CodeNotFound))
	assert.False(t, HasCode(wrapped, CodeConflict))
	assert.Equal(t, 0, CodeOf(errCause))
	assert.Equal(t, 0, CodeOf(nil))
}
