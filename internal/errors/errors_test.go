package errors_test

import (
	stderrors "errors"
	"fmt"
	"os"
	"testing"

	"gem.dev/launcher/internal/errors"
	"github.com/stretchr/testify/assert"
)

func TestIsMatchesKind(t *testing.T) {
	err := errors.New(errors.KindDuplicateIdentifier, "add console", "nes")
	assert.True(t, errors.Is(err, errors.ErrDuplicateIdentifier))
	assert.False(t, errors.Is(err, errors.ErrUnknownIdentifier))

	wrapped := fmt.Errorf("outer: %w", err)
	assert.True(t, errors.Is(wrapped, errors.ErrDuplicateIdentifier))
	assert.Equal(t, errors.KindDuplicateIdentifier, errors.KindOf(wrapped))
}

func TestWrapKeepsCause(t *testing.T) {
	err := errors.Wrap(errors.KindLaunchFailed, "launch", "emu", os.ErrNotExist)
	assert.True(t, errors.Is(err, errors.ErrLaunchFailed))
	assert.True(t, stderrors.Is(err, os.ErrNotExist))
	assert.Equal(t, "launch: launch-failed 'emu': file does not exist", err.Error())
}

func TestWrapNil(t *testing.T) {
	assert.NoError(t, errors.Wrap(errors.KindLaunchFailed, "launch", "emu", nil))
	assert.Equal(t, errors.Kind(""), errors.KindOf(stderrors.New("plain")))
}
