package pagescout_test

import (
	"errors"
	"fmt"
	"testing"

	"github.com/pagescout/pagescout"
	"github.com/stretchr/testify/assert"
)

func TestErrorf(t *testing.T) {
	t.Parallel()

	err := pagescout.Errorf(pagescout.EINVALID, "frame %q not found", "x")
	assert.Equal(t, pagescout.EINVALID, err.Code)
	assert.Equal(t, `frame "x" not found`, err.Message)
	assert.Equal(t, `pagescout error: code=invalid message=frame "x" not found`, err.Error())
}

func TestErrorCode(t *testing.T) {
	t.Parallel()

	assert.Empty(t, pagescout.ErrorCode(nil))
	assert.Equal(t, pagescout.ENOTFOUND, pagescout.ErrorCode(pagescout.Errorf(pagescout.ENOTFOUND, "gone")))
	assert.Equal(t, pagescout.EINTERNAL, pagescout.ErrorCode(errors.New("plain")))

	wrapped := fmt.Errorf("outer: %w", pagescout.Errorf(pagescout.ECONFLICT, "busy"))
	assert.Equal(t, pagescout.ECONFLICT, pagescout.ErrorCode(wrapped))
}

func TestErrorMessage(t *testing.T) {
	t.Parallel()

	assert.Empty(t, pagescout.ErrorMessage(nil))
	assert.Equal(t, "busy", pagescout.ErrorMessage(pagescout.Errorf(pagescout.ECONFLICT, "busy")))
	assert.Equal(t, "Internal error.", pagescout.ErrorMessage(errors.New("plain")))
}
