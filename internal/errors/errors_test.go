package errors

import (
	stderrors "errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestWrapKeepsCode(t *testing.T) {
	base := InvalidReference("A1")
	wrapped := Wrap(base, "query failed")

	assert.Equal(t, CodeInvalidReference, GetCode(wrapped))
	assert.Equal(t, "query failed", Message(wrapped))
	assert.True(t, Is(wrapped, CodeInvalidReference))
	assert.True(t, stderrors.Is(wrapped, base))
}

func TestWrapPlainErrorIsInternal(t *testing.T) {
	err := Wrapf(fmt.Errorf("boom"), "step %d", 2)

	assert.Equal(t, CodeInternalError, GetCode(err))
	assert.Equal(t, "step 2: boom", err.Error())
	assert.Nil(t, Wrap(nil, "ignored"))
}

func TestIsFollowsForeignWrappers(t *testing.T) {
	err := fmt.Errorf("outer: %w", FormatError("xml", fmt.Errorf("bad token")))

	assert.True(t, Is(err, CodeFormatError))
	assert.False(t, Is(err, CodeItemNotFound))
	assert.True(t, IsAppError(err))
	assert.Equal(t, CodeFormatError, GetCode(err))
}

func TestConstructorsMessages(t *testing.T) {
	assert.Equal(t, "item name not found among items, or is empty", ItemNotFound("Q9").Message)
	assert.Equal(t, "document not found", NotFound("document").Message)
	assert.Equal(t, "UNKNOWN", GetCode(fmt.Errorf("plain")))
	assert.Equal(t, CodeConflict, WithCode(CodeConflict, fmt.Errorf("x")).(*AppError).Code)
}
