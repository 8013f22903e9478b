package errors

import (
	stderrors "errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestWrap_PreservesCode(t *testing.T) {
	base := ConfigInvalid("batch size must be positive")
	wrapped := Wrap(base, "failed to build sampler")

	assert.Equal(t, CodeConfigInvalid, GetCode(wrapped))
	assert.True(t, IsConfigError(wrapped))
	assert.Equal(t, "failed to build sampler: batch size must be positive", wrapped.Error())
}

func TestWrap_PlainErrorBecomesInternal(t *testing.T) {
	wrapped := Wrap(stderrors.New("disk full"), "write output")

	assert.Equal(t, CodeInternalError, GetCode(wrapped))
	assert.False(t, IsConfigError(wrapped))
}

func TestWrap_Nil(t *testing.T) {
	assert.Nil(t, Wrap(nil, "ignored"))
	assert.Nil(t, Wrapf(nil, "ignored %d", 1))
}

func TestGetCode_ThroughFmtWrapping(t *testing.T) {
	err := fmt.Errorf("outer: %w", New(CodeNotFound, "conversation c1 not found"))

	assert.Equal(t, CodeNotFound, GetCode(err))
	assert.Equal(t, "UNKNOWN", GetCode(stderrors.New("plain")))
}

func TestWithCode(t *testing.T) {
	err := WithCode(CodeInvalidInput, stderrors.New("bad json"))

	assert.Equal(t, CodeInvalidInput, GetCode(err))
	assert.Contains(t, err.Error(), "bad json")
}
