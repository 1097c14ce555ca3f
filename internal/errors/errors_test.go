package errors

import (
	stderrors "errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAppError_Error(t *testing.T) {
	err := NewDecodeError("payload is not decodable", ErrUnknownFormat)
	assert.Equal(t, "decode: payload is not decodable: input is neither valid TOON, JSON nor YAML", err.Error())

	bare := NewInputError("input is empty", nil)
	assert.Equal(t, "input: input is empty", bare.Error())
}

func TestAppError_Unwrap(t *testing.T) {
	err := NewInputError("input is empty", ErrEmptyInput)
	require.ErrorIs(t, err, ErrEmptyInput)
}

func TestAppError_IsMatchesOnType(t *testing.T) {
	a := NewEncodeError("one", nil)
	b := NewEncodeError("two", nil)
	other := NewOutputError("three", nil)

	assert.True(t, stderrors.Is(a, b))
	assert.False(t, stderrors.Is(a, other))
}

func TestUserFriendlyError_AppErrors(t *testing.T) {
	tests := []struct {
		err  error
		want string
	}{
		{NewInputError("no data", nil), "Input error: no data"},
		{NewDecodeError("bad payload", nil), "Decode error: bad payload"},
		{NewEncodeError("bad value", nil), "Encode error: bad value"},
		{NewConfigError("bad file", nil), "Config error: bad file"},
		{NewOutputError("disk full", nil), "Output error: disk full"},
	}
	for _, tc := range tests {
		assert.Equal(t, tc.want, UserFriendlyError(tc.err))
	}
}

func TestUserFriendlyError_Sentinels(t *testing.T) {
	assert.Contains(t, UserFriendlyError(ErrEmptyInput), "input is empty")
	assert.Contains(t, UserFriendlyError(ErrUnknownFormat), "TOON, JSON or YAML")
	assert.Contains(t, UserFriendlyError(stderrors.New("boom")), "boom")
}
