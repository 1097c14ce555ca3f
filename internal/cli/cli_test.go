package cli

import (
	"bytes"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mcncl/toonsafe/internal/errors"
)

func TestConvert_EncodeJSON(t *testing.T) {
	out, err := Convert(`{"name": "Ada", "tags": ["a", "b"]}`, Options{}, nil)
	require.NoError(t, err)
	assert.Equal(t, "name: Ada\ntags[2]: a,b", out)
}

func TestConvert_EncodeYAML(t *testing.T) {
	input := "name: Ada\ncount: 3\nnested:\n  flag: true\n"
	out, err := Convert(input, Options{}, nil)
	require.NoError(t, err)
	assert.Equal(t, "count: 3\nname: Ada\nnested:\n  flag: true", out)
}

func TestConvert_EncodeWithKeyCase(t *testing.T) {
	out, err := Convert(`{"user_name": "ada"}`, Options{KeyCase: "camel"}, nil)
	require.NoError(t, err)
	assert.Equal(t, "userName: ada", out)
}

func TestConvert_EncodeCustomShape(t *testing.T) {
	out, err := Convert(`{"nested": {"a": 1}}`, Options{Indent: 4}, nil)
	require.NoError(t, err)
	assert.Equal(t, "nested:\n    a: 1", out)
}

func TestConvert_DecodeTOON(t *testing.T) {
	out, err := Convert("name: Ada\nscore: 42", Options{Decode: true}, nil)
	require.NoError(t, err)

	assert.Contains(t, out, `"name": "Ada"`)
	assert.Contains(t, out, `"score": 42`)
}

func TestConvert_DecodeFencedPayload(t *testing.T) {
	input := "```toon\nname: Ada\n```"
	out, err := Convert(input, Options{Decode: true}, nil)
	require.NoError(t, err)
	assert.Contains(t, out, `"name": "Ada"`)
}

func TestConvert_DecodeReportsFormat(t *testing.T) {
	var diag bytes.Buffer
	_, err := Convert(`{"a": 1}`, Options{Decode: true, Verbose: true}, &diag)
	require.NoError(t, err)
	assert.Contains(t, diag.String(), "decoded via json")
}

func TestConvert_EncodeReportsFallback(t *testing.T) {
	var diag bytes.Buffer
	// A key with a raw newline defeats the TOON grammar; the encoder falls
	// back to JSON and says so.
	out, err := Convert("{\"bad\\nkey\": 1}", Options{Verbose: true}, &diag)
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(out, "{"))
	assert.Contains(t, diag.String(), "falling back to JSON")
	assert.Contains(t, diag.String(), "encoded as json")
}

func TestConvert_DecodeGarbageFails(t *testing.T) {
	_, err := Convert("{not: valid, at: all", Options{Decode: true}, nil)
	require.Error(t, err)
	assert.Equal(t, "Decode error: "+errAppMessage(err), errors.UserFriendlyError(err))
}

func TestConvert_EmptyInput(t *testing.T) {
	_, err := Convert("   \n  ", Options{}, nil)
	require.ErrorIs(t, err, errors.ErrEmptyInput)
}

func TestConvert_StrictDecode(t *testing.T) {
	// Lenient accepts the short array; strict rejects it and the input is
	// not JSON either.
	out, err := Convert("tags[3]: a,b", Options{Decode: true}, nil)
	require.NoError(t, err)
	assert.Contains(t, out, `"tags"`)

	_, err = Convert("tags[3]: a,b", Options{Decode: true, Strict: true}, nil)
	require.Error(t, err)
}

func errAppMessage(err error) string {
	appErr, ok := err.(*errors.AppError)
	if !ok {
		return ""
	}
	return appErr.Message
}
