package toon

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDecode_FlatObject(t *testing.T) {
	v, err := Decode("name: Ada\nactive: true\nscore: 42\nnote: null")
	require.NoError(t, err)

	assert.Equal(t, map[string]interface{}{
		"name":   "Ada",
		"active": true,
		"score":  json.Number("42"),
		"note":   nil,
	}, v)
}

func TestDecode_NestedObject(t *testing.T) {
	v, err := Decode("user:\n  id: 1\n  name: Ada")
	require.NoError(t, err)
	assert.Equal(t, map[string]interface{}{
		"user": map[string]interface{}{"id": json.Number("1"), "name": "Ada"},
	}, v)
}

func TestDecode_InlineArray(t *testing.T) {
	v, err := Decode("tags[3]: alpha,beta,gamma")
	require.NoError(t, err)
	assert.Equal(t, map[string]interface{}{
		"tags": []interface{}{"alpha", "beta", "gamma"},
	}, v)
}

func TestDecode_TabularArray(t *testing.T) {
	v, err := Decode("users[2]{id,name}:\n  1,Alice\n  2,Bob")
	require.NoError(t, err)
	assert.Equal(t, map[string]interface{}{
		"users": []interface{}{
			map[string]interface{}{"id": json.Number("1"), "name": "Alice"},
			map[string]interface{}{"id": json.Number("2"), "name": "Bob"},
		},
	}, v)
}

func TestDecode_ListArray(t *testing.T) {
	v, err := Decode("items[2]:\n  - id: 1\n    tags[2]: a,b\n  - 5")
	require.NoError(t, err)
	assert.Equal(t, map[string]interface{}{
		"items": []interface{}{
			map[string]interface{}{
				"id":   json.Number("1"),
				"tags": []interface{}{"a", "b"},
			},
			json.Number("5"),
		},
	}, v)
}

func TestDecode_RootArray(t *testing.T) {
	v, err := Decode("[3]: 1,2,3")
	require.NoError(t, err)
	assert.Equal(t, []interface{}{json.Number("1"), json.Number("2"), json.Number("3")}, v)
}

func TestDecode_RootScalars(t *testing.T) {
	for input, want := range map[string]interface{}{
		"hello":     "hello",
		"true":      true,
		"null":      nil,
		"-3.5":      json.Number("-3.5"),
		`"a: b"`:    "a: b",
		`"q\"uo\""`: `q"uo"`,
	} {
		v, err := Decode(input)
		require.NoError(t, err, "input %q", input)
		assert.Equal(t, want, v, "input %q", input)
	}
}

func TestDecode_QuotedStringsAndKeys(t *testing.T) {
	v, err := Decode("\"my key\": \"has, comma\"\nplain: \"123\"")
	require.NoError(t, err)
	assert.Equal(t, map[string]interface{}{
		"my key": "has, comma",
		"plain":  "123",
	}, v)
}

func TestDecode_EmptyContainers(t *testing.T) {
	v, err := Decode("items[0]:\nmeta:")
	require.NoError(t, err)
	assert.Equal(t, map[string]interface{}{
		"items": []interface{}{},
		"meta":  map[string]interface{}{},
	}, v)
}

func TestDecode_EmptyDocument(t *testing.T) {
	v, err := Decode("")
	require.NoError(t, err)
	assert.Equal(t, map[string]interface{}{}, v)

	_, err = DecodeWithOptions("", &DecodeOptions{Strict: true})
	require.Error(t, err)
}

func TestDecode_RejectsJSONSyntax(t *testing.T) {
	_, err := Decode(`{"msg": "hello"}`)
	require.Error(t, err)

	_, err = Decode("{not: valid, at: all")
	require.Error(t, err)
}

func TestDecode_CRLFAndBlankLines(t *testing.T) {
	v, err := Decode("a: 1\r\n\r\nb: 2\r\n")
	require.NoError(t, err)
	assert.Equal(t, map[string]interface{}{
		"a": json.Number("1"),
		"b": json.Number("2"),
	}, v)
}

func TestDecodeStrict_LengthMismatch(t *testing.T) {
	_, err := DecodeWithOptions("tags[3]: a,b", &DecodeOptions{Strict: true})
	require.Error(t, err)
	var decErr *DecodeError
	require.ErrorAs(t, err, &decErr)
	assert.Equal(t, 1, decErr.Line)

	// Lenient mode takes what is there.
	v, err := Decode("tags[3]: a,b")
	require.NoError(t, err)
	assert.Equal(t, map[string]interface{}{"tags": []interface{}{"a", "b"}}, v)
}

func TestDecodeStrict_RowArity(t *testing.T) {
	_, err := DecodeWithOptions("users[1]{id,name}:\n  1", &DecodeOptions{Strict: true})
	require.Error(t, err)

	// Lenient mode pads the missing cells with null.
	v, err := Decode("users[1]{id,name}:\n  1")
	require.NoError(t, err)
	assert.Equal(t, map[string]interface{}{
		"users": []interface{}{
			map[string]interface{}{"id": json.Number("1"), "name": nil},
		},
	}, v)
}

func TestDecodeStrict_DuplicateKey(t *testing.T) {
	_, err := DecodeWithOptions("a: 1\na: 2", &DecodeOptions{Strict: true})
	require.Error(t, err)

	// Last value wins in lenient mode.
	v, err := Decode("a: 1\na: 2")
	require.NoError(t, err)
	assert.Equal(t, map[string]interface{}{"a": json.Number("2")}, v)
}

func TestDecodeStrict_TabIndentation(t *testing.T) {
	_, err := DecodeWithOptions("a:\n\tb: 1", &DecodeOptions{Strict: true})
	require.Error(t, err)

	v, err := Decode("a:\n\tb: 1")
	require.NoError(t, err)
	assert.Equal(t, map[string]interface{}{
		"a": map[string]interface{}{"b": json.Number("1")},
	}, v)
}

func TestDecodeLenient_ListWithoutLengthMarker(t *testing.T) {
	v, err := Decode("tags:\n  - a\n  - b")
	require.NoError(t, err)
	assert.Equal(t, map[string]interface{}{
		"tags": []interface{}{"a", "b"},
	}, v)

	// Object items keep working without the marker too.
	v, err = Decode("items:\n  - id: 1\n  - id: 2")
	require.NoError(t, err)
	assert.Equal(t, map[string]interface{}{
		"items": []interface{}{
			map[string]interface{}{"id": json.Number("1")},
			map[string]interface{}{"id": json.Number("2")},
		},
	}, v)

	// Strict mode still requires the marker.
	_, err = DecodeWithOptions("tags:\n  - a", &DecodeOptions{Strict: true})
	require.Error(t, err)
}

func TestDecodeLenient_SkipsStrayLines(t *testing.T) {
	v, err := Decode("a: 1\n???\nb: 2")
	require.NoError(t, err)
	assert.Equal(t, map[string]interface{}{
		"a": json.Number("1"),
		"b": json.Number("2"),
	}, v)
}

func TestDecode_RoundTrip(t *testing.T) {
	original := map[string]interface{}{
		"title": "Competitive Landscape",
		"score": json.Number("0.87"),
		"flags": []interface{}{true, false, nil},
		"rows": []interface{}{
			map[string]interface{}{"name": "Acme", "rank": json.Number("1")},
			map[string]interface{}{"name": "Globex", "rank": json.Number("2")},
		},
		"nested": map[string]interface{}{
			"deep": map[string]interface{}{"leaf": "value"},
		},
	}

	encoded, err := Encode(original)
	require.NoError(t, err)

	decoded, err := DecodeWithOptions(encoded, &DecodeOptions{Strict: true})
	require.NoError(t, err)
	assert.Equal(t, original, decoded)
}
