// Package toon implements TOON (Token-Oriented Object Notation), a
// line-oriented, indentation-based text format that encodes the JSON data
// model with explicit structure and minimal quoting. Compared to JSON it
// spends far fewer tokens on punctuation, which is why it is the preferred
// wire shape for LLM prompts and responses.
//
// The format is lossy-hostile by construction: strings carrying control
// characters (including raw newlines) cannot be represented in a single cell
// and are rejected at encode time. Callers that need a never-fails surface
// should go through the root toonsafe package instead of using this codec
// directly.
package toon

// EncodeOptions configures TOON encoding behavior.
type EncodeOptions struct {
	Indent    int    // Number of spaces per indentation level (default: 2)
	Delimiter string // Delimiter for inline arrays and tabular rows (default: ",")
}

// DecodeOptions configures TOON decoding behavior.
type DecodeOptions struct {
	Strict bool // Enforce declared lengths, row arity and indentation (default: false)
}

// Encode converts a Go value to TOON text using default options.
func Encode(v interface{}) (string, error) {
	return EncodeWithOptions(v, nil)
}

// EncodeWithOptions converts a Go value to TOON text with custom options.
func EncodeWithOptions(v interface{}, opts *EncodeOptions) (string, error) {
	if opts == nil {
		opts = &EncodeOptions{Indent: 2, Delimiter: ","}
	}
	if opts.Indent <= 0 {
		opts.Indent = 2
	}
	if opts.Delimiter == "" {
		opts.Delimiter = ","
	}

	normalized, err := normalizeValue(v, "$")
	if err != nil {
		return "", err
	}
	e := newEncoder(opts.Indent, opts.Delimiter)
	return e.encode(normalized)
}

// Decode parses TOON text in lenient mode and returns the decoded value.
// Objects decode to map[string]interface{}, arrays to []interface{}, and
// numbers to json.Number.
func Decode(data string) (interface{}, error) {
	return DecodeWithOptions(data, nil)
}

// DecodeWithOptions parses TOON text with custom options. The decoder always
// splits inline arrays and tabular rows on commas; documents produced with a
// custom encode delimiter are not decodable.
func DecodeWithOptions(data string, opts *DecodeOptions) (interface{}, error) {
	if opts == nil {
		opts = &DecodeOptions{Strict: false}
	}

	d := &decoder{strict: opts.Strict}
	return d.decode(data)
}
