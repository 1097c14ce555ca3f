package toonsafe

import (
	"fmt"
	"strings"

	json "github.com/goccy/go-json"

	"github.com/mcncl/toonsafe/toon"
)

// Format identifies which grammar produced a result.
type Format string

const (
	FormatTOON   Format = "toon"
	FormatJSON   Format = "json"
	FormatFailed Format = "failed"
)

// DecodeResult carries the outcome of SafeDecode. Data is populated when
// Format is FormatTOON or FormatJSON; FormatFailed means Data is nil and Err
// holds both underlying failure messages.
type DecodeResult struct {
	Data   Value
	Format Format
	Err    string
}

// EncodeResult carries the outcome of SafeEncode. Encoding is total, so the
// Format tag communicates which grammar produced Encoded, not success.
type EncodeResult struct {
	Encoded string
	Format  Format
}

// DecodeOption configures SafeDecode.
type DecodeOption func(*decodeOptions)

type decodeOptions struct {
	strict bool
}

// Strict makes the TOON tier enforce the grammar as written (length markers,
// row arity, indentation). The default is lenient parsing, which is what
// messy model output usually needs.
func Strict() DecodeOption {
	return func(o *decodeOptions) { o.strict = true }
}

// EncodeOption configures SafeEncode.
type EncodeOption func(*encodeOptions)

type encodeOptions struct {
	logger    func(string)
	indent    int
	delimiter string
}

// WithLogger installs a diagnostic hook that fires when SafeEncode falls
// back to JSON. The default is no logging; the package itself never writes
// to a global logger.
func WithLogger(fn func(string)) EncodeOption {
	return func(o *encodeOptions) { o.logger = fn }
}

// WithIndent sets the number of spaces per TOON indentation level.
func WithIndent(n int) EncodeOption {
	return func(o *encodeOptions) { o.indent = n }
}

// WithDelimiter sets the cell delimiter for TOON inline arrays and table
// rows. Documents encoded with a non-default delimiter are write-only as far
// as SafeDecode is concerned.
func WithDelimiter(d string) EncodeOption {
	return func(o *encodeOptions) { o.delimiter = d }
}

// SafeDecode extracts the payload from text and decodes it, preferring the
// token-efficient TOON grammar and degrading to JSON. It never returns an
// error: total failure is reported through the result's Format and Err
// fields so callers can decide what is fatal for their flow.
func SafeDecode(text string, opts ...DecodeOption) DecodeResult {
	var o decodeOptions
	for _, opt := range opts {
		opt(&o)
	}
	content := ExtractPayload(text)

	v, toonErr := toon.DecodeWithOptions(content, &toon.DecodeOptions{Strict: o.strict})
	if toonErr == nil {
		return DecodeResult{Data: Normalize(v), Format: FormatTOON}
	}

	parsed, jsonErr := parseJSON(content)
	if jsonErr == nil {
		return DecodeResult{Data: Normalize(parsed), Format: FormatJSON}
	}

	return DecodeResult{
		Format: FormatFailed,
		Err:    fmt.Sprintf("%v, %v", toonErr, jsonErr),
	}
}

// SafeEncode sanitizes data and encodes it as TOON, falling back to JSON
// when the grammar rejects the value (typically object keys carrying
// characters the sanitizer deliberately leaves alone). The fallback encodes
// the original, unsanitized data: JSON escaping can carry everything the
// sanitizer strips, so fidelity to the caller's structure wins once the TOON
// grammar's constraints no longer apply. SafeEncode never returns an error
// for acyclic JSON-representable input; cyclic structures are undefined
// behavior, as with encoding/json.
func SafeEncode(data Value, opts ...EncodeOption) EncodeResult {
	var o encodeOptions
	for _, opt := range opts {
		opt(&o)
	}

	encoded, err := toon.EncodeWithOptions(Sanitize(data), &toon.EncodeOptions{
		Indent:    o.indent,
		Delimiter: o.delimiter,
	})
	if err == nil {
		return EncodeResult{Encoded: encoded, Format: FormatTOON}
	}
	if o.logger != nil {
		o.logger(fmt.Sprintf("toon encode failed, falling back to JSON: %v", err))
	}

	b, jsonErr := json.Marshal(data)
	if jsonErr != nil {
		// Only reachable for values outside the JSON data model (channels,
		// funcs, NaN). Still never raise.
		if o.logger != nil {
			o.logger(fmt.Sprintf("json fallback failed, encoding null: %v", jsonErr))
		}
		return EncodeResult{Encoded: "null", Format: FormatJSON}
	}
	return EncodeResult{Encoded: string(b), Format: FormatJSON}
}

// EncodeToString returns only the encoded text, for call sites that embed
// the result directly into a request body or prompt and do not branch on
// which grammar was used.
func EncodeToString(data Value, opts ...EncodeOption) string {
	return SafeEncode(data, opts...).Encoded
}

// parseJSON mirrors JSON.parse semantics: numbers arrive as json.Number and
// trailing non-whitespace content is an error.
func parseJSON(content string) (interface{}, error) {
	dec := json.NewDecoder(strings.NewReader(content))
	dec.UseNumber()

	var v interface{}
	if err := dec.Decode(&v); err != nil {
		return nil, err
	}
	if dec.More() {
		return nil, fmt.Errorf("invalid trailing data after first JSON value")
	}
	return v, nil
}
