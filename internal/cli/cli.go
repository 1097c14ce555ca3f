// Package cli implements the conversion pipeline behind cmd/toonsafe:
// JSON/YAML payloads to TOON on the way out, TOON/JSON back to pretty JSON
// on the way in, with every failure mapped to a user-reportable error.
package cli

import (
	"fmt"
	"io"
	"strings"

	json "github.com/goccy/go-json"
	"gopkg.in/yaml.v3"

	toonsafe "github.com/mcncl/toonsafe"
	"github.com/mcncl/toonsafe/internal/errors"
	"github.com/mcncl/toonsafe/internal/keycase"
)

// Options carries the effective settings for one conversion.
type Options struct {
	Decode    bool   // Decode TOON/JSON to pretty JSON instead of encoding
	Strict    bool   // Strict TOON grammar on decode
	Indent    int    // Spaces per TOON indentation level
	Delimiter string // Cell delimiter for TOON output
	KeyCase   string // Optional key restyling: snake, camel, pascal, kebab
	Verbose   bool   // Report which grammar handled the payload on diag
}

// Convert runs one payload through the pipeline. diag receives verbose
// notes and fallback diagnostics; it may be nil.
func Convert(input string, opts Options, diag io.Writer) (string, error) {
	if strings.TrimSpace(input) == "" {
		return "", errors.NewInputError("input is empty", errors.ErrEmptyInput)
	}
	if opts.Decode {
		return decode(input, opts, diag)
	}
	return encode(input, opts, diag)
}

func decode(input string, opts Options, diag io.Writer) (string, error) {
	var decodeOpts []toonsafe.DecodeOption
	if opts.Strict {
		decodeOpts = append(decodeOpts, toonsafe.Strict())
	}

	res := toonsafe.SafeDecode(input, decodeOpts...)
	if res.Format == toonsafe.FormatFailed {
		return "", errors.NewDecodeError(res.Err, errors.ErrUnknownFormat)
	}
	if opts.Verbose && diag != nil {
		fmt.Fprintf(diag, "decoded via %s\n", res.Format)
	}

	out, err := json.MarshalIndent(res.Data, "", "  ")
	if err != nil {
		return "", errors.NewOutputError("failed to render decoded payload as JSON", err)
	}
	return string(out), nil
}

func encode(input string, opts Options, diag io.Writer) (string, error) {
	v, err := parsePayload(input)
	if err != nil {
		return "", err
	}
	if opts.KeyCase != "" {
		v = keycase.Apply(v, opts.KeyCase)
	}

	encodeOpts := []toonsafe.EncodeOption{
		toonsafe.WithIndent(opts.Indent),
		toonsafe.WithDelimiter(opts.Delimiter),
	}
	if diag != nil {
		encodeOpts = append(encodeOpts, toonsafe.WithLogger(func(msg string) {
			fmt.Fprintln(diag, msg)
		}))
	}

	res := toonsafe.SafeEncode(v, encodeOpts...)
	if opts.Verbose && diag != nil {
		fmt.Fprintf(diag, "encoded as %s\n", res.Format)
	}
	return res.Encoded, nil
}

// parsePayload reads the input as JSON first and YAML second. YAML is a
// superset of JSON in practice, but the dedicated JSON path keeps numbers as
// json.Number instead of YAML's int/float split.
func parsePayload(input string) (toonsafe.Value, error) {
	dec := json.NewDecoder(strings.NewReader(input))
	dec.UseNumber()
	var v interface{}
	if err := dec.Decode(&v); err == nil && !dec.More() {
		return toonsafe.Normalize(v), nil
	}

	var y interface{}
	if err := yaml.Unmarshal([]byte(input), &y); err == nil {
		return toonsafe.Normalize(y), nil
	}

	return nil, errors.NewInputError("payload is neither valid JSON nor YAML", errors.ErrUnknownFormat)
}
