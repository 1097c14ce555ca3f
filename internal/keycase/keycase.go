// Package keycase restyles object keys to a uniform case convention.
// LLM-facing payloads often mix camelCase API fields with snake_case scraped
// data; folding them into one style before encoding keeps prompts consistent
// and slightly cheaper. This is an opt-in CLI transform; the library's
// Sanitize never rewrites keys.
package keycase

import (
	"github.com/iancoleman/strcase"

	toonsafe "github.com/mcncl/toonsafe"
)

// Styles lists the accepted style names.
var Styles = []string{"snake", "camel", "pascal", "kebab"}

// Apply returns a copy of v with every object key rewritten to the given
// style. Values, array order and non-container scalars are untouched. An
// empty or unknown style returns v unchanged.
func Apply(v toonsafe.Value, style string) toonsafe.Value {
	conv := converter(style)
	if conv == nil {
		return v
	}
	return apply(toonsafe.Normalize(v), conv)
}

func converter(style string) func(string) string {
	switch style {
	case "snake":
		return strcase.ToSnake
	case "camel":
		return strcase.ToLowerCamel
	case "pascal":
		return strcase.ToCamel
	case "kebab":
		return strcase.ToKebab
	}
	return nil
}

func apply(v toonsafe.Value, conv func(string) string) toonsafe.Value {
	switch val := v.(type) {
	case toonsafe.Object:
		out := make(toonsafe.Object, len(val))
		for key, item := range val {
			out[conv(key)] = apply(item, conv)
		}
		return out
	case toonsafe.Array:
		out := make(toonsafe.Array, len(val))
		for i, item := range val {
			out[i] = apply(item, conv)
		}
		return out
	default:
		return val
	}
}
