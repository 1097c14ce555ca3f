package toon

import (
	"encoding/json"
	"regexp"
	"sort"
	"strconv"
	"strings"
)

var (
	// Keys that need no quoting on the wire.
	bareKeyRe = regexp.MustCompile(`^[A-Za-z_][A-Za-z0-9_.\-]*$`)
	// String values that need no quoting. Colons, delimiters, quotes,
	// brackets and a leading dash would all collide with structural
	// syntax, so anything containing them gets quoted instead.
	bareStringRe = regexp.MustCompile(`^[A-Za-z_][A-Za-z0-9_ .\-/@+'()!?]*$`)
	// The numeric literal grammar shared by encoder and decoder.
	numberRe = regexp.MustCompile(`^-?(?:0|[1-9][0-9]*)(?:\.[0-9]+)?(?:[eE][+-]?[0-9]+)?$`)
)

type encoder struct {
	sb        strings.Builder
	indent    int
	delimiter string
}

func newEncoder(indent int, delimiter string) *encoder {
	return &encoder{indent: indent, delimiter: delimiter}
}

// encode renders a normalized value as a TOON document.
func (e *encoder) encode(v interface{}) (string, error) {
	switch val := v.(type) {
	case map[string]interface{}:
		if err := e.writeObjectBody(val, 0, "$"); err != nil {
			return "", err
		}
	case []interface{}:
		if err := e.writeArray("", val, 0, "", e.indent, "$"); err != nil {
			return "", err
		}
	default:
		cell, err := e.cell(val, "$")
		if err != nil {
			return "", err
		}
		e.writeLine(0, "", cell)
	}
	return strings.TrimSuffix(e.sb.String(), "\n"), nil
}

func (e *encoder) writeLine(indent int, prefix, text string) {
	for i := 0; i < indent; i++ {
		e.sb.WriteByte(' ')
	}
	e.sb.WriteString(prefix)
	e.sb.WriteString(text)
	e.sb.WriteByte('\n')
}

// writeObjectBody emits the fields of an object, keys sorted for
// deterministic output.
func (e *encoder) writeObjectBody(m map[string]interface{}, indent int, path string) error {
	for _, key := range sortedKeys(m) {
		if err := e.writeField(key, m[key], indent, "", path+"."+key); err != nil {
			return err
		}
	}
	return nil
}

// writeField emits a single `key: ...` field. prefix is the list-item dash
// when the field opens a list element; children always sit one level below
// the column the field starts at.
func (e *encoder) writeField(key string, v interface{}, indent int, prefix, path string) error {
	kstr, err := e.encodeKey(key, path)
	if err != nil {
		return err
	}
	childBase := indent + len(prefix) + e.indent

	switch val := v.(type) {
	case map[string]interface{}:
		e.writeLine(indent, prefix, kstr+":")
		return e.writeObjectBody(val, childBase, path)
	case []interface{}:
		return e.writeArray(kstr, val, indent, prefix, childBase, path)
	default:
		cell, err := e.cell(val, path)
		if err != nil {
			return err
		}
		e.writeLine(indent, prefix, kstr+": "+cell)
		return nil
	}
}

// writeArray picks the densest representation the elements allow: inline for
// scalar arrays, tabular for uniform arrays of flat objects, a dash list
// otherwise. kstr is the already-encoded key, empty at the document root and
// for nested array list items.
func (e *encoder) writeArray(kstr string, arr []interface{}, indent int, prefix string, childBase int, path string) error {
	header := kstr + lengthMarker(len(arr))

	if len(arr) == 0 {
		e.writeLine(indent, prefix, header+":")
		return nil
	}

	if allScalars(arr) {
		cells := make([]string, len(arr))
		for i, item := range arr {
			cell, err := e.cell(item, elemPath(path, i))
			if err != nil {
				return err
			}
			cells[i] = cell
		}
		e.writeLine(indent, prefix, header+": "+strings.Join(cells, e.delimiter))
		return nil
	}

	if fields, ok := tabularFields(arr); ok {
		names := make([]string, len(fields))
		for i, f := range fields {
			n, err := e.encodeKey(f, path)
			if err != nil {
				return err
			}
			names[i] = n
		}
		e.writeLine(indent, prefix, header+"{"+strings.Join(names, e.delimiter)+"}:")
		for i, item := range arr {
			row := item.(map[string]interface{})
			cells := make([]string, len(fields))
			for j, f := range fields {
				cell, err := e.cell(row[f], elemPath(path, i)+"."+f)
				if err != nil {
					return err
				}
				cells[j] = cell
			}
			e.writeLine(childBase, "", strings.Join(cells, e.delimiter))
		}
		return nil
	}

	e.writeLine(indent, prefix, header+":")
	for i, item := range arr {
		if err := e.writeListItem(item, childBase, elemPath(path, i)); err != nil {
			return err
		}
	}
	return nil
}

// writeListItem emits one dash-prefixed list element. Object elements put
// their first field on the dash line and the rest at the dash content column.
func (e *encoder) writeListItem(item interface{}, indent int, path string) error {
	switch val := item.(type) {
	case map[string]interface{}:
		keys := sortedKeys(val)
		if len(keys) == 0 {
			e.writeLine(indent, "", "-")
			return nil
		}
		if err := e.writeField(keys[0], val[keys[0]], indent, "- ", path+"."+keys[0]); err != nil {
			return err
		}
		for _, key := range keys[1:] {
			if err := e.writeField(key, val[key], indent+2, "", path+"."+key); err != nil {
				return err
			}
		}
		return nil
	case []interface{}:
		return e.writeArray("", val, indent, "- ", indent+2+e.indent, path)
	default:
		cell, err := e.cell(val, path)
		if err != nil {
			return err
		}
		e.writeLine(indent, "- ", cell)
		return nil
	}
}

// cell renders a scalar. Strings holding control characters (raw newlines
// included) have no single-line representation and are an encode error; the
// toonsafe layer relies on that to trigger its JSON fallback.
func (e *encoder) cell(v interface{}, path string) (string, error) {
	switch val := v.(type) {
	case nil:
		return "null", nil
	case bool:
		if val {
			return "true", nil
		}
		return "false", nil
	case json.Number:
		if !numberRe.MatchString(string(val)) {
			return "", encodeErrorf(path, "invalid number literal %q", string(val))
		}
		return string(val), nil
	case string:
		return e.encodeString(val, path)
	}
	return "", encodeErrorf(path, "value of type %T is not a scalar", v)
}

func (e *encoder) encodeString(s, path string) (string, error) {
	if i := controlIndex(s); i >= 0 {
		return "", encodeErrorf(path, "string contains control character 0x%02x", s[i])
	}
	if e.isBareString(s) {
		return s, nil
	}
	return quoteString(s), nil
}

func (e *encoder) isBareString(s string) bool {
	if !bareStringRe.MatchString(s) || strings.HasSuffix(s, " ") {
		return false
	}
	// A bare cell must not round-trip into a different scalar type.
	switch s {
	case "null", "true", "false":
		return false
	}
	if numberRe.MatchString(s) {
		return false
	}
	return !strings.Contains(s, e.delimiter)
}

func (e *encoder) encodeKey(key, path string) (string, error) {
	if i := controlIndex(key); i >= 0 {
		return "", encodeErrorf(path, "key contains control character 0x%02x", key[i])
	}
	if bareKeyRe.MatchString(key) {
		return key, nil
	}
	return quoteString(key), nil
}

func quoteString(s string) string {
	var sb strings.Builder
	sb.WriteByte('"')
	for i := 0; i < len(s); i++ {
		switch s[i] {
		case '"', '\\':
			sb.WriteByte('\\')
		}
		sb.WriteByte(s[i])
	}
	sb.WriteByte('"')
	return sb.String()
}

// controlIndex returns the index of the first C0/DEL control byte, or -1.
func controlIndex(s string) int {
	for i := 0; i < len(s); i++ {
		if s[i] < 0x20 || s[i] == 0x7F {
			return i
		}
	}
	return -1
}

func lengthMarker(n int) string {
	return "[" + strconv.Itoa(n) + "]"
}

func elemPath(path string, i int) string {
	return path + "[" + strconv.Itoa(i) + "]"
}

func sortedKeys(m map[string]interface{}) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

func isScalar(v interface{}) bool {
	switch v.(type) {
	case nil, bool, string, json.Number:
		return true
	}
	return false
}

func allScalars(arr []interface{}) bool {
	for _, v := range arr {
		if !isScalar(v) {
			return false
		}
	}
	return true
}

// tabularFields reports whether every element is a flat object over the same
// non-empty key set, which allows the table form `key[N]{a,b}:`.
func tabularFields(arr []interface{}) ([]string, bool) {
	var fields []string
	for _, item := range arr {
		m, ok := item.(map[string]interface{})
		if !ok || len(m) == 0 {
			return nil, false
		}
		for _, v := range m {
			if !isScalar(v) {
				return nil, false
			}
		}
		keys := sortedKeys(m)
		if fields == nil {
			fields = keys
			continue
		}
		if len(keys) != len(fields) {
			return nil, false
		}
		for i := range keys {
			if keys[i] != fields[i] {
				return nil, false
			}
		}
	}
	return fields, true
}
