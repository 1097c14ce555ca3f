package toon

import (
	"encoding/json"
	"strconv"
	"strings"
)

type parsedLine struct {
	num    int // 1-based source line number
	indent int
	text   string
}

type decoder struct {
	lines  []parsedLine
	strict bool
}

// decode parses a whole document. Strict mode enforces the grammar as
// written; lenient mode keeps walking past count mismatches, ragged
// indentation and stray lines, recovering whatever structure it can.
func (d *decoder) decode(data string) (interface{}, error) {
	if err := d.scan(data); err != nil {
		return nil, err
	}
	if len(d.lines) == 0 {
		if d.strict {
			return nil, decodeErrorf(0, "empty document")
		}
		return map[string]interface{}{}, nil
	}

	first := d.lines[0]
	if d.strict && first.indent != 0 {
		return nil, decodeErrorf(first.num, "unexpected indentation before first value")
	}
	if isDashLine(first.text) {
		return nil, decodeErrorf(first.num, "list item without an enclosing array")
	}

	if fl, ok := parseFieldLine(first.text); ok {
		var (
			v    interface{}
			next int
			err  error
		)
		if fl.key == "" && !fl.quotedKey {
			v, next, err = d.parseArrayField(fl, 0, first.indent)
		} else {
			v, next, err = d.parseObject(0, first.indent)
		}
		if err != nil {
			return nil, err
		}
		if next < len(d.lines) && d.strict {
			return nil, decodeErrorf(d.lines[next].num, "unexpected content after document root")
		}
		return v, nil
	}

	// Top-level scalar.
	if len(d.lines) > 1 {
		return nil, decodeErrorf(d.lines[1].num, "unexpected content after top-level value")
	}
	if first.text[0] != '"' && strings.ContainsAny(first.text, "{}[]\":") {
		return nil, decodeErrorf(first.num, "unrecognized syntax")
	}
	return d.scalarCell(first.text, first.num)
}

// scan splits the input into indentation-classified non-blank lines.
func (d *decoder) scan(data string) error {
	data = strings.ReplaceAll(data, "\r\n", "\n")
	data = strings.ReplaceAll(data, "\r", "\n")
	for num, raw := range strings.Split(data, "\n") {
		indent, i := 0, 0
		for ; i < len(raw); i++ {
			if raw[i] == ' ' {
				indent++
				continue
			}
			if raw[i] == '\t' {
				if d.strict {
					return decodeErrorf(num+1, "tab indentation is not allowed")
				}
				indent++
				continue
			}
			break
		}
		text := strings.TrimRight(raw[i:], " \t")
		if text == "" {
			continue
		}
		d.lines = append(d.lines, parsedLine{num: num + 1, indent: indent, text: text})
	}
	return nil
}

// parseObject consumes fields at exactly the given column until the block
// dedents. Returns the object and the index of the first unconsumed line.
func (d *decoder) parseObject(i, indent int) (map[string]interface{}, int, error) {
	m := map[string]interface{}{}
	for i < len(d.lines) {
		ln := d.lines[i]
		if ln.indent < indent {
			break
		}
		if ln.indent > indent {
			if d.strict {
				return nil, i, decodeErrorf(ln.num, "unexpected indentation")
			}
			i++
			continue
		}
		if isDashLine(ln.text) {
			if d.strict {
				return nil, i, decodeErrorf(ln.num, "list item outside an array")
			}
			i++
			continue
		}
		fl, ok := parseFieldLine(ln.text)
		if !ok || (fl.key == "" && !fl.quotedKey) {
			if d.strict {
				return nil, i, decodeErrorf(ln.num, "malformed field line")
			}
			i++
			continue
		}
		if _, dup := m[fl.key]; dup && d.strict {
			return nil, i, decodeErrorf(ln.num, "duplicate key %q", fl.key)
		}
		v, next, err := d.parseFieldValue(fl, i, indent)
		if err != nil {
			return nil, i, err
		}
		m[fl.key] = v
		i = next
	}
	return m, i, nil
}

// parseFieldValue resolves the right-hand side of a field line at index i,
// consuming any child block.
func (d *decoder) parseFieldValue(fl fieldLine, i, indent int) (interface{}, int, error) {
	ln := d.lines[i]
	if fl.hasArr {
		return d.parseArrayField(fl, i, indent)
	}
	if fl.rest != "" {
		v, err := d.scalarCell(fl.rest, ln.num)
		return v, i + 1, err
	}
	// `key:` with children is a nested object; without children, empty.
	// Lenient mode also accepts dash items under a bare `key:` header, a
	// list missing its length marker; strict mode rejects that shape.
	j := i + 1
	if j >= len(d.lines) || d.lines[j].indent <= ln.indent {
		return map[string]interface{}{}, j, nil
	}
	if !d.strict && isDashLine(d.lines[j].text) {
		items, next, err := d.parseList(j, d.lines[j].indent, ln.indent)
		if err != nil {
			return nil, i, err
		}
		return items, next, nil
	}
	return d.parseObject(j, d.lines[j].indent)
}

// parseArrayField handles the three array forms: inline scalars, tabular
// rows and dash lists. indent is the column of the header line itself.
func (d *decoder) parseArrayField(fl fieldLine, i, indent int) (interface{}, int, error) {
	ln := d.lines[i]
	if d.strict && fl.count < 0 {
		return nil, i, decodeErrorf(ln.num, "missing array length marker")
	}

	if fl.fields != nil {
		return d.parseTable(fl, i, indent)
	}

	if fl.rest != "" {
		cells := splitCells(fl.rest)
		arr := make([]interface{}, 0, len(cells))
		for _, c := range cells {
			v, err := d.scalarCell(c, ln.num)
			if err != nil {
				return nil, i, err
			}
			arr = append(arr, v)
		}
		if d.strict && fl.count >= 0 && len(arr) != fl.count {
			return nil, i, decodeErrorf(ln.num, "declared %d elements, found %d", fl.count, len(arr))
		}
		return arr, i + 1, nil
	}

	j := i + 1
	if j >= len(d.lines) || d.lines[j].indent <= indent {
		if d.strict && fl.count > 0 {
			return nil, i, decodeErrorf(ln.num, "declared %d elements, found 0", fl.count)
		}
		return []interface{}{}, j, nil
	}
	items, j, err := d.parseList(j, d.lines[j].indent, indent)
	if err != nil {
		return nil, i, err
	}
	if d.strict && fl.count >= 0 && len(items) != fl.count {
		return nil, i, decodeErrorf(ln.num, "declared %d elements, found %d", fl.count, len(items))
	}
	return items, j, nil
}

func (d *decoder) parseTable(fl fieldLine, i, indent int) (interface{}, int, error) {
	ln := d.lines[i]
	if d.strict && fl.rest != "" {
		return nil, i, decodeErrorf(ln.num, "unexpected content after table header")
	}
	names := make([]string, len(fl.fields))
	for k, raw := range fl.fields {
		names[k] = unquoteFieldName(raw)
	}

	rows := []interface{}{}
	j := i + 1
	for j < len(d.lines) && d.lines[j].indent > indent {
		row := d.lines[j]
		cells := splitCells(row.text)
		if d.strict && len(cells) != len(names) {
			return nil, i, decodeErrorf(row.num, "table row has %d cells, header declares %d", len(cells), len(names))
		}
		obj := make(map[string]interface{}, len(names))
		for k, name := range names {
			if k < len(cells) {
				v, err := d.scalarCell(cells[k], row.num)
				if err != nil {
					return nil, i, err
				}
				obj[name] = v
			} else {
				obj[name] = nil
			}
		}
		rows = append(rows, obj)
		j++
	}
	if d.strict && fl.count >= 0 && len(rows) != fl.count {
		return nil, i, decodeErrorf(ln.num, "declared %d rows, found %d", fl.count, len(rows))
	}
	return rows, j, nil
}

// parseList consumes dash items at the given column. parentIndent is the
// column of the array header line; the list ends at or above it.
func (d *decoder) parseList(i, indent, parentIndent int) ([]interface{}, int, error) {
	items := []interface{}{}
	for i < len(d.lines) {
		ln := d.lines[i]
		if ln.indent <= parentIndent {
			break
		}
		if !isDashLine(ln.text) {
			if d.strict {
				return nil, i, decodeErrorf(ln.num, "malformed list item")
			}
			i++
			continue
		}
		if d.strict && ln.indent != indent {
			return nil, i, decodeErrorf(ln.num, "inconsistent list indentation")
		}
		rest := strings.TrimSpace(ln.text[1:])

		// The item block is every following line nested under the dash.
		end := i + 1
		for end < len(d.lines) && d.lines[end].indent > ln.indent {
			end++
		}
		block := d.lines[i+1 : end]

		item, err := d.parseListItem(ln, rest, block, ln.indent)
		if err != nil {
			return nil, i, err
		}
		items = append(items, item)
		i = end
	}
	return items, i, nil
}

// parseListItem resolves a single dash item. The content after "- " sits at
// column indent+2, so the item body is re-parsed as a block rooted there.
func (d *decoder) parseListItem(ln parsedLine, rest string, block []parsedLine, indent int) (interface{}, error) {
	if rest == "" {
		if len(block) == 0 {
			return map[string]interface{}{}, nil
		}
		sub := &decoder{lines: block, strict: d.strict}
		v, next, err := sub.parseObject(0, block[0].indent)
		if err != nil {
			return nil, err
		}
		if next < len(block) && d.strict {
			return nil, decodeErrorf(block[next].num, "unexpected indentation")
		}
		return v, nil
	}

	if fl, ok := parseFieldLine(rest); ok {
		virtual := parsedLine{num: ln.num, indent: indent + 2, text: rest}
		sub := &decoder{lines: append([]parsedLine{virtual}, block...), strict: d.strict}
		var (
			v    interface{}
			next int
			err  error
		)
		if fl.key == "" && !fl.quotedKey {
			v, next, err = sub.parseArrayField(fl, 0, indent+2)
		} else {
			v, next, err = sub.parseObject(0, indent+2)
		}
		if err != nil {
			return nil, err
		}
		if next < len(sub.lines) && d.strict {
			return nil, decodeErrorf(sub.lines[next].num, "unexpected indentation")
		}
		return v, nil
	}

	if len(block) > 0 && d.strict {
		return nil, decodeErrorf(block[0].num, "unexpected indentation under scalar list item")
	}
	return d.scalarCell(rest, ln.num)
}

// scalarCell parses one scalar cell: quoted string, literal, number, or bare
// string.
func (d *decoder) scalarCell(s string, line int) (interface{}, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		if d.strict {
			return nil, decodeErrorf(line, "empty cell")
		}
		return "", nil
	}
	if s[0] == '"' {
		content, next, ok := scanQuoted(s, 0)
		if !ok {
			if d.strict {
				return nil, decodeErrorf(line, "unterminated string")
			}
			return content, nil
		}
		if next != len(s) && d.strict {
			return nil, decodeErrorf(line, "unexpected content after closing quote")
		}
		return content, nil
	}
	switch s {
	case "null":
		return nil, nil
	case "true":
		return true, nil
	case "false":
		return false, nil
	}
	if numberRe.MatchString(s) {
		return json.Number(s), nil
	}
	return s, nil
}

// ---- line-level helpers ----

type fieldLine struct {
	key       string
	quotedKey bool
	hasArr    bool
	count     int // -1 when the length marker is absent or empty
	fields    []string
	rest      string
}

// parseFieldLine recognizes `key: value`, `key:`, `key[N]: ...`,
// `key[N]{a,b}:` and the keyless root/list forms `[N]...:`.
func parseFieldLine(s string) (fieldLine, bool) {
	fl := fieldLine{count: -1}
	if s == "" {
		return fl, false
	}

	i := 0
	switch {
	case s[0] == '"':
		key, next, ok := scanQuoted(s, 0)
		if !ok {
			return fl, false
		}
		fl.key, fl.quotedKey = key, true
		i = next
	case s[0] == '[':
		// keyless array header
	default:
		j := strings.IndexAny(s, ":[")
		if j <= 0 {
			return fl, false
		}
		key := strings.TrimSpace(s[:j])
		if key == "" || key[0] == '-' || strings.ContainsAny(key, "\"{}],") {
			return fl, false
		}
		fl.key = key
		i = j
	}

	if i < len(s) && s[i] == '[' {
		end := strings.IndexByte(s[i:], ']')
		if end < 0 {
			return fl, false
		}
		inner := strings.TrimSpace(s[i+1 : i+end])
		if inner != "" {
			n, err := strconv.Atoi(inner)
			if err != nil || n < 0 {
				return fl, false
			}
			fl.count = n
		}
		fl.hasArr = true
		i += end + 1
		if i < len(s) && s[i] == '{' {
			end, ok := findBraceEnd(s, i)
			if !ok {
				return fl, false
			}
			fl.fields = splitCells(s[i+1 : end])
			i = end + 1
		}
	}

	if i >= len(s) || s[i] != ':' {
		return fl, false
	}
	fl.rest = strings.TrimSpace(s[i+1:])
	return fl, true
}

// findBraceEnd locates the '}' closing the brace opened at index i,
// skipping over quoted field names.
func findBraceEnd(s string, i int) (int, bool) {
	inQuote := false
	for j := i + 1; j < len(s); j++ {
		switch {
		case inQuote && s[j] == '\\':
			j++
		case s[j] == '"':
			inQuote = !inQuote
		case s[j] == '}' && !inQuote:
			return j, true
		}
	}
	return 0, false
}

// splitCells splits a delimiter-joined cell run on commas, honoring quotes.
func splitCells(s string) []string {
	var cells []string
	var sb strings.Builder
	inQuote := false
	for i := 0; i < len(s); i++ {
		c := s[i]
		switch {
		case inQuote && c == '\\' && i+1 < len(s):
			sb.WriteByte(c)
			i++
			sb.WriteByte(s[i])
		case c == '"':
			inQuote = !inQuote
			sb.WriteByte(c)
		case c == ',' && !inQuote:
			cells = append(cells, strings.TrimSpace(sb.String()))
			sb.Reset()
		default:
			sb.WriteByte(c)
		}
	}
	cells = append(cells, strings.TrimSpace(sb.String()))
	return cells
}

// scanQuoted reads a double-quoted string starting at index start and
// returns the unescaped content and the index just past the closing quote.
func scanQuoted(s string, start int) (string, int, bool) {
	if start >= len(s) || s[start] != '"' {
		return "", start, false
	}
	var sb strings.Builder
	i := start + 1
	for i < len(s) {
		c := s[i]
		if c == '\\' && i+1 < len(s) {
			sb.WriteByte(unescapeByte(s[i+1]))
			i += 2
			continue
		}
		if c == '"' {
			return sb.String(), i + 1, true
		}
		sb.WriteByte(c)
		i++
	}
	return sb.String(), i, false
}

func unescapeByte(c byte) byte {
	switch c {
	case 'n':
		return '\n'
	case 't':
		return '\t'
	case 'r':
		return '\r'
	}
	return c
}

func unquoteFieldName(raw string) string {
	if raw != "" && raw[0] == '"' {
		if content, _, ok := scanQuoted(raw, 0); ok {
			return content
		}
	}
	return raw
}

// isDashLine reports whether text opens a list item: a lone dash or a dash
// followed by a space. This keeps negative numbers in cells unambiguous.
func isDashLine(text string) bool {
	return text == "-" || strings.HasPrefix(text, "- ")
}
