package toon

import "fmt"

// EncodeError reports a value that cannot be represented in the TOON grammar.
type EncodeError struct {
	Path string // JSON-path-ish location of the offending value, e.g. $.users[2].bio
	Msg  string
}

// Error implements the error interface.
func (e *EncodeError) Error() string {
	return fmt.Sprintf("toon: cannot encode %s: %s", e.Path, e.Msg)
}

// DecodeError reports malformed TOON input.
type DecodeError struct {
	Line int // 1-based line number, 0 when the document as a whole is at fault
	Msg  string
}

// Error implements the error interface.
func (e *DecodeError) Error() string {
	if e.Line > 0 {
		return fmt.Sprintf("toon: line %d: %s", e.Line, e.Msg)
	}
	return fmt.Sprintf("toon: %s", e.Msg)
}

func encodeErrorf(path, format string, args ...interface{}) error {
	return &EncodeError{Path: path, Msg: fmt.Sprintf(format, args...)}
}

func decodeErrorf(line int, format string, args ...interface{}) error {
	return &DecodeError{Line: line, Msg: fmt.Sprintf(format, args...)}
}
