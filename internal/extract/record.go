package extract

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"unicode"
)

var errNotObject = errors.New("record is not a JSON object")

// Record is one crawled page. Missing and null fields decode as "".
type Record struct {
	URL   string
	Title string
	Text  string
}

// ParseError reports a line that is not a JSON object with string fields.
type ParseError struct {
	Line int
	Err  error
}

func (e *ParseError) Error() string {
	return fmt.Sprintf("line %d: invalid JSON record: %v", e.Line, e.Err)
}

func (e *ParseError) Unwrap() error {
	return e.Err
}

// decodeRecord parses a single JSON Lines entry and strips its fields.
// Keys match exactly: "Title" is not "title".
func decodeRecord(line []byte) (Record, error) {
	if trimmed := bytes.TrimSpace(line); len(trimmed) > 0 && trimmed[0] != '{' {
		return Record{}, errNotObject
	}

	var fields map[string]json.RawMessage
	if err := json.Unmarshal(line, &fields); err != nil {
		return Record{}, err
	}

	var (
		rec Record
		err error
	)
	if rec.URL, err = stringField(fields, "url"); err != nil {
		return Record{}, err
	}
	if rec.Title, err = stringField(fields, "title"); err != nil {
		return Record{}, err
	}
	if rec.Text, err = stringField(fields, "text"); err != nil {
		return Record{}, err
	}

	return rec, nil
}

func stringField(fields map[string]json.RawMessage, key string) (string, error) {
	raw, ok := fields[key]
	if !ok || bytes.Equal(raw, []byte("null")) {
		return "", nil
	}

	var s string
	if err := json.Unmarshal(raw, &s); err != nil {
		return "", fmt.Errorf("field %q: %w", key, err)
	}
	return strings.TrimFunc(s, isStripSpace), nil
}

// isStripSpace also treats the ASCII separators U+001C..U+001F as whitespace.
func isStripSpace(r rune) bool {
	return unicode.IsSpace(r) || (r >= 0x1c && r <= 0x1f)
}

// Line renders a surviving record. The separator is written even when the title is empty.
func (r Record) Line() string {
	return r.Title + ". " + r.Text
}
