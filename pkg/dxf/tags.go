// Package dxf reads and writes the DXF drawing interchange format at the
// level this tool needs: header variables, layer tables, and the modelspace
// entities that board outlines are made of (LINE, ARC, CIRCLE, LWPOLYLINE,
// TEXT/MTEXT).
//
// DXF files are a flat stream of tagged values: a numeric group code on one
// line and its value on the next. Everything here is built on that tag
// stream, the same way the KiCad tooling in this organization builds on a
// hand-rolled s-expression stream.
package dxf

import (
	"bufio"
	"fmt"
	"io"
	"strconv"
	"strings"
)

// Tag is one group-code/value pair from a DXF stream.
type Tag struct {
	Code  int
	Value string
}

// Float parses the tag value as a float64. Malformed numbers read as 0,
// matching the permissive behavior CAD consumers expect from hand-edited
// files.
func (t Tag) Float() float64 {
	v, _ := strconv.ParseFloat(strings.TrimSpace(t.Value), 64)
	return v
}

// Int parses the tag value as an int.
func (t Tag) Int() int {
	v, _ := strconv.Atoi(strings.TrimSpace(t.Value))
	return v
}

// tagReader pulls tags off a DXF stream one pair at a time, with one tag of
// pushback so entity parsers can stop at the next "0" code without
// consuming it.
type tagReader struct {
	scanner *bufio.Scanner
	line    int
	pushed  *Tag
}

func newTagReader(r io.Reader) *tagReader {
	return &tagReader{scanner: bufio.NewScanner(r)}
}

// Next returns the next tag, or io.EOF when the stream ends.
func (tr *tagReader) Next() (Tag, error) {
	if tr.pushed != nil {
		tag := *tr.pushed
		tr.pushed = nil
		return tag, nil
	}

	if !tr.scanner.Scan() {
		if err := tr.scanner.Err(); err != nil {
			return Tag{}, err
		}
		return Tag{}, io.EOF
	}
	tr.line++
	codeText := strings.TrimSpace(tr.scanner.Text())

	if !tr.scanner.Scan() {
		if err := tr.scanner.Err(); err != nil {
			return Tag{}, err
		}
		return Tag{}, fmt.Errorf("line %d: group code %q has no value line", tr.line, codeText)
	}
	tr.line++
	value := strings.TrimRight(tr.scanner.Text(), "\r\n")

	code, err := strconv.Atoi(codeText)
	if err != nil {
		return Tag{}, fmt.Errorf("line %d: invalid group code %q", tr.line-1, codeText)
	}

	return Tag{Code: code, Value: strings.TrimSpace(value)}, nil
}

// Unread pushes a tag back so the next call to Next returns it again.
func (tr *tagReader) Unread(tag Tag) {
	tr.pushed = &tag
}
