package core

import (
	"encoding/json"
	"fmt"

	"github.com/itchyny/gojq"

	"github.com/julien-sobczak/nimbus2md/internal/nimbus"
)

// NoteFilter selects notes using a jq expression evaluated against their metadata.
// Ex: `.tags | index("work")`, `.title | startswith("2024")`
type NoteFilter struct {
	expr string
	code *gojq.Code
}

// NewNoteFilter compiles an expression. An empty expression selects every note.
func NewNoteFilter(expr string) (*NoteFilter, error) {
	if expr == "" {
		return &NoteFilter{}, nil
	}
	query, err := gojq.Parse(expr)
	if err != nil {
		return nil, fmt.Errorf("invalid filter %q: %w", expr, err)
	}
	code, err := gojq.Compile(query)
	if err != nil {
		return nil, fmt.Errorf("invalid filter %q: %w", expr, err)
	}
	return &NoteFilter{
		expr: expr,
		code: code,
	}, nil
}

// Match returns if the note is selected. The first value produced by the expression decides:
// false, null or no value reject the note.
func (f *NoteFilter) Match(note *nimbus.Note) (bool, error) {
	if f.code == nil {
		return true, nil
	}
	data, err := toJQInput(note)
	if err != nil {
		return false, err
	}
	iter := f.code.Run(data)
	v, ok := iter.Next()
	if !ok {
		return false, nil
	}
	if err, ok := v.(error); ok {
		return false, fmt.Errorf("filter %q failed on note %s: %w", f.expr, note.ID, err)
	}
	switch value := v.(type) {
	case nil:
		return false, nil
	case bool:
		return value, nil
	}
	return true, nil
}

// toJQInput converts the note into the generic values understood by gojq.
func toJQInput(note *nimbus.Note) (any, error) {
	data, err := json.Marshal(note)
	if err != nil {
		return nil, err
	}
	var result map[string]any
	if err := json.Unmarshal(data, &result); err != nil {
		return nil, err
	}
	return result, nil
}
