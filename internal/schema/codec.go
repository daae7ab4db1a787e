package schema

import (
	"bytes"
	"encoding/json"
	"fmt"
	"sort"
)

// modelJSON is the on-disk representation. Tables and enums are stored
// as name-sorted slices so that the same model always serializes to
// byte-identical output and unrelated re-saves never produce spurious
// diffs.
type modelJSON struct {
	Tables []Table `json:"tables"`
	Enums  []Enum  `json:"enums,omitempty"`
}

// Marshal serializes the model deterministically.
func Marshal(m Model) ([]byte, error) {
	out := modelJSON{
		Tables: make([]Table, 0, len(m.Tables)),
		Enums:  make([]Enum, 0, len(m.Enums)),
	}

	for _, t := range m.Tables {
		out.Tables = append(out.Tables, t)
	}

	sort.Slice(out.Tables, func(i, j int) bool {
		return out.Tables[i].Name < out.Tables[j].Name
	})

	for _, e := range m.Enums {
		out.Enums = append(out.Enums, e)
	}

	sort.Slice(out.Enums, func(i, j int) bool {
		return out.Enums[i].Name < out.Enums[j].Name
	})

	var buf bytes.Buffer

	enc := json.NewEncoder(&buf)
	enc.SetIndent("", "  ")

	if err := enc.Encode(out); err != nil {
		return nil, fmt.Errorf("encoding schema model: %w", err)
	}

	return buf.Bytes(), nil
}

// Unmarshal parses a serialized model.
func Unmarshal(data []byte) (Model, error) {
	var raw modelJSON
	if err := json.Unmarshal(data, &raw); err != nil {
		return Model{}, fmt.Errorf("decoding schema model: %w", err)
	}

	m := NewModel()

	for _, t := range raw.Tables {
		m.Tables[t.Name] = t
	}

	for _, e := range raw.Enums {
		m.Enums[e.Name] = e
	}

	return m, nil
}

// Equal reports whether two models describe the same schema. Table
// order is irrelevant; column order within a table is not.
func Equal(a, b Model) bool {
	ab, err := Marshal(a)
	if err != nil {
		return false
	}

	bb, err := Marshal(b)
	if err != nil {
		return false
	}

	return bytes.Equal(ab, bb)
}

// Merge returns a model containing the union of both models' tables
// and enums. On a name collision b wins. Reset uses it to drop objects
// known to either the latest snapshot or the current declarations.
func Merge(a, b Model) Model {
	m := NewModel()

	for name, t := range a.Tables {
		m.Tables[name] = t
	}

	for name, t := range b.Tables {
		m.Tables[name] = t
	}

	for name, e := range a.Enums {
		m.Enums[name] = e
	}

	for name, e := range b.Enums {
		m.Enums[name] = e
	}

	return m
}

// TableNames returns the model's table names in sorted order.
func (m Model) TableNames() []string {
	names := make([]string, 0, len(m.Tables))
	for name := range m.Tables {
		names = append(names, name)
	}

	sort.Strings(names)

	return names
}

// EnumNames returns the model's enum names in sorted order.
func (m Model) EnumNames() []string {
	names := make([]string, 0, len(m.Enums))
	for name := range m.Enums {
		names = append(names, name)
	}

	sort.Strings(names)

	return names
}
