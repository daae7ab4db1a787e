// Package schema defines the typed, serializable representation of a
// declared database schema: tables, ordered columns, enum types and
// foreign keys. It carries no behavior beyond equality and lookup; the
// diff engine and SQL emitter consume it as pure data.
package schema

// Type is the semantic tag for a column type. The emitter owns the
// mapping from semantic types to PostgreSQL type names.
type Type string

// Supported semantic column types.
const (
	TypeSerial      Type = "serial" // auto-incrementing identity column
	TypeInteger     Type = "integer"
	TypeBigInt      Type = "bigint"
	TypeDouble      Type = "double"
	TypeText        Type = "text"
	TypeBoolean     Type = "boolean"
	TypeJSON        Type = "json"
	TypeUUID        Type = "uuid"
	TypeTimestamp   Type = "timestamp"
	TypeTimestampTZ Type = "timestamptz"
	TypeDate        Type = "date"
	TypeTime        Type = "time"
	TypeBytes       Type = "bytes"
)

// EnumType returns the semantic type tag referencing a declared enum.
func EnumType(name string) Type {
	return Type("enum:" + name)
}

// EnumName returns the referenced enum name and true if t is an enum
// reference, or "" and false otherwise.
func (t Type) EnumName() (string, bool) {
	const prefix = "enum:"
	s := string(t)

	if len(s) > len(prefix) && s[:len(prefix)] == prefix {
		return s[len(prefix):], true
	}

	return "", false
}

// Column describes a single table column.
type Column struct {
	Name       string `json:"name"`
	Type       Type   `json:"type"`
	Nullable   bool   `json:"nullable,omitempty"`
	PrimaryKey bool   `json:"primary_key,omitempty"`
	Unique     bool   `json:"unique,omitempty"`
	// Default is a raw SQL fragment. Required by the emitter whenever a
	// new non-nullable column is added to a table that may already
	// contain rows; a missing default produces a placeholder the
	// operator must edit.
	Default string `json:"default,omitempty"`
}

// ForeignKey describes a reference from a column to the primary key of
// another table. Dependents are cleaned up with their owner, so the
// delete policy is always CASCADE.
type ForeignKey struct {
	Column       string `json:"column"`
	TargetTable  string `json:"target_table"`
	TargetColumn string `json:"target_column"`
}

// Table describes one declared table. Column order matters for the
// generated CREATE TABLE but is irrelevant for diffing.
type Table struct {
	Name        string       `json:"name"`
	Columns     []Column     `json:"columns"`
	ForeignKeys []ForeignKey `json:"foreign_keys,omitempty"`
	// Uniques holds table-level composite unique constraints, one
	// entry per constraint. Join tables carry exactly one, spanning
	// their two foreign key columns.
	Uniques [][]string `json:"uniques,omitempty"`
}

// Enum describes a declared enumerable type.
type Enum struct {
	Name     string   `json:"name"`
	Variants []string `json:"variants"`
}

// Model is the whole declared universe of tables and enum types,
// keyed by name.
type Model struct {
	Tables map[string]Table `json:"tables"`
	Enums  map[string]Enum  `json:"enums,omitempty"`
}

// NewModel returns an empty model with initialized maps.
func NewModel() Model {
	return Model{
		Tables: make(map[string]Table),
		Enums:  make(map[string]Enum),
	}
}

// Column returns the column with the given name and true if present.
func (t Table) Column(name string) (Column, bool) {
	for _, c := range t.Columns {
		if c.Name == name {
			return c, true
		}
	}

	return Column{}, false
}

// PrimaryKeyColumn returns the primary key column. Models built by the
// declare package always have exactly one.
func (t Table) PrimaryKeyColumn() (Column, bool) {
	for _, c := range t.Columns {
		if c.PrimaryKey {
			return c, true
		}
	}

	return Column{}, false
}

// ForeignKeyOn returns the foreign key declared on the given column,
// if any.
func (t Table) ForeignKeyOn(column string) (ForeignKey, bool) {
	for _, fk := range t.ForeignKeys {
		if fk.Column == column {
			return fk, true
		}
	}

	return ForeignKey{}, false
}

// Dependencies returns the names of the tables this table foreign-keys
// into, excluding itself.
func (t Table) Dependencies() []string {
	var deps []string

	seen := make(map[string]bool)

	for _, fk := range t.ForeignKeys {
		if fk.TargetTable == t.Name || seen[fk.TargetTable] {
			continue
		}

		seen[fk.TargetTable] = true
		deps = append(deps, fk.TargetTable)
	}

	return deps
}
