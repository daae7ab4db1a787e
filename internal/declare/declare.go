// Package declare turns structured table declarations into a schema
// model. It is the statically validated replacement for annotation-style
// metadata: an application describes its tables and relationships as
// plain data, and Build expands relationship declarations into foreign
// key columns and join tables before handing the model to the snapshot
// store.
package declare

import "github.com/declmig/declmig/internal/schema"

// RelationKind identifies the cardinality of a relationship declaration.
type RelationKind string

// Supported relationship kinds.
const (
	OneToOne   RelationKind = "one_to_one"
	ManyToOne  RelationKind = "many_to_one"
	ManyToMany RelationKind = "many_to_many"
)

// FieldDecl declares a plain column-backed field.
type FieldDecl struct {
	Name       string
	Type       schema.Type
	PrimaryKey bool
	Unique     bool
	Optional   bool
	// Default is a raw SQL fragment used as the column default. It must
	// be supplied when a non-nullable field is added to a table that
	// may already contain rows.
	Default string
}

// RelationDecl declares a relationship carried by the declaring table.
//
// For OneToOne and ManyToOne the declaring side owns the foreign key
// column named after Field. For ManyToMany the declaring side owns the
// join table; Field names both the accessor and the join table suffix.
type RelationDecl struct {
	Kind   RelationKind
	Field  string
	Target string // declared type name of the other side
	// MappedBy is the reverse accessor name on the target side. It does
	// not influence the generated schema.
	MappedBy string
	// Attribute is the enum type name of the extra per-edge attribute,
	// ManyToMany only.
	Attribute string
	// Optional makes the foreign key column nullable. OneToOne and
	// ManyToOne only.
	Optional bool
}

// TableDecl declares one table.
type TableDecl struct {
	TypeName  string
	Fields    []FieldDecl
	Relations []RelationDecl
}

// EnumDecl declares an enumerable type.
type EnumDecl struct {
	TypeName string
	Variants []string
}

// TableName returns the table name this declaration maps to.
func (d TableDecl) TableName() string {
	return TableName(d.TypeName)
}

// primaryKeyField returns the declared primary key field, or an error
// when there are zero or several.
func (d TableDecl) primaryKeyField() (FieldDecl, error) {
	var (
		pk    FieldDecl
		found bool
	)

	for _, f := range d.Fields {
		if !f.PrimaryKey {
			continue
		}

		if found {
			return FieldDecl{}, ErrMultiplePrimaryKeys
		}

		pk = f
		found = true
	}

	if !found {
		return FieldDecl{}, ErrNoPrimaryKey
	}

	return pk, nil
}
