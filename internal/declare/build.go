package declare

import (
	"fmt"

	"github.com/declmig/declmig/internal/schema"
)

// Build validates a declaration set and expands it into a schema model.
// Relationship declarations become foreign key columns or join tables;
// the result is deterministic, so the same declarations always serialize
// to byte-identical output.
func Build(tables []TableDecl, enums []EnumDecl) (schema.Model, error) {
	model := schema.NewModel()

	for _, e := range enums {
		name := EnumName(e.TypeName)
		if _, ok := model.Enums[name]; ok {
			return schema.Model{}, fmt.Errorf("enum %s: %w", e.TypeName, ErrDuplicateEnum)
		}

		model.Enums[name] = schema.Enum{Name: name, Variants: e.Variants}
	}

	// Table names must be resolvable before relations are expanded, so
	// declarations are indexed in a first pass.
	byType := make(map[string]TableDecl, len(tables))

	for _, d := range tables {
		if _, ok := byType[d.TypeName]; ok {
			return schema.Model{}, fmt.Errorf("table %s: %w", d.TypeName, ErrDuplicateTable)
		}

		byType[d.TypeName] = d
	}

	for _, d := range tables {
		t, err := buildTable(d, model)
		if err != nil {
			return schema.Model{}, fmt.Errorf("table %s: %w", d.TypeName, err)
		}

		model.Tables[t.Name] = t
	}

	for _, d := range tables {
		if err := expandRelations(d, byType, &model); err != nil {
			return schema.Model{}, fmt.Errorf("table %s: %w", d.TypeName, err)
		}
	}

	return model, nil
}

// buildTable converts the plain fields of one declaration into a table.
func buildTable(d TableDecl, model schema.Model) (schema.Table, error) {
	if _, err := d.primaryKeyField(); err != nil {
		return schema.Table{}, err
	}

	t := schema.Table{Name: d.TableName()}
	seen := make(map[string]bool)

	for _, f := range d.Fields {
		if seen[f.Name] {
			return schema.Table{}, fmt.Errorf("column %s: %w", f.Name, ErrDuplicateColumn)
		}

		seen[f.Name] = true

		if enum, ok := f.Type.EnumName(); ok {
			if _, declared := model.Enums[enum]; !declared {
				return schema.Table{}, fmt.Errorf("column %s references %s: %w", f.Name, enum, ErrUnknownEnum)
			}
		}

		t.Columns = append(t.Columns, schema.Column{
			Name:       f.Name,
			Type:       f.Type,
			Nullable:   f.Optional,
			PrimaryKey: f.PrimaryKey,
			Unique:     f.Unique,
			Default:    f.Default,
		})
	}

	return t, nil
}

// expandRelations adds foreign key columns and join tables for the
// relationship declarations of one table.
func expandRelations(d TableDecl, byType map[string]TableDecl, model *schema.Model) error {
	owner := model.Tables[d.TableName()]

	for _, r := range d.Relations {
		target, ok := byType[r.Target]
		if !ok {
			return fmt.Errorf("relation %s targets %s: %w", r.Field, r.Target, ErrUnknownRelationTarget)
		}

		targetPK, err := target.primaryKeyField()
		if err != nil {
			return fmt.Errorf("relation %s: %w", r.Field, err)
		}

		switch r.Kind {
		case OneToOne, ManyToOne:
			if _, dup := owner.Column(r.Field); dup {
				return fmt.Errorf("relation %s: %w", r.Field, ErrDuplicateColumn)
			}

			owner.Columns = append(owner.Columns, schema.Column{
				Name:     r.Field,
				Type:     schema.TypeInteger,
				Nullable: r.Optional,
				Unique:   r.Kind == OneToOne,
			})
			owner.ForeignKeys = append(owner.ForeignKeys, schema.ForeignKey{
				Column:       r.Field,
				TargetTable:  target.TableName(),
				TargetColumn: targetPK.Name,
			})

		case ManyToMany:
			join, err := buildJoinTable(d, r, target, targetPK, *model)
			if err != nil {
				return err
			}

			if _, dup := model.Tables[join.Name]; dup {
				return fmt.Errorf("join table %s: %w", join.Name, ErrDuplicateTable)
			}

			model.Tables[join.Name] = join
		}
	}

	model.Tables[owner.Name] = owner

	return nil
}

// buildJoinTable creates the dedicated table hosting a many-to-many
// edge: two foreign key columns under a composite unique constraint,
// plus one column per extra attribute.
func buildJoinTable(
	d TableDecl,
	r RelationDecl,
	target TableDecl,
	targetPK FieldDecl,
	model schema.Model,
) (schema.Table, error) {
	ownerTable := d.TableName()
	ownerPK, _ := d.primaryKeyField() // validated in buildTable

	ownerCol := ownerTable + "_id"
	targetCol := r.Field + "_id"

	join := schema.Table{
		Name: JoinTableName(ownerTable, r.Field),
		Columns: []schema.Column{
			{Name: "id", Type: schema.TypeSerial, PrimaryKey: true},
			{Name: ownerCol, Type: schema.TypeInteger},
			{Name: targetCol, Type: schema.TypeInteger},
		},
		ForeignKeys: []schema.ForeignKey{
			{Column: ownerCol, TargetTable: ownerTable, TargetColumn: ownerPK.Name},
			{Column: targetCol, TargetTable: target.TableName(), TargetColumn: targetPK.Name},
		},
		Uniques: [][]string{{ownerCol, targetCol}},
	}

	if r.Attribute != "" {
		enum := EnumName(r.Attribute)
		if _, ok := model.Enums[enum]; !ok {
			return schema.Table{}, fmt.Errorf("relation %s attribute %s: %w", r.Field, r.Attribute, ErrAttributeNotEnum)
		}

		join.Columns = append(join.Columns, schema.Column{
			Name: enum,
			Type: schema.EnumType(enum),
		})
	}

	return join, nil
}
