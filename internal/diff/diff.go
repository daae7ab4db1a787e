// Package diff computes the ordered list of atomic schema operations
// transforming one schema model into another. It is a stateless pure
// function over two models; the SQL emitter turns its output into
// forward and backward statements.
//
// There is no rename detection: a table that was renamed appears as a
// drop of the old name and a create of the new name, and the operator
// is expected to hand-edit the generated SQL when data must survive.
package diff

import "github.com/declmig/declmig/internal/schema"

// Kind identifies an atomic schema operation.
type Kind string

// Atomic operation kinds, in the rough order they appear in a diff.
const (
	CreateEnum             Kind = "create_enum"
	CreateTable            Kind = "create_table"
	AddColumn              Kind = "add_column"
	DropColumn             Kind = "drop_column"
	AlterColumnType        Kind = "alter_column_type"
	AlterColumnNullability Kind = "alter_column_nullability"
	AddUnique              Kind = "add_unique"
	DropUnique             Kind = "drop_unique"
	AddForeignKey          Kind = "add_foreign_key"
	DropForeignKey         Kind = "drop_foreign_key"
	DropTable              Kind = "drop_table"
	DropEnum               Kind = "drop_enum"
)

// Op is one atomic schema operation. Which fields are meaningful
// depends on Kind; Table carries the full definition for CreateTable
// and DropTable so the emitter can render both directions.
type Op struct {
	Kind      Kind
	Enum      schema.Enum       // CreateEnum, DropEnum
	Table     schema.Table      // CreateTable, DropTable
	TableName string            // all column and constraint operations
	Column    schema.Column     // Add/DropColumn; new state for Alter*
	OldColumn schema.Column     // previous state for Alter*
	Columns   []string          // Add/DropUnique constraint columns
	FK        schema.ForeignKey // Add/DropForeignKey
}

// Compute returns the operations transforming old into new. Creations
// are topologically ordered so referenced tables exist before their
// dependents; drops run in reverse. Column and constraint alterations
// sit between all creations and all drops.
func Compute(old, new schema.Model) []Op {
	var creates, alters, drops []Op

	for _, name := range new.EnumNames() {
		if _, ok := old.Enums[name]; !ok {
			creates = append(creates, Op{Kind: CreateEnum, Enum: new.Enums[name]})
		}
	}

	created, dropped, common := partitionTables(old, new)

	for _, name := range orderTables(new, created) {
		creates = append(creates, Op{Kind: CreateTable, Table: new.Tables[name]})
	}

	for _, name := range common {
		alters = append(alters, diffTable(old.Tables[name], new.Tables[name])...)
	}

	ordered := orderTables(old, dropped)
	for i := len(ordered) - 1; i >= 0; i-- {
		drops = append(drops, Op{Kind: DropTable, Table: old.Tables[ordered[i]]})
	}

	for _, name := range old.EnumNames() {
		if _, ok := new.Enums[name]; !ok {
			drops = append(drops, Op{Kind: DropEnum, Enum: old.Enums[name]})
			continue
		}

		// Variant changes cannot be expressed in place; the old type is
		// dropped and the new one created before any other creation, so
		// tables created later see the new definition. CASCADE takes
		// existing dependent columns with it and the operator reconciles.
		if !sameVariants(old.Enums[name], new.Enums[name]) {
			creates = append([]Op{
				{Kind: DropEnum, Enum: old.Enums[name]},
				{Kind: CreateEnum, Enum: new.Enums[name]},
			}, creates...)
		}
	}

	ops := make([]Op, 0, len(creates)+len(alters)+len(drops))
	ops = append(ops, creates...)
	ops = append(ops, alters...)
	ops = append(ops, drops...)

	return ops
}

// partitionTables splits table names into created, dropped and common
// sets, each sorted by name.
func partitionTables(old, new schema.Model) (created, dropped, common []string) {
	for _, name := range new.TableNames() {
		if _, ok := old.Tables[name]; ok {
			common = append(common, name)
		} else {
			created = append(created, name)
		}
	}

	for _, name := range old.TableNames() {
		if _, ok := new.Tables[name]; !ok {
			dropped = append(dropped, name)
		}
	}

	return created, dropped, common
}

func sameVariants(a, b schema.Enum) bool {
	if len(a.Variants) != len(b.Variants) {
		return false
	}

	for i := range a.Variants {
		if a.Variants[i] != b.Variants[i] {
			return false
		}
	}

	return true
}
