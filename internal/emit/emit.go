// Package emit translates atomic schema operations into forward and
// backward PostgreSQL statements. Every operation has one up statement
// and one exact structural inverse; statement text is fully determined
// by the operation's data.
package emit

import (
	"fmt"
	"strings"

	"github.com/declmig/declmig/internal/diff"
	"github.com/declmig/declmig/internal/schema"
)

// DefaultPlaceholder marks a generated default the operator must edit
// before the migration is usable. Adding a non-nullable column without
// a declared default is a deliberate human checkpoint, not an error:
// left unedited, the statement fails at the database with a
// not-null violation as soon as the table holds rows.
const DefaultPlaceholder = "/* FIXME: choose a default */"

// Statement returns the forward and backward SQL for one operation.
func Statement(op diff.Op) (up, down string) {
	switch op.Kind {
	case diff.CreateEnum:
		return createEnum(op.Enum), dropEnum(op.Enum)
	case diff.DropEnum:
		return dropEnum(op.Enum), createEnum(op.Enum)
	case diff.CreateTable:
		return createTable(op.Table), dropTable(op.Table)
	case diff.DropTable:
		return dropTable(op.Table), createTable(op.Table)
	case diff.AddColumn:
		return addColumn(op.TableName, op.Column), dropColumn(op.TableName, op.Column)
	case diff.DropColumn:
		return dropColumn(op.TableName, op.Column), addColumn(op.TableName, op.Column)
	case diff.AlterColumnType:
		return alterType(op.TableName, op.Column), alterType(op.TableName, op.OldColumn)
	case diff.AlterColumnNullability:
		return alterNullability(op.TableName, op.Column), alterNullability(op.TableName, op.OldColumn)
	case diff.AddUnique:
		return addUnique(op.TableName, op.Columns), dropConstraint(op.TableName, uniqueName(op.TableName, op.Columns))
	case diff.DropUnique:
		return dropConstraint(op.TableName, uniqueName(op.TableName, op.Columns)), addUnique(op.TableName, op.Columns)
	case diff.AddForeignKey:
		return addForeignKey(op.TableName, op.FK), dropConstraint(op.TableName, fkName(op.TableName, op.FK.Column))
	case diff.DropForeignKey:
		return dropConstraint(op.TableName, fkName(op.TableName, op.FK.Column)), addForeignKey(op.TableName, op.FK)
	}

	return "", ""
}

// Render produces the full up and down scripts for an ordered operation
// sequence. Down statements run in reverse operation order so that
// applying up.sql then down.sql returns to the starting structure.
func Render(ops []diff.Op) (upSQL, downSQL string) {
	ups := make([]string, 0, len(ops))
	downs := make([]string, 0, len(ops))

	for _, op := range ops {
		up, down := Statement(op)
		ups = append(ups, up)
		downs = append(downs, down)
	}

	for i, j := 0, len(downs)-1; i < j; i, j = i+1, j-1 {
		downs[i], downs[j] = downs[j], downs[i]
	}

	return strings.Join(ups, "\n"), strings.Join(downs, "\n")
}

func createEnum(e schema.Enum) string {
	return fmt.Sprintf("CREATE TYPE %s AS ENUM ('%s');", e.Name, strings.Join(e.Variants, "', '"))
}

func dropEnum(e schema.Enum) string {
	return fmt.Sprintf("DROP TYPE %s CASCADE;", e.Name)
}

func createTable(t schema.Table) string {
	lines := make([]string, 0, len(t.Columns)+len(t.Uniques))

	for _, c := range t.Columns {
		lines = append(lines, columnDef(t, c))
	}

	for _, u := range t.Uniques {
		lines = append(lines, fmt.Sprintf("UNIQUE (%s)", strings.Join(u, ", ")))
	}

	return fmt.Sprintf("CREATE TABLE %s (\n    %s\n);", t.Name, strings.Join(lines, ",\n    "))
}

func dropTable(t schema.Table) string {
	return fmt.Sprintf("DROP TABLE %s CASCADE;", t.Name)
}

// columnDef renders one column of a CREATE TABLE, with inline primary
// key, nullability, uniqueness, default and foreign key clauses.
func columnDef(t schema.Table, c schema.Column) string {
	var b strings.Builder

	b.WriteString(c.Name)
	b.WriteByte(' ')
	b.WriteString(TypeName(c.Type))

	if c.PrimaryKey {
		b.WriteString(" PRIMARY KEY")
	} else if !c.Nullable {
		b.WriteString(" NOT NULL")
	}

	if c.Unique {
		b.WriteString(" UNIQUE")
	}

	if c.Default != "" {
		b.WriteString(" DEFAULT ")
		b.WriteString(c.Default)
	}

	if fk, ok := t.ForeignKeyOn(c.Name); ok {
		fmt.Fprintf(&b, " REFERENCES %s (%s) ON DELETE CASCADE", fk.TargetTable, fk.TargetColumn)
	}

	return b.String()
}

func addColumn(table string, c schema.Column) string {
	var b strings.Builder

	fmt.Fprintf(&b, "ALTER TABLE %s ADD COLUMN %s %s", table, c.Name, TypeName(c.Type))

	if !c.Nullable {
		b.WriteString(" NOT NULL")
	}

	if c.Unique {
		b.WriteString(" UNIQUE")
	}

	switch {
	case c.Default != "":
		fmt.Fprintf(&b, " DEFAULT %s", c.Default)
	case !c.Nullable:
		fmt.Fprintf(&b, " DEFAULT NULL %s", DefaultPlaceholder)
	}

	b.WriteByte(';')

	return b.String()
}

func dropColumn(table string, c schema.Column) string {
	return fmt.Sprintf("ALTER TABLE %s DROP COLUMN %s;", table, c.Name)
}

func alterType(table string, c schema.Column) string {
	return fmt.Sprintf("ALTER TABLE %s ALTER COLUMN %s TYPE %s;", table, c.Name, TypeName(c.Type))
}

func alterNullability(table string, c schema.Column) string {
	if c.Nullable {
		return fmt.Sprintf("ALTER TABLE %s ALTER COLUMN %s DROP NOT NULL;", table, c.Name)
	}

	return fmt.Sprintf("ALTER TABLE %s ALTER COLUMN %s SET NOT NULL;", table, c.Name)
}

func addUnique(table string, columns []string) string {
	return fmt.Sprintf("ALTER TABLE %s ADD CONSTRAINT %s UNIQUE (%s);",
		table, uniqueName(table, columns), strings.Join(columns, ", "))
}

func addForeignKey(table string, fk schema.ForeignKey) string {
	return fmt.Sprintf("ALTER TABLE %s ADD CONSTRAINT %s FOREIGN KEY (%s) REFERENCES %s (%s) ON DELETE CASCADE;",
		table, fkName(table, fk.Column), fk.Column, fk.TargetTable, fk.TargetColumn)
}

func dropConstraint(table, name string) string {
	return fmt.Sprintf("ALTER TABLE %s DROP CONSTRAINT %s;", table, name)
}

// uniqueName and fkName follow the PostgreSQL naming convention so
// generated drops match the constraints generated creates produce.
func uniqueName(table string, columns []string) string {
	return table + "_" + strings.Join(columns, "_") + "_key"
}

func fkName(table, column string) string {
	return table + "_" + column + "_fkey"
}
